package services

import (
	"database/sql"
	"strconv"
	"strings"

	intconfig "fleet-backend/internal/config"
	"fleet-backend/internal/domain"
	"fleet-backend/internal/domain/models"
	"fleet-backend/internal/repositories"
	"fleet-backend/internal/utils"
)

// BookingService owns the application lifecycle: submit, admin decision,
// requestor cancel, return recording. Every status read goes through
// models.ProjectStatus so guards and display can never drift apart.
type BookingService struct {
	BookingRepo repositories.BookingRepository
	VehicleRepo repositories.VehicleRepository
	DraftSvc    DraftService
	RequestID   string
}

func (s BookingService) db() *sql.DB {
	if s.BookingRepo.DB != nil {
		return s.BookingRepo.DB
	}
	return intconfig.DB
}

func (s BookingService) bookings() repositories.BookingRepository {
	if s.BookingRepo.DB != nil {
		return s.BookingRepo
	}
	return repositories.BookingRepository{DB: s.db()}
}

func (s BookingService) vehicles() repositories.VehicleRepository {
	if s.VehicleRepo.DB != nil {
		return s.VehicleRepo
	}
	return repositories.VehicleRepository{DB: s.db()}
}

// BookingView is the read shape: normalized record plus the projected status
// and rounded trip duration.
type BookingView struct {
	models.BookingApplication
	Status   models.Status      `json:"status"`
	Duration utils.TripDuration `json:"duration"`
}

func (s BookingService) view(b models.BookingApplication) BookingView {
	v := BookingView{BookingApplication: b, Status: models.ProjectStatus(b)}
	start, errS := utils.ParseDateTimeFlexible(b.TripStart)
	end, errE := utils.ParseDateTimeFlexible(b.TripEnd)
	if errS == nil && errE == nil {
		v.Duration = utils.CalcTripDuration(start, end)
	}
	return v
}

func (s BookingService) Get(id int64) (BookingView, error) {
	b, err := s.bookings().GetByID(id)
	if err != nil {
		return BookingView{}, err
	}
	return s.view(b), nil
}

// List applies SQL filters for ramco/asset, then the status filter on the
// projected status. Because the status is projected and not a column, a
// status-filtered list is fetched unpaged and paginated here, so every page
// fills up to the limit.
func (s BookingService) List(f repositories.ListFilter, status models.Status) ([]BookingView, error) {
	page, limit := f.Page, f.Limit
	if status != "" {
		f.Page, f.Limit = 0, 0
	}

	records, err := s.bookings().List(f)
	if err != nil {
		return nil, err
	}
	out := []BookingView{}
	for _, b := range records {
		v := s.view(b)
		if status != "" && v.Status != status {
			continue
		}
		out = append(out, v)
	}

	if status != "" && page > 0 && limit > 0 {
		if limit > 200 {
			limit = 200
		}
		offset := (page - 1) * limit
		if offset >= len(out) {
			return []BookingView{}, nil
		}
		if end := offset + limit; end < len(out) {
			out = out[offset:end]
		} else {
			out = out[offset:]
		}
	}
	return out, nil
}

// Submit validates and persists a new application (Pending), then clears the
// requestor's draft. Draft clearing is best-effort.
func (s BookingService) Submit(sub BookingSubmission) (BookingView, error) {
	if err := ValidateSubmission(sub, true); err != nil {
		return BookingView{}, err
	}

	b := sub.BookingApplication
	b.Passengers = models.MergePassengers(sub.PassengerIDs, sub.GuestNotes)
	b.ApprovalStat = models.ApprovalPending
	b.Cancelled = false

	id, err := s.bookings().Insert(b)
	if err != nil {
		return BookingView{}, domain.InternalError{Msg: "gagal menyimpan booking", Err: err}
	}

	s.DraftSvc.Clear(b.RamcoID)
	utils.LogEvent(s.RequestID, "booking", "submit", "id="+strconv.FormatInt(id, 10)+" ramco="+b.RamcoID)

	return s.Get(id)
}

// Update rewrites requestor-editable fields. Only a Pending record may be
// edited; the requestor snapshot stays immutable.
func (s BookingService) Update(id int64, sub BookingSubmission) (BookingView, error) {
	current, err := s.bookings().GetByID(id)
	if err != nil {
		return BookingView{}, err
	}
	if st := models.ProjectStatus(current); st != models.StatusPending {
		return BookingView{}, domain.StateError{Action: "update", Msg: "booking sudah diproses, tidak bisa diubah"}
	}

	if err := ValidateSubmission(sub, false); err != nil {
		return BookingView{}, err
	}

	b := current
	b.BookingType = sub.BookingType
	b.DriverRamcoID = sub.DriverRamcoID
	b.VehicleTypeID = sub.VehicleTypeID
	b.TripStart = sub.TripStart
	b.TripEnd = sub.TripEnd
	b.Destination = sub.Destination
	b.Purpose = sub.Purpose
	b.NeedFleetcard = sub.NeedFleetcard
	b.NeedTouchNGo = sub.NeedTouchNGo
	b.NeedSmartTag = sub.NeedSmartTag
	b.NeedDriver = sub.NeedDriver
	b.Passengers = models.MergePassengers(sub.PassengerIDs, sub.GuestNotes)

	if err := s.bookings().UpdateGeneral(b); err != nil {
		return BookingView{}, err
	}
	utils.LogEvent(s.RequestID, "booking", "update", "id="+strconv.FormatInt(id, 10))
	return s.Get(id)
}

// AdminDecision is the single approve/reject bundle: exactly one outcome per
// save.
type AdminDecision struct {
	Approve        bool   `json:"approve"`
	VehicleAssetID int64  `json:"vehicle_asset_id"`
	FleetcardID    int64  `json:"fleetcard_id"`
	TouchNGoID     int64  `json:"tng_id"`
	SmartTagSerial string `json:"smarttag_serial"`
	RejectReason   string `json:"reject_reason"`
	Actor          string `json:"-"`
}

// AdminDecide applies the approval or rejection. Guards: a cancelled record
// is locked, and a rejected record cannot be decided again.
func (s BookingService) AdminDecide(id int64, d AdminDecision) (BookingView, error) {
	current, err := s.bookings().GetByID(id)
	if err != nil {
		return BookingView{}, err
	}

	switch models.ProjectStatus(current) {
	case models.StatusCancelled:
		return BookingView{}, domain.StateError{Action: "admin_decide", Msg: "booking sudah dibatalkan pemohon"}
	case models.StatusRejected:
		return BookingView{}, domain.StateError{Action: "admin_decide", Msg: "booking sudah ditolak"}
	case models.StatusReturned:
		return BookingView{}, domain.StateError{Action: "admin_decide", Msg: "booking sudah selesai"}
	}

	now := utils.FormatDateTime(utils.NowLocal())

	if !d.Approve {
		if strings.TrimSpace(d.RejectReason) == "" {
			return BookingView{}, domain.ValidationError{Field: "reject_reason", Msg: "alasan penolakan wajib diisi"}
		}
		if err := s.bookings().Reject(id, strings.TrimSpace(d.RejectReason), d.Actor, now); err != nil {
			return BookingView{}, err
		}
		utils.LogEvent(s.RequestID, "booking", "reject", "id="+strconv.FormatInt(id, 10)+" by="+d.Actor)
		return s.Get(id)
	}

	if d.VehicleAssetID <= 0 {
		return BookingView{}, domain.ValidationError{Field: "vehicle_asset_id", Msg: "kendaraan wajib dipilih"}
	}
	if current.NeedFleetcard && d.FleetcardID <= 0 {
		return BookingView{}, domain.ValidationError{Field: "fleetcard_id", Msg: "fleetcard wajib dipilih untuk booking ini"}
	}

	vehicle, err := s.vehicles().GetByID(d.VehicleAssetID)
	if err != nil {
		return BookingView{}, err
	}
	if !vehicle.IsPool {
		return BookingView{}, domain.ValidationError{Field: "vehicle_asset_id", Msg: "kendaraan bukan pool"}
	}

	overlap, err := s.bookings().CountOverlappingApproved(d.VehicleAssetID, current.TripStart, current.TripEnd, id)
	if err != nil {
		return BookingView{}, domain.InternalError{Msg: "gagal cek ketersediaan kendaraan", Err: err}
	}
	if overlap > 0 {
		return BookingView{}, domain.ConflictError{Resource: "vehicle", Msg: "kendaraan sedang digunakan pada rentang waktu tersebut"}
	}

	if err := s.bookings().Approve(id, d.VehicleAssetID, d.FleetcardID, d.TouchNGoID, d.SmartTagSerial, d.Actor, now); err != nil {
		return BookingView{}, err
	}
	utils.LogEvent(s.RequestID, "booking", "approve", "id="+strconv.FormatInt(id, 10)+" vehicle="+strconv.FormatInt(d.VehicleAssetID, 10))
	return s.Get(id)
}

// Cancel is the requestor's self-service exit. Allowed while Pending or
// Approved; it overrides the admin branch and locks the record. The guard
// reads the cancel flag, not the status string, because cancellation can race
// admin review.
func (s BookingService) Cancel(id int64, ramcoID, reason string, confirmed bool) (BookingView, error) {
	current, err := s.bookings().GetByID(id)
	if err != nil {
		return BookingView{}, err
	}

	if current.Cancelled {
		return BookingView{}, domain.StateError{Action: "cancel", Msg: "booking sudah dibatalkan"}
	}
	if current.ApprovalStat == models.ApprovalRejected {
		return BookingView{}, domain.StateError{Action: "cancel", Msg: "booking sudah ditolak"}
	}
	if ramcoID != "" && current.RamcoID != ramcoID {
		return BookingView{}, domain.ValidationError{Field: "ramco_id", Msg: "hanya pemohon yang boleh membatalkan"}
	}
	if !confirmed {
		return BookingView{}, domain.ValidationError{Field: "confirmed", Msg: "konfirmasi pembatalan wajib dicentang"}
	}
	if strings.TrimSpace(reason) == "" {
		return BookingView{}, domain.ValidationError{Field: "reason", Msg: "alasan pembatalan wajib diisi"}
	}

	now := utils.FormatDateTime(utils.NowLocal())
	if err := s.bookings().Cancel(id, strings.TrimSpace(reason), now); err != nil {
		return BookingView{}, err
	}
	utils.LogEvent(s.RequestID, "booking", "cancel", "id="+strconv.FormatInt(id, 10))
	return s.Get(id)
}

// ReturnDetails closes an approved booking.
type ReturnDetails struct {
	ReturnedAt  string `json:"returned_at"`
	OdometerEnd int64  `json:"odometer_end"`
}

// RecordReturn stores return details once. Guards: record must be Approved
// with a vehicle assigned, and no prior return.
func (s BookingService) RecordReturn(id int64, det ReturnDetails) (BookingView, error) {
	current, err := s.bookings().GetByID(id)
	if err != nil {
		return BookingView{}, err
	}

	if current.HasReturn() {
		return BookingView{}, domain.StateError{Action: "return", Msg: "pengembalian sudah dicatat"}
	}
	if models.ProjectStatus(current) != models.StatusApproved {
		return BookingView{}, domain.StateError{Action: "return", Msg: "hanya booking yang disetujui yang bisa dikembalikan"}
	}
	if !current.HasAssignment() {
		return BookingView{}, domain.StateError{Action: "return", Msg: "booking belum memiliki kendaraan"}
	}

	if _, err := utils.ParseDateTimeFlexible(det.ReturnedAt); err != nil {
		return BookingView{}, domain.ValidationError{Field: "returned_at", Msg: "waktu pengembalian tidak valid"}
	}
	if det.OdometerEnd <= 0 {
		return BookingView{}, domain.ValidationError{Field: "odometer_end", Msg: "odometer wajib diisi"}
	}

	if err := s.bookings().RecordReturn(id, det.ReturnedAt, det.OdometerEnd); err != nil {
		return BookingView{}, err
	}
	utils.LogEvent(s.RequestID, "booking", "return", "id="+strconv.FormatInt(id, 10))
	return s.Get(id)
}

// VehicleAvailability annotates a pool vehicle with computed availability
// for a requested window. Informational for the picker; assignment re-checks.
type VehicleAvailability struct {
	repositories.Vehicle
	Available bool `json:"available"`
}

// Availability lists pool vehicles with their availability inside the window.
func (s BookingService) Availability(start, end string, vehicleTypeID int) ([]VehicleAvailability, error) {
	if _, err := utils.ParseDateTimeFlexible(start); err != nil {
		return nil, domain.ValidationError{Field: "start", Msg: "waktu mulai tidak valid"}
	}
	if _, err := utils.ParseDateTimeFlexible(end); err != nil {
		return nil, domain.ValidationError{Field: "end", Msg: "waktu selesai tidak valid"}
	}

	pool, err := s.vehicles().ListPool(vehicleTypeID)
	if err != nil {
		return nil, err
	}

	out := []VehicleAvailability{}
	for _, v := range pool {
		n, err := s.bookings().CountOverlappingApproved(v.ID, start, end, 0)
		if err != nil {
			return nil, domain.InternalError{Msg: "gagal cek ketersediaan kendaraan", Err: err}
		}
		out = append(out, VehicleAvailability{Vehicle: v, Available: n == 0})
	}
	return out, nil
}
