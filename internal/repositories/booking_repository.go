package repositories

import (
	"database/sql"
	"strings"

	intconfig "fleet-backend/internal/config"
	"fleet-backend/internal/domain"
	"fleet-backend/internal/domain/models"
)

// BookingRepository persists booking_applications rows. Datetime columns are
// read back through DATE_FORMAT so every value leaves the DB already in the
// "YYYY-MM-DD HH:MM:SS" wire convention.
type BookingRepository struct {
	DB *sql.DB
}

func (r BookingRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

const bookingSelect = `
	SELECT
		id,
		COALESCE(requestor_name,''),
		COALESCE(ramco_id,''),
		COALESCE(contact,''),
		COALESCE(department_id,0),
		COALESCE(location_id,0),
		COALESCE(booking_type,''),
		COALESCE(driver_ramco_id,''),
		COALESCE(vehicle_type_id,0),
		COALESCE(DATE_FORMAT(trip_start,'%Y-%m-%d %H:%i:%s'),''),
		COALESCE(DATE_FORMAT(trip_end,'%Y-%m-%d %H:%i:%s'),''),
		COALESCE(destination,''),
		COALESCE(purpose,''),
		COALESCE(need_fleetcard,0),
		COALESCE(need_tng,0),
		COALESCE(need_smarttag,0),
		COALESCE(need_driver,0),
		COALESCE(passengers,''),
		COALESCE(approval_stat,0),
		COALESCE(approved_by,''),
		COALESCE(DATE_FORMAT(approved_at,'%Y-%m-%d %H:%i:%s'),''),
		COALESCE(reject_reason,''),
		COALESCE(pcar_cancel,0),
		COALESCE(cancel_reason,''),
		COALESCE(DATE_FORMAT(cancelled_at,'%Y-%m-%d %H:%i:%s'),''),
		COALESCE(vehicle_asset_id,0),
		COALESCE(fleetcard_id,0),
		COALESCE(tng_id,0),
		COALESCE(smarttag_serial,''),
		COALESCE(DATE_FORMAT(returned_at,'%Y-%m-%d %H:%i:%s'),''),
		COALESCE(odometer_end,0),
		COALESCE(DATE_FORMAT(created_at,'%Y-%m-%d %H:%i:%s'),''),
		COALESCE(DATE_FORMAT(updated_at,'%Y-%m-%d %H:%i:%s'),'')
	FROM booking_applications
`

func scanBooking(row interface{ Scan(...any) error }) (models.BookingApplication, error) {
	var b models.BookingApplication
	var needFC, needTNG, needST, needDrv, cancelled int
	err := row.Scan(
		&b.ID,
		&b.RequestorName,
		&b.RamcoID,
		&b.Contact,
		&b.DepartmentID,
		&b.LocationID,
		&b.BookingType,
		&b.DriverRamcoID,
		&b.VehicleTypeID,
		&b.TripStart,
		&b.TripEnd,
		&b.Destination,
		&b.Purpose,
		&needFC,
		&needTNG,
		&needST,
		&needDrv,
		&b.Passengers,
		&b.ApprovalStat,
		&b.ApprovedBy,
		&b.ApprovedAt,
		&b.RejectReason,
		&cancelled,
		&b.CancelReason,
		&b.CancelledAt,
		&b.VehicleAssetID,
		&b.FleetcardID,
		&b.TouchNGoID,
		&b.SmartTagSerial,
		&b.ReturnedAt,
		&b.OdometerEnd,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		return models.BookingApplication{}, err
	}
	b.NeedFleetcard = needFC != 0
	b.NeedTouchNGo = needTNG != 0
	b.NeedSmartTag = needST != 0
	b.NeedDriver = needDrv != 0
	b.Cancelled = cancelled != 0
	return b, nil
}

func (r BookingRepository) GetByID(id int64) (models.BookingApplication, error) {
	if id <= 0 {
		return models.BookingApplication{}, domain.ValidationError{Field: "id", Msg: "id tidak valid"}
	}
	row := r.db().QueryRow(bookingSelect+` WHERE id=? LIMIT 1`, id)
	b, err := scanBooking(row)
	if err == sql.ErrNoRows {
		return models.BookingApplication{}, domain.NotFoundError{Resource: "booking", Err: err}
	}
	return b, err
}

// ListFilter narrows the booking list. Status filtering happens in the
// service on the projected status, not here.
type ListFilter struct {
	RamcoID string
	AssetID int64
	Page    int
	Limit   int
}

func (r BookingRepository) List(f ListFilter) ([]models.BookingApplication, error) {
	where := []string{}
	args := []any{}
	if strings.TrimSpace(f.RamcoID) != "" {
		where = append(where, "ramco_id=?")
		args = append(args, strings.TrimSpace(f.RamcoID))
	}
	if f.AssetID > 0 {
		where = append(where, "vehicle_asset_id=?")
		args = append(args, f.AssetID)
	}

	query := bookingSelect
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY id DESC"

	if f.Page > 0 && f.Limit > 0 {
		limit := f.Limit
		if limit > 200 {
			limit = 200
		}
		query += " LIMIT ? OFFSET ?"
		args = append(args, limit, (f.Page-1)*limit)
	}

	rows, err := r.db().Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []models.BookingApplication{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, b)
	}
	return list, rows.Err()
}

// Insert stores a freshly submitted application (always Pending).
func (r BookingRepository) Insert(b models.BookingApplication) (int64, error) {
	res, err := r.db().Exec(`
		INSERT INTO booking_applications
			(requestor_name, ramco_id, contact, department_id, location_id,
			 booking_type, driver_ramco_id, vehicle_type_id,
			 trip_start, trip_end, destination, purpose,
			 need_fleetcard, need_tng, need_smarttag, need_driver,
			 passengers, approval_stat, pcar_cancel, created_at, updated_at)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,0,0,NOW(),NOW())
	`,
		b.RequestorName, b.RamcoID, b.Contact, b.DepartmentID, b.LocationID,
		b.BookingType, nullIfBlank(b.DriverRamcoID), b.VehicleTypeID,
		b.TripStart, b.TripEnd, b.Destination, b.Purpose,
		boolToInt(b.NeedFleetcard), boolToInt(b.NeedTouchNGo), boolToInt(b.NeedSmartTag), boolToInt(b.NeedDriver),
		b.Passengers,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// UpdateGeneral rewrites the requestor-editable fields. The service guards
// that the record is still Pending before calling this.
func (r BookingRepository) UpdateGeneral(b models.BookingApplication) error {
	res, err := r.db().Exec(`
		UPDATE booking_applications
		SET booking_type=?, driver_ramco_id=?, vehicle_type_id=?,
		    trip_start=?, trip_end=?, destination=?, purpose=?,
		    need_fleetcard=?, need_tng=?, need_smarttag=?, need_driver=?,
		    passengers=?, updated_at=NOW()
		WHERE id=?
	`,
		b.BookingType, nullIfBlank(b.DriverRamcoID), b.VehicleTypeID,
		b.TripStart, b.TripEnd, b.Destination, b.Purpose,
		boolToInt(b.NeedFleetcard), boolToInt(b.NeedTouchNGo), boolToInt(b.NeedSmartTag), boolToInt(b.NeedDriver),
		b.Passengers, b.ID,
	)
	if err != nil {
		return err
	}
	return requireAffected(res, "booking")
}

// Approve records the assignment bundle and flips approval_stat to approved.
func (r BookingRepository) Approve(id int64, vehicleID, fleetcardID, tngID int64, smartTag, approvedBy, approvedAt string) error {
	res, err := r.db().Exec(`
		UPDATE booking_applications
		SET approval_stat=1, reject_reason=NULL,
		    vehicle_asset_id=?, fleetcard_id=?, tng_id=?, smarttag_serial=?,
		    approved_by=?, approved_at=?, updated_at=NOW()
		WHERE id=?
	`, vehicleID, nullIfZero(fleetcardID), nullIfZero(tngID), nullIfBlank(smartTag), approvedBy, approvedAt, id)
	if err != nil {
		return err
	}
	return requireAffected(res, "booking")
}

// Reject records the decision and clears any prior assignment.
func (r BookingRepository) Reject(id int64, reason, rejectedBy, rejectedAt string) error {
	res, err := r.db().Exec(`
		UPDATE booking_applications
		SET approval_stat=2, reject_reason=?,
		    vehicle_asset_id=NULL, fleetcard_id=NULL, tng_id=NULL, smarttag_serial=NULL,
		    approved_by=?, approved_at=?, updated_at=NOW()
		WHERE id=?
	`, reason, rejectedBy, rejectedAt, id)
	if err != nil {
		return err
	}
	return requireAffected(res, "booking")
}

// Cancel flips the requestor cancel flag; the admin branch is untouched.
func (r BookingRepository) Cancel(id int64, reason, cancelledAt string) error {
	res, err := r.db().Exec(`
		UPDATE booking_applications
		SET pcar_cancel=1, cancel_reason=?, cancelled_at=?, updated_at=NOW()
		WHERE id=?
	`, reason, cancelledAt, id)
	if err != nil {
		return err
	}
	return requireAffected(res, "booking")
}

// RecordReturn stores the return timestamp and closing odometer.
func (r BookingRepository) RecordReturn(id int64, returnedAt string, odometerEnd int64) error {
	res, err := r.db().Exec(`
		UPDATE booking_applications
		SET returned_at=?, odometer_end=?, updated_at=NOW()
		WHERE id=?
	`, returnedAt, odometerEnd, id)
	if err != nil {
		return err
	}
	return requireAffected(res, "booking")
}

// CountOverlappingApproved counts Approved, not-cancelled, not-returned
// bookings holding the vehicle inside the window. Zero means available.
func (r BookingRepository) CountOverlappingApproved(vehicleID int64, start, end string, excludeID int64) (int, error) {
	var n int
	err := r.db().QueryRow(`
		SELECT COUNT(*)
		FROM booking_applications
		WHERE vehicle_asset_id=?
		  AND approval_stat=1
		  AND COALESCE(pcar_cancel,0)=0
		  AND returned_at IS NULL
		  AND id<>?
		  AND trip_start < ?
		  AND trip_end > ?
	`, vehicleID, excludeID, end, start).Scan(&n)
	return n, err
}

// ListOverdue returns Approved bookings whose trip window ended before the
// cutoff with no return recorded. Consumed by the nightly job.
func (r BookingRepository) ListOverdue(cutoff string) ([]models.BookingApplication, error) {
	rows, err := r.db().Query(bookingSelect+`
		WHERE approval_stat=1
		  AND COALESCE(pcar_cancel,0)=0
		  AND returned_at IS NULL
		  AND trip_end < ?
		ORDER BY trip_end ASC
	`, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []models.BookingApplication{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, b)
	}
	return list, rows.Err()
}

func requireAffected(res sql.Result, resource string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.NotFoundError{Resource: resource}
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullIfBlank(s string) any {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return s
}

func nullIfZero(n int64) any {
	if n <= 0 {
		return nil
	}
	return n
}
