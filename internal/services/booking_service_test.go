package services

import (
	"testing"

	"fleet-backend/internal/domain"
	"fleet-backend/internal/domain/models"
	"fleet-backend/internal/repositories"

	"github.com/DATA-DOG/go-sqlmock"
)

var bookingCols = []string{
	"id", "requestor_name", "ramco_id", "contact", "department_id", "location_id",
	"booking_type", "driver_ramco_id", "vehicle_type_id", "trip_start", "trip_end",
	"destination", "purpose", "need_fleetcard", "need_tng", "need_smarttag",
	"need_driver", "passengers", "approval_stat", "approved_by", "approved_at",
	"reject_reason", "pcar_cancel", "cancel_reason", "cancelled_at",
	"vehicle_asset_id", "fleetcard_id", "tng_id", "smarttag_serial",
	"returned_at", "odometer_end", "created_at", "updated_at",
}

func flag(b bool) int {
	if b {
		return 1
	}
	return 0
}

func bookingRows(list ...models.BookingApplication) *sqlmock.Rows {
	rows := sqlmock.NewRows(bookingCols)
	for _, b := range list {
		rows.AddRow(
			b.ID, b.RequestorName, b.RamcoID, b.Contact, b.DepartmentID, b.LocationID,
			b.BookingType, b.DriverRamcoID, b.VehicleTypeID, b.TripStart, b.TripEnd,
			b.Destination, b.Purpose, flag(b.NeedFleetcard), flag(b.NeedTouchNGo), flag(b.NeedSmartTag),
			flag(b.NeedDriver), b.Passengers, b.ApprovalStat, b.ApprovedBy, b.ApprovedAt,
			b.RejectReason, flag(b.Cancelled), b.CancelReason, b.CancelledAt,
			b.VehicleAssetID, b.FleetcardID, b.TouchNGoID, b.SmartTagSerial,
			b.ReturnedAt, b.OdometerEnd, b.CreatedAt, b.UpdatedAt,
		)
	}
	return rows
}

func pendingBooking() models.BookingApplication {
	return models.BookingApplication{
		ID:            1,
		RequestorName: "Tester",
		RamcoID:       "R001",
		BookingType:   models.BookingTypeOwn,
		VehicleTypeID: models.VehicleTypeSedan,
		TripStart:     "2026-03-02 08:00:00",
		TripEnd:       "2026-03-02 17:00:00",
		Destination:   "Putrajaya",
	}
}

func approvedBooking() models.BookingApplication {
	b := pendingBooking()
	b.ApprovalStat = models.ApprovalApproved
	b.VehicleAssetID = 9
	b.ApprovedBy = "ADM1"
	b.ApprovedAt = "2026-03-01 10:00:00"
	return b
}

func newBookingService(t *testing.T) (BookingService, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	svc := BookingService{
		BookingRepo: repositories.BookingRepository{DB: db},
		VehicleRepo: repositories.VehicleRepository{DB: db},
		DraftSvc:    DraftService{Repo: repositories.DraftRepository{DB: db}},
	}
	return svc, mock, func() { db.Close() }
}

func TestSubmitStoresPendingAndClearsDraft(t *testing.T) {
	svc, mock, done := newBookingService(t)
	defer done()

	mock.ExpectExec("INSERT INTO booking_applications").
		WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectExec("DELETE FROM booking_drafts").
		WillReturnResult(sqlmock.NewResult(0, 1))

	stored := pendingBooking()
	stored.ID = 7
	stored.Passengers = "R002"
	mock.ExpectQuery("FROM booking_applications").WithArgs(int64(7)).
		WillReturnRows(bookingRows(stored))

	sub := BookingSubmission{
		BookingApplication: pendingBooking(),
		PassengerIDs:       []string{"R002"},
		Agreement:          true,
	}
	view, err := svc.Submit(sub)
	if err != nil {
		t.Fatalf("submit error: %v", err)
	}
	if view.Status != models.StatusPending {
		t.Fatalf("status after submit: got %q, want pending", view.Status)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRecordReturnRequiresApproved(t *testing.T) {
	svc, mock, done := newBookingService(t)
	defer done()

	mock.ExpectQuery("FROM booking_applications").WithArgs(int64(1)).
		WillReturnRows(bookingRows(pendingBooking()))

	_, err := svc.RecordReturn(1, ReturnDetails{ReturnedAt: "2026-03-02 18:00:00", OdometerEnd: 1200})
	if !domain.IsState(err) {
		t.Fatalf("return on pending: want StateError, got %v", err)
	}
}

func TestRecordReturnOnce(t *testing.T) {
	svc, mock, done := newBookingService(t)
	defer done()

	mock.ExpectQuery("FROM booking_applications").WithArgs(int64(1)).
		WillReturnRows(bookingRows(approvedBooking()))
	mock.ExpectExec("UPDATE booking_applications").
		WillReturnResult(sqlmock.NewResult(0, 1))

	returned := approvedBooking()
	returned.ReturnedAt = "2026-03-02 18:00:00"
	returned.OdometerEnd = 1200
	mock.ExpectQuery("FROM booking_applications").WithArgs(int64(1)).
		WillReturnRows(bookingRows(returned))

	view, err := svc.RecordReturn(1, ReturnDetails{ReturnedAt: "2026-03-02 18:00:00", OdometerEnd: 1200})
	if err != nil {
		t.Fatalf("return error: %v", err)
	}
	if view.Status != models.StatusReturned {
		t.Fatalf("status after return: got %q, want returned", view.Status)
	}

	// Second attempt on the same record is blocked.
	mock.ExpectQuery("FROM booking_applications").WithArgs(int64(1)).
		WillReturnRows(bookingRows(returned))
	if _, err := svc.RecordReturn(1, ReturnDetails{ReturnedAt: "2026-03-02 19:00:00", OdometerEnd: 1300}); !domain.IsState(err) {
		t.Fatalf("second return: want StateError, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCancelOverridesApproved(t *testing.T) {
	svc, mock, done := newBookingService(t)
	defer done()

	mock.ExpectQuery("FROM booking_applications").WithArgs(int64(1)).
		WillReturnRows(bookingRows(approvedBooking()))
	mock.ExpectExec("UPDATE booking_applications").
		WillReturnResult(sqlmock.NewResult(0, 1))

	cancelled := approvedBooking()
	cancelled.Cancelled = true
	cancelled.CancelReason = "trip dibatalkan"
	mock.ExpectQuery("FROM booking_applications").WithArgs(int64(1)).
		WillReturnRows(bookingRows(cancelled))

	view, err := svc.Cancel(1, "R001", "trip dibatalkan", true)
	if err != nil {
		t.Fatalf("cancel error: %v", err)
	}
	if view.Status != models.StatusCancelled {
		t.Fatalf("status after cancel: got %q, want cancelled", view.Status)
	}
}

func TestCancelGuards(t *testing.T) {
	svc, mock, done := newBookingService(t)
	defer done()

	cancelled := pendingBooking()
	cancelled.Cancelled = true
	mock.ExpectQuery("FROM booking_applications").WithArgs(int64(1)).
		WillReturnRows(bookingRows(cancelled))
	if _, err := svc.Cancel(1, "R001", "alasan", true); !domain.IsState(err) {
		t.Fatalf("cancel twice: want StateError, got %v", err)
	}

	rejected := pendingBooking()
	rejected.ApprovalStat = models.ApprovalRejected
	mock.ExpectQuery("FROM booking_applications").WithArgs(int64(1)).
		WillReturnRows(bookingRows(rejected))
	if _, err := svc.Cancel(1, "R001", "alasan", true); !domain.IsState(err) {
		t.Fatalf("cancel rejected: want StateError, got %v", err)
	}

	mock.ExpectQuery("FROM booking_applications").WithArgs(int64(1)).
		WillReturnRows(bookingRows(pendingBooking()))
	if _, err := svc.Cancel(1, "R999", "alasan", true); !domain.IsValidation(err) {
		t.Fatalf("cancel by stranger: want ValidationError, got %v", err)
	}

	mock.ExpectQuery("FROM booking_applications").WithArgs(int64(1)).
		WillReturnRows(bookingRows(pendingBooking()))
	if _, err := svc.Cancel(1, "R001", "alasan", false); !domain.IsValidation(err) {
		t.Fatalf("cancel unconfirmed: want ValidationError, got %v", err)
	}

	mock.ExpectQuery("FROM booking_applications").WithArgs(int64(1)).
		WillReturnRows(bookingRows(pendingBooking()))
	if _, err := svc.Cancel(1, "R001", "  ", true); !domain.IsValidation(err) {
		t.Fatalf("cancel without reason: want ValidationError, got %v", err)
	}
}

func TestAdminDecideLockedStates(t *testing.T) {
	svc, mock, done := newBookingService(t)
	defer done()

	cancelled := pendingBooking()
	cancelled.Cancelled = true
	mock.ExpectQuery("FROM booking_applications").WithArgs(int64(1)).
		WillReturnRows(bookingRows(cancelled))
	if _, err := svc.AdminDecide(1, AdminDecision{Approve: true, VehicleAssetID: 9}); !domain.IsState(err) {
		t.Fatalf("decide on cancelled: want StateError, got %v", err)
	}

	rejected := pendingBooking()
	rejected.ApprovalStat = models.ApprovalRejected
	mock.ExpectQuery("FROM booking_applications").WithArgs(int64(1)).
		WillReturnRows(bookingRows(rejected))
	if _, err := svc.AdminDecide(1, AdminDecision{Approve: true, VehicleAssetID: 9}); !domain.IsState(err) {
		t.Fatalf("decide on rejected: want StateError, got %v", err)
	}
}

func TestAdminRejectNeedsReason(t *testing.T) {
	svc, mock, done := newBookingService(t)
	defer done()

	mock.ExpectQuery("FROM booking_applications").WithArgs(int64(1)).
		WillReturnRows(bookingRows(pendingBooking()))

	if _, err := svc.AdminDecide(1, AdminDecision{Approve: false}); !domain.IsValidation(err) {
		t.Fatalf("reject without reason: want ValidationError, got %v", err)
	}
}

var vehicleCols = []string{"id", "asset_code", "plate_number", "vehicle_type_id", "is_pool", "location_id"}

func TestAdminApproveConflictingWindow(t *testing.T) {
	svc, mock, done := newBookingService(t)
	defer done()

	mock.ExpectQuery("FROM booking_applications").WithArgs(int64(1)).
		WillReturnRows(bookingRows(pendingBooking()))
	mock.ExpectQuery("FROM vehicles").WithArgs(int64(9)).
		WillReturnRows(sqlmock.NewRows(vehicleCols).AddRow(9, "VH-009", "WXY 1234", models.VehicleTypeSedan, 1, 1))
	mock.ExpectQuery("SELECT COUNT").
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(1))

	_, err := svc.AdminDecide(1, AdminDecision{Approve: true, VehicleAssetID: 9, Actor: "ADM1"})
	if !domain.IsConflict(err) {
		t.Fatalf("busy vehicle: want ConflictError, got %v", err)
	}
}

func TestAdminApprove(t *testing.T) {
	svc, mock, done := newBookingService(t)
	defer done()

	needsCard := pendingBooking()
	needsCard.NeedFleetcard = true
	mock.ExpectQuery("FROM booking_applications").WithArgs(int64(1)).
		WillReturnRows(bookingRows(needsCard))

	// Fleetcard requested but not assigned.
	if _, err := svc.AdminDecide(1, AdminDecision{Approve: true, VehicleAssetID: 9}); !domain.IsValidation(err) {
		t.Fatalf("missing fleetcard: want ValidationError, got %v", err)
	}

	mock.ExpectQuery("FROM booking_applications").WithArgs(int64(1)).
		WillReturnRows(bookingRows(pendingBooking()))
	mock.ExpectQuery("FROM vehicles").WithArgs(int64(9)).
		WillReturnRows(sqlmock.NewRows(vehicleCols).AddRow(9, "VH-009", "WXY 1234", models.VehicleTypeSedan, 1, 1))
	mock.ExpectQuery("SELECT COUNT").
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(0))
	mock.ExpectExec("UPDATE booking_applications").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("FROM booking_applications").WithArgs(int64(1)).
		WillReturnRows(bookingRows(approvedBooking()))

	view, err := svc.AdminDecide(1, AdminDecision{Approve: true, VehicleAssetID: 9, Actor: "ADM1"})
	if err != nil {
		t.Fatalf("approve error: %v", err)
	}
	if view.Status != models.StatusApproved {
		t.Fatalf("status after approve: got %q, want approved", view.Status)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestListStatusFilterPaginatesAfterProjection(t *testing.T) {
	svc, mock, done := newBookingService(t)
	defer done()

	var all []models.BookingApplication
	for id := int64(5); id >= 1; id-- {
		b := pendingBooking()
		b.ID = id
		if id%2 == 1 {
			b.ApprovalStat = models.ApprovalApproved
			b.VehicleAssetID = 9
		}
		all = append(all, b)
	}

	// Page two of the approved bookings (ids 5, 3, 1) must hold id 3: the
	// status filter runs before pagination, never on a pre-cut page.
	mock.ExpectQuery("FROM booking_applications").
		WillReturnRows(bookingRows(all...))

	filter := repositories.ListFilter{Page: 2, Limit: 1}
	list, err := svc.List(filter, models.StatusApproved)
	if err != nil {
		t.Fatalf("list error: %v", err)
	}
	if len(list) != 1 || list[0].ID != 3 {
		t.Fatalf("page 2: got %d rows (first id %v), want one row with id 3", len(list), list)
	}

	// A page past the filtered result set is empty, not an error.
	mock.ExpectQuery("FROM booking_applications").
		WillReturnRows(bookingRows(all...))
	list, err = svc.List(repositories.ListFilter{Page: 9, Limit: 2}, models.StatusApproved)
	if err != nil {
		t.Fatalf("list error: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("past-end page: got %d rows, want none", len(list))
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUpdateOnlyWhilePending(t *testing.T) {
	svc, mock, done := newBookingService(t)
	defer done()

	mock.ExpectQuery("FROM booking_applications").WithArgs(int64(1)).
		WillReturnRows(bookingRows(approvedBooking()))

	sub := BookingSubmission{BookingApplication: pendingBooking()}
	if _, err := svc.Update(1, sub); !domain.IsState(err) {
		t.Fatalf("update approved: want StateError, got %v", err)
	}
}
