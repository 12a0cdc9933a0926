package repositories

import (
	"testing"

	"fleet-backend/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
)

func newMockDB(t *testing.T) (sqlmock.Sqlmock, BookingRepository, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	return mock, BookingRepository{DB: db}, func() { db.Close() }
}

func TestGetByIDNotFound(t *testing.T) {
	mock, repo, done := newMockDB(t)
	defer done()

	mock.ExpectQuery("FROM booking_applications").WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetByID(99)
	if !domain.IsNotFound(err) {
		t.Fatalf("want NotFoundError, got %v", err)
	}
}

func TestGetByIDRejectsBadID(t *testing.T) {
	_, repo, done := newMockDB(t)
	defer done()

	if _, err := repo.GetByID(0); !domain.IsValidation(err) {
		t.Fatalf("want ValidationError, got %v", err)
	}
}

func TestCountOverlappingApprovedArgs(t *testing.T) {
	mock, repo, done := newMockDB(t)
	defer done()

	// Overlap predicate: trip_start < requested end AND trip_end > requested
	// start, excluding the record being re-approved.
	mock.ExpectQuery("SELECT COUNT").
		WithArgs(int64(9), int64(4), "2026-03-02 17:00:00", "2026-03-02 08:00:00").
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(2))

	n, err := repo.CountOverlappingApproved(9, "2026-03-02 08:00:00", "2026-03-02 17:00:00", 4)
	if err != nil {
		t.Fatalf("count error: %v", err)
	}
	if n != 2 {
		t.Fatalf("got %d, want 2", n)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCancelMissingRecord(t *testing.T) {
	mock, repo, done := newMockDB(t)
	defer done()

	mock.ExpectExec("UPDATE booking_applications").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.Cancel(99, "alasan", "2026-03-02 12:00:00"); !domain.IsNotFound(err) {
		t.Fatalf("want NotFoundError, got %v", err)
	}
}
