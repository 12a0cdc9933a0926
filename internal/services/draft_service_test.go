package services

import (
	"errors"
	"testing"

	"fleet-backend/internal/repositories"

	"github.com/DATA-DOG/go-sqlmock"
)

func newDraftService(t *testing.T) (DraftService, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	return DraftService{Repo: repositories.DraftRepository{DB: db}}, mock, func() { db.Close() }
}

func TestDraftKeyGuestFallback(t *testing.T) {
	if got := DraftKey("R001"); got != "R001" {
		t.Fatalf("got %q, want R001", got)
	}
	if got := DraftKey("  "); got != "guest" {
		t.Fatalf("anonymous: got %q, want guest", got)
	}
}

func TestDraftRestoreSkippedInEditMode(t *testing.T) {
	svc, mock, done := newDraftService(t)
	defer done()

	// No query expected: editing an existing record never restores a draft.
	if got := svc.Restore("R001", 42); got != nil {
		t.Fatalf("edit mode restore: got %q, want nil", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unexpected query: %v", err)
	}
}

func TestDraftRoundTrip(t *testing.T) {
	svc, mock, done := newDraftService(t)
	defer done()

	payload := []byte(`{"destination":"Putrajaya"}`)

	mock.ExpectExec("INSERT INTO booking_drafts").
		WithArgs("R001", payload).
		WillReturnResult(sqlmock.NewResult(0, 1))
	svc.Persist("R001", payload)

	mock.ExpectQuery("SELECT payload FROM booking_drafts").
		WithArgs("R001").
		WillReturnRows(sqlmock.NewRows([]string{"payload"}).AddRow(payload))
	if got := svc.Restore("R001", 0); string(got) != string(payload) {
		t.Fatalf("restore: got %q, want %q", got, payload)
	}

	mock.ExpectExec("DELETE FROM booking_drafts").
		WithArgs("R001").
		WillReturnResult(sqlmock.NewResult(0, 1))
	svc.Clear("R001")

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestDraftFailuresAreSwallowed(t *testing.T) {
	svc, mock, done := newDraftService(t)
	defer done()

	boom := errors.New("db down")
	mock.ExpectExec("INSERT INTO booking_drafts").WillReturnError(boom)
	svc.Persist("R001", []byte(`{}`))

	mock.ExpectQuery("SELECT payload FROM booking_drafts").WillReturnError(boom)
	if got := svc.Restore("R001", 0); got != nil {
		t.Fatalf("failed restore: got %q, want nil", got)
	}

	mock.ExpectExec("DELETE FROM booking_drafts").WillReturnError(boom)
	svc.Clear("R001")
}
