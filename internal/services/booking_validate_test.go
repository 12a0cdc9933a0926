package services

import (
	"errors"
	"testing"

	"fleet-backend/internal/domain"
	"fleet-backend/internal/domain/models"
)

func validSubmission() BookingSubmission {
	return BookingSubmission{
		BookingApplication: models.BookingApplication{
			RequestorName: "Tester",
			RamcoID:       "R001",
			BookingType:   models.BookingTypeOwn,
			VehicleTypeID: models.VehicleTypeSedan,
			TripStart:     "2026-03-02 08:00:00",
			TripEnd:       "2026-03-02 17:00:00",
			Destination:   "Putrajaya",
		},
		PassengerIDs: []string{"R002"},
		Agreement:    true,
	}
}

func failedField(t *testing.T, err error) string {
	t.Helper()
	var ve domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("want ValidationError, got %v", err)
	}
	return ve.Field
}

func TestValidateSubmissionStopsAtFirstViolation(t *testing.T) {
	cases := []struct {
		name      string
		mutate    func(*BookingSubmission)
		wantField string
	}{
		{"agreement first", func(s *BookingSubmission) {
			s.Agreement = false
			s.TripStart = "not a date"
			s.VehicleTypeID = 0
		}, "agreement"},
		{"bad start", func(s *BookingSubmission) {
			s.TripStart = "not a date"
		}, "trip_start"},
		{"bad end", func(s *BookingSubmission) {
			s.TripEnd = ""
		}, "trip_end"},
		{"end not after start", func(s *BookingSubmission) {
			s.TripEnd = s.TripStart
		}, "trip_end"},
		{"on behalf needs driver", func(s *BookingSubmission) {
			s.BookingType = models.BookingTypeOnBehalf
			s.DriverRamcoID = "  "
		}, "driver_ramco_id"},
		{"vehicle type required", func(s *BookingSubmission) {
			s.VehicleTypeID = 0
		}, "vehicle_type_id"},
		{"sedan capacity exceeded", func(s *BookingSubmission) {
			s.PassengerIDs = []string{"R002", "R003", "R004", "R005"}
		}, "passengers"},
	}

	for _, tc := range cases {
		sub := validSubmission()
		tc.mutate(&sub)
		err := ValidateSubmission(sub, true)
		if err == nil {
			t.Fatalf("%s: want error, got nil", tc.name)
		}
		if got := failedField(t, err); got != tc.wantField {
			t.Fatalf("%s: failed on field %q, want %q", tc.name, got, tc.wantField)
		}
	}
}

func TestValidateSubmissionOK(t *testing.T) {
	if err := ValidateSubmission(validSubmission(), true); err != nil {
		t.Fatalf("valid submission rejected: %v", err)
	}

	// Edit mode skips the agreement checkbox.
	sub := validSubmission()
	sub.Agreement = false
	if err := ValidateSubmission(sub, false); err != nil {
		t.Fatalf("edit mode rejected: %v", err)
	}

	// MPV carries one more passenger than a sedan.
	sub = validSubmission()
	sub.VehicleTypeID = models.VehicleTypeMPV
	sub.PassengerIDs = []string{"R002", "R003", "R004", "R005"}
	if err := ValidateSubmission(sub, true); err != nil {
		t.Fatalf("mpv at capacity rejected: %v", err)
	}

	// Blank entries do not count toward capacity.
	sub = validSubmission()
	sub.PassengerIDs = []string{"R002", "", " ", "R003", "R004"}
	if err := ValidateSubmission(sub, true); err != nil {
		t.Fatalf("blank passenger ids counted: %v", err)
	}
}
