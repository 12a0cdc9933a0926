package services

import (
	"fmt"
	"strings"

	"fleet-backend/internal/domain"
	"fleet-backend/internal/domain/models"
	"fleet-backend/internal/utils"
)

// BookingSubmission is the pre-merge application payload: passenger employee
// ids and guest notes are still separate, and the agreement checkbox rides
// along for create mode.
type BookingSubmission struct {
	models.BookingApplication

	PassengerIDs []string `json:"passenger_ids"`
	GuestNotes   string   `json:"guest_notes"`
	Agreement    bool     `json:"agreement"`
}

// ValidateSubmission checks the pre-submit rules in a fixed order and stops
// at the first violation. The order is part of the contract: it decides which
// single message the user sees.
func ValidateSubmission(sub BookingSubmission, createMode bool) error {
	if createMode && !sub.Agreement {
		return domain.ValidationError{Field: "agreement", Msg: "persetujuan syarat penggunaan wajib dicentang"}
	}

	start, err := utils.ParseDateTimeFlexible(sub.TripStart)
	if err != nil {
		return domain.ValidationError{Field: "trip_start", Msg: "waktu mulai tidak valid"}
	}
	end, err := utils.ParseDateTimeFlexible(sub.TripEnd)
	if err != nil {
		return domain.ValidationError{Field: "trip_end", Msg: "waktu selesai tidak valid"}
	}
	if !end.After(start) {
		return domain.ValidationError{Field: "trip_end", Msg: "waktu selesai harus setelah waktu mulai"}
	}

	if sub.BookingType == models.BookingTypeOnBehalf && strings.TrimSpace(sub.DriverRamcoID) == "" {
		return domain.ValidationError{Field: "driver_ramco_id", Msg: "pemandu wajib dipilih untuk booking atas nama"}
	}

	if sub.VehicleTypeID <= 0 {
		return domain.ValidationError{Field: "vehicle_type_id", Msg: "jenis kendaraan wajib dipilih"}
	}

	capacity := models.PassengerCapacity(sub.VehicleTypeID)
	if len(cleanIDs(sub.PassengerIDs)) > capacity {
		return domain.ValidationError{
			Field: "passengers",
			Msg:   fmt.Sprintf("jumlah penumpang melebihi kapasitas (maks %d)", capacity),
		}
	}

	return nil
}

func cleanIDs(ids []string) []string {
	out := []string{}
	for _, id := range ids {
		if strings.TrimSpace(id) != "" {
			out = append(out, strings.TrimSpace(id))
		}
	}
	return out
}
