package models

import (
	"strings"

	"fleet-backend/internal/utils"
)

// Vehicle type codes follow the fixed asset code table.
const (
	VehicleTypeMPV   = 3
	VehicleTypeSedan = 5
	VehicleTypeSUV   = 6
)

// Booking type values on the wire.
const (
	BookingTypeOwn      = "own"
	BookingTypeOnBehalf = "on_behalf"
)

// Approval stat values persisted on booking_applications.approval_stat.
const (
	ApprovalPending  = 0
	ApprovalApproved = 1
	ApprovalRejected = 2
)

// BookingApplication is the normalized pool-car request record. Raw wire
// payloads are decoded into this shape once, at the repository boundary;
// internal code never branches on raw field variants.
type BookingApplication struct {
	ID int64 `json:"id"`

	// Requestor snapshot, immutable after submit.
	RequestorName string `json:"requestor_name"`
	RamcoID       string `json:"ramco_id"`
	Contact       string `json:"contact"`
	DepartmentID  int64  `json:"department_id"`
	LocationID    int64  `json:"location_id"`

	BookingType   string `json:"booking_type"`
	DriverRamcoID string `json:"driver_ramco_id,omitempty"`

	VehicleTypeID int `json:"vehicle_type_id"`

	// Trip window, wall-clock local time "YYYY-MM-DD HH:MM:SS".
	TripStart string `json:"trip_start"`
	TripEnd   string `json:"trip_end"`

	Destination string `json:"destination"`
	Purpose     string `json:"purpose"`

	NeedFleetcard bool `json:"need_fleetcard"`
	NeedTouchNGo  bool `json:"need_tng"`
	NeedSmartTag  bool `json:"need_smarttag"`
	NeedDriver    bool `json:"need_driver"`

	// Merged passenger column: employee ramco ids plus guest names,
	// comma-delimited, built once at submit time.
	Passengers string `json:"passengers,omitempty"`

	ApprovalStat int    `json:"approval_stat"`
	ApprovedBy   string `json:"approved_by,omitempty"`
	ApprovedAt   string `json:"approved_at,omitempty"`
	RejectReason string `json:"reject_reason,omitempty"`

	Cancelled    bool   `json:"cancelled"`
	CancelReason string `json:"cancel_reason,omitempty"`
	CancelledAt  string `json:"cancelled_at,omitempty"`

	VehicleAssetID int64  `json:"vehicle_asset_id,omitempty"`
	FleetcardID    int64  `json:"fleetcard_id,omitempty"`
	TouchNGoID     int64  `json:"tng_id,omitempty"`
	SmartTagSerial string `json:"smarttag_serial,omitempty"`

	ReturnedAt  string `json:"returned_at,omitempty"`
	OdometerEnd int64  `json:"odometer_end,omitempty"`

	CreatedAt string `json:"created_at,omitempty"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

// HasAssignment reports whether an admin has bound a pool vehicle.
func (b BookingApplication) HasAssignment() bool {
	return b.VehicleAssetID > 0
}

// HasReturn reports whether return details were recorded.
func (b BookingApplication) HasReturn() bool {
	return strings.TrimSpace(b.ReturnedAt) != ""
}

// PassengerCapacity returns the passenger ceiling for a vehicle type code.
// Unset or unknown types carry no passengers.
func PassengerCapacity(vehicleTypeID int) int {
	switch vehicleTypeID {
	case VehicleTypeSedan, VehicleTypeSUV:
		return 3
	case VehicleTypeMPV:
		return 4
	default:
		return 0
	}
}

// MergePassengers builds the delimited passenger column from employee ids
// and free-text guest notes (comma or newline separated).
func MergePassengers(employeeIDs []string, guestNotes string) string {
	out := []string{}
	seen := map[string]bool{}
	for _, id := range employeeIDs {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	for _, g := range utils.SplitList(guestNotes) {
		if seen[g] {
			continue
		}
		seen[g] = true
		out = append(out, g)
	}
	return strings.Join(out, ",")
}
