package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"fleet-backend/internal/domain/models"
	"fleet-backend/internal/http/middleware"
	"fleet-backend/internal/services"

	"github.com/gin-gonic/gin"
)

// adminDecisionPayload carries the single approve/reject bundle. The approve
// switch tolerates legacy truthy variants; the two outcomes are mutually
// exclusive by construction.
type adminDecisionPayload struct {
	Approve        any    `json:"approve"`
	VehicleAssetID int64  `json:"vehicle_asset_id"`
	FleetcardID    int64  `json:"fleetcard_id"`
	TouchNGoID     int64  `json:"tng_id"`
	SmartTagSerial string `json:"smarttag_serial"`
	RejectReason   string `json:"reject_reason"`
}

// PUT /api/bookings/:id/admin
func AdminDecideBooking(c *gin.Context) {
	id, ok := IDParamOrError(c)
	if !ok {
		return
	}
	var payload adminDecisionPayload
	if !BindJSONOrError(c, &payload) {
		return
	}

	ident := middleware.GetIdentity(c)
	view, err := bookingService(c).AdminDecide(id, services.AdminDecision{
		Approve:        models.FlexBool(payload.Approve),
		VehicleAssetID: payload.VehicleAssetID,
		FleetcardID:    payload.FleetcardID,
		TouchNGoID:     payload.TouchNGoID,
		SmartTagSerial: strings.TrimSpace(payload.SmartTagSerial),
		RejectReason:   payload.RejectReason,
		Actor:          ident.RamcoID,
	})
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

type returnPayload struct {
	ReturnedAt  string `json:"returned_at"`
	OdometerEnd int64  `json:"odometer_end"`
}

// PUT /api/bookings/:id/returned — independent return sub-form, one shot.
func RecordBookingReturn(c *gin.Context) {
	id, ok := IDParamOrError(c)
	if !ok {
		return
	}
	var payload returnPayload
	if !BindJSONOrError(c, &payload) {
		return
	}

	view, err := bookingService(c).RecordReturn(id, services.ReturnDetails{
		ReturnedAt:  strings.TrimSpace(payload.ReturnedAt),
		OdometerEnd: payload.OdometerEnd,
	})
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// GET /api/bookings/available?start=&end=&type=
func GetVehicleAvailability(c *gin.Context) {
	start := strings.TrimSpace(c.Query("start"))
	end := strings.TrimSpace(c.Query("end"))
	vehicleType := 0
	if v, err := strconv.Atoi(c.Query("type")); err == nil {
		vehicleType = v
	}

	list, err := bookingService(c).Availability(start, end, vehicleType)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}
