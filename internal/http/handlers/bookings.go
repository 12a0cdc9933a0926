package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"fleet-backend/internal/domain/models"
	"fleet-backend/internal/http/middleware"
	"fleet-backend/internal/repositories"
	"fleet-backend/internal/services"
	"fleet-backend/internal/utils"

	"github.com/gin-gonic/gin"
)

func bookingService(c *gin.Context) services.BookingService {
	reqID := middleware.GetRequestID(c)
	return services.BookingService{
		BookingRepo: repositories.BookingRepository{},
		VehicleRepo: repositories.VehicleRepository{},
		DraftSvc:    services.DraftService{Repo: repositories.DraftRepository{}, RequestID: reqID},
		RequestID:   reqID,
	}
}

// bookingPayload is the wire shape of a create/update request. The approve
// and requirement flags tolerate the legacy truthy variants.
type bookingPayload struct {
	RequestorName string `json:"requestor_name"`
	Contact       string `json:"contact"`
	DepartmentID  int64  `json:"department_id"`
	LocationID    int64  `json:"location_id"`

	BookingType   string `json:"booking_type"`
	DriverRamcoID string `json:"driver_ramco_id"`
	VehicleTypeID int    `json:"vehicle_type_id"`

	TripStart   string `json:"trip_start"`
	TripEnd     string `json:"trip_end"`
	Destination string `json:"destination"`
	Purpose     string `json:"purpose"`

	NeedFleetcard any `json:"need_fleetcard"`
	NeedTouchNGo  any `json:"need_tng"`
	NeedSmartTag  any `json:"need_smarttag"`
	NeedDriver    any `json:"need_driver"`

	PassengerIDs []string `json:"passenger_ids"`
	GuestNotes   string   `json:"guest_notes"`
	Agreement    any      `json:"agreement"`
}

func (p bookingPayload) toSubmission(ramcoID string) services.BookingSubmission {
	return services.BookingSubmission{
		BookingApplication: models.BookingApplication{
			RequestorName: utils.NormalizeSpace(p.RequestorName),
			RamcoID:       ramcoID,
			Contact:       strings.TrimSpace(p.Contact),
			DepartmentID:  p.DepartmentID,
			LocationID:    p.LocationID,
			BookingType:   strings.TrimSpace(p.BookingType),
			DriverRamcoID: strings.TrimSpace(p.DriverRamcoID),
			VehicleTypeID: p.VehicleTypeID,
			TripStart:     strings.TrimSpace(p.TripStart),
			TripEnd:       strings.TrimSpace(p.TripEnd),
			Destination:   utils.NormalizeSpace(p.Destination),
			Purpose:       utils.NormalizeSpace(p.Purpose),
			NeedFleetcard: models.FlexBool(p.NeedFleetcard),
			NeedTouchNGo:  models.FlexBool(p.NeedTouchNGo),
			NeedSmartTag:  models.FlexBool(p.NeedSmartTag),
			NeedDriver:    models.FlexBool(p.NeedDriver),
		},
		PassengerIDs: p.PassengerIDs,
		GuestNotes:   p.GuestNotes,
		Agreement:    models.FlexBool(p.Agreement),
	}
}

// GET /api/bookings?status=&ramco=&asset=&page=&limit=
func ListBookings(c *gin.Context) {
	filter := repositories.ListFilter{
		RamcoID: c.Query("ramco"),
	}
	if v, err := strconv.ParseInt(c.Query("asset"), 10, 64); err == nil {
		filter.AssetID = v
	}
	if v, err := strconv.Atoi(c.Query("page")); err == nil {
		filter.Page = v
	}
	if v, err := strconv.Atoi(c.Query("limit")); err == nil {
		filter.Limit = v
	}

	list, err := bookingService(c).List(filter, models.ParseStatus(c.Query("status")))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// GET /api/bookings/:id
func GetBooking(c *gin.Context) {
	id, ok := IDParamOrError(c)
	if !ok {
		return
	}
	view, err := bookingService(c).Get(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// POST /api/bookings
func CreateBooking(c *gin.Context) {
	var payload bookingPayload
	if !BindJSONOrError(c, &payload) {
		return
	}

	ident := middleware.GetIdentity(c)
	view, err := bookingService(c).Submit(payload.toSubmission(ident.RamcoID))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

// PUT /api/bookings/:id — requestor-editable fields, Pending only.
func UpdateBooking(c *gin.Context) {
	id, ok := IDParamOrError(c)
	if !ok {
		return
	}
	var payload bookingPayload
	if !BindJSONOrError(c, &payload) {
		return
	}

	ident := middleware.GetIdentity(c)
	view, err := bookingService(c).Update(id, payload.toSubmission(ident.RamcoID))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

type cancelPayload struct {
	Reason    string `json:"reason"`
	Confirmed any    `json:"confirmed"`
}

// PUT /api/bookings/:id/cancel — requestor self-service cancel.
func CancelBooking(c *gin.Context) {
	id, ok := IDParamOrError(c)
	if !ok {
		return
	}
	var payload cancelPayload
	if !BindJSONOrError(c, &payload) {
		return
	}

	ident := middleware.GetIdentity(c)
	view, err := bookingService(c).Cancel(id, ident.RamcoID, payload.Reason, models.FlexBool(payload.Confirmed))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}
