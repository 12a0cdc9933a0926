package handlers

import (
	"net/http"

	"fleet-backend/internal/http/middleware"
	"fleet-backend/internal/repositories"
	"fleet-backend/internal/services"

	"github.com/gin-gonic/gin"
)

// GET /api/bookings/:id/movement-order — printable PDF for approved trips.
func GetMovementOrderPDF(c *gin.Context) {
	id, ok := IDParamOrError(c)
	if !ok {
		return
	}

	svc := services.DocsService{
		BookingRepo: repositories.BookingRepository{},
		VehicleRepo: repositories.VehicleRepository{},
		RequestID:   middleware.GetRequestID(c),
	}

	pdfBytes, name, err := svc.GenerateMovementOrder(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	c.Header("Content-Disposition", `inline; filename="`+name+`"`)
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}
