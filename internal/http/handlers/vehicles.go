package handlers

import (
	"net/http"
	"strconv"

	"fleet-backend/internal/repositories"

	"github.com/gin-gonic/gin"
)

// GET /api/vehicles?type= — pool-purpose fleet assets only.
func GetVehicles(c *gin.Context) {
	vehicleType := 0
	if v, err := strconv.Atoi(c.Query("type")); err == nil {
		vehicleType = v
	}

	list, err := repositories.VehicleRepository{}.ListPool(vehicleType)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "gagal mengambil data kendaraan", err)
		return
	}
	c.JSON(http.StatusOK, list)
}
