package handlers

import (
	"net/http"
	"strconv"

	"fleet-backend/internal/repositories"

	"github.com/gin-gonic/gin"
)

// Reference lists are best-effort inputs for pickers: a load failure surfaces
// as an error the client degrades to an empty, disabled picker.

// GET /api/employees?q=&dept=&limit=
func GetEmployees(c *gin.Context) {
	deptID, _ := strconv.ParseInt(c.Query("dept"), 10, 64)
	limit, _ := strconv.Atoi(c.Query("limit"))

	list, err := repositories.RefDataRepository{}.SearchEmployees(c.Query("q"), deptID, limit)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "gagal mengambil data pegawai", err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// GET /api/locations
func GetLocations(c *gin.Context) {
	list, err := repositories.RefDataRepository{}.ListLocations()
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "gagal mengambil data lokasi", err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// GET /api/fleetcards
func GetFleetcards(c *gin.Context) {
	list, err := repositories.RefDataRepository{}.ListFleetcards()
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "gagal mengambil data fleetcard", err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// GET /api/tng-cards
func GetTNGCards(c *gin.Context) {
	list, err := repositories.RefDataRepository{}.ListTNGCards()
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "gagal mengambil data kartu TNG", err)
		return
	}
	c.JSON(http.StatusOK, list)
}
