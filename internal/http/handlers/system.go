package handlers

import (
	"net/http"

	intconfig "fleet-backend/internal/config"
	intdb "fleet-backend/internal/db"

	"github.com/gin-gonic/gin"
)

// GET /api/health
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// GET /api/db-check
func DBCheck(c *gin.Context) {
	if err := intconfig.EnsureDB(); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "down", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":   "up",
		"migrated": intdb.HasTable(intconfig.DB, "booking_applications"),
	})
}
