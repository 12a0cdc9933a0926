package handlers

import (
	"net/http"

	"fleet-backend/internal/domain"
	"fleet-backend/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

// RespondDomainError maps domain errors to HTTP responses.
func RespondDomainError(c *gin.Context, err error) {
	switch {
	case domain.IsValidation(err):
		respondCoded(c, http.StatusBadRequest, "validation_error", err.Error())
	case domain.IsNotFound(err):
		respondCoded(c, http.StatusNotFound, "not_found", err.Error())
	case domain.IsState(err):
		respondCoded(c, http.StatusConflict, "invalid_state", err.Error())
	case domain.IsConflict(err):
		respondCoded(c, http.StatusConflict, "conflict", err.Error())
	default:
		respondCoded(c, http.StatusInternalServerError, "internal_error", "terjadi kesalahan")
	}
}

func respondCoded(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{
		"error":      message,
		"code":       code,
		"message":    message,
		"request_id": middleware.GetRequestID(c),
	})
}
