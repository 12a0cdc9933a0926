package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"fleet-backend/internal/http/middleware"
	"fleet-backend/internal/repositories"
	"fleet-backend/internal/services"

	"github.com/gin-gonic/gin"
)

func draftService(c *gin.Context) services.DraftService {
	return services.DraftService{
		Repo:      repositories.DraftRepository{},
		RequestID: middleware.GetRequestID(c),
	}
}

// GET /api/bookings/draft?editing=<id> — restore is skipped in edit mode.
func GetDraft(c *gin.Context) {
	ident := middleware.GetIdentity(c)
	editingID, _ := strconv.ParseInt(c.Query("editing"), 10, 64)

	payload := draftService(c).Restore(ident.RamcoID, editingID)
	if len(payload) == 0 {
		c.JSON(http.StatusOK, gin.H{"draft": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"draft": json.RawMessage(payload)})
}

// PUT /api/bookings/draft — best-effort persist, always 204.
func PutDraft(c *gin.Context) {
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil || len(raw) == 0 {
		c.Status(http.StatusNoContent)
		return
	}
	if !json.Valid(raw) {
		RespondError(c, http.StatusBadRequest, "payload tidak valid", nil)
		return
	}

	ident := middleware.GetIdentity(c)
	draftService(c).Persist(ident.RamcoID, raw)
	c.Status(http.StatusNoContent)
}

// DELETE /api/bookings/draft — explicit discard.
func DeleteDraft(c *gin.Context) {
	ident := middleware.GetIdentity(c)
	draftService(c).Clear(ident.RamcoID)
	c.Status(http.StatusNoContent)
}
