package services

import (
	"database/sql"
	"strings"

	"fleet-backend/internal/repositories"
	"fleet-backend/internal/utils"
)

const guestDraftKey = "guest"

// DraftService keeps one in-progress application per identity. Drafting is a
// convenience: persistence failures degrade silently and never block the
// booking flow.
type DraftService struct {
	Repo      repositories.DraftRepository
	RequestID string
}

// DraftKey derives the storage key from the caller's ramco id, falling back
// to a shared guest key when identity is absent.
func DraftKey(ramcoID string) string {
	ramcoID = strings.TrimSpace(ramcoID)
	if ramcoID == "" {
		return guestDraftKey
	}
	return ramcoID
}

// Restore returns the stored draft for the identity. When the caller is
// editing an existing record (editingID > 0) restore is skipped entirely so
// backend-prefilled fields are never overwritten.
func (s DraftService) Restore(ramcoID string, editingID int64) []byte {
	if editingID > 0 {
		return nil
	}
	payload, err := s.Repo.Get(DraftKey(ramcoID))
	if err != nil {
		if err != sql.ErrNoRows {
			utils.LogEvent(s.RequestID, "draft", "restore_skip", err.Error())
		}
		return nil
	}
	return payload
}

// Persist upserts the draft payload. Errors are swallowed by design.
func (s DraftService) Persist(ramcoID string, payload []byte) {
	if len(payload) == 0 {
		return
	}
	if err := s.Repo.Upsert(DraftKey(ramcoID), payload); err != nil {
		utils.LogEvent(s.RequestID, "draft", "persist_skip", err.Error())
	}
}

// Clear drops the draft after a successful submit, cancel-and-leave, or an
// explicit discard.
func (s DraftService) Clear(ramcoID string) {
	if err := s.Repo.Delete(DraftKey(ramcoID)); err != nil {
		utils.LogEvent(s.RequestID, "draft", "clear_skip", err.Error())
	}
}
