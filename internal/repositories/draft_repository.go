package repositories

import (
	"database/sql"

	intconfig "fleet-backend/internal/config"
)

// DraftRepository stores in-progress applications keyed by identity. One
// draft per key; the payload is opaque JSON owned by the client form.
type DraftRepository struct {
	DB *sql.DB
}

func (r DraftRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

func (r DraftRepository) Get(key string) ([]byte, error) {
	var payload []byte
	err := r.db().QueryRow(`
		SELECT payload FROM booking_drafts WHERE identity_key=? LIMIT 1
	`, key).Scan(&payload)
	if err != nil {
		return nil, err
	}
	return payload, nil
}

func (r DraftRepository) Upsert(key string, payload []byte) error {
	_, err := r.db().Exec(`
		INSERT INTO booking_drafts (identity_key, payload, updated_at)
		VALUES (?,?,NOW())
		ON DUPLICATE KEY UPDATE payload=VALUES(payload), updated_at=NOW()
	`, key, payload)
	return err
}

func (r DraftRepository) Delete(key string) error {
	_, err := r.db().Exec(`DELETE FROM booking_drafts WHERE identity_key=?`, key)
	return err
}

// PurgeStale removes drafts untouched since the cutoff ("YYYY-MM-DD HH:MM:SS").
func (r DraftRepository) PurgeStale(cutoff string) (int64, error) {
	res, err := r.db().Exec(`DELETE FROM booking_drafts WHERE updated_at < ?`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
