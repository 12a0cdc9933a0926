package repositories

import (
	"database/sql"
	"strings"

	intconfig "fleet-backend/internal/config"
)

// User is an application account. Username is the employee's ramco id.
type User struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	RamcoID      string `json:"ramco_id"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Role         string `json:"role"`
	Status       string `json:"status"`
	DepartmentID int64  `json:"department_id"`
}

type UserRepository struct {
	DB *sql.DB
}

func (r UserRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

// FindForLogin matches by ramco id or email and returns the stored hash.
func (r UserRepository) FindForLogin(login string) (User, string, error) {
	login = strings.TrimSpace(login)
	var u User
	var hash string
	err := r.db().QueryRow(`
		SELECT id, COALESCE(name,''), COALESCE(ramco_id,''), COALESCE(email,''),
		       COALESCE(phone,''), password_hash, COALESCE(role,''),
		       COALESCE(status,''), COALESCE(department_id,0)
		FROM users
		WHERE ramco_id = ? OR email = ?
		LIMIT 1
	`, login, login).Scan(&u.ID, &u.Name, &u.RamcoID, &u.Email, &u.Phone, &hash, &u.Role, &u.Status, &u.DepartmentID)
	return u, hash, err
}

func (r UserRepository) CountByRamcoOrEmail(ramco, email string) (int, error) {
	var n int
	err := r.db().QueryRow(`
		SELECT COUNT(*) FROM users WHERE ramco_id = ? OR email = ?
	`, strings.TrimSpace(ramco), strings.TrimSpace(email)).Scan(&n)
	return n, err
}

func (r UserRepository) Create(u User, passwordHash string) (int64, error) {
	res, err := r.db().Exec(`
		INSERT INTO users (name, ramco_id, email, phone, password_hash, role, status, department_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, 'user', 'active', ?, NOW(), NOW())
	`, u.Name, u.RamcoID, u.Email, u.Phone, passwordHash, u.DepartmentID)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}
