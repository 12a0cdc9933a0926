package repositories

import (
	"database/sql"
	"strings"

	intconfig "fleet-backend/internal/config"
)

// Read-only reference data consumed by booking and assessment forms.

type Employee struct {
	ID           int64  `json:"id"`
	RamcoID      string `json:"ramco_id"`
	Name         string `json:"name"`
	DepartmentID int64  `json:"department_id"`
	LocationID   int64  `json:"location_id"`
	Contact      string `json:"contact,omitempty"`
	Email        string `json:"email,omitempty"`
}

type Location struct {
	ID   int64  `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}

// IssueCard covers both fleetcards and Touch-n-Go cards; they share a shape.
type IssueCard struct {
	ID     int64  `json:"id"`
	CardNo string `json:"card_no"`
	Status string `json:"status"`
}

type RefDataRepository struct {
	DB *sql.DB
}

func (r RefDataRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

// SearchEmployees filters by free-text (name/ramco) and optional department.
func (r RefDataRepository) SearchEmployees(q string, departmentID int64, limit int) ([]Employee, error) {
	if limit < 1 || limit > 200 {
		limit = 50
	}

	query := `
		SELECT id, COALESCE(ramco_id,''), COALESCE(name,''),
		       COALESCE(department_id,0), COALESCE(location_id,0),
		       COALESCE(contact,''), COALESCE(email,'')
		FROM employees
	`
	where := []string{}
	args := []any{}
	if q = strings.TrimSpace(q); q != "" {
		where = append(where, "(name LIKE ? OR ramco_id LIKE ?)")
		like := "%" + q + "%"
		args = append(args, like, like)
	}
	if departmentID > 0 {
		where = append(where, "department_id=?")
		args = append(args, departmentID)
	}
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY name ASC LIMIT ?"
	args = append(args, limit)

	rows, err := r.db().Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []Employee{}
	for rows.Next() {
		var e Employee
		if err := rows.Scan(&e.ID, &e.RamcoID, &e.Name, &e.DepartmentID, &e.LocationID, &e.Contact, &e.Email); err != nil {
			return nil, err
		}
		list = append(list, e)
	}
	return list, rows.Err()
}

func (r RefDataRepository) GetEmployeeByRamco(ramco string) (Employee, error) {
	var e Employee
	err := r.db().QueryRow(`
		SELECT id, COALESCE(ramco_id,''), COALESCE(name,''),
		       COALESCE(department_id,0), COALESCE(location_id,0),
		       COALESCE(contact,''), COALESCE(email,'')
		FROM employees WHERE ramco_id=? LIMIT 1
	`, strings.TrimSpace(ramco)).Scan(&e.ID, &e.RamcoID, &e.Name, &e.DepartmentID, &e.LocationID, &e.Contact, &e.Email)
	return e, err
}

func (r RefDataRepository) ListLocations() ([]Location, error) {
	rows, err := r.db().Query(`
		SELECT id, COALESCE(code,''), COALESCE(name,'')
		FROM locations ORDER BY name ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []Location{}
	for rows.Next() {
		var l Location
		if err := rows.Scan(&l.ID, &l.Code, &l.Name); err != nil {
			return nil, err
		}
		list = append(list, l)
	}
	return list, rows.Err()
}

func (r RefDataRepository) ListFleetcards() ([]IssueCard, error) {
	return r.listCards("fleetcards")
}

func (r RefDataRepository) ListTNGCards() ([]IssueCard, error) {
	return r.listCards("tng_cards")
}

func (r RefDataRepository) listCards(table string) ([]IssueCard, error) {
	rows, err := r.db().Query(`
		SELECT id, COALESCE(card_no,''), COALESCE(status,'')
		FROM ` + table + ` ORDER BY card_no ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []IssueCard{}
	for rows.Next() {
		var c IssueCard
		if err := rows.Scan(&c.ID, &c.CardNo, &c.Status); err != nil {
			return nil, err
		}
		list = append(list, c)
	}
	return list, rows.Err()
}
