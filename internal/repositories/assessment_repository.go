package repositories

import (
	"database/sql"
	"strings"

	intconfig "fleet-backend/internal/config"
	"fleet-backend/internal/domain"
	"fleet-backend/internal/domain/models"
)

// AssessmentRepository stores assessments with their per-criterion detail
// rows. Writes replace the whole answer set in one transaction; edit mode
// re-derives state from the stored details.
type AssessmentRepository struct {
	DB *sql.DB
}

func (r AssessmentRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

func (r AssessmentRepository) ListCriteria(departmentID int64, activeOnly bool) ([]models.AssessmentCriterion, error) {
	query := `
		SELECT id, COALESCE(order_index,0), COALESCE(description,''),
		       COALESCE(type,''), COALESCE(department_id,0), COALESCE(active,0)
		FROM assessment_criteria
	`
	where := []string{}
	args := []any{}
	if activeOnly {
		where = append(where, "active=1")
	}
	if departmentID > 0 {
		where = append(where, "department_id=?")
		args = append(args, departmentID)
	}
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY order_index ASC, id ASC"

	rows, err := r.db().Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []models.AssessmentCriterion{}
	for rows.Next() {
		var c models.AssessmentCriterion
		var active int
		if err := rows.Scan(&c.ID, &c.OrderIndex, &c.Description, &c.Type, &c.DepartmentID, &active); err != nil {
			return nil, err
		}
		c.Active = active != 0
		list = append(list, c)
	}
	return list, rows.Err()
}

// Insert stores the assessment header and its full answer set atomically.
func (r AssessmentRepository) Insert(a models.Assessment) (int64, error) {
	tx, err := r.db().Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	img := padImages(a.VehicleImages)
	res, err := tx.Exec(`
		INSERT INTO assessments
			(vehicle_id, assessor_ramco, department_id, assessed_at, remarks,
			 score, ncr_count, vehicle_image1, vehicle_image2, vehicle_image3, vehicle_image4,
			 created_at, updated_at)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,NOW(),NOW())
	`, a.VehicleID, a.AssessorRamco, a.DepartmentID, a.AssessedAt, a.Remarks,
		a.Score, a.NCRCount, img[0], img[1], img[2], img[3])
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	if err := insertDetails(tx, id, a.Answers); err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

// Update rewrites the header and replaces every detail row (whole-set
// resubmission semantics).
func (r AssessmentRepository) Update(a models.Assessment) error {
	if a.ID <= 0 {
		return domain.ValidationError{Field: "id", Msg: "id tidak valid"}
	}
	tx, err := r.db().Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	img := padImages(a.VehicleImages)
	res, err := tx.Exec(`
		UPDATE assessments
		SET vehicle_id=?, assessor_ramco=?, department_id=?, assessed_at=?, remarks=?,
		    score=?, ncr_count=?,
		    vehicle_image1=?, vehicle_image2=?, vehicle_image3=?, vehicle_image4=?,
		    updated_at=NOW()
		WHERE id=?
	`, a.VehicleID, a.AssessorRamco, a.DepartmentID, a.AssessedAt, a.Remarks,
		a.Score, a.NCRCount, img[0], img[1], img[2], img[3], a.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if exists, err := r.exists(tx, a.ID); err != nil || !exists {
			return domain.NotFoundError{Resource: "assessment", Err: err}
		}
	}

	if _, err := tx.Exec(`DELETE FROM assessment_details WHERE assessment_id=?`, a.ID); err != nil {
		return err
	}
	if err := insertDetails(tx, a.ID, a.Answers); err != nil {
		return err
	}
	return tx.Commit()
}

func (r AssessmentRepository) exists(q interface {
	QueryRow(string, ...any) *sql.Row
}, id int64) (bool, error) {
	var n int
	if err := q.QueryRow(`SELECT COUNT(*) FROM assessments WHERE id=?`, id).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

func insertDetails(tx *sql.Tx, assessmentID int64, answers []models.AssessmentAnswer) error {
	for _, ans := range answers {
		_, err := tx.Exec(`
			INSERT INTO assessment_details
				(assessment_id, criterion_id, type, value, rating, comment, proof_image)
			VALUES (?,?,?,?,?,?,?)
		`, assessmentID, ans.CriterionID, ans.Type, ans.Value, ans.Rating,
			ans.Comment, nullIfBlank(ans.ProofImage))
		if err != nil {
			return err
		}
	}
	return nil
}

func (r AssessmentRepository) GetByID(id int64) (models.Assessment, error) {
	if id <= 0 {
		return models.Assessment{}, domain.ValidationError{Field: "id", Msg: "id tidak valid"}
	}

	var a models.Assessment
	var img [4]sql.NullString
	err := r.db().QueryRow(`
		SELECT id, COALESCE(vehicle_id,0), COALESCE(assessor_ramco,''),
		       COALESCE(department_id,0),
		       COALESCE(DATE_FORMAT(assessed_at,'%Y-%m-%d %H:%i:%s'),''),
		       COALESCE(remarks,''), COALESCE(score,''), COALESCE(ncr_count,0),
		       vehicle_image1, vehicle_image2, vehicle_image3, vehicle_image4
		FROM assessments WHERE id=? LIMIT 1
	`, id).Scan(&a.ID, &a.VehicleID, &a.AssessorRamco, &a.DepartmentID,
		&a.AssessedAt, &a.Remarks, &a.Score, &a.NCRCount,
		&img[0], &img[1], &img[2], &img[3])
	if err == sql.ErrNoRows {
		return models.Assessment{}, domain.NotFoundError{Resource: "assessment", Err: err}
	}
	if err != nil {
		return models.Assessment{}, err
	}

	for _, im := range img {
		if im.Valid && strings.TrimSpace(im.String) != "" {
			a.VehicleImages = append(a.VehicleImages, im.String)
		}
	}

	rows, err := r.db().Query(`
		SELECT criterion_id, COALESCE(type,''), COALESCE(value,''),
		       COALESCE(rating,0), COALESCE(comment,''), COALESCE(proof_image,'')
		FROM assessment_details
		WHERE assessment_id=?
		ORDER BY id ASC
	`, id)
	if err != nil {
		return models.Assessment{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var ans models.AssessmentAnswer
		if err := rows.Scan(&ans.CriterionID, &ans.Type, &ans.Value, &ans.Rating, &ans.Comment, &ans.ProofImage); err != nil {
			return models.Assessment{}, err
		}
		a.Answers = append(a.Answers, ans)
	}
	return a, rows.Err()
}

func (r AssessmentRepository) List(vehicleID int64, page, limit int) ([]models.Assessment, error) {
	query := `
		SELECT id, COALESCE(vehicle_id,0), COALESCE(assessor_ramco,''),
		       COALESCE(department_id,0),
		       COALESCE(DATE_FORMAT(assessed_at,'%Y-%m-%d %H:%i:%s'),''),
		       COALESCE(remarks,''), COALESCE(score,''), COALESCE(ncr_count,0)
		FROM assessments
	`
	args := []any{}
	if vehicleID > 0 {
		query += " WHERE vehicle_id=?"
		args = append(args, vehicleID)
	}
	query += " ORDER BY id DESC"
	if page > 0 && limit > 0 {
		if limit > 200 {
			limit = 200
		}
		query += " LIMIT ? OFFSET ?"
		args = append(args, limit, (page-1)*limit)
	}

	rows, err := r.db().Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []models.Assessment{}
	for rows.Next() {
		var a models.Assessment
		if err := rows.Scan(&a.ID, &a.VehicleID, &a.AssessorRamco, &a.DepartmentID,
			&a.AssessedAt, &a.Remarks, &a.Score, &a.NCRCount); err != nil {
			return nil, err
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

func padImages(names []string) [4]any {
	var out [4]any
	for i := range out {
		if i < len(names) && strings.TrimSpace(names[i]) != "" {
			out[i] = names[i]
		} else {
			out[i] = nil
		}
	}
	return out
}
