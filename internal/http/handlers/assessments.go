package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"fleet-backend/internal/domain/models"
	"fleet-backend/internal/http/middleware"
	"fleet-backend/internal/repositories"
	"fleet-backend/internal/services"
	"fleet-backend/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	maxVehicleImages = 4
	maxImageDim      = 1280
)

func assessmentService(c *gin.Context) services.AssessmentService {
	return services.AssessmentService{
		Repo:      repositories.AssessmentRepository{},
		ExcludeNA: cfg.ScoreExcludeNA,
		RequestID: middleware.GetRequestID(c),
	}
}

// GET /api/assessments/criteria?dept= — active catalog for a department.
func GetAssessmentCriteria(c *gin.Context) {
	deptID, _ := strconv.ParseInt(c.Query("dept"), 10, 64)

	list, err := repositories.AssessmentRepository{}.ListCriteria(deptID, true)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "gagal mengambil kriteria", err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// GET /api/assessments?vehicle=&page=&limit=
func ListAssessments(c *gin.Context) {
	vehicleID, _ := strconv.ParseInt(c.Query("vehicle"), 10, 64)
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))

	list, err := repositories.AssessmentRepository{}.List(vehicleID, page, limit)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "gagal mengambil data assessment", err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// GET /api/assessments/:id
func GetAssessment(c *gin.Context) {
	id, ok := IDParamOrError(c)
	if !ok {
		return
	}
	a, err := repositories.AssessmentRepository{}.GetByID(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

// assessmentPayload is the JSON part of the multipart submission.
type assessmentPayload struct {
	VehicleID    int64  `json:"vehicle_id"`
	DepartmentID int64  `json:"department_id"`
	AssessedAt   string `json:"assessed_at"`
	Remarks      string `json:"remarks"`
	Answers      []struct {
		CriterionID int64  `json:"criterion_id"`
		Value       string `json:"value"`
		Rating      int    `json:"rating"`
		Comment     string `json:"comment"`
	} `json:"answers"`
}

// POST /api/assessments — multipart: "payload" JSON field, optional
// "proof_<criterion_id>" file per criterion, up to four "vehicle_image_N".
func CreateAssessment(c *gin.Context) {
	a, ok := bindAssessmentMultipart(c, 0)
	if !ok {
		return
	}

	ident := middleware.GetIdentity(c)
	a.AssessorRamco = ident.RamcoID

	saved, err := assessmentService(c).Submit(a, allowedDepartments(ident))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, saved)
}

// PUT /api/assessments/:id — whole-set resubmission.
func UpdateAssessment(c *gin.Context) {
	id, ok := IDParamOrError(c)
	if !ok {
		return
	}
	a, ok := bindAssessmentMultipart(c, id)
	if !ok {
		return
	}

	ident := middleware.GetIdentity(c)
	a.AssessorRamco = ident.RamcoID

	saved, err := assessmentService(c).Resubmit(a, allowedDepartments(ident))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, saved)
}

func allowedDepartments(ident middleware.Identity) []int64 {
	if ident.DepartmentID <= 0 {
		return nil
	}
	return []int64{ident.DepartmentID}
}

func bindAssessmentMultipart(c *gin.Context, id int64) (models.Assessment, bool) {
	raw := c.PostForm("payload")
	if raw == "" {
		RespondError(c, http.StatusBadRequest, "field payload wajib diisi", nil)
		return models.Assessment{}, false
	}

	var payload assessmentPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		RespondError(c, http.StatusBadRequest, "payload tidak valid", err)
		return models.Assessment{}, false
	}

	a := models.Assessment{
		ID:           id,
		VehicleID:    payload.VehicleID,
		DepartmentID: payload.DepartmentID,
		AssessedAt:   payload.AssessedAt,
		Remarks:      payload.Remarks,
	}

	form, _ := c.MultipartForm()
	for _, ans := range payload.Answers {
		answer := models.AssessmentAnswer{
			CriterionID: ans.CriterionID,
			Value:       ans.Value,
			Rating:      ans.Rating,
			Comment:     ans.Comment,
		}
		if form != nil {
			if name, err := saveFormImage(form, fmt.Sprintf("proof_%d", ans.CriterionID)); err == nil && name != "" {
				answer.ProofImage = name
			}
		}
		a.Answers = append(a.Answers, answer)
	}

	if form != nil {
		for i := 1; i <= maxVehicleImages; i++ {
			name, err := saveFormImage(form, fmt.Sprintf("vehicle_image_%d", i))
			if err != nil || name == "" {
				continue
			}
			a.VehicleImages = append(a.VehicleImages, name)
		}
	}

	return a, true
}

// saveFormImage shrinks and stores one uploaded image, returning the stored
// file name. A missing field is not an error; a broken image is skipped.
func saveFormImage(form *multipart.Form, field string) (string, error) {
	files := form.File[field]
	if len(files) == 0 {
		return "", nil
	}

	f, err := files[0].Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	raw, err := io.ReadAll(f)
	if err != nil {
		return "", err
	}

	shrunk, err := utils.ShrinkImage(raw, maxImageDim)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		return "", err
	}
	name := uuid.NewString() + ".jpg"
	if err := os.WriteFile(filepath.Join(cfg.UploadDir, name), shrunk, 0o644); err != nil {
		return "", err
	}
	return name, nil
}
