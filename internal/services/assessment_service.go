package services

import (
	"strconv"
	"strings"

	"fleet-backend/internal/domain"
	"fleet-backend/internal/domain/models"
	"fleet-backend/internal/repositories"
	"fleet-backend/internal/utils"

	"github.com/shopspring/decimal"
)

// AssessmentService validates and scores compliance assessments. The scoring
// keeps the legacy weighting: N/A answers contribute zero but stay in the
// denominator unless ExcludeNA flips the compatibility default.
type AssessmentService struct {
	Repo      repositories.AssessmentRepository
	ExcludeNA bool
	RequestID string
}

var maxContribution = decimal.NewFromInt(5)

// Contribution returns the numeric weight of one answer.
func Contribution(a models.AssessmentAnswer) decimal.Decimal {
	switch a.Type {
	case models.CriterionNCR:
		if a.Value == models.AnswerComply {
			return maxContribution
		}
		return decimal.Zero
	case models.CriterionRating:
		return decimal.NewFromInt(int64(a.Rating))
	case models.CriterionSelection:
		if a.Value == models.AnswerEquipped {
			return decimal.NewFromInt(1)
		}
		return decimal.Zero
	}
	return decimal.Zero
}

func answerIsNA(a models.AssessmentAnswer) bool {
	switch a.Type {
	case models.CriterionRating:
		return a.Rating == 0
	default:
		return a.Value == models.AnswerNA
	}
}

// Score computes the overall percentage (2 decimals) and the NCR total.
// NCR total counts NotComply answers only; N/A and Comply are excluded.
func (s AssessmentService) Score(answers []models.AssessmentAnswer) (string, int) {
	sum := decimal.Zero
	denomRows := 0
	ncrCount := 0

	for _, a := range answers {
		sum = sum.Add(Contribution(a))
		if a.Type == models.CriterionNCR && a.Value == models.AnswerNotComply {
			ncrCount++
		}
		if s.ExcludeNA && answerIsNA(a) {
			continue
		}
		denomRows++
	}

	if denomRows == 0 {
		return "0.00", ncrCount
	}

	denom := decimal.NewFromInt(int64(denomRows)).Mul(maxContribution)
	pct := sum.Div(denom).Mul(decimal.NewFromInt(100)).Round(2)
	return pct.StringFixed(2), ncrCount
}

// ValidateAnswers blocks submission until every catalog criterion has exactly
// one complete answer and every required comment is filled. Rejecting
// duplicate and unknown criterion ids keeps the answer set a one-to-one match
// with the catalog, so the score denominator is always criteria count × 5.
func (s AssessmentService) ValidateAnswers(criteria []models.AssessmentCriterion, answers []models.AssessmentAnswer) error {
	known := map[int64]bool{}
	for _, c := range criteria {
		known[c.ID] = true
	}

	byID := map[int64]models.AssessmentAnswer{}
	for _, a := range answers {
		if !known[a.CriterionID] {
			return domain.ValidationError{
				Field: "answers",
				Msg:   "kriteria tidak dikenal: id=" + strconv.FormatInt(a.CriterionID, 10),
			}
		}
		if _, dup := byID[a.CriterionID]; dup {
			return domain.ValidationError{
				Field: "answers",
				Msg:   "jawaban ganda untuk kriteria: id=" + strconv.FormatInt(a.CriterionID, 10),
			}
		}
		byID[a.CriterionID] = a
	}

	for _, c := range criteria {
		a, ok := byID[c.ID]
		if !ok {
			return domain.ValidationError{
				Field: "answers",
				Msg:   "kriteria belum dijawab: " + c.Description,
			}
		}
		a.Type = c.Type
		if !a.IsComplete() {
			if a.CommentRequired() && strings.TrimSpace(a.Comment) == "" {
				return domain.ValidationError{
					Field: "answers",
					Msg:   "komentar wajib diisi untuk kriteria: " + c.Description,
				}
			}
			return domain.ValidationError{
				Field: "answers",
				Msg:   "jawaban tidak lengkap untuk kriteria: " + c.Description,
			}
		}
	}
	return nil
}

// IsAuthorizedForDepartment is the pure ownership predicate: the assessor may
// only submit criteria owned by a department they are allowed to act for.
func IsAuthorizedForDepartment(allowedDepartments []int64, criterion models.AssessmentCriterion) bool {
	for _, d := range allowedDepartments {
		if d == criterion.DepartmentID {
			return true
		}
	}
	return false
}

// Submit validates the whole answer set against the active catalog for the
// department, computes the score, and stores everything in one pass.
func (s AssessmentService) Submit(a models.Assessment, allowedDepartments []int64) (models.Assessment, error) {
	criteria, err := s.Repo.ListCriteria(a.DepartmentID, true)
	if err != nil {
		return models.Assessment{}, domain.InternalError{Msg: "gagal memuat kriteria", Err: err}
	}
	if len(criteria) == 0 {
		return models.Assessment{}, domain.NotFoundError{Resource: "assessment criteria"}
	}
	for _, c := range criteria {
		if !IsAuthorizedForDepartment(allowedDepartments, c) {
			return models.Assessment{}, domain.ValidationError{Field: "department_id", Msg: "tidak berwenang untuk departemen ini"}
		}
	}

	a.Answers = attachTypes(criteria, a.Answers)
	if err := s.ValidateAnswers(criteria, a.Answers); err != nil {
		return models.Assessment{}, err
	}

	a.Score, a.NCRCount = s.Score(a.Answers)
	if strings.TrimSpace(a.AssessedAt) == "" {
		a.AssessedAt = utils.FormatDateTime(utils.NowLocal())
	}

	id, err := s.Repo.Insert(a)
	if err != nil {
		return models.Assessment{}, domain.InternalError{Msg: "gagal menyimpan assessment", Err: err}
	}
	utils.LogEvent(s.RequestID, "assessment", "submit", "id="+strconv.FormatInt(id, 10)+" score="+a.Score)
	return s.Repo.GetByID(id)
}

// Resubmit replaces an existing assessment's whole answer set (edit mode).
func (s AssessmentService) Resubmit(a models.Assessment, allowedDepartments []int64) (models.Assessment, error) {
	if a.ID <= 0 {
		return models.Assessment{}, domain.ValidationError{Field: "id", Msg: "id tidak valid"}
	}
	criteria, err := s.Repo.ListCriteria(a.DepartmentID, true)
	if err != nil {
		return models.Assessment{}, domain.InternalError{Msg: "gagal memuat kriteria", Err: err}
	}
	for _, c := range criteria {
		if !IsAuthorizedForDepartment(allowedDepartments, c) {
			return models.Assessment{}, domain.ValidationError{Field: "department_id", Msg: "tidak berwenang untuk departemen ini"}
		}
	}

	a.Answers = attachTypes(criteria, a.Answers)
	if err := s.ValidateAnswers(criteria, a.Answers); err != nil {
		return models.Assessment{}, err
	}

	a.Score, a.NCRCount = s.Score(a.Answers)
	if err := s.Repo.Update(a); err != nil {
		return models.Assessment{}, err
	}
	utils.LogEvent(s.RequestID, "assessment", "resubmit", "id="+strconv.FormatInt(a.ID, 10)+" score="+a.Score)
	return s.Repo.GetByID(a.ID)
}

// attachTypes stamps each answer with its catalog criterion type so clients
// never decide the scoring rule themselves.
func attachTypes(criteria []models.AssessmentCriterion, answers []models.AssessmentAnswer) []models.AssessmentAnswer {
	typeByID := map[int64]string{}
	for _, c := range criteria {
		typeByID[c.ID] = c.Type
	}
	out := make([]models.AssessmentAnswer, 0, len(answers))
	for _, a := range answers {
		if t, ok := typeByID[a.CriterionID]; ok {
			a.Type = t
		}
		out = append(out, a)
	}
	return out
}
