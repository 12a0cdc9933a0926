package models

import "strings"

// Criterion types from the compliance catalog.
const (
	CriterionNCR       = "ncr"
	CriterionRating    = "rating"
	CriterionSelection = "selection"
)

// Answer values. Rating answers are carried separately as an int 0..4
// (0 meaning N/A).
const (
	AnswerNA        = "na"
	AnswerComply    = "comply"
	AnswerNotComply = "not_comply"
	AnswerEquipped  = "equipped"
	AnswerMissing   = "missing"
)

// AssessmentCriterion is one row of the compliance catalog.
type AssessmentCriterion struct {
	ID           int64  `json:"id"`
	OrderIndex   int    `json:"order_index"`
	Description  string `json:"description"`
	Type         string `json:"type"`
	DepartmentID int64  `json:"department_id"`
	Active       bool   `json:"active"`
}

// AssessmentAnswer is one criterion's answer within an assessment.
// Value holds the NCR/Selection answer; Rating holds the 0-4 rating.
type AssessmentAnswer struct {
	CriterionID int64  `json:"criterion_id"`
	Type        string `json:"type"`
	Value       string `json:"value,omitempty"`
	Rating      int    `json:"rating,omitempty"`
	Comment     string `json:"comment,omitempty"`
	ProofImage  string `json:"proof_image,omitempty"`
}

// Assessment is one vehicle compliance assessment submission.
type Assessment struct {
	ID            int64              `json:"id"`
	VehicleID     int64              `json:"vehicle_id"`
	AssessorRamco string             `json:"assessor_ramco"`
	DepartmentID  int64              `json:"department_id"`
	AssessedAt    string             `json:"assessed_at"`
	Remarks       string             `json:"remarks,omitempty"`
	Score         string             `json:"score,omitempty"`
	NCRCount      int                `json:"ncr_count"`
	VehicleImages []string           `json:"vehicle_images,omitempty"`
	Answers       []AssessmentAnswer `json:"answers,omitempty"`
}

// IsComplete reports whether the answer satisfies the per-type completion
// rule. Rating completeness allows N/A (0) through 4.
func (a AssessmentAnswer) IsComplete() bool {
	switch a.Type {
	case CriterionNCR:
		switch a.Value {
		case AnswerNA, AnswerComply, AnswerNotComply:
			return a.commentSatisfied()
		}
		return false
	case CriterionRating:
		if a.Rating < 0 || a.Rating > 4 {
			return false
		}
		return a.commentSatisfied()
	case CriterionSelection:
		switch a.Value {
		case AnswerNA, AnswerEquipped, AnswerMissing:
			return a.commentSatisfied()
		}
		return false
	}
	return false
}

// CommentRequired holds for the failing answers: NCR not-comply, rating of 1,
// or a missing selection.
func (a AssessmentAnswer) CommentRequired() bool {
	switch a.Type {
	case CriterionNCR:
		return a.Value == AnswerNotComply
	case CriterionRating:
		return a.Rating == 1
	case CriterionSelection:
		return a.Value == AnswerMissing
	}
	return false
}

func (a AssessmentAnswer) commentSatisfied() bool {
	if !a.CommentRequired() {
		return true
	}
	return strings.TrimSpace(a.Comment) != ""
}
