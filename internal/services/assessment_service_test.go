package services

import (
	"testing"

	"fleet-backend/internal/domain"
	"fleet-backend/internal/domain/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestContribution(t *testing.T) {
	cases := []struct {
		name string
		ans  models.AssessmentAnswer
		want int64
	}{
		{"ncr comply", models.AssessmentAnswer{Type: models.CriterionNCR, Value: models.AnswerComply}, 5},
		{"ncr not comply", models.AssessmentAnswer{Type: models.CriterionNCR, Value: models.AnswerNotComply}, 0},
		{"ncr na", models.AssessmentAnswer{Type: models.CriterionNCR, Value: models.AnswerNA}, 0},
		{"rating raw", models.AssessmentAnswer{Type: models.CriterionRating, Rating: 3}, 3},
		{"rating na", models.AssessmentAnswer{Type: models.CriterionRating, Rating: 0}, 0},
		{"selection equipped", models.AssessmentAnswer{Type: models.CriterionSelection, Value: models.AnswerEquipped}, 1},
		{"selection missing", models.AssessmentAnswer{Type: models.CriterionSelection, Value: models.AnswerMissing}, 0},
		{"selection na", models.AssessmentAnswer{Type: models.CriterionSelection, Value: models.AnswerNA}, 0},
		{"unknown type", models.AssessmentAnswer{Type: "other", Value: models.AnswerComply}, 0},
	}
	for _, tc := range cases {
		require.True(t, Contribution(tc.ans).Equal(decimal.NewFromInt(tc.want)), tc.name)
	}
}

func TestScoreKeepsNAInDenominator(t *testing.T) {
	answers := []models.AssessmentAnswer{
		{Type: models.CriterionNCR, Value: models.AnswerComply},
		{Type: models.CriterionNCR, Value: models.AnswerNotComply, Comment: "rosak"},
		{Type: models.CriterionNCR, Value: models.AnswerNA},
	}

	svc := AssessmentService{}
	score, ncr := svc.Score(answers)
	require.Equal(t, "33.33", score)
	require.Equal(t, 1, ncr)

	// The flag drops N/A rows from the denominator only.
	svc.ExcludeNA = true
	score, ncr = svc.Score(answers)
	require.Equal(t, "50.00", score)
	require.Equal(t, 1, ncr)
}

func TestScoreRatingNATreatment(t *testing.T) {
	answers := []models.AssessmentAnswer{
		{Type: models.CriterionRating, Rating: 4},
		{Type: models.CriterionRating, Rating: 0},
	}

	score, ncr := AssessmentService{}.Score(answers)
	require.Equal(t, "40.00", score)
	require.Equal(t, 0, ncr)

	score, _ = AssessmentService{ExcludeNA: true}.Score(answers)
	require.Equal(t, "80.00", score)
}

func TestScoreEmptySet(t *testing.T) {
	score, ncr := AssessmentService{ExcludeNA: true}.Score([]models.AssessmentAnswer{
		{Type: models.CriterionNCR, Value: models.AnswerNA},
	})
	require.Equal(t, "0.00", score)
	require.Equal(t, 0, ncr)
}

func TestValidateAnswers(t *testing.T) {
	criteria := []models.AssessmentCriterion{
		{ID: 1, Description: "Pemadam api", Type: models.CriterionNCR},
		{ID: 2, Description: "Kondisi tayar", Type: models.CriterionRating},
	}

	svc := AssessmentService{}

	// Unanswered criterion blocks submission.
	err := svc.ValidateAnswers(criteria, []models.AssessmentAnswer{
		{CriterionID: 1, Type: models.CriterionNCR, Value: models.AnswerComply},
	})
	require.True(t, domain.IsValidation(err))

	// A failing answer without its comment blocks submission.
	err = svc.ValidateAnswers(criteria, []models.AssessmentAnswer{
		{CriterionID: 1, Type: models.CriterionNCR, Value: models.AnswerNotComply},
		{CriterionID: 2, Type: models.CriterionRating, Rating: 3},
	})
	require.True(t, domain.IsValidation(err))

	// Same answers pass once the comment is provided.
	err = svc.ValidateAnswers(criteria, []models.AssessmentAnswer{
		{CriterionID: 1, Type: models.CriterionNCR, Value: models.AnswerNotComply, Comment: "tiada pemadam"},
		{CriterionID: 2, Type: models.CriterionRating, Rating: 3},
	})
	require.NoError(t, err)

	// Rating of 1 also demands a comment.
	err = svc.ValidateAnswers(criteria, []models.AssessmentAnswer{
		{CriterionID: 1, Type: models.CriterionNCR, Value: models.AnswerComply},
		{CriterionID: 2, Type: models.CriterionRating, Rating: 1},
	})
	require.True(t, domain.IsValidation(err))
}

func TestValidateAnswersRejectsDuplicateAndUnknown(t *testing.T) {
	criteria := []models.AssessmentCriterion{
		{ID: 1, Description: "Pemadam api", Type: models.CriterionNCR},
		{ID: 2, Description: "Kotak kecemasan", Type: models.CriterionNCR},
	}

	svc := AssessmentService{}

	// A second answer for the same criterion would inflate both sides of the
	// score; it must not pass validation.
	err := svc.ValidateAnswers(criteria, []models.AssessmentAnswer{
		{CriterionID: 1, Type: models.CriterionNCR, Value: models.AnswerComply},
		{CriterionID: 1, Type: models.CriterionNCR, Value: models.AnswerComply},
		{CriterionID: 2, Type: models.CriterionNCR, Value: models.AnswerNA},
	})
	require.True(t, domain.IsValidation(err))

	// Answers for criteria outside the catalog are rejected outright.
	err = svc.ValidateAnswers(criteria, []models.AssessmentAnswer{
		{CriterionID: 1, Type: models.CriterionNCR, Value: models.AnswerComply},
		{CriterionID: 2, Type: models.CriterionNCR, Value: models.AnswerNA},
		{CriterionID: 99, Type: models.CriterionNCR, Value: models.AnswerComply},
	})
	require.True(t, domain.IsValidation(err))

	// The validated one-answer-per-criterion set scores over the catalog size.
	answers := []models.AssessmentAnswer{
		{CriterionID: 1, Type: models.CriterionNCR, Value: models.AnswerComply},
		{CriterionID: 2, Type: models.CriterionNCR, Value: models.AnswerNA},
	}
	require.NoError(t, svc.ValidateAnswers(criteria, answers))
	score, _ := svc.Score(answers)
	require.Equal(t, "50.00", score)
}

func TestIsAuthorizedForDepartment(t *testing.T) {
	crit := models.AssessmentCriterion{ID: 1, DepartmentID: 7}
	require.True(t, IsAuthorizedForDepartment([]int64{3, 7}, crit))
	require.False(t, IsAuthorizedForDepartment([]int64{3, 4}, crit))
	require.False(t, IsAuthorizedForDepartment(nil, crit))
}
