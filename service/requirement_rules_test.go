package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	model "github.com/clearfile/taxportal/models"
)

func TestGenerateRequirements_Deterministic(t *testing.T) {
	answers := []model.QuestionnaireAnswer{
		answer(t, "u1", "employment_type", []string{"W-2 Employee", "Self-Employment/1099"}),
		answer(t, "u1", "mortgage_interest", true),
		answer(t, "u1", "charitable_donations", true),
	}

	first := GenerateRequirements(answers)
	second := GenerateRequirements(answers)
	assert.Equal(t, first, second, "identical input must yield identical output, content and order")
}

func TestGenerateRequirements_UnconditionalAlwaysPresentOnce(t *testing.T) {
	tests := []struct {
		name    string
		answers []model.QuestionnaireAnswer
	}{
		{name: "no answers", answers: nil},
		{name: "unrelated answers", answers: []model.QuestionnaireAnswer{
			answer(t, "u1", "favorite_color", "blue"),
		}},
		{name: "full answers", answers: []model.QuestionnaireAnswer{
			answer(t, "u1", "employment_type", []string{"W-2 Employee"}),
			answer(t, "u1", "mortgage_interest", true),
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reqs := GenerateRequirements(tt.answers)

			countByType := map[string]int{}
			for _, r := range reqs {
				countByType[r.Type]++
			}
			assert.Equal(t, 1, countByType["government_id"])
			assert.Equal(t, 1, countByType["prior_year_return"])

			// Unconditional requirements lead the checklist.
			assert.Equal(t, "government_id", reqs[0].Type)
			assert.Equal(t, "prior_year_return", reqs[1].Type)
		})
	}
}

func TestGenerateRequirements_SelfEmployment(t *testing.T) {
	answers := []model.QuestionnaireAnswer{
		answer(t, "u1", "employment_type", []string{"Self-Employment/1099"}),
	}

	reqs := GenerateRequirements(answers)

	types := map[string]bool{}
	for _, r := range reqs {
		types[r.Type] = true
		if r.Type == "1099_nec" || r.Type == "business_expense" {
			assert.True(t, r.IsBusinessDoc, "%s should be a business document", r.Type)
		}
	}
	assert.True(t, types["1099_nec"])
	assert.True(t, types["business_expense"])
}

func TestGenerateRequirements_BoolFlagStrictness(t *testing.T) {
	tests := []struct {
		name  string
		value interface{}
		fires bool
	}{
		{"true fires", true, true},
		{"false does not fire", false, false},
		{"string yes does not fire", "yes", false},
		{"number does not fire", 1, false},
		{"null does not fire", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			answers := []model.QuestionnaireAnswer{
				answer(t, "u1", "mortgage_interest", tt.value),
			}
			reqs := GenerateRequirements(answers)

			found := false
			for _, r := range reqs {
				if r.Type == "form_1098" {
					found = true
				}
			}
			assert.Equal(t, tt.fires, found)
		})
	}
}

func TestGenerateRequirements_IgnoresMalformedAnswers(t *testing.T) {
	answers := []model.QuestionnaireAnswer{
		// Multi-select question answered with a scalar: must not fire.
		answer(t, "u1", "employment_type", "W-2 Employee"),
		answer(t, "u1", "unknown_question", []string{"whatever"}),
	}

	reqs := GenerateRequirements(answers)

	for _, r := range reqs {
		assert.NotEqual(t, "w2", r.Type, "scalar answer to a multi-select must not fire")
	}
	// Only the unconditional requirements remain.
	assert.Len(t, reqs, 2)
}

func TestGenerateRequirements_NoDuplicates(t *testing.T) {
	// owns_business and Self-Employment/1099 both add business_expense
	// with the same description; it must appear once.
	answers := []model.QuestionnaireAnswer{
		answer(t, "u1", "employment_type", []string{"Self-Employment/1099"}),
		answer(t, "u1", "owns_business", true),
	}

	reqs := GenerateRequirements(answers)

	seen := map[string]int{}
	for _, r := range reqs {
		seen[r.Type+"|"+r.Description]++
	}
	for key, n := range seen {
		assert.Equal(t, 1, n, "duplicate requirement %s", key)
	}
}
