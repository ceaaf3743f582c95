package services

import (
	"encoding/json"

	model "github.com/clearfile/taxportal/models"
)

// Requirement describes one document the client must supply.
type Requirement struct {
	Type          string
	Description   string
	IsBusinessDoc bool
}

// Predicate kinds for requirement rules. Keeping the variants closed makes
// the rule table exhaustive: adding a rule never touches control flow.
type predicateKind int

const (
	predicateAlways predicateKind = iota
	predicateBoolFlag
	predicateListContains
)

// requirementRule maps one questionnaire condition to the documents it
// makes necessary.
type requirementRule struct {
	kind       predicateKind
	questionID string
	option     string // member tested for by predicateListContains
	adds       []Requirement
}

// requirementRules is evaluated top to bottom; declaration order defines
// checklist display order. More than one rule may add the same document
// type with different descriptions, so dedup is by (type, description).
var requirementRules = []requirementRule{
	{kind: predicateAlways, adds: []Requirement{
		{Type: "government_id", Description: "Government-issued photo ID"},
	}},
	{kind: predicateAlways, adds: []Requirement{
		{Type: "prior_year_return", Description: "Prior year tax return"},
	}},
	{kind: predicateListContains, questionID: "employment_type", option: "W-2 Employee", adds: []Requirement{
		{Type: "w2", Description: "Form W-2 from each employer"},
	}},
	{kind: predicateListContains, questionID: "employment_type", option: "Self-Employment/1099", adds: []Requirement{
		{Type: "1099_nec", Description: "Form 1099-NEC for contract income", IsBusinessDoc: true},
		{Type: "business_expense", Description: "Business expense records", IsBusinessDoc: true},
	}},
	{kind: predicateListContains, questionID: "employment_type", option: "Retired", adds: []Requirement{
		{Type: "ssa_1099", Description: "Form SSA-1099 Social Security benefit statement"},
		{Type: "1099_r", Description: "Form 1099-R retirement distributions"},
	}},
	{kind: predicateListContains, questionID: "employment_type", option: "Unemployed", adds: []Requirement{
		{Type: "1099_g", Description: "Form 1099-G unemployment compensation"},
	}},
	{kind: predicateListContains, questionID: "income_sources", option: "Interest or Dividends", adds: []Requirement{
		{Type: "1099_int", Description: "Form 1099-INT interest income"},
		{Type: "1099_div", Description: "Form 1099-DIV dividend income"},
	}},
	{kind: predicateListContains, questionID: "income_sources", option: "Stock or Crypto Sales", adds: []Requirement{
		{Type: "1099_b", Description: "Form 1099-B broker proceeds"},
	}},
	{kind: predicateListContains, questionID: "income_sources", option: "Rental Property", adds: []Requirement{
		{Type: "rental_records", Description: "Rental income and expense records"},
	}},
	{kind: predicateBoolFlag, questionID: "mortgage_interest", adds: []Requirement{
		{Type: "form_1098", Description: "Form 1098 Mortgage Interest Statement"},
	}},
	{kind: predicateBoolFlag, questionID: "student_loan_interest", adds: []Requirement{
		{Type: "form_1098_e", Description: "Form 1098-E Student Loan Interest Statement"},
	}},
	{kind: predicateBoolFlag, questionID: "tuition_paid", adds: []Requirement{
		{Type: "form_1098_t", Description: "Form 1098-T Tuition Statement"},
	}},
	{kind: predicateBoolFlag, questionID: "childcare_expenses", adds: []Requirement{
		{Type: "childcare_receipts", Description: "Childcare provider receipts and tax ID"},
	}},
	{kind: predicateBoolFlag, questionID: "charitable_donations", adds: []Requirement{
		{Type: "donation_receipts", Description: "Charitable donation receipts"},
	}},
	{kind: predicateBoolFlag, questionID: "medical_expenses", adds: []Requirement{
		{Type: "medical_receipts", Description: "Medical and dental expense records"},
	}},
	{kind: predicateBoolFlag, questionID: "hsa_contributions", adds: []Requirement{
		{Type: "form_1099_sa", Description: "Form 1099-SA HSA distributions"},
		{Type: "form_5498_sa", Description: "Form 5498-SA HSA contributions"},
	}},
	{kind: predicateBoolFlag, questionID: "estimated_payments", adds: []Requirement{
		{Type: "estimated_payment_records", Description: "Estimated tax payment confirmations"},
	}},
	{kind: predicateBoolFlag, questionID: "owns_business", adds: []Requirement{
		{Type: "business_income", Description: "Business income statements", IsBusinessDoc: true},
		{Type: "business_expense", Description: "Business expense records", IsBusinessDoc: true},
	}},
}

// GenerateRequirements derives the deduplicated document checklist from a
// set of questionnaire answers. Pure and deterministic: identical input
// yields identical output, content and order. Unknown question ids and
// mistyped answers simply never fire.
func GenerateRequirements(answers []model.QuestionnaireAnswer) []Requirement {
	values := make(map[string]interface{}, len(answers))
	for _, a := range answers {
		var v interface{}
		if err := json.Unmarshal(a.Answer, &v); err != nil {
			continue
		}
		values[a.QuestionID] = v
	}

	type reqKey struct{ typ, desc string }
	seen := make(map[reqKey]bool)
	var out []Requirement

	for _, rule := range requirementRules {
		if !rule.fires(values) {
			continue
		}
		for _, req := range rule.adds {
			key := reqKey{req.Type, req.Description}
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, req)
		}
	}
	return out
}

func (r requirementRule) fires(values map[string]interface{}) bool {
	switch r.kind {
	case predicateAlways:
		return true
	case predicateBoolFlag:
		// Only a strict boolean true fires; false, missing and non-boolean
		// answers do not.
		b, ok := values[r.questionID].(bool)
		return ok && b
	case predicateListContains:
		list, ok := values[r.questionID].([]interface{})
		if !ok {
			return false
		}
		for _, entry := range list {
			if s, ok := entry.(string); ok && s == r.option {
				return true
			}
		}
		return false
	}
	return false
}
