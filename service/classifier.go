package services

import (
	"math/rand"
	"strings"
)

// classifierRule maps a filename substring to a document type. The table
// is evaluated top to bottom and the first match wins, so more specific
// form numbers (1099-nec, 1098-e) must stay above their generic prefixes
// (1099, 1098).
type classifierRule struct {
	keyword string
	docType string
}

var classifierRules = []classifierRule{
	{"w-2", "w2"},
	{"w2", "w2"},
	{"ssa-1099", "ssa_1099"},
	{"ssa1099", "ssa_1099"},
	{"1099-nec", "1099_nec"},
	{"1099nec", "1099_nec"},
	{"1099-int", "1099_int"},
	{"1099-div", "1099_div"},
	{"1099-b", "1099_b"},
	{"1099-g", "1099_g"},
	{"1099-r", "1099_r"},
	{"1099-sa", "form_1099_sa"},
	{"1099", "1099_misc"},
	{"1098-e", "form_1098_e"},
	{"1098-t", "form_1098_t"},
	{"1098", "form_1098"},
	{"5498", "form_5498_sa"},
	{"passport", "government_id"},
	{"drivers-license", "government_id"},
	{"driver", "government_id"},
	{"donation", "donation_receipts"},
	{"charit", "donation_receipts"},
	{"childcare", "childcare_receipts"},
	{"daycare", "childcare_receipts"},
	{"medical", "medical_receipts"},
	{"rental", "rental_records"},
	{"tax-return", "prior_year_return"},
	{"expense", "business_expense"},
}

// ClassifyFilename infers a document type from the uploaded filename.
// Falls through to "other" when nothing matches.
func ClassifyFilename(filename string) string {
	name := strings.ToLower(filename)
	for _, rule := range classifierRules {
		if strings.Contains(name, rule.keyword) {
			return rule.docType
		}
	}
	return "other"
}

// documentKeywords are display-only topic hints per document type.
var documentKeywords = map[string][]string{
	"w2":                {"wages", "employer", "withholding"},
	"1099_nec":          {"nonemployee compensation", "contractor"},
	"1099_int":          {"interest income", "bank"},
	"1099_div":          {"dividends", "brokerage"},
	"1099_b":            {"proceeds", "cost basis", "capital gains"},
	"1099_g":            {"unemployment", "state payments"},
	"1099_r":            {"retirement", "distribution", "pension"},
	"ssa_1099":          {"social security", "benefits"},
	"form_1098":         {"mortgage interest", "lender"},
	"form_1098_e":       {"student loan", "interest paid"},
	"form_1098_t":       {"tuition", "education"},
	"form_1099_sa":      {"hsa", "distribution"},
	"form_5498_sa":      {"hsa", "contribution"},
	"government_id":     {"identity", "photo id"},
	"prior_year_return": {"prior year", "form 1040"},
	"donation_receipts": {"charity", "contribution"},
	"business_expense":  {"expenses", "deductions"},
	"rental_records":    {"rental income", "schedule e"},
}

// DocumentAnalysis is the mock classification payload stored alongside an
// upload. It is display only and never gates any business logic.
type DocumentAnalysis struct {
	DocumentType string   `json:"document_type"`
	Confidence   float64  `json:"confidence"`
	Keywords     []string `json:"keywords"`
	AutoMatched  bool     `json:"auto_matched"`
}

// AnalyzeDocument produces the mock confidence score and topic keywords
// for a classified type. Confidence is uniform in a fixed band; there is
// no real model behind it.
func AnalyzeDocument(docType string) DocumentAnalysis {
	keywords := documentKeywords[docType]
	if keywords == nil {
		keywords = []string{"document"}
	}
	return DocumentAnalysis{
		DocumentType: docType,
		Confidence:   0.72 + rand.Float64()*0.25,
		Keywords:     keywords,
	}
}
