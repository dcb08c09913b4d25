// Package freshness checks document recency per category against the fixed
// compliance thresholds.
package freshness

import (
	"fmt"
	"time"
)

// Category is a freshness-checked document category.
type Category string

const (
	CategoryProofOfAddress Category = "proof_of_address"
	CategorySatConstancia  Category = "sat_constancia"
	CategoryBankStatement  Category = "bank_statement"
)

// Threshold in days per category.  Utility bills and bank statements go stale
// quickly; the SAT constancia is reissued yearly.
var thresholdDays = map[Category]int{
	CategoryProofOfAddress: 90,
	CategorySatConstancia:  365,
	CategoryBankStatement:  90,
}

// Categories returns the checked categories in stable order.
func Categories() []Category {
	return []Category{CategoryProofOfAddress, CategorySatConstancia, CategoryBankStatement}
}

// ThresholdDays returns the staleness threshold for the category, or 0 when
// the category is not freshness-checked.
func ThresholdDays(c Category) int {
	return thresholdDays[c]
}

// DatedDocument is one supporting document with its usable date, as extracted.
// Dates are ISO "2006-01-02" strings; an unparsable or empty date makes the
// document unusable for freshness.
type DatedDocument struct {
	SourceName string
	Date       string
}

// Check is the freshness outcome for one category.
type Check struct {
	DocType             Category `json:"doc_type"`
	LatestDate          *string  `json:"latest_date"`
	AgeInDays           *int     `json:"age_in_days"`
	WithinThreshold     bool     `json:"within_threshold"`
	ThresholdDays       int      `json:"threshold_days"`
	SupportingDocuments []string `json:"supporting_documents,omitempty"`
	Message             string   `json:"message,omitempty"`
}

const dateLayout = "2006-01-02"

// Evaluate finds the most recent usable date among the category's documents
// and compares its age at now against the category threshold.  A document
// aged exactly at the threshold is still within it.  No usable date yields
// LatestDate nil and WithinThreshold false with a message, never a silent
// pass.
func Evaluate(category Category, docs []DatedDocument, now time.Time) Check {
	c := Check{DocType: category, ThresholdDays: thresholdDays[category]}

	var latest time.Time
	var latestRaw string
	for _, d := range docs {
		if d.SourceName != "" {
			c.SupportingDocuments = append(c.SupportingDocuments, d.SourceName)
		}
		if d.Date == "" {
			continue
		}
		t, err := time.Parse(dateLayout, d.Date)
		if err != nil {
			continue
		}
		if latestRaw == "" || t.After(latest) {
			latest = t
			latestRaw = d.Date
		}
	}

	if latestRaw == "" {
		c.Message = fmt.Sprintf("no dated %s document available", category)
		return c
	}

	age := int(now.Sub(latest).Hours() / 24)
	c.LatestDate = &latestRaw
	c.AgeInDays = &age
	c.WithinThreshold = age <= c.ThresholdDays
	if !c.WithinThreshold {
		c.Message = fmt.Sprintf("latest %s is %d days old, threshold is %d", category, age, c.ThresholdDays)
	}
	return c
}

// EvaluateAll runs Evaluate for every checked category over the per-category
// document sets, in stable order.
func EvaluateAll(byCategory map[Category][]DatedDocument, now time.Time) []Check {
	out := make([]Check, 0, len(thresholdDays))
	for _, cat := range Categories() {
		out = append(out, Evaluate(cat, byCategory[cat], now))
	}
	return out
}
