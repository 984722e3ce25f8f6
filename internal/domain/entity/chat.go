package entity

import (
	"strconv"
	"time"
)

// Query intents recognized by the analyzer.
const (
	IntentSummary        = "summary"
	IntentComparison     = "comparison"
	IntentTrend          = "trend"
	IntentSpecificMetric = "specific_metric"
)

// Analysis is the structured interpretation of a user query, produced
// by the model backend or the rule-based fallback.
type Analysis struct {
	Intent       string   `json:"intent"`
	TimePeriod   string   `json:"time_period"`
	Metrics      []string `json:"metrics"`
	NeedsChart   bool     `json:"needs_chart"`
	ChartTypes   []string `json:"chart_types"`
	AnalysisType string   `json:"analysis_type"`
}

// Chart is a rendered visualization: a titled PNG image encoded as
// base64, with an optional description shown under it.
type Chart struct {
	Type        string `json:"type"` // bar, pie, line, area, combo
	Title       string `json:"title"`
	Image       string `json:"image"` // base64-encoded PNG bytes
	Description string `json:"description,omitempty"`
}

// Period is a resolved month window extracted from a query.
type Period struct {
	Month    time.Month
	Year     int
	Explicit bool // true when the query actually named a month or year
}

// Label returns the period formatted as "january_2025" for display,
// matching the source-file naming scheme.
func (p Period) Label() string {
	months := [...]string{
		"january", "february", "march", "april", "may", "june",
		"july", "august", "september", "october", "november", "december",
	}
	return months[p.Month-1] + "_" + strconv.Itoa(p.Year)
}
