// Package analysis interprets natural-language queries about machine
// telemetry and computes the aggregate statistics responses are
// generated from.
package analysis

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/oeelens/oee-apiserver/internal/domain/entity"
)

var yearRe = regexp.MustCompile(`20\d{2}`)

// Month keywords in match order. Long forms first so "september" is
// not consumed by "sep".
var monthWords = []struct {
	word  string
	month time.Month
}{
	{"january", time.January}, {"february", time.February}, {"march", time.March},
	{"april", time.April}, {"june", time.June}, {"july", time.July},
	{"august", time.August}, {"september", time.September}, {"sept", time.September},
	{"october", time.October}, {"november", time.November}, {"december", time.December},
	{"jan", time.January}, {"feb", time.February}, {"mar", time.March},
	{"apr", time.April}, {"may", time.May}, {"jun", time.June}, {"jul", time.July},
	{"aug", time.August}, {"sep", time.September}, {"oct", time.October},
	{"nov", time.November}, {"dec", time.December},
}

// ExtractPeriod resolves the month window a query refers to. Relative
// phrases win over explicit month names; a bare year defaults to
// January of that year; a query with no date at all defaults to
// January of the current year, marked non-explicit.
func ExtractPeriod(query string, now time.Time) entity.Period {
	q := strings.ToLower(query)

	switch {
	case strings.Contains(q, "this month"):
		return entity.Period{Month: now.Month(), Year: now.Year(), Explicit: true}
	case strings.Contains(q, "last month"):
		prev := now.AddDate(0, -1, 0)
		return entity.Period{Month: prev.Month(), Year: prev.Year(), Explicit: true}
	case strings.Contains(q, "this year"):
		return entity.Period{Month: time.January, Year: now.Year(), Explicit: true}
	case strings.Contains(q, "last year"):
		return entity.Period{Month: time.January, Year: now.Year() - 1, Explicit: true}
	}

	month := time.Month(0)
	for _, mw := range monthWords {
		if containsWord(q, mw.word) {
			month = mw.month
			break
		}
	}

	year := now.Year()
	explicit := month != 0
	if m := yearRe.FindString(q); m != "" {
		year, _ = strconv.Atoi(m)
		explicit = true
	}

	if month == 0 {
		month = time.January
	}

	return entity.Period{Month: month, Year: year, Explicit: explicit}
}

// containsWord reports whether q contains w bounded by non-letters, so
// "may" does not match inside "maybe".
func containsWord(q, w string) bool {
	for i := 0; ; {
		j := strings.Index(q[i:], w)
		if j < 0 {
			return false
		}
		j += i
		before := j == 0 || !isLetter(q[j-1])
		after := j+len(w) == len(q) || !isLetter(q[j+len(w)])
		if before && after {
			return true
		}
		i = j + 1
	}
}

func isLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

// PeriodRange returns the inclusive first and last day of the period's
// month.
func PeriodRange(p entity.Period) (time.Time, time.Time) {
	start := time.Date(p.Year, p.Month, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, -1)
	return start, end
}

// ClassifyIntent derives the query intent from keyword heuristics.
func ClassifyIntent(query string) string {
	q := strings.ToLower(query)
	switch {
	case containsAny(q, "summary", "overview", "report"):
		return entity.IntentSummary
	case containsAny(q, "compare", "comparison", "vs", "versus"):
		return entity.IntentComparison
	case containsAny(q, "trend", "over time", "change"):
		return entity.IntentTrend
	default:
		return entity.IntentSpecificMetric
	}
}

// NeedsChart reports whether the query asks for a visualization.
func NeedsChart(query string) bool {
	return containsAny(strings.ToLower(query), "chart", "graph", "visual", "plot", "show")
}

// Fallback produces a rule-based Analysis when the model backend is
// unreachable or returns unparseable output.
func Fallback(query string) *entity.Analysis {
	intent := ClassifyIntent(query)

	a := &entity.Analysis{
		Intent:       intent,
		TimePeriod:   "all",
		Metrics:      []string{"OEE", "Production", "Quality"},
		NeedsChart:   NeedsChart(query),
		ChartTypes:   []string{"bar", "line"},
		AnalysisType: "basic_analysis",
	}

	switch intent {
	case entity.IntentSummary:
		a.Metrics = []string{"OEE", "Production", "Quality", "Energy"}
		a.NeedsChart = true
		a.ChartTypes = []string{"bar", "pie", "line"}
		a.AnalysisType = "comprehensive_summary"
	case entity.IntentComparison:
		a.NeedsChart = true
		a.ChartTypes = []string{"bar", "line", "comparison"}
		a.AnalysisType = "comparative_analysis"
	case entity.IntentTrend:
		a.Metrics = []string{"OEE", "Energy", "Production"}
		a.NeedsChart = true
		a.ChartTypes = []string{"line", "area"}
		a.AnalysisType = "trend_analysis"
	}

	return a
}

func containsAny(s string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
