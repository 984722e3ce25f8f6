package llm

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/oeelens/oee-apiserver/internal/domain"
	"github.com/oeelens/oee-apiserver/internal/domain/entity"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestParseAnalysis(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		wantErr bool
		intent  string
	}{
		{
			name:   "bare json",
			text:   `{"intent":"summary","needs_chart":true,"chart_types":["bar"]}`,
			intent: entity.IntentSummary,
		},
		{
			name:   "json wrapped in prose",
			text:   "Here is the analysis:\n```json\n{\"intent\":\"trend\"}\n```\nDone.",
			intent: entity.IntentTrend,
		},
		{
			name:    "no json",
			text:    "sorry, I cannot help with that",
			wantErr: true,
		},
		{
			name:    "json without intent",
			text:    `{"needs_chart": false}`,
			wantErr: true,
		},
		{
			name:    "broken json",
			text:    `{"intent": "summary",`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := parseAnalysis(tt.text)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %+v", a)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if a.Intent != tt.intent {
				t.Errorf("intent = %q, want %q", a.Intent, tt.intent)
			}
		})
	}
}

func sampleSummary() *entity.Summary {
	return &entity.Summary{
		TotalRecords:       42,
		TotalPartsProduced: 1000,
		TotalPartsRejected: 50,
		AverageOEE:         72.5,
		QualityRate:        95,
		TotalEnergy:        800,
		TotalCost:          160,
		Days:               20,
		MonthlyBreakdown: []entity.MonthlyStats{
			{Period: "2025-01", PartCount: 400, AvgOEE: 70},
			{Period: "2025-02", PartCount: 600, AvgOEE: 75},
		},
	}
}

func TestFallbackResponseDispatch(t *testing.T) {
	s := sampleSummary()
	tests := []struct {
		query string
		want  string
	}{
		{"give me a summary", "Manufacturing Analytics Report"},
		{"compare the months", "Comparative Analysis Report"},
		{"how is quality", "Quality Analysis Report"},
		{"what is the oee", "Overall Equipment Effectiveness"},
		{"energy usage", "Energy Consumption Report"},
		{"production cost", "Production Cost Analysis"},
		{"how many parts", "Manufacturing Summary"},
	}
	for _, tt := range tests {
		got := FallbackResponse(tt.query, "MC_PRESS_133", s)
		if !strings.Contains(got, tt.want) {
			t.Errorf("FallbackResponse(%q) missing %q:\n%s", tt.query, tt.want, got)
		}
		if !strings.Contains(got, "MC_PRESS_133") {
			t.Errorf("report for %q does not name the machine", tt.query)
		}
	}
}

func TestFallbackResponseNoData(t *testing.T) {
	got := FallbackResponse("summary", "MC_X", nil)
	if !strings.Contains(got, "No data available for machine MC_X") {
		t.Errorf("unexpected no-data response: %q", got)
	}
	got = FallbackResponse("summary", "MC_X", &entity.Summary{})
	if !strings.Contains(got, "No data available") {
		t.Errorf("unexpected empty-summary response: %q", got)
	}
}

func TestComparisonReportFallsBackToBasic(t *testing.T) {
	s := sampleSummary()
	s.MonthlyBreakdown = s.MonthlyBreakdown[:1]
	got := FallbackResponse("compare the months", "MC_PRESS_133", s)
	if !strings.Contains(got, "Manufacturing Summary") {
		t.Errorf("single-month comparison should fall back to basic report:\n%s", got)
	}
}

func TestComprehensiveReportRecommendations(t *testing.T) {
	s := sampleSummary()
	s.AverageOEE = 60
	s.QualityRate = 85
	got := comprehensiveReport("MC_PRESS_133", s)
	if !strings.Contains(got, "Improve OEE") {
		t.Error("low OEE should trigger a recommendation")
	}
	if !strings.Contains(got, "quality control measures") {
		t.Error("low quality rate should trigger a recommendation")
	}
	if !strings.Contains(got, "Monthly Performance Trends") {
		t.Error("monthly breakdown should be listed")
	}
}

func TestCompleteClassifiesBackendFailure(t *testing.T) {
	c, err := NewClient(Config{
		BaseURL: "http://127.0.0.1:9",
		Model:   "test",
		Timeout: 200 * time.Millisecond,
	}, testLogger())
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	_, err = c.complete(ctx, "hello")
	if !domain.IsUpstream(err) {
		t.Errorf("unreachable backend: got %v, want upstream error", err)
	}
}
