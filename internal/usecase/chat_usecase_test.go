package usecase

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

// Mock MachineRepository for testing.
type testMachineRepository struct {
	machines []string
	files    map[string][]entity.DataFile
	records  []entity.ShiftRecord
	lastFrom time.Time
	lastTo   time.Time
}

func (r *testMachineRepository) ListMachines(ctx context.Context) ([]string, error) {
	return r.machines, nil
}

func (r *testMachineRepository) ListFiles(ctx context.Context, machine string) ([]entity.DataFile, error) {
	files, ok := r.files[machine]
	if !ok {
		return nil, domain.NewNotFoundError("machine", machine)
	}
	return files, nil
}

func (r *testMachineRepository) QueryRange(ctx context.Context, machine string, start, end time.Time) ([]entity.ShiftRecord, error) {
	r.lastFrom, r.lastTo = start, end
	return r.records, nil
}

// Mock LLMClient that always answers from templates.
type testLLMClient struct {
	analysis *entity.Analysis
	response string
}

func (c *testLLMClient) AnalyzeQuery(ctx context.Context, query, machine string, summary *entity.Summary) *entity.Analysis {
	return c.analysis
}

func (c *testLLMClient) GenerateResponse(ctx context.Context, query, machine string, summary *entity.Summary, a *entity.Analysis) string {
	return c.response
}

type testChartGenerator struct {
	charts []entity.Chart
	called bool
}

func (g *testChartGenerator) Generate(a *entity.Analysis, machine string, records []entity.ShiftRecord, summary *entity.Summary) []entity.Chart {
	g.called = true
	return g.charts
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func fixedNow() time.Time {
	return time.Date(2025, time.March, 15, 12, 0, 0, 0, time.UTC)
}

func testShiftRecords() []entity.ShiftRecord {
	return []entity.ShiftRecord{
		{Machine: "MC_PRESS_133", Date: time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC),
			ShiftName: "SH1", AvgOEE: 75, PartCount: 100, PartReject: 5, TotalEnergy: 50},
	}
}

func newTestChatUsecase(repo *testMachineRepository, llm *testLLMClient, charts *testChartGenerator) domain.ChatUsecase {
	u := NewChatUsecase(repo, llm, charts, testLogger())
	u.(*chatUsecase).now = fixedNow
	return u
}

func TestChatSuccess(t *testing.T) {
	repo := &testMachineRepository{records: testShiftRecords()}
	llm := &testLLMClient{
		analysis: &entity.Analysis{Intent: entity.IntentSummary, NeedsChart: true},
		response: "**Summary**\nAll good.",
	}
	charts := &testChartGenerator{charts: []entity.Chart{{Type: "bar", Title: "t", Image: "aGk="}}}

	u := newTestChatUsecase(repo, llm, charts)
	resp, err := u.Chat(context.Background(), &domain.ChatRequest{
		Query:   "give me a summary",
		Machine: "MC_PRESS_133",
	})
	if err != nil {
		t.Fatalf("chat: %v", err)
	}

	if resp.Type != domain.ResponseSuccess {
		t.Errorf("type = %q, want success", resp.Type)
	}
	if !strings.Contains(resp.HTML, "<strong>Summary</strong>") {
		t.Errorf("HTML not formatted: %q", resp.HTML)
	}
	if !strings.Contains(resp.HTML, "<br>") {
		t.Errorf("newlines not converted: %q", resp.HTML)
	}
	if len(resp.Charts) != 1 || !charts.called {
		t.Error("charts were not generated")
	}
	if resp.Analysis == nil || resp.Analysis.Intent != entity.IntentSummary {
		t.Errorf("analysis not propagated: %+v", resp.Analysis)
	}
}

func TestChatPeriodPrefix(t *testing.T) {
	repo := &testMachineRepository{records: testShiftRecords()}
	llm := &testLLMClient{
		analysis: &entity.Analysis{Intent: entity.IntentSpecificMetric},
		response: "OEE was 75%.",
	}

	u := newTestChatUsecase(repo, llm, &testChartGenerator{})
	resp, err := u.Chat(context.Background(), &domain.ChatRequest{
		Query:   "oee for january 2025",
		Machine: "MC_PRESS_133",
	})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(resp.Response, "**Analysis for january_2025:**") {
		t.Errorf("missing period prefix: %q", resp.Response)
	}
	// The repository must have been queried for that month.
	if repo.lastFrom.Month() != time.January || repo.lastTo.Day() != 31 {
		t.Errorf("queried %v to %v, want January 2025", repo.lastFrom, repo.lastTo)
	}
}

func TestChatNoDataIsErrorResponse(t *testing.T) {
	repo := &testMachineRepository{} // no records
	llm := &testLLMClient{analysis: &entity.Analysis{Intent: entity.IntentSummary}}
	charts := &testChartGenerator{}

	u := newTestChatUsecase(repo, llm, charts)
	resp, err := u.Chat(context.Background(), &domain.ChatRequest{
		Query:   "summary for january 2025",
		Machine: "MC_PRESS_133",
	})
	if err != nil {
		t.Fatalf("no data must not be a Go error: %v", err)
	}
	if resp.Type != domain.ResponseError {
		t.Errorf("type = %q, want error", resp.Type)
	}
	if !strings.Contains(resp.Response, "No data found for machine MC_PRESS_133") {
		t.Errorf("unexpected message: %q", resp.Response)
	}
	if !strings.Contains(resp.Response, "january_2025") {
		t.Errorf("explicit period should be named: %q", resp.Response)
	}
	if charts.called {
		t.Error("charts must not be generated without data")
	}
}

func TestChatValidation(t *testing.T) {
	u := newTestChatUsecase(&testMachineRepository{}, &testLLMClient{}, &testChartGenerator{})

	tests := []struct {
		name string
		req  *domain.ChatRequest
	}{
		{"nil request", nil},
		{"empty query", &domain.ChatRequest{Machine: "MC_X"}},
		{"empty machine", &domain.ChatRequest{Query: "summary"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := u.Chat(context.Background(), tt.req)
			if !domain.IsInvalidInput(err) {
				t.Errorf("expected invalid-input error, got %v", err)
			}
		})
	}
}

func TestChatNoChartWhenNotNeeded(t *testing.T) {
	repo := &testMachineRepository{records: testShiftRecords()}
	llm := &testLLMClient{
		analysis: &entity.Analysis{Intent: entity.IntentSpecificMetric, NeedsChart: false},
		response: "75%",
	}
	charts := &testChartGenerator{charts: []entity.Chart{{Type: "bar"}}}

	u := newTestChatUsecase(repo, llm, charts)
	resp, err := u.Chat(context.Background(), &domain.ChatRequest{Query: "oee", Machine: "MC_X"})
	if err != nil {
		t.Fatal(err)
	}
	if charts.called || len(resp.Charts) != 0 {
		t.Error("charts generated although analysis did not ask for them")
	}
}
