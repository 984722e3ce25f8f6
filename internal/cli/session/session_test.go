package session

import (
	"strings"
	"testing"

	"github.com/oeelens/oee-apiserver/internal/cli/types"
)

func TestTranscriptSkipsErrors(t *testing.T) {
	s := New("MC_PRESS_9")
	s.Append(Exchange{Query: "show oee", Response: "**OEE Report**"})
	s.Append(Exchange{Query: "show feb", Response: "No data found", IsError: true})
	s.Append(Exchange{Query: "show quality", Response: "**Quality Report**"})

	got := s.Transcript()
	if !strings.Contains(got, "**OEE Report**") || !strings.Contains(got, "**Quality Report**") {
		t.Errorf("transcript missing successful answers: %q", got)
	}
	if strings.Contains(got, "No data found") {
		t.Errorf("transcript should skip error answers: %q", got)
	}
	if !strings.Contains(got, "**OEE Report**\n\n**Quality Report**") {
		t.Errorf("answers should be separated by a blank line: %q", got)
	}
}

func TestChartsAccumulateInOrder(t *testing.T) {
	s := New("MC_PRESS_9")
	s.Append(Exchange{
		Response: "a",
		Charts:   []types.ChartData{{Type: "bar", Title: "OEE Distribution"}},
	})
	s.Append(Exchange{
		Response: "b",
		IsError:  true,
		Charts:   []types.ChartData{{Type: "pie", Title: "should be dropped"}},
	})
	s.Append(Exchange{
		Response: "c",
		Charts:   []types.ChartData{{Type: "line", Title: "OEE Trend"}},
	})

	charts := s.Charts()
	if len(charts) != 2 {
		t.Fatalf("expected 2 charts, got %d", len(charts))
	}
	if charts[0].Title != "OEE Distribution" || charts[1].Title != "OEE Trend" {
		t.Errorf("unexpected chart order: %v", charts)
	}
}

func TestSetMachineClearsHistory(t *testing.T) {
	s := New("MC_PRESS_9")
	s.Append(Exchange{Query: "q", Response: "r"})

	s.SetMachine("MC_PRESS_9")
	if s.Len() != 1 {
		t.Errorf("re-selecting the same machine should keep history, got %d exchanges", s.Len())
	}

	s.SetMachine("MC_LATHE_2")
	if s.Machine() != "MC_LATHE_2" {
		t.Errorf("machine = %q, want MC_LATHE_2", s.Machine())
	}
	if s.Len() != 0 {
		t.Errorf("switching machine should clear history, got %d exchanges", s.Len())
	}
}

func TestClearKeepsMachine(t *testing.T) {
	s := New("MC_PRESS_9")
	s.Append(Exchange{Query: "q", Response: "r"})
	s.Clear()

	if s.Len() != 0 {
		t.Errorf("expected empty history after Clear, got %d", s.Len())
	}
	if s.Machine() != "MC_PRESS_9" {
		t.Errorf("Clear should not reset the machine, got %q", s.Machine())
	}
	if s.Transcript() != "" {
		t.Errorf("transcript should be empty after Clear")
	}
}
