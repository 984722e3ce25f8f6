package export

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/oeelens/oee-apiserver/internal/domain/entity"
)

func newTestExporter() *PDFExporter {
	e := NewPDFExporter(slog.New(slog.NewTextHandler(io.Discard, nil)))
	e.now = func() time.Time {
		return time.Date(2025, 3, 15, 10, 30, 0, 0, time.UTC)
	}
	return e
}

func tinyPNG(t *testing.T) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for x := 0; x < 8; x++ {
		for y := 0; y < 8; y++ {
			img.Set(x, y, color.RGBA{R: 200, G: 100, B: 50, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

func TestBuildPDF(t *testing.T) {
	e := newTestExporter()
	content := "**Manufacturing Summary - Machine MC_PRESS_133**\n\n- Total Production: 1000 parts\n- Quality Rate: 95.0%"
	charts := []entity.Chart{
		{Type: "bar", Title: "OEE Distribution", Image: tinyPNG(t), Description: "OEE spread across shifts."},
	}

	out, err := e.BuildPDF(content, charts)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Fatalf("output is not a PDF, starts with %q", out[:min(8, len(out))])
	}
	if len(out) < 1000 {
		t.Errorf("suspiciously small PDF: %d bytes", len(out))
	}
}

func TestBuildPDFNoCharts(t *testing.T) {
	e := newTestExporter()
	out, err := e.BuildPDF("plain text report", nil)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Fatal("output is not a PDF")
	}
}

func TestBuildPDFSkipsBadChart(t *testing.T) {
	e := newTestExporter()
	charts := []entity.Chart{
		{Title: "Broken", Image: "not-base64!!!"},
		{Title: "Good", Image: tinyPNG(t)},
	}
	out, err := e.BuildPDF("report", charts)
	if err != nil {
		t.Fatalf("a bad chart must not fail the export: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Fatal("output is not a PDF")
	}
}

func TestStripMarkdown(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"**Bold Title**", "Bold Title"},
		{"### Heading", "Heading"},
		{"plain", "plain"},
		{"`code`", "code"},
	}
	for _, tt := range tests {
		if got := stripMarkdown(tt.in); got != tt.want {
			t.Errorf("stripMarkdown(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
