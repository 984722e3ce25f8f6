// Package export builds downloadable PDF reports from accumulated
// chat responses and their charts.
package export

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/oeelens/oee-apiserver/internal/domain"
	"github.com/oeelens/oee-apiserver/internal/domain/entity"
)

// PDFExporter renders reports with fpdf.
type PDFExporter struct {
	logger *slog.Logger
	now    func() time.Time
}

var _ domain.ReportExporter = (*PDFExporter)(nil)

// NewPDFExporter creates a report exporter.
func NewPDFExporter(logger *slog.Logger) *PDFExporter {
	return &PDFExporter{logger: logger, now: time.Now}
}

// BuildPDF renders the report: a title page header, the generation
// timestamp, the response text as paragraphs, then each chart image
// with its description. Markdown markers in the text are stripped
// rather than rendered.
func (e *PDFExporter) BuildPDF(content string, charts []entity.Chart) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	pageWidth, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	usable := pageWidth - left - right

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(usable, 10, "Manufacturing Data Analysis Report", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(usable, 6,
		fmt.Sprintf("Generated on: %s", e.now().Format("2006-01-02 15:04:05")),
		"", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 11)
	for _, para := range strings.Split(content, "\n") {
		para = stripMarkdown(strings.TrimSpace(para))
		if para == "" {
			pdf.Ln(3)
			continue
		}
		pdf.MultiCell(usable, 5.5, para, "", "L", false)
		pdf.Ln(1)
	}
	pdf.Ln(8)

	for i, c := range charts {
		if err := e.addChart(pdf, usable, i+1, c); err != nil {
			e.logger.Warn("skipping chart in report", "chart", c.Title, "error", err)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, domain.NewInternalError(fmt.Errorf("failed to render PDF: %w", err))
	}
	return buf.Bytes(), nil
}

func (e *PDFExporter) addChart(pdf *fpdf.Fpdf, usable float64, n int, c entity.Chart) error {
	raw, err := base64.StdEncoding.DecodeString(c.Image)
	if err != nil {
		return fmt.Errorf("image is not valid base64: %w", err)
	}

	title := c.Title
	if title == "" {
		title = "Chart"
	}

	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(usable, 8, fmt.Sprintf("Chart %d: %s", n, title), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	name := fmt.Sprintf("chart-%d", n)
	pdf.RegisterImageOptionsReader(name,
		fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(raw))
	if pdf.Err() {
		err := pdf.Error()
		pdf.ClearError()
		return fmt.Errorf("failed to register image: %w", err)
	}

	// 16:9 box scaled to the text width.
	pdf.ImageOptions(name, -1, -1, usable, usable*9/16, true,
		fpdf.ImageOptions{ImageType: "PNG"}, 0, "")
	pdf.Ln(3)

	if c.Description != "" {
		pdf.SetFont("Helvetica", "I", 10)
		pdf.MultiCell(usable, 5, c.Description, "", "L", false)
		pdf.Ln(5)
	}
	return nil
}

// stripMarkdown removes the formatting markers the chat UI renders so
// they do not appear literally in the document.
func stripMarkdown(s string) string {
	s = strings.ReplaceAll(s, "**", "")
	s = strings.ReplaceAll(s, "`", "")
	for _, prefix := range []string{"### ", "## ", "# "} {
		if strings.HasPrefix(s, prefix) {
			return strings.TrimPrefix(s, prefix)
		}
	}
	return s
}
