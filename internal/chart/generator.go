// Package chart renders telemetry visualizations as base64-encoded
// PNG images for the chat UI and PDF export.
package chart

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/oeelens/oee-apiserver/internal/analysis"
	"github.com/oeelens/oee-apiserver/internal/domain"
	"github.com/oeelens/oee-apiserver/internal/domain/entity"
)

// maxCharts caps how many images one response may carry.
const maxCharts = 4

const (
	chartWidth  = 800
	chartHeight = 450
)

// Generator renders charts with go-chart.
type Generator struct {
	logger *slog.Logger
}

var _ domain.ChartGenerator = (*Generator)(nil)

// NewGenerator creates a chart generator.
func NewGenerator(logger *slog.Logger) *Generator {
	return &Generator{logger: logger}
}

// Generate renders the chart set for an analyzed query. The intent
// picks the chart mix; failures of individual charts are logged and
// skipped rather than failing the response.
func (g *Generator) Generate(a *entity.Analysis, machine string, records []entity.ShiftRecord, summary *entity.Summary) []entity.Chart {
	if len(records) == 0 || a == nil {
		return nil
	}

	type builder struct {
		name string
		fn   func(string, []entity.ShiftRecord, *entity.Summary) (entity.Chart, error)
	}

	var builders []builder
	switch a.Intent {
	case entity.IntentSummary:
		builders = []builder{
			{"oee_distribution", g.oeeDistribution},
			{"production_quality", g.productionQuality},
			{"monthly_comparison", g.monthlyComparison},
		}
	case entity.IntentComparison:
		builders = []builder{
			{"monthly_comparison", g.monthlyComparison},
			{"production_quality", g.productionQuality},
		}
	case entity.IntentTrend:
		builders = []builder{
			{"oee_trend", g.oeeTrend},
			{"energy_trend", g.energyTrend},
		}
	default:
		for _, ct := range a.ChartTypes {
			switch ct {
			case "bar":
				builders = append(builders, builder{"oee_distribution", g.oeeDistribution})
			case "line", "area":
				builders = append(builders, builder{"oee_trend", g.oeeTrend})
			case "pie":
				builders = append(builders, builder{"production_quality", g.productionQuality})
			}
		}
		if len(builders) == 0 {
			builders = []builder{{"oee_distribution", g.oeeDistribution}}
		}
	}

	var charts []entity.Chart
	seen := map[string]bool{}
	for _, b := range builders {
		if seen[b.name] || len(charts) == maxCharts {
			continue
		}
		seen[b.name] = true

		c, err := b.fn(machine, records, summary)
		if err != nil {
			g.logger.Warn("failed to render chart", "chart", b.name, "error", err)
			continue
		}
		charts = append(charts, c)
	}
	return charts
}

// oeeDistribution renders a histogram of per-shift OEE values.
func (g *Generator) oeeDistribution(machine string, records []entity.ShiftRecord, summary *entity.Summary) (entity.Chart, error) {
	buckets := []struct {
		label  string
		lo, hi float64
	}{
		{"0-40%", 0, 40},
		{"40-60%", 40, 60},
		{"60-75%", 60, 75},
		{"75-85%", 75, 85},
		{"85-100%", 85, 101},
	}

	counts := make([]int, len(buckets))
	min, max, sum := records[0].AvgOEE, records[0].AvgOEE, 0.0
	for _, r := range records {
		sum += r.AvgOEE
		if r.AvgOEE < min {
			min = r.AvgOEE
		}
		if r.AvgOEE > max {
			max = r.AvgOEE
		}
		for i, b := range buckets {
			if r.AvgOEE >= b.lo && r.AvgOEE < b.hi {
				counts[i]++
				break
			}
		}
	}
	mean := sum / float64(len(records))

	bars := make([]chart.Value, len(buckets))
	for i, b := range buckets {
		bars[i] = chart.Value{Label: b.label, Value: float64(counts[i])}
	}

	title := fmt.Sprintf("OEE Performance Distribution - %s", machine)
	graph := chart.BarChart{
		Title:    title,
		Width:    chartWidth,
		Height:   chartHeight,
		BarWidth: 80,
		Bars:     bars,
	}

	image, err := renderPNG(graph.Render)
	if err != nil {
		return entity.Chart{}, err
	}
	return entity.Chart{
		Type:  "bar",
		Title: title,
		Image: image,
		Description: fmt.Sprintf("%s: OEE ranges from %.1f%% to %.1f%% with average of %.1f%%. Total records: %d",
			machine, min, max, mean, len(records)),
	}, nil
}

// productionQuality renders good vs rejected production as a pie.
func (g *Generator) productionQuality(machine string, records []entity.ShiftRecord, summary *entity.Summary) (entity.Chart, error) {
	if summary == nil || summary.TotalPartsProduced <= 0 {
		return entity.Chart{}, fmt.Errorf("no production totals")
	}
	good := summary.TotalPartsProduced - summary.TotalPartsRejected

	graph := chart.PieChart{
		Title:  "Production Quality Overview",
		Width:  chartHeight, // square canvas renders round
		Height: chartHeight,
		Values: []chart.Value{
			{Label: fmt.Sprintf("Good Parts (%.0f)", good), Value: good},
			{Label: fmt.Sprintf("Rejected (%.0f)", summary.TotalPartsRejected), Value: summary.TotalPartsRejected},
		},
	}

	image, err := renderPNG(graph.Render)
	if err != nil {
		return entity.Chart{}, err
	}
	return entity.Chart{
		Type:  "pie",
		Title: "Production Quality Overview",
		Image: image,
		Description: fmt.Sprintf("Quality rate %.1f%%: %.0f good parts out of %.0f produced on %s.",
			summary.QualityRate, good, summary.TotalPartsProduced, machine),
	}, nil
}

// monthlyComparison renders per-month production totals.
func (g *Generator) monthlyComparison(machine string, records []entity.ShiftRecord, summary *entity.Summary) (entity.Chart, error) {
	if summary == nil || len(summary.MonthlyBreakdown) == 0 {
		return entity.Chart{}, fmt.Errorf("no monthly breakdown")
	}

	bars := make([]chart.Value, len(summary.MonthlyBreakdown))
	for i, m := range summary.MonthlyBreakdown {
		bars[i] = chart.Value{Label: m.Period, Value: m.PartCount}
	}

	graph := chart.BarChart{
		Title:    "Monthly Production and OEE Comparison",
		Width:    chartWidth,
		Height:   chartHeight,
		BarWidth: 60,
		Bars:     bars,
	}

	image, err := renderPNG(graph.Render)
	if err != nil {
		return entity.Chart{}, err
	}

	desc := fmt.Sprintf("Production by month for %s.", machine)
	for _, m := range summary.MonthlyBreakdown {
		desc += fmt.Sprintf(" %s: %.0f parts at %.1f%% OEE.", m.Period, m.PartCount, m.AvgOEE)
	}
	return entity.Chart{
		Type:        "bar",
		Title:       "Monthly Production and OEE Comparison",
		Image:       image,
		Description: desc,
	}, nil
}

// oeeTrend renders the daily mean OEE as a time series.
func (g *Generator) oeeTrend(machine string, records []entity.ShiftRecord, summary *entity.Summary) (entity.Chart, error) {
	dates, values := analysis.DailyAverages(records, func(r entity.ShiftRecord) float64 { return r.AvgOEE })
	if len(dates) < 2 {
		return entity.Chart{}, fmt.Errorf("need at least two days for a trend")
	}

	graph := chart.Chart{
		Title:  "OEE Trend Over Time",
		Width:  chartWidth,
		Height: chartHeight,
		XAxis:  chart.XAxis{ValueFormatter: chart.TimeDateValueFormatter},
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    "Daily OEE %",
				XValues: dates,
				YValues: values,
			},
		},
	}

	image, err := renderPNG(graph.Render)
	if err != nil {
		return entity.Chart{}, err
	}
	return entity.Chart{
		Type:  "line",
		Title: "OEE Trend Over Time",
		Image: image,
		Description: fmt.Sprintf("Daily average OEE for %s over %d days.",
			machine, len(dates)),
	}, nil
}

// energyTrend renders the daily energy totals as a filled time series.
func (g *Generator) energyTrend(machine string, records []entity.ShiftRecord, summary *entity.Summary) (entity.Chart, error) {
	dates, values := analysis.DailyTotals(records, func(r entity.ShiftRecord) float64 { return r.TotalEnergy })
	if len(dates) < 2 {
		return entity.Chart{}, fmt.Errorf("need at least two days for a trend")
	}

	graph := chart.Chart{
		Title:  "Energy Consumption Trend",
		Width:  chartWidth,
		Height: chartHeight,
		XAxis:  chart.XAxis{ValueFormatter: chart.TimeDateValueFormatter},
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    "Daily Energy KwH",
				XValues: dates,
				YValues: values,
				Style: chart.Style{
					StrokeColor: drawing.ColorGreen,
					FillColor:   drawing.ColorGreen.WithAlpha(64),
				},
			},
		},
	}

	image, err := renderPNG(graph.Render)
	if err != nil {
		return entity.Chart{}, err
	}
	return entity.Chart{
		Type:  "area",
		Title: "Energy Consumption Trend",
		Image: image,
		Description: fmt.Sprintf("Daily energy consumption for %s over %d days.",
			machine, len(dates)),
	}, nil
}

// renderPNG runs a go-chart render function and returns the image as
// base64-encoded PNG bytes.
func renderPNG(render func(chart.RendererProvider, io.Writer) error) (string, error) {
	var buf bytes.Buffer
	if err := render(chart.PNG, &buf); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
