package llm

import (
	"fmt"
	"strings"

	"github.com/oeelens/oee-apiserver/internal/domain/entity"
)

// FallbackResponse builds a template report when the model backend is
// unavailable. The query keywords pick the report flavor.
func FallbackResponse(query, machine string, summary *entity.Summary) string {
	if summary == nil || summary.TotalRecords == 0 {
		return fmt.Sprintf("No data available for machine %s. Please ensure the machine folder contains CSV files.", machine)
	}

	q := strings.ToLower(query)
	switch {
	case strings.Contains(q, "summary") || strings.Contains(q, "overview") || strings.Contains(q, "report"):
		return comprehensiveReport(machine, summary)
	case strings.Contains(q, "compare") || strings.Contains(q, "comparison"):
		return comparisonReport(machine, summary)
	case strings.Contains(q, "quality"):
		return qualityReport(machine, summary)
	case strings.Contains(q, "oee"):
		return oeeReport(machine, summary)
	case strings.Contains(q, "energy"):
		return energyReport(machine, summary)
	case strings.Contains(q, "cost"):
		return costReport(machine, summary)
	default:
		return basicReport(machine, summary)
	}
}

func comprehensiveReport(machine string, s *entity.Summary) string {
	rejectRate := 0.0
	if s.TotalPartsProduced > 0 {
		rejectRate = s.TotalPartsRejected / s.TotalPartsProduced * 100
	}
	energyPerUnit := s.TotalEnergy / nonZero(s.TotalPartsProduced)
	costPerUnit := s.TotalCost / nonZero(s.TotalPartsProduced)

	efficiencyRating := "Needs Improvement"
	switch {
	case s.AverageOEE >= 85:
		efficiencyRating = "Excellent"
	case s.AverageOEE >= 75:
		efficiencyRating = "Good"
	}
	qualityRating := "Needs Attention"
	switch {
	case s.QualityRate >= 95:
		qualityRating = "Excellent"
	case s.QualityRate >= 90:
		qualityRating = "Good"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "**Manufacturing Analytics Report - Machine %s**\n\n", machine)
	fmt.Fprintf(&b, "**Executive Summary:**\n")
	fmt.Fprintf(&b, "Machine %s has processed %d production records showing overall operational performance. The analysis reveals key insights into production efficiency, quality control, and resource utilization.\n\n", machine, s.TotalRecords)
	fmt.Fprintf(&b, "**Production Performance:**\n")
	fmt.Fprintf(&b, "- Total Parts Produced: %.0f units\n", s.TotalPartsProduced)
	fmt.Fprintf(&b, "- Parts Rejected: %.0f units (%.1f%% rejection rate)\n", s.TotalPartsRejected, rejectRate)
	fmt.Fprintf(&b, "- Quality Rate: %.1f%% (%s)\n", s.QualityRate, qualityRating)
	fmt.Fprintf(&b, "- Net Good Production: %.0f units\n\n", s.TotalPartsProduced-s.TotalPartsRejected)
	fmt.Fprintf(&b, "**Operational Efficiency:**\n")
	fmt.Fprintf(&b, "- Average OEE: %.1f%% (%s)\n", s.AverageOEE, efficiencyRating)
	fmt.Fprintf(&b, "- Energy Consumption: %.1f KwH\n", s.TotalEnergy)
	fmt.Fprintf(&b, "- Energy per Unit: %.2f KwH/part\n", energyPerUnit)
	fmt.Fprintf(&b, "- Production Cost: %.2f\n", s.TotalCost)
	fmt.Fprintf(&b, "- Cost per Unit: %.2f/part\n", costPerUnit)

	var recs []string
	if s.AverageOEE < 75 {
		recs = append(recs, "- Priority: Improve OEE through maintenance optimization and downtime reduction")
	}
	if s.QualityRate < 90 {
		recs = append(recs, "- Priority: Implement quality control measures to reduce rejection rates")
	}
	if energyPerUnit > 1.0 {
		recs = append(recs, "- Consider energy efficiency improvements to reduce power consumption per unit")
	}
	if len(recs) > 0 {
		fmt.Fprintf(&b, "\n**Operational Recommendations:**\n%s\n", strings.Join(recs, "\n"))
	}

	if len(s.MonthlyBreakdown) > 0 {
		fmt.Fprintf(&b, "\n**Monthly Performance Trends:**\n")
		for _, m := range s.MonthlyBreakdown {
			fmt.Fprintf(&b, "- %s: %.0f parts, %.1f%% OEE\n", m.Period, m.PartCount, m.AvgOEE)
		}
	}

	return strings.TrimSpace(b.String())
}

func comparisonReport(machine string, s *entity.Summary) string {
	if len(s.MonthlyBreakdown) < 2 {
		return basicReport(machine, s)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "**Comparative Analysis Report - Machine %s**\n\n", machine)
	fmt.Fprintf(&b, "**Period Comparison Overview:**\n")
	fmt.Fprintf(&b, "Analyzing performance across %d time periods to identify trends and variations in manufacturing efficiency.\n\n", len(s.MonthlyBreakdown))
	fmt.Fprintf(&b, "**Production Comparison:**\n")

	for i, m := range s.MonthlyBreakdown {
		if i == 0 {
			fmt.Fprintf(&b, "- %s: %.0f parts, OEE: %.1f%%\n", m.Period, m.PartCount, m.AvgOEE)
			continue
		}
		prev := s.MonthlyBreakdown[i-1]
		prodChange := (m.PartCount - prev.PartCount) / nonZero(prev.PartCount) * 100
		oeeChange := m.AvgOEE - prev.AvgOEE
		fmt.Fprintf(&b, "- %s: %.0f parts (%+.1f%% vs %s), OEE: %.1f%% (%+.1f%%)\n",
			m.Period, m.PartCount, prodChange, prev.Period, m.AvgOEE, oeeChange)
	}

	best, worst := s.MonthlyBreakdown[0], s.MonthlyBreakdown[0]
	for _, m := range s.MonthlyBreakdown[1:] {
		if m.AvgOEE > best.AvgOEE {
			best = m
		}
		if m.AvgOEE < worst.AvgOEE {
			worst = m
		}
	}
	spread := best.AvgOEE - worst.AvgOEE
	stability := "variable performance across time periods, indicating opportunities for process optimization"
	if spread < 10 {
		stability = "consistent performance across time periods, indicating stable operations"
	}

	fmt.Fprintf(&b, "\n**Key Insights:**\n")
	fmt.Fprintf(&b, "- Best Performance: %s with %.1f%% OEE\n", best.Period, best.AvgOEE)
	fmt.Fprintf(&b, "- Lowest Performance: %s with %.1f%% OEE\n", worst.Period, worst.AvgOEE)
	fmt.Fprintf(&b, "- Performance Variation: %.1f%% OEE difference\n\n", spread)
	fmt.Fprintf(&b, "**Trend Analysis:**\nThe data shows %s.", stability)

	return b.String()
}

func qualityReport(machine string, s *entity.Summary) string {
	return strings.TrimSpace(fmt.Sprintf(`**Quality Analysis Report - Machine %s**

**Quality Performance Summary:**
- Total Production: %.0f parts
- Rejected Parts: %.0f parts
- Quality Rate: %.2f%%
- Defect Rate: %.2f%%

**Quality Assessment:**
%s

**Quality Recommendations:**
%s`, machine,
		s.TotalPartsProduced, s.TotalPartsRejected, s.QualityRate, 100-s.QualityRate,
		qualityAssessment(s.QualityRate),
		qualityRecommendations(s.QualityRate)))
}

func oeeReport(machine string, s *entity.Summary) string {
	return strings.TrimSpace(fmt.Sprintf(`**Overall Equipment Effectiveness (OEE) Report - Machine %s**

**OEE Performance:**
- Current OEE: %.1f%%
- Industry Benchmark: 85%% (World Class)
- Performance Gap: %.1f%%

**OEE Analysis:**
%s

**Improvement Opportunities:**
%s`, machine,
		s.AverageOEE, 85-s.AverageOEE,
		oeeAnalysis(s.AverageOEE),
		oeeRecommendations(s.AverageOEE)))
}

func energyReport(machine string, s *entity.Summary) string {
	energyPerUnit := s.TotalEnergy / nonZero(s.TotalPartsProduced)
	return strings.TrimSpace(fmt.Sprintf(`**Energy Consumption Report - Machine %s**

**Energy Usage Summary:**
- Total Energy Consumed: %.1f KwH
- Total Parts Produced: %.0f units
- Energy Efficiency: %.3f KwH per part
- Total Energy Cost: %.2f

**Energy Performance Analysis:**
%s`, machine,
		s.TotalEnergy, s.TotalPartsProduced, energyPerUnit, s.TotalCost,
		energyAnalysis(energyPerUnit)))
}

func costReport(machine string, s *entity.Summary) string {
	costPerUnit := s.TotalCost / nonZero(s.TotalPartsProduced)
	dailyCost := s.TotalCost / float64(maxInt(s.Days, 1))
	return strings.TrimSpace(fmt.Sprintf(`**Production Cost Analysis - Machine %s**

**Cost Performance:**
- Total Production Cost: %.2f
- Total Units Produced: %.0f
- Cost per Unit: %.2f
- Average Daily Cost: %.2f

**Cost Efficiency Analysis:**
%s`, machine,
		s.TotalCost, s.TotalPartsProduced, costPerUnit, dailyCost,
		costAnalysis(costPerUnit)))
}

func basicReport(machine string, s *entity.Summary) string {
	return strings.TrimSpace(fmt.Sprintf(`**Manufacturing Summary - Machine %s**

**Key Metrics:**
- Total Production: %.0f parts
- Quality Rate: %.1f%%
- Average OEE: %.1f%%
- Energy Consumption: %.1f KwH
- Total Cost: %.2f

**Operational Overview:**
The machine has processed %d production records across %d days of operation.`, machine,
		s.TotalPartsProduced, s.QualityRate, s.AverageOEE, s.TotalEnergy, s.TotalCost,
		s.TotalRecords, s.Days))
}

func qualityAssessment(rate float64) string {
	switch {
	case rate >= 99:
		return "Exceptional quality performance - exceeding industry standards"
	case rate >= 95:
		return "Excellent quality control - meeting high-performance benchmarks"
	case rate >= 90:
		return "Good quality performance - within acceptable manufacturing standards"
	case rate >= 85:
		return "Average quality performance - room for improvement"
	default:
		return "Below standard quality performance - immediate attention required"
	}
}

func qualityRecommendations(rate float64) string {
	switch {
	case rate < 90:
		return "- Implement enhanced quality control procedures\n- Review and optimize manufacturing processes\n- Increase inspection frequency\n- Provide additional operator training"
	case rate < 95:
		return "- Fine-tune process parameters\n- Implement preventive maintenance schedule\n- Monitor critical quality points"
	default:
		return "- Maintain current quality standards\n- Continue monitoring for consistent performance\n- Share best practices across other machines"
	}
}

func oeeAnalysis(oee float64) string {
	switch {
	case oee >= 85:
		return "World-class OEE performance - excellent operational efficiency"
	case oee >= 75:
		return "Good OEE performance - above average manufacturing efficiency"
	case oee >= 65:
		return "Average OEE performance - typical for manufacturing operations"
	default:
		return "Below average OEE performance - significant improvement opportunities"
	}
}

func oeeRecommendations(oee float64) string {
	switch {
	case oee < 65:
		return "- Focus on reducing planned and unplanned downtime\n- Optimize changeover procedures\n- Implement predictive maintenance\n- Address quality issues to reduce rework"
	case oee < 75:
		return "- Reduce minor stops and speed losses\n- Improve operator efficiency\n- Optimize maintenance scheduling"
	default:
		return "- Fine-tune performance parameters\n- Implement continuous improvement practices\n- Benchmark against best-in-class operations"
	}
}

func energyAnalysis(perUnit float64) string {
	switch {
	case perUnit < 0.8:
		return "Excellent energy efficiency - well below industry averages"
	case perUnit < 1.2:
		return "Good energy performance - within efficient operating range"
	case perUnit < 1.8:
		return "Average energy consumption - opportunities for improvement"
	default:
		return "High energy consumption - immediate efficiency improvements needed"
	}
}

func costAnalysis(perUnit float64) string {
	switch {
	case perUnit < 5.0:
		return "Excellent cost efficiency - highly competitive production costs"
	case perUnit < 10.0:
		return "Good cost performance - within competitive manufacturing range"
	case perUnit < 15.0:
		return "Average cost performance - room for optimization"
	default:
		return "High production costs - cost reduction initiatives recommended"
	}
}

func nonZero(v float64) float64 {
	if v <= 0 {
		return 1
	}
	return v
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
