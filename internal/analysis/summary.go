package analysis

import (
	"math"
	"sort"
	"time"

	"github.com/oeelens/oee-apiserver/internal/domain/entity"
)

// Summarize computes aggregate statistics over a set of shift records.
// Returns zero-valued summary for an empty input.
func Summarize(records []entity.ShiftRecord) *entity.Summary {
	s := &entity.Summary{TotalRecords: len(records)}
	if len(records) == 0 {
		return s
	}

	var oeeSum float64
	days := map[string]struct{}{}
	monthly := map[string]*entity.MonthlyStats{}

	for _, r := range records {
		s.TotalPartsProduced += r.PartCount
		s.TotalPartsRejected += r.PartReject
		s.TotalEnergy += r.TotalEnergy
		s.TotalCost += r.EnergyCost
		oeeSum += r.AvgOEE

		if s.DateStart.IsZero() || r.Date.Before(s.DateStart) {
			s.DateStart = r.Date
		}
		if r.Date.After(s.DateEnd) {
			s.DateEnd = r.Date
		}
		days[r.Date.Format("2006-01-02")] = struct{}{}

		period := r.Date.Format("2006-01")
		m := monthly[period]
		if m == nil {
			m = &entity.MonthlyStats{Period: period}
			monthly[period] = m
		}
		m.PartCount += r.PartCount
		m.TotalEnergy += r.TotalEnergy
		m.EnergyCost += r.EnergyCost
		m.AvgOEE += r.AvgOEE // sum here, divided below
	}

	s.AverageOEE = round2(oeeSum / float64(len(records)))
	s.Days = len(days)

	if s.TotalPartsProduced > 0 {
		s.QualityRate = round2((s.TotalPartsProduced - s.TotalPartsRejected) / s.TotalPartsProduced * 100)
	}

	// Per-month OEE mean needs the per-month record count.
	counts := map[string]int{}
	for _, r := range records {
		counts[r.Date.Format("2006-01")]++
	}
	for period, m := range monthly {
		m.AvgOEE = round2(m.AvgOEE / float64(counts[period]))
		s.MonthlyBreakdown = append(s.MonthlyBreakdown, *m)
	}
	sort.Slice(s.MonthlyBreakdown, func(i, j int) bool {
		return s.MonthlyBreakdown[i].Period < s.MonthlyBreakdown[j].Period
	})

	return s
}

// DailyAverages returns (day, mean) pairs of a per-record metric,
// sorted by day. Used by trend charts.
func DailyAverages(records []entity.ShiftRecord, metric func(entity.ShiftRecord) float64) ([]time.Time, []float64) {
	sums := map[string]float64{}
	counts := map[string]int{}
	for _, r := range records {
		key := r.Date.Format("2006-01-02")
		sums[key] += metric(r)
		counts[key]++
	}

	keys := make([]string, 0, len(sums))
	for k := range sums {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	dates := make([]time.Time, len(keys))
	values := make([]float64, len(keys))
	for i, k := range keys {
		d, _ := time.Parse("2006-01-02", k)
		dates[i] = d
		values[i] = sums[k] / float64(counts[k])
	}
	return dates, values
}

// DailyTotals returns (day, sum) pairs of a per-record metric, sorted
// by day.
func DailyTotals(records []entity.ShiftRecord, metric func(entity.ShiftRecord) float64) ([]time.Time, []float64) {
	sums := map[string]float64{}
	for _, r := range records {
		sums[r.Date.Format("2006-01-02")] += metric(r)
	}

	keys := make([]string, 0, len(sums))
	for k := range sums {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	dates := make([]time.Time, len(keys))
	values := make([]float64, len(keys))
	for i, k := range keys {
		d, _ := time.Parse("2006-01-02", k)
		dates[i] = d
		values[i] = sums[k]
	}
	return dates, values
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
