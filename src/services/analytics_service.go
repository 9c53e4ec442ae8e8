// backend/src/services/analytics_service.go
package services

import (
	"fmt"
	"sort"
	"time"

	"github.com/username/lnboard/backend/src/models"
)

// Portuguese month names used for chart labels, matching what the dashboard
// has always displayed.
var monthNamesPT = map[time.Month]string{
	time.January: "Janeiro", time.February: "Fevereiro", time.March: "Março",
	time.April: "Abril", time.May: "Maio", time.June: "Junho",
	time.July: "Julho", time.August: "Agosto", time.September: "Setembro",
	time.October: "Outubro", time.November: "Novembro", time.December: "Dezembro",
}

// AnalyticsService aggregates normalized positions into the time series and
// summary metrics the dashboard charts. Every method is a pure function of
// its input slice: nothing is mutated, everything is recomputed per call
// (input is bounded by the API's 1000-row limit).
type AnalyticsService struct {
	location *time.Location
	now      func() time.Time // injectable for todayProfit tests
}

func NewAnalyticsService(location *time.Location) *AnalyticsService {
	return &AnalyticsService{location: location, now: time.Now}
}

// MonthLabel formats a month start the way chart axes display it,
// e.g. "Janeiro 2024".
func MonthLabel(monthStart time.Time) string {
	return fmt.Sprintf("%s %d", monthNamesPT[monthStart.Month()], monthStart.Year())
}

// MonthlyBuckets groups profit by the calendar month of exit time in the
// configured zone, sorted chronologically by period start (never by label).
func (s *AnalyticsService) MonthlyBuckets(positions []models.Position) []models.MonthlyBucket {
	totals := make(map[time.Time]float64)
	for _, p := range positions {
		totals[s.monthStart(p.ExitTime)] += p.Profit
	}

	buckets := make([]models.MonthlyBucket, 0, len(totals))
	for start, profit := range totals {
		buckets = append(buckets, models.MonthlyBucket{
			PeriodStart: start,
			Label:       MonthLabel(start),
			TotalProfit: profit,
		})
	}
	sort.Slice(buckets, func(a, b int) bool {
		return buckets[a].PeriodStart.Before(buckets[b].PeriodStart)
	})
	return buckets
}

// DailyBuckets groups profit by calendar day of exit time, restricted to the
// given month, sorted by date ascending. Labels use the dd/mm/yyyy format of
// the daily chart.
func (s *AnalyticsService) DailyBuckets(positions []models.Position, month time.Time) []models.DailyBucket {
	wantMonth := s.monthStart(month.In(s.location))

	totals := make(map[time.Time]float64)
	for _, p := range positions {
		if !s.monthStart(p.ExitTime).Equal(wantMonth) {
			continue
		}
		totals[s.dayStart(p.ExitTime)] += p.Profit
	}

	buckets := make([]models.DailyBucket, 0, len(totals))
	for day, profit := range totals {
		buckets = append(buckets, models.DailyBucket{
			Date:        day,
			Label:       day.Format("02/01/2006"),
			TotalProfit: profit,
		})
	}
	sort.Slice(buckets, func(a, b int) bool {
		return buckets[a].Date.Before(buckets[b].Date)
	})
	return buckets
}

// Summary computes the headline metrics. ROI is zero (not NaN) when nothing
// was invested; today's profit uses the current date in the configured zone.
func (s *AnalyticsService) Summary(positions []models.Position) models.Summary {
	today := s.dayStart(s.now().In(s.location))

	var summary models.Summary
	summary.OrderCount = len(positions)
	for _, p := range positions {
		summary.TotalInvested += p.EntryMargin
		summary.TotalProfit += p.Profit
		if s.dayStart(p.ExitTime).Equal(today) {
			summary.TodayProfit += p.Profit
		}
	}
	if summary.TotalInvested != 0 {
		summary.ROITotal = summary.TotalProfit / summary.TotalInvested * 100
	}
	return summary
}

// CumulativeProfit returns the running profit sum ordered by exit time.
// Its last entry always equals Summary().TotalProfit.
func (s *AnalyticsService) CumulativeProfit(positions []models.Position) []models.CumulativePoint {
	ordered := make([]models.Position, len(positions))
	copy(ordered, positions)
	sort.SliceStable(ordered, func(a, b int) bool {
		return ordered[a].ExitTime.Before(ordered[b].ExitTime)
	})

	points := make([]models.CumulativePoint, len(ordered))
	var running float64
	for i, p := range ordered {
		running += p.Profit
		points[i] = models.CumulativePoint{ExitTime: p.ExitTime, RunningTotal: running}
	}
	return points
}

func (s *AnalyticsService) monthStart(t time.Time) time.Time {
	t = t.In(s.location)
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, s.location)
}

func (s *AnalyticsService) dayStart(t time.Time) time.Time {
	t = t.In(s.location)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, s.location)
}
