// Package pipeline turns subscription records into calendar projections,
// summary statistics, savings opportunities, and insights.
package pipeline

import (
	"time"

	"github.com/subwatchdev/subwatch/internal/cycle"
	"github.com/subwatchdev/subwatch/internal/logger"
	"github.com/subwatchdev/subwatch/internal/model"
)

// Projection holds one month's predicted charges. Entries and DayTotals are
// keyed by day-of-month; per-day subscription order follows the input slice.
type Projection struct {
	Year  int
	Month time.Month
	Days  int

	Entries   map[int][]model.Subscription
	DayTotals map[int]float64

	// MonthTotal is derived from DayTotals in ascending day order, so it
	// always equals their sum exactly.
	MonthTotal float64

	// Skipped counts records excluded for malformed anchor dates.
	Skipped int
}

// Project computes the calendar projection for one month. Inactive
// subscriptions are excluded; a subscription with a malformed anchor date is
// logged and skipped without affecting the rest. Weekly cycles contribute
// every occurrence inside the month, monthly and annual cycles at most one.
func Project(subs []model.Subscription, year int, month time.Month) Projection {
	proj := Projection{
		Year:      year,
		Month:     month,
		Days:      time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day(),
		Entries:   make(map[int][]model.Subscription),
		DayTotals: make(map[int]float64),
	}

	for _, s := range subs {
		if !s.Active {
			continue
		}
		anchor, err := s.ParseAnchor()
		if err != nil {
			logger.Log.WithField("subscription", s.Name).
				Warnf("skipping projection: bad anchor date %q", s.AnchorDate)
			proj.Skipped++
			continue
		}
		for _, due := range cycle.OccurrencesInMonth(anchor, s.Cycle, year, month) {
			day := due.Day()
			proj.Entries[day] = append(proj.Entries[day], s)
			proj.DayTotals[day] += s.Cost
		}
	}

	for day := 1; day <= proj.Days; day++ {
		proj.MonthTotal += proj.DayTotals[day]
	}

	return proj
}

// Date returns the full date for a day of the projected month.
func (p Projection) Date(day int) time.Time {
	return time.Date(p.Year, p.Month, day, 0, 0, 0, 0, time.UTC)
}

// DueDays returns the days of the month with at least one charge, ascending.
func (p Projection) DueDays() []int {
	var days []int
	for day := 1; day <= p.Days; day++ {
		if len(p.Entries[day]) > 0 {
			days = append(days, day)
		}
	}
	return days
}
