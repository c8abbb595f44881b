package pipeline

import (
	"sort"
	"time"

	"github.com/subwatchdev/subwatch/internal/cycle"
	"github.com/subwatchdev/subwatch/internal/logger"
	"github.com/subwatchdev/subwatch/internal/model"
)

// Summarize computes the top-level aggregate across all subscriptions.
// Monetary figures are monthly equivalents over the active set.
func Summarize(subs []model.Subscription) model.SummaryStats {
	var stats model.SummaryStats

	catMap := make(map[string]*model.CategoryStats)
	var catOrder []string

	for _, s := range subs {
		stats.TotalSubscriptions++
		if !s.Active {
			stats.InactiveCount++
			continue
		}
		stats.ActiveSubscriptions++

		monthly := s.MonthlyEquivalent()
		stats.MonthlyTotal += monthly
		stats.AnnualTotal += s.AnnualCost()

		if monthly > stats.TopMonthly {
			stats.TopMonthly = monthly
			stats.TopName = s.Name
		}

		cat := model.NormalizeCategory(s.Category)
		cs, ok := catMap[cat]
		if !ok {
			cs = &model.CategoryStats{Category: cat}
			catMap[cat] = cs
			catOrder = append(catOrder, cat)
		}
		cs.Count++
		cs.MonthlyTotal += monthly
	}

	if stats.ActiveSubscriptions > 0 {
		stats.AverageCost = stats.MonthlyTotal / float64(stats.ActiveSubscriptions)
	}

	for _, cat := range catOrder {
		cs := catMap[cat]
		if stats.MonthlyTotal > 0 {
			cs.SharePercent = cs.MonthlyTotal / stats.MonthlyTotal * 100
		}
		stats.Categories = append(stats.Categories, *cs)
	}
	sort.SliceStable(stats.Categories, func(i, j int) bool {
		return stats.Categories[i].MonthlyTotal > stats.Categories[j].MonthlyTotal
	})

	return stats
}

// UpcomingPayments returns every predicted charge within days of from, date
// ascending; ties keep input subscription order. Malformed anchor dates are
// logged and skipped.
func UpcomingPayments(subs []model.Subscription, from time.Time, days int) []model.UpcomingPayment {
	start := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, days)

	var out []model.UpcomingPayment
	for _, s := range subs {
		if !s.Active {
			continue
		}
		anchor, err := s.ParseAnchor()
		if err != nil {
			logger.Log.WithField("subscription", s.Name).
				Warnf("skipping upcoming check: bad anchor date %q", s.AnchorDate)
			continue
		}
		due, ok := cycle.NextOccurrence(anchor, s.Cycle, start)
		for ok && !due.After(end) {
			out = append(out, model.UpcomingPayment{
				Date:         due,
				Subscription: s,
				DaysAway:     int(due.Sub(start) / (24 * time.Hour)),
			})
			due, ok = cycle.NextOccurrence(anchor, s.Cycle, due.AddDate(0, 0, 1))
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out
}

// ComputeBudget derives budget tracking figures from a month's projection.
// CurrentSpend covers charges up to and including asOf when it falls inside
// the projected month, the whole month otherwise.
func ComputeBudget(proj Projection, asOf time.Time, monthlyBudget *float64) model.BudgetStats {
	stats := model.BudgetStats{
		MonthlyBudget:    monthlyBudget,
		ProjectedMonthly: proj.MonthTotal,
	}

	lastDay := proj.Days
	if asOf.Year() == proj.Year && asOf.Month() == proj.Month {
		lastDay = asOf.Day()
	}
	for day := 1; day <= lastDay; day++ {
		stats.CurrentSpend += proj.DayTotals[day]
	}

	if monthlyBudget != nil && *monthlyBudget > 0 {
		stats.RemainingBudget = *monthlyBudget - proj.MonthTotal
		stats.BudgetUsedPercent = proj.MonthTotal / *monthlyBudget * 100
		stats.OverBudget = proj.MonthTotal > *monthlyBudget
	}

	return stats
}
