// Package cycle maps a subscription's billing cycle and anchor date onto
// concrete calendar dates.
package cycle

import (
	"time"

	"github.com/subwatchdev/subwatch/internal/model"
)

// NextOccurrence returns the first billing date on or after onOrAfter for the
// given anchor and cycle. The bound is inclusive: when onOrAfter lands
// exactly on an occurrence, that date is returned. Unrecognized cycles are
// one-off charges, so the second return is false once the anchor has passed.
//
// Monthly cycles keep the anchor's day-of-month and clamp to the target
// month's last day when it is shorter (anchor day 31 in a 30-day month bills
// on day 30, never day 1 of the following month). Annual cycles keep the
// anchor's month and day, with Feb 29 clamping to Feb 28 in non-leap years.
func NextOccurrence(anchor time.Time, cycle string, onOrAfter time.Time) (time.Time, bool) {
	anchor = dateOnly(anchor)
	onOrAfter = dateOnly(onOrAfter)

	switch cycle {
	case model.CycleWeekly:
		if !anchor.Before(onOrAfter) {
			return anchor, true
		}
		days := int(onOrAfter.Sub(anchor) / (24 * time.Hour))
		next := anchor.AddDate(0, 0, (days/7)*7)
		if next.Before(onOrAfter) {
			next = next.AddDate(0, 0, 7)
		}
		return next, true

	case model.CycleMonthly:
		months := (onOrAfter.Year()-anchor.Year())*12 + int(onOrAfter.Month()) - int(anchor.Month())
		if months < 0 {
			months = 0
		}
		y, m := addMonths(anchor.Year(), anchor.Month(), months)
		next := clampedDate(y, m, anchor.Day())
		if next.Before(onOrAfter) {
			y, m = addMonths(y, m, 1)
			next = clampedDate(y, m, anchor.Day())
		}
		return next, true

	case model.CycleAnnual:
		years := onOrAfter.Year() - anchor.Year()
		if years < 0 {
			years = 0
		}
		next := clampedDate(anchor.Year()+years, anchor.Month(), anchor.Day())
		if next.Before(onOrAfter) {
			next = clampedDate(anchor.Year()+years+1, anchor.Month(), anchor.Day())
		}
		return next, true

	default:
		if !anchor.Before(onOrAfter) {
			return anchor, true
		}
		return time.Time{}, false
	}
}

// OccurrencesInMonth returns every billing date falling inside the given
// calendar month, in ascending order. Weekly cycles can bill several times in
// one month; monthly, annual and one-off cycles bill at most once.
func OccurrencesInMonth(anchor time.Time, cycle string, year int, month time.Month) []time.Time {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	last := time.Date(year, month, daysIn(year, month), 0, 0, 0, 0, time.UTC)

	var out []time.Time
	next, ok := NextOccurrence(anchor, cycle, first)
	for ok && !next.After(last) {
		out = append(out, next)
		if cycle != model.CycleWeekly {
			break
		}
		next, ok = NextOccurrence(anchor, cycle, next.AddDate(0, 0, 1))
	}
	return out
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// addMonths advances a (year, month) pair without day-of-month roll-over.
func addMonths(year int, month time.Month, n int) (int, time.Month) {
	total := year*12 + int(month) - 1 + n
	return total / 12, time.Month(total%12 + 1)
}

func clampedDate(year int, month time.Month, day int) time.Time {
	if last := daysIn(year, month); day > last {
		day = last
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// daysIn returns the number of days in a month; day zero of the next month
// is the last day of this one.
func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
