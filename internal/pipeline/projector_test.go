package pipeline

import (
	"testing"
	"time"

	"github.com/subwatchdev/subwatch/internal/model"
)

func makeSub(id, name string, cost float64, billingCycle, anchor string) model.Subscription {
	return model.Subscription{
		ID:         id,
		Name:       name,
		Cost:       cost,
		Cycle:      billingCycle,
		Category:   model.CategoryOther,
		AnchorDate: anchor,
		Active:     true,
	}
}

func TestProjectMarchMixedCycles(t *testing.T) {
	subs := []model.Subscription{
		makeSub("a", "Clamped Monthly", 10, model.CycleMonthly, "2024-01-31"),
		makeSub("b", "Weekly", 5, model.CycleWeekly, "2024-03-01"),
	}

	proj := Project(subs, 2024, time.March)

	if got := proj.Entries[31]; len(got) != 1 || got[0].ID != "a" {
		t.Fatalf("entries[31] = %v, want the monthly subscription clamped to Mar 31", got)
	}
	for _, day := range []int{1, 8, 15, 22, 29} {
		found := false
		for _, s := range proj.Entries[day] {
			if s.ID == "b" {
				found = true
			}
		}
		if !found {
			t.Fatalf("weekly subscription missing from day %d", day)
		}
	}
	if proj.MonthTotal != 10+5*5 {
		t.Fatalf("MonthTotal = %.2f, want 35.00", proj.MonthTotal)
	}
}

func TestProjectMonthTotalEqualsDayTotalSum(t *testing.T) {
	subs := []model.Subscription{
		makeSub("a", "One", 15.99, model.CycleMonthly, "2024-01-03"),
		makeSub("b", "Two", 9.99, model.CycleMonthly, "2024-02-17"),
		makeSub("c", "Three", 4.37, model.CycleWeekly, "2024-01-02"),
		makeSub("d", "Four", 119.88, model.CycleAnnual, "2023-03-21"),
		makeSub("e", "Five", 54.99, model.CycleMonthly, "2024-01-31"),
	}

	proj := Project(subs, 2024, time.March)

	var sum float64
	for day := 1; day <= proj.Days; day++ {
		sum += proj.DayTotals[day]
	}
	if sum != proj.MonthTotal {
		t.Fatalf("sum of day totals = %v, MonthTotal = %v, want exact equality", sum, proj.MonthTotal)
	}
}

func TestProjectSkipsMalformedAnchor(t *testing.T) {
	subs := []model.Subscription{
		makeSub("bad", "Broken", 12, model.CycleMonthly, "not-a-date"),
		makeSub("good", "Fine", 8, model.CycleMonthly, "2024-03-10"),
	}

	proj := Project(subs, 2024, time.March)

	if proj.Skipped != 1 {
		t.Fatalf("Skipped = %d, want 1", proj.Skipped)
	}
	if got := proj.Entries[10]; len(got) != 1 || got[0].ID != "good" {
		t.Fatalf("entries[10] = %v, want the well-formed subscription", got)
	}
	if proj.MonthTotal != 8 {
		t.Fatalf("MonthTotal = %.2f, want 8.00", proj.MonthTotal)
	}
}

func TestProjectExcludesInactive(t *testing.T) {
	inactive := makeSub("x", "Cancelled", 20, model.CycleMonthly, "2024-03-05")
	inactive.Active = false

	proj := Project([]model.Subscription{inactive}, 2024, time.March)

	if len(proj.Entries) != 0 || proj.MonthTotal != 0 {
		t.Fatalf("projection of inactive subscription = %v entries, total %.2f; want empty", len(proj.Entries), proj.MonthTotal)
	}
}

func TestProjectPerDateInsertionOrder(t *testing.T) {
	subs := []model.Subscription{
		makeSub("first", "First", 1, model.CycleMonthly, "2024-01-15"),
		makeSub("second", "Second", 2, model.CycleMonthly, "2024-02-15"),
		makeSub("third", "Third", 3, model.CycleWeekly, "2024-03-01"),
	}

	proj := Project(subs, 2024, time.March)

	got := proj.Entries[15]
	if len(got) != 3 {
		t.Fatalf("entries[15] = %d subscriptions, want 3", len(got))
	}
	for i, wantID := range []string{"first", "second", "third"} {
		if got[i].ID != wantID {
			t.Fatalf("entries[15][%d].ID = %q, want %q", i, got[i].ID, wantID)
		}
	}
}

func TestProjectionHelpers(t *testing.T) {
	subs := []model.Subscription{
		makeSub("a", "One", 10, model.CycleMonthly, "2024-01-05"),
		makeSub("b", "Two", 20, model.CycleMonthly, "2024-01-20"),
	}
	proj := Project(subs, 2024, time.February)

	if proj.Days != 29 {
		t.Fatalf("Days = %d, want 29 for February 2024", proj.Days)
	}
	if got := proj.Date(5).Format("2006-01-02"); got != "2024-02-05" {
		t.Fatalf("Date(5) = %s, want 2024-02-05", got)
	}
	days := proj.DueDays()
	if len(days) != 2 || days[0] != 5 || days[1] != 20 {
		t.Fatalf("DueDays = %v, want [5 20]", days)
	}
}
