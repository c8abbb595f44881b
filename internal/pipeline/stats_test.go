package pipeline

import (
	"math"
	"testing"
	"time"

	"github.com/subwatchdev/subwatch/internal/model"
)

func TestSummarize(t *testing.T) {
	inactive := makeSub("d", "Cancelled", 99, model.CycleMonthly, "2024-01-01")
	inactive.Active = false

	subs := []model.Subscription{
		catSub("a", "Stream", 10, model.CategoryEntertainment),
		{ID: "b", Name: "Tools", Cost: 120, Cycle: model.CycleAnnual, Category: model.CategoryProductivity, AnchorDate: "2024-01-01", Active: true},
		{ID: "c", Name: "Box", Cost: 7, Cycle: model.CycleWeekly, Category: model.CategoryEntertainment, AnchorDate: "2024-01-01", Active: true},
		inactive,
	}

	stats := Summarize(subs)

	if stats.TotalSubscriptions != 4 || stats.ActiveSubscriptions != 3 || stats.InactiveCount != 1 {
		t.Fatalf("counts = %d/%d/%d, want 4/3/1",
			stats.TotalSubscriptions, stats.ActiveSubscriptions, stats.InactiveCount)
	}

	wantMonthly := 10 + 120.0/12 + (7 * 365.0 / 7 / 12)
	if math.Abs(stats.MonthlyTotal-wantMonthly) > 1e-9 {
		t.Fatalf("MonthlyTotal = %v, want %v", stats.MonthlyTotal, wantMonthly)
	}
	if stats.TopName != "Box" {
		t.Fatalf("TopName = %q, want the weekly subscription (highest monthly equivalent)", stats.TopName)
	}

	if len(stats.Categories) != 2 {
		t.Fatalf("categories = %d, want 2", len(stats.Categories))
	}
	if stats.Categories[0].Category != model.CategoryEntertainment {
		t.Fatalf("top category = %q, want Entertainment", stats.Categories[0].Category)
	}
	if stats.Categories[0].Count != 2 {
		t.Fatalf("Entertainment count = %d, want 2", stats.Categories[0].Count)
	}

	var share float64
	for _, c := range stats.Categories {
		share += c.SharePercent
	}
	if math.Abs(share-100) > 1e-9 {
		t.Fatalf("category shares sum to %.4f, want 100", share)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	stats := Summarize(nil)
	if stats.ActiveSubscriptions != 0 || stats.MonthlyTotal != 0 || stats.AverageCost != 0 {
		t.Fatalf("empty summary = %+v, want zeros", stats)
	}
}

func TestUpcomingPayments(t *testing.T) {
	subs := []model.Subscription{
		makeSub("w", "Weekly", 5, model.CycleWeekly, "2024-03-01"),
		makeSub("m", "Monthly", 12, model.CycleMonthly, "2024-01-05"),
	}

	from := time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)
	got := UpcomingPayments(subs, from, 7)

	if len(got) != 3 {
		t.Fatalf("upcoming = %d payments, want 3", len(got))
	}
	wantDates := []string{"2024-03-01", "2024-03-05", "2024-03-08"}
	wantIDs := []string{"w", "m", "w"}
	wantDays := []int{0, 4, 7}
	for i := range got {
		if d := got[i].Date.Format("2006-01-02"); d != wantDates[i] {
			t.Fatalf("payment[%d].Date = %s, want %s", i, d, wantDates[i])
		}
		if got[i].Subscription.ID != wantIDs[i] {
			t.Fatalf("payment[%d] = %q, want %q", i, got[i].Subscription.ID, wantIDs[i])
		}
		if got[i].DaysAway != wantDays[i] {
			t.Fatalf("payment[%d].DaysAway = %d, want %d", i, got[i].DaysAway, wantDays[i])
		}
	}
}

func TestUpcomingPaymentsSkipsMalformedAndInactive(t *testing.T) {
	bad := makeSub("bad", "Broken", 9, model.CycleMonthly, "03/15/2024")
	off := makeSub("off", "Paused", 9, model.CycleMonthly, "2024-03-02")
	off.Active = false

	got := UpcomingPayments([]model.Subscription{bad, off}, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), 30)
	if len(got) != 0 {
		t.Fatalf("upcoming = %d payments, want 0", len(got))
	}
}

func TestComputeBudget(t *testing.T) {
	subs := []model.Subscription{
		makeSub("a", "Early", 30, model.CycleMonthly, "2024-01-05"),
		makeSub("b", "Late", 20, model.CycleMonthly, "2024-01-25"),
	}
	proj := Project(subs, 2024, time.March)

	budget := 40.0
	stats := ComputeBudget(proj, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), &budget)

	if stats.CurrentSpend != 30 {
		t.Fatalf("CurrentSpend = %.2f, want 30.00 (only the day-5 charge so far)", stats.CurrentSpend)
	}
	if stats.ProjectedMonthly != 50 {
		t.Fatalf("ProjectedMonthly = %.2f, want 50.00", stats.ProjectedMonthly)
	}
	if !stats.OverBudget {
		t.Fatal("OverBudget = false, want true for $50 projected against $40 budget")
	}
	if stats.RemainingBudget != -10 {
		t.Fatalf("RemainingBudget = %.2f, want -10.00", stats.RemainingBudget)
	}
}

func TestComputeBudgetNoBudgetSet(t *testing.T) {
	proj := Project([]model.Subscription{makeSub("a", "One", 10, model.CycleMonthly, "2024-01-05")}, 2024, time.March)
	stats := ComputeBudget(proj, time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), nil)

	if stats.OverBudget || stats.BudgetUsedPercent != 0 {
		t.Fatalf("budgetless stats = %+v, want no budget verdicts", stats)
	}
	if stats.CurrentSpend != 10 {
		t.Fatalf("CurrentSpend outside projected month = %.2f, want full month 10.00", stats.CurrentSpend)
	}
}
