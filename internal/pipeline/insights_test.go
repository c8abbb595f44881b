package pipeline

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/subwatchdev/subwatch/internal/feed"
	"github.com/subwatchdev/subwatch/internal/model"
)

func TestCostAnomalies(t *testing.T) {
	var subs []model.Subscription
	for i := 0; i < 6; i++ {
		subs = append(subs, catSub(string(rune('a'+i)), "Cheap", 10, model.CategoryOther))
	}
	subs = append(subs, catSub("big", "Whale", 200, model.CategoryOther))

	got := CostAnomalies(subs)
	if len(got) != 1 || got[0].ID != "big" {
		t.Fatalf("anomalies = %+v, want only the $200 subscription", got)
	}
}

func TestCostAnomaliesNeedsMinimumPoints(t *testing.T) {
	subs := []model.Subscription{
		catSub("a", "One", 10, model.CategoryOther),
		catSub("b", "Two", 500, model.CategoryOther),
	}
	if got := CostAnomalies(subs); got != nil {
		t.Fatalf("anomalies from two subscriptions = %+v, want none", got)
	}
}

func TestCostAnomaliesUniformCosts(t *testing.T) {
	subs := []model.Subscription{
		catSub("a", "One", 10, model.CategoryOther),
		catSub("b", "Two", 10, model.CategoryOther),
		catSub("c", "Three", 10, model.CategoryOther),
	}
	if got := CostAnomalies(subs); got != nil {
		t.Fatalf("anomalies from uniform costs = %+v, want none", got)
	}
}

func TestBuildInsightsOverBudget(t *testing.T) {
	subs := []model.Subscription{
		catSub("a", "One", 30, model.CategoryEntertainment),
		catSub("b", "Two", 30, model.CategoryProductivity),
	}
	summary := Summarize(subs)
	proj := Project(subs, 2024, time.March)
	budget := 50.0
	budgetStats := ComputeBudget(proj, time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), &budget)

	items := BuildInsights(subs, summary, budgetStats, nil)

	if len(items) == 0 {
		t.Fatal("no insights produced")
	}
	if items[0].Kind != feed.KindWarning || !strings.Contains(items[0].Message, "over") {
		t.Fatalf("items[0] = %+v, want an over-budget warning first", items[0])
	}
}

func TestBuildInsightsUnderBudget(t *testing.T) {
	subs := []model.Subscription{
		catSub("a", "One", 10, model.CategoryEntertainment),
		catSub("b", "Two", 10, model.CategoryProductivity),
	}
	summary := Summarize(subs)
	proj := Project(subs, 2024, time.March)
	budget := 100.0
	budgetStats := ComputeBudget(proj, time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), &budget)

	items := BuildInsights(subs, summary, budgetStats, nil)

	foundSuccess := false
	for _, it := range items {
		if it.Kind == feed.KindSuccess {
			foundSuccess = true
		}
	}
	if !foundSuccess {
		t.Fatalf("items = %+v, want an under-budget success entry", items)
	}
}

func TestBuildInsightsSavingsTip(t *testing.T) {
	book := bookWithAnnualPrices(map[string]float64{"StreamCo": 120})
	subs := []model.Subscription{
		catSub("a", "StreamCo", 15, model.CategoryEntertainment),
	}
	summary := Summarize(subs)
	savings := DetectSavings(subs, book, DefaultSavingsOptions())

	items := BuildInsights(subs, summary, model.BudgetStats{}, savings)

	var tips []feed.Item
	for _, it := range items {
		if it.Kind == feed.KindTip {
			tips = append(tips, it)
		}
	}
	if len(tips) != 2 {
		t.Fatalf("tips = %d, want 2 (aggregate plus annual switch)", len(tips))
	}
	if !strings.Contains(tips[1].Message, "StreamCo") {
		t.Fatalf("tips[1] = %q, want the annual-switch suggestion", tips[1].Message)
	}
}

func TestBuildInsightsEmptySet(t *testing.T) {
	items := BuildInsights(nil, Summarize(nil), model.BudgetStats{}, nil)
	if len(items) != 1 || items[0].Kind != feed.KindInfo {
		t.Fatalf("items = %+v, want a single getting-started info entry", items)
	}
}

// The rule output must survive the feed adapter unchanged, since the daemon
// serves insights as JSON records.
func TestInsightsSurviveNormalize(t *testing.T) {
	subs := []model.Subscription{
		catSub("a", "One", 30, model.CategoryEntertainment),
		catSub("b", "Two", 30, model.CategoryProductivity),
	}
	summary := Summarize(subs)
	proj := Project(subs, 2024, time.March)
	budget := 50.0
	budgetStats := ComputeBudget(proj, time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), &budget)
	items := BuildInsights(subs, summary, budgetStats, nil)
	if len(items) == 0 {
		t.Fatal("no insights to round-trip")
	}

	records := make([]map[string]string, len(items))
	for i, it := range items {
		records[i] = map[string]string{"type": it.Kind, "message": it.Message}
	}
	payload, err := json.Marshal(records)
	if err != nil {
		t.Fatalf("marshal records: %v", err)
	}

	normalized := feed.Normalize(payload)
	if len(normalized) != len(items) {
		t.Fatalf("normalized = %d items, want %d", len(normalized), len(items))
	}
	for i := range items {
		if normalized[i] != items[i] {
			t.Fatalf("normalized[%d] = %+v, want %+v", i, normalized[i], items[i])
		}
	}
}
