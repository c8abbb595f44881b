package alert

import (
	"reflect"
	"testing"
	"time"

	"github.com/subwatchdev/subwatch/internal/config"
	"github.com/subwatchdev/subwatch/internal/model"
)

func genSub(id, name string, cost float64, anchor string) model.Subscription {
	return model.Subscription{
		ID:         id,
		Name:       name,
		Cost:       cost,
		Cycle:      model.CycleMonthly,
		Category:   model.CategoryOther,
		AnchorDate: anchor,
		Active:     true,
	}
}

func TestGenerateUpcomingPayment(t *testing.T) {
	now := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)
	subs := []model.Subscription{genSub("s1", "StreamCo", 15.99, "2024-01-05")}

	alerts := Generate(subs, nil, DefaultGeneratorOptions(), now)

	var up *model.Alert
	for i := range alerts {
		if alerts[i].Type == model.AlertUpcomingPayment {
			up = &alerts[i]
		}
	}
	if up == nil {
		t.Fatal("no upcoming_payment alert for a charge due tomorrow")
	}
	if up.ID != model.AlertID(model.AlertUpcomingPayment, "s1") {
		t.Fatalf("alert id = %q, want deterministic type:subscription id", up.ID)
	}
	if up.Priority != model.PriorityMedium {
		t.Fatalf("priority = %q, want medium", up.Priority)
	}
}

func TestGenerateUnusedForInactive(t *testing.T) {
	s := genSub("s1", "Dusty", 8, "2024-01-05")
	s.Active = false

	alerts := Generate([]model.Subscription{s}, nil, DefaultGeneratorOptions(), time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))

	if len(alerts) != 1 || alerts[0].Type != model.AlertUnusedSubscription {
		t.Fatalf("alerts = %+v, want a single unused_subscription", alerts)
	}
	if alerts[0].Priority != model.PriorityHigh {
		t.Fatalf("priority = %q, want high", alerts[0].Priority)
	}
}

func TestGenerateCostSpike(t *testing.T) {
	subs := []model.Subscription{
		genSub("a", "One", 10, "2024-01-20"),
		genSub("b", "Two", 10, "2024-01-21"),
		genSub("c", "Three", 10, "2024-01-22"),
		genSub("d", "Four", 10, "2024-01-23"),
		genSub("e", "Five", 10, "2024-01-24"),
		genSub("f", "Six", 10, "2024-01-25"),
		genSub("whale", "Whale", 200, "2024-01-26"),
	}

	alerts := Generate(subs, nil, DefaultGeneratorOptions(), time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))

	found := false
	for _, a := range alerts {
		if a.Type == model.AlertCostSpike {
			if a.SubscriptionID != "whale" {
				t.Fatalf("cost_spike for %q, want whale", a.SubscriptionID)
			}
			found = true
		}
	}
	if !found {
		t.Fatal("no cost_spike alert for the outlier")
	}
}

func TestGenerateSavingsMinimumThreshold(t *testing.T) {
	annualBig := 60.0   // saves 15 - 5 = 10/mo
	annualTiny := 119.0 // saves 10 - 9.92 = 0.08/mo, below the minimum
	cfg := config.DefaultConfig()
	cfg.Prices.Overrides = map[string]config.AnnualPriceOverride{
		"Worth It": {AnnualUSD: &annualBig},
		"Tiny Win": {AnnualUSD: &annualTiny},
	}
	book := config.NewPriceBook(cfg)

	subs := []model.Subscription{
		genSub("w", "Worth It", 15, "2024-01-20"),
		genSub("t", "Tiny Win", 10, "2024-01-21"),
	}
	subs[0].Category = model.CategoryEntertainment
	subs[1].Category = model.CategoryProductivity

	alerts := Generate(subs, book, DefaultGeneratorOptions(), time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))

	var savings []model.Alert
	for _, a := range alerts {
		if a.Type == model.AlertSavingsOpportunity {
			savings = append(savings, a)
		}
	}
	if len(savings) != 1 {
		t.Fatalf("savings alerts = %+v, want only the one above the minimum", savings)
	}
	if savings[0].SubscriptionID != "w" {
		t.Fatalf("savings alert for %q, want w", savings[0].SubscriptionID)
	}
}

func TestGenerateDeterministicIDs(t *testing.T) {
	now := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)
	subs := []model.Subscription{
		genSub("s1", "StreamCo", 15.99, "2024-01-05"),
		genSub("s2", "Tools", 54.99, "2024-01-06"),
	}

	first := Generate(subs, nil, DefaultGeneratorOptions(), now)
	second := Generate(subs, nil, DefaultGeneratorOptions(), now)

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("regeneration differs:\n%+v\n%+v", first, second)
	}
	ids := make(map[string]struct{})
	for _, a := range first {
		if _, dup := ids[a.ID]; dup {
			t.Fatalf("duplicate alert id %q", a.ID)
		}
		ids[a.ID] = struct{}{}
	}
}

func TestGeneratedIDsSurviveReconcile(t *testing.T) {
	now := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)
	subs := []model.Subscription{genSub("s1", "StreamCo", 15.99, "2024-01-05")}

	r := NewReconciler()
	r.Refresh(Generate(subs, nil, DefaultGeneratorOptions(), now))
	r.MarkAllRead()

	r.Refresh(Generate(subs, nil, DefaultGeneratorOptions(), now.Add(time.Hour)))

	if got := r.UnreadCount(); got != 0 {
		t.Fatalf("UnreadCount after regeneration = %d, want 0 (read state carried by stable ids)", got)
	}
}
