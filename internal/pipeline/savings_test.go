package pipeline

import (
	"testing"

	"github.com/subwatchdev/subwatch/internal/config"
	"github.com/subwatchdev/subwatch/internal/model"
)

func bookWithAnnualPrices(prices map[string]float64) *config.PriceBook {
	cfg := config.DefaultConfig()
	cfg.Prices.Overrides = make(map[string]config.AnnualPriceOverride, len(prices))
	for name, p := range prices {
		price := p
		cfg.Prices.Overrides[name] = config.AnnualPriceOverride{AnnualUSD: &price}
	}
	return config.NewPriceBook(cfg)
}

func catSub(id, name string, cost float64, category string) model.Subscription {
	s := makeSub(id, name, cost, model.CycleMonthly, "2024-01-10")
	s.Category = category
	return s
}

func TestDetectSavingsAnnualSwitch(t *testing.T) {
	book := bookWithAnnualPrices(map[string]float64{"StreamCo": 120})
	subs := []model.Subscription{
		catSub("a", "StreamCo", 15, model.CategoryEntertainment),
	}

	ops := DetectSavings(subs, book, DefaultSavingsOptions())

	if len(ops) != 1 {
		t.Fatalf("opportunities = %d, want 1", len(ops))
	}
	op := ops[0]
	if op.Type != model.SavingsSwitchToAnnual {
		t.Fatalf("type = %q, want switch_to_annual", op.Type)
	}
	if op.PotentialMonthlySavings != 5.0 {
		t.Fatalf("savings = %.2f, want 5.00 (15 - 120/12)", op.PotentialMonthlySavings)
	}
	if op.PotentialMonthlySavings > op.CurrentMonthly {
		t.Fatalf("savings %.2f exceeds current monthly %.2f", op.PotentialMonthlySavings, op.CurrentMonthly)
	}
}

func TestDetectSavingsAnnualSwitchSkipsNonPositive(t *testing.T) {
	// Annual plan at 12x the monthly price saves nothing.
	book := bookWithAnnualPrices(map[string]float64{"BreakEven": 120})
	subs := []model.Subscription{
		catSub("a", "BreakEven", 10, model.CategoryEntertainment),
	}

	for _, op := range DetectSavings(subs, book, DefaultSavingsOptions()) {
		if op.Type == model.SavingsSwitchToAnnual {
			t.Fatalf("emitted switch_to_annual with zero savings: %+v", op)
		}
	}
}

func TestDetectSavingsDuplicateCategory(t *testing.T) {
	subs := []model.Subscription{
		catSub("a", "Cheap", 10, model.CategoryEntertainment),
		catSub("b", "Middle", 15, model.CategoryEntertainment),
		catSub("c", "Pricey", 20, model.CategoryEntertainment),
	}

	ops := DetectSavings(subs, config.NewPriceBook(config.DefaultConfig()), DefaultSavingsOptions())

	var dup *model.SavingsOpportunity
	for i := range ops {
		if ops[i].Type == model.SavingsDuplicateCategory {
			if dup != nil {
				t.Fatal("more than one duplicate_category opportunity for a single category")
			}
			dup = &ops[i]
		}
	}
	if dup == nil {
		t.Fatal("no duplicate_category opportunity emitted")
	}
	if dup.PotentialMonthlySavings != 25 {
		t.Fatalf("savings = %.2f, want 25.00 (all but the most expensive)", dup.PotentialMonthlySavings)
	}
	if dup.CurrentMonthly != 45 {
		t.Fatalf("current monthly = %.2f, want 45.00", dup.CurrentMonthly)
	}
}

func TestDetectSavingsHighCostIQROutlier(t *testing.T) {
	subs := []model.Subscription{
		catSub("a", "Svc A", 10, model.CategoryEntertainment),
		catSub("b", "Svc B", 10, model.CategoryProductivity),
		catSub("c", "Svc C", 10, model.CategoryUtilities),
		catSub("d", "Svc D", 10, model.CategoryHealth),
		catSub("e", "Svc E", 100, model.CategorySocial),
	}

	ops := DetectSavings(subs, config.NewPriceBook(config.DefaultConfig()), DefaultSavingsOptions())

	var high []model.SavingsOpportunity
	for _, op := range ops {
		if op.Type == model.SavingsHighCost {
			high = append(high, op)
		}
	}
	if len(high) != 1 {
		t.Fatalf("high_cost opportunities = %d, want 1", len(high))
	}
	if high[0].SubscriptionID != "e" {
		t.Fatalf("outlier = %q, want the $100 subscription", high[0].SubscriptionID)
	}
	if high[0].PotentialMonthlySavings > high[0].CurrentMonthly {
		t.Fatalf("advisory savings %.2f exceeds current monthly %.2f", high[0].PotentialMonthlySavings, high[0].CurrentMonthly)
	}
}

func TestDetectSavingsHighCostCeilingForSmallSets(t *testing.T) {
	subs := []model.Subscription{
		catSub("a", "Small", 10, model.CategoryEntertainment),
		catSub("b", "Big", 45, model.CategoryProductivity),
	}

	ops := DetectSavings(subs, config.NewPriceBook(config.DefaultConfig()), DefaultSavingsOptions())

	var high []model.SavingsOpportunity
	for _, op := range ops {
		if op.Type == model.SavingsHighCost {
			high = append(high, op)
		}
	}
	if len(high) != 1 || high[0].SubscriptionID != "b" {
		t.Fatalf("high_cost = %+v, want only the subscription above the fixed ceiling", high)
	}
}

func TestDetectSavingsSortedDescendingStable(t *testing.T) {
	book := bookWithAnnualPrices(map[string]float64{
		"Tie One": 120,
		"Tie Two": 120,
	})
	subs := []model.Subscription{
		catSub("t1", "Tie One", 15, model.CategoryEntertainment),
		catSub("t2", "Tie Two", 15, model.CategoryProductivity),
		catSub("d1", "Dup A", 30, model.CategoryHealth),
		catSub("d2", "Dup B", 30, model.CategoryHealth),
	}

	ops := DetectSavings(subs, book, DefaultSavingsOptions())

	for i := 1; i < len(ops); i++ {
		if ops[i].PotentialMonthlySavings > ops[i-1].PotentialMonthlySavings {
			t.Fatalf("output not sorted descending at %d: %.2f after %.2f",
				i, ops[i].PotentialMonthlySavings, ops[i-1].PotentialMonthlySavings)
		}
	}

	// The $30 duplicate pair saves the most; the two $5 annual ties keep
	// input subscription order.
	if ops[0].Type != model.SavingsDuplicateCategory {
		t.Fatalf("ops[0].Type = %q, want duplicate_category first", ops[0].Type)
	}
	var ties []model.SavingsOpportunity
	for _, op := range ops {
		if op.Type == model.SavingsSwitchToAnnual {
			ties = append(ties, op)
		}
	}
	if len(ties) != 2 || ties[0].SubscriptionID != "t1" || ties[1].SubscriptionID != "t2" {
		t.Fatalf("tied opportunities = %+v, want input order t1 then t2", ties)
	}
}

func TestDetectSavingsEmptyInput(t *testing.T) {
	ops := DetectSavings(nil, config.NewPriceBook(config.DefaultConfig()), DefaultSavingsOptions())
	if len(ops) != 0 {
		t.Fatalf("opportunities from empty input = %d, want 0", len(ops))
	}
}

func TestTotalPotentialSavings(t *testing.T) {
	ops := []model.SavingsOpportunity{
		{PotentialMonthlySavings: 5},
		{PotentialMonthlySavings: 7.5},
	}
	if got := TotalPotentialSavings(ops); got != 12.5 {
		t.Fatalf("TotalPotentialSavings = %.2f, want 12.50", got)
	}
}

func TestPercentileInterpolates(t *testing.T) {
	sorted := []float64{1, 2, 3, 4}
	if got := percentile(sorted, 0.75); got != 3.25 {
		t.Fatalf("percentile(0.75) = %v, want 3.25", got)
	}
	if got := percentile(sorted, 0.25); got != 1.75 {
		t.Fatalf("percentile(0.25) = %v, want 1.75", got)
	}
	if got := percentile([]float64{9}, 0.5); got != 9 {
		t.Fatalf("percentile of single value = %v, want 9", got)
	}
}
