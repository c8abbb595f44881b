package pipeline

import (
	"fmt"
	"sort"

	"github.com/subwatchdev/subwatch/internal/config"
	"github.com/subwatchdev/subwatch/internal/model"
)

// Defaults for the advisory knobs of high-cost detection. The ceiling applies
// when too few subscriptions exist to compute quartiles meaningfully.
const (
	defaultHighCostCeiling = 40.0
	defaultHighCostRate    = 0.20
	minSubsForQuartiles    = 4
)

// SavingsOptions tunes the advisory parts of savings detection. Non-positive
// fields fall back to the defaults.
type SavingsOptions struct {
	// HighCostCeiling is the absolute monthly-equivalent cutoff used when
	// fewer than four active subscriptions exist.
	HighCostCeiling float64
	// HighCostSavingsRate scales the excess above the outlier threshold into
	// an advisory savings estimate.
	HighCostSavingsRate float64
}

// DefaultSavingsOptions returns the standard detection knobs.
func DefaultSavingsOptions() SavingsOptions {
	return SavingsOptions{
		HighCostCeiling:     defaultHighCostCeiling,
		HighCostSavingsRate: defaultHighCostRate,
	}
}

type rankedOpportunity struct {
	op    model.SavingsOpportunity
	order int
}

// DetectSavings scans the subscription set for the three opportunity classes
// and returns them sorted non-increasing by potential monthly savings; ties
// keep original subscription order. Classes may co-fire for one subscription
// and are not deduplicated here. The price book supplies annual plan prices;
// subscriptions it does not know are simply excluded from that class.
func DetectSavings(subs []model.Subscription, book *config.PriceBook, opts SavingsOptions) []model.SavingsOpportunity {
	if opts.HighCostCeiling <= 0 {
		opts.HighCostCeiling = defaultHighCostCeiling
	}
	if opts.HighCostSavingsRate <= 0 {
		opts.HighCostSavingsRate = defaultHighCostRate
	}

	var ranked []rankedOpportunity

	// Switch-to-annual: compare the monthly price against a known annual plan.
	for i, s := range subs {
		if !s.Active || s.Cycle != model.CycleMonthly {
			continue
		}
		annual, ok := book.AnnualPrice(s.Name)
		if !ok {
			continue
		}
		saving := s.Cost - annual/12
		if saving <= 0 {
			continue
		}
		ranked = append(ranked, rankedOpportunity{
			op: model.SavingsOpportunity{
				Type:                    model.SavingsSwitchToAnnual,
				SubscriptionID:          s.ID,
				Name:                    s.Name,
				Category:                s.Category,
				CurrentMonthly:          s.Cost,
				PotentialMonthlySavings: saving,
				Detail:                  fmt.Sprintf("Annual plan costs $%.2f, about $%.2f/mo", annual, annual/12),
			},
			order: i,
		})
	}

	// Duplicate categories: more than one active subscription in a category
	// suggests consolidation onto the most expensive member.
	type group struct {
		total float64
		max   float64
		count int
		first int
	}
	groups := make(map[string]*group)
	var groupOrder []string
	for i, s := range subs {
		if !s.Active {
			continue
		}
		cat := model.NormalizeCategory(s.Category)
		g, ok := groups[cat]
		if !ok {
			g = &group{first: i}
			groups[cat] = g
			groupOrder = append(groupOrder, cat)
		}
		monthly := s.MonthlyEquivalent()
		g.total += monthly
		if monthly > g.max {
			g.max = monthly
		}
		g.count++
	}
	for _, cat := range groupOrder {
		g := groups[cat]
		if g.count < 2 {
			continue
		}
		ranked = append(ranked, rankedOpportunity{
			op: model.SavingsOpportunity{
				Type:                    model.SavingsDuplicateCategory,
				Name:                    cat,
				Category:                cat,
				CurrentMonthly:          g.total,
				PotentialMonthlySavings: g.total - g.max,
				Detail:                  fmt.Sprintf("%d active services in %s; keeping one would save the rest", g.count, cat),
			},
			order: g.first,
		})
	}

	// High cost: statistical outliers above the IQR fence, or above the fixed
	// ceiling when the set is too small for quartiles. The savings figure for
	// this class is an advisory estimate, not derived from the fence.
	var costs []float64
	for _, s := range subs {
		if s.Active {
			costs = append(costs, s.MonthlyEquivalent())
		}
	}
	threshold := opts.HighCostCeiling
	if len(costs) >= minSubsForQuartiles {
		sorted := append([]float64(nil), costs...)
		sort.Float64s(sorted)
		p25 := percentile(sorted, 0.25)
		p75 := percentile(sorted, 0.75)
		threshold = p75 + 1.5*(p75-p25)
	}
	for i, s := range subs {
		if !s.Active {
			continue
		}
		monthly := s.MonthlyEquivalent()
		if monthly <= threshold {
			continue
		}
		estimate := opts.HighCostSavingsRate * (monthly - threshold)
		if estimate > monthly {
			estimate = monthly
		}
		ranked = append(ranked, rankedOpportunity{
			op: model.SavingsOpportunity{
				Type:                    model.SavingsHighCost,
				SubscriptionID:          s.ID,
				Name:                    s.Name,
				Category:                s.Category,
				CurrentMonthly:          monthly,
				PotentialMonthlySavings: estimate,
				Detail:                  fmt.Sprintf("$%.2f/mo is well above the rest of your subscriptions", monthly),
			},
			order: i,
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].op.PotentialMonthlySavings != ranked[j].op.PotentialMonthlySavings {
			return ranked[i].op.PotentialMonthlySavings > ranked[j].op.PotentialMonthlySavings
		}
		return ranked[i].order < ranked[j].order
	})

	out := make([]model.SavingsOpportunity, len(ranked))
	for i, r := range ranked {
		out[i] = r.op
	}
	return out
}

// TotalPotentialSavings sums the returned opportunities. Double counting
// across classes is accepted; this is a presentation value, not a ledger.
func TotalPotentialSavings(ops []model.SavingsOpportunity) float64 {
	var total float64
	for _, op := range ops {
		total += op.PotentialMonthlySavings
	}
	return total
}

// percentile computes the p-quantile of sorted values by linear
// interpolation between closest ranks.
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if len(sorted) == 1 {
		return sorted[0]
	}
	idx := p * float64(len(sorted)-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= len(sorted) {
		return sorted[len(sorted)-1]
	}
	return sorted[lo] + (sorted[hi]-sorted[lo])*(idx-float64(lo))
}
