package pipeline

import (
	"fmt"
	"math"

	"github.com/subwatchdev/subwatch/internal/feed"
	"github.com/subwatchdev/subwatch/internal/model"
)

const (
	costAnomalyZScore = 2.0
	minAnomalyPoints  = 3
)

// CostAnomalies returns active subscriptions whose monthly-equivalent cost
// sits more than two standard deviations above the active mean. Fewer than
// three active subscriptions yield no anomalies; the statistic is
// meaningless at that size.
func CostAnomalies(subs []model.Subscription) []model.Subscription {
	var active []model.Subscription
	var sum float64
	for _, s := range subs {
		if s.Active {
			active = append(active, s)
			sum += s.MonthlyEquivalent()
		}
	}
	if len(active) < minAnomalyPoints {
		return nil
	}

	mean := sum / float64(len(active))
	var variance float64
	for _, s := range active {
		d := s.MonthlyEquivalent() - mean
		variance += d * d
	}
	stddev := math.Sqrt(variance / float64(len(active)))
	if stddev == 0 {
		return nil
	}

	var out []model.Subscription
	for _, s := range active {
		if (s.MonthlyEquivalent()-mean)/stddev > costAnomalyZScore {
			out = append(out, s)
		}
	}
	return out
}

// BuildInsights produces the rule-based insight list for the dashboard. The
// order here is the display order; the feed adapter downstream preserves it.
func BuildInsights(subs []model.Subscription, summary model.SummaryStats, budget model.BudgetStats, savings []model.SavingsOpportunity) []feed.Item {
	var items []feed.Item

	if summary.ActiveSubscriptions == 0 {
		return append(items, feed.Item{
			Kind:    feed.KindInfo,
			Message: "No active subscriptions yet. Add one to start tracking.",
		})
	}

	if budget.MonthlyBudget != nil && *budget.MonthlyBudget > 0 {
		if budget.OverBudget {
			items = append(items, feed.Item{
				Kind: feed.KindWarning,
				Message: fmt.Sprintf("Projected spend $%.2f is $%.2f over your $%.2f budget",
					budget.ProjectedMonthly, budget.ProjectedMonthly-*budget.MonthlyBudget, *budget.MonthlyBudget),
			})
		} else if budget.BudgetUsedPercent < 80 {
			items = append(items, feed.Item{
				Kind: feed.KindSuccess,
				Message: fmt.Sprintf("You are comfortably under budget at %.0f%% of $%.2f",
					budget.BudgetUsedPercent, *budget.MonthlyBudget),
			})
		}
	}

	for _, s := range CostAnomalies(subs) {
		items = append(items, feed.Item{
			Kind:    feed.KindWarning,
			Message: fmt.Sprintf("%s costs $%.2f/mo, far above your average of $%.2f", s.Name, s.MonthlyEquivalent(), summary.AverageCost),
		})
	}

	if total := TotalPotentialSavings(savings); total > 0 {
		items = append(items, feed.Item{
			Kind:    feed.KindTip,
			Message: fmt.Sprintf("You could save up to $%.2f/mo across %d opportunities", total, len(savings)),
		})
		top := savings[0]
		if top.Type == model.SavingsSwitchToAnnual {
			items = append(items, feed.Item{
				Kind:    feed.KindTip,
				Message: fmt.Sprintf("Switching %s to annual billing saves $%.2f/mo", top.Name, top.PotentialMonthlySavings),
			})
		}
	}

	if len(summary.Categories) > 0 {
		top := summary.Categories[0]
		if top.SharePercent > 50 {
			items = append(items, feed.Item{
				Kind:    feed.KindInfo,
				Message: fmt.Sprintf("%s accounts for %.0f%% of your monthly spend", top.Category, top.SharePercent),
			})
		}
	}

	return items
}
