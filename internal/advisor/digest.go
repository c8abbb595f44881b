package advisor

import (
	"fmt"
	"strings"

	"github.com/subwatchdev/subwatch/internal/model"
)

const systemPrompt = `You are a personal finance assistant inside a subscription tracker.
Given the user's subscription snapshot, reply with 3 to 5 short, concrete
money-saving tips, one per line, plain text, no preamble.`

// BuildDigest renders the current subscription picture as a compact prompt.
// The output is deterministic for a given input, so repeated calls over
// unchanged data hit the response cache.
func BuildDigest(summary model.SummaryStats, budget model.BudgetStats, savings []model.SavingsOpportunity) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Active subscriptions: %d of %d tracked\n",
		summary.ActiveSubscriptions, summary.TotalSubscriptions)
	fmt.Fprintf(&b, "Monthly spend: $%.2f, annual: $%.2f\n",
		summary.MonthlyTotal, summary.AnnualTotal)
	if summary.TopName != "" {
		fmt.Fprintf(&b, "Most expensive: %s at $%.2f/mo\n", summary.TopName, summary.TopMonthly)
	}

	for _, c := range summary.Categories {
		fmt.Fprintf(&b, "Category %s: %d subs, $%.2f/mo (%.0f%% of spend)\n",
			c.Category, c.Count, c.MonthlyTotal, c.SharePercent)
	}

	if budget.MonthlyBudget != nil {
		fmt.Fprintf(&b, "Budget: $%.2f/mo, projected $%.2f (%.0f%% used)\n",
			*budget.MonthlyBudget, budget.ProjectedMonthly, budget.BudgetUsedPercent)
	}

	for _, op := range savings {
		fmt.Fprintf(&b, "Detected saving [%s] %s: $%.2f/mo. %s\n",
			op.Type, op.Name, op.PotentialMonthlySavings, op.Detail)
	}

	return b.String()
}
