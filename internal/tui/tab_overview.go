package tui

import (
	"fmt"
	"strings"

	"github.com/subwatchdev/subwatch/internal/cli"
	"github.com/subwatchdev/subwatch/internal/feed"
	"github.com/subwatchdev/subwatch/internal/pipeline"
	"github.com/subwatchdev/subwatch/internal/tui/components"
	"github.com/subwatchdev/subwatch/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func (a App) renderOverviewTab(cw int) string {
	t := theme.Active
	stats := a.summary
	var b strings.Builder

	// Row 1: Metric cards
	budgetDelta := ""
	if a.budget.MonthlyBudget != nil {
		if a.budget.OverBudget {
			budgetDelta = fmt.Sprintf("$%.0f over budget", -a.budget.RemainingBudget)
		} else {
			budgetDelta = fmt.Sprintf("$%.0f budget left", a.budget.RemainingBudget)
		}
	}

	savingsTotal := pipeline.TotalPotentialSavings(a.savings)
	savingsDelta := ""
	if len(a.savings) > 0 {
		savingsDelta = fmt.Sprintf("%d opportunities", len(a.savings))
	}

	topDelta := ""
	if stats.TopName != "" {
		topDelta = fmt.Sprintf("top: %s", truncStr(stats.TopName, 16))
	}

	cards := []struct{ Label, Value, Delta string }{
		{"Monthly", cli.FormatExactMoney(stats.MonthlyTotal), budgetDelta},
		{"Annual", cli.FormatExactMoney(stats.AnnualTotal), topDelta},
		{"Active", fmt.Sprintf("%d", stats.ActiveSubscriptions), fmt.Sprintf("%d inactive", stats.InactiveCount)},
		{"Savings", cli.FormatExactMoney(savingsTotal) + "/mo", savingsDelta},
	}
	b.WriteString(components.MetricCardRow(cards, cw))
	b.WriteString("\n")

	// Row 2: Budget bar
	if a.budget.MonthlyBudget != nil {
		barW := components.CardInnerWidth(cw) - 30
		if barW < 20 {
			barW = 20
		}
		b.WriteString(components.ContentCard(
			"Budget",
			components.BudgetBar("This month", a.budget.ProjectedMonthly, *a.budget.MonthlyBudget, 10, barW),
			cw,
		))
		b.WriteString("\n")
	}

	// Row 3: Category spend chart + upcoming payments
	halves := components.LayoutRow(cw, 2)

	var catCard string
	if len(stats.Categories) > 0 {
		vals := make([]float64, len(stats.Categories))
		labels := make([]string, len(stats.Categories))
		for i, cs := range stats.Categories {
			vals[i] = cs.MonthlyTotal
			labels[i] = truncStr(cs.Category, 6)
		}
		catCard = components.ContentCard(
			"Spend by Category ($/mo)",
			components.BarChart(vals, labels, t.Blue, components.CardInnerWidth(halves[0]), 8),
			halves[0],
		)
	}

	var upCard string
	{
		nameStyle := lipgloss.NewStyle().Foreground(t.TextPrimary)
		dateStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
		costStyle := lipgloss.NewStyle().Foreground(t.Green)

		innerW := components.CardInnerWidth(halves[1])
		nameW := innerW - 24
		if nameW < 10 {
			nameW = 10
		}

		var upBody strings.Builder
		if len(a.upcoming) == 0 {
			upBody.WriteString(dateStyle.Render("No payments due soon."))
			upBody.WriteString("\n")
		}
		limit := 6
		if len(a.upcoming) < limit {
			limit = len(a.upcoming)
		}
		for _, p := range a.upcoming[:limit] {
			fmt.Fprintf(&upBody, "%s %s %s\n",
				nameStyle.Render(fmt.Sprintf("%-*s", nameW, truncStr(p.Subscription.Name, nameW))),
				dateStyle.Render(fmt.Sprintf("%-12s", cli.FormatRelativeDays(p.DaysAway))),
				costStyle.Render(fmt.Sprintf("%8s", cli.FormatExactMoney(p.Subscription.Cost))))
		}
		upCard = components.ContentCard("Upcoming Payments", upBody.String(), halves[1])
	}

	if a.isCompactLayout() {
		if len(stats.Categories) > 0 {
			vals := make([]float64, len(stats.Categories))
			labels := make([]string, len(stats.Categories))
			for i, cs := range stats.Categories {
				vals[i] = cs.MonthlyTotal
				labels[i] = truncStr(cs.Category, 6)
			}
			b.WriteString(components.ContentCard(
				"Spend by Category ($/mo)",
				components.BarChart(vals, labels, t.Blue, components.CardInnerWidth(cw), 8),
				cw,
			))
			b.WriteString("\n")
		}
		b.WriteString(upCard)
		b.WriteString("\n")
	} else {
		b.WriteString(components.CardRow([]string{catCard, upCard}))
		b.WriteString("\n")
	}

	// Row 4: Insights feed
	if len(a.insights) > 0 {
		warnStyle := lipgloss.NewStyle().Foreground(t.Orange)
		tipStyle := lipgloss.NewStyle().Foreground(t.Accent)
		okStyle := lipgloss.NewStyle().Foreground(t.Green)
		infoStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
		textStyle := lipgloss.NewStyle().Foreground(t.TextPrimary)

		var insBody strings.Builder
		limit := 5
		if len(a.insights) < limit {
			limit = len(a.insights)
		}
		for _, item := range a.insights[:limit] {
			var icon string
			switch item.Kind {
			case feed.KindWarning:
				icon = warnStyle.Render("!")
			case feed.KindTip:
				icon = tipStyle.Render("*")
			case feed.KindSuccess:
				icon = okStyle.Render("+")
			default:
				icon = infoStyle.Render("-")
			}
			fmt.Fprintf(&insBody, "%s %s\n", icon,
				textStyle.Render(truncStr(item.Message, components.CardInnerWidth(cw)-2)))
		}
		b.WriteString(components.ContentCard("Insights", insBody.String(), cw))
	}

	return b.String()
}
