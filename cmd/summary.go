package cmd

import (
	"fmt"
	"time"

	"github.com/subwatchdev/subwatch/internal/cli"
	"github.com/subwatchdev/subwatch/internal/pipeline"

	"github.com/spf13/cobra"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Spending summary with category breakdown",
	RunE:  runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(_ *cobra.Command, _ []string) error {
	subs, err := loadSubscriptions()
	if err != nil {
		return err
	}

	if len(subs) == 0 {
		fmt.Println("\n  No subscriptions found.")
		fmt.Println("  Run `subwatch add` or `subwatch seed` to get started.")
		return nil
	}

	now := time.Now()
	stats := pipeline.Summarize(subs)
	proj := pipeline.Project(subs, now.Year(), now.Month())
	budget := pipeline.ComputeBudget(proj, now, monthlyBudget())

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("SUBSCRIPTIONS  %s", now.Format("January 2006"))))
	fmt.Println()

	rows := [][]string{
		{"Active", cli.FormatNumber(int64(stats.ActiveSubscriptions))},
		{"Inactive", cli.FormatNumber(int64(stats.InactiveCount))},
		{"---"},
		{"Monthly Total", cli.FormatExactMoney(stats.MonthlyTotal)},
		{"Annual Total", cli.FormatExactMoney(stats.AnnualTotal)},
		{"Average", cli.FormatExactMoney(stats.AverageCost) + "/mo"},
		{"This Month", cli.FormatExactMoney(proj.MonthTotal)},
	}
	if stats.TopName != "" {
		rows = append(rows, []string{"Most Expensive",
			fmt.Sprintf("%s (%s/mo)", stats.TopName, cli.FormatMoney(stats.TopMonthly))})
	}
	if budget.MonthlyBudget != nil && *budget.MonthlyBudget > 0 {
		rows = append(rows, []string{"---"})
		budgetStr := fmt.Sprintf("%s of %s (%.0f%%)",
			cli.FormatMoney(budget.ProjectedMonthly),
			cli.FormatMoney(*budget.MonthlyBudget),
			budget.BudgetUsedPercent)
		if budget.OverBudget {
			budgetStr = cli.Danger(budgetStr + "  OVER")
		}
		rows = append(rows, []string{"Budget", budgetStr})
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Metric", "Value"},
		Rows:    rows,
	}))

	// Category breakdown, highest spend first.
	if len(stats.Categories) > 0 {
		catRows := make([][]string, 0, len(stats.Categories))
		for _, cs := range stats.Categories {
			catRows = append(catRows, []string{
				cs.Category,
				cli.FormatNumber(int64(cs.Count)),
				cli.FormatExactMoney(cs.MonthlyTotal) + "/mo",
				fmt.Sprintf("%.1f%%", cs.SharePercent),
			})
		}
		fmt.Print(cli.RenderTable(cli.Table{
			Title:   "By Category",
			Headers: []string{"Category", "Count", "Monthly", "Share"},
			Rows:    catRows,
		}))
	}

	return nil
}
