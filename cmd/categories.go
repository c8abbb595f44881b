package cmd

import (
	"fmt"

	"github.com/subwatchdev/subwatch/internal/cli"
	"github.com/subwatchdev/subwatch/internal/pipeline"

	"github.com/spf13/cobra"
)

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "Spending by category",
	RunE:  runCategories,
}

func init() {
	rootCmd.AddCommand(categoriesCmd)
}

func runCategories(_ *cobra.Command, _ []string) error {
	subs, err := loadSubscriptions()
	if err != nil {
		return err
	}
	if len(subs) == 0 {
		fmt.Println("\n  No subscriptions found.")
		return nil
	}

	stats := pipeline.Summarize(subs)
	if len(stats.Categories) == 0 {
		fmt.Println("\n  No active subscriptions.")
		return nil
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("SPEND BY CATEGORY"))
	fmt.Println()

	maxMonthly := stats.Categories[0].MonthlyTotal
	for _, cs := range stats.Categories {
		bar := cli.RenderBar(cs.MonthlyTotal, maxMonthly, 30)
		fmt.Printf("  %-14s %9s/mo  %s %s\n",
			cs.Category,
			cli.Money(cli.FormatExactMoney(cs.MonthlyTotal)),
			cli.Accent(bar),
			cli.Muted(fmt.Sprintf("%.0f%%", cs.SharePercent)))
	}

	fmt.Printf("\n  Total: %s/mo across %d active subscriptions\n\n",
		cli.Money(cli.FormatExactMoney(stats.MonthlyTotal)),
		stats.ActiveSubscriptions)

	return nil
}
