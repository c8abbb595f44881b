package cmd

import (
	"fmt"

	"github.com/subwatchdev/subwatch/internal/cli"
	"github.com/subwatchdev/subwatch/internal/config"
	"github.com/subwatchdev/subwatch/internal/model"
	"github.com/subwatchdev/subwatch/internal/pipeline"

	"github.com/spf13/cobra"
)

var savingsCmd = &cobra.Command{
	Use:   "savings",
	Short: "Ranked money-saving opportunities",
	RunE:  runSavings,
}

func init() {
	rootCmd.AddCommand(savingsCmd)
}

func runSavings(_ *cobra.Command, _ []string) error {
	subs, err := loadSubscriptions()
	if err != nil {
		return err
	}
	if len(subs) == 0 {
		fmt.Println("\n  No subscriptions found.")
		return nil
	}

	book := config.NewPriceBook(currentConfig())
	ops := pipeline.DetectSavings(subs, book, pipeline.DefaultSavingsOptions())

	fmt.Println()
	fmt.Println(cli.RenderTitle("SAVINGS OPPORTUNITIES"))
	fmt.Println()

	if len(ops) == 0 {
		fmt.Println("  Nothing to suggest. Your subscriptions look lean.")
		return nil
	}

	rows := make([][]string, 0, len(ops)+2)
	for _, op := range ops {
		rows = append(rows, []string{
			savingsTypeLabel(op.Type),
			op.Name,
			cli.FormatExactMoney(op.CurrentMonthly) + "/mo",
			cli.FormatExactMoney(op.PotentialMonthlySavings) + "/mo",
		})
	}
	rows = append(rows, []string{"---"})
	rows = append(rows, []string{"TOTAL", "", "",
		cli.FormatExactMoney(pipeline.TotalPotentialSavings(ops)) + "/mo"})

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Type", "Subscription", "Current", "Savings"},
		Rows:    rows,
	}))

	for _, op := range ops {
		fmt.Printf("  %s %s\n", cli.Accent("·"), cli.Muted(op.Detail))
	}
	fmt.Println()

	return nil
}

func savingsTypeLabel(t string) string {
	switch t {
	case model.SavingsSwitchToAnnual:
		return "Annual plan"
	case model.SavingsDuplicateCategory:
		return "Duplicates"
	case model.SavingsHighCost:
		return "High cost"
	default:
		return t
	}
}
