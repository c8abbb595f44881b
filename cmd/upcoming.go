package cmd

import (
	"fmt"
	"time"

	"github.com/subwatchdev/subwatch/internal/cli"
	"github.com/subwatchdev/subwatch/internal/pipeline"

	"github.com/spf13/cobra"
)

var upcomingCmd = &cobra.Command{
	Use:   "upcoming",
	Short: "Payments due in the next days",
	RunE:  runUpcoming,
}

var upcomingWindow int

func init() {
	upcomingCmd.Flags().IntVarP(&upcomingWindow, "days", "n", 0, "Lookahead window in days (default from config)")
	rootCmd.AddCommand(upcomingCmd)
}

func runUpcoming(_ *cobra.Command, _ []string) error {
	subs, err := loadSubscriptions()
	if err != nil {
		return err
	}
	if len(subs) == 0 {
		fmt.Println("\n  No subscriptions found.")
		return nil
	}

	window := upcomingWindow
	if window <= 0 {
		window = upcomingDays()
	}

	now := time.Now()
	payments := pipeline.UpcomingPayments(subs, now, window)

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("UPCOMING  Next %dd", window)))
	fmt.Println()

	if len(payments) == 0 {
		fmt.Printf("  Nothing due in the next %d days.\n", window)
		return nil
	}

	var total float64
	rows := make([][]string, 0, len(payments)+2)
	for _, p := range payments {
		total += p.Subscription.Cost
		rows = append(rows, []string{
			cli.FormatDateShort(p.Date),
			cli.FormatRelativeDays(p.DaysAway),
			p.Subscription.Name,
			cli.FormatExactMoney(p.Subscription.Cost),
		})
	}
	rows = append(rows, []string{"---"})
	rows = append(rows, []string{"TOTAL", "", "", cli.FormatExactMoney(total)})

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Date", "When", "Subscription", "Charge"},
		Rows:    rows,
	}))

	return nil
}
