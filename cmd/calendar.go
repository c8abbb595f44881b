package cmd

import (
	"fmt"
	"time"

	"github.com/subwatchdev/subwatch/internal/cli"
	"github.com/subwatchdev/subwatch/internal/pipeline"

	"github.com/spf13/cobra"
)

var calendarCmd = &cobra.Command{
	Use:   "calendar [YYYY-MM]",
	Short: "Payment calendar for a month",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCalendar,
}

func init() {
	rootCmd.AddCommand(calendarCmd)
}

func runCalendar(_ *cobra.Command, args []string) error {
	now := time.Now()
	year, month := now.Year(), now.Month()
	if len(args) == 1 {
		t, err := time.Parse("2006-01", args[0])
		if err != nil {
			return fmt.Errorf("bad month %q, want YYYY-MM", args[0])
		}
		year, month = t.Year(), t.Month()
	}

	subs, err := loadSubscriptions()
	if err != nil {
		return err
	}
	if len(subs) == 0 {
		fmt.Println("\n  No subscriptions found.")
		return nil
	}

	proj := pipeline.Project(subs, year, month)

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("CALENDAR  %s %d", month, year)))
	fmt.Println()

	dueDays := proj.DueDays()
	if len(dueDays) == 0 {
		fmt.Println("  No payments due this month.")
		return nil
	}

	rows := make([][]string, 0, len(dueDays)+2)
	for _, day := range dueDays {
		date := proj.Date(day)
		for i, s := range proj.Entries[day] {
			dateStr, dowStr := "", ""
			if i == 0 {
				dateStr = date.Format("2006-01-02")
				dowStr = cli.FormatDayOfWeek(int(date.Weekday()))
			}
			rows = append(rows, []string{
				dateStr,
				dowStr,
				s.Name,
				cli.FormatExactMoney(s.Cost) + cli.CycleSuffix(s.Cycle),
			})
		}
	}
	rows = append(rows, []string{"---"})
	rows = append(rows, []string{"TOTAL", "", "", cli.FormatExactMoney(proj.MonthTotal)})

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Date", "Day", "Subscription", "Charge"},
		Rows:    rows,
	}))

	if proj.Skipped > 0 {
		fmt.Printf("  %d subscriptions skipped (bad anchor date)\n", proj.Skipped)
	}

	return nil
}
