package cmd

import (
	"fmt"
	"sort"

	"github.com/subwatchdev/subwatch/internal/cli"
	"github.com/subwatchdev/subwatch/internal/model"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List tracked subscriptions",
	RunE:    runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(_ *cobra.Command, _ []string) error {
	all, err := loadSubscriptions()
	if err != nil {
		return err
	}
	subs := visibleSubscriptions(all)
	if len(subs) == 0 {
		fmt.Println("\n  No subscriptions found. Run 'subwatch add' to track one.")
		return nil
	}

	sort.Slice(subs, func(i, j int) bool {
		if subs[i].Active != subs[j].Active {
			return subs[i].Active
		}
		return subs[i].MonthlyEquivalent() > subs[j].MonthlyEquivalent()
	})

	rows := make([][]string, 0, len(subs))
	var monthly float64
	for _, s := range subs {
		status := cli.Money("active")
		if !s.Active {
			status = cli.Muted("inactive")
		} else {
			monthly += s.MonthlyEquivalent()
		}
		rows = append(rows, []string{
			s.Name,
			s.Category,
			cli.FormatExactMoney(s.Cost) + cli.CycleSuffix(s.Cycle),
			cli.FormatExactMoney(s.MonthlyEquivalent()),
			status,
		})
	}
	rows = append(rows, []string{"---"})
	rows = append(rows, []string{"TOTAL", "", "", cli.FormatExactMoney(monthly), ""})

	t := cli.Table{
		Title:   fmt.Sprintf("SUBSCRIPTIONS (%d)", len(subs)),
		Headers: []string{"Name", "Category", "Price", "Monthly", "Status"},
		Rows:    rows,
	}
	fmt.Println()
	fmt.Println(cli.RenderTable(t))

	if !flagInactive && hasInactive(all) {
		fmt.Println(cli.Muted("  Inactive subscriptions hidden. Use --inactive to show them."))
	}
	fmt.Println()
	return nil
}

func hasInactive(subs []model.Subscription) bool {
	for _, s := range subs {
		if !s.Active {
			return true
		}
	}
	return false
}
