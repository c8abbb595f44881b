package cmd

import (
	"fmt"
	"time"

	"github.com/subwatchdev/subwatch/internal/cli"
	"github.com/subwatchdev/subwatch/internal/model"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert a demo set of subscriptions",
	RunE:  runSeed,
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

var seedSet = []struct {
	name     string
	cost     float64
	cycle    string
	category string
	day      int
}{
	{"Netflix", 15.99, model.CycleMonthly, model.CategoryEntertainment, 3},
	{"Spotify", 9.99, model.CycleMonthly, model.CategoryEntertainment, 7},
	{"Adobe Creative Cloud", 54.99, model.CycleMonthly, model.CategoryProductivity, 12},
	{"GitHub Pro", 4.00, model.CycleMonthly, model.CategoryProductivity, 15},
	{"iCloud+", 2.99, model.CycleMonthly, model.CategoryUtilities, 1},
	{"Disney+", 7.99, model.CycleMonthly, model.CategoryEntertainment, 19},
	{"Notion", 8.00, model.CycleMonthly, model.CategoryProductivity, 22},
	{"ChatGPT Plus", 20.00, model.CycleMonthly, model.CategoryProductivity, 27},
	{"Gym", 420.00, model.CycleAnnual, model.CategoryHealth, 10},
}

func runSeed(_ *cobra.Command, _ []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	if st == nil {
		return fmt.Errorf("seed requires a store; remove --no-store or set --db")
	}
	defer st.Close()

	now := time.Now().UTC()
	base := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	var monthly float64
	for _, s := range seedSet {
		anchor := base.AddDate(0, -2, s.day-1)
		sub := model.Subscription{
			ID:         uuid.NewString(),
			Name:       s.name,
			Cost:       s.cost,
			Cycle:      s.cycle,
			Category:   s.category,
			AnchorDate: anchor.Format("2006-01-02"),
			Active:     true,
			Notes:      "demo data",
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := st.UpsertSubscription(sub); err != nil {
			return fmt.Errorf("seeding %s: %w", s.name, err)
		}
		monthly += sub.MonthlyEquivalent()
	}

	fmt.Printf("\n  Seeded %d demo subscriptions (%s/mo). Run 'subwatch' to see them.\n\n",
		len(seedSet), cli.Money(cli.FormatExactMoney(monthly)))
	return nil
}
