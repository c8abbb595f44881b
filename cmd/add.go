package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/subwatchdev/subwatch/internal/cli"
	"github.com/subwatchdev/subwatch/internal/model"

	"github.com/charmbracelet/huh"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var addCmd = &cobra.Command{
	Use:   "add [name]",
	Short: "Add a subscription interactively",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runAdd,
}

func init() {
	rootCmd.AddCommand(addCmd)
}

func runAdd(_ *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	if st == nil {
		return fmt.Errorf("add requires a store; remove --no-store or set --db")
	}
	defer st.Close()

	var (
		name     string
		costIn   string
		cycle    = model.CycleMonthly
		category string
		anchorIn = time.Now().Format("2006-01-02")
		active   = true
	)
	if len(args) == 1 {
		name = strings.TrimSpace(args[0])
		category = model.GuessCategory(name)
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Placeholder("Netflix").
				Value(&name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("name is required")
					}
					return nil
				}),
			huh.NewInput().
				Title("Price (USD)").
				Placeholder("15.99").
				Value(&costIn).
				Validate(func(s string) error {
					v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
					if err != nil || v <= 0 {
						return fmt.Errorf("enter a positive amount")
					}
					return nil
				}),
			huh.NewSelect[string]().
				Title("Billing cycle").
				Options(
					huh.NewOption("Monthly", model.CycleMonthly),
					huh.NewOption("Weekly", model.CycleWeekly),
					huh.NewOption("Annual", model.CycleAnnual),
				).
				Value(&cycle),
			huh.NewSelect[string]().
				Title("Category").
				Options(huh.NewOptions(model.AllCategories...)...).
				Value(&category),
			huh.NewInput().
				Title("First billing date").
				Description("YYYY-MM-DD; any past or future charge date works").
				Value(&anchorIn).
				Validate(func(s string) error {
					_, err := time.Parse("2006-01-02", strings.TrimSpace(s))
					return err
				}),
			huh.NewConfirm().
				Title("Active?").
				Value(&active),
		),
	)
	if err := form.Run(); err != nil {
		return fmt.Errorf("add aborted: %w", err)
	}

	cost, _ := strconv.ParseFloat(strings.TrimSpace(costIn), 64)
	now := time.Now().UTC()
	sub := model.Subscription{
		ID:         uuid.NewString(),
		Name:       strings.TrimSpace(name),
		Cost:       cost,
		Cycle:      cycle,
		Category:   model.NormalizeCategory(category),
		AnchorDate: strings.TrimSpace(anchorIn),
		Active:     active,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := st.UpsertSubscription(sub); err != nil {
		return fmt.Errorf("saving subscription: %w", err)
	}

	fmt.Printf("\n  Added %s at %s%s (%s)\n\n",
		cli.Accent(sub.Name),
		cli.Money(cli.FormatExactMoney(sub.Cost)),
		cli.CycleSuffix(sub.Cycle),
		sub.Category)
	return nil
}
