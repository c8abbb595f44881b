package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/subwatchdev/subwatch/internal/config"
	"github.com/subwatchdev/subwatch/internal/tui/theme"

	"github.com/charmbracelet/huh"
)

// setupValues collects the first-run form answers.
type setupValues struct {
	theme       string
	budget      string
	days        string
	autoRefresh bool
}

// newSetupForm builds the first-run setup form shown before the dashboard.
func newSetupForm(subCount int, dataDir string, vals *setupValues) *huh.Form {
	vals.theme = theme.Active.Name
	vals.days = "7"

	themeOptions := make([]huh.Option[string], 0, len(theme.All))
	for _, t := range theme.All {
		themeOptions = append(themeOptions, huh.NewOption(t.Name, t.Name))
	}

	title := "Welcome to subwatch!"
	desc := fmt.Sprintf("Found %d subscriptions in %s. A few quick settings:", subCount, dataDir)
	if subCount == 0 {
		desc = fmt.Sprintf("No subscriptions found yet in %s. Set your preferences, then add or import some:", dataDir)
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title(title).
				Description(desc),
			huh.NewSelect[string]().
				Title("Color theme").
				Options(themeOptions...).
				Value(&vals.theme),
			huh.NewInput().
				Title("Monthly budget (USD)").
				Description("Leave blank for no budget. Presets: light $30, typical $75, heavy $150").
				Placeholder("75").
				Value(&vals.budget).
				Validate(func(s string) error {
					s = strings.TrimSpace(s)
					if s == "" {
						return nil
					}
					if v, err := strconv.ParseFloat(s, 64); err != nil || v <= 0 {
						return fmt.Errorf("enter a positive amount or leave blank")
					}
					return nil
				}),
			huh.NewSelect[string]().
				Title("Upcoming payment window").
				Options(
					huh.NewOption("7 days", "7"),
					huh.NewOption("14 days", "14"),
					huh.NewOption("30 days", "30"),
				).
				Value(&vals.days),
			huh.NewConfirm().
				Title("Auto-refresh the dashboard?").
				Value(&vals.autoRefresh),
		),
	)
}

// saveSetupConfig applies the form answers to the config file and the live
// app state.
func (a *App) saveSetupConfig() error {
	cfg := loadConfigOrDefault()

	cfg.Appearance.Theme = a.setupVals.theme
	theme.SetActive(cfg.Appearance.Theme)

	if s := strings.TrimSpace(a.setupVals.budget); s != "" {
		if v, err := strconv.ParseFloat(s, 64); err == nil && v > 0 {
			cfg.Budget.MonthlyUSD = &v
		}
	}

	if d, err := strconv.Atoi(a.setupVals.days); err == nil && d > 0 {
		cfg.General.UpcomingDays = d
	}

	cfg.TUI.AutoRefresh = a.setupVals.autoRefresh
	a.autoRefresh = a.setupVals.autoRefresh

	return config.Save(cfg)
}
