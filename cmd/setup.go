package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/subwatchdev/subwatch/internal/config"
	"github.com/subwatchdev/subwatch/internal/source"

	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	reader := bufio.NewReader(os.Stdin)

	// Load existing config or defaults
	cfg, _ := config.Load()

	files, _ := source.ScanDir(dataDir())
	sourceCount := source.CountSources(files)

	fmt.Println()
	fmt.Println("  Welcome to subwatch!")
	fmt.Println()
	if len(files) > 0 {
		fmt.Printf("  Found %d export files in %s (%d sources)\n\n",
			len(files), dataDir(), sourceCount)
	}

	// 1. Budget
	fmt.Println("  1. Monthly subscription budget")
	fmt.Println("     Used for the budget bar and overspend alerts.")
	for i, p := range config.SpendingProfiles {
		fmt.Printf("     (%d) %s — $%.0f/mo (%s)\n", i+1, p.Name, p.MonthlyUSD, p.Description)
	}
	fmt.Println("     Or type an amount, or leave blank for no budget.")
	if cfg.Budget.MonthlyUSD != nil {
		fmt.Printf("     Current: $%.0f\n", *cfg.Budget.MonthlyUSD)
	}
	fmt.Print("     > ")
	budgetIn, _ := reader.ReadString('\n')
	budgetIn = strings.TrimSpace(budgetIn)
	if budgetIn != "" {
		if idx, err := strconv.Atoi(budgetIn); err == nil && idx >= 1 && idx <= len(config.SpendingProfiles) {
			v := config.SpendingProfiles[idx-1].MonthlyUSD
			cfg.Budget.MonthlyUSD = &v
		} else if v, err := strconv.ParseFloat(budgetIn, 64); err == nil && v > 0 {
			cfg.Budget.MonthlyUSD = &v
		}
	}
	fmt.Println()

	// 2. Upcoming payment window
	fmt.Println("  2. Upcoming payment window")
	fmt.Println("     (1) 7 days [default]")
	fmt.Println("     (2) 14 days")
	fmt.Println("     (3) 30 days")
	fmt.Print("     > ")
	choice, _ := reader.ReadString('\n')
	switch strings.TrimSpace(choice) {
	case "2":
		cfg.General.UpcomingDays = 14
	case "3":
		cfg.General.UpcomingDays = 30
	default:
		cfg.General.UpcomingDays = 7
	}
	fmt.Println()

	// 3. Theme
	fmt.Println("  3. Color theme")
	fmt.Println("     (1) Flexoki Dark [default]")
	fmt.Println("     (2) Catppuccin Mocha")
	fmt.Println("     (3) Tokyo Night")
	fmt.Println("     (4) Terminal (ANSI 16)")
	fmt.Print("     > ")
	themeChoice, _ := reader.ReadString('\n')
	switch strings.TrimSpace(themeChoice) {
	case "2":
		cfg.Appearance.Theme = "catppuccin-mocha"
	case "3":
		cfg.Appearance.Theme = "tokyo-night"
	case "4":
		cfg.Appearance.Theme = "terminal"
	default:
		cfg.Appearance.Theme = "flexoki-dark"
	}
	fmt.Println()

	// 4. AI advisor key
	fmt.Println("  4. Anthropic API key (optional)")
	fmt.Println("     Enables `subwatch insights --ai` suggestions.")
	existing := config.GetAdvisorAPIKey(cfg)
	if existing != "" {
		fmt.Printf("     Current: %s\n", maskAPIKey(existing))
	}
	fmt.Print("     > ")
	apiKey, _ := reader.ReadString('\n')
	apiKey = strings.TrimSpace(apiKey)
	if apiKey != "" {
		cfg.Advisor.APIKey = apiKey
	}

	// Save
	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println()
	fmt.Printf("  Saved to %s\n", config.ConfigPath())
	fmt.Println("  Run `subwatch setup` anytime to reconfigure.")
	fmt.Println()

	return nil
}

func maskAPIKey(key string) string {
	if len(key) > 16 {
		return key[:8] + "..." + key[len(key)-4:]
	}
	if len(key) > 4 {
		return key[:4] + "..."
	}
	return "****"
}
