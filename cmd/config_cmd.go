// Package cmd implements the subwatch CLI commands.
package cmd

import (
	"fmt"

	"github.com/subwatchdev/subwatch/internal/config"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file path",
	RunE: func(_ *cobra.Command, _ []string) error {
		fmt.Println(config.ConfigPath())
		return nil
	},
}

func init() {
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	fmt.Printf("  Config file: %s\n", config.ConfigPath())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [General]")
	fmt.Printf("    Upcoming days:    %d\n", cfg.General.UpcomingDays)
	fmt.Printf("    Include inactive: %v\n", cfg.General.IncludeInactive)
	fmt.Printf("    Data directory:   %s\n", config.DataDir(cfg))
	fmt.Printf("    Database:         %s\n", config.DatabaseDSN(cfg))
	fmt.Println()

	fmt.Println("  [Daemon]")
	fmt.Printf("    Listen address: %s\n", cfg.Daemon.ListenAddr)
	fmt.Printf("    Poll interval:  %ds\n", cfg.Daemon.PollIntervalSecs)
	fmt.Printf("    Refresh cron:   %s\n", cfg.Daemon.RefreshCron)
	fmt.Println()

	fmt.Println("  [Budget]")
	if cfg.Budget.MonthlyUSD != nil {
		fmt.Printf("    Monthly budget: $%.0f\n", *cfg.Budget.MonthlyUSD)
	} else {
		fmt.Println("    Monthly budget: not set")
	}
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  [Advisor]")
	apiKey := config.GetAdvisorAPIKey(cfg)
	if apiKey != "" {
		fmt.Printf("    API key: %s\n", maskAPIKey(apiKey))
	} else {
		fmt.Println("    API key: not configured")
	}
	fmt.Printf("    Model:     %s\n", cfg.Advisor.Model)
	fmt.Printf("    Cache TTL: %dm\n", cfg.Advisor.CacheTTLMins)
	fmt.Println()

	if n := len(cfg.Prices.Overrides); n > 0 {
		fmt.Printf("  [Prices] %d annual price overrides\n\n", n)
	}

	fmt.Println("  Run `subwatch setup` to reconfigure.")
	return nil
}
