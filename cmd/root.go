package cmd

import (
	"fmt"
	"os"

	"github.com/subwatchdev/subwatch/internal/config"
	"github.com/subwatchdev/subwatch/internal/model"
	"github.com/subwatchdev/subwatch/internal/pipeline"
	"github.com/subwatchdev/subwatch/internal/store"

	"github.com/spf13/cobra"
)

var (
	flagDataDir  string
	flagDB       string
	flagNoStore  bool
	flagQuiet    bool
	flagInactive bool
)

var rootCmd = &cobra.Command{
	Use:   "subwatch",
	Short: "Subscription Tracker CLI",
	Long:  "Track your recurring subscriptions: calendar, savings, alerts, and more.",
	RunE:  runSummary,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagDataDir, "data-dir", "d", "", "Data directory (default: ~/.local/share/subwatch)")
	rootCmd.PersistentFlags().StringVar(&flagDB, "db", "", "Database DSN (sqlite path or postgres:// URL)")
	rootCmd.PersistentFlags().BoolVar(&flagNoStore, "no-store", false, "Skip the database, parse export files directly")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
	rootCmd.PersistentFlags().BoolVar(&flagInactive, "inactive", false, "Include inactive subscriptions in listings")
}

// loadedConfig caches the config for the lifetime of one command invocation.
var loadedConfig *config.Config

func currentConfig() config.Config {
	if loadedConfig == nil {
		cfg, err := config.Load()
		if err != nil && !flagQuiet {
			fmt.Fprintf(os.Stderr, "  Config problem, using defaults: %v\n", err)
		}
		loadedConfig = &cfg
	}
	return *loadedConfig
}

func dataDir() string {
	if flagDataDir != "" {
		return flagDataDir
	}
	return config.DataDir(currentConfig())
}

func databaseDSN() string {
	if flagDB != "" {
		return flagDB
	}
	return config.DatabaseDSN(currentConfig())
}

// openStore opens the configured store backend. It returns a nil store
// without error when --no-store is set.
func openStore() (store.Store, error) {
	if flagNoStore {
		return nil, nil
	}
	return store.Open(databaseDSN())
}

// loadSubscriptions is the shared data loading path used by all commands.
// The store keeps rows from previous imports and direct edits; export files
// on disk are synced into it first so the view is always current.
func loadSubscriptions() ([]model.Subscription, error) {
	progressFn := func(current, total int) {
		if flagQuiet {
			return
		}
		fmt.Fprintf(os.Stderr, "\r  Parsing exports [%d/%d]", current, total)
	}

	if !flagNoStore {
		st, err := openStore()
		if err != nil {
			if !flagQuiet {
				fmt.Fprintf(os.Stderr, "  Store unavailable, parsing exports directly\n")
			}
		} else {
			defer st.Close()

			res, err := pipeline.Sync(dataDir(), st, progressFn)
			if err != nil {
				if !flagQuiet {
					fmt.Fprintf(os.Stderr, "\n  Sync error, falling back to direct parse\n")
				}
			} else {
				if !flagQuiet && res.Reparsed > 0 {
					fmt.Fprintf(os.Stderr, "\r  Synced %d export files (%d reparsed)    \n",
						res.TotalFiles, res.Reparsed)
				} else if !flagQuiet && res.TotalFiles > 0 {
					fmt.Fprintf(os.Stderr, "\r  %d subscriptions loaded    \n", len(res.Subscriptions))
				}
				return res.Subscriptions, nil
			}
		}
	}

	// Storeless path: parse the export files on every run.
	res, err := pipeline.Load(dataDir(), progressFn)
	if err != nil {
		return nil, err
	}
	if !flagQuiet && res.TotalFiles > 0 {
		fmt.Fprintf(os.Stderr, "\r  Parsed %d subscriptions from %d files    \n",
			len(res.Subscriptions), res.ParsedFiles)
	}
	return res.Subscriptions, nil
}

// visibleSubscriptions filters out inactive entries unless --inactive is set.
func visibleSubscriptions(subs []model.Subscription) []model.Subscription {
	if flagInactive {
		return subs
	}
	out := make([]model.Subscription, 0, len(subs))
	for _, s := range subs {
		if s.Active {
			out = append(out, s)
		}
	}
	return out
}

func monthlyBudget() *float64 {
	return currentConfig().Budget.MonthlyUSD
}

func upcomingDays() int {
	if d := currentConfig().General.UpcomingDays; d > 0 {
		return d
	}
	return 7
}
