package cmd

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/subwatchdev/subwatch/internal/cli"
	"github.com/subwatchdev/subwatch/internal/daemon"
	"github.com/subwatchdev/subwatch/internal/source"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show store, data and daemon status",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(_ *cobra.Command, _ []string) error {
	fmt.Println()
	fmt.Println(cli.RenderTitle("STATUS"))
	fmt.Println()

	fmt.Printf("  Data dir:  %s\n", dataDir())

	files, err := source.ScanDir(dataDir())
	if err != nil {
		fmt.Printf("  Exports:   %s\n", cli.Warn(err.Error()))
	} else {
		fmt.Printf("  Exports:   %d files, %d sources\n", len(files), source.CountSources(files))
	}

	if flagNoStore {
		fmt.Printf("  Store:     %s\n", cli.Muted("disabled (--no-store)"))
	} else if st, err := openStore(); err != nil {
		fmt.Printf("  Store:     %s\n", cli.Danger(err.Error()))
	} else {
		n, countErr := st.SubscriptionCount()
		_ = st.Close()
		if countErr != nil {
			fmt.Printf("  Store:     %s\n", cli.Danger(countErr.Error()))
		} else {
			fmt.Printf("  Store:     %s (%d subscriptions)\n", databaseDSN(), n)
		}
	}

	fmt.Println()
	printDaemonStatus()
	fmt.Println()
	return nil
}

func printDaemonStatus() {
	base, up := daemonBaseURL()
	if !up {
		fmt.Printf("  Daemon:    %s\n", cli.Muted("not running"))
		return
	}

	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(base + "/v1/status") //nolint:noctx // short status probe
	if err != nil {
		fmt.Printf("  Daemon:    %s\n", cli.Warn(fmt.Sprintf("unreachable (%v)", err)))
		return
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		fmt.Printf("  Daemon:    %s\n", cli.Warn(fmt.Sprintf("HTTP %d", resp.StatusCode)))
		return
	}

	var st daemon.Status
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		fmt.Printf("  Daemon:    %s\n", cli.Warn(fmt.Sprintf("malformed response (%v)", err)))
		return
	}

	fmt.Printf("  Daemon:    %s\n", cli.Money("running at "+base))
	if st.LastSyncAt.IsZero() {
		fmt.Printf("  Last sync: pending\n")
	} else {
		fmt.Printf("  Last sync: %s\n", st.LastSyncAt.Local().Format(time.RFC3339))
	}
	fmt.Printf("  Polls:     %d (every %ds)\n", st.PollCount, st.PollIntervalSec)
	fmt.Printf("  Tracked:   %d subscriptions, %s/mo\n",
		st.Summary.Subscriptions, cli.FormatExactMoney(st.Summary.MonthlyTotal))
	fmt.Printf("  Alerts:    %d unread\n", st.Summary.UnreadAlerts)
	if st.LastError != "" {
		fmt.Printf("  Last err:  %s\n", cli.Danger(st.LastError))
	}
}
