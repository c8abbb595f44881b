package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/subwatchdev/subwatch/internal/alert"
	"github.com/subwatchdev/subwatch/internal/cli"
	"github.com/subwatchdev/subwatch/internal/config"
	"github.com/subwatchdev/subwatch/internal/model"

	"github.com/spf13/cobra"
)

var (
	flagAlertRead    string
	flagAlertReadAll bool
	flagAlertDismiss string
)

var alertsCmd = &cobra.Command{
	Use:   "alerts",
	Short: "Show spending alerts",
	Long: `Show spending alerts.

When the daemon is running, alerts come from its API and read/dismiss
actions persist for the daemon's lifetime. Without a daemon the alerts
are generated locally and the action flags are unavailable.`,
	RunE: runAlerts,
}

func init() {
	alertsCmd.Flags().StringVar(&flagAlertRead, "read", "", "Mark one alert read by id (daemon only)")
	alertsCmd.Flags().BoolVar(&flagAlertReadAll, "read-all", false, "Mark every alert read (daemon only)")
	alertsCmd.Flags().StringVar(&flagAlertDismiss, "dismiss", "", "Dismiss one alert by id (daemon only)")
	rootCmd.AddCommand(alertsCmd)
}

func runAlerts(_ *cobra.Command, _ []string) error {
	base, daemonUp := daemonBaseURL()

	if flagAlertRead != "" || flagAlertReadAll || flagAlertDismiss != "" {
		if !daemonUp {
			return fmt.Errorf("alert actions need a running daemon; start one with 'subwatch daemon'")
		}
		if err := postAlertAction(base); err != nil {
			return err
		}
	}

	if daemonUp {
		if err := showDaemonAlerts(base); err == nil {
			return nil
		}
		// Daemon answered the liveness probe but not the alerts call; fall
		// through to the local path rather than failing the command.
	}
	return showLocalAlerts()
}

func postAlertAction(base string) error {
	client := &http.Client{Timeout: 3 * time.Second}

	post := func(path, id string) error {
		body, _ := json.Marshal(map[string]string{"alert_id": id})
		resp, err := client.Post(base+path, "application/json", bytes.NewReader(body)) //nolint:noctx // short local call
		if err != nil {
			return fmt.Errorf("daemon alert action: %w", err)
		}
		defer func() { _ = resp.Body.Close() }()
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("daemon alert action: HTTP %d", resp.StatusCode)
		}
		return nil
	}

	switch {
	case flagAlertReadAll:
		return post("/v1/alerts/read-all", "")
	case flagAlertRead != "":
		return post("/v1/alerts/read", flagAlertRead)
	case flagAlertDismiss != "":
		return post("/v1/alerts/dismiss", flagAlertDismiss)
	}
	return nil
}

func showDaemonAlerts(base string) error {
	client := &http.Client{Timeout: 3 * time.Second}
	resp, err := client.Get(base + "/v1/alerts") //nolint:noctx // short local call
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("daemon alerts: HTTP %d", resp.StatusCode)
	}

	var payload struct {
		Alerts      []model.Alert `json:"alerts"`
		UnreadCount int           `json:"unread_count"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return fmt.Errorf("daemon alerts: %w", err)
	}

	renderAlerts(payload.Alerts, payload.UnreadCount, true)
	return nil
}

func showLocalAlerts() error {
	subs, err := loadSubscriptions()
	if err != nil {
		return err
	}
	book := config.NewPriceBook(currentConfig())
	opts := alert.DefaultGeneratorOptions()
	opts.UpcomingDays = upcomingDays()

	alerts := alert.Generate(subs, book, opts, time.Now())
	renderAlerts(alerts, len(alerts), false)
	return nil
}

func renderAlerts(alerts []model.Alert, unread int, fromDaemon bool) {
	fmt.Println()
	fmt.Println(cli.RenderTitle("ALERTS"))
	fmt.Println()

	if len(alerts) == 0 {
		fmt.Println(cli.Muted("  Nothing needs your attention."))
		fmt.Println()
		return
	}

	for _, a := range alerts {
		meta := model.MetaFor(a.Type)
		title := a.Title
		switch {
		case a.IsRead:
			title = cli.Muted(title)
		case a.Priority == model.PriorityHigh:
			title = cli.Danger(title)
		case a.Priority == model.PriorityMedium:
			title = cli.Warn(title)
		}
		fmt.Printf("  %s %s\n", meta.Icon, title)
		fmt.Printf("    %s\n", cli.Muted(a.Message))
		if fromDaemon {
			fmt.Printf("    %s\n", cli.Muted("id: "+a.ID))
		}
		fmt.Println()
	}

	fmt.Printf("  %d alerts, %d unread\n", len(alerts), unread)
	if fromDaemon {
		fmt.Println(cli.Muted("  Manage with --read <id>, --read-all, --dismiss <id>"))
	} else {
		fmt.Println(cli.Muted("  Start the daemon to track read state across commands."))
	}
	fmt.Println()
}
