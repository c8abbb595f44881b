package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/subwatchdev/subwatch/internal/advisor"
	"github.com/subwatchdev/subwatch/internal/cli"
	"github.com/subwatchdev/subwatch/internal/config"
	"github.com/subwatchdev/subwatch/internal/feed"
	"github.com/subwatchdev/subwatch/internal/pipeline"

	"github.com/spf13/cobra"
)

var flagInsightsAI bool

var insightsCmd = &cobra.Command{
	Use:   "insights",
	Short: "Spending insights and tips",
	RunE:  runInsights,
}

func init() {
	insightsCmd.Flags().BoolVar(&flagInsightsAI, "ai", false, "Include AI advisor suggestions (needs an API key)")
	rootCmd.AddCommand(insightsCmd)
}

func runInsights(_ *cobra.Command, _ []string) error {
	subs, err := loadSubscriptions()
	if err != nil {
		return err
	}

	now := time.Now()
	cfg := currentConfig()
	summary := pipeline.Summarize(subs)
	proj := pipeline.Project(subs, now.Year(), now.Month())
	budget := pipeline.ComputeBudget(proj, now, monthlyBudget())
	savings := pipeline.DetectSavings(subs, config.NewPriceBook(cfg), pipeline.DefaultSavingsOptions())
	items := pipeline.BuildInsights(subs, summary, budget, savings)

	fmt.Println()
	fmt.Println(cli.RenderTitle("INSIGHTS"))
	fmt.Println()

	if len(items) == 0 {
		fmt.Println(cli.Muted("  No insights yet. Add subscriptions first."))
	}
	printInsightItems(items)

	if flagInsightsAI {
		adv := advisor.New(cfg)
		if adv == nil || !adv.Enabled() {
			fmt.Println(cli.Warn("  AI advisor disabled. Set an API key with 'subwatch setup'."))
			fmt.Println()
			return nil
		}
		defer adv.Close()

		fmt.Fprint(os.Stderr, "  Asking the advisor...\r")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		lines, err := adv.Advise(ctx, advisor.BuildDigest(summary, budget, savings))
		fmt.Fprint(os.Stderr, "\033[2K\r")
		if err != nil {
			fmt.Println(cli.Warn(fmt.Sprintf("  Advisor unavailable: %v", err)))
			fmt.Println()
			return nil
		}

		fmt.Println()
		fmt.Println(cli.Header("  ADVISOR"))
		printInsightItems(feed.FromStrings(lines))
	}

	fmt.Println()
	return nil
}

func printInsightItems(items []feed.Item) {
	for _, item := range items {
		var icon string
		switch item.Kind {
		case feed.KindWarning:
			icon = cli.Warn("!")
		case feed.KindTip:
			icon = cli.Accent("*")
		case feed.KindSuccess:
			icon = cli.Money("+")
		default:
			icon = cli.Muted("-")
		}
		fmt.Printf("  %s %s\n", icon, item.Message)
	}
}
