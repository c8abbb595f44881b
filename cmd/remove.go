package cmd

import (
	"fmt"
	"strings"

	"github.com/subwatchdev/subwatch/internal/cli"
	"github.com/subwatchdev/subwatch/internal/model"

	"github.com/spf13/cobra"
)

var removeCmd = &cobra.Command{
	Use:     "remove <id-or-name>",
	Aliases: []string{"rm"},
	Short:   "Remove a subscription",
	Args:    cobra.ExactArgs(1),
	RunE:    runRemove,
}

func init() {
	rootCmd.AddCommand(removeCmd)
}

func runRemove(_ *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	if st == nil {
		return fmt.Errorf("remove requires a store; remove --no-store or set --db")
	}
	defer st.Close()

	target := strings.TrimSpace(args[0])

	// Exact id match first, then case-insensitive unique name match.
	if sub, err := st.GetSubscription(target); err == nil {
		return deleteSub(st, sub)
	}

	subs, err := st.LoadAll()
	if err != nil {
		return fmt.Errorf("loading subscriptions: %w", err)
	}
	var matches []model.Subscription
	for _, s := range subs {
		if strings.EqualFold(s.Name, target) {
			matches = append(matches, s)
		}
	}
	switch len(matches) {
	case 0:
		return fmt.Errorf("no subscription matching %q: %w", target, model.ErrNotFound)
	case 1:
		return deleteSub(st, matches[0])
	default:
		fmt.Printf("\n  %d subscriptions named %q; remove by id:\n", len(matches), target)
		for _, s := range matches {
			fmt.Printf("    %s  %s%s\n", cli.Muted(s.ID),
				cli.FormatExactMoney(s.Cost), cli.CycleSuffix(s.Cycle))
		}
		fmt.Println()
		return fmt.Errorf("ambiguous name %q: %w", target, model.ErrInvalidInput)
	}
}

func deleteSub(st storeDeleter, sub model.Subscription) error {
	if err := st.DeleteSubscription(sub.ID); err != nil {
		return fmt.Errorf("deleting subscription: %w", err)
	}
	fmt.Printf("\n  Removed %s (%s%s)\n\n", cli.Accent(sub.Name),
		cli.FormatExactMoney(sub.Cost), cli.CycleSuffix(sub.Cycle))
	return nil
}

type storeDeleter interface {
	DeleteSubscription(id string) error
}
