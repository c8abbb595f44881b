package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/subwatchdev/subwatch/internal/cli"
	"github.com/subwatchdev/subwatch/internal/source"

	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import <file.json|file.jsonl>",
	Short: "Import subscriptions from an export file",
	Args:  cobra.ExactArgs(1),
	RunE:  runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)
}

func runImport(_ *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	if st == nil {
		return fmt.Errorf("import requires a store; remove --no-store or set --db")
	}
	defer st.Close()

	path := args[0]
	format := source.FormatJSON
	if strings.HasSuffix(strings.ToLower(path), ".jsonl") {
		format = source.FormatJSONL
	}
	df := source.DiscoveredFile{
		Path:   path,
		Label:  strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
		Format: format,
	}

	res := source.ParseFile(df)
	if res.Err != nil {
		return fmt.Errorf("parsing %s: %w", path, res.Err)
	}

	for _, sub := range res.Records {
		if err := st.UpsertSubscription(sub); err != nil {
			return fmt.Errorf("importing %s: %w", sub.Name, err)
		}
	}

	fmt.Printf("\n  Imported %d subscriptions from %s\n", len(res.Records), cli.Accent(df.Label))
	if res.ParseErrors > 0 {
		fmt.Println(cli.Warn(fmt.Sprintf("  Skipped %d malformed records", res.ParseErrors)))
	}
	fmt.Println()
	return nil
}
