package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"

	"github.com/darmiel/fedmap/internal/logging"
	"github.com/darmiel/fedmap/internal/report"
)

var snapshotOutput string

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Show the integration's current identity mappings",
	Long: `Reads and renders the remote mapping set without changing anything.
Useful before and after an apply to diff the two states, or with -o json/yaml
for scripting.`,
	Example: `  fedmap snapshot
  fedmap snapshot -o json | jq '.[].name'`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := f.LoadConfig()
		if err != nil {
			return fmt.Errorf("configuration: %w", err)
		}
		store, err := f.GetStore(cfg)
		if err != nil {
			return fmt.Errorf("configuration: %w", err)
		}

		ctx, _ := logging.WithRunID(cmd.Context())
		presenter := report.NewPresenter(store)
		mappings := presenter.Snapshot(ctx, cfg.Integration.Name)

		switch snapshotOutput {
		case "json":
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(mappings)
		case "yaml":
			data, err := yaml.Marshal(mappings)
			if err != nil {
				return fmt.Errorf("marshalling snapshot: %w", err)
			}
			fmt.Print(string(data))
			return nil
		default:
			presenter.Render(os.Stdout, mappings)
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(snapshotCmd)

	snapshotCmd.Flags().StringVarP(&snapshotOutput, "output", "o", "table",
		"Output format (table, json, yaml)")
}
