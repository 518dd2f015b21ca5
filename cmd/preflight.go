package cmd

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/darmiel/fedmap/internal/logging"
	"github.com/darmiel/fedmap/internal/preflight"
)

var preflightCmd = &cobra.Command{
	Use:   "preflight",
	Short: "Run non-destructive environment checks",
	Long: `Checks the environment a reconciliation would run in: inspects the admin
credential (subject, expiry), performs OIDC discovery against the
integration's issuer, and verifies each target repository exists on the
source-control host (set GITHUB_TOKEN for private repositories).

Nothing is written; failed checks exit non-zero so the command can gate CI.`,
	Example: `  fedmap preflight -c fedmap.yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := f.LoadConfig()
		if err != nil {
			return fmt.Errorf("configuration: %w", err)
		}
		token, err := f.ResolveToken(cfg)
		if err != nil {
			return fmt.Errorf("configuration: %w", err)
		}

		ctx, _ := logging.WithRunID(cmd.Context())
		results := preflight.NewRunner(cfg, token).Run(ctx)

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"", "Check", "Detail"})

		failed := false
		for _, res := range results {
			icon := greenCheck
			switch res.Status {
			case preflight.StatusWarn:
				icon = yellowWarn
			case preflight.StatusFail:
				icon = redCross
				failed = true
			}
			t.AppendRow(table.Row{icon, res.Check, truncate(res.Detail, 80)})
		}

		s := table.StyleRounded
		s.Format.Header = text.FormatDefault
		t.SetStyle(s)
		t.Render()

		if failed {
			return logError(fmt.Errorf("one or more checks failed"), "preflight failed")
		}
		logSuccess("preflight passed")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(preflightCmd)
}
