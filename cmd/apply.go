package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/darmiel/fedmap/internal/core"
	"github.com/darmiel/fedmap/internal/logging"
	"github.com/darmiel/fedmap/internal/reconcile"
	"github.com/darmiel/fedmap/internal/report"
)

var applyDryRun bool

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Reconcile the remote identity-mapping set with the desired state",
	Long: `Runs a full reconciliation: snapshot the integration's current mappings,
attempt the single cross-service wildcard mapping, fall back to one discrete
mapping per service if the wildcard is rejected, then snapshot again so the
before/after state can be compared.

Mappings are only ever created, never updated or deleted. A mapping that
already exists (locally visible or reported by the store as a conflict)
counts as satisfied.`,
	Example: `  fedmap apply -c fedmap.yaml
  fedmap apply --dry-run`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := f.LoadConfig()
		if err != nil {
			return fmt.Errorf("configuration: %w", err)
		}
		store, err := f.GetStore(cfg)
		if err != nil {
			return fmt.Errorf("configuration: %w", err)
		}
		auditor, err := f.GetAuditor(cfg)
		if err != nil {
			return fmt.Errorf("configuration: %w", err)
		}
		defer func() {
			_ = auditor.Close()
		}()

		ctx, runID := logging.WithRunID(cmd.Context())
		logger := log.Ctx(ctx)
		logger.Info().Str("integration", cfg.Integration.Name).Bool("dry_run", applyDryRun).
			Msgf("reconciling against %s", bold(cfg.BaseURL))

		presenter := report.NewPresenter(store)

		before := presenter.Snapshot(ctx, cfg.Integration.Name)
		fmt.Printf("\n%s\n", bold("── Mappings Before ──"))
		presenter.Render(os.Stdout, before)

		reconciler := reconcile.New(store,
			reconcile.WithAuditor(auditor),
			reconcile.WithDryRun(applyDryRun),
		)
		result := reconciler.Reconcile(ctx, reconcile.Request{
			Integration:   cfg.Integration.Name,
			Organization:  cfg.Organization,
			ServicePrefix: cfg.ServicePrefix,
			Scope:         cfg.GrantScope,
			Services:      cfg.Services,
		})

		after := presenter.Snapshot(ctx, cfg.Integration.Name)
		fmt.Printf("\n%s\n", bold("── Mappings After ──"))
		presenter.RenderDiff(os.Stdout, before, after)

		printSummary(result, runID)
		return nil
	},
}

func printSummary(result *core.ReconcileResult, runID string) {
	if result.Strategy == core.StrategyWildcard {
		logSuccess("wildcard strategy satisfied (%s, run %s)",
			result.Wildcard.Status, faint(runID))
		return
	}

	counts := result.Counts()
	if result.Satisfied() {
		logSuccess("discrete fallback completed: %d created, %d already existed, %d planned (run %s)",
			counts[core.StatusCreated], counts[core.StatusExists], counts[core.StatusPlanned], faint(runID))
		return
	}

	log.Warn().Msgf("%s discrete fallback completed with failures: %d created, %d already existed, %d failed (run %s)",
		yellowWarn, counts[core.StatusCreated], counts[core.StatusExists], counts[core.StatusFailed], faint(runID))
	log.Warn().Msg("re-run 'fedmap apply' to retry the failed mappings")
}

func init() {
	rootCmd.AddCommand(applyCmd)

	applyCmd.Flags().BoolVar(&applyDryRun, "dry-run", false,
		"Walk the full decision path but record planned creates instead of writing")
}
