// Package reconcile drives the remote mapping set towards the desired state.
//
// Two strategies are attempted in strict order: a single wildcard mapping
// covering every service repository, and, only if the store rejects the
// wildcard, one discrete mapping per service. Creation is idempotent: a local
// existence check avoids redundant writes, and a conflict from the store is
// treated as already-satisfied, never as failure.
package reconcile

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/darmiel/fedmap/internal/core"
	"github.com/darmiel/fedmap/internal/logging"
	"github.com/darmiel/fedmap/internal/mapping"
)

// Request is the desired state of one reconciliation run.
type Request struct {
	// Integration names the OIDC trust provider whose mapping set is managed.
	Integration string

	// Organization roots the repository claims, e.g. "acme".
	Organization string

	// ServicePrefix is the shared repository name prefix of the services.
	ServicePrefix string

	// Scope granted by every mapping.
	Scope string

	// Services is the fixed, ordered target list of the discrete fallback.
	Services []string
}

type Reconciler struct {
	store   core.MappingStore
	auditor core.Auditor
	dryRun  bool
}

type Option func(*Reconciler)

// WithAuditor records an audit entry per run. Default: no auditing.
func WithAuditor(auditor core.Auditor) Option {
	return func(r *Reconciler) {
		r.auditor = auditor
	}
}

// WithDryRun walks the full decision path but records planned creates
// instead of writing.
func WithDryRun(dryRun bool) Option {
	return func(r *Reconciler) {
		r.dryRun = dryRun
	}
}

func New(store core.MappingStore, opts ...Option) *Reconciler {
	r := &Reconciler{
		store:   store,
		auditor: nil,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Reconcile runs both tiers and returns the terminal state. It never fails as
// a whole: every error past configuration is folded into the result, and a
// human re-runs to retry recorded failures.
func (r *Reconciler) Reconcile(ctx context.Context, req Request) *core.ReconcileResult {
	logger := log.Ctx(ctx)

	result := &core.ReconcileResult{Strategy: core.StrategyWildcard}
	if r.auditor != nil {
		entry := core.AuditEntry{
			ID:          logging.RunID(ctx),
			Time:        time.Now(),
			Integration: req.Integration,
			DryRun:      r.dryRun,
		}
		defer func() {
			entry.Result = result
			if err := r.auditor.Log(entry); err != nil {
				logger.Error().Err(err).Msg("failed to write audit log entry")
			}
		}()
	}

	// tier 1: one wildcard mapping for all service repositories
	wildcard := mapping.Wildcard(req.Organization, req.ServicePrefix, req.Scope)
	result.Wildcard = r.apply(ctx, req.Integration, wildcard)

	switch result.Wildcard.Status {
	case core.StatusCreated, core.StatusPlanned:
		logger.Info().Str("mapping", wildcard.Name).Str("claim", wildcard.Repository).
			Msg("wildcard mapping accepted")
		return result
	case core.StatusExists:
		logger.Info().Str("mapping", wildcard.Name).Msg("wildcard mapping already satisfied")
		return result
	}

	logger.Warn().Str("mapping", wildcard.Name).Str("detail", result.Wildcard.Detail).
		Msg("wildcard mapping rejected, falling back to discrete per-service mappings")

	// tier 2: one discrete mapping per service, in fixed order, each outcome
	// independent of the others
	result.Strategy = core.StrategyFallback
	result.Services = make([]core.ServiceOutcome, 0, len(req.Services))

	for _, service := range req.Services {
		discrete := mapping.Discrete(req.Organization, req.ServicePrefix, req.Scope, service)
		outcome := r.apply(ctx, req.Integration, discrete)

		switch outcome.Status {
		case core.StatusFailed:
			logger.Warn().Str("service", service).Str("mapping", discrete.Name).
				Str("detail", outcome.Detail).Msg("discrete mapping failed")
		default:
			logger.Info().Str("service", service).Str("mapping", discrete.Name).
				Str("status", string(outcome.Status)).Msg("discrete mapping reconciled")
		}

		result.Services = append(result.Services, core.ServiceOutcome{
			Service: service,
			Outcome: outcome,
		})
	}

	return result
}

// apply reconciles one desired mapping: check, then create. The check is
// best-effort and racy against concurrent operators; the store's conflict
// response is the correctness backstop.
func (r *Reconciler) apply(ctx context.Context, integration string, m core.IdentityMapping) core.Outcome {
	if r.exists(ctx, integration, m.Name) {
		return core.Outcome{Mapping: m, Status: core.StatusExists}
	}
	if r.dryRun {
		return core.Outcome{Mapping: m, Status: core.StatusPlanned}
	}

	err := r.store.CreateMapping(ctx, integration, m)
	switch {
	case err == nil:
		return core.Outcome{Mapping: m, Status: core.StatusCreated}
	case errors.Is(err, core.ErrMappingExists):
		return core.Outcome{Mapping: m, Status: core.StatusExists}
	default:
		return core.Outcome{Mapping: m, Status: core.StatusFailed, Detail: err.Error()}
	}
}

// exists re-reads the remote mapping set and matches on name. A failed read
// means "unknown", which deliberately lets the create attempt proceed.
func (r *Reconciler) exists(ctx context.Context, integration, name string) bool {
	mappings, err := r.store.ListMappings(ctx, integration)
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("mapping", name).
			Msg("listing mappings failed, assuming mapping absent")
		return false
	}
	for _, m := range mappings {
		if m.Name == name {
			return true
		}
	}
	return false
}
