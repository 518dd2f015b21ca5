package logging

import (
	"context"

	"github.com/rs/xid"
	"github.com/rs/zerolog/log"
)

type runIDKey struct{}

// WithRunID attaches a fresh run ID to the context and its logger.
// Every log line of one reconciliation run carries the same run_id, and the
// same ID ends up in the audit trail and the outbound User-Agent.
func WithRunID(ctx context.Context) (context.Context, string) {
	id := xid.New().String()
	logger := log.With().Str("run_id", id).Logger()
	ctx = logger.WithContext(ctx)
	return context.WithValue(ctx, runIDKey{}, id), id
}

// RunID retrieves the run ID from the context. Empty for contexts that never
// passed through WithRunID.
func RunID(ctx context.Context) string {
	id, ok := ctx.Value(runIDKey{}).(string)
	if !ok {
		return ""
	}
	return id
}
