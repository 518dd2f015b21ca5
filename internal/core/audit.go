package core

import "time"

type AuditEntry struct {
	// ID is the unique run ID, also carried in the outbound User-Agent.
	ID string `json:"id"`

	// Time is the timestamp of the run
	Time time.Time `json:"time"`

	// Integration the run reconciled against
	Integration string `json:"integration"`

	// DryRun marks runs that decided but never wrote
	DryRun bool `json:"dry_run,omitempty"`

	// Result is the terminal state of the run. Configuration errors abort
	// before any entry is written, so Result is always set.
	Result *ReconcileResult `json:"result,omitempty"`
}

type Auditor interface {
	Log(entry AuditEntry) error
	Close() error
}
