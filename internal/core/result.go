package core

// Strategy names the tier that produced a reconciliation result.
type Strategy string

const (
	// StrategyWildcard means the single cross-service wildcard mapping was
	// accepted (or already present) and no per-service work was needed.
	StrategyWildcard Strategy = "wildcard"

	// StrategyFallback means the wildcard create was rejected and the run fell
	// back to one discrete mapping per service.
	StrategyFallback Strategy = "discrete-fallback"
)

// Status is the outcome of a single create attempt.
type Status string

const (
	// StatusCreated means the remote store accepted the mapping.
	StatusCreated Status = "created"

	// StatusExists means the mapping was already present, either found by the
	// local existence check or reported by the store as a conflict. Both count
	// as satisfied desired state.
	StatusExists Status = "already-exists"

	// StatusFailed means the create was rejected for a reason other than a
	// conflict. Failures are recorded, never retried within a run.
	StatusFailed Status = "failed"

	// StatusPlanned means a dry run decided the mapping would be created.
	StatusPlanned Status = "planned"
)

// Outcome records what happened to one desired mapping.
type Outcome struct {
	Mapping IdentityMapping `json:"mapping"`
	Status  Status          `json:"status"`

	// Detail carries the diagnostic message for failed outcomes, typically the
	// remote response body.
	Detail string `json:"detail,omitempty"`
}

// ServiceOutcome is the outcome for one named service of the fallback tier.
type ServiceOutcome struct {
	Service string `json:"service"`
	Outcome
}

// ReconcileResult is the terminal state of one reconciliation run.
// It is a tagged variant: Strategy selects which fields are meaningful.
//
//	StrategyWildcard  => Wildcard holds the single outcome, Services is empty.
//	StrategyFallback  => Wildcard holds the rejected attempt, Services holds
//	                     one independent outcome per configured service.
type ReconcileResult struct {
	Strategy Strategy         `json:"strategy"`
	Wildcard Outcome          `json:"wildcard"`
	Services []ServiceOutcome `json:"services,omitempty"`
}

// Satisfied reports whether the run left every desired mapping in place.
// A fallback run with individual failures completed, but is not satisfied.
func (r *ReconcileResult) Satisfied() bool {
	if r.Strategy == StrategyWildcard {
		return r.Wildcard.Status != StatusFailed
	}
	for _, s := range r.Services {
		if s.Status == StatusFailed {
			return false
		}
	}
	return true
}

// Counts returns how many service outcomes ended in each status.
// Only meaningful for fallback results.
func (r *ReconcileResult) Counts() map[Status]int {
	counts := make(map[Status]int)
	for _, s := range r.Services {
		counts[s.Status]++
	}
	return counts
}
