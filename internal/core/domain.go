package core

import "fmt"

// ErrMappingExists is returned by a MappingStore when the remote store rejected
// a create because a mapping with the same name is already present (HTTP 409).
// Callers treat this as "already satisfied", never as a failure.
var ErrMappingExists = fmt.Errorf("identity mapping already exists")

// IdentityMapping binds an inbound federation claim to a granted token scope.
// It is the one record class this tool manages. Mappings are only ever created
// (idempotently) or left alone; update and delete are out of scope.
type IdentityMapping struct {
	// Name is the unique key of the mapping within one integration.
	// Uniqueness is enforced by the remote store, not by us.
	Name string `json:"name"`

	// Description is a free-text annotation. Non-semantic.
	Description string `json:"description,omitempty"`

	// Priority orders evaluation on the remote side when multiple mappings
	// could match a request. Lower values are evaluated first. We only record
	// and forward this value, we never evaluate it.
	Priority int `json:"priority"`

	// Repository is the claim pattern an inbound federation token must carry,
	// either an exact "<org>/<repo>" identifier or a suffix-wildcard pattern
	// like "<org>/<prefix>-*".
	Repository string `json:"repository"`

	// Scope is the token-scope expression granted when the claim matches,
	// e.g. "roles:myproject:cicd".
	Scope string `json:"scope"`
}

func (m IdentityMapping) String() string {
	return fmt.Sprintf("%s (priority=%d, %s -> %s)", m.Name, m.Priority, m.Repository, m.Scope)
}
