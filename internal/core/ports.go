package core

import "context"

// MappingStore is the remote source of truth for identity mappings.
// Implementations: Access API client, in-memory store for tests.
type MappingStore interface {
	// ListMappings returns the integration's current mappings in store order.
	// A failed read returns an error; callers decide whether that is fatal
	// (for this tool it never is).
	ListMappings(ctx context.Context, integration string) ([]IdentityMapping, error)

	// CreateMapping adds a mapping to the integration. A conflict on the
	// mapping name is reported as ErrMappingExists; the store performs no
	// retries and no partial writes.
	CreateMapping(ctx context.Context, integration string, mapping IdentityMapping) error
}
