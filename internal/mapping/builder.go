// Package mapping builds the desired-state identity mapping records.
package mapping

import (
	"fmt"

	"github.com/darmiel/fedmap/internal/core"
)

const (
	// WildcardName is the fixed name of the single cross-service mapping.
	WildcardName = "platform-cross-service-access"

	// DiscreteNamePrefix prefixes the per-service mapping names.
	DiscreteNamePrefix = "platform-access-"
)

// Priorities are deliberate: if a wildcard and discrete mappings ever coexist,
// the remote provider evaluates lower values first, so the discrete mappings
// take precedence over the wildcard.
const (
	WildcardPriority = 10
	DiscretePriority = 5
)

// Wildcard covers every service repository under one suffix-wildcard claim.
func Wildcard(org, servicePrefix, scope string) core.IdentityMapping {
	return core.IdentityMapping{
		Name:        WildcardName,
		Description: fmt.Sprintf("CI access for all %s/%s-* service repositories", org, servicePrefix),
		Priority:    WildcardPriority,
		Repository:  fmt.Sprintf("%s/%s-*", org, servicePrefix),
		Scope:       scope,
	}
}

// Discrete covers exactly one named service repository.
func Discrete(org, servicePrefix, scope, service string) core.IdentityMapping {
	return core.IdentityMapping{
		Name:        DiscreteNamePrefix + service,
		Description: fmt.Sprintf("CI access for the %s service (%s/%s-%s)", service, org, servicePrefix, service),
		Priority:    DiscretePriority,
		Repository:  fmt.Sprintf("%s/%s-%s", org, servicePrefix, service),
		Scope:       scope,
	}
}
