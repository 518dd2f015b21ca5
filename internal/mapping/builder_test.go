package mapping

import "testing"

func TestWildcard(t *testing.T) {
	m := Wildcard("acme", "acme", "roles:proj:cicd")

	if m.Name != "platform-cross-service-access" {
		t.Errorf("Name = %q", m.Name)
	}
	if m.Priority != 10 {
		t.Errorf("Priority = %d, want 10", m.Priority)
	}
	if m.Repository != "acme/acme-*" {
		t.Errorf("Repository = %q, want acme/acme-*", m.Repository)
	}
	if m.Scope != "roles:proj:cicd" {
		t.Errorf("Scope = %q", m.Scope)
	}
}

func TestDiscrete(t *testing.T) {
	services := []string{"inventory", "recommendations", "checkout", "web"}

	for _, svc := range services {
		t.Run(svc, func(t *testing.T) {
			m := Discrete("acme", "acme", "roles:proj:cicd", svc)

			if want := "platform-access-" + svc; m.Name != want {
				t.Errorf("Name = %q, want %q", m.Name, want)
			}
			if m.Priority != 5 {
				t.Errorf("Priority = %d, want 5", m.Priority)
			}
			if want := "acme/acme-" + svc; m.Repository != want {
				t.Errorf("Repository = %q, want %q", m.Repository, want)
			}
		})
	}
}

// Discrete mappings must be evaluated before the wildcard when both exist.
func TestDiscreteEvaluatedBeforeWildcard(t *testing.T) {
	wildcard := Wildcard("acme", "svc", "roles:proj:cicd")
	discrete := Discrete("acme", "svc", "roles:proj:cicd", "web")

	if discrete.Priority >= wildcard.Priority {
		t.Errorf("discrete priority %d must be lower (evaluated first) than wildcard %d",
			discrete.Priority, wildcard.Priority)
	}
}
