package access

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/darmiel/fedmap/internal/core"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := New(srv.URL, "admin-token")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return c
}

func TestNew_Validation(t *testing.T) {
	if _, err := New("", "token"); err == nil {
		t.Error("New() accepted empty base URL")
	}
	if _, err := New("https://platform.example.io", ""); err == nil {
		t.Error("New() accepted empty token")
	}
	c, err := New("https://platform.example.io///", "token")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if got := c.mappingsURL("acme-github"); got != "https://platform.example.io/access/api/v1/oidc/acme-github/identity_mappings" {
		t.Errorf("mappingsURL() = %q", got)
	}
}

func TestClient_ListMappings(t *testing.T) {
	var gotAuth, gotAgent string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotAgent = r.Header.Get("User-Agent")

		if r.Method != "GET" {
			t.Errorf("method = %q, want GET", r.Method)
		}
		if r.URL.Path != "/access/api/v1/oidc/acme-github/identity_mappings" {
			t.Errorf("path = %q", r.URL.Path)
		}

		_, _ = w.Write([]byte(`[
			{"name": "platform-access-inventory", "priority": 5,
			 "claims": {"repository": "acme/acme-inventory"},
			 "token_spec": {"scope": "roles:proj:cicd"}},
			{"name": "platform-cross-service-access", "priority": 10,
			 "claims": {"repository": "acme/acme-*"},
			 "token_spec": {"scope": "roles:proj:cicd"}}
		]`))
	})

	got, err := client.ListMappings(context.Background(), "acme-github")
	if err != nil {
		t.Fatalf("ListMappings() error = %v", err)
	}

	want := []core.IdentityMapping{
		{Name: "platform-access-inventory", Priority: 5, Repository: "acme/acme-inventory", Scope: "roles:proj:cicd"},
		{Name: "platform-cross-service-access", Priority: 10, Repository: "acme/acme-*", Scope: "roles:proj:cicd"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ListMappings() mismatch (-want +got):\n%s", diff)
	}

	if gotAuth != "Bearer admin-token" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if !strings.HasPrefix(gotAgent, "fedmap/") {
		t.Errorf("User-Agent = %q, want fedmap/... prefix", gotAgent)
	}
}

func TestClient_ListMappings_ReadFailure(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": "insufficient permissions"}`, http.StatusForbidden)
	})

	_, err := client.ListMappings(context.Background(), "acme-github")

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("ListMappings() error = %v, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusForbidden {
		t.Errorf("StatusCode = %d, want 403", apiErr.StatusCode)
	}
	if !strings.Contains(apiErr.Body, "insufficient permissions") {
		t.Errorf("Body = %q, missing diagnostic message", apiErr.Body)
	}
}

func TestClient_CreateMapping(t *testing.T) {
	mapping := core.IdentityMapping{
		Name:        "platform-access-checkout",
		Description: "CI access for the checkout service",
		Priority:    5,
		Repository:  "acme/acme-checkout",
		Scope:       "roles:proj:cicd",
	}

	tests := []struct {
		name       string
		status     int
		body       string
		wantErr    error
		wantAPIErr bool
	}{
		{name: "Created", status: http.StatusCreated},
		{name: "OK Counts As Created", status: http.StatusOK},
		{name: "Conflict Is Not An Error", status: http.StatusConflict, wantErr: core.ErrMappingExists},
		{name: "Forbidden Surfaces Body", status: http.StatusForbidden, body: "admin scope required", wantAPIErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				if r.Method != "POST" {
					t.Errorf("method = %q, want POST", r.Method)
				}

				var record identityMappingRecord
				if err := json.NewDecoder(r.Body).Decode(&record); err != nil {
					t.Fatalf("decoding request body: %v", err)
				}
				if record.Claims.Repository != mapping.Repository {
					t.Errorf("claims.repository = %q, want %q", record.Claims.Repository, mapping.Repository)
				}
				if record.TokenSpec.Scope != mapping.Scope {
					t.Errorf("token_spec.scope = %q, want %q", record.TokenSpec.Scope, mapping.Scope)
				}

				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			err := client.CreateMapping(context.Background(), "acme-github", mapping)

			if tt.wantAPIErr {
				var apiErr *APIError
				if !errors.As(err, &apiErr) {
					t.Fatalf("CreateMapping() error = %v, want *APIError", err)
				}
				if apiErr.StatusCode != tt.status || apiErr.Body != tt.body {
					t.Errorf("APIError = %+v, want status %d with body %q", apiErr, tt.status, tt.body)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("CreateMapping() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
