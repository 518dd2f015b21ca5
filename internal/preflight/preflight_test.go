package preflight

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/darmiel/fedmap/internal/config"
)

func mintToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("test-signing-key"))
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}
	return signed
}

func TestCheckCredential(t *testing.T) {
	tests := []struct {
		name       string
		token      func(t *testing.T) string
		wantStatus Status
	}{
		{
			name: "Valid With Long Expiry",
			token: func(t *testing.T) string {
				return mintToken(t, jwt.MapClaims{
					"sub": "admin@platform",
					"exp": time.Now().Add(90 * 24 * time.Hour).Unix(),
				})
			},
			wantStatus: StatusOK,
		},
		{
			name: "Expiring Soon",
			token: func(t *testing.T) string {
				return mintToken(t, jwt.MapClaims{
					"sub": "admin@platform",
					"exp": time.Now().Add(time.Hour).Unix(),
				})
			},
			wantStatus: StatusWarn,
		},
		{
			name: "Expired",
			token: func(t *testing.T) string {
				return mintToken(t, jwt.MapClaims{
					"sub": "admin@platform",
					"exp": time.Now().Add(-time.Hour).Unix(),
				})
			},
			wantStatus: StatusFail,
		},
		{
			name: "No Expiry Claim",
			token: func(t *testing.T) string {
				return mintToken(t, jwt.MapClaims{"sub": "admin@platform"})
			},
			wantStatus: StatusOK,
		},
		{
			name:       "Opaque Token",
			token:      func(t *testing.T) string { return "cmVmdGtuOjAxOjE3..." },
			wantStatus: StatusWarn,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRunner(&config.Config{}, tt.token(t))

			got := r.CheckCredential()
			if got.Status != tt.wantStatus {
				t.Errorf("CheckCredential() = %+v, want status %q", got, tt.wantStatus)
			}
		})
	}
}

// Discovery only knows github issuers; other integration types must be
// skipped with a warning instead of probing GitHub defaults.
func TestCheckIssuer_SkipsUnknownIntegrationType(t *testing.T) {
	cfg := &config.Config{
		Integration: config.IntegrationConfig{Name: "acme-gitlab", Type: "gitlab"},
	}

	got := NewRunner(cfg, "token").CheckIssuer(context.Background())

	if got.Status != StatusWarn {
		t.Errorf("CheckIssuer() status = %q, want warn", got.Status)
	}
	if !strings.Contains(got.Detail, "gitlab") {
		t.Errorf("Detail = %q, want skipped type named", got.Detail)
	}
}

func TestCheckCredential_SubjectInDetail(t *testing.T) {
	token := mintToken(t, jwt.MapClaims{
		"sub": "jffe@01/users/admin",
		"exp": time.Now().Add(90 * 24 * time.Hour).Unix(),
	})

	got := NewRunner(&config.Config{}, token).CheckCredential()
	if got.Status != StatusOK {
		t.Fatalf("CheckCredential() status = %q", got.Status)
	}
	if want := "jffe@01/users/admin"; !strings.Contains(got.Detail, want) {
		t.Errorf("Detail = %q, want subject %q included", got.Detail, want)
	}
}
