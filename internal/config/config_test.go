package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/goccy/go-yaml"
)

func TestConfig_Finalize_Defaults(t *testing.T) {
	input := `
base_url: https://platform.example.io/
project_key: proj
organization: acme
services: [inventory, recommendations, checkout, web]
integration:
  name: acme-github
`
	var cfg Config
	if err := yaml.Unmarshal([]byte(input), &cfg); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if err := cfg.Finalize(); err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}

	if cfg.BaseURL != "https://platform.example.io" {
		t.Errorf("BaseURL = %q, want trailing slash trimmed", cfg.BaseURL)
	}
	if cfg.ServicePrefix != "proj" {
		t.Errorf("ServicePrefix = %q, want project key fallback", cfg.ServicePrefix)
	}
	if cfg.GrantScope != "roles:proj:cicd" {
		t.Errorf("GrantScope = %q, want derived role scope", cfg.GrantScope)
	}
	if cfg.Integration.Type != "github" {
		t.Errorf("Integration.Type = %q, want github default", cfg.Integration.Type)
	}
}

func TestConfig_Finalize_Required(t *testing.T) {
	base := func() Config {
		return Config{
			BaseURL:      "https://platform.example.io",
			ProjectKey:   "proj",
			Organization: "acme",
			Services:     []string{"inventory"},
			Integration:  IntegrationConfig{Name: "acme-github"},
		}
	}

	tests := []struct {
		name      string
		mutate    func(*Config)
		wantField string
	}{
		{
			name:      "Missing Base URL",
			mutate:    func(c *Config) { c.BaseURL = "" },
			wantField: "base_url",
		},
		{
			name:      "Missing Project Key",
			mutate:    func(c *Config) { c.ProjectKey = "" },
			wantField: "project_key",
		},
		{
			name:      "Missing Organization",
			mutate:    func(c *Config) { c.Organization = "" },
			wantField: "organization",
		},
		{
			name:      "Missing Integration Name",
			mutate:    func(c *Config) { c.Integration.Name = "" },
			wantField: "integration.name",
		},
		{
			name:      "Empty Service List",
			mutate:    func(c *Config) { c.Services = nil },
			wantField: "services",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(&cfg)

			err := cfg.Finalize()
			if err == nil {
				t.Fatal("Finalize() expected error, got nil")
			}

			var missing MissingFieldError
			if !errors.As(err, &missing) {
				t.Fatalf("Finalize() error = %v, want MissingFieldError", err)
			}
			if missing.Field != tt.wantField {
				t.Errorf("missing field = %q, want %q", missing.Field, tt.wantField)
			}
		})
	}
}

func TestConfig_Finalize_RejectsBadURL(t *testing.T) {
	cfg := Config{
		BaseURL:      "platform.example.io",
		ProjectKey:   "proj",
		Organization: "acme",
		Services:     []string{"inventory"},
		Integration:  IntegrationConfig{Name: "acme-github"},
	}
	if err := cfg.Finalize(); err == nil {
		t.Error("Finalize() accepted a base_url without scheme")
	}
}

func TestIntegrationConfig_GitHubSettings(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  GitHubSettings
	}{
		{
			name: "Inline Settings",
			input: `
name: acme-github
type: github
issuer_url: https://oidc.example.io
audience: platform
`,
			want: GitHubSettings{IssuerURL: "https://oidc.example.io", Audience: "platform"},
		},
		{
			name: "Defaults",
			input: `
name: acme-github
`,
			want: GitHubSettings{IssuerURL: DefaultGitHubIssuerURL},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ic IntegrationConfig
			if err := yaml.Unmarshal([]byte(tt.input), &ic); err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}

			got, err := ic.GitHubSettings()
			if err != nil {
				t.Fatalf("GitHubSettings() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("GitHubSettings() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fedmap.yaml")
	content := `
base_url: https://platform.example.io
project_key: proj
organization: acme
services:
  - inventory
  - checkout
integration:
  name: acme-github
  type: github
audit:
  enabled: true
  path: runs.jsonl
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Organization != "acme" {
		t.Errorf("Organization = %q, want acme", cfg.Organization)
	}
	if !cfg.Audit.Enabled || cfg.Audit.Path != "runs.jsonl" {
		t.Errorf("Audit = %+v, want enabled with custom path", cfg.Audit)
	}
	if got := len(cfg.Services); got != 2 {
		t.Errorf("len(Services) = %d, want 2", got)
	}
}
