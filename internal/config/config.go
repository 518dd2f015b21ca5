package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/mitchellh/mapstructure"
)

// DefaultGrantRole is the role the granted scope refers to when no explicit
// grant_scope is configured. The platform convention is one CI role per project.
const DefaultGrantRole = "cicd"

// MissingFieldError marks a required configuration value that was neither in
// the config file nor provided via flags or FEDMAP_* environment variables.
type MissingFieldError struct {
	Field string
}

func (e MissingFieldError) Error() string {
	return fmt.Sprintf("required configuration value '%s' is missing", e.Field)
}

type Config struct {
	// BaseURL is the platform root, e.g. "https://platform.example.io".
	// The access API path is appended by the client.
	BaseURL string `yaml:"base_url"`

	// ProjectKey scopes the granted role.
	ProjectKey string `yaml:"project_key"`

	// Organization is the source-control organization the repository claims
	// are rooted in.
	Organization string `yaml:"organization"`

	// ServicePrefix is the shared repository name prefix of the platform's
	// services. Defaults to ProjectKey.
	ServicePrefix string `yaml:"service_prefix"`

	// Services is the fixed, ordered list of service names targeted by the
	// discrete fallback strategy.
	Services []string `yaml:"services"`

	// GrantScope is the token-scope expression granted by every mapping.
	// Defaults to "roles:<project_key>:cicd".
	GrantScope string `yaml:"grant_scope"`

	Integration IntegrationConfig `yaml:"integration"`

	Audit AuditConfig `yaml:"audit"`
}

// IntegrationConfig names the OIDC trust provider configured on the platform.
// Provider-specific settings are captured inline and decoded on demand.
type IntegrationConfig struct {
	Name   string         `yaml:"name"`
	Type   string         `yaml:"type"`    // e.g., "github"
	Config map[string]any `yaml:",inline"` // Capture remaining fields
}

// GitHubSettings are the optional inline settings of a "github" integration.
type GitHubSettings struct {
	// IssuerURL is the OIDC issuer the integration trusts.
	IssuerURL string `mapstructure:"issuer_url"`

	// Audience expected in inbound tokens, if the platform pins one.
	Audience string `mapstructure:"audience"`
}

// DefaultGitHubIssuerURL is where GitHub Actions workflow tokens come from.
const DefaultGitHubIssuerURL = "https://token.actions.githubusercontent.com"

// GitHubSettings decodes the integration's inline settings.
// Missing values fall back to the GitHub Actions defaults.
func (i IntegrationConfig) GitHubSettings() (GitHubSettings, error) {
	var settings GitHubSettings

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Metadata: nil,
		Result:   &settings,
	})
	if err != nil {
		return settings, fmt.Errorf("creating decoder for integration '%s': %w", i.Name, err)
	}
	if err := decoder.Decode(i.Config); err != nil {
		return settings, fmt.Errorf("decoding settings for integration '%s': %w", i.Name, err)
	}

	if settings.IssuerURL == "" {
		settings.IssuerURL = DefaultGitHubIssuerURL
	}
	return settings, nil
}

// AuditConfig holds configuration for the run audit trail.
type AuditConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// Load reads and parses the configuration file at the given path.
// It does NOT finalize: required values may still arrive via environment or
// flags, so defaulting and validation happen in Finalize.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	return &cfg, nil
}

// Finalize applies defaults and validates the fully resolved configuration.
// A returned error means nothing has been attempted against the remote store.
func (c *Config) Finalize() error {
	c.BaseURL = strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if c.ServicePrefix == "" {
		c.ServicePrefix = c.ProjectKey
	}
	if c.GrantScope == "" && c.ProjectKey != "" {
		c.GrantScope = fmt.Sprintf("roles:%s:%s", c.ProjectKey, DefaultGrantRole)
	}
	if c.Integration.Type == "" {
		c.Integration.Type = "github"
	}
	if c.Audit.Path == "" {
		c.Audit.Path = "fedmap-audit.jsonl"
	}

	if c.BaseURL == "" {
		return MissingFieldError{Field: "base_url"}
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("parsing base_url '%s': %w", c.BaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("base_url '%s' must be an http(s) URL", c.BaseURL)
	}

	if c.ProjectKey == "" {
		return MissingFieldError{Field: "project_key"}
	}
	if c.Organization == "" {
		return MissingFieldError{Field: "organization"}
	}
	if c.Integration.Name == "" {
		return MissingFieldError{Field: "integration.name"}
	}
	if len(c.Services) == 0 {
		return MissingFieldError{Field: "services"}
	}
	for idx, svc := range c.Services {
		if strings.TrimSpace(svc) == "" {
			return fmt.Errorf("service at index %d has empty name", idx)
		}
	}

	return nil
}
