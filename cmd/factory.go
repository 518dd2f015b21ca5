package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/viper"

	"github.com/darmiel/fedmap/internal/access"
	"github.com/darmiel/fedmap/internal/audit"
	"github.com/darmiel/fedmap/internal/cliconfig"
	"github.com/darmiel/fedmap/internal/config"
	"github.com/darmiel/fedmap/internal/core"
)

// f is the shared factory the commands resolve their collaborators from.
var f = NewFactory()

type Factory struct {
	// ConfigPath is the configuration file, bound to --config.
	ConfigPath string

	// Token is the admin bearer token, bound to --token.
	Token string
}

func NewFactory() *Factory {
	return &Factory{}
}

// LoadConfig reads the configuration file, overlays FEDMAP_* environment
// values and finalizes. A returned error means nothing has been attempted
// against the remote store.
func (f *Factory) LoadConfig() (*config.Config, error) {
	path := f.ConfigPath
	if path == "" {
		path = "fedmap.yaml"
		if _, err := os.Stat(path); err != nil {
			// no file at all is fine, everything may come from the environment
			path = ""
		}
	}

	cfg := &config.Config{}
	if path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	// environment beats file, e.g. FEDMAP_BASE_URL, FEDMAP_INTEGRATION_NAME
	overlay := func(target *string, key string) {
		if v := viper.GetString(key); v != "" {
			*target = v
		}
	}
	overlay(&cfg.BaseURL, "base_url")
	overlay(&cfg.ProjectKey, "project_key")
	overlay(&cfg.Organization, "organization")
	overlay(&cfg.ServicePrefix, "service_prefix")
	overlay(&cfg.GrantScope, "grant_scope")
	overlay(&cfg.Integration.Name, "integration.name")
	if v := viper.GetStringSlice("services"); len(v) > 0 {
		cfg.Services = v
	}

	if err := cfg.Finalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ResolveToken returns the admin credential: --token beats FEDMAP_ADMIN_TOKEN
// beats the saved credential for the platform host.
func (f *Factory) ResolveToken(cfg *config.Config) (string, error) {
	if f.Token != "" {
		return f.Token, nil
	}
	if envToken := viper.GetString("admin_token"); envToken != "" {
		return envToken, nil
	}

	cliCfg, err := cliconfig.Load()
	if err == nil {
		if cred, err := cliCfg.GetCredential(cfg.BaseURL); err == nil {
			return cred.Token, nil
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("loading credential store: %w", err)
	}

	return "", fmt.Errorf("no admin token configured " +
		"(use --token, FEDMAP_ADMIN_TOKEN or 'fedmap login')")
}

// GetStore builds the access API client for the resolved configuration.
func (f *Factory) GetStore(cfg *config.Config) (*access.Client, error) {
	token, err := f.ResolveToken(cfg)
	if err != nil {
		return nil, err
	}
	return access.New(cfg.BaseURL, token)
}

// GetAuditor returns the run audit trail sink, a no-op unless enabled.
func (f *Factory) GetAuditor(cfg *config.Config) (core.Auditor, error) {
	if !cfg.Audit.Enabled {
		return audit.NewNoopAuditor(), nil
	}
	auditor, err := audit.NewFileAuditor(cfg.Audit.Path)
	if err != nil {
		return nil, fmt.Errorf("opening audit trail: %w", err)
	}
	return auditor, nil
}
