package cmd

import (
	"errors"
	"fmt"
	"net/url"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/darmiel/fedmap/internal/cliconfig"
)

var loginURL string

var loginCmd = &cobra.Command{
	Use:   "login TOKEN",
	Short: "Save an admin credential for a platform",
	Long: `Stores the admin bearer token for a platform host in the local credential
store (~/.fedmap/config.json), so later runs against that host pick it up
without --token or FEDMAP_ADMIN_TOKEN.

The token is stored as-is; fedmap never exchanges or refreshes it.`,
	Example: `  fedmap login --url https://platform.example.io <token>`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		token := args[0]
		if token == "" {
			return fmt.Errorf("token cannot be empty")
		}

		platform := loginURL
		if platform == "" {
			platform = viper.GetString("base_url")
		}
		if platform == "" {
			return fmt.Errorf("platform URL not configured (use --url or FEDMAP_BASE_URL)")
		}
		u, err := url.Parse(platform)
		if err != nil {
			return fmt.Errorf("parsing platform URL: %w", err)
		}

		cfg, err := cliconfig.Load()
		if err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("loading credential store: %w", err)
			}
			cfg = &cliconfig.CLIConfig{}
		}
		if err := cfg.SetCredential(platform, token); err != nil {
			return err
		}
		if err := cliconfig.Save(cfg); err != nil {
			return logError(err, "could not save credentials")
		}

		logSuccess("saved credentials for %s", bold(u.Host))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)

	loginCmd.Flags().StringVar(&loginURL, "url", "", "Platform base URL the credential belongs to")
}
