package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/darmiel/fedmap/internal/buildinfo"
	"github.com/darmiel/fedmap/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "fedmap",
	Short: fmt.Sprintf("OIDC identity-mapping reconciler (version: %s, commit: %s)", buildinfo.Version, buildinfo.CommitHash),
	Long: `fedmap reconciles identity-federation authorization mappings for a
multi-service platform against its access-control API. Given an OIDC
integration and the platform's service list, it ensures the remote
identity-mapping set matches the desired state without duplicating or
breaking existing entries.`,
	Version: buildinfo.Version,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Init()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		var quiet BeQuietError
		if !errors.As(err, &quiet) {
			log.Error().Err(err).Msg("execution failed")
		}
		os.Exit(1)
	}
}

func init() {
	// setup pre-flag logger
	logging.InitDefault()

	rootCmd.PersistentFlags().StringVarP(&f.ConfigPath, "config", "c", "",
		"Configuration file (default is ./fedmap.yaml)")
	rootCmd.PersistentFlags().StringVar(&f.Token, "token", "",
		"Admin bearer token for the access API (overrides FEDMAP_ADMIN_TOKEN and saved credentials)")

	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	_ = viper.BindPFlag(logging.LevelKey, rootCmd.PersistentFlags().Lookup("log-level"))

	rootCmd.PersistentFlags().String("log-format", "console", "Log format (console, json)")
	_ = viper.BindPFlag(logging.FormatKey, rootCmd.PersistentFlags().Lookup("log-format"))

	rootCmd.PersistentFlags().Bool("no-color", false, "Disable color output")
	_ = viper.BindPFlag(logging.NoColorKey, rootCmd.PersistentFlags().Lookup("no-color"))

	viper.SetEnvPrefix("FEDMAP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(
		".", "_",
		"-", "_",
	))

	viper.AutomaticEnv()

	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true
}
