package cmd

import (
	"github.com/davecgh/go-spew/spew"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Dump the resolved configuration",
	Long: `Prints the configuration after file, environment and defaulting have been
applied. The admin token is resolved separately and never shown.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := f.LoadConfig()
		if err != nil {
			return logError(err, "configuration is invalid")
		}
		log.Info().Msg(spew.Sdump(cfg))
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
}
