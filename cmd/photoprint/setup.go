package main

import (
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/fpang/photoprint/internal/config"
	"github.com/fpang/photoprint/internal/logging"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Create or replace the configuration file",
	Run:   runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, args []string) {
	logging.Init()
	if verboseFlag {
		logging.SetVerbose()
	}

	if _, err := config.Setup(os.Stdin); err != nil {
		log.Fatal().Err(err).Msg("Setup failed")
	}
}
