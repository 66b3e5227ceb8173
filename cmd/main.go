package main

import (
	"fmt"
	"os"

	"GlobalDent/config"
	"GlobalDent/logger"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "globaldent",
	Short: "GlobalDent dental clinic backend",
	Long: `GlobalDent keeps patients, clinical histories, odontograms, consultations,
billing and the appointment calendar of a dental clinic.`,
	SilenceUsage: true,
}

func main() {
	rootCmd.AddCommand(newServeCommand(), newMigrateCommand(), newSeedCommand(), newCreateOperatorCommand())
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads and validates the configuration and sets up logging.
func loadConfig() (*config.AppConfig, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger.Setup(cfg)
	return cfg, nil
}
