package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"carrest/internal/config"
	"carrest/pkg/logger"
)

var (
	// Global flags
	configFile string
	envFile    string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "carrest",
	Short: "carrest - CRUD REST API for cars and their catalogs",
	Long: `carrest serves manufacturers, categories, car models and cars over HTTP.

Reads are public; writes require a bearer JWT signed with the shared secret.

Commands:
  serve    - Run the HTTP server
  migrate  - Apply or inspect database migrations
  token    - Mint a development bearer token`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Config file (default ./carrest.yaml if present)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Dotenv file loaded before reading the environment")
}

// loadConfig reads configuration and builds the process logger.
func loadConfig() (*config.Config, *logger.Logger, error) {
	cfg, err := config.Load(config.Options{ConfigFile: configFile, EnvFile: envFile})
	if err != nil {
		return nil, nil, err
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.Server.LogLevel,
		Development: cfg.Server.IsDevelopment(),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("initialize logger: %w", err)
	}
	logger.SetDefault(log)

	return cfg, log, nil
}
