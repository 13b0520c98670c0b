package main

import (
	"context"
	"fmt"
	"os"

	"github.com/co2tracker/co2tracker/internal/config"
	"github.com/co2tracker/co2tracker/internal/database"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "co2tracker",
	Short: "Personal CO2 footprint tracker",
	Long: `co2tracker records travel, food and energy consumption, converts it to kg CO2
through external emission APIs and serves statistics over a REST API.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.DefaultPath, "config file")
}

// setup loads an optional .env file and applies LOG_LEVEL before any command runs.
func setup(cmd *cobra.Command, args []string) error {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("loading .env: %w", err)
	}

	level := os.Getenv("LOG_LEVEL")
	if level == "" {
		log.SetLevel(log.InfoLevel)
		return nil
	}
	logrusLevel, err := log.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}
	log.SetLevel(logrusLevel)
	return nil
}

func loadConfig() (config.Application, error) {
	return config.Load(cfgFile)
}

// openDB loads the config and opens a migrated connection pool.
func openDB(ctx context.Context) (config.Application, *pgxpool.Pool, error) {
	cfg, err := loadConfig()
	if err != nil {
		return config.Application{}, nil, fmt.Errorf("loading config: %w", err)
	}
	if err := database.Migrate(cfg.Database); err != nil {
		return config.Application{}, nil, err
	}
	db, err := database.Open(ctx, cfg.Database)
	if err != nil {
		return config.Application{}, nil, fmt.Errorf("opening database: %w", err)
	}
	return cfg, db, nil
}
