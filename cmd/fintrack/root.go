package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/lachiem1/fintrack/internal/config"
	"github.com/spf13/cobra"
)

var (
	flagAPI       string
	flagDBPath    string
	flagNoCache   bool
	flagLogLevel  string
	flagLogFormat string
	flagEnvFile   string

	cfg config.Config

	nowFunc = time.Now
)

var rootCmd = &cobra.Command{
	Use:           "fintrack",
	Short:         "Personal finance tracker",
	Long:          "Track income and expenses, budgets and category limits against your fintrack server.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		return loadConfig(cmd)
	},
	RunE: runDashboard,
}

// Execute is the main entry point called from main.go.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintf(os.Stderr, "fintrack: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagAPI, "api", "", "API origin (overrides config and FINTRACK_API)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Local snapshot database path")
	rootCmd.PersistentFlags().BoolVar(&flagNoCache, "no-cache", false, "Keep the budget cache in memory only")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagLogFormat, "log-format", "", "Log format: text or json")
	rootCmd.PersistentFlags().StringVar(&flagEnvFile, "env-file", ".env", "Dotenv file loaded before the config")
}

// loadConfig layers .env, the config file, environment and flags, in that
// order of increasing precedence.
func loadConfig(cmd *cobra.Command) error {
	if err := godotenv.Load(flagEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", flagEnvFile, err)
	}

	loaded, err := config.Load()
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("api") {
		loaded.API.BaseURL = flagAPI
	}
	if flags.Changed("db") {
		loaded.Storage.Path = flagDBPath
	}
	if flags.Changed("no-cache") {
		loaded.Storage.NoCache = flagNoCache
	}
	if flags.Changed("log-level") {
		loaded.Log.Level = flagLogLevel
	}
	if flags.Changed("log-format") {
		loaded.Log.Format = flagLogFormat
	}
	if err := loaded.Validate(); err != nil {
		return err
	}
	cfg = loaded
	return nil
}
