package main

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/lachiem1/fintrack/internal/config"
	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Interactive configuration wizard",
	// A broken config file must not keep the wizard from fixing it.
	PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
	RunE:              runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	saved, err := config.Load()
	if err != nil {
		saved = config.DefaultConfig()
	}

	baseURL := saved.API.BaseURL
	timeout := saved.API.Timeout.String()
	staleTTL := saved.Refresh.StaleTTL.String()
	poll := saved.Refresh.PollInterval.String()
	level := saved.Log.Level
	if level == "" {
		level = "info"
	}
	format := saved.Log.Format
	if format == "" {
		format = "text"
	}
	noCache := saved.Storage.NoCache

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("API origin").
				Description("Where the fintrack server listens.").
				Value(&baseURL).
				Validate(validateOrigin),
			huh.NewInput().
				Title("Request timeout").
				Value(&timeout).
				Validate(validatePositiveDuration),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Treat data as stale after").
				Value(&staleTTL).
				Validate(validatePositiveDuration),
			huh.NewInput().
				Title("Poll the open view every").
				Value(&poll).
				Validate(validatePositiveDuration),
			huh.NewConfirm().
				Title("Keep the budget cache in memory only?").
				Value(&noCache),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Log level").
				Options(huh.NewOptions("debug", "info", "warn", "error")...).
				Value(&level),
			huh.NewSelect[string]().
				Title("Log format").
				Options(huh.NewOptions("text", "json")...).
				Value(&format),
		),
	)
	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			fmt.Println("Setup cancelled, nothing saved.")
			return nil
		}
		return err
	}

	saved.API.BaseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	saved.API.Timeout = mustDuration(timeout)
	saved.Refresh.StaleTTL = mustDuration(staleTTL)
	saved.Refresh.PollInterval = mustDuration(poll)
	saved.Storage.NoCache = noCache
	saved.Log.Level = level
	saved.Log.Format = format

	if err := config.Save(saved); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println()
	fmt.Printf("  Saved to %s\n", config.ConfigPath())
	fmt.Println("  Run `fintrack setup` anytime to reconfigure.")
	fmt.Println()
	return nil
}

func validateOrigin(raw string) error {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.New("use an http or https origin")
	}
	if u.Host == "" {
		return errors.New("origin needs a host")
	}
	return nil
}

func validatePositiveDuration(raw string) error {
	d, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil {
		return err
	}
	if d <= 0 {
		return errors.New("must be greater than zero")
	}
	return nil
}

// mustDuration parses a value the form already validated.
func mustDuration(raw string) config.Duration {
	d, _ := time.ParseDuration(strings.TrimSpace(raw))
	return config.Duration{Duration: d}
}
