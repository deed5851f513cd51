package main

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/lachiem1/fintrack/internal/config"
	"github.com/lachiem1/fintrack/internal/logging"
	"github.com/lachiem1/fintrack/internal/syncer"
	"github.com/lachiem1/fintrack/internal/tui"
	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive dashboard",
	Args:  cobra.NoArgs,
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	// The alternate screen owns the terminal, so logs go to a file.
	logPath := cfg.Log.File
	if logPath == "" {
		logPath = filepath.Join(config.ConfigDir(), "fintrack.log")
	}
	logFile, err := logging.OpenFile(logPath)
	if err != nil {
		return err
	}
	defer logFile.Close()

	return withApp(cmd.Context(), logFile, true, func(a *app) error {
		bridge := tui.NewBridge()
		unsubscribe := a.store.Subscribe(bridge.OnChange)
		defer unsubscribe()

		service, err := syncer.NewStoreService(
			a.store,
			a.recorder(),
			syncer.Settings{
				StaleTTL:     cfg.Refresh.StaleTTL.Duration,
				PollInterval: cfg.Refresh.PollInterval.Duration,
			},
			bridge.OnSyncEvent,
		)
		if err != nil {
			return err
		}
		defer service.LeaveView()

		p := tea.NewProgram(
			tui.New(tui.Deps{
				Store:   a.store,
				Sync:    service,
				Session: a.session,
				Bridge:  bridge,
				Logger:  logging.WithComponent(a.logger, logging.ComponentTUI),
				Now:     nowFunc,
			}),
			tea.WithAltScreen(),
			tea.WithContext(cmd.Context()),
		)
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("tui: %w", err)
		}
		if !a.session.SignedIn() {
			fmt.Fprintln(os.Stderr, "Signed out.")
		}
		return nil
	})
}
