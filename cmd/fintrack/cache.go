package main

import (
	"fmt"
	"os"
	"time"

	"github.com/lachiem1/fintrack/internal/storage"
	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the local snapshot database",
}

var cacheWipeCmd = &cobra.Command{
	Use:   "wipe",
	Short: "Delete the local snapshot database files",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		dbConfig, err := storage.Wipe(cfg.Storage.Path)
		if err != nil {
			return err
		}
		fmt.Printf("Removed %s\n", dbConfig.Path)
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show session, storage and refresh state",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withApp(cmd.Context(), os.Stderr, false, func(a *app) error {
			a.detachStore()
			fmt.Printf("API       %s\n", a.api.BaseURL())
			if err := a.session.Init(cmd.Context()); err != nil {
				fmt.Printf("Session   error: %v\n", err)
			} else if user, ok := a.session.User(); ok {
				fmt.Printf("Session   %s <%s>\n", displayName(user), user.Email)
			} else {
				fmt.Println("Session   signed out")
			}

			if a.syncState == nil {
				fmt.Println("Storage   memory only")
				return nil
			}
			fmt.Printf("Storage   %s (%s)\n\n", a.dbConfig.Path, a.dbConfig.Mode)

			states, err := a.syncState.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(states) == 0 {
				fmt.Println(mutedStyle.Render("No background refreshes recorded yet."))
				return nil
			}
			t := newTable("COLLECTION", "LAST SUCCESS", "LAST ATTEMPT", "LAST ERROR")
			for _, s := range states {
				t.Row(s.Collection, formatStamp(s.LastSuccess), formatStamp(s.LastAttempt), s.LastError)
			}
			fmt.Println(t.String())
			return nil
		})
	},
}

func init() {
	cacheCmd.AddCommand(cacheWipeCmd)
	rootCmd.AddCommand(cacheCmd, statusCmd)
}

func formatStamp(t *time.Time) string {
	if t == nil {
		return "never"
	}
	return t.Local().Format("2006-01-02 15:04:05")
}
