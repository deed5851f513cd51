package main

import (
	"os"

	"github.com/spf13/cobra"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Print this month's figures",
	RunE:  runDashboard,
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
}

func runDashboard(cmd *cobra.Command, _ []string) error {
	return withApp(cmd.Context(), os.Stderr, true, func(a *app) error {
		user, _ := a.session.User()
		writeDashboard(os.Stdout, a.store, user)
		return nil
	})
}
