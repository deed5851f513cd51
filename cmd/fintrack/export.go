package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var flagExportOut string

var exportCmd = &cobra.Command{
	Use:       "export json|csv",
	Short:     "Download a backup of all data",
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"json", "csv"},
	RunE: func(cmd *cobra.Command, args []string) error {
		format := args[0]
		out := flagExportOut
		if out == "" {
			out = "finance-tracker." + format
		}
		return withApp(cmd.Context(), os.Stderr, true, func(a *app) error {
			var (
				data []byte
				err  error
			)
			if format == "csv" {
				data, err = a.store.ExportCSV(cmd.Context())
			} else {
				data, err = a.store.ExportJSON(cmd.Context())
			}
			if err != nil {
				return err
			}
			if out == "-" {
				_, err := os.Stdout.Write(data)
				return err
			}
			if err := os.WriteFile(out, data, 0o600); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			fmt.Fprintf(os.Stderr, "Wrote %d bytes to %s\n", len(data), out)
			return nil
		})
	},
}

var importCmd = &cobra.Command{
	Use:   "import FILE",
	Short: "Restore a JSON or CSV backup",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		return withApp(cmd.Context(), os.Stderr, true, func(a *app) error {
			if err := a.store.Import(cmd.Context(), filepath.Base(args[0]), f); err != nil {
				return err
			}
			fmt.Printf("Imported %s. %d transaction(s) this month, %d categories.\n",
				filepath.Base(args[0]), len(a.store.CurrentMonthTransactions()), len(a.store.Categories()))
			return nil
		})
	},
}

func init() {
	exportCmd.Flags().StringVarP(&flagExportOut, "out", "o", "", "Output file, - for stdout (default finance-tracker.<format>)")
	rootCmd.AddCommand(exportCmd, importCmd)
}
