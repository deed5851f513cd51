package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/lachiem1/fintrack/internal/charts"
	"github.com/lachiem1/fintrack/internal/finance"
	"github.com/spf13/cobra"
)

var (
	flagChartOut  string
	flagChartDays int
)

var chartCmd = &cobra.Command{
	Use:       "chart daily|categories",
	Short:     "Render this month's spending as a PNG",
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"daily", "categories"},
	RunE: func(cmd *cobra.Command, args []string) error {
		kind := args[0]
		out := flagChartOut
		if out == "" {
			out = kind + ".png"
		}
		return withApp(cmd.Context(), os.Stderr, true, func(a *app) error {
			snap := a.store.Snapshot()
			f, err := os.Create(out)
			if err != nil {
				return err
			}

			if kind == "daily" {
				err = charts.DailyExpenses(f, snap.Month, finance.DailyBars(snap, nowFunc(), flagChartDays))
			} else {
				err = charts.CategoryShare(f, snap.Month, finance.CategoryStats(snap, a.store.Categories(), a.store.CategoryLimits()))
			}
			closeErr := f.Close()
			if errors.Is(err, charts.ErrNoData) {
				_ = os.Remove(out)
				fmt.Println("No spending recorded this month yet.")
				return nil
			}
			if err != nil {
				_ = os.Remove(out)
				return err
			}
			if closeErr != nil {
				return closeErr
			}
			fmt.Printf("Wrote %s\n", out)
			return nil
		})
	},
}

func init() {
	chartCmd.Flags().StringVarP(&flagChartOut, "out", "o", "", "Output file (default <chart>.png)")
	chartCmd.Flags().IntVar(&flagChartDays, "days", 31, "Days to include in the daily chart")
	rootCmd.AddCommand(chartCmd)
}
