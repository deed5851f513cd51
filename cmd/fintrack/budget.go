package main

import (
	"fmt"
	"os"

	"github.com/lachiem1/fintrack/internal/finance"
	"github.com/lachiem1/fintrack/internal/money"
	"github.com/spf13/cobra"
)

var budgetCmd = &cobra.Command{
	Use:   "budget",
	Short: "Show or set the monthly budget",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withApp(cmd.Context(), os.Stderr, true, func(a *app) error {
			snap := a.store.Snapshot()
			fmt.Printf("Budget     %s\n", money.FormatCOP(snap.Budget))
			fmt.Printf("Spent      %s (%s)\n", money.FormatCOP(snap.TotalExpense), money.FormatPct(snap.BudgetUsedPct))
			fmt.Printf("Remaining  %s\n\n", money.FormatSigned(snap.BudgetRemaining))

			t := newTable("ID", "CATEGORY", "SPENT", "LIMIT", "USED")
			limits := a.store.CategoryLimits()
			for _, u := range finance.LimitUsage(a.store.CurrentMonthTransactions(), a.store.Categories(), limits) {
				used := ""
				if u.HasLimit {
					used = pctBar(u.Pct, 10) + " " + money.FormatPct(u.Pct)
				}
				t.Row(u.Category.ID, u.Category.Name, money.FormatCOP(u.Spent), formatLimit(limits, u.Category.ID), used)
			}
			fmt.Println(t.String())
			return nil
		})
	},
}

var budgetSetCmd = &cobra.Command{
	Use:   "set AMOUNT",
	Short: "Set the monthly budget",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		amount, err := money.ParseAmount(args[0])
		if err != nil {
			return err
		}
		return withApp(cmd.Context(), os.Stderr, true, func(a *app) error {
			if err := a.store.SetBudget(cmd.Context(), amount); err != nil {
				return err
			}
			fmt.Printf("Monthly budget set to %s.\n", money.FormatCOP(amount))
			return nil
		})
	},
}

var limitCmd = &cobra.Command{
	Use:   "limit",
	Short: "Set or clear per-category spending limits",
}

var limitSetCmd = &cobra.Command{
	Use:   "set CATEGORY AMOUNT",
	Short: "Cap monthly spending in a category",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		amount, err := money.ParseAmount(args[1])
		if err != nil {
			return err
		}
		return withApp(cmd.Context(), os.Stderr, true, func(a *app) error {
			if err := a.store.SetCategoryLimit(cmd.Context(), args[0], &amount); err != nil {
				return err
			}
			if !amount.IsPositive() {
				fmt.Printf("Limit for %s cleared.\n", categoryLabel(a.store, args[0]))
				return nil
			}
			fmt.Printf("Limit for %s set to %s.\n", categoryLabel(a.store, args[0]), money.FormatCOP(amount))
			return nil
		})
	},
}

var limitClearCmd = &cobra.Command{
	Use:   "clear CATEGORY",
	Short: "Remove a category's spending limit",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), os.Stderr, true, func(a *app) error {
			if err := a.store.SetCategoryLimit(cmd.Context(), args[0], nil); err != nil {
				return err
			}
			fmt.Printf("Limit for %s cleared.\n", categoryLabel(a.store, args[0]))
			return nil
		})
	},
}

func init() {
	budgetCmd.AddCommand(budgetSetCmd)
	limitCmd.AddCommand(limitSetCmd, limitClearCmd)
	rootCmd.AddCommand(budgetCmd, limitCmd)
}
