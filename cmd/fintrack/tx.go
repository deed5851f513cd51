package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/lachiem1/fintrack/internal/finance"
	"github.com/lachiem1/fintrack/internal/model"
	"github.com/lachiem1/fintrack/internal/money"
	"github.com/spf13/cobra"
)

var (
	flagTxMonth    string
	flagTxKind     string
	flagTxCategory string
	flagTxSearch   string

	flagTxDesc   string
	flagTxAmount string
	flagTxDate   string
)

var txCmd = &cobra.Command{
	Use:     "tx",
	Aliases: []string{"transactions"},
	Short:   "List and edit transactions",
}

var txListCmd = &cobra.Command{
	Use:   "list",
	Short: "List one month's transactions, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		month, err := parseMonthFlag(flagTxMonth, nowFunc())
		if err != nil {
			return err
		}
		filter, err := parseTxnFilter(flagTxKind, flagTxCategory, flagTxSearch)
		if err != nil {
			return err
		}
		return withApp(cmd.Context(), os.Stderr, true, func(a *app) error {
			if err := a.store.LoadPage(cmd.Context(), month); err != nil {
				return err
			}
			txns := finance.Filter(a.store.Transactions(), filter)
			writeTransactions(os.Stdout, a.store, txns)
			fmt.Printf("%d transaction(s) in %s\n", len(txns), month.Label())
			return nil
		})
	},
}

var txAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Record a transaction",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		draft, err := buildTxnDraft(model.TransactionDraft{Kind: model.KindExpense, Date: model.FormatDate(nowFunc())}, txnFlagValues(cmd))
		if err != nil {
			return err
		}
		return withApp(cmd.Context(), os.Stderr, true, func(a *app) error {
			created, err := a.store.AddTransaction(cmd.Context(), draft)
			if err != nil {
				return err
			}
			fmt.Printf("Added %s: %s %s on %s\n", created.ID, created.Description, signedAmount(created), created.Date)
			return nil
		})
	},
}

var txEditCmd = &cobra.Command{
	Use:   "edit ID",
	Short: "Change fields of a transaction",
	Long:  "Change fields of a transaction. --month names the month the transaction is currently booked in.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		month, err := parseMonthFlag(flagTxMonth, nowFunc())
		if err != nil {
			return err
		}
		return withApp(cmd.Context(), os.Stderr, true, func(a *app) error {
			if err := a.store.LoadPage(cmd.Context(), month); err != nil {
				return err
			}
			current, ok := findTxn(a.store.Transactions(), args[0])
			if !ok {
				return fmt.Errorf("no transaction %s in %s", args[0], month.Label())
			}
			draft, err := buildTxnDraft(current.Draft(), txnFlagValues(cmd))
			if err != nil {
				return err
			}
			updated, err := a.store.UpdateTransaction(cmd.Context(), draft.WithID(current.ID))
			if err != nil {
				return err
			}
			fmt.Printf("Updated %s: %s %s on %s\n", updated.ID, updated.Description, signedAmount(updated), updated.Date)
			return nil
		})
	},
}

var txRmCmd = &cobra.Command{
	Use:     "rm ID...",
	Aliases: []string{"delete"},
	Short:   "Delete transactions",
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), os.Stderr, true, func(a *app) error {
			deleted, err := a.store.DeleteTransactions(cmd.Context(), args)
			fmt.Printf("Deleted %d of %d transaction(s).\n", len(deleted), len(args))
			return err
		})
	},
}

// txnFlags holds the edit flags the user actually set.
type txnFlags struct {
	desc, amount, kind, category, date *string
}

func txnFlagValues(cmd *cobra.Command) txnFlags {
	var f txnFlags
	flags := cmd.Flags()
	if flags.Changed("desc") {
		f.desc = &flagTxDesc
	}
	if flags.Changed("amount") {
		f.amount = &flagTxAmount
	}
	if flags.Changed("type") {
		f.kind = &flagTxKind
	}
	if flags.Changed("category") {
		f.category = &flagTxCategory
	}
	if flags.Changed("date") {
		f.date = &flagTxDate
	}
	return f
}

// buildTxnDraft layers the set flags over base and validates the result.
func buildTxnDraft(base model.TransactionDraft, f txnFlags) (model.TransactionDraft, error) {
	d := base
	if f.desc != nil {
		d.Description = *f.desc
	}
	if f.amount != nil {
		amount, err := money.ParseAmount(*f.amount)
		if err != nil {
			return d, err
		}
		d.Amount = amount
	}
	if f.kind != nil {
		kind, err := model.ParseKind(*f.kind)
		if err != nil {
			return d, err
		}
		d.Kind = kind
	}
	if f.category != nil {
		d.CategoryID = strings.TrimSpace(*f.category)
	}
	if f.date != nil {
		d.Date = strings.TrimSpace(*f.date)
	}
	d = d.Normalize()
	if err := d.Validate(); err != nil {
		return d, err
	}
	return d, nil
}

func parseMonthFlag(raw string, now time.Time) (model.MonthKey, error) {
	if strings.TrimSpace(raw) == "" {
		return model.MonthOf(now), nil
	}
	month, err := model.ParseMonthKey(strings.TrimSpace(raw))
	if err != nil {
		return "", fmt.Errorf("--month: %w", err)
	}
	return month, nil
}

func parseTxnFilter(kind, category, search string) (finance.TxnFilter, error) {
	f := finance.TxnFilter{CategoryID: strings.TrimSpace(category), Search: search}
	if strings.TrimSpace(kind) == "" {
		return f, nil
	}
	k, err := model.ParseKind(kind)
	if err != nil {
		return f, err
	}
	f.Kind = k
	return f, nil
}

func findTxn(txns []model.Transaction, id string) (model.Transaction, bool) {
	for _, t := range txns {
		if t.ID == id {
			return t, true
		}
	}
	return model.Transaction{}, false
}

func init() {
	txListCmd.Flags().StringVar(&flagTxMonth, "month", "", "Month as YYYY-MM (default current)")
	txListCmd.Flags().StringVar(&flagTxKind, "type", "", "Only income or expense")
	txListCmd.Flags().StringVar(&flagTxCategory, "category", "", "Only this category id")
	txListCmd.Flags().StringVar(&flagTxSearch, "search", "", "Description contains")

	for _, c := range []*cobra.Command{txAddCmd, txEditCmd} {
		c.Flags().StringVar(&flagTxDesc, "desc", "", "Description")
		c.Flags().StringVar(&flagTxAmount, "amount", "", "Amount, e.g. 45000 or 45000.50")
		c.Flags().StringVar(&flagTxKind, "type", "", "income or expense")
		c.Flags().StringVar(&flagTxCategory, "category", "", "Category id")
		c.Flags().StringVar(&flagTxDate, "date", "", "Date as YYYY-MM-DD")
	}
	txEditCmd.Flags().StringVar(&flagTxMonth, "month", "", "Month the transaction is in (default current)")

	txCmd.AddCommand(txListCmd, txAddCmd, txEditCmd, txRmCmd)
	rootCmd.AddCommand(txCmd)
}
