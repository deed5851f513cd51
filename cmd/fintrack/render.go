package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/lachiem1/fintrack/internal/finance"
	"github.com/lachiem1/fintrack/internal/model"
	"github.com/lachiem1/fintrack/internal/money"
	"github.com/shopspring/decimal"
)

var (
	accent      = lipgloss.Color("#F47A60")
	headerStyle = lipgloss.NewStyle().Foreground(accent).Bold(true)
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8A8A8A"))
	incomeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#5FAF5F"))
	spendStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#D75F5F"))
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(accent)).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return cellStyle.Inherit(headerStyle)
			}
			return cellStyle
		})
}

func signedAmount(t model.Transaction) string {
	if t.Kind == model.KindIncome {
		return incomeStyle.Render("+" + money.FormatCOP(t.Amount))
	}
	return spendStyle.Render("-" + money.FormatCOP(t.Amount))
}

func categoryLabel(store *finance.Store, id string) string {
	c, ok := store.Category(id)
	if !ok {
		return "unknown"
	}
	if c.Icon != "" {
		return c.Icon + " " + c.Name
	}
	return c.Name
}

func writeTransactions(w io.Writer, store *finance.Store, txns []model.Transaction) {
	if len(txns) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("No transactions."))
		return
	}
	t := newTable("ID", "DATE", "DESCRIPTION", "CATEGORY", "AMOUNT")
	for _, txn := range txns {
		t.Row(txn.ID, txn.Date, txn.Description, categoryLabel(store, txn.CategoryID), signedAmount(txn))
	}
	fmt.Fprintln(w, t.String())
}

func writeCategoryCards(w io.Writer, cards []finance.CategoryCard) {
	t := newTable("ID", "CATEGORY", "TYPE", "COUNT", "NET", "")
	for _, card := range cards {
		flag := ""
		if !card.Deletable {
			flag = mutedStyle.Render("default")
		}
		t.Row(
			card.Category.ID,
			strings.TrimSpace(card.Category.Icon+" "+card.Category.Name),
			string(card.Category.Kind),
			fmt.Sprintf("%d", card.Count),
			money.FormatSigned(card.Net),
			flag,
		)
	}
	fmt.Fprintln(w, t.String())
}

func pctBar(pct float64, width int) string {
	filled := int(pct / 100 * float64(width))
	filled = max(0, min(width, filled))
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	if pct >= 90 {
		return spendStyle.Render(bar)
	}
	return lipgloss.NewStyle().Foreground(accent).Render(bar)
}

// writeDashboard prints the current month's figures.
func writeDashboard(w io.Writer, store *finance.Store, user model.User) {
	snap := store.Snapshot()

	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("%s · %s", snap.Month.Label(), displayName(user))))
	if snap.Stale {
		fmt.Fprintln(w, mutedStyle.Render("Figures are refreshing, run again in a moment."))
		return
	}
	fmt.Fprintln(w)

	kpi := newTable("INCOME", "EXPENSES", "BALANCE", "BUDGET LEFT")
	kpi.Row(
		incomeStyle.Render(money.FormatCOP(snap.TotalIncome)),
		spendStyle.Render(money.FormatCOP(snap.TotalExpense)),
		money.FormatSigned(snap.Balance),
		money.FormatSigned(snap.BudgetRemaining),
	)
	fmt.Fprintln(w, kpi.String())

	if snap.Budget.IsPositive() {
		fmt.Fprintf(w, "Budget %s  %s %s\n\n", money.FormatCOP(snap.Budget), pctBar(snap.BudgetUsedPct, 30), money.FormatPct(snap.BudgetUsedPct))
	} else {
		fmt.Fprintln(w, mutedStyle.Render("No monthly budget set."))
		fmt.Fprintln(w)
	}

	stats := finance.CategoryStats(snap, store.Categories(), store.CategoryLimits())
	if len(stats) > 0 {
		t := newTable("CATEGORY", "SPENT", "SHARE", "LIMIT")
		for _, s := range stats {
			limit := mutedStyle.Render("none")
			if s.HasLimit {
				limit = fmt.Sprintf("%s %s of %s", pctBar(s.LimitPct, 10), money.FormatPct(s.LimitPct), money.FormatCOP(s.Limit))
			}
			t.Row(
				strings.TrimSpace(s.Category.Icon+" "+s.Category.Name),
				money.FormatCOP(s.Total),
				money.FormatPct(s.SharePct),
				limit,
			)
		}
		fmt.Fprintln(w, t.String())
	}

	recent := finance.RecentTransactions(store.CurrentMonthTransactions(), 5)
	fmt.Fprintln(w, headerStyle.Render("Recent"))
	writeTransactions(w, store, recent)
}

func formatLimit(limits map[string]decimal.Decimal, id string) string {
	if limit, ok := limits[id]; ok && limit.IsPositive() {
		return money.FormatCOP(limit)
	}
	return mutedStyle.Render("none")
}
