package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/lachiem1/fintrack/internal/finance"
	"github.com/lachiem1/fintrack/internal/model"
	"github.com/lachiem1/fintrack/internal/money"
	"github.com/lachiem1/fintrack/internal/syncer"
	"github.com/shopspring/decimal"
)

var txnKindFilters = []model.Kind{"", model.KindExpense, model.KindIncome}

func newTransactionsTable() table.Model {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Date", Width: 10},
			{Title: "Description", Width: 28},
			{Title: "Category", Width: 16},
			{Title: "Amount", Width: 14},
		}),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("#F47A60")).
		BorderBottom(true).
		Bold(true)
	styles.Selected = styles.Selected.
		Foreground(lipgloss.Color("#1B2330")).
		Background(lipgloss.Color("#FFD54A"))
	t.SetStyles(styles)
	return t
}

func (m appModel) enterTransactionsView() (tea.Model, tea.Cmd) {
	m.selected = 1
	m.screen = screenTransactions
	m.txnErr = ""
	m.txnConfirmID = ""
	m.cmd.Blur()
	m.refreshTransactionsTable()
	cmds := []tea.Cmd{m.enterSyncCmd((*syncer.Service).EnterTransactions)}
	if m.store.PageMonth() != m.txnMonth {
		cmds = append(cmds, m.loadPageCmd(m.txnMonth))
	}
	return m, tea.Batch(cmds...)
}

func (m appModel) loadPageCmd(month model.MonthKey) tea.Cmd {
	store := m.store
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return pageLoadedMsg{month: month, err: store.LoadPage(ctx, month)}
	}
}

func (m appModel) updateTransactions(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.txnSearching {
		switch msg.String() {
		case "esc", "enter":
			m.txnSearching = false
			m.txnSearch.Blur()
			m.refreshTransactionsTable()
			return m, nil
		}
		var cmd tea.Cmd
		m.txnSearch, cmd = m.txnSearch.Update(msg)
		m.refreshTransactionsTable()
		return m, cmd
	}

	if m.txnConfirmID != "" {
		id := m.txnConfirmID
		m.txnConfirmID = ""
		if msg.String() == "y" {
			store := m.store
			return m, actionCmd("transaction deleted", func(ctx context.Context) error {
				return store.DeleteTransaction(ctx, id)
			})
		}
		return m, nil
	}

	switch msg.String() {
	case "q":
		m.quitting = true
		m.leaveView()
		return m, tea.Quit
	case "esc":
		return m.backHome()
	case "?":
		m.showHelpOverlay = true
		return m, nil
	case "r":
		return m.manualRefresh((*syncer.Service).RefreshTransactions)
	case "left", "h":
		return m.changeMonth(-1)
	case "right", "l":
		return m.changeMonth(1)
	case "tab":
		m.txnKindIdx = (m.txnKindIdx + 1) % len(txnKindFilters)
		m.refreshTransactionsTable()
		return m, nil
	case "c":
		m.txnCategoryIdx = (m.txnCategoryIdx + 1) % (len(m.store.Categories()) + 1)
		m.refreshTransactionsTable()
		return m, nil
	case "/":
		m.txnSearching = true
		m.txnSearch.Focus()
		return m, nil
	case "d", "delete":
		cursor := m.txnTable.Cursor()
		if cursor >= 0 && cursor < len(m.txnRows) {
			m.txnConfirmID = m.txnRows[cursor].ID
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.txnTable, cmd = m.txnTable.Update(msg)
	return m, cmd
}

// changeMonth moves the browser one month and issues exactly one page load.
// The current month is the latest month the browser offers.
func (m appModel) changeMonth(delta int) (tea.Model, tea.Cmd) {
	next := m.txnMonth.Add(delta)
	if next > model.MonthOf(m.now()) {
		return m, nil
	}
	m.txnMonth = next
	m.txnConfirmID = ""
	m.txnTable.SetCursor(0)
	return m, m.loadPageCmd(next)
}

func (m appModel) txnFilter() finance.TxnFilter {
	f := finance.TxnFilter{
		Kind:   txnKindFilters[m.txnKindIdx],
		Search: m.txnSearch.Value(),
	}
	cats := m.store.Categories()
	if m.txnCategoryIdx > 0 && m.txnCategoryIdx <= len(cats) {
		f.CategoryID = cats[m.txnCategoryIdx-1].ID
	}
	return f
}

func (m *appModel) refreshTransactionsTable() {
	if m.store.LoadedPageMonth() != m.txnMonth {
		m.txnRows = nil
	} else {
		m.txnRows = finance.Filter(m.store.Transactions(), m.txnFilter())
	}
	rows := make([]table.Row, 0, len(m.txnRows))
	for _, t := range m.txnRows {
		amount := "-" + money.FormatCOP(t.Amount)
		if t.Kind == model.KindIncome {
			amount = "+" + money.FormatCOP(t.Amount)
		}
		rows = append(rows, table.Row{t.Date, t.Description, m.categoryName(t.CategoryID), amount})
	}
	m.txnTable.SetRows(rows)
	if m.txnTable.Cursor() >= len(rows) {
		m.txnTable.SetCursor(max(0, len(rows)-1))
	}
}

func (m appModel) renderTransactionsScreen(layoutWidth int) string {
	title := renderWordTitle("TRANSACTIONS", "#87CEEB")

	monthLine := labelStyle.Render("‹ "+m.txnMonth.Label()+" ›") + "  "
	if m.store.LoadedPageMonth() != m.txnMonth {
		monthLine += m.spin.View() + " loading"
	} else {
		monthLine += mutedStyle.Render(m.freshness(finance.CollectionPage))
	}

	filter := m.txnFilter()
	kind := "all"
	if filter.Kind != "" {
		kind = string(filter.Kind)
	}
	category := "all"
	if filter.CategoryID != "" {
		category = m.categoryName(filter.CategoryID)
	}
	filterLine := fmt.Sprintf("%s %s   %s %s", labelStyle.Render("kind:"), kind, labelStyle.Render("category:"), category)

	search := m.txnSearch.View()
	if !m.txnSearching && m.txnSearch.Value() == "" {
		search = mutedStyle.Render("/ to search")
	}

	income, expense := sumKinds(m.txnRows)
	totals := fmt.Sprintf("%d shown   %s   %s", len(m.txnRows),
		incomeStyle.Render("+"+money.FormatCOP(income)),
		expenseStyle.Render("-"+money.FormatCOP(expense)))

	body := m.txnTable.View()
	if len(m.txnRows) == 0 {
		body = mutedStyle.Render("no transactions")
	}

	footer := m.viewFooter("←/→ month · tab kind · c category · / search · d delete · r refresh · esc back", m.txnErr)
	if m.txnConfirmID != "" {
		footer = errorStyle.Render("delete this transaction? y to confirm, any key to cancel") + "\n" + footer
	}

	return strings.Join([]string{title, "", monthLine, filterLine, search, "", body, "", totals, footer}, "\n")
}

func sumKinds(txns []model.Transaction) (income, expense decimal.Decimal) {
	for _, t := range txns {
		if t.Kind == model.KindIncome {
			income = income.Add(t.Amount)
		} else {
			expense = expense.Add(t.Amount)
		}
	}
	return income, expense
}
