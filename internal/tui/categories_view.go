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
)

func newCategoriesTable() table.Model {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Category", Width: 20},
			{Title: "Type", Width: 8},
			{Title: "Txns", Width: 5},
			{Title: "Net", Width: 14},
			{Title: "", Width: 8},
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
		Background(lipgloss.Color("#87CEEB"))
	t.SetStyles(styles)
	return t
}

func (m appModel) enterCategoriesView() (tea.Model, tea.Cmd) {
	m.selected = 2
	m.screen = screenCategories
	m.catErr = ""
	m.catConfirmID = ""
	m.cmd.Blur()
	m.refreshCategoriesTable()
	return m, m.enterSyncCmd((*syncer.Service).EnterCategories)
}

func (m appModel) updateCategories(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.catConfirmID != "" {
		id := m.catConfirmID
		m.catConfirmID = ""
		if msg.String() == "y" {
			store := m.store
			return m, actionCmd("category deleted", func(ctx context.Context) error {
				return store.DeleteCategory(ctx, id)
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
		return m.manualRefresh((*syncer.Service).RefreshCategories)
	case "d", "delete":
		cursor := m.catTable.Cursor()
		if cursor < 0 || cursor >= len(m.catCards) {
			return m, nil
		}
		card := m.catCards[cursor]
		if !card.Deletable {
			m.catErr = errText(finance.ErrDefaultCategory)
			return m, nil
		}
		m.catErr = ""
		m.catConfirmID = card.Category.ID
		return m, nil
	}

	var cmd tea.Cmd
	m.catTable, cmd = m.catTable.Update(msg)
	return m, cmd
}

// refreshCategoriesTable counts against the page view, the month the
// transactions browser last showed.
func (m *appModel) refreshCategoriesTable() {
	m.catCards = finance.CategoryCards(m.store.Transactions(), m.store.Categories())
	rows := make([]table.Row, 0, len(m.catCards))
	for _, card := range m.catCards {
		tag := ""
		if !card.Deletable {
			tag = "default"
		}
		rows = append(rows, table.Row{
			card.Category.Name,
			string(card.Category.Kind),
			fmt.Sprintf("%d", card.Count),
			money.FormatSigned(card.Net),
			tag,
		})
	}
	m.catTable.SetRows(rows)
	if m.catTable.Cursor() >= len(rows) {
		m.catTable.SetCursor(max(0, len(rows)-1))
	}
}

func (m appModel) renderCategoriesScreen(layoutWidth int) string {
	title := renderWordTitle("CATEGORIES", "#87CEEB")
	subtitle := labelStyle.Render(m.store.LoadedPageMonth().Label()) + "  " + mutedStyle.Render(m.freshness(finance.CollectionCategories))

	body := m.catTable.View()
	if len(m.catCards) == 0 {
		body = mutedStyle.Render("no categories")
	}

	usage := finance.LimitUsage(m.store.CurrentMonthTransactions(), m.store.Categories(), m.store.CategoryLimits())
	limitLines := make([]string, 0, len(usage))
	for _, u := range usage {
		if !u.HasLimit {
			continue
		}
		limitLines = append(limitLines, fmt.Sprintf("%-18s %s %s of %s",
			truncate(u.Category.Name, 18), renderPctBar(u.Pct, 16), money.FormatCOP(u.Spent), money.FormatCOP(u.Limit)))
	}
	limits := mutedStyle.Render("no limits set, see /budget")
	if len(limitLines) > 0 {
		limits = strings.Join(limitLines, "\n")
	}

	footer := m.viewFooter("↑/↓ select · d delete · r refresh · esc back", m.catErr)
	if m.catConfirmID != "" {
		footer = errorStyle.Render("delete this category? y to confirm, any key to cancel") + "\n" + footer
	}
	return strings.Join([]string{title, subtitle, "", body, "", labelStyle.Render("limits this month"), limits, "", footer}, "\n")
}

func expenseCategories(categories []model.Category) []model.Category {
	out := make([]model.Category, 0, len(categories))
	for _, c := range categories {
		if c.Accepts(model.KindExpense) {
			out = append(out, c)
		}
	}
	return out
}
