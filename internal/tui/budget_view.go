package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/lachiem1/fintrack/internal/money"
	"github.com/lachiem1/fintrack/internal/syncer"
	"github.com/shopspring/decimal"
)

const (
	budgetFocusAmount = iota
	budgetFocusLimit
)

func (m appModel) enterBudgetView() (tea.Model, tea.Cmd) {
	m.selected = 3
	m.screen = screenBudget
	m.budgetErr = ""
	m.budgetFocus = budgetFocusAmount
	m.budgetInput.SetValue("")
	m.limitInput.SetValue("")
	m.budgetInput.Focus()
	m.limitInput.Blur()
	m.cmd.Blur()
	m.refreshTables()
	return m, m.enterSyncCmd((*syncer.Service).EnterDashboard)
}

func (m appModel) updateBudget(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.budgetInput.Blur()
		m.limitInput.Blur()
		return m.backHome()
	case "tab", "shift+tab":
		if m.budgetFocus == budgetFocusAmount {
			m.budgetFocus = budgetFocusLimit
			m.budgetInput.Blur()
			m.limitInput.Focus()
		} else {
			m.budgetFocus = budgetFocusAmount
			m.limitInput.Blur()
			m.budgetInput.Focus()
		}
		m.budgetErr = ""
		return m, nil
	case "up":
		if m.budgetFocus == budgetFocusLimit && len(m.budgetLimitOf) > 0 {
			m.limitCursor = (m.limitCursor - 1 + len(m.budgetLimitOf)) % len(m.budgetLimitOf)
		}
		return m, nil
	case "down":
		if m.budgetFocus == budgetFocusLimit && len(m.budgetLimitOf) > 0 {
			m.limitCursor = (m.limitCursor + 1) % len(m.budgetLimitOf)
		}
		return m, nil
	case "enter":
		return m.saveBudgetField()
	}

	var cmd tea.Cmd
	if m.budgetFocus == budgetFocusAmount {
		m.budgetInput, cmd = m.budgetInput.Update(msg)
	} else {
		m.limitInput, cmd = m.limitInput.Update(msg)
	}
	return m, cmd
}

func (m appModel) saveBudgetField() (tea.Model, tea.Cmd) {
	store := m.store
	if m.budgetFocus == budgetFocusAmount {
		amount, err := money.ParseAmount(m.budgetInput.Value())
		if err != nil {
			m.budgetErr = err.Error()
			return m, nil
		}
		if !amount.IsPositive() {
			m.budgetErr = "budget must be greater than zero"
			return m, nil
		}
		m.budgetErr = ""
		m.budgetInput.SetValue("")
		return m, actionCmd("budget saved", func(ctx context.Context) error {
			return store.SetBudget(ctx, amount)
		})
	}

	if m.limitCursor >= len(m.budgetLimitOf) {
		m.budgetErr = "no category selected"
		return m, nil
	}
	categoryID := m.budgetLimitOf[m.limitCursor].ID
	var limit *decimal.Decimal
	if raw := strings.TrimSpace(m.limitInput.Value()); raw != "" {
		amount, err := money.ParseAmount(raw)
		if err != nil {
			m.budgetErr = err.Error()
			return m, nil
		}
		limit = &amount
	}
	m.budgetErr = ""
	m.limitInput.SetValue("")
	text := "limit saved"
	if limit == nil || !limit.IsPositive() {
		text = "limit cleared"
	}
	return m, actionCmd(text, func(ctx context.Context) error {
		return store.SetCategoryLimit(ctx, categoryID, limit)
	})
}

func (m appModel) renderBudgetScreen(layoutWidth int) string {
	title := renderWordTitle("BUDGET", "#87CEEB")
	snap := m.store.Snapshot()

	budgetLabel := "  monthly budget"
	if m.budgetFocus == budgetFocusAmount {
		budgetLabel = "> monthly budget"
	}
	current := mutedStyle.Render("not set")
	if snap.Budget.IsPositive() {
		current = money.FormatCOP(snap.Budget) + "  " + renderPctBar(snap.BudgetUsedPct, 20) + " " +
			money.FormatPct(snap.BudgetUsedPct) + " used, " + money.FormatCOP(snap.BudgetRemaining) + " left"
	}
	budgetSection := strings.Join([]string{
		labelStyle.Render(budgetLabel),
		"  current: " + current,
		"  " + m.budgetInput.View(),
	}, "\n")

	limitLabel := "  category limits"
	if m.budgetFocus == budgetFocusLimit {
		limitLabel = "> category limits"
	}
	limits := m.store.CategoryLimits()
	rows := make([]string, 0, len(m.budgetLimitOf)+1)
	rows = append(rows, labelStyle.Render(limitLabel))
	for i, c := range m.budgetLimitOf {
		prefix := "   "
		if m.budgetFocus == budgetFocusLimit && i == m.limitCursor {
			prefix = " › "
		}
		value := mutedStyle.Render("no limit")
		if l, ok := limits[c.ID]; ok {
			value = money.FormatCOP(l)
		}
		rows = append(rows, fmt.Sprintf("%s%-20s %s", prefix, truncate(c.Name, 20), value))
	}
	if len(m.budgetLimitOf) == 0 {
		rows = append(rows, mutedStyle.Render("   no expense categories"))
	}
	rows = append(rows, "  "+m.limitInput.View())

	footer := m.viewFooter("tab switch field · ↑/↓ category · enter save · esc back", m.budgetErr)
	return strings.Join([]string{title, "", budgetSection, "", strings.Join(rows, "\n"), "", footer}, "\n")
}
