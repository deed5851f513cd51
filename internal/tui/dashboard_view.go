package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/lachiem1/fintrack/internal/finance"
	"github.com/lachiem1/fintrack/internal/model"
	"github.com/lachiem1/fintrack/internal/money"
	"github.com/lachiem1/fintrack/internal/syncer"
)

const (
	dailySpan    = 7
	recentCount  = 5
	barMaxBlocks = 24
)

func (m appModel) enterDashboardView() (tea.Model, tea.Cmd) {
	m.selected = 0
	m.screen = screenDashboard
	m.cmd.Blur()
	return m, m.enterSyncCmd((*syncer.Service).EnterDashboard)
}

func (m appModel) updateDashboard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		m.quitting = true
		m.leaveView()
		return m, tea.Quit
	case "esc":
		return m.backHome()
	case "r":
		return m.manualRefresh((*syncer.Service).RefreshDashboard)
	case "?":
		m.showHelpOverlay = true
		return m, nil
	}
	return m, nil
}

func (m appModel) renderDashboardScreen(layoutWidth int) string {
	snap := m.store.Snapshot()
	title := renderWordTitle("DASHBOARD", "#87CEEB")
	subtitle := labelStyle.Render(snap.Month.Label()) + "  " + mutedStyle.Render(m.freshness(finance.CollectionCurrentMonth))
	if snap.Stale {
		subtitle += "  " + feedbackStyle.Render("new month, refreshing...")
	}

	kpis := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#FFD54A")).
		Padding(0, 1).
		Width(38).
		Render(renderKPILines(snap))

	today := m.now()
	daily := "no expenses this month"
	if finance.HasDailyData(snap) {
		daily = renderDailyBars(finance.DailyBars(snap, today, dailySpan))
	}
	dailyBox := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#F47A60")).
		Padding(0, 1).
		Width(max(30, min(52, layoutWidth-42))).
		Render(labelStyle.Render("last 7 days") + "\n" + daily)

	top := lipgloss.JoinHorizontal(lipgloss.Top, kpis, " ", dailyBox)

	stats := finance.CategoryStats(snap, m.store.Categories(), m.store.CategoryLimits())
	recent := finance.RecentTransactions(m.store.CurrentMonthTransactions(), recentCount)

	sections := []string{
		title,
		subtitle,
		"",
		top,
		"",
		labelStyle.Render("spending by category"),
		renderCategoryStats(stats),
		"",
		labelStyle.Render("recent"),
		m.renderRecent(recent),
		"",
		m.viewFooter("r refresh · esc back · ? help", ""),
	}
	return strings.Join(sections, "\n")
}

func renderKPILines(snap finance.Snapshot) string {
	lines := []string{
		fmt.Sprintf("%-10s %s", "income", incomeStyle.Render(money.FormatCOP(snap.TotalIncome))),
		fmt.Sprintf("%-10s %s", "expenses", expenseStyle.Render(money.FormatCOP(snap.TotalExpense))),
		fmt.Sprintf("%-10s %s", "balance", money.FormatSigned(snap.Balance)),
	}
	if snap.Budget.IsPositive() {
		lines = append(lines,
			fmt.Sprintf("%-10s %s of %s", "budget", money.FormatPct(snap.BudgetUsedPct), money.FormatCOP(snap.Budget)),
			renderPctBar(snap.BudgetUsedPct, 20),
			fmt.Sprintf("%-10s %s", "remaining", money.FormatCOP(snap.BudgetRemaining)),
		)
	} else {
		lines = append(lines, mutedStyle.Render("no budget set"))
	}
	return strings.Join(lines, "\n")
}

func renderPctBar(pct float64, width int) string {
	filled := int(pct / 100 * float64(width))
	filled = max(0, min(width, filled))
	style := okStyle
	switch {
	case pct >= 90:
		style = errorStyle
	case pct >= 70:
		style = feedbackStyle
	}
	return style.Render(strings.Repeat("█", filled)) + mutedStyle.Render(strings.Repeat("░", width-filled))
}

func renderDailyBars(bars []finance.DailyBar) string {
	lines := make([]string, 0, len(bars))
	for _, bar := range bars {
		blocks := int(bar.Pct / 100 * barMaxBlocks)
		if bar.Total.IsPositive() && blocks == 0 {
			blocks = 1
		}
		style := expenseStyle
		if bar.Today {
			style = feedbackStyle
		}
		lines = append(lines, fmt.Sprintf("%2d %s %s", bar.Day, style.Render(strings.Repeat("▇", blocks)), money.FormatCOP(bar.Total)))
	}
	return strings.Join(lines, "\n")
}

func renderCategoryStats(stats []finance.CategoryStat) string {
	if len(stats) == 0 {
		return mutedStyle.Render("no expenses yet")
	}
	lines := make([]string, 0, len(stats))
	for _, s := range stats {
		line := fmt.Sprintf("%-18s %12s %5s", truncate(s.Category.Name, 18), money.FormatCOP(s.Total), money.FormatPct(s.SharePct))
		if s.HasLimit {
			line += "  " + renderPctBar(s.LimitPct, 12) + " " + money.FormatPct(s.LimitPct) + " of " + money.FormatCOP(s.Limit)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func (m appModel) renderRecent(txns []model.Transaction) string {
	if len(txns) == 0 {
		return mutedStyle.Render("no transactions this month")
	}
	lines := make([]string, 0, len(txns))
	for _, t := range txns {
		lines = append(lines, fmt.Sprintf("%s  %-24s %-14s %s", t.Date, truncate(t.Description, 24), truncate(m.categoryName(t.CategoryID), 14), renderSignedAmount(t)))
	}
	return strings.Join(lines, "\n")
}

func (m appModel) categoryName(id string) string {
	if c, ok := m.store.Category(id); ok {
		return c.Name
	}
	return "unknown"
}

func renderSignedAmount(t model.Transaction) string {
	if t.Kind == model.KindIncome {
		return incomeStyle.Render("+" + money.FormatCOP(t.Amount))
	}
	return expenseStyle.Render("-" + money.FormatCOP(t.Amount))
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width <= 1 {
		return string(r[:width])
	}
	return string(r[:width-1]) + "…"
}
