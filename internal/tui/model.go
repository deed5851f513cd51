package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/lachiem1/fintrack/internal/auth"
	"github.com/lachiem1/fintrack/internal/finance"
	"github.com/lachiem1/fintrack/internal/model"
	"github.com/lachiem1/fintrack/internal/syncer"
)

const requestTimeout = 20 * time.Second

type clearCommandTextMsg struct {
	id int
}

type loadAllDoneMsg struct {
	err error
}

type pageLoadedMsg struct {
	month model.MonthKey
	err   error
}

// actionDoneMsg reports the outcome of a mutation started from a view.
type actionDoneMsg struct {
	text string
	err  error
}

type logoutMsg struct {
	err error
}

type commandSpec struct {
	name        string
	description string
}

type screenMode int

const (
	screenHome screenMode = iota
	screenDashboard
	screenTransactions
	screenCategories
	screenBudget
)

// Deps are the collaborators the TUI drives. Sync, Session and Bridge may be
// nil; the matching features are then disabled.
type Deps struct {
	Store   *finance.Store
	Sync    *syncer.Service
	Session *auth.Session
	Bridge  *Bridge
	Logger  *slog.Logger
	Now     func() time.Time
}

type appModel struct {
	store   *finance.Store
	sync    *syncer.Service
	session *auth.Session
	bridge  *Bridge
	logger  *slog.Logger
	now     func() time.Time

	width  int
	height int

	viewItems []string
	selected  int
	cmd       textinput.Model
	spin      spinner.Model

	commandText             string
	commandTextID           int
	commandSuggestions      []commandSpec
	commandSuggestionIndex  int
	commandSuggestionOffset int
	showHelpOverlay         bool
	screen                  screenMode

	syncing  bool
	syncErr  string
	lastSync time.Time

	txnMonth       model.MonthKey
	txnKindIdx     int
	txnCategoryIdx int
	txnSearch      textinput.Model
	txnSearching   bool
	txnTable       table.Model
	txnRows        []model.Transaction
	txnConfirmID   string
	txnErr         string

	catTable     table.Model
	catCards     []finance.CategoryCard
	catConfirmID string
	catErr       string

	budgetFocus   int
	budgetInput   textinput.Model
	limitInput    textinput.Model
	limitCursor   int
	budgetErr     string
	budgetLimitOf []model.Category

	quitting bool
}

func New(deps Deps) tea.Model {
	cmd := textinput.New()
	cmd.Prompt = "> "
	cmd.Placeholder = "/help"
	cmd.Width = 72
	cmd.Focus()

	search := textinput.New()
	search.Prompt = "search: "
	search.Placeholder = "description contains..."
	search.Width = 40

	budgetInput := textinput.New()
	budgetInput.Prompt = "$ "
	budgetInput.Placeholder = "monthly budget"
	budgetInput.Width = 20

	limitInput := textinput.New()
	limitInput.Prompt = "$ "
	limitInput.Placeholder = "0 clears"
	limitInput.Width = 20

	spin := spinner.New(spinner.WithSpinner(spinner.Dot))
	spin.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#F47A60"))

	now := deps.Now
	if now == nil {
		now = time.Now
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return appModel{
		store:   deps.Store,
		sync:    deps.Sync,
		session: deps.Session,
		bridge:  deps.Bridge,
		logger:  logger,
		now:     now,
		viewItems: []string{
			"dashboard",
			"transactions",
			"categories",
			"budget",
		},
		cmd:         cmd,
		spin:        spin,
		screen:      screenHome,
		txnMonth:    model.MonthOf(now()),
		txnSearch:   search,
		txnTable:    newTransactionsTable(),
		catTable:    newCategoriesTable(),
		budgetInput: budgetInput,
		limitInput:  limitInput,
	}
}

func (m appModel) Init() tea.Cmd {
	return tea.Batch(
		m.spin.Tick,
		m.bridge.wait(),
	)
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.cmd.Width = max(40, msg.Width-36)
		m.txnTable.SetHeight(max(5, msg.Height-18))
		m.catTable.SetHeight(max(5, msg.Height-20))
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case storeChangedMsg:
		m.refreshTables()
		return m, m.bridge.wait()

	case syncEventMsg:
		switch msg.event.Type {
		case syncer.EventSyncStarted:
			m.syncing = true
		case syncer.EventSyncOK:
			m.syncing = false
			m.syncErr = ""
			m.lastSync = msg.event.At
		case syncer.EventSyncFailed:
			m.syncing = false
			if msg.event.Err != nil {
				m.syncErr = msg.event.Err.Error()
			}
		}
		return m, m.bridge.wait()

	case loadAllDoneMsg:
		m.refreshTables()
		if msg.err != nil {
			return m.withCommandFeedback("refresh failed: " + msg.err.Error())
		}
		return m.withCommandFeedback("data refreshed")

	case pageLoadedMsg:
		if msg.err != nil {
			m.txnErr = msg.err.Error()
			return m, nil
		}
		m.txnErr = ""
		m.refreshTables()
		return m, nil

	case actionDoneMsg:
		m.refreshTables()
		if msg.err != nil {
			return m.withCommandFeedback(msg.text + " failed: " + msg.err.Error())
		}
		return m.withCommandFeedback(msg.text)

	case logoutMsg:
		if msg.err != nil {
			return m.withCommandFeedback("logout failed: " + msg.err.Error())
		}
		m.screen = screenHome
		m.cmd.Focus()
		m.refreshTables()
		return m.withCommandFeedback("signed out")

	case clearCommandTextMsg:
		if msg.id == m.commandTextID {
			m.commandText = ""
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quitting = true
			m.leaveView()
			return m, tea.Quit
		}
		if m.showHelpOverlay {
			switch msg.String() {
			case "esc":
				m.showHelpOverlay = false
				return m, nil
			case "q":
				m.quitting = true
				m.leaveView()
				return m, tea.Quit
			}
			return m, nil
		}

		switch m.screen {
		case screenDashboard:
			return m.updateDashboard(msg)
		case screenTransactions:
			return m.updateTransactions(msg)
		case screenCategories:
			return m.updateCategories(msg)
		case screenBudget:
			return m.updateBudget(msg)
		}
		return m.updateHome(msg)
	}

	var cmd tea.Cmd
	m.cmd, cmd = m.cmd.Update(msg)
	return m, cmd
}

func (m appModel) updateHome(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up":
		if m.shouldShowCommandSuggestions() {
			m.commandSuggestionIndex = max(0, m.commandSuggestionIndex-1)
			m.adjustSuggestionWindow(2)
			return m, nil
		}
		m.selected = max(0, m.selected-1)
		return m, nil
	case "down":
		if m.shouldShowCommandSuggestions() {
			m.commandSuggestionIndex = min(len(m.commandSuggestions)-1, m.commandSuggestionIndex+1)
			m.adjustSuggestionWindow(2)
			return m, nil
		}
		m.selected = min(len(m.viewItems)-1, m.selected+1)
		return m, nil
	case "tab":
		if m.shouldShowCommandSuggestions() {
			m.cmd.SetValue(m.commandSuggestions[m.commandSuggestionIndex].name)
			m.cmd.CursorEnd()
			m.clearCommandSuggestions()
			return m, nil
		}
	case "enter":
		input := strings.TrimSpace(m.cmd.Value())
		if m.shouldShowCommandSuggestions() {
			input = m.commandSuggestions[m.commandSuggestionIndex].name
		}
		if input == "" {
			return m.openView(m.selected)
		}
		return m.runSlashCommand(input)
	}

	var cmd tea.Cmd
	m.cmd, cmd = m.cmd.Update(msg)
	m.refreshCommandSuggestions()
	return m, cmd
}

func (m appModel) openView(index int) (tea.Model, tea.Cmd) {
	switch index {
	case 0:
		return m.enterDashboardView()
	case 1:
		return m.enterTransactionsView()
	case 2:
		return m.enterCategoriesView()
	case 3:
		return m.enterBudgetView()
	}
	return m, nil
}

func (m appModel) backHome() (tea.Model, tea.Cmd) {
	m.leaveView()
	m.screen = screenHome
	m.cmd.Focus()
	return m, nil
}

func (m appModel) runSlashCommand(input string) (tea.Model, tea.Cmd) {
	switch input {
	case "":
		return m, nil
	case "/help":
		m.showHelpOverlay = true
		m.commandText = ""
		m.cmd.SetValue("")
		m.clearCommandSuggestions()
		return m, nil
	case "/dashboard":
		return m.enterDashboardView()
	case "/transactions":
		return m.enterTransactionsView()
	case "/categories":
		return m.enterCategoriesView()
	case "/budget":
		return m.enterBudgetView()
	case "/refresh":
		next, cmd := m.withCommandFeedback("refreshing all data...")
		return next, tea.Batch(cmd, m.loadAllCmd())
	case "/logout":
		if m.session == nil {
			return m.withCommandFeedback("no session to sign out of")
		}
		m.leaveView()
		return m, m.logoutCmd()
	case "/quit":
		m.quitting = true
		m.leaveView()
		return m, tea.Quit
	default:
		return m.withCommandFeedback(fmt.Sprintf("Unknown command: %s", input))
	}
}

func (m appModel) withCommandFeedback(text string) (tea.Model, tea.Cmd) {
	m.commandText = text
	m.commandTextID++
	m.cmd.SetValue("")
	m.clearCommandSuggestions()
	id := m.commandTextID
	return m, tea.Tick(4*time.Second, func(time.Time) tea.Msg {
		return clearCommandTextMsg{id: id}
	})
}

// enterSyncCmd hands the active view to the refresh engine.
func (m appModel) enterSyncCmd(enter func(*syncer.Service, context.Context) error) tea.Cmd {
	if m.sync == nil {
		return nil
	}
	svc := m.sync
	logger := m.logger
	return func() tea.Msg {
		if err := enter(svc, context.Background()); err != nil {
			logger.Warn("enter view", "error", err)
		}
		return nil
	}
}

func (m appModel) leaveView() {
	if m.sync != nil {
		m.sync.LeaveView()
	}
}

func (m appModel) manualRefresh(refresh func(*syncer.Service) error) (tea.Model, tea.Cmd) {
	if m.sync == nil {
		next, cmd := m.withCommandFeedback("refreshing...")
		return next, tea.Batch(cmd, m.loadAllCmd())
	}
	if err := refresh(m.sync); err != nil {
		return m.withCommandFeedback("refresh failed: " + err.Error())
	}
	return m.withCommandFeedback("refreshing...")
}

func (m appModel) loadAllCmd() tea.Cmd {
	store := m.store
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return loadAllDoneMsg{err: store.LoadAll(ctx)}
	}
}

func (m appModel) logoutCmd() tea.Cmd {
	session := m.session
	return func() tea.Msg {
		return logoutMsg{err: session.Logout()}
	}
}

// actionCmd runs a store mutation off the update loop.
func actionCmd(text string, fn func(ctx context.Context) error) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return actionDoneMsg{text: text, err: fn(ctx)}
	}
}

func (m *appModel) refreshTables() {
	m.refreshTransactionsTable()
	m.refreshCategoriesTable()
	m.budgetLimitOf = expenseCategories(m.store.Categories())
	if m.limitCursor >= len(m.budgetLimitOf) {
		m.limitCursor = max(0, len(m.budgetLimitOf)-1)
	}
}

func (m appModel) View() string {
	if m.quitting {
		return ""
	}

	frame := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#F47A60")).
		Padding(1, 1)
	contentStyle := lipgloss.NewStyle().Padding(1, 1, 0, 1)
	if m.width > 0 {
		frame = frame.Width(max(1, m.width-frame.GetHorizontalBorderSize()))
	}
	if m.height > 0 {
		frame = frame.Height(max(1, m.height-frame.GetVerticalBorderSize()))
	}
	layoutWidth := max(20, m.width-frame.GetHorizontalFrameSize()-contentStyle.GetHorizontalFrameSize())
	layoutHeight := max(1, m.height-frame.GetVerticalFrameSize()-contentStyle.GetVerticalFrameSize())

	if m.showHelpOverlay {
		centered := lipgloss.Place(layoutWidth, layoutHeight, lipgloss.Center, lipgloss.Center, renderHelpOverlay(layoutWidth))
		return frame.Render(contentStyle.Render(centered))
	}

	var body string
	switch m.screen {
	case screenDashboard:
		body = m.renderDashboardScreen(layoutWidth)
	case screenTransactions:
		body = m.renderTransactionsScreen(layoutWidth)
	case screenCategories:
		body = m.renderCategoriesScreen(layoutWidth)
	case screenBudget:
		body = m.renderBudgetScreen(layoutWidth)
	default:
		body = m.renderHomeScreen(layoutWidth)
	}
	return frame.Render(contentStyle.Render(body))
}

func (m appModel) renderHomeScreen(layoutWidth int) string {
	header := renderWordTitle("FINTRACK", "#F47A60")
	header = lipgloss.PlaceHorizontal(layoutWidth, lipgloss.Center, header)
	header = lipgloss.NewStyle().PaddingBottom(1).Render(header)

	listBox := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#F47A60")).
		Padding(0, 1).
		Width(28).
		Render(renderViews(m.viewItems, m.selected, m.statusLine()))

	snap := m.store.Snapshot()
	summary := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#FFD54A")).
		Padding(0, 1).
		Width(max(30, min(56, layoutWidth-34))).
		Render(renderKPILines(snap))

	panels := lipgloss.JoinHorizontal(lipgloss.Top, listBox, " ", summary)

	input := m.cmd.View()
	if m.shouldShowCommandSuggestions() {
		input += "\n" + renderCommandSuggestionRows(max(20, layoutWidth-4), m.commandSuggestions, m.commandSuggestionIndex, m.commandSuggestionOffset)
	}
	footer := mutedStyle.Render("enter open view · /help commands · ctrl+c quit")
	if m.commandText != "" {
		footer = feedbackStyle.Render(m.commandText)
	}
	return strings.Join([]string{header, panels, "", input, footer}, "\n")
}

func (m appModel) statusLine() string {
	label := lipgloss.NewStyle().Foreground(lipgloss.Color("#87CEEB")).Bold(true).Render("status: ")
	if m.session != nil && !m.session.SignedIn() {
		return label + errorStyle.Render("signed out")
	}
	switch {
	case m.store.State() == finance.StateLoading || m.syncing:
		return label + m.spin.View() + " syncing"
	case m.syncErr != "":
		return label + errorStyle.Render("offline")
	}
	user := "ready"
	if m.session != nil {
		if u, ok := m.session.User(); ok && u.Name != "" {
			user = u.Name
		}
	}
	return label + okStyle.Render(user)
}

// freshness renders how long ago the collection was last loaded.
func (m appModel) freshness(c finance.Collection) string {
	at, ok := m.store.LastLoaded(c)
	if !ok {
		return "not loaded"
	}
	age := m.now().Sub(at).Round(time.Second)
	if age < time.Second {
		return "updated just now"
	}
	return "updated " + age.String() + " ago"
}

func (m appModel) viewFooter(keys string, errText string) string {
	lines := []string{mutedStyle.Render(keys)}
	if errText != "" {
		lines = append(lines, errorStyle.Render(errText))
	}
	if m.syncErr != "" {
		lines = append(lines, errorStyle.Render("refresh: "+m.syncErr))
	}
	if m.commandText != "" {
		lines = append(lines, feedbackStyle.Render(m.commandText))
	}
	return strings.Join(lines, "\n")
}

var (
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#8D88A8"))
	feedbackStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD54A"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F15B5B")).Bold(true)
	okStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#5CCB76")).Bold(true)
	labelStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#87CEEB")).Bold(true)
	incomeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#5CCB76"))
	expenseStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F15B5B"))
)

func renderViews(items []string, selected int, statusLine string) string {
	lines := []string{statusLine, ""}
	itemStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF"))
	selectedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Bold(true).Underline(true)
	prefixStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#F47A60")).Bold(true)
	for i, item := range items {
		if i == selected {
			lines = append(lines, prefixStyle.Render("> ")+selectedStyle.Render(item))
			continue
		}
		lines = append(lines, itemStyle.Render("  "+item))
	}
	return strings.Join(lines, "\n")
}

var titleGlyphs = map[rune][3]string{
	'A': {"▄▀█", "█▀█", "▀ ▀"},
	'B': {"█▄▄", "█▄█", "▀▀▀"},
	'C': {"█▀▀", "█▄▄", "▀▀▀"},
	'D': {"█▀▄", "█▄▀", "▀▀ "},
	'E': {"█▀▀", "██▄", "▀▀▀"},
	'F': {"█▀▀", "█▀ ", "▀  "},
	'G': {"█▀▀", "█▄█", "▀▀▀"},
	'H': {"█ █", "█▀█", "▀ ▀"},
	'I': {"█", "█", "▀"},
	'K': {"█▄▀", "█ █", "▀ ▀"},
	'N': {"█▄ █", "█ ▀█", "▀  ▀"},
	'O': {"█▀█", "█▄█", "▀▀▀"},
	'R': {"█▀█", "█▀▄", "▀ ▀"},
	'S': {"█▀", "▄█", "▀▀"},
	'T': {"▀█▀", " █ ", " ▀ "},
	'U': {"█ █", "█▄█", "▀▀▀"},
}

// renderWordTitle draws word in three-row block glyphs. Letters without a
// glyph are skipped.
func renderWordTitle(word, color string) string {
	lineParts := [3][]string{{}, {}, {}}
	for _, ch := range word {
		g, ok := titleGlyphs[ch]
		if !ok {
			continue
		}
		lineParts[0] = append(lineParts[0], g[0])
		lineParts[1] = append(lineParts[1], g[1])
		lineParts[2] = append(lineParts[2], g[2])
	}
	style := lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Bold(true)
	rows := make([]string, 0, 3)
	for _, parts := range lineParts {
		rows = append(rows, style.Render(strings.Join(parts, " ")))
	}
	return strings.Join(rows, "\n")
}

func commandCatalog() []commandSpec {
	return []commandSpec{
		{name: "/help", description: "show command help overlay"},
		{name: "/dashboard", description: "open this month's dashboard"},
		{name: "/transactions", description: "browse transactions by month"},
		{name: "/categories", description: "view categories and their totals"},
		{name: "/budget", description: "set the budget and category limits"},
		{name: "/refresh", description: "reload everything from the server"},
		{name: "/logout", description: "sign out and clear cached data"},
		{name: "/quit", description: "exit fintrack"},
	}
}

func (m *appModel) refreshCommandSuggestions() {
	input := strings.TrimSpace(m.cmd.Value())
	if !strings.HasPrefix(input, "/") {
		m.clearCommandSuggestions()
		return
	}

	prefix := strings.ToLower(input)
	all := commandCatalog()
	matches := make([]commandSpec, 0, len(all))
	for _, cmd := range all {
		if strings.HasPrefix(cmd.name, prefix) {
			matches = append(matches, cmd)
		}
	}
	if len(matches) == 0 {
		m.clearCommandSuggestions()
		return
	}

	m.commandSuggestions = matches
	if m.commandSuggestionIndex >= len(m.commandSuggestions) {
		m.commandSuggestionIndex = len(m.commandSuggestions) - 1
	}
	if m.commandSuggestionIndex < 0 {
		m.commandSuggestionIndex = 0
	}
	m.adjustSuggestionWindow(2)
}

func (m *appModel) clearCommandSuggestions() {
	m.commandSuggestions = nil
	m.commandSuggestionIndex = 0
	m.commandSuggestionOffset = 0
}

func (m appModel) shouldShowCommandSuggestions() bool {
	return strings.HasPrefix(strings.TrimSpace(m.cmd.Value()), "/") && len(m.commandSuggestions) > 0
}

func (m *appModel) adjustSuggestionWindow(visibleRows int) {
	if visibleRows < 1 {
		visibleRows = 1
	}
	if m.commandSuggestionIndex < m.commandSuggestionOffset {
		m.commandSuggestionOffset = m.commandSuggestionIndex
	}
	if m.commandSuggestionIndex >= m.commandSuggestionOffset+visibleRows {
		m.commandSuggestionOffset = m.commandSuggestionIndex - visibleRows + 1
	}
	maxOffset := max(0, len(m.commandSuggestions)-visibleRows)
	if m.commandSuggestionOffset > maxOffset {
		m.commandSuggestionOffset = maxOffset
	}
}

func renderCommandSuggestionRows(innerWidth int, matches []commandSpec, selectedIndex int, offset int) string {
	visibleRows := 2
	start := max(0, min(offset, max(0, len(matches)-1)))
	end := min(len(matches), start+visibleRows)

	rows := make([]string, 0, end-start)
	baseRow := lipgloss.NewStyle().
		Background(lipgloss.Color("#1B2330")).
		Width(innerWidth)
	selectedRow := lipgloss.NewStyle().
		Background(lipgloss.Color("#263249")).
		Width(innerWidth)
	for i := start; i < end; i++ {
		cmdStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#B9B4D0"))
		descStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#8D88A8"))
		prefix := "  "
		rowStyle := baseRow
		if i == selectedIndex {
			prefix = "› "
			cmdStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD54A")).Bold(true)
			descStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#D4CDE9"))
			rowStyle = selectedRow
		}
		row := prefix + cmdStyle.Render(matches[i].name) + "  " + descStyle.Render(matches[i].description)
		rows = append(rows, rowStyle.Render(row))
	}

	return strings.Join(rows, "\n")
}

func renderHelpOverlay(maxWidth int) string {
	title := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#5FA8FF")).
		Bold(true).
		Render("Command Help")

	catalog := commandCatalog()
	commands := make([]string, 0, len(catalog))
	for _, cmd := range catalog {
		commands = append(commands, fmt.Sprintf("%-14s %s", cmd.name, cmd.description))
	}
	keys := []string{
		"",
		"in views:",
		"r refresh · esc back · ←/→ change month",
		"tab kind filter · c category filter · / search",
		"d delete (y to confirm)",
	}
	body := strings.Join(append(commands, keys...), "\n")
	footer := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FFD54A")).
		Bold(true).
		Render("Esc to close")

	content := strings.Join([]string{title, "", body, "", footer}, "\n")
	panelWidth := max(36, min(maxWidth-6, 64))

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#6CBFE6")).
		Padding(1, 2).
		Width(panelWidth).
		Render(content)
}

func errText(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, finance.ErrDefaultCategory) {
		return "default categories cannot be deleted"
	}
	return err.Error()
}
