// Package tui provides the interactive Bubble Tea dashboard for subwatch.
package tui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/subwatchdev/subwatch/internal/alert"
	"github.com/subwatchdev/subwatch/internal/cli"
	"github.com/subwatchdev/subwatch/internal/config"
	"github.com/subwatchdev/subwatch/internal/feed"
	"github.com/subwatchdev/subwatch/internal/model"
	"github.com/subwatchdev/subwatch/internal/pipeline"
	"github.com/subwatchdev/subwatch/internal/store"
	"github.com/subwatchdev/subwatch/internal/tui/components"
	"github.com/subwatchdev/subwatch/internal/tui/theme"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// DataLoadedMsg is sent when the data pipeline finishes.
type DataLoadedMsg struct {
	Subscriptions []model.Subscription
	LoadTime      time.Duration
}

// ProgressMsg reports export file parsing progress.
type ProgressMsg struct {
	Current int
	Total   int
}

// RefreshDataMsg is sent when a background data refresh completes.
type RefreshDataMsg struct {
	Subscriptions []model.Subscription
	LoadTime      time.Duration
}

// App is the root Bubble Tea model.
type App struct {
	// Data
	subs     []model.Subscription
	loaded   bool
	loadTime time.Duration

	// Auto-refresh state
	autoRefresh     bool
	refreshInterval time.Duration
	lastRefresh     time.Time
	refreshing      bool

	// Pre-computed views of the data
	summary  model.SummaryStats
	proj     pipeline.Projection
	budget   model.BudgetStats
	savings  []model.SavingsOpportunity
	insights []feed.Item
	upcoming []model.UpcomingPayment

	// Alert state, reconciled across refreshes
	reconciler *alert.Reconciler
	alerts     []model.Alert

	// Calendar view month (independent of the budget month, which is always
	// the current one)
	viewYear  int
	viewMonth time.Month

	// UI state
	width     int
	height    int
	activeTab int
	showHelp  bool

	// Per-tab state
	subsCursor   int
	alertsCursor int
	settings     settingsState

	// First-run setup (huh form)
	setupForm *huh.Form
	setupVals setupValues
	needSetup bool

	// Loading — channel-based progress subscription
	spinner     spinner.Model
	progress    int
	progressMax int
	loadSub     chan tea.Msg // progress + completion messages from loader goroutine

	// Data sources
	dataDir string
	dsn     string
	noStore bool
}

const (
	minTerminalWidth = 80
	compactWidth     = 120
	maxContentWidth  = 180

	minContentHeight = 5 // minimum content area height
)

// Tab indices, matching components.Tabs order.
const (
	tabIdxOverview = iota
	tabIdxCalendar
	tabIdxSubscriptions
	tabIdxAlerts
	tabIdxSettings
)

// loadConfigOrDefault loads config, returning defaults on error.
// This ensures the TUI can always start even if config is corrupted.
func loadConfigOrDefault() config.Config {
	cfg, err := config.Load()
	if err != nil {
		return config.DefaultConfig()
	}
	return cfg
}

// NewApp creates a new TUI app model.
func NewApp(dataDir, dsn string, noStore bool) App {
	needSetup := !config.Exists()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#3AA99F")).Background(theme.Active.Surface)

	cfg := loadConfigOrDefault()
	refreshInterval := time.Duration(cfg.TUI.RefreshIntervalSec) * time.Second
	if refreshInterval < 10*time.Second {
		refreshInterval = 30 * time.Second // minimum 10s, default 30s
	}

	now := time.Now()

	return App{
		dataDir:         dataDir,
		dsn:             dsn,
		noStore:         noStore,
		needSetup:       needSetup,
		autoRefresh:     cfg.TUI.AutoRefresh,
		refreshInterval: refreshInterval,
		reconciler:      alert.NewReconciler(),
		viewYear:        now.Year(),
		viewMonth:       now.Month(),
		spinner:         sp,
		loadSub:         make(chan tea.Msg, 1),
	}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnableMouseCellMotion,
		loadDataCmd(a.dataDir, a.dsn, a.noStore, a.loadSub),
		a.spinner.Tick,
		tickCmd(),
	)
}

func (a *App) recompute() {
	now := time.Now()
	cfg := loadConfigOrDefault()
	book := config.NewPriceBook(cfg)

	a.summary = pipeline.Summarize(a.subs)
	a.proj = pipeline.Project(a.subs, a.viewYear, a.viewMonth)
	a.savings = pipeline.DetectSavings(a.subs, book, pipeline.DefaultSavingsOptions())

	currentProj := pipeline.Project(a.subs, now.Year(), now.Month())
	a.budget = pipeline.ComputeBudget(currentProj, now, cfg.Budget.MonthlyUSD)
	a.insights = pipeline.BuildInsights(a.subs, a.summary, a.budget, a.savings)

	days := cfg.General.UpcomingDays
	if days <= 0 {
		days = 7
	}
	a.upcoming = pipeline.UpcomingPayments(a.subs, now, days)

	opts := alert.DefaultGeneratorOptions()
	opts.UpcomingDays = days
	a.reconciler.Refresh(alert.Generate(a.subs, book, opts, now))
	a.alerts = a.reconciler.Alerts()

	// Clamp cursors to new list bounds
	if a.alertsCursor >= len(a.alerts) {
		a.alertsCursor = len(a.alerts) - 1
	}
	if a.alertsCursor < 0 {
		a.alertsCursor = 0
	}
	if a.subsCursor >= len(a.subs) {
		a.subsCursor = len(a.subs) - 1
	}
	if a.subsCursor < 0 {
		a.subsCursor = 0
	}
}

// sortedSubs returns the subscriptions for the list tab: active first, most
// expensive first within each group.
func (a App) sortedSubs() []model.Subscription {
	out := make([]model.Subscription, len(a.subs))
	copy(out, a.subs)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Active != out[j].Active {
			return out[i].Active
		}
		return out[i].MonthlyEquivalent() > out[j].MonthlyEquivalent()
	})
	return out
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		// Forward to setup form if active
		if a.setupForm != nil {
			a.setupForm = a.setupForm.WithWidth(msg.Width).WithHeight(msg.Height)
		}
		return a, nil

	case tea.MouseMsg:
		if !a.loaded || a.showHelp || (a.needSetup && a.setupForm != nil) {
			return a, nil
		}

		switch msg.Button {
		case tea.MouseButtonWheelUp:
			switch a.activeTab {
			case tabIdxSubscriptions:
				if a.subsCursor > 0 {
					a.subsCursor--
				}
			case tabIdxAlerts:
				if a.alertsCursor > 0 {
					a.alertsCursor--
				}
			}
			return a, nil

		case tea.MouseButtonWheelDown:
			switch a.activeTab {
			case tabIdxSubscriptions:
				if a.subsCursor < len(a.subs)-1 {
					a.subsCursor++
				}
			case tabIdxAlerts:
				if a.alertsCursor < len(a.alerts)-1 {
					a.alertsCursor++
				}
			}
			return a, nil

		case tea.MouseButtonLeft:
			// Tab bar is the first line
			if msg.Y == 0 {
				if tab := a.tabAtX(msg.X); tab >= 0 && tab < len(components.Tabs) {
					a.activeTab = tab
				}
			}
			return a, nil
		}
		return a, nil

	case tea.KeyMsg:
		return a.updateKeys(msg)

	case DataLoadedMsg:
		a.subs = msg.Subscriptions
		a.loaded = true
		a.loadTime = msg.LoadTime
		a.lastRefresh = time.Now()
		a.recompute()

		// Activate first-run setup after data loads
		if a.needSetup {
			a.setupForm = newSetupForm(len(a.subs), a.dataDir, &a.setupVals)
			if a.width > 0 {
				a.setupForm = a.setupForm.WithWidth(a.width).WithHeight(a.height)
			}
			return a, a.setupForm.Init()
		}

		return a, nil

	case ProgressMsg:
		a.progress = msg.Current
		a.progressMax = msg.Total
		return a, waitForLoadMsg(a.loadSub)

	case spinner.TickMsg:
		if !a.loaded {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil

	case tickMsg:
		cmds := []tea.Cmd{tickCmd()}

		// Auto-refresh subscription data
		if a.loaded && a.autoRefresh && !a.refreshing {
			if time.Since(a.lastRefresh) >= a.refreshInterval {
				a.refreshing = true
				cmds = append(cmds, refreshDataCmd(a.dataDir, a.dsn, a.noStore))
			}
		}

		return a, tea.Batch(cmds...)

	case RefreshDataMsg:
		a.refreshing = false
		a.lastRefresh = time.Now()
		if msg.Subscriptions != nil {
			a.subs = msg.Subscriptions
			a.loadTime = msg.LoadTime
			a.recompute()
		}
		return a, nil
	}

	// Forward unhandled messages to the setup form (cursor blinks, etc.)
	if a.needSetup && a.setupForm != nil {
		return a.updateSetupForm(msg)
	}

	return a, nil
}

func (a App) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	// Global: quit
	if key == "ctrl+c" {
		return a, tea.Quit
	}

	if !a.loaded {
		return a, nil
	}

	// First-run setup wizard intercepts all keys
	if a.needSetup && a.setupForm != nil {
		return a.updateSetupForm(msg)
	}

	// Settings tab has its own keybindings (text input)
	if a.activeTab == tabIdxSettings && a.settings.editing {
		return a.updateSettingsInput(msg)
	}

	// Help toggle
	if key == "?" {
		a.showHelp = !a.showHelp
		return a, nil
	}

	// Dismiss help
	if a.showHelp {
		a.showHelp = false
		return a, nil
	}

	if key == "q" {
		return a, tea.Quit
	}

	// Calendar tab month navigation
	if a.activeTab == tabIdxCalendar {
		switch key {
		case "n":
			a.viewYear, a.viewMonth = nextMonth(a.viewYear, a.viewMonth)
			a.proj = pipeline.Project(a.subs, a.viewYear, a.viewMonth)
			return a, nil
		case "p":
			a.viewYear, a.viewMonth = prevMonth(a.viewYear, a.viewMonth)
			a.proj = pipeline.Project(a.subs, a.viewYear, a.viewMonth)
			return a, nil
		case "t":
			now := time.Now()
			a.viewYear, a.viewMonth = now.Year(), now.Month()
			a.proj = pipeline.Project(a.subs, a.viewYear, a.viewMonth)
			return a, nil
		}
	}

	// Subscriptions tab list navigation
	if a.activeTab == tabIdxSubscriptions {
		switch key {
		case "j", "down":
			if a.subsCursor < len(a.subs)-1 {
				a.subsCursor++
			}
			return a, nil
		case "k", "up":
			if a.subsCursor > 0 {
				a.subsCursor--
			}
			return a, nil
		case "g":
			a.subsCursor = 0
			return a, nil
		case "G":
			a.subsCursor = len(a.subs) - 1
			if a.subsCursor < 0 {
				a.subsCursor = 0
			}
			return a, nil
		}
	}

	// Alerts tab: navigation plus read/dismiss actions
	if a.activeTab == tabIdxAlerts {
		switch key {
		case "j", "down":
			if a.alertsCursor < len(a.alerts)-1 {
				a.alertsCursor++
			}
			return a, nil
		case "k", "up":
			if a.alertsCursor > 0 {
				a.alertsCursor--
			}
			return a, nil
		case "r":
			if a.alertsCursor < len(a.alerts) {
				a.reconciler.MarkAsRead(a.alerts[a.alertsCursor].ID)
				a.alerts = a.reconciler.Alerts()
			}
			return a, nil
		case "R":
			a.reconciler.MarkAllRead()
			a.alerts = a.reconciler.Alerts()
			return a, nil
		case "d":
			if a.alertsCursor < len(a.alerts) {
				a.reconciler.Dismiss(a.alerts[a.alertsCursor].ID)
				a.alerts = a.reconciler.Alerts()
				if a.alertsCursor >= len(a.alerts) && a.alertsCursor > 0 {
					a.alertsCursor--
				}
			}
			return a, nil
		}
	}

	// Settings tab navigation (non-editing mode)
	if a.activeTab == tabIdxSettings {
		switch key {
		case "j", "down":
			if a.settings.cursor < settingsFieldCount-1 {
				a.settings.cursor++
			}
			return a, nil
		case "k", "up":
			if a.settings.cursor > 0 {
				a.settings.cursor--
			}
			return a, nil
		case "enter":
			return a.settingsStartEdit()
		}
	}

	// Manual refresh; the alerts tab reserves r/R for read actions
	if a.activeTab != tabIdxAlerts {
		if key == "r" && !a.refreshing {
			a.refreshing = true
			return a, refreshDataCmd(a.dataDir, a.dsn, a.noStore)
		}
		if key == "R" {
			a.autoRefresh = !a.autoRefresh
			// Persist to config (best-effort, ignore errors)
			cfg := loadConfigOrDefault()
			cfg.TUI.AutoRefresh = a.autoRefresh
			_ = config.Save(cfg)
			return a, nil
		}
	}

	// Tab navigation
	switch key {
	case "o":
		a.activeTab = tabIdxOverview
	case "c":
		a.activeTab = tabIdxCalendar
	case "s":
		a.activeTab = tabIdxSubscriptions
	case "a":
		a.activeTab = tabIdxAlerts
	case "x":
		a.activeTab = tabIdxSettings
	case "left":
		a.activeTab = (a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs)
	case "right":
		a.activeTab = (a.activeTab + 1) % len(components.Tabs)
	}
	return a, nil
}

func (a App) updateSetupForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.setupForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.setupForm = f
	}

	if a.setupForm.State == huh.StateCompleted {
		_ = a.saveSetupConfig()
		a.recompute()
		a.needSetup = false
		a.setupForm = nil
		return a, nil
	}

	if a.setupForm.State == huh.StateAborted {
		a.needSetup = false
		a.setupForm = nil
		return a, nil
	}

	return a, cmd
}

func (a App) contentWidth() int {
	cw := a.width
	if cw > maxContentWidth {
		cw = maxContentWidth
	}
	return cw
}

func (a App) isCompactLayout() bool {
	return a.contentWidth() < compactWidth
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}

	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}

	if !a.loaded {
		return a.viewLoading()
	}

	// First-run setup wizard
	if a.needSetup && a.setupForm != nil {
		return a.setupForm.View()
	}

	if a.showHelp {
		return a.viewHelp()
	}

	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := a.height
	if h < 5 {
		h = 5
	}

	msg := fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  subwatch needs at least %d columns.\n  Current width: %d\n",
		a.width,
		minTerminalWidth,
		a.width,
	)

	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewLoading() string {
	t := theme.Active
	w := a.width
	h := a.height

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(2, 4)

	logoStyle := lipgloss.NewStyle().
		Foreground(t.AccentBright).
		Background(t.Surface).
		Bold(true)

	subtitleStyle := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface)

	spinnerStyle := lipgloss.NewStyle().
		Foreground(t.Accent).
		Background(t.Surface)

	countStyle := lipgloss.NewStyle().
		Foreground(t.TextPrimary).
		Background(t.Surface)

	var b strings.Builder
	b.WriteString(logoStyle.Render("◈ subwatch"))
	b.WriteString(subtitleStyle.Render(" · Subscription Tracker"))
	b.WriteString("\n\n")

	if a.progressMax > 0 {
		barW := 40
		if barW > w-30 {
			barW = w - 30
		}
		if barW < 20 {
			barW = 20
		}
		pct := float64(a.progress) / float64(a.progressMax)
		b.WriteString(spinnerStyle.Render(a.spinner.View()))
		b.WriteString(subtitleStyle.Render(" Parsing exports\n\n"))
		b.WriteString(components.ProgressBar(pct, barW))
		b.WriteString("\n")
		b.WriteString(countStyle.Render(cli.FormatNumber(int64(a.progress))))
		b.WriteString(subtitleStyle.Render(" / "))
		b.WriteString(countStyle.Render(cli.FormatNumber(int64(a.progressMax))))
	} else {
		b.WriteString(spinnerStyle.Render(a.spinner.View()))
		b.WriteString(subtitleStyle.Render(" Discovering export files..."))
	}

	card := cardStyle.Render(b.String())

	return lipgloss.Place(w, h, lipgloss.Center, lipgloss.Center, card,
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewHelp() string {
	t := theme.Active
	h := a.height
	w := a.width

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3)

	titleStyle := lipgloss.NewStyle().
		Foreground(t.AccentBright).
		Background(t.Surface).
		Bold(true)

	sectionStyle := lipgloss.NewStyle().
		Foreground(t.Accent).
		Background(t.Surface).
		Bold(true)

	keyStyle := lipgloss.NewStyle().
		Foreground(t.Cyan).
		Background(t.Surface).
		Bold(true)

	descStyle := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface)

	dimStyle := lipgloss.NewStyle().
		Foreground(t.TextDim).
		Background(t.Surface)

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n\n")

	b.WriteString(sectionStyle.Render("Navigation"))
	b.WriteString("\n")
	navBindings := []struct{ key, desc string }{
		{"o c s a x", "Jump to tab"},
		{"← →", "Previous / Next tab"},
		{"j k", "Navigate lists"},
		{"n p", "Next / Previous month (calendar)"},
		{"t", "Jump to current month (calendar)"},
	}
	for _, bind := range navBindings {
		fmt.Fprintf(&b, "  %s  %s\n",
			keyStyle.Render(fmt.Sprintf("%-10s", bind.key)),
			descStyle.Render(bind.desc))
	}

	b.WriteString("\n")
	b.WriteString(sectionStyle.Render("Actions"))
	b.WriteString("\n")
	actionBindings := []struct{ key, desc string }{
		{"r", "Refresh data / mark alert read"},
		{"R", "Toggle auto-refresh / mark all read"},
		{"d", "Dismiss alert (alerts tab)"},
		{"Enter", "Edit setting"},
		{"Esc", "Cancel edit"},
		{"?", "Toggle help"},
		{"q", "Quit"},
	}
	for _, bind := range actionBindings {
		fmt.Fprintf(&b, "  %s  %s\n",
			keyStyle.Render(fmt.Sprintf("%-10s", bind.key)),
			descStyle.Render(bind.desc))
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	card := cardStyle.Render(b.String())

	return lipgloss.Place(w, h, lipgloss.Center, lipgloss.Center, card,
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()
	h := a.height

	// 1. Render header (tab bar + summary pill)
	pillStyle := lipgloss.NewStyle().
		Foreground(t.TextDim).
		Background(t.Surface)

	pillAccentStyle := lipgloss.NewStyle().
		Foreground(t.Accent).
		Background(t.Surface).
		Bold(true)

	pill := pillStyle.Render(" ") +
		pillAccentStyle.Render(cli.FormatExactMoney(a.summary.MonthlyTotal)+"/mo") +
		pillStyle.Render(" │ ") +
		pillAccentStyle.Render(fmt.Sprintf("%d active", a.summary.ActiveSubscriptions))
	if a.budget.MonthlyBudget != nil {
		pill += pillStyle.Render(" │ budget ") +
			pillAccentStyle.Render(fmt.Sprintf("$%.0f", *a.budget.MonthlyBudget))
	}
	pill += pillStyle.Render(" ")

	pillRowStyle := lipgloss.NewStyle().
		Background(t.Surface).
		Width(w)

	header := components.RenderTabBar(a.activeTab, w) + "\n" +
		pillRowStyle.Render(pill)

	// 2. Render status bar
	dataAge := fmt.Sprintf("%.1fs", a.loadTime.Seconds())
	statusBar := components.RenderStatusBar(w, a.reconciler.UnreadCount(), dataAge, a.refreshing, a.autoRefresh)

	// 3. Calculate content zone height
	headerH := lipgloss.Height(header)
	statusH := lipgloss.Height(statusBar)
	contentH := h - headerH - statusH
	if contentH < minContentHeight {
		contentH = minContentHeight
	}

	// 4. Render tab content
	var content string
	switch a.activeTab {
	case tabIdxOverview:
		content = a.renderOverviewTab(cw)
	case tabIdxCalendar:
		content = a.renderCalendarTab(cw, contentH)
	case tabIdxSubscriptions:
		content = a.renderSubscriptionsTab(cw, contentH)
	case tabIdxAlerts:
		content = a.renderAlertsTab(cw, contentH)
	case tabIdxSettings:
		content = a.renderSettingsTab(cw)
	}

	// 5. Truncate + pad to exactly contentH lines
	content = padHeight(truncateHeight(content, contentH), contentH)

	// 6. Fill each line to full width with background (fixes gaps between cards)
	content = fillLinesWithBackground(content, cw, t.Background)

	// 7. Place content with background fill (handles centering when w > cw)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	// 8. Stack vertically
	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)

	// 9. Ensure entire terminal is filled with background
	return lipgloss.Place(w, h, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

// ─── Helpers ────────────────────────────────────────────────────

func nextMonth(year int, month time.Month) (int, time.Month) {
	if month == time.December {
		return year + 1, time.January
	}
	return year, month + 1
}

func prevMonth(year int, month time.Month) (int, time.Month) {
	if month == time.January {
		return year - 1, time.December
	}
	return year, month - 1
}

type tickMsg struct{}

func tickCmd() tea.Cmd {
	return tea.Tick(250*time.Millisecond, func(time.Time) tea.Msg {
		return tickMsg{}
	})
}

// loadSubsOnce runs the shared load path: sync through the store when
// available, falling back to parsing the export files directly.
func loadSubsOnce(dataDir, dsn string, noStore bool, progressFn pipeline.ProgressFunc) []model.Subscription {
	if !noStore {
		if st, err := store.Open(dsn); err == nil {
			res, syncErr := pipeline.Sync(dataDir, st, progressFn)
			_ = st.Close()
			if syncErr == nil {
				return res.Subscriptions
			}
		}
	}

	res, err := pipeline.Load(dataDir, progressFn)
	if err != nil {
		return nil
	}
	return res.Subscriptions
}

// loadDataCmd starts the data loading pipeline in a background goroutine.
// It streams ProgressMsg updates and a final DataLoadedMsg through sub.
func loadDataCmd(dataDir, dsn string, noStore bool, sub chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		go func() {
			start := time.Now()

			// Progress callback: non-blocking send so the parser isn't
			// stalled. If the channel is full, we skip this update — the
			// next one catches up.
			progressFn := func(current, total int) {
				select {
				case sub <- ProgressMsg{Current: current, Total: total}:
				default:
				}
			}

			subs := loadSubsOnce(dataDir, dsn, noStore, progressFn)
			sub <- DataLoadedMsg{
				Subscriptions: subs,
				LoadTime:      time.Since(start),
			}
		}()

		// Block until the first message (either ProgressMsg or DataLoadedMsg)
		return <-sub
	}
}

// waitForLoadMsg blocks until the next message arrives from the loader goroutine.
func waitForLoadMsg(sub chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return <-sub
	}
}

// refreshDataCmd refreshes subscription data in the background (no progress UI).
func refreshDataCmd(dataDir, dsn string, noStore bool) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		return RefreshDataMsg{
			Subscriptions: loadSubsOnce(dataDir, dsn, noStore, nil),
			LoadTime:      time.Since(start),
		}
	}
}

func truncStr(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	padding := strings.Repeat("\n", h-len(lines))
	return s + padding
}

// fillLinesWithBackground pads each line to width w with background color.
// This ensures gaps between cards and empty lines have proper background fill.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")

	var result strings.Builder
	for i, line := range lines {
		placed := lipgloss.PlaceHorizontal(w, lipgloss.Left, line,
			lipgloss.WithWhitespaceBackground(bg))
		result.WriteString(placed)
		if i < len(lines)-1 {
			result.WriteString("\n")
		}
	}
	return result.String()
}

// ─── Mouse Support ──────────────────────────────────────────────

// tabAtX returns the tab index at the given X coordinate, or -1 if none.
// Hitboxes are derived from the same width rules used by RenderTabBar.
func (a App) tabAtX(x int) int {
	pos := 1 // leading space in the tab bar
	for i, tab := range components.Tabs {
		tabW := components.TabVisualWidth(tab, i == a.activeTab)

		if x >= pos && x < pos+tabW {
			return i
		}
		pos += tabW

		// Two-column separator between tabs.
		if i < len(components.Tabs)-1 {
			pos += 2
		}
	}
	return -1
}
