// Package tui provides the interactive Bubble Tea dashboard for wishjar.
package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/theirongolddev/wishjar/internal/cli"
	"github.com/theirongolddev/wishjar/internal/config"
	"github.com/theirongolddev/wishjar/internal/model"
	"github.com/theirongolddev/wishjar/internal/session"
	"github.com/theirongolddev/wishjar/internal/tui/components"
	"github.com/theirongolddev/wishjar/internal/tui/theme"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// RecordLoadedMsg is sent when LoadOrCreate returns.
type RecordLoadedMsg struct {
	Key string
	Err error
}

// SavedMsg is sent when a save finishes.
type SavedMsg struct {
	Err error
	At  time.Time
}

const (
	tabWishes = iota
	tabForecast
	tabSettings
)

const (
	minTerminalWidth = 60
	maxContentWidth  = 140
	minContentHeight = 5

	storeTimeout = 30 * time.Second
)

// Options configures an App.
type Options struct {
	Config config.Config
	Key    string
	Logger *slog.Logger

	// SaveConfig persists settings changed in the dashboard. Defaults to config.Save.
	SaveConfig func(config.Config) error
	// Now defaults to time.Now.
	Now func() time.Time
}

// App is the root Bubble Tea model.
type App struct {
	ctrl       *session.Controller
	cfg        config.Config
	logger     *slog.Logger
	saveConfig func(config.Config) error
	now        func() time.Time

	// Session
	key     string
	loading bool
	loaded  bool
	rec     model.SavingsRecord
	plan    model.Plan
	planErr error

	// Status bar
	saving    bool
	message   string
	messageOK bool
	quitArmed bool

	// UI state
	width     int
	height    int
	activeTab int
	showHelp  bool
	cursor    int

	// Forms (huh). Values live on the heap so copies of App share them.
	keyForm *huh.Form
	keyVals *keyValues
	addForm *huh.Form
	addVals *addValues

	settings settingsState
	spinner  spinner.Model
}

// NewApp creates the dashboard around ctrl.
func NewApp(ctrl *session.Controller, opts Options) App {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.SaveConfig == nil {
		opts.SaveConfig = config.Save
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	theme.SetActive(opts.Config.Appearance.Theme)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent).Background(theme.Active.Surface)

	a := App{
		ctrl:       ctrl,
		cfg:        opts.Config,
		logger:     opts.Logger,
		saveConfig: opts.SaveConfig,
		now:        opts.Now,
		key:        model.NormalizeKey(opts.Key),
		spinner:    sp,
	}
	if a.key == "" {
		a.keyVals = &keyValues{}
		a.keyForm = newKeyForm(a.keyVals)
	} else {
		a.loading = true
	}
	return a
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	if a.keyForm != nil {
		return tea.Batch(tea.EnableMouseCellMotion, a.keyForm.Init())
	}
	return tea.Batch(
		tea.EnableMouseCellMotion,
		loadCmd(a.ctrl, a.key),
		a.spinner.Tick,
	)
}

func loadCmd(ctrl *session.Controller, key string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		_, err := ctrl.LoadOrCreate(ctx, key)
		return RecordLoadedMsg{Key: key, Err: err}
	}
}

func saveCmd(ctrl *session.Controller) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		err := ctrl.Save(ctx)
		return SavedMsg{Err: err, At: time.Now()}
	}
}

// refresh re-reads the record and recomputes the plan.
func (a *App) refresh() {
	rec, err := a.ctrl.Record()
	if err != nil {
		return
	}
	a.rec = rec
	a.plan, a.planErr = a.ctrl.Plan(a.now())

	if a.cursor >= len(a.rec.Wishes) {
		a.cursor = len(a.rec.Wishes) - 1
	}
	if a.cursor < 0 {
		a.cursor = 0
	}
}

func (a *App) setMessage(msg string, ok bool) {
	a.message = msg
	a.messageOK = ok
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case tea.MouseMsg:
		if !a.loaded || a.activeForm() != nil {
			return a, nil
		}
		return a.updateMouse(msg)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if a.keyForm != nil {
			return a.updateKeyForm(msg)
		}
		if !a.loaded {
			return a, nil
		}
		if a.addForm != nil {
			return a.updateAddForm(msg)
		}
		if a.activeTab == tabSettings && a.settings.editing {
			return a.updateSettingsInput(msg)
		}
		return a.updateKeys(msg)

	case RecordLoadedMsg:
		return a.onLoaded(msg)

	case SavedMsg:
		a.saving = false
		if msg.Err != nil {
			a.logger.Warn("save failed", "error", msg.Err)
			a.setMessage("save failed: "+msg.Err.Error(), false)
		} else {
			a.setMessage("saved "+msg.At.Format("15:04:05"), true)
		}
		a.refresh()
		return a, nil

	case spinner.TickMsg:
		if a.loading {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil
	}

	// Forward cursor blinks and similar to an open form.
	if a.keyForm != nil {
		return a.updateKeyForm(msg)
	}
	if a.addForm != nil {
		return a.updateAddForm(msg)
	}
	return a, nil
}

func (a App) onLoaded(msg RecordLoadedMsg) (tea.Model, tea.Cmd) {
	a.loading = false

	if errors.Is(msg.Err, model.ErrNoUserKey) {
		a.keyVals = &keyValues{}
		a.keyForm = newKeyForm(a.keyVals)
		return a, a.keyForm.Init()
	}

	a.loaded = true
	a.key = msg.Key
	var warn *session.Warning
	switch {
	case errors.As(msg.Err, &warn):
		a.setMessage("offline, saving disabled: "+warn.Err.Error(), false)
	case msg.Err != nil:
		a.setMessage(msg.Err.Error(), false)
	default:
		a.setMessage("", true)
	}
	a.refresh()
	return a, nil
}

func (a App) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key != "q" {
		a.quitArmed = false
	}

	if key == "?" {
		a.showHelp = !a.showHelp
		return a, nil
	}
	if a.showHelp {
		a.showHelp = false
		return a, nil
	}

	switch key {
	case "q":
		if a.ctrl.Dirty() && !a.quitArmed {
			a.quitArmed = true
			a.setMessage("unsaved changes, press q again to quit", false)
			return a, nil
		}
		return a, tea.Quit
	case "ctrl+s", "S":
		return a.startSave()
	case "tab", "right":
		a.activeTab = (a.activeTab + 1) % len(components.Tabs)
		return a, nil
	case "shift+tab", "left":
		a.activeTab = (a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs)
		return a, nil
	}

	switch a.activeTab {
	case tabWishes:
		if m, cmd, ok := a.updateWishesKeys(key); ok {
			return m, cmd
		}
	case tabSettings:
		if m, cmd, ok := a.updateSettingsKeys(key); ok {
			return m, cmd
		}
	}

	if len(msg.Runes) == 1 {
		if idx := components.TabIdxByKey(msg.Runes[0]); idx >= 0 {
			a.activeTab = idx
		}
	}
	return a, nil
}

func (a App) startSave() (tea.Model, tea.Cmd) {
	if a.saving {
		return a, nil
	}
	a.saving = true
	a.setMessage("", true)
	return a, saveCmd(a.ctrl)
}

func (a App) updateMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Action != tea.MouseActionPress {
		return a, nil
	}
	switch msg.Button {
	case tea.MouseButtonLeft:
		if msg.Y == 0 {
			if tab := a.tabAtX(msg.X); tab >= 0 {
				a.activeTab = tab
			}
		}
	case tea.MouseButtonWheelUp:
		if a.activeTab == tabWishes && a.cursor > 0 {
			a.cursor--
		}
	case tea.MouseButtonWheelDown:
		if a.activeTab == tabWishes && a.cursor < len(a.rec.Wishes)-1 {
			a.cursor++
		}
	}
	return a, nil
}

func (a App) activeForm() *huh.Form {
	if a.keyForm != nil {
		return a.keyForm
	}
	return a.addForm
}

func (a App) contentWidth() int {
	return min(a.width, maxContentWidth)
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}
	if a.keyForm != nil {
		return a.viewForm("Who is saving?", a.keyForm)
	}
	if a.loading || !a.loaded {
		return a.viewLoading()
	}
	if a.addForm != nil {
		return a.viewForm("New wish", a.addForm)
	}
	if a.showHelp {
		return a.viewHelp()
	}
	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := max(a.height, 5)
	msg := fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  wishjar needs at least %d columns.\n",
		a.width,
		minTerminalWidth,
	)
	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewLoading() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(2, 4)

	logoStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	subtitleStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	var b strings.Builder
	b.WriteString(logoStyle.Render("◈ wishjar"))
	b.WriteString(subtitleStyle.Render(" · savings planner"))
	b.WriteString("\n\n")
	b.WriteString(a.spinner.View())
	b.WriteString(subtitleStyle.Render(" Loading wishes for " + model.MaskKey(a.key) + "..."))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewForm(title string, f *huh.Form) string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Padding(1, 3)
	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Bold(true)
	hintStyle := lipgloss.NewStyle().Foreground(t.TextDim)

	body := titleStyle.Render("◈ "+title) + "\n\n" + f.View() + "\n" + hintStyle.Render("esc to cancel")
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(body),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3)
	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	sectionStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	sections := []struct {
		name     string
		bindings []struct{ key, desc string }
	}{
		{"Navigation", []struct{ key, desc string }{
			{"w f s", "Jump to tab"},
			{"← → tab", "Previous / Next tab"},
			{"j k", "Move selection"},
		}},
		{"Wishes", []struct{ key, desc string }{
			{"a", "Add a wish"},
			{"d", "Delete selected wish"},
			{"J K", "Move selected wish down / up"},
		}},
		{"Session", []struct{ key, desc string }{
			{"^s S", "Save"},
			{"?", "Toggle help"},
			{"q", "Quit"},
		}},
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n")
	for _, sec := range sections {
		b.WriteString("\n")
		b.WriteString(sectionStyle.Render(sec.name))
		b.WriteString("\n")
		for _, bind := range sec.bindings {
			fmt.Fprintf(&b, "  %s  %s\n",
				keyStyle.Render(fmt.Sprintf("%-8s", bind.key)),
				descStyle.Render(bind.desc))
		}
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()
	h := a.height

	header := components.RenderTabBar(a.activeTab, w)
	statusBar := components.RenderStatusBar(w, components.Status{
		KeyHint: model.MaskKey(a.key),
		Dirty:   a.ctrl.Dirty(),
		Saving:  a.saving,
		Message: a.message,
		Warn:    !a.messageOK,
	})

	contentH := max(h-lipgloss.Height(header)-lipgloss.Height(statusBar), minContentHeight)

	var content string
	switch a.activeTab {
	case tabWishes:
		content = a.renderWishesTab(cw, contentH)
	case tabForecast:
		content = a.renderForecastTab(cw)
	case tabSettings:
		content = a.renderSettingsTab(cw)
	}

	content = padHeight(truncateHeight(content, contentH), contentH)
	content = fillLinesWithBackground(content, cw, t.Background)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
	return lipgloss.Place(w, h, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

// money formats an amount with the configured currency.
func (a App) money(v float64) string {
	return cli.FormatMoney(v, a.cfg.Appearance.Currency)
}

// ─── Helpers ────────────────────────────────────────────────────

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
	return s + strings.Repeat("\n", h-len(lines))
}

// fillLinesWithBackground pads each line to width w with the background color.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")

	var result strings.Builder
	for i, line := range lines {
		result.WriteString(lipgloss.PlaceHorizontal(w, lipgloss.Left, line,
			lipgloss.WithWhitespaceBackground(bg)))
		if i < len(lines)-1 {
			result.WriteString("\n")
		}
	}
	return result.String()
}

// tabAtX returns the tab index at the given X coordinate, or -1 if none.
// Hitboxes follow the widths RenderTabBar draws.
func (a App) tabAtX(x int) int {
	pos := 0
	for i, tab := range components.Tabs {
		tabW := components.TabVisualWidth(tab, i == a.activeTab)
		if x >= pos && x < pos+tabW {
			return i
		}
		pos += tabW
		if i < len(components.Tabs)-1 {
			pos++ // separator
		}
	}
	return -1
}
