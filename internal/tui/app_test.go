package tui

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/theirongolddev/wishjar/internal/config"
	"github.com/theirongolddev/wishjar/internal/model"
	"github.com/theirongolddev/wishjar/internal/session"
	"github.com/theirongolddev/wishjar/internal/store"
	"github.com/theirongolddev/wishjar/internal/tui/components"

	tea "github.com/charmbracelet/bubbletea"
)

func TestTabAtXMatchesTabWidths(t *testing.T) {
	for active := range components.Tabs {
		a := App{activeTab: active}
		pos := 0

		for i, tab := range components.Tabs {
			w := components.TabVisualWidth(tab, i == active)
			x := pos + w/2
			if got := a.tabAtX(x); got != i {
				t.Fatalf("active=%d x=%d -> tab=%d, want %d", active, x, got, i)
			}
			pos += w + 1
		}
		if got := a.tabAtX(pos + 50); got != -1 {
			t.Fatalf("tabAtX past the bar = %d, want -1", got)
		}
	}
}

type harness struct {
	t     *testing.T
	store *store.Memory
	ctrl  *session.Controller
	saved []config.Config
	app   App
}

func newHarness(t *testing.T, key string) *harness {
	t.Helper()
	h := &harness{t: t, store: store.NewMemory()}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h.ctrl = session.New(h.store, session.WithLogger(logger),
		session.WithDefaults(model.SavingsConfig{DailySaving: 20}))
	h.app = NewApp(h.ctrl, Options{
		Config: config.DefaultConfig(),
		Key:    key,
		Logger: logger,
		SaveConfig: func(c config.Config) error {
			h.saved = append(h.saved, c)
			return nil
		},
		Now: func() time.Time { return time.Date(2026, 10, 17, 12, 0, 0, 0, time.Local) },
	})
	h.send(tea.WindowSizeMsg{Width: 120, Height: 40})
	return h
}

func (h *harness) send(msg tea.Msg) tea.Cmd {
	h.t.Helper()
	m, cmd := h.app.Update(msg)
	app, ok := m.(App)
	if !ok {
		h.t.Fatalf("Update returned %T, want App", m)
	}
	h.app = app
	return cmd
}

func (h *harness) key(s string) tea.Cmd {
	h.t.Helper()
	switch s {
	case "ctrl+s":
		return h.send(tea.KeyMsg{Type: tea.KeyCtrlS})
	case "enter":
		return h.send(tea.KeyMsg{Type: tea.KeyEnter})
	case "esc":
		return h.send(tea.KeyMsg{Type: tea.KeyEsc})
	}
	return h.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
}

func (h *harness) load() {
	h.t.Helper()
	h.send(loadCmd(h.ctrl, h.app.key)())
	if !h.app.loaded {
		h.t.Fatal("app not loaded after RecordLoadedMsg")
	}
}

func (h *harness) names() string {
	parts := make([]string, len(h.app.rec.Wishes))
	for i, w := range h.app.rec.Wishes {
		parts[i] = w.Name
	}
	return strings.Join(parts, ",")
}

func TestNoKeyShowsPrompt(t *testing.T) {
	h := newHarness(t, "")
	if h.app.keyForm == nil {
		t.Fatal("keyForm = nil without a user key")
	}
	if !strings.Contains(h.app.View(), "Who is saving?") {
		t.Fatal("view does not show the key prompt")
	}
	if h.app.loading {
		t.Fatal("app loading without a user key")
	}
	if cmd := h.key("esc"); cmd == nil {
		t.Fatal("esc on the key prompt did not quit")
	}
}

func TestLoadShowsWishes(t *testing.T) {
	h := newHarness(t, "alice")
	if !h.app.loading {
		t.Fatal("app not loading with a key")
	}
	if !strings.Contains(h.app.View(), "Loading wishes") {
		t.Fatal("loading view missing")
	}

	h.load()
	if !strings.Contains(h.app.View(), "No wishes yet") {
		t.Fatal("empty list hint missing")
	}

	_, _ = h.ctrl.AddWish("Headphones", 300)
	_, _ = h.ctrl.AddWish("Bike", 2000)
	h.app.refresh()

	view := h.app.View()
	for _, want := range []string{"Headphones", "Bike", "2026-11-01", "2027-02-09"} {
		if !strings.Contains(view, want) {
			t.Fatalf("wishes view missing %q", want)
		}
	}
}

func TestReorderDeleteAndSave(t *testing.T) {
	h := newHarness(t, "alice")
	h.load()
	for _, n := range []string{"A", "B", "C"} {
		if _, err := h.ctrl.AddWish(n, 10); err != nil {
			t.Fatalf("AddWish: %v", err)
		}
	}
	h.app.refresh()

	h.key("J")
	if got := h.names(); got != "B,A,C" {
		t.Fatalf("after J = %s, want B,A,C", got)
	}
	if h.app.cursor != 1 {
		t.Fatalf("cursor = %d, want 1", h.app.cursor)
	}

	h.key("d")
	if got := h.names(); got != "B,C" {
		t.Fatalf("after d = %s, want B,C", got)
	}

	cmd := h.key("ctrl+s")
	if cmd == nil || !h.app.saving {
		t.Fatal("ctrl+s did not start a save")
	}
	h.send(cmd())
	if h.app.saving || h.ctrl.Dirty() {
		t.Fatal("still saving or dirty after SavedMsg")
	}

	rec, err := h.store.Fetch(context.Background(), "alice")
	if err != nil || rec == nil {
		t.Fatalf("Fetch = %v, %v", rec, err)
	}
	if len(rec.Wishes) != 2 || rec.Wishes[0].Name != "B" {
		t.Fatalf("stored wishes = %+v, want B,C", rec.Wishes)
	}
}

func TestQuitAsksWhenDirty(t *testing.T) {
	h := newHarness(t, "alice")
	h.load()
	_, _ = h.ctrl.AddWish("Desk", 150)

	if cmd := h.key("q"); cmd != nil {
		t.Fatal("q quit with unsaved changes")
	}
	if !h.app.quitArmed {
		t.Fatal("quit not armed")
	}
	if cmd := h.key("q"); cmd == nil {
		t.Fatal("second q did not quit")
	}
}

func TestAddFormEscCancels(t *testing.T) {
	h := newHarness(t, "alice")
	h.load()

	h.key("a")
	if h.app.addForm == nil {
		t.Fatal("a did not open the add form")
	}
	h.key("esc")
	if h.app.addForm != nil {
		t.Fatal("esc did not close the add form")
	}
}

func TestTabSwitching(t *testing.T) {
	h := newHarness(t, "alice")
	h.load()

	h.key("f")
	if h.app.activeTab != tabForecast {
		t.Fatalf("activeTab = %d, want forecast", h.app.activeTab)
	}
	if !strings.Contains(h.app.View(), "Total days") {
		t.Fatal("forecast view missing metric cards")
	}
	h.key("s")
	if h.app.activeTab != tabSettings {
		t.Fatalf("activeTab = %d, want settings", h.app.activeTab)
	}
	h.key("w")
	if h.app.activeTab != tabWishes {
		t.Fatalf("activeTab = %d, want wishes", h.app.activeTab)
	}
}

func TestSettingsApply(t *testing.T) {
	h := newHarness(t, "alice")
	h.load()
	h.app.activeTab = tabSettings

	h.app.settings.cursor = settingsFieldDaily
	if err := h.app.settingsApply("35"); err != nil {
		t.Fatalf("settingsApply(daily): %v", err)
	}
	if h.app.rec.DailySaving != 35 || !h.ctrl.Dirty() {
		t.Fatalf("DailySaving = %v dirty=%v, want 35 and dirty", h.app.rec.DailySaving, h.ctrl.Dirty())
	}
	if len(h.saved) != 0 {
		t.Fatal("savings change wrote the config file")
	}

	h.app.settings.cursor = settingsFieldBalance
	if err := h.app.settingsApply("-3"); err == nil {
		t.Fatal("negative balance accepted")
	}

	h.app.settings.cursor = settingsFieldTheme
	if err := h.app.settingsApply("no-such-theme"); err == nil {
		t.Fatal("unknown theme accepted")
	}
	if err := h.app.settingsApply("tokyo-night"); err != nil {
		t.Fatalf("settingsApply(theme): %v", err)
	}
	if len(h.saved) != 1 || h.saved[0].Appearance.Theme != "tokyo-night" {
		t.Fatalf("saved configs = %+v", h.saved)
	}
}

func TestLoadWarningIsShown(t *testing.T) {
	h := newHarness(t, "alice")
	h.send(RecordLoadedMsg{Key: "alice", Err: &session.Warning{Key: "alice", Err: errors.New("db down")}})
	if !h.app.loaded {
		t.Fatal("app not usable after a load warning")
	}
	if h.app.messageOK || !strings.Contains(h.app.message, "db down") {
		t.Fatalf("message = %q ok=%v, want warning", h.app.message, h.app.messageOK)
	}
}
