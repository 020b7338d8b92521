package home

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/sportsmind/internal/battery"
	"github.com/abhisek/sportsmind/internal/router"
	"github.com/abhisek/sportsmind/internal/screen"
	"github.com/abhisek/sportsmind/internal/screens/env"
	"github.com/abhisek/sportsmind/internal/screens/history"
	"github.com/abhisek/sportsmind/internal/screens/role"
	"github.com/abhisek/sportsmind/internal/screens/survey"
	"github.com/abhisek/sportsmind/internal/store"
	"github.com/abhisek/sportsmind/internal/ui/components"
	"github.com/abhisek/sportsmind/internal/ui/layout"
	"github.com/abhisek/sportsmind/pkg/logger"
)

const (
	itemStart = iota
	itemResume
	itemHistory
	itemQuit
)

type draftsLoadedMsg struct {
	drafts []store.DraftSummary
}

// HomeScreen is the main menu.
type HomeScreen struct {
	env    env.Env
	menu   components.Menu
	drafts []store.DraftSummary
	now    func() time.Time
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.KeyHintProvider = (*HomeScreen)(nil)

// New creates a new HomeScreen.
func New(e env.Env) *HomeScreen {
	h := &HomeScreen{env: e.WithDefaults(), now: time.Now}
	h.menu = h.buildMenu()
	return h
}

// Init reloads the draft list; the router calls it again whenever the
// stack unwinds back home.
func (h *HomeScreen) Init() tea.Cmd {
	drafts := h.env.Drafts
	if drafts == nil {
		return nil
	}
	log := h.env.Logger
	return func() tea.Msg {
		ctx, cancel := h.env.Context()
		defer cancel()
		list, err := drafts.List(ctx)
		if err != nil {
			log.Warn(ctx, "draft list failed", logger.Error(err))
		}
		return draftsLoadedMsg{drafts: list}
	}
}

func (h *HomeScreen) Title() string {
	return "Home"
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if m, ok := msg.(draftsLoadedMsg); ok {
		h.drafts = m.drafts
		selected := h.menu.Selected
		h.menu = h.buildMenu()
		if selected < len(h.menu.Items) && !h.menu.Items[selected].Disabled {
			h.menu.Selected = selected
		}
		return h, nil
	}
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	compact := layout.IsCompactWidth(width) || height < 22
	cw := components.ContentWidth(width)
	if cw > 56 {
		cw = 56
	}

	sections := []string{
		renderBanner(cw, compact),
		renderMenuBox(h.menu.View(), cw),
	}
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(strings.Join(sections, "\n\n"))
}

func (h *HomeScreen) buildMenu() components.Menu {
	items := make([]components.MenuItem, 4)
	items[itemStart] = components.MenuItem{Label: "START TEST", Action: h.start}
	items[itemResume] = components.MenuItem{Label: "RESUME DRAFT", Action: h.resume, Disabled: len(h.drafts) == 0}
	if len(h.drafts) > 0 {
		items[itemResume].Detail = draftDetail(h.drafts[0], h.now())
	}
	items[itemHistory] = components.MenuItem{Label: "HISTORY", Action: h.history}
	items[itemQuit] = components.MenuItem{Label: "QUIT", Action: func() tea.Cmd { return tea.Quit }}
	return components.NewMenu(items)
}

func (h *HomeScreen) start() tea.Cmd {
	return h.open(h.env.Role, false)
}

func (h *HomeScreen) resume() tea.Cmd {
	if len(h.drafts) == 0 {
		return nil
	}
	return h.open(h.drafts[0].Role, true)
}

// open skips the role screen when both the role and respondent are known.
func (h *HomeScreen) open(r battery.Role, resume bool) tea.Cmd {
	var next screen.Screen
	if r != "" && h.env.Respondent != "" {
		next = survey.New(h.env, survey.Params{Role: r, Respondent: h.env.Respondent, Resume: resume})
	} else {
		next = role.New(h.env, role.Params{Role: r, Resume: resume})
	}
	return func() tea.Msg { return router.PushScreenMsg{Screen: next} }
}

func (h *HomeScreen) history() tea.Cmd {
	return func() tea.Msg { return router.PushScreenMsg{Screen: history.New(h.env)} }
}
