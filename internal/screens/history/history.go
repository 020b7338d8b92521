// Package history lists past results from the scoring service.
package history

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/sportsmind/internal/catalog"
	"github.com/abhisek/sportsmind/internal/router"
	"github.com/abhisek/sportsmind/internal/screen"
	"github.com/abhisek/sportsmind/internal/screens/env"
	"github.com/abhisek/sportsmind/internal/screens/result"
	"github.com/abhisek/sportsmind/internal/submission"
	"github.com/abhisek/sportsmind/internal/ui/layout"
	"github.com/abhisek/sportsmind/internal/ui/theme"
	"github.com/abhisek/sportsmind/pkg/logger"
)

// PageSize is how many results one page holds.
const PageSize = 10

var (
	sortOrders = []string{"date", "score"}
	periods    = []string{"all", "1month", "3months", "6months"}
)

type historyLoadedMsg struct {
	history *catalog.History
	err     error
}

// HistoryScreen displays past results, one page at a time.
type HistoryScreen struct {
	env      env.Env
	results  []catalog.Result
	total    int
	offset   int
	sortIdx  int
	period   int
	selected int
	loaded   bool
	err      error
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen.
func New(e env.Env) *HistoryScreen {
	return &HistoryScreen{env: e.WithDefaults()}
}

// Query returns the page the screen shows.
func (s *HistoryScreen) Query() catalog.HistoryQuery {
	return catalog.HistoryQuery{
		Limit:  PageSize,
		Offset: s.offset,
		SortBy: sortOrders[s.sortIdx],
		Period: periods[s.period],
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	return s.fetch()
}

func (s *HistoryScreen) fetch() tea.Cmd {
	e, q := s.env, s.Query()
	s.loaded = false
	return func() tea.Msg {
		ctx, cancel := e.Context()
		defer cancel()
		h, err := e.Catalog.History(ctx, q)
		if err != nil {
			e.Logger.Warn(ctx, "history fetch failed", logger.Error(err))
		}
		return historyLoadedMsg{history: h, err: err}
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Open"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "←→", Description: "Page"},
		{Key: "o", Description: "Sort"},
		{Key: "p", Description: "Period"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		s.loaded = true
		s.err = msg.err
		if msg.err == nil && msg.history != nil {
			s.results = msg.history.Results
			s.total = msg.history.TotalCount
		}
		if s.selected >= len(s.results) {
			s.selected = 0
		}
		return s, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(s.results)-1 {
				s.selected++
			}
		case "right", "l":
			if s.offset+PageSize < s.total {
				s.offset += PageSize
				s.selected = 0
				return s, s.fetch()
			}
		case "left", "h":
			if s.offset > 0 {
				s.offset -= PageSize
				if s.offset < 0 {
					s.offset = 0
				}
				s.selected = 0
				return s, s.fetch()
			}
		case "o":
			s.sortIdx = (s.sortIdx + 1) % len(sortOrders)
			s.offset, s.selected = 0, 0
			return s, s.fetch()
		case "p":
			s.period = (s.period + 1) % len(periods)
			s.offset, s.selected = 0, 0
			return s, s.fetch()
		case "r":
			return s, s.fetch()
		case "enter":
			if s.selected < len(s.results) {
				next := result.New(s.env, s.results[s.selected], result.Params{FromHistory: true})
				return s, func() tea.Msg { return router.PushScreenMsg{Screen: next} }
			}
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	center := func(style lipgloss.Style, text string) string {
		return style.Width(width).Align(lipgloss.Center).Render(text)
	}

	filter := fmt.Sprintf("sorted by %s · period %s", sortOrders[s.sortIdx], periods[s.period])

	if s.err != nil {
		m := submission.Describe(s.err)
		return center(lipgloss.NewStyle().Foreground(theme.Error),
			"\n\n"+m.Title+"\n"+strings.Join(m.Lines, "\n")+"\n\nPress r to retry.")
	}
	if !s.loaded {
		return center(lipgloss.NewStyle().Foreground(theme.TextDim), "\n\n  Loading history...")
	}
	if len(s.results) == 0 {
		return center(lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true),
			"\n\n  No results yet ("+filter+"). Take a test first.")
	}

	var b strings.Builder
	b.WriteString(center(theme.Hint, filter) + "\n\n")

	for i, r := range s.results {
		prefix := "  "
		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			prefix = "> "
			style = theme.Selected
		}
		line := fmt.Sprintf("%s%s  %-10s  %-10s  self esteem %5.1f  %s",
			prefix, r.TestDate.Local().Format("Jan 02, 2006"), r.AthleteType,
			r.TargetSelection, r.SelfEsteemTotal, strings.Join(r.Strengths, ", "))
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")
	}

	pages := (s.total + PageSize - 1) / PageSize
	b.WriteString("\n" + center(theme.Hint, fmt.Sprintf("page %d of %d · %d results", s.offset/PageSize+1, pages, s.total)))
	return b.String()
}
