// Package result shows a scored test.
package result

import (
	"fmt"
	"sort"
	"strings"

	"charm.land/bubbles/v2/spinner"
	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/sportsmind/internal/battery"
	"github.com/abhisek/sportsmind/internal/catalog"
	"github.com/abhisek/sportsmind/internal/insight"
	"github.com/abhisek/sportsmind/internal/router"
	"github.com/abhisek/sportsmind/internal/screen"
	"github.com/abhisek/sportsmind/internal/screens/env"
	"github.com/abhisek/sportsmind/internal/ui/components"
	"github.com/abhisek/sportsmind/internal/ui/layout"
	"github.com/abhisek/sportsmind/internal/ui/theme"
	"github.com/abhisek/sportsmind/pkg/logger"
)

// Params describes where the result came from.
type Params struct {
	// Role is who answered. Empty falls back to the result's own tag.
	Role battery.Role
	// FromHistory leaves esc to the app so it returns to the list.
	FromHistory bool
}

type noteMsg struct {
	note *insight.Note
	err  error
}

// ResultScreen renders scores, analysis and an optional coaching note.
type ResultScreen struct {
	env    env.Env
	result catalog.Result
	params Params

	view    viewport.Model
	spin    spinner.Model
	loading bool
	note    *insight.Note
	noteErr error

	width int
}

var _ screen.Screen = (*ResultScreen)(nil)
var _ screen.KeyHintProvider = (*ResultScreen)(nil)
var _ screen.EscapeHandler = (*ResultScreen)(nil)

// New creates a ResultScreen.
func New(e env.Env, r catalog.Result, p Params) *ResultScreen {
	if p.Role == "" {
		if role, err := battery.ParseRole(r.TargetSelection); err == nil {
			p.Role = role
		}
	}
	return &ResultScreen{
		env:    e.WithDefaults(),
		result: r,
		params: p,
		view:   viewport.New(),
		spin:   spinner.New(spinner.WithSpinner(spinner.MiniDot)),
	}
}

func (s *ResultScreen) Init() tea.Cmd {
	if !s.env.Insight.Enabled() {
		return nil
	}
	s.loading = true
	svc, e, r, role := s.env.Insight, s.env, s.result, s.params.Role
	return tea.Batch(s.spin.Tick, func() tea.Msg {
		ctx, cancel := e.Context()
		defer cancel()
		note, err := svc.Generate(ctx, r, role)
		if err != nil {
			e.Logger.Warn(ctx, "coaching note failed", logger.String("result_id", r.ResultID), logger.Error(err))
		}
		return noteMsg{note: note, err: err}
	})
}

func (s *ResultScreen) Title() string {
	return "Result"
}

func (s *ResultScreen) HandlesEscape() bool { return !s.params.FromHistory }

func (s *ResultScreen) KeyHints() []layout.KeyHint {
	back := "Home"
	if s.params.FromHistory {
		back = "Back"
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Scroll"},
		{Key: "Esc", Description: back},
	}
}

// Note returns the generated coaching note, if any.
func (s *ResultScreen) Note() *insight.Note { return s.note }

func (s *ResultScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case noteMsg:
		s.loading = false
		s.note, s.noteErr = msg.note, msg.err
		return s, nil

	case spinner.TickMsg:
		if !s.loading {
			return s, nil
		}
		var cmd tea.Cmd
		s.spin, cmd = s.spin.Update(msg)
		return s, cmd

	case tea.KeyPressMsg:
		switch msg.String() {
		case "esc":
			if s.params.FromHistory {
				return s, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return s, func() tea.Msg { return router.PopToRootMsg{} }
		case "up", "k":
			s.view.ScrollUp(1)
		case "down", "j":
			s.view.ScrollDown(1)
		case "pgup":
			s.view.PageUp()
		case "pgdown", "space":
			s.view.PageDown()
		}
	}
	return s, nil
}

func (s *ResultScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	s.view.SetWidth(cw + 2)
	s.view.SetHeight(height)
	s.view.SetContent(s.render(cw))
	return lipgloss.NewStyle().Width(width).Align(lipgloss.Center).Render(s.view.View())
}

func (s *ResultScreen) render(cw int) string {
	r := s.result
	var parts []string

	who := r.TargetSelection
	if s.params.Role != "" {
		who = s.params.Role.DisplayName()
	}
	parts = append(parts, components.TitledPanel(
		fmt.Sprintf("%s · %s", r.AthleteType, who),
		r.AthleteTypeDescription+"\n\n"+renderPercentages(r.AthleteTypePercentages, cw-6)+
			"\n\n"+theme.Hint.Render(r.TestDate.Local().Format("Jan 02, 2006 15:04")+" · "+r.ResultID),
		cw))

	parts = append(parts, components.TitledPanel(
		fmt.Sprintf("Self esteem %.0f / 200", r.SelfEsteemTotal),
		r.SelfEsteemAnalysis+bullets(r.SelfEsteemImprovements), cw))

	parts = append(parts, components.TitledPanel("Strengths and weaknesses",
		theme.Answered.Render("Strong: ")+strings.Join(r.Strengths, ", ")+"\n"+
			lipgloss.NewStyle().Foreground(theme.Warning).Render("Work on: ")+strings.Join(r.Weaknesses, ", ")+
			"\n\n"+r.SportsmanshipBalance,
		cw))

	for _, cat := range s.env.Index.Categories {
		parts = append(parts, components.TitledPanel(cat.Title, renderScores(cat, r.Scores.ByKey(), cw-6), cw))
	}

	parts = append(parts, s.renderNote(cw))
	return strings.Join(parts, "\n")
}

func (s *ResultScreen) renderNote(cw int) string {
	switch {
	case !s.env.Insight.Enabled():
		return ""
	case s.loading:
		return components.Panel(s.spin.View()+" Writing a coaching note...", cw)
	case s.noteErr != nil:
		return components.Panel(theme.Hint.Render("No coaching note: "+s.noteErr.Error()), cw)
	case s.note == nil:
		return ""
	}
	n := s.note
	body := theme.Body.Bold(true).Render(n.Headline)
	if len(n.Strengths) > 0 {
		body += "\n\n" + theme.Answered.Render("Keep doing") + bullets(n.Strengths)
	}
	if len(n.FocusAreas) > 0 {
		body += "\n\n" + lipgloss.NewStyle().Foreground(theme.Warning).Render("Focus on") + bullets(n.FocusAreas)
	}
	if len(n.Drills) > 0 {
		body += "\n\n" + lipgloss.NewStyle().Foreground(theme.Secondary).Render("Drills") + bullets(n.Drills)
	}
	return components.TitledPanel("Coaching note", body, cw)
}

func bullets(items []string) string {
	var b strings.Builder
	for _, it := range items {
		b.WriteString("\n • " + it)
	}
	return b.String()
}

// renderPercentages lists athlete types by share, highest first.
func renderPercentages(p map[string]float64, w int) string {
	type kv struct {
		k string
		v float64
	}
	list := make([]kv, 0, len(p))
	for k, v := range p {
		list = append(list, kv{k, v})
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].v != list[j].v {
			return list[i].v > list[j].v
		}
		return list[i].k < list[j].k
	})
	lines := make([]string, 0, len(list))
	for _, e := range list {
		lines = append(lines, components.NewProgressBar(fmt.Sprintf("%-10s", e.k), e.v, true, w).View())
	}
	return strings.Join(lines, "\n")
}

// renderScores draws one bar per section, scores scaled from 50.
func renderScores(cat battery.Category, scores map[string]float64, w int) string {
	lines := make([]string, 0, len(cat.Sections))
	for _, sec := range cat.Sections {
		v := scores[sec.Key]
		bar := components.NewProgressBar(fmt.Sprintf("%-20s", sec.Title), v*2, false, w-6)
		lines = append(lines, bar.View()+fmt.Sprintf(" %4.1f", v))
	}
	return strings.Join(lines, "\n")
}
