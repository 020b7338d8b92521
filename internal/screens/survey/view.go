package survey

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/sportsmind/internal/battery"
	"github.com/abhisek/sportsmind/internal/submission"
	"github.com/abhisek/sportsmind/internal/ui/components"
	"github.com/abhisek/sportsmind/internal/ui/layout"
	"github.com/abhisek/sportsmind/internal/ui/theme"
)

// linesPerQuestion is text, scale and a spacer.
const linesPerQuestion = 3

func (s *SurveyScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	switch s.phase {
	case phaseLoading:
		return layout.RenderCentered(
			s.spin.View()+" Loading questions for "+s.params.Role.DisplayName()+"...", width, height)
	case phaseSubmitting:
		return layout.RenderCentered(s.spin.View()+" Submitting answers...", width, height)
	case phaseUnavailable:
		m := submission.Describe(s.loadErr)
		lines := append(m.Lines, "", "Press r to retry or esc to go back.")
		return layout.RenderCentered(components.ErrorPanel(m.Title, lines, cw), width, height)
	}

	sec, ok := s.session.CurrentSection()
	if !ok {
		return layout.RenderCentered(theme.Hint.Render("No sections to answer."), width, height)
	}

	var parts []string

	cat := s.env.Index.Categories[sec.CategoryIndex].Title
	heading := theme.Heading.Render(cat+" › "+sec.Title) +
		lipgloss.NewStyle().Foreground(theme.TextDim).
			Render(fmt.Sprintf("  %d/%d", sec.AnsweredQuestions, sec.TotalQuestions))
	parts = append(parts, heading)
	if sec.Description != "" {
		parts = append(parts, theme.Hint.Render(sec.Description))
	}

	overall := s.session.Progress().Overall
	parts = append(parts, components.NewProgressBar("Overall", overall.Percentage, true, cw).View())
	if s.restored {
		parts = append(parts, lipgloss.NewStyle().Foreground(theme.Secondary).Render("Draft restored."))
	}
	parts = append(parts, "")

	used := 0
	for _, p := range parts {
		used += lipgloss.Height(p)
	}
	footer := s.footer(cw)
	avail := height - used - lipgloss.Height(footer)

	if s.jumpOpen {
		parts = append(parts, s.renderJumpList(cw))
	} else {
		parts = append(parts, s.renderQuestions(sec.Questions, cw, avail))
	}
	if footer != "" {
		parts = append(parts, footer)
	}

	return lipgloss.NewStyle().Padding(0, 2).Render(strings.Join(parts, "\n"))
}

func (s *SurveyScreen) footer(cw int) string {
	var parts []string
	if s.sched.Pending() {
		parts = append(parts, lipgloss.NewStyle().Foreground(theme.Success).
			Render("Section complete. Moving on... (any change keeps you here)"))
	}
	if s.session.Progress().Overall.Completed {
		parts = append(parts, lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).
			Render("All sections answered. Press s to submit."))
	}
	if s.notice.Title != "" {
		parts = append(parts, components.ErrorPanel(s.notice.Title, s.notice.Lines, cw))
	}
	return strings.Join(parts, "\n")
}

// renderQuestions shows the window of questions that fits, keeping the
// focused one visible.
func (s *SurveyScreen) renderQuestions(qs []battery.Question, cw, avail int) string {
	start, end := window(len(qs), s.focus, avail/linesPerQuestion)

	var b strings.Builder
	if start > 0 {
		b.WriteString(theme.Hint.Render(fmt.Sprintf("  ↑ %d more", start)) + "\n")
	}
	for i := start; i < end; i++ {
		q := qs[i]
		focused := i == s.focus
		v, answered := s.session.Answers().Get(q.Number)

		marker := "  "
		style := theme.Unselected
		if focused {
			marker = "▸ "
			style = theme.Selected
		}
		check := theme.Pending.Render("○")
		if answered {
			check = theme.Answered.Render("●")
		}
		text := lipgloss.NewStyle().Width(cw - 8).Render(fmt.Sprintf("%d. %s", q.Number, q.Text))
		b.WriteString(style.Render(marker) + check + " " + style.Render(text) + "\n")

		sc := components.Scale{Cursor: s.cursorFor(q), Value: v, Answered: answered, Focused: focused}
		b.WriteString("    " + sc.View() + "\n\n")
	}
	if end < len(qs) {
		b.WriteString(theme.Hint.Render(fmt.Sprintf("  ↓ %d more", len(qs)-end)))
	}
	return strings.TrimRight(b.String(), "\n")
}

// window picks [start, end) of size at most size around focus.
func window(n, focus, size int) (int, int) {
	if size < 1 {
		size = 1
	}
	if n <= size {
		return 0, n
	}
	start := focus - size/2
	if start < 0 {
		start = 0
	}
	if start+size > n {
		start = n - size
	}
	return start, start + size
}

func (s *SurveyScreen) renderJumpList(cw int) string {
	cur := s.session.Navigator().Position()
	var b strings.Builder
	for i, t := range s.jumps {
		label := fmt.Sprintf("%s › %s", s.env.Index.Categories[t.CategoryIndex].Title, t.Title)
		state := theme.Answered.Render("done")
		if t.Position() == cur {
			state = lipgloss.NewStyle().Foreground(theme.Accent).Render("current")
		}
		if i == s.jumpCursor {
			b.WriteString(theme.Selected.Render("▸ "+label) + "  " + state + "\n")
		} else {
			b.WriteString("  " + theme.Unselected.Render(label) + "  " + state + "\n")
		}
	}
	return components.TitledPanel("Jump to section", strings.TrimRight(b.String(), "\n"), cw)
}
