// Package role asks who is taking the test.
package role

import (
	"errors"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/google/uuid"

	"github.com/abhisek/sportsmind/internal/battery"
	"github.com/abhisek/sportsmind/internal/router"
	"github.com/abhisek/sportsmind/internal/screen"
	"github.com/abhisek/sportsmind/internal/screens/env"
	"github.com/abhisek/sportsmind/internal/screens/survey"
	"github.com/abhisek/sportsmind/internal/ui/components"
	"github.com/abhisek/sportsmind/internal/ui/layout"
	"github.com/abhisek/sportsmind/internal/ui/theme"
)

// Params preselects what the screen would otherwise ask for.
type Params struct {
	Role   battery.Role
	Resume bool
}

type step int

const (
	stepRole step = iota
	stepRespondent
)

var roleBlurb = map[battery.Role]string{
	battery.RolePlayer: "the athlete answers about themself",
	battery.RoleCoach:  "a coach answers about the athlete",
	battery.RoleMother: "the athlete's mother answers",
	battery.RoleFather: "the athlete's father answers",
	battery.RoleAdult:  "an adult athlete answers",
}

// RoleScreen picks the respondent role and, when none is configured, the
// respondent UUID.
type RoleScreen struct {
	env    env.Env
	params Params
	roles  []battery.Role
	cursor int
	step   step
	input  components.TextInput
}

var _ screen.Screen = (*RoleScreen)(nil)
var _ screen.KeyHintProvider = (*RoleScreen)(nil)

// New creates a RoleScreen.
func New(e env.Env, p Params) *RoleScreen {
	s := &RoleScreen{
		env:    e.WithDefaults(),
		params: p,
		roles:  battery.Roles(),
		input:  components.NewTextInput("00000000-0000-0000-0000-000000000000", 36, validateRespondent),
	}
	if p.Role != "" {
		for i, r := range s.roles {
			if r == p.Role {
				s.cursor = i
			}
		}
		s.step = stepRespondent
	}
	return s
}

func validateRespondent(v string) error {
	if v == "" {
		return errors.New("respondent ID is required")
	}
	if _, err := uuid.Parse(v); err != nil {
		return fmt.Errorf("not a UUID: %v", err)
	}
	return nil
}

func (s *RoleScreen) Init() tea.Cmd {
	if s.step == stepRespondent {
		return s.input.Init()
	}
	return nil
}

func (s *RoleScreen) Title() string {
	if s.params.Resume {
		return "Resume Draft"
	}
	return "Who Is Answering?"
}

func (s *RoleScreen) KeyHints() []layout.KeyHint {
	if s.step == stepRespondent {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Continue"},
			{Key: "Esc", Description: "Back"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Choose"},
		{Key: "Enter", Description: "Continue"},
		{Key: "Esc", Description: "Back"},
	}
}

// Selected returns the highlighted role.
func (s *RoleScreen) Selected() battery.Role {
	return s.roles[s.cursor]
}

func (s *RoleScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		if s.step == stepRespondent {
			var cmd tea.Cmd
			s.input, cmd = s.input.Update(msg)
			return s, cmd
		}
		return s, nil
	}

	if s.step == stepRole {
		switch kmsg.String() {
		case "up", "k":
			if s.cursor > 0 {
				s.cursor--
			}
		case "down", "j":
			if s.cursor < len(s.roles)-1 {
				s.cursor++
			}
		case "enter":
			if s.env.Respondent != "" {
				return s, s.proceed(s.env.Respondent)
			}
			s.step = stepRespondent
			return s, s.input.Init()
		}
		return s, nil
	}

	if kmsg.String() == "enter" {
		if err := s.input.Check(); err != nil {
			return s, nil
		}
		return s, s.proceed(s.input.Value())
	}
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *RoleScreen) proceed(respondent string) tea.Cmd {
	next := survey.New(s.env, survey.Params{
		Role:       s.Selected(),
		Respondent: respondent,
		Resume:     s.params.Resume,
	})
	return func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
}

func (s *RoleScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	if cw > 60 {
		cw = 60
	}

	var b strings.Builder
	for i, r := range s.roles {
		line := fmt.Sprintf("%-8s %s", r.DisplayName(), lipgloss.NewStyle().Foreground(theme.TextDim).Render(roleBlurb[r]))
		if i == s.cursor {
			b.WriteString(theme.Selected.Render("▸ ") + theme.Selected.Render(r.DisplayName()))
			b.WriteString(strings.TrimPrefix(line, r.DisplayName()) + "\n")
		} else {
			b.WriteString("  " + theme.Unselected.Render(line) + "\n")
		}
	}
	body := components.TitledPanel("Respondent role", strings.TrimRight(b.String(), "\n"), cw)

	if s.step == stepRespondent {
		prompt := fmt.Sprintf("Respondent ID for %s", s.Selected().DisplayName())
		body += "\n\n" + components.TitledPanel(prompt, s.input.View(), cw)
	}
	return layout.RenderCentered(body, width, height)
}
