package role

import (
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/sportsmind/internal/battery"
	"github.com/abhisek/sportsmind/internal/router"
	"github.com/abhisek/sportsmind/internal/screens/env"
	"github.com/abhisek/sportsmind/internal/screens/survey"
)

const respondent = "0b6f1a8e-4a43-4f5e-9d55-7d1c1c0e2a10"

func typeText(s *RoleScreen, text string) {
	for _, r := range text {
		s.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
}

func TestRoleScreen_ConfiguredRespondentSkipsInput(t *testing.T) {
	s := New(env.Env{Respondent: respondent}, Params{})
	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})

	msg, ok := cmd().(router.ReplaceScreenMsg)
	if !ok {
		t.Fatal("expected ReplaceScreenMsg")
	}
	next, ok := msg.Screen.(*survey.SurveyScreen)
	if !ok {
		t.Fatalf("next = %T", msg.Screen)
	}
	if next.Title() != "Test · "+battery.Roles()[1].DisplayName() {
		t.Errorf("title = %q", next.Title())
	}
}

func TestRoleScreen_AsksForRespondent(t *testing.T) {
	s := New(env.Env{}, Params{})
	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if s.step != stepRespondent {
		t.Fatal("expected the respondent step")
	}

	typeText(s, "not-a-uuid")
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd != nil {
		t.Error("invalid UUID must not continue")
	}

	s.input.Model.SetValue(respondent)
	_, cmd = s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("valid UUID should continue")
	}
	if _, ok := cmd().(router.ReplaceScreenMsg); !ok {
		t.Error("expected ReplaceScreenMsg")
	}
}

func TestRoleScreen_PreselectedRole(t *testing.T) {
	s := New(env.Env{}, Params{Role: battery.RoleFather, Resume: true})
	if s.Selected() != battery.RoleFather || s.step != stepRespondent {
		t.Errorf("selected = %s, step = %d", s.Selected(), s.step)
	}
	if s.Title() != "Resume Draft" {
		t.Errorf("title = %q", s.Title())
	}
}
