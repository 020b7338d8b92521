package app

import (
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/sportsmind/internal/catalog"
	"github.com/abhisek/sportsmind/internal/router"
	"github.com/abhisek/sportsmind/internal/screens/env"
	"github.com/abhisek/sportsmind/internal/screens/result"
	"github.com/abhisek/sportsmind/internal/screens/role"
)

var esc = tea.KeyPressMsg{Code: tea.KeyEscape}

func TestEscAtRootDoesNothing(t *testing.T) {
	m := NewAppModel(env.Env{})
	_, cmd := m.Update(esc)
	if cmd != nil {
		t.Error("esc on home should be ignored")
	}
}

func TestEscPopsPlainScreens(t *testing.T) {
	e := env.Env{}
	m := NewAppModel(e)
	m.Update(router.PushScreenMsg{Screen: role.New(e, role.Params{})})

	_, cmd := m.Update(esc)
	if cmd == nil {
		t.Fatal("expected a pop")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Error("expected PopScreenMsg")
	}
}

func TestEscForwardedToHandlers(t *testing.T) {
	e := env.Env{}
	m := NewAppModel(e)
	m.Update(router.PushScreenMsg{Screen: result.New(e, catalog.Result{ResultID: "r"}, result.Params{})})

	_, cmd := m.Update(esc)
	if cmd == nil {
		t.Fatal("result screen should answer esc")
	}
	if _, ok := cmd().(router.PopToRootMsg); !ok {
		t.Error("a fresh result goes home on esc")
	}
}
