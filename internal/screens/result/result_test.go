package result

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/sportsmind/internal/battery"
	"github.com/abhisek/sportsmind/internal/catalog"
	"github.com/abhisek/sportsmind/internal/insight"
	"github.com/abhisek/sportsmind/internal/llm"
	"github.com/abhisek/sportsmind/internal/router"
	"github.com/abhisek/sportsmind/internal/screens/env"
)

type stubProvider struct{}

func (stubProvider) Generate(context.Context, llm.Request) (*llm.Response, error) {
	b, _ := json.Marshal(map[string]any{
		"headline":    "Steady under pressure",
		"strengths":   []string{"courage"},
		"focus_areas": []string{"comparison"},
		"drills":      []string{"box breathing"},
	})
	return &llm.Response{Content: b}, nil
}

func (stubProvider) ModelID() string { return "stub" }

func sampleResult() catalog.Result {
	r := catalog.Result{
		ResultID:               "r-1",
		TargetSelection:        "coach",
		AthleteType:            "Anchor",
		AthleteTypeDescription: "Calm and reliable.",
		AthleteTypePercentages: map[string]float64{"Anchor": 60, "Striker": 40},
		SelfEsteemTotal:        140,
		SelfEsteemAnalysis:     "Self esteem is healthy.",
		Strengths:              []string{"Courage"},
		Weaknesses:             []string{"Comparison"},
	}
	r.Courage = 40
	return r
}

func TestResultScreen_RoleFromResult(t *testing.T) {
	s := New(env.Env{}, sampleResult(), Params{})
	if s.params.Role != battery.RoleCoach {
		t.Errorf("role = %q", s.params.Role)
	}
}

func TestResultScreen_ViewWithoutInsight(t *testing.T) {
	s := New(env.Env{}, sampleResult(), Params{})
	if cmd := s.Init(); cmd != nil {
		t.Error("no insight service, no command")
	}
	v := s.View(120, 200)
	for _, want := range []string{"Anchor", "Self esteem 140", "Courage"} {
		if !strings.Contains(v, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestResultScreen_Note(t *testing.T) {
	svc := insight.NewService(stubProvider{}, insight.DefaultConfig())
	s := New(env.Env{Insight: svc}, sampleResult(), Params{Role: battery.RolePlayer})

	cmd := s.Init()
	if cmd == nil || !s.loading {
		t.Fatal("expected a note request")
	}
	for _, c := range cmd().(tea.BatchMsg) {
		if m, ok := c().(noteMsg); ok {
			s.Update(m)
		}
	}
	if s.Note() == nil || s.Note().Headline != "Steady under pressure" {
		t.Fatalf("note = %+v", s.Note())
	}
	if !strings.Contains(s.View(120, 200), "Coaching note") {
		t.Error("view should show the note")
	}
}

func TestResultScreen_Escape(t *testing.T) {
	s := New(env.Env{}, sampleResult(), Params{})
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if _, ok := cmd().(router.PopToRootMsg); !ok {
		t.Error("after a test esc goes home")
	}

	h := New(env.Env{}, sampleResult(), Params{FromHistory: true})
	if h.HandlesEscape() {
		t.Error("history results leave esc to the app")
	}
}
