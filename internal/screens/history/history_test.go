package history

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/sportsmind/internal/battery"
	"github.com/abhisek/sportsmind/internal/catalog"
	"github.com/abhisek/sportsmind/internal/router"
	"github.com/abhisek/sportsmind/internal/screens/env"
	"github.com/abhisek/sportsmind/internal/screens/result"
)

type pagedCatalog struct {
	total   int
	err     error
	queries []catalog.HistoryQuery
}

func (p *pagedCatalog) Questions(context.Context, battery.Role) ([]battery.Question, error) {
	return nil, nil
}

func (p *pagedCatalog) Submit(context.Context, catalog.Submission) (*catalog.Result, error) {
	return nil, errors.New("unused")
}

func (p *pagedCatalog) History(_ context.Context, q catalog.HistoryQuery) (*catalog.History, error) {
	p.queries = append(p.queries, q)
	if p.err != nil {
		return nil, p.err
	}
	h := &catalog.History{TotalCount: p.total}
	for i := q.Offset; i < q.Offset+q.Limit && i < p.total; i++ {
		h.Results = append(h.Results, catalog.Result{ResultID: fmt.Sprintf("r-%02d", i), TargetSelection: "player"})
	}
	return h, nil
}

func (p *pagedCatalog) Result(context.Context, string) (*catalog.Result, error) {
	return nil, errors.New("unused")
}

// run executes cmd and feeds its message back into the screen.
func run(s *HistoryScreen, cmd tea.Cmd) {
	if cmd != nil {
		s.Update(cmd())
	}
}

func key(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func TestHistoryScreen_Paging(t *testing.T) {
	cat := &pagedCatalog{total: 25}
	s := New(env.Env{Catalog: cat})
	run(s, s.Init())

	if len(s.results) != PageSize || s.total != 25 {
		t.Fatalf("results = %d, total = %d", len(s.results), s.total)
	}
	if !strings.Contains(s.View(100, 40), "page 1 of 3") {
		t.Error("view should show the page count")
	}

	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyRight})
	run(s, cmd)
	_, cmd = s.Update(tea.KeyPressMsg{Code: tea.KeyRight})
	run(s, cmd)
	if s.offset != 20 || len(s.results) != 5 {
		t.Errorf("offset = %d, results = %d", s.offset, len(s.results))
	}

	_, cmd = s.Update(tea.KeyPressMsg{Code: tea.KeyRight})
	if cmd != nil {
		t.Error("paging past the end should not fetch")
	}

	_, cmd = s.Update(tea.KeyPressMsg{Code: tea.KeyLeft})
	run(s, cmd)
	if s.offset != 10 {
		t.Errorf("offset = %d, want 10", s.offset)
	}
	if len(cat.queries) != 4 {
		t.Errorf("queries = %d, want 4", len(cat.queries))
	}
}

func TestHistoryScreen_SortAndPeriodResetOffset(t *testing.T) {
	cat := &pagedCatalog{total: 25}
	s := New(env.Env{Catalog: cat})
	run(s, s.Init())
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyRight})
	run(s, cmd)

	_, cmd = s.Update(key('o'))
	run(s, cmd)
	q := cat.queries[len(cat.queries)-1]
	if q.SortBy != "score" || q.Offset != 0 {
		t.Errorf("query = %+v", q)
	}

	s.Update(key('p'))
	_, cmd = s.Update(key('p'))
	run(s, cmd)
	if got := s.Query().Period; got != "3months" {
		t.Errorf("period = %q", got)
	}
}

func TestHistoryScreen_OpenResult(t *testing.T) {
	s := New(env.Env{Catalog: &pagedCatalog{total: 3}})
	run(s, s.Init())
	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})

	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	msg, ok := cmd().(router.PushScreenMsg)
	if !ok {
		t.Fatal("expected PushScreenMsg")
	}
	r, ok := msg.Screen.(*result.ResultScreen)
	if !ok {
		t.Fatalf("screen = %T", msg.Screen)
	}
	if r.HandlesEscape() {
		t.Error("a history result should pop back to history")
	}
}

func TestHistoryScreen_Error(t *testing.T) {
	s := New(env.Env{Catalog: &pagedCatalog{err: errors.New("connection refused")}})
	run(s, s.Init())
	if s.err == nil {
		t.Fatal("error should be kept")
	}
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd != nil {
		t.Error("nothing to open")
	}
}
