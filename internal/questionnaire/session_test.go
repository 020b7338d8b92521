package questionnaire

import (
	"context"
	"errors"
	"testing"

	"github.com/abhisek/sportsmind/internal/battery"
	"github.com/abhisek/sportsmind/internal/store"
)

func TestSession_SetAnswerSavesDraft(t *testing.T) {
	ctx := context.Background()
	drafts := store.NewMemoryDrafts()
	s := NewSession(sampleQuestions(), battery.RolePlayer, Options{Drafts: drafts})

	s.SetAnswer(ctx, 1, 4)
	s.SetAnswer(ctx, 2, 6)

	d, ok, err := drafts.Load(ctx, battery.RolePlayer)
	if err != nil || !ok {
		t.Fatalf("Load: ok=%v err=%v", ok, err)
	}
	if len(d.Answers) != 2 || d.Answers[2] != 6 {
		t.Errorf("draft answers = %v", d.Answers)
	}
	if s.Progress().Overall.AnsweredQuestions != 2 {
		t.Errorf("answered = %d", s.Progress().Overall.AnsweredQuestions)
	}
}

func TestSession_DraftFailureIgnored(t *testing.T) {
	drafts := store.NewMemoryDrafts()
	drafts.Err = errors.New("read-only")
	s := NewSession(sampleQuestions(), battery.RoleCoach, Options{Drafts: drafts})

	s.SetAnswer(context.Background(), 1, 4)
	if v, ok := s.Answers().Get(1); !ok || v != 4 {
		t.Error("answer must be kept when the draft save fails")
	}
	if s.RestoreDraft(context.Background()) {
		t.Error("failed load should not restore")
	}
}

func TestSession_RestoreDraft(t *testing.T) {
	ctx := context.Background()
	qs := sampleQuestions()
	drafts := store.NewMemoryDrafts()

	// courage and resilience answered, cooperation partially
	saved := map[int]float64{}
	for n := 1; n <= 14; n++ {
		saved[n] = 7
	}
	if err := drafts.Save(ctx, battery.RoleMother, saved); err != nil {
		t.Fatal(err)
	}

	sched := &ManualScheduler{}
	s := NewSession(qs, battery.RoleMother, Options{Drafts: drafts, Scheduler: sched})
	if !s.RestoreDraft(ctx) {
		t.Fatal("RestoreDraft returned false")
	}
	if s.Answers().Len() != 14 {
		t.Errorf("restored %d answers", s.Answers().Len())
	}
	cur, _ := s.CurrentSection()
	if cur.Section != "cooperation" {
		t.Errorf("current = %s, want cooperation", cur.Section)
	}
	if sched.Schedules != 0 {
		t.Error("restoring must not schedule an advance")
	}
}

func TestSession_RestoreOtherRoleIgnored(t *testing.T) {
	ctx := context.Background()
	drafts := store.NewMemoryDrafts()
	drafts.Save(ctx, battery.RoleFather, map[int]float64{1: 1})

	s := NewSession(sampleQuestions(), battery.RolePlayer, Options{Drafts: drafts})
	if s.RestoreDraft(ctx) {
		t.Error("a father draft must not restore into a player session")
	}
}

func TestSession_IntegrityAndClose(t *testing.T) {
	ctx := context.Background()
	sched := &ManualScheduler{}
	s := NewSession(sampleQuestions(), battery.RolePlayer, Options{Scheduler: sched})

	for n := 1; n <= 6; n++ {
		s.SetAnswer(ctx, n, 3)
	}
	if !sched.Pending() {
		t.Fatal("completing courage should schedule an advance")
	}
	if err := s.Integrity(); err != nil {
		t.Errorf("Integrity: %v", err)
	}

	s.SetAnswer(ctx, 999, 3)
	var ie *IntegrityError
	if !errors.As(s.Integrity(), &ie) {
		t.Error("orphaned answer not reported")
	}

	s.Close()
	if sched.Pending() {
		t.Error("Close should cancel the advance")
	}
}
