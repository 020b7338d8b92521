package questionnaire

import (
	"testing"
	"time"

	"github.com/abhisek/sportsmind/internal/battery"
)

type navFixture struct {
	qs    []battery.Question
	store *AnswerStore
	sched *ManualScheduler
	nav   *Navigator

	advanced  []Position
	cancelled int
}

func newNavFixture(t *testing.T) *navFixture {
	t.Helper()
	f := &navFixture{qs: sampleQuestions(), store: NewAnswerStore(), sched: &ManualScheduler{}}
	f.nav = NewNavigator(f.progress(),
		WithScheduler(f.sched),
		OnAutoAdvance(func(_, to Position) { f.advanced = append(f.advanced, to) }),
		OnAutoAdvanceCancelled(func() { f.cancelled++ }))
	return f
}

func (f *navFixture) progress() Progress {
	return Compute(f.qs, f.store, battery.DefaultIndex())
}

func (f *navFixture) answer(number int) {
	f.store.Set(number, 5)
	f.nav.Refresh(f.progress())
}

// answerSection answers the first n questions of the current section.
func (f *navFixture) answerSection(n int) {
	cur, _ := f.nav.Current()
	for _, q := range cur.Questions[:n] {
		f.answer(q.Number)
	}
}

func TestNavigator_StartsAtFirstSection(t *testing.T) {
	f := newNavFixture(t)
	if f.nav.Position() != (Position{}) {
		t.Errorf("Position = %+v", f.nav.Position())
	}
	if f.nav.CanPrev() || !f.nav.CanNext() {
		t.Error("first section: CanPrev should be false, CanNext true")
	}
}

func TestNavigator_NextPrevRoundTrip(t *testing.T) {
	f := newNavFixture(t)
	if !f.nav.Next() || !f.nav.Next() {
		t.Fatal("Next failed")
	}
	start := f.nav.Position()
	if !f.nav.Next() || !f.nav.Prev() {
		t.Fatal("Next/Prev failed")
	}
	if f.nav.Position() != start {
		t.Errorf("Position = %+v, want %+v", f.nav.Position(), start)
	}
}

func TestNavigator_CrossesCategories(t *testing.T) {
	f := newNavFixture(t)
	for i := 0; i < 5; i++ {
		f.nav.Next()
	}
	if got := f.nav.Position(); got != (Position{CategoryIndex: 1, SectionIndex: 0}) {
		t.Errorf("after 5 Next = %+v, want first athlete_mind section", got)
	}
	f.nav.Prev()
	if got := f.nav.Position(); got != (Position{CategoryIndex: 0, SectionIndex: 4}) {
		t.Errorf("after Prev = %+v, want last sportsmanship section", got)
	}
}

func TestNavigator_EndsAreNoOps(t *testing.T) {
	f := newNavFixture(t)
	if f.nav.Prev() {
		t.Error("Prev at start should be a no-op")
	}
	for f.nav.Next() {
	}
	last := f.nav.Position()
	if last != (Position{CategoryIndex: 2, SectionIndex: 3}) {
		t.Errorf("last = %+v", last)
	}
	if f.nav.Next() || f.nav.Position() != last {
		t.Error("Next at end should be a no-op")
	}
}

func TestNavigator_MoveTo(t *testing.T) {
	f := newNavFixture(t)
	if !f.nav.MoveTo(2, 1) {
		t.Fatal("MoveTo(2,1) failed")
	}
	cur, _ := f.nav.Current()
	if cur.Section != "self_acceptance" {
		t.Errorf("section = %s", cur.Section)
	}
	if f.nav.MoveTo(0, 9) {
		t.Error("MoveTo to a missing section should fail")
	}
}

func TestNavigator_OutOfRangeDegrades(t *testing.T) {
	f := newNavFixture(t)
	f.nav.MoveTo(1, 6) // comparison
	f.qs = without(f.qs, "comparison")
	f.nav.Refresh(f.progress())
	if f.nav.Position() != (Position{}) {
		t.Errorf("Position = %+v, want first section", f.nav.Position())
	}
}

func TestAutoAdvance_NotBeforeComplete(t *testing.T) {
	f := newNavFixture(t)
	f.answerSection(5) // courage has 6
	f.sched.Advance(10 * time.Second)
	if f.nav.Pending() || f.nav.Position() != (Position{}) {
		t.Error("incomplete section must not advance")
	}
	if f.sched.Schedules != 0 {
		t.Errorf("Schedules = %d", f.sched.Schedules)
	}
}

func TestAutoAdvance_FiresAfterDelay(t *testing.T) {
	f := newNavFixture(t)
	f.answerSection(6)
	if !f.nav.Pending() {
		t.Fatal("completing a section should schedule an advance")
	}

	f.sched.Advance(DefaultAutoAdvanceDelay - time.Millisecond)
	if f.nav.Position() != (Position{}) {
		t.Fatal("advanced before the delay elapsed")
	}
	f.sched.Advance(time.Millisecond)
	if got := f.nav.Position(); got != (Position{CategoryIndex: 0, SectionIndex: 1}) {
		t.Errorf("Position = %+v", got)
	}
	if len(f.advanced) != 1 || f.nav.Pending() {
		t.Errorf("advanced = %v, pending = %v", f.advanced, f.nav.Pending())
	}
}

func TestAutoAdvance_ChangeRestartsDelay(t *testing.T) {
	f := newNavFixture(t)
	f.answerSection(6)
	f.sched.Advance(time.Second)

	f.answer(50) // any change reschedules
	if f.cancelled != 0 {
		t.Errorf("cancelled = %d, want 0 for a reschedule", f.cancelled)
	}
	if !f.nav.Pending() {
		t.Fatal("reschedule should leave an advance pending")
	}
	f.sched.Advance(time.Second)
	if f.nav.Position() != (Position{}) {
		t.Fatal("advanced on the old schedule")
	}
	f.sched.Advance(500 * time.Millisecond)
	if f.nav.Position() != (Position{CategoryIndex: 0, SectionIndex: 1}) {
		t.Errorf("Position = %+v", f.nav.Position())
	}
}

func TestAutoAdvance_RepeatedChangesNeverCountAsCancelled(t *testing.T) {
	f := newNavFixture(t)
	f.answerSection(6)
	for i := 0; i < 5; i++ {
		f.answer(40 + i)
		f.sched.Advance(100 * time.Millisecond)
	}
	if f.cancelled != 0 {
		t.Errorf("cancelled = %d, want 0", f.cancelled)
	}
	if f.sched.Schedules != 6 {
		t.Errorf("Schedules = %d, want 6", f.sched.Schedules)
	}
}

func TestAutoAdvance_SectionNoLongerCompleteCancels(t *testing.T) {
	f := newNavFixture(t)
	f.answerSection(6)

	f.nav.Refresh(Compute(f.qs, NewAnswerStore(), battery.DefaultIndex()))
	if f.nav.Pending() {
		t.Fatal("incomplete section must not keep an advance pending")
	}
	if f.cancelled != 1 {
		t.Errorf("cancelled = %d, want 1", f.cancelled)
	}

	// Nothing pending, nothing to report.
	f.nav.Refresh(Compute(f.qs, NewAnswerStore(), battery.DefaultIndex()))
	if f.cancelled != 1 {
		t.Errorf("cancelled = %d after idle refresh, want 1", f.cancelled)
	}
}

func TestAutoAdvance_ManualNavigationCancels(t *testing.T) {
	f := newNavFixture(t)
	f.answerSection(6)
	f.nav.MoveTo(2, 0)
	if f.nav.Pending() {
		t.Fatal("manual move should cancel the pending advance")
	}
	f.sched.Advance(5 * time.Second)
	if f.nav.Position() != (Position{CategoryIndex: 2, SectionIndex: 0}) {
		t.Errorf("Position = %+v", f.nav.Position())
	}
	if len(f.advanced) != 0 || f.cancelled != 1 {
		t.Errorf("advanced = %v, cancelled = %d", f.advanced, f.cancelled)
	}
}

func TestAutoAdvance_StaleFireIgnored(t *testing.T) {
	f := newNavFixture(t)
	f.answerSection(6)

	// Capture the scheduled action and run it after the respondent moved.
	stale := f.sched.action
	f.nav.Next()
	f.nav.Prev()
	stale()
	if f.nav.Position() != (Position{}) {
		t.Errorf("stale action moved the navigator to %+v", f.nav.Position())
	}
}

func TestAutoAdvance_LastSectionStays(t *testing.T) {
	f := newNavFixture(t)
	f.nav.MoveTo(2, 3)
	f.answerSection(5)
	if f.nav.Pending() {
		t.Error("no successor, nothing to schedule")
	}
}

func TestAutoAdvance_Close(t *testing.T) {
	f := newNavFixture(t)
	f.answerSection(6)
	f.nav.Close()
	if f.sched.Pending() {
		t.Error("Close should cancel the scheduler")
	}
}

func TestNavigator_NoSchedulerNoAdvance(t *testing.T) {
	qs := sampleQuestions()
	s := NewAnswerStore()
	nav := NewNavigator(Compute(qs, s, battery.DefaultIndex()))
	for _, q := range qs[:6] {
		s.Set(q.Number, 1)
	}
	nav.Refresh(Compute(qs, s, battery.DefaultIndex()))
	if nav.Pending() {
		t.Error("navigator without scheduler must not schedule")
	}
}

func TestNavigator_JumpTargets(t *testing.T) {
	f := newNavFixture(t)
	f.answerSection(6)
	f.nav.MoveTo(1, 2)

	targets := f.nav.JumpTargets()
	if len(targets) != 2 {
		t.Fatalf("targets = %d, want 2", len(targets))
	}
	if targets[0].Section != "courage" || targets[1].Section != "devotion" {
		t.Errorf("targets = %s, %s", targets[0].Section, targets[1].Section)
	}
}
