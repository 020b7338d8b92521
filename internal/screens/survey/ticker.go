package survey

import (
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/sportsmind/internal/questionnaire"
)

// advanceTickMsg is delivered when a scheduled auto-advance comes due.
type advanceTickMsg struct {
	gen uint64
}

// tickScheduler runs navigator actions on the Bubble Tea loop. Schedule
// only records the request; the screen collects it with Cmd after every
// update and the action runs when a tick carrying the current generation
// comes back. Ticks from replaced or cancelled requests are dropped.
type tickScheduler struct {
	gen    uint64
	delay  time.Duration
	action func()
	armed  bool
}

var _ questionnaire.Scheduler = (*tickScheduler)(nil)

func (s *tickScheduler) Schedule(delay time.Duration, action func()) {
	s.gen++
	s.delay = delay
	s.action = action
	s.armed = true
}

func (s *tickScheduler) Cancel() {
	s.gen++
	s.action = nil
	s.armed = false
}

// Pending reports whether an action is waiting.
func (s *tickScheduler) Pending() bool {
	return s.action != nil
}

// Cmd returns the tick for a freshly scheduled action, once.
func (s *tickScheduler) Cmd() tea.Cmd {
	if !s.armed {
		return nil
	}
	s.armed = false
	gen := s.gen
	return tea.Tick(s.delay, func(time.Time) tea.Msg {
		return advanceTickMsg{gen: gen}
	})
}

// Fire runs the pending action if msg belongs to it.
func (s *tickScheduler) Fire(msg advanceTickMsg) bool {
	if msg.gen != s.gen || s.action == nil {
		return false
	}
	action := s.action
	s.action = nil
	action()
	return true
}
