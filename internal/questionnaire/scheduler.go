package questionnaire

import "time"

// ManualScheduler is a virtual-time Scheduler. Time only moves through
// Advance, which makes auto-advance deterministic in tests and replays.
type ManualScheduler struct {
	now    time.Duration
	due    time.Duration
	action func()

	Schedules int
	Cancels   int
}

// Schedule replaces any pending action.
func (s *ManualScheduler) Schedule(delay time.Duration, action func()) {
	s.Schedules++
	s.due = s.now + delay
	s.action = action
}

// Cancel drops the pending action.
func (s *ManualScheduler) Cancel() {
	if s.action != nil {
		s.Cancels++
	}
	s.action = nil
}

// Pending reports whether an action is waiting.
func (s *ManualScheduler) Pending() bool {
	return s.action != nil
}

// Advance moves virtual time forward by d and runs the pending action if it
// became due.
func (s *ManualScheduler) Advance(d time.Duration) {
	s.now += d
	if s.action == nil || s.now < s.due {
		return
	}
	action := s.action
	s.action = nil
	action()
}
