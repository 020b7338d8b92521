package questionnaire

import "time"

// DefaultAutoAdvanceDelay is the review window before moving on from a
// section that was just completed.
const DefaultAutoAdvanceDelay = 1500 * time.Millisecond

// Position addresses a section by category and subcategory ordinal.
type Position struct {
	CategoryIndex int
	SectionIndex  int
}

// Scheduler runs a single delayed action. Schedule replaces any pending
// action; Cancel drops it.
type Scheduler interface {
	Schedule(delay time.Duration, action func())
	Cancel()
}

// NavigatorOption configures a Navigator.
type NavigatorOption func(*Navigator)

// WithDelay sets the auto-advance delay.
func WithDelay(d time.Duration) NavigatorOption {
	return func(n *Navigator) {
		if d > 0 {
			n.delay = d
		}
	}
}

// WithScheduler sets the scheduler used for auto-advance. Without one the
// navigator never auto-advances.
func WithScheduler(s Scheduler) NavigatorOption {
	return func(n *Navigator) { n.sched = s }
}

// OnAutoAdvance registers a callback run after an automatic move.
func OnAutoAdvance(fn func(from, to Position)) NavigatorOption {
	return func(n *Navigator) { n.onAdvance = fn }
}

// OnAutoAdvanceCancelled registers a callback run when a pending automatic
// move is dropped before firing.
func OnAutoAdvanceCancelled(fn func()) NavigatorOption {
	return func(n *Navigator) { n.onCancelled = fn }
}

// Navigator tracks the current section and moves between sections of the
// derived progress.
type Navigator struct {
	progress Progress
	pos      Position

	sched   Scheduler
	delay   time.Duration
	pending bool
	gen     uint64

	onAdvance   func(from, to Position)
	onCancelled func()
}

// NewNavigator starts at the first section.
func NewNavigator(p Progress, opts ...NavigatorOption) *Navigator {
	n := &Navigator{progress: p, delay: DefaultAutoAdvanceDelay}
	for _, opt := range opts {
		opt(n)
	}
	n.pos = n.normalize(Position{})
	return n
}

// Position returns the current position.
func (n *Navigator) Position() Position {
	return n.pos
}

// Current returns the current section. ok is false when there are no sections.
func (n *Navigator) Current() (SectionInfo, bool) {
	return n.progress.Section(n.pos)
}

// Pending reports whether an automatic move is scheduled.
func (n *Navigator) Pending() bool {
	return n.pending
}

// Next moves to the following section. It reports whether a move happened;
// callers reset their viewport when it did.
func (n *Navigator) Next() bool {
	n.cancel()
	i, ok := n.progress.Find(n.pos)
	if !ok || i+1 >= len(n.progress.Sections) {
		return false
	}
	n.pos = n.progress.Sections[i+1].Position()
	return true
}

// Prev moves to the preceding section.
func (n *Navigator) Prev() bool {
	n.cancel()
	i, ok := n.progress.Find(n.pos)
	if !ok || i == 0 {
		return false
	}
	n.pos = n.progress.Sections[i-1].Position()
	return true
}

// MoveTo jumps to any derived section without completion gating. Positions
// that do not name a derived section are ignored.
func (n *Navigator) MoveTo(categoryIndex, sectionIndex int) bool {
	n.cancel()
	pos := Position{CategoryIndex: categoryIndex, SectionIndex: sectionIndex}
	if _, ok := n.progress.Find(pos); !ok {
		return false
	}
	n.pos = pos
	return true
}

// CanNext reports whether a following section exists.
func (n *Navigator) CanNext() bool {
	i, ok := n.progress.Find(n.pos)
	return ok && i+1 < len(n.progress.Sections)
}

// CanPrev reports whether a preceding section exists.
func (n *Navigator) CanPrev() bool {
	i, ok := n.progress.Find(n.pos)
	return ok && i > 0
}

// JumpTargets lists the sections a respondent may jump to: completed
// sections and the current one, in order.
func (n *Navigator) JumpTargets() []SectionInfo {
	var out []SectionInfo
	for _, s := range n.progress.Sections {
		if s.Completed || s.Position() == n.pos {
			out = append(out, s)
		}
	}
	return out
}

// Refresh applies new progress after an answer change. Any pending move is
// dropped, then a new one is scheduled if the current section is complete
// and has a successor, so rapid changes keep pushing the move back. A
// pending move counts as cancelled only when nothing replaces it.
func (n *Navigator) Refresh(p Progress) {
	n.progress = p
	n.pos = n.normalize(n.pos)
	dropped := n.drop()

	cur, ok := n.Current()
	if !ok || !cur.Completed || !n.CanNext() || n.sched == nil {
		if dropped {
			n.notifyCancelled()
		}
		return
	}

	n.gen++
	gen, from := n.gen, n.pos
	n.pending = true
	n.sched.Schedule(n.delay, func() { n.fire(gen, from) })
}

// Reset applies new progress and moves to pos without scheduling anything.
// Used when restoring a draft.
func (n *Navigator) Reset(p Progress, pos Position) {
	n.cancel()
	n.progress = p
	n.pos = n.normalize(pos)
}

// Close cancels any pending move.
func (n *Navigator) Close() {
	n.cancel()
}

func (n *Navigator) fire(gen uint64, from Position) {
	if !n.pending || gen != n.gen {
		return
	}
	n.pending = false
	if n.pos != from {
		return
	}
	cur, ok := n.Current()
	if !ok || !cur.Completed {
		return
	}
	i, _ := n.progress.Find(n.pos)
	if i+1 >= len(n.progress.Sections) {
		return
	}
	n.pos = n.progress.Sections[i+1].Position()
	if n.onAdvance != nil {
		n.onAdvance(from, n.pos)
	}
}

func (n *Navigator) cancel() {
	if n.drop() {
		n.notifyCancelled()
	}
}

// drop invalidates the pending move, if any, and reports whether there was one.
func (n *Navigator) drop() bool {
	if !n.pending {
		return false
	}
	n.pending = false
	n.gen++
	if n.sched != nil {
		n.sched.Cancel()
	}
	return true
}

func (n *Navigator) notifyCancelled() {
	if n.onCancelled != nil {
		n.onCancelled()
	}
}

// normalize maps positions that no longer name a derived section to the
// first section.
func (n *Navigator) normalize(pos Position) Position {
	if _, ok := n.progress.Find(pos); ok {
		return pos
	}
	if len(n.progress.Sections) == 0 {
		return Position{}
	}
	return n.progress.Sections[0].Position()
}
