package questionnaire

import (
	"context"
	"time"

	"github.com/abhisek/sportsmind/internal/battery"
	"github.com/abhisek/sportsmind/internal/store"
	"github.com/abhisek/sportsmind/pkg/logger"
)

// Options configures a Session.
type Options struct {
	Index     battery.Index
	Scheduler Scheduler
	Delay     time.Duration
	Drafts    store.DraftStore
	Logger    logger.Logger

	OnAutoAdvance          func(from, to Position)
	OnAutoAdvanceCancelled func()
}

// Session binds one respondent's questions to the answer store, the
// progress engine and the navigator.
type Session struct {
	role      battery.Role
	questions []battery.Question
	index     battery.Index
	answers   *AnswerStore
	progress  Progress
	nav       *Navigator
	drafts    store.DraftStore
	log       logger.Logger
}

// NewSession creates a session over role-filtered questions.
func NewSession(questions []battery.Question, role battery.Role, opts Options) *Session {
	if len(opts.Index.Categories) == 0 {
		opts.Index = battery.DefaultIndex()
	}
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}

	s := &Session{
		role:      role,
		questions: questions,
		index:     opts.Index,
		answers:   NewAnswerStore(),
		drafts:    opts.Drafts,
		log:       opts.Logger,
	}
	s.progress = Compute(questions, s.answers, s.index)

	navOpts := []NavigatorOption{WithScheduler(opts.Scheduler), WithDelay(opts.Delay)}
	if opts.OnAutoAdvance != nil {
		navOpts = append(navOpts, OnAutoAdvance(opts.OnAutoAdvance))
	}
	if opts.OnAutoAdvanceCancelled != nil {
		navOpts = append(navOpts, OnAutoAdvanceCancelled(opts.OnAutoAdvanceCancelled))
	}
	s.nav = NewNavigator(s.progress, navOpts...)
	return s
}

// SetAnswer records a score, recomputes progress, lets the navigator react
// and saves a draft. Draft failures are logged and otherwise ignored.
func (s *Session) SetAnswer(ctx context.Context, number int, value float64) {
	s.answers.Set(number, value)
	s.progress = Compute(s.questions, s.answers, s.index)
	s.nav.Refresh(s.progress)
	s.saveDraft(ctx)
}

// RestoreDraft loads the role's draft, if any, and positions the navigator
// on the first incomplete section. It reports whether a draft was applied.
func (s *Session) RestoreDraft(ctx context.Context) bool {
	if s.drafts == nil {
		return false
	}
	d, ok, err := s.drafts.Load(ctx, s.role)
	if err != nil {
		s.log.Warn(ctx, "draft load failed", logger.String("role", string(s.role)), logger.Error(err))
		return false
	}
	if !ok || len(d.Answers) == 0 {
		return false
	}

	s.answers.Load(d.Answers)
	s.progress = Compute(s.questions, s.answers, s.index)

	pos := s.nav.Position()
	if sec, ok := s.progress.FirstIncomplete(); ok {
		pos = sec.Position()
	} else if n := len(s.progress.Sections); n > 0 {
		pos = s.progress.Sections[n-1].Position()
	}
	s.nav.Reset(s.progress, pos)

	s.log.Info(ctx, "draft restored",
		logger.String("role", string(s.role)),
		logger.Int("answers", s.answers.Len()),
		logger.Any("saved_at", d.SavedAt))
	return true
}

func (s *Session) saveDraft(ctx context.Context) {
	if s.drafts == nil {
		return
	}
	if err := s.drafts.Save(ctx, s.role, s.answers.Snapshot()); err != nil {
		s.log.Warn(ctx, "draft save failed", logger.String("role", string(s.role)), logger.Error(err))
	}
}

// Integrity reports orphaned answers, if any.
func (s *Session) Integrity() error {
	return CheckIntegrity(s.progress, s.answers.Keys())
}

// Close stops any pending auto-advance.
func (s *Session) Close() {
	s.nav.Close()
}

func (s *Session) Role() battery.Role            { return s.role }
func (s *Session) Questions() []battery.Question { return s.questions }
func (s *Session) Answers() *AnswerStore         { return s.answers }
func (s *Session) Progress() Progress            { return s.progress }
func (s *Session) Navigator() *Navigator         { return s.nav }

// CurrentSection returns the section under the navigator.
func (s *Session) CurrentSection() (SectionInfo, bool) {
	return s.nav.Current()
}
