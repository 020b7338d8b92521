// Package survey is the test screen: one section at a time, each question
// answered on a 0..10 scale.
package survey

import (
	"context"
	"errors"
	"fmt"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/sportsmind/internal/battery"
	"github.com/abhisek/sportsmind/internal/catalog"
	"github.com/abhisek/sportsmind/internal/questionnaire"
	"github.com/abhisek/sportsmind/internal/router"
	"github.com/abhisek/sportsmind/internal/screen"
	"github.com/abhisek/sportsmind/internal/screens/env"
	"github.com/abhisek/sportsmind/internal/screens/result"
	"github.com/abhisek/sportsmind/internal/submission"
	"github.com/abhisek/sportsmind/internal/ui/components"
	"github.com/abhisek/sportsmind/internal/ui/layout"
	"github.com/abhisek/sportsmind/pkg/logger"
)

// Params selects the respondent.
type Params struct {
	Role       battery.Role
	Respondent string
	// Resume restores the role's saved draft once questions are loaded.
	Resume bool
}

type phase int

const (
	phaseLoading phase = iota
	phaseUnavailable
	phaseReady
	phaseSubmitting
)

// SurveyScreen walks the respondent through the battery.
type SurveyScreen struct {
	env    env.Env
	params Params
	phase  phase

	session *questionnaire.Session
	sched   *tickScheduler
	spin    spinner.Model

	focus   int
	cursors map[int]int

	jumpOpen   bool
	jumpCursor int
	jumps      []questionnaire.SectionInfo

	loadErr  error
	notice   submission.Message
	restored bool
}

var _ screen.Screen = (*SurveyScreen)(nil)
var _ screen.KeyHintProvider = (*SurveyScreen)(nil)
var _ screen.Closer = (*SurveyScreen)(nil)
var _ screen.EscapeHandler = (*SurveyScreen)(nil)

// New creates a SurveyScreen.
func New(e env.Env, p Params) *SurveyScreen {
	return &SurveyScreen{
		env:     e.WithDefaults(),
		params:  p,
		sched:   &tickScheduler{},
		spin:    spinner.New(spinner.WithSpinner(spinner.Dot)),
		cursors: make(map[int]int),
	}
}

func (s *SurveyScreen) Init() tea.Cmd {
	return tea.Batch(s.load(), s.spin.Tick)
}

func (s *SurveyScreen) Title() string {
	return "Test · " + s.params.Role.DisplayName()
}

// HandlesEscape keeps esc away from the app so leaving can unwind home.
func (s *SurveyScreen) HandlesEscape() bool { return true }

// Close stops any pending auto-advance.
func (s *SurveyScreen) Close() {
	if s.session != nil {
		s.session.Close()
	}
}

// Status feeds the header.
func (s *SurveyScreen) Status() layout.Status {
	st := layout.Status{Role: s.params.Role.DisplayName()}
	if s.session != nil {
		o := s.session.Progress().Overall
		st.Answered, st.Total = o.AnsweredQuestions, o.TotalQuestions
	}
	return st
}

func (s *SurveyScreen) KeyHints() []layout.KeyHint {
	switch {
	case s.phase == phaseUnavailable:
		return []layout.KeyHint{{Key: "r", Description: "Retry"}, {Key: "Esc", Description: "Home"}}
	case s.phase != phaseReady:
		return []layout.KeyHint{{Key: "Ctrl+C", Description: "Quit"}}
	case s.jumpOpen:
		return []layout.KeyHint{{Key: "↑↓", Description: "Choose"}, {Key: "Enter", Description: "Go"}, {Key: "Esc", Description: "Close"}}
	}
	hints := []layout.KeyHint{
		{Key: "↑↓", Description: "Question"},
		{Key: "←→ Enter", Description: "Score"},
		{Key: "0-9 t", Description: "Quick score"},
		{Key: "Tab", Description: "Section"},
		{Key: "g", Description: "Jump"},
	}
	if s.session.Progress().Overall.Completed {
		hints = append(hints, layout.KeyHint{Key: "s", Description: "Submit"})
	}
	return append(hints, layout.KeyHint{Key: "Esc", Description: "Save & leave"})
}

func (s *SurveyScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case questionsLoadedMsg:
		return s, s.handleLoaded(msg)

	case submittedMsg:
		return s, s.handleSubmitted(msg)

	case advanceTickMsg:
		s.sched.Fire(msg)
		return s, nil

	case spinner.TickMsg:
		if s.phase == phaseLoading || s.phase == phaseSubmitting {
			var cmd tea.Cmd
			s.spin, cmd = s.spin.Update(msg)
			return s, cmd
		}
		return s, nil

	case tea.KeyPressMsg:
		cmd := s.handleKey(msg)
		return s, tea.Batch(cmd, s.sched.Cmd())
	}
	return s, nil
}

func (s *SurveyScreen) load() tea.Cmd {
	e, role := s.env, s.params.Role
	return func() tea.Msg {
		ctx, cancel := e.Context()
		defer cancel()
		qs, err := e.Catalog.Questions(ctx, role)
		return questionsLoadedMsg{questions: qs, err: err}
	}
}

func (s *SurveyScreen) handleLoaded(msg questionsLoadedMsg) tea.Cmd {
	ctx := context.Background()
	role := s.params.Role

	qs := battery.ForRole(msg.questions, role)
	err := msg.err
	if err == nil && len(qs) == 0 {
		err = &catalog.DataUnavailableError{Role: role}
	}
	if err != nil {
		s.phase = phaseUnavailable
		s.loadErr = err
		s.env.Logger.Error(ctx, "questions unavailable", logger.String("role", string(role)), logger.Error(err))
		return nil
	}

	if s.session != nil {
		s.session.Close()
	}
	s.sched = &tickScheduler{}
	s.session = questionnaire.NewSession(qs, role, questionnaire.Options{
		Index:                  s.env.Index,
		Scheduler:              s.sched,
		Delay:                  s.env.AutoAdvance,
		Drafts:                 s.env.Drafts,
		Logger:                 s.env.Logger,
		OnAutoAdvance:          s.onAutoAdvance,
		OnAutoAdvanceCancelled: s.onAutoAdvanceCancelled,
	})
	s.phase = phaseReady
	s.loadErr = nil
	s.notice = submission.Message{}

	if s.params.Resume {
		s.restored = s.session.RestoreDraft(ctx)
	}
	for n, v := range s.session.Answers().Snapshot() {
		s.cursors[n] = int(v)
	}
	if err := s.session.Integrity(); err != nil {
		s.notice = submission.Describe(err)
	}
	s.focusFirstUnanswered()
	return nil
}

func (s *SurveyScreen) onAutoAdvance(_, _ questionnaire.Position) {
	s.env.Metrics.RecordAutoAdvance("fired")
	s.focusFirstUnanswered()
}

func (s *SurveyScreen) onAutoAdvanceCancelled() {
	s.env.Metrics.RecordAutoAdvance("cancelled")
}

func (s *SurveyScreen) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	key := msg.String()

	switch s.phase {
	case phaseUnavailable:
		switch key {
		case "r":
			s.phase = phaseLoading
			return tea.Batch(s.load(), s.spin.Tick)
		case "esc":
			return popToRoot
		}
		return nil
	case phaseReady:
	default:
		return nil
	}

	if s.jumpOpen {
		return s.handleJumpKey(key)
	}

	switch key {
	case "esc":
		return popToRoot
	case "up", "k":
		if s.focus > 0 {
			s.focus--
		}
	case "down", "j":
		if sec, ok := s.session.CurrentSection(); ok && s.focus < len(sec.Questions)-1 {
			s.focus++
		}
	case "left", "h":
		s.moveCursor(-1)
	case "right", "l":
		s.moveCursor(1)
	case "enter", "space":
		if q, ok := s.focused(); ok {
			s.record(q, float64(s.cursorFor(q)))
		}
	case "0", "1", "2", "3", "4", "5", "6", "7", "8", "9":
		if q, ok := s.focused(); ok {
			s.record(q, float64(key[0]-'0'))
		}
	case "t":
		if q, ok := s.focused(); ok {
			s.record(q, components.ScaleMax)
		}
	case "tab":
		if s.session.Navigator().Next() {
			s.focusFirstUnanswered()
		}
	case "shift+tab":
		if s.session.Navigator().Prev() {
			s.focusFirstUnanswered()
		}
	case "g":
		s.jumps = s.session.Navigator().JumpTargets()
		s.jumpCursor = 0
		cur := s.session.Navigator().Position()
		for i, t := range s.jumps {
			if t.Position() == cur {
				s.jumpCursor = i
			}
		}
		s.jumpOpen = len(s.jumps) > 0
	case "s":
		return s.submit()
	}
	return nil
}

func (s *SurveyScreen) handleJumpKey(key string) tea.Cmd {
	switch key {
	case "esc", "g":
		s.jumpOpen = false
	case "up", "k":
		if s.jumpCursor > 0 {
			s.jumpCursor--
		}
	case "down", "j":
		if s.jumpCursor < len(s.jumps)-1 {
			s.jumpCursor++
		}
	case "enter":
		t := s.jumps[s.jumpCursor]
		s.jumpOpen = false
		if s.session.Navigator().MoveTo(t.CategoryIndex, t.SectionIndex) {
			s.focusFirstUnanswered()
		}
	}
	return nil
}

func (s *SurveyScreen) focused() (battery.Question, bool) {
	sec, ok := s.session.CurrentSection()
	if !ok || s.focus < 0 || s.focus >= len(sec.Questions) {
		return battery.Question{}, false
	}
	return sec.Questions[s.focus], true
}

func (s *SurveyScreen) cursorFor(q battery.Question) int {
	if c, ok := s.cursors[q.Number]; ok {
		return c
	}
	return components.ScaleMax / 2
}

func (s *SurveyScreen) moveCursor(delta int) {
	q, ok := s.focused()
	if !ok {
		return
	}
	sc := components.Scale{Cursor: s.cursorFor(q)}
	sc.Move(delta)
	s.cursors[q.Number] = sc.Cursor
}

// record stores a score and moves focus down the section.
func (s *SurveyScreen) record(q battery.Question, value float64) {
	sec, _ := s.session.CurrentSection()
	wasComplete := sec.Completed

	s.session.SetAnswer(context.Background(), q.Number, value)
	s.cursors[q.Number] = int(value)
	s.env.Metrics.RecordAnswer(string(s.params.Role))
	if s.notice.Recovery == submission.Recoverable {
		s.notice = submission.Message{}
	}

	if after, ok := s.session.Progress().Section(sec.Position()); ok && after.Completed && !wasComplete {
		s.env.Metrics.RecordSectionCompleted(sec.Category)
	}
	if s.focus < len(sec.Questions)-1 {
		s.focus++
	}
}

// focusFirstUnanswered puts focus on the first open question of the
// current section, or the first question when all are answered.
func (s *SurveyScreen) focusFirstUnanswered() {
	s.focus = 0
	sec, ok := s.session.CurrentSection()
	if !ok {
		return
	}
	for i, q := range sec.Questions {
		if !s.session.Answers().Has(q.Number) {
			s.focus = i
			return
		}
	}
}

func (s *SurveyScreen) submit() tea.Cmd {
	p := s.session.Progress()
	if !p.Overall.Completed {
		s.notice = submission.Message{
			Title: "Not finished yet",
			Lines: []string{fmt.Sprintf("%d of %d questions answered.",
				p.Overall.AnsweredQuestions, p.Overall.TotalQuestions)},
			Recovery: submission.Recoverable,
		}
		return nil
	}

	s.session.Navigator().Close()
	s.phase = phaseSubmitting
	s.notice = submission.Message{}

	e, params := s.env, s.params
	answers := s.session.Answers().Snapshot()
	questions := s.session.Questions()
	return tea.Batch(s.spin.Tick, func() tea.Msg {
		ctx, cancel := e.Context()
		defer cancel()
		res, err := e.Submitter.Submit(ctx, answers, questions, params.Respondent, params.Role)
		return submittedMsg{result: res, err: err}
	})
}

func (s *SurveyScreen) handleSubmitted(msg submittedMsg) tea.Cmd {
	if msg.err != nil || msg.result == nil {
		err := msg.err
		if err == nil {
			err = errors.New("empty response from scoring service")
		}
		s.phase = phaseReady
		s.notice = submission.Describe(err)
		return nil
	}
	s.Close()
	next := result.New(s.env, *msg.result, result.Params{Role: s.params.Role})
	return func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
}

func popToRoot() tea.Msg { return router.PopToRootMsg{} }
