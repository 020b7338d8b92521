package submission

import (
	"context"
	"errors"
	"time"

	"github.com/abhisek/sportsmind/internal/battery"
	"github.com/abhisek/sportsmind/internal/catalog"
	"github.com/abhisek/sportsmind/internal/store"
	"github.com/abhisek/sportsmind/pkg/logger"
	"github.com/abhisek/sportsmind/pkg/metrics"
)

// Remote is the part of the scoring service a Submitter needs.
type Remote interface {
	Submit(ctx context.Context, sub catalog.Submission) (*catalog.Result, error)
}

// EventSink records submission attempts.
type EventSink interface {
	AppendSubmission(ctx context.Context, data store.SubmissionEventData) error
}

// Recorder receives submission metrics.
type Recorder interface {
	RecordSubmission(outcome string)
	RecordSubmissionLatency(latencyMs float64)
}

// Submitter runs the pipeline end to end: prepare, send, record.
type Submitter struct {
	remote  Remote
	drafts  store.DraftStore
	events  EventSink
	metrics Recorder
	log     logger.Logger
	now     func() time.Time
}

// SubmitterOption configures a Submitter.
type SubmitterOption func(*Submitter)

// WithDrafts keeps answers in a draft when the remote call fails and clears
// the draft on success.
func WithDrafts(d store.DraftStore) SubmitterOption {
	return func(s *Submitter) { s.drafts = d }
}

// WithEvents records every attempt in the local event log.
func WithEvents(e EventSink) SubmitterOption {
	return func(s *Submitter) { s.events = e }
}

// WithRecorder replaces the global metrics manager.
func WithRecorder(r Recorder) SubmitterOption {
	return func(s *Submitter) {
		if r != nil {
			s.metrics = r
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) SubmitterOption {
	return func(s *Submitter) {
		if l != nil {
			s.log = l
		}
	}
}

// WithClock sets the time source used for the test date.
func WithClock(now func() time.Time) SubmitterOption {
	return func(s *Submitter) {
		if now != nil {
			s.now = now
		}
	}
}

// NewSubmitter creates a Submitter sending to remote.
func NewSubmitter(remote Remote, opts ...SubmitterOption) *Submitter {
	s := &Submitter{
		remote:  remote,
		metrics: metrics.Global(),
		log:     logger.Nop(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit validates and sends one attempt. Validation and identity errors
// are returned before anything leaves the process. When the remote call
// fails with a *catalog.RemoteError and the answers could be saved as a
// draft for the role, the error is wrapped in a *DraftSavedError.
func (s *Submitter) Submit(ctx context.Context, answers map[int]float64, questions []battery.Question, respondent string, role battery.Role) (*catalog.Result, error) {
	ev := store.SubmissionEventData{
		Role:        string(role),
		Respondent:  respondent,
		AnswerCount: len(answers),
	}

	env, err := Prepare(answers, questions, respondent, s.now().UTC())
	if err != nil {
		ev.Outcome = store.OutcomeRejected
		ev.ErrorMessage = err.Error()
		s.record(ctx, ev)
		s.log.Warn(ctx, "submission rejected", logger.String("role", string(role)), logger.Error(err))
		return nil, err
	}

	start := time.Now()
	res, err := s.remote.Submit(ctx, *env)
	ev.LatencyMs = time.Since(start).Milliseconds()
	if err != nil {
		ev.Outcome = store.OutcomeFailed
		ev.ErrorMessage = err.Error()
		s.record(ctx, ev)
		s.log.Error(ctx, "submission failed", logger.String("role", string(role)), logger.Error(err))

		var re *catalog.RemoteError
		if errors.As(err, &re) && s.keepDraft(ctx, role, answers) {
			return nil, &DraftSavedError{Role: role, Err: err}
		}
		return nil, err
	}

	ev.Outcome = store.OutcomeAccepted
	ev.ResultID = res.ResultID
	ev.AthleteType = res.AthleteType
	s.record(ctx, ev)
	s.metrics.RecordSubmissionLatency(float64(ev.LatencyMs))

	if s.drafts != nil {
		if err := s.drafts.Clear(ctx, role); err != nil {
			s.log.Warn(ctx, "draft clear failed", logger.String("role", string(role)), logger.Error(err))
		}
	}
	s.log.Info(ctx, "submission accepted",
		logger.String("role", string(role)),
		logger.String("result_id", res.ResultID),
		logger.Int64("latency_ms", ev.LatencyMs))
	return res, nil
}

func (s *Submitter) keepDraft(ctx context.Context, role battery.Role, answers map[int]float64) bool {
	if s.drafts == nil {
		return false
	}
	if err := s.drafts.Save(ctx, role, answers); err != nil {
		s.log.Warn(ctx, "draft save failed", logger.String("role", string(role)), logger.Error(err))
		return false
	}
	return true
}

func (s *Submitter) record(ctx context.Context, ev store.SubmissionEventData) {
	s.metrics.RecordSubmission(ev.Outcome)
	if s.events == nil {
		return
	}
	if err := s.events.AppendSubmission(ctx, ev); err != nil {
		s.log.Warn(ctx, "submission event not recorded", logger.Error(err))
	}
}
