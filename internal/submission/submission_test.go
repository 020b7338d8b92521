package submission

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/abhisek/sportsmind/internal/battery"
	"github.com/abhisek/sportsmind/internal/catalog"
	"github.com/abhisek/sportsmind/internal/store"
)

const respondent = "6f1c2b9e-3d4a-4c5b-8e7f-1a2b3c4d5e6f"

var testDate = time.Date(2026, 5, 4, 9, 30, 0, 0, time.UTC)

// sampleQuestions lays out a full battery: 29 sportsmanship questions and
// five per athlete-mind and self-esteem section.
func sampleQuestions() []battery.Question {
	var qs []battery.Question
	n := 1
	for _, cat := range battery.DefaultIndex().Categories {
		for i, sec := range cat.Sections {
			per := 5
			if cat.Key == battery.CategorySportsmanship && i < 4 {
				per = 6
			}
			for j := 0; j < per; j++ {
				qs = append(qs, battery.Question{
					ID:          fmt.Sprintf("q-%03d", n),
					Number:      n,
					Category:    cat.Key,
					Subcategory: sec.Key,
					Target:      battery.RolePlayer,
					Active:      true,
				})
				n++
			}
		}
	}
	return qs
}

func fullAnswers(qs []battery.Question, v float64) map[int]float64 {
	m := make(map[int]float64, len(qs))
	for _, q := range qs {
		m[q.Number] = v
	}
	return m
}

func TestSampleQuestionsIsFullBattery(t *testing.T) {
	if got := len(sampleQuestions()); got != battery.BatterySize {
		t.Fatalf("sampleQuestions() = %d questions, want %d", got, battery.BatterySize)
	}
}

func TestPrepare_Complete(t *testing.T) {
	qs := sampleQuestions()
	answers := fullAnswers(qs, 7)
	answers[12] = 6.5
	answers[40] = 3.4

	env, err := Prepare(answers, qs, respondent, testDate)
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	if len(env.Answers) != battery.BatterySize {
		t.Fatalf("len(Answers) = %d, want %d", len(env.Answers), battery.BatterySize)
	}
	if env.UserID != respondent {
		t.Errorf("UserID = %q", env.UserID)
	}
	if !env.TestDate.Equal(testDate) {
		t.Errorf("TestDate = %v", env.TestDate)
	}
	for i, a := range env.Answers {
		if want := fmt.Sprintf("q-%03d", i+1); a.QuestionID != want {
			t.Fatalf("Answers[%d].QuestionID = %q, want %q", i, a.QuestionID, want)
		}
	}
	if got := env.Answers[11].AnswerValue; got != 7 {
		t.Errorf("6.5 rounded to %d, want 7", got)
	}
	if got := env.Answers[39].AnswerValue; got != 3 {
		t.Errorf("3.4 rounded to %d, want 3", got)
	}
}

func TestPrepare_OneMissing(t *testing.T) {
	qs := sampleQuestions()
	answers := fullAnswers(qs, 5)
	delete(answers, 57)

	_, err := Prepare(answers, qs, respondent, testDate)
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("err = %v, want *ValidationError", err)
	}
	if len(ve.Issues) != 1 {
		t.Fatalf("issues = %v, want exactly one", ve.Issues)
	}
	if is := ve.Issues[0]; is.Kind != IssueMissing || is.Number != 57 {
		t.Errorf("issue = %+v, want missing 57", is)
	}
}

func TestPrepare_OutOfRange(t *testing.T) {
	tests := []struct {
		name  string
		value float64
	}{
		{"above", 15},
		{"below", -1},
		{"nan", math.NaN()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			qs := sampleQuestions()
			answers := fullAnswers(qs, 5)
			answers[3] = tt.value

			_, err := Prepare(answers, qs, respondent, testDate)
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("err = %v, want *ValidationError", err)
			}
			if len(ve.Issues) != 1 || ve.Issues[0].Kind != IssueRange || ve.Issues[0].Number != 3 {
				t.Errorf("issues = %v, want one range issue for 3", ve.Issues)
			}
		})
	}
}

func TestPrepare_BoundsAccepted(t *testing.T) {
	qs := sampleQuestions()
	answers := fullAnswers(qs, 0)
	answers[1] = 10
	if _, err := Prepare(answers, qs, respondent, testDate); err != nil {
		t.Fatalf("0 and 10 should be valid: %v", err)
	}
}

func TestPrepare_StrayKey(t *testing.T) {
	qs := sampleQuestions()
	answers := fullAnswers(qs, 5)
	answers[150] = 4
	answers[2] = 42

	_, err := Prepare(answers, qs, respondent, testDate)
	var ir *IdentityResolutionError
	if !errors.As(err, &ir) {
		t.Fatalf("err = %v, want *IdentityResolutionError", err)
	}
	if ir.Number != 150 {
		t.Errorf("Number = %d, want 150", ir.Number)
	}
}

func TestPrepare_StrayKeyAtFullCount(t *testing.T) {
	qs := sampleQuestions()
	answers := fullAnswers(qs, 5)
	delete(answers, 37)
	answers[120] = 5
	if len(answers) != battery.BatterySize {
		t.Fatalf("len(answers) = %d, want %d", len(answers), battery.BatterySize)
	}

	_, err := Prepare(answers, qs, respondent, testDate)
	var ir *IdentityResolutionError
	if !errors.As(err, &ir) {
		t.Fatalf("err = %v, want *IdentityResolutionError", err)
	}
	if ir.Number != 120 {
		t.Errorf("Number = %d, want 120", ir.Number)
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		t.Error("a stray key must fail before the missing answer is reported")
	}
}

func TestPrepare_BlankIdentity(t *testing.T) {
	qs := sampleQuestions()
	qs[20].ID = "  "
	_, err := Prepare(fullAnswers(qs, 5), qs, respondent, testDate)
	var ir *IdentityResolutionError
	if !errors.As(err, &ir) || ir.Number != 21 {
		t.Fatalf("err = %v, want resolution error for 21", err)
	}
}

func TestPrepare_CollectsSoftIssuesTogether(t *testing.T) {
	qs := sampleQuestions()
	answers := fullAnswers(qs, 5)
	delete(answers, 1)
	delete(answers, 2)
	answers[90] = 11

	_, err := Prepare(answers, qs, respondent, testDate)
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("err = %v, want *ValidationError", err)
	}
	if ve.Count(IssueMissing) != 2 || ve.Count(IssueRange) != 1 || ve.Count(IssueCount) != 0 {
		t.Errorf("issues = %v", ve.Issues)
	}
}

func TestPrepare_ShortCatalogCountIssue(t *testing.T) {
	qs := sampleQuestions()[:98]
	_, err := Prepare(fullAnswers(qs, 5), qs, respondent, testDate)
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("err = %v, want *ValidationError", err)
	}
	if len(ve.Issues) != 1 || ve.Issues[0].Kind != IssueCount || ve.Issues[0].Got != 98 {
		t.Errorf("issues = %v, want one count issue", ve.Issues)
	}
}

func TestPrepare_Respondent(t *testing.T) {
	tests := []struct {
		name string
		id   string
		ok   bool
	}{
		{"v4", respondent, true},
		{"v1", "6ba7b810-9dad-11d1-80b4-00c04fd430c8", true},
		{"empty", "", false},
		{"garbage", "player-1", false},
		{"nil uuid", "00000000-0000-0000-0000-000000000000", false},
		{"v7", "01890a5d-ac96-774b-bcce-b302099a8057", false},
	}
	qs := sampleQuestions()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Prepare(fullAnswers(qs, 5), qs, tt.id, testDate)
			if tt.ok && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tt.ok {
				var ii *IdentityInvalidError
				if !errors.As(err, &ii) {
					t.Fatalf("err = %v, want *IdentityInvalidError", err)
				}
			}
		})
	}
}

// --- Submitter ---

type fakeRemote struct {
	calls int
	got   catalog.Submission
	res   *catalog.Result
	err   error
}

func (f *fakeRemote) Submit(_ context.Context, sub catalog.Submission) (*catalog.Result, error) {
	f.calls++
	f.got = sub
	return f.res, f.err
}

type fakeEvents struct {
	events []store.SubmissionEventData
}

func (f *fakeEvents) AppendSubmission(_ context.Context, d store.SubmissionEventData) error {
	f.events = append(f.events, d)
	return nil
}

type fakeRecorder struct {
	outcomes  []string
	latencies int
}

func (f *fakeRecorder) RecordSubmission(outcome string)   { f.outcomes = append(f.outcomes, outcome) }
func (f *fakeRecorder) RecordSubmissionLatency(_ float64) { f.latencies++ }

func newTestSubmitter(remote Remote) (*Submitter, *store.MemoryDrafts, *fakeEvents, *fakeRecorder) {
	drafts := store.NewMemoryDrafts()
	events := &fakeEvents{}
	rec := &fakeRecorder{}
	s := NewSubmitter(remote,
		WithDrafts(drafts),
		WithEvents(events),
		WithRecorder(rec),
		WithClock(func() time.Time { return testDate }))
	return s, drafts, events, rec
}

func TestSubmitter_Success(t *testing.T) {
	ctx := context.Background()
	remote := &fakeRemote{res: &catalog.Result{ResultID: "r-9", AthleteType: "アンカー"}}
	s, drafts, events, rec := newTestSubmitter(remote)

	qs := sampleQuestions()
	answers := fullAnswers(qs, 8)
	if err := drafts.Save(ctx, battery.RolePlayer, answers); err != nil {
		t.Fatal(err)
	}

	res, err := s.Submit(ctx, answers, qs, respondent, battery.RolePlayer)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if res.ResultID != "r-9" {
		t.Errorf("ResultID = %q", res.ResultID)
	}
	if !remote.got.TestDate.Equal(testDate) || len(remote.got.Answers) != battery.BatterySize {
		t.Errorf("sent %+v", remote.got)
	}
	if _, ok, _ := drafts.Load(ctx, battery.RolePlayer); ok {
		t.Error("draft should be cleared after success")
	}
	if len(events.events) != 1 || events.events[0].Outcome != store.OutcomeAccepted || events.events[0].ResultID != "r-9" {
		t.Errorf("events = %+v", events.events)
	}
	if rec.latencies != 1 {
		t.Errorf("latency observations = %d, want 1", rec.latencies)
	}
}

func TestSubmitter_RemoteErrorKeepsDraft(t *testing.T) {
	ctx := context.Background()
	remote := &fakeRemote{err: &catalog.RemoteError{Network: true, Err: errors.New("connection refused")}}
	s, drafts, events, rec := newTestSubmitter(remote)

	qs := sampleQuestions()
	answers := fullAnswers(qs, 4)

	_, err := s.Submit(ctx, answers, qs, respondent, battery.RoleCoach)
	var re *catalog.RemoteError
	if !errors.As(err, &re) {
		t.Fatalf("err = %v, want *catalog.RemoteError", err)
	}
	var ds *DraftSavedError
	if !errors.As(err, &ds) || ds.Role != battery.RoleCoach {
		t.Fatalf("err = %v, want *DraftSavedError for coach", err)
	}
	d, ok, _ := drafts.Load(ctx, battery.RoleCoach)
	if !ok || len(d.Answers) != battery.BatterySize {
		t.Fatalf("draft = %+v, ok=%v", d, ok)
	}
	if events.events[0].Outcome != store.OutcomeFailed {
		t.Errorf("outcome = %q", events.events[0].Outcome)
	}
	if rec.outcomes[0] != store.OutcomeFailed || rec.latencies != 0 {
		t.Errorf("metrics = %+v", rec)
	}
}

func TestSubmitter_InvalidNeverCallsRemote(t *testing.T) {
	ctx := context.Background()
	remote := &fakeRemote{}
	s, drafts, events, _ := newTestSubmitter(remote)

	qs := sampleQuestions()
	answers := fullAnswers(qs, 5)
	delete(answers, 99)

	_, err := s.Submit(ctx, answers, qs, respondent, battery.RolePlayer)
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("err = %v", err)
	}
	if remote.calls != 0 {
		t.Errorf("remote called %d times", remote.calls)
	}
	if _, ok, _ := drafts.Load(ctx, battery.RolePlayer); ok {
		t.Error("validation failure should not write a draft")
	}
	if events.events[0].Outcome != store.OutcomeRejected {
		t.Errorf("outcome = %q", events.events[0].Outcome)
	}
}

func TestSubmitter_DraftFailureDoesNotMaskError(t *testing.T) {
	remote := &fakeRemote{err: &catalog.RemoteError{Status: 500, Message: "boom"}}
	s, drafts, _, _ := newTestSubmitter(remote)
	drafts.Err = errors.New("disk full")

	qs := sampleQuestions()
	_, err := s.Submit(context.Background(), fullAnswers(qs, 5), qs, respondent, battery.RolePlayer)
	var re *catalog.RemoteError
	if !errors.As(err, &re) || re.Status != 500 {
		t.Fatalf("err = %v", err)
	}
	var ds *DraftSavedError
	if errors.As(err, &ds) {
		t.Error("a failed draft save must not be reported as saved")
	}
	if m := Describe(err); strings.Contains(strings.Join(m.Lines, "\n"), "have been saved") {
		t.Errorf("message claims answers were saved: %+v", m)
	}
}

func TestSubmitter_NoDraftStoreNotSaved(t *testing.T) {
	remote := &fakeRemote{err: &catalog.RemoteError{Status: 503, Message: "unavailable"}}
	s := NewSubmitter(remote, WithRecorder(&fakeRecorder{}))

	qs := sampleQuestions()
	_, err := s.Submit(context.Background(), fullAnswers(qs, 5), qs, respondent, battery.RolePlayer)
	var ds *DraftSavedError
	if errors.As(err, &ds) {
		t.Fatalf("err = %v, want an unsaved remote error", err)
	}
	m := Describe(err)
	if last := m.Lines[len(m.Lines)-1]; !strings.Contains(last, "not saved") {
		t.Errorf("last line = %q", last)
	}
}

// --- Describe ---

func TestDescribe(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		recovery Recovery
		contains string
	}{
		{"validation", &ValidationError{Issues: []Issue{{Kind: IssueMissing, Number: 4}}}, Recoverable, "question 4 is unanswered"},
		{"resolution", &IdentityResolutionError{Number: 7}, Environment, "question 7"},
		{"identity", &IdentityInvalidError{Value: "x"}, Environment, "respondent.id"},
		{"unavailable", &catalog.DataUnavailableError{Role: battery.RoleMother}, Retryable, "Mother"},
		{"network", &catalog.RemoteError{Network: true}, Retryable, "connection"},
		{"fields", &catalog.RemoteError{Status: 422, Fields: []catalog.FieldError{{Field: "body.answers", Message: "too few"}}}, Retryable, "body.answers: too few"},
		{"wrapped", fmt.Errorf("submit: %w", &IdentityResolutionError{Number: 1}), Environment, "out of date"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Describe(tt.err)
			if m.Recovery != tt.recovery {
				t.Errorf("Recovery = %v, want %v", m.Recovery, tt.recovery)
			}
			text := m.Title + "\n" + strings.Join(m.Lines, "\n")
			if !strings.Contains(text, tt.contains) {
				t.Errorf("message %q does not contain %q", text, tt.contains)
			}
		})
	}
}

func TestDescribe_RemoteMentionsSavedAnswers(t *testing.T) {
	re := &catalog.RemoteError{Status: 503, Message: "unavailable"}

	m := Describe(&DraftSavedError{Role: battery.RolePlayer, Err: re})
	if m.Title != "Submission failed" || m.Recovery != Retryable {
		t.Errorf("message = %+v", m)
	}
	if last := m.Lines[len(m.Lines)-1]; last != "Your answers have been saved." {
		t.Errorf("last line = %q", last)
	}

	m = Describe(re)
	if last := m.Lines[len(m.Lines)-1]; strings.Contains(last, "have been saved") {
		t.Errorf("unsaved error described as saved: %q", last)
	}
}
