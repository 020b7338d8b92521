// Package submission validates a completed answer map and turns it into the
// payload the scoring service accepts.
package submission

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/sportsmind/internal/battery"
	"github.com/abhisek/sportsmind/internal/catalog"
)

const (
	batterySize = battery.BatterySize

	minValue = 0
	maxValue = 10
)

// Envelope is the wire payload of a submission.
type Envelope = catalog.Submission

// Prepare validates answers against the catalog and builds the envelope.
//
// Hard failures (bad respondent, answer with no catalog question, question
// with no identity) return immediately. Missing answers, a wrong count and
// out-of-range values are collected into one *ValidationError.
func Prepare(answers map[int]float64, questions []battery.Question, respondent string, now time.Time) (*Envelope, error) {
	if err := checkRespondent(respondent); err != nil {
		return nil, err
	}

	byNumber := battery.ByNumber(questions)

	keys := make([]int, 0, len(answers))
	for n := range answers {
		keys = append(keys, n)
	}
	sort.Ints(keys)

	for _, n := range keys {
		if _, ok := byNumber[n]; !ok {
			return nil, &IdentityResolutionError{Number: n}
		}
	}

	var issues []Issue
	numbers := make([]int, 0, len(byNumber))
	for n := range byNumber {
		numbers = append(numbers, n)
	}
	sort.Ints(numbers)

	for _, n := range numbers {
		if _, ok := answers[n]; !ok {
			issues = append(issues, Issue{Kind: IssueMissing, Number: n})
		}
	}
	// Answers are a subset of the catalog here, so a short count is
	// already explained when every catalog question shows up as missing.
	if len(answers) != batterySize && len(numbers) != batterySize {
		issues = append(issues, Issue{Kind: IssueCount, Got: len(answers)})
	}

	for _, n := range keys {
		v := answers[n]
		if math.IsNaN(v) || v < minValue || v > maxValue {
			issues = append(issues, Issue{Kind: IssueRange, Number: n, Value: v})
		}
	}

	if len(issues) > 0 {
		return nil, &ValidationError{Issues: issues}
	}

	env := &Envelope{
		UserID:   respondent,
		TestDate: now,
		Answers:  make([]catalog.Answer, 0, len(keys)),
	}
	for _, n := range keys {
		q := byNumber[n]
		if strings.TrimSpace(q.ID) == "" {
			return nil, &IdentityResolutionError{Number: n}
		}
		env.Answers = append(env.Answers, catalog.Answer{
			QuestionID:  q.ID,
			AnswerValue: int(math.Round(answers[n])),
		})
	}
	return env, nil
}

func checkRespondent(id string) error {
	if strings.TrimSpace(id) == "" {
		return &IdentityInvalidError{Value: id}
	}
	u, err := uuid.Parse(id)
	if err != nil {
		return &IdentityInvalidError{Value: id, Err: err}
	}
	if v := u.Version(); v < 1 || v > 5 {
		return &IdentityInvalidError{Value: id, Err: fmt.Errorf("unsupported uuid version %d", v)}
	}
	return nil
}
