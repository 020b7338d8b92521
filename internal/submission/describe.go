package submission

import (
	"errors"
	"fmt"

	"github.com/abhisek/sportsmind/internal/catalog"
	"github.com/abhisek/sportsmind/internal/questionnaire"
)

// Recovery says what the respondent can do about an error.
type Recovery int

const (
	// Recoverable errors are fixed by editing answers and retrying.
	Recoverable Recovery = iota
	// Environment errors need the catalog reloaded or configuration fixed.
	Environment
	// Retryable errors are transient; answers are kept.
	Retryable
)

func (r Recovery) String() string {
	switch r {
	case Recoverable:
		return "recoverable"
	case Environment:
		return "environment"
	case Retryable:
		return "retryable"
	default:
		return "unknown"
	}
}

// Message is an error prepared for display.
type Message struct {
	Title    string
	Lines    []string
	Recovery Recovery
}

// Describe maps an error from loading, answering or submitting to a
// user-facing message.
func Describe(err error) Message {
	var (
		ve *ValidationError
		ir *IdentityResolutionError
		ii *IdentityInvalidError
		du *catalog.DataUnavailableError
		re *catalog.RemoteError
		ie *questionnaire.IntegrityError
	)

	switch {
	case errors.As(err, &ve):
		m := Message{Title: "Some answers need attention", Recovery: Recoverable}
		for _, is := range ve.Issues {
			m.Lines = append(m.Lines, is.String())
		}
		return m

	case errors.As(err, &ir):
		return Message{
			Title:    "The question list is out of date",
			Lines:    []string{ir.Error(), "Reload the questions and try again."},
			Recovery: Environment,
		}

	case errors.As(err, &ii):
		return Message{
			Title:    "Respondent ID is not set up",
			Lines:    []string{ii.Error(), "Set respondent.id in the config or enter a valid UUID."},
			Recovery: Environment,
		}

	case errors.As(err, &du):
		lines := []string{fmt.Sprintf("No questions could be loaded for %s.", du.Role.DisplayName())}
		if du.Err != nil {
			lines = append(lines, du.Err.Error())
		}
		return Message{Title: "Questions unavailable", Lines: lines, Recovery: Retryable}

	case errors.As(err, &ie):
		return Message{Title: "Answers do not match the questions", Lines: []string{ie.Error()}, Recovery: Environment}

	case errors.As(err, &re):
		m := Message{Title: "Submission failed", Recovery: Retryable}
		switch {
		case re.Network:
			m.Lines = append(m.Lines, "Could not reach the scoring service. Check your connection.")
		case len(re.Fields) > 0:
			for _, f := range re.Fields {
				m.Lines = append(m.Lines, f.String())
			}
		default:
			m.Lines = append(m.Lines, re.Message)
		}
		var ds *DraftSavedError
		if errors.As(err, &ds) {
			m.Lines = append(m.Lines, "Your answers have been saved.")
		} else {
			m.Lines = append(m.Lines, "Your answers were not saved. Keep this screen open to retry.")
		}
		return m

	case err == nil:
		return Message{}

	default:
		return Message{Title: "Something went wrong", Lines: []string{err.Error()}, Recovery: Retryable}
	}
}
