package submission

import (
	"fmt"
	"strings"

	"github.com/abhisek/sportsmind/internal/battery"
)

// IssueKind classifies a soft validation problem.
type IssueKind int

const (
	// IssueMissing is an indexed question with no answer.
	IssueMissing IssueKind = iota
	// IssueCount is an answer count different from the battery size.
	IssueCount
	// IssueRange is an answer outside [0, 10].
	IssueRange
)

func (k IssueKind) String() string {
	switch k {
	case IssueMissing:
		return "missing"
	case IssueCount:
		return "count"
	case IssueRange:
		return "range"
	default:
		return "unknown"
	}
}

// Issue is one validation problem. Number is zero for IssueCount.
type Issue struct {
	Kind   IssueKind
	Number int
	Value  float64
	Got    int
}

func (i Issue) String() string {
	switch i.Kind {
	case IssueMissing:
		return fmt.Sprintf("question %d is unanswered", i.Number)
	case IssueCount:
		return fmt.Sprintf("expected %d answers, got %d", batterySize, i.Got)
	case IssueRange:
		return fmt.Sprintf("question %d: value %g is outside 0-10", i.Number, i.Value)
	default:
		return "unknown issue"
	}
}

// ValidationError collects every soft problem found in one pass.
type ValidationError struct {
	Issues []Issue
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Issues))
	for i, is := range e.Issues {
		parts[i] = is.String()
	}
	return "submission invalid: " + strings.Join(parts, "; ")
}

// Count returns the number of issues of kind k.
func (e *ValidationError) Count(k IssueKind) int {
	n := 0
	for _, is := range e.Issues {
		if is.Kind == k {
			n++
		}
	}
	return n
}

// IdentityResolutionError means an answer key could not be mapped to a
// question's stable identity. The catalog and the answers disagree.
type IdentityResolutionError struct {
	Number int
}

func (e *IdentityResolutionError) Error() string {
	return fmt.Sprintf("question %d has no stable identity in the catalog", e.Number)
}

// IdentityInvalidError means the respondent identity is not a usable UUID.
type IdentityInvalidError struct {
	Value string
	Err   error
}

func (e *IdentityInvalidError) Error() string {
	if e.Value == "" {
		return "respondent identity is not set"
	}
	if e.Err != nil {
		return fmt.Sprintf("respondent identity %q is invalid: %v", e.Value, e.Err)
	}
	return fmt.Sprintf("respondent identity %q is invalid", e.Value)
}

func (e *IdentityInvalidError) Unwrap() error { return e.Err }

// DraftSavedError wraps a failed submission whose answers were kept as a
// draft for Role. Without it the answers were not saved.
type DraftSavedError struct {
	Role battery.Role
	Err  error
}

func (e *DraftSavedError) Error() string {
	return fmt.Sprintf("%v (answers kept as %s draft)", e.Err, e.Role)
}

func (e *DraftSavedError) Unwrap() error { return e.Err }
