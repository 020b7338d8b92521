package catalog

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/abhisek/sportsmind/internal/battery"
)

// DataUnavailableError means the question catalog could not supply questions.
// An empty catalog is reported the same way as a failed fetch.
type DataUnavailableError struct {
	Role battery.Role
	Err  error
}

func (e *DataUnavailableError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("no questions available for %s", e.Role)
	}
	return fmt.Sprintf("questions for %s unavailable: %v", e.Role, e.Err)
}

func (e *DataUnavailableError) Unwrap() error { return e.Err }

// FieldError is one server-reported validation failure.
type FieldError struct {
	Field   string
	Message string
}

func (f FieldError) String() string {
	return f.Field + ": " + f.Message
}

// RemoteError is a failed call to the scoring service, either at the
// transport level (Network) or as an error status from the server.
type RemoteError struct {
	Network bool
	Status  int
	Message string
	Fields  []FieldError
	Err     error
}

func (e *RemoteError) Error() string {
	if e.Network {
		return fmt.Sprintf("scoring service unreachable: %v", e.Err)
	}
	if len(e.Fields) > 0 {
		parts := make([]string, len(e.Fields))
		for i, f := range e.Fields {
			parts[i] = f.String()
		}
		return fmt.Sprintf("scoring service rejected request (HTTP %d): %s", e.Status, strings.Join(parts, "; "))
	}
	return fmt.Sprintf("scoring service error (HTTP %d): %s", e.Status, e.Message)
}

func (e *RemoteError) Unwrap() error { return e.Err }

// errorBody is the error envelope. detail is either a string or a list of
// {loc, msg} objects.
type errorBody struct {
	Detail  json.RawMessage `json:"detail"`
	Message string          `json:"message"`
}

type detailItem struct {
	Loc     []any  `json:"loc"`
	Msg     string `json:"msg"`
	Message string `json:"message"`
}

// parseErrorBody builds a RemoteError from an error response.
func parseErrorBody(status int, statusText string, body []byte) *RemoteError {
	e := &RemoteError{Status: status, Message: strings.TrimSpace(statusText)}

	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		if text := strings.TrimSpace(string(body)); text != "" {
			e.Message = text
		}
		return e
	}
	if eb.Message != "" {
		e.Message = eb.Message
	}
	if len(eb.Detail) == 0 || string(eb.Detail) == "null" {
		return e
	}

	var s string
	if err := json.Unmarshal(eb.Detail, &s); err == nil {
		e.Message = s
		return e
	}

	var items []detailItem
	if err := json.Unmarshal(eb.Detail, &items); err == nil {
		for _, it := range items {
			e.Fields = append(e.Fields, it.fieldError())
		}
		e.Message = "validation failed"
		return e
	}

	e.Message = string(eb.Detail)
	return e
}

func (d detailItem) fieldError() FieldError {
	field := "unknown field"
	if len(d.Loc) > 0 {
		parts := make([]string, len(d.Loc))
		for i, p := range d.Loc {
			switch v := p.(type) {
			case float64:
				parts[i] = fmt.Sprintf("%d", int(v))
			default:
				parts[i] = fmt.Sprint(v)
			}
		}
		field = strings.Join(parts, ".")
	}
	msg := d.Msg
	if msg == "" {
		msg = d.Message
	}
	if msg == "" {
		msg = "validation error"
	}
	return FieldError{Field: field, Message: msg}
}
