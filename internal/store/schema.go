package store

import (
	"context"
	"fmt"

	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

// Table and column names.
const (
	tableDrafts      = "drafts"
	tableSubmissions = "submission_events"
	tableLLMRequests = "llm_request_events"

	colID        = "id"
	colSequence  = "sequence"
	colTimestamp = "timestamp"
)

var (
	// DraftsColumns holds the columns of the drafts table. One row per role.
	DraftsColumns = []*schema.Column{
		{Name: colID, Type: field.TypeInt, Increment: true},
		{Name: "role", Type: field.TypeString, Unique: true},
		{Name: "answers", Type: field.TypeJSON},
		{Name: "answer_count", Type: field.TypeInt, Default: 0},
		{Name: "saved_at", Type: field.TypeTime},
	}
	DraftsTable = &schema.Table{
		Name:       tableDrafts,
		Columns:    DraftsColumns,
		PrimaryKey: []*schema.Column{DraftsColumns[0]},
	}

	// SubmissionEventsColumns holds the columns of the submission event log.
	SubmissionEventsColumns = []*schema.Column{
		{Name: colID, Type: field.TypeInt, Increment: true},
		{Name: colSequence, Type: field.TypeInt64, Unique: true},
		{Name: colTimestamp, Type: field.TypeTime},
		{Name: "role", Type: field.TypeString},
		{Name: "respondent", Type: field.TypeString},
		{Name: "answer_count", Type: field.TypeInt, Default: 0},
		{Name: "outcome", Type: field.TypeString},
		{Name: "result_id", Type: field.TypeString, Default: ""},
		{Name: "athlete_type", Type: field.TypeString, Default: ""},
		{Name: "latency_ms", Type: field.TypeInt64, Default: 0},
		{Name: "error_message", Type: field.TypeString, Default: ""},
	}
	SubmissionEventsTable = &schema.Table{
		Name:       tableSubmissions,
		Columns:    SubmissionEventsColumns,
		PrimaryKey: []*schema.Column{SubmissionEventsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "submissionevent_timestamp", Columns: []*schema.Column{SubmissionEventsColumns[2]}},
			{Name: "submissionevent_outcome", Columns: []*schema.Column{SubmissionEventsColumns[6]}},
		},
	}

	// LLMRequestEventsColumns holds the columns of the LLM request log.
	LLMRequestEventsColumns = []*schema.Column{
		{Name: colID, Type: field.TypeInt, Increment: true},
		{Name: colSequence, Type: field.TypeInt64, Unique: true},
		{Name: colTimestamp, Type: field.TypeTime},
		{Name: "provider", Type: field.TypeString},
		{Name: "model", Type: field.TypeString},
		{Name: "purpose", Type: field.TypeString},
		{Name: "input_tokens", Type: field.TypeInt, Default: 0},
		{Name: "output_tokens", Type: field.TypeInt, Default: 0},
		{Name: "latency_ms", Type: field.TypeInt64, Default: 0},
		{Name: "success", Type: field.TypeBool},
		{Name: "error_message", Type: field.TypeString, Default: ""},
		{Name: "request_body", Type: field.TypeString, Size: 2147483647, Default: ""},
		{Name: "response_body", Type: field.TypeString, Size: 2147483647, Default: ""},
	}
	LLMRequestEventsTable = &schema.Table{
		Name:       tableLLMRequests,
		Columns:    LLMRequestEventsColumns,
		PrimaryKey: []*schema.Column{LLMRequestEventsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "llmrequestevent_timestamp", Columns: []*schema.Column{LLMRequestEventsColumns[2]}},
			{Name: "llmrequestevent_purpose", Columns: []*schema.Column{LLMRequestEventsColumns[5]}},
			{Name: "llmrequestevent_success", Columns: []*schema.Column{LLMRequestEventsColumns[9]}},
		},
	}

	// Tables lists every table managed by the store.
	Tables = []*schema.Table{
		DraftsTable,
		SubmissionEventsTable,
		LLMRequestEventsTable,
	}
)

// migrate creates or upgrades the tables.
func migrate(ctx context.Context, drv dialect.Driver) error {
	m, err := schema.NewMigrate(drv)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}
	if err := m.Create(ctx, Tables...); err != nil {
		return fmt.Errorf("create tables: %w", err)
	}
	return nil
}
