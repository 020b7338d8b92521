package store

import (
	"context"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

func (r *eventRepo) AppendSubmission(ctx context.Context, data SubmissionEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	query, args := entsql.Dialect(dialect.SQLite).
		Insert(tableSubmissions).
		Columns(colSequence, colTimestamp, "role", "respondent", "answer_count",
			"outcome", "result_id", "athlete_type", "latency_ms", "error_message").
		Values(seqNum, time.Now().UTC(), data.Role, data.Respondent, data.AnswerCount,
			data.Outcome, data.ResultID, data.AthleteType, data.LatencyMs, data.ErrorMessage).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save submission event: %w", err)
	}
	return nil
}

func (r *eventRepo) QuerySubmissions(ctx context.Context, opts QueryOpts) ([]SubmissionEvent, error) {
	b := entsql.Dialect(dialect.SQLite)
	sel := b.Select(colID, colSequence, colTimestamp, "role", "respondent", "answer_count",
		"outcome", "result_id", "athlete_type", "latency_ms", "error_message").
		From(b.Table(tableSubmissions))
	applyQueryOpts(sel, opts)

	query, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query submission events: %w", err)
	}
	defer rows.Close()

	var out []SubmissionEvent
	for rows.Next() {
		var e SubmissionEvent
		if err := rows.Scan(&e.ID, &e.Sequence, &e.Timestamp, &e.Role, &e.Respondent, &e.AnswerCount,
			&e.Outcome, &e.ResultID, &e.AthleteType, &e.LatencyMs, &e.ErrorMessage); err != nil {
			return nil, fmt.Errorf("scan submission event: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
