package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/sportsmind/internal/battery"
)

// Draft is a saved, possibly incomplete set of answers for one role.
type Draft struct {
	Role    battery.Role
	Answers map[int]float64
	SavedAt time.Time
}

// DraftStore persists drafts. Callers treat every call as best-effort.
type DraftStore interface {
	Save(ctx context.Context, role battery.Role, answers map[int]float64) error
	// Load returns ok=false when the role has no draft.
	Load(ctx context.Context, role battery.Role) (Draft, bool, error)
	Clear(ctx context.Context, role battery.Role) error
	// List summarizes the stored drafts, most recent first.
	List(ctx context.Context) ([]DraftSummary, error)
}

// DraftRepo is the SQLite DraftStore. There is at most one draft per role.
type DraftRepo struct {
	db  *sql.DB
	now func() time.Time
}

func (r *DraftRepo) clock() time.Time {
	if r.now != nil {
		return r.now()
	}
	return time.Now()
}

func (r *DraftRepo) Save(ctx context.Context, role battery.Role, answers map[int]float64) error {
	payload, err := json.Marshal(answers)
	if err != nil {
		return fmt.Errorf("marshal draft answers: %w", err)
	}

	query, args := entsql.Dialect(dialect.SQLite).
		Insert(tableDrafts).
		Columns("role", "answers", "answer_count", "saved_at").
		Values(string(role), string(payload), len(answers), r.clock().UTC()).
		OnConflict(
			entsql.ConflictColumns("role"),
			entsql.ResolveWithNewValues(),
		).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save draft: %w", err)
	}
	return nil
}

func (r *DraftRepo) Load(ctx context.Context, role battery.Role) (Draft, bool, error) {
	b := entsql.Dialect(dialect.SQLite)
	query, args := b.Select("answers", "saved_at").
		From(b.Table(tableDrafts)).
		Where(entsql.EQ("role", string(role))).
		Query()

	var (
		payload string
		savedAt time.Time
	)
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&payload, &savedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Draft{}, false, nil
	}
	if err != nil {
		return Draft{}, false, fmt.Errorf("load draft: %w", err)
	}

	answers := make(map[int]float64)
	if err := json.Unmarshal([]byte(payload), &answers); err != nil {
		return Draft{}, false, fmt.Errorf("unmarshal draft answers: %w", err)
	}
	return Draft{Role: role, Answers: answers, SavedAt: savedAt}, true, nil
}

func (r *DraftRepo) Clear(ctx context.Context, role battery.Role) error {
	query, args := entsql.Dialect(dialect.SQLite).
		Delete(tableDrafts).
		Where(entsql.EQ("role", string(role))).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("clear draft: %w", err)
	}
	return nil
}

// ClearAll removes the draft of every respondent role.
func (r *DraftRepo) ClearAll(ctx context.Context) error {
	for _, role := range battery.Roles() {
		if err := r.Clear(ctx, role); err != nil {
			return fmt.Errorf("role %s: %w", role, err)
		}
	}
	return nil
}

// DraftSummary describes a stored draft without its answers.
type DraftSummary struct {
	Role        battery.Role
	AnswerCount int
	SavedAt     time.Time
}

// List returns a summary of every stored draft, most recent first.
func (r *DraftRepo) List(ctx context.Context) ([]DraftSummary, error) {
	b := entsql.Dialect(dialect.SQLite)
	query, args := b.Select("role", "answer_count", "saved_at").
		From(b.Table(tableDrafts)).
		OrderBy(entsql.Desc("saved_at")).
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list drafts: %w", err)
	}
	defer rows.Close()

	var out []DraftSummary
	for rows.Next() {
		var (
			d    DraftSummary
			role string
		)
		if err := rows.Scan(&role, &d.AnswerCount, &d.SavedAt); err != nil {
			return nil, fmt.Errorf("scan draft: %w", err)
		}
		d.Role = battery.Role(role)
		out = append(out, d)
	}
	return out, rows.Err()
}

// MemoryDrafts is an in-process DraftStore.
type MemoryDrafts struct {
	mu     sync.Mutex
	drafts map[battery.Role]Draft
	// Err, when set, is returned by every call.
	Err error
}

// NewMemoryDrafts returns an empty in-memory DraftStore.
func NewMemoryDrafts() *MemoryDrafts {
	return &MemoryDrafts{drafts: make(map[battery.Role]Draft)}
}

func (m *MemoryDrafts) Save(_ context.Context, role battery.Role, answers map[int]float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	cp := make(map[int]float64, len(answers))
	for k, v := range answers {
		cp[k] = v
	}
	m.drafts[role] = Draft{Role: role, Answers: cp, SavedAt: time.Now()}
	return nil
}

func (m *MemoryDrafts) Load(_ context.Context, role battery.Role) (Draft, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return Draft{}, false, m.Err
	}
	d, ok := m.drafts[role]
	return d, ok, nil
}

func (m *MemoryDrafts) Clear(_ context.Context, role battery.Role) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	delete(m.drafts, role)
	return nil
}

func (m *MemoryDrafts) List(_ context.Context) ([]DraftSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	out := make([]DraftSummary, 0, len(m.drafts))
	for _, d := range m.drafts {
		out = append(out, DraftSummary{Role: d.Role, AnswerCount: len(d.Answers), SavedAt: d.SavedAt})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].SavedAt.Equal(out[j].SavedAt) {
			return out[i].SavedAt.After(out[j].SavedAt)
		}
		return out[i].Role < out[j].Role
	})
	return out, nil
}
