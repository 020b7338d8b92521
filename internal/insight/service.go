// Package insight turns a scored result into a short coaching note using the
// configured language model.
package insight

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/abhisek/sportsmind/internal/battery"
	"github.com/abhisek/sportsmind/internal/catalog"
	"github.com/abhisek/sportsmind/internal/llm"
)

// Purpose tags insight requests in the event log.
const Purpose = "insight"

// Note is a coaching note for one result.
type Note struct {
	ResultID   string   `json:"result_id" yaml:"result_id"`
	Headline   string   `json:"headline" yaml:"headline"`
	Strengths  []string `json:"strengths" yaml:"strengths"`
	FocusAreas []string `json:"focus_areas" yaml:"focus_areas"`
	Drills     []string `json:"drills" yaml:"drills"`
}

// Config tunes the generation request.
type Config struct {
	MaxTokens   int
	Temperature float64
}

// DefaultConfig returns the settings used by the TUI.
func DefaultConfig() Config {
	return Config{MaxTokens: 800, Temperature: 0.4}
}

// Service generates coaching notes. A nil *Service is valid and disabled.
type Service struct {
	provider llm.Provider
	cfg      Config
}

// NewService returns nil when provider is nil.
func NewService(provider llm.Provider, cfg Config) *Service {
	if provider == nil {
		return nil
	}
	return &Service{provider: provider, cfg: cfg}
}

// Enabled reports whether notes can be generated.
func (s *Service) Enabled() bool {
	return s != nil
}

type noteOutput struct {
	Headline   string   `json:"headline"`
	Strengths  []string `json:"strengths"`
	FocusAreas []string `json:"focus_areas"`
	Drills     []string `json:"drills"`
}

// Generate asks the model for a note on r as answered by role.
func (s *Service) Generate(ctx context.Context, r catalog.Result, role battery.Role) (*Note, error) {
	if s == nil {
		return nil, llm.ErrDisabled
	}
	ctx = llm.WithPurpose(ctx, Purpose)

	resp, err := s.provider.Generate(ctx, llm.Request{
		System:      systemPrompt,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: buildUserMessage(r, role)}},
		Schema:      NoteSchema,
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("generate insight: %w", err)
	}

	var out noteOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, fmt.Errorf("parse insight response: %w", err)
	}

	note := &Note{
		ResultID:   r.ResultID,
		Headline:   out.Headline,
		Strengths:  out.Strengths,
		FocusAreas: out.FocusAreas,
		Drills:     out.Drills,
	}
	if len(note.FocusAreas) == 0 {
		for _, key := range lowest(r, 3) {
			note.FocusAreas = append(note.FocusAreas, sectionTitle(key))
		}
	}
	return note, nil
}
