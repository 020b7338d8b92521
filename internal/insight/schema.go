package insight

import "github.com/abhisek/sportsmind/internal/llm"

// NoteSchema is the structured coaching note the model must return.
var NoteSchema = &llm.Schema{
	Name:        "coaching-note",
	Description: "Short coaching note derived from a psychology battery result",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"headline": map[string]any{
				"type":        "string",
				"description": "One sentence summary of the athlete profile (8-15 words)",
			},
			"strengths": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"maxItems":    3,
				"description": "1-3 strengths to keep using (5-12 words each)",
			},
			"focus_areas": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"maxItems":    3,
				"description": "1-3 areas to work on (5-12 words each)",
			},
			"drills": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"maxItems":    3,
				"description": "1-3 concrete mental drills for the next two weeks",
			},
		},
		"required":             []any{"headline", "strengths", "focus_areas", "drills"},
		"additionalProperties": false,
	},
}
