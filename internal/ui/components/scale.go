package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/sportsmind/internal/ui/theme"
)

// ScaleMax is the top of the answer scale. The bottom is 0.
const ScaleMax = 10

// Scale renders a 0..10 answer row for one question: the chosen value is
// highlighted and, when focused, the cursor is shown.
type Scale struct {
	Cursor   int
	Value    float64
	Answered bool
	Focused  bool
}

// Move shifts the cursor by delta, clamped to the scale.
func (s *Scale) Move(delta int) {
	s.Cursor += delta
	if s.Cursor < 0 {
		s.Cursor = 0
	}
	if s.Cursor > ScaleMax {
		s.Cursor = ScaleMax
	}
}

// View renders the scale row.
func (s Scale) View() string {
	cells := make([]string, 0, ScaleMax+1)
	for v := 0; v <= ScaleMax; v++ {
		label := fmt.Sprintf("%2d", v)
		switch {
		case s.Focused && v == s.Cursor:
			cells = append(cells, theme.ScaleCursor.Render(label))
		case s.Answered && float64(v) == s.Value:
			cells = append(cells, theme.ScaleChosen.Render(label))
		default:
			cells = append(cells, lipgloss.NewStyle().Foreground(theme.TextDim).Render(label))
		}
	}
	return strings.Join(cells, " ")
}
