package components

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/sportsmind/internal/ui/theme"
)

// ContentWidth returns the uniform inner width used for stacked panels so
// they visually align.
func ContentWidth(frameWidth int) int {
	// border (2) + padding (4)
	w := frameWidth - 6
	if w > 76 {
		w = 76
	}
	if w < 20 {
		w = 20
	}
	return w
}

// Panel wraps content in a rounded-border box at the given content width.
func Panel(content string, cw int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Width(cw - 2).
		Padding(0, 1).
		Render(content)
}

// TitledPanel is a Panel with a heading line.
func TitledPanel(title, content string, cw int) string {
	return Panel(theme.Heading.Render(title)+"\n\n"+content, cw)
}

// ErrorPanel renders an error title and its detail lines.
func ErrorPanel(title string, lines []string, cw int) string {
	body := theme.Danger.Render(title)
	for _, l := range lines {
		body += "\n" + lipgloss.NewStyle().Foreground(theme.Text).Render("• "+l)
	}
	return theme.ErrorCard.Width(cw - 2).Render(body)
}
