package components

import (
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/sportsmind/internal/ui/theme"
)

// TextInput wraps bubbles/textinput with validation feedback.
type TextInput struct {
	Model    textinput.Model
	Validate func(string) error
	err      error
	checked  bool
}

// NewTextInput creates a new focused text input.
func NewTextInput(placeholder string, charLimit int, validate func(string) error) TextInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Focus()
	if charLimit > 0 {
		ti.CharLimit = charLimit
	}
	return TextInput{Model: ti, Validate: validate}
}

// Init returns the initial command.
func (t TextInput) Init() tea.Cmd {
	return t.Model.Focus()
}

// Update handles messages. Editing clears the previous validation result.
func (t TextInput) Update(msg tea.Msg) (TextInput, tea.Cmd) {
	if _, ok := msg.(tea.KeyPressMsg); ok {
		t.checked = false
		t.err = nil
	}
	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	return t, cmd
}

// View renders the text input.
func (t TextInput) View() string {
	view := t.Model.View()
	if t.checked {
		if t.err == nil {
			view += " " + lipgloss.NewStyle().Foreground(theme.Success).Render("✓")
		} else {
			view += "\n" + lipgloss.NewStyle().Foreground(theme.Error).Render(t.err.Error())
		}
	}
	return view
}

// Value returns the trimmed input value.
func (t TextInput) Value() string {
	return strings.TrimSpace(t.Model.Value())
}

// Check runs the validator and remembers the outcome for View.
func (t *TextInput) Check() error {
	t.checked = true
	t.err = nil
	if t.Validate != nil {
		t.err = t.Validate(t.Value())
	}
	return t.err
}
