package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/sportsmind/internal/ui/layout"
)

// Screen defines the interface for all application screens.
type Screen interface {
	// Init returns an initial command when the screen is first created.
	Init() tea.Cmd

	// Update handles messages and returns updated screen + command.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the screen content (excluding header/footer).
	View(width, height int) string

	// Title returns the screen name for the header.
	Title() string
}

// KeyHintProvider is an optional interface that screens can implement
// to provide custom footer key hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// Closer is implemented by screens holding timers or other resources that
// must be released when the screen leaves the stack.
type Closer interface {
	Close()
}

// EscapeHandler is implemented by screens that consume esc themselves
// instead of letting the app pop them.
type EscapeHandler interface {
	HandlesEscape() bool
}

// StatusProvider is implemented by screens that show who is answering
// and how far along they are in the header.
type StatusProvider interface {
	Status() layout.Status
}
