package survey

import (
	"github.com/abhisek/sportsmind/internal/battery"
	"github.com/abhisek/sportsmind/internal/catalog"
)

type questionsLoadedMsg struct {
	questions []battery.Question
	err       error
}

type submittedMsg struct {
	result *catalog.Result
	err    error
}
