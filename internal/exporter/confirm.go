package exporter

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/peterh/liner"
)

// Confirmer decides whether an existing output directory may be replaced.
type Confirmer interface {
	Confirm(prompt string) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(prompt string) (bool, error)

// Confirm calls f.
func (f ConfirmFunc) Confirm(prompt string) (bool, error) {
	return f(prompt)
}

// AutoConfirm answers every prompt with v.
func AutoConfirm(v bool) Confirmer {
	return ConfirmFunc(func(string) (bool, error) { return v, nil })
}

// LinerConfirmer asks on the terminal. Ctrl-C and EOF count as "no".
type LinerConfirmer struct{}

// Confirm prompts and accepts "y" or "yes".
func (LinerConfirmer) Confirm(prompt string) (bool, error) {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	answer, err := line.Prompt(prompt)
	if err != nil {
		if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
			return false, nil
		}
		return false, fmt.Errorf("exporter: read answer: %w", err)
	}

	answer = strings.TrimSpace(strings.ToLower(answer))
	return answer == "y" || answer == "yes", nil
}
