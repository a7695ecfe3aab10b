// Package ui provides the interactive front ends used to pick a template and
// name the new item when they are not given on the command line.
package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
)

// ErrUserAborted is returned when the user cancels an input/selection operation.
var ErrUserAborted = huh.ErrUserAborted

// ErrNoChoices is returned when there is nothing to select from.
var ErrNoChoices = errors.New("no templates available")

// Kind names a UI implementation.
type Kind string

const (
	KindTerminal Kind = "terminal"
	KindFuzzy    Kind = "fuzzy"
	KindRofi     Kind = "rofi"
)

// Valid reports whether k names a known UI.
func (k Kind) Valid() bool {
	switch k {
	case KindTerminal, KindFuzzy, KindRofi:
		return true
	}
	return false
}

// Choice is a selectable template.
type Choice struct {
	Name string
	// Count is how many times the template has been instantiated.
	Count int
	// Files lists the template's files, shown as a preview.
	Files []string
}

// label is the list line of a choice: "  123 name".
func (c Choice) label() string {
	return fmt.Sprintf("%5d %s", c.Count, c.Name)
}

// preview is the preview text of a choice.
func (c Choice) preview() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Name: %s\nUsage Count: %d\n\n", c.Name, c.Count)
	for _, f := range c.Files {
		b.WriteString(f)
		b.WriteByte('\n')
	}
	return b.String()
}

// UI defines the interface for user interactions.
type UI interface {
	// SelectTemplate asks the user to choose a template. Choices are shown in
	// the given order. It returns the name of the selected template.
	SelectTemplate(choices []Choice) (string, error)

	// Prompt expects an answer from the user for a given prompt message.
	Prompt(prompt string) (string, error)
}

// New returns the UI of the given kind. Unknown kinds fall back to the terminal UI.
func New(kind Kind, rofi RofiConfig) UI {
	switch kind {
	case KindRofi:
		return NewRofiUI(rofi)
	case KindFuzzy:
		return NewFuzzy()
	default:
		return NewTerminalUI()
	}
}

// huhPrompt asks for a single line of text with huh.
func huhPrompt(prompt string) (string, error) {
	var input string

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(prompt).
				Value(&input),
		),
	)

	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return "", ErrUserAborted
		}
		return "", fmt.Errorf("prompt failed: %w", err)
	}

	return strings.TrimSpace(input), nil
}
