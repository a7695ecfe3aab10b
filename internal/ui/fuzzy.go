package ui

import (
	"errors"
	"fmt"

	fuzzyfinder "github.com/ktr0731/go-fuzzyfinder"
)

// Fuzzy implements the UI interface using a fuzzy finder for selections.
type Fuzzy struct{}

// NewFuzzy creates a new Fuzzy UI.
func NewFuzzy() *Fuzzy {
	return &Fuzzy{}
}

// SelectTemplate lets the user fuzzy-find a template. A preview window shows
// the files of the highlighted template.
func (u *Fuzzy) SelectTemplate(choices []Choice) (string, error) {
	if len(choices) == 0 {
		return "", ErrNoChoices
	}

	idx, err := fuzzyfinder.Find(
		choices,
		func(i int) string {
			return choices[i].label()
		},
		fuzzyfinder.WithPreviewWindow(func(i, _, _ int) string {
			if i == -1 {
				return ""
			}
			return choices[i].preview()
		}),
	)
	if err != nil {
		if errors.Is(err, fuzzyfinder.ErrAbort) {
			return "", ErrUserAborted
		}
		return "", fmt.Errorf("failed to find template: %w", err)
	}

	return choices[idx].Name, nil
}

// Prompt asks for the item name with a huh input.
func (u *Fuzzy) Prompt(prompt string) (string, error) {
	return huhPrompt(prompt)
}
