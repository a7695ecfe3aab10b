package ui

import (
	"bytes"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// RofiConfig holds configuration specific to the Rofi user interface.
type RofiConfig struct {
	// Path is the command or path to the Rofi executable.
	Path string `toml:"path"`
	// Theme specifies the Rofi theme to use. If empty, Rofi's default theme is used.
	Theme string `toml:"theme,omitempty"`
	// SelectArgs are extra arguments passed to Rofi for the template choice.
	SelectArgs []string `toml:"select_args,omitempty"`
	// InputArgs are extra arguments passed to Rofi for free-form text input.
	InputArgs []string `toml:"input_args,omitempty"`
}

// RofiUI implements the UI interface using Rofi for user interactions.
type RofiUI struct {
	config RofiConfig
}

// NewRofiUI creates a new RofiUI instance with the given Rofi configuration.
func NewRofiUI(config RofiConfig) *RofiUI {
	if config.Path == "" {
		config.Path = "rofi"
	}
	return &RofiUI{config: config}
}

// runRofi executes Rofi in dmenu mode with input on stdin and returns the
// selected line.
func (u *RofiUI) runRofi(prompt string, input string, args []string) (string, error) {
	cmdArgs := []string{"-dmenu"}
	if prompt != "" {
		cmdArgs = append(cmdArgs, "-p", prompt)
	}
	if u.config.Theme != "" {
		cmdArgs = append(cmdArgs, "-theme", u.config.Theme)
	}
	cmdArgs = append(cmdArgs, args...)

	cmd := exec.Command(u.config.Path, cmdArgs...)

	var stdout, stderr bytes.Buffer
	cmd.Stdin = strings.NewReader(input)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		// Rofi exits with status 1 on Esc.
		var exitError *exec.ExitError
		if errors.As(err, &exitError) && exitError.ExitCode() == 1 {
			return "", ErrUserAborted
		}
		return "", fmt.Errorf("rofi command failed: %w\nStderr: %s", err, stderr.String())
	}

	selected := strings.TrimSpace(stdout.String())
	if selected == "" && input != "" {
		return "", ErrUserAborted
	}

	return selected, nil
}

// SelectTemplate implements the UI interface method for selecting a template using Rofi.
func (u *RofiUI) SelectTemplate(choices []Choice) (string, error) {
	if len(choices) == 0 {
		return "", ErrNoChoices
	}

	var input strings.Builder
	byLabel := make(map[string]string, len(choices))
	for _, c := range choices {
		label := c.label()
		input.WriteString(label + "\n")
		byLabel[strings.TrimSpace(label)] = c.Name
	}

	selected, err := u.runRofi("Select Template:", input.String(), u.config.SelectArgs)
	if err != nil {
		return "", err
	}

	name, found := byLabel[selected]
	if !found {
		return "", fmt.Errorf("selected entry %q not found in template list", selected)
	}

	return name, nil
}

// Prompt implements the UI interface method for prompting the user for input using Rofi.
func (u *RofiUI) Prompt(prompt string) (string, error) {
	return u.runRofi(prompt, "", u.config.InputArgs)
}
