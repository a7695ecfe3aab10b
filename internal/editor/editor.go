// Package editor opens the user's text editor on a temporary file.
package editor

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
)

// DefaultEditor returns the user's preferred editor.
func DefaultEditor(editor string) string {
	if editor != "" {
		return editor
	}

	// Check environment variables in order of preference
	if editor := os.Getenv("VISUAL"); editor != "" {
		return editor
	}
	if editor := os.Getenv("EDITOR"); editor != "" {
		return editor
	}

	if runtime.GOOS == "windows" {
		return "notepad"
	}
	return "nano"
}

// Edit lets the user edit initialContent and returns the saved text.
func Edit(editor, initialContent string) (string, error) {
	filename, err := createTempFile(initialContent)
	if err != nil {
		return "", err
	}
	defer os.Remove(filename)

	if err := open(editor, filename); err != nil {
		return "", err
	}

	content, err := os.ReadFile(filename)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}
	return string(content), nil
}

// createTempFile creates a temporary file with initial content
func createTempFile(initialContent string) (string, error) {
	f, err := os.CreateTemp("", "git-template_*.txt")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	defer f.Close()

	if initialContent != "" {
		if _, err := f.WriteString(initialContent); err != nil {
			os.Remove(f.Name())
			return "", fmt.Errorf("failed to write initial content: %w", err)
		}
	}

	return f.Name(), nil
}

// open opens filename in the editor, attached to the current terminal.
func open(editor, filename string) error {
	editor = DefaultEditor(editor)

	var cmd *exec.Cmd
	if runtime.GOOS == "windows" {
		cmd = exec.Command("cmd", "/c", editor, filename)
	} else {
		cmd = exec.Command(editor, filename)
	}

	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("editor %q failed: %w", editor, err)
	}
	return nil
}
