package ui

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRofi writes a shell script standing in for the rofi binary.
func fakeRofi(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake rofi needs a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "rofi")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755))
	return path
}

var testChoices = []Choice{
	{Name: "react-component", Count: 4},
	{Name: "basic", Count: 1},
	{Name: "python-service"},
}

func TestRofiUI_SelectTemplate(t *testing.T) {
	rofi := fakeRofi(t, "sed -n 2p")

	name, err := NewRofiUI(RofiConfig{Path: rofi}).SelectTemplate(testChoices)
	require.NoError(t, err)
	assert.Equal(t, "basic", name)
}

func TestRofiUI_Arguments(t *testing.T) {
	out := filepath.Join(t.TempDir(), "args")
	rofi := fakeRofi(t, `echo "$@" > `+out+`; sed -n 1p`)

	u := NewRofiUI(RofiConfig{Path: rofi, Theme: "dracula", SelectArgs: []string{"-i"}})
	_, err := u.SelectTemplate(testChoices)
	require.NoError(t, err)

	args, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "-dmenu -p Select Template: -theme dracula -i\n", string(args))
}

func TestRofiUI_Aborted(t *testing.T) {
	rofi := fakeRofi(t, "exit 1")

	_, err := NewRofiUI(RofiConfig{Path: rofi}).SelectTemplate(testChoices)
	assert.ErrorIs(t, err, ErrUserAborted)

	_, err = NewRofiUI(RofiConfig{Path: rofi}).Prompt("Item name")
	assert.ErrorIs(t, err, ErrUserAborted)
}

func TestRofiUI_EmptySelection(t *testing.T) {
	rofi := fakeRofi(t, "cat > /dev/null")

	_, err := NewRofiUI(RofiConfig{Path: rofi}).SelectTemplate(testChoices)
	assert.ErrorIs(t, err, ErrUserAborted)
}

func TestRofiUI_Failure(t *testing.T) {
	rofi := fakeRofi(t, "echo broken >&2; exit 2")

	_, err := NewRofiUI(RofiConfig{Path: rofi}).SelectTemplate(testChoices)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUserAborted)
	assert.Contains(t, err.Error(), "broken")
}

func TestRofiUI_UnknownSelection(t *testing.T) {
	rofi := fakeRofi(t, "echo vue")

	_, err := NewRofiUI(RofiConfig{Path: rofi}).SelectTemplate(testChoices)
	assert.Error(t, err)
}

func TestRofiUI_Prompt(t *testing.T) {
	rofi := fakeRofi(t, "echo '  MyButton  '")

	name, err := NewRofiUI(RofiConfig{Path: rofi, InputArgs: []string{"-l", "0"}}).Prompt("Item name")
	require.NoError(t, err)
	assert.Equal(t, "MyButton", name)
}

func TestRofiUI_NoChoices(t *testing.T) {
	_, err := NewRofiUI(RofiConfig{}).SelectTemplate(nil)
	assert.ErrorIs(t, err, ErrNoChoices)
}

func TestNewRofiUI_DefaultPath(t *testing.T) {
	assert.Equal(t, "rofi", NewRofiUI(RofiConfig{}).config.Path)
}
