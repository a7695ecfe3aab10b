package main

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cli struct {
	configDir  string
	catalogDir string
}

func newCLI(t *testing.T) *cli {
	t.Helper()
	c := &cli{configDir: t.TempDir(), catalogDir: t.TempDir()}

	write := func(rel, content string) {
		path := filepath.Join(c.catalogDir, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	write("basic/README.md", "# PROJECT_NAME\n")
	write("react-component/COMPONENT_NAME.tsx", "export const COMPONENT_NAME = 1\n")

	// Keep git from finding a repository above the temp dirs.
	t.Setenv("GIT_CEILING_DIRECTORIES", os.TempDir())
	return c
}

func (c *cli) run(args ...string) (code int, stdout, stderr string) {
	var out, errOut bytes.Buffer
	full := append([]string{"--config", c.configDir, "--catalog", c.catalogDir}, args...)
	code = run(full, &out, &errOut)
	return code, out.String(), errOut.String()
}

func TestList(t *testing.T) {
	c := newCLI(t)

	code, stdout, _ := c.run("list")
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "Available templates:")
	assert.Contains(t, stdout, "- basic")
	assert.Contains(t, stdout, "- react-component")
	assert.Less(t, strings.Index(stdout, "basic"), strings.Index(stdout, "react-component"), "templates are sorted")
}

func TestList_Empty(t *testing.T) {
	c := newCLI(t)
	c.catalogDir = t.TempDir()

	code, stdout, _ := c.run("list")
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "No templates found.")
}

func TestList_CatalogUnavailable(t *testing.T) {
	c := newCLI(t)
	c.catalogDir = filepath.Join(t.TempDir(), "missing")

	code, _, stderr := c.run("list")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "template catalog unavailable")
}

func TestCreate(t *testing.T) {
	c := newCLI(t)
	dest := t.TempDir()

	code, stdout, stderr := c.run("create", "react-component", "MyButton", "--path", dest)
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "Successfully created 'MyButton' from template 'react-component'")
	assert.Contains(t, stderr, "Not a Git repository. Skipping branch creation.")
	assert.Contains(t, stderr, "Not a Git repository. Skipping git add.")

	data, err := os.ReadFile(filepath.Join(dest, "MyButton", "MyButton.tsx"))
	require.NoError(t, err)
	assert.Equal(t, "export const MyButton = 1\n", string(data))

	t.Run("history records it", func(t *testing.T) {
		code, stdout, _ := c.run("history")
		assert.Equal(t, 0, code)
		assert.Contains(t, stdout, "react-component")
		assert.Contains(t, stdout, "MyButton")
	})

	t.Run("destination exists", func(t *testing.T) {
		code, _, stderr := c.run("create", "react-component", "MyButton", "--path", dest, "--no-git-add", "--no-git-branch")
		assert.Equal(t, 1, code)
		assert.Contains(t, stderr, "destination already exists")
	})
}

func TestCreate_NoGit(t *testing.T) {
	c := newCLI(t)
	dest := t.TempDir()

	code, _, stderr := c.run("create", "basic", "demo", "--path", dest, "--no-git-add", "--no-git-branch")
	require.Equal(t, 0, code, stderr)
	assert.NotContains(t, stderr, "Not a Git repository")

	data, err := os.ReadFile(filepath.Join(dest, "demo", "README.md"))
	require.NoError(t, err)
	assert.Equal(t, "# demo\n", string(data))
}

func TestCreate_UnknownTemplate(t *testing.T) {
	c := newCLI(t)

	code, stdout, stderr := c.run("create", "vue", "x", "--path", t.TempDir())
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, `template "vue" not found`)
	assert.Contains(t, stdout, "- basic")
	assert.Contains(t, stdout, "- react-component")
}

func TestCreate_MissingPath(t *testing.T) {
	c := newCLI(t)

	code, _, stderr := c.run("create", "basic", "demo", "--path", filepath.Join(t.TempDir(), "missing"))
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "path is not an existing directory")
}

func TestCreate_InvalidUI(t *testing.T) {
	c := newCLI(t)

	code, _, stderr := c.run("create", "basic", "demo", "--ui", "dmenu")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, `unknown UI "dmenu"`)
}

func TestCreate_TooManyArgs(t *testing.T) {
	c := newCLI(t)

	code, _, _ := c.run("create", "basic", "demo", "extra")
	assert.Equal(t, 1, code)
}

func TestHistory_Empty(t *testing.T) {
	c := newCLI(t)

	code, stdout, _ := c.run("history")
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "No items created yet.")
}

func TestConfigPath(t *testing.T) {
	c := newCLI(t)

	code, stdout, _ := c.run("config", "path")
	assert.Equal(t, 0, code)
	assert.Equal(t, filepath.Join(c.configDir, "config.toml")+"\n", stdout)
	assert.FileExists(t, filepath.Join(c.configDir, "config.toml"))
}

func TestUnknownCommand(t *testing.T) {
	c := newCLI(t)

	code, _, stderr := c.run("remove")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "unknown command")
}

// scriptEditor installs a shell script as $VISUAL.
func scriptEditor(t *testing.T, body string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script editors are not supported on windows")
	}
	path := filepath.Join(t.TempDir(), "editor.sh")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755))
	t.Setenv("VISUAL", path)
}

func TestConfigEdit(t *testing.T) {
	c := newCLI(t)
	configPath := filepath.Join(c.configDir, "config.toml")

	t.Run("valid edit is saved", func(t *testing.T) {
		scriptEditor(t, `echo '# edited' >> "$1"`)

		code, stdout, stderr := c.run("config", "edit")
		require.Equal(t, 0, code, stderr)
		assert.Contains(t, stdout, "Configuration saved.")

		data, err := os.ReadFile(configPath)
		require.NoError(t, err)
		assert.Contains(t, string(data), "# edited\n")
	})

	t.Run("invalid edit is discarded", func(t *testing.T) {
		before, err := os.ReadFile(configPath)
		require.NoError(t, err)

		scriptEditor(t, `printf '[[placeholders.basic]]\ntoken = "X"\nderive = "camel"\n' >> "$1"`)

		code, _, stderr := c.run("config", "edit")
		assert.Equal(t, 1, code)
		assert.Contains(t, stderr, "configuration not saved")

		after, err := os.ReadFile(configPath)
		require.NoError(t, err)
		assert.Equal(t, string(before), string(after))
	})

	t.Run("malformed edit is discarded", func(t *testing.T) {
		before, err := os.ReadFile(configPath)
		require.NoError(t, err)

		scriptEditor(t, `echo 'default_ui = "unterminated' >> "$1"`)

		code, _, _ := c.run("config", "edit")
		assert.Equal(t, 1, code)

		after, err := os.ReadFile(configPath)
		require.NoError(t, err)
		assert.Equal(t, string(before), string(after))
	})

	t.Run("no change", func(t *testing.T) {
		scriptEditor(t, "true")

		code, stdout, _ := c.run("config", "edit")
		assert.Equal(t, 0, code)
		assert.Contains(t, stdout, "Configuration unchanged.")
	})
}
