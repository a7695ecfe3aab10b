package vcs

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBackend(t *testing.T) {
	for input, expected := range map[string]Backend{
		"":        BackendExec,
		"exec":    BackendExec,
		" Native": BackendNative,
		"none":    BackendNone,
	} {
		got, err := ParseBackend(input)
		require.NoError(t, err, input)
		assert.Equal(t, expected, got, input)
	}

	_, err := ParseBackend("svn")
	assert.Error(t, err)
}

func TestNew(t *testing.T) {
	assert.IsType(t, &Exec{}, New(BackendExec, "/work"))
	assert.IsType(t, &Native{}, New(BackendNative, "/work"))
	assert.IsType(t, Noop{}, New(BackendNone, "/work"))
	assert.Equal(t, "/work", New("", "/work").(*Exec).Dir)
}

func TestNoop(t *testing.T) {
	ctx := context.Background()
	var g Git = Noop{}
	assert.False(t, g.IsInsideWorkTree(ctx))
	assert.NoError(t, g.CreateBranch(ctx, "feat/x"))
	assert.NoError(t, g.StageAdd(ctx, "x"))
}
