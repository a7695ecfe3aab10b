package vcs

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func initNativeRepo(t *testing.T) (string, *git.Repository) {
	t.Helper()
	dir := t.TempDir()

	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("# repo\n"), 0o644))
	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add("README.md")
	require.NoError(t, err)
	_, err = wt.Commit("init", &git.CommitOptions{
		Author: &object.Signature{Name: "test", Email: "test@example.com", When: time.Now()},
	})
	require.NoError(t, err)

	return dir, repo
}

func TestNative_Repository(t *testing.T) {
	dir, repo := initNativeRepo(t)
	ctx := context.Background()

	item := filepath.Join(dir, "services", "billing-api")
	require.NoError(t, os.MkdirAll(item, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(item, "billing_api.py"), []byte("NAME = 1\n"), 0o644))

	g := NewNative(filepath.Join(dir, "services"))
	assert.True(t, g.IsInsideWorkTree(ctx))

	require.NoError(t, g.CreateBranch(ctx, "feat/billing-api"))
	head, err := repo.Head()
	require.NoError(t, err)
	assert.Equal(t, plumbing.NewBranchReferenceName("feat/billing-api"), head.Name())

	require.NoError(t, g.StageAdd(ctx, item))
	wt, err := repo.Worktree()
	require.NoError(t, err)
	status, err := wt.Status()
	require.NoError(t, err)
	assert.Equal(t, git.Added, status.File("services/billing-api/billing_api.py").Staging)
}

func TestNative_RelativePath(t *testing.T) {
	dir, repo := initNativeRepo(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("n\n"), 0o644))

	require.NoError(t, NewNative(dir).StageAdd(context.Background(), "notes.txt"))

	wt, err := repo.Worktree()
	require.NoError(t, err)
	status, err := wt.Status()
	require.NoError(t, err)
	assert.Equal(t, git.Added, status.File("notes.txt").Staging)
}

func TestNative_OutsideWorkTree(t *testing.T) {
	g := NewNative(t.TempDir())
	ctx := context.Background()

	assert.False(t, g.IsInsideWorkTree(ctx))
	assert.Error(t, g.CreateBranch(ctx, "feat/x"))
	assert.Error(t, g.StageAdd(ctx, "x"))
}

func TestNative_StageOutsideRoot(t *testing.T) {
	dir, _ := initNativeRepo(t)

	err := NewNative(dir).StageAdd(context.Background(), t.TempDir())
	assert.ErrorIs(t, err, ErrOutsideWorkTree)
}

func TestRelativeTo(t *testing.T) {
	rel, err := relativeTo("/repo", "/repo/src/a")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("src", "a"), rel)

	_, err = relativeTo("/repo", "/other")
	assert.ErrorIs(t, err, ErrOutsideWorkTree)
}
