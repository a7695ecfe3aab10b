package vcs

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// ErrOutsideWorkTree is returned when a path is not under the repository root.
var ErrOutsideWorkTree = errors.New("path is outside the working tree")

// Native implements Git on go-git. The repository is found by walking up from Dir.
type Native struct {
	Dir string
}

// NewNative creates a go-git backed Git bound to dir.
func NewNative(dir string) *Native {
	return &Native{Dir: dir}
}

func (g *Native) worktree() (*git.Worktree, error) {
	repo, err := git.PlainOpenWithOptions(g.Dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("failed to open repository at %s: %w", g.Dir, err)
	}
	return repo.Worktree()
}

// IsInsideWorkTree reports whether a repository is found at or above Dir.
func (g *Native) IsInsideWorkTree(_ context.Context) bool {
	_, err := g.worktree()
	return err == nil
}

// CreateBranch checks out a new branch, keeping the working tree as is.
func (g *Native) CreateBranch(_ context.Context, name string) error {
	wt, err := g.worktree()
	if err != nil {
		return err
	}

	err = wt.Checkout(&git.CheckoutOptions{
		Branch: plumbing.NewBranchReferenceName(name),
		Create: true,
		Keep:   true,
	})
	if err != nil {
		return fmt.Errorf("failed to create branch %s: %w", name, err)
	}
	return nil
}

// StageAdd stages path relative to the repository root.
func (g *Native) StageAdd(_ context.Context, path string) error {
	wt, err := g.worktree()
	if err != nil {
		return err
	}

	rel, err := relativeTo(wt.Filesystem.Root(), g.resolve(path))
	if err != nil {
		return err
	}

	if _, err := wt.Add(filepath.ToSlash(rel)); err != nil {
		return fmt.Errorf("failed to stage %s: %w", path, err)
	}
	return nil
}

func (g *Native) resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(g.Dir, path)
}

// relativeTo returns path relative to root, resolving symlinks on both sides.
func relativeTo(root, path string) (string, error) {
	if resolved, err := filepath.EvalSymlinks(root); err == nil {
		root = resolved
	}
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		path = resolved
	}

	rel, err := filepath.Rel(root, path)
	if err != nil {
		return "", err
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrOutsideWorkTree, path)
	}
	return rel, nil
}
