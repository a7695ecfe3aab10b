package vcs

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Exec runs the git binary in Dir.
type Exec struct {
	Dir string
	// Bin is the git executable. Defaults to "git".
	Bin string
}

// NewExec creates an exec backed Git bound to dir.
func NewExec(dir string) *Exec {
	return &Exec{Dir: dir, Bin: "git"}
}

func (g *Exec) run(ctx context.Context, args ...string) (string, error) {
	bin := g.Bin
	if bin == "" {
		bin = "git"
	}

	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Dir = g.Dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("git %s failed: %w\nOutput: %s", strings.Join(args, " "), err, strings.TrimSpace(stderr.String()))
	}
	return strings.TrimSpace(stdout.String()), nil
}

// IsInsideWorkTree runs `git rev-parse --is-inside-work-tree` in Dir.
func (g *Exec) IsInsideWorkTree(ctx context.Context) bool {
	out, err := g.run(ctx, "rev-parse", "--is-inside-work-tree")
	return err == nil && out == "true"
}

// CreateBranch runs `git checkout -b name`.
func (g *Exec) CreateBranch(ctx context.Context, name string) error {
	_, err := g.run(ctx, "checkout", "-b", name)
	return err
}

// StageAdd runs `git add -- path`.
func (g *Exec) StageAdd(ctx context.Context, path string) error {
	_, err := g.run(ctx, "add", "--", path)
	return err
}
