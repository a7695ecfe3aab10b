// Package vcs runs the version-control side effects of an instantiation.
//
// Every implementation is bound to a working directory, normally the parent
// directory of the new item. Failures are returned to the caller, which treats
// them as warnings.
package vcs

import (
	"context"
	"fmt"
	"strings"
)

// Backend selects a Git implementation.
type Backend string

const (
	// BackendExec shells out to the git binary.
	BackendExec Backend = "exec"
	// BackendNative uses go-git and needs no git binary.
	BackendNative Backend = "native"
	// BackendNone disables version control integration.
	BackendNone Backend = "none"
)

// Git is the set of version-control operations used after instantiation.
type Git interface {
	// IsInsideWorkTree reports whether the bound directory is inside a working tree.
	IsInsideWorkTree(ctx context.Context) bool
	// CreateBranch creates the branch name and switches to it.
	CreateBranch(ctx context.Context, name string) error
	// StageAdd stages path, which may be a directory.
	StageAdd(ctx context.Context, path string) error
}

// ParseBackend validates a configured backend name. The empty string selects exec.
func ParseBackend(name string) (Backend, error) {
	switch b := Backend(strings.ToLower(strings.TrimSpace(name))); b {
	case "":
		return BackendExec, nil
	case BackendExec, BackendNative, BackendNone:
		return b, nil
	default:
		return "", fmt.Errorf("unknown git backend %q (expected exec, native or none)", name)
	}
}

// New returns the implementation of backend bound to dir.
func New(backend Backend, dir string) Git {
	switch backend {
	case BackendNative:
		return NewNative(dir)
	case BackendNone:
		return Noop{}
	default:
		return NewExec(dir)
	}
}

// Noop is a Git that is never inside a working tree.
type Noop struct{}

func (Noop) IsInsideWorkTree(context.Context) bool { return false }

func (Noop) CreateBranch(context.Context, string) error { return nil }

func (Noop) StageAdd(context.Context, string) error { return nil }
