// Package rewriter applies placeholder rules to an instantiated template tree:
// file names first, then the text content of each file.
package rewriter

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/driquet/git-template/internal/placeholder"
)

// ErrUnsafeName is recorded when a substituted file name would leave its directory.
var ErrUnsafeName = errors.New("substituted name is not a plain file name")

// Outcome is the final state of a visited file.
type Outcome int

const (
	// Errored means a rename, read or write failed.
	Errored Outcome = iota
	// Rewritten means the content changed and was written back.
	Rewritten
	// Unchanged means the content held no token.
	Unchanged
	// SkippedBinary means the content is not valid UTF-8 and was left as is.
	SkippedBinary
)

func (o Outcome) String() string {
	switch o {
	case Rewritten:
		return "rewritten"
	case Unchanged:
		return "unchanged"
	case SkippedBinary:
		return "skipped-binary"
	default:
		return "errored"
	}
}

// Rename records a file moved by the name pass.
type Rename struct {
	From string
	To   string
}

// FileError is a non-fatal failure on a single file.
type FileError struct {
	Path string
	Op   string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}

// Report summarizes a rewrite.
type Report struct {
	Renamed   []Rename
	Rewritten []string
	Unchanged []string
	Skipped   []string
	Errors    []*FileError
}

// fileState tracks a file through the rewrite. Current only changes after a
// successful rename.
type fileState struct {
	Original string
	Current  string
}

func (s fileState) renamed(to string) fileState {
	return fileState{Original: s.Original, Current: to}
}

// Rewriter mutates a destination tree in place.
type Rewriter struct {
	FS  afero.Fs
	Log zerolog.Logger
}

// New creates a rewriter operating on dst.
func New(dst afero.Fs, log zerolog.Logger) *Rewriter {
	return &Rewriter{FS: dst, Log: log}
}

// Rewrite applies rules to every regular file under root.
//
// Each file is renamed when its base name contains a token, then its content
// is rewritten if it is valid UTF-8. Files that are not valid UTF-8 are left
// untouched. Directory names are never changed. Failures on one file are
// recorded in the report and the walk continues; the returned error is only
// set when root itself can not be walked.
func (r *Rewriter) Rewrite(root string, rules placeholder.Rules) (*Report, error) {
	files, err := r.collect(root)
	if err != nil {
		return nil, err
	}

	replacer := rules.Replacer()
	report := &Report{}
	for _, path := range files {
		state := fileState{Original: path, Current: path}
		outcome := r.process(state, replacer, report)
		r.Log.Trace().Str("file", path).Stringer("outcome", outcome).Msg("Processed file")
	}

	return report, nil
}

// collect lists the regular files under root before anything is renamed.
func (r *Rewriter) collect(root string) ([]string, error) {
	var files []string
	err := afero.Walk(r.FS, root, func(path string, info fs.FileInfo, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			r.Log.Warn().Err(err).Str("path", path).Msg("Skipping unreadable path")
			return nil
		}
		if info.Mode().IsRegular() {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}
	return files, nil
}

func (r *Rewriter) process(state fileState, replacer *placeholder.Replacer, report *Report) Outcome {
	fail := func(op string, err error) Outcome {
		fileErr := &FileError{Path: state.Current, Op: op, Err: err}
		report.Errors = append(report.Errors, fileErr)
		r.Log.Debug().Err(err).Str("file", state.Current).Str("op", op).Msg("Error processing file")
		return Errored
	}

	// Name pass.
	dir, name := filepath.Split(state.Current)
	if newName := replacer.Replace(name); newName != name {
		if newName == "" || newName == "." || newName == ".." || strings.ContainsAny(newName, `/\`) {
			return fail("rename", fmt.Errorf("%w: %q", ErrUnsafeName, newName))
		}

		target := filepath.Join(dir, newName)
		if _, err := r.FS.Stat(target); err == nil {
			return fail("rename", fmt.Errorf("%s: %w", target, fs.ErrExist))
		}
		if err := r.FS.Rename(state.Current, target); err != nil {
			return fail("rename", err)
		}

		report.Renamed = append(report.Renamed, Rename{From: state.Current, To: target})
		r.Log.Debug().Str("from", state.Current).Str("to", target).Msg("Renamed file")
		state = state.renamed(target)
	}

	// Content pass.
	info, err := r.FS.Stat(state.Current)
	if err != nil {
		return fail("stat", err)
	}
	data, err := afero.ReadFile(r.FS, state.Current)
	if err != nil {
		return fail("read", err)
	}

	if !utf8.Valid(data) {
		report.Skipped = append(report.Skipped, state.Current)
		r.Log.Info().Str("file", state.Current).Msg("Skipping binary file")
		return SkippedBinary
	}

	content := replacer.Replace(string(data))
	if content == string(data) {
		report.Unchanged = append(report.Unchanged, state.Current)
		return Unchanged
	}

	if err := r.writeFile(state.Current, content, info.Mode().Perm()); err != nil {
		return fail("write", err)
	}

	report.Rewritten = append(report.Rewritten, state.Current)
	return Rewritten
}

func (r *Rewriter) writeFile(path, content string, perm fs.FileMode) error {
	f, err := r.FS.OpenFile(path, os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return err
	}

	_, err = f.WriteString(content)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	return err
}
