// Package copier duplicates a template tree into a fresh destination directory.
package copier

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

const (
	dirPerm  fs.FileMode = 0o755
	filePerm fs.FileMode = 0o644
	execPerm fs.FileMode = 0o755
)

var (
	// ErrDestinationExists is returned before any mutation when the destination is already present.
	ErrDestinationExists = errors.New("destination already exists")
	// ErrCopyFailed matches every *CopyError.
	ErrCopyFailed = errors.New("copy failed")
)

// CopyError is an I/O failure in the middle of a copy.
type CopyError struct {
	Path string
	Err  error
}

func (e *CopyError) Error() string {
	return fmt.Sprintf("copy %s: %v", e.Path, e.Err)
}

func (e *CopyError) Unwrap() []error {
	return []error{ErrCopyFailed, e.Err}
}

// Copier writes template trees into FS.
type Copier struct {
	FS  afero.Fs
	Log zerolog.Logger
	// Rollback removes the partially written destination when a copy fails.
	Rollback bool
}

// New creates a copier writing into dst.
func New(dst afero.Fs, log zerolog.Logger) *Copier {
	return &Copier{FS: dst, Log: log}
}

// Copy duplicates src into destination, byte for byte.
//
// destination must not exist. Directories are created before their children
// are written. File contents are copied verbatim; permissions are normalized to
// 0644, or 0755 for files with any executable bit. Any I/O error aborts the copy
// and, unless Rollback is set, leaves the partial tree on disk.
func (c *Copier) Copy(src fs.FS, destination string) error {
	if exists, err := c.exists(destination); err != nil {
		return &CopyError{Path: destination, Err: err}
	} else if exists {
		return fmt.Errorf("%w: %s", ErrDestinationExists, destination)
	}

	err := fs.WalkDir(src, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return &CopyError{Path: path, Err: err}
		}

		target := filepath.Join(destination, filepath.FromSlash(path))
		if d.IsDir() {
			if err := c.FS.MkdirAll(target, dirPerm); err != nil {
				return &CopyError{Path: path, Err: err}
			}
			c.Log.Trace().Str("dir", target).Msg("Created directory")
			return nil
		}

		return c.copyFile(src, path, d, target)
	})
	if err != nil {
		c.Log.Debug().Err(err).Str("destination", destination).Msg("Copy aborted")
		if c.Rollback {
			if rmErr := c.FS.RemoveAll(destination); rmErr != nil {
				c.Log.Warn().Err(rmErr).Str("destination", destination).Msg("Failed to roll back partial copy")
			}
		}
		return err
	}

	return nil
}

func (c *Copier) copyFile(src fs.FS, path string, d fs.DirEntry, target string) error {
	perm := filePerm
	if info, err := d.Info(); err == nil && info.Mode().Perm()&0o111 != 0 {
		perm = execPerm
	}

	in, err := src.Open(path)
	if err != nil {
		return &CopyError{Path: path, Err: err}
	}
	defer in.Close()

	out, err := c.FS.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
	if err != nil {
		return &CopyError{Path: path, Err: err}
	}

	n, err := io.Copy(out, in)
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return &CopyError{Path: path, Err: err}
	}

	c.Log.Trace().Str("file", target).Int64("bytes", n).Msg("Copied file")
	return nil
}

func (c *Copier) exists(path string) (bool, error) {
	var err error
	if lstater, ok := c.FS.(afero.Lstater); ok {
		_, _, err = lstater.LstatIfPossible(path)
	} else {
		_, err = c.FS.Stat(path)
	}

	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, err
	}
}
