package catalog

import (
	"archive/zip"
	"embed"
	"io/fs"
	"path/filepath"

	"github.com/spf13/afero"
)

//go:embed all:templates
var bundledFS embed.FS

// Bundled returns the templates compiled into the binary.
func Bundled() fs.FS {
	root, err := fs.Sub(bundledFS, "templates")
	if err != nil {
		// fs.Sub only fails on an invalid path, and "templates" is valid.
		panic(err)
	}
	return root
}

// DirSource returns a catalog source backed by the directory at path.
// The directory is not checked here; an unreadable root surfaces as
// ErrCatalogUnavailable on first use.
func DirSource(path string) fs.FS {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return afero.NewIOFS(afero.NewBasePathFs(afero.NewOsFs(), path))
}

// ArchiveSource opens the zip archive at path as a catalog source.
// The caller must close the returned reader.
func ArchiveSource(path string) (*zip.ReadCloser, error) {
	return zip.OpenReader(path)
}
