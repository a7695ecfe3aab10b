// Package catalog discovers the templates available to git-template.
//
// A catalog is the set of immediate child directories of a catalog root. The
// root is any fs.FS: a directory on disk, a zip archive, or the templates
// bundled into the binary. Nothing here assumes a concrete OS path.
package catalog

import (
	"errors"
	"fmt"
	"io/fs"
	"slices"
	"strings"
)

var (
	// ErrCatalogUnavailable is returned when the catalog root cannot be read at all.
	// It is distinct from an empty catalog.
	ErrCatalogUnavailable = errors.New("template catalog unavailable")
	// ErrTemplateNotFound is returned when a requested template is absent from the catalog.
	ErrTemplateNotFound = errors.New("template not found")
)

// NotFoundError reports a missing template together with the templates that do exist.
type NotFoundError struct {
	Name      string
	Available []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("template %q not found", e.Name)
}

func (e *NotFoundError) Unwrap() error {
	return ErrTemplateNotFound
}

// Template is a named template tree.
type Template struct {
	// Name is the directory basename, used as the catalog key.
	Name string
	// Root is the template's file tree, rooted at the template directory.
	Root fs.FS
}

// Catalog lists and resolves templates from a source filesystem.
type Catalog struct {
	source fs.FS
}

// New creates a catalog over source. The root of source is the catalog root.
func New(source fs.FS) *Catalog {
	return &Catalog{source: source}
}

// List returns the names of the templates in the catalog, sorted lexicographically.
// An empty catalog yields an empty slice and no error.
func (c *Catalog) List() ([]string, error) {
	entries, err := fs.ReadDir(c.source, ".")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCatalogUnavailable, err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	slices.Sort(names)

	return names, nil
}

// Exists reports whether a template named name is in the catalog.
func (c *Catalog) Exists(name string) (bool, error) {
	names, err := c.List()
	if err != nil {
		return false, err
	}
	return validName(name) && slices.Contains(names, name), nil
}

// Get returns the template named name.
// A missing template yields a *NotFoundError listing the available templates.
func (c *Catalog) Get(name string) (Template, error) {
	names, err := c.List()
	if err != nil {
		return Template{}, err
	}

	if !validName(name) || !slices.Contains(names, name) {
		return Template{}, &NotFoundError{Name: name, Available: names}
	}

	root, err := fs.Sub(c.source, name)
	if err != nil {
		return Template{}, fmt.Errorf("%w: %w", ErrCatalogUnavailable, err)
	}

	return Template{Name: name, Root: root}, nil
}

// Files returns the slash-separated paths of the regular files in t, in walk order.
func (t Template) Files() ([]string, error) {
	var files []string
	err := fs.WalkDir(t.Root, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

// validName rejects names that would reach outside a single catalog entry.
func validName(name string) bool {
	return name != "" && name != "." && fs.ValidPath(name) && !strings.ContainsAny(name, `/\`)
}
