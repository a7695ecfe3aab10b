// Package engine instantiates templates: it runs the catalog, copier,
// placeholder resolver and rewriter in order, then the best-effort version
// control and history steps.
package engine

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/driquet/git-template/internal/casing"
	"github.com/driquet/git-template/internal/catalog"
	"github.com/driquet/git-template/internal/copier"
	"github.com/driquet/git-template/internal/database"
	"github.com/driquet/git-template/internal/history"
	"github.com/driquet/git-template/internal/placeholder"
	"github.com/driquet/git-template/internal/rewriter"
	"github.com/driquet/git-template/internal/ui"
	"github.com/driquet/git-template/internal/vcs"
)

var (
	ErrInvalidItemName     = errors.New("invalid item name")
	ErrPathInvalid         = errors.New("path is not an existing directory")
	ErrHistoryUnavailable  = errors.New("history database unavailable")
	ErrInteractiveDisabled = errors.New("no interactive UI configured")
)

// Options configures an Engine. Catalog and FS are required.
type Options struct {
	Catalog *catalog.Catalog
	// FS is where destinations are created.
	FS afero.Fs
	// Placeholders defaults to placeholder.Builtin().
	Placeholders placeholder.Table
	// OpenGit binds a Git to the parent directory of a destination.
	// Defaults to vcs.NewExec.
	OpenGit func(dir string) vcs.Git
	// BranchPrefix defaults to "feat/".
	BranchPrefix string
	// DB records instantiations. Optional.
	DB database.Database
	// UI is used by SelectTemplate and PromptItem. Optional.
	UI  ui.UI
	Log zerolog.Logger
	// Now defaults to time.Now.
	Now func() time.Time
}

// Engine instantiates templates from a catalog.
type Engine struct {
	catalog      *catalog.Catalog
	fs           afero.Fs
	resolver     *placeholder.Resolver
	openGit      func(dir string) vcs.Git
	branchPrefix string
	db           database.Database
	ui           ui.UI
	log          zerolog.Logger
	now          func() time.Time
}

// New creates an Engine.
func New(opts Options) *Engine {
	e := &Engine{
		catalog:      opts.Catalog,
		fs:           opts.FS,
		openGit:      opts.OpenGit,
		branchPrefix: opts.BranchPrefix,
		db:           opts.DB,
		ui:           opts.UI,
		log:          opts.Log,
		now:          opts.Now,
	}

	if e.now == nil {
		e.now = time.Now
	}
	if e.openGit == nil {
		e.openGit = func(dir string) vcs.Git { return vcs.NewExec(dir) }
	}
	if e.branchPrefix == "" {
		e.branchPrefix = defaultBranchPrefix
	}

	table := opts.Placeholders
	if table == nil {
		table = placeholder.Builtin()
	}
	e.resolver = &placeholder.Resolver{Table: table, Now: e.now}

	return e
}

// CreateRequest describes one instantiation.
type CreateRequest struct {
	Template string
	Item     string
	// Path is the parent directory of the new item. Defaults to ".".
	Path        string
	NoGitAdd    bool
	NoGitBranch bool
	// Rollback removes the partial destination when the copy fails.
	Rollback bool
}

// CreateResult is the outcome of a successful instantiation.
type CreateResult struct {
	Template    string
	Destination string
	// Branch is set when a branch was created.
	Branch string
	// Staged is true when the destination was staged.
	Staged bool
	Report *rewriter.Report
	// Warnings holds the failures of the best-effort steps.
	Warnings []string
}

func (r *CreateResult) warn(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// BranchName returns the branch created for item.
func (e *Engine) BranchName(item string) string {
	return e.branchPrefix + casing.Kebab(item)
}

// Create instantiates req.Template as req.Item under req.Path.
//
// Catalog, destination and copy failures are returned as errors and stop the
// instantiation. Per-file rewrite failures are kept in the report. Version
// control and history failures become warnings on the result.
func (e *Engine) Create(ctx context.Context, req CreateRequest) (*CreateResult, error) {
	if err := validateItemName(req.Item); err != nil {
		return nil, err
	}

	parent, err := e.resolveParent(req.Path)
	if err != nil {
		return nil, err
	}

	tmpl, err := e.catalog.Get(req.Template)
	if err != nil {
		return nil, err
	}

	destination := filepath.Join(parent, req.Item)
	log := e.log.With().Str("template", tmpl.Name).Str("destination", destination).Logger()

	cp := copier.New(e.fs, log.With().Str("component", "copier").Logger())
	cp.Rollback = req.Rollback
	if err := cp.Copy(tmpl.Root, destination); err != nil {
		return nil, err
	}
	log.Info().Msg("Copied template")

	rules := e.resolver.Resolve(tmpl.Name, req.Item)
	log.Debug().Int("rules", len(rules)).Msg("Resolved placeholders")

	rw := rewriter.New(e.fs, log.With().Str("component", "rewriter").Logger())
	report, err := rw.Rewrite(destination, rules)
	if err != nil {
		return nil, err
	}

	result := &CreateResult{
		Template:    tmpl.Name,
		Destination: destination,
		Report:      report,
	}

	e.runGit(ctx, req, parent, result)
	e.record(req, result)

	return result, nil
}

func (e *Engine) runGit(ctx context.Context, req CreateRequest, parent string, result *CreateResult) {
	if req.NoGitBranch && req.NoGitAdd {
		return
	}

	git := e.openGit(parent)
	if !git.IsInsideWorkTree(ctx) {
		if !req.NoGitBranch {
			result.warn("Not a Git repository. Skipping branch creation.")
		}
		if !req.NoGitAdd {
			result.warn("Not a Git repository. Skipping git add.")
		}
		return
	}

	if !req.NoGitBranch {
		branch := e.BranchName(req.Item)
		if err := git.CreateBranch(ctx, branch); err != nil {
			e.log.Warn().Err(err).Str("branch", branch).Msg("Failed to create branch")
			result.warn("Failed to create branch %s: %v", branch, err)
		} else {
			result.Branch = branch
		}
	}

	if !req.NoGitAdd {
		if err := git.StageAdd(ctx, result.Destination); err != nil {
			e.log.Warn().Err(err).Str("path", result.Destination).Msg("Failed to stage destination")
			result.warn("Failed to stage %s: %v", result.Destination, err)
		} else {
			result.Staged = true
		}
	}
}

func (e *Engine) record(req CreateRequest, result *CreateResult) {
	if e.db == nil {
		return
	}

	entry := &history.Entry{
		Template:    result.Template,
		Item:        req.Item,
		Destination: result.Destination,
		CreatedAt:   e.now(),
	}
	if err := e.db.RecordInstantiation(entry); err != nil {
		e.log.Warn().Err(err).Msg("Failed to record instantiation")
		result.warn("Failed to record history: %v", err)
	}
}

// resolveParent returns the absolute form of path after checking it is an
// existing directory.
func (e *Engine) resolveParent(path string) (string, error) {
	if path == "" {
		path = "."
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrPathInvalid, path, err)
	}

	info, err := e.fs.Stat(abs)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s does not exist", ErrPathInvalid, path)
		}
		return "", fmt.Errorf("%w: %s: %w", ErrPathInvalid, path, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%w: %s is not a directory", ErrPathInvalid, path)
	}

	return abs, nil
}

func validateItemName(item string) error {
	switch {
	case strings.TrimSpace(item) == "":
		return fmt.Errorf("%w: name is empty", ErrInvalidItemName)
	case item == "." || item == "..":
		return fmt.Errorf("%w: %q", ErrInvalidItemName, item)
	case strings.ContainsAny(item, `/\`):
		return fmt.Errorf("%w: %q contains a path separator", ErrInvalidItemName, item)
	}
	return nil
}

// List returns the sorted template names.
func (e *Engine) List() ([]string, error) {
	return e.catalog.List()
}

// Usage returns the templates ranked by how often they were instantiated.
// Without a history database every count is zero.
func (e *Engine) Usage() ([]history.Ranked, error) {
	names, err := e.catalog.List()
	if err != nil {
		return nil, err
	}

	usage := map[string]int{}
	if e.db != nil {
		if usage, err = e.db.TemplateUsage(); err != nil {
			e.log.Warn().Err(err).Msg("Failed to read template usage")
			usage = map[string]int{}
		}
	}

	return history.Rank(names, usage), nil
}

// History returns at most limit past instantiations, newest first.
func (e *Engine) History(limit int) ([]history.Entry, error) {
	if e.db == nil {
		return nil, ErrHistoryUnavailable
	}
	return e.db.RecentInstantiations(limit)
}

// Choices returns the templates as UI choices, most used first.
func (e *Engine) Choices() ([]ui.Choice, error) {
	ranked, err := e.Usage()
	if err != nil {
		return nil, err
	}

	choices := make([]ui.Choice, 0, len(ranked))
	for _, r := range ranked {
		choice := ui.Choice{Name: r.Name, Count: r.Count}
		if tmpl, err := e.catalog.Get(r.Name); err == nil {
			if choice.Files, err = tmpl.Files(); err != nil {
				e.log.Debug().Err(err).Str("template", r.Name).Msg("Failed to list template files")
			}
		}
		choices = append(choices, choice)
	}

	return choices, nil
}

// SelectTemplate asks the user to pick a template.
func (e *Engine) SelectTemplate() (string, error) {
	if e.ui == nil {
		return "", ErrInteractiveDisabled
	}

	choices, err := e.Choices()
	if err != nil {
		return "", err
	}

	name, err := e.ui.SelectTemplate(choices)
	if err != nil {
		return "", fmt.Errorf("failed to select template: %w", err)
	}
	return name, nil
}

// PromptItem asks the user for the name of the new item.
func (e *Engine) PromptItem(template string) (string, error) {
	if e.ui == nil {
		return "", ErrInteractiveDisabled
	}

	item, err := e.ui.Prompt(fmt.Sprintf("Name of the new %s", template))
	if err != nil {
		return "", fmt.Errorf("failed to read item name: %w", err)
	}
	return strings.TrimSpace(item), nil
}
