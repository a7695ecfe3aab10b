// Package main implements the git-template command-line interface.
// Installed on PATH as git-template, it is invoked by git as `git template`.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/atotto/clipboard"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/driquet/git-template/internal/catalog"
	"github.com/driquet/git-template/internal/database"
	"github.com/driquet/git-template/internal/editor"
	"github.com/driquet/git-template/internal/engine"
	"github.com/driquet/git-template/internal/logging"
	"github.com/driquet/git-template/internal/output"
	"github.com/driquet/git-template/internal/ui"
	"github.com/driquet/git-template/internal/vcs"
)

// app holds the state shared by the commands of one invocation.
type app struct {
	configDir  string
	catalogDir string
	uiKind     string
	verbosity  int

	printer *output.Printer
	errOut  io.Writer
	log     zerolog.Logger

	config       engine.Config
	db           database.Database
	closeCatalog func() error
	engine       *engine.Engine
}

func newApp(stdout, stderr io.Writer) *app {
	return &app{
		printer: output.New(stdout, stderr),
		errOut:  stderr,
		log:     zerolog.Nop(),
	}
}

// loadConfig resolves the configuration directory and reads the config file.
func (a *app) loadConfig(cmd *cobra.Command, args []string) error {
	a.log = logging.Setup(a.verbosity, a.errOut)

	var err error
	if a.configDir == "" {
		a.configDir, err = engine.ConfigDirPath()
		if err != nil {
			return err
		}
	}

	a.config, err = engine.LoadConfigFromFile(a.configDir)
	if err != nil {
		return err
	}

	// Override values with flags
	if a.catalogDir != "" {
		a.config.CatalogDir = a.catalogDir
	}
	if a.uiKind != "" {
		if !ui.Kind(a.uiKind).Valid() {
			return fmt.Errorf("unknown UI %q (expected terminal, fuzzy or rofi)", a.uiKind)
		}
		a.config.DefaultUI = a.uiKind
	}

	a.log.Debug().Str("config_dir", a.configDir).Msg("Configuration loaded")
	return nil
}

func (a *app) setupRuntime(cmd *cobra.Command, args []string) error {
	if err := a.loadConfig(cmd, args); err != nil {
		return err
	}

	cat, closeCatalog, err := a.config.OpenCatalog()
	if err != nil {
		return err
	}
	a.closeCatalog = closeCatalog

	opts := engine.Options{
		Catalog:      cat,
		FS:           afero.NewOsFs(),
		Placeholders: a.config.PlaceholderTable(),
		OpenGit: func(dir string) vcs.Git {
			return vcs.New(a.config.Git.Backend, dir)
		},
		BranchPrefix: a.config.Git.BranchPrefix,
		UI:           ui.New(ui.Kind(a.config.DefaultUI), a.config.Rofi),
		Log:          logging.For("engine"),
	}

	// History is best effort: without it commands still work, unordered.
	if db, err := database.NewSQLiteDatabase(a.config.DatabasePath); err != nil {
		a.log.Warn().Err(err).Str("path", a.config.DatabasePath).Msg("History database unavailable")
	} else {
		a.db = db
		opts.DB = db
	}

	a.engine = engine.New(opts)
	return nil
}

func (a *app) tearDownRuntime(cmd *cobra.Command, args []string) error {
	return a.close()
}

// close releases the database and catalog. It is safe to call more than once.
func (a *app) close() error {
	var errs []error
	if a.db != nil {
		errs = append(errs, a.db.Close())
		a.db = nil
	}
	if a.closeCatalog != nil {
		errs = append(errs, a.closeCatalog())
		a.closeCatalog = nil
	}
	return errors.Join(errs...)
}

func (a *app) newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "git-template",
		Short:         "git-template creates files and directories from reusable templates.",
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	rootCmd.PersistentFlags().StringVar(&a.configDir, "config", "", "Overrides default configuration directory.")
	rootCmd.PersistentFlags().StringVar(&a.catalogDir, "catalog", "", "Reads templates from this directory. Overrides config.")
	rootCmd.PersistentFlags().CountVarP(&a.verbosity, "verbose", "v", "Increase log verbosity (-v, -vv, -vvv).")

	rootCmd.AddCommand(
		a.newCreateCmd(),
		a.newListCmd(),
		a.newHistoryCmd(),
		a.newConfigCmd(),
	)
	return rootCmd
}

func (a *app) newCreateCmd() *cobra.Command {
	var (
		req      engine.CreateRequest
		copyPath bool
	)

	cmd := &cobra.Command{
		Use:   "create [template] [name]",
		Short: "Create a new item from a template",
		Long: `Create a new item from a template.

The template is copied to <path>/<name>, then every placeholder token in file
names and text file contents is replaced with a form of <name>. Binary files
are copied as they are.

If the destination is inside a Git working tree, a branch named
feat/<kebab-case name> is created and the new files are staged. Use
--no-git-branch and --no-git-add to skip these steps.

Without a template the interactive picker is started; without a name you are
prompted for it.`,
		Example: `  # Create src/components/MyButton from the react-component template
  git template create react-component MyButton --path src/components

  # Pick the template interactively with the fuzzy finder
  git template create --ui fuzzy`,
		Args:     cobra.MaximumNArgs(2),
		PreRunE:  a.setupRuntime,
		PostRunE: a.tearDownRuntime,
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if len(args) != 0 {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			if err := a.setupRuntime(cmd, args); err != nil {
				return nil, cobra.ShellCompDirectiveError
			}
			defer a.close()
			names, err := a.engine.List()
			if err != nil {
				return nil, cobra.ShellCompDirectiveError
			}
			return names, cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if len(args) > 0 {
				req.Template = args[0]
			} else if req.Template, err = a.engine.SelectTemplate(); err != nil {
				return err
			}

			if len(args) > 1 {
				req.Item = args[1]
			} else if req.Item, err = a.engine.PromptItem(req.Template); err != nil {
				return err
			}

			result, err := a.engine.Create(cmd.Context(), req)
			if err != nil {
				return err
			}

			a.reportCreate(req, result)

			if copyPath {
				if err := clipboard.WriteAll(result.Destination); err != nil {
					a.printer.Warn("Failed to copy path to clipboard: %v", err)
				} else {
					a.printer.Info("Path copied to clipboard.")
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Path, "path", ".", "Parent directory of the new item. Must exist.")
	cmd.Flags().BoolVar(&req.NoGitAdd, "no-git-add", false, "Do not stage the new files.")
	cmd.Flags().BoolVar(&req.NoGitBranch, "no-git-branch", false, "Do not create a branch.")
	cmd.Flags().BoolVar(&req.Rollback, "rollback", false, "Remove the partial destination if the copy fails.")
	cmd.Flags().BoolVar(&copyPath, "copy-path", false, "Copy the destination path to the clipboard.")
	cmd.Flags().StringVar(&a.uiKind, "ui", "", "Specify UI: 'terminal', 'fuzzy' or 'rofi'. Overrides config.")

	return cmd
}

func (a *app) reportCreate(req engine.CreateRequest, result *engine.CreateResult) {
	for _, path := range result.Report.Skipped {
		a.printer.Notice("Skipping binary file: %s", path)
	}
	for _, fileErr := range result.Report.Errors {
		a.printer.Warn("Error processing %s: %v", fileErr.Path, fileErr.Err)
	}

	a.printer.Success("Successfully created '%s' from template '%s' at %s", req.Item, result.Template, result.Destination)

	if result.Branch != "" {
		a.printer.Step("Switched to new branch '%s'", result.Branch)
	}
	if result.Staged {
		a.printer.Step("Staged %s", result.Destination)
	}
	for _, warning := range result.Warnings {
		a.printer.Warn("%s", warning)
	}
}

func (a *app) newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:      "list",
		Short:    "List available templates",
		Args:     cobra.NoArgs,
		PreRunE:  a.setupRuntime,
		PostRunE: a.tearDownRuntime,
		RunE: func(cmd *cobra.Command, args []string) error {
			names, err := a.engine.List()
			if err != nil {
				return err
			}
			a.printTemplates(names)
			return nil
		},
	}
}

func (a *app) printTemplates(names []string) {
	if len(names) == 0 {
		a.printer.Info("No templates found.")
		return
	}

	a.printer.Info("Available templates:")
	for _, name := range names {
		a.printer.Step("- %s", name)
	}
}

func (a *app) newHistoryCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:      "history",
		Short:    "Show recently created items",
		Args:     cobra.NoArgs,
		PreRunE:  a.setupRuntime,
		PostRunE: a.tearDownRuntime,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := a.engine.History(limit)
			if err != nil {
				return err
			}

			if len(entries) == 0 {
				a.printer.Info("No items created yet.")
				return nil
			}
			for _, e := range entries {
				a.printer.Plain("%s  %-20s %-20s %s", e.CreatedAt.Local().Format("2006-01-02 15:04"), e.Template, e.Item, e.Destination)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of entries to show.")
	return cmd
}

func (a *app) newConfigCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file.",
	}

	pathCmd := &cobra.Command{
		Use:     "path",
		Short:   "Print the configuration file path",
		Args:    cobra.NoArgs,
		PreRunE: a.loadConfig,
		RunE: func(cmd *cobra.Command, args []string) error {
			a.printer.Plain("%s", engine.ConfigFilePath(a.configDir))
			return nil
		},
	}

	editCmd := &cobra.Command{
		Use:   "edit",
		Short: "Open the configuration file in your editor",
		Long: `Open the configuration file in your editor.

The file is edited in a temporary copy and only saved back when it is valid.
The editor priority is: config file > VISUAL > EDITOR > system default.`,
		Args:    cobra.NoArgs,
		PreRunE: a.loadConfig,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := engine.ConfigFilePath(a.configDir)
			current, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("failed to read config file %s: %w", path, err)
			}

			edited, err := editor.Edit(a.config.Editor, string(current))
			if err != nil {
				return err
			}
			if edited == string(current) {
				a.printer.Info("Configuration unchanged.")
				return nil
			}

			// A broken file is never saved.
			if err := engine.ValidateConfig(edited); err != nil {
				return fmt.Errorf("configuration not saved: %w", err)
			}
			if err := os.WriteFile(path, []byte(edited), 0o600); err != nil {
				return fmt.Errorf("failed to write config file %s: %w", path, err)
			}
			a.printer.Success("Configuration saved.")
			return nil
		},
	}

	configCmd.AddCommand(pathCmd, editCmd)
	return configCmd
}

// reportError prints a fatal error. A missing template also lists the catalog.
func (a *app) reportError(err error) {
	a.printer.Error("%v", err)

	var notFound *catalog.NotFoundError
	if errors.As(err, &notFound) {
		a.printTemplates(notFound.Available)
	}
}

// run executes the command line and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	a := newApp(stdout, stderr)
	defer a.close()

	rootCmd := a.newRootCmd()
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	// An interrupt cancels a running git subprocess.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		a.reportError(err)
		return 1
	}
	return 0
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}
