package engine

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/adrg/xdg"

	"github.com/driquet/git-template/internal/catalog"
	"github.com/driquet/git-template/internal/placeholder"
	"github.com/driquet/git-template/internal/ui"
	"github.com/driquet/git-template/internal/vcs"
)

// Config holds the configuration of git-template.
type Config struct {
	// DatabasePath specifies the path to the SQLite history database.
	DatabasePath string `toml:"database_path"`
	// DefaultUI is the interactive UI: "terminal", "fuzzy" or "rofi".
	// This can be overridden by the --ui command-line flag.
	DefaultUI string `toml:"default_ui"`
	// Editor opens the configuration file for `config edit`.
	Editor string `toml:"editor"`
	// CatalogDir is a directory of templates. It takes precedence over CatalogArchive.
	CatalogDir string `toml:"catalog_dir"`
	// CatalogArchive is a zip archive of templates.
	CatalogArchive string `toml:"catalog_archive"`
	// Git configures the version control side effects.
	Git GitConfig `toml:"git"`
	// Rofi holds configuration specific to the Rofi user interface.
	// These settings are only active if DefaultUI is "rofi" or if Rofi is selected via the --ui flag.
	Rofi ui.RofiConfig `toml:"rofi"`
	// Placeholders replaces the built-in placeholder specs per template.
	Placeholders placeholder.Table `toml:"placeholders"`
}

// GitConfig configures the version control integration.
type GitConfig struct {
	// Backend is "exec", "native" or "none".
	Backend vcs.Backend `toml:"backend"`
	// BranchPrefix is prepended to the kebab-case item name.
	BranchPrefix string `toml:"branch_prefix"`
}

const (
	appName                 = "git-template"
	defaultConfigFileName   = "config.toml"
	defaultDatabaseFileName = "git-template.db"
	defaultBranchPrefix     = "feat/"
)

// ConfigDirPath returns the configuration directory, creating it if needed.
func ConfigDirPath() (string, error) {
	configDirPath := filepath.Join(xdg.ConfigHome, appName)

	if err := os.MkdirAll(configDirPath, 0o750); err != nil {
		return "", fmt.Errorf("failed to create config directory %s: %w", configDirPath, err)
	}

	return configDirPath, nil
}

// ConfigFilePath returns the path of the configuration file in configDir.
func ConfigFilePath(configDir string) string {
	return filepath.Join(configDir, defaultConfigFileName)
}

func defaultConfig(configDir string) Config {
	return Config{
		DatabasePath: filepath.Join(configDir, defaultDatabaseFileName),
		DefaultUI:    string(ui.KindTerminal),
		Git: GitConfig{
			Backend:      vcs.BackendExec,
			BranchPrefix: defaultBranchPrefix,
		},
		Rofi: ui.RofiConfig{Path: "rofi"},
	}
}

const defaultTomlContent = `database_path = %q

# default_ui specifies the interactive user interface used when create is
# called without a template or item name.
# Valid options are "terminal", "fuzzy" or "rofi".
# This can be overridden by the --ui command-line flag.
default_ui = %q

# editor opens this file for "git-template config edit".
# Falls back to $VISUAL, then $EDITOR.
# editor = "vim"

# Templates are read from catalog_dir, else from catalog_archive (a zip file
# whose top-level directories are templates), else from the bundled catalog.
# catalog_dir = ""
# catalog_archive = ""

[git]
  # backend is "exec" (the git binary), "native" (built-in) or "none".
  backend = %q
  # New branches are named <branch_prefix><kebab-case item name>.
  branch_prefix = %q

# Rofi User Interface settings
# These settings are used if default_ui = "rofi" or --ui=rofi is specified.
[rofi]
  # Path to the Rofi executable.
  path = %q
  # theme = ""
  # select_args = ["-i"]
  # input_args = []

# Placeholders per template. Entries for a template replace its built-in ones.
# derive is one of exact, pascal, kebab, snake, literal, year.
#
# [[placeholders.go-package]]
#   token = "PACKAGE_NAME"
#   derive = "snake"
#
# [[placeholders.go-package]]
#   token = "AUTHOR"
#   derive = "literal"
#   value = "Jane Doe"
`

// LoadConfigFromFile loads the configuration from the TOML file in configDir.
// If the file doesn't exist, a commented default one is written.
func LoadConfigFromFile(configDir string) (Config, error) {
	configFilePath := ConfigFilePath(configDir)
	defaults := defaultConfig(configDir)

	if _, err := os.Stat(configFilePath); os.IsNotExist(err) {
		if err := os.MkdirAll(configDir, 0o750); err != nil {
			return Config{}, fmt.Errorf("failed to create config directory %s: %w", configDir, err)
		}

		content := fmt.Sprintf(defaultTomlContent,
			defaults.DatabasePath,
			defaults.DefaultUI,
			defaults.Git.Backend,
			defaults.Git.BranchPrefix,
			defaults.Rofi.Path,
		)
		if err := os.WriteFile(configFilePath, []byte(content), 0o600); err != nil {
			return Config{}, fmt.Errorf("failed to write default config to %s: %w", configFilePath, err)
		}

		return defaults, nil
	} else if err != nil {
		return Config{}, fmt.Errorf("failed to stat config file %s: %w", configFilePath, err)
	}

	var loaded Config
	if _, err := toml.DecodeFile(configFilePath, &loaded); err != nil {
		return Config{}, fmt.Errorf("failed to decode config file %s: %w", configFilePath, err)
	}

	if loaded.DatabasePath == "" {
		loaded.DatabasePath = defaults.DatabasePath
	}
	if !ui.Kind(loaded.DefaultUI).Valid() {
		loaded.DefaultUI = defaults.DefaultUI
	}
	if backend, err := vcs.ParseBackend(string(loaded.Git.Backend)); err != nil {
		loaded.Git.Backend = defaults.Git.Backend
	} else {
		loaded.Git.Backend = backend
	}
	if loaded.Git.BranchPrefix == "" {
		loaded.Git.BranchPrefix = defaults.Git.BranchPrefix
	}
	if loaded.Rofi.Path == "" {
		loaded.Rofi.Path = defaults.Rofi.Path
	}

	if err := loaded.Placeholders.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config file %s: %w", configFilePath, err)
	}

	return loaded, nil
}

// ValidateConfig checks that content is a configuration file LoadConfigFromFile accepts.
func ValidateConfig(content string) error {
	var config Config
	if _, err := toml.Decode(content, &config); err != nil {
		return fmt.Errorf("failed to decode config: %w", err)
	}
	return config.Placeholders.Validate()
}

// PlaceholderTable returns the built-in placeholder table with the configured overrides applied.
func (c Config) PlaceholderTable() placeholder.Table {
	return placeholder.Builtin().Merge(c.Placeholders)
}

// OpenCatalog opens the configured template catalog: CatalogDir if set, else
// CatalogArchive, else the bundled templates. The returned close function
// releases the archive, if any.
func (c Config) OpenCatalog() (*catalog.Catalog, func() error, error) {
	noop := func() error { return nil }

	switch {
	case c.CatalogDir != "":
		return catalog.New(catalog.DirSource(c.CatalogDir)), noop, nil
	case c.CatalogArchive != "":
		archive, err := catalog.ArchiveSource(c.CatalogArchive)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %w", catalog.ErrCatalogUnavailable, err)
		}
		return catalog.New(archive), archive.Close, nil
	default:
		return catalog.New(catalog.Bundled()), noop, nil
	}
}
