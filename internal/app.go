// Package internal provides the App struct that wires the witag components
// together and initializes the CLI layer.
package internal

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/valter-silva-au/witag/internal/cli"
	"github.com/valter-silva-au/witag/internal/core"
	"github.com/valter-silva-au/witag/internal/storage"
	"github.com/valter-silva-au/witag/pkg/models"
	"github.com/valter-silva-au/witag/pkg/workitem"
)

// App holds all service dependencies for witag.
type App struct {
	BasePath string

	// Log output; stderr unless replaced before Init.
	LogOutput io.Writer
	Logger    *slog.Logger

	Config *models.Config

	Store    storage.ManifestStore
	Registry *workitem.Registry
	Catalog  core.Catalog
	Linker   core.Linker
	Checker  core.Checker
}

// NewApp creates the App and registers its initializer with the CLI.
// Configuration and manifests are loaded by Init once flags are parsed.
func NewApp(basePath string) (*App, error) {
	app := &App{
		BasePath:  basePath,
		LogOutput: os.Stderr,
		Store:     storage.NewManifestStore(),
	}
	cli.Init = app.Init
	return app, nil
}

// Init loads the configuration, applies flag overrides, loads every manifest
// into a fresh registry and hands the services to the CLI.
func (a *App) Init(opts cli.InitOptions) error {
	cm := core.NewConfigurationManager(a.BasePath, opts.ConfigFile)
	cfg, err := cm.LoadConfig()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	if len(opts.Manifests) > 0 {
		cfg.Manifests = opts.Manifests
	}
	if opts.LogLevel != "" {
		cfg.Log.Level = opts.LogLevel
	}
	if err := cm.ValidateConfig(cfg); err != nil {
		return err
	}
	a.Config = cfg

	level, _ := core.ParseLogLevel(cfg.Log.Level)
	a.Logger = slog.New(slog.NewTextHandler(a.LogOutput, &slog.HandlerOptions{Level: level}))

	a.Registry = workitem.NewRegistry()
	a.Catalog = core.NewCatalog(a.BasePath, a.Store, a.Logger)
	paths, err := a.Catalog.Load(a.Registry, cfg.Manifests)
	if err != nil {
		return err
	}
	a.Logger.Info("Loaded work items", slog.Int("manifests", len(paths)), slog.Int("targets", len(a.Registry.Targets())))

	a.Linker = core.NewLinker(cfg.Links)
	a.Checker = core.NewChecker(cfg.Check)

	cli.Registry = a.Registry
	cli.Linker = a.Linker
	cli.Checker = a.Checker
	return nil
}

// ResolveBasePath determines the base directory: WITAG_HOME if set,
// otherwise the nearest directory upwards containing a .witagrc file,
// otherwise the current directory.
func ResolveBasePath() string {
	if home := os.Getenv("WITAG_HOME"); home != "" {
		return home
	}
	dir, err := os.Getwd()
	if err != nil {
		return "."
	}
	for d := dir; ; {
		if hasConfig(d) {
			return d
		}
		parent := filepath.Dir(d)
		if parent == d {
			break
		}
		d = parent
	}
	return dir
}

func hasConfig(dir string) bool {
	for _, ext := range []string{"", ".yaml", ".yml"} {
		if _, err := os.Stat(filepath.Join(dir, core.ConfigFileName+ext)); err == nil {
			return true
		}
	}
	return false
}
