package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/vk/assetgrid/internal/banner"
	"github.com/vk/assetgrid/internal/config"
	"github.com/vk/assetgrid/internal/ctxlog"
	"github.com/vk/assetgrid/internal/dag"
	"github.com/vk/assetgrid/internal/hcl_adapter"
	"github.com/vk/assetgrid/internal/pipeline"
	"github.com/vk/assetgrid/internal/pkgmeta"
	"github.com/vk/assetgrid/internal/registry"
	"github.com/vk/assetgrid/internal/report"
	"github.com/zclconf/go-cty/cty"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	config   *Config
	model    *config.Model
	registry *registry.Registry
	pipeline *pipeline.Pipeline
	executor *dag.Executor
}

// NewApp is the constructor for the main application. It loads the pipeline
// file, registers the stage modules and assembles the task graph. Any error
// is a start-up error: nothing has run yet.
func NewApp(outW io.Writer, cfg *Config, loader config.Loader, modules ...registry.Module) (*App, error) {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	model, converter, err := loader.Load(ctx, cfg.ConfigPaths...)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	logger.Debug("Configuration loaded and translated into unified model.")

	reg := registry.New()
	if len(modules) == 0 {
		modules = coreModules
	}
	for _, mod := range modules {
		mod.Register(reg)
	}
	logger.Debug("All stage modules registered.", "count", len(modules), "kinds", reg.Kinds())

	meta, err := loadMetadata(cfg.Root, model.Package)
	if err != nil {
		return nil, err
	}
	banners, err := banner.New(meta, model.Banners)
	if err != nil {
		return nil, err
	}

	a := &App{
		outW:     outW,
		logger:   logger,
		config:   cfg,
		model:    model,
		registry: reg,
	}

	p, err := pipeline.Build(ctx, model, pipeline.Options{
		Registry:    reg,
		Converter:   converter,
		EvalContext: hcl_adapter.NewEvalContext(map[string]cty.Value{"pkg": meta.CtyValue()}),
		Root:        cfg.Root,
		Reporter:    report.NewConsole(outW),
		Banners:     banners,
		Builtins: map[string]dag.Action{
			config.ActionWatch: dag.ActionFunc(a.watch),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to assemble pipeline: %w", err)
	}
	a.pipeline = p
	a.executor = dag.NewExecutor(p.Graph, a.jobs())
	logger.Debug("Pipeline assembled.", "tasks", len(p.Graph.Tasks()))

	return a, nil
}

// loadMetadata reads the package metadata the banners and stage bodies see.
// A file named by the package block must exist; without one a missing
// default file yields the block's fields alone.
func loadMetadata(root string, pkg *config.Package) (*pkgmeta.Metadata, error) {
	abs := func(p string) string {
		if filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(root, p)
	}
	if pkg != nil && pkg.File != "" {
		path := abs(pkg.File)
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("reading package metadata: %w", err)
		}
		return pkgmeta.Load(path, pkg)
	}
	if pkg == nil {
		pkg = &config.Package{}
	}
	return pkgmeta.Load(abs(pkgmeta.DefaultFile), pkg)
}

func (a *App) jobs() int {
	if a.config.Jobs > 0 {
		return a.config.Jobs
	}
	return defaultJobs()
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// Pipeline returns the assembled pipeline.
func (a *App) Pipeline() *pipeline.Pipeline {
	return a.pipeline
}
