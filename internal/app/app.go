// Package app wires the configuration loader, the option registry, the
// assembler, and the renderer into one runnable documentation pipeline.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/docfold/docfold/internal/assemble"
	"github.com/docfold/docfold/internal/config"
	"github.com/docfold/docfold/internal/ctxlog"
	"github.com/docfold/docfold/internal/registry"
	"github.com/docfold/docfold/internal/render"
)

// App encapsulates the application's dependencies, configuration, and
// lifecycle.
type App struct {
	outW      io.Writer
	logger    *slog.Logger
	cfg       *Config
	registry  *registry.Registry
	model     *config.Model
	assembler *assemble.Assembler
}

// NewApp is the constructor for the main application. It loads the
// configuration through the provided loader, declares the option schema,
// and prepares the assembler. A failure to load or declare is a fatal
// startup error and panics; main recovers and reports it.
func NewApp(outW io.Writer, cfg *Config, loader config.Loader) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	model, err := loader.Load(ctx, cfg.ConfigPath)
	if err != nil {
		panic(fmt.Errorf("failed to load configuration: %w", err))
	}
	logger.Debug("Configuration loaded into unified model.",
		"options", len(model.Options), "fragments", len(model.Fragments))

	reg := registry.New()
	if err := reg.PopulateFromModel(model); err != nil {
		panic(fmt.Errorf("failed to declare option schema: %w", err))
	}
	logger.Debug("Option schema registered.")

	renderer := &render.Markdown{Title: cfg.Title}

	return &App{
		outW:      outW,
		logger:    logger,
		cfg:       cfg,
		registry:  reg,
		model:     model,
		assembler: assemble.New(reg, renderer),
	}
}

// Registry returns the application's option registry. This is primarily for
// testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// Run executes one documentation-generation pass: compose, scrub, derive
// directives, render. A composition failure is returned to the caller with
// every violated invariant; no manual is produced in that case.
func (a *App) Run(ctx context.Context) (*assemble.Result, error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)

	out := a.outW
	if a.cfg.OutPath != "" {
		file, err := os.Create(a.cfg.OutPath)
		if err != nil {
			return nil, fmt.Errorf("failed to create output file: %w", err)
		}
		defer file.Close()
		out = file
	}

	result, err := a.assembler.Assemble(ctx, a.model.Fragments, out)
	if err != nil {
		return nil, err
	}

	a.logger.Info("Documentation pass complete.",
		"build_docs", result.Directives.BuildDocs,
		"install_man", result.Directives.InstallManPages,
		"install_info", result.Directives.InstallInfoPages,
		"extra_packages", len(result.Directives.ExtraPackages))
	return result, nil
}
