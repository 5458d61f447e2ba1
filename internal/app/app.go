package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/weft/internal/command"
	"github.com/vk/weft/internal/config"
	"github.com/vk/weft/internal/ctxlog"
	"github.com/vk/weft/internal/registry"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	registry *registry.Registry
	config   *config.Model
	tree     *command.Tree
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance, including its own isolated logger and registry.
// Startup is fail-fast: every manifest/code mismatch and every unresolvable
// chain is reported here, before any argument vector is dispatched.
func NewApp(outW io.Writer, appConfig *Config, loader config.Loader, modules ...registry.Module) *App {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	// Load all manifests into the format-agnostic model first.
	cfgModel, err := loader.Load(ctx, appConfig.ManifestPath)
	if err != nil {
		// A failure to load config is a fatal startup error.
		panic(fmt.Errorf("failed to load configuration: %w", err))
	}
	logger.Debug("Configuration loaded and translated into unified model.")

	// Create and populate the registry with Go handlers.
	reg := registry.New()
	if len(modules) == 0 {
		modules = coreModules
	}
	for _, mod := range modules {
		mod.Register(reg)
	}
	logger.Debug("All Go modules registered.", "count", len(modules))

	// Validate parity between the manifests and the registered code.
	if err := reg.Validate(ctx, cfgModel); err != nil {
		// This is a programmer error (mismatch between code and config), so we panic.
		panic(err)
	}
	logger.Debug("Registry validation passed.")

	tree, err := command.NewTree(ctx, appConfig.Program, cfgModel, reg)
	if err != nil {
		panic(fmt.Errorf("failed to build command tree: %w", err))
	}
	if err := tree.Prepare(ctx); err != nil {
		panic(fmt.Errorf("failed to prepare command chains: %w", err))
	}
	logger.Debug("Command tree built and prepared.")

	return &App{
		outW:     outW,
		logger:   logger,
		registry: reg,
		config:   cfgModel,
		tree:     tree,
	}
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// Tree returns the prepared command tree. This is primarily for testing.
func (a *App) Tree() *command.Tree {
	return a.tree
}
