package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/tagscript/internal/config"
	"github.com/vk/tagscript/internal/ctxlog"
	"github.com/vk/tagscript/internal/diag"
	"github.com/vk/tagscript/internal/registry"
	"github.com/vk/tagscript/internal/script"
	"github.com/vk/tagscript/internal/types"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW    io.Writer
	logger  *slog.Logger
	config  *Config
	runtime *script.Runtime
}

// NewApp is the constructor for the main application. Results are written
// to outW and logs to logW. The returned App owns an isolated logger,
// registry and runtime; only the diagnostic hook is process-wide.
func NewApp(outW, logW io.Writer, cfg *Config, loader config.Loader) (*App, error) {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	diag.SetHook(diag.NewLogHook(logger))

	reg := registry.New()
	if err := types.RegisterAll(reg); err != nil {
		return nil, fmt.Errorf("failed to register built-in types: %w", err)
	}
	logger.Debug("Built-in types registered.", "types", reg.Types())

	rt := script.New(reg)

	if len(cfg.ConfigPaths) > 0 {
		model, err := loader.Load(ctx, cfg.ConfigPaths...)
		if err != nil {
			return nil, fmt.Errorf("failed to load configuration: %w", err)
		}
		if err := rt.Install(ctx, model); err != nil {
			return nil, fmt.Errorf("failed to install configuration: %w", err)
		}
		logger.Debug("Configuration installed.", "aliases", len(model.Aliases), "presets", len(model.Presets))
	}

	return &App{
		outW:    outW,
		logger:  logger,
		config:  cfg,
		runtime: rt,
	}, nil
}

// Runtime returns the application's runtime. This is primarily for testing.
func (a *App) Runtime() *script.Runtime {
	return a.runtime
}
