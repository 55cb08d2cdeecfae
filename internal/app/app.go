package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync/atomic"

	"github.com/specialistvlad/flowblock/internal/config"
	"github.com/specialistvlad/flowblock/internal/ctxlog"
	"github.com/specialistvlad/flowblock/internal/flowgraph"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	ctx     context.Context
	outW    io.Writer
	logger  *slog.Logger
	config  *Config
	model   *config.Model
	library *flowgraph.Library
	writer  config.Writer

	httpServer *http.Server
	blocks     atomic.Int64 // built so far, read by the health check
}

// NewApp is the constructor for the main application. It loads the library
// and the graph through loader and returns an App with its own isolated
// logger. writer is used when the configuration asks for the graph to be
// written back.
func NewApp(outW io.Writer, cfg *Config, loader config.Loader, writer config.Writer) (*App, error) {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	paths := []string{cfg.LibraryPath}
	if cfg.GraphPath != "" {
		paths = append(paths, cfg.GraphPath)
	}

	model, err := loader.Load(ctx, paths...)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	logger.Debug("Configuration loaded and translated into unified model.")

	lib := flowgraph.NewLibrary()
	for _, def := range model.Definitions {
		if err := lib.Add(def); err != nil {
			return nil, fmt.Errorf("failed to build block library: %w", err)
		}
	}
	logger.Debug("Block library populated.", "definitions", lib.Len())

	return &App{
		ctx:     ctx,
		outW:    outW,
		logger:  logger,
		config:  cfg,
		model:   model,
		library: lib,
		writer:  writer,
	}, nil
}

// Library returns the application's block library. This is primarily for
// testing.
func (a *App) Library() *flowgraph.Library {
	return a.library
}
