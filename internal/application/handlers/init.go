// Package handlers contains application use case handlers.
package handlers

import (
	"context"
	"fmt"

	"github.com/danielgonzalesarce/holocron/internal/domain/ports"
	"github.com/danielgonzalesarce/holocron/internal/infrastructure/config"
)

// StoreOpener opens the snapshot store described by cfg.
type StoreOpener func(cfg *config.Config, basePath string) (ports.SnapshotStore, error)

// InitHandler handles workspace initialization.
type InitHandler struct {
	openStore StoreOpener
}

// NewInitHandler creates a new init handler.
func NewInitHandler(openStore StoreOpener) *InitHandler {
	return &InitHandler{
		openStore: openStore,
	}
}

// InitResult contains the result of initialization.
type InitResult struct {
	ConfigPath   string
	DatabasePath string
}

// Handle writes the default config and creates the snapshot schema.
func (h *InitHandler) Handle(ctx context.Context, basePath string) (*InitResult, error) {
	if config.Exists(basePath) {
		return nil, fmt.Errorf("holocron already initialized in %s", basePath)
	}

	if err := config.WriteDefault(basePath); err != nil {
		return nil, fmt.Errorf("writing default config: %w", err)
	}

	cfg, err := config.Load(basePath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if h.openStore != nil {
		store, err := h.openStore(cfg, basePath)
		if err != nil {
			return nil, fmt.Errorf("opening snapshot store: %w", err)
		}
		defer store.Close()

		if err := store.EnsureSchema(ctx); err != nil {
			return nil, fmt.Errorf("creating schema: %w", err)
		}
	}

	return &InitResult{
		ConfigPath:   config.ConfigFilePath(basePath),
		DatabasePath: cfg.DatabasePath(basePath),
	}, nil
}
