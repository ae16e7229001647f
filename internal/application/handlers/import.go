package handlers

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/danielgonzalesarce/holocron/internal/domain/entities"
	"github.com/danielgonzalesarce/holocron/internal/domain/ports"
	"github.com/danielgonzalesarce/holocron/internal/domain/services"
	"github.com/danielgonzalesarce/holocron/internal/infrastructure/parsers"
)

// ImportHandler handles replacing the snapshot with a previously exported file.
type ImportHandler struct {
	store   ports.SnapshotStore
	audit   ports.AuditLog
	catalog *services.Catalog
	logger  *zap.Logger
}

// NewImportHandler creates a new import handler.
func NewImportHandler(
	store ports.SnapshotStore,
	audit ports.AuditLog,
	catalog *services.Catalog,
	logger *zap.Logger,
) *ImportHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ImportHandler{
		store:   store,
		audit:   audit,
		catalog: catalog,
		logger:  logger,
	}
}

// ImportOptions controls import behavior.
type ImportOptions struct {
	Format string // "json", "csv", or "auto"
	DryRun bool   // Validate without saving
}

// ImportResult contains the result of an import operation.
type ImportResult struct {
	SnapshotID string
	Imported   int
}

// Handle parses filePath and stores its entities as the current snapshot.
func (h *ImportHandler) Handle(ctx context.Context, filePath string, opts ImportOptions) (*ImportResult, error) {
	// Get parser
	var parser parsers.Parser
	if opts.Format == "" || opts.Format == "auto" {
		parser = parsers.ForFile(filePath)
	} else {
		parser = parsers.ForFormat(opts.Format)
	}

	if parser == nil {
		return nil, fmt.Errorf("unsupported format for file: %s", filePath)
	}

	// Open file
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer file.Close()

	list, err := parser.Parse(file)
	if err != nil {
		return nil, fmt.Errorf("parsing file: %w", err)
	}

	if opts.DryRun {
		return &ImportResult{Imported: len(list)}, nil
	}

	if !h.catalog.BeginLoad() {
		return nil, ErrLoadInProgress
	}

	snapshot := &entities.Snapshot{
		Source:   filePath,
		Entities: list,
	}
	if snapshot.Entities == nil {
		snapshot.Entities = []entities.Entity{}
	}
	if err := h.store.SaveSnapshot(ctx, snapshot); err != nil {
		h.catalog.Dispatch(services.LoadFailed{Err: err})
		return nil, fmt.Errorf("saving snapshot: %w", err)
	}
	h.catalog.Dispatch(services.LoadSucceeded{Snapshot: snapshot})

	recordAudit(ctx, h.audit, h.logger, entities.ActionImportSucceeded, snapshot.ID, map[string]any{
		"file":     filePath,
		"entities": len(list),
	})
	h.logger.Info("catalog imported",
		zap.String("snapshot", snapshot.ID),
		zap.String("file", filePath),
		zap.Int("entities", len(list)))

	return &ImportResult{
		SnapshotID: snapshot.ID,
		Imported:   len(list),
	}, nil
}
