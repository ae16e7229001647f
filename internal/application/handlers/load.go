package handlers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/danielgonzalesarce/holocron/internal/domain/entities"
	"github.com/danielgonzalesarce/holocron/internal/domain/ports"
	"github.com/danielgonzalesarce/holocron/internal/domain/services"
)

// ErrLoadInProgress is returned when a load is requested while another is running.
var ErrLoadInProgress = errors.New("a load is already in progress")

// Crawler walks the listing and returns every resolved entity.
type Crawler interface {
	LoadAll(ctx context.Context, startURL string, onPage services.ProgressFunc) ([]entities.Entity, error)
}

// LoadHandler handles loading the full catalog from the listing.
type LoadHandler struct {
	crawler Crawler
	store   ports.SnapshotStore
	audit   ports.AuditLog
	catalog *services.Catalog
	source  string
	logger  *zap.Logger
}

// NewLoadHandler creates a new load handler that crawls from source.
func NewLoadHandler(
	crawler Crawler,
	store ports.SnapshotStore,
	audit ports.AuditLog,
	catalog *services.Catalog,
	source string,
	logger *zap.Logger,
) *LoadHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LoadHandler{
		crawler: crawler,
		store:   store,
		audit:   audit,
		catalog: catalog,
		source:  source,
		logger:  logger,
	}
}

// LoadResult contains the result of a completed load.
type LoadResult struct {
	SnapshotID string
	Entities   int
	Pages      int
	Duration   time.Duration
}

// Handle runs one load. The stored snapshot and the catalog are replaced only
// when every page was fetched and saved; otherwise prior data is kept.
func (h *LoadHandler) Handle(ctx context.Context, onPage services.ProgressFunc) (*LoadResult, error) {
	if !h.TryBegin() {
		return nil, ErrLoadInProgress
	}
	return h.Run(ctx, onPage)
}

// TryBegin marks a load as running and reports whether the caller owns it.
// An owner must follow with Run, which ends the load.
func (h *LoadHandler) TryBegin() bool {
	return h.catalog.BeginLoad()
}

// Run performs a load already started with TryBegin.
func (h *LoadHandler) Run(ctx context.Context, onPage services.ProgressFunc) (*LoadResult, error) {
	start := timeNow()
	pages := 0
	all, err := h.crawler.LoadAll(ctx, h.source, func(page, loaded int) {
		pages = page
		if onPage != nil {
			onPage(page, loaded)
		}
	})
	if err != nil {
		return nil, h.fail(ctx, fmt.Errorf("crawling listing: %w", err))
	}

	snapshot := &entities.Snapshot{
		Source:   h.source,
		LoadedAt: start.UTC(),
		Entities: all,
	}
	if err := h.store.SaveSnapshot(ctx, snapshot); err != nil {
		return nil, h.fail(ctx, fmt.Errorf("saving snapshot: %w", err))
	}

	h.catalog.Dispatch(services.LoadSucceeded{Snapshot: snapshot})

	result := &LoadResult{
		SnapshotID: snapshot.ID,
		Entities:   len(all),
		Pages:      pages,
		Duration:   timeNow().Sub(start),
	}

	h.record(ctx, entities.ActionLoadSucceeded, snapshot.ID, map[string]any{
		"entities":    result.Entities,
		"pages":       result.Pages,
		"duration_ms": result.Duration.Milliseconds(),
	})
	h.logger.Info("catalog loaded",
		zap.String("snapshot", snapshot.ID),
		zap.Int("entities", result.Entities),
		zap.Int("pages", result.Pages),
		zap.Duration("duration", result.Duration))

	return result, nil
}

func (h *LoadHandler) fail(ctx context.Context, err error) error {
	h.catalog.Dispatch(services.LoadFailed{Err: err})
	h.record(ctx, entities.ActionLoadFailed, "", map[string]any{"error": err.Error()})
	h.logger.Error("catalog load failed", zap.Error(err))
	return err
}

func (h *LoadHandler) record(ctx context.Context, action, snapshotID string, details map[string]any) {
	recordAudit(ctx, h.audit, h.logger, action, snapshotID, details)
}

// recordAudit writes to the audit log. Audit failures are logged and never
// fail the operation that already took effect.
func recordAudit(ctx context.Context, audit ports.AuditLog, logger *zap.Logger, action, snapshotID string, details map[string]any) {
	if audit == nil {
		return
	}
	if err := audit.LogAction(context.WithoutCancel(ctx), action, snapshotID, details); err != nil {
		logger.Warn("writing audit log", zap.String("action", action), zap.Error(err))
	}
}

// timeNow returns the current time (can be mocked in tests).
var timeNow = time.Now
