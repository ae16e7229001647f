package handlers

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/text/language"

	"github.com/danielgonzalesarce/holocron/internal/domain/entities"
	"github.com/danielgonzalesarce/holocron/internal/domain/ports"
	"github.com/danielgonzalesarce/holocron/internal/domain/services"
)

// ErrNoSnapshot is returned when nothing has been loaded yet.
var ErrNoSnapshot = errors.New("no characters loaded yet, run load first")

// BrowseHandler filters and orders the stored catalog.
type BrowseHandler struct {
	store   ports.SnapshotStore
	catalog *services.Catalog
	locale  language.Tag
}

// NewBrowseHandler creates a new browse handler.
func NewBrowseHandler(store ports.SnapshotStore, catalog *services.Catalog, locale language.Tag) *BrowseHandler {
	return &BrowseHandler{
		store:   store,
		catalog: catalog,
		locale:  locale,
	}
}

// BrowseResult contains the visible entities of a browse.
type BrowseResult struct {
	Entities   []entities.Entity
	Matched    int
	Total      int
	SnapshotID string
}

// Handle derives the visible set for criteria over the stored snapshot.
// A positive limit truncates Entities; Matched still counts every match.
func (h *BrowseHandler) Handle(ctx context.Context, criteria entities.Criteria, limit int) (*BrowseResult, error) {
	snap, err := h.store.LatestSnapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}
	if snap == nil {
		return nil, ErrNoSnapshot
	}

	visible := services.Derive(snap.Entities, criteria, services.WithLocale(h.locale))
	result := &BrowseResult{
		Entities:   visible,
		Matched:    len(visible),
		Total:      len(snap.Entities),
		SnapshotID: snap.ID,
	}
	if limit > 0 && len(visible) > limit {
		result.Entities = visible[:limit]
	}
	return result, nil
}

// Restore seeds the catalog with the stored snapshot. It reports whether a
// snapshot was found.
func (h *BrowseHandler) Restore(ctx context.Context) (bool, error) {
	snap, err := h.store.LatestSnapshot(ctx)
	if err != nil {
		return false, fmt.Errorf("reading snapshot: %w", err)
	}
	if snap == nil {
		return false, nil
	}
	h.catalog.Dispatch(services.LoadSucceeded{Snapshot: snap})
	return true, nil
}
