package handlers

import (
	"context"
	"fmt"

	"github.com/danielgonzalesarce/holocron/internal/domain/entities"
	"github.com/danielgonzalesarce/holocron/internal/domain/ports"
)

// HistoryHandler reads past load attempts.
type HistoryHandler struct {
	audit ports.AuditLog
}

// NewHistoryHandler creates a new history handler.
func NewHistoryHandler(audit ports.AuditLog) *HistoryHandler {
	return &HistoryHandler{audit: audit}
}

// Handle returns up to limit audit entries, newest first.
func (h *HistoryHandler) Handle(ctx context.Context, limit int) ([]entities.AuditEntry, error) {
	entries, err := h.audit.FindAuditLog(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("reading history: %w", err)
	}
	return entries, nil
}
