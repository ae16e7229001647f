package ports

import (
	"context"

	"github.com/danielgonzalesarce/holocron/internal/domain/entities"
)

// SnapshotStore keeps the last completed load.
type SnapshotStore interface {
	// EnsureSchema creates the storage schema if it doesn't exist.
	EnsureSchema(ctx context.Context) error

	// Close releases the underlying connection.
	Close() error

	// SaveSnapshot replaces the stored entity set with snapshot.
	SaveSnapshot(ctx context.Context, snapshot *entities.Snapshot) error

	// LatestSnapshot returns the stored snapshot, or nil when nothing was loaded yet.
	LatestSnapshot(ctx context.Context) (*entities.Snapshot, error)
}

// AuditLog records what happened to the catalog over time.
type AuditLog interface {
	// LogAction appends an action to the audit log.
	LogAction(ctx context.Context, action string, snapshotID string, details map[string]any) error

	// FindAuditLog returns the most recent entries, newest first.
	FindAuditLog(ctx context.Context, limit int) ([]entities.AuditEntry, error)
}
