package mocks

import (
	"context"

	"github.com/danielgonzalesarce/holocron/internal/domain/entities"
)

// SnapshotStore is a mock implementation of ports.SnapshotStore.
type SnapshotStore struct {
	Snapshot *entities.Snapshot
	SaveErr  error
	LoadErr  error

	// Call tracking
	SaveCallCount int
}

// EnsureSchema is a no-op.
func (m *SnapshotStore) EnsureSchema(ctx context.Context) error {
	return nil
}

// Close is a no-op.
func (m *SnapshotStore) Close() error {
	return nil
}

// SaveSnapshot stores snapshot unless SaveErr is set.
func (m *SnapshotStore) SaveSnapshot(ctx context.Context, snapshot *entities.Snapshot) error {
	m.SaveCallCount++
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.Snapshot = snapshot
	return nil
}

// LatestSnapshot returns the stored snapshot.
func (m *SnapshotStore) LatestSnapshot(ctx context.Context) (*entities.Snapshot, error) {
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	return m.Snapshot, nil
}

// AuditLog is a mock implementation of ports.AuditLog.
type AuditLog struct {
	Entries []entities.AuditEntry
	Err     error
}

// LogAction appends an entry unless Err is set.
func (m *AuditLog) LogAction(ctx context.Context, action string, snapshotID string, details map[string]any) error {
	if m.Err != nil {
		return m.Err
	}
	m.Entries = append(m.Entries, entities.AuditEntry{
		ID:         int64(len(m.Entries) + 1),
		Action:     action,
		SnapshotID: snapshotID,
		Details:    details,
	})
	return nil
}

// FindAuditLog returns entries newest first.
func (m *AuditLog) FindAuditLog(ctx context.Context, limit int) ([]entities.AuditEntry, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	var out []entities.AuditEntry
	for i := len(m.Entries) - 1; i >= 0 && (limit <= 0 || len(out) < limit); i-- {
		out = append(out, m.Entries[i])
	}
	return out, nil
}
