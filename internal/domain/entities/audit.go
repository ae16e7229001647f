package entities

import "time"

// Audit actions recorded for loads and imports.
const (
	ActionLoadSucceeded   = "load.succeeded"
	ActionLoadFailed      = "load.failed"
	ActionImportSucceeded = "import.succeeded"
)

// AuditEntry represents a logged action in the system.
type AuditEntry struct {
	ID         int64          `json:"id"`
	Action     string         `json:"action"`
	SnapshotID string         `json:"snapshot_id,omitempty"`
	Details    map[string]any `json:"details,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}
