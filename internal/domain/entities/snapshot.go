package entities

import "time"

// Snapshot is the full entity set produced by one completed load.
// A new snapshot replaces the previous one wholesale.
type Snapshot struct {
	ID       string    `json:"id"`
	Source   string    `json:"source"`
	LoadedAt time.Time `json:"loaded_at"`
	Entities []Entity  `json:"entities"`
}
