// Package sqlite provides a SQLite implementation of the SnapshotStore and AuditLog interfaces.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/danielgonzalesarce/holocron/internal/domain/entities"
	"github.com/danielgonzalesarce/holocron/internal/infrastructure/config"
)

// generateUUID returns a new UUID string.
func generateUUID() string {
	return uuid.New().String()
}

// timeNow returns the current time (can be mocked in tests).
var timeNow = time.Now

// Repository implements ports.SnapshotStore and ports.AuditLog using SQLite.
type Repository struct {
	db   *sql.DB
	path string
}

// NewRepository creates a new SQLite repository.
func NewRepository(cfg config.SQLiteConfig) (*Repository, error) {
	if cfg.Path == "" {
		return nil, errors.New("sqlite path is required")
	}

	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}

	// An in-memory database exists per connection.
	if cfg.Path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	// Enable foreign keys for referential integrity
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	// Enable WAL mode so the web UI can read while a load is written
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	// Set busy timeout to avoid "database is locked" errors
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	return &Repository{
		db:   db,
		path: cfg.Path,
	}, nil
}

// Close closes the database connection.
func (r *Repository) Close() error {
	return r.db.Close()
}

// Path returns the database file path.
func (r *Repository) Path() string {
	return r.path
}

// EnsureSchema creates the database schema if it doesn't exist.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	schema := `
	-- The most recent completed load (at most one row)
	CREATE TABLE IF NOT EXISTS snapshots (
		id TEXT PRIMARY KEY,
		source TEXT NOT NULL,
		loaded_at TIMESTAMP NOT NULL
	);

	-- Entities of the stored snapshot, in listing order
	CREATE TABLE IF NOT EXISTS snapshot_entities (
		snapshot_id TEXT NOT NULL REFERENCES snapshots(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		name TEXT NOT NULL,
		url TEXT NOT NULL,
		identifier INTEGER NOT NULL DEFAULT 0,
		gender TEXT NOT NULL DEFAULT '',
		mass TEXT NOT NULL DEFAULT '',
		height TEXT NOT NULL DEFAULT '',
		hair_color TEXT NOT NULL DEFAULT '',
		eye_color TEXT NOT NULL DEFAULT '',
		birth_year TEXT NOT NULL DEFAULT '',
		image_url TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (snapshot_id, position)
	);

	-- Audit log (tracks every load attempt)
	CREATE TABLE IF NOT EXISTS audit_log (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		action TEXT NOT NULL,
		snapshot_id TEXT,
		details TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_audit_log_action ON audit_log(action);
	CREATE INDEX IF NOT EXISTS idx_audit_log_created ON audit_log(created_at);
	`

	_, err := r.db.ExecContext(ctx, schema)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}

// SaveSnapshot replaces the stored snapshot in a single transaction.
// An empty ID or zero LoadedAt is filled in.
func (r *Repository) SaveSnapshot(ctx context.Context, snapshot *entities.Snapshot) (err error) {
	if snapshot.ID == "" {
		snapshot.ID = generateUUID()
	}
	if snapshot.LoadedAt.IsZero() {
		snapshot.LoadedAt = timeNow().UTC()
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM snapshots`); err != nil {
		return fmt.Errorf("clearing snapshots: %w", err)
	}

	if _, err = tx.ExecContext(ctx,
		`INSERT INTO snapshots (id, source, loaded_at) VALUES (?, ?, ?)`,
		snapshot.ID, snapshot.Source, snapshot.LoadedAt,
	); err != nil {
		return fmt.Errorf("saving snapshot: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO snapshot_entities (
			snapshot_id, position, name, url, identifier, gender, mass,
			height, hair_color, eye_color, birth_year, image_url
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing entity insert: %w", err)
	}
	defer stmt.Close()

	for i, e := range snapshot.Entities {
		if _, err = stmt.ExecContext(ctx,
			snapshot.ID, i, e.Name, e.SourceURL, e.Identifier, e.Gender, e.Mass,
			e.Height, e.HairColor, e.EyeColor, e.BirthYear, e.ImageURL,
		); err != nil {
			return fmt.Errorf("saving entity %q: %w", e.Name, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("committing snapshot: %w", err)
	}
	return nil
}

// LatestSnapshot returns the stored snapshot, or nil when none exists.
func (r *Repository) LatestSnapshot(ctx context.Context) (*entities.Snapshot, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, source, loaded_at
		FROM snapshots
		ORDER BY loaded_at DESC
		LIMIT 1
	`)

	var snap entities.Snapshot
	err := row.Scan(&snap.ID, &snap.Source, &snap.LoadedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scanning snapshot: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT name, url, identifier, gender, mass, height,
			hair_color, eye_color, birth_year, image_url
		FROM snapshot_entities
		WHERE snapshot_id = ?
		ORDER BY position
	`, snap.ID)
	if err != nil {
		return nil, fmt.Errorf("querying snapshot entities: %w", err)
	}
	defer rows.Close()

	snap.Entities = []entities.Entity{}
	for rows.Next() {
		var e entities.Entity
		if err := rows.Scan(
			&e.Name,
			&e.SourceURL,
			&e.Identifier,
			&e.Gender,
			&e.Mass,
			&e.Height,
			&e.HairColor,
			&e.EyeColor,
			&e.BirthYear,
			&e.ImageURL,
		); err != nil {
			return nil, fmt.Errorf("scanning snapshot entity: %w", err)
		}
		snap.Entities = append(snap.Entities, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating snapshot entities: %w", err)
	}

	return &snap, nil
}

// LogAction logs an action to the audit log.
func (r *Repository) LogAction(ctx context.Context, action string, snapshotID string, details map[string]any) error {
	var detailsJSON sql.NullString
	if details != nil {
		data, err := json.Marshal(details)
		if err != nil {
			return fmt.Errorf("marshaling details: %w", err)
		}
		detailsJSON = sql.NullString{String: string(data), Valid: true}
	}

	var snapshotIDPtr sql.NullString
	if snapshotID != "" {
		snapshotIDPtr = sql.NullString{String: snapshotID, Valid: true}
	}

	query := `INSERT INTO audit_log (action, snapshot_id, details, created_at) VALUES (?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query, action, snapshotIDPtr, detailsJSON, timeNow().UTC())
	if err != nil {
		return fmt.Errorf("logging action: %w", err)
	}
	return nil
}

// FindAuditLog returns the most recent audit entries, newest first.
func (r *Repository) FindAuditLog(ctx context.Context, limit int) ([]entities.AuditEntry, error) {
	if limit <= 0 {
		limit = -1 // no limit in SQLite
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, action, snapshot_id, details, created_at
		FROM audit_log
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying audit log: %w", err)
	}
	defer rows.Close()

	var entries []entities.AuditEntry
	for rows.Next() {
		var entry entities.AuditEntry
		var snapshotID, details sql.NullString

		if err := rows.Scan(
			&entry.ID,
			&entry.Action,
			&snapshotID,
			&details,
			&entry.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning audit entry: %w", err)
		}

		entry.SnapshotID = snapshotID.String

		if details.Valid && details.String != "" {
			if err := json.Unmarshal([]byte(details.String), &entry.Details); err != nil {
				return nil, fmt.Errorf("unmarshaling details: %w", err)
			}
		}

		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
