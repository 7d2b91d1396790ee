/*
Package sqlite persists tenant snapshots in SQLite.

PURPOSE:
  Implements engine.Persister. Each tenant's whole aggregate is stored as
  one JSON document; Save replaces it and appends a history row, Load
  reads it back. In production the same pattern applies to PostgreSQL -
  only minor SQL dialect differences.

KEY TABLES:
  snapshots:        Current aggregate per tenant (tenant_id is the PK)
  snapshot_history: Append-only trail of past snapshots, for audit and
                    point-in-time recovery

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency:
  - Multiple readers don't block
  - Single writer at a time
  - Better crash recovery

USAGE:
  store, err := sqlite.New("./data/savings.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  eng, err := engine.LoadStore(ctx, tenantID, engine.State{}, store)

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool (golang-migrate, goose) with versioned migrations.

SEE ALSO:
  - engine/store.go: The dispatcher that calls Save after each commit
  - backup: Encrypted export/import of the same snapshot document
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/tkane/savings-engine/engine"
)

// Store persists one JSON snapshot per tenant.
type Store struct {
	db *sql.DB
	mu sync.RWMutex

	// historyLimit caps snapshot_history rows kept per tenant; 0 keeps all.
	historyLimit int
}

// New creates a SQLite store at the given path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db, historyLimit: 50}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Current snapshot per tenant
	CREATE TABLE IF NOT EXISTS snapshots (
		tenant_id TEXT PRIMARY KEY,
		data_json TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	-- Append-only snapshot trail
	CREATE TABLE IF NOT EXISTS snapshot_history (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		tenant_id TEXT NOT NULL,
		data_json TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_history_tenant
		ON snapshot_history(tenant_id, created_at DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// PERSISTER (engine.Persister interface)
// =============================================================================

// Save replaces the tenant's snapshot and appends a history row.
func (s *Store) Save(ctx context.Context, tenantID string, state engine.State) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	now := time.Now().UTC().Format(time.RFC3339)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO snapshots (tenant_id, data_json, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(tenant_id) DO UPDATE SET
			data_json = excluded.data_json,
			updated_at = excluded.updated_at
	`, tenantID, string(data), now)
	if err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO snapshot_history (tenant_id, data_json, created_at)
		VALUES (?, ?, ?)
	`, tenantID, string(data), now)
	if err != nil {
		return fmt.Errorf("failed to record snapshot history: %w", err)
	}

	if s.historyLimit > 0 {
		_, err = tx.ExecContext(ctx, `
			DELETE FROM snapshot_history
			WHERE tenant_id = ? AND id NOT IN (
				SELECT id FROM snapshot_history
				WHERE tenant_id = ?
				ORDER BY id DESC
				LIMIT ?
			)
		`, tenantID, tenantID, s.historyLimit)
		if err != nil {
			return fmt.Errorf("failed to trim snapshot history: %w", err)
		}
	}

	return tx.Commit()
}

// Load reads the tenant's snapshot. The second return is false when the
// tenant has no snapshot yet.
func (s *Store) Load(ctx context.Context, tenantID string) (engine.State, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var data string
	err := s.db.QueryRowContext(ctx,
		"SELECT data_json FROM snapshots WHERE tenant_id = ?",
		tenantID,
	).Scan(&data)

	if err == sql.ErrNoRows {
		return engine.State{}, false, nil
	}
	if err != nil {
		return engine.State{}, false, fmt.Errorf("failed to load snapshot: %w", err)
	}

	var state engine.State
	if err := json.Unmarshal([]byte(data), &state); err != nil {
		return engine.State{}, false, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return state, true, nil
}

// =============================================================================
// HISTORY
// =============================================================================

// HistoryEntry is one archived snapshot.
type HistoryEntry struct {
	ID        int64
	TenantID  string
	State     engine.State
	CreatedAt time.Time
}

// History returns the most recent archived snapshots for a tenant,
// newest first.
func (s *Store) History(ctx context.Context, tenantID string, limit int) ([]HistoryEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, tenant_id, data_json, created_at
		FROM snapshot_history
		WHERE tenant_id = ?
		ORDER BY id DESC
		LIMIT ?
	`, tenantID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var entries []HistoryEntry
	for rows.Next() {
		var e HistoryEntry
		var data, createdAt string
		if err := rows.Scan(&e.ID, &e.TenantID, &data, &createdAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(data), &e.State); err != nil {
			return nil, fmt.Errorf("failed to decode history entry %d: %w", e.ID, err)
		}
		e.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Tenants lists all tenant IDs with a stored snapshot.
func (s *Store) Tenants(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT tenant_id FROM snapshots ORDER BY tenant_id",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Reset clears all data (for testing/demo).
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, table := range []string{"snapshots", "snapshot_history"} {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return nil
}
