// Package store persists named forest snapshots in PostgreSQL, for hosts
// that share task forests across machines instead of shipping JSON files.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Snapshot is one saved forest revision.
type Snapshot struct {
	ID        string
	Name      string
	Data      []byte // serialized forest, as produced by registry.Serialize
	CreatedAt time.Time
}

// PgStore is a PostgreSQL-backed forest store. Every save creates a new
// snapshot; loads return the latest snapshot for a name.
type PgStore struct {
	pool *pgxpool.Pool
}

// NewPgStore creates a PgStore.
func NewPgStore(pool *pgxpool.Pool) *PgStore {
	return &PgStore{pool: pool}
}

// EnsureTable creates the forests table if it doesn't exist.
func (s *PgStore) EnsureTable(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS forests (
			id         TEXT PRIMARY KEY,
			name       TEXT NOT NULL,
			data       JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		)`)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx, `CREATE INDEX IF NOT EXISTS idx_forests_name_created ON forests(name, created_at DESC)`)
	return err
}

// Save stores a new snapshot of the serialized forest under the name.
func (s *PgStore) Save(ctx context.Context, name string, data []byte) (*Snapshot, error) {
	snap := &Snapshot{
		ID:        uuid.Must(uuid.NewV7()).String(),
		Name:      name,
		Data:      data,
		CreatedAt: time.Now().Truncate(time.Microsecond),
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO forests (id, name, data, created_at)
		VALUES ($1, $2, $3::jsonb, $4)`,
		snap.ID, snap.Name, string(snap.Data), snap.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert forest snapshot: %w", err)
	}
	return snap, nil
}

// Load returns the latest snapshot for a name, or nil when none exists.
func (s *PgStore) Load(ctx context.Context, name string) (*Snapshot, error) {
	snap := &Snapshot{}
	err := s.pool.QueryRow(ctx, `
		SELECT id, name, data, created_at FROM forests
		WHERE name = $1
		ORDER BY created_at DESC, id DESC
		LIMIT 1`, name).Scan(&snap.ID, &snap.Name, &snap.Data, &snap.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load forest snapshot: %w", err)
	}
	return snap, nil
}

// List returns the names of all stored forests with their latest snapshot
// time, newest first.
func (s *PgStore) List(ctx context.Context) (map[string]time.Time, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT name, max(created_at) FROM forests GROUP BY name`)
	if err != nil {
		return nil, fmt.Errorf("list forests: %w", err)
	}
	defer rows.Close()

	out := make(map[string]time.Time)
	for rows.Next() {
		var name string
		var latest time.Time
		if err := rows.Scan(&name, &latest); err != nil {
			return nil, fmt.Errorf("scan forest row: %w", err)
		}
		out[name] = latest
	}
	return out, rows.Err()
}

// Delete removes every snapshot of a named forest and reports whether
// anything was deleted.
func (s *PgStore) Delete(ctx context.Context, name string) (bool, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM forests WHERE name = $1`, name)
	if err != nil {
		return false, fmt.Errorf("delete forest: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
