// Package sqlitestore implements nodestore.Store on SQLite. Snapshots are
// kept as JSON documents, one row per block id.
package sqlitestore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/specialistvlad/flowblock/internal/nested"
	"github.com/specialistvlad/flowblock/internal/nodestore"

	_ "modernc.org/sqlite"
)

// SchemaVersion is written next to every snapshot.
const SchemaVersion = 1

// Store is a persistent nodestore.Store. Call Init before use.
type Store struct {
	path string

	mu sync.RWMutex
	db *sql.DB
}

var _ nodestore.Store = (*Store)(nil)

// New returns a store for the database file at path. ":memory:" keeps the
// database in memory.
func New(path string) *Store {
	return &Store{path: path}
}

// Open creates a store for path and initializes it.
func Open(ctx context.Context, path string) (*Store, error) {
	s := New(path)
	if err := s.Init(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Init opens the database and creates the snapshot table. Calling it again
// is a no-op.
func (s *Store) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		return errors.New("sqlite path is required")
	}
	if s.db != nil {
		return nil
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return err
	}
	// A second connection to ":memory:" would see a different database.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return err
	}
	if err := createTables(ctx, db); err != nil {
		_ = db.Close()
		return err
	}

	s.db = db
	return nil
}

// Save stores data under id.
func (s *Store) Save(ctx context.Context, id string, data *nested.Data) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}

	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode snapshot %s: %w", id, err)
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO snapshots (id, block_key, schema_version, payload)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			block_key = excluded.block_key,
			schema_version = excluded.schema_version,
			payload = excluded.payload
	`, id, data.Find("key"), SchemaVersion, payload)
	return err
}

// Get returns the snapshot stored under id.
func (s *Store) Get(ctx context.Context, id string) (*nested.Data, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}

	var payload []byte
	err = db.QueryRowContext(ctx, `SELECT payload FROM snapshots WHERE id = ?`, id).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %q", nodestore.ErrNotFound, id)
		}
		return nil, err
	}

	data := &nested.Data{}
	if err := json.Unmarshal(payload, data); err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", id, err)
	}
	return data, nil
}

// List returns the stored ids, sorted.
func (s *Store) List(ctx context.Context) ([]string, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `SELECT id FROM snapshots ORDER BY id`)
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

// Delete drops the snapshot stored under id.
func (s *Store) Delete(ctx context.Context, id string) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, `DELETE FROM snapshots WHERE id = ?`, id)
	return err
}

// Close closes the database.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *Store) getDB() (*sql.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return nil, errors.New("store is not initialized")
	}
	return s.db, nil
}

func createTables(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS snapshots (
			id TEXT PRIMARY KEY,
			block_key TEXT NOT NULL,
			schema_version INTEGER NOT NULL,
			payload BLOB NOT NULL
		);
	`)
	return err
}
