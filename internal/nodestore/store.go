// Package nodestore defines the interface for keeping snapshots of exported
// blocks, keyed by block id.
//
// A snapshot is the nested data a block exports: its key, its parameter
// values and its bus markers. Importing a snapshot into a fresh block of the
// same key restores it, so a store is all an editor needs to persist a flow
// graph between sessions.
//
// See internal/inmemorystore for the ephemeral implementation and
// internal/sqlitestore for the persistent one.
package nodestore

import (
	"context"
	"errors"

	"github.com/specialistvlad/flowblock/internal/nested"
)

// ErrNotFound is returned by Get for an id with no snapshot.
var ErrNotFound = errors.New("snapshot not found")

// Store keeps block snapshots. Implementations MUST be safe for concurrent
// use.
type Store interface {
	// Save stores data under id, replacing any earlier snapshot.
	Save(ctx context.Context, id string, data *nested.Data) error

	// Get returns the snapshot stored under id, or ErrNotFound.
	Get(ctx context.Context, id string) (*nested.Data, error)

	// List returns the stored ids in ascending order.
	List(ctx context.Context) ([]string, error)

	// Delete drops the snapshot stored under id. Deleting an unknown id is
	// not an error.
	Delete(ctx context.Context, id string) error

	// Close releases the resources held by the store.
	Close() error
}
