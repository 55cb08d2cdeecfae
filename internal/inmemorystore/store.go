package inmemorystore

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/specialistvlad/flowblock/internal/nested"
	"github.com/specialistvlad/flowblock/internal/nodestore"
)

// Store is an ephemeral nodestore.Store. Snapshots are cloned on the way in
// and on the way out, so callers never share data with the store.
type Store struct {
	snapshots sync.Map // Key: block id, Value: *nested.Data
}

// New creates a new, empty in-memory snapshot store.
func New() nodestore.Store {
	return &Store{}
}

// Save stores a copy of data under id.
func (s *Store) Save(_ context.Context, id string, data *nested.Data) error {
	s.snapshots.Store(id, data.Clone())
	return nil
}

// Get returns a copy of the snapshot stored under id.
func (s *Store) Get(_ context.Context, id string) (*nested.Data, error) {
	v, ok := s.snapshots.Load(id)
	if !ok {
		return nil, fmt.Errorf("%w: %q", nodestore.ErrNotFound, id)
	}
	return v.(*nested.Data).Clone(), nil
}

// List returns the stored ids, sorted.
func (s *Store) List(_ context.Context) ([]string, error) {
	var ids []string
	s.snapshots.Range(func(k, _ any) bool {
		ids = append(ids, k.(string))
		return true
	})
	sort.Strings(ids)
	return ids, nil
}

// Delete drops the snapshot stored under id.
func (s *Store) Delete(_ context.Context, id string) error {
	s.snapshots.Delete(id)
	return nil
}

// Close is a no-op.
func (s *Store) Close() error { return nil }
