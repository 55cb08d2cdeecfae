// Package session defines the core interfaces for an editing session over a
// flow graph. It abstracts away where snapshots are kept and who is told about
// changes.
package session

import (
	"context"
	"errors"

	"github.com/specialistvlad/flowblock/internal/block"
	"github.com/specialistvlad/flowblock/internal/editorsync"
	"github.com/specialistvlad/flowblock/internal/element"
	"github.com/specialistvlad/flowblock/internal/flowgraph"
	"github.com/specialistvlad/flowblock/internal/nested"
	"github.com/specialistvlad/flowblock/internal/nodestore"
)

// ErrUnchanged is returned when a mutation request leaves the block as it
// was, for example bypassing a block that cannot be bypassed.
var ErrUnchanged = errors.New("block unchanged")

// SessionFactory creates an editing Session.
type SessionFactory interface {
	NewSession(
		ctx context.Context,
		lib *flowgraph.Library,
		store nodestore.Store,
		pub editorsync.Publisher,
	) (Session, error)
}

// Session is one editor's view of a flow graph. Every successful mutation is
// snapshotted to the store and published.
type Session interface {
	Graph() *flowgraph.Graph

	AddBlock(ctx context.Context, key string) (*block.Block, error)
	ImportBlock(ctx context.Context, n *nested.Data) (*block.Block, error)
	RemoveBlock(ctx context.Context, id string) error

	SetState(ctx context.Context, id string, s block.State) error
	SetEnabled(ctx context.Context, id string, enabled bool) error
	SetBypassed(ctx context.Context, id string) error
	// SetParam writes a parameter value and rewrites the block.
	SetParam(ctx context.Context, id, key, value string) error
	Bussify(ctx context.Context, id string, dir element.Direction) error
	// Restore imports every snapshot held by the store.
	Restore(ctx context.Context) error

	Export(ctx context.Context) []*nested.Data

	// Close releases any resources held by the session. It accepts a context
	// to allow for graceful cleanup operations.
	Close(ctx context.Context) error
}
