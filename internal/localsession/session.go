// Package localsession provides a concrete implementation of the
// session.Session and session.SessionFactory interfaces for a single,
// in-process editor.
package localsession

import (
	"context"
	"errors"
	"fmt"

	"github.com/specialistvlad/flowblock/internal/block"
	"github.com/specialistvlad/flowblock/internal/ctxlog"
	"github.com/specialistvlad/flowblock/internal/editorsync"
	"github.com/specialistvlad/flowblock/internal/element"
	"github.com/specialistvlad/flowblock/internal/flowgraph"
	"github.com/specialistvlad/flowblock/internal/inmemorystore"
	"github.com/specialistvlad/flowblock/internal/nested"
	"github.com/specialistvlad/flowblock/internal/nodestore"
	"github.com/specialistvlad/flowblock/internal/session"
)

// SessionFactory implements session.SessionFactory for local editing.
type SessionFactory struct {
	// BlockOptions are passed to every block the session's graph builds.
	BlockOptions []block.Option
}

// NewSession wires a graph over lib to the store and publisher. A nil store
// is replaced by an in-memory one, a nil publisher by a no-op one.
func (f *SessionFactory) NewSession(
	ctx context.Context,
	lib *flowgraph.Library,
	store nodestore.Store,
	pub editorsync.Publisher,
) (session.Session, error) {
	if lib == nil {
		return nil, errors.New("session needs a block library")
	}
	if store == nil {
		store = inmemorystore.New()
	}
	if pub == nil {
		pub = editorsync.NopPublisher{}
	}
	ctxlog.FromContext(ctx).Debug("Session created.", "definitions", lib.Len())

	return &Session{
		graph: flowgraph.New(lib, f.BlockOptions...),
		store: store,
		pub:   pub,
	}, nil
}

// Session implements session.Session. It is not safe for concurrent use.
type Session struct {
	graph *flowgraph.Graph
	store nodestore.Store
	pub   editorsync.Publisher
}

// Graph returns the edited graph.
func (s *Session) Graph() *flowgraph.Graph { return s.graph }

// commit snapshots b and publishes the change.
func (s *Session) commit(ctx context.Context, b *block.Block) error {
	data := b.Export()
	if err := s.store.Save(ctx, b.ID(), data); err != nil {
		return fmt.Errorf("snapshot %q: %w", b.ID(), err)
	}
	return s.pub.Publish(ctx, editorsync.Event{
		Name:    editorsync.EventBlockUpdated,
		BlockID: b.ID(),
		Data:    data,
	})
}

func (s *Session) AddBlock(ctx context.Context, key string) (*block.Block, error) {
	b, err := s.graph.AddBlock(ctx, key)
	if err != nil {
		return nil, err
	}
	return b, s.commit(ctx, b)
}

func (s *Session) ImportBlock(ctx context.Context, n *nested.Data) (*block.Block, error) {
	b, err := s.graph.ImportBlock(ctx, n)
	if err != nil {
		return nil, err
	}
	return b, s.commit(ctx, b)
}

func (s *Session) RemoveBlock(ctx context.Context, id string) error {
	if err := s.graph.RemoveBlock(id); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	return s.pub.Publish(ctx, editorsync.Event{Name: editorsync.EventBlockRemoved, BlockID: id})
}

func (s *Session) SetState(ctx context.Context, id string, st block.State) error {
	b, err := s.graph.Block(id)
	if err != nil {
		return err
	}
	b.SetState(st)
	return s.commit(ctx, b)
}

func (s *Session) SetEnabled(ctx context.Context, id string, enabled bool) error {
	b, err := s.graph.Block(id)
	if err != nil {
		return err
	}
	if !b.SetEnabled(enabled) {
		return fmt.Errorf("block %q: %w", id, session.ErrUnchanged)
	}
	return s.commit(ctx, b)
}

func (s *Session) SetBypassed(ctx context.Context, id string) error {
	b, err := s.graph.Block(id)
	if err != nil {
		return err
	}
	if !b.SetBypassed() {
		return fmt.Errorf("block %q: %w", id, session.ErrUnchanged)
	}
	return s.commit(ctx, b)
}

func (s *Session) SetParam(ctx context.Context, id, key, value string) error {
	b, err := s.graph.Block(id)
	if err != nil {
		return err
	}
	p, err := b.Param(key)
	if err != nil {
		return err
	}
	renamed := key == block.IDKey && value != id
	if renamed {
		if _, err := s.graph.Block(value); err == nil {
			return fmt.Errorf("rename %q: %w: %q", id, flowgraph.ErrDuplicateID, value)
		}
	}
	p.SetValue(value)
	if err := b.Rewrite(ctx); err != nil {
		return fmt.Errorf("block %q: rewrite: %w", id, err)
	}
	if err := s.commit(ctx, b); err != nil {
		return err
	}
	if !renamed {
		return nil
	}
	// The snapshot under the old id would come back as a second block.
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	return s.pub.Publish(ctx, editorsync.Event{Name: editorsync.EventBlockRemoved, BlockID: id})
}

func (s *Session) Bussify(ctx context.Context, id string, dir element.Direction) error {
	b, err := s.graph.Block(id)
	if err != nil {
		return err
	}
	if err := b.Bussify(block.BusPortDescription(), dir); err != nil {
		return err
	}
	return s.commit(ctx, b)
}

// Restore imports every snapshot in the store, in id order, and announces the
// loaded graph.
func (s *Session) Restore(ctx context.Context) error {
	ids, err := s.store.List(ctx)
	if err != nil {
		return err
	}
	for _, id := range ids {
		data, err := s.store.Get(ctx, id)
		if err != nil {
			return err
		}
		if _, err := s.graph.ImportBlock(ctx, data); err != nil {
			return fmt.Errorf("restore %q: %w", id, err)
		}
	}
	ctxlog.FromContext(ctx).Info("Session restored.", "blocks", len(ids))
	return s.pub.Publish(ctx, editorsync.Event{Name: editorsync.EventGraphLoaded})
}

func (s *Session) Export(context.Context) []*nested.Data {
	return s.graph.Export()
}

// Close closes the publisher. The store belongs to the caller.
func (s *Session) Close(ctx context.Context) error {
	ctxlog.FromContext(ctx).Debug("Session closed.")
	return s.pub.Close()
}
