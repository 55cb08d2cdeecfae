package flowgraph

import (
	"context"
	"errors"
	"fmt"

	"github.com/specialistvlad/flowblock/internal/block"
	"github.com/specialistvlad/flowblock/internal/ctxlog"
	"github.com/specialistvlad/flowblock/internal/dag"
	"github.com/specialistvlad/flowblock/internal/element"
	"github.com/specialistvlad/flowblock/internal/nested"
	"github.com/specialistvlad/flowblock/internal/param"
	"github.com/specialistvlad/flowblock/internal/port"
)

var (
	// ErrBlockNotFound is returned by Block for an unknown id.
	ErrBlockNotFound = errors.New("block not found")
	// ErrDuplicateID is returned when two blocks would share an id.
	ErrDuplicateID = errors.New("block id is already in use")
)

// Graph is a flow graph: blocks built from a library plus the connections
// between their ports. It is not safe for concurrent use.
type Graph struct {
	library   *Library
	blockOpts []block.Option

	blocks      []*block.Block
	connections []*Connection
}

var (
	_ element.Graph         = (*Graph)(nil)
	_ port.ConnectionLister = (*Graph)(nil)
)

// New returns an empty graph over lib. opts are passed to every block the
// graph builds.
func New(lib *Library, opts ...block.Option) *Graph {
	return &Graph{library: lib, blockOpts: opts}
}

// Library returns the definitions the graph builds blocks from.
func (g *Graph) Library() *Library { return g.library }

// NewParam implements element.Factory.
func (g *Graph) NewParam(n *nested.Data) (element.Param, error) {
	return param.New(n)
}

// NewPort implements element.Factory.
func (g *Graph) NewPort(n *nested.Data, dir element.Direction) (element.Port, error) {
	return port.New(n, dir, g)
}

// ConnectionsOf implements port.ConnectionLister.
func (g *Graph) ConnectionsOf(p element.Port) []element.Connection {
	var out []element.Connection
	for _, c := range g.connections {
		if c.touches(p) {
			out = append(out, c)
		}
	}
	return out
}

// RemoveElement implements element.Remover. Unknown connections are ignored.
func (g *Graph) RemoveElement(c element.Connection) {
	for i, own := range g.connections {
		if own.ID() == c.ID() {
			g.connections = append(g.connections[:i], g.connections[i+1:]...)
			return
		}
	}
}

// Connect wires a source port to a sink port.
func (g *Graph) Connect(source, sink element.Port) (*Connection, error) {
	if source.Direction() != element.Source {
		return nil, fmt.Errorf("cannot connect from %s: not a source", source)
	}
	if sink.Direction() != element.Sink {
		return nil, fmt.Errorf("cannot connect to %s: not a sink", sink)
	}
	c := newConnection(source, sink)
	g.connections = append(g.connections, c)
	return c, nil
}

// ConnectKeys wires the source sourceKey of block sourceID to the sink
// sinkKey of block sinkID.
func (g *Graph) ConnectKeys(sourceID, sourceKey, sinkID, sinkKey string) (*Connection, error) {
	src, err := g.Block(sourceID)
	if err != nil {
		return nil, err
	}
	snk, err := g.Block(sinkID)
	if err != nil {
		return nil, err
	}
	sp, err := src.Source(sourceKey)
	if err != nil {
		return nil, fmt.Errorf("block %q: %w", sourceID, err)
	}
	kp, err := snk.Sink(sinkKey)
	if err != nil {
		return nil, fmt.Errorf("block %q: %w", sinkID, err)
	}
	return g.Connect(sp, kp)
}

// Connections returns every connection of the graph.
func (g *Graph) Connections() []*Connection { return g.connections }

// AddBlock builds a block from the definition stored under key and gives it
// the first free id of the form <key>_<n>.
func (g *Graph) AddBlock(ctx context.Context, key string) (*block.Block, error) {
	ctx = ctxlog.With(ctx, "graph_op", "add")
	def, err := g.library.Get(key)
	if err != nil {
		return nil, err
	}
	b, err := block.New(ctx, g, def, g.blockOpts...)
	if err != nil {
		return nil, err
	}
	id, err := b.Param(block.IDKey)
	if err != nil {
		return nil, err
	}
	id.SetValue(g.nextID(key))
	if err := b.Rewrite(ctx); err != nil {
		return nil, fmt.Errorf("block %q: rewrite: %w", key, err)
	}
	g.blocks = append(g.blocks, b)
	ctxlog.FromContext(ctx).Debug("Block added.", "block_id", b.ID())
	return b, nil
}

func (g *Graph) nextID(key string) string {
	for i := 0; ; i++ {
		id := fmt.Sprintf("%s_%d", key, i)
		if _, err := g.Block(id); err != nil {
			return id
		}
	}
}

// ImportBlock builds a block from the definition named by n's key and
// imports n into it. A block whose id is already taken is rejected.
func (g *Graph) ImportBlock(ctx context.Context, n *nested.Data) (*block.Block, error) {
	key := n.Find("key")
	ctx = ctxlog.With(ctx, "graph_op", "import")
	def, err := g.library.Get(key)
	if err != nil {
		return nil, err
	}
	b, err := block.New(ctx, g, def, g.blockOpts...)
	if err != nil {
		return nil, err
	}
	if err := b.Import(ctx, n); err != nil {
		return nil, err
	}
	if b.ID() == "" {
		id, _ := b.Param(block.IDKey)
		id.SetValue(g.nextID(key))
	}
	if _, err := g.Block(b.ID()); err == nil {
		return nil, fmt.Errorf("%w: %q", ErrDuplicateID, b.ID())
	}
	g.blocks = append(g.blocks, b)
	ctxlog.FromContext(ctx).Debug("Block imported.", "block_id", b.ID())
	return b, nil
}

// RemoveBlock removes a block together with its connections.
func (g *Graph) RemoveBlock(id string) error {
	for i, b := range g.blocks {
		if b.ID() == id {
			for _, c := range b.Connections() {
				g.RemoveElement(c)
			}
			g.blocks = append(g.blocks[:i], g.blocks[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrBlockNotFound, id)
}

// Block returns the block with the given id.
func (g *Graph) Block(id string) (*block.Block, error) {
	for _, b := range g.blocks {
		if b.ID() == id {
			return b, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrBlockNotFound, id)
}

// Owner returns the block that holds p.
func (g *Graph) Owner(p element.Port) (*block.Block, bool) {
	for _, b := range g.blocks {
		for _, q := range b.Ports() {
			if q == p {
				return b, true
			}
		}
	}
	return nil, false
}

// Blocks returns the blocks in insertion order.
func (g *Graph) Blocks() []*block.Block { return g.blocks }

// Export exports every block in insertion order.
func (g *Graph) Export() []*nested.Data {
	out := make([]*nested.Data, 0, len(g.blocks))
	for _, b := range g.blocks {
		out = append(out, b.Export())
	}
	return out
}

// Order returns the blocks with every block after the blocks feeding it.
// Unconnected blocks keep their insertion order. A feedback loop is an error
// wrapping dag.ErrCycle.
func (g *Graph) Order() ([]*block.Block, error) {
	d := dag.New()
	byID := make(map[string]*block.Block, len(g.blocks))
	for _, b := range g.blocks {
		if _, ok := byID[b.ID()]; ok {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateID, b.ID())
		}
		d.AddNode(b.ID())
		byID[b.ID()] = b
	}
	for _, c := range g.connections {
		src, ok := g.Owner(c.Source())
		if !ok {
			continue
		}
		snk, ok := g.Owner(c.Sink())
		if !ok || src == snk {
			continue
		}
		if err := d.AddEdge(src.ID(), snk.ID()); err != nil {
			return nil, err
		}
	}
	ids, err := d.Sort()
	if err != nil {
		return nil, err
	}
	out := make([]*block.Block, 0, len(ids))
	for _, id := range ids {
		out = append(out, byID[id])
	}
	return out, nil
}
