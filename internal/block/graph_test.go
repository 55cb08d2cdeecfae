package block

import (
	"context"
	"fmt"
	"testing"

	"github.com/specialistvlad/flowblock/internal/ctxlog"
	"github.com/specialistvlad/flowblock/internal/element"
	"github.com/specialistvlad/flowblock/internal/nested"
	"github.com/specialistvlad/flowblock/internal/param"
	"github.com/specialistvlad/flowblock/internal/port"
	"github.com/stretchr/testify/require"
)

// testGraph is a minimal owning graph for block tests.
type testGraph struct {
	conns   []*testConn
	removed int
	nextID  int
}

type testConn struct {
	id           string
	source, sink element.Port
}

func (c *testConn) ID() string           { return c.id }
func (c *testConn) Source() element.Port { return c.source }
func (c *testConn) Sink() element.Port   { return c.sink }

func (g *testGraph) NewParam(n *nested.Data) (element.Param, error) { return param.New(n) }

func (g *testGraph) NewPort(n *nested.Data, dir element.Direction) (element.Port, error) {
	return port.New(n, dir, g)
}

func (g *testGraph) ConnectionsOf(p element.Port) []element.Connection {
	var out []element.Connection
	for _, c := range g.conns {
		if c.source == p || c.sink == p {
			out = append(out, c)
		}
	}
	return out
}

func (g *testGraph) RemoveElement(c element.Connection) {
	for i, own := range g.conns {
		if own.ID() == c.ID() {
			g.conns = append(g.conns[:i], g.conns[i+1:]...)
			g.removed++
			return
		}
	}
}

func (g *testGraph) connect(src, sink element.Port) {
	g.nextID++
	g.conns = append(g.conns, &testConn{id: fmt.Sprint(g.nextID), source: src, sink: sink})
}

func testContext() context.Context {
	return ctxlog.Discard(context.Background())
}

// def builds a block description from a key plus param, source and sink
// children.
func def(key string, children ...any) *nested.Data {
	n := nested.New("key", key, "name", key)
	for i := 0; i+1 < len(children); i += 2 {
		switch v := children[i+1].(type) {
		case *nested.Data:
			n.AddChild(children[i].(string), v)
		case string:
			n.Add(children[i].(string), v)
		}
	}
	return n
}

func newBlock(t *testing.T, n *nested.Data, opts ...Option) (*Block, *testGraph) {
	t.Helper()
	g := &testGraph{}
	b, err := New(testContext(), g, n, opts...)
	require.NoError(t, err)
	return b, g
}

func setID(t *testing.T, b *Block, id string) {
	t.Helper()
	p, err := b.Param(IDKey)
	require.NoError(t, err)
	p.SetValue(id)
}

// floatPassThrough has one float sink and one float source.
func floatPassThrough() *nested.Data {
	return def("blocks_copy",
		"param", nested.New("key", "type", "type", "string", "value", "float"),
		"source", nested.New("key", "0", "type", "float"),
		"sink", nested.New("key", "0", "type", "float"),
	)
}

// threeSources has three plain sources and no declared bus.
func threeSources() *nested.Data {
	return def("blocks_deinterleave",
		"source", nested.New("key", "0", "type", "float"),
		"source", nested.New("key", "1", "type", "float"),
		"source", nested.New("key", "2", "type", "float"),
		"sink", nested.New("key", "0", "type", "float"),
	)
}

// typeEnum is an enum "type" parameter over complex, float and int with a
// size opt per option.
func typeEnum(value string) *nested.Data {
	n := nested.New("key", "type", "name", "IO Type", "type", "enum", "value", value)
	n.AddChild("option", nested.New("key", "complex", "name", "Complex", "opt", "size:gr.sizeof_gr_complex"))
	n.AddChild("option", nested.New("key", "float", "name", "Float", "opt", "size:gr.sizeof_float"))
	n.AddChild("option", nested.New("key", "int", "name", "Int", "opt", "size:gr.sizeof_int"))
	return n
}
