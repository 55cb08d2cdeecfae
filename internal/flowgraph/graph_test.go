package flowgraph

import (
	"context"
	"testing"

	"github.com/specialistvlad/flowblock/internal/block"
	"github.com/specialistvlad/flowblock/internal/ctxlog"
	"github.com/specialistvlad/flowblock/internal/dag"
	"github.com/specialistvlad/flowblock/internal/nested"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testContext() context.Context {
	return ctxlog.Discard(context.Background())
}

func testLibrary(t *testing.T) *Library {
	t.Helper()
	copyDef := nested.New("key", "blocks_copy", "name", "Copy")
	copyDef.AddChild("param", nested.New("key", "gain", "type", "real", "value", "1"))
	copyDef.AddChild("source", nested.New("key", "0", "type", "float"))
	copyDef.AddChild("sink", nested.New("key", "0", "type", "float"))

	srcDef := nested.New("key", "blocks_null_source", "name", "Null Source")
	srcDef.AddChild("source", nested.New("key", "0", "type", "float"))

	lib := NewLibrary()
	require.NoError(t, lib.Add(copyDef))
	require.NoError(t, lib.Add(srcDef))
	return lib
}

func TestLibrary(t *testing.T) {
	lib := testLibrary(t)
	assert.Equal(t, 2, lib.Len())
	assert.Equal(t, []string{"blocks_copy", "blocks_null_source"}, lib.Keys())

	def, err := lib.Get("blocks_copy")
	require.NoError(t, err)
	assert.Equal(t, "Copy", def.Find("name"))

	_, err = lib.Get("nope")
	require.ErrorIs(t, err, ErrUnknownBlock)

	require.Error(t, lib.Add(nested.New("key", "blocks_copy")), "duplicate key")
	require.Error(t, lib.Add(nested.New("name", "keyless")))
}

func TestAddBlock_AssignsIDs(t *testing.T) {
	ctx := testContext()
	g := New(testLibrary(t))

	a, err := g.AddBlock(ctx, "blocks_copy")
	require.NoError(t, err)
	b, err := g.AddBlock(ctx, "blocks_copy")
	require.NoError(t, err)
	assert.Equal(t, "blocks_copy_0", a.ID())
	assert.Equal(t, "blocks_copy_1", b.ID())

	require.NoError(t, g.RemoveBlock("blocks_copy_0"))
	c, err := g.AddBlock(ctx, "blocks_copy")
	require.NoError(t, err)
	assert.Equal(t, "blocks_copy_0", c.ID(), "freed ids are reused")

	_, err = g.AddBlock(ctx, "blocks_missing")
	require.ErrorIs(t, err, ErrUnknownBlock)
	assert.Len(t, g.Blocks(), 2)
}

func TestConnect(t *testing.T) {
	ctx := testContext()
	g := New(testLibrary(t))
	src, err := g.AddBlock(ctx, "blocks_null_source")
	require.NoError(t, err)
	cp, err := g.AddBlock(ctx, "blocks_copy")
	require.NoError(t, err)

	out, err := src.Source("0")
	require.NoError(t, err)
	in, err := cp.Sink("0")
	require.NoError(t, err)

	_, err = g.Connect(in, out)
	require.Error(t, err, "direction is checked")

	c, err := g.Connect(out, in)
	require.NoError(t, err)
	assert.NotEmpty(t, c.ID())
	assert.Equal(t, out, c.Source())
	assert.Equal(t, in, c.Sink())
	assert.Len(t, out.Connections(), 1)
	assert.Len(t, in.Connections(), 1)

	owner, ok := g.Owner(in)
	require.True(t, ok)
	assert.Equal(t, cp.ID(), owner.ID())

	g.RemoveElement(c)
	assert.Empty(t, g.Connections())
	assert.Empty(t, out.Connections())
	g.RemoveElement(c)
}

func TestConnectKeys(t *testing.T) {
	ctx := testContext()
	g := New(testLibrary(t))
	_, err := g.AddBlock(ctx, "blocks_null_source")
	require.NoError(t, err)
	_, err = g.AddBlock(ctx, "blocks_copy")
	require.NoError(t, err)

	_, err = g.ConnectKeys("blocks_null_source_0", "0", "blocks_copy_0", "0")
	require.NoError(t, err)

	_, err = g.ConnectKeys("blocks_null_source_0", "9", "blocks_copy_0", "0")
	require.Error(t, err)
	_, err = g.ConnectKeys("ghost", "0", "blocks_copy_0", "0")
	require.ErrorIs(t, err, ErrBlockNotFound)

	require.NoError(t, g.RemoveBlock("blocks_copy_0"))
	assert.Empty(t, g.Connections(), "removing a block drops its connections")
	require.ErrorIs(t, g.RemoveBlock("blocks_copy_0"), ErrBlockNotFound)
}

func TestImportBlock(t *testing.T) {
	ctx := testContext()
	g := New(testLibrary(t))

	saved := nested.New("key", "blocks_copy")
	saved.AddChild("param", nested.New("key", block.IDKey, "value", "copy_a"))
	saved.AddChild("param", nested.New("key", "gain", "value", "2.5"))

	b, err := g.ImportBlock(ctx, saved)
	require.NoError(t, err)
	assert.Equal(t, "copy_a", b.ID())
	gain, err := b.Param("gain")
	require.NoError(t, err)
	assert.Equal(t, "2.5", gain.Value())

	_, err = g.ImportBlock(ctx, saved)
	require.ErrorIs(t, err, ErrDuplicateID)

	anon, err := g.ImportBlock(ctx, nested.New("key", "blocks_copy"))
	require.NoError(t, err)
	assert.Equal(t, "blocks_copy_0", anon.ID())

	_, err = g.ImportBlock(ctx, nested.New("key", "blocks_missing"))
	require.ErrorIs(t, err, ErrUnknownBlock)

	exported := g.Export()
	require.Len(t, exported, 2)
	assert.Equal(t, "blocks_copy", exported[0].Find("key"))
}

func TestOrder(t *testing.T) {
	ctx := testContext()
	g := New(testLibrary(t))
	first, err := g.AddBlock(ctx, "blocks_copy")
	require.NoError(t, err)
	second, err := g.AddBlock(ctx, "blocks_copy")
	require.NoError(t, err)
	src, err := g.AddBlock(ctx, "blocks_null_source")
	require.NoError(t, err)

	_, err = g.ConnectKeys(src.ID(), "0", second.ID(), "0")
	require.NoError(t, err)
	_, err = g.ConnectKeys(second.ID(), "0", first.ID(), "0")
	require.NoError(t, err)

	order, err := g.Order()
	require.NoError(t, err)
	var ids []string
	for _, b := range order {
		ids = append(ids, b.ID())
	}
	assert.Equal(t, []string{src.ID(), second.ID(), first.ID()}, ids)

	_, err = g.ConnectKeys(first.ID(), "0", second.ID(), "0")
	require.NoError(t, err)
	_, err = g.Order()
	require.ErrorIs(t, err, dag.ErrCycle)
}

func TestOrder_DuplicateIDs(t *testing.T) {
	ctx := testContext()
	g := New(testLibrary(t))
	first, err := g.AddBlock(ctx, "blocks_copy")
	require.NoError(t, err)
	second, err := g.AddBlock(ctx, "blocks_copy")
	require.NoError(t, err)

	id, err := second.Param(block.IDKey)
	require.NoError(t, err)
	id.SetValue(first.ID())

	_, err = g.Order()
	require.ErrorIs(t, err, ErrDuplicateID)
}
