package localsession

import (
	"context"
	"testing"

	"github.com/specialistvlad/flowblock/internal/block"
	"github.com/specialistvlad/flowblock/internal/ctxlog"
	"github.com/specialistvlad/flowblock/internal/editorsync"
	"github.com/specialistvlad/flowblock/internal/element"
	"github.com/specialistvlad/flowblock/internal/flowgraph"
	"github.com/specialistvlad/flowblock/internal/inmemorystore"
	"github.com/specialistvlad/flowblock/internal/nested"
	"github.com/specialistvlad/flowblock/internal/nodestore"
	"github.com/specialistvlad/flowblock/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLibrary(t *testing.T) *flowgraph.Library {
	t.Helper()
	copyDef := nested.New("key", "blocks_copy", "name", "Copy")
	copyDef.AddChild("param", nested.New("key", "gain", "type", "real", "value", "1"))
	copyDef.AddChild("source", nested.New("key", "0", "type", "float"))
	copyDef.AddChild("sink", nested.New("key", "0", "type", "float"))

	splitDef := nested.New("key", "blocks_split", "name", "Split")
	splitDef.AddChild("sink", nested.New("key", "0", "type", "float"))
	for _, k := range []string{"0", "1"} {
		splitDef.AddChild("source", nested.New("key", k, "type", "float"))
	}

	lib := flowgraph.NewLibrary()
	require.NoError(t, lib.Add(copyDef))
	require.NoError(t, lib.Add(splitDef))
	return lib
}

type fixture struct {
	ctx   context.Context
	sess  session.Session
	store nodestore.Store
	pub   *editorsync.RecordingPublisher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		ctx:   ctxlog.Discard(context.Background()),
		store: inmemorystore.New(),
		pub:   &editorsync.RecordingPublisher{},
	}
	factory := &SessionFactory{}
	sess, err := factory.NewSession(f.ctx, testLibrary(t), f.store, f.pub)
	require.NoError(t, err)
	f.sess = sess
	t.Cleanup(func() { _ = sess.Close(f.ctx) })
	return f
}

func TestNewSession_Defaults(t *testing.T) {
	ctx := ctxlog.Discard(context.Background())
	factory := &SessionFactory{}

	_, err := factory.NewSession(ctx, nil, nil, nil)
	require.Error(t, err)

	sess, err := factory.NewSession(ctx, testLibrary(t), nil, nil)
	require.NoError(t, err)
	_, err = sess.AddBlock(ctx, "blocks_copy")
	require.NoError(t, err)
	require.NoError(t, sess.Close(ctx))
}

func TestAddBlock_SnapshotsAndPublishes(t *testing.T) {
	f := newFixture(t)

	b, err := f.sess.AddBlock(f.ctx, "blocks_copy")
	require.NoError(t, err)

	snap, err := f.store.Get(f.ctx, b.ID())
	require.NoError(t, err)
	assert.Equal(t, "blocks_copy", snap.Find("key"))

	events := f.pub.Events()
	require.Len(t, events, 1)
	assert.Equal(t, editorsync.EventBlockUpdated, events[0].Name)
	assert.Equal(t, "blocks_copy_0", events[0].BlockID)
	assert.Equal(t, snap.String(), events[0].Data.String())
}

func TestStateChanges(t *testing.T) {
	f := newFixture(t)
	cp, err := f.sess.AddBlock(f.ctx, "blocks_copy")
	require.NoError(t, err)
	split, err := f.sess.AddBlock(f.ctx, "blocks_split")
	require.NoError(t, err)

	require.ErrorIs(t, f.sess.SetEnabled(f.ctx, cp.ID(), true), session.ErrUnchanged)
	require.NoError(t, f.sess.SetEnabled(f.ctx, cp.ID(), false))
	assert.Equal(t, block.Disabled, cp.State())

	require.NoError(t, f.sess.SetBypassed(f.ctx, cp.ID()))
	assert.Equal(t, block.Bypassed, cp.State())
	require.ErrorIs(t, f.sess.SetBypassed(f.ctx, cp.ID()), session.ErrUnchanged)
	require.ErrorIs(t, f.sess.SetBypassed(f.ctx, split.ID()), session.ErrUnchanged, "two sources cannot be bypassed")

	require.NoError(t, f.sess.SetState(f.ctx, cp.ID(), block.Enabled))
	snap, err := f.store.Get(f.ctx, cp.ID())
	require.NoError(t, err)
	var enabled string
	for _, p := range snap.FindAll("param") {
		if p.Find("key") == block.EnabledKey {
			enabled = p.Find("value")
		}
	}
	assert.Equal(t, "0", enabled)

	require.Error(t, f.sess.SetEnabled(f.ctx, "ghost", true))
	assert.Equal(t, []string{
		editorsync.EventBlockUpdated,
		editorsync.EventBlockUpdated,
		editorsync.EventBlockUpdated,
		editorsync.EventBlockUpdated,
		editorsync.EventBlockUpdated,
	}, f.pub.Names())
}

func TestSetParam(t *testing.T) {
	f := newFixture(t)
	cp, err := f.sess.AddBlock(f.ctx, "blocks_copy")
	require.NoError(t, err)

	require.NoError(t, f.sess.SetParam(f.ctx, cp.ID(), "gain", "0.5"))
	gain, err := cp.Param("gain")
	require.NoError(t, err)
	assert.Equal(t, "0.5", gain.Value())

	require.Error(t, f.sess.SetParam(f.ctx, cp.ID(), "missing", "1"))
}

func TestSetParam_RenameDropsOldSnapshot(t *testing.T) {
	f := newFixture(t)
	cp, err := f.sess.AddBlock(f.ctx, "blocks_copy")
	require.NoError(t, err)
	oldID := cp.ID()

	require.NoError(t, f.sess.SetParam(f.ctx, oldID, block.IDKey, "renamed"))
	assert.Equal(t, "renamed", cp.ID())
	ids, err := f.store.List(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"renamed"}, ids)
	assert.Equal(t, editorsync.Event{Name: editorsync.EventBlockRemoved, BlockID: oldID}, f.pub.Events()[len(f.pub.Events())-1])

	restored, err := (&SessionFactory{}).NewSession(f.ctx, testLibrary(t), f.store, nil)
	require.NoError(t, err)
	require.NoError(t, restored.Restore(f.ctx))
	require.Len(t, restored.Graph().Blocks(), 1)
	assert.Equal(t, "renamed", restored.Graph().Blocks()[0].ID())
}

func TestSetParam_RenameToTakenIDFails(t *testing.T) {
	f := newFixture(t)
	first, err := f.sess.AddBlock(f.ctx, "blocks_copy")
	require.NoError(t, err)
	second, err := f.sess.AddBlock(f.ctx, "blocks_copy")
	require.NoError(t, err)
	secondID := second.ID()

	err = f.sess.SetParam(f.ctx, secondID, block.IDKey, first.ID())
	require.ErrorIs(t, err, flowgraph.ErrDuplicateID)
	assert.Equal(t, secondID, second.ID())

	order, err := f.sess.Graph().Order()
	require.NoError(t, err)
	assert.Len(t, order, 2)

	require.NoError(t, f.sess.SetParam(f.ctx, secondID, block.IDKey, secondID), "keeping the own id is not a rename")
}

func TestBussifyAndRemove(t *testing.T) {
	f := newFixture(t)
	split, err := f.sess.AddBlock(f.ctx, "blocks_split")
	require.NoError(t, err)

	require.NoError(t, f.sess.Bussify(f.ctx, split.ID(), element.Source))
	assert.Len(t, split.SourcesGUI(), 1)
	snap, err := f.store.Get(f.ctx, split.ID())
	require.NoError(t, err)
	assert.True(t, snap.Has("bus_source"))

	require.NoError(t, f.sess.RemoveBlock(f.ctx, split.ID()))
	_, err = f.store.Get(f.ctx, split.ID())
	require.ErrorIs(t, err, nodestore.ErrNotFound)
	assert.Equal(t, editorsync.EventBlockRemoved, f.pub.Names()[len(f.pub.Names())-1])
	require.Error(t, f.sess.RemoveBlock(f.ctx, split.ID()))
}

func TestRestore(t *testing.T) {
	f := newFixture(t)
	cp, err := f.sess.AddBlock(f.ctx, "blocks_copy")
	require.NoError(t, err)
	require.NoError(t, f.sess.SetParam(f.ctx, cp.ID(), "gain", "3"))
	split, err := f.sess.AddBlock(f.ctx, "blocks_split")
	require.NoError(t, err)
	require.NoError(t, f.sess.Bussify(f.ctx, split.ID(), element.Source))

	pub := &editorsync.RecordingPublisher{}
	restored, err := (&SessionFactory{}).NewSession(f.ctx, testLibrary(t), f.store, pub)
	require.NoError(t, err)
	require.NoError(t, restored.Restore(f.ctx))

	assert.Equal(t, []string{editorsync.EventGraphLoaded}, pub.Names())
	blocks := restored.Graph().Blocks()
	require.Len(t, blocks, 2)

	got, err := restored.Graph().Block(cp.ID())
	require.NoError(t, err)
	gain, err := got.Param("gain")
	require.NoError(t, err)
	assert.Equal(t, "3", gain.Value())

	gotSplit, err := restored.Graph().Block(split.ID())
	require.NoError(t, err)
	assert.Len(t, gotSplit.SourcesGUI(), 1, "the saved bus comes back")
	assert.Len(t, restored.Export(f.ctx), 2)
}
