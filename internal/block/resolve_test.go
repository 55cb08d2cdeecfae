package block

import (
	"errors"
	"strings"
	"testing"

	"github.com/specialistvlad/flowblock/internal/nested"
	"github.com/specialistvlad/flowblock/internal/resolver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingEngine struct {
	calls int
	err   error
}

func (e *countingEngine) Expand(tmpl string, args map[string]*resolver.Arg) (string, error) {
	e.calls++
	if e.err != nil {
		return "", e.err
	}
	return resolver.NewHCLEngine().Expand(tmpl, args)
}

func TestResolveDependencies_PlainTextSkipsEngine(t *testing.T) {
	engine := &countingEngine{}
	b, _ := newBlock(t, floatPassThrough(), WithEngine(engine))

	assert.Equal(t, "plain text", b.ResolveDependencies("plain text"))
	assert.Zero(t, engine.calls)
}

func TestResolveDependencies_ID(t *testing.T) {
	engine := &countingEngine{}
	b, _ := newBlock(t, floatPassThrough(), WithEngine(engine))
	setID(t, b, "foo_0")

	assert.Equal(t, "foo_0", b.ResolveDependencies("$id"))
	assert.Equal(t, 1, engine.calls)
}

func TestResolveDependencies_ErrorIsInline(t *testing.T) {
	b, _ := newBlock(t, floatPassThrough(), WithEngine(&countingEngine{err: errors.New("boom")}))

	out := b.ResolveDependencies("$id")
	assert.True(t, strings.HasPrefix(out, "Template error: $id\n"), out)
	assert.Contains(t, out, "boom")
}

func TestMakeCode(t *testing.T) {
	n := def("blocks_add",
		"make", "blocks.add_$(type.fcn)($num_inputs)",
		"callback", "set_k($k)",
		"param", nested.New("key", "num_inputs", "type", "int", "value", "2"),
		"param", nested.New("key", "k", "type", "real", "value", "0.5"),
	)
	typ := nested.New("key", "type", "type", "enum")
	typ.AddChild("option", nested.New("key", "complex", "opt", "fcn:cc"))
	typ.AddChild("option", nested.New("key", "float", "opt", "fcn:ff"))
	n.AddChild("param", typ)
	b, _ := newBlock(t, n)

	assert.Equal(t, "blocks.add_cc(2)", b.MakeCode())
	assert.Equal(t, []string{"set_k(0.5)"}, b.Callbacks())
	assert.Equal(t, []string{"num_inputs", "type"}, b.Dependencies(b.MakeTemplate()))
}

func TestTypeControllerModify(t *testing.T) {
	mode := nested.New("key", "mode", "type", "enum")
	mode.AddChild("option", nested.New("key", "fast"))
	mode.AddChild("option", nested.New("key", "exact"))
	b, _ := newBlock(t, def("blocks_copy",
		"param", mode,
		"param", typeEnum("complex"),
		"source", nested.New("key", "0", "type", "$type"),
		"sink", nested.New("key", "0", "type", "$type"),
	))
	p, err := b.Param("type")
	require.NoError(t, err)

	assert.True(t, b.TypeControllerModify(1))
	assert.Equal(t, "float", p.Value())
	assert.True(t, b.TypeControllerModify(1))
	assert.Equal(t, "int", p.Value())
	assert.True(t, b.TypeControllerModify(1))
	assert.Equal(t, "complex", p.Value(), "stepping wraps around")
	assert.True(t, b.TypeControllerModify(-1))
	assert.Equal(t, "int", p.Value())

	p.SetValue("bogus")
	assert.False(t, b.TypeControllerModify(1))
	assert.Equal(t, "bogus", p.Value())

	m, err := b.Param("mode")
	require.NoError(t, err)
	assert.Equal(t, "fast", m.Value(), "the type controller wins over the first enum")
}

func TestTypeControllerModify_LastTypeEnumWins(t *testing.T) {
	in := typeEnum("complex")
	out := nested.New("key", "out_type", "type", "enum")
	out.AddChild("option", nested.New("key", "short"))
	out.AddChild("option", nested.New("key", "byte"))
	b, _ := newBlock(t, def("blocks_convert",
		"param", in,
		"param", out,
		"sink", nested.New("key", "0", "type", "$type"),
		"source", nested.New("key", "0", "type", "$out_type"),
	))

	assert.True(t, b.TypeControllerModify(1))
	outParam, err := b.Param("out_type")
	require.NoError(t, err)
	assert.Equal(t, "byte", outParam.Value())
	inParam, err := b.Param("type")
	require.NoError(t, err)
	assert.Equal(t, "complex", inParam.Value())
}

func TestTypeControllerModify_NoEnum(t *testing.T) {
	b, _ := newBlock(t, floatPassThrough())
	assert.False(t, b.TypeControllerModify(1))
	assert.False(t, b.PortControllerModify(1))
}
