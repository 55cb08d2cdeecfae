package hcl_adapter

import (
	"path/filepath"
	"testing"

	"github.com/specialistvlad/flowblock/internal/config"
	"github.com/specialistvlad/flowblock/internal/flowgraph"
	"github.com/specialistvlad/flowblock/internal/nested"
	"github.com/specialistvlad/flowblock/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const libraryHCL = `
block "blocks_add_xx" {
  name            = "Add"
  category        = "[Core]/Math Operators"
  make            = "blocks.add_${type.fcn}($num_inputs)"
  flags           = "throttle"
  callback        = ["set_num_inputs($num_inputs)"]
  param_tab_order = ["General", "Advanced"]
  bus_sink        = true

  param "type" {
    name = "IO Type"
    type = "enum"

    option "complex" {
      name = "Complex"
      opts = { fcn = "cc", size = "gr.sizeof_gr_complex" }
    }
    option "float" {
      name = "Float"
      opts = { fcn = "ff", size = "gr.sizeof_float" }
    }
  }

  param "num_inputs" {
    name  = "Num Inputs"
    type  = "int"
    value = 2
  }

  param "normalize" {
    type  = "bool"
    value = false
  }

  sink "in" {
    type   = "$type"
    nports = "$num_inputs"
  }

  source "out" {
    type     = "$type"
    optional = true
  }
}
`

const graphHCL = `
instance "blocks_add_xx" "add_0" {
  state      = 2
  bus_source = true
  params = {
    num_inputs = 3
    label      = "${samp_rate / 2}"
    normalize  = true
    "odd-key"  = "v"
  }
}

instance "blocks_add_xx" "add_1" {}

connection {
  source = "add_0.out"
  sink   = "add_1.in"
}
`

func loadDir(t *testing.T) *config.Model {
	t.Helper()
	dir := testutil.WriteFiles(t, map[string]string{
		"lib/math.hcl": libraryHCL,
		"z_graph.hcl":  graphHCL,
		"notes.txt":    "ignored",
	})

	m, err := NewLoader().Load(testutil.Context(), dir)
	require.NoError(t, err)
	return m
}

func TestLoad_BlockDefinition(t *testing.T) {
	m := loadDir(t)
	require.Len(t, m.Definitions, 1)
	def := m.Definitions[0]

	assert.Equal(t, "blocks_add_xx", def.Find("key"))
	assert.Equal(t, "Add", def.Find("name"))
	assert.Equal(t, "blocks.add_${type.fcn}($num_inputs)", def.Find("make"), "templates are kept verbatim")
	assert.Equal(t, "throttle", def.Find("flags"))
	assert.Equal(t, []string{"set_num_inputs($num_inputs)"}, def.FindValues("callback"))
	assert.Equal(t, "1", def.Find("bus_sink"))
	require.NotNil(t, def.Child("param_tab_order"))
	assert.Equal(t, []string{"General", "Advanced"}, def.Child("param_tab_order").FindValues("tab"))

	params := def.FindAll("param")
	require.Len(t, params, 3)
	options := params[0].FindAll("option")
	require.Len(t, options, 2)
	assert.Equal(t, []string{"fcn:cc", "size:gr.sizeof_gr_complex"}, options[0].FindValues("opt"))
	assert.Equal(t, "2", params[1].Find("value"))
	assert.Equal(t, "false", params[2].Find("value"), "bool values are parameter code")

	sinks := def.FindAll("sink")
	require.Len(t, sinks, 1)
	assert.Equal(t, "$num_inputs", sinks[0].Find("nports"))
	sources := def.FindAll("source")
	require.Len(t, sources, 1)
	assert.Equal(t, "1", sources[0].Find("optional"))
}

func TestLoad_DefinitionBuildsBlock(t *testing.T) {
	m := loadDir(t)
	lib := flowgraph.NewLibrary()
	require.NoError(t, lib.Add(m.Definitions[0]))

	b, err := flowgraph.New(lib).AddBlock(testutil.Context(), "blocks_add_xx")
	require.NoError(t, err)
	assert.Equal(t, "blocks.add_cc(2)", b.MakeCode())
	assert.Equal(t, []string{"set_num_inputs(2)"}, b.Callbacks())
	assert.True(t, b.Throttling())
	assert.Len(t, b.SinksGUI(), 1, "the declared sink bus is formed")
}

func TestLoad_Instances(t *testing.T) {
	m := loadDir(t)
	require.Len(t, m.Instances, 2)

	want := nested.New("key", "blocks_add_xx")
	want.AddChild("param", nested.New("key", "id", "value", "add_0"))
	want.AddChild("param", nested.New("key", "_enabled", "value", "2"))
	want.AddChild("param", nested.New("key", "num_inputs", "value", "3"))
	want.AddChild("param", nested.New("key", "label", "value", "${samp_rate / 2}"))
	want.AddChild("param", nested.New("key", "normalize", "value", "true"))
	want.AddChild("param", nested.New("key", "odd-key", "value", "v"))
	want.Add("bus_source", "1")
	assert.True(t, want.Equal(m.Instances[0]), "got %s", m.Instances[0])

	assert.Len(t, m.Instances[1].FindAll("param"), 1, "only the id")
	assert.False(t, m.Instances[1].Has("bus_source"))

	require.Len(t, m.Connections, 1)
	assert.Equal(t, config.Endpoint{BlockID: "add_0", PortKey: "out"}, m.Connections[0].Source)
	assert.Equal(t, "add_1.in", m.Connections[0].Sink.String())
}

func TestLoad_Errors(t *testing.T) {
	tests := map[string]string{
		"syntax":          `block "x" {`,
		"bad endpoint":    "connection {\n  source = \"nodot\"\n  sink = \"a.b\"\n}\n",
		"params not map":  `instance "k" "id" { params = 3 }`,
		"unsupported map": `block "x" { extra = { a = 1 } }`,
		"missing label":   `instance "k" {}`,
	}
	for name, src := range tests {
		t.Run(name, func(t *testing.T) {
			dir := testutil.WriteFiles(t, map[string]string{"bad.hcl": src})
			_, err := NewLoader().Load(testutil.Context(), dir)
			require.Error(t, err)
		})
	}
}

func TestLoad_MissingPathIsEmpty(t *testing.T) {
	m, err := NewLoader().Load(testutil.Context(), filepath.Join(t.TempDir(), "nope"))
	require.NoError(t, err)
	assert.Empty(t, m.Definitions)
	assert.Empty(t, m.Instances)
}
