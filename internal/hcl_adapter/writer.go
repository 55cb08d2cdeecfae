package hcl_adapter

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/specialistvlad/flowblock/internal/block"
	"github.com/specialistvlad/flowblock/internal/config"
	"github.com/specialistvlad/flowblock/internal/ctxlog"
	"github.com/specialistvlad/flowblock/internal/nested"
	"github.com/zclconf/go-cty/cty"
)

// Writer is the HCL-specific implementation of the config.Writer interface.
type Writer struct{}

var _ config.Writer = (*Writer)(nil)

// NewWriter creates a new HCL graph writer.
func NewWriter() *Writer {
	return &Writer{}
}

// Write stores the instances and connections of m at path in the format
// Loader reads.
func (w *Writer) Write(ctx context.Context, path string, m *config.Model) error {
	src, err := w.Format(m)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, src, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	ctxlog.FromContext(ctx).Debug("Graph written.", "path", path, "instances", len(m.Instances), "connections", len(m.Connections))
	return nil
}

// Format renders the instances and connections of m as HCL source.
func (w *Writer) Format(m *config.Model) ([]byte, error) {
	f := hclwrite.NewEmptyFile()
	root := f.Body()

	for i, in := range m.Instances {
		if i > 0 {
			root.AppendNewline()
		}
		if err := appendInstance(root, in); err != nil {
			return nil, err
		}
	}
	for _, c := range m.Connections {
		root.AppendNewline()
		body := root.AppendNewBlock("connection", nil).Body()
		body.SetAttributeValue("source", cty.StringVal(c.Source.String()))
		body.SetAttributeValue("sink", cty.StringVal(c.Sink.String()))
	}
	return f.Bytes(), nil
}

func appendInstance(root *hclwrite.Body, in *nested.Data) error {
	key := in.Find("key")
	var id string
	var state *int64
	var params []hclwrite.ObjectAttrTokens

	for _, p := range in.FindAll("param") {
		k, v := p.Find("key"), p.Find("value")
		switch k {
		case block.IDKey:
			id = v
			continue
		case block.EnabledKey:
			if s, err := strconv.ParseInt(v, 10, 64); err == nil {
				state = &s
				continue
			}
		}
		params = append(params, hclwrite.ObjectAttrTokens{
			Name:  keyTokens(k),
			Value: hclwrite.TokensForValue(cty.StringVal(v)),
		})
	}
	if key == "" || id == "" {
		return fmt.Errorf("instance %s has no key or id", in)
	}

	body := root.AppendNewBlock("instance", []string{key, id}).Body()
	if state != nil {
		body.SetAttributeValue("state", cty.NumberIntVal(*state))
	}
	if in.Has("bus_sink") {
		body.SetAttributeValue("bus_sink", cty.True)
	}
	if in.Has("bus_source") {
		body.SetAttributeValue("bus_source", cty.True)
	}
	if len(params) > 0 {
		body.SetAttributeRaw("params", hclwrite.TokensForObject(params))
	}
	return nil
}

func keyTokens(k string) hclwrite.Tokens {
	if hclsyntax.ValidIdentifier(k) {
		return hclwrite.TokensForIdentifier(k)
	}
	return hclwrite.TokensForValue(cty.StringVal(k))
}
