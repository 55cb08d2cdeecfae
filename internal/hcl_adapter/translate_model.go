// This file contains the logic for translating HCL schema structs into the
// nested data carried by the format-agnostic configuration model.

package hcl_adapter

import (
	"context"
	"fmt"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/specialistvlad/flowblock/internal/block"
	"github.com/specialistvlad/flowblock/internal/config"
	"github.com/specialistvlad/flowblock/internal/ctxlog"
	"github.com/specialistvlad/flowblock/internal/nested"
	"github.com/zclconf/go-cty/cty"
)

// translator converts decoded schema structs. files holds the parsed sources
// so that block templates can be read back verbatim.
type translator struct {
	files map[string]*hcl.File
}

// appendAttributes copies the attributes of body into n. Lists become
// repeated entries, `opts` maps become "k:v" opt entries and
// `param_tab_order` becomes a child element of tab entries.
func (t *translator) appendAttributes(n *nested.Data, body hcl.Body) error {
	attrs, err := orderedAttributes(body)
	if err != nil {
		return err
	}
	for _, a := range attrs {
		val, err := exprValue(a.Expr, t.files)
		if err != nil {
			return fmt.Errorf("%s: attribute %q: %w", a.Range, a.Name, err)
		}
		if err := t.appendValue(n, a.Name, val); err != nil {
			return fmt.Errorf("%s: attribute %q: %w", a.Range, a.Name, err)
		}
	}
	return nil
}

func (t *translator) appendValue(n *nested.Data, key string, val cty.Value) error {
	ty := val.Type()
	switch {
	case key == "opts" && (ty.IsObjectType() || ty.IsMapType()):
		m := val.AsValueMap()
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			text, ok, err := scalarText(m[k])
			if err != nil {
				return err
			}
			if ok {
				n.Add("opt", k+":"+text)
			}
		}
		return nil

	case ty.IsListType() || ty.IsTupleType() || ty.IsSetType():
		target := n
		entry := key
		if key == "param_tab_order" {
			target = &nested.Data{}
			entry = "tab"
			n.AddChild(key, target)
		}
		for _, el := range val.AsValueSlice() {
			text, ok, err := scalarText(el)
			if err != nil {
				return err
			}
			if ok {
				target.Add(entry, text)
			}
		}
		return nil

	case key == "value" && ty == cty.Bool && !val.IsNull():
		n.Add(key, codeText(val))
		return nil

	default:
		text, ok, err := scalarText(val)
		if err != nil {
			return err
		}
		if ok {
			n.Add(key, text)
		}
		return nil
	}
}

// translateBlockDefinition converts a block definition into the description
// block.New consumes.
func (t *translator) translateBlockDefinition(ctx context.Context, def *BlockDefinition) (*nested.Data, error) {
	logger := ctxlog.FromContext(ctx).With("block_key", def.Key)
	logger.Debug("Translating HCL block definition.")

	n := nested.New("key", def.Key)
	if err := t.appendAttributes(n, def.Remain); err != nil {
		return nil, fmt.Errorf("block %q: %w", def.Key, err)
	}

	for _, pd := range def.Params {
		pn := nested.New("key", pd.Key)
		if err := t.appendAttributes(pn, pd.Remain); err != nil {
			return nil, fmt.Errorf("block %q: param %q: %w", def.Key, pd.Key, err)
		}
		for _, od := range pd.Options {
			on := nested.New("key", od.Key)
			if err := t.appendAttributes(on, od.Remain); err != nil {
				return nil, fmt.Errorf("block %q: param %q: option %q: %w", def.Key, pd.Key, od.Key, err)
			}
			pn.AddChild("option", on)
		}
		n.AddChild("param", pn)
	}

	for _, ports := range []struct {
		kind string
		defs []*PortDefinition
	}{{"source", def.Sources}, {"sink", def.Sinks}} {
		for _, pd := range ports.defs {
			pn := nested.New("key", pd.Key)
			if err := t.appendAttributes(pn, pd.Remain); err != nil {
				return nil, fmt.Errorf("block %q: %s %q: %w", def.Key, ports.kind, pd.Key, err)
			}
			n.AddChild(ports.kind, pn)
		}
	}

	logger.Debug("Block definition translated.", "params", len(def.Params), "sources", len(def.Sources), "sinks", len(def.Sinks))
	return n, nil
}

// translateInstance converts an instance into the data block.Import
// consumes: the id, the state, the saved parameter values and the bus
// markers.
func (t *translator) translateInstance(ctx context.Context, in *Instance) (*nested.Data, error) {
	n := nested.New("key", in.Key)
	n.AddChild("param", nested.New("key", block.IDKey, "value", in.ID))
	if in.State != nil {
		n.AddChild("param", nested.New("key", block.EnabledKey, "value", fmt.Sprint(*in.State)))
	}

	if isExprDefined(ctx, in.Params, "params") {
		params, err := t.instanceParams(in.Params)
		if err != nil {
			return nil, fmt.Errorf("instance %q: %w", in.ID, err)
		}
		for _, kv := range params {
			n.AddChild("param", nested.New("key", kv[0], "value", kv[1]))
		}
	}

	if in.BusSink {
		n.Add("bus_sink", "1")
	}
	if in.BusSource {
		n.Add("bus_source", "1")
	}
	return n, nil
}

// instanceParams reads the params object item by item, in source order, so
// that each value can keep its template text.
func (t *translator) instanceParams(expr hcl.Expression) ([][2]string, error) {
	obj, ok := expr.(*hclsyntax.ObjectConsExpr)
	if !ok {
		return nil, fmt.Errorf("%s: params must be an object", expr.Range())
	}
	out := make([][2]string, 0, len(obj.Items))
	for _, item := range obj.Items {
		key := hcl.ExprAsKeyword(item.KeyExpr)
		if key == "" {
			kv, diags := item.KeyExpr.Value(nil)
			if diags.HasErrors() {
				return nil, diags
			}
			if kv.Type() != cty.String || kv.IsNull() {
				return nil, fmt.Errorf("%s: param keys must be strings", item.KeyExpr.Range())
			}
			key = kv.AsString()
		}
		val, err := exprValue(item.ValueExpr, t.files)
		if err != nil {
			return nil, fmt.Errorf("param %q: %w", key, err)
		}
		if val.Type() == cty.Bool && !val.IsNull() {
			out = append(out, [2]string{key, codeText(val)})
			continue
		}
		text, _, err := scalarText(val)
		if err != nil {
			return nil, fmt.Errorf("param %q: %w", key, err)
		}
		out = append(out, [2]string{key, text})
	}
	return out, nil
}

// translateConnection converts a connection into the agnostic model.
func translateConnection(c *Connection) (*config.Connection, error) {
	src, err := config.ParseEndpoint(c.Source)
	if err != nil {
		return nil, fmt.Errorf("connection source: %w", err)
	}
	sink, err := config.ParseEndpoint(c.Sink)
	if err != nil {
		return nil, fmt.Errorf("connection sink: %w", err)
	}
	return &config.Connection{Source: src, Sink: sink}, nil
}
