// Package param implements the block parameter: a named, typed value whose
// code text is evaluated as an HCL expression.
package param

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/specialistvlad/flowblock/internal/bggohcl"
	"github.com/specialistvlad/flowblock/internal/element"
	"github.com/specialistvlad/flowblock/internal/nested"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// ErrEmptyValue is returned when an expression-typed parameter has no code.
var ErrEmptyValue = errors.New("parameter value is empty")

// Hide levels as written in block descriptions.
const (
	HideNone = "none"
	HidePart = "part"
	HideAll  = "all"
)

// Option is one alternative of an enum parameter.
type Option struct {
	Key  string
	Name string

	optKeys []string
	opts    map[string]string
}

// Opt returns the value stored under key.
func (o *Option) Opt(key string) (string, bool) {
	v, ok := o.opts[key]
	return v, ok
}

// OptKeys returns the opt keys in declaration order.
func (o *Option) OptKeys() []string {
	return o.optKeys
}

func newOption(n *nested.Data) (*Option, error) {
	o := &Option{
		Key:  n.Find("key"),
		Name: n.Find("name"),
		opts: make(map[string]string),
	}
	if o.Key == "" {
		return nil, errors.New("option is missing a key")
	}
	if o.Name == "" {
		o.Name = o.Key
	}
	for _, raw := range n.FindValues("opt") {
		k, v, ok := strings.Cut(raw, ":")
		if !ok {
			return nil, fmt.Errorf("option %q: opt %q is not of the form key:value", o.Key, raw)
		}
		if _, dup := o.opts[k]; dup {
			return nil, fmt.Errorf("option %q: opt key %q already exists", o.Key, k)
		}
		o.optKeys = append(o.optKeys, k)
		o.opts[k] = v
	}
	return o, nil
}

// Param is the concrete element.Param used by flow graphs.
type Param struct {
	key   string
	name  string
	typ   string
	value string
	hide  string
	tab   string

	options []*Option
}

var _ element.Param = (*Param)(nil)

// New builds a parameter from its nested description.
func New(n *nested.Data) (*Param, error) {
	p := &Param{
		key:   n.Find("key"),
		name:  n.Find("name"),
		typ:   n.FindOr("type", "raw"),
		value: n.Find("value"),
		hide:  n.FindOr("hide", HideNone),
		tab:   n.Find("tab"),
	}
	if p.key == "" {
		return nil, errors.New("param is missing a key")
	}
	if p.name == "" {
		p.name = p.key
	}

	seen := make(map[string]struct{})
	for _, on := range n.FindAll("option") {
		opt, err := newOption(on)
		if err != nil {
			return nil, fmt.Errorf("param %q: %w", p.key, err)
		}
		if _, dup := seen[opt.Key]; dup {
			return nil, fmt.Errorf("param %q: option key %q already exists", p.key, opt.Key)
		}
		seen[opt.Key] = struct{}{}
		p.options = append(p.options, opt)
	}

	if p.IsEnum() {
		if len(p.options) == 0 {
			return nil, fmt.Errorf("param %q: enum has no options", p.key)
		}
		if p.value == "" {
			p.value = p.options[0].Key
		}
	}
	return p, nil
}

func (p *Param) Key() string  { return p.key }
func (p *Param) Name() string { return p.name }
func (p *Param) Type() string { return p.typ }
func (p *Param) Hide() string { return p.hide }
func (p *Param) Tab() string  { return p.tab }

// Value returns the raw code text.
func (p *Param) Value() string { return p.value }

// SetValue replaces the raw code text.
func (p *Param) SetValue(v string) { p.value = v }

// IsEnum reports whether the parameter picks from a fixed option list.
func (p *Param) IsEnum() bool { return p.typ == "enum" }

// OptionKeys lists the option keys in declaration order.
func (p *Param) OptionKeys() []string {
	keys := make([]string, 0, len(p.options))
	for _, o := range p.options {
		keys = append(keys, o.Key)
	}
	return keys
}

// Option returns the option stored under key.
func (p *Param) Option(key string) (*Option, bool) {
	for _, o := range p.options {
		if o.Key == key {
			return o, true
		}
	}
	return nil, false
}

// OptKeys lists the opt keys of the selected option.
func (p *Param) OptKeys() []string {
	if o, ok := p.Option(p.value); ok {
		return o.OptKeys()
	}
	return nil
}

// Opt returns an opt of the selected option.
func (p *Param) Opt(key string) (string, bool) {
	o, ok := p.Option(p.value)
	if !ok {
		return "", false
	}
	return o.Opt(key)
}

// Evaluate turns the code text into a native value. Text types evaluate to
// themselves; everything else is parsed as an HCL expression and converted to
// the type's cty.Type.
func (p *Param) Evaluate() (cty.Value, error) {
	if p.IsEnum() {
		if _, ok := p.Option(p.value); !ok {
			return cty.NilVal, fmt.Errorf("param %q: value %q is not one of %v", p.key, p.value, p.OptionKeys())
		}
		return cty.StringVal(p.value), nil
	}
	if bggohcl.IsTextType(p.typ) {
		return cty.StringVal(p.value), nil
	}

	src := strings.TrimSpace(p.value)
	target, typed := bggohcl.ParamTypeToCtyType(p.typ)
	isVector := typed && target.IsListType()
	if isVector && !strings.HasPrefix(src, "[") {
		src = "[" + src + "]"
	}
	if src == "" {
		return cty.NilVal, fmt.Errorf("param %q: %w", p.key, ErrEmptyValue)
	}

	expr, diags := hclsyntax.ParseExpression([]byte(src), p.key, hcl.Pos{Line: 1, Column: 1})
	if diags.HasErrors() {
		return cty.NilVal, fmt.Errorf("param %q: %w", p.key, diags)
	}
	val, diags := expr.Value(NewEvalContext())
	if diags.HasErrors() {
		return cty.NilVal, fmt.Errorf("param %q: %w", p.key, diags)
	}
	if !typed || target == cty.DynamicPseudoType {
		return val, nil
	}

	converted, err := convert.Convert(val, target)
	if err != nil {
		return cty.NilVal, fmt.Errorf("param %q: cannot use %s as %s: %w", p.key, val.Type().FriendlyName(), p.typ, err)
	}
	if p.typ == "int" || p.typ == "hex" {
		if !converted.IsKnown() || converted.IsNull() || !converted.AsBigFloat().IsInt() {
			return cty.NilVal, fmt.Errorf("param %q: %s is not an integer", p.key, p.value)
		}
	}
	return converted, nil
}

// ToCode returns the parameter as it appears in generated code. String-like
// values are quoted; everything else is emitted verbatim.
func (p *Param) ToCode() string {
	switch p.typ {
	case "string", "multiline", "file_open", "file_save":
		return strconv.Quote(p.value)
	default:
		return p.value
	}
}

// Hash fingerprints the key, type and value.
func (p *Param) Hash() uint64 {
	d := xxhash.New()
	_, _ = d.WriteString(p.key)
	_, _ = d.Write([]byte{0})
	_, _ = d.WriteString(p.typ)
	_, _ = d.Write([]byte{0})
	_, _ = d.WriteString(p.value)
	return d.Sum64()
}

// Export writes the key and value pair that import reads back.
func (p *Param) Export() *nested.Data {
	return nested.New("key", p.key, "value", p.value)
}

// String is also the sort key used when exporting a block.
func (p *Param) String() string {
	return fmt.Sprintf("Param - %s(%s)", p.name, p.key)
}
