package hcl_adapter

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/specialistvlad/flowblock/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
)

// isExprDefined checks if an HCL expression was actually present in the source
// code. The HCL decoder populates omitted optional fields with zero-width
// expression objects, so a nil check alone is insufficient.
func isExprDefined(ctx context.Context, expr hcl.Expression, attrName string) bool {
	if expr == nil {
		return false
	}
	exprRange := expr.Range()
	isDefined := exprRange.End.Byte > exprRange.Start.Byte

	ctxlog.FromContext(ctx).Debug("Checking if HCL attribute was explicitly defined.",
		"attribute", attrName,
		"hcl_range", exprRange.String(),
		"is_defined", isDefined,
	)
	return isDefined
}

// orderedAttributes returns the attributes of body in source order.
func orderedAttributes(body hcl.Body) ([]*hcl.Attribute, error) {
	if body == nil {
		return nil, nil
	}
	attrs, diags := body.JustAttributes()
	if diags.HasErrors() {
		return nil, diags
	}
	out := make([]*hcl.Attribute, 0, len(attrs))
	for _, a := range attrs {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Range.Start.Byte < out[j].Range.Start.Byte
	})
	return out, nil
}

// exprValue evaluates expr without variables. A quoted template that refers
// to variables, such as "${num_inputs}", is a block template rather than HCL
// to evaluate here, so its source text comes back as a string.
func exprValue(expr hcl.Expression, files map[string]*hcl.File) (cty.Value, error) {
	val, diags := expr.Value(nil)
	if !diags.HasErrors() {
		return val, nil
	}
	if tmpl, ok := expr.(*hclsyntax.TemplateExpr); ok {
		if text, ok := rawQuoted(tmpl.SrcRange, files); ok {
			return cty.StringVal(text), nil
		}
	}
	return cty.NilVal, diags
}

// rawQuoted returns the source text between the quotes of rng.
func rawQuoted(rng hcl.Range, files map[string]*hcl.File) (string, bool) {
	f, ok := files[rng.Filename]
	if !ok {
		return "", false
	}
	start, end := rng.Start.Byte, rng.End.Byte
	if start < 0 || end > len(f.Bytes) || end-start < 2 {
		return "", false
	}
	if f.Bytes[start] != '"' || f.Bytes[end-1] != '"' {
		return "", false
	}
	return string(f.Bytes[start+1 : end-1]), true
}

// scalarText renders a primitive value the way nested data stores it. The
// second result is false for null values and false booleans, which are left
// out.
func scalarText(val cty.Value) (string, bool, error) {
	if val.IsNull() {
		return "", false, nil
	}
	if !val.IsKnown() {
		return "", false, fmt.Errorf("value is not known")
	}
	switch val.Type() {
	case cty.String:
		return val.AsString(), true, nil
	case cty.Number:
		bf := val.AsBigFloat()
		if bf.IsInt() {
			i, _ := bf.Int(nil)
			return i.String(), true, nil
		}
		return bf.Text('g', -1), true, nil
	case cty.Bool:
		if val.True() {
			return "1", true, nil
		}
		return "", false, nil
	default:
		return "", false, fmt.Errorf("expected a string, number or bool, got %s", val.Type().FriendlyName())
	}
}

// codeText renders a known bool as parameter code.
func codeText(val cty.Value) string {
	return strconv.FormatBool(val.True())
}
