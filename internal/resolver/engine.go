package resolver

import (
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/specialistvlad/flowblock/internal/param"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
)

// Engine expands a template against a set of parameter arguments.
type Engine interface {
	Expand(tmpl string, args map[string]*Arg) (string, error)
}

// HCLEngine expands templates written in HCL template syntax.
type HCLEngine struct{}

// NewHCLEngine creates the default template engine.
func NewHCLEngine() *HCLEngine {
	return &HCLEngine{}
}

var _ Engine = (*HCLEngine)(nil)

// Expand implements Engine.
func (e *HCLEngine) Expand(tmpl string, args map[string]*Arg) (string, error) {
	expr, diags := hclsyntax.ParseTemplate([]byte(normalize(tmpl)), "template", hcl.Pos{Line: 1, Column: 1})
	if diags.HasErrors() {
		return "", diags
	}

	var parts []hclsyntax.Expression
	switch t := expr.(type) {
	case *hclsyntax.TemplateExpr:
		parts = t.Parts
	case *hclsyntax.TemplateWrapExpr:
		parts = []hclsyntax.Expression{t.Wrapped}
	default:
		parts = []hclsyntax.Expression{expr}
	}

	var evalCtx *hcl.EvalContext
	var sb strings.Builder
	for _, part := range parts {
		text, ok, err := expandDirect(part, args)
		if err != nil {
			return "", err
		}
		if !ok {
			if evalCtx == nil {
				evalCtx = newTemplateContext(args)
			}
			text, err = expandGeneric(part, evalCtx)
			if err != nil {
				return "", err
			}
		}
		sb.WriteString(text)
	}
	return sb.String(), nil
}

// expandDirect handles the interpolation shapes that map onto one Arg
// accessor. It reports false when the part needs full evaluation.
func expandDirect(part hclsyntax.Expression, args map[string]*Arg) (string, bool, error) {
	switch p := part.(type) {
	case *hclsyntax.LiteralValueExpr:
		if p.Val.Type() == cty.String && p.Val.IsKnown() && !p.Val.IsNull() {
			return p.Val.AsString(), true, nil
		}
	case *hclsyntax.ScopeTraversalExpr:
		arg, ok := args[p.Traversal.RootName()]
		if !ok {
			return "", false, nil
		}
		switch len(p.Traversal) {
		case 1:
			return arg.Text(), true, nil
		case 2:
			var key string
			switch step := p.Traversal[1].(type) {
			case hcl.TraverseAttr:
				key = step.Name
			case hcl.TraverseIndex:
				if step.Key.Type() != cty.String {
					return "", false, nil
				}
				key = step.Key.AsString()
			default:
				return "", false, nil
			}
			text, err := arg.OptionText(key)
			return text, true, err
		}
	case *hclsyntax.FunctionCallExpr:
		arg, ok := args[p.Name]
		if !ok || len(p.Args) != 0 {
			return "", false, nil
		}
		val, err := arg.Evaluate()
		if err != nil {
			return "", true, err
		}
		text, err := FormatValue(val)
		return text, true, err
	}
	return "", false, nil
}

func expandGeneric(part hclsyntax.Expression, evalCtx *hcl.EvalContext) (string, error) {
	val, diags := part.Value(evalCtx)
	if diags.HasErrors() {
		return "", diags
	}
	text, err := FormatValue(val)
	if err != nil {
		return "", fmt.Errorf("%s: %w", part.Range(), err)
	}
	return text, nil
}

// newTemplateContext binds every parameter as a string variable holding its
// code text and as a zero-argument function returning its evaluated value.
func newTemplateContext(args map[string]*Arg) *hcl.EvalContext {
	evalCtx := param.NewEvalContext()
	for key, arg := range args {
		evalCtx.Variables[key] = cty.StringVal(arg.Text())
		evalCtx.Functions[key] = valueFunc(arg)
	}
	return evalCtx
}

func valueFunc(arg *Arg) function.Function {
	return function.New(&function.Spec{
		Type: function.StaticReturnType(cty.DynamicPseudoType),
		Impl: func(_ []cty.Value, _ cty.Type) (cty.Value, error) {
			return arg.Evaluate()
		},
	})
}
