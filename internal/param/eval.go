package param

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
)

// BaseVariables are the names every parameter expression can refer to. The
// capitalized booleans keep flow graphs written for the legacy editor valid.
func BaseVariables() map[string]cty.Value {
	return map[string]cty.Value{
		"True":  cty.True,
		"False": cty.False,
		"true":  cty.True,
		"false": cty.False,
	}
}

// BaseFunctions are the functions every parameter expression can call.
func BaseFunctions() map[string]function.Function {
	return map[string]function.Function{
		"abs":    stdlib.AbsoluteFunc,
		"ceil":   stdlib.CeilFunc,
		"floor":  stdlib.FloorFunc,
		"format": stdlib.FormatFunc,
		"join":   stdlib.JoinFunc,
		"length": stdlib.LengthFunc,
		"lower":  stdlib.LowerFunc,
		"max":    stdlib.MaxFunc,
		"min":    stdlib.MinFunc,
		"pow":    stdlib.PowFunc,
		"range":  stdlib.RangeFunc,
		"upper":  stdlib.UpperFunc,
	}
}

// NewEvalContext returns a fresh evaluation context holding the base
// variables and functions. Callers may add their own entries to it.
func NewEvalContext() *hcl.EvalContext {
	return &hcl.EvalContext{
		Variables: BaseVariables(),
		Functions: BaseFunctions(),
	}
}
