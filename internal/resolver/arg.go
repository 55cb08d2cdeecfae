package resolver

import (
	"fmt"

	"github.com/specialistvlad/flowblock/internal/element"
	"github.com/zclconf/go-cty/cty"
)

// Arg is the template view of one parameter.
type Arg struct {
	param element.Param
}

// NewArg wraps a parameter.
func NewArg(p element.Param) *Arg {
	return &Arg{param: p}
}

// Text returns the parameter's code text.
func (a *Arg) Text() string {
	return a.param.ToCode()
}

// OptionText returns an opt of the parameter's selected option. Only enum
// parameters carry opts.
func (a *Arg) OptionText(key string) (string, error) {
	if !a.param.IsEnum() {
		return "", fmt.Errorf("param %q is not an enum, it has no opt %q", a.param.Key(), key)
	}
	v, ok := a.param.Opt(key)
	if !ok {
		return "", fmt.Errorf("param %q: option %q has no opt %q (have %v)", a.param.Key(), a.param.Value(), key, a.param.OptKeys())
	}
	return v, nil
}

// Evaluate returns the parameter's evaluated native value.
func (a *Arg) Evaluate() (cty.Value, error) {
	return a.param.Evaluate()
}

// Args builds the key to Arg mapping for a parameter list.
func Args(params []element.Param) map[string]*Arg {
	args := make(map[string]*Arg, len(params))
	for _, p := range params {
		args[p.Key()] = NewArg(p)
	}
	return args
}
