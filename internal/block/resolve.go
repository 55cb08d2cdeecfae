package block

import (
	"strings"

	"github.com/specialistvlad/flowblock/internal/resolver"
)

// ResolveDependencies expands a template against the block's parameters.
// Text without a $ comes back unchanged. Expansion failures come back as
// inline diagnostic text rather than as an error.
func (b *Block) ResolveDependencies(tmpl string) string {
	return resolver.Resolve(b.engine, tmpl, b.params)
}

// Dependencies lists the parameter keys tmpl refers to.
func (b *Block) Dependencies(tmpl string) []string {
	return resolver.References(tmpl)
}

// MakeCode resolves the block's make template.
func (b *Block) MakeCode() string {
	return b.ResolveDependencies(b.makeTmpl)
}

// Callbacks resolves the block's callback templates.
func (b *Block) Callbacks() []string {
	out := make([]string, 0, len(b.callbacks))
	for _, c := range b.callbacks {
		out = append(out, b.ResolveDependencies(c))
	}
	return out
}

// typeTemplater is implemented by ports that keep their unresolved type.
type typeTemplater interface {
	TypeTemplate() string
}

// TypeControllerModify steps the type controlling enum parameter by
// direction (+1 or -1), wrapping around its options, and reports whether a
// value changed. The controller is the last enum whose key shows up in a port
// or parameter type; failing that, the first enum.
func (b *Block) TypeControllerModify(direction int) bool {
	var types []string
	for _, p := range b.Ports() {
		if t, ok := p.(typeTemplater); ok {
			types = append(types, t.TypeTemplate())
		} else {
			types = append(types, p.Type())
		}
	}
	for _, p := range b.params {
		types = append(types, p.Type())
	}
	joined := strings.Join(types, " ")

	var controller interface {
		OptionKeys() []string
		Value() string
		SetValue(string)
	}
	for _, p := range b.params {
		if !p.IsEnum() {
			continue
		}
		if strings.Contains(joined, p.Key()) {
			controller = p
		} else if controller == nil {
			controller = p
		}
	}
	if controller == nil {
		return false
	}

	keys := controller.OptionKeys()
	idx := -1
	for i, k := range keys {
		if k == controller.Value() {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}
	n := len(keys)
	controller.SetValue(keys[((idx+direction)%n+n)%n])
	return true
}

// PortControllerModify steps the port count controller. Blocks have none.
func (b *Block) PortControllerModify(direction int) bool {
	return false
}
