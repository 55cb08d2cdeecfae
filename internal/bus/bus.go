// Package bus computes how the plain ports of one block direction are grouped
// behind aggregate bus ports.
//
// A Structure is a partition of port indices: one group per bus port, each
// group listing the indices of the plain ports it carries.
package bus

import (
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/specialistvlad/flowblock/internal/element"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// Structure groups port indices per bus port. A nil Structure means no bus.
type Structure [][]int

// Identity returns the single group holding every index below n.
func Identity(n int) Structure {
	group := make([]int, n)
	for i := range group {
		group[i] = i
	}
	return Structure{group}
}

// Form computes the structure for ports. It starts from the identity group.
// Every port with an integer arity extends a running group by that many
// consecutive indices and the structure becomes that group alone, so the last
// arity-bearing port decides the result. A non-empty serialized structure
// overrides whatever was computed.
func Form(ports []element.Port, serialized Structure) Structure {
	structure := Identity(len(ports))

	var group []int
	last := 0
	for _, p := range ports {
		n, fixed := p.NPorts()
		if !fixed {
			continue
		}
		for i := 0; i < n; i++ {
			group = append(group, i+last)
		}
		if len(group) > 0 {
			last = group[len(group)-1] + 1
		}
		structure = Structure{append([]int(nil), group...)}
	}

	if len(serialized) > 0 {
		structure = serialized
	}
	return structure
}

// HasBus reports whether any port is a bus port.
func HasBus(ports []element.Port) bool {
	for _, p := range ports {
		if p.Type() == element.BusType {
			return true
		}
	}
	return false
}

// FilterBus returns the bus ports when there are any, else every port. This is
// the list an editor shows for one direction.
func FilterBus(ports []element.Port) []element.Port {
	var buses []element.Port
	for _, p := range ports {
		if p.Type() == element.BusType {
			buses = append(buses, p)
		}
	}
	if len(buses) > 0 {
		return buses
	}
	return ports
}

// BackOfTheBus reorders ports in place so bus ports follow every non-bus
// port. Relative order inside each half is kept.
func BackOfTheBus(ports []element.Port) {
	out := make([]element.Port, 0, len(ports))
	for _, p := range ports {
		if p.Type() != element.BusType {
			out = append(out, p)
		}
	}
	for _, p := range ports {
		if p.Type() == element.BusType {
			out = append(out, p)
		}
	}
	copy(ports, out)
}

// Parse reads a serialized structure such as "[[0, 1], [2]]". Blank text is
// the empty structure.
func Parse(text string) (Structure, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}
	expr, diags := hclsyntax.ParseExpression([]byte(text), "bus_structure", hcl.Pos{Line: 1, Column: 1})
	if diags.HasErrors() {
		return nil, fmt.Errorf("invalid bus structure %q: %w", text, diags)
	}
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return nil, fmt.Errorf("invalid bus structure %q: %w", text, diags)
	}
	val, err := convert.Convert(val, cty.List(cty.List(cty.Number)))
	if err != nil {
		return nil, fmt.Errorf("bus structure %q is not a list of index lists: %w", text, err)
	}
	var s Structure
	if err := gocty.FromCtyValue(val, &s); err != nil {
		return nil, fmt.Errorf("bus structure %q: %w", text, err)
	}
	return s, nil
}

// String renders the structure in the form Parse reads.
func (s Structure) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, group := range s {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteByte('[')
		for j, idx := range group {
			if j > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "%d", idx)
		}
		sb.WriteByte(']')
	}
	sb.WriteByte(']')
	return sb.String()
}
