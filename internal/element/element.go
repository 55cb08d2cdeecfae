// Package element defines the capability contracts shared by the block model
// and the concrete parameters, ports and graphs that plug into it.
//
// The block never depends on a concrete parameter or port type. It asks for
// the behavior it needs (key, type, evaluated value, connection list) through
// the interfaces declared here, and the owning graph supplies implementations
// through Factory.
package element

import (
	"fmt"

	"github.com/specialistvlad/flowblock/internal/nested"
	"github.com/zclconf/go-cty/cty"
)

// Direction tells sources (outputs) apart from sinks (inputs).
type Direction int

const (
	// Source is an output port.
	Source Direction = iota
	// Sink is an input port.
	Sink
)

// String implements fmt.Stringer.
func (d Direction) String() string {
	switch d {
	case Source:
		return "source"
	case Sink:
		return "sink"
	default:
		return fmt.Sprintf("direction(%d)", int(d))
	}
}

// ParseDirection converts "source" or "sink" into a Direction.
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "source":
		return Source, nil
	case "sink":
		return Sink, nil
	default:
		return 0, fmt.Errorf("unknown port direction %q", s)
	}
}

// BusType is the port type tag of an aggregate bus port.
const BusType = "bus"

// Param is one named, typed and possibly enumerated value of a block.
type Param interface {
	Key() string
	Name() string
	Type() string
	// Value returns the raw code text.
	Value() string
	SetValue(v string)
	// Evaluate turns the code text into a native value.
	Evaluate() (cty.Value, error)
	// ToCode returns the text that stands for this parameter in generated code.
	ToCode() string
	IsEnum() bool
	OptionKeys() []string
	// OptKeys lists the opt keys of the currently selected option.
	OptKeys() []string
	// Opt returns an opt of the currently selected option.
	Opt(key string) (string, bool)
	// Hash fingerprints the parameter's key, type and value.
	Hash() uint64
	Export() *nested.Data
	String() string
}

// Port is one connection point of a block.
type Port interface {
	Key() string
	Name() string
	Direction() Direction
	Type() string
	// NPorts returns the arity and whether it is fixed to an integer.
	NPorts() (int, bool)
	// Connections lists the live connections touching the port. The owning
	// graph holds them; the port only reports.
	Connections() []Connection
	// Rewrite re-resolves the port's templated attributes.
	Rewrite(resolve func(string) string)
}

// Connection links a source port to a sink port.
type Connection interface {
	ID() string
	Source() Port
	Sink() Port
}

// Factory builds parameters and ports from nested descriptions.
type Factory interface {
	NewParam(n *nested.Data) (Param, error)
	NewPort(n *nested.Data, dir Direction) (Port, error)
}

// Remover deletes a connection from the owning graph.
type Remover interface {
	RemoveElement(c Connection)
}

// Graph is everything a block needs from the graph that owns it.
type Graph interface {
	Factory
	Remover
}
