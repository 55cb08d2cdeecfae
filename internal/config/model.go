package config

import (
	"fmt"
	"strings"

	"github.com/specialistvlad/flowblock/internal/nested"
)

// Model is the unified, format-agnostic representation of a block library
// and a flow graph built from it.
type Model struct {
	// Definitions are block descriptions in declaration order.
	Definitions []*nested.Data
	// Instances are exported blocks in declaration order.
	Instances []*nested.Data
	// Connections wire instance ports together.
	Connections []*Connection
}

// Merge appends the contents of o to m.
func (m *Model) Merge(o *Model) {
	m.Definitions = append(m.Definitions, o.Definitions...)
	m.Instances = append(m.Instances, o.Instances...)
	m.Connections = append(m.Connections, o.Connections...)
}

// Endpoint names one port of one block instance.
type Endpoint struct {
	BlockID string
	PortKey string
}

// ParseEndpoint reads "<block id>.<port key>". The block id may not contain
// a dot; the port key may.
func ParseEndpoint(s string) (Endpoint, error) {
	id, key, ok := strings.Cut(s, ".")
	if !ok || id == "" || key == "" {
		return Endpoint{}, fmt.Errorf("invalid endpoint %q: want <block id>.<port key>", s)
	}
	return Endpoint{BlockID: id, PortKey: key}, nil
}

func (e Endpoint) String() string { return e.BlockID + "." + e.PortKey }

// Connection links a source endpoint to a sink endpoint.
type Connection struct {
	Source Endpoint
	Sink   Endpoint
}
