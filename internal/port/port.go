// Package port implements the block port: a typed connection point whose type
// and arity may be templates over the owning block's parameters.
package port

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/specialistvlad/flowblock/internal/element"
	"github.com/specialistvlad/flowblock/internal/nested"
)

// ConnectionLister is the part of the owning graph a port asks for its
// connections.
type ConnectionLister interface {
	ConnectionsOf(p element.Port) []element.Connection
}

// Port is the concrete element.Port used by flow graphs.
type Port struct {
	key      string
	name     string
	dir      element.Direction
	optional bool

	typeTmpl   string
	nportsTmpl string

	typ    string
	nports int
	fixed  bool

	graph ConnectionLister
}

var _ element.Port = (*Port)(nil)

// New builds a port from its nested description. The templated attributes
// keep their literal text until the first Rewrite.
func New(n *nested.Data, dir element.Direction, graph ConnectionLister) (*Port, error) {
	p := &Port{
		key:        n.Find("key"),
		name:       n.Find("name"),
		dir:        dir,
		optional:   n.Find("optional") == "1" || n.Find("optional") == "true",
		typeTmpl:   n.Find("type"),
		nportsTmpl: n.Find("nports"),
		graph:      graph,
	}
	if p.key == "" {
		return nil, errors.New("port is missing a key")
	}
	if p.name == "" {
		p.name = p.key
	}
	p.apply(p.typeTmpl, p.nportsTmpl)
	return p, nil
}

func (p *Port) apply(typ, nports string) {
	p.typ = typ
	p.nports, p.fixed = parseNPorts(nports)
}

// parseNPorts reads an arity. Empty or non-integer text means "not fixed".
func parseNPorts(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

func (p *Port) Key() string                  { return p.key }
func (p *Port) Name() string                 { return p.name }
func (p *Port) Direction() element.Direction { return p.dir }
func (p *Port) Optional() bool               { return p.optional }

// Type returns the resolved data type tag.
func (p *Port) Type() string { return p.typ }

// NPorts returns the resolved arity and whether it is an integer.
func (p *Port) NPorts() (int, bool) { return p.nports, p.fixed }

// Connections asks the owning graph which connections touch this port.
func (p *Port) Connections() []element.Connection {
	if p.graph == nil {
		return nil
	}
	return p.graph.ConnectionsOf(p)
}

// Rewrite re-resolves the type and arity templates.
func (p *Port) Rewrite(resolve func(string) string) {
	p.apply(resolve(p.typeTmpl), resolve(p.nportsTmpl))
}

func (p *Port) String() string {
	dir := "Source"
	if p.dir == element.Sink {
		dir = "Sink"
	}
	return fmt.Sprintf("%s - %s(%s)", dir, p.name, p.key)
}

// TypeTemplate returns the type as written in the description.
func (p *Port) TypeTemplate() string { return p.typeTmpl }
