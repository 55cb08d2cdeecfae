package flowgraph

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/specialistvlad/flowblock/internal/element"
)

// Connection links a source port to a sink port.
type Connection struct {
	id     string
	source element.Port
	sink   element.Port
}

var _ element.Connection = (*Connection)(nil)

func newConnection(source, sink element.Port) *Connection {
	return &Connection{id: uuid.NewString(), source: source, sink: sink}
}

func (c *Connection) ID() string           { return c.id }
func (c *Connection) Source() element.Port { return c.source }
func (c *Connection) Sink() element.Port   { return c.sink }

func (c *Connection) String() string {
	return fmt.Sprintf("Connection(%s -> %s)", c.source, c.sink)
}

// touches reports whether p is either end of c.
func (c *Connection) touches(p element.Port) bool {
	return c.source == p || c.sink == p
}
