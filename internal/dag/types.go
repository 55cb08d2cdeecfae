package dag

import (
	"errors"
	"sync"
)

// ErrCycle is returned when the dependencies form a loop.
var ErrCycle = errors.New("cycle detected")

// Graph is a set of nodes and their directed dependencies. All operations are
// safe for concurrent use.
type Graph struct {
	mutex sync.RWMutex
	nodes map[string]*node
	// order lists node ids in insertion order so results are deterministic.
	order []string
}

// node is one vertex. Callers address nodes by id only.
type node struct {
	id  string
	seq int
	// deps are the upstream nodes.
	deps map[string]*node
	// dependents are the downstream nodes.
	dependents map[string]*node
}
