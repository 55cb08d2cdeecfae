package flowgraph

import (
	"errors"
	"fmt"
	"sort"

	"github.com/specialistvlad/flowblock/internal/nested"
)

// ErrUnknownBlock is returned when a block key has no definition.
var ErrUnknownBlock = errors.New("unknown block key")

// Library holds block definitions by key.
type Library struct {
	defs map[string]*nested.Data
}

// NewLibrary returns an empty library.
func NewLibrary() *Library {
	return &Library{defs: map[string]*nested.Data{}}
}

// Add registers a definition under its key. Registering a key twice is an
// error.
func (l *Library) Add(def *nested.Data) error {
	key := def.Find("key")
	if key == "" {
		return errors.New("block definition has no key")
	}
	if _, ok := l.defs[key]; ok {
		return fmt.Errorf("block definition %q is defined more than once", key)
	}
	l.defs[key] = def
	return nil
}

// Get returns the definition stored under key.
func (l *Library) Get(key string) (*nested.Data, error) {
	def, ok := l.defs[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownBlock, key)
	}
	return def, nil
}

// Keys returns the registered keys, sorted.
func (l *Library) Keys() []string {
	keys := make([]string, 0, len(l.defs))
	for k := range l.defs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of definitions.
func (l *Library) Len() int { return len(l.defs) }
