// Package bggoexpr provides a container for collecting and analyzing HCL expressions.
package bggoexpr

import (
	"github.com/hashicorp/hcl/v2"
)

// Container gathers HCL expressions and provides analysis results, such as
// variable references and function calls. Results are computed lazily and
// cached until the next Add.
type Container struct {
	expressions []hcl.Expression

	analyzed        bool
	references      []hcl.Traversal
	calledFunctions []string
}

// NewContainer creates a new, empty expression container.
func NewContainer() *Container {
	return &Container{}
}

// Add adds one or more expressions to the container for analysis.
// It safely ignores any nil expressions.
func (c *Container) Add(exprs ...hcl.Expression) {
	c.analyzed = false
	for _, expr := range exprs {
		if expr != nil {
			c.expressions = append(c.expressions, expr)
		}
	}
}

func (c *Container) analyze() {
	if c.analyzed {
		return
	}
	c.references, c.calledFunctions = extractReferencesAndFunctions(c.expressions...)
	c.analyzed = true
}

// References returns all unique variable traversals found in the expressions.
func (c *Container) References() []hcl.Traversal {
	c.analyze()
	return c.references
}

// CalledFunctions returns all unique function calls found in the expressions.
func (c *Container) CalledFunctions() []string {
	c.analyze()
	return c.calledFunctions
}

// RootNames returns the sorted, unique root names of every referenced variable
// and every called function. For block templates these are parameter keys.
func (c *Container) RootNames() []string {
	c.analyze()
	seen := make(map[string]struct{})
	for _, t := range c.references {
		seen[t.RootName()] = struct{}{}
	}
	for _, f := range c.calledFunctions {
		seen[f] = struct{}{}
	}
	return sortedKeys(seen)
}
