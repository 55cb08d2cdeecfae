package resolver

import (
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/specialistvlad/flowblock/internal/bggoexpr"
	"github.com/specialistvlad/flowblock/internal/element"
)

// Resolve expands tmpl against params. Text without a $ is returned as-is and
// never reaches the engine. A failed expansion is not an error: the result
// names the template and the failure so broken output shows up where the
// value would have been.
func Resolve(engine Engine, tmpl string, params []element.Param) string {
	if !strings.Contains(tmpl, "$") {
		return tmpl
	}
	out, err := engine.Expand(tmpl, Args(params))
	if err != nil {
		return fmt.Sprintf("Template error: %s\n    %s", tmpl, err)
	}
	return out
}

// References lists the parameter keys a template depends on, sorted. A
// template that does not parse has no references.
func References(tmpl string) []string {
	if !strings.Contains(tmpl, "$") {
		return nil
	}
	expr, diags := hclsyntax.ParseTemplate([]byte(normalize(tmpl)), "template", hcl.Pos{Line: 1, Column: 1})
	if diags.HasErrors() {
		return nil
	}
	c := bggoexpr.NewContainer()
	c.Add(expr)
	return c.RootNames()
}
