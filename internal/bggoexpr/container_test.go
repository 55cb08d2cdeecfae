package bggoexpr_test

import (
	"testing"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/specialistvlad/flowblock/internal/bggoexpr"
	"github.com/stretchr/testify/require"
)

// parseExpr is a test helper to quickly get an hcl.Expression from a string.
func parseExpr(t *testing.T, exprStr string) hcl.Expression {
	t.Helper()
	expr, diags := hclsyntax.ParseExpression([]byte(exprStr), "test.hcl", hcl.Pos{Line: 1, Column: 1})
	require.False(t, diags.HasErrors(), "Expression parsing failed: %s", diags.Error())
	return expr
}

// parseTemplate is a test helper for template strings such as "${id}_out".
func parseTemplate(t *testing.T, tmpl string) hcl.Expression {
	t.Helper()
	expr, diags := hclsyntax.ParseTemplate([]byte(tmpl), "test.tmpl", hcl.Pos{Line: 1, Column: 1})
	require.False(t, diags.HasErrors(), "Template parsing failed: %s", diags.Error())
	return expr
}

func TestContainer_AddAndExtract(t *testing.T) {
	c := bggoexpr.NewContainer()
	c.Add(
		parseExpr(t, `upper("hello")`),
		parseExpr(t, `type.fcn`),
		parseExpr(t, `lower(type.size)`),
		parseExpr(t, `type.fcn`), // Duplicate reference
	)

	require.Equal(t, []string{"lower", "upper"}, c.CalledFunctions())

	refs := c.References()
	require.Len(t, refs, 2)
	require.Equal(t, []string{"type.fcn", "type.size"}, []string{
		bggoexpr.TraversalKey(refs[0]),
		bggoexpr.TraversalKey(refs[1]),
	})
}

func TestContainer_Idempotency(t *testing.T) {
	c := bggoexpr.NewContainer()
	c.Add(parseExpr(t, `samp_rate + freq`))

	require.Len(t, c.References(), 2)
	require.Len(t, c.References(), 2)
	require.Empty(t, c.CalledFunctions())
	require.Empty(t, c.CalledFunctions())
}

func TestContainer_AddAfterExtract(t *testing.T) {
	c := bggoexpr.NewContainer()
	c.Add(parseExpr(t, `first`))

	require.Len(t, c.References(), 1)
	require.Equal(t, "first", bggoexpr.TraversalKey(c.References()[0]))

	c.Add(parseExpr(t, `second`), parseExpr(t, `samp_rate()`))

	require.Equal(t, []string{"samp_rate"}, c.CalledFunctions())
	require.Len(t, c.References(), 2)
}

func TestContainer_RootNamesFromTemplate(t *testing.T) {
	c := bggoexpr.NewContainer()
	c.Add(parseTemplate(t, `blocks.add_${type.fcn}(${num_inputs}, ${samp_rate() / 2})`))

	require.Equal(t, []string{"num_inputs", "samp_rate", "type"}, c.RootNames())
}

func TestContainer_EdgeCases(t *testing.T) {
	t.Run("Empty Container", func(t *testing.T) {
		c := bggoexpr.NewContainer()
		require.Empty(t, c.References())
		require.Empty(t, c.CalledFunctions())
		require.Empty(t, c.RootNames())
	})

	t.Run("Adding Nil Expressions", func(t *testing.T) {
		c := bggoexpr.NewContainer()
		c.Add(nil, parseExpr(t, `vlen`), nil)
		require.Len(t, c.References(), 1)
		require.Equal(t, "vlen", bggoexpr.TraversalKey(c.References()[0]))
	})
}
