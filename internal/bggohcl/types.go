package bggohcl

import (
	"github.com/zclconf/go-cty/cty"
)

// ParamTypeToCtyType maps a block parameter type keyword onto the cty.Type its
// evaluated value must convert to. The second result is false for types whose
// value is taken verbatim as text (id, string, multiline, enum) and for unknown
// keywords, which are evaluated without a conversion target.
func ParamTypeToCtyType(paramType string) (cty.Type, bool) {
	switch paramType {
	case "int", "real", "float", "complex", "hex":
		return cty.Number, true
	case "bool":
		return cty.Bool, true
	case "int_vector", "real_vector", "float_vector", "complex_vector":
		return cty.List(cty.Number), true
	case "raw":
		return cty.DynamicPseudoType, true
	default:
		return cty.NilType, false
	}
}

// IsTextType reports whether a parameter type holds plain text rather than an
// expression.
func IsTextType(paramType string) bool {
	switch paramType {
	case "id", "string", "multiline", "enum", "file_open", "file_save", "_multiline_python_external":
		return true
	default:
		return false
	}
}
