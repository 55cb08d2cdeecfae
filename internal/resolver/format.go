package resolver

import (
	"errors"

	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

// FormatValue renders an evaluated value as template output. Strings are
// written as-is, numbers in their shortest exact form and collections as
// JSON.
func FormatValue(v cty.Value) (string, error) {
	if v.IsNull() {
		return "", nil
	}
	if !v.IsWhollyKnown() {
		return "", errors.New("value is not known")
	}
	switch ty := v.Type(); {
	case ty == cty.String:
		return v.AsString(), nil
	case ty == cty.Number:
		bf := v.AsBigFloat()
		if bf.IsInt() {
			return bf.Text('f', 0), nil
		}
		return bf.Text('g', -1), nil
	case ty == cty.Bool:
		if v.True() {
			return "true", nil
		}
		return "false", nil
	default:
		b, err := ctyjson.Marshal(v, ty)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
}
