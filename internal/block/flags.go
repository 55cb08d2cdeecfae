package block

import (
	"strings"
	"unicode"
)

// Flags is the set of capability bits of a block.
type Flags uint8

const (
	// FlagThrottle marks a block that throttles the flow of samples.
	FlagThrottle Flags = 1 << iota
	// FlagDisableBypass forbids bypassing the block.
	FlagDisableBypass
)

var flagNames = []struct {
	flag Flags
	name string
}{
	{FlagThrottle, "throttle"},
	{FlagDisableBypass, "disable_bypass"},
}

// ParseFlags reads a comma or space separated flag list. Unknown names are
// ignored.
func ParseFlags(s string) Flags {
	var f Flags
	for _, tok := range strings.FieldsFunc(s, func(r rune) bool { return r == ',' || unicode.IsSpace(r) }) {
		for _, fn := range flagNames {
			if tok == fn.name {
				f |= fn.flag
			}
		}
	}
	return f
}

// Has reports whether every bit of x is set.
func (f Flags) Has(x Flags) bool { return f&x == x }

// String lists the set flags, comma separated.
func (f Flags) String() string {
	var names []string
	for _, fn := range flagNames {
		if f.Has(fn.flag) {
			names = append(names, fn.name)
		}
	}
	return strings.Join(names, ",")
}
