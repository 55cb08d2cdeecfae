package block

import (
	"fmt"
	"strconv"

	"github.com/zclconf/go-cty/cty"
)

// State is the lifecycle state of a block.
type State int

const (
	// Enabled blocks take part in the generated flow graph.
	Enabled State = iota
	// Bypassed blocks are replaced by a straight wire from sink to source.
	Bypassed
	// Disabled blocks are left out together with their connections.
	Disabled
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case Enabled:
		return "enabled"
	case Bypassed:
		return "bypassed"
	case Disabled:
		return "disabled"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Valid reports whether s is one of the three lifecycle codes.
func (s State) Valid() bool {
	return s == Enabled || s == Bypassed || s == Disabled
}

// State evaluates the _enabled parameter. Anything that does not evaluate to
// a lifecycle code reads as Enabled. The legacy boolean values map to Enabled
// and Disabled.
func (b *Block) State() State {
	p, err := b.Param(EnabledKey)
	if err != nil {
		return Enabled
	}
	val, err := p.Evaluate()
	if err != nil || val.IsNull() || !val.IsKnown() {
		return Enabled
	}
	switch val.Type() {
	case cty.Bool:
		// Files from before the tri-state stored enabled as True/False, not as
		// the integer codes 1 and 0.
		if val.True() {
			return Enabled
		}
		return Disabled
	case cty.Number:
		i, _ := val.AsBigFloat().Int64()
		if s := State(i); s.Valid() {
			return s
		}
	}
	return Enabled
}

// SetState stores s in the _enabled parameter. An invalid s is stored as
// Enabled.
func (b *Block) SetState(s State) {
	if !s.Valid() {
		b.logger.Debug("Normalizing invalid block state.", "state", int(s))
		s = Enabled
	}
	p, err := b.Param(EnabledKey)
	if err != nil {
		return
	}
	p.SetValue(strconv.Itoa(int(s)))
}

// Enabled reports whether the block is not disabled. A bypassed block counts
// as enabled.
func (b *Block) Enabled() bool {
	return b.State() != Disabled
}

// SetEnabled switches between Enabled and Disabled and reports whether the
// state changed.
func (b *Block) SetEnabled(enabled bool) bool {
	old := b.State()
	next := Disabled
	if enabled {
		next = Enabled
	}
	b.SetState(next)
	return old != next
}

// Bypassed reports whether the block is bypassed.
func (b *Block) Bypassed() bool {
	return b.State() == Bypassed
}

// SetBypassed bypasses the block when CanBypass allows it and reports whether
// the state changed.
func (b *Block) SetBypassed() bool {
	if b.State() != Bypassed && b.CanBypass() {
		b.SetState(Bypassed)
		return true
	}
	return false
}

// CanBypass reports whether the block is a single path, one sink and one
// source of the same type, without the disable_bypass flag.
// TODO: blocks with one sink feeding several same-typed sources could be
// bypassed by fanning the sink connection out.
func (b *Block) CanBypass() bool {
	if len(b.sources) != 1 || len(b.sinks) != 1 {
		return false
	}
	if b.sources[0].Type() != b.sinks[0].Type() {
		return false
	}
	return !b.BypassDisabled()
}
