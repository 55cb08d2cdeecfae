package block

import "errors"

var (
	// ErrDuplicateKey reports two parameters or two same-direction ports
	// sharing a key. The block cannot be built.
	ErrDuplicateKey = errors.New("duplicate key")

	// ErrKeyNotFound reports a lookup of a key the block does not have.
	ErrKeyNotFound = errors.New("key not found")

	// ErrRewriteDiverged reports an import whose rewrite passes never left the
	// parameter set unchanged.
	ErrRewriteDiverged = errors.New("rewrite did not reach a fixed point")
)
