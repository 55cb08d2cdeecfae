package block

import (
	"context"
)

// Rewriter recomputes the dynamic structure of a block, ports or parameters
// whose existence or shape depends on current parameter values. Import calls
// it after every pass of writing saved values.
type Rewriter interface {
	Rewrite(ctx context.Context, b *Block) error
}

// RewriterFunc adapts a function to Rewriter.
type RewriterFunc func(ctx context.Context, b *Block) error

// Rewrite implements Rewriter.
func (f RewriterFunc) Rewrite(ctx context.Context, b *Block) error {
	return f(ctx, b)
}

// DefaultRewriter re-resolves the type and arity templates of every port.
func DefaultRewriter() Rewriter {
	return RewriterFunc(func(_ context.Context, b *Block) error {
		for _, p := range b.Ports() {
			p.Rewrite(b.ResolveDependencies)
		}
		return nil
	})
}

// Chain runs rewriters in order, stopping at the first error.
func Chain(rewriters ...Rewriter) Rewriter {
	return RewriterFunc(func(ctx context.Context, b *Block) error {
		for _, r := range rewriters {
			if err := r.Rewrite(ctx, b); err != nil {
				return err
			}
		}
		return nil
	})
}

// Rewrite runs the block's rewrite hook once.
func (b *Block) Rewrite(ctx context.Context) error {
	return b.rewriter.Rewrite(ctx, b)
}
