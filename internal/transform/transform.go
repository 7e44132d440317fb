// Package transform defines the body rewrite port used by route steps.
package transform

import "context"

// Transformer rewrites an exchange body.
type Transformer interface {
	// Transform takes the current body and returns its replacement.
	Transform(ctx context.Context, input []byte) ([]byte, error)
}

// Func adapts a function to Transformer.
type Func func(ctx context.Context, input []byte) ([]byte, error)

// Transform calls f.
func (f Func) Transform(ctx context.Context, input []byte) ([]byte, error) {
	return f(ctx, input)
}

// Identity returns its input unchanged.
var Identity Transformer = Func(func(_ context.Context, input []byte) ([]byte, error) {
	return input, nil
})
