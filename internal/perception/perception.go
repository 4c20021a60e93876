// Package perception defines the backends that turn a screen capture into
// text or a description, plus HTTP-backed implementations.
package perception

import "context"

// TextExtractor reads literal text out of a screen capture (OCR). An empty
// result is valid; implementations report transport problems as errors and
// must not panic.
type TextExtractor interface {
	Extract(ctx context.Context, image []byte) (string, error)
}

// SemanticDescriber produces a free-form description of a screen capture,
// typically from a vision model. An empty result is valid.
type SemanticDescriber interface {
	Describe(ctx context.Context, image []byte) (string, error)
}
