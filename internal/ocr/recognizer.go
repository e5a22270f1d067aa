// Package ocr defines the text-recognition contract used by the verification
// pipeline, plus a Gemini backend and a Redis-backed cache decorator.
package ocr

import "context"

// Recognizer turns image bytes into the raw text printed on the document.
type Recognizer interface {
	Recognize(ctx context.Context, image []byte) (string, error)
}

// Func adapts a plain function to Recognizer.
type Func func(ctx context.Context, image []byte) (string, error)

func (f Func) Recognize(ctx context.Context, image []byte) (string, error) {
	return f(ctx, image)
}
