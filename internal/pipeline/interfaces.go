package pipeline

import (
	"context"
)

// TextExtractor turns a named file into raw text.
// This interface enables testing the pipeline without PDF or OCR tooling.
type TextExtractor interface {
	ExtractText(ctx context.Context, name string, data []byte) (string, error)
}
