package extractor

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dvloznov/txnscan/internal/logger"
)

// UnsupportedFormatNotice is shown to users in place of extracted text when
// the file type is not recognised.
const UnsupportedFormatNotice = "⚠️ Unsupported file format."

// ErrUnsupportedFormat is returned for file extensions with no extraction path.
var ErrUnsupportedFormat = errors.New("extractor: unsupported file format")

// FileKind groups file extensions by extraction method.
type FileKind string

const (
	KindText        FileKind = "text"
	KindPDF         FileKind = "pdf"
	KindImage       FileKind = "image"
	KindUnsupported FileKind = "unsupported"
)

// KindOf classifies a file name by its extension, case-insensitively.
func KindOf(name string) FileKind {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".txt", ".log", ".csv":
		return KindText
	case ".pdf":
		return KindPDF
	case ".png", ".jpg", ".jpeg":
		return KindImage
	default:
		return KindUnsupported
	}
}

// Extractor turns uploaded files into raw text.
type Extractor struct {
	OCR OCR
}

// New returns an Extractor using the given OCR tool settings.
func New(ocr OCR) *Extractor {
	return &Extractor{OCR: ocr}
}

// ExtractText returns the text content of a named file. Plain text is decoded
// as UTF-8 with invalid bytes dropped, PDFs go through the text layer with an
// OCR fallback for image-only pages, and images go straight to OCR.
func (e *Extractor) ExtractText(ctx context.Context, name string, data []byte) (string, error) {
	log := logger.FromContext(ctx)

	kind := KindOf(name)
	log.Debug().Str("file", name).Str("kind", string(kind)).Int("bytes", len(data)).Msg("Extracting text")

	switch kind {
	case KindText:
		return strings.ToValidUTF8(string(data), ""), nil
	case KindPDF:
		pages, err := e.PDFPages(ctx, data)
		if err != nil {
			return "", fmt.Errorf("ExtractText: %w", err)
		}
		return strings.Join(pages, "\n"), nil
	case KindImage:
		text, err := e.OCR.Image(ctx, data, filepath.Ext(name))
		if err != nil {
			return "", fmt.Errorf("ExtractText: %w", err)
		}
		return text, nil
	default:
		return "", ErrUnsupportedFormat
	}
}

// StatementText extracts a bank statement. PDFs and text files are read as
// in ExtractText; any other extension is treated as a scanned image, so tif,
// bmp and webp scans are OCRed too.
func (e *Extractor) StatementText(ctx context.Context, name string, data []byte) (string, error) {
	switch KindOf(name) {
	case KindPDF, KindText:
		return e.ExtractText(ctx, name, data)
	}
	text, err := e.OCR.Image(ctx, data, filepath.Ext(name))
	if err != nil {
		return "", fmt.Errorf("StatementText: %w", err)
	}
	return text, nil
}
