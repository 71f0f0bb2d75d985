package extractor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// ErrOCRUnavailable is returned when the OCR binaries cannot be found.
var ErrOCRUnavailable = errors.New("extractor: OCR tools not available")

// OCR runs Tesseract (and pdftoppm for PDF pages) as external commands.
type OCR struct {
	TesseractPath string
	PdftoppmPath  string
	Language      string
}

// DefaultOCR looks the tools up on PATH and reads English.
func DefaultOCR() OCR {
	return OCR{TesseractPath: "tesseract", PdftoppmPath: "pdftoppm", Language: "eng"}
}

// IsAvailable reports whether tesseract can be found.
func (o OCR) IsAvailable() bool {
	_, err := exec.LookPath(o.tesseract())
	return err == nil
}

// CanRasterize reports whether PDF pages can be turned into images.
func (o OCR) CanRasterize() bool {
	_, err := exec.LookPath(o.pdftoppm())
	return err == nil && o.IsAvailable()
}

func (o OCR) tesseract() string {
	if o.TesseractPath == "" {
		return "tesseract"
	}
	return o.TesseractPath
}

func (o OCR) pdftoppm() string {
	if o.PdftoppmPath == "" {
		return "pdftoppm"
	}
	return o.PdftoppmPath
}

func (o OCR) language() string {
	if o.Language == "" {
		return "eng"
	}
	return o.Language
}

// Image runs Tesseract over an encoded image. ext picks the temp file suffix
// so tesseract can sniff the format.
func (o OCR) Image(ctx context.Context, data []byte, ext string) (string, error) {
	if !o.IsAvailable() {
		return "", fmt.Errorf("%w: %s not found", ErrOCRUnavailable, o.tesseract())
	}

	tmpDir, err := os.MkdirTemp("", "ocr-image-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	imgPath := filepath.Join(tmpDir, "input"+strings.ToLower(ext))
	if err := os.WriteFile(imgPath, data, 0o600); err != nil {
		return "", fmt.Errorf("failed to write image: %w", err)
	}

	return o.imageFile(ctx, imgPath)
}

// imageFile OCRs an image already on disk.
// PSM 4 = assume a single column of text of variable sizes.
func (o OCR) imageFile(ctx context.Context, path string) (string, error) {
	cmd := exec.CommandContext(ctx, o.tesseract(), path, "stdout", "-l", o.language(), "--psm", "4")
	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", fmt.Errorf("tesseract failed: %w (stderr: %s)", err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return "", fmt.Errorf("tesseract failed: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}

// PDFPage rasterizes one page (1-based) of the PDF at path and OCRs it.
func (o OCR) PDFPage(ctx context.Context, path string, page int) (string, error) {
	if !o.CanRasterize() {
		return "", fmt.Errorf("%w: need %s and %s", ErrOCRUnavailable, o.pdftoppm(), o.tesseract())
	}

	tmpDir, err := os.MkdirTemp("", "ocr-pages-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	// -r 300 = 300 DPI for good OCR quality
	n := strconv.Itoa(page)
	prefix := filepath.Join(tmpDir, "page")
	cmd := exec.CommandContext(ctx, o.pdftoppm(), "-r", "300", "-png", "-f", n, "-l", n, path, prefix)
	if out, err := cmd.CombinedOutput(); err != nil {
		return "", fmt.Errorf("pdftoppm failed: %w (output: %s)", err, string(out))
	}

	entries, err := os.ReadDir(tmpDir)
	if err != nil {
		return "", fmt.Errorf("failed to read temp dir: %w", err)
	}
	var images []string
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".png") {
			images = append(images, filepath.Join(tmpDir, e.Name()))
		}
	}
	sort.Strings(images)
	if len(images) == 0 {
		return "", fmt.Errorf("pdftoppm produced no image for page %d", page)
	}

	return o.imageFile(ctx, images[0])
}
