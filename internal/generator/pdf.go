package generator

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-pdf/fpdf"
	"golang.org/x/image/font/gofont/gomono"
)

const (
	// WrapColumns is the width at which long lines are wrapped in the PDF.
	WrapColumns = 100
	// LinesPerPage excludes the header repeated at the top of each page.
	LinesPerPage = 45

	fontSize   = 9.0
	lineHeight = 3.9
	margin     = 12.0
)

const fontFamily = "Mono"

// PDFOptions tunes the PDF rendering.
type PDFOptions struct {
	// FontPath points to a UTF-8 TTF monospace font. When empty the embedded
	// Go Mono font is used.
	FontPath string
}

// WritePDF renders the log onto A4 pages in a monospace font.
func (l *Log) WritePDF(w io.Writer, opts PDFOptions) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(false, margin)

	if opts.FontPath != "" {
		pdf.AddUTF8Font(fontFamily, "", opts.FontPath)
	} else {
		pdf.AddUTF8FontFromBytes(fontFamily, "", gomono.TTF)
	}
	if err := pdf.Error(); err != nil {
		return fmt.Errorf("WritePDF: load font: %w", err)
	}

	var wrapped []string
	for _, line := range l.Lines {
		wrapped = append(wrapped, wrap(line, WrapColumns)...)
	}

	for _, page := range paginate(wrapped, LinesPerPage) {
		pdf.AddPage()
		pdf.SetFont(fontFamily, "", fontSize)

		y := margin + lineHeight
		pdf.Text(margin, y, l.Header())
		for _, line := range page {
			y += lineHeight
			pdf.Text(margin, y, line)
		}
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("WritePDF: %w", err)
	}
	return nil
}

// wrap breaks s into lines of at most width runes, preferring the last space
// before the limit. Leading and trailing spaces at a break are dropped.
func wrap(s string, width int) []string {
	runes := []rune(s)
	if len(runes) <= width {
		return []string{s}
	}

	var out []string
	for len(runes) > width {
		cut := width
		for i := width; i > 0; i-- {
			if runes[i] == ' ' {
				cut = i
				break
			}
		}
		out = append(out, strings.TrimRight(string(runes[:cut]), " "))
		runes = []rune(strings.TrimLeft(string(runes[cut:]), " "))
	}
	if len(runes) > 0 {
		out = append(out, string(runes))
	}
	return out
}

// paginate splits lines into chunks of n. An empty log still gets one page.
func paginate(lines []string, n int) [][]string {
	if len(lines) == 0 {
		return [][]string{nil}
	}
	var pages [][]string
	for start := 0; start < len(lines); start += n {
		end := start + n
		if end > len(lines) {
			end = len(lines)
		}
		pages = append(pages, lines[start:end])
	}
	return pages
}
