package extractor

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"os"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/dvloznov/txnscan/internal/logger"
)

// PDFPages returns the text of every page in order. Pages with no text layer
// are OCRed when the tools are installed and left empty otherwise.
func (e *Extractor) PDFPages(ctx context.Context, data []byte) ([]string, error) {
	log := logger.FromContext(ctx)

	pages, err := readPDFText(data)
	if err != nil {
		return nil, err
	}

	var blank []int
	for i, p := range pages {
		if strings.TrimSpace(p) == "" {
			blank = append(blank, i)
		}
	}
	if len(blank) == 0 {
		return pages, nil
	}
	if !e.OCR.CanRasterize() {
		log.Warn().Int("blank_pages", len(blank)).Msg("PDF pages without text layer and no OCR tools; skipping")
		return pages, nil
	}

	tmp, err := os.CreateTemp("", "extract-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("PDFPages: create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("PDFPages: write temp file: %w", err)
	}
	tmp.Close()

	for _, i := range blank {
		text, err := e.OCR.PDFPage(ctx, tmp.Name(), i+1)
		if err != nil {
			// Log but continue; other pages might work
			log.Warn().Err(err).Int("page", i+1).Msg("OCR fallback failed")
			continue
		}
		pages[i] = text
	}
	return pages, nil
}

// readPDFText pulls the text layer of each page, one line per text row.
func readPDFText(data []byte) (pages []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("PDF library crashed: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open PDF: %w", err)
	}

	numPages := r.NumPage()
	if numPages == 0 {
		return nil, fmt.Errorf("PDF has no pages")
	}

	pages = make([]string, numPages)
	for i := 1; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text := pageByContent(page)
		if text == "" {
			text = pagePlainText(page)
		}
		pages[i-1] = text
	}
	return pages, nil
}

// pageByContent rebuilds the page's lines from positioned glyphs. Glyphs are
// grouped into rows by rounded Y, rows read top to bottom, and each row is
// ordered by X. The sort is stable so glyphs a font reports with no width
// keep their content-stream order.
func pageByContent(page pdf.Page) string {
	type row struct {
		y     int
		items []pdf.Text
	}

	var rows []*row
	byY := make(map[int]*row)
	for _, t := range page.Content().Text {
		if t.S == "" {
			continue
		}
		y := int(math.Round(t.Y))
		r, ok := byY[y]
		if !ok {
			r = &row{y: y}
			byY[y] = r
			rows = append(rows, r)
		}
		r.items = append(r.items, t)
	}

	// PDF Y grows upwards
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].y > rows[j].y })

	var lines []string
	for _, r := range rows {
		sort.SliceStable(r.items, func(i, j int) bool { return r.items[i].X < r.items[j].X })
		var b strings.Builder
		for _, t := range r.items {
			b.WriteString(t.S)
		}
		if line := strings.TrimSpace(b.String()); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

func pagePlainText(page pdf.Page) string {
	fonts := make(map[string]*pdf.Font)
	for _, name := range page.Fonts() {
		f := page.Font(name)
		fonts[name] = &f
	}
	text, err := page.GetPlainText(fonts)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(text)
}
