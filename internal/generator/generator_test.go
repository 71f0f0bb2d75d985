package generator

import (
	"bytes"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dvloznov/txnscan/internal/parser"
)

var normalLinePattern = regexp.MustCompile(`^TXN:(CREDIT|DEBIT) ? \| AMT:[$₹€£][\d,]+\.\d{2} \| ID:(AB|XY|INR|HH|EURO|TX|CN|US)\d{2,3}$`)

func fixedNow() time.Time {
	return time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
}

func isCatalogue(line string) bool {
	for _, a := range anomalyCatalogue {
		if a == line {
			return true
		}
	}
	return false
}

func TestGenerate_Shape(t *testing.T) {
	log := Generate(Config{Seed: 7, Now: fixedNow})

	require.Len(t, log.Lines, DefaultMaxLines)
	for _, a := range AnomalyCatalogue() {
		assert.Contains(t, log.Lines, a)
	}

	normal := 0
	for _, line := range log.Lines {
		if isCatalogue(line) {
			continue
		}
		normal++
		assert.Regexp(t, normalLinePattern, line)
	}
	assert.Equal(t, DefaultCount, normal)
}

func TestGenerate_Truncates(t *testing.T) {
	log := Generate(Config{Seed: 3, Count: 60, MaxLines: 50, Now: fixedNow})
	assert.Len(t, log.Lines, 50)

	log = Generate(Config{Seed: 3, Count: 5, MaxLines: 10, Now: fixedNow})
	assert.Len(t, log.Lines, 10)
}

func TestGenerate_Deterministic(t *testing.T) {
	a := Generate(Config{Seed: 42, Now: fixedNow})
	b := Generate(Config{Seed: 42, Now: fixedNow})
	c := Generate(Config{Seed: 43, Now: fixedNow})

	assert.Equal(t, a.Lines, b.Lines)
	assert.NotEqual(t, a.Lines, c.Lines)
}

func TestLog_Text(t *testing.T) {
	log := &Log{GeneratedAt: fixedNow(), Lines: []string{"a", "b"}}

	assert.Equal(t, "# Transaction Log generated: 2025-03-14 09:26:53", log.Header())
	assert.Equal(t, "# Transaction Log generated: 2025-03-14 09:26:53\na\nb\n", log.Text())

	var buf bytes.Buffer
	require.NoError(t, log.WriteLog(&buf))
	assert.Equal(t, log.Text(), buf.String())
}

func TestGenerate_ParsesBack(t *testing.T) {
	log := Generate(Config{Seed: 11, Now: fixedNow})

	pounds := 0
	for _, line := range log.Lines {
		if !isCatalogue(line) && strings.Contains(line, "AMT:£") {
			pounds++
		}
	}

	// BIGTXN1, ZERO001, OR, DUP100 twice and FRAC01 survive from the catalogue.
	records := parser.Parse(log.Text())
	assert.Len(t, records, DefaultCount-pounds+6)
}

func TestWritePDF(t *testing.T) {
	log := Generate(Config{Seed: 5, Now: fixedNow})

	var buf bytes.Buffer
	require.NoError(t, log.WritePDF(&buf, PDFOptions{}))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
}

func TestWritePDF_MissingFont(t *testing.T) {
	log := Generate(Config{Seed: 3})
	var buf bytes.Buffer

	err := log.WritePDF(&buf, PDFOptions{FontPath: filepath.Join(t.TempDir(), "missing.ttf")})
	assert.Error(t, err)
}

func TestWriteFiles(t *testing.T) {
	dir := t.TempDir()
	log := Generate(Config{Seed: 5, Now: fixedNow})

	logPath, pdfPath, err := log.WriteFiles(dir, PDFOptions{})
	require.NoError(t, err)
	assert.FileExists(t, logPath)
	assert.FileExists(t, pdfPath)
	assert.True(t, strings.HasSuffix(logPath, LogFileName))
}

func TestWrap(t *testing.T) {
	assert.Equal(t, []string{"short line"}, wrap("short line", 100))

	long := strings.Repeat("x", 30) + " " + strings.Repeat("y", 30)
	assert.Equal(t, []string{strings.Repeat("x", 30), strings.Repeat("y", 30)}, wrap(long, 40))

	assert.Equal(t, []string{"abcd", "efgh", "ij"}, wrap("abcdefghij", 4))
}

func TestPaginate(t *testing.T) {
	lines := make([]string, 100)
	pages := paginate(lines, LinesPerPage)
	require.Len(t, pages, 3)
	assert.Len(t, pages[0], 45)
	assert.Len(t, pages[2], 10)

	assert.Len(t, paginate(nil, LinesPerPage), 1)
}
