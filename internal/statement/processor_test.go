package statement

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dvloznov/txnscan/internal/extractor"
)

// fakeModel replays canned replies in order and records every prompt.
type fakeModel struct {
	replies []string
	err     error
	prompts []string
}

func (m *fakeModel) Generate(ctx context.Context, prompt string) (string, error) {
	m.prompts = append(m.prompts, prompt)
	if m.err != nil {
		return "", m.err
	}
	if len(m.replies) == 0 {
		return "", errors.New("fakeModel: no reply left")
	}
	reply := m.replies[0]
	m.replies = m.replies[1:]
	return reply, nil
}

const extractionReply = `{"fields": {"Account Info": {"account holder": "Jane Doe", "account number": "12-34-5678 9012"}}}`

func newProcessor(m Model) *Processor {
	return &Processor{
		Model:     m,
		Extractor: extractor.New(extractor.DefaultOCR()),
		Prompts:   Prompts{Extraction: "EXTRACT", Insights: "INSIGHTS"},
	}
}

func TestProcessBytes(t *testing.T) {
	model := &fakeModel{replies: []string{extractionReply, `["Rent dominates spending."]`}}
	p := newProcessor(model)

	out, err := p.ProcessBytes(context.Background(), "statement.txt", []byte("Opening balance 100.00"))
	require.NoError(t, err)

	require.Len(t, model.prompts, 2)
	assert.Equal(t, "EXTRACT\n\nOpening balance 100.00", model.prompts[0])
	assert.True(t, strings.HasPrefix(model.prompts[1], "INSIGHTS\n\n{"))
	assert.Contains(t, model.prompts[1], "XXXX-XXXX-9012")
	assert.NotContains(t, model.prompts[1], "5678")

	info := out["fields"].(map[string]any)["Account Info"].(map[string]any)
	assert.Equal(t, "XXXX-XXXX-9012", info["account number"])
	assert.Equal(t, []any{"Rent dominates spending."}, out["insights"])

	quality := out["quality"].(map[string]any)
	assert.Equal(t, "N/A (Tesseract fallback)", quality["ocr_confidence"])
	assert.Equal(t, []any{}, quality["missing_sections"])
	assert.Equal(t, false, quality["duplicate_entries"])
	assert.Equal(t, "High", quality["gemini_confidence"])
}

func TestProcessBytes_FencedReply(t *testing.T) {
	fenced := "Here you go:\n```json\n" + extractionReply + "\n```\nThanks"
	model := &fakeModel{replies: []string{fenced, "Spending is stable."}}

	out, err := newProcessor(model).ProcessBytes(context.Background(), "s.txt", []byte("x"))
	require.NoError(t, err)

	assert.Equal(t, []any{"Spending is stable."}, out["insights"])
	info := out["fields"].(map[string]any)["Account Info"].(map[string]any)
	assert.Equal(t, "XXXX-XXXX-9012", info["account number"])
}

func TestProcessBytes_InvalidJSON(t *testing.T) {
	model := &fakeModel{replies: []string{"sorry, I cannot help with that"}}

	_, err := newProcessor(model).ProcessBytes(context.Background(), "s.txt", []byte("x"))
	assert.ErrorIs(t, err, ErrInvalidModelJSON)
	assert.Len(t, model.prompts, 1)
}

func TestProcessBytes_InvalidInsightsList(t *testing.T) {
	model := &fakeModel{replies: []string{`{"fields": {}}`, `["unterminated`}}

	_, err := newProcessor(model).ProcessBytes(context.Background(), "s.txt", []byte("x"))
	assert.ErrorIs(t, err, ErrInvalidModelJSON)
}

func TestProcessBytes_ModelError(t *testing.T) {
	boom := errors.New("deadline exceeded")
	model := &fakeModel{err: boom}

	_, err := newProcessor(model).ProcessBytes(context.Background(), "s.txt", []byte("x"))
	assert.ErrorIs(t, err, boom)
}

func TestProcessBytes_OtherExtensionsGoToOCR(t *testing.T) {
	for _, name := range []string{"scan.tif", "scan.bmp", "scan.webp", "scan.PNG"} {
		t.Run(name, func(t *testing.T) {
			model := &fakeModel{}
			p := newProcessor(model)
			p.Extractor = extractor.New(extractor.OCR{TesseractPath: "/nonexistent/tesseract-12345"})

			_, err := p.ProcessBytes(context.Background(), name, []byte("image bytes"))
			assert.ErrorIs(t, err, extractor.ErrOCRUnavailable)
			assert.NotErrorIs(t, err, extractor.ErrUnsupportedFormat)
			assert.Empty(t, model.prompts)
		})
	}
}

func TestProcess_ReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "statement.txt")
	require.NoError(t, os.WriteFile(path, []byte("balance"), 0o600))
	model := &fakeModel{replies: []string{`{"fields": {}}`, `[]`}}

	out, err := newProcessor(model).Process(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, []any{}, out["insights"])

	_, err = newProcessor(model).Process(context.Background(), filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}

func TestProcess_TestMode(t *testing.T) {
	model := &fakeModel{}
	p := newProcessor(model)
	p.TestMode = true
	p.SampleOutput = filepath.Join("testdata", "sample_output.json")

	out, err := p.Process(context.Background(), "does-not-exist.pdf")
	require.NoError(t, err)
	assert.Contains(t, out, "fields")
	assert.Contains(t, out, "quality")
	assert.Empty(t, model.prompts)
}

func TestMaskAccountNumber(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"12345678", "XXXX-XXXX-5678"},
		{"GB29 NWBK 6016 1331 9268 19", "XXXX-XXXX-6819"},
		{"1234", "XXXX-XXXX-1234"},
		{"123", "123"},
		{"", ""},
		{"n/a", "n/a"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, MaskAccountNumber(tt.in))
		})
	}
}

func TestStripFences(t *testing.T) {
	assert.Equal(t, "\n{}\n", stripFences("```json\n{}\n```"))
	assert.Equal(t, "\n[2]\n", stripFences("```json\n[1]\n``` then ```json\n[2]\n```"))
	assert.Equal(t, "{}", stripFences("  {}  "))
}

func TestLoadPrompts(t *testing.T) {
	defaults := DefaultPrompts()
	assert.Contains(t, defaults.Extraction, "Account Info")
	assert.Contains(t, defaults.Insights, "JSON array")

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ExtractionPromptFile), []byte("custom"), 0o600))

	p, err := LoadPrompts(dir)
	require.NoError(t, err)
	assert.Equal(t, "custom", p.Extraction)
	assert.Equal(t, defaults.Insights, p.Insights)
}
