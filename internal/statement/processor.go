package statement

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/dvloznov/txnscan/internal/extractor"
	"github.com/dvloznov/txnscan/internal/logger"
)

// ErrInvalidModelJSON is returned when a model reply cannot be decoded even
// after stripping code fences.
var ErrInvalidModelJSON = errors.New("statement: model returned invalid JSON")

// Processor turns a bank statement file into structured JSON with insights.
type Processor struct {
	Model     Model
	Extractor *extractor.Extractor
	Prompts   Prompts

	// TestMode skips extraction and the model and returns SampleOutput.
	TestMode     bool
	SampleOutput string
}

// Process reads the statement at path and processes it.
func (p *Processor) Process(ctx context.Context, path string) (map[string]any, error) {
	if p.TestMode {
		return p.sample(ctx)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("Process: read %s: %w", path, err)
	}
	return p.ProcessBytes(ctx, filepath.Base(path), data)
}

// ProcessBytes runs the extraction and insights calls over an in-memory file.
// name decides how its text is extracted.
func (p *Processor) ProcessBytes(ctx context.Context, name string, data []byte) (map[string]any, error) {
	log := logger.FromContext(ctx).With().Str("file", name).Logger()

	if p.TestMode {
		return p.sample(ctx)
	}

	text, err := p.Extractor.StatementText(ctx, name, data)
	if err != nil {
		return nil, fmt.Errorf("ProcessBytes: extract text: %w", err)
	}
	log.Info().Int("chars", len(text)).Msg("Statement text extracted")

	reply, err := p.Model.Generate(ctx, p.Prompts.Extraction+"\n\n"+text)
	if err != nil {
		return nil, fmt.Errorf("ProcessBytes: extraction call: %w", err)
	}

	result, err := decodeObject(reply)
	if err != nil {
		log.Warn().Msg("Model returned invalid JSON, stripping code fences")
		result, err = decodeObject(stripFences(reply))
		if err != nil {
			return nil, fmt.Errorf("ProcessBytes: %w", err)
		}
	}

	maskAccountInfo(result)

	extracted, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("ProcessBytes: encode extracted JSON: %w", err)
	}
	insightsReply, err := p.Model.Generate(ctx, p.Prompts.Insights+"\n\n"+string(extracted))
	if err != nil {
		return nil, fmt.Errorf("ProcessBytes: insights call: %w", err)
	}
	insights, err := decodeInsights(insightsReply)
	if err != nil {
		return nil, fmt.Errorf("ProcessBytes: %w", err)
	}

	result["insights"] = insights
	result["quality"] = qualityBlock()

	log.Info().Int("insights", len(insights)).Msg("Statement processed")
	return result, nil
}

func (p *Processor) sample(ctx context.Context) (map[string]any, error) {
	log := logger.FromContext(ctx)
	log.Info().Str("file", p.SampleOutput).Msg("Test mode: returning sample output")

	data, err := os.ReadFile(p.SampleOutput)
	if err != nil {
		return nil, fmt.Errorf("sample: read %s: %w", p.SampleOutput, err)
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("sample: decode %s: %w", p.SampleOutput, err)
	}
	return out, nil
}

func decodeObject(s string) (map[string]any, error) {
	var out map[string]any
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidModelJSON, err)
	}
	if out == nil {
		return nil, fmt.Errorf("%w: not a JSON object", ErrInvalidModelJSON)
	}
	return out, nil
}

// stripFences keeps the text after the last "```json" marker and before the
// next "```".
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.LastIndex(s, "```json"); i != -1 {
		s = s[i+len("```json"):]
	}
	if i := strings.Index(s, "```"); i != -1 {
		s = s[:i]
	}
	return s
}

// decodeInsights decodes a JSON list; any other reply becomes a single entry.
func decodeInsights(reply string) ([]any, error) {
	if !strings.HasPrefix(strings.TrimSpace(reply), "[") {
		return []any{reply}, nil
	}
	var out []any
	if err := json.Unmarshal([]byte(reply), &out); err != nil {
		return nil, fmt.Errorf("%w: insights: %v", ErrInvalidModelJSON, err)
	}
	return out, nil
}

func maskAccountInfo(result map[string]any) {
	fields, ok := result["fields"].(map[string]any)
	if !ok {
		return
	}
	info, ok := fields["Account Info"].(map[string]any)
	if !ok {
		return
	}
	if number, ok := info["account number"].(string); ok {
		info["account number"] = MaskAccountNumber(number)
	}
}

// MaskAccountNumber keeps only the last four digits, e.g.
// "12-34-5678 9012" -> "XXXX-XXXX-9012". Fewer than four digits are returned
// unchanged.
func MaskAccountNumber(number string) string {
	var digits []rune
	for _, r := range number {
		if unicode.IsDigit(r) {
			digits = append(digits, r)
		}
	}
	if len(digits) < 4 {
		return number
	}
	return "XXXX-XXXX-" + string(digits[len(digits)-4:])
}

func qualityBlock() map[string]any {
	return map[string]any{
		"ocr_confidence":    "N/A (Tesseract fallback)",
		"missing_sections":  []any{},
		"duplicate_entries": false,
		"gemini_confidence": "High",
	}
}
