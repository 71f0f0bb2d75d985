package statement

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

const (
	ExtractionPromptFile = "prompt_extraction.txt"
	InsightsPromptFile   = "prompt_insights.txt"
)

//go:embed prompts/*.txt
var defaultPrompts embed.FS

// Prompts holds the two instructions sent ahead of the statement text.
type Prompts struct {
	Extraction string
	Insights   string
}

// DefaultPrompts returns the built-in prompts.
func DefaultPrompts() Prompts {
	p, err := LoadPrompts("")
	if err != nil {
		// Embedded at build time; cannot be missing.
		panic(err)
	}
	return p
}

// LoadPrompts reads both prompt files from dir. A file missing from dir falls
// back to the built-in text; an empty dir uses the built-ins for both.
func LoadPrompts(dir string) (Prompts, error) {
	extraction, err := loadPrompt(dir, ExtractionPromptFile)
	if err != nil {
		return Prompts{}, err
	}
	insights, err := loadPrompt(dir, InsightsPromptFile)
	if err != nil {
		return Prompts{}, err
	}
	return Prompts{Extraction: extraction, Insights: insights}, nil
}

func loadPrompt(dir, name string) (string, error) {
	if dir != "" {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err == nil {
			return string(data), nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("loadPrompt: read %s: %w", name, err)
		}
	}

	data, err := defaultPrompts.ReadFile("prompts/" + name)
	if err != nil {
		return "", fmt.Errorf("loadPrompt: built-in %s: %w", name, err)
	}
	return string(data), nil
}
