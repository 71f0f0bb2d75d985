package statement

import (
	"context"
	"errors"
	"fmt"
	"time"

	"google.golang.org/genai"
)

// DefaultTimeout bounds a single model call.
const DefaultTimeout = 30 * time.Second

// ErrEmptyResponse is returned when the model answers with no text.
var ErrEmptyResponse = errors.New("statement: empty response from model")

// Model sends a prompt to a language model and returns its text reply.
// This interface enables testing the processor without network access.
type Model interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GeminiModel is the Model backed by the Gemini API.
type GeminiModel struct {
	client  *genai.Client
	name    string
	timeout time.Duration
}

// NewGeminiModel creates a Gemini client. An empty apiKey lets the SDK read
// GOOGLE_API_KEY / GEMINI_API_KEY from the environment.
func NewGeminiModel(ctx context.Context, apiKey, name string, timeout time.Duration) (*GeminiModel, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      apiKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return nil, fmt.Errorf("NewGeminiModel: create genai client: %w", err)
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &GeminiModel{client: client, name: name, timeout: timeout}, nil
}

// Generate makes one call with the configured timeout. Failures are not retried.
func (m *GeminiModel) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	resp, err := m.client.Models.GenerateContent(ctx, m.name, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("Generate: generate content: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}
