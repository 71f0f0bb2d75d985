package main

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/dvloznov/txnscan/internal/api/handlers"
	"github.com/dvloznov/txnscan/internal/config"
	"github.com/dvloznov/txnscan/internal/extractor"
	"github.com/dvloznov/txnscan/internal/statement"
)

// newStatementHandler returns nil when no model can be reached, which leaves
// /api/statement unregistered.
func newStatementHandler(ctx context.Context, cfg *config.Config, ext *extractor.Extractor, testMode bool, log zerolog.Logger) *handlers.StatementHandler {
	prompts, err := statement.LoadPrompts(cfg.Gemini.PromptDir)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load prompts")
	}

	proc := &statement.Processor{
		Extractor:    ext,
		Prompts:      prompts,
		TestMode:     testMode,
		SampleOutput: cfg.Gemini.SampleOutput,
	}

	if !testMode {
		model, err := statement.NewGeminiModel(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model, cfg.Gemini.Timeout)
		if err != nil {
			log.Warn().Err(err).Msg("No Gemini client - /api/statement disabled")
			return nil
		}
		proc.Model = model
	}

	return handlers.NewStatementHandler(proc, log)
}
