package pipeline

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/dvloznov/txnscan/internal/anomaly"
	"github.com/dvloznov/txnscan/internal/gcs"
	"github.com/dvloznov/txnscan/internal/logger"
)

// Analyzer runs the extract, parse, flag, summarize and render steps over
// one input at a time. It holds no per-request state.
type Analyzer struct {
	Extractor TextExtractor
	Anomaly   anomaly.Config
	// Chart enables PNG rendering.
	Chart bool
	// Store is only needed for AnalyzeURI and AnalyzePrefix.
	Store gcs.Store
}

// NewAnalyzer creates an Analyzer with charts enabled.
func NewAnalyzer(ext TextExtractor, cfg anomaly.Config) *Analyzer {
	return &Analyzer{Extractor: ext, Anomaly: cfg, Chart: true}
}

func (a *Analyzer) pipeline() *Pipeline {
	return NewPipeline(
		&ExtractTextStep{Extractor: a.Extractor},
		&ParseStep{},
		&FlagStep{Config: a.Anomaly},
		&SummarizeStep{},
		&RenderStep{Chart: a.Chart},
	)
}

// Analyze processes one input. Inputs with nothing to analyze are not errors:
// they come back with Result.Message set.
func (a *Analyzer) Analyze(ctx context.Context, in Input) (*Result, error) {
	runID := uuid.NewString()
	log := logger.FromContext(ctx).With().Str("run_id", runID).Str("file", in.Filename).Logger()

	state := &State{Input: in, Result: &Result{RunID: runID, Source: in.Filename}}
	if err := a.pipeline().Execute(logger.WithContext(ctx, log), state); err != nil {
		log.Error().Err(err).Msg("Analysis failed")
		return nil, fmt.Errorf("Analyze: %w", err)
	}

	res := state.Result
	if res.Message != "" {
		log.Info().Str("message", res.Message).Msg("Nothing to analyze")
		return res, nil
	}

	log.Info().
		Int("records", len(res.Records)).
		Int("outliers", res.Outliers()).
		Float64("total", res.Summary.Total).
		Msg("Analysis complete")
	return res, nil
}

// AnalyzeURI fetches a gs:// object and analyzes it.
func (a *Analyzer) AnalyzeURI(ctx context.Context, uri string) (*Result, error) {
	obj, err := gcs.ParseURI(uri)
	if err != nil {
		return nil, fmt.Errorf("AnalyzeURI: %w", err)
	}
	if a.Store == nil {
		return nil, fmt.Errorf("AnalyzeURI: no storage configured for %s", uri)
	}

	data, err := a.Store.Fetch(ctx, uri)
	if err != nil {
		return nil, fmt.Errorf("AnalyzeURI: %w", err)
	}

	res, err := a.Analyze(ctx, Input{Filename: obj.Filename(), Data: data})
	if err != nil {
		return nil, err
	}
	res.Source = uri
	return res, nil
}

// AnalyzePrefix analyzes every object under a gs:// prefix, one after the
// other. A failing object is logged and skipped.
func (a *Analyzer) AnalyzePrefix(ctx context.Context, prefixURI string) ([]*Result, error) {
	log := logger.FromContext(ctx)
	if a.Store == nil {
		return nil, fmt.Errorf("AnalyzePrefix: no storage configured for %s", prefixURI)
	}

	objects, err := a.Store.List(ctx, prefixURI)
	if err != nil {
		return nil, fmt.Errorf("AnalyzePrefix: %w", err)
	}

	results := make([]*Result, 0, len(objects))
	for _, obj := range objects {
		res, err := a.AnalyzeURI(ctx, obj.URI())
		if err != nil {
			log.Error().Err(err).Str("uri", obj.URI()).Msg("Skipping object")
			continue
		}
		results = append(results, res)
	}
	return results, nil
}
