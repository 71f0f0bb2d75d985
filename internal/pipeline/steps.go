package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dvloznov/txnscan/internal/anomaly"
	"github.com/dvloznov/txnscan/internal/extractor"
	"github.com/dvloznov/txnscan/internal/parser"
	"github.com/dvloznov/txnscan/internal/report"
	"github.com/dvloznov/txnscan/internal/summary"
)

// Step represents a single step in the analysis pipeline.
type Step interface {
	Execute(ctx context.Context, state *State) error
}

// State holds the shared state across all pipeline steps.
type State struct {
	Input  Input
	Text   string
	Result *Result
}

// stopped reports whether an earlier step ended the run with a notice.
func (s *State) stopped() bool {
	return s.Result.Message != ""
}

// Step 1: ExtractTextStep picks the file or the pasted text.
type ExtractTextStep struct {
	Extractor TextExtractor
}

func (s *ExtractTextStep) Execute(ctx context.Context, state *State) error {
	if !state.Input.HasFile() {
		state.Text = state.Input.Text
	} else {
		text, err := s.Extractor.ExtractText(ctx, state.Input.Filename, state.Input.Data)
		if errors.Is(err, extractor.ErrUnsupportedFormat) {
			state.Result.Message = extractor.UnsupportedFormatNotice
			return nil
		}
		if err != nil {
			return fmt.Errorf("extract text: %w", err)
		}
		state.Text = text
	}

	if strings.TrimSpace(state.Text) == "" {
		state.Result.Message = NoInputNotice
	}
	return nil
}

// Step 2: ParseStep pulls transaction records out of the text.
type ParseStep struct{}

func (s *ParseStep) Execute(ctx context.Context, state *State) error {
	records := parser.Parse(state.Text)
	if len(records) == 0 {
		state.Result.Message = NoTransactionsNotice
		return nil
	}
	state.Result.Records = records
	return nil
}

// Step 3: FlagStep labels every record with the isolation forest.
type FlagStep struct {
	Config anomaly.Config
}

func (s *FlagStep) Execute(ctx context.Context, state *State) error {
	flagged, err := anomaly.FlagRecords(state.Result.Records, s.Config)
	if err != nil {
		return fmt.Errorf("flag anomalies: %w", err)
	}
	state.Result.Flagged = flagged
	return nil
}

// Step 4: SummarizeStep aggregates amounts per transaction type.
type SummarizeStep struct{}

func (s *SummarizeStep) Execute(ctx context.Context, state *State) error {
	sum, err := summary.Aggregate(state.Result.Records)
	if err != nil {
		return fmt.Errorf("summarize: %w", err)
	}
	state.Result.Summary = sum
	return nil
}

// Step 5: RenderStep builds the markdown report and, optionally, the chart.
type RenderStep struct {
	Chart bool
}

func (s *RenderStep) Execute(ctx context.Context, state *State) error {
	state.Result.Markdown = report.Markdown(state.Result.Summary, state.Result.Flagged)
	if !s.Chart {
		return nil
	}
	png, err := report.ChartPNG(state.Result.Flagged)
	if err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	state.Result.Chart = png
	return nil
}

// Pipeline executes a sequence of steps in order.
type Pipeline struct {
	steps []Step
}

// NewPipeline creates a new pipeline with the given steps.
func NewPipeline(steps ...Step) *Pipeline {
	return &Pipeline{steps: steps}
}

// Execute runs the steps sequentially, stopping at the first error or at the
// first step that leaves a notice in the result.
func (p *Pipeline) Execute(ctx context.Context, state *State) error {
	for i, step := range p.steps {
		if err := step.Execute(ctx, state); err != nil {
			return fmt.Errorf("pipeline step %d failed: %w", i+1, err)
		}
		if state.stopped() {
			return nil
		}
	}
	return nil
}
