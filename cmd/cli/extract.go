package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dvloznov/txnscan/internal/gcs"
	"github.com/dvloznov/txnscan/internal/pipeline"
	"github.com/dvloznov/txnscan/internal/writer"
)

var (
	extText   string
	extPrefix string
	extCSV    string
	extXLSX   string
	extChart  string
	extJSON   bool
)

var extractCmd = &cobra.Command{
	Use:   "extract [file | gs://bucket/object]",
	Short: "Extract transactions, summarize them and flag anomalies",
	Long: `extract reads a .txt/.log/.csv, .pdf or .png/.jpg file (local or gs://),
or the text given with --text, and prints a markdown summary with the
amounts the isolation forest flags as outliers.

With --gcs-prefix every object under a gs:// prefix is analyzed in turn.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		analyzer := pipeline.NewAnalyzer(newExtractor(), anomalyConfig())
		analyzer.Chart = extChart != ""

		if extPrefix != "" || (len(args) == 1 && gcs.IsURI(args[0])) {
			store, err := newStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()
			analyzer.Store = store
		}

		if extPrefix != "" {
			results, err := analyzer.AnalyzePrefix(ctx, extPrefix)
			if err != nil {
				return err
			}
			for _, res := range results {
				fmt.Printf("## %s\n\n", res.Source)
				if err := emit(res); err != nil {
					return err
				}
				fmt.Println()
			}
			return nil
		}

		res, err := analyzeArgs(ctx, analyzer, args)
		if err != nil {
			return err
		}
		return emit(res)
	},
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().StringVar(&extText, "text", "", "Analyze this text instead of a file")
	extractCmd.Flags().StringVar(&extPrefix, "gcs-prefix", "", "Analyze every object under this gs:// prefix")
	extractCmd.Flags().StringVar(&extCSV, "csv", "", "Write the flagged transactions to this CSV file")
	extractCmd.Flags().StringVar(&extXLSX, "xlsx", "", "Write the flagged transactions to this XLSX file")
	extractCmd.Flags().StringVar(&extChart, "chart", "", "Write the summary chart to this PNG file")
	extractCmd.Flags().BoolVar(&extJSON, "json", false, "Print the result as JSON instead of markdown")
}

func analyzeArgs(ctx context.Context, analyzer *pipeline.Analyzer, args []string) (*pipeline.Result, error) {
	if len(args) == 0 {
		return analyzer.Analyze(ctx, pipeline.Input{Text: extText})
	}
	if gcs.IsURI(args[0]) {
		return analyzer.AnalyzeURI(ctx, args[0])
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", args[0], err)
	}
	return analyzer.Analyze(ctx, pipeline.Input{Filename: filepath.Base(args[0]), Data: data, Text: extText})
}

// emit prints the result and writes any requested exports. A notice result
// is printed as-is and skips the exports.
func emit(res *pipeline.Result) error {
	if extJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
	if res.Message != "" {
		fmt.Println(res.Message)
		return nil
	}
	fmt.Println(res.Markdown)

	var errs []error
	if extCSV != "" {
		errs = append(errs, (&writer.CSVWriter{Source: res.Source}).WriteToFile(extCSV, res.Flagged))
	}
	if extXLSX != "" {
		errs = append(errs, (&writer.XLSXWriter{}).WriteToFile(extXLSX, res.Flagged))
	}
	if extChart != "" && len(res.Chart) > 0 {
		errs = append(errs, os.WriteFile(extChart, res.Chart, 0o644))
	}
	return errors.Join(errs...)
}
