package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dvloznov/txnscan/internal/gcs"
	"github.com/dvloznov/txnscan/internal/statement"
)

var stmtTestMode bool

var statementCmd = &cobra.Command{
	Use:   "statement <file | gs://bucket/object>",
	Short: "Parse a bank statement PDF or image into JSON",
	Long: `statement extracts the text of a bank statement (PDF text layer, with
Tesseract OCR for scanned pages and images), asks the model for structured
fields and insights, masks the account number and prints the JSON.

--test prints the configured sample output without calling the model.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		prompts, err := statement.LoadPrompts(cfg.Gemini.PromptDir)
		if err != nil {
			return err
		}
		proc := &statement.Processor{
			Extractor:    newExtractor(),
			Prompts:      prompts,
			TestMode:     stmtTestMode,
			SampleOutput: cfg.Gemini.SampleOutput,
		}
		if !stmtTestMode {
			model, err := statement.NewGeminiModel(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model, cfg.Gemini.Timeout)
			if err != nil {
				return err
			}
			proc.Model = model
		}

		var out map[string]any
		if gcs.IsURI(args[0]) && !stmtTestMode {
			out, err = processURI(cmd, proc, args[0])
		} else {
			out, err = proc.Process(ctx, args[0])
		}
		if err != nil {
			return err
		}

		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return fmt.Errorf("encode result: %w", err)
		}
		fmt.Fprintln(os.Stdout, string(data))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statementCmd)

	statementCmd.Flags().BoolVar(&stmtTestMode, "test", false, "Run in test mode (print the sample output)")
}

func processURI(cmd *cobra.Command, proc *statement.Processor, uri string) (map[string]any, error) {
	ctx := cmd.Context()
	obj, err := gcs.ParseURI(uri)
	if err != nil {
		return nil, err
	}

	store, err := newStore(ctx)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	data, err := store.Fetch(ctx, uri)
	if err != nil {
		return nil, err
	}
	return proc.ProcessBytes(ctx, filepath.Base(obj.Name), data)
}
