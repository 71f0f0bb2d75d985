package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/dvloznov/txnscan/internal/anomaly"
	"github.com/dvloznov/txnscan/internal/config"
	"github.com/dvloznov/txnscan/internal/extractor"
	"github.com/dvloznov/txnscan/internal/gcs"
	"github.com/dvloznov/txnscan/internal/logger"
)

var (
	cfgFile string
	verbose bool

	cfg *config.Config
	log zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "txnscan",
	Short: "Transaction log generator, analyzer and bank statement parser",
	Long: `txnscan works with plain-text transaction logs of the form

  TXN:DEBIT  | AMT:$1,234.56 | ID:AB123

Commands:
  generate   Write a synthetic log (and its PDF) with injected anomalies
  extract    Parse a log, summarize it per type and flag outlying amounts
  statement  Turn a bank statement PDF or image into JSON with a language model`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return err
		}
		level := cfg.LogLevel
		if verbose {
			level = "debug"
		}
		log = logger.New(logger.Options{Level: level, JSON: cfg.LogFormat == "json"})
		cmd.SetContext(logger.WithContext(cmd.Context(), log))
		return nil
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", os.Getenv("TXNSCAN_CONFIG"), "Path to a YAML configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

func newExtractor() *extractor.Extractor {
	return extractor.New(extractor.OCR{
		TesseractPath: cfg.OCR.TesseractPath,
		PdftoppmPath:  cfg.OCR.PdftoppmPath,
		Language:      cfg.OCR.Language,
	})
}

func anomalyConfig() anomaly.Config {
	ac := anomaly.DefaultConfig()
	ac.Contamination = cfg.Anomaly.Contamination
	ac.RandomSeed = cfg.Anomaly.Seed
	ac.Trees = cfg.Anomaly.Trees
	return ac
}

func newStore(ctx context.Context) (*gcs.Client, error) {
	return gcs.NewClient(ctx, gcs.Options{
		CredentialsFile: cfg.Storage.CredentialsFile,
		Endpoint:        cfg.Storage.Endpoint,
	})
}
