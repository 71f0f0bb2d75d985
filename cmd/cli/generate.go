package main

import (
	"fmt"
	"path"

	"github.com/spf13/cobra"

	"github.com/dvloznov/txnscan/internal/generator"
)

var (
	genOutDir string
	genSeed   int64
	genBucket string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a synthetic transaction log and its PDF rendering",
	Long: `generate writes transactions_fixed.log and transactions.pdf: well-formed
lines mixed with a fixed catalogue of malformed and suspicious entries.
With --bucket both files are also uploaded to Google Cloud Storage.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		outDir := cfg.Generator.OutDir
		if cmd.Flags().Changed("out") {
			outDir = genOutDir
		}
		seed := cfg.Generator.Seed
		if cmd.Flags().Changed("seed") {
			seed = genSeed
		}
		bucket := cfg.Storage.Bucket
		if cmd.Flags().Changed("bucket") {
			bucket = genBucket
		}

		txLog := generator.Generate(generator.Config{
			Seed:     seed,
			Count:    cfg.Generator.Count,
			MaxLines: cfg.Generator.MaxLines,
		})

		logPath, pdfPath, err := txLog.WriteFiles(outDir, generator.PDFOptions{FontPath: cfg.Generator.FontPath})
		if err != nil {
			return err
		}
		log.Info().Int("lines", len(txLog.Lines)).Str("log", logPath).Str("pdf", pdfPath).Msg("Dataset generated")

		fmt.Printf("✅ New dataset generated:\n  %s\n  %s\n", logPath, pdfPath)

		if bucket == "" {
			return nil
		}

		store, err := newStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close()

		prefix := path.Join("generated", txLog.GeneratedAt.Format("2006/01/02/150405"))
		for _, p := range []string{logPath, pdfPath} {
			uri, err := store.Upload(ctx, bucket, path.Join(prefix, path.Base(p)), p)
			if err != nil {
				return fmt.Errorf("upload %s: %w", p, err)
			}
			log.Info().Str("uri", uri).Msg("Uploaded")
			fmt.Printf("  %s\n", uri)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringVar(&genOutDir, "out", ".", "Directory to write the log and PDF into")
	generateCmd.Flags().Int64Var(&genSeed, "seed", 0, "Random seed (0 picks one at random)")
	generateCmd.Flags().StringVar(&genBucket, "bucket", "", "Also upload both files to this GCS bucket")
}
