package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
)

var (
	uploadBucket string
	uploadObject string
)

var uploadCmd = &cobra.Command{
	Use:   "upload <file>",
	Short: "Upload a log, PDF or image to Google Cloud Storage",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		bucket := uploadBucket
		if bucket == "" {
			bucket = cfg.Storage.Bucket
		}
		if bucket == "" {
			return fmt.Errorf("--bucket is required (or set GCS_BUCKET)")
		}
		object := uploadObject
		if object == "" {
			object = filepath.Base(args[0])
		}

		store, err := newStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close()

		log.Info().Str("bucket", bucket).Str("object", object).Str("file", args[0]).Msg("Uploading file")
		uri, err := store.Upload(ctx, bucket, object, args[0])
		if err != nil {
			return err
		}
		log.Info().Str("uri", uri).Msg("Upload complete")
		fmt.Println(uri)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(uploadCmd)

	uploadCmd.Flags().StringVar(&uploadBucket, "bucket", "", "GCS bucket name (defaults to GCS_BUCKET)")
	uploadCmd.Flags().StringVar(&uploadObject, "object", "", "Object name (defaults to the file name)")
}
