package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dvloznov/txnscan/internal/anomaly"
	"github.com/dvloznov/txnscan/internal/api/handlers"
	"github.com/dvloznov/txnscan/internal/api/middleware"
	"github.com/dvloznov/txnscan/internal/config"
	"github.com/dvloznov/txnscan/internal/extractor"
	"github.com/dvloznov/txnscan/internal/gcs"
	"github.com/dvloznov/txnscan/internal/logger"
	"github.com/dvloznov/txnscan/internal/pipeline"
)

func main() {
	// Parse command-line flags
	var (
		configPath = flag.String("config", os.Getenv("TXNSCAN_CONFIG"), "Path to YAML config file (or set TXNSCAN_CONFIG env)")
		port       = flag.String("port", "", "HTTP server port (overrides config)")
		testMode   = flag.Bool("statement-test-mode", false, "Serve the sample output for /api/statement instead of calling the model")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		l := logger.Default()
		l.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if *port != "" {
		cfg.Port = *port
	}

	// Initialize logger
	log := logger.New(logger.Options{Level: cfg.LogLevel, JSON: cfg.LogFormat == "json"})
	ctx := context.Background()

	ext := extractor.New(extractor.OCR{
		TesseractPath: cfg.OCR.TesseractPath,
		PdftoppmPath:  cfg.OCR.PdftoppmPath,
		Language:      cfg.OCR.Language,
	})
	if !ext.OCR.IsAvailable() {
		log.Warn().Msg("Tesseract not found - image uploads will fail")
	}

	analyzer := pipeline.NewAnalyzer(ext, anomaly.Config{
		Contamination: cfg.Anomaly.Contamination,
		RandomSeed:    cfg.Anomaly.Seed,
		Trees:         cfg.Anomaly.Trees,
		MaxSamples:    anomaly.DefaultConfig().MaxSamples,
	})

	if cfg.Storage.Bucket != "" {
		store, err := gcs.NewClient(ctx, gcs.Options{
			CredentialsFile: cfg.Storage.CredentialsFile,
			Endpoint:        cfg.Storage.Endpoint,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create storage client")
		}
		defer store.Close()
		analyzer.Store = store
	}

	// Initialize handlers
	analyzeHandler := handlers.NewAnalyzeHandler(analyzer, log)
	statementHandler := newStatementHandler(ctx, cfg, ext, *testMode, log)

	handler := middleware.Chain(handlers.Routes(analyzeHandler, statementHandler), log, cfg.APIToken)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		// a statement request may wait on two model calls
		WriteTimeout: cfg.Gemini.Timeout*2 + 15*time.Second,
		IdleTimeout:  90 * time.Second,
	}

	stop, cancelSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancelSignals()

	serveErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", server.Addr).Bool("statement", statementHandler != nil).Bool("auth", cfg.APIToken != "").Msg("txnscan API listening")
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("API server stopped")
		}
		return
	case <-stop.Done():
	}

	log.Info().Msg("Draining in-flight requests")
	drainCtx, cancel := context.WithTimeout(context.Background(), server.WriteTimeout)
	defer cancel()
	if err := server.Shutdown(drainCtx); err != nil {
		log.Error().Err(err).Msg("Shutdown did not complete")
		return
	}
	log.Info().Msg("txnscan API stopped")
}
