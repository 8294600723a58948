package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/ktanaka/notices-tracker/internal/async"
	"github.com/ktanaka/notices-tracker/internal/common"
	"github.com/ktanaka/notices-tracker/internal/entity"
	"github.com/ktanaka/notices-tracker/internal/ingest"
	"github.com/ktanaka/notices-tracker/internal/keywords"
	"github.com/ktanaka/notices-tracker/internal/parser"
	"github.com/ktanaka/notices-tracker/internal/pipeline"
	"github.com/ktanaka/notices-tracker/internal/repository"
	"github.com/ktanaka/notices-tracker/internal/synthesizer"
)

func main() {
	// Logger
	logger, _ := zap.NewProduction()
	defer logger.Sync()
	log := logger.Sugar()

	// Env
	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}
	if len(cfg.Ingest.WatchRoots) == 0 {
		log.Fatal("WATCH_ROOTS env var is required")
	}

	catalog := keywords.Default()
	if cfg.KeywordsPath != "" {
		loaded, err := keywords.LoadFile(cfg.KeywordsPath)
		if err != nil {
			log.Fatalf("loading keyword catalog: %v", err)
		}
		catalog = loaded
	}

	thresholds, err := entity.NewConfidenceThresholds(
		cfg.Pipeline.MinAcceptable, cfg.Pipeline.ReviewRequired, cfg.Pipeline.AutoApprove)
	if err != nil {
		log.Fatalf("invalid thresholds: %v", err)
	}

	// Context with signal
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// Storage
	db, err := repository.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("opening database: %v", err)
	}
	defer db.Close()
	if err := repository.HealthCheck(ctx, db, 3*time.Second); err != nil {
		log.Fatalf("DB health failed: %v", err)
	}
	log.Infow("DB health OK", "path", cfg.Database.Path)

	slogger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	proc := pipeline.NewProcessor(
		slogger,
		parser.New(slogger, catalog),
		synthesizer.New(slogger, catalog),
		repository.NewOcrResultRepository(db, slogger),
		repository.NewActivityRepository(db, slogger),
		thresholds,
	)

	queue := async.NewProcessorQueue(proc, slogger,
		async.WithWorkers(cfg.Pipeline.Workers),
		async.WithQueueSize(cfg.Pipeline.QueueSize),
		async.WithProcessTimeout(cfg.Pipeline.ProcessTimeout),
	)

	events, errs, err := ingest.StartWatcher(ctx, ingest.WatchConfig{
		Roots:       cfg.Ingest.WatchRoots,
		InitialScan: cfg.Ingest.InitialScan,
		Debounce:    cfg.Ingest.Debounce,
	}, slogger)
	if err != nil {
		log.Fatalf("starting watcher: %v", err)
	}
	log.Infow("watching for OCR dumps", "roots", cfg.Ingest.WatchRoots)

	go func() {
		for err := range errs {
			log.Errorw("watcher error", "err", err)
		}
	}()

	for path := range events {
		_ = queue.Enqueue(ctx, async.Job{
			Path:        path,
			Confidence:  cfg.Ingest.DefaultConfidence,
			SubmittedAt: time.Now(),
		})
	}

	log.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	queue.Shutdown(shutdownCtx)
	fmt.Println("stopped.")
}
