package async

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ktanaka/notices-tracker/constants"
	"github.com/ktanaka/notices-tracker/internal/entity"
	"github.com/ktanaka/notices-tracker/internal/keywords"
	"github.com/ktanaka/notices-tracker/internal/parser"
	"github.com/ktanaka/notices-tracker/internal/pipeline"
	"github.com/ktanaka/notices-tracker/internal/repository"
	"github.com/ktanaka/notices-tracker/internal/synthesizer"
)

func testPipeline(t *testing.T) (*pipeline.Processor, repository.OcrResultRepository) {
	t.Helper()
	db, err := repository.Open(filepath.Join(t.TempDir(), "notices.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	catalog := keywords.Default()
	results := repository.NewOcrResultRepository(db, logger)
	thresholds, err := entity.NewConfidenceThresholds(0.3, 0.6, 0.85)
	if err != nil {
		t.Fatalf("NewConfidenceThresholds: %v", err)
	}
	proc := pipeline.NewProcessor(logger,
		parser.New(logger, catalog),
		synthesizer.New(logger, catalog),
		results,
		repository.NewActivityRepository(db, logger),
		thresholds)
	return proc, results
}

func writeDump(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write dump: %v", err)
	}
	return path
}

func TestQueueProcessesDumps(t *testing.T) {
	proc, results := testPipeline(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	q := NewProcessorQueue(proc, logger, WithWorkers(2), WithQueueSize(8))
	path := writeDump(t, "notice.txt", "遠足のお知らせ\n日時：3月15日（金）午前9時30分〜午後3時")

	if err := q.Enqueue(context.Background(), Job{Path: path, Confidence: 0.9, SubmittedAt: time.Now()}); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	q.Shutdown(ctx)

	processed, err := results.ListByStatus(context.Background(), constants.ProcessingCompleted, 0)
	if err != nil {
		t.Fatalf("ListByStatus: %v", err)
	}
	if len(processed) != 1 {
		t.Fatalf("len(processed) = %d, want 1", len(processed))
	}
	if processed[0].ImageID != "notice.txt" {
		t.Fatalf("image id = %q, want the file name fallback", processed[0].ImageID)
	}
}

func TestQueueRecordsFailure(t *testing.T) {
	proc, results := testPipeline(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	q := NewProcessorQueue(proc, logger, WithWorkers(1))
	path := writeDump(t, "blank.txt", "   ")
	if err := q.Enqueue(context.Background(), Job{Path: path, Confidence: 0.9}); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	q.Shutdown(ctx)

	failed, err := results.ListByStatus(context.Background(), constants.ProcessingFailed, 0)
	if err != nil {
		t.Fatalf("ListByStatus: %v", err)
	}
	if len(failed) != 1 {
		t.Fatalf("len(failed) = %d, want the blank dump recorded as failed", len(failed))
	}
}

func TestQueueEnqueueAfterShutdown(t *testing.T) {
	proc, _ := testPipeline(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	q := NewProcessorQueue(proc, logger, WithWorkers(1))
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	q.Shutdown(ctx)

	// Late enqueues are dropped, never a panic on the closed channel.
	if err := q.Enqueue(context.Background(), Job{Path: "late.txt"}); err != nil {
		t.Fatalf("Enqueue after shutdown: %v", err)
	}

	// Idempotent.
	q.Shutdown(context.Background())
}
