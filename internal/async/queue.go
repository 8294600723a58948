// Package async runs pipeline work on a bounded worker pool so the
// watcher and CLI callers never block on parsing or storage.
package async

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/ktanaka/notices-tracker/internal/pipeline"
)

// Job is one OCR text dump waiting to be processed. ImageID defaults to
// the file name when empty.
type Job struct {
	Path        string
	ImageID     string
	Confidence  float64
	SubmittedAt time.Time
}

type ProcessorQueue struct {
	proc    *pipeline.Processor
	logger  *slog.Logger
	workers int
	timeout time.Duration

	ch   chan Job
	wg   sync.WaitGroup
	once sync.Once

	mu     sync.Mutex
	closed bool
}

type Option func(*ProcessorQueue)

func WithWorkers(n int) Option {
	return func(q *ProcessorQueue) {
		if n > 0 {
			q.workers = n
		}
	}
}

func WithQueueSize(n int) Option {
	return func(q *ProcessorQueue) {
		if n > 0 {
			q.ch = make(chan Job, n)
		}
	}
}

func WithProcessTimeout(d time.Duration) Option {
	return func(q *ProcessorQueue) {
		if d > 0 {
			q.timeout = d
		}
	}
}

func NewProcessorQueue(proc *pipeline.Processor, logger *slog.Logger, opts ...Option) *ProcessorQueue {
	if logger == nil {
		logger = slog.Default()
	}
	q := &ProcessorQueue{
		proc:    proc,
		logger:  logger,
		workers: 4,
		timeout: time.Minute,
		ch:      make(chan Job, 256),
	}
	for _, o := range opts {
		o(q)
	}
	q.start()
	return q
}

func (q *ProcessorQueue) start() {
	q.once.Do(func() {
		for i := 0; i < q.workers; i++ {
			q.wg.Add(1)
			go func(workerID int) {
				defer q.wg.Done()
				q.logger.Info("worker started", "worker_id", workerID)

				for job := range q.ch {
					ctx, cancel := context.WithTimeout(context.Background(), q.timeout)
					err := q.handle(ctx, job)
					cancel()

					if err != nil {
						q.logger.Error("processing failed", "worker_id", workerID, "path", job.Path, "error", err)
					} else {
						q.logger.Info("processed dump", "worker_id", workerID, "path", job.Path)
					}
				}

				q.logger.Info("worker stopped", "worker_id", workerID)
			}(i + 1)
		}
	})
}

func (q *ProcessorQueue) handle(ctx context.Context, job Job) error {
	raw, err := os.ReadFile(job.Path)
	if err != nil {
		return err
	}
	imageID := job.ImageID
	if imageID == "" {
		imageID = filepath.Base(job.Path)
	}
	_, err = q.proc.Process(ctx, pipeline.Document{
		ImageID:    imageID,
		RawText:    string(raw),
		Confidence: job.Confidence,
	})
	return err
}

func (q *ProcessorQueue) Enqueue(_ context.Context, job Job) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		q.logger.Warn("cannot enqueue: queue is shutting down", "path", job.Path)
		return nil
	}
	select {
	case q.ch <- job:
		q.logger.Info("queued dump for processing", "path", job.Path)
	default:
		q.logger.Warn("queue full, applying backpressure", "path", job.Path)
		q.ch <- job
	}
	return nil
}

func (q *ProcessorQueue) Shutdown(ctx context.Context) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	close(q.ch)
	q.mu.Unlock()

	done := make(chan struct{})
	go func() { defer close(done); q.wg.Wait() }()

	select {
	case <-ctx.Done():
		q.logger.Warn("shutdown interrupted by context")
	case <-done:
		q.logger.Info("queue drained, shutdown complete")
	}
}
