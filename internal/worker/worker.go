package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gifts-prodinf/gifts-jobs/internal/domain"
	"github.com/gifts-prodinf/gifts-jobs/internal/worker/pipeline"
	"github.com/gifts-prodinf/gifts-jobs/internal/worker/storage"
	"github.com/gifts-prodinf/gifts-jobs/shared/postgresql"
	"github.com/gifts-prodinf/gifts-jobs/shared/rabbitmq"
)

// Config holds worker configuration
type Config struct {
	Logger            *slog.Logger
	DBClient          *postgresql.Client
	RabbitClient      *rabbitmq.Client
	Pipeline          *pipeline.Registry
	Concurrency       int
	JobTimeout        time.Duration
	HeartbeatInterval time.Duration
	PrefetchCount     int
}

// jobStorage is the slice of worker storage the processor needs
type jobStorage interface {
	ClaimJob(ctx context.Context, jobID int64, workerID string) (*domain.Job, error)
	FinishJob(ctx context.Context, jobID int64, status, errorMsg string) error
	UpdateJobHeartbeat(ctx context.Context, jobID int64) error
}

// Worker consumes dispatch signals from the pipeline queue, claims the jobs
// they name and runs the kind-specific pipeline task for each.
type Worker struct {
	logger            *slog.Logger
	rabbitClient      *rabbitmq.Client
	storage           jobStorage
	pipeline          *pipeline.Registry
	workerID          string
	concurrency       int
	jobTimeout        time.Duration
	heartbeatInterval time.Duration
	prefetchCount     int
	jobsChan          chan *domain.JobMessage
	wg                sync.WaitGroup
	stopChan          chan struct{}
}

// NewWorker creates a new worker instance
func NewWorker(cfg *Config) *Worker {
	return &Worker{
		logger:            cfg.Logger,
		rabbitClient:      cfg.RabbitClient,
		storage:           storage.NewStorage(cfg.DBClient.DB(), cfg.Logger),
		pipeline:          cfg.Pipeline,
		workerID:          "gifts-worker-" + uuid.NewString(),
		concurrency:       cfg.Concurrency,
		jobTimeout:        cfg.JobTimeout,
		heartbeatInterval: cfg.HeartbeatInterval,
		prefetchCount:     cfg.PrefetchCount,
		jobsChan:          make(chan *domain.JobMessage),
		stopChan:          make(chan struct{}),
	}
}

// Start consumes the pipeline queue until ctx is canceled. It blocks for the
// lifetime of the worker.
func (w *Worker) Start(ctx context.Context) error {
	w.logger.Info("Starting worker",
		slog.String("worker_id", w.workerID),
		slog.Int("concurrency", w.concurrency),
		slog.Duration("job_timeout", w.jobTimeout),
	)

	deliveries, err := w.setupConsumer(ctx)
	if err != nil {
		return fmt.Errorf("failed to set up consumer: %w", err)
	}

	w.spawnWorkerPool(ctx)
	return w.startMessageDispatcher(ctx, deliveries)
}

// Stop gracefully stops the worker, waiting for in-flight jobs
func (w *Worker) Stop() {
	w.logger.Info("Stopping worker...")
	close(w.stopChan)
	w.wg.Wait()
	w.logger.Info("Worker stopped")
}
