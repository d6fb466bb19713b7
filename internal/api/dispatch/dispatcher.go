package dispatch

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/gifts-prodinf/gifts-jobs/internal/api/store"
	"github.com/gifts-prodinf/gifts-jobs/internal/domain"
)

// Publisher hands a dispatch signal to the pipeline queue
type Publisher interface {
	Publish(ctx context.Context, body []byte, contentType string) error
}

// Dispatcher records a submission and hands it off to the pipeline queue
// without waiting for pipeline completion.
type Dispatcher struct {
	store     store.JobStore
	publisher Publisher
	logger    *slog.Logger
}

// NewDispatcher creates a new Dispatcher instance
func NewDispatcher(jobStore store.JobStore, publisher Publisher, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		store:     jobStore,
		publisher: publisher,
		logger:    logger,
	}
}

// Submit creates a SUBMITTED job of the given kind and enqueues its dispatch
// signal. The dispatcher's responsibility ends at a successful enqueue. When
// the enqueue fails the job record still exists and stays queryable; the
// returned error wraps a SchedulingError carrying the new job id.
func (d *Dispatcher) Submit(ctx context.Context, kind string) (int64, error) {
	job, err := d.store.Create(ctx, kind)
	if err != nil {
		return 0, fmt.Errorf("failed to record submission: %w", err)
	}

	msg := domain.JobMessage{
		JobID: job.ID,
		Kind:  job.Kind,
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return job.ID, &domain.SchedulingError{JobID: job.ID, Err: err}
	}

	if err := d.publisher.Publish(ctx, body, "application/json"); err != nil {
		d.logger.Error("Failed to enqueue dispatch signal",
			slog.Int64("job_id", job.ID),
			slog.String("kind", job.Kind),
			slog.String("error", err.Error()),
		)
		return job.ID, &domain.SchedulingError{JobID: job.ID, Err: err}
	}

	d.logger.Info("Job dispatched",
		slog.Int64("job_id", job.ID),
		slog.String("kind", job.Kind),
	)

	return job.ID, nil
}
