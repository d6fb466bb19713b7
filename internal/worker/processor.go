package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gifts-prodinf/gifts-jobs/internal/domain"
)

// processJob claims the job a dispatch signal names, runs its pipeline task
// under the job timeout with heartbeats, and writes the terminal status.
func (w *Worker) processJob(ctx context.Context, msg *domain.JobMessage) error {
	job, err := w.storage.ClaimJob(ctx, msg.JobID, w.workerID)
	if err != nil {
		if errors.Is(err, domain.ErrJobAlreadyClaimed) {
			w.logger.Warn("Job already claimed, skipping",
				slog.Int64("job_id", msg.JobID),
			)
			return err
		}
		// Transient storage failure: the signal stays requeueable
		return domain.NewRetryableError(fmt.Errorf("failed to claim job: %w", err))
	}

	task, ok := w.pipeline.Task(job.Kind)
	if !ok {
		failMsg := fmt.Sprintf("no pipeline task registered for kind %s", job.Kind)
		w.finishJob(ctx, job.ID, domain.JobStatusFailed, failMsg)
		return errors.New(failMsg)
	}

	jobCtx, cancel := context.WithTimeout(ctx, w.jobTimeout)
	defer cancel()

	heartbeatDone := make(chan struct{})
	go w.sendJobHeartbeat(jobCtx, job.ID, heartbeatDone)
	defer close(heartbeatDone)

	if err := task(jobCtx, job); err != nil {
		w.logger.Error("Pipeline task failed",
			slog.Int64("job_id", job.ID),
			slog.String("kind", job.Kind),
			slog.String("error", err.Error()),
		)

		w.finishJob(ctx, job.ID, domain.JobStatusFailed, err.Error())
		return fmt.Errorf("pipeline task failed: %w", err)
	}

	w.logger.Info("Job completed successfully",
		slog.Int64("job_id", job.ID),
		slog.String("kind", job.Kind),
	)

	w.finishJob(ctx, job.ID, domain.JobStatusSucceeded, "")
	return nil
}

// finishJob writes the terminal status; a failure here is logged, not fatal,
// since the task outcome itself already happened.
func (w *Worker) finishJob(ctx context.Context, jobID int64, status, errorMsg string) {
	if err := w.storage.FinishJob(ctx, jobID, status, errorMsg); err != nil {
		w.logger.Error("Failed to record terminal job status",
			slog.Int64("job_id", jobID),
			slog.String("status", status),
			slog.String("error", err.Error()),
		)
	}
}

// sendJobHeartbeat periodically refreshes the job's heartbeat timestamp
func (w *Worker) sendJobHeartbeat(ctx context.Context, jobID int64, done <-chan struct{}) {
	interval := w.heartbeatInterval
	if interval <= 0 {
		interval = 30 * time.Second
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return

		case <-ctx.Done():
			return

		case <-ticker.C:
			if err := w.storage.UpdateJobHeartbeat(ctx, jobID); err != nil {
				w.logger.Warn("Failed to update job heartbeat",
					slog.Int64("job_id", jobID),
					slog.String("error", err.Error()),
				)
			}
		}
	}
}
