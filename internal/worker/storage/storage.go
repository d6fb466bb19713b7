package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"

	"github.com/gifts-prodinf/gifts-jobs/internal/domain"
)

// Storage handles all database operations for the worker
type Storage struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewStorage creates a new Storage instance
func NewStorage(db *sqlx.DB, logger *slog.Logger) *Storage {
	return &Storage{
		db:     db,
		logger: logger,
	}
}

// ClaimJob moves a SUBMITTED job to RUNNING and stamps this worker on it.
// The conditional update makes the claim atomic: if another worker got there
// first the update matches no row and ErrJobAlreadyClaimed is returned.
func (s *Storage) ClaimJob(ctx context.Context, jobID int64, workerID string) (*domain.Job, error) {
	query := `
		UPDATE jobs
		SET status = $1,
		    worker_id = $2,
		    started_at = NOW(),
		    last_heartbeat_at = NOW(),
		    updated_at = NOW()
		WHERE job_id = $3
		  AND status = $4
		RETURNING job_id, kind, status, created_at, updated_at
	`

	var job domain.Job
	err := s.db.QueryRowxContext(ctx, query,
		domain.JobStatusRunning, workerID, jobID, domain.JobStatusSubmitted,
	).StructScan(&job)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.logger.Warn("Failed to claim job - already claimed or not found",
				slog.Int64("job_id", jobID),
				slog.String("worker_id", workerID),
			)
			return nil, domain.ErrJobAlreadyClaimed
		}
		return nil, domain.NewStorageError(fmt.Errorf("failed to claim job: %w", err))
	}

	s.logger.Info("Job claimed",
		slog.Int64("job_id", jobID),
		slog.String("worker_id", workerID),
		slog.String("kind", job.Kind),
	)

	return &job, nil
}

// FinishJob moves a RUNNING job to SUCCEEDED or FAILED and records the
// outcome. Finishing a job not in RUNNING state is an invalid transition.
func (s *Storage) FinishJob(ctx context.Context, jobID int64, status, errorMsg string) error {
	if !domain.IsTerminal(status) {
		return fmt.Errorf("cannot finish job %d with non-terminal status %s", jobID, status)
	}

	query := `
		UPDATE jobs
		SET status = $1,
		    error_message = NULLIF($2, ''),
		    finished_at = NOW(),
		    updated_at = NOW()
		WHERE job_id = $3
		  AND status = $4
	`

	result, err := s.db.ExecContext(ctx, query, status, errorMsg, jobID, domain.JobStatusRunning)
	if err != nil {
		return domain.NewStorageError(fmt.Errorf("failed to finish job: %w", err))
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return domain.NewStorageError(fmt.Errorf("failed to get rows affected: %w", err))
	}

	if rowsAffected == 0 {
		return domain.ErrInvalidTransition
	}

	s.logger.Info("Job finished",
		slog.Int64("job_id", jobID),
		slog.String("status", status),
	)

	return nil
}

// UpdateJobHeartbeat refreshes the last_heartbeat_at timestamp of a running job
func (s *Storage) UpdateJobHeartbeat(ctx context.Context, jobID int64) error {
	query := `
		UPDATE jobs
		SET last_heartbeat_at = NOW(),
		    updated_at = NOW()
		WHERE job_id = $1
		  AND status = $2
	`

	result, err := s.db.ExecContext(ctx, query, jobID, domain.JobStatusRunning)
	if err != nil {
		return fmt.Errorf("failed to update job heartbeat: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		s.logger.Warn("Job heartbeat update - no rows affected (job may not be running)",
			slog.Int64("job_id", jobID),
		)
	}

	return nil
}
