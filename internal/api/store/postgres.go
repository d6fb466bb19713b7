package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"

	"github.com/gifts-prodinf/gifts-jobs/internal/domain"
	"github.com/gifts-prodinf/gifts-jobs/shared/postgresql"
)

// PostgresStore implements JobStore on top of PostgreSQL. The jobs table
// owns a BIGSERIAL sequence, so ids increase globally across all kinds.
type PostgresStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewPostgresStore creates a JobStore backed by the given PostgreSQL client
func NewPostgresStore(pg *postgresql.Client, logger *slog.Logger) *PostgresStore {
	return &PostgresStore{
		db:     pg.DB(),
		logger: logger,
	}
}

func (s *PostgresStore) Create(ctx context.Context, kind string) (*domain.Job, error) {
	if !domain.ValidKind(kind) {
		return nil, fmt.Errorf("unknown job kind %q", kind)
	}

	query := `
		INSERT INTO jobs (kind, status, created_at, updated_at)
		VALUES ($1, $2, NOW(), NOW())
		RETURNING job_id, kind, status, created_at, updated_at
	`

	var job domain.Job
	err := s.db.GetContext(ctx, &job, query, kind, domain.JobStatusSubmitted)
	if err != nil {
		return nil, domain.NewStorageError(fmt.Errorf("failed to create job: %w", err))
	}

	s.logger.Info("Job created",
		slog.Int64("job_id", job.ID),
		slog.String("kind", job.Kind),
	)

	return &job, nil
}

func (s *PostgresStore) Get(ctx context.Context, jobID int64) (*domain.Job, error) {
	query := `
		SELECT job_id, kind, status, created_at, updated_at
		FROM jobs
		WHERE job_id = $1
	`

	var job domain.Job
	err := s.db.GetContext(ctx, &job, query, jobID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrJobNotFound
		}
		return nil, domain.NewStorageError(fmt.Errorf("failed to get job: %w", err))
	}

	return &job, nil
}

func (s *PostgresStore) List(ctx context.Context, kind string) ([]domain.Job, error) {
	query := `
		SELECT job_id, kind, status, created_at, updated_at
		FROM jobs
		WHERE kind = $1
		ORDER BY job_id ASC
	`

	jobs := []domain.Job{}
	err := s.db.SelectContext(ctx, &jobs, query, kind)
	if err != nil {
		return nil, domain.NewStorageError(fmt.Errorf("failed to list jobs: %w", err))
	}

	return jobs, nil
}

// UpdateStatus uses a conditional update against the single legal predecessor
// status, so concurrent writers to the same row cannot break the monotonic
// ordering. Zero rows affected means the job is missing or in the wrong state.
func (s *PostgresStore) UpdateStatus(ctx context.Context, jobID int64, status string) error {
	prev, err := domain.PrevStatus(status)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidTransition) {
			return err
		}
		return fmt.Errorf("cannot update job %d: %w", jobID, err)
	}

	query := `
		UPDATE jobs
		SET status = $1,
		    updated_at = NOW()
		WHERE job_id = $2
		  AND status = $3
	`

	result, err := s.db.ExecContext(ctx, query, status, jobID, prev)
	if err != nil {
		return domain.NewStorageError(fmt.Errorf("failed to update job status: %w", err))
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return domain.NewStorageError(fmt.Errorf("failed to get rows affected: %w", err))
	}

	if rowsAffected == 0 {
		// Distinguish an unknown id from a job in the wrong state
		if _, getErr := s.Get(ctx, jobID); getErr != nil {
			return getErr
		}
		return domain.ErrInvalidTransition
	}

	s.logger.Info("Job status updated",
		slog.Int64("job_id", jobID),
		slog.String("status", status),
	)

	return nil
}
