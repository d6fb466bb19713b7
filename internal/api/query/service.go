package query

import (
	"context"
	"log/slog"
	"time"

	"github.com/gifts-prodinf/gifts-jobs/internal/api/store"
	"github.com/gifts-prodinf/gifts-jobs/internal/domain"
)

const (
	defaultReadAttempts = 3
	retryBackoff        = 100 * time.Millisecond
)

// Service provides read-only views over the Job Store. Storage errors are
// the only retryable condition; reads are retried a bounded number of times
// before the error surfaces.
type Service struct {
	store        store.JobStore
	logger       *slog.Logger
	readAttempts int
}

// NewService creates a new status query Service
func NewService(jobStore store.JobStore, logger *slog.Logger) *Service {
	return &Service{
		store:        jobStore,
		logger:       logger,
		readAttempts: defaultReadAttempts,
	}
}

// GetJob returns the job with the given id. Unknown ids yield
// domain.ErrJobNotFound, never a default job.
func (s *Service) GetJob(ctx context.Context, jobID int64) (*domain.Job, error) {
	var job *domain.Job

	err := s.withRetry(ctx, func() error {
		var err error
		job, err = s.store.Get(ctx, jobID)
		return err
	})
	if err != nil {
		return nil, err
	}

	return job, nil
}

// ListJobs returns all jobs of the given kind ordered by id ascending
func (s *Service) ListJobs(ctx context.Context, kind string) ([]domain.Job, error) {
	var jobs []domain.Job

	err := s.withRetry(ctx, func() error {
		var err error
		jobs, err = s.store.List(ctx, kind)
		return err
	})
	if err != nil {
		return nil, err
	}

	return jobs, nil
}

// withRetry runs fn, retrying only on StorageError up to the attempt budget
func (s *Service) withRetry(ctx context.Context, fn func() error) error {
	var lastErr error

	for attempt := 1; attempt <= s.readAttempts; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if !domain.IsStorageError(lastErr) {
			return lastErr
		}

		if attempt < s.readAttempts {
			s.logger.Warn("Job store read failed, retrying",
				slog.Int("attempt", attempt),
				slog.Int("max_attempts", s.readAttempts),
				slog.String("error", lastErr.Error()),
			)

			select {
			case <-time.After(retryBackoff):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}

	return lastErr
}
