package store

import (
	"context"

	"github.com/gifts-prodinf/gifts-jobs/internal/domain"
)

// JobStore is the durable record of submitted jobs. Create and UpdateStatus
// are the only mutators; ids come from a single sequence shared by all kinds.
type JobStore interface {
	// Create allocates a new id, persists the job as SUBMITTED and returns it.
	Create(ctx context.Context, kind string) (*domain.Job, error)

	// Get returns the job with the given id, or domain.ErrJobNotFound.
	Get(ctx context.Context, jobID int64) (*domain.Job, error)

	// List returns all jobs of the given kind ordered by id ascending.
	List(ctx context.Context, kind string) ([]domain.Job, error)

	// UpdateStatus moves a job to status following the monotonic ordering.
	// Returns domain.ErrJobNotFound for unknown ids and
	// domain.ErrInvalidTransition when the job is not in the one status the
	// transition is legal from.
	UpdateStatus(ctx context.Context, jobID int64, status string) error
}
