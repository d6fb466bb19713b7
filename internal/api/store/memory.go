package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/gifts-prodinf/gifts-jobs/internal/domain"
)

// MemoryStore is an in-process JobStore used by tests and local development.
// A mutex guards the id counter and the job map, which preserves the same
// per-id serialization the PostgreSQL store gets from conditional updates.
type MemoryStore struct {
	mu     sync.Mutex
	nextID int64
	jobs   map[int64]*domain.Job
}

// NewMemoryStore creates an empty in-memory JobStore
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		nextID: 1,
		jobs:   make(map[int64]*domain.Job),
	}
}

func (s *MemoryStore) Create(ctx context.Context, kind string) (*domain.Job, error) {
	if !domain.ValidKind(kind) {
		return nil, fmt.Errorf("unknown job kind %q", kind)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	job := &domain.Job{
		ID:        s.nextID,
		Kind:      kind,
		Status:    domain.JobStatusSubmitted,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.nextID++
	s.jobs[job.ID] = job

	cp := *job
	return &cp, nil
}

func (s *MemoryStore) Get(ctx context.Context, jobID int64) (*domain.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[jobID]
	if !ok {
		return nil, domain.ErrJobNotFound
	}

	cp := *job
	return &cp, nil
}

func (s *MemoryStore) List(ctx context.Context, kind string) ([]domain.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	jobs := []domain.Job{}
	for _, job := range s.jobs {
		if job.Kind == kind {
			jobs = append(jobs, *job)
		}
	}

	sort.Slice(jobs, func(i, j int) bool {
		return jobs[i].ID < jobs[j].ID
	})

	return jobs, nil
}

func (s *MemoryStore) UpdateStatus(ctx context.Context, jobID int64, status string) error {
	prev, err := domain.PrevStatus(status)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidTransition) {
			return err
		}
		return fmt.Errorf("cannot update job %d: %w", jobID, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[jobID]
	if !ok {
		return domain.ErrJobNotFound
	}

	if job.Status != prev {
		return domain.ErrInvalidTransition
	}

	job.Status = status
	job.UpdatedAt = time.Now()
	return nil
}
