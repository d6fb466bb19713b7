package store

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gifts-prodinf/gifts-jobs/internal/domain"
)

func TestMemoryStore_Create(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	job, err := s.Create(ctx, domain.KindUpdateEnsembl)
	require.NoError(t, err)
	assert.Equal(t, int64(1), job.ID)
	assert.Equal(t, domain.KindUpdateEnsembl, job.Kind)
	assert.Equal(t, domain.JobStatusSubmitted, job.Status)
	assert.False(t, job.CreatedAt.IsZero())

	// Ids increase globally across kinds, not per kind
	job2, err := s.Create(ctx, domain.KindProcessMapping)
	require.NoError(t, err)
	assert.Equal(t, int64(2), job2.ID)

	_, err = s.Create(ctx, "COPY_DATABASE")
	require.Error(t, err)
}

func TestMemoryStore_Get(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	created, err := s.Create(ctx, domain.KindPublishMapping)
	require.NoError(t, err)

	got, err := s.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, created.Kind, got.Kind)

	// Repeated reads return identical data absent writes
	again, err := s.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, got, again)

	_, err = s.Get(ctx, 999)
	assert.ErrorIs(t, err, domain.ErrJobNotFound)
}

func TestMemoryStore_List(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := s.Create(ctx, domain.KindUpdateEnsembl)
		require.NoError(t, err)
	}
	_, err := s.Create(ctx, domain.KindProcessMapping)
	require.NoError(t, err)

	jobs, err := s.List(ctx, domain.KindUpdateEnsembl)
	require.NoError(t, err)
	require.Len(t, jobs, 3)

	// Ascending id order, only the requested kind
	for i, job := range jobs {
		assert.Equal(t, domain.KindUpdateEnsembl, job.Kind)
		if i > 0 {
			assert.Greater(t, job.ID, jobs[i-1].ID)
		}
	}

	empty, err := s.List(ctx, domain.KindPublishMapping)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestMemoryStore_UpdateStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("full lifecycle", func(t *testing.T) {
		s := NewMemoryStore()
		job, err := s.Create(ctx, domain.KindUpdateEnsembl)
		require.NoError(t, err)

		require.NoError(t, s.UpdateStatus(ctx, job.ID, domain.JobStatusRunning))
		require.NoError(t, s.UpdateStatus(ctx, job.ID, domain.JobStatusSucceeded))

		got, err := s.Get(ctx, job.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.JobStatusSucceeded, got.Status)
	})

	t.Run("skip transition rejected", func(t *testing.T) {
		s := NewMemoryStore()
		job, err := s.Create(ctx, domain.KindUpdateEnsembl)
		require.NoError(t, err)

		err = s.UpdateStatus(ctx, job.ID, domain.JobStatusSucceeded)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)

		got, err := s.Get(ctx, job.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.JobStatusSubmitted, got.Status)
	})

	t.Run("terminal state never transitions", func(t *testing.T) {
		s := NewMemoryStore()
		job, err := s.Create(ctx, domain.KindUpdateEnsembl)
		require.NoError(t, err)

		require.NoError(t, s.UpdateStatus(ctx, job.ID, domain.JobStatusRunning))
		require.NoError(t, s.UpdateStatus(ctx, job.ID, domain.JobStatusFailed))

		err = s.UpdateStatus(ctx, job.ID, domain.JobStatusRunning)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
		err = s.UpdateStatus(ctx, job.ID, domain.JobStatusSucceeded)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	})

	t.Run("unknown id", func(t *testing.T) {
		s := NewMemoryStore()
		err := s.UpdateStatus(ctx, 42, domain.JobStatusRunning)
		assert.ErrorIs(t, err, domain.ErrJobNotFound)
	})

	t.Run("unknown status", func(t *testing.T) {
		s := NewMemoryStore()
		job, err := s.Create(ctx, domain.KindUpdateEnsembl)
		require.NoError(t, err)

		err = s.UpdateStatus(ctx, job.ID, "CANCELED")
		require.Error(t, err)
		assert.NotErrorIs(t, err, domain.ErrJobNotFound)
	})
}

func TestMemoryStore_ConcurrentCreate(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	const n = 50
	ids := make(chan int64, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			job, err := s.Create(ctx, domain.KindProcessMapping)
			if assert.NoError(t, err) {
				ids <- job.ID
			}
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[int64]bool)
	for id := range ids {
		assert.False(t, seen[id], "duplicate job id %d", id)
		seen[id] = true
	}
	assert.Len(t, seen, n)
}
