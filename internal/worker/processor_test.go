package worker

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gifts-prodinf/gifts-jobs/internal/domain"
	"github.com/gifts-prodinf/gifts-jobs/internal/worker/pipeline"
)

type fakeStorage struct {
	claimErr   error
	claimed    []int64
	finished   map[int64]string
	finishMsgs map[int64]string
	heartbeats int
	kind       string
}

func newFakeStorage(kind string) *fakeStorage {
	return &fakeStorage{
		kind:       kind,
		finished:   make(map[int64]string),
		finishMsgs: make(map[int64]string),
	}
}

func (s *fakeStorage) ClaimJob(ctx context.Context, jobID int64, workerID string) (*domain.Job, error) {
	if s.claimErr != nil {
		return nil, s.claimErr
	}
	s.claimed = append(s.claimed, jobID)
	return &domain.Job{ID: jobID, Kind: s.kind, Status: domain.JobStatusRunning}, nil
}

func (s *fakeStorage) FinishJob(ctx context.Context, jobID int64, status, errorMsg string) error {
	s.finished[jobID] = status
	s.finishMsgs[jobID] = errorMsg
	return nil
}

func (s *fakeStorage) UpdateJobHeartbeat(ctx context.Context, jobID int64) error {
	s.heartbeats++
	return nil
}

func newTestWorker(storage jobStorage, registry *pipeline.Registry) *Worker {
	return &Worker{
		logger:            slog.New(slog.NewTextHandler(io.Discard, nil)),
		storage:           storage,
		pipeline:          registry,
		workerID:          "gifts-worker-test",
		jobTimeout:        time.Second,
		heartbeatInterval: time.Hour,
		stopChan:          make(chan struct{}),
	}
}

func TestProcessJob_Success(t *testing.T) {
	fs := newFakeStorage(domain.KindUpdateEnsembl)
	registry := pipeline.NewRegistry()
	registry.Register(domain.KindUpdateEnsembl, func(ctx context.Context, job *domain.Job) error {
		return nil
	})

	w := newTestWorker(fs, registry)
	err := w.processJob(context.Background(), &domain.JobMessage{JobID: 1, Kind: domain.KindUpdateEnsembl})

	require.NoError(t, err)
	assert.Equal(t, []int64{1}, fs.claimed)
	assert.Equal(t, domain.JobStatusSucceeded, fs.finished[1])
	assert.Empty(t, fs.finishMsgs[1])
}

func TestProcessJob_TaskFailure(t *testing.T) {
	fs := newFakeStorage(domain.KindProcessMapping)
	registry := pipeline.NewRegistry()
	registry.Register(domain.KindProcessMapping, func(ctx context.Context, job *domain.Job) error {
		return errors.New("alignment diverged")
	})

	w := newTestWorker(fs, registry)
	err := w.processJob(context.Background(), &domain.JobMessage{JobID: 2, Kind: domain.KindProcessMapping})

	require.Error(t, err)
	assert.Equal(t, domain.JobStatusFailed, fs.finished[2])
	assert.Contains(t, fs.finishMsgs[2], "alignment diverged")
	// A definitive task failure must not requeue the delivery
	assert.False(t, w.shouldRequeueJob(err))
}

func TestProcessJob_AlreadyClaimed(t *testing.T) {
	fs := newFakeStorage(domain.KindUpdateEnsembl)
	fs.claimErr = domain.ErrJobAlreadyClaimed

	w := newTestWorker(fs, pipeline.NewRegistry())
	err := w.processJob(context.Background(), &domain.JobMessage{JobID: 3, Kind: domain.KindUpdateEnsembl})

	require.ErrorIs(t, err, domain.ErrJobAlreadyClaimed)
	assert.Empty(t, fs.finished)
	assert.False(t, w.shouldRequeueJob(err))
}

func TestProcessJob_ClaimStorageErrorIsRetryable(t *testing.T) {
	fs := newFakeStorage(domain.KindUpdateEnsembl)
	fs.claimErr = domain.NewStorageError(errors.New("connection reset"))

	w := newTestWorker(fs, pipeline.NewRegistry())
	err := w.processJob(context.Background(), &domain.JobMessage{JobID: 4, Kind: domain.KindUpdateEnsembl})

	require.Error(t, err)
	assert.True(t, w.shouldRequeueJob(err))
}

func TestProcessJob_UnknownKind(t *testing.T) {
	fs := newFakeStorage("COPY_DATABASE")

	w := newTestWorker(fs, pipeline.NewRegistry())
	err := w.processJob(context.Background(), &domain.JobMessage{JobID: 5, Kind: "COPY_DATABASE"})

	require.Error(t, err)
	assert.Equal(t, domain.JobStatusFailed, fs.finished[5])
	assert.False(t, w.shouldRequeueJob(err))
}

func TestProcessJob_Timeout(t *testing.T) {
	fs := newFakeStorage(domain.KindPublishMapping)
	registry := pipeline.NewRegistry()
	registry.Register(domain.KindPublishMapping, func(ctx context.Context, job *domain.Job) error {
		<-ctx.Done()
		return ctx.Err()
	})

	w := newTestWorker(fs, registry)
	w.jobTimeout = 10 * time.Millisecond

	err := w.processJob(context.Background(), &domain.JobMessage{JobID: 6, Kind: domain.KindPublishMapping})

	require.Error(t, err)
	assert.Equal(t, domain.JobStatusFailed, fs.finished[6])
}
