package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gifts-prodinf/gifts-jobs/internal/api/store"
	"github.com/gifts-prodinf/gifts-jobs/internal/domain"
)

type fakePublisher struct {
	published [][]byte
	err       error
}

func (p *fakePublisher) Publish(ctx context.Context, body []byte, contentType string) error {
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, body)
	return nil
}

func newTestDispatcher(pub *fakePublisher) (*Dispatcher, *store.MemoryStore) {
	s := store.NewMemoryStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewDispatcher(s, pub, logger), s
}

func TestDispatcher_Submit(t *testing.T) {
	pub := &fakePublisher{}
	d, s := newTestDispatcher(pub)
	ctx := context.Background()

	jobID, err := d.Submit(ctx, domain.KindUpdateEnsembl)
	require.NoError(t, err)
	assert.Equal(t, int64(1), jobID)

	// Job recorded as SUBMITTED with the requested kind
	job, err := s.Get(ctx, jobID)
	require.NoError(t, err)
	assert.Equal(t, domain.KindUpdateEnsembl, job.Kind)
	assert.Equal(t, domain.JobStatusSubmitted, job.Status)

	// Dispatch signal carries job_id and kind
	require.Len(t, pub.published, 1)
	var msg domain.JobMessage
	require.NoError(t, json.Unmarshal(pub.published[0], &msg))
	assert.Equal(t, jobID, msg.JobID)
	assert.Equal(t, domain.KindUpdateEnsembl, msg.Kind)

	// Ids increase globally across kinds
	jobID2, err := d.Submit(ctx, domain.KindProcessMapping)
	require.NoError(t, err)
	assert.Equal(t, int64(2), jobID2)
}

func TestDispatcher_Submit_UnknownKind(t *testing.T) {
	pub := &fakePublisher{}
	d, _ := newTestDispatcher(pub)

	_, err := d.Submit(context.Background(), "COPY_DATABASE")
	require.Error(t, err)
	assert.Empty(t, pub.published)
}

func TestDispatcher_Submit_PublishFailure(t *testing.T) {
	pub := &fakePublisher{err: errors.New("channel closed")}
	d, s := newTestDispatcher(pub)
	ctx := context.Background()

	jobID, err := d.Submit(ctx, domain.KindPublishMapping)
	require.Error(t, err)

	var se *domain.SchedulingError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, jobID, se.JobID)

	// The job record survives the failed handoff and stays SUBMITTED
	job, getErr := s.Get(ctx, jobID)
	require.NoError(t, getErr)
	assert.Equal(t, domain.JobStatusSubmitted, job.Status)
}
