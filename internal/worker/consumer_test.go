package worker

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gifts-prodinf/gifts-jobs/internal/domain"
)

func newDispatcherWorker() *Worker {
	return &Worker{
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		workerID: "gifts-worker-test",
		jobsChan: make(chan *domain.JobMessage, 1),
		stopChan: make(chan struct{}),
	}
}

func TestStartMessageDispatcher_DispatchesValidSignal(t *testing.T) {
	w := newDispatcherWorker()
	deliveries := make(chan amqp.Delivery, 1)
	deliveries <- amqp.Delivery{
		Body:        []byte(`{"job_id": 7, "kind": "UPDATE_ENSEMBL"}`),
		DeliveryTag: 11,
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		msg := <-w.jobsChan
		assert.Equal(t, int64(7), msg.JobID)
		assert.Equal(t, domain.KindUpdateEnsembl, msg.Kind)
		assert.Equal(t, uint64(11), msg.DeliveryTag)
		cancel()
	}()

	err := w.startMessageDispatcher(ctx, deliveries)
	require.NoError(t, err)
}

func TestStartMessageDispatcher_SkipsMalformedSignals(t *testing.T) {
	w := newDispatcherWorker()
	deliveries := make(chan amqp.Delivery, 3)
	deliveries <- amqp.Delivery{Body: []byte(`not json`), DeliveryTag: 1}
	deliveries <- amqp.Delivery{Body: []byte(`{"job_id": 0, "kind": "UPDATE_ENSEMBL"}`), DeliveryTag: 2}
	deliveries <- amqp.Delivery{Body: []byte(`{"job_id": 3, "kind": "COPY_DATABASE"}`), DeliveryTag: 3}
	close(deliveries)

	err := w.startMessageDispatcher(context.Background(), deliveries)
	require.Error(t, err)

	select {
	case msg := <-w.jobsChan:
		t.Fatalf("malformed signal dispatched: %+v", msg)
	default:
	}
}

func TestStartMessageDispatcher_StopsOnContextCancel(t *testing.T) {
	w := newDispatcherWorker()
	deliveries := make(chan amqp.Delivery)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan error, 1)
	go func() {
		done <- w.startMessageDispatcher(ctx, deliveries)
	}()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("dispatcher did not stop on context cancel")
	}
}
