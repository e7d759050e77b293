package outbox

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	mu     sync.Mutex
	docs   []*EventDocument
	sent   []string
	failed map[string]string
}

func newFakeStore(docs ...*EventDocument) *fakeStore {
	return &fakeStore{docs: docs, failed: map[string]string{}}
}

func (s *fakeStore) Claim(_ context.Context, workerID string) (*EventDocument, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for _, d := range s.docs {
		if (d.State == StateNew || d.State == StateFailed) && !d.NextAttempt.After(now) {
			d.State = StateClaimed
			d.ClaimedBy = workerID
			cp := *d
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *fakeStore) MarkSent(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range s.docs {
		if d.ID == id {
			d.State = StateSent
		}
	}
	s.sent = append(s.sent, id)
	return nil
}

func (s *fakeStore) MarkFailed(_ context.Context, id string, next time.Time, msg string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range s.docs {
		if d.ID == id {
			d.State = StateFailed
			d.NextAttempt = next
			d.Attempts++
		}
	}
	s.failed[id] = msg
	return nil
}

type producerMock struct {
	mock.Mock
}

func (m *producerMock) Publish(ctx context.Context, topic, key string, payload []byte, headers map[string]string) error {
	args := m.Called(ctx, topic, key, payload, headers)
	return args.Error(0)
}

func reservationDoc(id string) *EventDocument {
	return &EventDocument{
		ID:         id,
		Name:       "reservation.confirmed",
		Payload:    []byte(`{"reservation_id":"res-1","total":{"amount":1820,"currency":"USD"}}`),
		OccurredAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Aggregate:  "res-1",
		Headers:    map[string]string{"traceparent": "00-trace", "correlation-id": "req-7"},
		State:      StateNew,
	}
}

func TestWorker_DrainPublishesCloudEvents(t *testing.T) {
	store := newFakeStore(reservationDoc("evt-1"))
	producer := &producerMock{}
	var captured []byte
	var headers map[string]string
	producer.On("Publish", mock.Anything, "dev.reservation.events.v1", "res-1", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			captured = args.Get(3).([]byte)
			headers = args.Get(4).(map[string]string)
		}).
		Return(nil).Once()

	w := &Worker{Store: store, Producer: producer, TopicPrefix: "dev."}
	sent, err := w.Drain(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	assert.Equal(t, []string{"evt-1"}, store.sent)
	producer.AssertExpectations(t)

	var evt map[string]any
	require.NoError(t, json.Unmarshal(captured, &evt))
	assert.Equal(t, "1.0", evt["specversion"])
	assert.Equal(t, "evt-1", evt["id"])
	assert.Equal(t, "reservation.confirmed.v1", evt["type"])
	assert.Equal(t, "app://wanderstay", evt["source"])
	assert.Equal(t, "00-trace", evt["traceparent"])
	assert.Equal(t, "req-7", evt["correlationid"])
	assert.Equal(t, "res-1", evt["subject"])
	assert.Equal(t, "application/cloudevents+json", headers["content-type"])
	assert.Equal(t, "req-7", headers["correlation-id"])
	data := evt["data"].(map[string]any)
	assert.Equal(t, "res-1", data["reservation_id"])
}

func TestWorker_FailedDeliveryIsRescheduled(t *testing.T) {
	store := newFakeStore(reservationDoc("evt-1"))
	producer := &producerMock{}
	producer.On("Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("broker down"))
	now := time.Now()

	w := &Worker{Store: store, Producer: producer, Backoff: []time.Duration{time.Minute}, Now: func() time.Time { return now }}
	sent, err := w.Drain(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, sent)
	assert.Equal(t, "broker down", store.failed["evt-1"])
	assert.Equal(t, StateFailed, store.docs[0].State)
	assert.Equal(t, now.Add(time.Minute), store.docs[0].NextAttempt)
	producer.AssertNumberOfCalls(t, "Publish", 1)
}

func TestWorker_MalformedPayloadIsNotPublished(t *testing.T) {
	doc := reservationDoc("evt-1")
	doc.Payload = []byte("not json")
	store := newFakeStore(doc)
	producer := &producerMock{}

	w := &Worker{Store: store, Producer: producer}
	_, err := w.Drain(context.Background())
	require.NoError(t, err)
	assert.Contains(t, store.failed, "evt-1")
	producer.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestWorker_ZeroBackoffDoesNotSpin(t *testing.T) {
	store := newFakeStore(reservationDoc("evt-1"))
	producer := &producerMock{}
	producer.On("Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("broker down"))

	w := &Worker{Store: store, Producer: producer, Backoff: []time.Duration{0}}
	_, err := w.Drain(context.Background())
	require.NoError(t, err)
	producer.AssertNumberOfCalls(t, "Publish", 1)
}

func TestWorker_TopicFor(t *testing.T) {
	w := &Worker{}
	assert.Equal(t, "reservation.events.v1", w.topicFor("reservation.confirmed"))
	assert.Equal(t, "vehicle.events.v1", w.topicFor("vehicle"))

	w.TopicPrefix = "stage."
	assert.Equal(t, "stage.reservation.events.v1", w.topicFor("reservation.confirmed"))
}

func TestWorker_NextRetryUsesLastBackoff(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	w := &Worker{Backoff: []time.Duration{time.Second, 5 * time.Second}, Now: func() time.Time { return now }}
	assert.Equal(t, now.Add(time.Second), w.nextRetry(0))
	assert.Equal(t, now.Add(5*time.Second), w.nextRetry(1))
	assert.Equal(t, now.Add(5*time.Second), w.nextRetry(7))

	w.Backoff = nil
	assert.Equal(t, now.Add(5*time.Second), w.nextRetry(0))
}

func TestWorker_RunRequiresDependencies(t *testing.T) {
	err := (&Worker{}).Run(context.Background())
	assert.ErrorIs(t, err, ErrWorkerNotConfigured)
}

func TestWorker_RunStopsOnCancel(t *testing.T) {
	store := newFakeStore(reservationDoc("evt-1"))
	producer := &producerMock{}
	producer.On("Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	w := &Worker{Store: store, Producer: producer, Interval: 5 * time.Millisecond}
	go func() { done <- w.Run(ctx) }()

	require.Eventually(t, func() bool {
		store.mu.Lock()
		defer store.mu.Unlock()
		return len(store.sent) == 1
	}, time.Second, 5*time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
}
