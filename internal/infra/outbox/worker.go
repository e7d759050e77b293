package outbox

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Producer interface {
	Publish(ctx context.Context, topic string, key string, payload []byte, headers map[string]string) error
}

// Worker relays outbox documents to the broker as CloudEvents.
type Worker struct {
	Store       Store
	Producer    Producer
	Logger      *slog.Logger
	Interval    time.Duration
	TopicPrefix string
	Source      string
	ID          string
	Backoff     []time.Duration
	Now         func() time.Time
}

var ErrWorkerNotConfigured = errors.New("outbox: worker missing dependencies")

// Run polls until ctx is cancelled. Delivery failures are rescheduled, store failures stop the loop.
func (w *Worker) Run(ctx context.Context) error {
	if w.Store == nil || w.Producer == nil {
		return ErrWorkerNotConfigured
	}
	if w.ID == "" {
		w.ID = uuid.NewString()
	}
	ticker := time.NewTicker(w.interval())
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := w.Drain(ctx); err != nil {
				return err
			}
		}
	}
}

// Drain delivers every document that is currently due and reports how many were sent.
// A document that fails is not retried within the same pass.
func (w *Worker) Drain(ctx context.Context) (int, error) {
	sent := 0
	seen := make(map[string]struct{})
	for {
		if err := ctx.Err(); err != nil {
			return sent, err
		}
		doc, err := w.Store.Claim(ctx, w.workerID())
		if err != nil || doc == nil {
			return sent, err
		}
		if _, ok := seen[doc.ID]; ok {
			return sent, w.Store.MarkFailed(ctx, doc.ID, w.nextRetry(doc.Attempts), doc.LastError)
		}
		seen[doc.ID] = struct{}{}
		delivered, err := w.deliver(ctx, doc)
		if err != nil {
			return sent, err
		}
		if delivered {
			sent++
		}
	}
}

func (w *Worker) deliver(ctx context.Context, doc *EventDocument) (bool, error) {
	topic := w.topicFor(doc.Name)
	payload, headers, err := w.formatPayload(doc)
	if err != nil {
		w.fail(ctx, doc, topic, err)
		return false, nil
	}
	if err := w.Producer.Publish(ctx, topic, doc.Aggregate, payload, headers); err != nil {
		w.fail(ctx, doc, topic, err)
		return false, nil
	}
	if err := w.Store.MarkSent(ctx, doc.ID); err != nil {
		return false, err
	}
	if w.Logger != nil {
		w.Logger.DebugContext(ctx, "outbox event relayed", "event_id", doc.ID, "event", doc.Name, "topic", topic)
	}
	return true, nil
}

func (w *Worker) fail(ctx context.Context, doc *EventDocument, topic string, cause error) {
	next := w.nextRetry(doc.Attempts)
	if err := w.Store.MarkFailed(ctx, doc.ID, next, cause.Error()); err != nil && w.Logger != nil {
		w.Logger.ErrorContext(ctx, "outbox mark failed", "event_id", doc.ID, "error", err)
	}
	if w.Logger != nil {
		w.Logger.WarnContext(ctx, "outbox delivery failed", "event_id", doc.ID, "topic", topic, "attempts", doc.Attempts+1, "retry_at", next, "error", cause)
	}
}

// cloudEvent is the structured-mode CloudEvents 1.0 envelope put on the wire.
type cloudEvent struct {
	SpecVersion     string          `json:"specversion"`
	ID              string          `json:"id"`
	Type            string          `json:"type"`
	Source          string          `json:"source"`
	Subject         string          `json:"subject,omitempty"`
	Time            time.Time       `json:"time"`
	DataContentType string          `json:"datacontenttype"`
	TraceParent     string          `json:"traceparent,omitempty"`
	CorrelationID   string          `json:"correlationid,omitempty"`
	Data            json.RawMessage `json:"data"`
}

func (w *Worker) formatPayload(doc *EventDocument) ([]byte, map[string]string, error) {
	if !json.Valid(doc.Payload) {
		return nil, nil, fmt.Errorf("outbox: event %s has a malformed payload", doc.ID)
	}
	payload, err := json.Marshal(cloudEvent{
		SpecVersion:     "1.0",
		ID:              doc.ID,
		Type:            doc.Name + ".v1",
		Source:          w.source(),
		Subject:         doc.Aggregate,
		Time:            doc.OccurredAt,
		DataContentType: "application/json",
		TraceParent:     doc.Headers["traceparent"],
		CorrelationID:   doc.Headers["correlation-id"],
		Data:            doc.Payload,
	})
	if err != nil {
		return nil, nil, err
	}
	headers := make(map[string]string, len(doc.Headers)+1)
	for k, v := range doc.Headers {
		headers[k] = v
	}
	headers["content-type"] = "application/cloudevents+json"
	return payload, headers, nil
}

// topicFor maps "reservation.confirmed" to "<prefix>reservation.events.v1".
func (w *Worker) topicFor(name string) string {
	base := name
	if idx := strings.IndexRune(name, '.'); idx > 0 {
		base = name[:idx]
	}
	return w.TopicPrefix + base + ".events.v1"
}

func (w *Worker) workerID() string {
	if w.ID != "" {
		return w.ID
	}
	return "outbox-worker"
}

func (w *Worker) interval() time.Duration {
	if w.Interval <= 0 {
		return 500 * time.Millisecond
	}
	return w.Interval
}

func (w *Worker) nextRetry(attempts int) time.Time {
	now := time.Now()
	if w.Now != nil {
		now = w.Now()
	}
	if attempts < len(w.Backoff) {
		return now.Add(w.Backoff[attempts])
	}
	if len(w.Backoff) > 0 {
		return now.Add(w.Backoff[len(w.Backoff)-1])
	}
	return now.Add(5 * time.Second)
}

func (w *Worker) source() string {
	if w.Source != "" {
		return w.Source
	}
	return "app://wanderstay"
}
