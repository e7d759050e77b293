package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	appoutbox "wanderstay/internal/app/outbox"
	infraoutbox "wanderstay/internal/infra/outbox"
)

var ErrEventNotFound = errors.New("memory: outbox event not found")

// Outbox stages records added during a command and releases them to the relay on Flush.
// Sent documents are dropped; only their count is kept.
type Outbox struct {
	mu     sync.Mutex
	staged []appoutbox.EventRecord
	queue  []*infraoutbox.EventDocument
	sent   int
	now    func() time.Time
}

func NewOutbox() *Outbox {
	return &Outbox{now: time.Now}
}

func (o *Outbox) Add(ctx context.Context, record appoutbox.EventRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.staged = append(o.staged, record)
	return nil
}

func (o *Outbox) Flush(ctx context.Context) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	now := o.now().UTC()
	for _, rec := range o.staged {
		headers := make(map[string]string, len(rec.Headers))
		for k, v := range rec.Headers {
			headers[k] = v
		}
		o.queue = append(o.queue, &infraoutbox.EventDocument{
			ID:          rec.ID,
			Name:        rec.Name,
			Payload:     append([]byte(nil), rec.Payload...),
			OccurredAt:  rec.OccurredAt,
			Aggregate:   rec.Aggregate,
			Headers:     headers,
			State:       infraoutbox.StateNew,
			NextAttempt: now,
		})
	}
	o.staged = nil
	return nil
}

// Claim returns the oldest due document, or nil.
func (o *Outbox) Claim(ctx context.Context, workerID string) (*infraoutbox.EventDocument, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	now := o.now().UTC()
	for _, doc := range o.queue {
		if doc.State != infraoutbox.StateNew && doc.State != infraoutbox.StateFailed {
			continue
		}
		if doc.NextAttempt.After(now) {
			continue
		}
		doc.State = infraoutbox.StateClaimed
		doc.ClaimedBy = workerID
		doc.ClaimedAt = now
		cp := *doc
		return &cp, nil
	}
	return nil, nil
}

func (o *Outbox) MarkSent(_ context.Context, id string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	for i, doc := range o.queue {
		if doc.ID == id {
			o.queue = append(o.queue[:i], o.queue[i+1:]...)
			o.sent++
			return nil
		}
	}
	return ErrEventNotFound
}

func (o *Outbox) MarkFailed(_ context.Context, id string, next time.Time, errMsg string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	for _, doc := range o.queue {
		if doc.ID == id {
			doc.State = infraoutbox.StateFailed
			doc.NextAttempt = next
			doc.LastError = errMsg
			doc.Attempts++
			return nil
		}
	}
	return ErrEventNotFound
}

// OutboxStats is a point-in-time view used by readiness checks and tests.
type OutboxStats struct {
	Staged  int
	Pending int
	Failed  int
	Sent    int
}

func (o *Outbox) Stats() OutboxStats {
	o.mu.Lock()
	defer o.mu.Unlock()
	stats := OutboxStats{Staged: len(o.staged), Sent: o.sent}
	for _, doc := range o.queue {
		if doc.State == infraoutbox.StateFailed {
			stats.Failed++
			continue
		}
		stats.Pending++
	}
	return stats
}

var (
	_ appoutbox.Outbox  = (*Outbox)(nil)
	_ infraoutbox.Store = (*Outbox)(nil)
)
