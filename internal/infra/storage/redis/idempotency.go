package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/go-redis/redis/v8"

	"wanderstay/internal/app/middleware"
)

const idempotencyPrefix = "wanderstay:idem:"

// IdempotencyStore shares replayable command results between instances.
// Expiry is left to Redis, so no janitor task is needed.
type IdempotencyStore struct {
	client goredis.Cmdable
	ttl    time.Duration
}

func NewIdempotencyStore(client goredis.Cmdable, ttl time.Duration) *IdempotencyStore {
	return &IdempotencyStore{client: client, ttl: ttl}
}

type idempotencyEntry struct {
	Payload    []byte    `json:"payload"`
	OccurredAt time.Time `json:"occurred_at"`
}

func (s *IdempotencyStore) Get(ctx context.Context, key string) (middleware.IdempotencyRecord, bool, error) {
	raw, err := s.client.Get(ctx, idempotencyPrefix+key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return middleware.IdempotencyRecord{}, false, nil
	}
	if err != nil {
		return middleware.IdempotencyRecord{}, false, fmt.Errorf("redis: get idempotency %s: %w", key, err)
	}
	var entry idempotencyEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return middleware.IdempotencyRecord{}, false, fmt.Errorf("redis: decode idempotency %s: %w", key, err)
	}
	return middleware.IdempotencyRecord{Key: key, Payload: entry.Payload, OccurredAt: entry.OccurredAt}, true, nil
}

func (s *IdempotencyStore) Save(ctx context.Context, rec middleware.IdempotencyRecord) error {
	raw, err := json.Marshal(idempotencyEntry{Payload: rec.Payload, OccurredAt: rec.OccurredAt})
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, idempotencyPrefix+rec.Key, raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis: save idempotency %s: %w", rec.Key, err)
	}
	return nil
}

var _ middleware.IdempotencyStore = (*IdempotencyStore)(nil)
