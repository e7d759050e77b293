package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	goredis "github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wanderstay/internal/app/middleware"
	domainbooking "wanderstay/internal/domain/booking"
)

// fakeRedis implements the handful of commands the stores use; anything else panics.
type fakeRedis struct {
	goredis.Cmdable
	values map[string]string
	ttls   map[string]time.Duration
	err    error
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{values: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeRedis) Get(_ context.Context, key string) *goredis.StringCmd {
	if f.err != nil {
		return goredis.NewStringResult("", f.err)
	}
	v, ok := f.values[key]
	if !ok {
		return goredis.NewStringResult("", goredis.Nil)
	}
	return goredis.NewStringResult(v, nil)
}

func (f *fakeRedis) Set(_ context.Context, key string, value interface{}, ttl time.Duration) *goredis.StatusCmd {
	if f.err != nil {
		return goredis.NewStatusResult("", f.err)
	}
	f.values[key] = string(value.([]byte))
	f.ttls[key] = ttl
	return goredis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Ping(context.Context) *goredis.StatusCmd {
	return goredis.NewStatusResult("PONG", f.err)
}

func TestIdempotencyStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	fake := newFakeRedis()
	store := NewIdempotencyStore(fake, 10*time.Minute)

	_, ok, err := store.Get(ctx, "reserve:abc")
	require.NoError(t, err)
	assert.False(t, ok)

	at := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	require.NoError(t, store.Save(ctx, middleware.IdempotencyRecord{Key: "reserve:abc", Payload: []byte(`{"id":"r-1"}`), OccurredAt: at}))
	assert.Equal(t, 10*time.Minute, fake.ttls["wanderstay:idem:reserve:abc"])

	rec, ok, err := store.Get(ctx, "reserve:abc")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "reserve:abc", rec.Key)
	assert.JSONEq(t, `{"id":"r-1"}`, string(rec.Payload))
	assert.True(t, at.Equal(rec.OccurredAt))
}

func TestIdempotencyStore_Errors(t *testing.T) {
	ctx := context.Background()
	fake := newFakeRedis()
	fake.values["wanderstay:idem:bad"] = "not json"
	store := NewIdempotencyStore(fake, 0)

	_, _, err := store.Get(ctx, "bad")
	assert.Error(t, err)

	fake.err = errors.New("connection refused")
	_, _, err = store.Get(ctx, "any")
	assert.ErrorIs(t, err, fake.err)
	assert.ErrorIs(t, store.Save(ctx, middleware.IdempotencyRecord{Key: "any"}), fake.err)
	assert.Error(t, Ping(ctx, fake))
}

func TestVerificationRepository_RoundTrip(t *testing.T) {
	ctx := context.Background()
	fake := newFakeRedis()
	repo := NewVerificationRepository(fake, time.Hour)

	var selection domainbooking.VehicleSelection
	selection.Click("th-scooter")
	require.NoError(t, selection.Confirm(domainbooking.Documents{
		LicenceNumber: "DL-77",
		LicenceImage:  &domainbooking.DocumentRef{Key: "docs/dl.jpg", Filename: "dl.jpg", Size: 10},
		AadhaarImage:  &domainbooking.DocumentRef{Key: "docs/aadhaar.jpg", Filename: "aadhaar.jpg", Size: 12},
	}))
	at := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Save(ctx, domainbooking.Verification{ID: "v-1", DestinationID: 1, Selection: selection, CreatedAt: at}))
	assert.Equal(t, time.Hour, fake.ttls["wanderstay:verification:v-1"])

	got, err := repo.ByID(ctx, "v-1")
	require.NoError(t, err)
	assert.True(t, got.Covers(1, "th-scooter"))
	assert.Equal(t, "DL-77", got.Selection.Documents().LicenceNumber)
	assert.Equal(t, "docs/aadhaar.jpg", got.Selection.Documents().AadhaarImage.Key)
	assert.True(t, at.Equal(got.CreatedAt))

	_, err = repo.ByID(ctx, "missing")
	assert.ErrorIs(t, err, domainbooking.ErrVerificationNotFound)
}

func TestVerificationRepository_RejectsIncompleteRecord(t *testing.T) {
	fake := newFakeRedis()
	fake.values["wanderstay:verification:v-2"] = `{"destination_id":1,"vehicle_id":"th-scooter"}`
	repo := NewVerificationRepository(fake, time.Hour)

	_, err := repo.ByID(context.Background(), "v-2")
	assert.ErrorIs(t, err, domainbooking.ErrDocumentsMissing)
}
