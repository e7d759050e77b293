package debounce

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const quiet = 60 * time.Millisecond

func TestDebouncer_LastWriterWins(t *testing.T) {
	d := New(quiet)
	defer d.Close()

	var mu sync.Mutex
	var fired []string
	done := make(chan struct{}, 3)
	for _, q := range []string{"d", "du", "dub"} {
		q := q
		d.Trigger(context.Background(), func(context.Context) {
			mu.Lock()
			fired = append(fired, q)
			mu.Unlock()
			done <- struct{}{}
		})
		time.Sleep(quiet / 10)
	}

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("debounced task never ran")
	}
	time.Sleep(2 * quiet)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"dub"}, fired)
}

func TestDebouncer_SupersededTaskSeesCancelledContext(t *testing.T) {
	d := New(0)
	defer d.Close()

	started := make(chan struct{})
	release := make(chan struct{})
	result := make(chan error, 1)
	d.Trigger(context.Background(), func(ctx context.Context) {
		close(started)
		<-release
		result <- ctx.Err()
	})
	<-started

	d.Trigger(context.Background(), func(context.Context) {})
	close(release)

	select {
	case err := <-result:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("first task did not finish")
	}
}

func TestDebouncer_CancelAndClose(t *testing.T) {
	d := New(quiet)
	ran := make(chan struct{}, 1)

	d.Trigger(context.Background(), func(context.Context) { ran <- struct{}{} })
	d.Cancel()
	select {
	case <-ran:
		t.Fatal("cancelled task ran")
	case <-time.After(2 * quiet):
	}

	d.Close()
	d.Trigger(context.Background(), func(context.Context) { ran <- struct{}{} })
	select {
	case <-ran:
		t.Fatal("task ran after close")
	case <-time.After(2 * quiet):
	}
}

func TestDebouncer_ParentCancellation(t *testing.T) {
	d := New(quiet)
	defer d.Close()
	ctx, cancel := context.WithCancel(context.Background())
	ran := make(chan struct{}, 1)

	d.Trigger(ctx, func(context.Context) { ran <- struct{}{} })
	cancel()

	select {
	case <-ran:
		t.Fatal("task ran after parent cancellation")
	case <-time.After(2 * quiet):
	}
	require.Equal(t, quiet, d.Delay())
	assert.Equal(t, time.Duration(0), New(-time.Second).Delay())
}
