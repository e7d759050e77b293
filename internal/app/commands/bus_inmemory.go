package commands

import (
	"context"
	"fmt"
	"slices"
	"sync"
)

type commandHandler func(ctx context.Context, cmd Command) (any, error)

// InMemoryBus routes commands by key. Handlers are registered once while wiring
// the application; Dispatch is safe for concurrent use afterwards.
type InMemoryBus struct {
	mu       sync.RWMutex
	handlers map[string]commandHandler
}

func NewInMemoryBus() *InMemoryBus {
	return &InMemoryBus{handlers: make(map[string]commandHandler)}
}

// RegisterRaw binds handler to key. Empty and duplicate keys are wiring bugs and panic.
func (b *InMemoryBus) RegisterRaw(key string, handler commandHandler) {
	if key == "" {
		panic("commands: empty key registration")
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, taken := b.handlers[key]; taken {
		panic("commands: duplicate handler for " + key)
	}
	b.handlers[key] = handler
}

func (b *InMemoryBus) Dispatch(ctx context.Context, cmd Command) (any, error) {
	key := cmd.Key()
	b.mu.RLock()
	h := b.handlers[key]
	b.mu.RUnlock()
	if h == nil {
		return nil, fmt.Errorf("%w: %s", ErrHandlerNotFound, key)
	}
	return h(ctx, cmd)
}

// Keys reports the registered command keys, sorted.
func (b *InMemoryBus) Keys() []string {
	b.mu.RLock()
	keys := make([]string, 0, len(b.handlers))
	for key := range b.handlers {
		keys = append(keys, key)
	}
	b.mu.RUnlock()
	slices.Sort(keys)
	return keys
}

// RegisterHandler wires a typed handler under the key its zero-value command reports.
func RegisterHandler[C Command, R any](bus *InMemoryBus, handler Handler[C, R]) {
	if bus == nil {
		panic("commands: nil bus")
	}
	var zero C
	key := zero.Key()
	bus.RegisterRaw(key, func(ctx context.Context, raw Command) (any, error) {
		cmd, ok := raw.(C)
		if !ok {
			return nil, fmt.Errorf("%w: %s got %T", ErrInvalidCommand, key, raw)
		}
		return handler.Handle(ctx, cmd)
	})
}
