package commands

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingCommand struct{ Name string }

func (pingCommand) Key() string { return "test.ping" }

type otherCommand struct{}

func (otherCommand) Key() string { return "test.other" }

func TestInMemoryBus_DispatchTyped(t *testing.T) {
	bus := NewInMemoryBus()
	RegisterHandler[pingCommand, string](bus, HandlerFunc[pingCommand, string](func(_ context.Context, cmd pingCommand) (string, error) {
		return "pong " + cmd.Name, nil
	}))

	res, err := Dispatch[pingCommand, string](context.Background(), bus, pingCommand{Name: "bali"})
	require.NoError(t, err)
	assert.Equal(t, "pong bali", res)
	assert.Equal(t, []string{"test.ping"}, bus.Keys())
}

func TestInMemoryBus_Errors(t *testing.T) {
	bus := NewInMemoryBus()

	_, err := bus.Dispatch(context.Background(), otherCommand{})
	assert.ErrorIs(t, err, ErrHandlerNotFound)

	_, err = Dispatch[pingCommand, string](context.Background(), nil, pingCommand{})
	assert.ErrorIs(t, err, ErrNilBus)

	RegisterHandler[pingCommand, string](bus, HandlerFunc[pingCommand, string](func(context.Context, pingCommand) (string, error) {
		return "", errors.New("boom")
	}))
	_, err = Dispatch[pingCommand, string](context.Background(), bus, pingCommand{})
	assert.EqualError(t, err, "boom")

	_, err = Dispatch[pingCommand, int](context.Background(), busReturning("text"), pingCommand{})
	assert.ErrorIs(t, err, ErrResultType)

	assert.Panics(t, func() { bus.RegisterRaw("", nil) })
	assert.Panics(t, func() {
		RegisterHandler[pingCommand, string](bus, HandlerFunc[pingCommand, string](func(context.Context, pingCommand) (string, error) {
			return "", nil
		}))
	})
}

type busReturning string

func (b busReturning) Dispatch(context.Context, Command) (any, error) { return string(b), nil }
