package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"wanderstay/internal/app/commands"
)

var errMissingPrototype = errors.New("middleware: idempotent command requires result prototype")

// IdempotentCommand is a command the client may resend, e.g. a checkout retried after a timeout.
// ResultPrototype returns a fresh pointer of the handler's result type to decode a replay into.
type IdempotentCommand interface {
	commands.Command
	IdempotencyKey() string
	ResultPrototype() any
}

// IdempotencyRecord is the stored outcome of a successful command.
type IdempotencyRecord struct {
	Key        string
	Payload    []byte
	OccurredAt time.Time
}

type IdempotencyStore interface {
	Get(ctx context.Context, key string) (IdempotencyRecord, bool, error)
	Save(ctx context.Context, rec IdempotencyRecord) error
}

type ResultCodec interface {
	Encode(v any) ([]byte, error)
	Decode(data []byte, out any) error
}

type JSONResultCodec struct{}

func (JSONResultCodec) Encode(v any) ([]byte, error)      { return json.Marshal(v) }
func (JSONResultCodec) Decode(data []byte, out any) error { return json.Unmarshal(data, out) }

// IdempotencyOptions tunes replay behavior. A zero TTL keeps records forever.
type IdempotencyOptions struct {
	Codec  ResultCodec
	TTL    time.Duration
	Now    func() time.Time
	Logger *slog.Logger
}

type idempotencyGuard struct {
	store  IdempotencyStore
	codec  ResultCodec
	ttl    time.Duration
	now    func() time.Time
	logger *slog.Logger
}

// Idempotency replays the stored result of a command carrying a known key.
// Failures are not recorded, so a rejected command can be retried under the same key.
// Keys are namespaced by command key. A result that cannot be recorded is still
// returned and the failure is logged.
func Idempotency(store IdempotencyStore, opts IdempotencyOptions) CommandMiddleware {
	if store == nil {
		panic("middleware: idempotency store required")
	}
	g := idempotencyGuard{store: store, codec: opts.Codec, ttl: opts.TTL, now: opts.Now, logger: opts.Logger}
	if g.codec == nil {
		g.codec = JSONResultCodec{}
	}
	if g.now == nil {
		g.now = time.Now
	}
	if g.logger == nil {
		g.logger = slog.Default()
	}
	return func(next commands.Bus) commands.Bus {
		run := wrapCommand(next)
		return commandFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
			idCmd, ok := cmd.(IdempotentCommand)
			if !ok || idCmd.IdempotencyKey() == "" {
				return run(ctx, cmd)
			}
			key := cmd.Key() + ":" + idCmd.IdempotencyKey()
			if result, replayed, err := g.replay(ctx, key, idCmd); err != nil || replayed {
				return result, err
			}
			result, err := run(ctx, cmd)
			if err != nil {
				return nil, err
			}
			if err := g.record(ctx, key, result); err != nil {
				g.logger.WarnContext(ctx, "idempotency record failed", "command", cmd.Key(), "error", err)
			}
			return result, nil
		})
	}
}

func (g idempotencyGuard) replay(ctx context.Context, key string, cmd IdempotentCommand) (any, bool, error) {
	rec, found, err := g.store.Get(ctx, key)
	if err != nil || !found {
		return nil, false, err
	}
	if g.ttl > 0 && g.now().Sub(rec.OccurredAt) > g.ttl {
		return nil, false, nil
	}
	out := cmd.ResultPrototype()
	if out == nil {
		return nil, false, errMissingPrototype
	}
	if len(rec.Payload) > 0 {
		if err := g.codec.Decode(rec.Payload, out); err != nil {
			return nil, false, err
		}
	}
	return out, true, nil
}

func (g idempotencyGuard) record(ctx context.Context, key string, result any) error {
	rec := IdempotencyRecord{Key: key, OccurredAt: g.now().UTC()}
	if result != nil {
		payload, err := g.codec.Encode(result)
		if err != nil {
			return err
		}
		rec.Payload = payload
	}
	return g.store.Save(ctx, rec)
}
