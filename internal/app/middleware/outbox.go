package middleware

import (
	"context"

	"wanderstay/internal/app/commands"
	"wanderstay/internal/app/outbox"
)

// OutboxFlush releases the events staged by a command once it succeeds.
// A failed command leaves its staging untouched.
func OutboxFlush(box outbox.Outbox) CommandMiddleware {
	if box == nil {
		panic("middleware: outbox required")
	}
	return func(next commands.Bus) commands.Bus {
		run := wrapCommand(next)
		return commandFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
			res, err := run(ctx, cmd)
			if err != nil {
				return nil, err
			}
			if err := box.Flush(ctx); err != nil {
				return nil, err
			}
			return res, nil
		})
	}
}
