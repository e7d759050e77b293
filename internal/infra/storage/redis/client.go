package redis

import (
	"context"
	"fmt"

	goredis "github.com/go-redis/redis/v8"
)

type Options struct {
	Addr     string
	Password string
	DB       int
}

// Connect dials Redis and fails fast when it is unreachable.
func Connect(ctx context.Context, opts Options) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis: ping %s: %w", opts.Addr, err)
	}
	return client, nil
}

// Ping backs the readiness probe.
func Ping(ctx context.Context, client goredis.Cmdable) error {
	return client.Ping(ctx).Err()
}
