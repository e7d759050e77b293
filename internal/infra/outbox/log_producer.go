package outbox

import (
	"context"
	"log/slog"
)

// LogProducer stands in for the broker when no Kafka brokers are configured.
type LogProducer struct {
	Logger *slog.Logger
}

func (p LogProducer) Publish(ctx context.Context, topic string, key string, payload []byte, _ map[string]string) error {
	if p.Logger != nil {
		p.Logger.InfoContext(ctx, "event published", "topic", topic, "key", key, "bytes", len(payload))
	}
	return nil
}

var _ Producer = LogProducer{}
