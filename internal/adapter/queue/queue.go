package queue

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/seu-repo/hawala-bot/pkg/config"
)

// MessageQueue defines the interface for a message queue adapter
type MessageQueue interface {
	Publish(subject string, data []byte) error
	Subscribe(subject string, handler func(data []byte) error) error
	Close() error
}

// New selects the queue backend from configuration. An empty URL returns
// (nil, nil): event publishing is optional and the caller treats a nil queue
// as "publishing disabled".
func New(cfg config.QueueConfig, log *zap.Logger) (MessageQueue, error) {
	if cfg.URL == "" {
		return nil, nil
	}
	switch cfg.Kind {
	case "nats":
		return NewNATSQueue(cfg.URL, log)
	case "rabbitmq":
		return NewRabbitMQQueue(cfg.URL, log)
	default:
		return nil, fmt.Errorf("queue: unknown backend %q", cfg.Kind)
	}
}
