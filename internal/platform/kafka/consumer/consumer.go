// Package consumer wraps franz-go group consumption with explicit commits.
// A record is committed only after its handler returns nil, so a crash
// mid-handle redelivers instead of losing the record.
package consumer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"
)

// Message is the transport-agnostic view of one consumed record.
type Message struct {
	Topic     string
	Partition int32
	Offset    int64
	Key       []byte
	Value     []byte
	Timestamp time.Time
}

// Handler processes one message. Returning an error stops the consumer
// without committing, forcing redelivery on restart.
type Handler interface {
	Handle(ctx context.Context, msg *Message) error
}

type Config struct {
	Brokers []string
	Topic   string
	Group   string
}

type Consumer struct {
	client  *kgo.Client
	handler Handler
	logger  *slog.Logger
}

func New(cfg Config, handler Handler, logger *slog.Logger) (*Consumer, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.ConsumeTopics(cfg.Topic),
		kgo.ConsumerGroup(cfg.Group),
		kgo.DisableAutoCommit(),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka consumer: %w", err)
	}
	return &Consumer{client: client, handler: handler, logger: logger}, nil
}

// Run polls until the context is cancelled. Each record is handled and
// committed individually, in order.
func (c *Consumer) Run(ctx context.Context) error {
	for {
		fetches := c.client.PollFetches(ctx)
		if fetches.IsClientClosed() {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		for _, fetchErr := range fetches.Errors() {
			c.logger.ErrorContext(ctx, "kafka fetch error",
				"topic", fetchErr.Topic,
				"partition", fetchErr.Partition,
				"error", fetchErr.Err,
			)
		}

		for iter := fetches.RecordIter(); !iter.Done(); {
			record := iter.Next()
			msg := &Message{
				Topic:     record.Topic,
				Partition: record.Partition,
				Offset:    record.Offset,
				Key:       record.Key,
				Value:     record.Value,
				Timestamp: record.Timestamp,
			}
			if err := c.handler.Handle(ctx, msg); err != nil {
				return fmt.Errorf("handle record %s[%d]@%d: %w", msg.Topic, msg.Partition, msg.Offset, err)
			}
			if err := c.client.CommitRecords(ctx, record); err != nil {
				return fmt.Errorf("commit record %s[%d]@%d: %w", msg.Topic, msg.Partition, msg.Offset, err)
			}
		}
	}
}

func (c *Consumer) Close() {
	c.client.Close()
}
