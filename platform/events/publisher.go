package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// LookupEvent describes the terminal outcome of one logged weather lookup.
type LookupEvent struct {
	LogID       int64     `json:"log_id"`
	ZipCode     string    `json:"zip_code"`
	Status      string    `json:"status"`
	Timestamp   string    `json:"timestamp"`
	CompletedAt time.Time `json:"completed_at"`
	Error       string    `json:"error,omitempty"`
}

// Publisher emits lookup outcomes to Kafka.
type Publisher struct {
	writer    *kafka.Writer
	logger    *zap.Logger
	closeOnce sync.Once
	closeErr  error
}

// NewPublisher builds a publisher for topic on brokers. Messages are written
// once; a failed write is reported to the caller and not retried.
func NewPublisher(brokers []string, topic string, logger *zap.Logger) *Publisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		MaxAttempts:  1,
		WriteTimeout: 10 * time.Second,
	}

	return &Publisher{
		writer: writer,
		logger: logger.With(zap.String("component", "publisher"), zap.String("topic", topic)),
	}
}

// Publish writes event keyed by its ZIP code, so lookups of one ZIP code
// stay ordered within a partition.
func (p *Publisher) Publish(ctx context.Context, event LookupEvent) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal lookup event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(event.ZipCode),
		Value: value,
		Headers: []kafka.Header{
			{Key: "log_id", Value: []byte(strconv.FormatInt(event.LogID, 10))},
			{Key: "status", Value: []byte(event.Status)},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to write lookup event: %w", err)
	}

	p.logger.Debug("lookup event published",
		zap.Int64("log_id", event.LogID),
		zap.String("status", event.Status))
	return nil
}

// Close flushes and closes the writer. Calling it more than once is safe.
func (p *Publisher) Close() error {
	p.closeOnce.Do(func() {
		p.closeErr = p.writer.Close()
	})
	return p.closeErr
}
