package kafka

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/veridocs/kycengine/internal/config"
	"github.com/veridocs/kycengine/internal/infrastructure/monitoring/logging"
	"github.com/veridocs/kycengine/pkg/errors"
)

// ErrProducerClosed is returned after Close.
var ErrProducerClosed = errors.New(errors.ErrCodePublishFailed, "producer closed")

// WriterInterface abstracts kafka.Writer for testing.
type WriterInterface interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer publishes event envelopes, keyed by run ID so that all events of a
// run stay ordered on one partition.
type Producer struct {
	writer WriterInterface
	logger logging.Logger
	source string
	closed atomic.Bool
	sent   atomic.Int64
	failed atomic.Int64
}

// NewProducer creates a producer over a real kafka.Writer.
func NewProducer(cfg config.KafkaConfig, source string, log logging.Logger) *Producer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Balancer:     &kafka.Hash{},
		MaxAttempts:  cfg.ProducerRetries + 1,
		BatchTimeout: cfg.BatchTimeout,
		RequiredAcks: kafka.RequireAll,
	}
	return NewProducerWithWriter(writer, source, log)
}

// NewProducerWithWriter creates a producer over an injected writer.
func NewProducerWithWriter(writer WriterInterface, source string, log logging.Logger) *Producer {
	return &Producer{writer: writer, logger: log.Named("kafka_producer"), source: source}
}

// Publish wraps payload in an envelope and writes it to topic under key.
func (p *Producer) Publish(ctx context.Context, topic, eventType, key string, payload any) error {
	if p.closed.Load() {
		return ErrProducerClosed
	}

	env, err := NewEnvelope(eventType, p.source, payload)
	if err != nil {
		return err
	}
	data, err := json.Marshal(env)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to marshal event envelope")
	}

	msg := kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: data,
		Time:  time.Now().UTC(),
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.failed.Add(1)
		return errors.Wrap(err, errors.ErrCodePublishFailed, "failed to publish event").WithDetail(topic)
	}

	p.sent.Add(1)
	p.logger.Debug("event published",
		logging.String("topic", topic),
		logging.String("event_type", eventType),
		logging.String("key", key))
	return nil
}

// Sent returns the number of successfully published messages.
func (p *Producer) Sent() int64 { return p.sent.Load() }

// Failed returns the number of failed publishes.
func (p *Producer) Failed() int64 { return p.failed.Load() }

// Close flushes and closes the underlying writer.  Publish calls after Close
// fail with ErrProducerClosed.
func (p *Producer) Close() error {
	if !p.closed.CompareAndSwap(false, true) {
		return nil
	}
	return p.writer.Close()
}
