package kafka

import (
	"context"
	stderrors "errors"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/veridocs/kycengine/internal/config"
	"github.com/veridocs/kycengine/internal/infrastructure/monitoring/logging"
	"github.com/veridocs/kycengine/pkg/errors"
)

// ErrAlreadyRunning is returned when Run is called twice.
var ErrAlreadyRunning = errors.New(errors.ErrCodeConflict, "consumer already running")

// Handler processes one decoded event.  A non-nil error triggers retries and
// eventually the dead-letter topic; the offset is committed either way.
type Handler func(ctx context.Context, env *EventEnvelope) error

// ReaderInterface abstracts kafka.Reader for testing.
type ReaderInterface interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Consumer reads event envelopes from the subscribed topics and dispatches
// them to handlers registered by event type.  Unroutable and repeatedly
// failing events go to the dead-letter topic.
type Consumer struct {
	reader     ReaderInterface
	deadLetter *Producer
	logger     logging.Logger

	mu       sync.RWMutex
	handlers map[string]Handler

	maxRetries   int
	retryBackoff time.Duration

	running   atomic.Bool
	processed atomic.Int64
	failed    atomic.Int64
}

// NewConsumer creates a consumer group reader over the given topics.
func NewConsumer(cfg config.KafkaConfig, worker config.WorkerConfig, topics []string, deadLetter *Producer, log logging.Logger) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        cfg.Brokers,
		GroupID:        cfg.GroupID,
		GroupTopics:    topics,
		MinBytes:       cfg.MinBytes,
		MaxBytes:       cfg.MaxBytes,
		CommitInterval: cfg.CommitInterval,
		StartOffset:    kafka.FirstOffset,
	})
	return NewConsumerWithReader(reader, worker, deadLetter, log)
}

// NewConsumerWithReader creates a consumer over an injected reader.
func NewConsumerWithReader(reader ReaderInterface, worker config.WorkerConfig, deadLetter *Producer, log logging.Logger) *Consumer {
	maxRetries := worker.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}
	backoff := worker.RetryBackoff
	if backoff <= 0 {
		backoff = 500 * time.Millisecond
	}
	return &Consumer{
		reader:       reader,
		deadLetter:   deadLetter,
		logger:       log.Named("kafka_consumer"),
		handlers:     make(map[string]Handler),
		maxRetries:   maxRetries,
		retryBackoff: backoff,
	}
}

// RegisterHandler binds a handler to an event type.  Later registrations for
// the same type replace earlier ones.
func (c *Consumer) RegisterHandler(eventType string, h Handler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers[eventType] = h
}

// Run fetches and dispatches messages until the context is cancelled or the
// reader is closed.  It blocks; callers start it in a goroutine.
func (c *Consumer) Run(ctx context.Context) error {
	if !c.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer c.running.Store(false)

	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if stderrors.Is(err, context.Canceled) || stderrors.Is(err, io.EOF) {
				return nil
			}
			return errors.Wrap(err, errors.ErrCodeConsumeFailed, "failed to fetch message")
		}

		c.dispatch(ctx, msg)

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			if stderrors.Is(err, context.Canceled) {
				return nil
			}
			return errors.Wrap(err, errors.ErrCodeConsumeFailed, "failed to commit offset")
		}
	}
}

// dispatch decodes, routes, and retries one message.
func (c *Consumer) dispatch(ctx context.Context, msg kafka.Message) {
	env, err := DecodeEnvelope(msg.Value)
	if err != nil {
		c.logger.Warn("dropping malformed event",
			logging.String("topic", msg.Topic), logging.Err(err))
		c.sendToDeadLetter(ctx, msg, "malformed envelope")
		return
	}

	c.mu.RLock()
	handler, ok := c.handlers[env.EventType]
	c.mu.RUnlock()
	if !ok {
		c.logger.Warn("no handler for event type",
			logging.String("event_type", env.EventType))
		c.sendToDeadLetter(ctx, msg, "unhandled event type")
		return
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return
			case <-time.After(c.retryBackoff * time.Duration(attempt)):
			}
		}
		if lastErr = handler(ctx, env); lastErr == nil {
			c.processed.Add(1)
			return
		}
		c.logger.Warn("event handler failed",
			logging.String("event_type", env.EventType),
			logging.String("event_id", env.EventID),
			logging.Int("attempt", attempt+1),
			logging.Err(lastErr))
	}

	c.failed.Add(1)
	c.sendToDeadLetter(ctx, msg, lastErr.Error())
}

// sendToDeadLetter forwards an undeliverable message, preserving the original
// key and value.
func (c *Consumer) sendToDeadLetter(ctx context.Context, msg kafka.Message, reason string) {
	if c.deadLetter == nil {
		return
	}
	err := c.deadLetter.Publish(ctx, TopicDeadLetter, "dead_letter", string(msg.Key), map[string]any{
		"origin_topic": msg.Topic,
		"reason":       reason,
		"value":        string(msg.Value),
	})
	if err != nil {
		c.logger.Error("failed to dead-letter message",
			logging.String("origin_topic", msg.Topic), logging.Err(err))
	}
}

// Processed returns the number of successfully handled events.
func (c *Consumer) Processed() int64 { return c.processed.Load() }

// Failed returns the number of events that exhausted retries.
func (c *Consumer) Failed() int64 { return c.failed.Load() }

// Close stops the underlying reader; a blocked Run returns after Close.
func (c *Consumer) Close() error {
	return c.reader.Close()
}
