package kafka

import (
	"context"
	"encoding/json"
	"io"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veridocs/kycengine/internal/config"
	"github.com/veridocs/kycengine/internal/infrastructure/monitoring/logging"
	"github.com/veridocs/kycengine/pkg/errors"
)

// fakeReader replays a fixed message sequence then reports EOF.
type fakeReader struct {
	messages  []kafka.Message
	committed []kafka.Message
	pos       int
}

func (r *fakeReader) FetchMessage(_ context.Context) (kafka.Message, error) {
	if r.pos >= len(r.messages) {
		return kafka.Message{}, io.EOF
	}
	msg := r.messages[r.pos]
	r.pos++
	return msg, nil
}

func (r *fakeReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	r.committed = append(r.committed, msgs...)
	return nil
}

func (r *fakeReader) Close() error { return nil }

func envelopeMessage(t *testing.T, topic, eventType, key string, payload any) kafka.Message {
	t.Helper()
	env, err := NewEnvelope(eventType, "test", payload)
	require.NoError(t, err)
	data, err := json.Marshal(env)
	require.NoError(t, err)
	return kafka.Message{Topic: topic, Key: []byte(key), Value: data}
}

func workerCfg() config.WorkerConfig {
	return config.WorkerConfig{MaxRetries: 2, RetryBackoff: time.Millisecond}
}

func TestConsumer_DispatchesByEventType(t *testing.T) {
	reader := &fakeReader{messages: []kafka.Message{
		envelopeMessage(t, TopicDocumentUploaded, "document.uploaded", "run-1",
			DocumentUploadedPayload{RunID: "run-1", DocumentID: "doc-1"}),
		envelopeMessage(t, TopicDocumentExtracted, "document.extracted", "run-1",
			DocumentExtractedPayload{RunID: "run-1", DocumentID: "doc-1"}),
	}}
	c := NewConsumerWithReader(reader, workerCfg(), nil, logging.NewNopLogger())

	var uploaded, extracted []string
	c.RegisterHandler("document.uploaded", func(_ context.Context, env *EventEnvelope) error {
		var p DocumentUploadedPayload
		require.NoError(t, env.DecodePayload(&p))
		uploaded = append(uploaded, p.DocumentID)
		return nil
	})
	c.RegisterHandler("document.extracted", func(_ context.Context, env *EventEnvelope) error {
		var p DocumentExtractedPayload
		require.NoError(t, env.DecodePayload(&p))
		extracted = append(extracted, p.DocumentID)
		return nil
	})

	require.NoError(t, c.Run(context.Background()))
	assert.Equal(t, []string{"doc-1"}, uploaded)
	assert.Equal(t, []string{"doc-1"}, extracted)
	assert.Equal(t, int64(2), c.Processed())
	assert.Len(t, reader.committed, 2)
}

func TestConsumer_RetriesThenDeadLetters(t *testing.T) {
	reader := &fakeReader{messages: []kafka.Message{
		envelopeMessage(t, TopicDocumentUploaded, "document.uploaded", "run-2",
			DocumentUploadedPayload{RunID: "run-2"}),
	}}
	dlw := &fakeWriter{}
	dead := NewProducerWithWriter(dlw, "worker", logging.NewNopLogger())
	c := NewConsumerWithReader(reader, workerCfg(), dead, logging.NewNopLogger())

	attempts := 0
	c.RegisterHandler("document.uploaded", func(_ context.Context, _ *EventEnvelope) error {
		attempts++
		return errors.New(errors.ErrCodeExtractionFailed, "extractor down")
	})

	require.NoError(t, c.Run(context.Background()))
	assert.Equal(t, 3, attempts) // initial try plus two retries
	assert.Equal(t, int64(1), c.Failed())

	require.Len(t, dlw.messages, 1)
	assert.Equal(t, TopicDeadLetter, dlw.messages[0].Topic)
	// Offset is still committed so the poison message is not replayed.
	assert.Len(t, reader.committed, 1)
}

func TestConsumer_UnhandledEventTypeDeadLetters(t *testing.T) {
	reader := &fakeReader{messages: []kafka.Message{
		envelopeMessage(t, TopicRunValidated, "run.validated", "run-3", RunValidatedPayload{RunID: "run-3"}),
	}}
	dlw := &fakeWriter{}
	dead := NewProducerWithWriter(dlw, "worker", logging.NewNopLogger())
	c := NewConsumerWithReader(reader, workerCfg(), dead, logging.NewNopLogger())

	require.NoError(t, c.Run(context.Background()))
	require.Len(t, dlw.messages, 1)
	assert.Equal(t, int64(0), c.Processed())
}

func TestConsumer_MalformedMessageDropped(t *testing.T) {
	reader := &fakeReader{messages: []kafka.Message{
		{Topic: TopicDocumentUploaded, Key: []byte("run-4"), Value: []byte("not json")},
	}}
	c := NewConsumerWithReader(reader, workerCfg(), nil, logging.NewNopLogger())
	c.RegisterHandler("document.uploaded", func(_ context.Context, _ *EventEnvelope) error {
		t.Fatal("handler must not run for malformed messages")
		return nil
	})

	require.NoError(t, c.Run(context.Background()))
	assert.Len(t, reader.committed, 1)
}

func TestConsumer_RunTwiceRejected(t *testing.T) {
	blocker := &blockingReader{release: make(chan struct{})}
	c := NewConsumerWithReader(blocker, workerCfg(), nil, logging.NewNopLogger())

	done := make(chan error, 1)
	go func() { done <- c.Run(context.Background()) }()

	// Wait for the first Run to take ownership.
	require.Eventually(t, func() bool { return c.running.Load() }, time.Second, time.Millisecond)
	assert.ErrorIs(t, c.Run(context.Background()), ErrAlreadyRunning)

	close(blocker.release)
	require.NoError(t, <-done)
}

// blockingReader blocks FetchMessage until released, then reports EOF.
type blockingReader struct {
	release chan struct{}
}

func (r *blockingReader) FetchMessage(_ context.Context) (kafka.Message, error) {
	<-r.release
	return kafka.Message{}, io.EOF
}

func (r *blockingReader) CommitMessages(_ context.Context, _ ...kafka.Message) error { return nil }
func (r *blockingReader) Close() error                                               { return nil }
