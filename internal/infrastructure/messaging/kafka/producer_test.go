package kafka

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veridocs/kycengine/internal/infrastructure/monitoring/logging"
	"github.com/veridocs/kycengine/pkg/errors"
)

// fakeWriter records written messages and optionally fails.
type fakeWriter struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func TestProducer_PublishWrapsEnvelope(t *testing.T) {
	w := &fakeWriter{}
	p := NewProducerWithWriter(w, "apiserver", logging.NewNopLogger())

	payload := DocumentUploadedPayload{
		RunID:      "run-1",
		DocumentID: "doc-1",
		CustomerID: "cust-1",
		DocType:    "sat_constancia",
		FileURL:    "s3://kyc-documents/csf.pdf",
		UploadedAt: time.Now().UTC(),
	}
	require.NoError(t, p.Publish(context.Background(), TopicDocumentUploaded, "document.uploaded", "run-1", payload))

	require.Len(t, w.messages, 1)
	msg := w.messages[0]
	assert.Equal(t, TopicDocumentUploaded, msg.Topic)
	assert.Equal(t, "run-1", string(msg.Key))

	var env EventEnvelope
	require.NoError(t, json.Unmarshal(msg.Value, &env))
	assert.Equal(t, "document.uploaded", env.EventType)
	assert.Equal(t, "apiserver", env.Source)
	assert.Equal(t, "1.0", env.SchemaVersion)
	assert.NotEmpty(t, env.EventID)

	var got DocumentUploadedPayload
	require.NoError(t, env.DecodePayload(&got))
	assert.Equal(t, "doc-1", got.DocumentID)
	assert.Equal(t, int64(1), p.Sent())
}

func TestProducer_PublishWriteFailure(t *testing.T) {
	w := &fakeWriter{err: assert.AnError}
	p := NewProducerWithWriter(w, "apiserver", logging.NewNopLogger())

	err := p.Publish(context.Background(), TopicRunValidated, "run.validated", "run-2", RunValidatedPayload{RunID: "run-2"})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodePublishFailed))
	assert.Equal(t, int64(1), p.Failed())
}

func TestProducer_PublishAfterClose(t *testing.T) {
	w := &fakeWriter{}
	p := NewProducerWithWriter(w, "apiserver", logging.NewNopLogger())

	require.NoError(t, p.Close())
	assert.True(t, w.closed)

	err := p.Publish(context.Background(), TopicRunValidated, "run.validated", "run-3", RunValidatedPayload{})
	assert.ErrorIs(t, err, ErrProducerClosed)

	// Close is idempotent.
	require.NoError(t, p.Close())
}

func TestDecodeEnvelope_Malformed(t *testing.T) {
	_, err := DecodeEnvelope([]byte("not json"))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeSerialization))

	_, err = DecodeEnvelope([]byte(`{"payload":{}}`))
	require.Error(t, err)
}
