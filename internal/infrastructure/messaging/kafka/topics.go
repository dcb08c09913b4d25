// Package kafka provides the event bus between the API server and the
// extraction workers.  Events carry JSON payloads wrapped in a versioned
// envelope keyed by run ID so that all events of a run land on one partition.
package kafka

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/veridocs/kycengine/pkg/errors"
)

// Topic constants.
const (
	TopicDocumentUploaded  = "kyc.document.uploaded"
	TopicDocumentExtracted = "kyc.document.extracted"
	TopicRunValidated      = "kyc.run.validated"
	TopicDeadLetter        = "kyc.dead_letter"
)

// EventEnvelope standardizes event messages.
type EventEnvelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	Source        string          `json:"source"`
	Timestamp     time.Time       `json:"timestamp"`
	SchemaVersion string          `json:"schema_version"`
	Payload       json.RawMessage `json:"payload"`
}

// DocumentUploadedPayload announces a document attached to a run and awaiting
// extraction.
type DocumentUploadedPayload struct {
	RunID      string    `json:"run_id"`
	DocumentID string    `json:"document_id"`
	CustomerID string    `json:"customer_id"`
	DocType    string    `json:"doc_type"`
	FileURL    string    `json:"file_url"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// DocumentExtractedPayload announces a completed extraction.
type DocumentExtractedPayload struct {
	RunID       string    `json:"run_id"`
	DocumentID  string    `json:"document_id"`
	DocType     string    `json:"doc_type"`
	ExtractedAt time.Time `json:"extracted_at"`
}

// RunValidatedPayload announces a completed validation with the headline
// numbers; consumers fetch the full result from the API.
type RunValidatedPayload struct {
	RunID         string    `json:"run_id"`
	CustomerID    string    `json:"customer_id"`
	Score         float64   `json:"score"`
	CriticalFlags int       `json:"critical_flags"`
	WarningFlags  int       `json:"warning_flags"`
	ValidatedAt   time.Time `json:"validated_at"`
}

// NewEnvelope wraps a payload in a fresh envelope.
func NewEnvelope(eventType, source string, payload any) (*EventEnvelope, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to marshal event payload")
	}
	return &EventEnvelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		Source:        source,
		Timestamp:     time.Now().UTC(),
		SchemaVersion: "1.0",
		Payload:       data,
	}, nil
}

// DecodeEnvelope parses a raw message into an envelope.
func DecodeEnvelope(data []byte) (*EventEnvelope, error) {
	var env EventEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "malformed event envelope")
	}
	if env.EventType == "" {
		return nil, errors.New(errors.ErrCodeSerialization, "event envelope missing event_type")
	}
	return &env, nil
}

// DecodePayload parses the envelope payload into dest.
func (e *EventEnvelope) DecodePayload(dest any) error {
	if err := json.Unmarshal(e.Payload, dest); err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "malformed event payload").WithDetail(e.EventType)
	}
	return nil
}
