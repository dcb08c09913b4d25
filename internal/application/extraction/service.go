// Package extraction is the worker-side pipeline: it consumes
// document-uploaded events, calls the external extractor, and stores the
// typed payloads back on the run.
package extraction

import (
	"context"
	"encoding/json"
	"time"

	"github.com/veridocs/kycengine/internal/infrastructure/messaging/kafka"
	"github.com/veridocs/kycengine/internal/infrastructure/monitoring/logging"
	"github.com/veridocs/kycengine/internal/infrastructure/monitoring/prometheus"
	"github.com/veridocs/kycengine/internal/intelligence/extractor"
)

// PayloadStore saves extraction results on document records.
type PayloadStore interface {
	SavePayload(ctx context.Context, docID string, payload json.RawMessage, extractedAt time.Time) error
}

// URLSigner turns a stored object key into a fetchable URL for the extractor.
type URLSigner interface {
	PresignedURL(ctx context.Context, key string) (string, error)
}

// Publisher emits pipeline events.
type Publisher interface {
	Publish(ctx context.Context, topic, eventType, key string, payload any) error
}

// Service handles one uploaded document at a time.  Failures propagate to the
// consumer, which owns retries and dead-lettering.
type Service struct {
	extractor extractor.Extractor
	payloads  PayloadStore
	signer    URLSigner
	publisher Publisher
	metrics   *prometheus.Metrics
	logger    logging.Logger
	now       func() time.Time
}

// NewService wires the pipeline.  Publisher and metrics may be nil.
func NewService(ex extractor.Extractor, payloads PayloadStore, signer URLSigner,
	publisher Publisher, metrics *prometheus.Metrics, log logging.Logger) *Service {
	return &Service{
		extractor: ex,
		payloads:  payloads,
		signer:    signer,
		publisher: publisher,
		metrics:   metrics,
		logger:    log.Named("extraction_service"),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Register binds the service's handlers onto a consumer.
func (s *Service) Register(c *kafka.Consumer) {
	c.RegisterHandler("document.uploaded", s.HandleDocumentUploaded)
}

// HandleDocumentUploaded runs one document through the extractor and saves
// the typed payload.
func (s *Service) HandleDocumentUploaded(ctx context.Context, env *kafka.EventEnvelope) error {
	var event kafka.DocumentUploadedPayload
	if err := env.DecodePayload(&event); err != nil {
		return err
	}

	url, err := s.signer.PresignedURL(ctx, event.FileURL)
	if err != nil {
		return err
	}

	started := s.now()
	result, err := s.extractor.Extract(ctx, extractor.Request{
		DocumentID: event.DocumentID,
		DocType:    event.DocType,
		URL:        url,
	})
	if err != nil {
		s.observe(event.DocType, "error", s.now().Sub(started))
		return err
	}
	s.observe(event.DocType, "ok", s.now().Sub(started))

	extractedAt := s.now()
	if err := s.payloads.SavePayload(ctx, event.DocumentID, result.Payload, extractedAt); err != nil {
		return err
	}

	if s.publisher != nil {
		out := kafka.DocumentExtractedPayload{
			RunID:       event.RunID,
			DocumentID:  event.DocumentID,
			DocType:     event.DocType,
			ExtractedAt: extractedAt,
		}
		if err := s.publisher.Publish(ctx, kafka.TopicDocumentExtracted, "document.extracted", event.RunID, out); err != nil {
			// The payload is saved; a lost notification is recoverable.
			s.logger.Warn("failed to announce extraction",
				logging.String("document_id", event.DocumentID), logging.Err(err))
		}
	}

	s.logger.Info("document extracted",
		logging.String("run_id", event.RunID),
		logging.String("document_id", event.DocumentID),
		logging.String("doc_type", event.DocType))
	return nil
}

func (s *Service) observe(docType, status string, elapsed time.Duration) {
	if s.metrics != nil {
		s.metrics.ObserveExtraction(docType, status, elapsed)
	}
}
