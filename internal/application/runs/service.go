// Package runs orchestrates the KYC run lifecycle: create, attach documents,
// assemble the profile from extracted payloads, validate, and persist.
package runs

import (
	"context"
	"encoding/json"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/veridocs/kycengine/internal/config"
	"github.com/veridocs/kycengine/internal/domain/document"
	"github.com/veridocs/kycengine/internal/domain/validation"
	"github.com/veridocs/kycengine/internal/infrastructure/messaging/kafka"
	"github.com/veridocs/kycengine/internal/infrastructure/monitoring/logging"
	"github.com/veridocs/kycengine/internal/infrastructure/monitoring/prometheus"
	"github.com/veridocs/kycengine/pkg/errors"
	"github.com/veridocs/kycengine/pkg/types/kyc"
)

// RunStore is the persistence surface the service needs for runs.
type RunStore interface {
	Create(ctx context.Context, run *kyc.Run) error
	Get(ctx context.Context, runID string) (*kyc.Run, error)
	ListByCustomer(ctx context.Context, customerID string, limit int) ([]kyc.Run, error)
	UpdateStatus(ctx context.Context, runID string, status kyc.RunStatus) error
	SaveResults(ctx context.Context, runID string, profile, validation json.RawMessage) error
}

// DocumentStore persists per-document records.
type DocumentStore interface {
	Attach(ctx context.Context, runID string, doc *kyc.DocumentRecord) error
}

// ObjectStore writes raw document files and returns their object keys.
type ObjectStore interface {
	Upload(ctx context.Context, runID, docID, filename string, r io.Reader, size int64, contentType string) (string, error)
}

// Cache is the run-artifact cache.  All methods are best-effort: the service
// logs cache failures and continues.
type Cache interface {
	GetValidation(ctx context.Context, runID string, dest any) error
	SetProfile(ctx context.Context, runID string, profile any) error
	SetValidation(ctx context.Context, runID string, result any) error
	SetTrace(ctx context.Context, runID string, trace any) error
	GetTrace(ctx context.Context, runID string, dest any) error
	Invalidate(ctx context.Context, runID string) error
}

// Publisher emits lifecycle events.
type Publisher interface {
	Publish(ctx context.Context, topic, eventType, key string, payload any) error
}

// Service orchestrates runs end to end.
type Service struct {
	runs      RunStore
	documents DocumentStore
	objects   ObjectStore
	cache     Cache
	publisher Publisher
	metrics   *prometheus.Metrics
	policy    validation.Policy
	logger    logging.Logger
	now       func() time.Time
}

// NewService wires the orchestrator.  Cache, publisher, and metrics may be
// nil; the service degrades to synchronous, uncached operation.
func NewService(runs RunStore, documents DocumentStore, objects ObjectStore,
	cache Cache, publisher Publisher, metrics *prometheus.Metrics,
	policyCfg config.PolicyConfig, log logging.Logger) *Service {
	return &Service{
		runs:      runs,
		documents: documents,
		objects:   objects,
		cache:     cache,
		publisher: publisher,
		metrics:   metrics,
		policy:    policyFromConfig(policyCfg),
		logger:    log.Named("run_service"),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// policyFromConfig maps the operator-tuned knobs onto the validation policy,
// falling back to defaults when the config section is absent.
func policyFromConfig(cfg config.PolicyConfig) validation.Policy {
	if cfg == (config.PolicyConfig{}) {
		return validation.DefaultPolicy()
	}
	return validation.Policy{
		EquityNearTolerance: cfg.EquityNearTolerance,
		EquityTolerance:     cfg.EquityTolerance,
		CriticalPenalty:     cfg.CriticalPenalty,
		WarningPenalty:      cfg.WarningPenalty,
		CoveragePenalty:     cfg.CoveragePenalty,
	}
}

// CreateRun opens a new run for a customer.
func (s *Service) CreateRun(ctx context.Context, customerID string) (*kyc.Run, error) {
	if customerID == "" {
		return nil, errors.New(errors.ErrCodeBadRequest, "customer_id is required")
	}
	run := &kyc.Run{
		RunID:      uuid.NewString(),
		CustomerID: customerID,
		CreatedAt:  s.now(),
		Status:     kyc.RunStatusPending,
	}
	if err := s.runs.Create(ctx, run); err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.RunsCreatedTotal.Inc()
	}
	s.logger.Info("run created",
		logging.String("run_id", run.RunID),
		logging.String("customer_id", customerID))
	return run, nil
}

// GetRun loads a run with its documents.
func (s *Service) GetRun(ctx context.Context, runID string) (*kyc.Run, error) {
	return s.runs.Get(ctx, runID)
}

// ListRuns lists a customer's runs, most recent first.
func (s *Service) ListRuns(ctx context.Context, customerID string, limit int) ([]kyc.Run, error) {
	return s.runs.ListByCustomer(ctx, customerID, limit)
}

// UploadDocument stores a document file, attaches the record to the run, and
// announces it for extraction.  Non-repeatable document types reject a second
// upload.
func (s *Service) UploadDocument(ctx context.Context, runID, docType, filename, contentType string,
	r io.Reader, size int64) (*kyc.DocumentRecord, error) {
	t := document.Type(docType)
	if !t.Valid() {
		return nil, errors.New(errors.ErrCodeDocumentTypeInvalid, "unknown document type").WithDetail(docType)
	}

	run, err := s.runs.Get(ctx, runID)
	if err != nil {
		return nil, err
	}
	if !t.Repeatable() {
		for _, d := range run.Documents {
			if d.Type == docType {
				return nil, errors.New(errors.ErrCodeDocumentAlreadyExists,
					"run already carries a document of this type").WithDetail(docType)
			}
		}
	}

	doc := &kyc.DocumentRecord{
		ID:         uuid.NewString(),
		CustomerID: run.CustomerID,
		Type:       docType,
		SourceName: filename,
	}
	key, err := s.objects.Upload(ctx, runID, doc.ID, filename, r, size, contentType)
	if err != nil {
		return nil, err
	}
	doc.FileURL = key

	if err := s.documents.Attach(ctx, runID, doc); err != nil {
		return nil, err
	}
	if err := s.runs.UpdateStatus(ctx, runID, kyc.RunStatusExtracting); err != nil {
		return nil, err
	}
	s.invalidateCache(ctx, runID)

	if s.publisher != nil {
		payload := kafka.DocumentUploadedPayload{
			RunID:      runID,
			DocumentID: doc.ID,
			CustomerID: run.CustomerID,
			DocType:    docType,
			FileURL:    key,
			UploadedAt: s.now(),
		}
		if err := s.publisher.Publish(ctx, kafka.TopicDocumentUploaded, "document.uploaded", runID, payload); err != nil {
			return nil, err
		}
		if s.metrics != nil {
			s.metrics.EventsPublishedTotal.WithLabelValues(kafka.TopicDocumentUploaded).Inc()
		}
	}
	return doc, nil
}

// invalidateCache drops stale artifacts after the run changes; failures are
// logged, never surfaced.
func (s *Service) invalidateCache(ctx context.Context, runID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, runID); err != nil {
		s.logger.Warn("cache invalidation failed",
			logging.String("run_id", runID), logging.Err(err))
	}
}
