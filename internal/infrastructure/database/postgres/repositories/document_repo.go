package repositories

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/veridocs/kycengine/internal/infrastructure/monitoring/logging"
	"github.com/veridocs/kycengine/pkg/errors"
	"github.com/veridocs/kycengine/pkg/types/kyc"
)

// DocumentRepository persists per-document records in the kyc_documents
// table, with the extraction payload stored as JSONB.
type DocumentRepository struct {
	pool   *pgxpool.Pool
	logger logging.Logger
}

// NewDocumentRepository wires the repository to a connection pool.
func NewDocumentRepository(pool *pgxpool.Pool, log logging.Logger) *DocumentRepository {
	return &DocumentRepository{pool: pool, logger: log.Named("document_repo")}
}

// Attach registers a document on a run, before extraction.
func (r *DocumentRepository) Attach(ctx context.Context, runID string, doc *kyc.DocumentRecord) error {
	const q = `
		INSERT INTO kyc_documents (id, run_id, customer_id, doc_type, file_url, source_name, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.pool.Exec(ctx, q, doc.ID, runID, doc.CustomerID, doc.Type,
		doc.FileURL, doc.SourceName, time.Now().UTC())
	if err != nil {
		if isUniqueViolation(err) {
			return errors.New(errors.ErrCodeDocumentAlreadyExists, "document already exists").WithDetail(doc.ID)
		}
		return errors.Wrap(err, errors.ErrCodeDocumentStoreFailed, "failed to attach document")
	}
	return nil
}

// Get loads a single document record.
func (r *DocumentRepository) Get(ctx context.Context, docID string) (*kyc.DocumentRecord, error) {
	const q = `
		SELECT id, customer_id, doc_type, file_url, source_name, extracted_at, extracted_payload
		FROM kyc_documents WHERE id = $1`

	var d kyc.DocumentRecord
	var payload []byte
	err := r.pool.QueryRow(ctx, q, docID).Scan(&d.ID, &d.CustomerID, &d.Type,
		&d.FileURL, &d.SourceName, &d.ExtractedAt, &payload)
	if err != nil {
		if stderrors.Is(err, pgx.ErrNoRows) {
			return nil, errors.New(errors.ErrCodeDocumentNotFound, "document not found").WithDetail(docID)
		}
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to load document")
	}
	d.ExtractedPayload = json.RawMessage(payload)
	return &d, nil
}

// SavePayload stores the extraction result for a document.
func (r *DocumentRepository) SavePayload(ctx context.Context, docID string, payload json.RawMessage, extractedAt time.Time) error {
	const q = `
		UPDATE kyc_documents SET extracted_payload = $2, extracted_at = $3 WHERE id = $1`

	tag, err := r.pool.Exec(ctx, q, docID, []byte(payload), extractedAt)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDocumentStoreFailed, "failed to save extraction payload")
	}
	if tag.RowsAffected() == 0 {
		return errors.New(errors.ErrCodeDocumentNotFound, "document not found").WithDetail(docID)
	}
	r.logger.Debug("extraction payload saved", logging.String("document_id", docID))
	return nil
}

// isUniqueViolation reports a 23505 unique-constraint error.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return stderrors.As(err, &pgErr) && pgErr.Code == "23505"
}
