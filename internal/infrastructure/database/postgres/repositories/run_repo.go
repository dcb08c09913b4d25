// Package repositories provides the PostgreSQL-backed persistence for KYC
// runs and their documents.  Every public method accepts a context.Context
// and uses parameterised queries exclusively.
package repositories

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/veridocs/kycengine/internal/infrastructure/monitoring/logging"
	"github.com/veridocs/kycengine/pkg/errors"
	"github.com/veridocs/kycengine/pkg/types/kyc"
)

// RunRepository persists run envelopes in the kyc_runs table, with the
// profile and validation result stored as JSONB.
type RunRepository struct {
	pool   *pgxpool.Pool
	logger logging.Logger
}

// NewRunRepository wires the repository to a connection pool.
func NewRunRepository(pool *pgxpool.Pool, log logging.Logger) *RunRepository {
	return &RunRepository{pool: pool, logger: log.Named("run_repo")}
}

// Create inserts a new run in its initial state.
func (r *RunRepository) Create(ctx context.Context, run *kyc.Run) error {
	const q = `
		INSERT INTO kyc_runs (run_id, customer_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4)`

	_, err := r.pool.Exec(ctx, q, run.RunID, run.CustomerID, run.Status, run.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return errors.New(errors.ErrCodeRunAlreadyExists, "run already exists").WithDetail(run.RunID)
		}
		return errors.Wrap(err, errors.ErrCodeRunPersistFailed, "failed to insert run")
	}
	return nil
}

// Get loads a run with all of its documents.
func (r *RunRepository) Get(ctx context.Context, runID string) (*kyc.Run, error) {
	const q = `
		SELECT run_id, customer_id, status, profile, validation, created_at
		FROM kyc_runs WHERE run_id = $1`

	var run kyc.Run
	var profile, validation []byte
	err := r.pool.QueryRow(ctx, q, runID).Scan(
		&run.RunID, &run.CustomerID, &run.Status, &profile, &validation, &run.CreatedAt,
	)
	if err != nil {
		if stderrors.Is(err, pgx.ErrNoRows) {
			return nil, errors.New(errors.ErrCodeRunNotFound, "run not found").WithDetail(runID)
		}
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to load run")
	}
	run.Profile = json.RawMessage(profile)
	run.Validation = json.RawMessage(validation)

	docs, err := r.documents(ctx, runID)
	if err != nil {
		return nil, err
	}
	run.Documents = docs
	return &run, nil
}

// ListByCustomer returns the customer's runs, most recent first, without
// document payloads.
func (r *RunRepository) ListByCustomer(ctx context.Context, customerID string, limit int) ([]kyc.Run, error) {
	if limit <= 0 {
		limit = 50
	}
	const q = `
		SELECT run_id, customer_id, status, created_at
		FROM kyc_runs WHERE customer_id = $1
		ORDER BY created_at DESC LIMIT $2`

	rows, err := r.pool.Query(ctx, q, customerID, limit)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to list runs")
	}
	defer rows.Close()

	var out []kyc.Run
	for rows.Next() {
		var run kyc.Run
		if err := rows.Scan(&run.RunID, &run.CustomerID, &run.Status, &run.CreatedAt); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to scan run")
		}
		out = append(out, run)
	}
	return out, rows.Err()
}

// UpdateStatus moves the run through its lifecycle.
func (r *RunRepository) UpdateStatus(ctx context.Context, runID string, status kyc.RunStatus) error {
	const q = `UPDATE kyc_runs SET status = $2, updated_at = $3 WHERE run_id = $1`

	tag, err := r.pool.Exec(ctx, q, runID, status, time.Now().UTC())
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeRunPersistFailed, "failed to update run status")
	}
	if tag.RowsAffected() == 0 {
		return errors.New(errors.ErrCodeRunNotFound, "run not found").WithDetail(runID)
	}
	return nil
}

// SaveResults stores the assembled profile and validation verdict and marks
// the run validated.
func (r *RunRepository) SaveResults(ctx context.Context, runID string, profile, validation json.RawMessage) error {
	const q = `
		UPDATE kyc_runs
		SET profile = $2, validation = $3, status = $4, updated_at = $5
		WHERE run_id = $1`

	tag, err := r.pool.Exec(ctx, q, runID, []byte(profile), []byte(validation),
		kyc.RunStatusValidated, time.Now().UTC())
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeRunPersistFailed, "failed to save run results")
	}
	if tag.RowsAffected() == 0 {
		return errors.New(errors.ErrCodeRunNotFound, "run not found").WithDetail(runID)
	}
	r.logger.Debug("run results saved", logging.String("run_id", runID))
	return nil
}

// documents loads the run's document records in insertion order.
func (r *RunRepository) documents(ctx context.Context, runID string) ([]kyc.DocumentRecord, error) {
	const q = `
		SELECT id, customer_id, doc_type, file_url, source_name, extracted_at, extracted_payload
		FROM kyc_documents WHERE run_id = $1
		ORDER BY created_at`

	rows, err := r.pool.Query(ctx, q, runID)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to load documents")
	}
	defer rows.Close()

	var out []kyc.DocumentRecord
	for rows.Next() {
		var d kyc.DocumentRecord
		var payload []byte
		if err := rows.Scan(&d.ID, &d.CustomerID, &d.Type, &d.FileURL, &d.SourceName,
			&d.ExtractedAt, &payload); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to scan document")
		}
		d.ExtractedPayload = json.RawMessage(payload)
		out = append(out, d)
	}
	return out, rows.Err()
}
