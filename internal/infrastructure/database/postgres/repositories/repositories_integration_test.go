//go:build integration

// Integration tests for the run and document repositories.  A disposable
// PostgreSQL container is started per test run via testcontainers.
package repositories_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/veridocs/kycengine/internal/config"
	"github.com/veridocs/kycengine/internal/infrastructure/database/postgres"
	"github.com/veridocs/kycengine/internal/infrastructure/database/postgres/repositories"
	"github.com/veridocs/kycengine/internal/infrastructure/monitoring/logging"
	"github.com/veridocs/kycengine/pkg/errors"
	"github.com/veridocs/kycengine/pkg/types/kyc"
)

func setupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.RunContainer(ctx,
		tcpostgres.WithDatabase("kycengine_test"),
		tcpostgres.WithUsername("kyc"),
		tcpostgres.WithPassword("secret"),
		tcpostgres.WithImage("postgres:16-alpine"),
		tcpostgres.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	cfg := config.DatabaseConfig{
		Host:     host,
		Port:     port.Int(),
		User:     "kyc",
		Password: "secret",
		DBName:   "kycengine_test",
		SSLMode:  "disable",
		MaxConns: 5,
	}
	log := logging.NewNopLogger()
	require.NoError(t, postgres.Migrate(cfg, log))

	pool, err := postgres.Connect(ctx, cfg, log)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return pool
}

func newRun(customerID string) *kyc.Run {
	return &kyc.Run{
		RunID:      uuid.NewString(),
		CustomerID: customerID,
		CreatedAt:  time.Now().UTC().Truncate(time.Microsecond),
		Status:     kyc.RunStatusPending,
	}
}

func TestRunRepository_CreateAndGet(t *testing.T) {
	pool := setupTestDB(t)
	log := logging.NewNopLogger()
	runs := repositories.NewRunRepository(pool, log)
	ctx := context.Background()

	run := newRun("cust-1")
	require.NoError(t, runs.Create(ctx, run))

	got, err := runs.Get(ctx, run.RunID)
	require.NoError(t, err)
	assert.Equal(t, run.RunID, got.RunID)
	assert.Equal(t, kyc.RunStatusPending, got.Status)
	assert.Empty(t, got.Documents)

	// Duplicate insert conflicts.
	err = runs.Create(ctx, run)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeRunAlreadyExists))
}

func TestRunRepository_GetMissing(t *testing.T) {
	pool := setupTestDB(t)
	runs := repositories.NewRunRepository(pool, logging.NewNopLogger())

	_, err := runs.Get(context.Background(), uuid.NewString())
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeRunNotFound))
}

func TestRunRepository_LifecycleAndResults(t *testing.T) {
	pool := setupTestDB(t)
	runs := repositories.NewRunRepository(pool, logging.NewNopLogger())
	ctx := context.Background()

	run := newRun("cust-2")
	require.NoError(t, runs.Create(ctx, run))
	require.NoError(t, runs.UpdateStatus(ctx, run.RunID, kyc.RunStatusExtracting))

	profile := json.RawMessage(`{"customer_id":"cust-2"}`)
	validation := json.RawMessage(`{"score":0.95,"flags":[]}`)
	require.NoError(t, runs.SaveResults(ctx, run.RunID, profile, validation))

	got, err := runs.Get(ctx, run.RunID)
	require.NoError(t, err)
	assert.Equal(t, kyc.RunStatusValidated, got.Status)
	assert.JSONEq(t, string(profile), string(got.Profile))
	assert.JSONEq(t, string(validation), string(got.Validation))
}

func TestDocumentRepository_AttachAndPayload(t *testing.T) {
	pool := setupTestDB(t)
	log := logging.NewNopLogger()
	runs := repositories.NewRunRepository(pool, log)
	docs := repositories.NewDocumentRepository(pool, log)
	ctx := context.Background()

	run := newRun("cust-3")
	require.NoError(t, runs.Create(ctx, run))

	doc := &kyc.DocumentRecord{
		ID:         uuid.NewString(),
		CustomerID: "cust-3",
		Type:       "sat_constancia",
		FileURL:    "s3://kyc-documents/csf.pdf",
		SourceName: "csf.pdf",
	}
	require.NoError(t, docs.Attach(ctx, run.RunID, doc))

	payload := json.RawMessage(`{"rfc":"AOP150310AB1"}`)
	extractedAt := time.Now().UTC().Truncate(time.Microsecond)
	require.NoError(t, docs.SavePayload(ctx, doc.ID, payload, extractedAt))

	got, err := docs.Get(ctx, doc.ID)
	require.NoError(t, err)
	assert.JSONEq(t, string(payload), string(got.ExtractedPayload))
	require.NotNil(t, got.ExtractedAt)

	// Documents surface on the run envelope.
	gotRun, err := runs.Get(ctx, run.RunID)
	require.NoError(t, err)
	require.Len(t, gotRun.Documents, 1)
	assert.Equal(t, "sat_constancia", gotRun.Documents[0].Type)
}
