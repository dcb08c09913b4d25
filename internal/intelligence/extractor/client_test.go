package extractor

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veridocs/kycengine/internal/config"
	"github.com/veridocs/kycengine/internal/infrastructure/monitoring/logging"
	"github.com/veridocs/kycengine/pkg/errors"
)

func newTestClient(baseURL string, maxRetries int) *Client {
	return NewClient(config.ExtractorConfig{
		BaseURL:        baseURL,
		APIKey:         "test-key",
		RequestTimeout: 5 * time.Second,
		MaxRetries:     maxRetries,
		RetryBackoff:   time.Millisecond,
	}, logging.NewNopLogger())
}

func TestClient_ExtractSuccess(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		assert.Equal(t, "/v1/extract/sat_constancia", r.URL.Path)

		var req Request
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "doc-1", req.DocumentID)

		json.NewEncoder(w).Encode(Result{
			DocumentID: req.DocumentID,
			DocType:    req.DocType,
			Payload:    json.RawMessage(`{"rfc":"AOP150310AB1"}`),
			Model:      "docai-v3",
		})
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, 0)
	result, err := c.Extract(context.Background(), Request{
		DocumentID: "doc-1",
		DocType:    "sat_constancia",
		URL:        "https://storage.local/runs/run-1/doc-1/csf.pdf",
	})
	require.NoError(t, err)
	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.JSONEq(t, `{"rfc":"AOP150310AB1"}`, string(result.Payload))
	assert.Equal(t, "docai-v3", result.Model)
}

func TestClient_RetriesServerErrors(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		json.NewEncoder(w).Encode(Result{Payload: json.RawMessage(`{}`)})
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, 3)
	_, err := c.Extract(context.Background(), Request{DocumentID: "doc-2", DocType: "passport"})
	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestClient_DoesNotRetryClientErrors(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		attempts++
		http.Error(w, "unreadable scan", http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, 3)
	_, err := c.Extract(context.Background(), Request{DocumentID: "doc-3", DocType: "passport"})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeExtractionFailed))
	assert.Equal(t, 1, attempts)
}

func TestClient_ExhaustedRetries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, 1)
	_, err := c.Extract(context.Background(), Request{DocumentID: "doc-4", DocType: "passport"})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeExtractionUnavailable))
}

func TestClient_UnknownDocType(t *testing.T) {
	c := newTestClient("http://localhost:0", 0)
	_, err := c.Extract(context.Background(), Request{DocumentID: "doc-5", DocType: "drivers_license"})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeDocumentTypeInvalid))
}

func TestClient_MissingPayloadRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(Result{DocumentID: "doc-6"})
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, 0)
	_, err := c.Extract(context.Background(), Request{DocumentID: "doc-6", DocType: "passport"})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeExtractionBadPayload))
}
