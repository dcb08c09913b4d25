package extractor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/veridocs/kycengine/internal/config"
	"github.com/veridocs/kycengine/internal/domain/document"
	"github.com/veridocs/kycengine/internal/infrastructure/monitoring/logging"
	"github.com/veridocs/kycengine/pkg/errors"
)

// Client is the HTTP implementation of Extractor.  Transient failures (5xx,
// network errors) are retried with linear backoff; 4xx responses are not.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	maxRetries int
	backoff    time.Duration
	logger     logging.Logger
}

// NewClient builds the extractor client from configuration.
func NewClient(cfg config.ExtractorConfig, log logging.Logger) *Client {
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	backoff := cfg.RetryBackoff
	if backoff <= 0 {
		backoff = time.Second
	}
	return &Client{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: timeout},
		maxRetries: cfg.MaxRetries,
		backoff:    backoff,
		logger:     log.Named("extractor_client"),
	}
}

// Extract posts the document reference to the per-type endpoint and returns
// the typed payload.
func (c *Client) Extract(ctx context.Context, req Request) (*Result, error) {
	if !document.Type(req.DocType).Valid() {
		return nil, errors.New(errors.ErrCodeDocumentTypeInvalid, "unknown document type").WithDetail(req.DocType)
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to marshal extraction request")
	}
	endpoint := fmt.Sprintf("%s/v1/extract/%s", c.baseURL, req.DocType)

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, errors.Wrap(ctx.Err(), errors.ErrCodeExtractionTimeout, "extraction cancelled")
			case <-time.After(c.backoff * time.Duration(attempt)):
			}
			c.logger.Debug("retrying extraction",
				logging.String("document_id", req.DocumentID),
				logging.Int("attempt", attempt+1))
		}

		result, retryable, err := c.doOnce(ctx, endpoint, body)
		if err == nil {
			return result, nil
		}
		if !retryable {
			return nil, err
		}
		lastErr = err
	}
	return nil, lastErr
}

// doOnce performs a single extraction attempt.  The second return value
// reports whether the failure is worth retrying.
func (c *Client) doOnce(ctx context.Context, endpoint string, body []byte) (*Result, bool, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, false, errors.Wrap(err, errors.ErrCodeInternal, "failed to build extraction request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, true, errors.Wrap(err, errors.ErrCodeExtractionUnavailable, "extractor unreachable")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return nil, true, errors.Wrap(err, errors.ErrCodeExtractionFailed, "failed to read extractor response")
	}

	switch {
	case resp.StatusCode >= 500:
		return nil, true, errors.New(errors.ErrCodeExtractionUnavailable, "extractor returned server error").
			WithDetail(fmt.Sprintf("status %d", resp.StatusCode))
	case resp.StatusCode >= 400:
		return nil, false, errors.New(errors.ErrCodeExtractionFailed, "extractor rejected document").
			WithDetail(fmt.Sprintf("status %d: %s", resp.StatusCode, respBody))
	}

	var result Result
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, false, errors.Wrap(err, errors.ErrCodeExtractionBadPayload, "malformed extractor response")
	}
	if len(result.Payload) == 0 {
		return nil, false, errors.New(errors.ErrCodeExtractionBadPayload, "extractor response missing payload")
	}
	return &result, false, nil
}
