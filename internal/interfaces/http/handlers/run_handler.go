package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/veridocs/kycengine/internal/application/runs"
	"github.com/veridocs/kycengine/internal/domain/validation"
	"github.com/veridocs/kycengine/pkg/errors"
	"github.com/veridocs/kycengine/pkg/types/kyc"
)

// RunService is the application surface the handler exposes over REST.
type RunService interface {
	CreateRun(ctx context.Context, customerID string) (*kyc.Run, error)
	GetRun(ctx context.Context, runID string) (*kyc.Run, error)
	ListRuns(ctx context.Context, customerID string, limit int) ([]kyc.Run, error)
	UploadDocument(ctx context.Context, runID, docType, filename, contentType string, r io.Reader, size int64) (*kyc.DocumentRecord, error)
	ValidateRun(ctx context.Context, runID string) (*runs.Validation, error)
	GetValidation(ctx context.Context, runID string) (*validation.Result, error)
	GetTrace(ctx context.Context, runID string) (*validation.TraceSection, error)
}

// RunHandler serves the run lifecycle endpoints.
type RunHandler struct {
	service     RunService
	maxBodySize int64
}

// NewRunHandler wires the handler; maxBodySize caps document uploads.
func NewRunHandler(service RunService, maxBodySize int64) *RunHandler {
	if maxBodySize <= 0 {
		maxBodySize = 32 << 20
	}
	return &RunHandler{service: service, maxBodySize: maxBodySize}
}

type createRunRequest struct {
	CustomerID string `json:"customer_id"`
}

// Create handles POST /api/v1/runs.
func (h *RunHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAppError(w, errors.Wrap(err, errors.ErrCodeBadRequest, "malformed request body"))
		return
	}
	run, err := h.service.CreateRun(r.Context(), req.CustomerID)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, run)
}

// Get handles GET /api/v1/runs/{runID}.
func (h *RunHandler) Get(w http.ResponseWriter, r *http.Request) {
	run, err := h.service.GetRun(r.Context(), chi.URLParam(r, "runID"))
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, run)
}

// ListByCustomer handles GET /api/v1/customers/{customerID}/runs.
func (h *RunHandler) ListByCustomer(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.ListRuns(r.Context(), chi.URLParam(r, "customerID"), queryInt(r, "limit", 50))
	if err != nil {
		writeAppError(w, err)
		return
	}
	if list == nil {
		list = []kyc.Run{}
	}
	writeJSON(w, http.StatusOK, list)
}

// UploadDocument handles POST /api/v1/runs/{runID}/documents as a multipart
// form with a "file" part and a "doc_type" field.
func (h *RunHandler) UploadDocument(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)
	if err := r.ParseMultipartForm(h.maxBodySize); err != nil {
		writeAppError(w, errors.Wrap(err, errors.ErrCodeBadRequest, "malformed multipart upload"))
		return
	}

	docType := r.FormValue("doc_type")
	if docType == "" {
		writeAppError(w, errors.New(errors.ErrCodeBadRequest, "doc_type is required"))
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeAppError(w, errors.Wrap(err, errors.ErrCodeBadRequest, "file part is required"))
		return
	}
	defer file.Close()

	doc, err := h.service.UploadDocument(r.Context(), chi.URLParam(r, "runID"),
		docType, header.Filename, header.Header.Get("Content-Type"), file, header.Size)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, doc)
}

// Validate handles POST /api/v1/runs/{runID}/validate.
func (h *RunHandler) Validate(w http.ResponseWriter, r *http.Request) {
	v, err := h.service.ValidateRun(r.Context(), chi.URLParam(r, "runID"))
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"result":  v.Result,
		"profile": v.Assembly.Profile,
	})
}

// GetProfile handles GET /api/v1/runs/{runID}/profile, serving the stored
// assembled profile.
func (h *RunHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	run, err := h.service.GetRun(r.Context(), chi.URLParam(r, "runID"))
	if err != nil {
		writeAppError(w, err)
		return
	}
	if len(run.Profile) == 0 {
		writeAppError(w, errors.New(errors.ErrCodeProfileNotFound, "run has not been validated yet"))
		return
	}
	writeJSON(w, http.StatusOK, json.RawMessage(run.Profile))
}

// GetValidation handles GET /api/v1/runs/{runID}/validation.
func (h *RunHandler) GetValidation(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.GetValidation(r.Context(), chi.URLParam(r, "runID"))
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// GetTrace handles GET /api/v1/runs/{runID}/trace.
func (h *RunHandler) GetTrace(w http.ResponseWriter, r *http.Request) {
	trace, err := h.service.GetTrace(r.Context(), chi.URLParam(r, "runID"))
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, trace)
}
