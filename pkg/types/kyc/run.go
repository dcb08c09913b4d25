// Package kyc defines the boundary DTOs exchanged with persistence and
// downstream consumers: the run envelope and its document records.  These are
// plain JSON-serializable records with no behavior; the aggregated profile and
// validation result are carried as raw JSON produced by the engine so that
// this package stays free of engine dependencies.
package kyc

import (
	"encoding/json"
	"time"
)

// RunStatus is the derived lifecycle state of a run.  The engine records
// status; it never decides application-level accept/reject.
type RunStatus string

const (
	RunStatusPending    RunStatus = "pending"
	RunStatusExtracting RunStatus = "extracting"
	RunStatusAssembled  RunStatus = "assembled"
	RunStatusValidated  RunStatus = "validated"
)

// DocumentRecord is the per-document record inside a run: one extracted,
// schema-validated payload identified by its document type.
type DocumentRecord struct {
	ID               string          `json:"id"`
	CustomerID       string          `json:"customerId"`
	Type             string          `json:"type"`
	FileURL          string          `json:"fileUrl"`
	ExtractedAt      *time.Time      `json:"extractedAt,omitempty"`
	ExtractedPayload json.RawMessage `json:"extractedPayload,omitempty"`
	SourceName       string          `json:"sourceName,omitempty"`
}

// Run is the persisted run shape consumed and produced at the engine boundary.
type Run struct {
	RunID      string           `json:"runId"`
	CustomerID string           `json:"customerId"`
	CreatedAt  time.Time        `json:"createdAt"`
	Status     RunStatus        `json:"status"`
	Documents  []DocumentRecord `json:"documents"`
	Profile    json.RawMessage  `json:"profile,omitempty"`
	Validation json.RawMessage  `json:"validation,omitempty"`
}

// HasDocumentType reports whether the run already carries an extracted
// document of the given type.
func (r *Run) HasDocumentType(docType string) bool {
	for _, d := range r.Documents {
		if d.Type == docType && len(d.ExtractedPayload) > 0 {
			return true
		}
	}
	return false
}

// ExtractedCount returns the number of documents with a payload attached.
func (r *Run) ExtractedCount() int {
	n := 0
	for _, d := range r.Documents {
		if len(d.ExtractedPayload) > 0 {
			n++
		}
	}
	return n
}
