// Package extractor is the client for the external document-extraction
// service.  The engine never parses PDFs or images itself: it posts a file
// reference and receives the typed JSON payload for the document type.
package extractor

import (
	"context"
	"encoding/json"
)

// Request identifies one document to extract.  The extractor downloads the
// file from URL, which is a presigned object-storage link.
type Request struct {
	DocumentID string `json:"document_id"`
	DocType    string `json:"doc_type"`
	URL        string `json:"url"`
}

// Result is the extractor's answer: the typed payload for the document type,
// plus the model identity for audit.
type Result struct {
	DocumentID string          `json:"document_id"`
	DocType    string          `json:"doc_type"`
	Payload    json.RawMessage `json:"payload"`
	Model      string          `json:"model,omitempty"`
}

// Extractor turns a stored document file into its typed JSON payload.
type Extractor interface {
	Extract(ctx context.Context, req Request) (*Result, error)
}
