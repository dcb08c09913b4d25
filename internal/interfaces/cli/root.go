// Package cli implements the kycctl command tree: offline profile assembly,
// validation, and trace inspection over local document-extraction files.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/veridocs/kycengine/pkg/errors"
	"github.com/veridocs/kycengine/pkg/types/kyc"
)

// Build-time variables injected via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// documentsFile is the on-disk input format: a customer plus the extracted
// payloads, one entry per document.
type documentsFile struct {
	CustomerID string `json:"customer_id"`
	Documents  []struct {
		Type       string          `json:"type"`
		SourceName string          `json:"source_name"`
		Payload    json.RawMessage `json:"payload"`
	} `json:"documents"`
}

// loadDocuments reads and converts an input file to document records.
func loadDocuments(path string) (string, []kyc.DocumentRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", nil, errors.Wrap(err, errors.ErrCodeBadRequest, "cannot read input file")
	}
	var file documentsFile
	if err := json.Unmarshal(data, &file); err != nil {
		return "", nil, errors.Wrap(err, errors.ErrCodeBadRequest, "malformed input file")
	}
	if len(file.Documents) == 0 {
		return "", nil, errors.New(errors.ErrCodeBadRequest, "input file has no documents")
	}

	records := make([]kyc.DocumentRecord, 0, len(file.Documents))
	for i, d := range file.Documents {
		records = append(records, kyc.DocumentRecord{
			ID:               fmt.Sprintf("doc-%d", i+1),
			CustomerID:       file.CustomerID,
			Type:             d.Type,
			SourceName:       d.SourceName,
			ExtractedPayload: d.Payload,
		})
	}
	return file.CustomerID, records, nil
}

// printJSON renders v as indented JSON on the command's stdout.
func printJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// NewRootCommand builds the kycctl command tree.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "kycctl",
		Short:         "Offline KYC profile assembly and validation",
		Long:          "kycctl assembles KYC profiles from extracted document payloads and runs the compliance validator locally, without a running server.",
		Version:       fmt.Sprintf("%s (commit %s, built %s)", Version, GitCommit, BuildDate),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newValidateCommand())
	root.AddCommand(newProfileCommand())
	root.AddCommand(newTraceCommand())
	return root
}

// Execute runs the CLI.
func Execute() error {
	return NewRootCommand().Execute()
}
