package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/veridocs/kycengine/internal/application/runs"
	"github.com/veridocs/kycengine/internal/domain/validation"
)

// evaluateFile assembles and evaluates a local documents file once; the
// validate and trace commands project different views of the same evaluation.
func evaluateFile(path string) (validation.Evaluation, *runs.Assembly, error) {
	customerID, records, err := loadDocuments(path)
	if err != nil {
		return validation.Evaluation{}, nil, err
	}
	now := time.Now().UTC()
	assembly, err := runs.AssembleDocuments(customerID, records, now)
	if err != nil {
		return validation.Evaluation{}, nil, err
	}
	return validation.Evaluate(assembly.Profile, validation.DefaultPolicy(), now), assembly, nil
}

func newValidateCommand() *cobra.Command {
	var input string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a document set and print the score and flags",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ev, _, err := evaluateFile(input)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), validation.Validate(ev))
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "", "path to the documents JSON file")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}
