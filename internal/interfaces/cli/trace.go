package cli

import (
	"github.com/spf13/cobra"

	"github.com/veridocs/kycengine/internal/domain/validation"
)

func newTraceCommand() *cobra.Command {
	var input string

	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Print the evidence trace behind each validation conclusion",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ev, _, err := evaluateFile(input)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), validation.BuildTrace(ev))
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "", "path to the documents JSON file")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}
