package cli

import (
	"github.com/spf13/cobra"
)

func newProfileCommand() *cobra.Command {
	var (
		input       string
		showHistory bool
	)

	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Assemble and print the aggregated profile",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, assembly, err := evaluateFile(input)
			if err != nil {
				return err
			}
			if showHistory {
				return printJSON(cmd.OutOrStdout(), map[string]any{
					"profile": assembly.Profile,
					"history": assembly.Merge.History,
				})
			}
			return printJSON(cmd.OutOrStdout(), assembly.Profile)
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "", "path to the documents JSON file")
	cmd.Flags().BoolVar(&showHistory, "history", false, "include the amendment merge history")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}
