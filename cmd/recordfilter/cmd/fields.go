package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/solatis/recordfilter/internal/filter"
)

// NewFieldsCommand creates the fields command.
func NewFieldsCommand(opts *RootOptions) *cobra.Command {
	var filterPath string

	cmd := &cobra.Command{
		Use:          "fields",
		Short:        "Print the fields a filter references",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, _, err := opts.load(cmd); err != nil {
				return err
			}
			node, err := readFilter(cmd, filterPath)
			if err != nil {
				return err
			}
			for _, f := range filter.SortedFields(node) {
				fmt.Fprintln(cmd.OutOrStdout(), f)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&filterPath, "filter", "", "filter JSON file (- for stdin)")
	cmd.MarkFlagRequired("filter")

	return cmd
}
