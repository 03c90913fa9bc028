package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/solatis/recordfilter/internal/filter"
)

// NewEvaluateCommand creates the evaluate command.
func NewEvaluateCommand(opts *RootOptions) *cobra.Command {
	var filterPath, recordsPath string
	var count bool

	cmd := &cobra.Command{
		Use:          "evaluate",
		Short:        "Print the records that satisfy a filter",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, logger, err := opts.load(cmd)
			if err != nil {
				return err
			}
			node, err := readFilter(cmd, filterPath)
			if err != nil {
				return err
			}
			records, err := readRecords(cmd, recordsPath)
			if err != nil {
				return err
			}

			matched := filter.NewEngine(nil, logger).Match(cmd.Context(), node, records)
			if count {
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "%d\n", len(matched))
				return err
			}
			return writeJSON(cmd.OutOrStdout(), matched)
		},
	}

	cmd.Flags().StringVar(&filterPath, "filter", "", "filter JSON file (- for stdin)")
	cmd.Flags().StringVar(&recordsPath, "records", "", "JSON array of records")
	cmd.Flags().BoolVar(&count, "count", false, "print only the number of matches")
	cmd.MarkFlagRequired("records")

	return cmd
}
