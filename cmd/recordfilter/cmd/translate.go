package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/solatis/recordfilter/internal/filter"
	"github.com/solatis/recordfilter/internal/schema"
	"github.com/solatis/recordfilter/internal/types"
)

// TranslateOptions holds flags for the translate command.
type TranslateOptions struct {
	*RootOptions
	Filter   string
	Sorts    string
	Template string
	Strict   bool
}

// NewTranslateCommand creates the translate command.
func NewTranslateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TranslateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "translate",
		Short: "Print the remote query body for a filter",
		Long: `Translate a filter tree and sort list into the remote query body.

Conditions that cannot be translated are dropped and reported on stderr;
with --strict any dropped condition is an error.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTranslate(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Filter, "filter", "", "filter JSON file (- for stdin)")
	cmd.Flags().StringVar(&opts.Sorts, "sorts", "", "sort list JSON file")
	cmd.Flags().String("schema", "", "field schema file (yaml, json or toml)")
	cmd.Flags().StringVar(&opts.Template, "template", "", "saved template ID instead of --filter/--sorts")
	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "fail when any condition is dropped")
	cmd.MarkFlagsMutuallyExclusive("template", "filter")
	cmd.MarkFlagsMutuallyExclusive("template", "sorts")

	return cmd
}

func runTranslate(opts *TranslateOptions, cmd *cobra.Command) error {
	cfg, logger, err := opts.load(cmd, flagBinding{"schema", "schema.file"})
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	registry, err := schema.Open(cfg.Schema.File)
	if err != nil {
		return err
	}

	var node types.FilterNode
	var sorts []types.SortRule
	if opts.Template != "" {
		store, conn, err := openStore(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer conn.Close()
		t, err := store.Get(ctx, types.TemplateID(opts.Template))
		if err != nil {
			return err
		}
		node, sorts = t.Filter, t.Sorts
	} else {
		if node, err = readFilter(cmd, opts.Filter); err != nil {
			return err
		}
		if sorts, err = readSorts(cmd, opts.Sorts); err != nil {
			return err
		}
	}

	q, err := filter.NewEngine(registry, logger).Query(ctx, node, sorts)
	if err != nil {
		return err
	}
	for _, d := range q.Diagnostics {
		fmt.Fprintf(cmd.ErrOrStderr(), "note: %s\n", d)
	}
	if opts.Strict {
		if err := (filter.Result{Filter: q.Filter, Diagnostics: q.Diagnostics}).Strict(); err != nil {
			return err
		}
	}

	body, err := q.Body()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s\n", body)
	return err
}
