package cmd

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/solatis/recordfilter/internal/core/templates"
	"github.com/solatis/recordfilter/internal/types"
)

// NewTemplateCommand creates the template command group.
func NewTemplateCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "template",
		Short: "Manage saved filter templates",
	}

	cmd.AddCommand(newTemplateSaveCommand(opts))
	cmd.AddCommand(newTemplateListCommand(opts))
	cmd.AddCommand(newTemplateShowCommand(opts))
	cmd.AddCommand(newTemplateDeleteCommand(opts))

	return cmd
}

// templateView is the printed form of a template.
type templateView struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	Filter    json.RawMessage  `json:"filter"`
	Sorts     []types.SortRule `json:"sorts"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

func viewOf(t templates.Template) (templateView, error) {
	filterJSON, err := types.EncodeNode(t.Filter)
	if err != nil {
		return templateView{}, err
	}
	sorts := t.Sorts
	if sorts == nil {
		sorts = []types.SortRule{}
	}
	return templateView{
		ID:        string(t.ID),
		Name:      t.Name,
		Filter:    filterJSON,
		Sorts:     sorts,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}, nil
}

// withStore loads config, opens the template store and runs fn.
func withStore(opts *RootOptions, cmd *cobra.Command, fn func(*templates.Store) error) error {
	cfg, logger, err := opts.load(cmd)
	if err != nil {
		return err
	}
	store, conn, err := openStore(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer conn.Close()
	return fn(store)
}

func newTemplateSaveCommand(opts *RootOptions) *cobra.Command {
	var id, name, filterPath, sortsPath string

	cmd := &cobra.Command{
		Use:          "save",
		Short:        "Save a filter and sort list under a name",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			node, err := readFilter(cmd, filterPath)
			if err != nil {
				return err
			}
			sorts, err := readSorts(cmd, sortsPath)
			if err != nil {
				return err
			}
			return withStore(opts, cmd, func(store *templates.Store) error {
				saved, err := store.Save(cmd.Context(), templates.Template{
					ID:     types.TemplateID(id),
					Name:   name,
					Filter: node,
					Sorts:  sorts,
				})
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), saved.ID)
				return err
			})
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "existing template ID to replace")
	cmd.Flags().StringVar(&name, "name", "", "template name")
	cmd.Flags().StringVar(&filterPath, "filter", "", "filter JSON file (- for stdin)")
	cmd.Flags().StringVar(&sortsPath, "sorts", "", "sort list JSON file")
	cmd.MarkFlagRequired("name")

	return cmd
}

func newTemplateListCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:          "list",
		Short:        "List saved templates",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(opts, cmd, func(store *templates.Store) error {
				all, err := store.List(cmd.Context())
				if err != nil {
					return err
				}
				for _, t := range all {
					fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", t.ID, t.Name, t.UpdatedAt.Format(time.RFC3339))
				}
				return nil
			})
		},
	}
}

func newTemplateShowCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:          "show <id>",
		Short:        "Print a saved template as JSON",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(opts, cmd, func(store *templates.Store) error {
				t, err := store.Get(cmd.Context(), types.TemplateID(args[0]))
				if err != nil {
					return err
				}
				view, err := viewOf(t)
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), view)
			})
		},
	}
}

func newTemplateDeleteCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:          "delete <id>",
		Short:        "Delete a saved template",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(opts, cmd, func(store *templates.Store) error {
				if err := store.Delete(cmd.Context(), types.TemplateID(args[0])); err != nil {
					return err
				}
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
				return err
			})
		},
	}
}
