package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/solatis/recordfilter/internal/core/db"
)

// NewMigrateCommand creates the migrate command and its status subcommand.
func NewMigrateCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "migrate",
		Short:        "Apply pending database migrations",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := opts.load(cmd)
			if err != nil {
				return err
			}
			conn, err := db.Open(cfg.Database.URL)
			if err != nil {
				return err
			}
			defer conn.Close()

			applied, err := db.MigrateUp(cmd.Context(), conn)
			for _, id := range applied {
				logger.Info("migration applied", "migration_id", id)
				fmt.Fprintf(cmd.OutOrStdout(), "applied %s\n", id)
			}
			if err != nil {
				return err
			}
			if len(applied) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "database is up to date")
			}
			return nil
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:          "status",
		Short:        "List applied and pending migrations",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := opts.load(cmd)
			if err != nil {
				return err
			}
			conn, err := db.Open(cfg.Database.URL)
			if err != nil {
				return err
			}
			defer conn.Close()

			statuses, err := db.MigrateStatus(cmd.Context(), conn)
			if err != nil {
				return err
			}
			for _, s := range statuses {
				if !s.Applied {
					fmt.Fprintf(cmd.OutOrStdout(), "%s\tpending\n", s.ID)
					continue
				}
				at := ""
				if s.AppliedAt != nil {
					at = s.AppliedAt.Format(time.RFC3339)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\tapplied\t%s\t%dms\n", s.ID, at, s.ExecutionMs)
			}
			return nil
		},
	})

	return cmd
}
