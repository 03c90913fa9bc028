// Package cmd implements the recordfilter command line.
package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/solatis/recordfilter/internal/core/config"
	"github.com/solatis/recordfilter/internal/core/db"
	"github.com/solatis/recordfilter/internal/core/logging"
	"github.com/solatis/recordfilter/internal/core/templates"
)

// Version is the recordfilter release.
const Version = "0.1.0"

// RootOptions holds the persistent flags shared by every command.
type RootOptions struct {
	ConfigFile string
	DBURL      string
	LogLevel   string
	LogFormat  string
}

// NewRootCommand creates the recordfilter command tree.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:     "recordfilter",
		Short:   "Filter expressions for record collections",
		Long:    `recordfilter evaluates filter trees against loaded records and translates them into remote query bodies.`,
		Version: Version,
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigFile, "config", "", "config file path")
	cmd.PersistentFlags().StringVar(&opts.DBURL, "db-url", "", "database connection URL (sqlite://path or postgres://...)")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "", "log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&opts.LogFormat, "log-format", "", "log format (json, text)")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewMigrateCommand(opts))
	cmd.AddCommand(NewTranslateCommand(opts))
	cmd.AddCommand(NewEvaluateCommand(opts))
	cmd.AddCommand(NewFieldsCommand(opts))
	cmd.AddCommand(NewTemplateCommand(opts))

	return cmd
}

// Execute runs the root command against os.Args.
func Execute() error {
	return NewRootCommand().Execute()
}

// flagBinding maps a command flag onto a config key.
type flagBinding struct {
	flag string
	key  string
}

// load builds the configuration (flags > environment > file > defaults) and
// installs the configured logger as the slog default. Extra bindings map
// command-local flags onto config keys.
func (o *RootOptions) load(cmd *cobra.Command, extra ...flagBinding) (*config.Config, *slog.Logger, error) {
	v := config.New()

	bindings := append([]flagBinding{
		{"db-url", "database.url"},
		{"log-level", "log.level"},
		{"log-format", "log.format"},
	}, extra...)
	if err := bindFlags(cmd, v, bindings); err != nil {
		return nil, nil, err
	}

	cfg, err := config.Load(v, o.ConfigFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := logging.New(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, nil, err
	}
	slog.SetDefault(logger)

	return cfg, logger, nil
}

// bindFlags binds only flags the user set, so unset flags fall through to
// the environment and config file.
func bindFlags(cmd *cobra.Command, v *viper.Viper, bindings []flagBinding) error {
	for _, b := range bindings {
		f := cmd.Flags().Lookup(b.flag)
		if f == nil || !f.Changed {
			continue
		}
		if err := v.BindPFlag(b.key, f); err != nil {
			return fmt.Errorf("failed to bind --%s: %w", b.flag, err)
		}
	}
	return nil
}

// openStore opens the configured database and returns a template store.
// Pending migrations are an error; the caller closes the returned DB.
func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*templates.Store, *sqlx.DB, error) {
	conn, err := db.Open(cfg.Database.URL)
	if err != nil {
		return nil, nil, err
	}

	statuses, err := db.MigrateStatus(ctx, conn)
	if err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("failed to check migrations: %w", err)
	}
	for _, s := range statuses {
		if !s.Applied {
			conn.Close()
			return nil, nil, fmt.Errorf("migration %s not applied - run 'recordfilter migrate' first", s.ID)
		}
	}

	store, err := templates.NewStore(conn, logger)
	if err != nil {
		conn.Close()
		return nil, nil, err
	}
	return store, conn, nil
}
