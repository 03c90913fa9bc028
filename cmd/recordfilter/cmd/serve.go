package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/solatis/recordfilter/internal/core/api"
	"github.com/solatis/recordfilter/internal/core/server"
	"github.com/solatis/recordfilter/internal/filter"
	"github.com/solatis/recordfilter/internal/schema"
)

// NewServeCommand creates the serve command.
func NewServeCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "serve",
		Short:        "Start the gRPC filter service",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(opts, cmd)
		},
	}

	cmd.Flags().String("host", "", "gRPC server host")
	cmd.Flags().Int("port", 0, "gRPC server port")
	cmd.Flags().String("schema", "", "field schema file (yaml, json or toml)")

	return cmd
}

func runServe(opts *RootOptions, cmd *cobra.Command) error {
	cfg, logger, err := opts.load(cmd,
		flagBinding{"host", "server.host"},
		flagBinding{"port", "server.port"},
		flagBinding{"schema", "schema.file"},
	)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	registry, err := schema.Open(cfg.Schema.File)
	if err != nil {
		return err
	}

	// The template store is optional; without a database the template
	// methods answer FAILED_PRECONDITION.
	var store api.TemplateStore
	if cfg.Database.URL != "" {
		s, conn, err := openStore(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer conn.Close()
		store = s
	} else {
		logger.Warn("no database configured, template methods disabled")
	}

	service, err := api.NewFilterService(filter.NewEngine(registry, logger), store, cfg.Server, logger)
	if err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}

	grpcServer, err := server.NewGRPCServer(cfg.Server, service, logger)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	logger.Info("starting recordfilter", "version", Version, "addr", cfg.Server.Addr(), "schema", cfg.Schema.File)
	errChan := make(chan error, 1)
	go func() {
		errChan <- grpcServer.Start(ctx)
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		logger.Info("shutting down gracefully")
		return grpcServer.Shutdown(context.Background())
	}
}
