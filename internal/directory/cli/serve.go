package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/gartstein/directory/internal/directory/auth"
	"github.com/gartstein/directory/internal/directory/catalog"
	"github.com/gartstein/directory/internal/directory/config"
	"github.com/gartstein/directory/internal/directory/controller"
	"github.com/gartstein/directory/internal/directory/handlers"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"google.golang.org/grpc"
)

const shutdownTimeout = 5 * time.Second

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the directory over gRPC and HTTP",
		Long: `Serve the directory over gRPC and an HTTP JSON API.

The catalog is read from the configured database (seeded with the sample
catalog when SEED_CATALOG is set). Query and catalog events are published to
Kafka when KAFKA_BROKERS is configured.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(rootOpts)
			if err != nil {
				return err
			}
			logger, err := newLogger(logLevel(rootOpts, cfg))
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cfg, logger)
		},
	}
}

func runServe(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	repo, err := openRepository(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := repo.Close(); err != nil {
			logger.Error("Failed to close database", zap.Error(err))
		}
	}()

	producer, err := newEventSink(cfg, logger)
	if err != nil {
		return err
	}
	defer producer.Close()

	service := controller.NewDirectoryService(catalog.WithDelay(repo, cfg.FetchDelay()), producer, logger, cfg.FetchTimeout())
	handler := handlers.NewDirectoryHandler(service, logger, cfg.PageSize)

	authInterceptor := auth.NewAuthInterceptor(cfg.JWTSecret)
	server := handlers.NewServer(cfg.GRPCPort, cfg.HTTPPort, logger, grpc.UnaryInterceptor(authInterceptor.Unary()))
	server.RegisterGRPCHandler(handler)
	if err := server.RegisterHTTPGateway(handler, cfg.JWTSecret); err != nil {
		return err
	}

	go loadUntilReady(ctx, service, server, logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	server.Stop(shutdownCtx)
	logger.Info("Servers stopped properly")
	return nil
}

// loadUntilReady performs the initial catalog load, retrying until it
// succeeds or ctx ends, and marks the server healthy once it has.
func loadUntilReady(ctx context.Context, service *controller.DirectoryService, server *handlers.Server, logger *zap.Logger) {
	err := backoff.RetryNotify(func() error {
		_, err := service.Reload(ctx)
		return err
	}, backoff.WithContext(backoff.NewExponentialBackOff(backoff.WithMaxElapsedTime(0)), ctx),
		func(err error, next time.Duration) {
			logger.Warn("Initial catalog load failed, retrying", zap.Error(err), zap.Duration("next", next))
		})
	if err != nil {
		return
	}
	server.SetServing(true)
}
