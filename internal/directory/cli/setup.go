package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/gartstein/directory/internal/directory/catalog"
	"github.com/gartstein/directory/internal/directory/config"
	"github.com/gartstein/directory/internal/directory/db"
	"github.com/gartstein/directory/internal/directory/events"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// loadConfig reads the config file. A missing file at the default path is
// not an error; the built-in defaults apply.
func loadConfig(opts *RootOptions) (*config.Config, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if errors.Is(err, fs.ErrNotExist) && opts.ConfigPath == config.DefaultPath {
		def := config.Default()
		return &def, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// newLogger builds a production zap logger at level writing to outputs.
// No outputs means stderr.
func newLogger(level string, outputs ...string) (*zap.Logger, error) {
	lvl := zapcore.InfoLevel
	if level != "" {
		if err := lvl.Set(level); err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", level, err)
		}
	}

	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(lvl)
	if len(outputs) > 0 {
		zcfg.OutputPaths = outputs
		zcfg.ErrorOutputPaths = outputs
	}
	return zcfg.Build()
}

func logLevel(opts *RootOptions, cfg *config.Config) string {
	if opts.LogLevel != "" {
		return opts.LogLevel
	}
	return cfg.LogLevel
}

func dbConfig(cfg *config.Config) *db.Config {
	return &db.Config{
		Driver:   cfg.DBDriver,
		Path:     cfg.DBPath,
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		DBName:   cfg.DBName,
		SSLMode:  cfg.DBSSLMode,
	}
}

// openRepository connects to the catalog database, retrying with exponential
// backoff while the database comes up, and seeds the sample catalog when
// enabled.
func openRepository(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*db.Repository, error) {
	var repo *db.Repository
	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(backoff.WithMaxElapsedTime(time.Minute)), 8),
		ctx,
	)
	err := backoff.RetryNotify(func() error {
		var err error
		repo, err = db.NewRepository(dbConfig(cfg))
		return err
	}, policy, func(err error, next time.Duration) {
		logger.Warn("Database not ready, retrying", zap.Error(err), zap.Duration("next", next))
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if cfg.SeedCatalog {
		n, err := repo.SeedCompanies(ctx, catalog.Sample())
		if err != nil {
			_ = repo.Close()
			return nil, fmt.Errorf("failed to seed catalog: %w", err)
		}
		if n > 0 {
			logger.Info("Seeded catalog", zap.Int("companies", n))
		}
	}
	return repo, nil
}

// eventSink is the producer side used by the service: Kafka or a no-op.
type eventSink interface {
	Produce(events.Event)
	Close()
}

func newEventSink(cfg *config.Config, logger *zap.Logger) (eventSink, error) {
	if !cfg.EventsEnabled() {
		logger.Info("No Kafka brokers configured, events are discarded")
		return events.NopProducer{}, nil
	}
	producer, err := events.NewProducer(cfg.KafkaBrokers, logger, cfg.Topic)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Kafka producer: %w", err)
	}
	return producer, nil
}

// openSource returns the catalog source named by kind: "sample" serves the
// built-in catalog, "db" reads the configured database. The returned close
// function releases the source.
func openSource(ctx context.Context, kind string, cfg *config.Config, logger *zap.Logger) (catalog.Source, func(), error) {
	switch kind {
	case "sample":
		return catalog.NewSimulatedSource(catalog.Sample(), cfg.FetchDelay()), func() {}, nil
	case "db":
		repo, err := openRepository(ctx, cfg, logger)
		if err != nil {
			return nil, nil, err
		}
		return catalog.WithDelay(repo, cfg.FetchDelay()), func() { _ = repo.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown source %q: must be sample or db", kind)
	}
}
