package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/meddlesome/hoymiles-mea-tou/internal/pkg/config"
	"github.com/meddlesome/hoymiles-mea-tou/internal/pkg/database"
	"github.com/meddlesome/hoymiles-mea-tou/internal/pkg/database/migration"
	"github.com/meddlesome/hoymiles-mea-tou/internal/pkg/model"
	"github.com/meddlesome/hoymiles-mea-tou/internal/pkg/mqtt"
	"github.com/meddlesome/hoymiles-mea-tou/internal/pkg/publisher"
	"github.com/meddlesome/hoymiles-mea-tou/internal/pkg/server"
	"github.com/meddlesome/hoymiles-mea-tou/internal/pkg/source"
	"github.com/meddlesome/hoymiles-mea-tou/internal/pkg/tou"
	"github.com/meddlesome/hoymiles-mea-tou/pkg/sockets"
)

var (
	errCron     = errors.New("cron error")
	errNoSource = errors.New("no readings source: set SOURCE_DIR or pass --file")
)

// loadConfig reads the environment and applies the global flags on top.
func loadConfig(ctx *cli.Context) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if ctx.IsSet("log-level") {
		cfg.LogLevel = ctx.String("log-level")
	}
	if ctx.IsSet("source-dir") {
		cfg.SourceCfg.Dir = ctx.String("source-dir")
	}
	return cfg, nil
}

func newLogger(level string) (*zap.Logger, error) {
	var err error
	logCfg := zap.NewProductionConfig()

	logCfg.Level, err = zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, err
	}
	logCfg.OutputPaths = []string{"stdout"}
	logCfg.ErrorOutputPaths = []string{"stdout"}
	logCfg.Sampling = nil
	return zap.Must(logCfg.Build(zap.AddCaller(), zap.AddStacktrace(zap.ErrorLevel))), nil
}

// setupPublishers registers the postgres and mqtt publishers that are configured.
// The returned database is nil when DATABASE_URL is unset.
func setupPublishers(ctx context.Context, cfg *config.Config) (*database.Database, error) {
	var db *database.Database
	if cfg.DatabaseCfg.URL != "" {
		if err := migration.Migrate(cfg.DatabaseCfg.URL, cfg.DatabaseCfg.MigrationsFolder); err != nil {
			return nil, fmt.Errorf("migrate: %w", err)
		}
		var err error
		db, err = database.Connect(ctx, cfg.DatabaseCfg.URL)
		if err != nil {
			return nil, err
		}
		if err := db.Ping(ctx); err != nil {
			return db, fmt.Errorf("ping database: %w", err)
		}
		if err := publisher.RegisterPublisher("postgres", db); err != nil {
			return db, err
		}
	}

	if cfg.MqttCfg.Host != "" {
		site := model.Site{ID: cfg.TariffCfg.Site, Name: cfg.TariffCfg.Site}
		svc := mqtt.New(mqtt.NewClient(cfg.MqttCfg.Host, cfg.MqttCfg.Username, cfg.MqttCfg.Password, "tou-"+cfg.TariffCfg.Site), site)
		if err := svc.Connect(); err != nil {
			return db, fmt.Errorf("mqtt connect: %w", err)
		}
		if err := publisher.RegisterPublisher("mqtt", svc); err != nil {
			return db, err
		}
	}
	zap.L().Info("publishers configured", zap.Strings("publishers", publisher.Registered()))
	return db, nil
}

func sourceFromConfig(cfg *config.Config) Source {
	if cfg.SourceCfg.Dir == "" {
		return nil
	}
	return source.NewDir(cfg.SourceCfg.Dir)
}

// ServeCommand runs the HTTP API and the scheduled daily aggregation.
func ServeCommand(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	if ctx.IsSet("http-addr") {
		cfg.ServerCfg.Addr = ctx.String("http-addr")
	}
	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() {
		_ = logger.Sync() // flushes buffer, if any.
	}()
	zap.ReplaceGlobals(logger)

	engine, err := cfg.TariffCfg.Engine()
	if err != nil {
		return err
	}

	runCtx, stop := signal.NotifyContext(ctx.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := setupPublishers(runCtx, cfg)
	if db != nil {
		defer db.Close()
	}
	if err != nil {
		return err
	}

	hub := sockets.New(
		sockets.WithPingInterval(30*time.Second),
		sockets.WithCheckOrigin(func(*http.Request) bool { return true }),
		sockets.OnError(func(err error) {
			logger.Debug("stream subscriber error", zap.Error(err))
		}),
	)
	if err := publisher.RegisterPublisher("stream", streamPublisher{hub: hub}); err != nil {
		return err
	}

	var store Store
	if db != nil {
		store = db
	}
	errorChan := make(chan error, 100)
	return shutdown(run(runCtx, cfg, engine, sourceFromConfig(cfg), store, hub, errorChan, logger))
}

// shutdown treats the cancellation caused by SIGINT or SIGTERM as a clean exit.
func shutdown(err error) error {
	if errors.Is(err, context.Canceled) {
		zap.L().Info("shut down")
		return nil
	}
	return err
}

// streamPublisher forwards published aggregates to live subscribers.
type streamPublisher struct {
	hub *sockets.Hub
}

func (p streamPublisher) Write(_ context.Context, agg model.DayAggregate) error {
	return p.hub.Broadcast(agg)
}

func run(ctx context.Context, cfg *config.Config, engine *tou.Engine, src Source, store Store, hub *sockets.Hub, errorChan chan error, logger *zap.Logger) error {
	loc, err := cfg.TariffCfg.TimeLocation()
	if err != nil {
		return err
	}

	api := server.New(engine, store, publisher.Publish).WithAPIKeyHash(cfg.ServerCfg.APIKeyHash)
	if hub != nil {
		api = api.WithStream(hub)
	}
	handler, err := api.Handler(server.LoggingMiddleware)
	if err != nil {
		return err
	}

	eg, ctx := errgroup.WithContext(ctx)

	if src != nil {
		eg.Go(func() error {
			return cronAggregate(ctx, cfg.SourceCfg.Schedule, loc, engine, src, errorChan)
		})
	} else {
		logger.Warn("SOURCE_DIR not set, scheduled aggregation disabled")
	}

	if store != nil && cfg.DatabaseCfg.RetentionDays > 0 {
		eg.Go(func() error {
			return cronDbCleanup(ctx, loc, store, cfg.DatabaseCfg.RetentionDays, errorChan)
		})
	}

	eg.Go(func() error {
		srv := &http.Server{
			Handler:      handler,
			Addr:         cfg.ServerCfg.Addr,
			WriteTimeout: cfg.ServerCfg.WriteTimeout,
			ReadTimeout:  cfg.ServerCfg.ReadTimeout,
		}
		go func() {
			<-ctx.Done()
			if hub != nil {
				_ = hub.Close()
			}
			_ = srv.Shutdown(context.Background())
		}()

		logger.Info("http server listening", zap.String("addr", cfg.ServerCfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	eg.Go(func() error {
		// handle any async errors from the jobs
		for {
			select {
			case err := <-errorChan:
				if errors.Is(err, errCron) {
					logger.Error("cron error", zap.Error(err))
					return err
				}
				logger.Warn("job error", zap.Error(err))
			case <-ctx.Done():
				logger.Info("context done")
				return ctx.Err()
			}
		}
	})

	return eg.Wait()
}
