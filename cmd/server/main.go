package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	docapp "github.com/profitmap/docflow/internal/application/document"
	"github.com/profitmap/docflow/internal/domain/document"
	"github.com/profitmap/docflow/internal/infrastructure/cache"
	"github.com/profitmap/docflow/internal/infrastructure/config"
	"github.com/profitmap/docflow/internal/infrastructure/event"
	"github.com/profitmap/docflow/internal/infrastructure/logger"
	"github.com/profitmap/docflow/internal/infrastructure/notification"
	"github.com/profitmap/docflow/internal/infrastructure/persistence"
	"github.com/profitmap/docflow/internal/infrastructure/telemetry"
	"github.com/profitmap/docflow/internal/interfaces/http/handler"
	"github.com/profitmap/docflow/internal/interfaces/http/router"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log := logger.NewForEnvironment(cfg.App.Env, cfg.Log)
	defer func() {
		_ = log.Sync()
	}()

	if err := run(cfg, log); err != nil {
		log.Fatal("Server stopped with error", zap.Error(err))
	}
	log.Info("Server exited gracefully")
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	logProvider, err := telemetry.NewLoggerProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		return err
	}
	level, err := zapcore.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}
	log = logProvider.Bridge(log, level)

	log.Info("Starting docflow",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("series_backend", cfg.Series.Backend),
		zap.String("notification_backend", cfg.Notification.Backend),
	)

	tracerProvider, err := telemetry.NewTracerProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		return err
	}
	meterProvider, err := telemetry.NewMeterProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		return err
	}

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabase(ctx, &cfg.Database, gormLog, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	if tracerProvider.IsEnabled() {
		if err := telemetry.RegisterDBTracing(db.DB, "postgresql", cfg.Telemetry.LogFullSQL, log); err != nil {
			return err
		}
	}

	scope, err := newTransactionScope(cfg, db, log)
	if err != nil {
		return err
	}

	notifier, closeNotifier, err := newNotificationGateway(ctx, cfg.Notification, log)
	if err != nil {
		return err
	}
	defer closeNotifier()

	metrics, err := telemetry.NewDocumentMetrics(meterProvider.Meter(telemetry.TracerName), log)
	if err != nil {
		return err
	}

	service := docapp.NewService(
		persistence.NewGormCompanyDirectory(db.DB),
		scope,
		persistence.NewGormDocumentRepository(db.DB),
		persistence.NewGormRelationshipRepository(db.DB),
		notifier,
		docapp.WithMetrics(metrics),
		docapp.WithLogger(log),
	)

	engine, err := router.NewEngine(router.EngineOptions{
		HTTP:        cfg.HTTP,
		Tracing:     tracerProvider.IsEnabled(),
		ServiceName: cfg.Telemetry.ServiceName,
	}, log)
	if err != nil {
		return err
	}
	router.Mount(engine, router.Handlers{
		Documents:     handler.NewDocumentHandler(service),
		Relationships: handler.NewRelationshipHandler(service),
		System:        handler.NewSystemHandler(db, version),
	}, router.WithAPIVersion("v1"))

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		err := srv.Shutdown(shutdownCtx)
		// Flush telemetry after the last request has been served.
		for _, shutdown := range []func(context.Context) error{
			tracerProvider.Shutdown,
			meterProvider.Shutdown,
			logProvider.Shutdown,
		} {
			if serr := shutdown(shutdownCtx); serr != nil {
				log.Warn("Telemetry shutdown failed", zap.Error(serr))
			}
		}
		return err
	})

	return g.Wait()
}

// newTransactionScope picks where numbering counters live. The database backend
// issues gapless numbers inside the document transaction; Redis counters are
// shared across instances but may leave gaps on rollback.
func newTransactionScope(cfg *config.Config, db *persistence.Database, log *zap.Logger) (*persistence.GormTransactionScope, error) {
	switch cfg.Series.Backend {
	case config.SeriesBackendRedis:
		factory := cache.NewSeriesRepositoryFactory(cfg.Redis,
			cache.WithLogger(log),
			cache.WithInMemoryFallback(cfg.App.Env == "development"),
		)
		series, err := factory.Create()
		if err != nil {
			return nil, err
		}
		return persistence.NewGormTransactionScope(db.DB, persistence.WithSeriesRepository(series)), nil
	default:
		return persistence.NewGormTransactionScope(db.DB,
			persistence.WithSeriesOptions(persistence.WithLockTimeout(cfg.Series.LockTimeout)),
		), nil
	}
}

// newNotificationGateway builds the gateway for posted documents. The returned
// close function is always safe to call.
func newNotificationGateway(ctx context.Context, cfg config.NotificationConfig, log *zap.Logger) (document.NotificationGateway, func(), error) {
	switch cfg.Backend {
	case config.NotificationBackendKafka:
		gw, err := notification.NewKafkaGateway(cfg)
		if err != nil {
			return nil, nil, err
		}
		log.Info("Posting notifications to Kafka",
			zap.Strings("brokers", cfg.Brokers),
			zap.String("topic", cfg.Topic),
		)
		return gw, gw.Close, nil
	case config.NotificationBackendNone:
		return nil, func() {}, nil
	default:
		bus := event.NewInMemoryEventBus(log)
		bus.Subscribe(event.NewPostedLogHandler(log), document.EventTypeDocumentPosted)
		if err := bus.Start(ctx); err != nil {
			return nil, nil, err
		}
		return event.NewBusNotificationGateway(bus), func() {
			_ = bus.Stop(context.Background())
		}, nil
	}
}
