package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	"go.uber.org/zap"

	"github.com/Ramsey-B/clover/config"
	"github.com/Ramsey-B/clover/internal/database"
	eventrepo "github.com/Ramsey-B/clover/internal/repositories/event"
	"github.com/Ramsey-B/clover/internal/repositories/ingestionrun"
	"github.com/Ramsey-B/clover/pkg/builder"
	"github.com/Ramsey-B/clover/pkg/dedup"
	"github.com/Ramsey-B/clover/pkg/graph"
	"github.com/Ramsey-B/clover/pkg/ingest"
	"github.com/Ramsey-B/clover/pkg/kafka"
	"github.com/Ramsey-B/clover/pkg/normalize"
	"github.com/Ramsey-B/clover/pkg/refdata"
	"github.com/Ramsey-B/clover/pkg/routes/events"
	"github.com/Ramsey-B/clover/pkg/routes/health"
	"github.com/Ramsey-B/clover/pkg/tracing"
)

const version = "1.0.0"

func main() {
	cfg := config.Load()

	logger, err := newLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("Service failed", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	shutdownTracing := tracing.Init(cfg.AppName)
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(ctx); err != nil {
			logger.Warn("Failed to shut down tracing", zap.Error(err))
		}
	}()

	db, err := database.Connect(cfg, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.Migrate(cfg, logger); err != nil {
		return err
	}

	tables, err := loadTables(cfg, logger)
	if err != nil {
		return err
	}

	geo := normalize.NewGeoResolver(tables)
	eventBuilder := builder.New(tables, geo)
	detector := dedup.NewWithThreshold(cfg.FuzzyThreshold)

	eventsRepo := eventrepo.NewRepository(db, logger)
	runsRepo := ingestionrun.NewRepository(db, logger)

	producer := kafka.NewProducer(kafka.ProducerConfig{
		Brokers:      cfg.KafkaBrokers,
		Topic:        cfg.KafkaOutputTopic,
		BatchSize:    cfg.KafkaBatchSize,
		BatchTimeout: time.Duration(cfg.KafkaBatchTimeout) * time.Millisecond,
		RequiredAcks: cfg.KafkaRequiredAcks,
		Compression:  cfg.KafkaCompression,
	}, logger)
	defer producer.Close()

	opts := []ingest.Option{
		ingest.WithRunStore(runsRepo),
		ingest.WithPublisher(producer),
		ingest.WithMaxErrors(cfg.IngestMaxErrors),
	}

	var graphClient *graph.Client
	if cfg.GraphEnabled {
		graphClient, err = graph.NewClient(graph.Config{
			Host:     cfg.GraphDBHost,
			Port:     cfg.GraphDBPort,
			Username: cfg.GraphDBUser,
			Password: cfg.GraphDBPassword,
		}, logger)
		if err != nil {
			return err
		}
		defer graphClient.Close(context.Background())
		opts = append(opts, ingest.WithProjector(graph.NewEventService(graphClient, logger)))
		logger.Info("Graph projection enabled", zap.String("host", cfg.GraphDBHost))
	}

	coordinator := ingest.NewCoordinator(eventBuilder, detector, eventsRepo, logger, opts...)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var consumer *kafka.Consumer
	if cfg.KafkaConsumerEnabled {
		consumer = kafka.NewConsumer(cfg, logger, consumeHandler(coordinator, eventsRepo, logger))
		if err := consumer.Start(ctx); err != nil {
			return err
		}
		defer consumer.Stop()
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(otelecho.Middleware(cfg.AppName))
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	checker := health.NewChecker(db, graphPinger(graphClient), version)
	checker.RegisterRoutes(e)

	api := events.NewHandler(eventsRepo, runsRepo, coordinator, geo, logger)
	api.RegisterRoutes(e)

	go func() {
		addr := fmt.Sprintf(":%d", cfg.Port)
		logger.Info("HTTP server starting", zap.String("addr", addr))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server stopped", zap.Error(err))
			stop()
		}
	}()
	checker.SetReady(true)

	<-ctx.Done()
	logger.Info("Shutting down")
	checker.SetReady(false)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

// consumeHandler routes raw batch and enrichment messages from the input
// topic into the pipeline.
func consumeHandler(coordinator *ingest.Coordinator, eventsRepo *eventrepo.Repository, logger *zap.Logger) kafka.MessageHandler {
	return func(ctx context.Context, msg *kafka.IncomingMessage) error {
		if msg.IsImageEnriched() {
			enriched, err := msg.ParseImageEnriched()
			if err != nil {
				logger.Error("Failed to parse enrichment message", zap.Error(err))
				// Malformed payloads never become parseable; commit and move on.
				return nil
			}
			return eventsRepo.UpdateImageURL(ctx, enriched.EventID, enriched.ImageURL)
		}

		batch, err := msg.ParseRawBatch()
		if err != nil {
			logger.Error("Failed to parse raw batch message", zap.Error(err))
			return nil
		}
		if batch.Source == "" {
			logger.Error("Raw batch message missing source, skipping")
			return nil
		}
		coordinator.IngestBatch(ctx, batch.Source, batch.Records)
		return nil
	}
}

func loadTables(cfg *config.Config, logger *zap.Logger) (*refdata.Tables, error) {
	if cfg.RefdataPath == "" {
		return refdata.Default(), nil
	}
	tables, err := refdata.Load(cfg.RefdataPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load reference data from %s: %w", cfg.RefdataPath, err)
	}
	logger.Info("Loaded reference data", zap.String("path", cfg.RefdataPath))
	return tables, nil
}

// graphPinger keeps the health checker's interface value nil when the graph
// is disabled; a typed nil pointer would pass the nil check and panic.
func graphPinger(client *graph.Client) health.GraphPinger {
	if client == nil {
		return nil
	}
	return client
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	var zc zap.Config
	if cfg.PrettyLogs {
		zc = zap.NewDevelopmentConfig()
	} else {
		zc = zap.NewProductionConfig()
	}
	level, err := zap.ParseAtomicLevel(cfg.LogLevel)
	if err == nil {
		zc.Level = level
	}
	return zc.Build(zap.Fields(zap.String("app", cfg.AppName)))
}
