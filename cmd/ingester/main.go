package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"content_ingester/internal/author"
	"content_ingester/internal/config"
	"content_ingester/internal/domain"
	"content_ingester/internal/hashtag"
	"content_ingester/internal/ingest"
	"content_ingester/internal/metrics"
	"content_ingester/internal/publisher"
	"content_ingester/internal/scheduler"
	"content_ingester/internal/source/registry"
	"content_ingester/internal/storage/postgres"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run wires the ingester and returns the process exit code. Deferred
// cleanup runs before main exits.
func run(args []string) int {
	fs := flag.NewFlagSet("ingester", flag.ContinueOnError)
	configPath := fs.String("config", "config.yaml", "path to config file")
	topicID := fs.Int64("topic", 0, "run a single topic by id and exit")
	keyword := fs.String("keyword", "", "ingest a raw keyword on -platform and exit")
	platform := fs.String("platform", "", "platform for -keyword (video, microblog, news, image-feed)")
	maxRecords := fs.Int("max", 0, "record bound for -keyword (defaults to ingest.max_records_per_topic)")
	once := fs.Bool("once", false, "run all active topics once and exit")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	logger := setupLogger("info")

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		return 1
	}

	logger = setupLogger(cfg.LogLevel)

	db, err := sqlx.Connect("postgres", cfg.Database.DSN())
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		return 1
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Error("failed to ping database", "error", err)
		return 1
	}
	logger.Info("connected to database")

	var pub ingest.Publisher
	if cfg.RabbitMQ.Enabled {
		rabbitMQ, err := publisher.NewRabbitMQ(publisher.Config{
			URL:        cfg.RabbitMQ.URL,
			Exchange:   cfg.RabbitMQ.Exchange,
			RoutingKey: cfg.RabbitMQ.RoutingKey,
			QueueName:  cfg.RabbitMQ.QueueName,
		}, logger)
		if err != nil {
			logger.Error("failed to connect to rabbitmq", "error", err)
			return 1
		}
		defer rabbitMQ.Close()
		pub = rabbitMQ
	}

	contentStore := postgres.NewContentStore(db)
	authorStore := postgres.NewAuthorStore(db)
	topicStore := postgres.NewTopicStore(db)
	txManager := postgres.NewTransactionManager(db)

	resolver := author.NewResolver(authorStore, logger)

	ingestService := ingest.NewService(
		contentStore,
		resolver,
		txManager,
		pub,
		logger,
		ingest.Options{MergeTopicRefs: cfg.Ingest.MergeTopicRefs},
	)

	sched := scheduler.NewScheduler(
		topicStore,
		ingestService,
		hashtag.NewConverter(hashtag.DefaultMaxLength),
		registry.Build(cfg.Platforms, logger),
		cfg.Ingest.MaxRecordsPerTopic,
		logger,
	)
	sched.OnRunStart(resolver.Reset)

	driver, err := scheduler.NewDriver(sched, scheduler.DriverConfig{
		Schedule:   cfg.Ingest.Schedule,
		RunOnStart: cfg.Ingest.ShouldRunOnStart(),
		RunTimeout: cfg.Ingest.RunTimeout,
	}, logger)
	if err != nil {
		logger.Error("invalid schedule", "error", err)
		return 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	switch {
	case *keyword != "":
		p := domain.Platform(*platform)
		if !p.Valid() {
			logger.Error("invalid -platform", "platform", *platform)
			return 2
		}
		stats, err := sched.IngestKeyword(ctx, p, *keyword, *maxRecords)
		if err != nil {
			logger.Error("keyword ingest failed", "error", err)
			return 1
		}
		logger.Info("keyword ingest finished", "platform", p, "keyword", *keyword, "stored", stats.Stored)
		return 0

	case *topicID != 0:
		report, err := sched.RunOne(ctx, *topicID)
		if err != nil {
			logger.Error("topic run failed", "topic_id", *topicID, "error", err)
			return 1
		}
		logger.Info("topic run finished", "topic_id", *topicID, "stored", report.Stored(), "failures", report.Failures())
		return 0

	case *once:
		report, err := driver.Trigger(ctx)
		if err != nil {
			logger.Error("run failed", "error", err)
			return 1
		}
		logger.Info("run finished", "stored", report.Stored(), "failures", report.Failures())
		return 0
	}

	metrics.Serve(ctx, cfg.MetricsAddr, logger)

	logger.Info("starting content ingester",
		"schedule", cfg.Ingest.Schedule,
		"max_records_per_topic", cfg.Ingest.MaxRecordsPerTopic,
		"publish", cfg.RabbitMQ.Enabled,
	)

	if err := driver.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("driver error", "error", err)
		return 1
	}

	return 0
}

func setupLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: logLevel}
	handler := slog.NewJSONHandler(os.Stdout, opts)
	return slog.New(handler)
}
