package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"news_digest/internal/config"
	"news_digest/internal/feed"
	"news_digest/internal/messenger"
	"news_digest/internal/scheduler"
	"news_digest/internal/sentiment"
	"news_digest/internal/service"
	"news_digest/internal/storage/postgres"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	// Setup logger
	logger := setupLogger("info")

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger = setupLogger(cfg.LogLevel)

	db, err := sqlx.Connect("postgres", cfg.Database.DSN())
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Error("failed to ping database", "error", err)
		os.Exit(1)
	}
	logger.Info("connected to database")

	// Initialize outbound delivery
	rabbitMQ, err := messenger.NewRabbitMQ(messenger.Config{
		URL:        cfg.RabbitMQ.URL,
		Exchange:   cfg.RabbitMQ.Exchange,
		RoutingKey: cfg.RabbitMQ.RoutingKey,
		QueueName:  cfg.RabbitMQ.QueueName,
	}, logger)
	if err != nil {
		logger.Error("failed to connect to rabbitmq", "error", err)
		os.Exit(1)
	}
	defer rabbitMQ.Close()

	// Initialize stores
	articleStore := postgres.NewArticleStore(db)
	interestStore := postgres.NewInterestStore(db)
	scheduleStore := postgres.NewScheduleStore(db)

	// Initialize pipeline stages
	fetcher := feed.New(feed.Config{
		Timeout:    cfg.Collect.FetchTimeout,
		MaxEntries: cfg.Collect.MaxEntriesPerFeed,
	}, logger)

	analyzer := sentiment.New(sentiment.Config{
		Provider:  cfg.Sentiment.Provider,
		BaseURL:   cfg.Sentiment.BaseURL,
		Model:     cfg.Sentiment.Model,
		APIKey:    cfg.Sentiment.APIKey,
		MaxTokens: cfg.Sentiment.MaxTokens,
		Timeout:   cfg.Sentiment.Timeout,
	}, logger)

	sources, err := cfg.Sources()
	if err != nil {
		logger.Error("invalid feed configuration", "error", err)
		os.Exit(1)
	}

	defaultInterests, err := cfg.DefaultInterests()
	if err != nil {
		logger.Error("invalid digest configuration", "error", err)
		os.Exit(1)
	}

	collector := service.NewCollector(
		fetcher,
		analyzer,
		articleStore,
		sources,
		logger,
		cfg.Collect,
	)

	digests := service.NewDigestService(
		articleStore,
		interestStore,
		scheduleStore,
		rabbitMQ,
		defaultInterests,
		cfg.Digest.Limit,
		logger,
	)

	sched := scheduler.New(collector, digests, scheduler.Config{
		CollectSpec: cfg.Collect.Cron,
		DeliverSpec: cfg.Digest.Cron,
	}, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	logger.Info("starting news digest daemon",
		"sources", len(sources),
		"collect_spec", cfg.Collect.Cron,
		"deliver_spec", cfg.Digest.Cron,
	)

	if err := sched.Start(ctx); err != nil && err != context.Canceled {
		logger.Error("scheduler error", "error", err)
		os.Exit(1)
	}
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
