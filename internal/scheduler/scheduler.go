// Package scheduler drives the two periodic control loops: the hourly
// collection cycle and the per-minute delivery tick. Both run on cron
// boundaries so slow iterations do not accumulate drift.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"news_digest/internal/domain"
)

// Collector runs one collection cycle.
type Collector interface {
	Collect(ctx context.Context) (*domain.CollectStats, error)
}

// Deliverer processes one delivery tick.
type Deliverer interface {
	DeliverDue(ctx context.Context, now time.Time)
}

type Config struct {
	CollectSpec string // cron spec for collection, e.g. "0 * * * *"
	DeliverSpec string // cron spec for the delivery tick, e.g. "* * * * *"
}

type Scheduler struct {
	collector Collector
	deliverer Deliverer
	cfg       Config
	logger    *slog.Logger
}

func New(collector Collector, deliverer Deliverer, cfg Config, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		collector: collector,
		deliverer: deliverer,
		cfg:       cfg,
		logger:    logger.With("component", "scheduler"),
	}
}

// Start runs one immediate collection, then blocks driving both loops until
// ctx is cancelled. On cancellation it stops the cron and waits for any
// running job to finish.
func (s *Scheduler) Start(ctx context.Context) error {
	s.logger.Info("scheduler started",
		"collect_spec", s.cfg.CollectSpec,
		"deliver_spec", s.cfg.DeliverSpec,
	)

	s.runCollect(ctx)

	cronLog := &cronLogger{logger: s.logger}
	c := cron.New(
		cron.WithLogger(cronLog),
		cron.WithChain(cron.Recover(cronLog)),
	)

	if _, err := c.AddFunc(s.cfg.CollectSpec, func() { s.runCollect(ctx) }); err != nil {
		return fmt.Errorf("add collection job: %w", err)
	}
	if _, err := c.AddFunc(s.cfg.DeliverSpec, func() { s.deliverer.DeliverDue(ctx, time.Now()) }); err != nil {
		return fmt.Errorf("add delivery job: %w", err)
	}

	c.Start()
	<-ctx.Done()

	s.logger.Info("scheduler stopping")
	<-c.Stop().Done()
	s.logger.Info("scheduler stopped")

	return ctx.Err()
}

func (s *Scheduler) runCollect(ctx context.Context) {
	if _, err := s.collector.Collect(ctx); err != nil && !errors.Is(err, context.Canceled) {
		s.logger.Error("collection cycle failed", "error", err)
	}
}

// cronLogger adapts slog to the cron.Logger interface.
type cronLogger struct {
	logger *slog.Logger
}

func (l *cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l *cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error(msg, append(keysAndValues, "error", err)...)
}
