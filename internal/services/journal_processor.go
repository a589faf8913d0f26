package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/fastygo/questlog/domain"
	"github.com/fastygo/questlog/internal/infrastructure/buffer"
	"github.com/fastygo/questlog/repository"
)

// ConnectionHealth abstracts the connection monitor functionality.
type ConnectionHealth interface {
	IsOnline() bool
}

// ProcessorConfig controls how the journal spool is drained.
type ProcessorConfig struct {
	Interval   time.Duration
	BatchSize  int
	MaxRetries int
	Retention  time.Duration
}

// JournalProcessor writes activity events to the primary store and spools them in BoltDB while
// the store is unreachable. A cron job replays the spool.
type JournalProcessor struct {
	spool   *buffer.Store
	monitor ConnectionHealth
	events  repository.ActivityRepository
	logger  *zap.Logger
	cron    *cron.Cron
	cfg     ProcessorConfig
}

func NewJournalProcessor(
	spool *buffer.Store,
	monitor ConnectionHealth,
	events repository.ActivityRepository,
	logger *zap.Logger,
	cfg ProcessorConfig,
) (*JournalProcessor, error) {
	if cfg.Interval <= 0 {
		cfg.Interval = 30 * time.Second
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 50
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.Retention <= 0 {
		cfg.Retention = 24 * time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	jp := &JournalProcessor{
		spool:   spool,
		monitor: monitor,
		events:  events,
		logger:  logger,
		cfg:     cfg,
		cron:    cron.New(cron.WithSeconds()),
	}

	schedule := fmt.Sprintf("@every %s", cfg.Interval)
	if _, err := jp.cron.AddFunc(schedule, jp.tick); err != nil {
		return nil, fmt.Errorf("schedule journal drain: %w", err)
	}
	return jp, nil
}

// Start launches the cron scheduler.
func (jp *JournalProcessor) Start() {
	if jp == nil || jp.cron == nil {
		return
	}
	jp.cron.Start()
	jp.logger.Info("journal processor started", zap.Duration("interval", jp.cfg.Interval))
}

// Stop waits for a running drain to finish or ctx to expire.
func (jp *JournalProcessor) Stop(ctx context.Context) {
	if jp == nil || jp.cron == nil {
		return
	}
	stopCtx := jp.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}
	jp.logger.Info("journal processor stopped")
}

// Submit writes the event straight to the store when it is online and spools it otherwise,
// or when the direct write fails.
func (jp *JournalProcessor) Submit(ctx context.Context, event *domain.ActivityEvent) error {
	if jp == nil {
		return errors.New("journal processor not configured")
	}
	if event == nil {
		return domain.ErrInvalidPayload
	}
	event.Touch()

	if jp.monitor == nil || jp.monitor.IsOnline() {
		err := jp.events.Append(ctx, event)
		if err == nil {
			return nil
		}
		jp.logger.Warn("activity write failed, spooling", zap.String("event_id", event.ID), zap.Error(err))
	}

	entry, err := buffer.NewEntry(event)
	if err != nil {
		return err
	}
	return jp.spool.Enqueue(entry)
}

// Drain replays one batch of spooled events. Entries that keep failing are dropped after MaxRetries.
func (jp *JournalProcessor) Drain(ctx context.Context) error {
	if jp == nil || jp.spool == nil {
		return nil
	}
	if jp.monitor != nil && !jp.monitor.IsOnline() {
		jp.logger.Debug("skipping journal drain (offline)")
		return nil
	}

	entries, err := jp.spool.Batch(jp.cfg.BatchSize)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if err := jp.replay(ctx, entry); err != nil {
			jp.logger.Error("failed to replay activity event",
				zap.String("event_id", entry.ID),
				zap.String("kind", entry.Kind),
				zap.Error(err))

			if entry.Retries+1 >= jp.cfg.MaxRetries {
				jp.logger.Warn("dropping activity event (max retries reached)", zap.String("event_id", entry.ID))
				if err := jp.spool.Remove(entry); err != nil {
					jp.logger.Warn("failed to remove spooled event", zap.Error(err))
				}
				continue
			}
			if err := jp.spool.Retry(entry); err != nil {
				jp.logger.Error("failed to requeue spooled event", zap.Error(err))
			}
			continue
		}

		if err := jp.spool.Remove(entry); err != nil {
			jp.logger.Warn("failed to purge replayed event", zap.Error(err))
		}
	}
	return nil
}

// Size returns the number of spooled events.
func (jp *JournalProcessor) Size() int {
	if jp == nil || jp.spool == nil {
		return 0
	}
	size, err := jp.spool.Size()
	if err != nil {
		return 0
	}
	return size
}

func (jp *JournalProcessor) tick() {
	ctx, cancel := context.WithTimeout(context.Background(), jp.cfg.Interval)
	defer cancel()

	if err := jp.Drain(ctx); err != nil {
		jp.logger.Error("journal drain failed", zap.Error(err))
	}
	if removed, err := jp.spool.Purge(time.Now().Add(-jp.cfg.Retention)); err != nil {
		jp.logger.Error("journal purge failed", zap.Error(err))
	} else if removed > 0 {
		jp.logger.Warn("purged expired activity events", zap.Int("count", removed))
	}
}

func (jp *JournalProcessor) replay(ctx context.Context, entry buffer.Entry) error {
	event, err := entry.Decode()
	if err != nil {
		return err
	}
	return jp.events.Append(ctx, event)
}
