package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-insights/internal/domain"
	"github.com/spec-kit/ticket-insights/internal/events"
)

// SummarySource computes the current analytics summary.
type SummarySource interface {
	Summary(ctx context.Context) (*domain.Summary, error)
}

// AnalyticsBroadcaster periodically publishes the analytics summary.
type AnalyticsBroadcaster struct {
	source    SummarySource
	publisher events.Publisher
	channel   string
	schedule  string
	timeout   time.Duration
	logger    *zap.Logger
	scheduler *cron.Cron
}

// NewAnalyticsBroadcaster validates schedule and prepares the scheduler without starting it.
func NewAnalyticsBroadcaster(source SummarySource, publisher events.Publisher, channel, schedule string, logger *zap.Logger) (*AnalyticsBroadcaster, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	b := &AnalyticsBroadcaster{
		source:    source,
		publisher: publisher,
		channel:   channel,
		schedule:  schedule,
		timeout:   10 * time.Second,
		logger:    logger,
		scheduler: cron.New(),
	}
	if _, err := b.scheduler.AddFunc(schedule, b.tick); err != nil {
		return nil, fmt.Errorf("invalid broadcast schedule %q: %w", schedule, err)
	}
	return b, nil
}

// Start begins running the schedule in the background.
func (b *AnalyticsBroadcaster) Start() {
	b.scheduler.Start()
	b.logger.Info("analytics broadcaster started",
		zap.String("schedule", b.schedule),
		zap.String("channel", b.channel))
}

// Stop halts the schedule and waits for a running broadcast to finish.
func (b *AnalyticsBroadcaster) Stop() {
	<-b.scheduler.Stop().Done()
	b.logger.Info("analytics broadcaster stopped")
}

// Broadcast computes one summary and publishes it.
func (b *AnalyticsBroadcaster) Broadcast(ctx context.Context) error {
	summary, err := b.source.Summary(ctx)
	if err != nil {
		return fmt.Errorf("compute summary: %w", err)
	}
	return b.publisher.Publish(ctx, b.channel, summary)
}

func (b *AnalyticsBroadcaster) tick() {
	ctx, cancel := context.WithTimeout(context.Background(), b.timeout)
	defer cancel()
	if err := b.Broadcast(ctx); err != nil {
		b.logger.Warn("analytics broadcast failed", zap.Error(err))
	}
}
