package worker

import (
	"context"
	"time"

	"todoBoard/internal/logger"

	"go.uber.org/zap"
)

const DefaultInterval = 30 * time.Second

// Poller runs one job on a fixed interval until its context is cancelled.
type Poller struct {
	name     string
	interval time.Duration
	job      func(context.Context) error
}

func NewPoller(name string, job func(context.Context) error, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Poller{
		name:     name,
		interval: interval,
		job:      job,
	}
}

func (p *Poller) Interval() time.Duration {
	return p.interval
}

// Start blocks, running the job on every tick. The ticker is stopped before
// Start returns.
func (p *Poller) Start(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	logger.Info("Worker: poller started", zap.String("poller", p.name), zap.Duration("interval", p.interval))

	for {
		select {
		case <-ticker.C:
			p.Check(ctx)
		case <-ctx.Done():
			logger.Info("Worker: poller stopping", zap.String("poller", p.name))
			return
		}
	}
}

// Check runs the job once and logs the outcome.
func (p *Poller) Check(ctx context.Context) {
	start := time.Now()

	if err := p.job(ctx); err != nil {
		logger.Warn("Worker: poll failed",
			zap.String("poller", p.name),
			zap.Error(err),
			zap.Duration("ms", time.Since(start)))
		return
	}

	logger.Log(zap.DebugLevel, "Worker: poll finished",
		zap.String("poller", p.name),
		zap.Duration("ms", time.Since(start)))
}
