package telemetry

import (
	"context"
	"github.com/Borislavv/go-ash-pi/config"
	"log/slog"
	"math"
	"time"
)

type Logger interface {
	Interval() time.Duration
	Close() error
}

type Logs struct {
	ctx      context.Context
	cancel   context.CancelFunc
	cfg      *config.TelemetryCfg
	logger   *slog.Logger
	meter    Meter
	interval time.Duration
}

func New(ctx context.Context, cfg *config.TelemetryCfg, logger *slog.Logger, meter Meter) *Logs {
	ctx, cancel := context.WithCancel(ctx)
	l := &Logs{
		ctx:    ctx,
		cancel: cancel,
		cfg:    cfg,
		logger: logger,
		meter:  meter,
	}
	if cfg.Enabled() {
		l.interval = cfg.LogsInterval
	}
	return l.run()
}

func (l *Logs) Interval() time.Duration {
	return l.interval
}

func (l *Logs) Close() error {
	l.cancel()
	return nil
}

func (l *Logs) run() *Logs {
	if l.cfg.Enabled() && l.interval > 0 {
		go l.loop()
	}
	return l
}

func (l *Logs) loop() {
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	s := newSampler(l.meter)
	prev := s.snapshot()

	for {
		select {
		case <-l.ctx.Done():
			return

		case <-ticker.C:
			cur := s.snapshot()
			d := deltaSnapshot(prev, cur)
			prev = cur

			l.logger.Info("sampling", record(l.interval, d, cur)...)
		}
	}
}

// record builds the attributes of one interval log line.
func record(interval time.Duration, d, total snapshot) []any {
	return []any{
		"interval", interval.String(),
		"iterations", d.iterations,
		"samples", d.samples,
		"samples_per_sec", math.Round(float64(d.samples) / interval.Seconds()),
		"busy", time.Duration(d.busyNanos).String(),
		"total_iterations", total.iterations,
		"total_samples", total.samples,
		"running_estimate", total.estimate(),
	}
}
