package ashpi

import (
	"context"
	"github.com/Borislavv/go-ash-pi/config"
	"github.com/Borislavv/go-ash-pi/internal/coordinator"
	"github.com/Borislavv/go-ash-pi/internal/sampler"
	"github.com/Borislavv/go-ash-pi/internal/telemetry"
	"github.com/Borislavv/go-ash-pi/model"
	"io"
	"log/slog"
)

var ErrTaskFailed = coordinator.ErrTaskFailed

type TaskError = coordinator.TaskError

type AshPi interface {
	coordinator.Estimator
	telemetry.Logger
	Estimate(ctx context.Context, emit func(model.Result) error) error
	io.Closer
}

var _ AshPi = (*Estimator)(nil)

// Estimator runs the configured number of Monte Carlo iterations.
type Estimator struct {
	*coordinator.Coordinator
	telemetry.Logger
	sample     coordinator.SampleConfig
	iterations int
	cls        context.CancelFunc
}

// New expects cfg to be adjusted and validated already.
func New(ctx context.Context, cfg *config.Run, logger *slog.Logger, opts ...coordinator.Option) *Estimator {
	ctx, cancel := context.WithCancel(ctx)
	coord := coordinator.New(logger, opts...)
	telemeter := telemetry.New(ctx, cfg.Telemetry, logger, coord)
	return &Estimator{
		Coordinator: coord,
		Logger:      telemeter,
		sample:      SampleConfigOf(cfg),
		iterations:  cfg.Iterations,
		cls:         cancel,
	}
}

// SampleConfigOf maps the user-facing configuration onto one iteration's plan.
func SampleConfigOf(cfg *config.Run) coordinator.SampleConfig {
	return coordinator.SampleConfig{
		SamplesPerTask: cfg.Samples,
		Tasks:          cfg.Threads,
		Mode:           sampler.ModeOf(cfg.Fast),
	}
}

// Estimate runs every configured iteration, handing results to emit in order.
func (e *Estimator) Estimate(ctx context.Context, emit func(model.Result) error) error {
	return e.Run(ctx, e.sample, e.iterations, emit)
}

func (e *Estimator) Close() error {
	e.cls()
	return nil
}
