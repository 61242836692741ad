package coordinator

import (
	"context"
	"fmt"
	"github.com/Borislavv/go-ash-pi/internal/sampler"
	"github.com/Borislavv/go-ash-pi/internal/shared/random"
	"github.com/Borislavv/go-ash-pi/model"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"log/slog"
	"math"
	"runtime/debug"
	"sync"
	"time"
)

const tracerName = "github.com/Borislavv/go-ash-pi/internal/coordinator"

// SampleConfig describes one iteration. It is plain data and never mutated.
type SampleConfig struct {
	SamplesPerTask uint64
	Tasks          int
	Mode           sampler.Mode
}

// Total is the number of points drawn per iteration.
func (c SampleConfig) Total() uint64 {
	return uint64(c.Tasks) * c.SamplesPerTask
}

// SourceFactory hands a fresh, independent source to each task.
// It is called on the coordinator goroutine, once per task and iteration.
type SourceFactory func(task int) sampler.Source

// RandomSources seeds a new SplitMix64 generator per task.
func RandomSources(task int) sampler.Source {
	return random.New(random.Seed(task))
}

type Estimator interface {
	Iterate(ctx context.Context, cfg SampleConfig) (model.Result, error)
	Run(ctx context.Context, cfg SampleConfig, iterations int, emit func(model.Result) error) error
	Metrics() (iterations, samples, inCircle, busyNanos uint64)
}

type Coordinator struct {
	logger   *slog.Logger
	sources  SourceFactory
	tracer   trace.Tracer
	counters *counters
}

type Option func(*Coordinator)

// WithSources replaces the per-task random sources, e.g. with deterministic ones.
func WithSources(f SourceFactory) Option {
	return func(c *Coordinator) { c.sources = f }
}

func WithTracer(t trace.Tracer) Option {
	return func(c *Coordinator) { c.tracer = t }
}

func New(logger *slog.Logger, opts ...Option) *Coordinator {
	c := &Coordinator{
		logger:   logger,
		sources:  RandomSources,
		tracer:   otel.Tracer(tracerName),
		counters: newCounters(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Iterate runs a single standalone iteration.
func (c *Coordinator) Iterate(ctx context.Context, cfg SampleConfig) (model.Result, error) {
	return c.iterate(ctx, cfg, 1, 1)
}

// Run executes iterations sequentially and hands every result to emit in order.
// A failed task aborts the run immediately. The context is only consulted
// between iterations: a started iteration always runs to completion.
func (c *Coordinator) Run(ctx context.Context, cfg SampleConfig, iterations int, emit func(model.Result) error) error {
	for i := 1; i <= iterations; i++ {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("run stopped before iteration %d/%d: %w", i, iterations, err)
		}

		res, err := c.iterate(ctx, cfg, i, iterations)
		if err != nil {
			return err
		}

		if err = emit(res); err != nil {
			return fmt.Errorf("emit iteration %d/%d: %w", i, iterations, err)
		}
	}
	return nil
}

func (c *Coordinator) Metrics() (iterations, samples, inCircle, busyNanos uint64) {
	return c.counters.snapshot()
}

func (c *Coordinator) iterate(ctx context.Context, cfg SampleConfig, iteration, iterations int) (model.Result, error) {
	_, span := c.tracer.Start(ctx, "montecarlo.iteration", trace.WithAttributes(
		attribute.Int("iteration", iteration),
		attribute.Int("tasks", cfg.Tasks),
		attribute.Int64("samples_per_task", int64(cfg.SamplesPerTask)),
		attribute.String("mode", cfg.Mode.String()),
	))
	defer span.End()

	start := time.Now()
	counts, err := c.fanOut(cfg, iteration)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.logger.Error("sampling task failed", "iteration", iteration, "error", err.Error())
		return model.Result{}, err
	}
	inCircle := sum(counts)
	elapsed := time.Since(start)

	total := cfg.Total()
	value := estimate(inCircle, total)
	res := model.Result{
		Iteration:  iteration,
		Iterations: iterations,
		Value:      value,
		Error:      value - math.Pi,
		Elapsed:    elapsed,
		InCircle:   inCircle,
		Samples:    total,
	}

	c.counters.iterations.Add(1)
	c.counters.samples.Add(total)
	c.counters.inCircle.Add(inCircle)
	c.counters.busyNanos.Add(uint64(elapsed))

	span.SetAttributes(attribute.Float64("value", res.Value), attribute.Float64("error", res.Error))
	c.logger.Debug("iteration finished",
		"iteration", iteration,
		"of", iterations,
		"value", res.Value,
		"error", res.Error,
		"elapsed", elapsed.String(),
		"samples_per_sec", res.Throughput(),
	)

	return res, nil
}

// fanOut starts one goroutine per task and blocks until the slowest one is done.
// Each task writes only its own slot, so no locking is needed. When a source
// cannot be built, no further tasks start but the started ones are still joined.
func (c *Coordinator) fanOut(cfg SampleConfig, iteration int) ([]uint64, error) {
	counts := make([]uint64, cfg.Tasks)
	failures := make([]*TaskError, cfg.Tasks)

	var wg sync.WaitGroup
	for task := 0; task < cfg.Tasks; task++ {
		src, failure := c.source(task, iteration)
		if failure != nil {
			failures[task] = failure
			break
		}
		wg.Go(func() {
			defer func() {
				if r := recover(); r != nil {
					failures[task] = &TaskError{Iteration: iteration, Task: task, Cause: r, Stack: debug.Stack()}
				}
			}()
			counts[task] = sampler.Count(cfg.SamplesPerTask, cfg.Mode, src)
		})
	}
	wg.Wait()

	for _, f := range failures {
		if f != nil {
			return nil, f
		}
	}
	return counts, nil
}

// source builds a task's generator on the coordinator goroutine.
// A panicking factory fails the task exactly like a panicking sampler.
func (c *Coordinator) source(task, iteration int) (src sampler.Source, failure *TaskError) {
	defer func() {
		if r := recover(); r != nil {
			failure = &TaskError{Iteration: iteration, Task: task, Cause: r, Stack: debug.Stack()}
		}
	}()
	return c.sources(task), nil
}

func sum(counts []uint64) (total uint64) {
	for _, n := range counts {
		total += n
	}
	return total
}

// estimate does not guard against a zero total: that yields NaN and is
// rejected earlier by config validation.
func estimate(inCircle, total uint64) float64 {
	return 4 * float64(inCircle) / float64(total)
}
