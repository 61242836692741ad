package cli

import (
	"context"
	"errors"
	"fmt"
	"github.com/Borislavv/go-ash-pi"
	"github.com/Borislavv/go-ash-pi/internal/coordinator"
	"github.com/Borislavv/go-ash-pi/internal/report"
	"github.com/Borislavv/go-ash-pi/internal/tracing"
	"github.com/rs/zerolog"
	"io"
	"log/slog"
	"strings"
	"time"
)

const serviceName = "ashpi"

// version is stamped at link time: -ldflags "-X github.com/Borislavv/go-ash-pi/internal/cli.version=v1.2.3".
// When empty the module version from the build info is reported.
var version string

// Run executes the configured iterations, writing results to out and diagnostics to errOut.
// Options are forwarded to the coordinator, e.g. to inject sources.
func Run(ctx context.Context, cfg Config, out io.Writer, errOut io.Writer, opts ...coordinator.Option) error {
	if out == nil {
		out = io.Discard
	}
	if errOut == nil {
		errOut = io.Discard
	}

	zlog := NewZeroLogger(errOut, cfg.Run.LogLevel)
	logger := NewLogger(errOut, cfg.Run.LogLevel)

	shutdown, err := tracing.Setup(ctx, tracing.Options{
		Service:     serviceName,
		Version:     version,
		Endpoint:    cfg.Run.OTelEndpoint,
		SampleRatio: cfg.Run.OTelSampleRatio,
	})
	if err != nil {
		zlog.Error().Err(err).Str("endpoint", cfg.Run.OTelEndpoint).Msg("tracing setup failed")
		return fmt.Errorf("setup tracing: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(sctx); err != nil {
			zlog.Warn().Err(err).Msg("tracing shutdown failed")
		}
	}()

	zlog.Info().
		Int("threads", cfg.Run.Threads).
		Uint64("samples", cfg.Run.Samples).
		Int("iterations", cfg.Run.Iterations).
		Uint64("samples_per_iteration", cfg.Run.TotalSamples()).
		Bool("fast", cfg.Run.Fast).
		Str("config", cfg.ConfigPath).
		Msg("starting monte carlo run")

	est := ashpi.New(ctx, cfg.Run, logger, opts...)
	defer func() { _ = est.Close() }()

	presenter := report.NewPresenter(out)
	emit := presenter.Present
	if cfg.Progress {
		bar := report.NewProgress(errOut, cfg.Run.Iterations)
		defer bar.Finish()
		emit = bar.Wrap(emit)
	}

	if err = est.Estimate(ctx, emit); err != nil {
		var taskErr *ashpi.TaskError
		if errors.As(err, &taskErr) {
			zlog.Error().
				Int("iteration", taskErr.Iteration).
				Int("task", taskErr.Task).
				Str("cause", fmt.Sprint(taskErr.Cause)).
				Bytes("stack", taskErr.Stack).
				Msg("sampling task terminated abnormally, aborting run")
		} else {
			zlog.Error().Err(err).Msg("run aborted")
		}
		return err
	}

	return presenter.WriteSummary()
}

// NewZeroLogger builds the human-facing console logger for CLI lifecycle events.
func NewZeroLogger(w io.Writer, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339, NoColor: true}).
		Level(lvl).
		With().
		Timestamp().
		Str("service", serviceName).
		Logger()
}

// NewLogger builds the structured logger handed to library components.
func NewLogger(w io.Writer, level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl})
	return slog.New(h).With(slog.String("service", serviceName))
}
