package config

import (
	"errors"
	"fmt"
	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
	"math"
	"math/bits"
	"os"
	"runtime"
	"time"
)

const defaultTelemetryLogsInterval = 5 * time.Second

var (
	ErrInvalidThreads    = errors.New("threads must be >= 1")
	ErrInvalidSamples    = errors.New("samples must be >= 1")
	ErrInvalidIterations = errors.New("iterations must be >= 1")
	ErrSampleOverflow    = errors.New("threads * samples exceeds the int64 range")
	ErrInvalidRatio      = errors.New("otel sample ratio must be within [0, 1]")
)

// LoadConfig reads a YAML file on top of Default.
// Keys missing from the file keep their default values.
func LoadConfig(path string) (*Run, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("stat config path: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config yaml file %s: %w", path, err)
	}

	cfg := Default()
	if err = yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("unmarshal yaml from %s: %w", path, err)
	}

	return cfg, nil
}

// ApplyEnv overrides fields whose ASHPI_* variables are set.
func (cfg *Run) ApplyEnv() error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// AdjustConfig resolves derived values. It is the only place that looks at the host.
func (cfg *Run) AdjustConfig() {
	if cfg.Threads == 0 {
		cfg.Threads = runtime.NumCPU()
	}
	if cfg.Telemetry.Enabled() && cfg.Telemetry.LogsInterval <= 0 {
		cfg.Telemetry.LogsInterval = defaultTelemetryLogsInterval
	}
}

// Validate rejects configurations the sampling core cannot divide by.
func (cfg *Run) Validate() error {
	if cfg.Threads < 1 {
		return fmt.Errorf("%w, got %d", ErrInvalidThreads, cfg.Threads)
	}
	if cfg.Samples < 1 {
		return fmt.Errorf("%w, got %d", ErrInvalidSamples, cfg.Samples)
	}
	if cfg.Iterations < 1 {
		return fmt.Errorf("%w, got %d", ErrInvalidIterations, cfg.Iterations)
	}
	if hi, lo := bits.Mul64(uint64(cfg.Threads), cfg.Samples); hi != 0 || lo > math.MaxInt64 {
		return fmt.Errorf("%w: %d * %d", ErrSampleOverflow, cfg.Threads, cfg.Samples)
	}
	if !(cfg.OTelSampleRatio >= 0 && cfg.OTelSampleRatio <= 1) {
		return fmt.Errorf("%w, got %v", ErrInvalidRatio, cfg.OTelSampleRatio)
	}
	return nil
}

// TotalSamples is the number of points drawn per iteration.
func (cfg *Run) TotalSamples() uint64 {
	return uint64(cfg.Threads) * cfg.Samples
}
