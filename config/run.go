package config

import "time"

const (
	DefaultSamples    uint64 = 10_000
	DefaultIterations        = 3
)

// Run groups everything a sampling run needs.
// Threads left at zero is resolved to the logical core count by AdjustConfig.
type Run struct {
	// Threads is the number of sampling tasks spawned per iteration.
	Threads int `yaml:"threads" env:"ASHPI_THREADS"`

	// Samples is the number of points each task draws per iteration,
	// so one iteration draws Threads * Samples points in total.
	Samples uint64 `yaml:"samples" env:"ASHPI_SAMPLES"`

	// Iterations is how many independent estimates the run produces.
	Iterations int `yaml:"iterations" env:"ASHPI_ITERATIONS"`

	// Fast selects the squared-distance predicate; false selects the sqrt one.
	Fast bool `yaml:"fast" env:"ASHPI_FAST"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level" env:"ASHPI_LOG_LEVEL"`

	// OTelEndpoint enables OTLP/HTTP trace export when set.
	OTelEndpoint string `yaml:"otel_endpoint" env:"ASHPI_OTEL_ENDPOINT"`

	// OTelSampleRatio is the fraction of iteration spans exported, in [0, 1].
	OTelSampleRatio float64 `yaml:"otel_sample_ratio" env:"ASHPI_OTEL_SAMPLE_RATIO"`

	// Telemetry configures periodic throughput logs.
	// If nil, no background logger is started.
	Telemetry *TelemetryCfg `yaml:"telemetry"`
}

type TelemetryCfg struct {
	// LogsInterval is the period between two throughput log records.
	// Example: "5s".
	LogsInterval time.Duration `yaml:"logs_interval"`
}

func (cfg *TelemetryCfg) Enabled() bool {
	return cfg != nil
}

// Default returns the configuration used when nothing else is supplied.
func Default() *Run {
	return &Run{
		Samples:         DefaultSamples,
		Iterations:      DefaultIterations,
		Fast:            true,
		LogLevel:        "info",
		OTelSampleRatio: 1,
	}
}
