package cli

import (
	"flag"
	"fmt"
	"github.com/Borislavv/go-ash-pi/config"
	"os"
)

const configEnv = "ASHPI_CONFIG"

// Config holds everything the ashpi command needs.
type Config struct {
	Run        *config.Run
	ConfigPath string
	Progress   bool
}

// ParseConfig resolves configuration with precedence defaults < YAML < env < flags.
// Only flags that were actually passed override earlier layers.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var (
		path       = os.Getenv(configEnv)
		threads    int
		samples    uint64
		iterations int
		fast       bool
		logLevel   string
		progress   bool
	)
	fs.StringVar(&path, "config", path, "path to a YAML config file")
	fs.IntVar(&threads, "threads", 0, "sampling tasks per iteration (0 = logical cores)")
	fs.Uint64Var(&samples, "samples", config.DefaultSamples, "points drawn by each task per iteration")
	fs.IntVar(&iterations, "iterations", config.DefaultIterations, "number of independent estimates")
	fs.BoolVar(&fast, "fast", true, "use the squared-distance test instead of sqrt")
	fs.StringVar(&logLevel, "log-level", "info", "debug, info, warn or error")
	fs.BoolVar(&progress, "progress", false, "draw a progress bar on stderr")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	run := config.Default()
	if path != "" {
		loaded, err := config.LoadConfig(path)
		if err != nil {
			return Config{}, err
		}
		run = loaded
	}
	if err := run.ApplyEnv(); err != nil {
		return Config{}, err
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "threads":
			run.Threads = threads
		case "samples":
			run.Samples = samples
		case "iterations":
			run.Iterations = iterations
		case "fast":
			run.Fast = fast
		case "log-level":
			run.LogLevel = logLevel
		}
	})

	run.AdjustConfig()
	if err := run.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}

	return Config{Run: run, ConfigPath: path, Progress: progress}, nil
}
