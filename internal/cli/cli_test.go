package cli

import (
	"bytes"
	"flag"
	"github.com/Borislavv/go-ash-pi/config"
	"github.com/Borislavv/go-ash-pi/internal/coordinator"
	"github.com/Borislavv/go-ash-pi/internal/sampler"
	"github.com/Borislavv/go-ash-pi/internal/shared/random"
	"github.com/stretchr/testify/require"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func newFlagSet() *flag.FlagSet {
	fs := flag.NewFlagSet("ashpi", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

// TestParseConfig_Defaults verifies defaults when nothing is supplied.
func TestParseConfig_Defaults(t *testing.T) {
	t.Setenv(configEnv, "")

	cfg, err := ParseConfig(newFlagSet(), nil)
	require.NoError(t, err)
	require.Equal(t, runtime.NumCPU(), cfg.Run.Threads)
	require.Equal(t, config.DefaultSamples, cfg.Run.Samples)
	require.Equal(t, config.DefaultIterations, cfg.Run.Iterations)
	require.True(t, cfg.Run.Fast)
	require.False(t, cfg.Progress)
}

// TestParseConfig_Precedence verifies flags beat env, which beats the file.
func TestParseConfig_Precedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ashpi.yaml")
	require.NoError(t, os.WriteFile(path, []byte("threads: 2\nsamples: 500\niterations: 7\n"), 0o600))
	t.Setenv(configEnv, path)
	t.Setenv("ASHPI_SAMPLES", "800")

	cfg, err := ParseConfig(newFlagSet(), []string{"-iterations", "1", "-fast=false", "-progress"})
	require.NoError(t, err)
	require.Equal(t, path, cfg.ConfigPath)
	require.Equal(t, 2, cfg.Run.Threads, "from file")
	require.Equal(t, uint64(800), cfg.Run.Samples, "from env")
	require.Equal(t, 1, cfg.Run.Iterations, "from flag")
	require.False(t, cfg.Run.Fast)
	require.True(t, cfg.Progress)
}

// TestParseConfig_RejectsZeroSamples verifies the zero-division case stops at the boundary.
func TestParseConfig_RejectsZeroSamples(t *testing.T) {
	t.Setenv(configEnv, "")

	_, err := ParseConfig(newFlagSet(), []string{"-threads", "1", "-samples", "0"})
	require.ErrorIs(t, err, config.ErrInvalidSamples)
}

// TestParseConfig_RejectsNegativeThreads verifies negative thread counts are refused.
func TestParseConfig_RejectsNegativeThreads(t *testing.T) {
	t.Setenv(configEnv, "")

	_, err := ParseConfig(newFlagSet(), []string{"-threads", "-2"})
	require.ErrorIs(t, err, config.ErrInvalidThreads)
}

// TestParseConfig_BadFlag verifies unknown flags are reported.
func TestParseConfig_BadFlag(t *testing.T) {
	_, err := ParseConfig(newFlagSet(), []string{"-nope"})
	require.Error(t, err)
}

// TestRun_PrintsEveryIteration verifies one line per iteration plus a summary.
func TestRun_PrintsEveryIteration(t *testing.T) {
	t.Setenv(configEnv, "")
	cfg, err := ParseConfig(newFlagSet(), []string{"-threads", "2", "-samples", "2000", "-iterations", "3"})
	require.NoError(t, err)

	var out, errOut bytes.Buffer
	require.NoError(t, Run(t.Context(), cfg, &out, &errOut))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 4)
	require.True(t, strings.HasPrefix(lines[0], "[1/3] pi="))
	require.True(t, strings.HasPrefix(lines[1], "[2/3] pi="))
	require.True(t, strings.HasPrefix(lines[2], "[3/3] pi="))
	require.True(t, strings.HasPrefix(lines[3], "mean="))
	require.Contains(t, errOut.String(), "starting monte carlo run")
}

// TestRun_TaskFailureDiagnostic verifies a crashed task aborts the run with a diagnostic naming it.
func TestRun_TaskFailureDiagnostic(t *testing.T) {
	t.Setenv(configEnv, "")
	cfg, err := ParseConfig(newFlagSet(), []string{"-threads", "3", "-samples", "100", "-iterations", "2"})
	require.NoError(t, err)

	sources := coordinator.WithSources(func(task int) sampler.Source {
		if task == 1 {
			return nil
		}
		return random.New(uint64(task + 1))
	})

	var out, errOut bytes.Buffer
	err = Run(t.Context(), cfg, &out, &errOut, sources)
	require.ErrorIs(t, err, coordinator.ErrTaskFailed)

	require.Empty(t, out.String(), "no result line or summary for a failed run")
	logged := errOut.String()
	require.Contains(t, logged, "sampling task terminated abnormally, aborting run")
	require.Contains(t, logged, "iteration=1")
	require.Contains(t, logged, "task=1")
	require.Contains(t, logged, "samples_per_iteration=300")
}

// TestRun_NilWriters verifies missing writers are tolerated.
func TestRun_NilWriters(t *testing.T) {
	t.Setenv(configEnv, "")
	cfg, err := ParseConfig(newFlagSet(), []string{"-threads", "1", "-samples", "10", "-iterations", "1"})
	require.NoError(t, err)
	require.NoError(t, Run(t.Context(), cfg, nil, nil))
}

// TestNewZeroLogger_Level verifies unknown levels fall back to info.
func TestNewZeroLogger_Level(t *testing.T) {
	var buf bytes.Buffer
	l := NewZeroLogger(&buf, "bogus")
	l.Debug().Msg("hidden")
	l.Info().Msg("shown")
	require.NotContains(t, buf.String(), "hidden")
	require.Contains(t, buf.String(), "shown")
}

// TestNewLogger_Level verifies the slog level follows the configured one.
func TestNewLogger_Level(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&buf, "warn")
	l.Info("hidden")
	l.Warn("shown")
	require.NotContains(t, buf.String(), "hidden")
	require.Contains(t, buf.String(), `"service":"ashpi"`)
}
