package telemetry

import (
	"bytes"
	"github.com/Borislavv/go-ash-pi/config"
	"github.com/stretchr/testify/require"
	"log/slog"
	"math"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type fakeMeter struct {
	iterations atomic.Uint64
	samples    atomic.Uint64
	inCircle   atomic.Uint64
	busy       atomic.Uint64
}

func (m *fakeMeter) Metrics() (iterations, samples, inCircle, busyNanos uint64) {
	return m.iterations.Load(), m.samples.Load(), m.inCircle.Load(), m.busy.Load()
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// TestDeltaSnapshot verifies cumulative counters become per-interval deltas.
func TestDeltaSnapshot(t *testing.T) {
	prev := snapshot{iterations: 2, samples: 8000, inCircle: 6280, busyNanos: 100}
	cur := snapshot{iterations: 5, samples: 20000, inCircle: 15700, busyNanos: 250}

	d := deltaSnapshot(prev, cur)
	require.Equal(t, snapshot{iterations: 3, samples: 12000, inCircle: 9420, busyNanos: 150}, d)
}

// TestDelta_Reset treats a counter reset as a fresh start.
func TestDelta_Reset(t *testing.T) {
	require.Equal(t, uint64(7), delta(10, 7))
	require.Equal(t, uint64(3), delta(7, 10))
}

// TestSnapshot_LargeTotals verifies totals beyond the int64 range are kept intact.
func TestSnapshot_LargeTotals(t *testing.T) {
	m := &fakeMeter{}
	m.samples.Store(math.MaxUint64 - 1)
	require.Equal(t, uint64(math.MaxUint64-1), newSampler(m).snapshot().samples)
}

// TestSnapshot_Estimate verifies the running estimate and the empty case.
func TestSnapshot_Estimate(t *testing.T) {
	require.Zero(t, snapshot{}.estimate())
	require.Equal(t, 3.14, snapshot{samples: 4000, inCircle: 3140}.estimate())
}

// TestNew_DisabledDoesNotLog verifies a nil config starts no loop.
func TestNew_DisabledDoesNotLog(t *testing.T) {
	out := &syncBuffer{}
	logs := New(t.Context(), nil, slog.New(slog.NewJSONHandler(out, nil)), &fakeMeter{})
	defer func() { _ = logs.Close() }()

	require.Zero(t, logs.Interval())
	time.Sleep(30 * time.Millisecond)
	require.Empty(t, out.String())
}

// TestNew_LogsThroughput verifies interval records carry the sampled deltas.
func TestNew_LogsThroughput(t *testing.T) {
	out := &syncBuffer{}
	m := &fakeMeter{}
	m.iterations.Store(1)
	m.samples.Store(4000)
	m.inCircle.Store(3140)

	cfg := &config.TelemetryCfg{LogsInterval: 10 * time.Millisecond}
	logs := New(t.Context(), cfg, slog.New(slog.NewJSONHandler(out, nil)), m)
	defer func() { _ = logs.Close() }()
	require.Equal(t, 10*time.Millisecond, logs.Interval())

	m.iterations.Add(1)
	m.samples.Add(4000)
	m.inCircle.Add(3140)

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), `"total_samples":8000`)
	}, time.Second, 5*time.Millisecond)

	logged := out.String()
	require.Contains(t, logged, `"msg":"sampling"`)
	require.Contains(t, logged, `"running_estimate":3.14`)
}

// TestClose_StopsLoop verifies no records are written after Close.
func TestClose_StopsLoop(t *testing.T) {
	out := &syncBuffer{}
	cfg := &config.TelemetryCfg{LogsInterval: 5 * time.Millisecond}
	logs := New(t.Context(), cfg, slog.New(slog.NewJSONHandler(out, nil)), &fakeMeter{})

	require.Eventually(t, func() bool { return out.String() != "" }, time.Second, 5*time.Millisecond)
	require.NoError(t, logs.Close())

	time.Sleep(20 * time.Millisecond)
	before := out.String()
	time.Sleep(30 * time.Millisecond)
	require.Equal(t, before, out.String())
}
