package telemetry

// Meter exposes cumulative coordinator counters.
type Meter interface {
	Metrics() (iterations, samples, inCircle, busyNanos uint64)
}

type sampler struct {
	meter Meter
}

func newSampler(m Meter) sampler {
	return sampler{meter: m}
}

// snapshot holds cumulative counters (monotonic).
type snapshot struct {
	iterations uint64
	samples    uint64
	inCircle   uint64
	busyNanos  uint64
}

func (s sampler) snapshot() snapshot {
	iterations, samples, inCircle, busy := s.meter.Metrics()
	return snapshot{
		iterations: iterations,
		samples:    samples,
		inCircle:   inCircle,
		busyNanos:  busy,
	}
}

// deltaSnapshot converts cumulative snapshots to per-interval deltas.
// If counters reset (cur < prev), it treats cur as the delta.
func deltaSnapshot(prev, cur snapshot) snapshot {
	return snapshot{
		iterations: delta(prev.iterations, cur.iterations),
		samples:    delta(prev.samples, cur.samples),
		inCircle:   delta(prev.inCircle, cur.inCircle),
		busyNanos:  delta(prev.busyNanos, cur.busyNanos),
	}
}

func delta(prev, cur uint64) uint64 {
	if cur >= prev {
		return cur - prev
	}
	return cur
}

// estimate is the running π estimate over everything sampled so far.
func (s snapshot) estimate() float64 {
	if s.samples == 0 {
		return 0
	}
	return 4 * float64(s.inCircle) / float64(s.samples)
}
