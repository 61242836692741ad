package coordinator

import "sync/atomic"

// counters are cumulative and written only after the join barrier.
type counters struct {
	iterations atomic.Uint64
	samples    atomic.Uint64
	inCircle   atomic.Uint64
	busyNanos  atomic.Uint64 // sum of iteration wall times
}

func newCounters() *counters {
	return &counters{
		iterations: atomic.Uint64{},
		samples:    atomic.Uint64{},
		inCircle:   atomic.Uint64{},
		busyNanos:  atomic.Uint64{},
	}
}

func (c *counters) snapshot() (iterations, samples, inCircle, busyNanos uint64) {
	return c.iterations.Load(), c.samples.Load(), c.inCircle.Load(), c.busyNanos.Load()
}
