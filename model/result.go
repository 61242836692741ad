package model

import "time"

// Result is the outcome of one sampling iteration.
// It is built once by the coordinator and never mutated afterwards.
type Result struct {
	// Iteration is 1-based; Iterations is the total planned for the run.
	Iteration  int
	Iterations int

	// Value is the π estimate: 4 * InCircle / Samples.
	Value float64

	// Error is signed: Value - math.Pi.
	// A positive error means the estimate overshoots.
	Error float64

	// Elapsed covers task spawn, sampling and join, excluding the final arithmetic.
	Elapsed time.Duration

	InCircle uint64
	Samples  uint64
}

// AbsError returns |Value - π|.
func (r Result) AbsError() float64 {
	if r.Error < 0 {
		return -r.Error
	}
	return r.Error
}

// Throughput returns samples per second for this iteration.
func (r Result) Throughput() float64 {
	if r.Elapsed <= 0 {
		return 0
	}
	return float64(r.Samples) / r.Elapsed.Seconds()
}
