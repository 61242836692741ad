package sampler

import "math"

// Source yields uniform values in [0,1).
// Implementations are owned by a single task and need not be thread-safe.
type Source interface {
	Float64() float64
}

// Mode selects the in-circle predicate.
type Mode uint8

const (
	// ModeFast tests the squared distance: x*x + y*y <= 1.
	ModeFast Mode = iota
	// ModeSlow tests the euclidean distance: sqrt(x*x + y*y) <= 1.
	// Same answer, different instruction mix.
	ModeSlow
)

func ModeOf(fast bool) Mode {
	if fast {
		return ModeFast
	}
	return ModeSlow
}

func (m Mode) String() string {
	switch m {
	case ModeFast:
		return "fast"
	case ModeSlow:
		return "slow"
	default:
		return "unknown"
	}
}

// Count draws samples points (x first, then y) from src and returns
// how many of them fall inside the unit quarter-circle.
// The result is always within [0, samples].
func Count(samples uint64, mode Mode, src Source) uint64 {
	if mode == ModeSlow {
		return countSlow(samples, src)
	}
	return countFast(samples, src)
}

func countFast(samples uint64, src Source) (inCircle uint64) {
	for i := uint64(0); i < samples; i++ {
		x := src.Float64()
		y := src.Float64()
		if x*x+y*y <= 1.0 {
			inCircle++
		}
	}
	return inCircle
}

func countSlow(samples uint64, src Source) (inCircle uint64) {
	for i := uint64(0); i < samples; i++ {
		x := src.Float64()
		y := src.Float64()
		if math.Sqrt(x*x+y*y) <= 1.0 {
			inCircle++
		}
	}
	return inCircle
}
