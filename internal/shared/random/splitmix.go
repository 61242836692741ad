package random

// SplitMix64 is a single-owner pseudo-random generator.
// It is not safe for concurrent use: every sampling task owns its own instance.
type SplitMix64 struct {
	state uint64
}

// New returns a generator starting from the given seed.
// A zero seed is replaced by the golden gamma so the stream never degenerates.
func New(seed uint64) *SplitMix64 {
	if seed == 0 {
		seed = golden
	}
	return &SplitMix64{state: seed}
}

const golden = 0x9e3779b97f4a7c15

// Uint64 advances the state and returns the next mixed 64-bit value.
// This is the canonical SplitMix64 step: x += golden; mix(x).
func (s *SplitMix64) Uint64() uint64 {
	s.state += golden
	return mix(s.state)
}

// Float64 returns a uniform in [0,1) using 53 random bits (double precision).
func (s *SplitMix64) Float64() float64 {
	const inv53 = 1.0 / 9007199254740992.0 // 2^53
	return float64(s.Uint64()>>11) * inv53
}

func mix(z uint64) uint64 {
	z ^= z >> 30
	z *= 0xbf58476d1ce4e5b9
	z ^= z >> 27
	z *= 0x94d049bb133111eb
	z ^= z >> 31
	return z
}
