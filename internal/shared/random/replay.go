package random

// Replay is a deterministic source that hands out a fixed sequence of values
// and wraps around when exhausted. Points are consumed as consecutive (x, y) pairs.
type Replay struct {
	values []float64
	pos    int
}

// NewReplay builds a source from raw values. It panics on an empty sequence.
func NewReplay(values ...float64) *Replay {
	if len(values) == 0 {
		panic("random: replay needs at least one value")
	}
	return &Replay{values: values}
}

// NewPointReplay builds a source from (x, y) points.
func NewPointReplay(points [][2]float64) *Replay {
	values := make([]float64, 0, len(points)*2)
	for _, p := range points {
		values = append(values, p[0], p[1])
	}
	return NewReplay(values...)
}

func (r *Replay) Float64() float64 {
	v := r.values[r.pos]
	r.pos++
	if r.pos == len(r.values) {
		r.pos = 0
	}
	return v
}

// Reset rewinds the sequence to its first value.
func (r *Replay) Reset() {
	r.pos = 0
}
