package random

import (
	"encoding/binary"
	"github.com/zeebo/xxh3"
	"sync/atomic"
	"time"
)

// seq makes two seeds taken within the same clock tick differ.
var seq atomic.Uint64

// Seed returns a fresh 64-bit seed for the given task.
// Wall clock, a process-wide sequence and the task index are hashed together,
// so no two tasks (or iterations) ever start from the same state.
func Seed(task int) uint64 {
	var buf [24]byte
	binary.LittleEndian.PutUint64(buf[0:8], uint64(time.Now().UnixNano()))
	binary.LittleEndian.PutUint64(buf[8:16], seq.Add(1))
	binary.LittleEndian.PutUint64(buf[16:24], uint64(task))

	s := xxh3.Hash(buf[:])
	if s == 0 {
		s = golden
	}
	return s
}
