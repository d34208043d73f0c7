// Package rng provides the injectable randomness source shared by the history
// generator and the prediction engine. Production code uses a math/rand generator;
// tests pass a seeded generator or a scripted Sequence to assert exact outputs.
package rng

import (
	"math/rand"
	"sync"
	"time"
)

// Source produces uniform random values.
type Source interface {
	// Intn returns a uniform integer in [0,n). n must be positive.
	Intn(n int) int
	// Float64 returns a uniform float in [0,1).
	Float64() float64
}

// New returns a pseudo-random source. A zero seed seeds from the clock.
func New(seed int64) Source {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// Locked serializes access to a Source for use from concurrent goroutines.
type Locked struct {
	mu  sync.Mutex
	src Source
}

// NewLocked wraps src with a mutex.
func NewLocked(src Source) *Locked {
	return &Locked{src: src}
}

func (l *Locked) Intn(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.src.Intn(n)
}

func (l *Locked) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.src.Float64()
}

// Sequence replays fixed values, wrapping around when exhausted. Ints are reduced
// modulo n. An empty list yields zeros.
type Sequence struct {
	Ints   []int
	Floats []float64

	ii, fi int
}

func (s *Sequence) Intn(n int) int {
	if len(s.Ints) == 0 {
		return 0
	}
	v := s.Ints[s.ii%len(s.Ints)] % n
	s.ii++
	return v
}

func (s *Sequence) Float64() float64 {
	if len(s.Floats) == 0 {
		return 0
	}
	v := s.Floats[s.fi%len(s.Floats)]
	s.fi++
	return v
}
