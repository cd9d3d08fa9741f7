package interview

import "math/rand"

// Rand is the random source behind the question-mixing policy. Tests
// inject deterministic implementations to force selector branches.
type Rand interface {
	// Float64 returns a uniform draw from [0.0, 1.0)
	Float64() float64
	// Intn returns a uniform draw from [0, n)
	Intn(n int) int
}

// systemRand wraps the shared math/rand source.
type systemRand struct{}

func (systemRand) Float64() float64 { return rand.Float64() }
func (systemRand) Intn(n int) int   { return rand.Intn(n) }

// NewRand returns the default random source.
func NewRand() Rand {
	return systemRand{}
}
