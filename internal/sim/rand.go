package sim

import (
	"math/rand/v2"
	"time"
)

// Source supplies uniform draws in [0,1).
type Source interface {
	Float64() float64
}

// NewSource returns a deterministic source for seed. Seed 0 picks one from
// the wall clock.
func NewSource(seed uint64) Source {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
