package simulator

import (
	"math/rand"
	"time"
)

// Source is the random stream a simulation draws from. *rand.Rand satisfies it.
type Source interface {
	Float64() float64
	NormFloat64() float64
	Intn(n int) int
}

// NewSource returns a seeded generator, falling back to the clock when seed is 0
func NewSource(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// RunSeed derives the seed for run i from a base seed so that every run owns
// an independent stream regardless of which worker executes it.
func RunSeed(base int64, run int) int64 {
	z := uint64(base) + uint64(run+1)*0x9e3779b97f4a7c15
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	z ^= z >> 31
	seed := int64(z &^ (1 << 63))
	if seed == 0 {
		seed = 1
	}
	return seed
}
