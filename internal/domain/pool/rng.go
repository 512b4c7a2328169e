package pool

import (
	cryptorand "crypto/rand"
	"encoding/binary"
	"math/rand/v2"
)

// RNG abstracts the uniform-random source so draws are deterministic in
// tests and reproducible in the load tool.
type RNG interface {
	// Intn returns a non-negative random int in [0, n).
	Intn(n int) int
	// Float64 returns a random float in [0, 1).
	Float64() float64
	// Shuffle performs an unbiased Fisher-Yates shuffle over n elements.
	Shuffle(n int, swap func(i, j int))
}

type pcgRNG struct {
	r *rand.Rand
}

func (s *pcgRNG) Intn(n int) int                      { return s.r.IntN(n) }
func (s *pcgRNG) Float64() float64                    { return s.r.Float64() }
func (s *pcgRNG) Shuffle(n int, swap func(i, j int))  { s.r.Shuffle(n, swap) }

// NewRNG returns the production source: a PCG generator seeded from
// crypto/rand. Draws are fair, not cryptographic.
func NewRNG() RNG {
	var buf [16]byte
	if _, err := cryptorand.Read(buf[:]); err != nil {
		// Extremely unlikely; fall back to a fixed-seed generator rather
		// than failing the draw path.
		return NewSeededRNG(1, 2)
	}
	return NewSeededRNG(
		binary.LittleEndian.Uint64(buf[:8]),
		binary.LittleEndian.Uint64(buf[8:]),
	)
}

// NewSeededRNG returns a deterministic source for tests and replays.
func NewSeededRNG(seed1, seed2 uint64) RNG {
	return &pcgRNG{r: rand.New(rand.NewPCG(seed1, seed2))}
}
