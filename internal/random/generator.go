package random

import (
	"encoding/binary"
	"math/rand/v2"
)

// SeedSize is the number of seed bytes a Generator consumes: two uint64 words
// for PCG.
const SeedSize = 16

// Generator is a fast, non-cryptographic PCG generator used for exactly one
// roll. It is owned by whichever goroutine performs that roll and must not be
// shared with another evaluation.
type Generator struct {
	rng  *rand.Rand
	seed [SeedSize]byte
}

func newGenerator(seed [SeedSize]byte) Generator {
	hi := binary.LittleEndian.Uint64(seed[:8])
	lo := binary.LittleEndian.Uint64(seed[8:])
	return Generator{
		rng:  rand.New(rand.NewPCG(hi, lo)),
		seed: seed,
	}
}

// NewGenerator builds a Generator from an explicit seed.
func NewGenerator(seed [SeedSize]byte) Generator {
	return newGenerator(seed)
}

// Roll returns a uniformly distributed die value in [1, sides].
// sides must be positive.
func (g Generator) Roll(sides int) int64 {
	return int64(g.rng.IntN(sides)) + 1
}

// Seed returns the seed bytes the generator was built from.
func (g Generator) Seed() [SeedSize]byte {
	return g.seed
}

// Valid reports whether the generator was built by Derive or NewGenerator.
func (g Generator) Valid() bool {
	return g.rng != nil
}
