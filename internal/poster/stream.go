package poster

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// pcgIncrement is the fixed second word of the PCG state; only the seed varies.
const pcgIncrement = 0x9e3779b97f4a7c15

// Stream is a seeded random stream owned by a single composition. It is not
// safe for concurrent use; every composition creates its own.
type Stream struct {
	src rand.Source
	rnd *rand.Rand
}

// NewStream returns a stream whose draws are fully determined by seed.
func NewStream(seed uint64) *Stream {
	src := rand.NewPCG(seed, pcgIncrement)
	return &Stream{src: src, rnd: rand.New(src)}
}

// Uniform draws from [lo, hi). When lo == hi it returns lo but still consumes a draw.
func (s *Stream) Uniform(lo, hi float64) float64 {
	return distuv.Uniform{Min: lo, Max: hi, Src: s.src}.Rand()
}

// IntRange draws an integer from [lo, hi). hi must be greater than lo.
func (s *Stream) IntRange(lo, hi int) int {
	return lo + s.rnd.IntN(hi-lo)
}

// Choice returns a uniformly drawn palette color.
func (s *Stream) Choice(colors []FlowerColor) FlowerColor {
	return colors[s.rnd.IntN(len(colors))]
}
