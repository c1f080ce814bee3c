package model

import (
	"github.com/born-ml/wordgen/internal/tensor"
)

// Sample picks an index from a probability row by inverse-CDF sampling:
// the first index whose cumulative probability is >= r. If rounding keeps
// every cumulative sum below r, the last index is returned.
//
// r is expected in (0, 1]; excluding 0 keeps leading zero-probability
// entries from ever being selected.
//
//	Sample([0, 0, 1, 0, ...], r) == 2 for every r in (0, 1]
func Sample[B tensor.Backend](probs *tensor.Tensor[float32, B], r float32) int {
	cdf := probs.CumSum(-1).Data()
	for i, c := range cdf {
		if c >= r {
			return i
		}
	}
	return len(cdf) - 1
}

// draw returns a uniform value in (0, 1].
func (m *Model[B]) draw() float32 {
	return 1 - m.rng.Float32()
}
