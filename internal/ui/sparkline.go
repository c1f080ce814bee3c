package ui

import (
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"
)

var bars = []rune("▁▂▃▄▅▆▇█")

// sparkline renders series as width bar glyphs, resampling evenly when the
// series is longer than width.
func sparkline(series []float64, width int) string {
	width = max(width, 4)
	if len(series) == 0 {
		return strings.Repeat(".", width)
	}

	sampled := series
	if len(series) > width {
		sampled = make([]float64, width)
		step := float64(len(series)-1) / float64(width-1)
		for i := range sampled {
			idx := min(int(math.Round(float64(i)*step)), len(series)-1)
			sampled[i] = series[idx]
		}
	}

	lo, hi := floats.Min(sampled), floats.Max(sampled)
	if hi == lo {
		return strings.Repeat(string(bars[len(bars)-2]), len(sampled)) +
			strings.Repeat(string(bars[0]), width-len(sampled))
	}

	var b strings.Builder
	b.Grow(width * 3)
	for _, v := range sampled {
		pos := int(math.Round((v - lo) / (hi - lo) * float64(len(bars)-1)))
		b.WriteRune(bars[min(max(pos, 0), len(bars)-1)])
	}
	for range width - len(sampled) {
		b.WriteRune(bars[0])
	}
	return b.String()
}
