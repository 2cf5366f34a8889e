package analysis

import (
	"fmt"
	"strings"

	"github.com/san-kum/partsim/internal/physics"
)

// Histogram counts particle speeds in equal-width bins over [0, Max].
type Histogram struct {
	Max    float64
	Counts []int
}

// SpeedHistogram bins speeds up to max; faster particles land in the last bin.
func SpeedHistogram(ps []physics.Particle, bins int, max float64) *Histogram {
	if bins < 1 {
		bins = 1
	}
	h := &Histogram{Max: max, Counts: make([]int, bins)}
	if !(max > 0) {
		h.Counts[0] = len(ps)
		return h
	}
	for i := range ps {
		k := int(ps[i].Speed() / max * float64(bins))
		if k >= bins {
			k = bins - 1
		}
		h.Counts[k]++
	}
	return h
}

// String draws one bar per bin, scaled to width characters.
func (h *Histogram) String() string {
	return h.Render(40)
}

func (h *Histogram) Render(width int) string {
	peak := 0
	for _, c := range h.Counts {
		if c > peak {
			peak = c
		}
	}

	var sb strings.Builder
	step := h.Max / float64(len(h.Counts))
	for i, c := range h.Counts {
		bar := 0
		if peak > 0 {
			bar = c * width / peak
		}
		fmt.Fprintf(&sb, "%7.1f-%-7.1f │%s %d\n", float64(i)*step, float64(i+1)*step, strings.Repeat("█", bar), c)
	}
	return sb.String()
}
