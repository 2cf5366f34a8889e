package analysis

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// PowerSpectrum returns the amplitude spectrum of a real series after
// removing its mean and zero-padding to a power of two. Bin k covers
// frequency k/(n*dt) where n is the padded length, see FrequencyOf.
func PowerSpectrum(data []float64) []float64 {
	if len(data) < 2 {
		return nil
	}

	n := nextPow2(len(data))
	buf := make([]float64, n)
	mean := 0.0
	for _, v := range data {
		mean += v
	}
	mean /= float64(len(data))
	for i, v := range data {
		buf[i] = v - mean
	}

	spec := fft.FFTReal(buf)
	ps := make([]float64, n/2)
	for i := range ps {
		ps[i] = cmplx.Abs(spec[i])
	}
	return ps
}

// PaddedLen is the transform length PowerSpectrum uses for n samples.
func PaddedLen(n int) int { return nextPow2(n) }

// FrequencyOf converts a spectrum bin to Hz for samples spaced dt apart.
func FrequencyOf(bin, samples int, dt float64) float64 {
	return float64(bin) / (float64(PaddedLen(samples)) * dt)
}

// DominantFrequency returns the strongest non-DC frequency in Hz, or 0 when
// the series is too short or flat.
func DominantFrequency(data []float64, dt float64) float64 {
	ps := PowerSpectrum(data)
	best, bestAmp := 0, 0.0
	for k := 1; k < len(ps); k++ {
		if ps[k] > bestAmp {
			best, bestAmp = k, ps[k]
		}
	}
	if best == 0 || bestAmp < 1e-12 {
		return 0
	}
	return FrequencyOf(best, len(data), dt)
}

func nextPow2(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << uint(math.Ceil(math.Log2(float64(n))))
}
