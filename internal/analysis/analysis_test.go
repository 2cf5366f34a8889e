package analysis

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/partsim/internal/physics"
	"github.com/san-kum/partsim/internal/world"
)

func TestPowerSpectrum(t *testing.T) {
	const n = 64
	data := make([]float64, n)
	for i := range data {
		data[i] = 5 + math.Sin(2*math.Pi*4*float64(i)/n)
	}

	ps := PowerSpectrum(data)
	require.Len(t, ps, n/2)

	assert.InDelta(t, 0, ps[0], 1e-9, "mean should be removed")
	assert.InDelta(t, n/2, ps[4], 1e-9)
	for k := range ps {
		if k != 4 {
			assert.InDelta(t, 0, ps[k], 1e-9, "bin %d", k)
		}
	}
}

func TestPowerSpectrumPadding(t *testing.T) {
	assert.Len(t, PowerSpectrum(make([]float64, 100)), 64)
	assert.Nil(t, PowerSpectrum([]float64{1}))
	assert.Equal(t, 128, PaddedLen(100))
	assert.Equal(t, 64, PaddedLen(64))
}

func TestDominantFrequency(t *testing.T) {
	const (
		n  = 256
		dt = 0.01
		hz = 12.5
	)
	data := make([]float64, n)
	for i := range data {
		data[i] = math.Cos(2 * math.Pi * hz * float64(i) * dt)
	}

	// Bin resolution is 1/(n*dt) = 0.390625 Hz and 12.5 Hz sits on bin 32.
	assert.InDelta(t, hz, DominantFrequency(data, dt), 1e-9)
	assert.Zero(t, DominantFrequency(make([]float64, 32), dt))
}

func TestSpeedHistogram(t *testing.T) {
	ps := []physics.Particle{
		physics.NewParticle(0, 0, 5, 0, 1, 1),
		physics.NewParticle(0, 0, 0, 30, 1, 1),
		physics.NewParticle(0, 0, 35, 0, 1, 1),
		physics.NewParticle(0, 0, 500, 0, 1, 1),
	}

	h := SpeedHistogram(ps, 4, 40)
	assert.Equal(t, []int{1, 0, 0, 3}, h.Counts)

	out := h.String()
	assert.Equal(t, 4, strings.Count(out, "\n"))
	assert.Contains(t, out, "█")
}

func TestDivergence(t *testing.T) {
	p := world.DefaultParams()
	res, err := Divergence(p, 50, 3, 1.0/60, 1, 1e-6)
	require.NoError(t, err)
	require.Len(t, res.Separation, 60)
	assert.InDelta(t, 1, res.Times[59], 1e-9)
	assert.False(t, math.IsNaN(res.Exponent))
	for _, d := range res.Separation {
		assert.GreaterOrEqual(t, d, 0.0)
	}
}

func TestDivergenceRejectsBadInput(t *testing.T) {
	p := world.DefaultParams()

	_, err := Divergence(p, 0, 1, 0.1, 1, 1e-6)
	assert.True(t, errors.Is(err, world.ErrParameterBounds))

	_, err = Divergence(p, 5, 1, 0.1, 1, 0)
	assert.True(t, errors.Is(err, world.ErrParameterBounds))

	_, err = Divergence(p, 5, 1, 0, 1, 1e-6)
	assert.True(t, errors.Is(err, world.ErrInvalidStep))
}
