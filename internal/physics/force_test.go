package physics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyCentralForce_PullsTowardCentre(t *testing.T) {
	center := Vec2{400, 300}
	ps := []Particle{
		NewParticle(100, 300, 0, 0, 5, 2),
		NewParticle(700, 300, 0, 0, 5, 2),
		NewParticle(400, 50, 0, 0, 5, 2),
	}

	ApplyCentralForce(ps, center, 980, 1.0/60, FalloffInverseSquare)

	assert.Greater(t, ps[0].Vel.X, 0.0)
	assert.Equal(t, 0.0, ps[0].Vel.Y)
	assert.Less(t, ps[1].Vel.X, 0.0)
	assert.Greater(t, ps[2].Vel.Y, 0.0)
	assert.Equal(t, 0.0, ps[2].Vel.X)
}

func TestCentralAccel_Magnitude(t *testing.T) {
	center := Vec2{10, 0}
	p := NewParticle(0, 0, 0, 0, 1, 2)

	sq := CentralAccel(&p, center, 100, FalloffInverseSquare)
	assert.InDelta(t, 2.0, sq.X, 1e-12)

	lin := CentralAccel(&p, center, 100, FalloffInverseLinear)
	assert.InDelta(t, 20.0, lin.X, 1e-12)
}

func TestCentralAccel_ScalesWithMass(t *testing.T) {
	center := Vec2{0, 50}
	light := NewParticle(0, 0, 0, 0, 1, 1)
	heavy := NewParticle(0, 0, 0, 0, 1, 4)

	a := CentralAccel(&light, center, 500, FalloffInverseSquare)
	b := CentralAccel(&heavy, center, 500, FalloffInverseSquare)
	assert.InDelta(t, 4*a.Y, b.Y, 1e-12)
}

func TestCentralAccel_AtCentre(t *testing.T) {
	center := Vec2{400, 300}
	p := NewParticle(400, 300.0005, 3, 4, 5, 1)

	assert.Equal(t, Vec2{}, CentralAccel(&p, center, 1e6, FalloffInverseSquare))

	ps := []Particle{p}
	ApplyCentralForce(ps, center, 1e6, 0.1, FalloffInverseSquare)
	assert.Equal(t, Vec2{3, 4}, ps[0].Vel)
}

func TestParseFalloff(t *testing.T) {
	for _, f := range []Falloff{FalloffInverseSquare, FalloffInverseLinear} {
		got, err := ParseFalloff(f.String())
		assert.NoError(t, err)
		assert.Equal(t, f, got)
	}

	got, err := ParseFalloff("")
	assert.NoError(t, err)
	assert.Equal(t, FalloffInverseSquare, got)

	_, err = ParseFalloff("cubic")
	assert.Error(t, err)
}
