package physics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func totalMomentum(ps ...*Particle) Vec2 {
	var sum Vec2
	for _, p := range ps {
		sum = sum.Add(p.Momentum())
	}
	return sum
}

func TestResolveCollision_ConservesMomentum(t *testing.T) {
	tests := []struct {
		name string
		a, b Particle
	}{
		{"equal mass head-on", NewParticle(10, 10, 50, 0, 5, 1), NewParticle(18, 10, -50, 0, 5, 1)},
		{"unequal mass oblique", NewParticle(0, 0, 30, 10, 4, 3.5), NewParticle(5, 3, -20, 5, 3, 1.2)},
		{"one at rest", NewParticle(100, 100, 0, 0, 9, 4.9), NewParticle(104, 96, -80, 60, 7, 1.1)},
		{"separating but overlapping", NewParticle(0, 0, -10, 0, 5, 2), NewParticle(6, 0, 10, 0, 5, 3)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, b := tt.a, tt.b
			before := totalMomentum(&a, &b)

			require.True(t, a.ResolveCollision(&b), "pair should overlap")

			after := totalMomentum(&a, &b)
			assert.InDelta(t, before.X, after.X, 1e-9)
			assert.InDelta(t, before.Y, after.Y, 1e-9)
		})
	}
}

func TestResolveCollision_EqualMassSwap(t *testing.T) {
	a := NewParticle(10, 10, 50, 0, 5, 1)
	b := NewParticle(18, 10, -50, 0, 5, 1)

	a.ResolveCollision(&b)

	assert.Equal(t, Vec2{-50, 0}, a.Vel)
	assert.Equal(t, Vec2{50, 0}, b.Vel)
	assert.InDelta(t, 10.0, b.Pos.Sub(a.Pos).Len(), 1e-12)
	assert.Equal(t, 9.0, a.Pos.X)
	assert.Equal(t, 19.0, b.Pos.X)
}

func TestResolveCollision_SeparatedIsNoop(t *testing.T) {
	tests := []struct {
		name string
		a, b Particle
	}{
		{"touching", NewParticle(0, 0, 10, 0, 5, 1), NewParticle(10, 0, -10, 0, 5, 1)},
		{"apart", NewParticle(0, 0, 10, 3, 2, 1), NewParticle(30, 40, -10, 0, 2, 4)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, b := tt.a, tt.b
			assert.False(t, a.ResolveCollision(&b))
			assert.Equal(t, tt.a, a)
			assert.Equal(t, tt.b, b)
		})
	}
}

func TestResolveCollision_CoincidentCentresSkipped(t *testing.T) {
	a := NewParticle(5, 5, 1, 2, 5, 1)
	b := NewParticle(5, 5, -3, 4, 5, 2)

	assert.False(t, a.ResolveCollision(&b))
	assert.True(t, a.Valid())
	assert.True(t, b.Valid())
	assert.Equal(t, Vec2{1, 2}, a.Vel)
}

func TestIntegrate(t *testing.T) {
	p := NewParticle(1, 2, 10, -20, 3, 1)
	p.Integrate(0.5, 0.99)

	assert.Equal(t, Vec2{6, -8}, p.Pos)
	assert.InDelta(t, 9.9, p.Vel.X, 1e-12)
	assert.InDelta(t, -19.8, p.Vel.Y, 1e-12)

	q := NewParticle(1, 2, 10, -20, 3, 1)
	q.Integrate(0, 1)
	assert.Equal(t, NewParticle(1, 2, 10, -20, 3, 1), q)
}

func TestColor(t *testing.T) {
	tests := []struct {
		name    string
		vel     Vec2
		r, g, b uint8
	}{
		{"rest", Vec2{}, 0, 0, 255},
		{"half", Vec2{60, 80}, 127, 0, 127},
		{"max", Vec2{0, 200}, 255, 0, 0},
		{"clamped", Vec2{-1000, 0}, 255, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Particle{Vel: tt.vel, Radius: 1, Mass: 1}
			r, g, b := p.RGB()
			assert.Equal(t, []uint8{tt.r, tt.g, tt.b}, []uint8{r, g, b})

			c := p.Color()
			assert.InDelta(t, 1, c.R+c.B, 1e-12)
			assert.Zero(t, c.G)
		})
	}
}

func TestColorFollowsVelocity(t *testing.T) {
	p := Particle{Vel: Vec2{200, 0}, Radius: 1, Mass: 1}
	assert.Equal(t, 1.0, p.Color().R)

	p.Integrate(0.1, 0)
	assert.Equal(t, 0.0, p.Color().R)
	assert.Equal(t, 1.0, p.Color().B)
}

func TestValid(t *testing.T) {
	assert.True(t, (&Particle{Radius: 1, Mass: 1}).Valid())
	assert.False(t, (&Particle{Radius: 0, Mass: 1}).Valid())
	assert.False(t, (&Particle{Radius: 1, Mass: -2}).Valid())
	assert.False(t, (&Particle{Pos: Vec2{math.NaN(), 0}, Radius: 1, Mass: 1}).Valid())
	assert.False(t, (&Particle{Vel: Vec2{0, math.Inf(1)}, Radius: 1, Mass: 1}).Valid())
}
