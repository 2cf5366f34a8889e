package physics

import (
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

const (
	// Epsilon guards every division by a distance.
	Epsilon = 0.001

	// MaxColorSpeed is the speed at which a particle renders fully red.
	MaxColorSpeed = 200.0
)

// Particle is a circular body. Radius and Mass must stay positive.
type Particle struct {
	Pos    Vec2
	Vel    Vec2
	Radius float64
	Mass   float64
}

// NewParticle returns a particle at (x, y) moving with (vx, vy).
func NewParticle(x, y, vx, vy, radius, mass float64) Particle {
	return Particle{
		Pos:    Vec2{x, y},
		Vel:    Vec2{vx, vy},
		Radius: radius,
		Mass:   mass,
	}
}

// Valid reports whether the particle satisfies the collision math preconditions.
func (p *Particle) Valid() bool {
	return p.Radius > 0 && p.Mass > 0 &&
		isFinite(p.Radius) && isFinite(p.Mass) &&
		p.Pos.IsFinite() && p.Vel.IsFinite()
}

// Integrate advances the position by one explicit Euler step and then
// damps the velocity by friction.
func (p *Particle) Integrate(dt, friction float64) {
	p.Pos = p.Pos.Add(p.Vel.Scale(dt))
	p.Vel = p.Vel.Scale(friction)
}

// ResolveCollision applies the elastic impulse and half-overlap positional
// correction along the line of centres. It reports whether the pair overlapped.
// Coincident centres are skipped.
func (p *Particle) ResolveCollision(o *Particle) bool {
	delta := o.Pos.Sub(p.Pos)
	dist := delta.Len()
	reach := p.Radius + o.Radius
	if dist >= reach || dist <= Epsilon {
		return false
	}

	n := delta.Scale(1 / dist)
	rel := o.Vel.Sub(p.Vel)
	impulse := 2 * rel.Dot(n) / (p.Mass + o.Mass)

	p.Vel = p.Vel.Add(n.Scale(impulse / p.Mass))
	o.Vel = o.Vel.Sub(n.Scale(impulse / o.Mass))

	overlap := (reach - dist) / 2
	p.Pos = p.Pos.Sub(n.Scale(overlap))
	o.Pos = o.Pos.Add(n.Scale(overlap))
	return true
}

func (p *Particle) Speed() float64 { return p.Vel.Len() }

// Momentum is m*v.
func (p *Particle) Momentum() Vec2 { return p.Vel.Scale(p.Mass) }

// Kinetic is 0.5*m*|v|^2.
func (p *Particle) Kinetic() float64 { return 0.5 * p.Mass * p.Vel.LenSq() }

// Color is derived from the current speed: blue at rest, red at MaxColorSpeed and above.
func (p *Particle) Color() colorful.Color {
	n := speedFraction(p.Speed())
	return colorful.Color{R: n, G: 0, B: 1 - n}
}

// RGB quantises Color to 8 bits per channel, truncating toward zero.
func (p *Particle) RGB() (r, g, b uint8) {
	n := speedFraction(p.Speed())
	return uint8(math.Floor(255 * n)), 0, uint8(math.Floor(255 * (1 - n)))
}

func speedFraction(speed float64) float64 {
	return math.Min(speed/MaxColorSpeed, 1)
}
