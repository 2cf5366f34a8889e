package physics

import "fmt"

// Falloff selects how the central pull scales with distance.
type Falloff int

const (
	// FalloffInverseSquare pulls with G*m/d^2 along the unit direction.
	FalloffInverseSquare Falloff = iota
	// FalloffInverseLinear applies G*m/d^2 to the raw centre offset, which
	// gives a pull of magnitude G*m/d.
	FalloffInverseLinear
)

func (f Falloff) String() string {
	switch f {
	case FalloffInverseSquare:
		return "inverse-square"
	case FalloffInverseLinear:
		return "inverse-linear"
	default:
		return fmt.Sprintf("falloff(%d)", int(f))
	}
}

// ParseFalloff accepts the names produced by Falloff.String. Empty means the default.
func ParseFalloff(s string) (Falloff, error) {
	switch s {
	case "", "inverse-square", "square":
		return FalloffInverseSquare, nil
	case "inverse-linear", "linear":
		return FalloffInverseLinear, nil
	}
	return 0, fmt.Errorf("unknown falloff %q", s)
}

// CentralAccel returns the velocity change rate exerted on p by an attractor
// at center. It is zero within Epsilon of the centre.
func CentralAccel(p *Particle, center Vec2, g float64, falloff Falloff) Vec2 {
	dir := center.Sub(p.Pos)
	dist := dir.Len()
	if dist <= Epsilon {
		return Vec2{}
	}
	// mass-scaled on purpose: heavier particles fall faster
	accel := g * p.Mass / (dist * dist)
	if falloff == FalloffInverseLinear {
		return dir.Scale(accel)
	}
	return dir.Scale(accel / dist)
}

// ApplyCentralForce adds CentralAccel*dt to every particle's velocity.
func ApplyCentralForce(particles []Particle, center Vec2, g, dt float64, falloff Falloff) {
	for i := range particles {
		a := CentralAccel(&particles[i], center, g, falloff)
		particles[i].Vel = particles[i].Vel.Add(a.Scale(dt))
	}
}
