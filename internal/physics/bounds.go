package physics

// Bounds is the world rectangle [0, Width] x [0, Height].
type Bounds struct {
	Width, Height float64
}

func (b Bounds) Center() Vec2 { return Vec2{b.Width / 2, b.Height / 2} }

// Contains reports whether the whole disc of p lies inside b.
func (b Bounds) Contains(p *Particle) bool {
	return p.Pos.X-p.Radius >= 0 && p.Pos.X+p.Radius <= b.Width &&
		p.Pos.Y-p.Radius >= 0 && p.Pos.Y+p.Radius <= b.Height
}

// ReflectBounds clamps p back inside b and inverts the velocity component
// of every violated axis. Each axis is handled independently.
func ReflectBounds(p *Particle, b Bounds) (hitX, hitY bool) {
	if p.Pos.X-p.Radius < 0 {
		p.Vel.X = -p.Vel.X
		p.Pos.X = p.Radius
		hitX = true
	}
	if p.Pos.X+p.Radius > b.Width {
		p.Vel.X = -p.Vel.X
		p.Pos.X = b.Width - p.Radius
		hitX = true
	}
	if p.Pos.Y-p.Radius < 0 {
		p.Vel.Y = -p.Vel.Y
		p.Pos.Y = p.Radius
		hitY = true
	}
	if p.Pos.Y+p.Radius > b.Height {
		p.Vel.Y = -p.Vel.Y
		p.Pos.Y = b.Height - p.Radius
		hitY = true
	}
	return hitX, hitY
}
