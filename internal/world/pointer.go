package world

import "github.com/san-kum/partsim/internal/physics"

const (
	PointerRadius = 10.0
	PointerMass   = 5.0

	// PointerThrow converts pointer displacement into velocity.
	PointerThrow = 10.0
)

// Pointer turns pointer motion into an ordinary particle that can be thrown.
// The world does not know which particle, if any, a Pointer drives.
type Pointer struct {
	handle Handle
	active bool
}

// MoveTo creates the pointer particle at (x, y) on first use. Afterwards it
// sets the particle's velocity from its displacement to (x, y) and snaps it there.
func (ptr *Pointer) MoveTo(w *World, x, y float64) (Handle, error) {
	if !ptr.active {
		h, err := w.Add(physics.NewParticle(x, y, 0, 0, PointerRadius, PointerMass))
		if err != nil {
			return h, err
		}
		ptr.handle, ptr.active = h, true
		return h, nil
	}
	p := w.Particle(ptr.handle)
	p.Vel.X = (x - p.Pos.X) * PointerThrow
	p.Vel.Y = (y - p.Pos.Y) * PointerThrow
	p.Pos.X, p.Pos.Y = x, y
	return ptr.handle, nil
}

// Handle reports the driven particle, if one was created.
func (ptr *Pointer) Handle() (Handle, bool) { return ptr.handle, ptr.active }

// Release forgets the driven particle. It stays in the world as a normal particle.
func (ptr *Pointer) Release() { ptr.active = false }
