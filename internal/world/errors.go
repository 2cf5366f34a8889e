package world

import "errors"

// Domain errors for world operations.
var (
	// ErrInvalidStep indicates a frame delta that is negative, NaN or infinite.
	ErrInvalidStep = errors.New("world: invalid step (dt must be finite and non-negative)")

	// ErrParameterBounds indicates a parameter value is outside valid range.
	ErrParameterBounds = errors.New("world: parameter out of valid bounds")

	// ErrInvalidParticle indicates a particle with non-positive radius or mass,
	// or a non-finite position or velocity.
	ErrInvalidParticle = errors.New("world: invalid particle")
)
