package world

import (
	"fmt"
	"math"

	"github.com/san-kum/partsim/internal/physics"
)

const (
	DefaultWidth    = 800.0
	DefaultHeight   = 600.0
	DefaultGravity  = 980.0
	DefaultFriction = 0.99
	DefaultCellSize = 20.0
)

// Params is the immutable configuration of a world.
type Params struct {
	Width    float64
	Height   float64
	Gravity  float64
	Friction float64
	CellSize float64
	Falloff  physics.Falloff
}

func DefaultParams() Params {
	return Params{
		Width:    DefaultWidth,
		Height:   DefaultHeight,
		Gravity:  DefaultGravity,
		Friction: DefaultFriction,
		CellSize: DefaultCellSize,
	}
}

func (p Params) Bounds() physics.Bounds {
	return physics.Bounds{Width: p.Width, Height: p.Height}
}

// Validate rejects parameters the step cannot run with.
func (p Params) Validate() error {
	switch {
	case !(p.Width > 0) || math.IsInf(p.Width, 0):
		return fmt.Errorf("%w: width %v", ErrParameterBounds, p.Width)
	case !(p.Height > 0) || math.IsInf(p.Height, 0):
		return fmt.Errorf("%w: height %v", ErrParameterBounds, p.Height)
	case !(p.CellSize > 0) || math.IsInf(p.CellSize, 0):
		return fmt.Errorf("%w: cell size %v", ErrParameterBounds, p.CellSize)
	case !(p.Friction > 0 && p.Friction <= 1):
		return fmt.Errorf("%w: friction %v not in (0, 1]", ErrParameterBounds, p.Friction)
	case math.IsNaN(p.Gravity) || math.IsInf(p.Gravity, 0):
		return fmt.Errorf("%w: gravity %v", ErrParameterBounds, p.Gravity)
	case p.Falloff != physics.FalloffInverseSquare && p.Falloff != physics.FalloffInverseLinear:
		return fmt.Errorf("%w: %v", ErrParameterBounds, p.Falloff)
	}
	return nil
}
