// Package physics provides the per-frame primitives of the particle lab.
//
// The package is split along the phases of a frame:
//
//   - [Particle]: explicit Euler integration, elastic pairwise collision
//   - [ReflectBounds]: velocity-reflecting walls
//   - [Grid]: spatial hash broad phase over particle indices
//   - [ResolveCollisions]: narrow phase over grid candidate pairs
//   - [ApplyCentralForce]: attraction toward a fixed point
//
// Nothing here owns a particle list; callers pass slices in and the
// functions mutate them in place. Ordering between phases is the job of
// package world.
//
// # Pair ordering
//
// Contacts are resolved one pair at a time in grid order. A particle touching
// several neighbours receives several corrections in sequence, and a pair that
// spans two occupied cells is resolved from both sides:
//
//	g := physics.NewGrid(20)
//	g.Rebuild(ps)
//	contacts := physics.ResolveCollisions(ps, g)
package physics
