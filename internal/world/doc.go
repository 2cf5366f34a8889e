// Package world holds a particle population and the frame step that drives it.
//
// A [World] is created from immutable [Params] and a seeded random source,
// so repeated runs with the same seed and the same sequence of dt values
// produce identical populations.
//
//	w, _ := world.Initialize(200, world.DefaultParams(), rand.New(rand.NewSource(42)))
//	for frame := 0; frame < 600; frame++ {
//	    if _, err := w.Step(1.0 / 60); err != nil {
//	        return err
//	    }
//	    draw(w.Particles())
//	}
//
// Interactive input stays outside the step: a [Pointer] drives one ordinary
// particle between frames.
package world
