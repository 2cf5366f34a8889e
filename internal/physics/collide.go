package physics

// ResolveCollisions runs the narrow phase over every candidate pair produced
// by g, in grid order, and returns how many pairs were in contact.
// g must have been rebuilt from particles.
func ResolveCollisions(particles []Particle, g *Grid) int {
	contacts := 0
	visit := func(i, j int) {
		if particles[i].ResolveCollision(&particles[j]) {
			contacts++
		}
	}
	for _, c := range g.Cells() {
		g.ForEachPair(c, visit)
	}
	return contacts
}
