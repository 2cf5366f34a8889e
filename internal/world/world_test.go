package world_test

import (
	"math"
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/partsim/internal/physics"
	"github.com/san-kum/partsim/internal/world"
)

func flatParams() world.Params {
	p := world.DefaultParams()
	p.Gravity = 0
	p.Friction = 1
	return p
}

var _ = Describe("World", func() {
	Describe("Initialize", func() {
		It("populates within the documented ranges", func() {
			params := world.DefaultParams()
			w, err := world.Initialize(300, params, rand.New(rand.NewSource(3)))
			Expect(err).NotTo(HaveOccurred())
			Expect(w.Len()).To(Equal(300))

			for _, p := range w.Particles() {
				Expect(p.Pos.X).To(BeNumerically(">=", 0))
				Expect(p.Pos.X).To(BeNumerically("<", params.Width))
				Expect(p.Pos.Y).To(BeNumerically(">=", 0))
				Expect(p.Pos.Y).To(BeNumerically("<", params.Height))
				Expect(p.Radius).To(BeNumerically(">=", world.MinRadius))
				Expect(p.Radius).To(BeNumerically("<", world.MaxRadius))
				Expect(p.Mass).To(BeNumerically(">=", world.MinMass))
				Expect(p.Mass).To(BeNumerically("<", world.MaxMass))
				Expect(math.Abs(p.Vel.X)).To(BeNumerically("<=", world.MaxSpeed))
				Expect(math.Abs(p.Vel.Y)).To(BeNumerically("<=", world.MaxSpeed))
			}
		})

		It("rejects a negative count", func() {
			_, err := world.Initialize(-1, world.DefaultParams(), nil)
			Expect(err).To(MatchError(world.ErrParameterBounds))
		})

		It("grows by one random in-bounds particle with AddRandom", func() {
			w, err := world.New(world.DefaultParams(), rand.New(rand.NewSource(11)))
			Expect(err).NotTo(HaveOccurred())

			h := w.AddRandom()
			Expect(h).To(Equal(world.Handle(0)))
			p := w.Particle(h)
			Expect(p.Pos.X).To(BeNumerically("<", w.Bounds().Width))
			Expect(p.Pos.Y).To(BeNumerically("<", w.Bounds().Height))
			Expect(p.Valid()).To(BeTrue())
		})

		DescribeTable("rejects bad parameters",
			func(mutate func(*world.Params)) {
				p := world.DefaultParams()
				mutate(&p)
				_, err := world.New(p, nil)
				Expect(err).To(MatchError(world.ErrParameterBounds))
			},
			Entry("zero width", func(p *world.Params) { p.Width = 0 }),
			Entry("infinite height", func(p *world.Params) { p.Height = math.Inf(1) }),
			Entry("negative cell size", func(p *world.Params) { p.CellSize = -20 }),
			Entry("NaN cell size", func(p *world.Params) { p.CellSize = math.NaN() }),
			Entry("zero friction", func(p *world.Params) { p.Friction = 0 }),
			Entry("friction above one", func(p *world.Params) { p.Friction = 1.01 }),
			Entry("NaN gravity", func(p *world.Params) { p.Gravity = math.NaN() }),
			Entry("unknown falloff", func(p *world.Params) { p.Falloff = physics.Falloff(9) }),
		)
	})

	Describe("adding particles", func() {
		It("hands out sequential handles", func() {
			w, err := world.New(world.DefaultParams(), rand.New(rand.NewSource(1)))
			Expect(err).NotTo(HaveOccurred())

			h0 := w.AddParticle(100, 100, 5, -5)
			h1 := w.AddParticle(200, 100, 0, 0)
			Expect(h0).To(Equal(world.Handle(0)))
			Expect(h1).To(Equal(world.Handle(1)))

			p := w.Particle(h0)
			Expect(p.Pos).To(Equal(physics.Vec2{X: 100, Y: 100}))
			Expect(p.Vel).To(Equal(physics.Vec2{X: 5, Y: -5}))
			Expect(p.Radius).To(BeNumerically(">=", world.MinRadius))
			Expect(p.Mass).To(BeNumerically(">=", world.MinMass))
		})

		It("rejects degenerate particles", func() {
			w, _ := world.New(world.DefaultParams(), nil)
			_, err := w.Add(physics.NewParticle(1, 1, 0, 0, 0, 1))
			Expect(err).To(MatchError(world.ErrInvalidParticle))
			_, err = w.Add(physics.NewParticle(1, 1, 0, 0, 1, -1))
			Expect(err).To(MatchError(world.ErrInvalidParticle))
			Expect(w.Len()).To(BeZero())
		})
	})

	Describe("Step", func() {
		It("swaps velocities of an equal-mass head-on pair", func() {
			w, err := world.New(flatParams(), nil)
			Expect(err).NotTo(HaveOccurred())

			a, _ := w.Add(physics.NewParticle(10, 10, 50, 0, 5, 1))
			b, _ := w.Add(physics.NewParticle(18, 10, -50, 0, 5, 1))

			stats, err := w.Step(0.001)
			Expect(err).NotTo(HaveOccurred())
			Expect(stats.Contacts).To(Equal(1))

			pa, pb := w.Particle(a), w.Particle(b)
			Expect(pa.Vel.X).To(BeNumerically("~", -50, 1e-9))
			Expect(pb.Vel.X).To(BeNumerically("~", 50, 1e-9))
			Expect(pa.Vel.Y).To(BeNumerically("~", 0, 1e-12))
			Expect(pb.Vel.Y).To(BeNumerically("~", 0, 1e-12))
			Expect(pb.Pos.Sub(pa.Pos).Len()).To(BeNumerically(">=", 10-1e-9))
		})

		It("reflects off walls before collisions are resolved", func() {
			w, _ := world.New(flatParams(), nil)
			h, _ := w.Add(physics.NewParticle(-5, 300, -50, 0, 3, 1))

			stats, err := w.Step(0)
			Expect(err).NotTo(HaveOccurred())
			Expect(stats.BoundaryHits).To(Equal(1))
			Expect(w.Particle(h).Pos.X).To(Equal(3.0))
			Expect(w.Particle(h).Vel.X).To(Equal(50.0))
		})

		It("pulls a resting particle toward the centre", func() {
			p := world.DefaultParams()
			p.Friction = 1
			w, _ := world.New(p, nil)
			h, _ := w.Add(physics.NewParticle(100, p.Height/2, 0, 0, 5, 2))

			_, err := w.Step(1.0 / 60)
			Expect(err).NotTo(HaveOccurred())
			Expect(w.Particle(h).Vel.X).To(BeNumerically(">", 0))
			Expect(w.Particle(h).Vel.Y).To(Equal(0.0))
		})

		It("damps velocity by friction every frame", func() {
			p := flatParams()
			p.Friction = 0.5
			w, _ := world.New(p, nil)
			h, _ := w.Add(physics.NewParticle(400, 300, 40, 0, 5, 1))

			w.Step(0.1)
			Expect(w.Particle(h).Pos.X).To(BeNumerically("~", 404, 1e-12))
			Expect(w.Particle(h).Vel.X).To(BeNumerically("~", 20, 1e-12))
		})

		DescribeTable("rejects an invalid dt without touching state",
			func(dt float64) {
				w, _ := world.Initialize(20, world.DefaultParams(), rand.New(rand.NewSource(9)))
				before := w.Snapshot()

				_, err := w.Step(dt)
				Expect(err).To(MatchError(world.ErrInvalidStep))
				Expect(w.Particles()).To(Equal(before))
			},
			Entry("negative", -0.01),
			Entry("NaN", math.NaN()),
			Entry("+Inf", math.Inf(1)),
		)

		It("is deterministic for a fixed seed", func() {
			run := func() []physics.Particle {
				w, err := world.Initialize(150, world.DefaultParams(), rand.New(rand.NewSource(42)))
				Expect(err).NotTo(HaveOccurred())
				for i := 0; i < 120; i++ {
					_, err := w.Step(1.0 / 60)
					Expect(err).NotTo(HaveOccurred())
				}
				return w.Snapshot()
			}
			Expect(run()).To(Equal(run()))
		})

		It("keeps a dense population finite", func() {
			w, _ := world.Initialize(400, world.DefaultParams(), rand.New(rand.NewSource(5)))
			for i := 0; i < 300; i++ {
				_, err := w.Step(1.0 / 60)
				Expect(err).NotTo(HaveOccurred())
			}
			for _, p := range w.Particles() {
				Expect(p.Valid()).To(BeTrue())
			}
			Expect(w.Grid().Len()).To(Equal(w.Len()))
		})
	})

	Describe("Pointer", func() {
		It("creates the pointer particle on first move", func() {
			w, _ := world.New(flatParams(), nil)
			var ptr world.Pointer

			h, err := ptr.MoveTo(w, 100, 100)
			Expect(err).NotTo(HaveOccurred())
			p := w.Particle(h)
			Expect(p.Radius).To(Equal(world.PointerRadius))
			Expect(p.Mass).To(Equal(world.PointerMass))
			Expect(p.Vel).To(Equal(physics.Vec2{}))
		})

		It("throws the particle by its displacement", func() {
			w, _ := world.New(flatParams(), nil)
			var ptr world.Pointer
			h, _ := ptr.MoveTo(w, 100, 100)

			h2, err := ptr.MoveTo(w, 110, 95)
			Expect(err).NotTo(HaveOccurred())
			Expect(h2).To(Equal(h))
			Expect(w.Particle(h).Vel).To(Equal(physics.Vec2{X: 100, Y: -50}))
			Expect(w.Particle(h).Pos).To(Equal(physics.Vec2{X: 110, Y: 95}))
			Expect(w.Len()).To(Equal(1))
		})

		It("leaves the released particle in the world", func() {
			w, _ := world.New(flatParams(), nil)
			var ptr world.Pointer
			ptr.MoveTo(w, 100, 100)
			ptr.Release()

			_, ok := ptr.Handle()
			Expect(ok).To(BeFalse())

			ptr.MoveTo(w, 300, 300)
			Expect(w.Len()).To(Equal(2))
		})

		It("does not register on an invalid position", func() {
			w, _ := world.New(flatParams(), nil)
			var ptr world.Pointer
			_, err := ptr.MoveTo(w, math.NaN(), 0)
			Expect(err).To(MatchError(world.ErrInvalidParticle))
			_, ok := ptr.Handle()
			Expect(ok).To(BeFalse())
		})
	})
})
