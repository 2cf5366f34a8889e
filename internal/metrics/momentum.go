package metrics

import "github.com/san-kum/partsim/internal/physics"

// TotalMomentum sums m*v over the population.
func TotalMomentum(ps []physics.Particle) physics.Vec2 {
	var p physics.Vec2
	for i := range ps {
		p = p.Add(ps[i].Momentum())
	}
	return p
}

// Momentum reports the magnitude of total momentum at the last observed frame.
type Momentum struct {
	name  string
	last  float64
	valid bool
}

func NewMomentum() *Momentum {
	return &Momentum{name: "momentum"}
}

func (m *Momentum) Name() string { return m.name }

func (m *Momentum) Observe(ps []physics.Particle, t float64) {
	m.last = TotalMomentum(ps).Len()
	m.valid = true
}

func (m *Momentum) Value() float64 {
	if !m.valid {
		return 0
	}
	return m.last
}

func (m *Momentum) Reset() {
	m.last = 0
	m.valid = false
}

// MeanSpeed averages particle speed over every particle of every frame.
type MeanSpeed struct {
	name    string
	sum     float64
	samples int
}

func NewMeanSpeed() *MeanSpeed {
	return &MeanSpeed{name: "mean_speed"}
}

func (m *MeanSpeed) Name() string { return m.name }

func (m *MeanSpeed) Observe(ps []physics.Particle, t float64) {
	for i := range ps {
		m.sum += ps[i].Speed()
	}
	m.samples += len(ps)
}

func (m *MeanSpeed) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.sum / float64(m.samples)
}

func (m *MeanSpeed) Reset() {
	m.sum = 0
	m.samples = 0
}
