package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/partsim/internal/physics"
	"github.com/san-kum/partsim/internal/sim"
)

type ExportData struct {
	Run       RunMetadata      `json:"run"`
	Samples   []sim.Sample     `json:"samples"`
	Particles []ParticleRecord `json:"particles"`
}

type ParticleRecord struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	VX     float64 `json:"vx"`
	VY     float64 `json:"vy"`
	Radius float64 `json:"radius"`
	Mass   float64 `json:"mass"`
	Color  string  `json:"color"`
}

// ExportJSON writes a stored run as a single JSON document.
func (s *Store) ExportJSON(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	samples, err := s.LoadSeries(runID)
	if err != nil {
		return err
	}
	ps, err := s.LoadParticles(runID)
	if err != nil {
		return err
	}

	data := ExportData{
		Run:       *meta,
		Samples:   samples,
		Particles: make([]ParticleRecord, len(ps)),
	}
	for i := range ps {
		p := &ps[i]
		data.Particles[i] = ParticleRecord{
			X: p.Pos.X, Y: p.Pos.Y,
			VX: p.Vel.X, VY: p.Vel.Y,
			Radius: p.Radius, Mass: p.Mass,
			Color: p.Color().Hex(),
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// ExportSeriesCSV copies a run's sample series to w.
func (s *Store) ExportSeriesCSV(w io.Writer, runID string) error {
	samples, err := s.LoadSeries(runID)
	if err != nil {
		return err
	}
	return WriteSeries(w, samples)
}

// Particle converts an exported record back to a particle.
func (r ParticleRecord) Particle() physics.Particle {
	return physics.NewParticle(r.X, r.Y, r.VX, r.VY, r.Radius, r.Mass)
}
