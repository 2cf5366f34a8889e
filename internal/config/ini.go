package config

import (
	"fmt"

	"gopkg.in/gcfg.v1"
)

// iniFile mirrors Config in the section/variable layout gcfg expects.
//
//	[world]
//	width = 800
//	cell-size = 20
//
//	[particles]
//	count = 300
//	add = 100,300,400,0
type iniFile struct {
	World struct {
		Width    float64
		Height   float64
		CellSize float64 `gcfg:"cell-size"`
	}
	Physics struct {
		Gravity  float64
		Friction float64
		Falloff  string
	}
	Particles struct {
		Count int
		Seed  int64
		Add   []string
	}
	Run struct {
		Dt          float64
		Duration    float64
		MaxDt       float64 `gcfg:"max-dt"`
		RecordEvery int     `gcfg:"record-every"`
	}
	View struct {
		FPS   int `gcfg:"fps"`
		Theme string
	}
}

func loadINI(path string) (*Config, error) {
	cfg := DefaultConfig()

	var f iniFile
	f.World.Width, f.World.Height, f.World.CellSize = cfg.World.Width, cfg.World.Height, cfg.World.CellSize
	f.Physics.Gravity, f.Physics.Friction, f.Physics.Falloff = cfg.Physics.Gravity, cfg.Physics.Friction, cfg.Physics.Falloff
	f.Particles.Count, f.Particles.Seed = cfg.Particles.Count, cfg.Particles.Seed
	f.Run.Dt, f.Run.Duration, f.Run.MaxDt, f.Run.RecordEvery = cfg.Run.Dt, cfg.Run.Duration, cfg.Run.MaxDt, cfg.Run.RecordEvery
	f.View.FPS, f.View.Theme = cfg.View.FPS, cfg.View.Theme

	if err := gcfg.ReadFileInto(&f, path); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	cfg.World = WorldConfig{Width: f.World.Width, Height: f.World.Height, CellSize: f.World.CellSize}
	cfg.Physics = PhysicsConfig{Gravity: f.Physics.Gravity, Friction: f.Physics.Friction, Falloff: f.Physics.Falloff}
	cfg.Particles.Count, cfg.Particles.Seed = f.Particles.Count, f.Particles.Seed
	for _, s := range f.Particles.Add {
		spec, err := ParseParticleSpec(s)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		cfg.Particles.Extra = append(cfg.Particles.Extra, spec)
	}
	cfg.Run = RunConfig{Dt: f.Run.Dt, Duration: f.Run.Duration, MaxDt: f.Run.MaxDt, RecordEvery: f.Run.RecordEvery}
	cfg.View = ViewConfig{FPS: f.View.FPS, Theme: f.View.Theme}
	return cfg, nil
}
