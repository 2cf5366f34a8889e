package config

import (
	"errors"
	"sort"

	"github.com/san-kum/partsim/internal/physics"
)

var ErrUnknownPreset = errors.New("config: unknown preset")

func preset(mutate func(c *Config)) *Config {
	c := DefaultConfig()
	mutate(c)
	return c
}

var Presets = map[string]*Config{
	"calm": preset(func(c *Config) {
		c.Physics.Gravity = 0
		c.Physics.Friction = 1
		c.Particles.Count = 150
	}),
	"earth": preset(func(c *Config) {
		c.Physics.Gravity = 9.8 * 100
		c.Particles.Count = 300
	}),
	"collapse": preset(func(c *Config) {
		c.Physics.Gravity = 5000
		c.Physics.Falloff = physics.FalloffInverseLinear.String()
		c.Particles.Count = 400
		c.Run.Duration = 20
	}),
	"crowd": preset(func(c *Config) {
		c.World.Width, c.World.Height = 1200, 800
		c.Physics.Gravity = 300
		c.Particles.Count = 1500
		c.World.CellSize = 20
	}),
	"billiards": preset(func(c *Config) {
		c.Physics.Gravity = 0
		c.Physics.Friction = 0.999
		c.Particles.Count = 60
		c.Particles.Extra = []ParticleSpec{{X: 60, Y: 300, VX: 600, VY: 0}}
	}),
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
