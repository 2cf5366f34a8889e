package config

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/partsim/internal/physics"
	"github.com/san-kum/partsim/internal/world"
)

const (
	DefaultCount       = 200
	DefaultSeed        = 1
	DefaultDt          = 1.0 / 60
	DefaultDuration    = 10.0
	DefaultMaxDt       = 0.05
	DefaultRecordEvery = 1
	DefaultFPS         = 30
	DefaultTheme       = "cyberpunk"
)

type Config struct {
	World     WorldConfig     `yaml:"world"`
	Physics   PhysicsConfig   `yaml:"physics"`
	Particles ParticlesConfig `yaml:"particles"`
	Run       RunConfig       `yaml:"run"`
	View      ViewConfig      `yaml:"view"`
}

type WorldConfig struct {
	Width    float64 `yaml:"width"`
	Height   float64 `yaml:"height"`
	CellSize float64 `yaml:"cell_size"`
}

type PhysicsConfig struct {
	Gravity  float64 `yaml:"gravity"`
	Friction float64 `yaml:"friction"`
	Falloff  string  `yaml:"falloff"`
}

type ParticlesConfig struct {
	Count int            `yaml:"count"`
	Seed  int64          `yaml:"seed"`
	Extra []ParticleSpec `yaml:"extra,omitempty"`
}

// ParticleSpec is an explicitly placed particle; radius and mass are random.
type ParticleSpec struct {
	X  float64 `yaml:"x"`
	Y  float64 `yaml:"y"`
	VX float64 `yaml:"vx"`
	VY float64 `yaml:"vy"`
}

type RunConfig struct {
	Dt          float64 `yaml:"dt"`
	Duration    float64 `yaml:"duration"`
	MaxDt       float64 `yaml:"max_dt"`
	RecordEvery int     `yaml:"record_every"`
}

type ViewConfig struct {
	FPS   int    `yaml:"fps"`
	Theme string `yaml:"theme"`
}

func DefaultConfig() *Config {
	return &Config{
		World: WorldConfig{
			Width:    world.DefaultWidth,
			Height:   world.DefaultHeight,
			CellSize: world.DefaultCellSize,
		},
		Physics: PhysicsConfig{
			Gravity:  world.DefaultGravity,
			Friction: world.DefaultFriction,
			Falloff:  physics.FalloffInverseSquare.String(),
		},
		Particles: ParticlesConfig{
			Count: DefaultCount,
			Seed:  DefaultSeed,
		},
		Run: RunConfig{
			Dt:          DefaultDt,
			Duration:    DefaultDuration,
			MaxDt:       DefaultMaxDt,
			RecordEvery: DefaultRecordEvery,
		},
		View: ViewConfig{
			FPS:   DefaultFPS,
			Theme: DefaultTheme,
		},
	}
}

// Load reads a YAML file, or an INI-style file when the extension is
// .gcfg, .ini or .conf. Missing keys keep their defaults.
func Load(path string) (*Config, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gcfg", ".ini", ".conf":
		return loadINI(path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	out := *c
	out.Particles.Extra = append([]ParticleSpec(nil), c.Particles.Extra...)
	return &out
}

// Params converts the world and physics sections.
func (c *Config) Params() (world.Params, error) {
	falloff, err := physics.ParseFalloff(c.Physics.Falloff)
	if err != nil {
		return world.Params{}, fmt.Errorf("%w: %v", world.ErrParameterBounds, err)
	}
	return world.Params{
		Width:    c.World.Width,
		Height:   c.World.Height,
		Gravity:  c.Physics.Gravity,
		Friction: c.Physics.Friction,
		CellSize: c.World.CellSize,
		Falloff:  falloff,
	}, nil
}

func (c *Config) Validate() error {
	p, err := c.Params()
	if err != nil {
		return err
	}
	if err := p.Validate(); err != nil {
		return err
	}
	switch {
	case c.Particles.Count < 0:
		return fmt.Errorf("%w: particle count %d", world.ErrParameterBounds, c.Particles.Count)
	case !(c.Run.Dt > 0):
		return fmt.Errorf("%w: dt %v", world.ErrParameterBounds, c.Run.Dt)
	case !(c.Run.Duration > 0):
		return fmt.Errorf("%w: duration %v", world.ErrParameterBounds, c.Run.Duration)
	case !(c.Run.MaxDt > 0):
		return fmt.Errorf("%w: max dt %v", world.ErrParameterBounds, c.Run.MaxDt)
	case c.Run.RecordEvery < 1:
		return fmt.Errorf("%w: record_every %d", world.ErrParameterBounds, c.Run.RecordEvery)
	case c.View.FPS < 1:
		return fmt.Errorf("%w: fps %d", world.ErrParameterBounds, c.View.FPS)
	}
	return nil
}

// ParseParticleSpec parses "x,y,vx,vy".
func ParseParticleSpec(s string) (ParticleSpec, error) {
	fields := strings.Split(s, ",")
	if len(fields) != 4 {
		return ParticleSpec{}, fmt.Errorf("particle %q: want x,y,vx,vy", s)
	}
	var v [4]float64
	for i, f := range fields {
		n, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return ParticleSpec{}, fmt.Errorf("particle %q: %w", s, err)
		}
		v[i] = n
	}
	return ParticleSpec{X: v[0], Y: v[1], VX: v[2], VY: v[3]}, nil
}

func (s ParticleSpec) String() string {
	return strconv.FormatFloat(s.X, 'g', -1, 64) + "," +
		strconv.FormatFloat(s.Y, 'g', -1, 64) + "," +
		strconv.FormatFloat(s.VX, 'g', -1, 64) + "," +
		strconv.FormatFloat(s.VY, 'g', -1, 64)
}

// NewWorld builds the configured world: Count random particles from Seed,
// then every Extra particle in order.
func (c *Config) NewWorld() (*world.World, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	params, err := c.Params()
	if err != nil {
		return nil, err
	}
	w, err := world.Initialize(c.Particles.Count, params, rand.New(rand.NewSource(c.Particles.Seed)))
	if err != nil {
		return nil, err
	}
	for _, p := range c.Particles.Extra {
		w.AddParticle(p.X, p.Y, p.VX, p.VY)
	}
	return w, nil
}

// ParamNames lists the keys accepted by SetParam.
var ParamNames = []string{"count", "seed", "gravity", "friction", "cell_size", "width", "height", "dt", "duration"}

// SetParam sets a numeric setting by its YAML key.
func (c *Config) SetParam(name string, v float64) error {
	switch name {
	case "count":
		c.Particles.Count = int(v)
	case "seed":
		c.Particles.Seed = int64(v)
	case "gravity":
		c.Physics.Gravity = v
	case "friction":
		c.Physics.Friction = v
	case "cell_size":
		c.World.CellSize = v
	case "width":
		c.World.Width = v
	case "height":
		c.World.Height = v
	case "dt":
		c.Run.Dt = v
	case "duration":
		c.Run.Duration = v
	default:
		return fmt.Errorf("unknown parameter %q (want one of %s)", name, strings.Join(ParamNames, ", "))
	}
	return nil
}
