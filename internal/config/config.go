// Package config loads the settings file and command-line overrides
// shared by the particle-life binaries.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"gonum.org/v1/gonum/spatial/r2"
	"gopkg.in/yaml.v3"

	"github.com/olivierh59500/particle-life/internal/life"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config is the full settings tree.
type Config struct {
	Log        LogConfig        `yaml:"log"`
	Window     WindowConfig     `yaml:"window"`
	Server     ServerConfig     `yaml:"server"`
	Terminal   TerminalConfig   `yaml:"terminal"`
	Simulation SimulationConfig `yaml:"simulation"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// WindowConfig sizes the desktop window.
type WindowConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
	TPS    int    `yaml:"tps"`
}

// ServerConfig drives the headless streaming server.
type ServerConfig struct {
	Addr         string        `yaml:"addr"`
	TickInterval time.Duration `yaml:"tick_interval"`
}

type TerminalConfig struct {
	TickInterval time.Duration `yaml:"tick_interval"`
}

// SimulationConfig mirrors life.Config with file-friendly types.
type SimulationConfig struct {
	Population    int     `yaml:"population"`
	Species       int     `yaml:"species"`
	MinDistance   float64 `yaml:"min_distance"`
	MaxDistance   float64 `yaml:"max_distance"`
	Friction      float64 `yaml:"friction"`
	WorldWidth    float64 `yaml:"world_width"`  // 0 = window width
	WorldHeight   float64 `yaml:"world_height"` // 0 = window height
	Boundary      string  `yaml:"boundary"`
	Fold          string  `yaml:"fold"`
	Seeding       string  `yaml:"seeding"`
	RelationRange float64 `yaml:"relation_range"`
	Quantize      bool    `yaml:"quantize"`
	Seed          int64   `yaml:"seed"`
	Zoom          float64 `yaml:"zoom"`
	ParticleSize  float64 `yaml:"particle_size"`
	Paused        bool    `yaml:"paused"`
	// RelationsFile is where the matrix is saved to and loaded from.
	RelationsFile string `yaml:"relations_file"`
}

// Load reads path over the embedded defaults. An empty path yields the
// defaults alone. Keys missing from the file keep their default values.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}
	return cfg, nil
}

// EngineConfig converts the simulation section to an engine configuration
// and validates it.
func (c *Config) EngineConfig() (life.Config, error) {
	s := c.Simulation
	out := life.DefaultConfig()

	boundary, err := life.ParseBoundary(s.Boundary)
	if err != nil {
		return out, err
	}
	fold, err := life.ParseFoldBase(s.Fold)
	if err != nil {
		return out, err
	}
	seeding, err := life.ParseSeedPolicy(s.Seeding)
	if err != nil {
		return out, err
	}

	world := r2.Vec{X: s.WorldWidth, Y: s.WorldHeight}
	if world.X == 0 {
		world.X = float64(c.Window.Width)
	}
	if world.Y == 0 {
		world.Y = float64(c.Window.Height)
	}

	out.Population = s.Population
	out.Species = s.Species
	out.MinDistance = s.MinDistance
	out.MaxDistance = s.MaxDistance
	out.Friction = s.Friction
	out.World = world
	out.Boundary = boundary
	out.Fold = fold
	out.Seeding = seeding
	out.RelationRange = s.RelationRange
	out.Quantize = s.Quantize
	out.Seed = s.Seed
	out.Zoom = s.Zoom
	out.ParticleSize = s.ParticleSize
	out.Paused = s.Paused

	if err := out.Validate(); err != nil {
		return out, err
	}
	return out, nil
}
