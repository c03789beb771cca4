package life

import (
	"errors"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
)

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("Expected default config to validate, got %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero max distance", func(c *Config) { c.MaxDistance = 0 }},
		{"zero min distance", func(c *Config) { c.MinDistance = 0 }},
		{"min distance of one", func(c *Config) { c.MinDistance = 1 }},
		{"zero friction", func(c *Config) { c.Friction = 0 }},
		{"friction above one", func(c *Config) { c.Friction = 1.01 }},
		{"empty population", func(c *Config) { c.Population = 0 }},
		{"no species", func(c *Config) { c.Species = 0 }},
		{"population above limit", func(c *Config) { c.Population = MaxPopulation + 1 }},
		{"huge population", func(c *Config) { c.Population = 3_000_000_000 }},
		{"species above limit", func(c *Config) { c.Species = MaxSpecies + 1 }},
		{"flat world", func(c *Config) { c.World = r2.Vec{X: 100} }},
		{"negative relation range", func(c *Config) { c.RelationRange = -0.1 }},
		{"zero zoom", func(c *Config) { c.Zoom = 0 }},
		{"zero particle size", func(c *Config) { c.ParticleSize = 0 }},
		{"unknown boundary", func(c *Config) { c.Boundary = Boundary(9) }},
		{"unknown fold", func(c *Config) { c.Fold = FoldBase(9) }},
		{"unknown seeding", func(c *Config) { c.Seeding = SeedPolicy(9) }},
		{"midpoint below min distance", func(c *Config) {
			c.MinDistance = 0.9
			c.MaxDistance = 0.5
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestConfig_ValidateAcceptsEdges(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Friction = 1
	cfg.Population = 1
	cfg.Species = 1
	cfg.RelationRange = 0
	if err := cfg.Validate(); err != nil {
		t.Errorf("Expected edge values to validate, got %v", err)
	}

	cfg.Population = MaxPopulation
	cfg.Species = MaxSpecies
	if err := cfg.Validate(); err != nil {
		t.Errorf("Expected size limits to validate, got %v", err)
	}
}

func TestConfig_ValidateControlRanges(t *testing.T) {
	for _, fold := range []FoldBase{FoldReference, FoldNormalized} {
		for _, minDist := range []float64{0.01, 0.9} {
			for _, size := range []float64{1, 10} {
				cfg := DefaultConfig()
				cfg.Fold = fold
				cfg.MinDistance = minDist
				cfg.ParticleSize = size
				if err := cfg.Validate(); err != nil {
					t.Errorf("fold %s, min distance %v, size %v: %v", fold, minDist, size, err)
				}
			}
		}
	}
}

func TestConfig_FoldMidpoint(t *testing.T) {
	cfg := DefaultConfig()
	if got := cfg.FoldMidpoint(); !near(got, 25.1) {
		t.Errorf("reference: expected 25.1, got %v", got)
	}
	cfg.Fold = FoldNormalized
	if got := cfg.FoldMidpoint(); !near(got, 0.6) {
		t.Errorf("normalized: expected 0.6, got %v", got)
	}
}

func TestParseEnums(t *testing.T) {
	if b, err := ParseBoundary("WRAP"); err != nil || b != BoundaryWrap {
		t.Errorf("ParseBoundary(WRAP) = %v, %v", b, err)
	}
	if _, err := ParseBoundary("bounce"); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig for bounce, got %v", err)
	}
	if f, err := ParseFoldBase("normalized"); err != nil || f != FoldNormalized {
		t.Errorf("ParseFoldBase(normalized) = %v, %v", f, err)
	}
	if _, err := ParseFoldBase(""); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig for empty fold, got %v", err)
	}
	if p, err := ParseSeedPolicy("Noise"); err != nil || p != SeedNoise {
		t.Errorf("ParseSeedPolicy(Noise) = %v, %v", p, err)
	}
	if _, err := ParseSeedPolicy("gaussian"); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig for gaussian, got %v", err)
	}
	if s := BoundaryClamp.String(); s != "clamp" {
		t.Errorf("Expected clamp, got %s", s)
	}
}
