package life

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strings"

	"github.com/aquilax/go-perlin"
)

// SeedPolicy selects how fresh relation matrix cells are filled.
type SeedPolicy int

const (
	// SeedZero fills cells with 0.
	SeedZero SeedPolicy = iota
	// SeedUniform draws cells uniformly from [-RelationRange, RelationRange].
	SeedUniform
	// SeedNoise samples a Perlin noise field at (self, other), so
	// neighbouring species get related coefficients.
	SeedNoise
)

var seedNames = map[SeedPolicy]string{
	SeedZero:    "zero",
	SeedUniform: "uniform",
	SeedNoise:   "noise",
}

func (p SeedPolicy) String() string {
	if s, ok := seedNames[p]; ok {
		return s
	}
	return fmt.Sprintf("SeedPolicy(%d)", int(p))
}

// ParseSeedPolicy parses zero, uniform or noise (case-insensitive).
func ParseSeedPolicy(s string) (SeedPolicy, error) {
	for p, name := range seedNames {
		if strings.EqualFold(s, name) {
			return p, nil
		}
	}
	return SeedZero, fmt.Errorf("%w: unknown seeding policy %q", ErrInvalidConfig, s)
}

// Seeder supplies the value of a relation cell that has no prior value.
type Seeder interface {
	Coefficient(self, other int) float64
}

// ZeroSeeder seeds every cell with 0.
type ZeroSeeder struct{}

func (ZeroSeeder) Coefficient(self, other int) float64 { return 0 }

// UniformSeeder draws from [-Range, Range], rounded to 3 decimals when
// Quantize is set.
type UniformSeeder struct {
	Range    float64
	Quantize bool
	Rand     *rand.Rand
}

func (s UniformSeeder) Coefficient(self, other int) float64 {
	v := (s.Rand.Float64()*2 - 1) * s.Range
	if s.Quantize {
		v = quantize(v)
	}
	return v
}

// noiseScale spreads species indices over the noise lattice; integer
// lattice points always sample to zero.
const noiseScale = 0.37

// NoiseSeeder samples a 2D Perlin field.
type NoiseSeeder struct {
	Range    float64
	Quantize bool
	noise    *perlin.Perlin
}

// NewNoiseSeeder builds a noise field from seed.
func NewNoiseSeeder(span float64, quant bool, seed int64) NoiseSeeder {
	return NoiseSeeder{
		Range:    span,
		Quantize: quant,
		noise:    perlin.NewPerlin(2, 2, 3, seed),
	}
}

func (s NoiseSeeder) Coefficient(self, other int) float64 {
	n := s.noise.Noise2D(float64(self)*noiseScale+0.5, float64(other)*noiseScale+0.5)
	// Perlin output rarely leaves [-0.5, 0.5]; stretch it over the range.
	v := math.Max(-s.Range, math.Min(s.Range, 2*n*s.Range))
	if s.Quantize {
		v = quantize(v)
	}
	return v
}

func quantize(v float64) float64 {
	return math.Round(v*1000) / 1000
}

// newSeeder builds the Seeder selected by cfg. Uniform seeding draws
// from rng; noise seeding samples the field fixed by noiseSeed, so every
// seeder built with the same noiseSeed agrees cell by cell.
func newSeeder(cfg *Config, rng *rand.Rand, noiseSeed int64) Seeder {
	switch cfg.Seeding {
	case SeedUniform:
		return UniformSeeder{Range: cfg.RelationRange, Quantize: cfg.Quantize, Rand: rng}
	case SeedNoise:
		return NewNoiseSeeder(cfg.RelationRange, cfg.Quantize, noiseSeed)
	default:
		return ZeroSeeder{}
	}
}
