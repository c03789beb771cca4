package life

import (
	"errors"
	"fmt"
	"strings"

	"gonum.org/v1/gonum/spatial/r2"
)

var (
	// ErrInvalidConfig is returned when a configuration edit is rejected.
	ErrInvalidConfig = errors.New("invalid configuration")
	// ErrSpeciesIndex is returned for relation edits outside the matrix.
	ErrSpeciesIndex = errors.New("species index out of range")
	// ErrDimension is returned when a relation matrix does not match the species count.
	ErrDimension = errors.New("relation matrix dimension mismatch")
)

// Upper bounds on the requested sizes. The pairwise pass is quadratic in
// the population and the matrix quadratic in the species count.
const (
	MaxSpecies    = 10
	MaxPopulation = 5000
)

// Boundary selects what happens to particles leaving the world extent.
type Boundary int

const (
	// BoundaryNone leaves particles unconstrained.
	BoundaryNone Boundary = iota
	// BoundaryClamp pins positions to the world edge.
	BoundaryClamp
	// BoundaryWrap wraps positions toroidally and measures distances
	// through the shortest wrapped path.
	BoundaryWrap
)

var boundaryNames = map[Boundary]string{
	BoundaryNone:  "none",
	BoundaryClamp: "clamp",
	BoundaryWrap:  "wrap",
}

func (b Boundary) String() string {
	if s, ok := boundaryNames[b]; ok {
		return s
	}
	return fmt.Sprintf("Boundary(%d)", int(b))
}

// ParseBoundary parses none, clamp or wrap (case-insensitive).
func ParseBoundary(s string) (Boundary, error) {
	for b, name := range boundaryNames {
		if strings.EqualFold(s, name) {
			return b, nil
		}
	}
	return BoundaryNone, fmt.Errorf("%w: unknown boundary %q", ErrInvalidConfig, s)
}

// FoldBase selects the units of the attraction-zone midpoint.
type FoldBase int

const (
	// FoldReference computes the midpoint from the raw MaxDistance. With
	// MaxDistance well above 1 the fold never triggers and the attraction
	// ramp spans the whole zone.
	FoldReference FoldBase = iota
	// FoldNormalized computes the midpoint in normalized units, so the far
	// half of the range folds back into a second, weaker band.
	FoldNormalized
)

var foldNames = map[FoldBase]string{
	FoldReference:  "reference",
	FoldNormalized: "normalized",
}

func (f FoldBase) String() string {
	if s, ok := foldNames[f]; ok {
		return s
	}
	return fmt.Sprintf("FoldBase(%d)", int(f))
}

// ParseFoldBase parses reference or normalized (case-insensitive).
func ParseFoldBase(s string) (FoldBase, error) {
	for f, name := range foldNames {
		if strings.EqualFold(s, name) {
			return f, nil
		}
	}
	return FoldReference, fmt.Errorf("%w: unknown fold base %q", ErrInvalidConfig, s)
}

// Config holds every tunable of the simulation. The engine snapshots it
// once per tick; external control surfaces edit it through Engine.Update.
type Config struct {
	// MinDistance is the repulsion zone width as a fraction of MaxDistance.
	MinDistance float64
	// MaxDistance is the interaction radius in world units.
	MaxDistance float64
	// Friction multiplies the updated velocity every tick.
	Friction float64

	// Population and Species are the requested sizes. A difference from
	// the engine's current sizes triggers a restart.
	Population int
	Species    int

	// World is the full width and height of the area particles are
	// seeded in, centred on the origin.
	World    r2.Vec
	Boundary Boundary
	Fold     FoldBase

	Seeding       SeedPolicy
	RelationRange float64
	Quantize      bool
	// Seed fixes the random source. Zero picks a time based seed.
	Seed int64

	Paused bool

	// Presentation only.
	ViewOffset   r2.Vec
	Zoom         float64
	ParticleSize float64
}

// DefaultConfig returns the stock settings: zero matrix, 1200 particles
// of 7 species.
func DefaultConfig() Config {
	return Config{
		MinDistance:   0.2,
		MaxDistance:   50,
		Friction:      0.2,
		Population:    1200,
		Species:       7,
		World:         r2.Vec{X: 1280, Y: 800},
		Boundary:      BoundaryNone,
		Fold:          FoldReference,
		Seeding:       SeedZero,
		RelationRange: 0.2,
		Zoom:          1,
		ParticleSize:  5,
	}
}

// FoldMidpoint returns the midpoint of the attraction zone in the units
// selected by Fold.
func (c *Config) FoldMidpoint() float64 {
	if c.Fold == FoldNormalized {
		return (c.MinDistance + 1) / 2
	}
	return (c.MinDistance + c.MaxDistance) / 2
}

// Validate rejects values the force law or the restart logic cannot handle.
func (c *Config) Validate() error {
	switch {
	case c.MaxDistance <= 0:
		return fmt.Errorf("%w: max distance %v must be positive", ErrInvalidConfig, c.MaxDistance)
	case c.MinDistance <= 0 || c.MinDistance >= 1:
		return fmt.Errorf("%w: min distance %v must be in (0, 1)", ErrInvalidConfig, c.MinDistance)
	case c.Friction <= 0 || c.Friction > 1:
		return fmt.Errorf("%w: friction %v must be in (0, 1]", ErrInvalidConfig, c.Friction)
	case c.Population < 1 || c.Population > MaxPopulation:
		return fmt.Errorf("%w: population %d must be in [1, %d]", ErrInvalidConfig, c.Population, MaxPopulation)
	case c.Species < 1 || c.Species > MaxSpecies:
		return fmt.Errorf("%w: species count %d must be in [1, %d]", ErrInvalidConfig, c.Species, MaxSpecies)
	case c.World.X <= 0 || c.World.Y <= 0:
		return fmt.Errorf("%w: world extent %vx%v must be positive", ErrInvalidConfig, c.World.X, c.World.Y)
	case c.RelationRange < 0:
		return fmt.Errorf("%w: relation range %v must not be negative", ErrInvalidConfig, c.RelationRange)
	case c.Zoom <= 0:
		return fmt.Errorf("%w: zoom %v must be positive", ErrInvalidConfig, c.Zoom)
	case c.ParticleSize <= 0:
		return fmt.Errorf("%w: particle size %v must be positive", ErrInvalidConfig, c.ParticleSize)
	}
	if _, ok := boundaryNames[c.Boundary]; !ok {
		return fmt.Errorf("%w: unknown boundary %d", ErrInvalidConfig, int(c.Boundary))
	}
	if _, ok := foldNames[c.Fold]; !ok {
		return fmt.Errorf("%w: unknown fold base %d", ErrInvalidConfig, int(c.Fold))
	}
	if _, ok := seedNames[c.Seeding]; !ok {
		return fmt.Errorf("%w: unknown seeding policy %d", ErrInvalidConfig, int(c.Seeding))
	}
	if mid := c.FoldMidpoint(); mid <= c.MinDistance {
		return fmt.Errorf("%w: fold midpoint %v must exceed min distance %v", ErrInvalidConfig, mid, c.MinDistance)
	}
	return nil
}
