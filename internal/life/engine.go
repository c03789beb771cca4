package life

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"gonum.org/v1/gonum/spatial/r2"
)

// Engine owns the particles and the live relation matrix. All methods
// are safe for concurrent use; a tick and any edit never interleave.
type Engine struct {
	mu sync.Mutex

	cfg       Config
	relations *RelationMatrix
	particles []Particle
	// next is the write buffer for the tick in progress.
	next []Particle

	// population and species are the sizes the live state was built with.
	population int
	species    int

	rng *rand.Rand
	// seeder fills new matrix cells. It is rebuilt only when the seeding
	// settings change, so a noise field stays the same across resizes.
	seeder    Seeder
	noiseSeed int64

	ticks uint64
	log   Logger
}

// Option customises an Engine.
type Option func(*Engine)

// WithLogger routes engine logs to l.
func WithLogger(l Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// NewEngine validates cfg and seeds the initial population and matrix.
func NewEngine(cfg Config, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	e := &Engine{
		cfg: cfg,
		rng: rand.New(rand.NewPCG(uint64(seed), uint64(seed)>>1^0x9e3779b97f4a7c15)),
		log: NopLogger{},
	}
	for _, opt := range opts {
		opt(e)
	}

	e.noiseSeed = e.rng.Int64()
	e.seeder = newSeeder(&e.cfg, e.rng, e.noiseSeed)
	e.relations = NewRelationMatrix(cfg.Species, e.seeder)
	e.species = cfg.Species
	e.reseed(cfg.Population)
	e.log.Infof("engine ready: %d particles, %d species, seeding %s, boundary %s",
		e.population, e.species, cfg.Seeding, cfg.Boundary)
	return e, nil
}

// reseed replaces the particle collection: uniform positions inside the
// world extent, zero velocity, species assigned round-robin.
func (e *Engine) reseed(n int) {
	w, h := e.cfg.World.X, e.cfg.World.Y
	e.particles = make([]Particle, n)
	e.next = make([]Particle, n)
	for i := range e.particles {
		e.particles[i] = Particle{
			Position: r2.Vec{
				X: e.rng.Float64()*w - w/2,
				Y: e.rng.Float64()*h - h/2,
			},
			Species: i % e.species,
		}
	}
	e.population = n
}

// Tick applies any pending restart and, unless paused, advances the
// simulation by one step. Every force is computed from the positions as
// they stood before the tick.
func (e *Engine) Tick() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.restartLocked()
	if e.cfg.Paused {
		return
	}

	cfg := e.cfg
	prev, next := e.particles, e.next
	for i := range prev {
		var force r2.Vec
		for j := range prev {
			if i == j {
				continue
			}
			force = r2.Add(force, PairForce(&prev[i], &prev[j], e.relations, &cfg))
		}
		next[i] = prev[i]
		next[i].Integrate(force, &cfg)
	}
	e.particles, e.next = next, prev
	e.ticks++
}

// MaybeRestart rebuilds the particles and the matrix when the requested
// population or species count differs from the live one. It reports
// whether a restart happened.
func (e *Engine) MaybeRestart() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.restartLocked()
}

func (e *Engine) restartLocked() bool {
	wantPop, wantSpecies := e.cfg.Population, e.cfg.Species
	if wantPop == e.population && wantSpecies == e.species {
		return false
	}
	oldPop, oldSpecies := e.population, e.species

	if wantSpecies != e.species {
		e.relations = e.relations.ResizePreserving(wantSpecies, e.seeder)
		e.species = wantSpecies
	}
	e.reseed(wantPop)

	e.log.Infof("restart: population %d -> %d, species %d -> %d, kept %dx%d relations",
		oldPop, wantPop, oldSpecies, wantSpecies, min(oldSpecies, wantSpecies), min(oldSpecies, wantSpecies))
	return true
}

// Update applies fn to a copy of the configuration and commits it only if
// the result validates. Population and species changes take effect on the
// next Tick or MaybeRestart.
func (e *Engine) Update(fn func(*Config)) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	cfg := e.cfg
	fn(&cfg)
	if err := cfg.Validate(); err != nil {
		e.log.Warnf("rejected configuration change: %v", err)
		return err
	}
	if cfg.Paused != e.cfg.Paused {
		e.log.Debugf("paused: %t", cfg.Paused)
	}
	reseed := cfg.Seeding != e.cfg.Seeding || cfg.RelationRange != e.cfg.RelationRange || cfg.Quantize != e.cfg.Quantize
	e.cfg = cfg
	if reseed {
		e.seeder = newSeeder(&e.cfg, e.rng, e.noiseSeed)
	}
	return nil
}

// TogglePause flips the paused flag.
func (e *Engine) TogglePause() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cfg.Paused = !e.cfg.Paused
	e.log.Debugf("paused: %t", e.cfg.Paused)
}

// Config returns a copy of the current configuration.
func (e *Engine) Config() Config {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cfg
}

// Current returns the population and species count the live state was
// built with.
func (e *Engine) Current() (population, species int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.population, e.species
}

// Ticks returns the number of completed, unpaused ticks.
func (e *Engine) Ticks() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ticks
}

// SetRelation overwrites one coefficient of the live matrix.
func (e *Engine) SetRelation(self, other int, v float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	n := e.relations.Size()
	if self < 0 || self >= n || other < 0 || other >= n {
		return fmt.Errorf("%w: (%d, %d) with %d species", ErrSpeciesIndex, self, other, n)
	}
	e.relations.Set(self, other, v)
	e.log.Debugf("relation (%d, %d) = %.3f", self, other, v)
	return nil
}

// Relation returns one coefficient of the live matrix.
func (e *Engine) Relation(self, other int) (float64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	n := e.relations.Size()
	if self < 0 || self >= n || other < 0 || other >= n {
		return 0, fmt.Errorf("%w: (%d, %d) with %d species", ErrSpeciesIndex, self, other, n)
	}
	return e.relations.At(self, other), nil
}

// Relations returns a copy of the live matrix.
func (e *Engine) Relations() *RelationMatrix {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.relations.Clone()
}

// RandomizeRelations refills the live matrix uniformly within
// RelationRange, whatever the configured seeding policy.
func (e *Engine) RandomizeRelations() {
	e.mu.Lock()
	defer e.mu.Unlock()

	seed := UniformSeeder{Range: e.cfg.RelationRange, Quantize: e.cfg.Quantize, Rand: e.rng}
	e.relations = NewRelationMatrix(e.species, seed)
	e.log.Infof("relations randomized within ±%.3f", e.cfg.RelationRange)
}

// ReplaceRelations installs m as the live matrix. Its size must match the
// live species count.
func (e *Engine) ReplaceRelations(m *RelationMatrix) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if m.Size() != e.species {
		return fmt.Errorf("%w: got %d species, engine has %d", ErrDimension, m.Size(), e.species)
	}
	e.relations = m.Clone()
	e.log.Infof("relations replaced (%d species)", e.species)
	return nil
}

// AdoptRelations installs m, first restarting at m's species count when it
// differs from the live one. A species count the configuration would
// reject leaves the engine untouched.
func (e *Engine) AdoptRelations(m *RelationMatrix) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	cfg := e.cfg
	cfg.Species = m.Size()
	if err := cfg.Validate(); err != nil {
		e.log.Warnf("rejected relations: %v", err)
		return fmt.Errorf("%w: %w", ErrDimension, err)
	}
	e.cfg = cfg
	e.restartLocked()
	e.relations = m.Clone()
	e.log.Infof("relations adopted (%d species)", e.species)
	return nil
}

// DefaultMutationSigma is a mutation step of a tenth of the default
// relation range.
const DefaultMutationSigma = 0.02

// MutateRelations adds gaussian noise of standard deviation sigma to every
// coefficient, keeping each within ±RelationRange.
func (e *Engine) MutateRelations(sigma float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if sigma < 0 || math.IsNaN(sigma) || math.IsInf(sigma, 0) {
		return fmt.Errorf("%w: mutation sigma %v", ErrInvalidConfig, sigma)
	}
	limit := e.cfg.RelationRange
	n := e.relations.Size()
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			v := e.relations.At(i, j) + e.rng.NormFloat64()*sigma
			v = math.Max(-limit, math.Min(limit, v))
			if e.cfg.Quantize {
				v = quantize(v)
			}
			e.relations.Set(i, j, v)
		}
	}
	e.log.Debugf("relations mutated (sigma %.3f)", sigma)
	return nil
}

// Particles returns a copy of the particle collection.
func (e *Engine) Particles() []Particle {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Particle, len(e.particles))
	copy(out, e.particles)
	return out
}
