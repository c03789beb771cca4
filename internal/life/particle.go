package life

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Particle is a point with a species tag.
type Particle struct {
	Position r2.Vec
	Velocity r2.Vec
	Species  int
}

// PairForce returns the pseudo-force other exerts on self.
//
// Beyond MaxDistance the force is zero. Inside MinDistance (as a fraction
// of MaxDistance) particles always repel, hardest at contact. Past that
// the relation coefficient for (self, other) scales a ramp that starts at
// zero on the zone boundary. Positions past the fold midpoint are folded
// back toward MinDistance. The force always points along the separation.
func PairForce(self, other *Particle, rel *RelationMatrix, cfg *Config) r2.Vec {
	delta := r2.Sub(other.Position, self.Position)
	if cfg.Boundary == BoundaryWrap {
		delta = wrapDelta(delta, cfg.World)
	}
	dist := r2.Norm(delta)
	if dist > cfg.MaxDistance {
		return r2.Vec{}
	}
	d := dist / cfg.MaxDistance
	if d < cfg.MinDistance {
		return r2.Scale(d/cfg.MinDistance-1, delta)
	}
	mid := cfg.FoldMidpoint()
	if d > mid {
		d = d - mid + cfg.MinDistance
	}
	g := rel.At(self.Species, other.Species)
	return r2.Scale(cfg.MaxDistance*g*(d-cfg.MinDistance)/(mid-cfg.MinDistance), delta)
}

// Integrate applies the accumulated force, damps by friction and moves
// the particle, then enforces the boundary policy.
func (p *Particle) Integrate(force r2.Vec, cfg *Config) {
	p.Velocity = r2.Scale(cfg.Friction, r2.Add(p.Velocity, force))
	p.Position = r2.Add(p.Position, p.Velocity)

	switch cfg.Boundary {
	case BoundaryClamp:
		p.Position.X = clamp(p.Position.X, cfg.World.X/2)
		p.Position.Y = clamp(p.Position.Y, cfg.World.Y/2)
	case BoundaryWrap:
		p.Position.X = wrap(p.Position.X, cfg.World.X)
		p.Position.Y = wrap(p.Position.Y, cfg.World.Y)
	}
}

func clamp(v, half float64) float64 {
	return math.Max(-half, math.Min(half, v))
}

// wrap maps v into [-size/2, size/2).
func wrap(v, size float64) float64 {
	v = math.Mod(v+size/2, size)
	if v < 0 {
		v += size
		// a tiny negative remainder rounds up to size
		if v >= size {
			v -= size
		}
	}
	return v - size/2
}

// wrapDelta returns the shortest separation on a torus of the given size.
func wrapDelta(d, world r2.Vec) r2.Vec {
	if d.X > world.X/2 {
		d.X -= world.X
	} else if d.X < -world.X/2 {
		d.X += world.X
	}
	if d.Y > world.Y/2 {
		d.Y -= world.Y
	} else if d.Y < -world.Y/2 {
		d.Y += world.Y
	}
	return d
}
