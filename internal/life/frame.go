package life

import "gonum.org/v1/gonum/spatial/r2"

// Body is the renderable part of a particle.
type Body struct {
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Species int     `json:"s"`
}

// Frame is what a renderer needs to draw one completed tick.
type Frame struct {
	Tick    uint64 `json:"tick"`
	Paused  bool   `json:"paused"`
	Species int    `json:"species"`
	Bodies  []Body `json:"bodies"`

	World        r2.Vec  `json:"world"`
	ViewOffset   r2.Vec  `json:"offset"`
	Zoom         float64 `json:"zoom"`
	ParticleSize float64 `json:"size"`
}

// Snapshot copies the state a renderer reads after a tick.
func (e *Engine) Snapshot() Frame {
	e.mu.Lock()
	defer e.mu.Unlock()

	bodies := make([]Body, len(e.particles))
	for i, p := range e.particles {
		bodies[i] = Body{X: p.Position.X, Y: p.Position.Y, Species: p.Species}
	}
	return Frame{
		Tick:         e.ticks,
		Paused:       e.cfg.Paused,
		Species:      e.species,
		Bodies:       bodies,
		World:        e.cfg.World,
		ViewOffset:   e.cfg.ViewOffset,
		Zoom:         e.cfg.Zoom,
		ParticleSize: e.cfg.ParticleSize,
	}
}

// Project maps a world position to screen coordinates for a screen of the
// given size, centring the world origin and applying offset and zoom.
func (f *Frame) Project(x, y, screenW, screenH float64) (float64, float64) {
	return screenW/2 + x*f.Zoom + f.ViewOffset.X, screenH/2 + y*f.Zoom + f.ViewOffset.Y
}
