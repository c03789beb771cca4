package stream

import (
	"errors"
	"fmt"

	"github.com/olivierh59500/particle-life/internal/life"
)

// ErrUnknownControl is returned for control messages with an unknown type.
var ErrUnknownControl = errors.New("unknown control message")

// Control is a viewer's request to change the simulation.
type Control struct {
	Type  string  `json:"type"`
	Value float64 `json:"value"`
	// Self and Other address a relation cell for "relation" messages.
	Self  int `json:"self,omitempty"`
	Other int `json:"other,omitempty"`
}

// Controller is the engine surface a control message may touch.
type Controller interface {
	Update(fn func(*life.Config)) error
	SetRelation(self, other int, v float64) error
	TogglePause()
	RandomizeRelations()
	MutateRelations(sigma float64) error
}

// Apply routes msg to the engine. Values are validated by the engine.
func Apply(e Controller, msg Control) error {
	switch msg.Type {
	case "toggle_pause":
		e.TogglePause()
		return nil
	case "randomize":
		e.RandomizeRelations()
		return nil
	case "relation":
		return e.SetRelation(msg.Self, msg.Other, msg.Value)
	case "mutate":
		// a zero value asks for the default step
		sigma := msg.Value
		if sigma == 0 {
			sigma = life.DefaultMutationSigma
		}
		return e.MutateRelations(sigma)
	}

	var edit func(*life.Config)
	switch msg.Type {
	case "pause":
		edit = func(c *life.Config) { c.Paused = msg.Value != 0 }
	case "friction":
		edit = func(c *life.Config) { c.Friction = msg.Value }
	case "min_distance":
		edit = func(c *life.Config) { c.MinDistance = msg.Value }
	case "max_distance":
		edit = func(c *life.Config) { c.MaxDistance = msg.Value }
	case "population":
		edit = func(c *life.Config) { c.Population = int(msg.Value) }
	case "species":
		edit = func(c *life.Config) { c.Species = int(msg.Value) }
	case "zoom":
		edit = func(c *life.Config) { c.Zoom = msg.Value }
	case "particle_size":
		edit = func(c *life.Config) { c.ParticleSize = msg.Value }
	case "offset_x":
		edit = func(c *life.Config) { c.ViewOffset.X = msg.Value }
	case "offset_y":
		edit = func(c *life.Config) { c.ViewOffset.Y = msg.Value }
	default:
		return fmt.Errorf("%w: %q", ErrUnknownControl, msg.Type)
	}
	return e.Update(edit)
}
