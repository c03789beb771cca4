package stream

import (
	"errors"
	"testing"

	"github.com/olivierh59500/particle-life/internal/life"
)

func newEngine(t *testing.T) *life.Engine {
	t.Helper()
	cfg := life.DefaultConfig()
	cfg.Population = 20
	cfg.Species = 3
	cfg.Seed = 1
	e, err := life.NewEngine(cfg)
	if err != nil {
		t.Fatalf("NewEngine failed: %v", err)
	}
	return e
}

func TestApply_ConfigEdits(t *testing.T) {
	cases := []struct {
		msg   Control
		check func(life.Config) bool
	}{
		{Control{Type: "friction", Value: 0.5}, func(c life.Config) bool { return c.Friction == 0.5 }},
		{Control{Type: "min_distance", Value: 0.3}, func(c life.Config) bool { return c.MinDistance == 0.3 }},
		{Control{Type: "max_distance", Value: 80}, func(c life.Config) bool { return c.MaxDistance == 80 }},
		{Control{Type: "population", Value: 40}, func(c life.Config) bool { return c.Population == 40 }},
		{Control{Type: "species", Value: 5}, func(c life.Config) bool { return c.Species == 5 }},
		{Control{Type: "zoom", Value: 2}, func(c life.Config) bool { return c.Zoom == 2 }},
		{Control{Type: "particle_size", Value: 3}, func(c life.Config) bool { return c.ParticleSize == 3 }},
		{Control{Type: "offset_x", Value: -10}, func(c life.Config) bool { return c.ViewOffset.X == -10 }},
		{Control{Type: "offset_y", Value: 10}, func(c life.Config) bool { return c.ViewOffset.Y == 10 }},
		{Control{Type: "pause", Value: 1}, func(c life.Config) bool { return c.Paused }},
	}
	for _, tc := range cases {
		t.Run(tc.msg.Type, func(t *testing.T) {
			e := newEngine(t)
			if err := Apply(e, tc.msg); err != nil {
				t.Fatalf("Apply failed: %v", err)
			}
			if !tc.check(e.Config()) {
				t.Errorf("Expected %+v to be applied, got %+v", tc.msg, e.Config())
			}
		})
	}
}

func TestApply_Relation(t *testing.T) {
	e := newEngine(t)
	if err := Apply(e, Control{Type: "relation", Self: 2, Other: 1, Value: -0.15}); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if v, _ := e.Relation(2, 1); v != -0.15 {
		t.Errorf("Expected -0.15, got %v", v)
	}
	if err := Apply(e, Control{Type: "relation", Self: 3, Value: 0.1}); !errors.Is(err, life.ErrSpeciesIndex) {
		t.Errorf("Expected ErrSpeciesIndex, got %v", err)
	}
}

func TestApply_TogglePause(t *testing.T) {
	e := newEngine(t)
	if err := Apply(e, Control{Type: "toggle_pause"}); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if !e.Config().Paused {
		t.Error("Expected engine to be paused")
	}
}

func TestApply_Mutate(t *testing.T) {
	e := newEngine(t)
	before := e.Relations()
	if err := Apply(e, Control{Type: "mutate"}); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if e.Relations().Equal(before) {
		t.Error("Expected mutate to change the relation matrix")
	}
	if err := Apply(e, Control{Type: "mutate", Value: -1}); !errors.Is(err, life.ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig for negative sigma, got %v", err)
	}
}

func TestApply_Rejects(t *testing.T) {
	e := newEngine(t)
	if err := Apply(e, Control{Type: "species", Value: 100000}); !errors.Is(err, life.ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig for oversized species count, got %v", err)
	}
	if err := Apply(e, Control{Type: "population", Value: 3e9}); !errors.Is(err, life.ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig for oversized population, got %v", err)
	}
	if err := Apply(e, Control{Type: "friction", Value: 0}); !errors.Is(err, life.ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig, got %v", err)
	}
	if err := Apply(e, Control{Type: "gravity", Value: 1}); !errors.Is(err, ErrUnknownControl) {
		t.Errorf("Expected ErrUnknownControl, got %v", err)
	}
}
