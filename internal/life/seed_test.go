package life

import (
	"math"
	"math/rand/v2"
	"testing"
)

func TestUniformSeeder(t *testing.T) {
	s := UniformSeeder{Range: 0.5, Quantize: true, Rand: rand.New(rand.NewPCG(3, 4))}
	for i := 0; i < 200; i++ {
		v := s.Coefficient(0, 0)
		if v < -0.5 || v > 0.5 {
			t.Fatalf("value %v outside ±0.5", v)
		}
		if scaled := v * 1000; math.Abs(scaled-math.Round(scaled)) > 1e-6 {
			t.Fatalf("value %v not quantized to 3 decimals", v)
		}
	}
}

func TestNoiseSeeder(t *testing.T) {
	a := NewNoiseSeeder(0.2, false, 99)
	b := NewNoiseSeeder(0.2, false, 99)

	distinct := map[float64]bool{}
	for i := 0; i < 8; i++ {
		for j := 0; j < 8; j++ {
			va, vb := a.Coefficient(i, j), b.Coefficient(i, j)
			if va != vb {
				t.Fatalf("(%d, %d): same seed gave %v and %v", i, j, va, vb)
			}
			if va < -0.2 || va > 0.2 {
				t.Fatalf("(%d, %d): value %v outside ±0.2", i, j, va)
			}
			distinct[va] = true
		}
	}
	if len(distinct) < 2 {
		t.Error("Expected the noise field to vary across species")
	}
}

func TestNewSeeder(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 1))
	cfg := DefaultConfig()

	if _, ok := newSeeder(&cfg, rng, 1).(ZeroSeeder); !ok {
		t.Error("Expected ZeroSeeder for zero policy")
	}
	cfg.Seeding = SeedUniform
	if _, ok := newSeeder(&cfg, rng, 1).(UniformSeeder); !ok {
		t.Error("Expected UniformSeeder for uniform policy")
	}
	cfg.Seeding = SeedNoise
	if _, ok := newSeeder(&cfg, rng, 1).(NoiseSeeder); !ok {
		t.Error("Expected NoiseSeeder for noise policy")
	}
}
