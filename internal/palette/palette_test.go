package palette

import (
	"image/color"
	"testing"
)

func TestSpecies_FirstIsRedHue(t *testing.T) {
	c := Species(0, 4)
	if c.R != 255 || c.A != 255 {
		t.Errorf("Expected full red and alpha, got %v", c)
	}
	if c.G != c.B {
		t.Errorf("Expected equal green and blue at hue 0, got %v", c)
	}
}

func TestSpecies_Distinct(t *testing.T) {
	seen := map[color.RGBA]int{}
	for i := 0; i < 10; i++ {
		c := Species(i, 10)
		if prev, ok := seen[c]; ok {
			t.Errorf("species %d and %d share colour %v", prev, i, c)
		}
		seen[c] = i
	}
}

func TestSpecies_ZeroCountDoesNotPanic(t *testing.T) {
	if c := Species(3, 0); c.A != 255 {
		t.Errorf("Expected opaque colour, got %v", c)
	}
}
