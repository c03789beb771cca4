// Package palette assigns display colours to species.
package palette

import (
	"image/color"
	"math"
)

// Species returns the colour of species t out of n, spread evenly around
// the hue wheel.
func Species(t, n int) color.RGBA {
	if n < 1 {
		n = 1
	}
	h := float64(t%n) / float64(n) * 360
	r, g, b := hsvToRGB(h, 0.65, 1)
	return color.RGBA{uint8(r * 255), uint8(g * 255), uint8(b * 255), 255}
}

func hsvToRGB(h, s, v float64) (float64, float64, float64) {
	h = math.Mod(h, 360)
	c := v * s
	x := c * (1 - math.Abs(math.Mod(h/60, 2)-1))
	m := v - c
	var r, g, b float64
	switch {
	case h < 60:
		r, g, b = c, x, 0
	case h < 120:
		r, g, b = x, c, 0
	case h < 180:
		r, g, b = 0, c, x
	case h < 240:
		r, g, b = 0, x, c
	case h < 300:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}
	return r + m, g + m, b + m
}
