package viz

import (
	"fmt"
	"math"
)

// Viridis-style anchors for value-scaled bar coloring, low to high.
var rampAnchors = [][3]int{
	{68, 1, 84},
	{59, 82, 139},
	{33, 145, 140},
	{94, 201, 98},
	{253, 231, 37},
}

// rampColor maps a value in [0, max] onto the ramp and returns a hex color.
func rampColor(value, max float64) string {
	if max <= 0 {
		return hex(rampAnchors[0])
	}

	// A missing value reads as the bottom of the ramp.
	t := value / max
	if math.IsNaN(t) || t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}

	segments := len(rampAnchors) - 1
	pos := t * float64(segments)
	i := int(pos)
	if i >= segments {
		return hex(rampAnchors[segments])
	}
	frac := pos - float64(i)

	lo, hi := rampAnchors[i], rampAnchors[i+1]
	return hex([3]int{
		lo[0] + int(frac*float64(hi[0]-lo[0])),
		lo[1] + int(frac*float64(hi[1]-lo[1])),
		lo[2] + int(frac*float64(hi[2]-lo[2])),
	})
}

func hex(rgb [3]int) string {
	return fmt.Sprintf("#%02x%02x%02x", rgb[0], rgb[1], rgb[2])
}
