package physics

import "math"

// Anchor is the fixed point a semantic type's nodes are pulled toward.
type Anchor struct {
	X float64
	Y float64
}

// TypeAnchors arranges one anchor per type evenly around a circle of
// radius diagonal/5 centered on the canvas. The order of the type slice
// fixes the angular assignment, so a stable ordering gives a stable
// arrangement. Pure function; recompute whenever the visible type set or
// the canvas changes.
func TypeAnchors(types []string, width, height float64) map[string]Anchor {
	anchors := make(map[string]Anchor, len(types))
	if len(types) == 0 {
		return anchors
	}

	r := math.Sqrt(width*width+height*height) / 5
	cx, cy := width/2, height/2
	n := float64(len(types))
	for i, t := range types {
		theta := 2 * math.Pi * float64(i) / n
		anchors[t] = Anchor{
			X: cx + r*math.Cos(theta),
			Y: cy + r*math.Sin(theta),
		}
	}
	return anchors
}
