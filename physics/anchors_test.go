package physics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypeAnchorsEvenlySpaced(t *testing.T) {
	types := []string{"method", "dataset", "metric", "tool"}
	anchors := TypeAnchors(types, 800, 600)
	require.Len(t, anchors, 4)

	r := math.Sqrt(800*800+600*600) / 5
	for i, typ := range types {
		theta := 2 * math.Pi * float64(i) / 4
		a := anchors[typ]
		assert.InDelta(t, 400+r*math.Cos(theta), a.X, 1e-9)
		assert.InDelta(t, 300+r*math.Sin(theta), a.Y, 1e-9)
	}
}

func TestTypeAnchorsStableOrdering(t *testing.T) {
	types := []string{"method", "dataset"}
	first := TypeAnchors(types, 800, 600)
	second := TypeAnchors(types, 800, 600)
	assert.Equal(t, first, second)

	// Reordering the types reassigns the angles.
	swapped := TypeAnchors([]string{"dataset", "method"}, 800, 600)
	assert.Equal(t, first["method"], swapped["dataset"])
}

func TestTypeAnchorsEmpty(t *testing.T) {
	assert.Empty(t, TypeAnchors(nil, 800, 600))
}
