package render

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/papergraph/papergraph/interact"
)

func testFrame() *Frame {
	return &Frame{
		Width:      800,
		Height:     600,
		Background: "#f8f8f8",
		Alpha:      0.42,
		Transform:  interact.Transform{TX: 10, TY: -5, K: 1.5},
		Nodes: []*NodeSprite{
			{ID: "p", X: 100, Y: 100, Radius: 13.8, Color: "#EA4335", Opacity: 1,
				LabelLines: []string{"low-resource", "QA <multilingual>"}},
			{ID: "m", X: 200, Y: 150, Radius: 12.6, Color: "#4285F4", Opacity: 0.2},
		},
		Edges: []EdgeSprite{
			{Source: "p", Target: "m", X1: 100, Y1: 100, X2: 200, Y2: 150, Width: 1.95, Opacity: 1, Label: "uses"},
		},
		Tooltip: &Tooltip{Visible: true, X: 262, Y: 132, Label: "low-resource QA", TypeLabel: "Research Problem", Confidence: "92%"},
	}
}

func TestGetRenderer(t *testing.T) {
	for _, format := range []string{"svg", "SVG", "json"} {
		r, err := GetRenderer(format)
		require.NoError(t, err)
		assert.NotEmpty(t, r.Name())
		assert.NotEmpty(t, r.Description())
	}

	_, err := GetRenderer("webgl")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported output format")
}

func TestSVGRendererDrawsScene(t *testing.T) {
	r := &SVGRenderer{ShowLabels: true}
	out, err := r.Render(testFrame())
	require.NoError(t, err)
	svg := string(out)

	assert.Contains(t, svg, `<svg width="800`)
	assert.Contains(t, svg, `translate(10.000000,-5.000000) scale(1.500000)`)
	assert.Contains(t, svg, `fill="#EA4335"`)
	assert.Contains(t, svg, `fill-opacity="0.200000"`, "dimmed node keeps its reduced opacity")
	assert.Contains(t, svg, `stroke-width="1.950000"`)
	assert.Contains(t, svg, "QA &lt;multilingual&gt;", "label text is XML-escaped")
	assert.Contains(t, svg, "Research Problem", "tooltip content is drawn")
}

func TestSVGRendererEmptyState(t *testing.T) {
	r := &SVGRenderer{}
	out, err := r.Render(&Frame{Width: 800, Height: 600, Background: "#f8f8f8", Empty: true})
	require.NoError(t, err)
	svg := string(out)

	assert.Contains(t, svg, "nothing to render")
	assert.NotContains(t, svg, "<circle")
	assert.NotContains(t, svg, "<line")
}

func TestSVGRendererLabelToggles(t *testing.T) {
	frame := testFrame()

	out, err := (&SVGRenderer{}).Render(frame)
	require.NoError(t, err)
	assert.NotContains(t, string(out), "<tspan")

	out, err = (&SVGRenderer{ShowEdgeLabels: true}).Render(frame)
	require.NoError(t, err)
	assert.Contains(t, string(out), ">uses</text>")
}

func TestJSONRendererRoundTrip(t *testing.T) {
	out, err := (&JSONRenderer{}).Render(testFrame())
	require.NoError(t, err)

	var decoded Frame
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Equal(t, 0.42, decoded.Alpha)
	require.Len(t, decoded.Nodes, 2)
	assert.Equal(t, "p", decoded.Nodes[0].ID)
	assert.Equal(t, 1.5, decoded.Transform.K)
	require.NotNil(t, decoded.Tooltip)
	assert.Equal(t, "92%", decoded.Tooltip.Confidence)
}

func TestEscapeXML(t *testing.T) {
	assert.Equal(t, "A &amp; B &lt;test&gt; &quot;q&quot;", escapeXML(`A & B <test> "q"`))
}
