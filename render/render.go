// Package render draws frames produced by the layout session. Renderers
// are stateless with respect to layout: they consume a Frame and emit
// bytes in their format.
package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Options defines rendering configuration.
type Options struct {
	Width          float64
	Height         float64
	Background     string
	FontSize       float64
	EdgeWidth      float64
	LabelWidth     int
	LabelLines     int
	TooltipOffset  float64
	ShowLabels     bool
	ShowEdgeLabels bool
}

// DefaultOptions returns the rendering defaults for the paper graph
// view.
func DefaultOptions() Options {
	return Options{
		Width:         800,
		Height:        600,
		Background:    "#f8f8f8",
		FontSize:      10,
		EdgeWidth:     1.5,
		LabelWidth:    16,
		LabelLines:    3,
		TooltipOffset: 12,
		ShowLabels:    true,
	}
}

func (o *Options) applyDefaults() {
	d := DefaultOptions()
	if o.Width == 0 {
		o.Width = d.Width
	}
	if o.Height == 0 {
		o.Height = d.Height
	}
	if o.Background == "" {
		o.Background = d.Background
	}
	if o.FontSize == 0 {
		o.FontSize = d.FontSize
	}
	if o.EdgeWidth == 0 {
		o.EdgeWidth = d.EdgeWidth
	}
	if o.LabelWidth == 0 {
		o.LabelWidth = d.LabelWidth
	}
	if o.LabelLines == 0 {
		o.LabelLines = d.LabelLines
	}
	if o.TooltipOffset == 0 {
		o.TooltipOffset = d.TooltipOffset
	}
}

// Renderer is a frame drawing backend.
type Renderer interface {
	// Render draws a single frame.
	Render(frame *Frame) ([]byte, error)

	// Name returns the name of the renderer.
	Name() string

	// Description returns a description of the renderer.
	Description() string
}

// GetRenderer returns the renderer for a format key.
func GetRenderer(format string) (Renderer, error) {
	switch strings.ToLower(format) {
	case "svg":
		return &SVGRenderer{ShowLabels: true}, nil
	case "json":
		return &JSONRenderer{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

// SVGRenderer draws frames as standalone SVG documents.
type SVGRenderer struct {
	ShowLabels     bool
	ShowEdgeLabels bool
	FontSize       float64
}

// Name returns the name of the renderer.
func (r *SVGRenderer) Name() string { return "SVG Renderer" }

// Description returns a description of the renderer.
func (r *SVGRenderer) Description() string {
	return "Renders frames as Scalable Vector Graphics for vector output"
}

// Render creates an SVG representation of the frame. The pan/zoom
// transform is applied as a group transform; the tooltip is drawn in
// screen space on top.
func (r *SVGRenderer) Render(frame *Frame) ([]byte, error) {
	fontSize := r.FontSize
	if fontSize == 0 {
		fontSize = 10
	}

	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8" standalone="no"?>
<svg width="%f" height="%f" viewBox="0 0 %f %f" xmlns="http://www.w3.org/2000/svg">
<rect width="100%%" height="100%%" fill="%s"/>
`, frame.Width, frame.Height, frame.Width, frame.Height, frame.Background))

	if frame.Empty {
		buf.WriteString(fmt.Sprintf(`<text x="%f" y="%f" font-family="sans-serif" font-size="%f" fill="#808080" text-anchor="middle">nothing to render</text>
`, frame.Width/2, frame.Height/2, fontSize*1.4))
		buf.WriteString("</svg>")
		return buf.Bytes(), nil
	}

	t := frame.Transform
	buf.WriteString(fmt.Sprintf(`<g transform="translate(%f,%f) scale(%f)">
`, t.TX, t.TY, t.K))

	for _, e := range frame.Edges {
		buf.WriteString(fmt.Sprintf(`<line x1="%f" y1="%f" x2="%f" y2="%f" stroke="#666666" stroke-width="%f" stroke-opacity="%f"/>
`, e.X1, e.Y1, e.X2, e.Y2, e.Width, e.Opacity))
		if r.ShowEdgeLabels && e.Label != "" {
			buf.WriteString(fmt.Sprintf(`<text x="%f" y="%f" font-family="sans-serif" font-size="%f" fill="#666666" fill-opacity="%f" text-anchor="middle">%s</text>
`, (e.X1+e.X2)/2, (e.Y1+e.Y2)/2, fontSize*0.8, e.Opacity, escapeXML(e.Label)))
		}
	}

	for _, n := range frame.Nodes {
		buf.WriteString(fmt.Sprintf(`<circle cx="%f" cy="%f" r="%f" fill="%s" fill-opacity="%f" stroke="rgba(0,0,0,0.3)" stroke-width="0.5"/>
`, n.X, n.Y, n.Radius, n.Color, n.Opacity))
		if r.ShowLabels && len(n.LabelLines) > 0 {
			labelY := n.Y + n.Radius + fontSize + 2
			buf.WriteString(fmt.Sprintf(`<text x="%f" y="%f" font-family="sans-serif" font-size="%f" fill="#333333" fill-opacity="%f" text-anchor="middle">`,
				n.X, labelY, fontSize, n.Opacity))
			for i, line := range n.LabelLines {
				dy := "0"
				if i > 0 {
					dy = fmt.Sprintf("%f", fontSize*1.2)
				}
				buf.WriteString(fmt.Sprintf(`<tspan x="%f" dy="%s">%s</tspan>`, n.X, dy, escapeXML(line)))
			}
			buf.WriteString("</text>\n")
		}
	}

	buf.WriteString("</g>\n")

	if frame.Tooltip != nil && frame.Tooltip.Visible {
		tt := frame.Tooltip
		text := tt.Label + " · " + tt.TypeLabel
		if tt.Confidence != "" {
			text += " · " + tt.Confidence
		}
		boxW := float64(len(text))*fontSize*0.6 + 12
		buf.WriteString(fmt.Sprintf(`<g>
<rect x="%f" y="%f" width="%f" height="%f" rx="4" fill="rgba(0,0,0,0.75)"/>
<text x="%f" y="%f" font-family="sans-serif" font-size="%f" fill="#ffffff">%s</text>
</g>
`, tt.X, tt.Y, boxW, fontSize*2, tt.X+6, tt.Y+fontSize*1.3, fontSize, escapeXML(text)))
	}

	buf.WriteString("</svg>")
	return buf.Bytes(), nil
}

// JSONRenderer emits the frame as JSON for machine consumption or
// custom front ends.
type JSONRenderer struct{}

// Name returns the name of the renderer.
func (r *JSONRenderer) Name() string { return "JSON Renderer" }

// Description returns a description of the renderer.
func (r *JSONRenderer) Description() string {
	return "Renders frames as JSON data for machine consumption"
}

// Render marshals the frame.
func (r *JSONRenderer) Render(frame *Frame) ([]byte, error) {
	return json.MarshalIndent(frame, "", "  ")
}

func escapeXML(s string) string {
	replacer := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
	)
	return replacer.Replace(s)
}
