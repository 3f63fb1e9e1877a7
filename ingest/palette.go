package ingest

import "github.com/papergraph/papergraph/models"

// Palette provides color cycles for graphs whose types are not covered
// by the default registry (e.g. ad hoc extraction schemas).
type Palette struct {
	NodeColors []string
	EdgeColor  string
	Background string
}

// DefaultPalette returns a vibrant palette for light backgrounds.
func DefaultPalette() *Palette {
	return &Palette{
		NodeColors: []string{
			"#4285F4", // blue
			"#EA4335", // red
			"#FBBC05", // yellow
			"#34A853", // green
			"#673AB7", // purple
			"#3F51B5", // indigo
			"#00BCD4", // cyan
			"#009688", // teal
			"#FF5722", // deep orange
		},
		EdgeColor:  "#666666",
		Background: "#f8f8f8",
	}
}

// DarkPalette returns a high-contrast palette for dark backgrounds.
func DarkPalette() *Palette {
	return &Palette{
		NodeColors: []string{
			"#FF6D00", "#2979FF", "#00E676", "#F50057",
			"#651FFF", "#C6FF00", "#FF3D00", "#00B0FF", "#76FF03",
		},
		EdgeColor:  "#9E9E9E",
		Background: "#212121",
	}
}

// Registry builds a type registry for the given types, assigning palette
// colors in order and cycling when the palette runs out.
func (p *Palette) Registry(types []string) *models.TypeRegistry {
	base := models.DefaultRegistry()
	reg := &models.TypeRegistry{
		Colors:       make(map[string]string, len(types)),
		Labels:       make(map[string]string, len(types)),
		Sizes:        make(map[string]float64, len(types)),
		DefaultColor: base.DefaultColor,
		DefaultSize:  base.DefaultSize,
		BaseRadius:   base.BaseRadius,
	}
	for i, t := range types {
		reg.Colors[t] = p.NodeColors[i%len(p.NodeColors)]
		reg.Labels[t] = base.Label(t)
		reg.Sizes[t] = base.Size(t)
	}
	return reg
}
