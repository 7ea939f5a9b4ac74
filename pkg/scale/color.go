package scale

import "github.com/matzehuels/emberview/pkg/dataset"

// Palette is a fixed category-to-color table.
type Palette struct {
	keys     []string
	colors   map[string]string
	missing  string
	fallback string
}

// Swatch is one legend entry.
type Swatch struct {
	Key   string
	Color string
}

// NewPalette pairs keys with colors by position. missing is used for the
// empty key and fallback for any key not in the table.
func NewPalette(keys, colors []string, missing, fallback string) Palette {
	p := Palette{colors: make(map[string]string, len(keys)), missing: missing, fallback: fallback}
	for i, k := range keys {
		if i >= len(colors) {
			break
		}
		p.keys = append(p.keys, k)
		p.colors[k] = colors[i]
	}
	return p
}

// Color returns the color for key.
func (p Palette) Color(key string) string {
	if key == "" {
		return p.missing
	}
	if c, ok := p.colors[key]; ok {
		return c
	}
	return p.fallback
}

// Swatches returns the table entries in declaration order.
func (p Palette) Swatches() []Swatch {
	out := make([]Swatch, len(p.keys))
	for i, k := range p.keys {
		out[i] = Swatch{Key: k, Color: p.colors[k]}
	}
	return out
}

// Damage colors.
const (
	ColorNoDamage  = "#4CAF50"
	ColorAffected  = "#FFEB3B"
	ColorMinor     = "#FF9800"
	ColorMajor     = "#FF5722"
	ColorDestroyed = "#F44336"
	ColorUnknown   = "#9E9E9E"
	ColorFallback  = "#FFFFFF"
)

// DamageColors colors the six damage categories. A blank category is drawn
// as Unknown; any other unrecognized category is white.
var DamageColors = NewPalette(
	dataset.DamageCategories,
	[]string{ColorNoDamage, ColorAffected, ColorMinor, ColorMajor, ColorDestroyed, ColorUnknown},
	ColorUnknown,
	ColorFallback,
)
