// Package choropleth builds and renders the interactive district map: a
// coloured fill layer, a transparent hover layer with tooltips and a layer of
// fixed district labels over a base tile layer.
package choropleth

import (
	"fmt"
	"math"
	"strconv"
)

// YlOrRd6 is the six-class ColorBrewer yellow-orange-red sequential scheme.
var YlOrRd6 = []string{"#ffffb2", "#fed976", "#feb24c", "#fd8d3c", "#f03b20", "#bd0026"}

// LegendEntry is one swatch of the map legend.
type LegendEntry struct {
	Color  string  `json:"color"`
	Label  string  `json:"label"`
	Low    float64 `json:"low"`
	High   float64 `json:"high"`
	NoData bool    `json:"noData,omitempty"`
}

// ColorScale maps values onto equal-width bins between the minimum and
// maximum observed value, one bin per palette colour.
type ColorScale struct {
	Min     float64
	Max     float64
	Palette []string
	empty   bool
}

// NewColorScale builds a scale over values. A nil palette selects YlOrRd6.
func NewColorScale(values []float64, palette []string) ColorScale {
	if len(palette) == 0 {
		palette = YlOrRd6
	}
	s := ColorScale{Palette: palette, empty: len(values) == 0}
	if s.empty {
		return s
	}
	s.Min, s.Max = math.Inf(1), math.Inf(-1)
	for _, v := range values {
		s.Min = math.Min(s.Min, v)
		s.Max = math.Max(s.Max, v)
	}
	return s
}

// Thresholds returns the len(Palette)+1 bin edges from Min to Max.
func (s ColorScale) Thresholds() []float64 {
	n := len(s.Palette)
	edges := make([]float64, n+1)
	step := (s.Max - s.Min) / float64(n)
	for i := range edges {
		edges[i] = s.Min + step*float64(i)
	}
	edges[n] = s.Max
	return edges
}

// Color returns the colour of the bin holding v. Values outside the domain
// are clamped to the first or last bin. When every value is equal the last
// bin is used.
func (s ColorScale) Color(v float64) string {
	n := len(s.Palette)
	if n == 0 {
		return ""
	}
	if s.Max <= s.Min {
		return s.Palette[n-1]
	}
	idx := int((v - s.Min) / (s.Max - s.Min) * float64(n))
	if idx >= n {
		idx = n - 1
	}
	if idx < 0 {
		idx = 0
	}
	return s.Palette[idx]
}

// Legend lists one entry per bin, low to high. An empty scale has no entries.
func (s ColorScale) Legend() []LegendEntry {
	if s.empty {
		return nil
	}
	edges := s.Thresholds()
	entries := make([]LegendEntry, len(s.Palette))
	for i, c := range s.Palette {
		entries[i] = LegendEntry{
			Color: c,
			Low:   edges[i],
			High:  edges[i+1],
			Label: fmt.Sprintf("%s - %s", formatValue(edges[i]), formatValue(edges[i+1])),
		}
	}
	return entries
}

func formatValue(v float64) string {
	return strconv.FormatFloat(math.Round(v*10)/10, 'f', -1, 64)
}
