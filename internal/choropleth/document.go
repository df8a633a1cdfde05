package choropleth

import (
	"encoding/json"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
	"go.uber.org/zap"

	"github.com/sells-group/crime-map/internal/geospatial"
	"github.com/sells-group/crime-map/internal/model"
)

// TileLayer is the base map.
type TileLayer struct {
	URL         string `json:"url"`
	Attribution string `json:"attribution"`
	Subdomains  string `json:"subdomains,omitempty"`
	MaxZoom     int    `json:"maxZoom"`
}

// Style controls polygon appearance.
type Style struct {
	FillOpacity     float64 `json:"fillOpacity"`
	LineOpacity     float64 `json:"lineOpacity"`
	LineColor       string  `json:"lineColor"`
	NoDataColor     string  `json:"noDataColor"`
	HighlightColor  string  `json:"highlightColor"`
	HighlightWeight float64 `json:"highlightWeight"`
}

// Options configures Build.
type Options struct {
	Title   string
	Caption string // legend heading
	Tiles   TileLayer
	Style   Style
	Palette []string
	MinZoom int
	Padding float64 // degrees added around the data extent
}

// DefaultOptions returns the stock map look: CARTO Positron tiles, YlOrRd-6
// fills and a half-degree viewport margin.
func DefaultOptions() Options {
	return Options{
		Title:   "Crime map",
		Caption: "Total crimes (2014)",
		Tiles: TileLayer{
			URL:         "https://{s}.basemaps.cartocdn.com/light_all/{z}/{x}/{y}{r}.png",
			Attribution: `&copy; <a href="https://www.openstreetmap.org/copyright">OpenStreetMap</a> contributors &copy; <a href="https://carto.com/attributions">CARTO</a>`,
			Subdomains:  "abcd",
			MaxZoom:     20,
		},
		Style: Style{
			FillOpacity:     0.7,
			LineOpacity:     0.2,
			LineColor:       "#000000",
			NoDataColor:     "#bdbdbd",
			HighlightColor:  "#666666",
			HighlightWeight: 3,
		},
		Palette: YlOrRd6,
		MinZoom: 7,
		Padding: 0.5,
	}
}

// withDefaults fills empty strings and the palette. Numeric fields are taken
// as given so zero stays expressible.
func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Title == "" {
		o.Title = d.Title
	}
	if o.Caption == "" {
		o.Caption = d.Caption
	}
	if o.Tiles.URL == "" {
		o.Tiles = d.Tiles
	}
	if o.Tiles.MaxZoom == 0 {
		o.Tiles.MaxZoom = d.Tiles.MaxZoom
	}
	if len(o.Palette) == 0 {
		o.Palette = d.Palette
	}
	if o.Style.LineColor == "" {
		o.Style.LineColor = d.Style.LineColor
	}
	if o.Style.NoDataColor == "" {
		o.Style.NoDataColor = d.Style.NoDataColor
	}
	if o.Style.HighlightColor == "" {
		o.Style.HighlightColor = d.Style.HighlightColor
	}
	if o.Style.HighlightWeight == 0 {
		o.Style.HighlightWeight = d.Style.HighlightWeight
	}
	return o
}

// Label is a fixed text marker placed inside a district.
type Label struct {
	Key  model.CanonicalKey `json:"key"`
	Text string             `json:"text"`
	Lat  float64            `json:"lat"`
	Lng  float64            `json:"lng"`
}

// FeatureProperties are the per-district values read by the map layers.
// Statistic fields are null for districts without data.
type FeatureProperties struct {
	Key         model.CanonicalKey `json:"key"`
	Name        string             `json:"name"`
	Fill        string             `json:"fill"`
	HasData     bool               `json:"hasData"`
	Total       *int               `json:"total"`
	TopCategory *string            `json:"topCategory"`
	TopCount    *int               `json:"topCount"`
}

// Feature is a GeoJSON feature. Geometry is pre-encoded and is null for
// districts without a shape.
type Feature struct {
	Type       string            `json:"type"`
	Geometry   json.RawMessage   `json:"geometry"`
	Properties FeatureProperties `json:"properties"`
}

// FeatureCollection is a GeoJSON feature collection shared by the fill and
// hover layers.
type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

// Document is everything the page script needs to draw the map.
type Document struct {
	Title     string            `json:"title"`
	Caption   string            `json:"caption"`
	Tiles     TileLayer         `json:"tiles"`
	Style     Style             `json:"style"`
	MinZoom   int               `json:"minZoom"`
	Bounds    [2][2]float64     `json:"bounds"`
	Legend    []LegendEntry     `json:"legend"`
	Districts FeatureCollection `json:"districts"`
	Labels    []Label           `json:"labels"`
}

var nullGeometry = json.RawMessage("null")

// Build assembles the map document for the joined districts. Every district
// appears exactly once in the feature collection. It fails only when no
// district has a geometry to frame the view.
func Build(districts []model.DistrictPolygon, opts Options) (*Document, error) {
	log := zap.L().With(zap.String("component", "choropleth.build"))
	opts = opts.withDefaults()

	geoms := make([]geom.T, 0, len(districts))
	var totals []float64
	for _, d := range districts {
		if d.HasGeometry() {
			geoms = append(geoms, d.Geometry)
		}
		if d.Summary != nil {
			totals = append(totals, float64(d.Summary.TotalCount))
		}
	}

	bbox, ok := geospatial.BoundsOf(geoms)
	if !ok {
		return nil, eris.New("choropleth: no district has a geometry")
	}
	bbox = bbox.Pad(opts.Padding)

	scale := NewColorScale(totals, opts.Palette)
	legend := append(scale.Legend(), LegendEntry{
		Color:  opts.Style.NoDataColor,
		Label:  "No data",
		NoData: true,
	})

	fc := FeatureCollection{Type: "FeatureCollection", Features: make([]Feature, 0, len(districts))}
	for _, d := range districts {
		f, err := feature(d, scale, opts.Style)
		if err != nil {
			return nil, err
		}
		fc.Features = append(fc.Features, f)
	}

	labels := Labels(districts)
	log.Debug("document built",
		zap.Int("features", len(fc.Features)),
		zap.Int("with_data", len(totals)),
		zap.Int("labels", len(labels)),
	)

	return &Document{
		Title:     opts.Title,
		Caption:   opts.Caption,
		Tiles:     opts.Tiles,
		Style:     opts.Style,
		MinZoom:   opts.MinZoom,
		Bounds:    bbox.LeafletBounds(),
		Legend:    legend,
		Districts: fc,
		Labels:    labels,
	}, nil
}

func feature(d model.DistrictPolygon, scale ColorScale, style Style) (Feature, error) {
	f := Feature{
		Type:     "Feature",
		Geometry: nullGeometry,
		Properties: FeatureProperties{
			Key:  d.Key,
			Name: d.DisplayName,
			Fill: style.NoDataColor,
		},
	}
	if d.HasGeometry() {
		raw, err := geojson.Marshal(d.Geometry)
		if err != nil {
			return Feature{}, eris.Wrapf(err, "choropleth: encode geometry for %s", d.Key)
		}
		f.Geometry = raw
	}
	if s := d.Summary; s != nil {
		total, top, topCount := s.TotalCount, s.TopCategory, s.TopCategoryCount
		f.Properties.HasData = true
		f.Properties.Total = &total
		f.Properties.TopCategory = &top
		f.Properties.TopCount = &topCount
		f.Properties.Fill = scale.Color(float64(total))
	}
	return f, nil
}

// LabelFor places the district's label at an interior point of its
// geometry. ok is false when the district has no usable geometry.
func LabelFor(d model.DistrictPolygon) (Label, bool) {
	if !d.HasGeometry() {
		return Label{}, false
	}
	c, ok := geospatial.InteriorPoint(d.Geometry)
	if !ok {
		return Label{}, false
	}
	return Label{Key: d.Key, Text: d.DisplayName, Lng: c[0], Lat: c[1]}, true
}

// Labels maps LabelFor over districts, skipping those without geometry.
func Labels(districts []model.DistrictPolygon) []Label {
	labels := make([]Label, 0, len(districts))
	for _, d := range districts {
		l, ok := LabelFor(d)
		if !ok {
			zap.L().Debug("label skipped, no geometry",
				zap.String("component", "choropleth.labels"),
				zap.String("district", string(d.Key)),
			)
			continue
		}
		labels = append(labels, l)
	}
	return labels
}
