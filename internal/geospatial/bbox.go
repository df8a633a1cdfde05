// Package geospatial holds the planar geometry helpers used to place a
// choropleth on screen: bounding boxes for the initial viewport and interior
// points for district labels.
package geospatial

import (
	"github.com/twpayne/go-geom"
)

// BBox represents a geographic bounding box.
type BBox struct {
	MinLng float64 `json:"min_lng"`
	MinLat float64 `json:"min_lat"`
	MaxLng float64 `json:"max_lng"`
	MaxLat float64 `json:"max_lat"`
}

// BoundsOf returns the union bounding box of geoms. Nil and empty geometries
// are skipped; ok is false when nothing contributed.
func BoundsOf(geoms []geom.T) (BBox, bool) {
	b := geom.NewBounds(geom.XY)
	for _, g := range geoms {
		if g == nil || len(g.FlatCoords()) == 0 {
			continue
		}
		b.Extend(g)
	}
	if b.IsEmpty() {
		return BBox{}, false
	}
	return BBox{
		MinLng: b.Min(0),
		MinLat: b.Min(1),
		MaxLng: b.Max(0),
		MaxLat: b.Max(1),
	}, true
}

// Pad grows the box by d degrees on every side.
func (b BBox) Pad(d float64) BBox {
	return BBox{
		MinLng: b.MinLng - d,
		MinLat: b.MinLat - d,
		MaxLng: b.MaxLng + d,
		MaxLat: b.MaxLat + d,
	}
}

// Center returns the midpoint of the box as (lng, lat).
func (b BBox) Center() geom.Coord {
	return geom.Coord{(b.MinLng + b.MaxLng) / 2, (b.MinLat + b.MaxLat) / 2}
}

// LeafletBounds returns the box in Leaflet's [[south, west], [north, east]]
// order.
func (b BBox) LeafletBounds() [2][2]float64 {
	return [2][2]float64{{b.MinLat, b.MinLng}, {b.MaxLat, b.MaxLng}}
}
