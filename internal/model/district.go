package model

import "github.com/twpayne/go-geom"

// CanonicalKey is the normalized district identifier shared by incident and
// boundary data. Only resolve.Canonical should construct one.
type CanonicalKey string

// IncidentRecord is one (reporting unit, category) row of the incident table.
type IncidentRecord struct {
	Unit     string `csv:"unit" json:"unit"`
	Category string `csv:"category" json:"category"`
	Count    int    `csv:"count" json:"count"`
}

// DistrictSummary holds the aggregated statistics for one canonical key.
type DistrictSummary struct {
	Key              CanonicalKey `json:"key" yaml:"key"`
	TotalCount       int          `json:"total_count" yaml:"total_count"`
	TopCategory      string       `json:"top_category" yaml:"top_category"`
	TopCategoryCount int          `json:"top_category_count" yaml:"top_category_count"`
}

// DistrictPolygon is one boundary feature. Summary is nil when no incident
// data matched Key.
type DistrictPolygon struct {
	Key         CanonicalKey
	DisplayName string
	Geometry    geom.T
	Summary     *DistrictSummary
}

// HasGeometry reports whether the polygon carries a non-empty geometry.
func (p DistrictPolygon) HasGeometry() bool {
	if p.Geometry == nil {
		return false
	}
	return len(p.Geometry.FlatCoords()) > 0
}
