package district

import (
	"sort"

	"github.com/sells-group/crime-map/internal/model"
	"github.com/sells-group/crime-map/internal/resolve"
)

// JoinResult is the outcome of attaching summaries to polygons.
type JoinResult struct {
	// Districts holds every input polygon in input order.
	Districts []model.DistrictPolygon
	// Unmatched lists summary keys with no polygon, sorted.
	Unmatched []model.CanonicalKey
}

// KeyPolygons sets each polygon's Key from its display name via table.
// The input slice is not modified.
func KeyPolygons(polygons []model.DistrictPolygon, table resolve.AliasTable) []model.DistrictPolygon {
	out := make([]model.DistrictPolygon, len(polygons))
	for i, p := range polygons {
		p.Key = resolve.Normalize(p.DisplayName, table)
		out[i] = p
	}
	return out
}

// Join left-joins summaries onto polygons by key. Polygons without a summary
// keep a nil Summary and are not reported.
func Join(polygons []model.DistrictPolygon, summaries []model.DistrictSummary) JoinResult {
	byKey := make(map[model.CanonicalKey]model.DistrictSummary, len(summaries))
	for _, s := range summaries {
		byKey[s.Key] = s
	}

	res := JoinResult{Districts: make([]model.DistrictPolygon, len(polygons))}
	seen := make(map[model.CanonicalKey]bool, len(polygons))
	for i, p := range polygons {
		p.Summary = nil
		if s, ok := byKey[p.Key]; ok {
			p.Summary = &s
		}
		seen[p.Key] = true
		res.Districts[i] = p
	}

	for key := range byKey {
		if !seen[key] {
			res.Unmatched = append(res.Unmatched, key)
		}
	}
	sort.Slice(res.Unmatched, func(i, j int) bool { return res.Unmatched[i] < res.Unmatched[j] })
	return res
}

// Matched returns the keys of polygons that received statistics, in polygon order.
func (r JoinResult) Matched() []model.CanonicalKey {
	var keys []model.CanonicalKey
	for _, d := range r.Districts {
		if d.Summary != nil {
			keys = append(keys, d.Key)
		}
	}
	return keys
}

// NoData returns the keys of polygons without statistics, in polygon order.
func (r JoinResult) NoData() []model.CanonicalKey {
	var keys []model.CanonicalKey
	for _, d := range r.Districts {
		if d.Summary == nil {
			keys = append(keys, d.Key)
		}
	}
	return keys
}
