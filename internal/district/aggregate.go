// Package district turns incident rows into per-district statistics and
// attaches them to boundary polygons.
package district

import (
	"sort"

	"go.uber.org/zap"

	"github.com/sells-group/crime-map/internal/incident"
	"github.com/sells-group/crime-map/internal/model"
	"github.com/sells-group/crime-map/internal/resolve"
)

// Tagged is an incident record paired with its canonical district key.
type Tagged struct {
	Key    model.CanonicalKey
	Record model.IncidentRecord
}

// Tag resolves the reporting unit of every record through table. Rows whose
// unit or category is a Total marker are dropped.
func Tag(records []model.IncidentRecord, table resolve.AliasTable) []Tagged {
	tagged := make([]Tagged, 0, len(records))
	for _, r := range records {
		if incident.IsTotal(r.Unit) || incident.IsTotal(r.Category) {
			continue
		}
		tagged = append(tagged, Tagged{Key: resolve.Normalize(r.Unit, table), Record: r})
	}
	return tagged
}

// Aggregate folds tagged rows into one summary per key, sorted by key.
//
// Counts for the same category under one key are summed before the top
// category is chosen. Ties on the top count go to the category name that
// sorts first.
func Aggregate(tagged []Tagged) []model.DistrictSummary {
	byKey := make(map[model.CanonicalKey]map[string]int)
	for _, t := range tagged {
		cats, ok := byKey[t.Key]
		if !ok {
			cats = make(map[string]int)
			byKey[t.Key] = cats
		}
		cats[t.Record.Category] += t.Record.Count
	}

	summaries := make([]model.DistrictSummary, 0, len(byKey))
	for key, cats := range byKey {
		s := model.DistrictSummary{Key: key}
		first := true
		for cat, n := range cats {
			s.TotalCount += n
			if first || n > s.TopCategoryCount || (n == s.TopCategoryCount && cat < s.TopCategory) {
				s.TopCategory = cat
				s.TopCategoryCount = n
				first = false
			}
		}
		summaries = append(summaries, s)
	}
	sort.Slice(summaries, func(i, j int) bool { return summaries[i].Key < summaries[j].Key })

	zap.L().Debug("districts aggregated",
		zap.String("component", "district.aggregate"),
		zap.Int("rows", len(tagged)),
		zap.Int("districts", len(summaries)),
	)
	return summaries
}
