package boundary

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/sells-group/crime-map/internal/model"
)

func loadGeoJSON(path string, opts Options) ([]model.DistrictPolygon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "boundary: read %s", path)
	}

	var fc geojson.FeatureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, &model.ParseError{Path: path, Err: eris.Wrap(err, "decode feature collection")}
	}

	polygons := make([]model.DistrictPolygon, 0, len(fc.Features))
	for i, f := range fc.Features {
		if f == nil {
			return nil, model.NewParseError(path, i+1, "", "null feature")
		}
		name, ok := propertyString(f.Properties, opts.NameProperty)
		if !ok {
			return nil, model.NewParseError(path, i+1, opts.NameProperty, "feature has no district name")
		}
		if err := checkGeometry(f.Geometry); err != nil {
			return nil, &model.ParseError{Path: path, Row: i + 1, Column: "geometry", Err: err}
		}
		polygons = append(polygons, model.DistrictPolygon{
			DisplayName: name,
			Geometry:    f.Geometry,
		})
	}
	return polygons, nil
}
