// Package boundary loads district boundary polygons from GeoJSON feature
// collections and ESRI shapefiles.
package boundary

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"go.uber.org/zap"

	"github.com/sells-group/crime-map/internal/model"
)

// Options configures how boundary features are read.
type Options struct {
	NameProperty string // feature property holding the district name (default "D_N")
}

// DefaultOptions returns the property layout of the state district GeoJSON.
func DefaultOptions() Options {
	return Options{NameProperty: "D_N"}
}

// Load reads the boundary collection at path. The format is picked from the
// extension: .geojson/.json or .shp. Returned polygons carry a display name
// and geometry only; Key and Summary are left for the caller.
func Load(path string, opts Options) ([]model.DistrictPolygon, error) {
	if opts.NameProperty == "" {
		opts.NameProperty = DefaultOptions().NameProperty
	}

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, eris.Wrapf(model.ErrNotFound, "boundary: %s", path)
		}
		return nil, eris.Wrapf(err, "boundary: stat %s", path)
	}

	var (
		polygons []model.DistrictPolygon
		err      error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".geojson", ".json":
		polygons, err = loadGeoJSON(path, opts)
	case ".shp":
		polygons, err = loadShapefile(path, opts)
	default:
		return nil, eris.Errorf("boundary: unsupported file type %q", ext)
	}
	if err != nil {
		return nil, err
	}

	var withoutGeom int
	for _, p := range polygons {
		if !p.HasGeometry() {
			withoutGeom++
		}
	}
	zap.L().Debug("boundaries loaded",
		zap.String("component", "boundary.loader"),
		zap.String("path", path),
		zap.Int("features", len(polygons)),
		zap.Int("without_geometry", withoutGeom),
	)
	return polygons, nil
}

// checkGeometry accepts nil, Polygon and MultiPolygon geometries.
func checkGeometry(g geom.T) error {
	switch g.(type) {
	case nil, *geom.Polygon, *geom.MultiPolygon:
		return nil
	default:
		return fmt.Errorf("unsupported geometry type %T", g)
	}
}

// propertyString finds a property by case-insensitive name and renders it
// as a trimmed string.
func propertyString(props map[string]any, name string) (string, bool) {
	v, ok := props[name]
	if !ok {
		for k, pv := range props {
			if strings.EqualFold(k, name) {
				v, ok = pv, true
				break
			}
		}
	}
	if !ok || v == nil {
		return "", false
	}
	var s string
	switch tv := v.(type) {
	case string:
		s = tv
	case float64:
		s = fmt.Sprintf("%g", tv)
	default:
		s = fmt.Sprint(tv)
	}
	s = strings.TrimSpace(s)
	return s, s != ""
}
