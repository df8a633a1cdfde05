package boundary

import (
	"fmt"
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"go.uber.org/zap"

	"github.com/sells-group/crime-map/internal/model"
)

func loadShapefile(path string, opts Options) ([]model.DistrictPolygon, error) {
	reader, err := shp.Open(path)
	if err != nil {
		return nil, &model.ParseError{Path: path, Err: eris.Wrap(err, "open shapefile")}
	}
	defer func() { _ = reader.Close() }()

	nameIdx := fieldIndex(reader, opts.NameProperty)
	if nameIdx < 0 {
		return nil, model.NewParseError(path, 0, opts.NameProperty, "required shapefile field not found")
	}

	var polygons []model.DistrictPolygon
	for reader.Next() {
		n, shape := reader.Shape()
		row := n + 1

		name := strings.TrimSpace(strings.TrimRight(reader.Attribute(nameIdx), "\x00"))
		if name == "" {
			return nil, model.NewParseError(path, row, opts.NameProperty, "record has no district name")
		}

		g, err := shapeToGeom(shape)
		if err != nil {
			return nil, &model.ParseError{Path: path, Row: row, Column: "geometry", Err: err}
		}

		polygons = append(polygons, model.DistrictPolygon{
			DisplayName: name,
			Geometry:    g,
		})
	}
	return polygons, nil
}

// fieldIndex returns the index of a named field in the shapefile, or -1 if not found.
func fieldIndex(reader *shp.Reader, name string) int {
	for i, f := range reader.Fields() {
		if strings.EqualFold(strings.TrimRight(f.String(), "\x00"), name) {
			return i
		}
	}
	return -1
}

// shapeToGeom converts a shapefile record to a go-geom geometry. Null shapes
// yield a nil geometry.
func shapeToGeom(s shp.Shape) (geom.T, error) {
	switch shape := s.(type) {
	case nil, *shp.Null:
		return nil, nil
	case *shp.Polygon:
		return polygonToGeom(shape)
	default:
		return nil, fmt.Errorf("unsupported shape type %T", s)
	}
}

// polygonToGeom groups shapefile parts into polygons. Clockwise rings start a
// new polygon; counter-clockwise rings are holes of the polygon before them.
// A single resulting polygon is returned as *geom.Polygon, several as
// *geom.MultiPolygon.
func polygonToGeom(p *shp.Polygon) (geom.T, error) {
	if p.NumParts == 0 || len(p.Points) == 0 {
		return nil, nil
	}

	var polys []*geom.Polygon
	for i := int32(0); i < p.NumParts; i++ {
		start := p.Parts[i]
		end := int32(len(p.Points))
		if i+1 < p.NumParts {
			end = p.Parts[i+1]
		}
		if start < 0 || end > int32(len(p.Points)) || end-start < 4 {
			zap.L().Debug("boundary: skipping degenerate ring", zap.Int32("part", i))
			continue
		}

		flat := make([]float64, 0, (end-start)*2)
		for j := start; j < end; j++ {
			flat = append(flat, p.Points[j].X, p.Points[j].Y)
		}
		ring := geom.NewLinearRingFlat(geom.XY, flat)

		if signedArea(flat) > 0 && len(polys) > 0 {
			if err := polys[len(polys)-1].Push(ring); err != nil {
				return nil, eris.Wrapf(err, "push hole ring %d", i)
			}
			continue
		}

		poly := geom.NewPolygon(geom.XY)
		if err := poly.Push(ring); err != nil {
			return nil, eris.Wrapf(err, "push shell ring %d", i)
		}
		polys = append(polys, poly)
	}

	switch len(polys) {
	case 0:
		return nil, nil
	case 1:
		return polys[0], nil
	}
	mp := geom.NewMultiPolygon(geom.XY)
	for i, poly := range polys {
		if err := mp.Push(poly); err != nil {
			return nil, eris.Wrapf(err, "push polygon %d", i)
		}
	}
	return mp, nil
}

// signedArea is the shoelace area of a flat XY ring; positive means
// counter-clockwise.
func signedArea(flat []float64) float64 {
	var sum float64
	n := len(flat) / 2
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		sum += flat[2*i]*flat[2*j+1] - flat[2*j]*flat[2*i+1]
	}
	return sum / 2
}
