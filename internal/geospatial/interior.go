package geospatial

import (
	"math"
	"sort"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/xy"
)

// InteriorPoint returns a point guaranteed to fall inside g, suitable for
// anchoring a label. Unlike a centroid it stays inside concave shapes.
//
// A horizontal scan line is drawn through the polygon at a height that
// avoids every vertex; the midpoint of the widest inside interval along it
// is the result. For multipolygons the member with the widest interval wins.
// If the scan finds nothing usable the first shell vertex is returned.
// ok is false only for nil or empty geometries.
func InteriorPoint(g geom.T) (geom.Coord, bool) {
	switch t := g.(type) {
	case *geom.Polygon:
		if t == nil || t.NumLinearRings() == 0 || len(t.FlatCoords()) == 0 {
			return nil, false
		}
		if c, _, ok := scanPolygon(t); ok {
			return c, true
		}
		return firstVertex(t), true
	case *geom.MultiPolygon:
		if t == nil || len(t.FlatCoords()) == 0 {
			return nil, false
		}
		var (
			best      geom.Coord
			bestWidth = -1.0
			fallback  geom.Coord
		)
		for i := 0; i < t.NumPolygons(); i++ {
			p := t.Polygon(i)
			if p.NumLinearRings() == 0 || len(p.FlatCoords()) == 0 {
				continue
			}
			if fallback == nil {
				fallback = firstVertex(p)
			}
			c, w, ok := scanPolygon(p)
			if ok && w > bestWidth {
				best, bestWidth = c, w
			}
		}
		if best != nil {
			return best, true
		}
		if fallback != nil {
			return fallback, true
		}
		return nil, false
	default:
		return nil, false
	}
}

// scanPolygon returns the midpoint of the widest interior interval of p along
// a vertex-free scan line, together with that interval's width.
func scanPolygon(p *geom.Polygon) (geom.Coord, float64, bool) {
	y, ok := scanLineY(p)
	if !ok {
		return nil, 0, false
	}

	var xs []float64
	for i := 0; i < p.NumLinearRings(); i++ {
		xs = appendCrossings(xs, p.LinearRing(i).FlatCoords(), y)
	}
	if len(xs) < 2 {
		return nil, 0, false
	}
	sort.Float64s(xs)

	var (
		best  geom.Coord
		width float64
	)
	for i := 0; i+1 < len(xs); i += 2 {
		w := xs[i+1] - xs[i]
		if w > width {
			best = geom.Coord{(xs[i] + xs[i+1]) / 2, y}
			width = w
		}
	}
	if best == nil || !contains(p, best) {
		return nil, 0, false
	}
	return best, width, true
}

// scanLineY picks the height halfway between the two vertex ordinates that
// bracket the vertical centre of the shell's extent.
func scanLineY(p *geom.Polygon) (float64, bool) {
	shell := p.LinearRing(0).FlatCoords()
	if len(shell) < 2 {
		return 0, false
	}
	minY, maxY := math.Inf(1), math.Inf(-1)
	for i := 1; i < len(shell); i += 2 {
		minY = math.Min(minY, shell[i])
		maxY = math.Max(maxY, shell[i])
	}
	centre := (minY + maxY) / 2
	lo, hi := minY, maxY

	flat := p.FlatCoords()
	for i := 1; i < len(flat); i += 2 {
		y := flat[i]
		if y <= centre {
			if y > lo {
				lo = y
			}
		} else if y < hi {
			hi = y
		}
	}
	if hi <= lo {
		return 0, false
	}
	return (lo + hi) / 2, true
}

// appendCrossings adds the x ordinates where ring edges cross the horizontal
// line at y. Horizontal edges and edges touching y only at an endpoint are
// ignored.
func appendCrossings(xs []float64, ring []float64, y float64) []float64 {
	n := len(ring) / 2
	for i := 0; i+1 < n; i++ {
		x0, y0 := ring[2*i], ring[2*i+1]
		x1, y1 := ring[2*i+2], ring[2*i+3]
		if (y0 < y && y1 > y) || (y0 > y && y1 < y) {
			xs = append(xs, x0+(y-y0)*(x1-x0)/(y1-y0))
		}
	}
	return xs
}

// contains reports whether c lies inside the shell of p and outside all of
// its holes.
func contains(p *geom.Polygon, c geom.Coord) bool {
	if !xy.IsPointInRing(geom.XY, c, p.LinearRing(0).FlatCoords()) {
		return false
	}
	for i := 1; i < p.NumLinearRings(); i++ {
		if xy.IsPointInRing(geom.XY, c, p.LinearRing(i).FlatCoords()) {
			return false
		}
	}
	return true
}

func firstVertex(p *geom.Polygon) geom.Coord {
	flat := p.FlatCoords()
	return geom.Coord{flat[0], flat[1]}
}
