package model

import (
	"errors"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/twpayne/go-geom"
)

func TestParseError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *ParseError
		want string
	}{
		{"full", NewParseError("ipc.csv", 3, "COUNT", "empty count"), `parse ipc.csv row 3 column "COUNT": empty count`},
		{"no row", NewParseError("ipc.csv", 0, "District", "required column missing"), `parse ipc.csv column "District": required column missing`},
		{"path only", &ParseError{Path: "d.geojson"}, "parse d.geojson"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestParseError_Unwrap(t *testing.T) {
	inner := errors.New("boom")
	err := &ParseError{Path: "x", Err: inner}
	assert.ErrorIs(t, err, inner)
}

func TestClassifiers(t *testing.T) {
	nf := eris.Wrapf(ErrNotFound, "incident: %s", "missing.csv")
	assert.True(t, IsNotFound(nf))
	assert.False(t, IsParse(nf))

	pe := eris.Wrap(NewParseError("a.csv", 2, "COUNT", "bad"), "pipeline: load")
	assert.True(t, IsParse(pe))
	assert.False(t, IsNotFound(pe))

	assert.False(t, IsNotFound(nil))
	assert.False(t, IsParse(nil))
}

func TestDistrictPolygon_HasGeometry(t *testing.T) {
	assert.False(t, DistrictPolygon{}.HasGeometry())
	assert.False(t, DistrictPolygon{Geometry: geom.NewPolygon(geom.XY)}.HasGeometry())

	sq := geom.NewPolygon(geom.XY).MustSetCoords([][]geom.Coord{{{0, 0}, {1, 0}, {1, 1}, {0, 0}}})
	assert.True(t, DistrictPolygon{Geometry: sq}.HasGeometry())
}
