package geomhelp

import (
	"strings"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var corners = [3][2]float64{
	{-14.001599539075452, -71.59972194956397},
	{-14.070080390608874, -71.64965175906063},
	{-14.069911016352103, -71.5495548898914},
}

func TestTriangleToPolygon(t *testing.T) {
	polygon := TriangleToPolygon(corners)
	require.Len(t, polygon, 1)
	require.Len(t, polygon[0], 3)
	for i, c := range corners {
		assert.Equal(t, [2]float64{c[1], c[0]}, polygon[0][i], "corner %d should be lon, lat", i)
	}
}

func TestTriangleToOrbPolygon(t *testing.T) {
	polygon := TriangleToOrbPolygon(corners)
	require.Len(t, polygon, 1)
	ring := polygon[0]
	require.Len(t, ring, 4)
	assert.Equal(t, ring[0], ring[3], "ring should be closed")
	assert.Equal(t, orb.Point{corners[0][1], corners[0][0]}, ring[0])
	assert.True(t, ring.Closed())
}

func TestTileFeature(t *testing.T) {
	feature := TileFeature("M713289", corners)
	assert.Equal(t, "M713289", feature.Properties["code"])
	assert.Equal(t, 6, feature.Properties["depth"])
	_, isPolygon := feature.Geometry.(orb.Polygon)
	assert.True(t, isPolygon)
}

func TestWktMustEncode(t *testing.T) {
	full := WktMustEncode(TriangleToPolygon(corners), 0)
	assert.True(t, strings.HasPrefix(full, "POLYGON"), "got %q", full)
	assert.Contains(t, full, "-71.5", "longitude should come first")

	short := WktMustEncode(TriangleToPolygon(corners), 25)
	assert.True(t, strings.HasSuffix(short, "..."), "got %q", short)
	assert.Less(t, len(short), len(full))
}
