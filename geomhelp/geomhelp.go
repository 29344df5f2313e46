package geomhelp

import (
	"github.com/go-spatial/geom"
	"github.com/go-spatial/geom/encoding/wkt"
	"github.com/muesli/reflow/truncate"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Facet corners travel as [latitude, longitude] pairs; geometry types want
// [longitude, latitude]. The converters below do that swap in one place.

// TriangleToPolygon converts facet corners to a geom.Polygon with a single
// unclosed ring, the go-spatial convention.
func TriangleToPolygon(corners [3][2]float64) geom.Polygon {
	ring := make([][2]float64, len(corners))
	for i, c := range corners {
		ring[i] = [2]float64{c[1], c[0]}
	}
	return geom.Polygon{ring}
}

// TriangleToOrbPolygon converts facet corners to an orb.Polygon. GeoJSON
// rings are closed, so the first corner repeats at the end.
func TriangleToOrbPolygon(corners [3][2]float64) orb.Polygon {
	ring := make(orb.Ring, 0, len(corners)+1)
	for _, c := range corners {
		ring = append(ring, orb.Point{c[1], c[0]})
	}
	ring = append(ring, ring[0])
	return orb.Polygon{ring}
}

// TileFeature wraps a facet in a GeoJSON feature carrying its code and depth
// as properties.
func TileFeature(code string, corners [3][2]float64) *geojson.Feature {
	feature := geojson.NewFeature(TriangleToOrbPolygon(corners))
	feature.Properties["code"] = code
	feature.Properties["depth"] = len(code) - 1
	return feature
}

// WktMustEncode encodes a geometry to WKT, truncated to maxLen runes when
// maxLen > 0. Handy for logs and one-line output.
func WktMustEncode(g geom.Geometry, maxLen uint) string {
	if maxLen == 0 {
		return wkt.MustEncode(g)
	}
	return truncate.StringWithTail(wkt.MustEncode(g), maxLen, "...")
}
