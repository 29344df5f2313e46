// Package icosa locates triangular facets on the unit sphere. The sphere
// divides into the twenty faces of a regular icosahedron, lettered A-T, and
// every facet divides recursively into nine children, numbered 1-9, by
// trisecting its edges and pushing the new points back onto the sphere.
// A code such as "M713289" names one facet at each level of that descent.
//
// The icosahedron is fixed: vertex 0 on the north pole, vertices 1-5 on a
// ring at latitude atan(1/2), vertices 6-10 on the mirrored ring offset 36
// degrees in longitude, vertex 11 on the south pole. All tables are built
// once at package init and nothing mutates afterwards, so every function is
// safe for concurrent use.
package icosa

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/golang/geo/r3"
	"github.com/golang/geo/s2"

	"github.com/pdok/trixel/tilecode"
)

// upperLat is the latitude of the upper vertex ring in degrees, atan(1/2).
var upperLat = math.Atan(0.5) * (180 / math.Pi)

// vertices are the twelve icosahedron corners: north pole, upper ring,
// lower ring, south pole. The rings run west to east.
var vertices = buildVertices()

func buildVertices() [12]r3.Vector {
	var v [12]r3.Vector
	v[0] = vertexAt(90, 0)
	v[11] = vertexAt(-90, 0)
	for k := 0; k < 5; k++ {
		v[1+k] = vertexAt(upperLat, float64(108+72*k))
		v[6+k] = vertexAt(-upperLat, float64(72+72*k))
	}
	return v
}

// vertexAt returns the unit vector for a location in degrees.
func vertexAt(lat, lon float64) r3.Vector {
	return s2.PointFromLatLng(s2.LatLngFromDegrees(lat, lon)).Vector
}

// faces lists the corner vertices of the twenty base facets in letter order,
// each triple wound counterclockwise seen from outside the sphere.
var faces = [tilecode.NumFacets][3]int{
	{0, 1, 2}, {0, 2, 3}, {0, 3, 4}, {0, 4, 5}, {0, 5, 1},        // A-E around the north pole
	{6, 7, 1}, {7, 8, 2}, {8, 9, 3}, {9, 10, 4}, {10, 6, 5},      // F-J pointing up
	{1, 7, 2}, {2, 8, 3}, {3, 9, 4}, {4, 10, 5}, {5, 6, 1},       // K-O pointing down
	{11, 7, 6}, {11, 8, 7}, {11, 9, 8}, {11, 10, 9}, {11, 6, 10}, // P-T around the south pole
}

// subvert names, for each derived point 3-9 of a subdivided facet, the
// corners it interpolates between: the point is the normalized sum of the
// listed corner vectors. A doubled corner pulls the point toward it, so
// {0, 0, 1} sits on edge 0-1 nearer corner 0; {0, 1, 2} is the center.
var subvert = [7][3]int{
	{0, 0, 1}, {0, 1, 1}, {1, 1, 2}, {1, 2, 2}, {2, 2, 0}, {2, 0, 0}, {0, 1, 2},
}

// subface maps a subdivision digit to the three points bounding that child,
// indices into the ten points of a subdivided facet (0-2 corners, 3-9
// derived). Row 0 is a placeholder, digits start at 1. Every row keeps the
// parent's winding; digits 2, 8 and 9 are the upside-down children.
var subface = [10][3]int{
	{0, 0, 0},
	{5, 6, 9},
	{5, 9, 4},
	{2, 7, 6},
	{0, 3, 8},
	{3, 4, 9},
	{7, 8, 9},
	{1, 5, 4},
	{9, 8, 3},
	{6, 7, 9},
}

// Triangle holds the three corner vectors of a facet, counterclockwise seen
// from outside the sphere.
type Triangle [3]r3.Vector

var baseTriangles = buildBaseTriangles()

func buildBaseTriangles() [tilecode.NumFacets]Triangle {
	var tris [tilecode.NumFacets]Triangle
	for i, f := range faces {
		tris[i] = Triangle{vertices[f[0]], vertices[f[1]], vertices[f[2]]}
	}
	return tris
}

// Base returns the top-level triangle of a facet index 0-19, in letter
// order: 0 is "A", 19 is "T".
func Base(facet int) Triangle {
	return baseTriangles[facet]
}

// subdivide computes the ten points of t's nine-way split: the corners as
// points 0-2 and the derived points 3-9 per subvert.
func (t Triangle) subdivide() [10]r3.Vector {
	var pts [10]r3.Vector
	pts[0], pts[1], pts[2] = t[0], t[1], t[2]
	for i, sv := range subvert {
		pts[3+i] = t[sv[0]].Add(t[sv[1]]).Add(t[sv[2]]).Normalize()
	}
	return pts
}

// Child returns one of the nine children that tile t, by subdivision digit.
// Digits run 1-9, anything else panics.
func (t Triangle) Child(digit int) Triangle {
	if digit < 1 || digit > 9 {
		panic(fmt.Errorf(`no child digit %v`, digit))
	}
	pts := t.subdivide()
	sf := subface[digit]
	return Triangle{pts[sf[0]], pts[sf[1]], pts[sf[2]]}
}

// Center is the normalized vector sum of the corners, the facet's spherical
// midpoint.
func (t Triangle) Center() r3.Vector {
	return t[0].Add(t[1]).Add(t[2]).Normalize()
}

// Corners converts the triangle to [latitude, longitude] pairs in degrees,
// clamped to [-90, 90] and [-180, 180].
func (t Triangle) Corners() [3][2]float64 {
	var corners [3][2]float64
	for i, v := range t {
		ll := s2.LatLngFromPoint(s2.Point{Vector: v})
		corners[i] = [2]float64{
			clamp(ll.Lat.Degrees(), 90),
			clamp(ll.Lng.Degrees(), 180),
		}
	}
	return corners
}

func clamp(degrees, limit float64) float64 {
	return math.Max(-limit, math.Min(limit, degrees))
}

// contains reports whether p lies on or inside the spherical triangle: not
// left of any directed edge. Edges and corners count as inside, so facets
// sharing an edge both claim points on it.
func (t Triangle) contains(p r3.Vector) bool {
	return t[0].Cross(t[1]).Dot(p) >= 0 &&
		t[1].Cross(t[2]).Dot(p) >= 0 &&
		t[2].Cross(t[0]).Dot(p) >= 0
}

// LocationsForName resolves a facet code to the [latitude, longitude] pairs
// of its three corners, in degrees. Corner order follows the subdivision
// tables and is stable between calls.
func LocationsForName(name string) ([3][2]float64, error) {
	facet, digits, err := tilecode.Parse(tilecode.Code(name))
	if err != nil {
		return [3][2]float64{}, err
	}
	tri := Base(facet)
	for _, digit := range digits {
		tri = tri.Child(digit)
	}
	return tri.Corners(), nil
}

// NameForLocation finds the code of the facet containing a location, depth
// digits deep. A depth of zero or less returns the bare facet letter. It
// reports false when no base facet contains the location (NaN coordinates
// and the like); a code shorter than depth comes back when rounding leaves
// some level without a containing child. Locations exactly on a shared edge
// resolve to the first facet in scan order: A-T, then digit 1-9.
func NameForLocation(lat, lon float64, depth int) (string, bool) {
	p := s2.PointFromLatLng(s2.LatLngFromDegrees(lat, lon)).Vector
	if depth < 0 {
		depth = 0
	}

	facet := -1
	for f := range baseTriangles {
		if baseTriangles[f].contains(p) {
			facet = f
			break
		}
	}
	if facet < 0 {
		slog.Debug("location on no base facet", "lat", lat, "lon", lon)
		return "", false
	}

	name := make([]byte, 1, depth+1)
	name[0] = byte('A' + facet)
	tri := Base(facet)
	for level := 0; level < depth; level++ {
		digit := 0
		pts := tri.subdivide()
		for d := 1; d <= 9; d++ {
			sf := subface[d]
			child := Triangle{pts[sf[0]], pts[sf[1]], pts[sf[2]]}
			if child.contains(p) {
				tri = child
				digit = d
				break
			}
		}
		if digit == 0 {
			slog.Debug("no child facet contains location, truncating",
				"code", string(name), "lat", lat, "lon", lon)
			break
		}
		name = append(name, byte('0'+digit))
	}
	return string(name), true
}
