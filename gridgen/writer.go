package gridgen

import (
	"fmt"
	"io"

	"github.com/paulmach/orb/geojson"

	"github.com/pdok/trixel/geomhelp"
)

// TargetForFormat builds the Target writing a job's format to w.
func TargetForFormat(format string, w io.Writer) (Target, error) {
	switch format {
	case FormatCodes:
		return &CodesTarget{W: w}, nil
	case FormatWKT:
		return &WKTTarget{W: w}, nil
	case FormatGeoJSON:
		return &GeoJSONTarget{W: w}, nil
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
}

// CodesTarget writes one facet code per line.
type CodesTarget struct {
	W io.Writer
}

func (t *CodesTarget) WriteTiles(tiles <-chan Tile) error {
	var err error
	for tile := range tiles {
		if err != nil {
			continue
		}
		_, err = fmt.Fprintln(t.W, tile.Code)
	}
	return err
}

// WKTTarget writes a facet code and its POLYGON per line, tab separated.
// MaxLen truncates long lines; 0 keeps them whole.
type WKTTarget struct {
	W      io.Writer
	MaxLen uint
}

func (t *WKTTarget) WriteTiles(tiles <-chan Tile) error {
	var err error
	for tile := range tiles {
		if err != nil {
			continue
		}
		wkt := geomhelp.WktMustEncode(geomhelp.TriangleToPolygon(tile.Corners), t.MaxLen)
		_, err = fmt.Fprintf(t.W, "%s\t%s\n", tile.Code, wkt)
	}
	return err
}

// GeoJSONTarget collects every tile into a FeatureCollection and writes it
// once the stream ends.
type GeoJSONTarget struct {
	W io.Writer
}

func (t *GeoJSONTarget) WriteTiles(tiles <-chan Tile) error {
	collection := geojson.NewFeatureCollection()
	for tile := range tiles {
		collection.Append(geomhelp.TileFeature(string(tile.Code), tile.Corners))
	}
	data, err := collection.MarshalJSON()
	if err != nil {
		return err
	}
	if _, err = t.W.Write(data); err != nil {
		return err
	}
	_, err = io.WriteString(t.W, "\n")
	return err
}
