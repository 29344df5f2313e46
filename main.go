package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/carlmjohnson/versioninfo"

	"github.com/pdok/trixel/geomhelp"
	"github.com/pdok/trixel/gridgen"
	"github.com/pdok/trixel/icosa"
	"github.com/pdok/trixel/tilecode"

	"github.com/iancoleman/strcase"
	"github.com/paulmach/orb/geojson"
	"github.com/urfave/cli/v2"
)

const FORMAT string = `format`
const DEPTH string = `depth`
const LAT string = `lat`
const LON string = `lon`
const JOB string = `job`
const ROOTS string = `roots`
const BBOX string = `bbox`
const SORT string = `sort`
const DEDUPE string = `dedupe`
const OUTPUT string = `output`
const DEBUG string = `debug`

//nolint:funlen
func main() {
	app := cli.NewApp()
	app.Name = "trixel"
	app.Usage = "A Golang icosahedral Earth tiling application"
	app.Version = versioninfo.Short()

	app.Flags = []cli.Flag{
		&cli.BoolFlag{
			Name:     DEBUG,
			Usage:    "Log what the lookups are doing",
			Required: false,
			EnvVars:  []string{strcase.ToScreamingSnake(DEBUG)},
		},
	}
	app.Before = func(c *cli.Context) error {
		if c.Bool(DEBUG) {
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
		}
		return nil
	}

	app.Commands = []*cli.Command{
		{
			Name:      "lookup",
			Aliases:   []string{"l"},
			Usage:     "Resolve facet codes to their corner locations",
			ArgsUsage: "CODE [CODE ...]",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    FORMAT,
					Aliases: []string{"f"},
					Usage:   "Output format: text, wkt or geojson",
					Value:   "text",
					EnvVars: []string{strcase.ToScreamingSnake(FORMAT)},
				},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() == 0 {
					return fmt.Errorf("expected at least one facet code argument")
				}
				codes := make([]tilecode.Code, c.NArg())
				for i, arg := range c.Args().Slice() {
					codes[i] = tilecode.Code(arg).Normalize()
				}
				return writeFacets(os.Stdout, c.String(FORMAT), codes)
			},
		},
		{
			Name:  "locate",
			Usage: "Find the code of the facet containing a location",
			Flags: []cli.Flag{
				&cli.Float64Flag{
					Name:     LAT,
					Usage:    "Latitude in degrees",
					Required: true,
					EnvVars:  []string{strcase.ToScreamingSnake(LAT)},
				},
				&cli.Float64Flag{
					Name:     LON,
					Usage:    "Longitude in degrees",
					Required: true,
					EnvVars:  []string{strcase.ToScreamingSnake(LON)},
				},
				&cli.IntFlag{
					Name:     DEPTH,
					Aliases:  []string{"d"},
					Usage:    "Number of subdivision digits in the code",
					Value:    4,
					Required: false,
					EnvVars:  []string{strcase.ToScreamingSnake(DEPTH)},
				},
			},
			Action: func(c *cli.Context) error {
				name, ok := icosa.NameForLocation(c.Float64(LAT), c.Float64(LON), c.Int(DEPTH))
				if !ok {
					return fmt.Errorf("no facet contains latitude %v, longitude %v", c.Float64(LAT), c.Float64(LON))
				}
				fmt.Println(name)
				return nil
			},
		},
		{
			Name:      "children",
			Usage:     "List the nine children of a facet",
			ArgsUsage: "CODE",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    FORMAT,
					Aliases: []string{"f"},
					Usage:   "Output format: text, wkt or geojson",
					Value:   "text",
					EnvVars: []string{strcase.ToScreamingSnake(FORMAT)},
				},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() != 1 {
					return fmt.Errorf("expected exactly one facet code argument")
				}
				code := tilecode.Code(c.Args().First()).Normalize()
				if _, _, err := tilecode.Parse(code); err != nil {
					return err
				}
				children := code.Children()
				return writeFacets(os.Stdout, c.String(FORMAT), children[:])
			},
		},
		{
			Name:  "grid",
			Usage: "Enumerate a facet grid and write it as codes, WKT or GeoJSON",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    JOB,
					Aliases: []string{"j"},
					Usage:   "Path to a JSON job file. Overrides the other grid flags",
					EnvVars: []string{strcase.ToScreamingSnake(JOB)},
				},
				&cli.StringSliceFlag{
					Name:    ROOTS,
					Aliases: []string{"r"},
					Usage:   "Facet codes to enumerate from. All 20 base facets when absent",
					EnvVars: []string{strcase.ToScreamingSnake(ROOTS)},
				},
				&cli.IntFlag{
					Name:    DEPTH,
					Aliases: []string{"d"},
					Usage:   "How many levels below each root to enumerate",
					Value:   2,
					EnvVars: []string{strcase.ToScreamingSnake(DEPTH)},
				},
				&cli.StringFlag{
					Name:    BBOX,
					Usage:   "Only keep facets with a corner in this box: minLon,minLat,maxLon,maxLat",
					EnvVars: []string{strcase.ToScreamingSnake(BBOX)},
				},
				&cli.StringFlag{
					Name:    FORMAT,
					Aliases: []string{"f"},
					Usage:   "Output format: codes, wkt or geojson",
					Value:   gridgen.FormatCodes,
					EnvVars: []string{strcase.ToScreamingSnake(FORMAT)},
				},
				&cli.BoolFlag{
					Name:    SORT,
					Usage:   "Write facets in key order instead of walk order",
					EnvVars: []string{strcase.ToScreamingSnake(SORT)},
				},
				&cli.BoolFlag{
					Name:    DEDUPE,
					Usage:   "Drop facets already written for an earlier root",
					Value:   true,
					EnvVars: []string{strcase.ToScreamingSnake(DEDUPE)},
				},
				&cli.StringFlag{
					Name:    OUTPUT,
					Aliases: []string{"o"},
					Usage:   "Write to this file instead of stdout",
					EnvVars: []string{strcase.ToScreamingSnake(OUTPUT)},
				},
			},
			Action: func(c *cli.Context) error {
				var job gridgen.Job
				if jobPath := c.String(JOB); jobPath != "" {
					data, err := os.ReadFile(jobPath)
					if err != nil {
						return err
					}
					if err := json.Unmarshal(data, &job); err != nil {
						return err
					}
				} else {
					job = gridgen.Job{
						Roots:  c.StringSlice(ROOTS),
						Depth:  c.Int(DEPTH),
						Format: c.String(FORMAT),
						Sort:   c.Bool(SORT),
						Dedupe: c.Bool(DEDUPE),
					}
					if bbox := c.String(BBOX); bbox != "" {
						bounds, err := parseBBox(bbox)
						if err != nil {
							return err
						}
						job.Bounds = bounds
					}
					if err := job.Validate(); err != nil {
						return err
					}
				}

				out := os.Stdout
				if path := c.String(OUTPUT); path != "" {
					f, err := os.Create(path)
					if err != nil {
						return err
					}
					defer f.Close()
					out = f
				}

				bw := bufio.NewWriter(out)
				target, err := gridgen.TargetForFormat(job.Format, bw)
				if err != nil {
					return err
				}
				source, err := gridgen.NewEnumerator(job)
				if err != nil {
					return err
				}
				if err := gridgen.Generate(job, source, target); err != nil {
					return err
				}
				return bw.Flush()
			},
		},
	}

	err := app.Run(os.Args)
	if err != nil {
		log.Fatal(err)
	}
}

func writeFacets(w io.Writer, format string, codes []tilecode.Code) error {
	fc := geojson.NewFeatureCollection()
	for _, code := range codes {
		corners, err := icosa.LocationsForName(string(code))
		if err != nil {
			return err
		}
		switch format {
		case "text":
			fmt.Fprintln(w, code)
			for _, corner := range corners {
				fmt.Fprintf(w, "\t%v %v\n", corner[0], corner[1])
			}
		case "wkt":
			fmt.Fprintf(w, "%s\t%s\n", code, geomhelp.WktMustEncode(geomhelp.TriangleToPolygon(corners), 0))
		case "geojson":
			fc.Append(geomhelp.TileFeature(string(code), corners))
		default:
			return fmt.Errorf("unknown format %q", format)
		}
	}
	if format == "geojson" {
		data, err := fc.MarshalJSON()
		if err != nil {
			return err
		}
		fmt.Fprintln(w, string(data))
	}
	return nil
}

func parseBBox(s string) ([]float64, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return nil, fmt.Errorf("bbox wants minLon,minLat,maxLon,maxLat, got %q", s)
	}
	bounds := make([]float64, len(parts))
	for i, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil, fmt.Errorf("bbox value %q: %w", part, err)
		}
		bounds[i] = v
	}
	return bounds, nil
}
