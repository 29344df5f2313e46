package gridgen

import (
	"fmt"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/go-spatial/geom"
	"github.com/perimeterx/marshmallow"

	"github.com/pdok/trixel/tilecode"
)

// Output formats a Job can ask for.
const (
	FormatCodes   = "codes"
	FormatWKT     = "wkt"
	FormatGeoJSON = "geojson"
)

// Job configures one grid generation run. The zero value is not runnable:
// decode one from JSON, or fill the fields and call Validate.
type Job struct {
	// Roots are the codes whose subtrees get enumerated, letters folded to
	// upper case. Empty means all twenty base facets.
	Roots []string `json:"roots"`
	// Depth is how many levels below each root to descend.
	Depth int `json:"depth" default:"2" validate:"min=0,max=8"`
	// Bounds filters the grid to [minLon, minLat, maxLon, maxLat]: a facet
	// is kept when any of its corners falls inside. The test is planar, so
	// it is approximate near the antimeridian. Empty keeps everything.
	Bounds []float64 `json:"bounds" validate:"omitempty,len=4"`
	// Format picks the output writer: codes, wkt or geojson.
	Format string `json:"format" default:"codes" validate:"oneof=codes wkt geojson"`
	// Dedupe drops facets that an earlier root already produced, keeping
	// first occurrences in walk order.
	Dedupe bool `json:"dedupe" default:"true"`
	// Sort emits facets in Key order (pre-order traversal) instead of walk
	// order. Sorting implies Dedupe and caps root depth plus Depth at
	// tilecode.MaxKeyDepth.
	Sort bool `json:"sort"`
	// CacheSize bounds the triangle memo used while enumerating. Zero picks
	// a sensible default.
	CacheSize int `json:"cacheSize" default:"4096" validate:"omitempty,min=1"`
}

// UnmarshalJSON fills defaults first so absent keys keep them, then decodes
// the known fields and validates the result. Unknown keys are tolerated and
// dropped.
func (j *Job) UnmarshalJSON(data []byte) error {
	err := defaults.Set(j)
	if err != nil {
		return err
	}
	_, err = marshmallow.Unmarshal(data, j, marshmallow.WithExcludeKnownFieldsFromMap(true))
	if err != nil {
		return err
	}
	return j.Validate()
}

// Validate checks the job against its constraints. UnmarshalJSON runs it
// after decoding; jobs built in code get it run by Generate.
func (j *Job) Validate() error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(j); err != nil {
		return err
	}
	for _, root := range j.roots() {
		_, digits, err := tilecode.Parse(root)
		if err != nil {
			return fmt.Errorf("root %q: %w", root, err)
		}
		if j.Sort && len(digits)+j.Depth > tilecode.MaxKeyDepth {
			return fmt.Errorf("root %q at depth %d cannot sort: %w", root, j.Depth, tilecode.ErrKeyDepth)
		}
	}
	if len(j.Bounds) == 4 && (j.Bounds[0] >= j.Bounds[2] || j.Bounds[1] >= j.Bounds[3]) {
		return fmt.Errorf("bounds min must be below max, got %v", j.Bounds)
	}
	return nil
}

// roots returns the configured roots normalized, or all base facets when
// none are set.
func (j *Job) roots() []tilecode.Code {
	if len(j.Roots) == 0 {
		base := tilecode.BaseCodes()
		return base[:]
	}
	roots := make([]tilecode.Code, len(j.Roots))
	for i, root := range j.Roots {
		roots[i] = tilecode.Code(root).Normalize()
	}
	return roots
}

// extent returns the bounding box as a lon/lat geom.Extent, or nil when the
// job has none.
func (j *Job) extent() *geom.Extent {
	if len(j.Bounds) != 4 {
		return nil
	}
	return &geom.Extent{j.Bounds[0], j.Bounds[1], j.Bounds[2], j.Bounds[3]}
}
