// Package gridgen turns facet subtrees into grids. It enumerates every code
// under a job's roots, streams the tiles through optional bounds filtering,
// deduplication and key sorting, and fans them out to one or more targets.
// Not the facet geometry itself; that lives in icosa.
package gridgen

import (
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/go-spatial/geom"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/umpc/go-sortedmap"
	orderedmap "github.com/wk8/go-ordered-map/v2"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/pdok/trixel/icosa"
	"github.com/pdok/trixel/tilecode"
)

const defaultCacheSize = 4096

// Tile is one enumerated facet: its code and its corner locations as
// [latitude, longitude] pairs in degrees.
type Tile struct {
	Code    tilecode.Code
	Corners [3][2]float64
}

// Source produces tiles into a channel and closes it when done.
type Source interface {
	ReadTiles(chan<- Tile)
}

// Target consumes tiles from a channel until it closes. Implementations
// must drain the channel even after a write error.
type Target interface {
	WriteTiles(<-chan Tile) error
}

// Enumerator is the Source that walks the subtrees of a job's roots in
// digit order, the roots themselves included. An LRU memo keeps recent
// code→triangle resolutions so sibling subtrees skip the shared prefix
// descent.
type Enumerator struct {
	roots []tilecode.Code
	depth int
	memo  *lru.Cache[tilecode.Code, icosa.Triangle]
}

// NewEnumerator builds the enumerating Source for a job.
func NewEnumerator(job Job) (*Enumerator, error) {
	size := job.CacheSize
	if size <= 0 {
		size = defaultCacheSize
	}
	memo, err := lru.New[tilecode.Code, icosa.Triangle](size)
	if err != nil {
		return nil, err
	}
	return &Enumerator{roots: job.roots(), depth: job.Depth, memo: memo}, nil
}

// Triangle resolves a code to its triangle through the memo, descending
// only for prefixes not recently seen.
func (e *Enumerator) Triangle(code tilecode.Code) (icosa.Triangle, error) {
	if _, _, err := tilecode.Parse(code); err != nil {
		return icosa.Triangle{}, err
	}
	return e.triangle(code.Normalize()), nil
}

// triangle assumes code is valid and normalized.
func (e *Enumerator) triangle(code tilecode.Code) icosa.Triangle {
	if tri, ok := e.memo.Get(code); ok {
		return tri
	}
	var tri icosa.Triangle
	if parent, hasParent := code.Parent(); hasParent {
		tri = e.triangle(parent).Child(int(code[len(code)-1] - '0'))
	} else {
		tri = icosa.Base(int(code[0] - 'A'))
	}
	e.memo.Add(code, tri)
	return tri
}

// ReadTiles walks the subtrees in digit order and closes the channel when
// done.
func (e *Enumerator) ReadTiles(tiles chan<- Tile) {
	defer close(tiles)
	for _, root := range e.roots {
		if _, _, err := tilecode.Parse(root); err != nil {
			// roots come validated through Generate
			panic(err)
		}
		e.walk(root, e.depth, tiles)
	}
}

func (e *Enumerator) walk(code tilecode.Code, levels int, tiles chan<- Tile) {
	tiles <- Tile{Code: code, Corners: e.triangle(code).Corners()}
	if levels == 0 {
		return
	}
	for _, child := range code.Children() {
		e.walk(child, levels-1, tiles)
	}
}

// Generate runs a job: it validates, streams tiles from the source through
// the job's bounds filter, deduplication and key sort, and fans them out to
// every target.
func Generate(job Job, source Source, targets ...Target) error {
	if err := job.Validate(); err != nil {
		return err
	}

	tiles := make(chan Tile)
	go source.ReadTiles(tiles)

	// a channel and a goroutine per target
	channels := make([]chan Tile, len(targets))
	targetErrs := make([]error, len(targets))
	wg := sync.WaitGroup{}
	for i, target := range targets {
		channel := make(chan Tile)
		channels[i] = channel
		wg.Add(1)
		go func(i int, target Target) {
			defer wg.Done()
			targetErrs[i] = target.WriteTiles(channel)
		}(i, target)
	}

	counts := map[string]int{}
	emit := func(tile Tile) {
		counts[string(tile.Code[:1])]++
		for _, channel := range channels {
			channel <- tile
		}
	}

	bounds := job.extent()
	seen := orderedmap.New[tilecode.Code, struct{}]()
	var sorted *sortedmap.SortedMap
	if job.Sort {
		// the comparison func receives the stored tiles, not the Key inserts
		sorted = sortedmap.New(1024, func(x, y interface{}) bool {
			return tilecode.MustNewKey(x.(Tile).Code) < tilecode.MustNewKey(y.(Tile).Code)
		})
	}

	for tile := range tiles {
		if bounds != nil && !anyCornerIn(bounds, tile.Corners) {
			continue
		}
		if job.Dedupe || job.Sort {
			if _, dup := seen.Set(tile.Code, struct{}{}); dup {
				continue
			}
		}
		if job.Sort {
			sorted.Insert(tilecode.MustNewKey(tile.Code), tile)
			continue
		}
		emit(tile)
	}

	// the sorted map holds the whole grid until the walk finishes
	if sorted != nil {
		byKey := sorted.Map()
		for _, key := range sorted.Keys() {
			emit(byKey[key].(Tile))
		}
	}

	for _, channel := range channels {
		close(channel)
	}
	wg.Wait()

	facets := maps.Keys(counts)
	slices.Sort(facets)
	total := 0
	for _, facet := range facets {
		total += counts[facet]
	}
	slog.Info("grid generated", "tiles", total, "facets", strings.Join(facets, ""))

	return errors.Join(targetErrs...)
}

// anyCornerIn is a planar lon/lat test.
func anyCornerIn(bounds *geom.Extent, corners [3][2]float64) bool {
	for _, c := range corners {
		if bounds.ContainsPoint([2]float64{c[1], c[0]}) {
			return true
		}
	}
	return false
}
