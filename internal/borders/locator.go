// Package borders finds grain-boundary sites on a lattice.
package borders

import (
	"math/rand/v2"

	"github.com/san-kum/grainsim/internal/lattice"
	"github.com/san-kum/grainsim/internal/neighborhood"
)

// Find scans every site's fixed 8-connected neighborhood and returns the
// sites that see two or more distinct ids among their neighbors. Static ids
// are ignored unless forceAll is set. The site's own id is not counted.
func Find(g *lattice.Grid, static neighborhood.Static, forceAll bool) []lattice.Point {
	results := make([]lattice.Point, 0)
	for x := 0; x < g.W; x++ {
		for y := 0; y < g.H; y++ {
			if IsBorder(g, x, y, static, forceAll) {
				results = append(results, lattice.Point{X: x, Y: y})
			}
		}
	}
	return results
}

// IsBorder applies the border test to a single site.
func IsBorder(g *lattice.Grid, x, y int, static neighborhood.Static, forceAll bool) bool {
	first, found := lattice.ID{}, false
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			if (dx == 0 && dy == 0) || !g.InBounds(x+dx, y+dy) {
				continue
			}
			id := g.At(x+dx, y+dy).ID
			if !forceAll && static.Contains(id) {
				continue
			}
			if !found {
				first, found = id, true
				continue
			}
			if id != first {
				return true
			}
		}
	}
	return false
}

// Locator memoizes the last border scan. The cache is keyed on a grid
// version supplied by the owner, which must bump it on every mutation;
// a new version always forces a rescan even when the contents match.
type Locator struct {
	valid    bool
	version  uint64
	forceAll bool
	result   []lattice.Point
}

// NewLocator returns an empty locator.
func NewLocator() *Locator {
	return &Locator{}
}

// Find returns the border sites of g at the given version.
func (l *Locator) Find(g *lattice.Grid, version uint64, static neighborhood.Static, forceAll bool) []lattice.Point {
	if l.valid && l.version == version && l.forceAll == forceAll {
		return l.result
	}
	l.result = Find(g, static, forceAll)
	l.version, l.forceAll, l.valid = version, forceAll, true
	return l.result
}

// Random picks one border site uniformly. ok is false when there are none.
func (l *Locator) Random(g *lattice.Grid, version uint64, static neighborhood.Static, rng *rand.Rand) (lattice.Point, bool) {
	pts := l.Find(g, version, static, false)
	if len(pts) == 0 {
		return lattice.Point{}, false
	}
	return pts[rng.IntN(len(pts))], true
}

// All returns every border site, static ids included.
func (l *Locator) All(g *lattice.Grid, version uint64, static neighborhood.Static) []lattice.Point {
	return l.Find(g, version, static, true)
}

// Invalidate drops the cached result.
func (l *Locator) Invalidate() {
	l.valid = false
	l.result = nil
}
