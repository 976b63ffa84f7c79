package borders

import (
	"math/rand/v2"
	"testing"

	"github.com/san-kum/grainsim/internal/lattice"
	"github.com/san-kum/grainsim/internal/statics"
)

var (
	left  = lattice.ID{R: 10, G: 10, B: 10}
	right = lattice.ID{R: 20, G: 20, B: 20}
)

func splitGrid(w, h int) *lattice.Grid {
	g := lattice.MustNew(w, h, left)
	for x := w / 2; x < w; x++ {
		for y := 0; y < h; y++ {
			g.SetID(x, y, right)
		}
	}
	return g
}

func TestFindSplitGrid(t *testing.T) {
	g := splitGrid(6, 4)
	pts := Find(g, statics.New(), false)

	if len(pts) != 8 {
		t.Fatalf("expected 8 border sites, got %d: %v", len(pts), pts)
	}
	for _, p := range pts {
		if p.X != 2 && p.X != 3 {
			t.Errorf("unexpected border site %v", p)
		}
	}
}

func TestFindMatchesDefinition(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 0))
	ids := []lattice.ID{left, right, lattice.Inclusion, lattice.Background, {R: 99}}
	reg := statics.New()

	g := lattice.MustNew(9, 7, left)
	for x := 0; x < g.W; x++ {
		for y := 0; y < g.H; y++ {
			g.SetID(x, y, ids[rng.IntN(len(ids))])
		}
	}

	for _, forceAll := range []bool{false, true} {
		found := make(map[lattice.Point]bool)
		for _, p := range Find(g, reg, forceAll) {
			found[p] = true
		}

		for x := 0; x < g.W; x++ {
			for y := 0; y < g.H; y++ {
				distinct := make(map[lattice.ID]bool)
				for dx := -1; dx <= 1; dx++ {
					for dy := -1; dy <= 1; dy++ {
						if (dx == 0 && dy == 0) || !g.InBounds(x+dx, y+dy) {
							continue
						}
						id := g.At(x+dx, y+dy).ID
						if forceAll || !reg.Contains(id) {
							distinct[id] = true
						}
					}
				}
				want := len(distinct) >= 2
				if found[lattice.Point{X: x, Y: y}] != want {
					t.Errorf("forceAll=%v site (%d,%d): border=%v, want %v", forceAll, x, y, !want, want)
				}
			}
		}
	}
}

func TestFindIgnoresStatics(t *testing.T) {
	g := lattice.MustNew(3, 3, lattice.Background)
	g.SetID(1, 1, left)
	reg := statics.New()

	if pts := Find(g, reg, false); len(pts) != 0 {
		t.Errorf("background neighbors must not form a border, got %v", pts)
	}
	if pts := Find(g, reg, true); len(pts) == 0 {
		t.Error("forceAll should count background as a distinct id")
	}
}

func TestLocatorCacheByVersion(t *testing.T) {
	g := splitGrid(4, 4)
	reg := statics.New()
	l := NewLocator()

	first := l.Find(g, 1, reg, false)
	if len(first) == 0 {
		t.Fatal("expected border sites")
	}

	// mutate without bumping the version: cached result is returned
	for x := 0; x < g.W; x++ {
		for y := 0; y < g.H; y++ {
			g.SetID(x, y, left)
		}
	}
	if got := l.Find(g, 1, reg, false); len(got) != len(first) {
		t.Error("same version should reuse the cached result")
	}

	if got := l.Find(g, 2, reg, false); len(got) != 0 {
		t.Errorf("new version should rescan, got %v", got)
	}
}

func TestLocatorRandom(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	reg := statics.New()
	l := NewLocator()

	uniform := lattice.MustNew(3, 3, left)
	if _, ok := l.Random(uniform, 1, reg, rng); ok {
		t.Error("expected no border on a single-grain grid")
	}

	g := splitGrid(6, 6)
	for i := 0; i < 20; i++ {
		p, ok := l.Random(g, 2, reg, rng)
		if !ok {
			t.Fatal("expected a border site")
		}
		if !IsBorder(g, p.X, p.Y, reg, false) {
			t.Errorf("picked non-border site %v", p)
		}
	}
}
