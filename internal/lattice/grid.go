package lattice

import "fmt"

// Grid stores a rectangular lattice of cells in row-major order.
type Grid struct {
	W, H  int
	cells []Cell
}

// New allocates a grid with every cell set to {id, DefaultEnergy}.
func New(w, h int, id ID) (*Grid, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, w, h)
	}
	g := &Grid{W: w, H: h, cells: make([]Cell, w*h)}
	for i := range g.cells {
		g.cells[i] = NewCell(id)
	}
	return g, nil
}

// MustNew is New for sizes known to be valid. It panics otherwise.
func MustNew(w, h int, id ID) *Grid {
	g, err := New(w, h, id)
	if err != nil {
		panic(err)
	}
	return g
}

// InBounds reports whether (x, y) lies on the lattice.
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && x < g.W && y >= 0 && y < g.H
}

func (g *Grid) index(x, y int) int { return y*g.W + x }

// At returns the cell at (x, y). The coordinate must be in bounds.
func (g *Grid) At(x, y int) Cell { return g.cells[g.index(x, y)] }

// Set overwrites the cell at (x, y). The coordinate must be in bounds.
func (g *Grid) Set(x, y int, c Cell) { g.cells[g.index(x, y)] = c }

// SetID changes the id at (x, y) and keeps the stored energy.
func (g *Grid) SetID(x, y int, id ID) { g.cells[g.index(x, y)].ID = id }

// SetEnergy changes the stored energy at (x, y) and keeps the id.
func (g *Grid) SetEnergy(x, y int, h int) { g.cells[g.index(x, y)].H = h }

// Cells exposes the backing slice in row-major order.
func (g *Grid) Cells() []Cell { return g.cells }

// Clone returns a deep copy.
func (g *Grid) Clone() *Grid {
	c := &Grid{W: g.W, H: g.H, cells: make([]Cell, len(g.cells))}
	copy(c.cells, g.cells)
	return c
}

// Equal reports whether both grids have the same dimensions and cells.
func (g *Grid) Equal(other *Grid) bool {
	if other == nil || g.W != other.W || g.H != other.H {
		return false
	}
	for i := range g.cells {
		if g.cells[i] != other.cells[i] {
			return false
		}
	}
	return true
}

// Points lists every coordinate, x outermost.
func (g *Grid) Points() []Point {
	pts := make([]Point, 0, len(g.cells))
	for x := 0; x < g.W; x++ {
		for y := 0; y < g.H; y++ {
			pts = append(pts, Point{X: x, Y: y})
		}
	}
	return pts
}

// Distinct returns every id present on the grid in first-seen order,
// scanning x outermost.
func (g *Grid) Distinct() []ID {
	seen := make(map[ID]struct{})
	ids := make([]ID, 0)
	for x := 0; x < g.W; x++ {
		for y := 0; y < g.H; y++ {
			id := g.At(x, y).ID
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	return ids
}

// Count returns how many cells carry id.
func (g *Grid) Count(id ID) int {
	n := 0
	for _, c := range g.cells {
		if c.ID == id {
			n++
		}
	}
	return n
}

// FillEnergy sets every cell's stored energy to h.
func (g *Grid) FillEnergy(h int) {
	for i := range g.cells {
		g.cells[i].H = h
	}
}
