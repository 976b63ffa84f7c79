package neighborhood

import "github.com/san-kum/grainsim/internal/lattice"

// Static reports whether an id is excluded from growth.
type Static interface {
	Contains(id lattice.ID) bool
}

// Neighbors collects the cells under the kernel mask around (x, y).
// Offsets are visited x outermost; offsets that fall off the lattice are
// dropped, so edge and corner sites see fewer neighbors.
func Neighbors(g *lattice.Grid, x, y int, k Kernel) []lattice.Cell {
	rx, ry := k.Radius()
	out := make([]lattice.Cell, 0, 8)
	for dx := -rx; dx <= rx; dx++ {
		for dy := -ry; dy <= ry; dy++ {
			nx, ny := x+dx, y+dy
			if !g.InBounds(nx, ny) {
				continue
			}
			if k.Mask[dx+rx][dy+ry] {
				out = append(out, g.At(nx, ny))
			}
		}
	}
	return out
}

// Count is one entry of an id tally.
type Count struct {
	ID lattice.ID
	N  int
}

// Counts is an id tally in first-appearance order.
type Counts []Count

// IDCounts tallies neighbor ids, keeping the order each id first appears.
func IDCounts(cells []lattice.Cell) Counts {
	counts := make(Counts, 0, len(cells))
outer:
	for _, c := range cells {
		for i := range counts {
			if counts[i].ID == c.ID {
				counts[i].N++
				continue outer
			}
		}
		counts = append(counts, Count{ID: c.ID, N: 1})
	}
	return counts
}

// Of returns the tally for id, zero when absent.
func (c Counts) Of(id lattice.ID) int {
	for _, e := range c {
		if e.ID == id {
			return e.N
		}
	}
	return 0
}

// Majority returns the most frequent non-static id and its count. Ties go
// to the id counted first. When no id qualifies the background id is
// returned together with however many background neighbors were counted.
func Majority(counts Counts, static Static) (lattice.ID, int) {
	best, bestN := lattice.Background, 0
	for _, e := range counts {
		if e.N > bestN && !static.Contains(e.ID) {
			best, bestN = e.ID, e.N
		}
	}
	if best == lattice.Background {
		return best, counts.Of(best)
	}
	return best, bestN
}

// Mismatch counts the cells whose id differs from id.
func Mismatch(cells []lattice.Cell, id lattice.ID) int {
	n := 0
	for _, c := range cells {
		if c.ID != id {
			n++
		}
	}
	return n
}
