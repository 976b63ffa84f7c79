// Package placement stamps shapes onto a lattice. Shapes are clipped at the
// lattice edge; nothing wraps.
package placement

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/grainsim/internal/lattice"
)

// Shape selects the inclusion geometry.
type Shape string

const (
	Square Shape = "SQUARE"
	Circle Shape = "CIRCLE"
)

// ErrUnknownShape indicates an unrecognized shape name.
var ErrUnknownShape = errors.New("placement: unknown shape")

// ParseShape validates a shape name.
func ParseShape(s string) (Shape, error) {
	switch sh := Shape(s); sh {
	case Square, Circle:
		return sh, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownShape, s)
}

// SquareSide converts a square diagonal into a side length.
func SquareSide(diagonal float64) int {
	return int(math.Floor(diagonal/math.Sqrt2 + 0.5))
}

// StampSquare writes id over a square of the given diagonal centered on
// (cx, cy). Offsets run from -floor(side/2) to ceil(side/2) inclusive on
// both axes. It returns the number of cells written.
func StampSquare(g *lattice.Grid, cx, cy int, diagonal float64, id lattice.ID) int {
	side := SquareSide(diagonal)
	half := float64(side) / 2
	lo, hi := -int(math.Floor(half)), int(math.Ceil(half))
	n := 0
	for i := lo; i <= hi; i++ {
		for j := lo; j <= hi; j++ {
			if g.InBounds(cx+i, cy+j) {
				g.SetID(cx+i, cy+j, id)
				n++
			}
		}
	}
	return n
}

// StampCircle writes id at every offset within Euclidean distance radius
// of (cx, cy). It returns the number of cells written.
func StampCircle(g *lattice.Grid, cx, cy, radius int, id lattice.ID) int {
	n := 0
	r := float64(radius)
	for i := -radius; i <= radius; i++ {
		for j := -radius; j <= radius; j++ {
			if !g.InBounds(cx+i, cy+j) {
				continue
			}
			if math.Sqrt(float64(i*i+j*j)) <= r {
				g.SetID(cx+i, cy+j, id)
				n++
			}
		}
	}
	return n
}

// Stamp dispatches on shape. size is the square diagonal or circle radius.
func Stamp(g *lattice.Grid, shape Shape, cx, cy, size int, id lattice.ID) int {
	if shape == Circle {
		return StampCircle(g, cx, cy, size, id)
	}
	return StampSquare(g, cx, cy, float64(size), id)
}

// ThickenBorders stamps an inclusion square of diagonal thickness-1 at
// every point.
func ThickenBorders(g *lattice.Grid, pts []lattice.Point, thickness int) {
	for _, p := range pts {
		StampSquare(g, p.X, p.Y, float64(thickness-1), lattice.Inclusion)
	}
}
