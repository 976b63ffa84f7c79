package metrics

import (
	"github.com/san-kum/grainsim/internal/lattice"
	"github.com/san-kum/grainsim/internal/neighborhood"
)

// TotalMismatch sums, over every site, the neighbors under k whose id
// differs from the site's own. This is the interfacial energy the Potts
// sweep decreases.
func TotalMismatch(g *lattice.Grid, k neighborhood.Kernel) int {
	sum := 0
	for x := 0; x < g.W; x++ {
		for y := 0; y < g.H; y++ {
			sum += neighborhood.Mismatch(neighborhood.Neighbors(g, x, y, k), g.At(x, y).ID)
		}
	}
	return sum
}

// StoredEnergy sums H over the grid.
func StoredEnergy(g *lattice.Grid) int {
	sum := 0
	for _, c := range g.Cells() {
		sum += c.H
	}
	return sum
}

type Energy struct {
	name    string
	kernel  neighborhood.Kernel
	current int
	initial int
	samples int
}

func NewEnergy(k neighborhood.Kernel) *Energy {
	// the composite cascade has no mask of its own
	if k.Composite {
		k = neighborhood.Moore
	}
	return &Energy{name: "energy", kernel: k}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(g *lattice.Grid, step int) {
	e.current = TotalMismatch(g, e.kernel)
	if e.samples == 0 {
		e.initial = e.current
	}
	e.samples++
}

func (e *Energy) Value() float64 { return float64(e.current) }

// Drop returns the relative energy decrease since the first sample.
func (e *Energy) Drop() float64 {
	if e.initial == 0 {
		return 0
	}
	return float64(e.initial-e.current) / float64(e.initial)
}

func (e *Energy) Reset() {
	e.current = 0
	e.initial = 0
	e.samples = 0
}

type Stored struct {
	name  string
	value int
}

func NewStored() *Stored {
	return &Stored{name: "stored_energy"}
}

func (s *Stored) Name() string { return s.name }

func (s *Stored) Observe(g *lattice.Grid, step int) { s.value = StoredEnergy(g) }

func (s *Stored) Value() float64 { return float64(s.value) }

func (s *Stored) Reset() { s.value = 0 }
