package metrics

import (
	"github.com/san-kum/grainsim/internal/borders"
	"github.com/san-kum/grainsim/internal/lattice"
	"github.com/san-kum/grainsim/internal/neighborhood"
)

// GrainIDs counts the distinct ids on g that are not static.
func GrainIDs(g *lattice.Grid, static neighborhood.Static) int {
	n := 0
	for _, id := range g.Distinct() {
		if !static.Contains(id) {
			n++
		}
	}
	return n
}

// FrozenFraction is the share of sites with H == 0.
func FrozenFraction(g *lattice.Grid) float64 {
	frozen := 0
	cells := g.Cells()
	for _, c := range cells {
		if c.IsFrozen() {
			frozen++
		}
	}
	return float64(frozen) / float64(len(cells))
}

// FilledFraction is the share of sites not holding the background id.
func FilledFraction(g *lattice.Grid) float64 {
	cells := g.Cells()
	return 1 - float64(g.Count(lattice.Background))/float64(len(cells))
}

type Grains struct {
	name   string
	static neighborhood.Static
	value  int
}

func NewGrains(static neighborhood.Static) *Grains {
	return &Grains{name: "grains", static: static}
}

func (m *Grains) Name() string                      { return m.name }
func (m *Grains) Observe(g *lattice.Grid, step int) { m.value = GrainIDs(g, m.static) }
func (m *Grains) Value() float64                    { return float64(m.value) }
func (m *Grains) Reset()                            { m.value = 0 }

type Recrystallized struct {
	name  string
	value float64
}

func NewRecrystallized() *Recrystallized {
	return &Recrystallized{name: "recrystallized"}
}

func (m *Recrystallized) Name() string                      { return m.name }
func (m *Recrystallized) Observe(g *lattice.Grid, step int) { m.value = FrozenFraction(g) }
func (m *Recrystallized) Value() float64                    { return m.value }
func (m *Recrystallized) Reset()                            { m.value = 0 }

type Filled struct {
	name  string
	value float64
}

func NewFilled() *Filled {
	return &Filled{name: "filled"}
}

func (m *Filled) Name() string                      { return m.name }
func (m *Filled) Observe(g *lattice.Grid, step int) { m.value = FilledFraction(g) }
func (m *Filled) Value() float64                    { return m.value }
func (m *Filled) Reset()                            { m.value = 0 }

// Borders counts border sites. It recomputes every sample since the grid
// changes between steps.
type Borders struct {
	name   string
	static neighborhood.Static
	value  int
}

func NewBorders(static neighborhood.Static) *Borders {
	return &Borders{name: "borders", static: static}
}

func (m *Borders) Name() string { return m.name }

func (m *Borders) Observe(g *lattice.Grid, step int) {
	m.value = len(borders.Find(g, m.static, false))
}

func (m *Borders) Value() float64 { return float64(m.value) }
func (m *Borders) Reset()         { m.value = 0 }

// Default returns the standard metric set for a kernel and static registry.
func Default(k neighborhood.Kernel, static neighborhood.Static) []Metric {
	return []Metric{
		NewFilled(),
		NewGrains(static),
		NewEnergy(k),
		NewStored(),
		NewRecrystallized(),
		NewBorders(static),
	}
}
