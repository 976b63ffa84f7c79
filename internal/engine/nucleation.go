package engine

import (
	"fmt"

	"github.com/san-kum/grainsim/internal/lattice"
)

// NucleationMode selects where nuclei may appear.
type NucleationMode string

const (
	Everywhere NucleationMode = "EVERYWHERE"
	Borders    NucleationMode = "BORDERS"
)

// ParseNucleationMode validates a nucleation mode name.
func ParseNucleationMode(s string) (NucleationMode, error) {
	switch m := NucleationMode(s); m {
	case Everywhere, Borders:
		return m, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownNucleationMode, s)
}

// Increment is the nucleation schedule across a batch of steps.
type Increment string

const (
	// Const injects the amount once, on the first step of each batch.
	Const Increment = "CONST"
	// Increasing injects the amount on every step.
	Increasing Increment = "INCREASING"
	// Once never injects automatically; nucleation is manual only.
	Once Increment = "ONCE"
)

// ParseIncrement validates a nucleation policy name.
func ParseIncrement(s string) (Increment, error) {
	switch inc := Increment(s); inc {
	case Const, Increasing, Once:
		return inc, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownIncrement, s)
}

// Nucleation is the session's nucleation schedule.
type Nucleation struct {
	Mode      NucleationMode
	Increment Increment
	Amount    int
	// Counter accumulates the seeds requested since the schedule was set.
	Counter int
}

// NewNucleation builds a schedule. The counter starts at zero for an
// increasing schedule and at the amount otherwise.
func NewNucleation(mode NucleationMode, inc Increment, amount int) Nucleation {
	n := Nucleation{Mode: mode, Increment: inc, Amount: amount}
	if inc != Increasing {
		n.Counter = amount
	}
	return n
}

// Due returns how many seeds to inject before step index i (0-based) of a
// batch and advances the counter.
func (n *Nucleation) Due(i int) int {
	k := 0
	switch n.Increment {
	case Increasing:
		k = n.Amount
	case Const:
		if i == 0 {
			k = n.Amount
		}
	}
	n.Counter += k
	return k
}

// RandomID draws a grain id with every channel in [0,255).
func (e *Engine) RandomID() lattice.ID {
	return lattice.ID{
		R: uint8(e.rng.IntN(255)),
		G: uint8(e.rng.IntN(255)),
		B: uint8(e.rng.IntN(255)),
	}
}

// RecrystallizedID draws an id from the reserved nucleus band: red in
// [127,255), green and blue zero.
func (e *Engine) RecrystallizedID() lattice.ID {
	return lattice.ID{R: uint8(127 + e.rng.IntN(128))}
}

// IsRecrystallizedID reports whether id lies in the nucleus band.
func IsRecrystallizedID(id lattice.ID) bool {
	return id.R >= 127 && id.G == 0 && id.B == 0
}

// Nucleate injects up to amount nuclei into g in place. Each seed lands on
// a uniform random site (Everywhere) or a uniform random entry of
// borderSites (Borders). A frozen target is skipped. It returns the ids of
// the nuclei created.
func (e *Engine) Nucleate(g *lattice.Grid, mode NucleationMode, amount int, borderSites []lattice.Point) []lattice.ID {
	created := make([]lattice.ID, 0, amount)
	for i := 0; i < amount; i++ {
		var p lattice.Point
		if mode == Borders {
			if len(borderSites) == 0 {
				continue
			}
			p = borderSites[e.rng.IntN(len(borderSites))]
		} else {
			p = lattice.Point{X: e.rng.IntN(g.W), Y: e.rng.IntN(g.H)}
		}

		if g.At(p.X, p.Y).IsFrozen() {
			continue
		}
		id := e.RecrystallizedID()
		g.Set(p.X, p.Y, lattice.Cell{ID: id, H: lattice.Frozen})
		created = append(created, id)
	}
	return created
}
