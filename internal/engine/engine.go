package engine

import (
	"math/rand/v2"

	"github.com/san-kum/grainsim/internal/lattice"
	"github.com/san-kum/grainsim/internal/neighborhood"
)

// Composite cascade thresholds.
const (
	mooreThreshold   = 5
	partialThreshold = 3
)

// Engine runs the stepping rules against a shared random source.
type Engine struct {
	rng *rand.Rand
}

// New returns an engine drawing from rng.
func New(rng *rand.Rand) *Engine {
	return &Engine{rng: rng}
}

// NewSeeded returns an engine with a PCG source seeded from seed.
func NewSeeded(seed int64) *Engine {
	return New(rand.New(rand.NewPCG(uint64(seed), 0)))
}

// Rand exposes the underlying source for callers that share it.
func (e *Engine) Rand() *rand.Rand { return e.rng }

// Step runs one step of the configured mode on a snapshot of prev.
func (e *Engine) Step(prev *lattice.Grid, cfg StepConfig) StepResult {
	switch cfg.Mode {
	case MonteCarlo:
		return e.Potts(prev, cfg.Kernel, cfg.Static)
	case SRXMonteCarlo:
		work := prev.Clone()
		nuclei := e.Nucleate(work, cfg.NucleationMode, cfg.Seeds, cfg.BorderSites)
		res := e.srxPass(work, cfg.Kernel)
		res.Changed += len(nuclei)
		res.Nuclei = nuclei
		return res
	default:
		if cfg.Kernel.Composite {
			return e.Composite(prev, cfg.Probability, cfg.Static)
		}
		return e.Majority(prev, cfg.Kernel, cfg.Static)
	}
}

// Majority is the cellular-automaton growth rule: every background cell
// takes the most frequent non-static id under the kernel, read from prev.
func (e *Engine) Majority(prev *lattice.Grid, k neighborhood.Kernel, static neighborhood.Static) StepResult {
	next := prev.Clone()
	changed := 0
	for x := 0; x < prev.W; x++ {
		for y := 0; y < prev.H; y++ {
			if prev.At(x, y).ID != lattice.Background {
				continue
			}
			id, _ := neighborhood.Majority(neighborhood.IDCounts(neighborhood.Neighbors(prev, x, y, k)), static)
			if id != lattice.Background {
				next.SetID(x, y, id)
				changed++
			}
		}
	}
	return StepResult{Grid: next, Changed: changed}
}

// Composite is the cascaded Moore rule. For a background cell:
//
//  1. more than five Moore neighbors share the majority id: adopt it
//  2. exactly three orthogonal neighbors share the majority id: adopt it
//  3. exactly three diagonal neighbors share the majority id: adopt it
//  4. with the given percent probability adopt the Moore majority of rule 1
//
// The rule 4 fallback always uses the Moore majority, never the ids
// considered by rules 2 and 3.
func (e *Engine) Composite(prev *lattice.Grid, probability int, static neighborhood.Static) StepResult {
	next := prev.Clone()
	changed := 0
	for x := 0; x < prev.W; x++ {
		for y := 0; y < prev.H; y++ {
			if prev.At(x, y).ID != lattice.Background {
				continue
			}
			id := e.cascade(prev, x, y, probability, static)
			if id != lattice.Background {
				next.SetID(x, y, id)
				changed++
			}
		}
	}
	return StepResult{Grid: next, Changed: changed}
}

func (e *Engine) cascade(g *lattice.Grid, x, y, probability int, static neighborhood.Static) lattice.ID {
	majority := func(k neighborhood.Kernel) (lattice.ID, int) {
		return neighborhood.Majority(neighborhood.IDCounts(neighborhood.Neighbors(g, x, y, k)), static)
	}

	mooreID, n := majority(neighborhood.Moore)
	if n > mooreThreshold {
		return mooreID
	}
	if id, n := majority(neighborhood.NearestMoore); n == partialThreshold {
		return id
	}
	if id, n := majority(neighborhood.FurtherMoore); n == partialThreshold {
		return id
	}
	if e.rng.IntN(100) <= probability {
		return mooreID
	}
	return lattice.Background
}

// Potts runs one Monte Carlo sweep. Sites are visited in random order
// without replacement and updated in place. Each site proposes an id drawn
// uniformly from the non-static ids present at the start of the sweep and
// accepts it when the count of mismatched neighbors strictly drops.
func (e *Engine) Potts(prev *lattice.Grid, k neighborhood.Kernel, static neighborhood.Static) StepResult {
	work := prev.Clone()

	candidates := make([]lattice.ID, 0)
	for _, id := range work.Distinct() {
		if !static.Contains(id) {
			candidates = append(candidates, id)
		}
	}
	if len(candidates) == 0 {
		return StepResult{Grid: work}
	}

	changed := 0
	e.sweep(work, func(x, y int) {
		cur := work.At(x, y).ID
		cand := candidates[e.rng.IntN(len(candidates))]
		nbrs := neighborhood.Neighbors(work, x, y, k)

		before := neighborhood.Mismatch(nbrs, cur)
		after := neighborhood.Mismatch(nbrs, cand)
		if after < before {
			work.SetID(x, y, cand)
			changed++
		}
	})
	return StepResult{Grid: work, Changed: changed}
}

// SRX runs one recrystallization sweep on a copy of prev without
// nucleation. Use Step with an SRX config to nucleate first.
func (e *Engine) SRX(prev *lattice.Grid, k neighborhood.Kernel) StepResult {
	return e.srxPass(prev.Clone(), k)
}

// srxPass mutates work in place. Frozen sites never change. A live site
// proposes the id of a random neighbor; the proposal carries H=0 when that
// neighbor is frozen and the site's own H otherwise. The proposal is
// accepted when mismatched neighbors plus H strictly drops.
func (e *Engine) srxPass(work *lattice.Grid, k neighborhood.Kernel) StepResult {
	changed := 0
	e.sweep(work, func(x, y int) {
		cur := work.At(x, y)
		if cur.IsFrozen() {
			return
		}
		nbrs := neighborhood.Neighbors(work, x, y, k)
		if len(nbrs) == 0 {
			return
		}
		donor := nbrs[e.rng.IntN(len(nbrs))]

		candH := cur.H
		if donor.IsFrozen() {
			candH = lattice.Frozen
		}

		before := neighborhood.Mismatch(nbrs, cur.ID) + cur.H
		after := neighborhood.Mismatch(nbrs, donor.ID) + candH
		if after < before {
			work.Set(x, y, lattice.Cell{ID: donor.ID, H: candH})
			changed++
		}
	})
	return StepResult{Grid: work, Changed: changed}
}

// sweep visits every site of g exactly once in random order.
func (e *Engine) sweep(g *lattice.Grid, visit func(x, y int)) {
	pts := g.Points()
	for len(pts) > 0 {
		i := e.rng.IntN(len(pts))
		p := pts[i]
		last := len(pts) - 1
		pts[i] = pts[last]
		pts = pts[:last]
		visit(p.X, p.Y)
	}
}
