package engine

import (
	"math/rand/v2"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/grainsim/internal/lattice"
	"github.com/san-kum/grainsim/internal/neighborhood"
	"github.com/san-kum/grainsim/internal/statics"
)

func randomGrid(rng *rand.Rand, w, h int, palette []lattice.ID) *lattice.Grid {
	g := lattice.MustNew(w, h, lattice.Background)
	for _, p := range g.Points() {
		g.SetID(p.X, p.Y, palette[rng.IntN(len(palette))])
	}
	return g
}

var _ = Describe("Engine", func() {
	var (
		rng *rand.Rand
		e   *Engine
		reg *statics.Registry
	)

	BeforeEach(func() {
		rng = rand.New(rand.NewPCG(42, 1))
		e = New(rng)
		reg = statics.New()
	})

	Describe("cellular automaton", func() {
		kernels := []neighborhood.Kernel{
			neighborhood.Moore,
			neighborhood.NearestMoore,
			neighborhood.FurtherMoore,
			neighborhood.ComplexMoore,
		}

		It("leaves a grid without background untouched", func() {
			for _, k := range kernels {
				g := randomGrid(rng, 12, 9, []lattice.ID{grainA, grainB, grainC})
				res := e.Step(g, StepConfig{Mode: CA, Kernel: k, Probability: 100, Static: reg})
				Expect(res.Grid.Equal(g)).To(BeTrue(), k.Name)
				Expect(res.Changed).To(BeZero())
			}
		})

		It("never rewrites a non-background cell", func() {
			palette := []lattice.ID{lattice.Background, lattice.Background, lattice.Inclusion, grainA, grainB}
			for _, k := range kernels {
				g := randomGrid(rng, 15, 15, palette)
				res := e.Step(g, StepConfig{Mode: CA, Kernel: k, Probability: 50, Static: reg})
				for _, p := range g.Points() {
					if id := g.At(p.X, p.Y).ID; id != lattice.Background {
						Expect(res.Grid.At(p.X, p.Y).ID).To(Equal(id))
					}
				}
			}
		})

		It("fills a lattice from scattered seeds", func() {
			g := lattice.MustNew(20, 20, lattice.Background)
			g.SetID(3, 3, grainA)
			g.SetID(16, 12, grainB)
			for i := 0; i < 40 && g.Count(lattice.Background) > 0; i++ {
				g = e.Step(g, StepConfig{Mode: CA, Kernel: neighborhood.Moore, Static: reg}).Grid
			}
			Expect(g.Count(lattice.Background)).To(BeZero())
			Expect(g.Count(grainA) + g.Count(grainB)).To(Equal(400))
		})
	})

	Describe("Potts Monte Carlo", func() {
		It("never raises the total mismatch energy", func() {
			g := randomGrid(rng, 16, 16, []lattice.ID{grainA, grainB, grainC})
			for i := 0; i < 10; i++ {
				before := totalMismatch(g, neighborhood.Moore)
				g = e.Step(g, StepConfig{Mode: MonteCarlo, Kernel: neighborhood.Moore, Static: reg}).Grid
				Expect(totalMismatch(g, neighborhood.Moore)).To(BeNumerically("<=", before))
			}
		})

		It("never introduces a pinned id", func() {
			g := randomGrid(rng, 10, 10, []lattice.ID{grainA, grainB, grainC})
			reg.Pin(grainC)
			initial := g.Count(grainC)
			for i := 0; i < 5; i++ {
				g = e.Potts(g, neighborhood.NearestMoore, reg).Grid
			}
			Expect(g.Count(grainC)).To(BeNumerically("<=", initial))
		})
	})

	Describe("static recrystallization", func() {
		It("keeps frozen sites frozen across steps", func() {
			g := randomGrid(rng, 14, 14, []lattice.ID{grainA, grainB, grainC})
			cfg := StepConfig{Mode: SRXMonteCarlo, Kernel: neighborhood.Moore, Seeds: 5, NucleationMode: Everywhere}

			frozen := map[lattice.Point]lattice.Cell{}
			for i := 0; i < 8; i++ {
				g = e.Step(g, cfg).Grid
				for p, c := range frozen {
					Expect(g.At(p.X, p.Y)).To(Equal(c))
				}
				for _, p := range g.Points() {
					if c := g.At(p.X, p.Y); c.IsFrozen() {
						frozen[p] = c
					}
				}
			}
			Expect(frozen).NotTo(BeEmpty())
		})

		It("nucleates only on border sites in border mode", func() {
			g := lattice.MustNew(6, 6, grainA)
			sites := []lattice.Point{{X: 1, Y: 1}, {X: 4, Y: 2}}
			cfg := StepConfig{Mode: SRXMonteCarlo, Kernel: neighborhood.Moore, Seeds: 20, NucleationMode: Borders, BorderSites: sites}

			res := e.Step(g, cfg)

			Expect(len(res.Nuclei)).To(BeNumerically("<=", len(sites)))
			for _, id := range res.Nuclei {
				Expect(IsRecrystallizedID(id)).To(BeTrue())
			}
			for _, p := range sites {
				Expect(res.Grid.At(p.X, p.Y).IsFrozen()).To(BeTrue())
			}
		})
	})
})
