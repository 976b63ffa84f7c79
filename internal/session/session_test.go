package session

import (
	"context"
	"errors"
	"testing"

	"github.com/san-kum/grainsim/internal/config"
	"github.com/san-kum/grainsim/internal/engine"
	"github.com/san-kum/grainsim/internal/lattice"
	"github.com/san-kum/grainsim/internal/neighborhood"
	"github.com/san-kum/grainsim/internal/placement"
	"github.com/san-kum/grainsim/internal/statics"
)

var (
	left  = lattice.ID{R: 10, G: 10, B: 10}
	right = lattice.ID{R: 20, G: 20, B: 20}
)

func newSession(t *testing.T, mutate func(*config.Config)) *Session {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Width, cfg.Height = 20, 20
	cfg.Seed = 11
	if mutate != nil {
		mutate(cfg)
	}
	s, err := New(cfg, nil)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	return s
}

func splitGrid() *lattice.Grid {
	g := lattice.MustNew(4, 4, left)
	for x := 2; x < 4; x++ {
		for y := 0; y < 4; y++ {
			g.SetID(x, y, right)
		}
	}
	return g
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Kernel = "HEX"

	if _, err := New(cfg, nil); !errors.Is(err, neighborhood.ErrUnknownKernel) {
		t.Errorf("expected ErrUnknownKernel, got %v", err)
	}
}

func TestInit(t *testing.T) {
	s := newSession(t, nil)
	v := s.Version()

	if err := s.Init(7, 3); err != nil {
		t.Fatal(err)
	}
	g := s.Grid()
	if g.W != 7 || g.H != 3 || g.Count(lattice.Background) != 21 {
		t.Errorf("expected 7x3 background grid, got %dx%d", g.W, g.H)
	}
	if s.Version() <= v {
		t.Error("init should bump the grid version")
	}
	if err := s.Init(0, 3); !errors.Is(err, lattice.ErrInvalidSize) {
		t.Errorf("expected ErrInvalidSize, got %v", err)
	}
}

func TestGridIsACopy(t *testing.T) {
	s := newSession(t, nil)
	g := s.Grid()
	g.SetID(0, 0, left)

	if s.View().At(0, 0).ID != lattice.Background {
		t.Error("mutating Grid() result changed the session")
	}
}

func TestStepSingleSeed(t *testing.T) {
	s := newSession(t, nil)
	g := lattice.MustNew(3, 3, lattice.Background)
	g.SetID(1, 1, lattice.ID{R: 1, G: 2, B: 3})
	s.Load(g)

	s.Step()

	if n := s.View().Count(lattice.ID{R: 1, G: 2, B: 3}); n != 9 {
		t.Errorf("expected 9 cells, got %d", n)
	}
}

type stepLog struct{ steps []int }

func (l *stepLog) OnStep(step int, g *lattice.Grid) { l.steps = append(l.steps, step) }

func TestRunNotifiesObservers(t *testing.T) {
	s := newSession(t, nil)
	s.AddSeeds(5)
	log := &stepLog{}
	s.AddObserver(log)

	n, err := s.Run(context.Background(), 4)
	if err != nil || n != 4 {
		t.Fatalf("expected 4 steps, got %d %v", n, err)
	}
	if len(log.steps) != 4 || log.steps[0] != 1 || log.steps[3] != 4 {
		t.Errorf("unexpected observer calls %v", log.steps)
	}
	if s.StepCount() != 4 {
		t.Errorf("expected step count 4, got %d", s.StepCount())
	}
}

func TestRunStopsBetweenSteps(t *testing.T) {
	s := newSession(t, nil)
	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	s.AddObserver(ObserverFunc(func(step int, g *lattice.Grid) {
		calls++
		if step == 2 {
			cancel()
		}
	}))

	n, err := s.Run(ctx, 10)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if n != 2 || calls != 2 {
		t.Errorf("expected to stop after 2 steps, got %d (%d calls)", n, calls)
	}
}

func TestRunRejectsNegative(t *testing.T) {
	s := newSession(t, nil)
	if _, err := s.Run(context.Background(), -1); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestAddSeeds(t *testing.T) {
	s := newSession(t, nil)

	placed := s.AddSeeds(10)

	if placed == 0 || placed > 10 {
		t.Fatalf("expected up to 10 seeds, got %d", placed)
	}
	if got := 400 - s.View().Count(lattice.Background); got != placed {
		t.Errorf("expected %d seeded cells, got %d", placed, got)
	}

	s.Load(lattice.MustNew(3, 3, left))
	if placed := s.AddSeeds(4); placed != 0 {
		t.Errorf("full grid should take no seeds, got %d", placed)
	}
}

func TestFillRandom(t *testing.T) {
	s := newSession(t, nil)
	s.AddInclusions(placement.Circle, 1, 3)
	inclusions := s.View().Count(lattice.Inclusion)

	if err := s.FillRandom(6); err != nil {
		t.Fatal(err)
	}

	g := s.View()
	if g.Count(lattice.Background) != 0 {
		t.Error("fill should leave no background")
	}
	if g.Count(lattice.Inclusion) != inclusions {
		t.Error("fill should keep inclusions")
	}
	pool := map[lattice.ID]bool{}
	for _, id := range s.Pool() {
		pool[id] = true
	}
	for _, c := range g.Cells() {
		if c.ID != lattice.Inclusion && !pool[c.ID] {
			t.Fatalf("id %s not from the pool", c.ID)
		}
	}

	if err := s.FillRandom(0); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestAddInclusions(t *testing.T) {
	s := newSession(t, nil)

	n, err := s.AddInclusions(placement.Circle, 0, 5)
	if err != nil {
		t.Fatal(err)
	}
	if n != 5 {
		t.Errorf("expected 5 single-cell stamps, got %d", n)
	}
	if s.View().Count(lattice.Inclusion) == 0 {
		t.Error("expected inclusion cells")
	}

	if _, err := s.AddInclusions("HEX", 1, 1); !errors.Is(err, placement.ErrUnknownShape) {
		t.Errorf("expected ErrUnknownShape, got %v", err)
	}
}

func TestAddInclusionsOnBorders(t *testing.T) {
	s := newSession(t, nil)
	s.Load(splitGrid())
	s.step = 3

	if _, err := s.AddInclusions(placement.Circle, 0, 6); err != nil {
		t.Fatal(err)
	}

	g := s.View()
	for _, p := range g.Points() {
		if g.At(p.X, p.Y).ID == lattice.Inclusion && p.X != 1 && p.X != 2 {
			t.Errorf("inclusion at (%d,%d) is off the border", p.X, p.Y)
		}
	}
}

func TestAddBorders(t *testing.T) {
	s := newSession(t, nil)
	s.Load(splitGrid())

	sites, err := s.AddBorders(1)
	if err != nil {
		t.Fatal(err)
	}
	if sites != 8 || s.View().Count(lattice.Inclusion) != 8 {
		t.Errorf("expected 8 border cells, got %d sites %d cells", sites, s.View().Count(lattice.Inclusion))
	}

	if _, err := s.AddBorders(0); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestEnergy(t *testing.T) {
	s := newSession(t, nil)
	s.Load(splitGrid())

	if err := s.DistributeEnergy(4); err != nil {
		t.Fatal(err)
	}
	if n := s.EnergizeBorders(); n != 8 {
		t.Errorf("expected 8 energized sites, got %d", n)
	}

	g := s.View()
	for _, p := range g.Points() {
		h := g.At(p.X, p.Y).H
		onBorder := p.X == 1 || p.X == 2
		if onBorder && (h < 10 || h >= 20) {
			t.Errorf("border site (%d,%d) has H=%d", p.X, p.Y, h)
		}
		if !onBorder && h != 4 {
			t.Errorf("interior site (%d,%d) has H=%d", p.X, p.Y, h)
		}
	}

	if err := s.DistributeEnergy(-1); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestSRXConstScheduleOncePerBatch(t *testing.T) {
	s := newSession(t, func(c *config.Config) {
		c.Mode = string(engine.SRXMonteCarlo)
		c.Nucleation.Increment = string(engine.Const)
		c.Nucleation.Amount = 3
	})
	if err := s.FillRandom(4); err != nil {
		t.Fatal(err)
	}

	if _, err := s.Run(context.Background(), 5); err != nil {
		t.Fatal(err)
	}

	if c := s.Nucleation().Counter; c != 6 {
		t.Errorf("expected counter 6 after one batch, got %d", c)
	}
	if n := len(s.Nuclei()); n == 0 || n > 3 {
		t.Errorf("expected 1 to 3 nuclei, got %d", n)
	}
}

func TestBatchStepConstSchedule(t *testing.T) {
	s := newSession(t, func(c *config.Config) {
		c.Mode = string(engine.SRXMonteCarlo)
		c.Nucleation.Increment = string(engine.Const)
		c.Nucleation.Amount = 3
	})
	if err := s.FillRandom(4); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 4; i++ {
		s.BatchStep(i)
	}
	if c := s.Nucleation().Counter; c != 6 {
		t.Errorf("expected counter 6 after one batch, got %d", c)
	}

	s.BatchStep(0)
	if c := s.Nucleation().Counter; c != 9 {
		t.Errorf("a new batch should inject again, got counter %d", c)
	}
}

func TestManualNucleate(t *testing.T) {
	s := newSession(t, func(c *config.Config) {
		c.Nucleation.Increment = string(engine.Once)
		c.Nucleation.Amount = 4
	})

	ids := s.Nucleate()

	if len(ids) == 0 || len(ids) > 4 {
		t.Fatalf("expected 1 to 4 nuclei, got %d", len(ids))
	}
	frozen := 0
	for _, c := range s.View().Cells() {
		if c.IsFrozen() {
			frozen++
		}
	}
	if frozen != len(ids) {
		t.Errorf("expected %d frozen sites, got %d", len(ids), frozen)
	}
}

func TestPinsAndDualPhaseClear(t *testing.T) {
	s := newSession(t, nil)
	other := lattice.ID{R: 30}
	g := splitGrid()
	g.SetID(0, 0, other)
	s.Load(g)

	if !s.Pin(left) || !s.Pin(other) {
		t.Fatal("pin failed")
	}
	if s.Pin(lattice.Inclusion) {
		t.Error("permanent ids cannot be pinned")
	}

	if err := s.ClearNonStatic(statics.DualPhase); err != nil {
		t.Fatal(err)
	}

	g = s.View()
	if g.Count(right) != 0 || g.Count(lattice.Background) != 8 {
		t.Error("unpinned grain should be cleared to background")
	}
	if g.Count(left) != 8 {
		t.Errorf("pinned grains should merge into the first pin, got %d", g.Count(left))
	}
	if pins := s.Pins(); len(pins) != 1 || pins[0] != left {
		t.Errorf("expected pins [%s], got %v", left, pins)
	}
}

func TestPinRandom(t *testing.T) {
	s := newSession(t, nil)
	s.Load(splitGrid())

	pinned := s.PinRandom(5)

	if len(pinned) != 2 {
		t.Errorf("only 2 grains exist, pinned %d", len(pinned))
	}
	if len(s.Pins()) != 2 {
		t.Errorf("expected 2 pins, got %d", len(s.Pins()))
	}
}

func TestSettersValidate(t *testing.T) {
	s := newSession(t, nil)

	if err := s.SetProbability(101); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument, got %v", err)
	}
	if err := s.SetMode("LIFE"); !errors.Is(err, engine.ErrUnknownMode) {
		t.Errorf("expected ErrUnknownMode, got %v", err)
	}
	if err := s.SetKernel(neighborhood.Kernel{Name: "HEX"}); !errors.Is(err, neighborhood.ErrUnknownKernel) {
		t.Errorf("expected ErrUnknownKernel, got %v", err)
	}
	if err := s.SetNucleation(engine.Borders, engine.Increasing, -1); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument, got %v", err)
	}

	if err := s.SetNucleation(engine.Borders, engine.Increasing, 2); err != nil {
		t.Fatal(err)
	}
	if n := s.Nucleation(); n.Counter != 0 || n.Mode != engine.Borders {
		t.Errorf("unexpected schedule %+v", n)
	}
}

func TestReset(t *testing.T) {
	s := newSession(t, nil)
	s.Load(splitGrid())
	s.Pin(left)
	_ = s.SetMode(engine.MonteCarlo)
	s.Step()

	s.Reset()

	if s.Mode() != engine.CA || len(s.Pins()) != 0 || s.StepCount() != 0 {
		t.Error("reset should restore configured settings and drop pins")
	}
	if g := s.View(); g.W != 20 || g.Count(lattice.Background) != 400 {
		t.Error("reset should start from an empty grid of the configured size")
	}
}

func TestResetKeepsStaticRegistry(t *testing.T) {
	s := newSession(t, nil)
	before := s.Statics()
	s.Load(splitGrid())
	s.Pin(left)

	s.Reset()
	if before.Contains(left) {
		t.Error("reset should unpin through the same registry")
	}

	s.Load(splitGrid())
	s.Pin(right)
	if !before.Contains(right) {
		t.Error("pins after reset should land in the registry held before it")
	}
}
