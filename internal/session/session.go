package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/san-kum/grainsim/internal/borders"
	"github.com/san-kum/grainsim/internal/config"
	"github.com/san-kum/grainsim/internal/engine"
	"github.com/san-kum/grainsim/internal/lattice"
	"github.com/san-kum/grainsim/internal/neighborhood"
	"github.com/san-kum/grainsim/internal/statics"
)

// ErrInvalidArgument indicates an argument out of range for an operation.
var ErrInvalidArgument = errors.New("session: invalid argument")

// Observer is notified after every completed step.
type Observer interface {
	OnStep(step int, g *lattice.Grid)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(step int, g *lattice.Grid)

func (f ObserverFunc) OnStep(step int, g *lattice.Grid) { f(step, g) }

type Session struct {
	cfg    *config.Config
	logger *slog.Logger
	rng    *rand.Rand
	eng    *engine.Engine

	grid    *lattice.Grid
	version uint64
	step    int

	mode        engine.Mode
	kernel      neighborhood.Kernel
	probability int
	nucleation  engine.Nucleation

	statics *statics.Registry
	borders *borders.Locator

	pool   []lattice.ID
	nuclei []lattice.ID
	seen   map[lattice.ID]struct{}

	observers []Observer
}

// New validates cfg and builds a session holding an all-background grid of
// the configured size. A nil logger discards log output.
func New(cfg *config.Config, logger *slog.Logger) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	rng := rand.New(rand.NewPCG(uint64(cfg.Seed), 0))
	s := &Session{
		cfg:    cfg.Clone(),
		logger: logger,
		rng:    rng,
		eng:    engine.New(rng),
	}
	s.Reset()
	return s, nil
}

// Reset restores every setting from the configuration, drops all pins and
// starts over on an all-background grid.
func (s *Session) Reset() {
	// validated in New
	s.mode, _ = engine.ParseMode(s.cfg.Mode)
	s.kernel, _ = neighborhood.ParseKernel(s.cfg.Kernel)
	nm, _ := engine.ParseNucleationMode(s.cfg.Nucleation.Mode)
	inc, _ := engine.ParseIncrement(s.cfg.Nucleation.Increment)

	s.probability = s.cfg.Probability
	s.nucleation = engine.NewNucleation(nm, inc, s.cfg.Nucleation.Amount)
	if s.statics == nil {
		s.statics = statics.New()
	}
	s.statics.ResetPins()
	s.borders = borders.NewLocator()
	s.nuclei = nil
	s.seen = make(map[lattice.ID]struct{})

	_ = s.Init(s.cfg.Width, s.cfg.Height)
}

// Init replaces the grid with an all-background lattice and rewinds the
// step counter. Settings and pins are kept.
func (s *Session) Init(width, height int) error {
	g, err := lattice.New(width, height, lattice.Background)
	if err != nil {
		return err
	}
	s.install(g)
	s.step = 0
	s.pool = nil
	s.logger.Info("grid initialized", "width", width, "height", height, "mode", s.mode, "kernel", s.kernel)
	return nil
}

// install makes g the current grid.
func (s *Session) install(g *lattice.Grid) {
	s.grid = g
	s.version++
}

func (s *Session) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Grid returns a copy of the current grid.
func (s *Session) Grid() *lattice.Grid { return s.grid.Clone() }

// View returns the current grid without copying. Callers must not mutate it.
func (s *Session) View() *lattice.Grid { return s.grid }

func (s *Session) Version() uint64               { return s.version }
func (s *Session) StepCount() int                { return s.step }
func (s *Session) Mode() engine.Mode             { return s.mode }
func (s *Session) Kernel() neighborhood.Kernel   { return s.kernel }
func (s *Session) Probability() int              { return s.probability }
func (s *Session) Nucleation() engine.Nucleation { return s.nucleation }
func (s *Session) Statics() neighborhood.Static  { return s.statics }
func (s *Session) Pins() []lattice.ID            { return s.statics.Custom() }
func (s *Session) Config() *config.Config        { return s.cfg.Clone() }

// Nuclei lists every recrystallized id created so far, oldest first.
func (s *Session) Nuclei() []lattice.ID {
	out := make([]lattice.ID, len(s.nuclei))
	copy(out, s.nuclei)
	return out
}

// Step advances the grid by one step as a batch of one.
func (s *Session) Step() engine.StepResult {
	return s.advance(0)
}

// BatchStep advances the grid by one step as step i of a batch driven one
// call at a time, as the live viewer does between pauses.
func (s *Session) BatchStep(i int) engine.StepResult {
	return s.advance(i)
}

// Run advances the grid by n steps, one at a time. The context is checked
// before each step, so a cancelled batch stops between steps with the
// completed steps kept. It returns the number of steps taken.
func (s *Session) Run(ctx context.Context, n int) (int, error) {
	if n < 0 {
		return 0, fmt.Errorf("%w: steps %d", ErrInvalidArgument, n)
	}

	start := time.Now()
	for i := 0; i < n; i++ {
		select {
		case <-ctx.Done():
			s.logger.Info("batch stopped", "done", i, "requested", n)
			return i, ctx.Err()
		default:
		}
		s.advance(i)
	}

	s.logger.Info("batch done", "steps", n, "total", s.step, "elapsed", time.Since(start))
	return n, nil
}

// advance runs step i of the current batch.
func (s *Session) advance(i int) engine.StepResult {
	cfg := engine.StepConfig{
		Mode:        s.mode,
		Kernel:      s.kernel,
		Probability: s.probability,
		Static:      s.statics,
	}
	if s.mode == engine.SRXMonteCarlo {
		cfg.Seeds = s.nucleation.Due(i)
		cfg.NucleationMode = s.nucleation.Mode
		if cfg.Seeds > 0 && cfg.NucleationMode == engine.Borders {
			cfg.BorderSites = s.borders.Find(s.grid, s.version, s.statics, false)
			if len(cfg.BorderSites) == 0 {
				s.logger.Warn("no border sites for nucleation", "step", s.step)
			}
		}
	}

	res := s.eng.Step(s.grid, cfg)
	s.recordNuclei(res.Nuclei)
	s.install(res.Grid)
	s.step++

	s.logger.Debug("step", "n", s.step, "mode", s.mode, "changed", res.Changed, "nuclei", len(res.Nuclei))
	for _, o := range s.observers {
		o.OnStep(s.step, s.grid)
	}
	return res
}

func (s *Session) recordNuclei(ids []lattice.ID) {
	for _, id := range ids {
		if _, ok := s.seen[id]; ok {
			continue
		}
		s.seen[id] = struct{}{}
		s.nuclei = append(s.nuclei, id)
	}
}

func (s *Session) SetMode(m engine.Mode) error {
	if _, err := engine.ParseMode(string(m)); err != nil {
		return err
	}
	s.mode = m
	return nil
}

func (s *Session) SetKernel(k neighborhood.Kernel) error {
	if _, err := neighborhood.ParseKernel(k.Name); err != nil {
		return err
	}
	s.kernel = k
	return nil
}

func (s *Session) SetProbability(p int) error {
	if p < 0 || p > 100 {
		return fmt.Errorf("%w: probability %d", ErrInvalidArgument, p)
	}
	s.probability = p
	return nil
}

// SetNucleation replaces the nucleation schedule and restarts its counter.
func (s *Session) SetNucleation(mode engine.NucleationMode, inc engine.Increment, amount int) error {
	if _, err := engine.ParseNucleationMode(string(mode)); err != nil {
		return err
	}
	if _, err := engine.ParseIncrement(string(inc)); err != nil {
		return err
	}
	if amount < 0 {
		return fmt.Errorf("%w: nucleation amount %d", ErrInvalidArgument, amount)
	}
	s.nucleation = engine.NewNucleation(mode, inc, amount)
	return nil
}

// Load replaces the grid with a copy of g, as after an import.
func (s *Session) Load(g *lattice.Grid) {
	s.install(g.Clone())
	s.step = 1
	s.logger.Info("grid loaded", "width", g.W, "height", g.H)
}
