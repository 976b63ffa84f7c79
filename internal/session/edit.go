package session

import (
	"fmt"

	"github.com/san-kum/grainsim/internal/engine"
	"github.com/san-kum/grainsim/internal/lattice"
	"github.com/san-kum/grainsim/internal/placement"
	"github.com/san-kum/grainsim/internal/statics"
)

const (
	// seedAttempts bounds the draws spent looking for a background site.
	seedAttempts = 5

	borderEnergyMin = 10
	borderEnergyMax = 20

	// inclusionsOnBordersAfter is the step count after which inclusions
	// are centered on grain borders instead of random sites.
	inclusionsOnBordersAfter = 2
)

func (s *Session) randomPoint() lattice.Point {
	return lattice.Point{X: s.rng.IntN(s.grid.W), Y: s.rng.IntN(s.grid.H)}
}

// AddInclusions stamps count inclusions of the given shape and size. Once
// more than two steps have run they are centered on random border sites,
// before that on random sites. It returns the number of cells stamped.
func (s *Session) AddInclusions(shape placement.Shape, size, count int) (int, error) {
	if _, err := placement.ParseShape(string(shape)); err != nil {
		return 0, err
	}
	if size < 0 || count < 0 {
		return 0, fmt.Errorf("%w: inclusion size %d count %d", ErrInvalidArgument, size, count)
	}

	work := s.grid.Clone()
	stamped := 0
	for i := 0; i < count; i++ {
		p := s.randomPoint()
		if s.step > inclusionsOnBordersAfter {
			if b, ok := s.borders.Random(s.grid, s.version, s.statics, s.rng); ok {
				p = b
			}
		}
		stamped += placement.Stamp(work, shape, p.X, p.Y, size, lattice.Inclusion)
	}

	s.install(work)
	s.logger.Debug("inclusions added", "shape", shape, "size", size, "count", count, "cells", stamped)
	return stamped, nil
}

// AddBorders thickens every grain border into an inclusion band. It
// returns the number of border sites found.
func (s *Session) AddBorders(thickness int) (int, error) {
	if thickness < 1 {
		return 0, fmt.Errorf("%w: border thickness %d", ErrInvalidArgument, thickness)
	}

	pts := s.borders.All(s.grid, s.version, s.statics)
	work := s.grid.Clone()
	placement.ThickenBorders(work, pts, thickness)

	s.install(work)
	s.logger.Debug("borders added", "sites", len(pts), "thickness", thickness)
	return len(pts), nil
}

// AddSeeds places n grains with fresh random ids on background sites.
// Each grain gets a bounded number of draws to find a background site and
// is dropped otherwise. It returns the number of grains placed.
func (s *Session) AddSeeds(n int) int {
	work := s.grid.Clone()
	placed := 0
	for i := 0; i < n; i++ {
		for attempt := 0; attempt < seedAttempts; attempt++ {
			p := s.randomPoint()
			if work.At(p.X, p.Y).ID != lattice.Background {
				continue
			}
			work.SetID(p.X, p.Y, s.freshID())
			placed++
			break
		}
	}

	s.install(work)
	s.logger.Debug("seeds added", "requested", n, "placed", placed)
	return placed
}

// freshID draws a random id that is not static.
func (s *Session) freshID() lattice.ID {
	for {
		id := s.eng.RandomID()
		if !s.statics.Contains(id) {
			return id
		}
	}
}

// FillRandom draws a pool of n random ids and assigns every cell outside
// the static set, background included, an id from the pool. This builds
// the starting microstructure for the Monte Carlo models.
func (s *Session) FillRandom(n int) error {
	if n <= 0 {
		return fmt.Errorf("%w: pool size %d", ErrInvalidArgument, n)
	}

	s.pool = make([]lattice.ID, n)
	for i := range s.pool {
		s.pool[i] = s.freshID()
	}

	work := s.grid.Clone()
	for _, p := range work.Points() {
		id := work.At(p.X, p.Y).ID
		if id != lattice.Background && s.statics.Contains(id) {
			continue
		}
		work.SetID(p.X, p.Y, s.pool[s.rng.IntN(n)])
	}

	s.install(work)
	s.logger.Debug("grid filled", "pool", n)
	return nil
}

// Pool returns the ids drawn by the last FillRandom.
func (s *Session) Pool() []lattice.ID {
	out := make([]lattice.ID, len(s.pool))
	copy(out, s.pool)
	return out
}

// DistributeEnergy sets every cell's stored energy to h.
func (s *Session) DistributeEnergy(h int) error {
	if h < 0 {
		return fmt.Errorf("%w: energy %d", ErrInvalidArgument, h)
	}
	work := s.grid.Clone()
	work.FillEnergy(h)
	s.install(work)
	return nil
}

// EnergizeBorders raises the stored energy of every border site, static
// ids included, to a random value in [10,20). It returns the number of
// sites energized.
func (s *Session) EnergizeBorders() int {
	pts := s.borders.All(s.grid, s.version, s.statics)
	work := s.grid.Clone()
	for _, p := range pts {
		work.SetEnergy(p.X, p.Y, borderEnergyMin+s.rng.IntN(borderEnergyMax-borderEnergyMin))
	}
	s.install(work)
	return len(pts)
}

// Nucleate injects the configured amount of nuclei immediately.
func (s *Session) Nucleate() []lattice.ID {
	var sites []lattice.Point
	if s.nucleation.Mode == engine.Borders {
		sites = s.borders.Find(s.grid, s.version, s.statics, false)
	}

	work := s.grid.Clone()
	ids := s.eng.Nucleate(work, s.nucleation.Mode, s.nucleation.Amount, sites)
	s.recordNuclei(ids)
	s.install(work)
	s.logger.Debug("nucleated", "mode", s.nucleation.Mode, "nuclei", len(ids))
	return ids
}

// Pin marks id static. Permanent ids cannot be pinned.
func (s *Session) Pin(id lattice.ID) bool {
	ok := s.statics.Pin(id)
	if ok {
		s.borders.Invalidate()
	}
	return ok
}

// PinAt pins the id found at (x, y).
func (s *Session) PinAt(x, y int) (lattice.ID, bool) {
	if !s.grid.InBounds(x, y) {
		return lattice.ID{}, false
	}
	id := s.grid.At(x, y).ID
	return id, s.Pin(id)
}

// PinRandom pins up to n distinct grains picked at random from the ids on
// the grid. It returns the ids pinned.
func (s *Session) PinRandom(n int) []lattice.ID {
	candidates := make([]lattice.ID, 0)
	for _, id := range s.grid.Distinct() {
		if !s.statics.Contains(id) {
			candidates = append(candidates, id)
		}
	}

	pinned := make([]lattice.ID, 0, n)
	for len(pinned) < n && len(candidates) > 0 {
		i := s.rng.IntN(len(candidates))
		id := candidates[i]
		candidates[i] = candidates[len(candidates)-1]
		candidates = candidates[:len(candidates)-1]
		if s.Pin(id) {
			pinned = append(pinned, id)
		}
	}
	return pinned
}

func (s *Session) Unpin(id lattice.ID) bool {
	ok := s.statics.Unpin(id)
	if ok {
		s.borders.Invalidate()
	}
	return ok
}

func (s *Session) ResetPins() {
	s.statics.ResetPins()
	s.borders.Invalidate()
}

// ClearNonStatic resets every non-static cell to background. In dual-phase
// mode pinned grains merge into the first pin.
func (s *Session) ClearNonStatic(mode statics.ClearMode) error {
	if _, err := statics.ParseClearMode(string(mode)); err != nil {
		return err
	}
	s.install(s.statics.ClearNonStatic(s.grid, mode))
	s.borders.Invalidate()
	s.logger.Debug("cleared non-static grains", "mode", mode, "pins", len(s.statics.Custom()))
	return nil
}
