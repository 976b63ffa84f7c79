package main

import (
	"fmt"

	"github.com/san-kum/grainsim/internal/automation"
	"github.com/san-kum/grainsim/internal/config"
	"github.com/san-kum/grainsim/internal/engine"
	"github.com/san-kum/grainsim/internal/placement"
	"github.com/san-kum/grainsim/internal/session"
	"github.com/san-kum/grainsim/internal/statics"
)

// prepare builds the starting microstructure described by cfg on a freshly
// reset session.
//
// Monte Carlo modes start from a random fill when cfg.Fill is set, anything
// else from scattered seeds. With cfg.Pins set the dual-phase workflow runs
// first: grow the seeds to a full grid, pin random grains, clear the rest
// and reseed around them.
func prepare(s *session.Session, cfg *config.Config) error {
	mode, err := engine.ParseMode(cfg.Mode)
	if err != nil {
		return err
	}

	if cfg.Fill > 0 && mode != engine.CA {
		if err := s.FillRandom(cfg.Fill); err != nil {
			return err
		}
	} else {
		s.AddSeeds(cfg.Seeds)
	}

	if cfg.Inclusion.Count > 0 {
		shape, err := placement.ParseShape(cfg.Inclusion.Shape)
		if err != nil {
			return err
		}
		if _, err := s.AddInclusions(shape, cfg.Inclusion.Size, cfg.Inclusion.Count); err != nil {
			return err
		}
	}

	if cfg.Pins > 0 {
		if err := dualPhase(s, cfg); err != nil {
			return err
		}
	}

	if cfg.Energy.Homogeneous > 0 {
		if err := s.DistributeEnergy(cfg.Energy.Homogeneous); err != nil {
			return err
		}
	}
	if cfg.Energy.Borders {
		s.EnergizeBorders()
	}
	return nil
}

func dualPhase(s *session.Session, cfg *config.Config) error {
	grown := growToFull(s)
	pinned := s.PinRandom(cfg.Pins)
	if len(pinned) == 0 {
		return fmt.Errorf("dual phase: no grains to pin after %d growth steps", grown)
	}

	cm, err := statics.ParseClearMode(cfg.ClearMode)
	if err != nil {
		return err
	}
	if err := s.ClearNonStatic(cm); err != nil {
		return err
	}
	s.AddSeeds(cfg.Seeds)
	return nil
}

// growToFull runs the cellular automaton until the grid is full or stops
// changing, then restores the session mode. It returns the steps taken.
func growToFull(s *session.Session) int {
	mode := s.Mode()
	defer s.SetMode(mode)
	_ = s.SetMode(engine.CA)

	return automation.Grow(s, s.View().W+s.View().H)
}
