// Package automation scripts sessions: YAML scenarios replay a sequence of
// edits and batches, sweeps vary one configuration value across runs, and
// ensembles repeat a run over consecutive seeds in parallel.
package automation

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/grainsim/internal/codec"
	"github.com/san-kum/grainsim/internal/config"
	"github.com/san-kum/grainsim/internal/engine"
	"github.com/san-kum/grainsim/internal/lattice"
	"github.com/san-kum/grainsim/internal/neighborhood"
	"github.com/san-kum/grainsim/internal/placement"
	"github.com/san-kum/grainsim/internal/session"
	"github.com/san-kum/grainsim/internal/statics"
)

var (
	ErrUnknownOp     = errors.New("automation: unknown op")
	ErrUnknownFormat = errors.New("automation: unknown output format")
)

// Scenario is a scripted sequence of session actions.
type Scenario struct {
	Name        string        `yaml:"name"`
	Description string        `yaml:"description"`
	Config      config.Config `yaml:"config"`
	Actions     []Action      `yaml:"actions"`
}

// Action is one scripted edit or batch. Which fields matter depends on Op:
//
//	reset                      restore the configured settings on a blank grid
//	seeds, fill                n grains, or a pool of n ids
//	inclusions                 n stamps of shape and size
//	borders                    thicken borders to n
//	energy                     set every H to n
//	energize                   raise border H
//	nucleate                   inject the configured nuclei now
//	pin, pin_at, unpin_all     pin n random grains, or the grain at (x, y)
//	clear                      clear non-static grains in mode
//	mode, kernel, probability  change the engine settings
//	nucleation                 mode, increment and n nuclei
//	run, grow                  run n steps, or until no background is left
//	save                       write the grid to path (.png, .bmp, .svg, .json)
type Action struct {
	Op        string `yaml:"op"`
	N         int    `yaml:"n"`
	Shape     string `yaml:"shape"`
	Size      int    `yaml:"size"`
	Mode      string `yaml:"mode"`
	Kernel    string `yaml:"kernel"`
	Increment string `yaml:"increment"`
	X         int    `yaml:"x"`
	Y         int    `yaml:"y"`
	Path      string `yaml:"path"`
}

// LoadScenario reads a scenario from a YAML file. Config fields left out
// keep their defaults.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScenario(data)
}

func ParseScenario(data []byte) (*Scenario, error) {
	scenario := Scenario{Config: *config.DefaultConfig()}
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if err := scenario.Config.Validate(); err != nil {
		return nil, err
	}
	return &scenario, nil
}

// RunScenario builds a session from the scenario config and applies every
// action in order. It stops at the first failing action and returns the
// session as it stood.
func RunScenario(ctx context.Context, scenario *Scenario, logger *slog.Logger) (*session.Session, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s, err := session.New(&scenario.Config, logger)
	if err != nil {
		return nil, err
	}

	for i, a := range scenario.Actions {
		logger.Info("action", "n", i+1, "of", len(scenario.Actions), "op", a.Op)
		if err := Apply(ctx, s, a); err != nil {
			return s, fmt.Errorf("action %d (%s): %w", i+1, a.Op, err)
		}
	}
	return s, nil
}

// Apply performs a single action on s.
func Apply(ctx context.Context, s *session.Session, a Action) error {
	switch strings.ToLower(a.Op) {
	case "reset":
		s.Reset()
	case "seeds":
		s.AddSeeds(a.N)
	case "fill":
		return s.FillRandom(a.N)
	case "inclusions":
		shape, err := placement.ParseShape(strings.ToUpper(a.Shape))
		if err != nil {
			return err
		}
		_, err = s.AddInclusions(shape, a.Size, a.N)
		return err
	case "borders":
		_, err := s.AddBorders(a.N)
		return err
	case "energy":
		return s.DistributeEnergy(a.N)
	case "energize":
		s.EnergizeBorders()
	case "nucleate":
		s.Nucleate()
	case "pin":
		s.PinRandom(a.N)
	case "pin_at":
		if _, ok := s.PinAt(a.X, a.Y); !ok {
			return fmt.Errorf("%w: nothing to pin at (%d,%d)", session.ErrInvalidArgument, a.X, a.Y)
		}
	case "unpin_all":
		s.ResetPins()
	case "clear":
		mode, err := statics.ParseClearMode(strings.ToUpper(a.Mode))
		if err != nil {
			return err
		}
		return s.ClearNonStatic(mode)
	case "mode":
		mode, err := engine.ParseMode(strings.ToUpper(a.Mode))
		if err != nil {
			return err
		}
		return s.SetMode(mode)
	case "kernel":
		k, err := neighborhood.ParseKernel(strings.ToUpper(a.Kernel))
		if err != nil {
			return err
		}
		return s.SetKernel(k)
	case "probability":
		return s.SetProbability(a.N)
	case "nucleation":
		mode, err := engine.ParseNucleationMode(strings.ToUpper(a.Mode))
		if err != nil {
			return err
		}
		inc, err := engine.ParseIncrement(strings.ToUpper(a.Increment))
		if err != nil {
			return err
		}
		return s.SetNucleation(mode, inc, a.N)
	case "run":
		_, err := s.Run(ctx, a.N)
		return err
	case "grow":
		limit := a.N
		if limit <= 0 {
			limit = s.View().W + s.View().H
		}
		Grow(s, limit)
	case "save":
		return SaveGrid(a.Path, s.View())
	default:
		return fmt.Errorf("%w: %q", ErrUnknownOp, a.Op)
	}
	return nil
}

// Grow steps s in its current mode until no background remains, a step
// changes nothing or limit steps have run. It returns the steps taken.
func Grow(s *session.Session, limit int) int {
	for i := 0; i < limit; i++ {
		if s.View().Count(lattice.Background) == 0 {
			return i
		}
		if s.Step().Changed == 0 {
			return i + 1
		}
	}
	return limit
}

// SaveGrid writes g to path in the format named by its extension.
func SaveGrid(path string, g *lattice.Grid) error {
	var encode func(io.Writer, *lattice.Grid) error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		encode = codec.EncodePNG
	case ".bmp":
		encode = codec.EncodeBMP
	case ".svg":
		encode = func(w io.Writer, g *lattice.Grid) error { return codec.EncodeSVG(w, g, 4) }
	case ".json":
		encode = codec.EncodeText
	default:
		return fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return encode(f, g)
}
