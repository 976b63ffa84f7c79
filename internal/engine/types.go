package engine

import (
	"errors"
	"fmt"

	"github.com/san-kum/grainsim/internal/lattice"
	"github.com/san-kum/grainsim/internal/neighborhood"
)

// Domain errors for engine configuration.
var (
	// ErrUnknownMode indicates an unrecognized computation mode.
	ErrUnknownMode = errors.New("engine: unknown computation mode")

	// ErrUnknownNucleationMode indicates an unrecognized nucleation site rule.
	ErrUnknownNucleationMode = errors.New("engine: unknown nucleation mode")

	// ErrUnknownIncrement indicates an unrecognized nucleation policy.
	ErrUnknownIncrement = errors.New("engine: unknown nucleation increment")
)

// Mode selects the stepping model.
type Mode string

const (
	CA            Mode = "CA"
	MonteCarlo    Mode = "MONTE_CARLO"
	SRXMonteCarlo Mode = "SRX_MONTE_CARLO"
)

// ParseMode validates a computation mode name.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case CA, MonteCarlo, SRXMonteCarlo:
		return m, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

// Modes lists every computation mode.
func Modes() []Mode { return []Mode{CA, MonteCarlo, SRXMonteCarlo} }

// StepConfig is everything a single step needs besides the grid.
type StepConfig struct {
	Mode        Mode
	Kernel      neighborhood.Kernel
	Probability int
	Static      neighborhood.Static

	// Seeds is the number of nuclei injected before an SRX pass.
	Seeds          int
	NucleationMode NucleationMode
	// BorderSites are the cached border sites of the input grid, used when
	// NucleationMode is Borders.
	BorderSites []lattice.Point
}

// StepResult is the outcome of one step.
type StepResult struct {
	Grid *lattice.Grid
	// Changed counts sites whose id or energy changed.
	Changed int
	// Nuclei lists the ids created by nucleation during the step.
	Nuclei []lattice.ID
}
