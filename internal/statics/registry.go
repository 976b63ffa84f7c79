// Package statics tracks the grain ids that growth rules must never spread
// or replace.
package statics

import (
	"errors"
	"fmt"
	"slices"

	"github.com/san-kum/grainsim/internal/lattice"
)

// ErrUnknownClearMode indicates an unrecognized clear mode name.
var ErrUnknownClearMode = errors.New("statics: unknown clear mode")

// ClearMode selects how ClearNonStatic treats pinned grains.
type ClearMode string

const (
	// Standard resets every non-static cell to background.
	Standard ClearMode = "STANDARD"
	// DualPhase additionally merges all pinned grains into one phase.
	DualPhase ClearMode = "DUAL_PHASE"
)

// ParseClearMode validates a clear mode name.
func ParseClearMode(s string) (ClearMode, error) {
	switch m := ClearMode(s); m {
	case Standard, DualPhase:
		return m, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownClearMode, s)
}

var permanent = []lattice.ID{lattice.Background, lattice.Inclusion}

// Registry is the static-type set: the permanent background and inclusion
// ids plus user pins. Pins keep insertion order; the first one is the
// representative used by dual-phase clearing.
type Registry struct {
	custom []lattice.ID
}

// New returns a registry with no custom pins.
func New() *Registry {
	return &Registry{custom: make([]lattice.ID, 0)}
}

// IsPermanent reports whether id is the background or inclusion id.
func IsPermanent(id lattice.ID) bool {
	return slices.Contains(permanent, id)
}

// Contains reports whether id is static.
func (r *Registry) Contains(id lattice.ID) bool {
	return IsPermanent(id) || slices.Contains(r.custom, id)
}

// Pin marks id static. It reports whether the set changed.
func (r *Registry) Pin(id lattice.ID) bool {
	if r.Contains(id) {
		return false
	}
	r.custom = append(r.custom, id)
	return true
}

// Unpin removes a custom pin. Permanent ids cannot be unpinned.
func (r *Registry) Unpin(id lattice.ID) bool {
	i := slices.Index(r.custom, id)
	if i < 0 {
		return false
	}
	r.custom = slices.Delete(r.custom, i, i+1)
	return true
}

// ResetPins empties the custom set.
func (r *Registry) ResetPins() {
	r.custom = r.custom[:0]
}

// Custom returns a copy of the custom pins in insertion order.
func (r *Registry) Custom() []lattice.ID {
	return slices.Clone(r.custom)
}

// IDs returns every static id, permanent first.
func (r *Registry) IDs() []lattice.ID {
	return append(slices.Clone(permanent), r.custom...)
}

// ClearNonStatic returns a copy of g where every cell whose id is not
// static is reset to background. In DualPhase mode every custom-pinned
// cell collapses to the first pin and the pin set shrinks to that pin.
func (r *Registry) ClearNonStatic(g *lattice.Grid, mode ClearMode) *lattice.Grid {
	out := g.Clone()

	var mono lattice.ID
	hasMono := len(r.custom) > 0
	if hasMono {
		mono = r.custom[0]
	}

	for x := 0; x < out.W; x++ {
		for y := 0; y < out.H; y++ {
			id := out.At(x, y).ID
			switch {
			case !r.Contains(id):
				out.SetID(x, y, lattice.Background)
			case mode == DualPhase && hasMono && !IsPermanent(id):
				out.SetID(x, y, mono)
			}
		}
	}

	if mode == DualPhase && len(r.custom) > 1 {
		r.custom = []lattice.ID{mono}
	}
	return out
}
