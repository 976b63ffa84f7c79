// Package neighborhood collects the neighbors of a lattice site through a
// kernel mask and counts them for majority votes.
package neighborhood

import (
	"errors"
	"fmt"
)

// ErrUnknownKernel indicates an unrecognized kernel name.
var ErrUnknownKernel = errors.New("neighborhood: unknown kernel")

// Kernel is an odd-sized boolean mask centered on the evaluated site.
// Mask[i][j] covers the relative offset (i-rx, j-ry), so the first index
// walks the x axis. A composite kernel has no mask; it names a multi-rule
// cascade evaluated by the step engine.
type Kernel struct {
	Name      string
	Mask      [][]bool
	Composite bool
}

var (
	// Moore includes all eight surrounding sites.
	Moore = Kernel{Name: "MOORE", Mask: [][]bool{
		{true, true, true},
		{true, false, true},
		{true, true, true},
	}}

	// NearestMoore includes the four orthogonal sites.
	NearestMoore = Kernel{Name: "NEAREST_MOORE", Mask: [][]bool{
		{false, true, false},
		{true, false, true},
		{false, true, false},
	}}

	// FurtherMoore includes the four diagonal sites.
	FurtherMoore = Kernel{Name: "FURTHER_MOORE", Mask: [][]bool{
		{true, false, true},
		{false, false, false},
		{true, false, true},
	}}

	// ComplexMoore selects the composite Moore cascade.
	ComplexMoore = Kernel{Name: "COMPLEX_MOORE", Composite: true}
)

var kernels = map[string]Kernel{
	Moore.Name:        Moore,
	NearestMoore.Name: NearestMoore,
	FurtherMoore.Name: FurtherMoore,
	ComplexMoore.Name: ComplexMoore,
}

// ParseKernel looks a kernel up by name.
func ParseKernel(name string) (Kernel, error) {
	k, ok := kernels[name]
	if !ok {
		return Kernel{}, fmt.Errorf("%w: %q", ErrUnknownKernel, name)
	}
	return k, nil
}

// Names lists the recognized kernel names, masks first.
func Names() []string {
	return []string{Moore.Name, NearestMoore.Name, FurtherMoore.Name, ComplexMoore.Name}
}

// String returns the kernel name.
func (k Kernel) String() string { return k.Name }

// Radius returns the half-extent of the mask on both axes.
func (k Kernel) Radius() (rx, ry int) {
	if len(k.Mask) == 0 {
		return 0, 0
	}
	return (len(k.Mask) - 1) / 2, (len(k.Mask[0]) - 1) / 2
}
