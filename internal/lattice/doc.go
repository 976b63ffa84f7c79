// Package lattice provides the grid data model for grain simulations.
//
// The package defines the fundamental types shared by every other part of
// the simulator:
//
//   - [ID]: categorical grain label, an RGB triple
//   - [Cell]: one lattice site, an id plus stored energy H
//   - [Grid]: rectangular width × height array of cells
//   - [Point]: integer lattice coordinate
//
// The lattice never wraps. Coordinates outside [0,W)×[0,H) simply do not
// exist, and every consumer is expected to clip against [Grid.InBounds].
//
// # Example
//
//	g, _ := lattice.New(100, 100, lattice.Background)
//	g.Set(50, 50, lattice.Cell{ID: lattice.ID{R: 1, G: 2, B: 3}, H: lattice.DefaultEnergy})
//
// # Thread Safety
//
// Grid instances are NOT thread-safe. Clone a grid before handing it to
// another goroutine.
package lattice
