// Package engine implements the grain-growth stepping rules.
//
// Three models share one lattice:
//
//   - cellular automaton: background cells adopt the kernel majority
//     ([Engine.Majority]) or the composite Moore cascade ([Engine.Composite])
//   - Potts Monte Carlo coarsening ([Engine.Potts])
//   - static recrystallization Monte Carlo with stored energy and
//     nucleation ([Engine.SRX], [Engine.Nucleate])
//
// Every step takes the previous grid as a read-only snapshot and returns a
// new grid. The automaton rules read only the snapshot. The Monte Carlo
// rules mutate a private working copy in place, so a site visited later in
// a pass sees the updates applied earlier in that pass.
//
// All randomness flows from the *rand.Rand handed to [New]; seed it for
// reproducible runs.
//
// # Thread Safety
//
// Engine instances are NOT thread-safe.
package engine
