// Package session holds one simulation: the current grid, the active
// model settings, the static registry, the border cache and the
// nucleation schedule. It is the only place a grid is replaced.
//
// Every operation that changes the grid installs a new grid and bumps the
// grid version, which keys the border cache. Settings and pins survive
// grid replacement and are cleared only by [Session.Reset].
//
// # Example
//
//	s, err := session.New(config.GetPreset("ca-basic"), slog.Default())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	s.AddSeeds(30)
//	if _, err := s.Run(ctx, 50); err != nil {
//	    log.Fatal(err)
//	}
//	g := s.Grid()
//
// # Thread Safety
//
// Session instances are NOT thread-safe. Drive a session from a single
// goroutine.
package session
