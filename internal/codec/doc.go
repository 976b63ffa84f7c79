// Package codec converts grids to and from external formats: raster
// images (PNG, BMP), a JSON text dump and SVG.
//
// Raster images map one pixel to one cell with the channels equal to the
// cell id, so background is white and inclusions are black. Stored energy
// is not part of a raster; imported grids get the default energy. The text
// dump carries every cell's id and energy and reloads into an identical
// grid.
//
// Decoders validate the whole input before building a grid and return
// [ErrMalformed] without a partial grid on failure.
//
// # Example
//
//	f, _ := os.Create("grid.png")
//	defer f.Close()
//	if err := codec.EncodePNG(f, g); err != nil {
//	    log.Fatal(err)
//	}
package codec

import "errors"

// ErrMalformed indicates input that does not describe a rectangular grid.
var ErrMalformed = errors.New("codec: malformed grid data")
