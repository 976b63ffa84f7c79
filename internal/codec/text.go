package codec

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/san-kum/grainsim/internal/lattice"
)

type textCell struct {
	ID lattice.ID `json:"id"`
	H  int        `json:"h"`
}

type textGrid struct {
	Width  int        `json:"width"`
	Height int        `json:"height"`
	Cells  []textCell `json:"cells"`
}

// EncodeText writes g as indented JSON with cells in row-major order.
func EncodeText(w io.Writer, g *lattice.Grid) error {
	doc := textGrid{
		Width:  g.W,
		Height: g.H,
		Cells:  make([]textCell, 0, g.W*g.H),
	}
	for _, c := range g.Cells() {
		doc.Cells = append(doc.Cells, textCell{ID: c.ID, H: c.H})
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(doc)
}

// DecodeText reads a grid written by EncodeText.
func DecodeText(r io.Reader) (*lattice.Grid, error) {
	var doc textGrid
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if doc.Width <= 0 || doc.Height <= 0 {
		return nil, fmt.Errorf("%w: size %dx%d", ErrMalformed, doc.Width, doc.Height)
	}
	if len(doc.Cells) != doc.Width*doc.Height {
		return nil, fmt.Errorf("%w: %d cells for %dx%d", ErrMalformed, len(doc.Cells), doc.Width, doc.Height)
	}
	for i, c := range doc.Cells {
		if c.H < 0 {
			return nil, fmt.Errorf("%w: cell %d has negative energy", ErrMalformed, i)
		}
	}

	g := lattice.MustNew(doc.Width, doc.Height, lattice.Background)
	cells := g.Cells()
	for i, c := range doc.Cells {
		cells[i] = lattice.Cell{ID: c.ID, H: c.H}
	}
	return g, nil
}
