package codec

import (
	"fmt"
	"io"
	"strings"

	"github.com/san-kum/grainsim/internal/lattice"
)

// GridToSVG renders g as an SVG document with each cell scale units wide.
// Horizontal runs of equal ids are merged into one rect.
func GridToSVG(g *lattice.Grid, scale float64) string {
	if g == nil {
		return ""
	}

	width := float64(g.W) * scale
	height := float64(g.H) * scale

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f" shape-rendering="crispEdges">
`, width, height, width, height))

	for y := 0; y < g.H; y++ {
		for x := 0; x < g.W; {
			id := g.At(x, y).ID
			run := 1
			for x+run < g.W && g.At(x+run, y).ID == id {
				run++
			}
			sb.WriteString(fmt.Sprintf(`<rect x="%g" y="%g" width="%g" height="%g" fill="#%02x%02x%02x"/>
`, float64(x)*scale, float64(y)*scale, float64(run)*scale, scale, id.R, id.G, id.B))
			x += run
		}
	}

	sb.WriteString("</svg>\n")
	return sb.String()
}

func EncodeSVG(w io.Writer, g *lattice.Grid, scale float64) error {
	_, err := io.WriteString(w, GridToSVG(g, scale))
	return err
}
