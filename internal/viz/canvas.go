package viz

import (
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/grainsim/internal/codec"
	"github.com/san-kum/grainsim/internal/lattice"
)

// Canvas is a color pixel buffer drawn with upper half blocks: each
// terminal cell shows two vertically stacked pixels.
type Canvas struct {
	Width, Height int
	pixels        [][]color.RGBA
}

// NewCanvas returns a canvas w cells wide and h cells tall, holding w x 2h
// pixels.
func NewCanvas(w, h int) *Canvas {
	c := &Canvas{Width: w, Height: h, pixels: make([][]color.RGBA, 2*h)}
	for i := range c.pixels {
		c.pixels[i] = make([]color.RGBA, w)
	}
	return c
}

// Set colors pixel (x, y). Out of range pixels are ignored.
func (c *Canvas) Set(x, y int, col color.RGBA) {
	if x < 0 || y < 0 || x >= c.Width || y >= 2*c.Height {
		return
	}
	c.pixels[y][x] = col
}

func (c *Canvas) At(x, y int) color.RGBA { return c.pixels[y][x] }

func (c *Canvas) Clear() {
	for _, row := range c.pixels {
		for i := range row {
			row[i] = color.RGBA{}
		}
	}
}

// Paint samples g onto the whole canvas with nearest-neighbor scaling. With
// energy set the stored-energy map is drawn instead of grain ids.
func (c *Canvas) Paint(g *lattice.Grid, energy bool) {
	rows := 2 * c.Height
	for py := 0; py < rows; py++ {
		y := py * g.H / rows
		for px := 0; px < c.Width; px++ {
			x := px * g.W / c.Width
			cell := g.At(x, y)
			if energy {
				c.pixels[py][px] = codec.EnergyColor(cell.H)
			} else {
				c.pixels[py][px] = color.RGBA{R: cell.ID.R, G: cell.ID.G, B: cell.ID.B, A: 255}
			}
		}
	}
}

func (c *Canvas) String() string {
	var sb strings.Builder
	for row := 0; row < c.Height; row++ {
		for col := 0; col < c.Width; col++ {
			top, bottom := c.pixels[2*row][col], c.pixels[2*row+1][col]
			style := lipgloss.NewStyle().
				Foreground(lipgloss.Color(rgbHex(top))).
				Background(lipgloss.Color(rgbHex(bottom)))
			sb.WriteString(style.Render("▀"))
		}
		if row < c.Height-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

func rgbHex(c color.RGBA) string {
	return hexColor(int(c.R), int(c.G), int(c.B))
}

// fitCanvas picks a canvas size that keeps the grid aspect ratio within
// maxW x maxH cells and never upsamples.
func fitCanvas(g *lattice.Grid, maxW, maxH int) (int, int) {
	w := min(g.W, maxW)
	h := (g.H*w/g.W + 1) / 2
	if h > maxH {
		h = maxH
		w = max(1, min(g.W, 2*h*g.W/g.H))
	}
	return w, max(1, h)
}
