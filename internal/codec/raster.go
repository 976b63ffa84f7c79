package codec

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"

	"golang.org/x/image/bmp"

	"github.com/san-kum/grainsim/internal/lattice"
)

// Image renders g one pixel per cell.
func Image(g *lattice.Grid) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, g.W, g.H))
	for x := 0; x < g.W; x++ {
		for y := 0; y < g.H; y++ {
			id := g.At(x, y).ID
			img.SetRGBA(x, y, color.RGBA{R: id.R, G: id.G, B: id.B, A: 255})
		}
	}
	return img
}

func EncodePNG(w io.Writer, g *lattice.Grid) error {
	return png.Encode(w, Image(g))
}

func EncodeBMP(w io.Writer, g *lattice.Grid) error {
	return bmp.Encode(w, Image(g))
}

// FromImage builds a grid with the dimensions of img. Every cell takes the
// pixel color as its id and the default energy.
func FromImage(img image.Image) (*lattice.Grid, error) {
	b := img.Bounds()
	g, err := lattice.New(b.Dx(), b.Dy(), lattice.Background)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	for x := 0; x < g.W; x++ {
		for y := 0; y < g.H; y++ {
			c := color.RGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.RGBA)
			g.SetID(x, y, lattice.ID{R: c.R, G: c.G, B: c.B})
		}
	}
	return g, nil
}

// DecodeImage reads a PNG or BMP image and converts it with FromImage.
func DecodeImage(r io.Reader) (*lattice.Grid, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	g, err := FromImage(img)
	if err != nil {
		return nil, "", err
	}
	return g, format, nil
}
