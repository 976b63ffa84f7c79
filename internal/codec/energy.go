package codec

import (
	"image"
	"image/color"

	"github.com/san-kum/grainsim/internal/lattice"
)

// MaxRenderedEnergy is the stored energy mapped to the blue end of the
// energy ramp. Higher values are clamped.
const MaxRenderedEnergy = 20

const rampRed = 180

// EnergyColor maps a stored energy to a display color. Frozen sites are
// red; live sites ramp from red toward blue as H grows.
func EnergyColor(h int) color.RGBA {
	if h <= lattice.Frozen {
		return color.RGBA{R: 255, G: 8, A: 255}
	}
	if h > MaxRenderedEnergy {
		h = MaxRenderedEnergy
	}
	r := rampRed - rampRed*h/MaxRenderedEnergy
	return color.RGBA{R: uint8(r), G: 8, B: uint8(255 - r), A: 255}
}

// EnergyImage renders the stored-energy map of g.
func EnergyImage(g *lattice.Grid) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, g.W, g.H))
	for x := 0; x < g.W; x++ {
		for y := 0; y < g.H; y++ {
			img.SetRGBA(x, y, EnergyColor(g.At(x, y).H))
		}
	}
	return img
}
