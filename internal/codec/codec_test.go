package codec

import (
	"bytes"
	"errors"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/san-kum/grainsim/internal/lattice"
)

func randomGrid(seed uint64, w, h int) *lattice.Grid {
	rng := rand.New(rand.NewPCG(seed, 0))
	g := lattice.MustNew(w, h, lattice.Background)
	cells := g.Cells()
	for i := range cells {
		cells[i] = lattice.Cell{
			ID: lattice.ID{R: uint8(rng.IntN(256)), G: uint8(rng.IntN(256)), B: uint8(rng.IntN(256))},
			H:  rng.IntN(20),
		}
	}
	return g
}

func TestTextRoundTrip(t *testing.T) {
	sizes := [][2]int{{1, 1}, {3, 7}, {16, 5}}

	for i, sz := range sizes {
		g := randomGrid(uint64(i), sz[0], sz[1])

		var buf bytes.Buffer
		if err := EncodeText(&buf, g); err != nil {
			t.Fatalf("encode: %v", err)
		}
		got, err := DecodeText(&buf)
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if !got.Equal(g) {
			t.Errorf("%dx%d: round trip changed the grid", sz[0], sz[1])
		}
	}
}

func TestTextFormat(t *testing.T) {
	g := lattice.MustNew(2, 1, lattice.Background)
	g.Set(1, 0, lattice.Cell{ID: lattice.ID{R: 1, G: 2, B: 3}, H: 0})

	var buf bytes.Buffer
	if err := EncodeText(&buf, g); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	for _, want := range []string{`"width": 2`, `"id": "255,255,255"`, `"id": "1,2,3"`, `"h": 0`} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %s:\n%s", want, out)
		}
	}
}

func TestDecodeTextMalformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"truncated", `{"width":2,"height":1,"cells":[{"id":"1,2,3","h":2}`},
		{"too few cells", `{"width":2,"height":2,"cells":[{"id":"1,2,3","h":2}]}`},
		{"zero size", `{"width":0,"height":1,"cells":[]}`},
		{"bad id", `{"width":1,"height":1,"cells":[{"id":"1,2","h":2}]}`},
		{"channel range", `{"width":1,"height":1,"cells":[{"id":"1,2,300","h":2}]}`},
		{"negative energy", `{"width":1,"height":1,"cells":[{"id":"1,2,3","h":-1}]}`},
		{"not json", `width=1`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := DecodeText(strings.NewReader(tt.input))
			if !errors.Is(err, ErrMalformed) {
				t.Errorf("expected ErrMalformed, got %v", err)
			}
			if g != nil {
				t.Error("expected no grid on failure")
			}
		})
	}
}

func TestRasterRoundTrip(t *testing.T) {
	g := randomGrid(9, 6, 4)
	g.FillEnergy(lattice.DefaultEnergy)

	encoders := map[string]func(*bytes.Buffer, *lattice.Grid) error{
		"png": func(b *bytes.Buffer, g *lattice.Grid) error { return EncodePNG(b, g) },
		"bmp": func(b *bytes.Buffer, g *lattice.Grid) error { return EncodeBMP(b, g) },
	}

	for name, enc := range encoders {
		var buf bytes.Buffer
		if err := enc(&buf, g); err != nil {
			t.Fatalf("%s encode: %v", name, err)
		}
		got, format, err := DecodeImage(&buf)
		if err != nil {
			t.Fatalf("%s decode: %v", name, err)
		}
		if format != name {
			t.Errorf("expected format %s, got %s", name, format)
		}
		if !got.Equal(g) {
			t.Errorf("%s: round trip changed the grid", name)
		}
	}
}

func TestImageReservedColors(t *testing.T) {
	g := lattice.MustNew(2, 1, lattice.Background)
	g.SetID(1, 0, lattice.Inclusion)

	img := Image(g)

	if c := img.RGBAAt(0, 0); c.R != 255 || c.G != 255 || c.B != 255 {
		t.Errorf("background should be white, got %v", c)
	}
	if c := img.RGBAAt(1, 0); c.R != 0 || c.G != 0 || c.B != 0 || c.A != 255 {
		t.Errorf("inclusion should be opaque black, got %v", c)
	}
}

func TestDecodeImageMalformed(t *testing.T) {
	_, _, err := DecodeImage(strings.NewReader("\x89PNG\r\n\x1a\n truncated"))
	if !errors.Is(err, ErrMalformed) {
		t.Errorf("expected ErrMalformed, got %v", err)
	}
}

func TestEnergyImage(t *testing.T) {
	g := lattice.MustNew(3, 1, lattice.Background)
	g.SetEnergy(0, 0, lattice.Frozen)
	g.SetEnergy(2, 0, 100)

	img := EnergyImage(g)

	if c := img.RGBAAt(0, 0); c.R != 255 || c.B != 0 {
		t.Errorf("frozen site should be red, got %v", c)
	}
	if img.RGBAAt(2, 0) != EnergyColor(MaxRenderedEnergy) {
		t.Error("energy above the ramp should be clamped")
	}
}

func TestGridToSVG(t *testing.T) {
	g := lattice.MustNew(4, 2, lattice.Background)
	g.SetID(3, 1, lattice.ID{R: 0xab, G: 0xcd, B: 0xef})

	svg := GridToSVG(g, 2)

	if n := strings.Count(svg, "<rect"); n != 3 {
		t.Errorf("expected 3 merged rects, got %d", n)
	}
	if !strings.Contains(svg, `fill="#abcdef"`) {
		t.Error("missing grain color")
	}
	if GridToSVG(nil, 1) != "" {
		t.Error("nil grid should render empty")
	}
}
