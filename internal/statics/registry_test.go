package statics

import (
	"errors"
	"testing"

	"github.com/san-kum/grainsim/internal/lattice"
)

var (
	red   = lattice.ID{R: 200}
	green = lattice.ID{G: 200}
	blue  = lattice.ID{B: 200}
)

func TestPermanentIDs(t *testing.T) {
	r := New()

	if !r.Contains(lattice.Background) || !r.Contains(lattice.Inclusion) {
		t.Fatal("background and inclusion must always be static")
	}
	if r.Pin(lattice.Background) {
		t.Error("pinning a permanent id should be a no-op")
	}
	if r.Unpin(lattice.Inclusion) {
		t.Error("unpinning a permanent id should be a no-op")
	}
	if len(r.Custom()) != 0 {
		t.Errorf("expected no custom pins, got %v", r.Custom())
	}
}

func TestPinUnpin(t *testing.T) {
	r := New()

	if !r.Pin(red) {
		t.Fatal("expected pin to add red")
	}
	if r.Pin(red) {
		t.Error("second pin should not change the set")
	}
	r.Pin(green)

	if !r.Contains(red) || !r.Contains(green) {
		t.Fatal("expected red and green to be static")
	}
	if got := len(r.IDs()); got != 4 {
		t.Errorf("expected 4 static ids, got %d", got)
	}

	if !r.Unpin(red) {
		t.Fatal("expected unpin to remove red")
	}
	if r.Contains(red) {
		t.Error("red should no longer be static")
	}
	if r.Unpin(red) {
		t.Error("unpin of absent id should be a no-op")
	}
	if !r.Contains(green) {
		t.Error("unpin removed the wrong id")
	}

	r.ResetPins()
	if r.Contains(green) {
		t.Error("reset should drop every custom pin")
	}
}

func TestClearNonStaticStandard(t *testing.T) {
	r := New()
	r.Pin(red)

	g := lattice.MustNew(3, 1, lattice.Background)
	g.SetID(0, 0, red)
	g.SetID(1, 0, blue)
	g.SetID(2, 0, lattice.Inclusion)

	out := r.ClearNonStatic(g, Standard)

	if out.At(0, 0).ID != red {
		t.Error("pinned cell must survive")
	}
	if out.At(1, 0).ID != lattice.Background {
		t.Error("non-static cell must reset to background")
	}
	if out.At(2, 0).ID != lattice.Inclusion {
		t.Error("inclusion must survive")
	}
	if g.At(1, 0).ID != blue {
		t.Error("clear must not mutate its input")
	}
}

func TestClearNonStaticDualPhase(t *testing.T) {
	r := New()
	r.Pin(red)
	r.Pin(green)

	g := lattice.MustNew(4, 1, lattice.Background)
	g.SetID(0, 0, red)
	g.SetID(1, 0, green)
	g.SetID(2, 0, blue)
	g.SetID(3, 0, lattice.Inclusion)

	out := r.ClearNonStatic(g, DualPhase)

	want := []lattice.ID{red, red, lattice.Background, lattice.Inclusion}
	for x, id := range want {
		if got := out.At(x, 0).ID; got != id {
			t.Errorf("cell %d: expected %s, got %s", x, id, got)
		}
	}

	custom := r.Custom()
	if len(custom) != 1 || custom[0] != red {
		t.Errorf("expected pin set [red], got %v", custom)
	}
}

func TestParseClearMode(t *testing.T) {
	if m, err := ParseClearMode("DUAL_PHASE"); err != nil || m != DualPhase {
		t.Errorf("expected DualPhase, got %v %v", m, err)
	}
	if _, err := ParseClearMode("bogus"); !errors.Is(err, ErrUnknownClearMode) {
		t.Errorf("expected ErrUnknownClearMode, got %v", err)
	}
}
