package lattice

import (
	"fmt"
	"strconv"
	"strings"
)

// DefaultEnergy is the stored energy of a freshly created cell.
const DefaultEnergy = 2

// Frozen is the stored energy of a recrystallized site. A site at this
// level never changes again under the SRX rule.
const Frozen = 0

// ID is a grain label. It doubles as the display color of the grain.
type ID struct {
	R, G, B uint8
}

var (
	// Background marks unfilled space.
	Background = ID{R: 255, G: 255, B: 255}
	// Inclusion marks a permanently static obstacle.
	Inclusion = ID{R: 0, G: 0, B: 0}
)

// String returns the canonical "r,g,b" form.
func (id ID) String() string {
	return fmt.Sprintf("%d,%d,%d", id.R, id.G, id.B)
}

// ParseID parses the canonical "r,g,b" form.
func ParseID(s string) (ID, error) {
	parts := strings.Split(strings.TrimSpace(s), ",")
	if len(parts) != 3 {
		return ID{}, fmt.Errorf("%w: %q", ErrInvalidID, s)
	}
	var ch [3]uint8
	for i, p := range parts {
		v, err := strconv.ParseUint(strings.TrimSpace(p), 10, 8)
		if err != nil {
			return ID{}, fmt.Errorf("%w: %q", ErrInvalidID, s)
		}
		ch[i] = uint8(v)
	}
	return ID{R: ch[0], G: ch[1], B: ch[2]}, nil
}

// MarshalText implements encoding.TextMarshaler.
func (id ID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *ID) UnmarshalText(b []byte) error {
	parsed, err := ParseID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// Cell is a single lattice site.
type Cell struct {
	ID ID
	H  int
}

// IsFrozen reports whether the site has fully recrystallized.
func (c Cell) IsFrozen() bool { return c.H == Frozen }

// NewCell returns a cell with the default stored energy.
func NewCell(id ID) Cell {
	return Cell{ID: id, H: DefaultEnergy}
}

// Point is an integer lattice coordinate.
type Point struct {
	X, Y int
}
