package hex

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Neighboring slots sit exactly one pitch apart and exactly on a face
// bearing; the tolerances absorb float error, not layout slack.
const (
	NeighborTol = 2.0  // mm
	AngleTol    = 10.0 // degrees
)

// Shift directions for the two honeycomb topologies.
const (
	ShiftUp   = 1  // "Type A": middle column raised half a pitch
	ShiftDown = -1 // "Type B": middle column lowered half a pitch
)

// Slot is one hub position in a honeycomb layout.
type Slot struct {
	ID  string
	Col int
	Row int
}

// Layout places flat-top hexagons of a common outer width on a honeycomb
// grid and derives which faces touch.
type Layout struct {
	dx, dy   float64
	shiftDir int
}

// NewLayout returns a layout for hubs of the given outer flat-to-flat width
// separated by rimGap (adjacent spacer rims touching).
func NewLayout(flatToFlat, rimGap float64, shiftDir int) Layout {
	pitch := flatToFlat + rimGap
	return Layout{
		dx:       1.5 * Circumradius(pitch),
		dy:       pitch,
		shiftDir: shiftDir,
	}
}

// Pitch returns the column spacing dx and row spacing dy.
func (l Layout) Pitch() (dx, dy float64) { return l.dx, l.dy }

// Position returns the slot center. Row 0 is the top row and rows grow
// downward; column 1 is shifted half a pitch in the shift direction.
func (l Layout) Position(s Slot) r2.Vec {
	p := r2.Vec{X: float64(s.Col) * l.dx, Y: -float64(s.Row) * l.dy}
	if s.Col == 1 {
		p.Y += float64(l.shiftDir) * l.dy / 2
	}
	return p
}

// Neighbors maps each slot ID to the sides on which another slot sits one
// pitch away. The relation is symmetric: if a sees b on side s then b sees
// a on s.Opposite().
func (l Layout) Neighbors(slots []Slot) (map[string][]Side, error) {
	pos := make(map[string]r2.Vec, len(slots))
	for _, s := range slots {
		if s.ID == "" {
			return nil, fmt.Errorf("slot at col %d row %d has empty id", s.Col, s.Row)
		}
		if _, ok := pos[s.ID]; ok {
			return nil, fmt.Errorf("duplicate slot id %q", s.ID)
		}
		pos[s.ID] = l.Position(s)
	}

	m := make(map[string][]Side, len(slots))
	for _, s := range slots {
		var sides []Side
		for _, o := range slots {
			if o.ID == s.ID {
				continue
			}
			d := r2.Sub(pos[o.ID], pos[s.ID])
			if math.Abs(r2.Norm(d)-l.dy) >= NeighborTol {
				continue
			}
			if side, ok := sideAt(bearingDeg(d)); ok {
				sides = append(sides, side)
			}
		}
		m[s.ID] = sides
	}
	return m, nil
}

// Open returns the complement of occupied: the faces of slot id with no
// neighbor.
func Open(occupied []Side) []Side {
	var open []Side
	for _, s := range Sides() {
		taken := false
		for _, o := range occupied {
			if o == s {
				taken = true
				break
			}
		}
		if !taken {
			open = append(open, s)
		}
	}
	return open
}

func bearingDeg(d r2.Vec) float64 {
	deg := math.Atan2(d.Y, d.X) * 180 / math.Pi
	if deg < 0 {
		deg += 360
	}
	return deg
}

// sideAt matches a bearing against the six face bearings.
func sideAt(deg float64) (Side, bool) {
	for _, s := range Sides() {
		diff := math.Abs(deg - s.Bearing())
		if diff > 180 {
			diff = 360 - diff
		}
		if diff < AngleTol {
			return s, true
		}
	}
	return 0, false
}
