// Package hex provides flat-top hexagon math, compass side indexing and
// honeycomb grid layout shared by every part in the suite.
package hex

import (
	"math"
	"strings"

	"gonum.org/v1/gonum/spatial/r2"
)

// Side indexes the six faces of a flat-top hexagon, clockwise from north.
type Side int

const (
	North Side = iota
	NorthEast
	SouthEast
	South
	SouthWest
	NorthWest
)

var sideNames = [6]string{"N", "NE", "SE", "S", "SW", "NW"}

// bearings[s] is the outward face direction in degrees, counterclockwise
// from +X.
var bearings = [6]float64{90, 30, 330, 270, 210, 150}

func (s Side) String() string {
	if s < North || s > NorthWest {
		return "side(invalid)"
	}
	return sideNames[s]
}

// ParseSide resolves a compass name ("N".."NW", any case) to its side.
func ParseSide(name string) (Side, bool) {
	for i, n := range sideNames {
		if strings.EqualFold(name, n) {
			return Side(i), true
		}
	}
	return 0, false
}

// Bearing returns the outward direction of the face in degrees,
// counterclockwise from +X.
func (s Side) Bearing() float64 { return bearings[s] }

// WallAngle returns the rotation in degrees that carries a feature built on
// the north wall onto this side.
func (s Side) WallAngle() float64 { return bearings[s] - 90 }

// Opposite returns the face across the hexagon.
func (s Side) Opposite() Side { return (s + 3) % 6 }

// Sides lists all six sides in face order.
func Sides() [6]Side {
	return [6]Side{North, NorthEast, SouthEast, South, SouthWest, NorthWest}
}

// Apothem returns the center-to-flat distance of a hexagon with the given
// flat-to-flat width.
func Apothem(flatToFlat float64) float64 { return flatToFlat / 2 }

// Circumradius returns the center-to-vertex distance of a hexagon with the
// given flat-to-flat width.
func Circumradius(flatToFlat float64) float64 { return flatToFlat / math.Sqrt(3) }

// Vertex returns the i-th vertex of a flat-top hexagon centered on the
// origin, counterclockwise from (R, 0).
func Vertex(flatToFlat float64, i int) r2.Vec {
	r := Circumradius(flatToFlat)
	a := d2r(float64(((i % 6) + 6) % 6 * 60))
	return r2.Vec{X: r * math.Cos(a), Y: r * math.Sin(a)}
}

func d2r(degrees float64) float64 { return degrees * math.Pi / 180. }
