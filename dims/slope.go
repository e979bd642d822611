package dims

import (
	"github.com/soypat/sdf"
	"gonum.org/v1/gonum/spatial/r3"
)

// Plane is the hub's top slope: flat at PivotZ north of PivotY, dropping
// southward at Rate (dz per mm of y). The base body, both lid recesses and
// the sloped lid all cut against this one value.
type Plane struct {
	PivotY float64
	PivotZ float64
	Rate   float64
}

// ZAt returns the top surface height over y.
func (p Plane) ZAt(y float64) float64 {
	if y >= p.PivotY {
		return p.PivotZ
	}
	return p.PivotZ + p.Rate*(y-p.PivotY)
}

// Lowered returns the parallel plane d below.
func (p Plane) Lowered(d float64) Plane {
	return Plane{PivotY: p.PivotY, PivotZ: p.PivotZ - d, Rate: p.Rate}
}

func (p Plane) anchor() r3.Vec { return r3.Vec{Y: p.PivotY, Z: p.PivotZ} }

// CutAbove removes material above the plane.
func (p Plane) CutAbove(s sdf.SDF3) sdf.SDF3 {
	return sdf.Cut3D(s, p.anchor(), r3.Vec{Y: p.Rate, Z: -1})
}

// CutBelow removes material below the plane.
func (p Plane) CutBelow(s sdf.SDF3) sdf.SDF3 {
	return sdf.Cut3D(s, p.anchor(), r3.Vec{Y: -p.Rate, Z: 1})
}
