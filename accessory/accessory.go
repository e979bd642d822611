// Package accessory builds the companion parts printed alongside hubs: the
// magnetic tile floor, the tilted tile tray, the pogo pin adapter and the
// PCB board spacer.
package accessory

import (
	"math"

	"github.com/soypat/sdf"
	form2 "github.com/soypat/sdf/form2/must2"
	form3 "github.com/soypat/sdf/form3/must3"
	"github.com/soypat/sdf/helpers/matter"
	"gonum.org/v1/gonum/spatial/r3"

	"hexhub/hex"
)

var material = matter.PLA

// Part colors.
var (
	GrayColor   = [3]float64{0.6, 0.6, 0.6}
	YellowColor = [3]float64{0.8, 0.8, 0.2}
)

func hexPrism(flatToFlat, height float64) sdf.SDF3 {
	profile := form2.Polygon(form2.Nagon(6, hex.Circumradius(flatToFlat)))
	prism := sdf.Extrude3D(profile, height)
	return sdf.Transform3D(prism, sdf.Translate3d(r3.Vec{Z: height / 2}))
}

func zCyl(radius, h, z0 float64) sdf.SDF3 {
	c := form3.Cylinder(h, radius, 0)
	return sdf.Transform3D(c, sdf.Translate3d(r3.Vec{Z: z0 + h/2}))
}

func d2r(degrees float64) float64 { return degrees * math.Pi / 180. }
