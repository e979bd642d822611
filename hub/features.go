package hub

import (
	"math"

	"github.com/soypat/sdf"
	form2 "github.com/soypat/sdf/form2/must2"
	form3 "github.com/soypat/sdf/form3/must3"
	"github.com/soypat/sdf/helpers/matter"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"

	"hexhub/dims"
	"hexhub/hex"
)

// Fixture dimensions (mm). Magnet pillars take d10x2 magnets in the top rim
// bore; pogo pillars pass d1.8 pins through the floor; controller standoffs
// take self-tapping M2 screws.
const (
	magnetPillarRadius = 11.8 / 2
	magnetPillarBore   = 10.1 / 2
	magnetPillarHeight = 11.2
	magnetPillarRimH   = 2.0

	pogoPillarRadius = 2.5
	pogoPillarBore   = 1.0
	pogoPillarHeight = 9.7
	pogoRowX0        = -6.0
	pogoRowX1        = 5.0
	pogoRowYMid      = 16.65
	pogoRowYSpread   = 7.5

	standoffRadius = 2.5
	standoffBore   = 1.0
	standoffHeight = 5.0

	usbStandRadius = 2.0
	usbStandBore   = 1.0
	usbStandHeight = 1.0
	usbCutWidth    = 13.0
	usbCutHeight   = 7.0
	usbCutRound    = 2.0
	usbLintelDepth = 2.0

	wallMagnetDiameter = 10.0
	wallMagnetDepth    = 2.0
	wallMagnetLift     = 6.0
	wallMagnetOffset   = 10.0
)

// rot2 rotates a point about the origin by degrees, counterclockwise.
func rot2(p r2.Vec, degrees float64) r2.Vec {
	s, c := math.Sincos(d2r(degrees))
	return r2.Vec{X: c*p.X - s*p.Y, Y: s*p.X + c*p.Y}
}

func at(ps ...r2.Vec) []r3.Vec {
	out := make([]r3.Vec, len(ps))
	for i, p := range ps {
		out[i] = r3.Vec{X: p.X, Y: p.Y}
	}
	return out
}

// addMagnetPillars fuses the four lid magnet posts: a solid base with an
// open rim on top that the magnet drops into. The rim top clears the lid
// underside and seats inside the lid's pocket.
func addMagnetPillars(d dims.Derived, _ Features, body sdf.SDF3) sdf.SDF3 {
	north := r2.Vec{Y: d.MagnetMountRadius}
	posts := at(r2.Vec{}, north, rot2(north, 60), rot2(north, -60))

	base := zCyl(magnetPillarRadius, magnetPillarHeight, d.FloorHeight)
	rim := sdf.Difference3D(
		zCyl(magnetPillarRadius, magnetPillarRimH, d.FloorHeight+magnetPillarHeight),
		zCyl(magnetPillarBore, magnetPillarRimH, d.FloorHeight+magnetPillarHeight),
	)
	pillar := sdf.Union3D(base, rim)
	return sdf.Union3D(body, sdf.Multi3D(pillar, posts))
}

// addPogoPillars fuses the four pogo-pin posts and drills their bores all
// the way through the floor so the pins reach the underside.
func addPogoPillars(d dims.Derived, _ Features, body sdf.SDF3) sdf.SDF3 {
	posts := at(
		r2.Vec{X: pogoRowX0, Y: pogoRowYMid - pogoRowYSpread},
		r2.Vec{X: pogoRowX0, Y: pogoRowYMid + pogoRowYSpread},
		r2.Vec{X: pogoRowX1, Y: pogoRowYMid - pogoRowYSpread},
		r2.Vec{X: pogoRowX1, Y: pogoRowYMid + pogoRowYSpread},
	)
	pillar := zCyl(pogoPillarRadius, pogoPillarHeight, d.FloorHeight)
	bore := zCyl(pogoPillarBore, d.FloorHeight+pogoPillarHeight+2, -1)

	body = sdf.Union3D(body, sdf.Multi3D(pillar, posts))
	return sdf.Difference3D(body, sdf.Multi3D(bore, posts))
}

// addControllerMounts fuses the six PCB standoffs with blind screw bores.
func addControllerMounts(d dims.Derived, _ Features, body sdf.SDF3) sdf.SDF3 {
	posts := at(
		r2.Vec{X: -16, Y: 28}, r2.Vec{X: 16, Y: 28},
		r2.Vec{X: -32, Y: 0}, r2.Vec{X: 32, Y: 0},
		r2.Vec{X: -17, Y: -26}, r2.Vec{X: 17, Y: -26},
	)
	post := zCyl(standoffRadius, standoffHeight, d.FloorHeight)
	bore := zCyl(standoffBore, standoffHeight, d.FloorHeight+1)

	body = sdf.Union3D(body, sdf.Multi3D(post, posts))
	return sdf.Difference3D(body, sdf.Multi3D(bore, posts))
}

// addUSB fuses the four PCB standoffs against the south wall and cuts the
// rounded connector opening through it, the whole set rotated by the
// configured angle.
func addUSB(d dims.Derived, f Features, body sdf.SDF3) sdf.SDF3 {
	ySouthInner := -d.InnerFlatToFlat / 2
	posts := at(
		r2.Vec{X: -7, Y: ySouthInner + 3}, r2.Vec{X: 7, Y: ySouthInner + 3},
		r2.Vec{X: -7, Y: ySouthInner + 17}, r2.Vec{X: 7, Y: ySouthInner + 17},
	)
	post := zCyl(usbStandRadius, usbStandHeight, d.FloorHeight)
	bore := zCyl(usbStandBore, d.FloorHeight+usbStandHeight, 1)

	// Opening through the south wall, top edge usbLintelDepth below the
	// sloped wall top, with cut margins past both faces.
	depth := d.WallThickness + 1.5
	opening := sdf.Extrude3D(form2.Box(r2.Vec{X: usbCutWidth, Y: usbCutHeight}, usbCutRound), depth)
	m := sdf.Translate3d(r3.Vec{
		Y: d.YSouth - 1.0 + depth/2,
		Z: d.ZSouth - usbLintelDepth - usbCutHeight/2,
	}).Mul(sdf.RotateX(d2r(90)))
	opening = sdf.Transform3D(opening, m)

	rot := sdf.RotateZ(d2r(f.USB.Angle))
	add := sdf.Transform3D(sdf.Multi3D(post, posts), rot)
	cut := sdf.Transform3D(sdf.Union3D(sdf.Multi3D(bore, posts), opening), rot)
	return sdf.Difference3D(sdf.Union3D(body, add), cut)
}

// cutMagnetMounts pockets the outer wall for snap-in d10 magnets, one pocket
// per configured side and position. Pocket diameter is print-compensated.
func cutMagnetMounts(d dims.Derived, f Features, body sdf.SDF3) sdf.SDF3 {
	r := matter.PLA.InternalDimScale(wallMagnetDiameter) / 2
	pocket := form3.Cylinder(2*wallMagnetDepth, r, 0)
	pocket = sdf.Transform3D(pocket, sdf.RotateY(d2r(90)))

	var cuts []sdf.SDF3
	for _, side := range hex.Sides() {
		for _, pos := range f.Magnets[side] {
			offset := wallMagnetOffset
			if pos == MagnetRight {
				offset = -offset
			}
			m := sdf.RotateZ(d2r(side.Bearing())).Mul(sdf.Translate3d(r3.Vec{
				X: d.OuterApothem,
				Y: offset,
				Z: d.FloorHeight + wallMagnetLift,
			}))
			cuts = append(cuts, sdf.Transform3D(pocket, m))
		}
	}
	if len(cuts) == 0 {
		return body
	}
	if len(cuts) == 1 {
		return sdf.Difference3D(body, cuts[0])
	}
	return sdf.Difference3D(body, sdf.Union3D(cuts...))
}
