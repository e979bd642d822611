package hub

import (
	"math"

	"github.com/soypat/sdf"
	form2 "github.com/soypat/sdf/form2/must2"
	form3 "github.com/soypat/sdf/form3/must3"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"

	"hexhub/dims"
	"hexhub/hex"
)

// Mating rail dimensions. The male profile is a 4 mm square rotated 45 deg
// and dropped 0.9 so the clipped base is 1.8 wide; the female cutout is the
// same profile grown by the sliding clearance. All rails extrude along +Y
// before placement so mated hubs slide together in one direction.
const (
	railSquare    = 4.0
	railDrop      = 0.9
	railClearance = 0.15
	railLength    = 8.0
	cornerInset   = 15.0
	faceInset     = 4.0
	housingWidth  = 8.0
	housingHeight = 4.0
)

// railProfile returns the pentagon cross-section, grown by clearance for
// female cutouts.
func railProfile(clearance float64) sdf.SDF2 {
	halfDiag := railSquare * math.Sqrt2 / 2
	waist := halfDiag - railDrop
	p := form2.Polygon([]r2.Vec{
		{X: -railDrop, Y: 0},
		{X: railDrop, Y: 0},
		{X: halfDiag, Y: waist},
		{X: 0, Y: waist + halfDiag},
		{X: -halfDiag, Y: waist},
	})
	if clearance > 0 {
		return sdf.Offset2D(p, clearance)
	}
	return p
}

// rail stands the profile up in the XZ plane and extrudes it along Y over
// [y0, y0+length].
func rail(profile sdf.SDF2, length, y0 float64) sdf.SDF3 {
	s := sdf.Extrude3D(profile, length)
	m := sdf.Translate3d(r3.Vec{Y: y0 + length/2}).Mul(sdf.RotateX(d2r(90)))
	return sdf.Transform3D(s, m)
}

// cavityPrism covers the inner cavity footprint over z -5..15 for trimming
// rail roots out of the enclosure interior.
func cavityPrism(d dims.Derived) sdf.SDF3 {
	p := hexPrism(d.InnerFlatToFlat, 20)
	return sdf.Transform3D(p, sdf.Translate3d(r3.Vec{Z: -5}))
}

// outerPrism covers the hub footprint over z -5..15 for trimming housings
// flush with the wall.
func outerPrism(d dims.Derived) sdf.SDF3 {
	p := hexPrism(d.OuterFlatToFlat, 20)
	return sdf.Transform3D(p, sdf.Translate3d(r3.Vec{Z: -5}))
}

// cornerRailPos places a corner rail cornerInset from vertex i toward
// vertex j, then shifts it inward along Y.
func cornerRailPos(d dims.Derived, i, j int, yShift float64) r2.Vec {
	vi := hex.Vertex(d.OuterFlatToFlat, i)
	vj := hex.Vertex(d.OuterFlatToFlat, j)
	dir := r2.Unit(r2.Sub(vj, vi))
	p := r2.Add(vi, r2.Scale(cornerInset, dir))
	p.Y += yShift
	return p
}

// addConnectors builds the configured mating rails and housings. Corner
// faces carry fixed rails: NE and NW male only, SE and SW female only;
// requests for the unsupported role on a corner are skipped. The flat N/S
// faces take either role at the generic inset position.
func addConnectors(d dims.Derived, f Features, body sdf.SDF3) sdf.SDF3 {
	for _, side := range hex.Sides() {
		kind, ok := f.Connectors[side]
		if !ok {
			continue
		}
		switch side {
		case hex.North:
			body = genericConnector(d, body, kind, 0)
		case hex.South:
			body = genericConnector(d, body, kind, 180)
		case hex.NorthEast:
			if kind == Male {
				body = cornerMale(d, body, cornerRailPos(d, 0, 1, -faceInset), false)
			}
		case hex.NorthWest:
			if kind == Male {
				body = cornerMale(d, body, cornerRailPos(d, 0, 1, -faceInset), true)
			}
		case hex.SouthWest:
			if kind == Female {
				body = cornerFemale(d, body, cornerRailPos(d, 4, 3, faceInset), false)
			}
		case hex.SouthEast:
			if kind == Female {
				body = cornerFemale(d, body, cornerRailPos(d, 4, 3, faceInset), true)
			}
		}
	}
	return body
}

func cornerMale(d dims.Derived, body sdf.SDF3, pos r2.Vec, mirrorX bool) sdf.SDF3 {
	if mirrorX {
		pos.X = -pos.X
	}
	pin := rail(railProfile(0), railLength, 0)
	pin = sdf.Transform3D(pin, sdf.Translate3d(r3.Vec{X: pos.X, Y: pos.Y}))
	pin = sdf.Difference3D(pin, cavityPrism(d))
	return sdf.Union3D(body, pin)
}

func cornerFemale(d dims.Derived, body sdf.SDF3, pos r2.Vec, mirrorX bool) sdf.SDF3 {
	if mirrorX {
		pos.X = -pos.X
	}
	housing := form3.Box(r3.Vec{X: housingWidth, Y: railLength, Z: housingHeight}, 0)
	housing = sdf.Transform3D(housing, sdf.Translate3d(r3.Vec{
		X: pos.X, Y: pos.Y, Z: housingHeight / 2,
	}))
	housing = sdf.Intersect3D(housing, outerPrism(d))
	body = sdf.Union3D(body, housing)

	cutout := rail(railProfile(railClearance), 40, -20)
	cutout = sdf.Transform3D(cutout, sdf.Translate3d(r3.Vec{X: pos.X, Y: pos.Y}))
	return sdf.Difference3D(body, cutout)
}

// genericConnector builds a male or female rail on a flat face, north at
// rotation 0 and south at 180. The rail base sits faceInset inside the
// outer wall; a mating housing lands ConnectorMateF from the neighboring
// hub's center and swallows the pin by railLength-faceInset-RimGap.
func genericConnector(d dims.Derived, body sdf.SDF3, kind ConnectorKind, rotDeg float64) sdf.SDF3 {
	move := sdf.RotateZ(d2r(rotDeg)).Mul(sdf.Translate3d(r3.Vec{Y: d.ConnectorM}))
	switch kind {
	case Male:
		pin := rail(railProfile(0), railLength, 0)
		pin = sdf.Transform3D(pin, move)
		pin = sdf.Difference3D(pin, cavityPrism(d))
		return sdf.Union3D(body, pin)
	case Female:
		housing := form3.Box(r3.Vec{X: housingWidth, Y: railLength, Z: housingHeight}, 0)
		housing = sdf.Transform3D(housing, move.Mul(sdf.Translate3d(r3.Vec{Z: housingHeight / 2})))
		housing = sdf.Intersect3D(housing, outerPrism(d))
		body = sdf.Union3D(body, housing)

		cutout := rail(railProfile(railClearance), 40, -20)
		cutout = sdf.Transform3D(cutout, move)
		return sdf.Difference3D(body, cutout)
	}
	return body
}
