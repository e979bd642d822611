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

// Spacer rim, floor hole and cable channel dimensions (mm).
const (
	rimThickness = 0.5
	rimHeight    = 10.0

	floorHoleRadius  = 1.2
	floorHoleChamfer = 0.8

	channelWidth      = 10.0
	channelHeight     = 7.0
	channelSideHeight = 2.0

	modifierHeight  = 1.5
	modifierOverlap = 1.0
)

// hexPrism returns a flat-top hexagonal prism of the given width across
// flats, z from 0 to height.
func hexPrism(flatToFlat, height float64) sdf.SDF3 {
	profile := form2.Polygon(form2.Nagon(6, hex.Circumradius(flatToFlat)))
	prism := sdf.Extrude3D(profile, height)
	return sdf.Transform3D(prism, sdf.Translate3d(r3.Vec{Z: height / 2}))
}

// zCyl returns a z-axis cylinder of the given radius spanning [z0, z0+h].
func zCyl(radius, h, z0 float64) sdf.SDF3 {
	c := form3.Cylinder(h, radius, 0)
	return sdf.Transform3D(c, sdf.Translate3d(r3.Vec{Z: z0 + h/2}))
}

// baseBody builds the floor slab and the wall ring, then planes the top down
// to the slope.
func baseBody(d dims.Derived) sdf.SDF3 {
	floor := hexPrism(d.OuterFlatToFlat, d.FloorHeight)
	wall := sdf.Difference3D(
		hexPrism(d.OuterFlatToFlat, d.WallHeight),
		hexPrism(d.InnerFlatToFlat, d.WallHeight),
	)
	wall = sdf.Transform3D(wall, sdf.Translate3d(r3.Vec{Z: d.FloorHeight}))
	return d.Slope.CutAbove(sdf.Union3D(floor, wall))
}

// cutLidRecesses sinks a lid-thickness shelf into the horizontal top and the
// sloped top. The horizontal shelf is a plain hex pocket; the sloped shelf
// removes the recess ring above the lowered slope plane.
func cutLidRecesses(d dims.Derived, _ Features, body sdf.SDF3) sdf.SDF3 {
	depth := d.LidThickness

	pocket := hexPrism(d.RecessFlatToFlat, depth)
	pocket = sdf.Transform3D(pocket, sdf.Translate3d(r3.Vec{Z: d.ZTop - depth}))
	body = sdf.Difference3D(body, pocket)

	span := d.WallHeight + d.FloorHeight
	ring := sdf.Difference3D(
		hexPrism(d.RecessFlatToFlat, span),
		hexPrism(d.InnerFlatToFlat, span),
	)
	shelf := d.Slope.Lowered(depth).CutBelow(ring)
	return sdf.Difference3D(body, shelf)
}

// addRim fuses the thin outer skirt around the wall base. Two abutting
// skirts make up the grid's rim gap.
func addRim(d dims.Derived, _ Features, body sdf.SDF3) sdf.SDF3 {
	skirt := sdf.Difference3D(
		hexPrism(d.OuterFlatToFlat+2*rimThickness, rimHeight),
		hexPrism(d.OuterFlatToFlat, rimHeight),
	)
	return sdf.Union3D(body, skirt)
}

// cutFloorHoles drills the six lid screw holes on the pillar mounting
// circle, each countersunk from below.
func cutFloorHoles(d dims.Derived, _ Features, body sdf.SDF3) sdf.SDF3 {
	drill := zCyl(floorHoleRadius, d.FloorHeight+8, 0)
	sink := form3.Cone(floorHoleChamfer, floorHoleRadius+floorHoleChamfer, floorHoleRadius, 0)
	sink = sdf.Transform3D(sink, sdf.Translate3d(r3.Vec{Z: floorHoleChamfer / 2}))
	cutter := sdf.Union3D(drill, sink)

	var holes []r3.Vec
	for i := 0; i < 6; i++ {
		a := d2r(float64(i) * 60)
		holes = append(holes, r3.Vec{
			X: d.PillarMountRadius * math.Cos(a),
			Y: d.PillarMountRadius * math.Sin(a),
		})
	}
	return sdf.Difference3D(body, sdf.Multi3D(cutter, holes))
}

// channelOffsets shifts each side's channel along its wall, positive
// counterclockwise seen from above. The per-face offsets clear the magnet
// pillars and the corner connectors.
func channelOffsets(d dims.Derived) map[hex.Side]float64 {
	h := d.InnerFlatToFlat / (2 * math.Sqrt(3))
	return map[hex.Side]float64{
		hex.North:     -h + 9,
		hex.NorthEast: -h + 11,
		hex.SouthEast: -h + 11,
		hex.South:     -h + 9,
		hex.SouthWest: h - 11,
		hex.NorthWest: h - 11,
	}
}

// cutChannels opens a cable passage through each listed wall. The profile is
// a house shape: straight jambs with a gabled top so it prints without
// support.
func cutChannels(d dims.Derived, f Features, body sdf.SDF3) sdf.SDF3 {
	profile := form2.Polygon([]r2.Vec{
		{X: -channelWidth / 2, Y: 0},
		{X: channelWidth / 2, Y: 0},
		{X: channelWidth / 2, Y: channelSideHeight},
		{X: 0, Y: channelHeight},
		{X: -channelWidth / 2, Y: channelSideHeight},
	})
	depth := 2 * d.WallThickness
	passage := sdf.Extrude3D(profile, depth)
	// Stand the profile up (width along Y, gable along Z) with the bore
	// running along +X, then swing it onto each wall.
	upright := sdf.RotateZ(d2r(90)).Mul(sdf.RotateX(d2r(90)))

	offsets := channelOffsets(d)
	var cuts []sdf.SDF3
	for _, side := range f.OpenSides {
		m := sdf.RotateZ(d2r(side.Bearing())).
			Mul(sdf.Translate3d(r3.Vec{X: d.OuterApothem, Y: offsets[side], Z: d.FloorHeight})).
			Mul(upright)
		cuts = append(cuts, sdf.Transform3D(passage, m))
	}
	if len(cuts) == 0 {
		return body
	}
	if len(cuts) == 1 {
		return sdf.Difference3D(body, cuts[0])
	}
	return sdf.Difference3D(body, sdf.Union3D(cuts...))
}

// modifier returns the infill-modifier volume: a thin hex slab straddling
// the floor top, exported as its own part for the slicer.
func modifier(d dims.Derived) sdf.SDF3 {
	slab := hexPrism(d.InnerFlatToFlat, modifierHeight)
	return sdf.Transform3D(slab, sdf.Translate3d(r3.Vec{Z: d.FloorHeight - modifierOverlap}))
}
