// Package lid builds the two hub lids. The horizontal lid covers the flat
// north region and the sloped lid the ramped south region; together they
// tile the recess ring, meeting over the slope pivot line.
package lid

import (
	"fmt"
	"math"

	"github.com/soypat/sdf"
	form2 "github.com/soypat/sdf/form2/must2"
	form3 "github.com/soypat/sdf/form3/must3"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"

	"hexhub/dims"
	"hexhub/hex"
	"hexhub/part"
)

// Color shared by both lids.
var Color = [3]float64{0.3, 0.3, 0.3}

// Pillar and cutout dimensions (mm). Mounting pillars line up with the
// hub's floor holes so screws drive in from below; the magnet pocket
// swallows the magnet pillar's rim with pocketSkin left above it.
const (
	pillarRadius = 3.0
	pillarBore   = 1.0

	magnetPocketRadius = 6.0
	pocketSkin         = 0.4

	pogoSlotWidth  = 18.0
	pogoSlotDepth  = 20.0
	pogoSlotYStart = 6.65

	slopedBlankHeight = 30.0
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

// pillarRing returns the four horizontal-lid pillar centers at 0, 60, 120
// and 180 degrees on the mounting circle; the sloped lid takes 240 and 300.
func pillarRing(radius float64) []r2.Vec {
	y60 := radius * math.Sin(math.Pi/3)
	return []r2.Vec{
		{X: radius}, {X: radius / 2, Y: y60},
		{X: -radius / 2, Y: y60}, {X: -radius},
	}
}

// addPillars fuses mounting posts from the floor up to each post's height
// and drills their screw bores, stopping at the lid underside.
func addPillars(body sdf.SDF3, floor float64, posts []r2.Vec, height func(r2.Vec) float64) sdf.SDF3 {
	for _, p := range posts {
		h := height(p)
		move := sdf.Translate3d(r3.Vec{X: p.X, Y: p.Y})
		body = sdf.Union3D(body, sdf.Transform3D(zCyl(pillarRadius, h, floor), move))
		body = sdf.Difference3D(body, sdf.Transform3D(zCyl(pillarBore, h, floor), move))
	}
	return body
}

// Horizontal builds the flat north lid: a plate seated in the recess,
// clipped to the flat region, with mounting pillars, magnet pockets over
// the hub's magnet pillars, and the pogo pass-through slot.
func Horizontal(d dims.Derived) (p part.Part, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("horizontal lid: %v", r)
		}
	}()
	zBottom := d.ZTop - d.LidThickness

	plate := hexPrism(d.LidFlatToFlat, d.LidThickness)
	plate = sdf.Transform3D(plate, sdf.Translate3d(r3.Vec{Z: zBottom}))
	plate = sdf.Cut3D(plate, r3.Vec{Y: d.YNorthStart}, r3.Vec{Y: 1})

	body := addPillars(plate, d.FloorHeight, pillarRing(d.PillarMountRadius), func(r2.Vec) float64 {
		return zBottom - d.FloorHeight
	})

	north := r2.Vec{Y: d.MagnetMountRadius}
	pocketDepth := d.LidThickness - pocketSkin
	for _, c := range []r2.Vec{{}, north, rot2(north, 60), rot2(north, -60)} {
		pocket := zCyl(magnetPocketRadius, pocketDepth, zBottom)
		pocket = sdf.Transform3D(pocket, sdf.Translate3d(r3.Vec{X: c.X, Y: c.Y}))
		body = sdf.Difference3D(body, pocket)
	}

	slot := form3.Box(r3.Vec{X: pogoSlotWidth, Y: pogoSlotDepth, Z: 50}, 0)
	slot = sdf.Transform3D(slot, sdf.Translate3d(r3.Vec{Y: pogoSlotYStart + pogoSlotDepth/2, Z: 15}))
	body = sdf.Difference3D(body, slot)

	return part.Part{Name: "Lid_Horizontal", Body: body, Color: Color}, nil
}

// Sloped builds the ramped south lid: a tall blank shaved between the slope
// plane and the lowered slope plane, clipped to the south region, with its
// two mounting pillars cut to meet the ramp underside.
func Sloped(d dims.Derived) (p part.Part, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("sloped lid: %v", r)
		}
	}()
	under := d.Slope.Lowered(d.LidThickness)

	plate := hexPrism(d.LidFlatToFlat, slopedBlankHeight)
	plate = d.Slope.CutAbove(plate)
	plate = under.CutBelow(plate)
	plate = sdf.Cut3D(plate, r3.Vec{Y: d.YNorthStart}, r3.Vec{Y: -1})

	y60 := d.PillarMountRadius * math.Sin(math.Pi/3)
	posts := []r2.Vec{
		{X: -d.PillarMountRadius / 2, Y: -y60},
		{X: d.PillarMountRadius / 2, Y: -y60},
	}
	body := addPillars(plate, d.FloorHeight, posts, func(p r2.Vec) float64 {
		return under.ZAt(p.Y) - d.FloorHeight
	})

	return part.Part{Name: "Lid_Sloped", Body: body, Color: Color}, nil
}

func rot2(p r2.Vec, degrees float64) r2.Vec {
	s, c := math.Sincos(degrees * math.Pi / 180)
	return r2.Vec{X: c*p.X - s*p.Y, Y: s*p.X + c*p.Y}
}
