package accessory

import (
	"fmt"
	"math"

	"github.com/soypat/sdf"
	form2 "github.com/soypat/sdf/form2/must2"
	form3 "github.com/soypat/sdf/form3/must3"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"

	"hexhub/part"
)

// TileFloorParams sizes the magnetic tile floor: a hex plate that couples
// to a hub's underside through magnets and bolts onto a frame.
type TileFloorParams struct {
	FlatToFlat float64
	Height     float64

	MagnetDiameter float64 // pocket is print-compensated
	MagnetDepth    float64
	MagnetCircle   float64 // radius of the six edge-facing pockets

	SlotWidth  float64 // rectangular cutouts, one per edge
	SlotLength float64
	SlotOffset float64 // radial start of each cutout

	BoltCircle float64 // radius of the six alternating bolt posts
}

// DefaultTileFloor matches the production tile.
func DefaultTileFloor() TileFloorParams {
	return TileFloorParams{
		FlatToFlat:     81.0,
		Height:         2.2,
		MagnetDiameter: 10.0,
		MagnetDepth:    1.8,
		MagnetCircle:   33.5,
		SlotWidth:      5.6,
		SlotLength:     17.9,
		SlotOffset:     7.7,
		BoltCircle:     35.0,
	}
}

// Bolt post dimensions shared by both hole variants. Even posts carry a
// compensated through hole with a bottom chamfer, odd posts a nominal blind
// bore a self-tapping screw can bite into.
const (
	boltPostRadius = 2.5
	boltPostHeight = 1.5

	boltThroughDiameter = 2.5
	boltThroughChamfer  = 0.8

	boltBlindRadius  = 1.0
	boltBlindBottom  = 0.4
	boltBlindChamfer = 0.2
)

// TileFloor builds the tile floor part.
func TileFloor(p TileFloorParams) (pt part.Part, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("tile floor: %v", r)
		}
	}()
	body := hexPrism(p.FlatToFlat, p.Height)

	// Magnet pockets sink in from the top face: one central, six facing
	// the edges.
	magnetR := material.InternalDimScale(p.MagnetDiameter) / 2
	pocket := zCyl(magnetR, p.MagnetDepth, p.Height-p.MagnetDepth)
	pockets := []r3.Vec{{}}
	for i := 0; i < 6; i++ {
		a := d2r(30 + float64(i)*60)
		pockets = append(pockets, r3.Vec{
			X: p.MagnetCircle * math.Cos(a),
			Y: p.MagnetCircle * math.Sin(a),
		})
	}
	body = sdf.Difference3D(body, sdf.Multi3D(pocket, pockets))

	// Through slots under each edge.
	slot := form3.Box(r3.Vec{X: p.SlotLength, Y: p.SlotWidth, Z: p.Height + 2}, 0)
	slot = sdf.Transform3D(slot, sdf.Translate3d(r3.Vec{
		X: p.SlotOffset + p.SlotLength/2, Z: p.Height / 2,
	}))
	var slots []sdf.SDF3
	for i := 0; i < 6; i++ {
		slots = append(slots, sdf.Transform3D(slot, sdf.RotateZ(d2r(30+float64(i)*60))))
	}
	body = sdf.Difference3D(body, sdf.Union3D(slots...))

	// Bolt posts toward the corners, hole variants alternating.
	throughR := material.InternalDimScale(boltThroughDiameter) / 2
	postTop := p.Height + boltPostHeight
	for i := 0; i < 6; i++ {
		a := d2r(float64(i) * 60)
		move := sdf.Translate3d(r3.Vec{
			X: p.BoltCircle * math.Cos(a),
			Y: p.BoltCircle * math.Sin(a),
		})
		body = sdf.Union3D(body, sdf.Transform3D(zCyl(boltPostRadius, boltPostHeight, p.Height), move))

		var cutter sdf.SDF3
		if i%2 == 0 {
			chamfer := form3.Cone(boltThroughChamfer, throughR+boltThroughChamfer, throughR, 0)
			chamfer = sdf.Transform3D(chamfer, sdf.Translate3d(r3.Vec{Z: boltThroughChamfer / 2}))
			cutter = sdf.Union3D(chamfer, zCyl(throughR, postTop+1-boltThroughChamfer, boltThroughChamfer))
		} else {
			bore := zCyl(boltBlindRadius, postTop-boltBlindChamfer-boltBlindBottom, boltBlindBottom)
			chamfer := form3.Cone(boltBlindChamfer, boltBlindRadius, boltBlindRadius+boltBlindChamfer, 0)
			chamfer = sdf.Transform3D(chamfer, sdf.Translate3d(r3.Vec{Z: postTop - boltBlindChamfer/2}))
			cutter = sdf.Union3D(bore, chamfer)
		}
		body = sdf.Difference3D(body, sdf.Transform3D(cutter, move))
	}

	return part.Part{Name: "Tile_Floor", Body: body, Color: GrayColor}, nil
}

// TileTrayParams sizes the tilted tray rack holding tiles on edge.
type TileTrayParams struct {
	TileEdge      float64
	TileThickness float64
	Gap           float64 // clear spacing between seated tiles
	TiltDeg       float64
	Count         int
	BaseWidth     float64
	BaseThickness float64
}

// DefaultTileTray matches the production three-slot tray.
func DefaultTileTray() TileTrayParams {
	return TileTrayParams{
		TileEdge:      49.0,
		TileThickness: 12.0,
		Gap:           20.0,
		TiltDeg:       20.0,
		Count:         3,
		BaseWidth:     100.0,
		BaseThickness: 3.0,
	}
}

// Tray cross-section constants: slot walls rise at 60 deg so tiles drop in
// freely, with material extended below the base for the tilt cut.
const (
	trayWall      = 3.0
	trayFloor     = 3.0
	trayHeight    = 30.0
	trayExtraDrop = 20.0
	traySlotSlack = 1.0
)

// TileTray builds the tray rack: Count identical tilted slots fused over a
// base plate.
func TileTray(p TileTrayParams) (pt part.Part, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("tile tray: %v", r)
		}
	}()
	if p.Count < 1 {
		return part.Part{}, fmt.Errorf("tile tray: count %d", p.Count)
	}
	pitch := p.TileThickness + p.Gap
	tilt := d2r(p.TiltDeg)

	tray := trayBlock(p, pitch)

	// Tilt back and drop so the lowest point of the slot floor lands on
	// the base plate top.
	tray = sdf.Transform3D(tray, sdf.RotateX(-tilt))
	slotDepth := p.TileThickness + traySlotSlack
	zLowest := slotDepth/2*math.Sin(-tilt) + trayFloor*math.Cos(tilt)
	tray = sdf.Transform3D(tray, sdf.Translate3d(r3.Vec{Z: p.BaseThickness - zLowest}))

	// Stack along Y so seated tiles sit pitch apart face to face.
	step := pitch / math.Cos(tilt)
	var trays []sdf.SDF3
	for i := 0; i < p.Count; i++ {
		trays = append(trays, sdf.Transform3D(tray, sdf.Translate3d(r3.Vec{Y: float64(i) * step})))
	}
	body := trays[0]
	if len(trays) > 1 {
		body = sdf.Union3D(trays...)
	}
	body = sdf.Cut3D(body, r3.Vec{Z: p.BaseThickness}, r3.Vec{Z: 1})

	// Base plate sized from the tilted stack.
	bb := body.Bounds()
	const padding = 10.0
	plateLen := bb.Max.Y - bb.Min.Y + 2*padding
	plate := form3.Box(r3.Vec{X: p.BaseWidth, Y: plateLen, Z: p.BaseThickness}, 0)
	plate = sdf.Transform3D(plate, sdf.Translate3d(r3.Vec{
		Y: bb.Min.Y - padding + plateLen/2,
		Z: p.BaseThickness / 2,
	}))

	return part.Part{Name: "Tile_Tray", Body: sdf.Union3D(body, plate), Color: GrayColor}, nil
}

// trayBlock builds one upright tray: a trapezoid block with the tile slot
// cut through, centered on Y.
func trayBlock(p TileTrayParams, pitch float64) sdf.SDF3 {
	half := p.TileEdge / 2
	dxSlot := trayHeight / math.Tan(d2r(60))
	slotProfile := form2.Polygon([]r2.Vec{
		{X: -half, Y: trayFloor},
		{X: half, Y: trayFloor},
		{X: half + dxSlot, Y: trayFloor + trayHeight},
		{X: -half - dxSlot, Y: trayFloor + trayHeight},
	})

	top := trayFloor + trayHeight
	dxWall := trayWall / math.Sin(d2r(60))
	dxOuter := (top + trayExtraDrop) / math.Tan(d2r(60))
	outerProfile := form2.Polygon([]r2.Vec{
		{X: -half - dxWall, Y: -trayExtraDrop},
		{X: half + dxWall, Y: -trayExtraDrop},
		{X: half + dxWall + dxOuter, Y: top},
		{X: -half - dxWall - dxOuter, Y: top},
	})

	// Stand both prisms up: profile X stays X, profile Y becomes Z, slots
	// centered in the tray depth.
	upright := sdf.RotateX(d2r(90))
	block := sdf.Transform3D(sdf.Extrude3D(outerProfile, pitch), upright)
	slot := sdf.Transform3D(sdf.Extrude3D(slotProfile, p.TileThickness+traySlotSlack), upright)
	return sdf.Difference3D(block, slot)
}
