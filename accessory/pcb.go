package accessory

import (
	"fmt"

	"github.com/soypat/sdf"
	form3 "github.com/soypat/sdf/form3/must3"
	"gonum.org/v1/gonum/spatial/r3"

	"hexhub/part"
)

// Pogo adapter dimensions (mm). The plate screws onto the hub's pogo
// pillars from below; the raised block carries six press-fit pogo pins on a
// 2.54 pitch.
const (
	adapterXMin   = -10.0
	adapterXMax   = 7.5
	adapterYHalf  = 10.0
	adapterHeight = 0.8

	adapterScrewDiameter = 2.3
	adapterScrewChamfer  = 0.8

	adapterBlockXHalf  = 2.15
	adapterBlockYHalf  = 8.45
	adapterBlockHeight = 4.5
	adapterBlockRound  = 0.6

	pogoPinRadius  = 0.9
	pogoPinPitch   = 2.54
	pogoPinChamfer = 1.0
)

// PogoAdapter builds the pogo pin adapter plate. Screw holes line up with
// the hub's pogo pillar bores.
func PogoAdapter() (pt part.Part, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pogo adapter: %v", r)
		}
	}()
	length := adapterXMax - adapterXMin
	plate := form3.Box(r3.Vec{X: length, Y: 2 * adapterYHalf, Z: adapterHeight}, 0)
	plate = sdf.Transform3D(plate, sdf.Translate3d(r3.Vec{
		X: adapterXMin + length/2, Z: adapterHeight / 2,
	}))

	// Countersunk screw holes at the pillar positions, compensated for
	// print fit.
	screwR := material.InternalDimScale(adapterScrewDiameter) / 2
	sink := form3.Cone(adapterHeight, screwR, screwR+adapterScrewChamfer, 0)
	sink = sdf.Transform3D(sink, sdf.Translate3d(r3.Vec{Z: adapterHeight / 2}))
	plate = sdf.Difference3D(plate, sdf.Multi3D(sink, []r3.Vec{
		{X: -6, Y: -7.5}, {X: 5, Y: -7.5}, {X: 5, Y: 7.5}, {X: -6, Y: 7.5},
	}))

	// Pin carrier block, rounded everywhere above the plate seam.
	block := form3.Box(r3.Vec{
		X: 2 * adapterBlockXHalf,
		Y: 2 * adapterBlockYHalf,
		Z: adapterBlockHeight + adapterBlockRound,
	}, adapterBlockRound)
	block = sdf.Transform3D(block, sdf.Translate3d(r3.Vec{
		Z: adapterHeight - adapterBlockRound + (adapterBlockHeight+adapterBlockRound)/2,
	}))
	body := sdf.Union3D(plate, block)

	// Press-fit pin bores stay nominal; each gets a bottom lead-in.
	bore := zCyl(pogoPinRadius, 10, -1)
	leadIn := form3.Cone(pogoPinChamfer, pogoPinRadius+1, pogoPinRadius, 0)
	leadIn = sdf.Transform3D(leadIn, sdf.Translate3d(r3.Vec{Z: pogoPinChamfer / 2}))
	cutter := sdf.Union3D(bore, leadIn)
	var pins []r3.Vec
	for i := 0; i < 6; i++ {
		pins = append(pins, r3.Vec{Y: (float64(i) - 2.5) * pogoPinPitch})
	}
	body = sdf.Difference3D(body, sdf.Multi3D(cutter, pins))

	return part.Part{Name: "Pogo_Adapter", Body: body, Color: YellowColor}, nil
}

// Board spacer dimensions: a bar dropped between PCB and standoffs with six
// header pin holes through it.
const (
	spacerLength = 18.0
	spacerWidth  = 5.0
	spacerHeight = 3.0

	spacerHoleRadius = 0.5
	spacerHolePitch  = 2.54
)

// BoardSpacer builds the PCB spacer bar.
func BoardSpacer() (pt part.Part, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("board spacer: %v", r)
		}
	}()
	bar := form3.Box(r3.Vec{X: spacerLength, Y: spacerWidth, Z: spacerHeight}, 0)
	bar = sdf.Transform3D(bar, sdf.Translate3d(r3.Vec{Z: spacerHeight / 2}))

	hole := zCyl(spacerHoleRadius, spacerHeight+2, -1)
	var holes []r3.Vec
	for i := 0; i < 6; i++ {
		holes = append(holes, r3.Vec{X: (float64(i) - 2.5) * spacerHolePitch})
	}
	body := sdf.Difference3D(bar, sdf.Multi3D(hole, holes))

	return part.Part{Name: "Board_Spacer", Body: body, Color: GrayColor}, nil
}
