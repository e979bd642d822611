// Package hub builds the hexagonal enclosure module: floor, wall ring and
// sloped top, lid recesses, spacer rim, and the configurable feature set
// composed onto the base body in a fixed order.
package hub

import (
	"fmt"
	"math"

	"github.com/soypat/sdf"

	"hexhub/dims"
	"hexhub/hex"
	"hexhub/part"
)

// Part colors.
var (
	BodyColor     = [3]float64{0.9, 0.9, 0.9}
	ModifierColor = [3]float64{0.2, 0.8, 0.2}
)

// ConnectorKind selects the mating role of a face connector.
type ConnectorKind int

const (
	Male ConnectorKind = iota + 1
	Female
)

func (k ConnectorKind) String() string {
	switch k {
	case Male:
		return "male"
	case Female:
		return "female"
	}
	return "connector(invalid)"
}

// MagnetPos places a wall magnet pocket on a face. Left is counterclockwise
// of the face center as seen from the hub center.
type MagnetPos int

const (
	MagnetLeft MagnetPos = iota + 1
	MagnetRight
)

// USBConfig rotates the USB standoffs and wall opening onto one of three
// walls: 0 degrees keeps the south wall, +60 claims south-east, -60
// south-west.
type USBConfig struct {
	Angle float64
}

// Side returns the wall the cutout claims, false for an unsupported angle.
func (u USBConfig) Side() (hex.Side, bool) {
	switch {
	case math.Abs(u.Angle) < 0.1:
		return hex.South, true
	case math.Abs(u.Angle-60) < 0.1:
		return hex.SouthEast, true
	case math.Abs(u.Angle+60) < 0.1:
		return hex.SouthWest, true
	}
	return 0, false
}

// Features is the sparse per-variant feature configuration. The zero value
// builds a bare hub; absent keys mean "disabled". No composer may assume
// another has run except through the body value it receives.
type Features struct {
	FloorHoles       bool
	MagnetPillars    bool
	PogoPillars      bool
	ControllerMounts bool
	USB              *USBConfig
	OpenSides        []hex.Side
	Connectors       map[hex.Side]ConnectorKind
	Magnets          map[hex.Side][]MagnetPos
	Modifier         bool
}

// StandardKit returns the fixture set every production hub carries.
func StandardKit() Features {
	return Features{
		FloorHoles:    true,
		MagnetPillars: true,
		PogoPillars:   true,
		Modifier:      true,
	}
}

// composer is one step of the build pipeline. apply receives the body built
// so far and returns the body with the feature composed on.
type composer struct {
	name    string
	enabled func(Features) bool
	apply   func(d dims.Derived, f Features, body sdf.SDF3) sdf.SDF3
}

func always(Features) bool { return true }

// composers run in this order. Recesses and rim are part of every hub; the
// rest switch on their Features key.
var composers = []composer{
	{"lid recesses", always, cutLidRecesses},
	{"spacer rim", always, addRim},
	{"floor holes", func(f Features) bool { return f.FloorHoles }, cutFloorHoles},
	{"magnet pillars", func(f Features) bool { return f.MagnetPillars }, addMagnetPillars},
	{"pogo pillars", func(f Features) bool { return f.PogoPillars }, addPogoPillars},
	{"controller mounts", func(f Features) bool { return f.ControllerMounts }, addControllerMounts},
	{"usb", func(f Features) bool { return f.USB != nil }, addUSB},
	{"cable channels", func(f Features) bool { return len(f.OpenSides) > 0 }, cutChannels},
	{"connectors", func(f Features) bool { return len(f.Connectors) > 0 }, addConnectors},
	{"magnet mounts", func(f Features) bool { return len(f.Magnets) > 0 }, cutMagnetMounts},
}

// Build composes a hub from the dimension set and features. It returns the
// part records: the hub body and, when configured, the modifier volume.
// Construction panics from the geometry kernel surface as errors.
func Build(d dims.Derived, f Features) (parts []part.Part, err error) {
	defer func() {
		if r := recover(); r != nil {
			parts = nil
			err = fmt.Errorf("hub build: %v", r)
		}
	}()
	if f.USB != nil {
		if _, ok := f.USB.Side(); !ok {
			return nil, fmt.Errorf("hub build: unsupported usb angle %g", f.USB.Angle)
		}
	}

	body := baseBody(d)
	for _, c := range composers {
		if !c.enabled(f) {
			continue
		}
		body = c.apply(d, f, body)
	}
	parts = []part.Part{{Name: "Hub_Body", Body: body, Color: BodyColor}}
	if f.Modifier {
		parts = append(parts, part.Part{Name: "Modifier", Body: modifier(d), Color: ModifierColor})
	}
	return parts, nil
}

func d2r(degrees float64) float64 { return degrees * math.Pi / 180. }
