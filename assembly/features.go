package assembly

import (
	"fmt"
	"log/slog"
	"strings"

	"hexhub/config"
	"hexhub/hex"
	"hexhub/hub"
)

// slotTable is a built-in per-slot feature assignment for a honeycomb hub
// type: which slot carries the controller mounts, which the USB cutout, and
// which corner faces carry mating rails toward the middle column.
type slotTable struct {
	controller string
	usb        string
	corners    map[string][]hex.Side
}

// The production tables. Corner rails pair across the two diagonal
// adjacencies of the middle column: NE/NW rails are male and mate the SW/SE
// females on the diagonal partner.
var (
	typeATable = slotTable{
		controller: "slot2",
		usb:        "slot3",
		corners: map[string][]hex.Side{
			"slot5": {hex.NorthEast, hex.NorthWest},
			"slot1": {hex.SouthEast},
			"slot3": {hex.SouthWest},
		},
	}
	typeBTable = slotTable{
		controller: "slot5",
		usb:        "slot3",
		corners: map[string][]hex.Side{
			"slot4": {hex.NorthEast},
			"slot6": {hex.NorthWest},
			"slot2": {hex.SouthEast, hex.SouthWest},
		},
	}
)

func featureTable(hubType string) *slotTable {
	switch hubType {
	case "A":
		return &typeATable
	case "B":
		return &typeBTable
	}
	return nil
}

// cornerKind returns the fixed mating role of a corner face: the north
// corners carry male rails, the south corners female housings.
func cornerKind(s hex.Side) hub.ConnectorKind {
	if s == hex.NorthEast || s == hex.NorthWest {
		return hub.Male
	}
	return hub.Female
}

// slotFeatures assembles the feature set for one honeycomb slot: the
// standard kit, the hub-type table entry (or its per-slot override), the
// common north-male/south-female rails filtered to faces that actually have
// a neighbor, the USB collision policy, and cable channels on every face
// left open.
func slotFeatures(s config.Slot, table *slotTable, occupied []hex.Side, log *slog.Logger) (hub.Features, error) {
	f := hub.StandardKit()

	conns := map[hex.Side]hub.ConnectorKind{
		hex.North: hub.Male,
		hex.South: hub.Female,
	}
	if table != nil {
		if table.controller == s.ID {
			f.ControllerMounts = true
		}
		if table.usb == s.ID {
			f.USB = &hub.USBConfig{Angle: 0}
		}
		for _, side := range table.corners[s.ID] {
			conns[side] = cornerKind(side)
		}
	}

	if s.Features != nil {
		f.ControllerMounts = s.Features.ControllerMounts
		f.USB = usbConfig(s.Features.USB)
		magnets, err := parseMagnets(s.Features.Magnets)
		if err != nil {
			return hub.Features{}, fmt.Errorf("slot %s: %w", s.ID, err)
		}
		f.Magnets = magnets
		if len(s.Features.Connectors) > 0 {
			conns, err = parseConnectors(s.Features.Connectors)
			if err != nil {
				return hub.Features{}, fmt.Errorf("slot %s: %w", s.ID, err)
			}
		}
	}

	// Rails land only where a neighbor can mate them.
	for _, side := range hex.Sides() {
		if _, ok := conns[side]; ok && !hasSide(occupied, side) {
			delete(conns, side)
		}
	}
	f.Connectors = conns

	applyCollisionPolicy(&f, log)
	f.OpenSides = channelSides(hex.Open(occupied), f)
	return f, nil
}

// hubFeatures assembles a standalone hub: the standard kit plus whatever the
// config enables. With no grid there is no adjacency, so connectors and open
// sides come straight from the config.
func hubFeatures(c *config.Features, log *slog.Logger) (hub.Features, error) {
	f := hub.StandardKit()
	if c == nil {
		return f, nil
	}
	f.ControllerMounts = c.ControllerMounts
	f.USB = usbConfig(c.USB)

	conns, err := parseConnectors(c.Connectors)
	if err != nil {
		return hub.Features{}, err
	}
	f.Connectors = conns
	f.Magnets, err = parseMagnets(c.Magnets)
	if err != nil {
		return hub.Features{}, err
	}

	applyCollisionPolicy(&f, log)

	open, err := parseSides(c.OpenSides)
	if err != nil {
		return hub.Features{}, err
	}
	f.OpenSides = channelSides(open, f)
	return f, nil
}

// applyCollisionPolicy drops magnet pockets from the wall the USB cutout
// claims. The removal is deterministic policy, not an error.
func applyCollisionPolicy(f *hub.Features, log *slog.Logger) {
	if f.USB == nil || len(f.Magnets) == 0 {
		return
	}
	side, ok := f.USB.Side()
	if !ok {
		return // unsupported angles surface in hub.Build
	}
	if _, claimed := f.Magnets[side]; claimed {
		delete(f.Magnets, side)
		log.Debug("dropped magnet pockets from usb wall", "side", side.String())
	}
}

// channelSides filters the candidate channel faces: a face holding a mating
// rail or the USB opening keeps its wall intact.
func channelSides(candidates []hex.Side, f hub.Features) []hex.Side {
	usbSide := hex.Side(-1)
	if f.USB != nil {
		if s, ok := f.USB.Side(); ok {
			usbSide = s
		}
	}
	var open []hex.Side
	for _, s := range candidates {
		if _, rail := f.Connectors[s]; rail || s == usbSide {
			continue
		}
		open = append(open, s)
	}
	return open
}

func usbConfig(u *config.USB) *hub.USBConfig {
	if u == nil || !u.Enabled {
		return nil
	}
	return &hub.USBConfig{Angle: u.Angle}
}

func parseSides(names []string) ([]hex.Side, error) {
	sides := make([]hex.Side, 0, len(names))
	for _, n := range names {
		s, ok := hex.ParseSide(n)
		if !ok {
			return nil, fmt.Errorf("unknown side %q", n)
		}
		sides = append(sides, s)
	}
	return sides, nil
}

func parseConnectors(connectors []config.Connector) (map[hex.Side]hub.ConnectorKind, error) {
	if len(connectors) == 0 {
		return nil, nil
	}
	m := make(map[hex.Side]hub.ConnectorKind, len(connectors))
	for _, c := range connectors {
		side, ok := hex.ParseSide(c.Side)
		if !ok {
			return nil, fmt.Errorf("unknown connector side %q", c.Side)
		}
		switch strings.ToLower(c.Kind) {
		case "male":
			m[side] = hub.Male
		case "female":
			m[side] = hub.Female
		default:
			return nil, fmt.Errorf("unknown connector kind %q", c.Kind)
		}
	}
	return m, nil
}

func parseMagnets(magnets []config.Magnet) (map[hex.Side][]hub.MagnetPos, error) {
	if len(magnets) == 0 {
		return nil, nil
	}
	m := make(map[hex.Side][]hub.MagnetPos, len(magnets))
	for _, mag := range magnets {
		side, ok := hex.ParseSide(mag.Side)
		if !ok {
			return nil, fmt.Errorf("unknown magnet side %q", mag.Side)
		}
		for _, p := range mag.Positions {
			switch strings.ToLower(p) {
			case "left":
				m[side] = append(m[side], hub.MagnetLeft)
			case "right":
				m[side] = append(m[side], hub.MagnetRight)
			default:
				return nil, fmt.Errorf("unknown magnet position %q", p)
			}
		}
	}
	return m, nil
}

func hasSide(sides []hex.Side, s hex.Side) bool {
	for _, o := range sides {
		if o == s {
			return true
		}
	}
	return false
}
