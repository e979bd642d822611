// Package assembly sequences the configured variants into printable parts.
// It expands each variant into hub, lid and accessory builds, derives
// adjacency-driven features for honeycomb grids, applies the USB collision
// policy, and fuses multi-hub assemblies into single bodies.
package assembly

import (
	"fmt"
	"log/slog"

	"github.com/soypat/sdf"
	"gonum.org/v1/gonum/spatial/r3"

	"hexhub/accessory"
	"hexhub/config"
	"hexhub/dims"
	"hexhub/hex"
	"hexhub/hub"
	"hexhub/lid"
	"hexhub/part"
)

// Result is the outcome of one run: the parts of every variant that built
// and the names of those that did not.
type Result struct {
	Parts  []part.Part
	Failed []string
}

// Run derives the dimension set once and builds every configured variant in
// order. A failing variant is logged and skipped; the run continues with the
// next one (best-effort batch). Only an unusable dimension set aborts the
// whole run.
func Run(cfg *config.Config, log *slog.Logger) (*Result, error) {
	d, err := dims.Derive(cfg.Dimensions)
	if err != nil {
		return nil, err
	}
	res := &Result{}
	for _, v := range cfg.Variants {
		parts, err := Build(d, v, log)
		if err != nil {
			log.Error("variant failed", "variant", v.Name, "err", err)
			res.Failed = append(res.Failed, v.Name)
			continue
		}
		log.Info("variant built", "variant", v.Name, "parts", len(parts))
		res.Parts = append(res.Parts, parts...)
	}
	return res, nil
}

// Build produces the parts of one variant, each name prefixed with the
// variant name. Geometry kernel panics surface as errors.
func Build(d dims.Derived, v config.Variant, log *slog.Logger) (parts []part.Part, err error) {
	defer func() {
		if r := recover(); r != nil {
			parts = nil
			err = fmt.Errorf("variant %s: %v", v.Name, r)
		}
	}()
	switch v.Kind {
	case config.KindHoneycomb:
		parts, err = buildHoneycomb(d, v, log)
	case config.KindHub:
		parts, err = buildHub(d, v, log)
	case config.KindLids:
		parts, err = buildLids(d)
	case config.KindAccessories:
		parts, err = buildAccessories()
	default:
		return nil, fmt.Errorf("variant %s: unknown kind %q", v.Name, v.Kind)
	}
	if err != nil {
		return nil, fmt.Errorf("variant %s: %w", v.Name, err)
	}
	for i := range parts {
		parts[i].Name = v.Name + "_" + parts[i].Name
	}
	return parts, nil
}

// buildHoneycomb builds one hub per slot, translates each to its grid
// position and fuses the bodies into a single part. Per-slot modifier
// volumes are positioned identically and fused into a second part.
func buildHoneycomb(d dims.Derived, v config.Variant, log *slog.Logger) ([]part.Part, error) {
	layout := hex.NewLayout(d.OuterFlatToFlat, d.RimGap, v.Shift())
	slots := make([]hex.Slot, len(v.Slots))
	for i, s := range v.Slots {
		slots[i] = hex.Slot{ID: s.ID, Col: s.Col, Row: s.Row}
	}
	neighbors, err := layout.Neighbors(slots)
	if err != nil {
		return nil, err
	}

	table := featureTable(v.HubType)
	var bodies, modifiers []sdf.SDF3
	for i, s := range v.Slots {
		f, err := slotFeatures(s, table, neighbors[s.ID], log.With("variant", v.Name, "slot", s.ID))
		if err != nil {
			return nil, err
		}
		built, err := hub.Build(d, f)
		if err != nil {
			return nil, fmt.Errorf("slot %s: %w", s.ID, err)
		}
		at := layout.Position(slots[i])
		move := sdf.Translate3d(r3.Vec{X: at.X, Y: at.Y})
		for _, p := range built {
			switch p.Name {
			case "Hub_Body":
				bodies = append(bodies, sdf.Transform3D(p.Body, move))
			case "Modifier":
				modifiers = append(modifiers, sdf.Transform3D(p.Body, move))
			}
		}
	}

	parts := []part.Part{{Name: "Hub_Body", Body: fuse(bodies), Color: hub.BodyColor}}
	if len(modifiers) > 0 {
		parts = append(parts, part.Part{Name: "Modifier", Body: fuse(modifiers), Color: hub.ModifierColor})
	}
	return parts, nil
}

// fuse unions the translated bodies into one solid.
func fuse(bodies []sdf.SDF3) sdf.SDF3 {
	if len(bodies) == 1 {
		return bodies[0]
	}
	return sdf.Union3D(bodies...)
}

func buildHub(d dims.Derived, v config.Variant, log *slog.Logger) ([]part.Part, error) {
	f, err := hubFeatures(v.Features, log.With("variant", v.Name))
	if err != nil {
		return nil, err
	}
	return hub.Build(d, f)
}

func buildLids(d dims.Derived) ([]part.Part, error) {
	h, err := lid.Horizontal(d)
	if err != nil {
		return nil, err
	}
	s, err := lid.Sloped(d)
	if err != nil {
		return nil, err
	}
	return []part.Part{h, s}, nil
}

func buildAccessories() ([]part.Part, error) {
	builders := []func() (part.Part, error){
		func() (part.Part, error) { return accessory.TileFloor(accessory.DefaultTileFloor()) },
		func() (part.Part, error) { return accessory.TileTray(accessory.DefaultTileTray()) },
		accessory.PogoAdapter,
		accessory.BoardSpacer,
	}
	parts := make([]part.Part, 0, len(builders))
	for _, build := range builders {
		p, err := build()
		if err != nil {
			return nil, err
		}
		parts = append(parts, p)
	}
	return parts, nil
}
