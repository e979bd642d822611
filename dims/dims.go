// Package dims holds the configurable dimension set of the hub family and
// derives every constructed measure from it. All geometry reads Derived;
// nothing re-derives slope or hexagon math on its own.
package dims

import (
	"fmt"
	"math"

	"hexhub/hex"
)

// Set is the configurable dimension set, in millimeters. The zero value is
// not usable; start from Default.
type Set struct {
	OuterFlatToFlat   float64 `json:"outer_flat_to_flat_mm" yaml:"outer_flat_to_flat_mm"`
	WallThickness     float64 `json:"wall_thickness_mm" yaml:"wall_thickness_mm"`
	FloorHeight       float64 `json:"floor_height_mm" yaml:"floor_height_mm"`
	WallHeight        float64 `json:"wall_height_mm" yaml:"wall_height_mm"`
	SlopeLength       float64 `json:"slope_length_mm" yaml:"slope_length_mm"`
	SlopeAngleDeg     float64 `json:"slope_angle_deg" yaml:"slope_angle_deg"`
	MagnetMountRadius float64 `json:"magnet_mounting_radius_mm" yaml:"magnet_mounting_radius_mm"`
	PillarMountRadius float64 `json:"pillar_mounting_radius_mm" yaml:"pillar_mounting_radius_mm"`
	RimGap            float64 `json:"rim_gap_mm" yaml:"rim_gap_mm"`
	LidRecessWidth    float64 `json:"lid_recess_width_mm" yaml:"lid_recess_width_mm"`
	LidClearance      float64 `json:"lid_clearance_mm" yaml:"lid_clearance_mm"`
	LidThickness      float64 `json:"lid_thickness_mm" yaml:"lid_thickness_mm"`
	ConnectorInset    float64 `json:"connector_inset_mm" yaml:"connector_inset_mm"`
}

// Default returns the production dimension set.
func Default() Set {
	return Set{
		OuterFlatToFlat:   85.2,
		WallThickness:     2.4,
		FloorHeight:       2.0,
		WallHeight:        14.0,
		SlopeLength:       29.0,
		SlopeAngleDeg:     80.0,
		MagnetMountRadius: 33.5,
		PillarMountRadius: 40.0,
		RimGap:            1.0,
		LidRecessWidth:    1.0,
		LidClearance:      0.2,
		LidThickness:      1.8,
		ConnectorInset:    4.0,
	}
}

// Validate reports the first dimension that cannot produce a solvable hub.
func (s Set) Validate() error {
	positive := []struct {
		name string
		v    float64
	}{
		{"outer_flat_to_flat_mm", s.OuterFlatToFlat},
		{"wall_thickness_mm", s.WallThickness},
		{"floor_height_mm", s.FloorHeight},
		{"wall_height_mm", s.WallHeight},
		{"slope_length_mm", s.SlopeLength},
		{"magnet_mounting_radius_mm", s.MagnetMountRadius},
		{"pillar_mounting_radius_mm", s.PillarMountRadius},
		{"rim_gap_mm", s.RimGap},
		{"lid_recess_width_mm", s.LidRecessWidth},
		{"lid_thickness_mm", s.LidThickness},
	}
	for _, p := range positive {
		if p.v <= 0 {
			return fmt.Errorf("dims: %s must be positive, got %g", p.name, p.v)
		}
	}
	if s.WallThickness*2 >= s.OuterFlatToFlat {
		return fmt.Errorf("dims: walls meet in the middle: 2*%g >= %g", s.WallThickness, s.OuterFlatToFlat)
	}
	if s.SlopeAngleDeg <= 0 || s.SlopeAngleDeg > 90 {
		return fmt.Errorf("dims: slope_angle_deg must be in (0, 90], got %g", s.SlopeAngleDeg)
	}
	if s.SlopeLength >= s.OuterFlatToFlat {
		return fmt.Errorf("dims: slope_length_mm %g exceeds the hexagon depth %g", s.SlopeLength, s.OuterFlatToFlat)
	}
	if s.LidClearance < 0 || s.LidClearance >= 2*s.LidRecessWidth {
		return fmt.Errorf("dims: lid_clearance_mm %g leaves no lid bearing surface", s.LidClearance)
	}
	if s.LidThickness >= s.WallHeight {
		return fmt.Errorf("dims: lid_thickness_mm %g exceeds wall height %g", s.LidThickness, s.WallHeight)
	}
	if s.ConnectorInset < 0 {
		return fmt.Errorf("dims: connector_inset_mm must not be negative, got %g", s.ConnectorInset)
	}
	drop := s.SlopeLength * math.Tan((90-s.SlopeAngleDeg)*math.Pi/180)
	if drop >= s.WallHeight {
		return fmt.Errorf("dims: slope drops %.2f, below the floor line", drop)
	}
	return nil
}

// Derived carries every constructed measure. Produced only by Derive.
type Derived struct {
	Set

	InnerFlatToFlat float64
	OuterApothem    float64
	InnerApothem    float64
	OuterRadius     float64
	InnerRadius     float64

	// Z heights and slope, hub coordinates: floor bottom at z=0.
	ZTop        float64 // top of the unsloped wall
	SlopeDrop   float64 // height lost over the slope run
	ZSouth      float64 // wall top at the south face
	YSouth      float64 // outer south wall plane
	YNorthStart float64 // where the top surface starts sloping
	Slope       Plane

	// Lid measures.
	RecessFlatToFlat float64 // recess ring outer width
	LidFlatToFlat    float64 // recess minus print clearance

	// Flat-face connector placement: the male base sits ConnectorM north of
	// its hub center; a pin landed across the rim gap sits ConnectorMateF
	// south of the mating hub's center.
	ConnectorM     float64
	ConnectorMateF float64
}

// Derive validates s and computes the full measure set.
func Derive(s Set) (Derived, error) {
	if err := s.Validate(); err != nil {
		return Derived{}, err
	}
	d := Derived{Set: s}
	d.InnerFlatToFlat = s.OuterFlatToFlat - 2*s.WallThickness
	d.OuterApothem = hex.Apothem(s.OuterFlatToFlat)
	d.InnerApothem = hex.Apothem(d.InnerFlatToFlat)
	d.OuterRadius = hex.Circumradius(s.OuterFlatToFlat)
	d.InnerRadius = hex.Circumradius(d.InnerFlatToFlat)

	d.ZTop = s.FloorHeight + s.WallHeight
	d.SlopeDrop = s.SlopeLength * math.Tan((90-s.SlopeAngleDeg)*math.Pi/180)
	d.ZSouth = d.ZTop - d.SlopeDrop
	d.YSouth = -s.OuterFlatToFlat / 2
	d.YNorthStart = d.YSouth + s.SlopeLength
	d.Slope = Plane{
		PivotY: d.YNorthStart,
		PivotZ: d.ZTop,
		Rate:   d.SlopeDrop / s.SlopeLength,
	}

	d.RecessFlatToFlat = d.InnerFlatToFlat + 2*s.LidRecessWidth
	d.LidFlatToFlat = d.RecessFlatToFlat - s.LidClearance

	d.ConnectorM = d.OuterApothem - s.ConnectorInset
	d.ConnectorMateF = 2*d.OuterApothem + s.RimGap - d.ConnectorM
	return d, nil
}
