package dims_test

import (
	"math"
	"testing"

	"hexhub/dims"
)

func TestDeriveDefaults(t *testing.T) {
	d, err := dims.Derive(dims.Default())
	if err != nil {
		t.Fatal(err)
	}
	if d.InnerFlatToFlat != 80.4 {
		t.Errorf("inner flat-to-flat: got %g, want 80.4", d.InnerFlatToFlat)
	}
	if d.ZTop != 16.0 {
		t.Errorf("z top: got %g, want 16", d.ZTop)
	}
	wantDrop := 29.0 * math.Tan(10*math.Pi/180)
	if math.Abs(d.SlopeDrop-wantDrop) > 1e-12 {
		t.Errorf("slope drop: got %g, want %g", d.SlopeDrop, wantDrop)
	}
	if math.Abs(d.ZSouth-(16.0-wantDrop)) > 1e-12 {
		t.Errorf("z south: got %g", d.ZSouth)
	}
	if d.YSouth != -42.6 {
		t.Errorf("y south: got %g, want -42.6", d.YSouth)
	}
	if math.Abs(d.YNorthStart-(-13.6)) > 1e-12 {
		t.Errorf("y north start: got %g, want -13.6", d.YNorthStart)
	}
	if math.Abs(d.LidFlatToFlat-82.2) > 1e-12 {
		t.Errorf("lid flat-to-flat: got %g, want 82.2", d.LidFlatToFlat)
	}
	if math.Abs(d.OuterRadius*math.Cos(math.Pi/6)-d.OuterApothem) > 1e-12 {
		t.Error("outer radius and apothem disagree")
	}
}

func TestSlopePlane(t *testing.T) {
	d, err := dims.Derive(dims.Default())
	if err != nil {
		t.Fatal(err)
	}
	p := d.Slope
	if p.ZAt(d.YNorthStart) != d.ZTop {
		t.Errorf("pivot height: got %g, want %g", p.ZAt(d.YNorthStart), d.ZTop)
	}
	if p.ZAt(0) != d.ZTop {
		t.Error("surface must stay flat north of the pivot")
	}
	if math.Abs(p.ZAt(d.YSouth)-d.ZSouth) > 1e-12 {
		t.Errorf("south edge: got %g, want %g", p.ZAt(d.YSouth), d.ZSouth)
	}
	mid := d.YNorthStart - d.SlopeLength/2
	if math.Abs(p.ZAt(mid)-(d.ZTop+d.ZSouth)/2) > 1e-12 {
		t.Error("slope is not linear in y")
	}
	low := p.Lowered(1.8)
	if math.Abs(low.ZAt(d.YSouth)-(d.ZSouth-1.8)) > 1e-12 {
		t.Error("lowered plane must track 1.8 below")
	}
}

func TestConnectorOffsets(t *testing.T) {
	d, err := dims.Derive(dims.Default())
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(d.ConnectorM-38.6) > 1e-12 {
		t.Errorf("male offset M: got %g, want 38.6", d.ConnectorM)
	}
	// F = 2*apothem + rim gap - M
	if math.Abs(d.ConnectorMateF-47.6) > 1e-12 {
		t.Errorf("mate offset F: got %g, want 47.6", d.ConnectorMateF)
	}
	// Shifting the male inward moves the landed pin outward on the mate.
	s := dims.Default()
	s.ConnectorInset = 6.0
	d2, err := dims.Derive(s)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs((d2.ConnectorM+d2.ConnectorMateF)-(2*d2.OuterApothem+d2.RimGap)) > 1e-12 {
		t.Error("M + F must equal the grid pitch")
	}
}

func TestValidateRejects(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*dims.Set)
	}{
		{"zero width", func(s *dims.Set) { s.OuterFlatToFlat = 0 }},
		{"negative wall", func(s *dims.Set) { s.WallThickness = -1 }},
		{"walls meet", func(s *dims.Set) { s.WallThickness = 50 }},
		{"flat slope", func(s *dims.Set) { s.SlopeAngleDeg = 0 }},
		{"slope too long", func(s *dims.Set) { s.SlopeLength = 100 }},
		{"clearance eats recess", func(s *dims.Set) { s.LidClearance = 2.5 }},
		{"lid thicker than wall", func(s *dims.Set) { s.LidThickness = 20 }},
		{"slope below floor", func(s *dims.Set) { s.SlopeAngleDeg = 5 }},
	}
	for _, tc := range cases {
		s := dims.Default()
		tc.mutate(&s)
		if _, err := dims.Derive(s); err == nil {
			t.Errorf("%s: Derive accepted an unsolvable set", tc.name)
		}
	}
}
