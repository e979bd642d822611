package lid_test

import (
	"testing"

	"github.com/soypat/sdf"
	"gonum.org/v1/gonum/spatial/r3"

	"hexhub/dims"
	"hexhub/lid"
)

func defaultDims(t *testing.T) dims.Derived {
	t.Helper()
	d, err := dims.Derive(dims.Default())
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func solid(t *testing.T, s sdf.SDF3, x, y, z float64) {
	t.Helper()
	if d := s.Evaluate(r3.Vec{X: x, Y: y, Z: z}); d >= 0 {
		t.Errorf("no material at (%g, %g, %g): d=%g", x, y, z, d)
	}
}

func empty(t *testing.T, s sdf.SDF3, x, y, z float64) {
	t.Helper()
	if d := s.Evaluate(r3.Vec{X: x, Y: y, Z: z}); d <= 0 {
		t.Errorf("unexpected material at (%g, %g, %g): d=%g", x, y, z, d)
	}
}

func TestHorizontalLid(t *testing.T) {
	p, err := lid.Horizontal(defaultDims(t))
	if err != nil {
		t.Fatal(err)
	}
	if p.Name != "Lid_Horizontal" {
		t.Fatalf("part named %q", p.Name)
	}
	if p.Color != lid.Color {
		t.Errorf("color %v, want %v", p.Color, lid.Color)
	}
	s := p.Body

	// Plate spans the flat region only.
	solid(t, s, 12, 20, 15)
	solid(t, s, 0, -13, 15)
	empty(t, s, 0, -20, 15)
	empty(t, s, 12, 20, 13.5)

	// Mounting pillar at 0 deg with its blind bore.
	solid(t, s, 41.9, 0, 8)
	empty(t, s, 40, 0, 8)

	// Pogo slot cut through the plate.
	empty(t, s, 0, 16.65, 15)

	// Magnet pocket over the north pillar; 0.4 skin left above it. The
	// probes sit dead center of pocket and skin.
	empty(t, s, 0, 33.5, 15.0)
	solid(t, s, 0, 33.5, 15.8)
}

func TestSlopedLid(t *testing.T) {
	p, err := lid.Sloped(defaultDims(t))
	if err != nil {
		t.Fatal(err)
	}
	if p.Name != "Lid_Sloped" {
		t.Fatalf("part named %q", p.Name)
	}
	s := p.Body

	// Ramp plate at y=-30: underside 11.31, top 13.11.
	solid(t, s, 0, -30, 12.2)
	empty(t, s, 0, -30, 13.5)
	empty(t, s, 0, -30, 10.9)

	// North of the pivot line the sloped lid has nothing.
	empty(t, s, 0, 0, 14.5)

	// Pillar at 300 deg rises to the ramp underside (10.49 here).
	solid(t, s, 21.9, -34.641, 6)
	empty(t, s, 20, -34.641, 6)
	empty(t, s, 26, -34.641, 3)
	solid(t, s, 21.9, -34.641, 10.1)
}

// The two lids partition the recess band at the pivot line: each point just
// off y=YNorthStart belongs to exactly one lid.
func TestLidsPartitionAtPivot(t *testing.T) {
	d := defaultDims(t)
	hor, err := lid.Horizontal(d)
	if err != nil {
		t.Fatal(err)
	}
	slo, err := lid.Sloped(d)
	if err != nil {
		t.Fatal(err)
	}

	// North side of the pivot: horizontal only.
	solid(t, hor.Body, 20, -13.0, 15)
	empty(t, slo.Body, 20, -13.0, 15)

	// South side: sloped only (plate spans 14.09..15.89 at y=-14.2).
	solid(t, slo.Body, 20, -14.2, 15)
	empty(t, hor.Body, 20, -14.2, 15)
}
