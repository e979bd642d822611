package accessory_test

import (
	"testing"

	"github.com/soypat/sdf"
	"gonum.org/v1/gonum/spatial/r3"

	"hexhub/accessory"
)

// solid and empty probe the signed distance field at points at least 0.3mm
// clear of any designed surface, where the sign is unambiguous.
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

func TestTileFloor(t *testing.T) {
	pt, err := accessory.TileFloor(accessory.DefaultTileFloor())
	if err != nil {
		t.Fatal(err)
	}
	if pt.Name != "Tile_Floor" {
		t.Fatalf("part named %q", pt.Name)
	}
	if pt.Color != accessory.GrayColor {
		t.Fatalf("part color %v", pt.Color)
	}
	s := pt.Body

	// Plate clear of all features.
	solid(t, s, 20, 0, 1.1)

	// Magnet pockets: central and one of the ring at 30deg on r33.5. The
	// floor skin under the pocket is 0.4 thick, so its probe sits 0.2
	// from both faces.
	empty(t, s, 0, 0, 1.5)
	solid(t, s, 0, 0, 0.2)
	empty(t, s, 29.012, 16.75, 1.5)

	// Through slot at 90deg runs radially from 7.7 to 25.6.
	empty(t, s, 0, 16.65, 1.1)
	solid(t, s, 4.0, 16.65, 1.1)

	// Post at 0deg carries the compensated through hole with its bottom
	// chamfer, post at 60deg the nominal blind bore.
	solid(t, s, 37.0, 0, 3.0)
	empty(t, s, 35, 0, 3.0)
	empty(t, s, 36.5, 0, 0.3)
	solid(t, s, 19.2, 30.311, 3.0)
	empty(t, s, 17.5, 30.311, 2.0)
	solid(t, s, 17.5, 30.311, 0.2)
}

func TestTileTray(t *testing.T) {
	pt, err := accessory.TileTray(accessory.DefaultTileTray())
	if err != nil {
		t.Fatal(err)
	}
	if pt.Name != "Tile_Tray" {
		t.Fatalf("part named %q", pt.Name)
	}
	s := pt.Body

	// First tray: slot cavity, wall beside it, and the 1mm floor skin
	// between slot and base cut. Probes are profile points (x, y, z)
	// pushed through the -20deg tilt and the drop onto the plate.
	empty(t, s, 0, 3.420, 11.801)
	solid(t, s, 35, 3.420, 11.801)
	solid(t, s, 0, 0.684, 4.283)

	// Second tray sits one pitch/cos(tilt) step along Y.
	empty(t, s, 0, 37.474, 11.801)

	// Base plate, and open air past the tray's outer wall.
	solid(t, s, 45, 0, 1.5)
	empty(t, s, 45, 3.420, 5.0)
}

func TestTileTrayCount(t *testing.T) {
	p := accessory.DefaultTileTray()
	p.Count = 0
	if _, err := accessory.TileTray(p); err == nil {
		t.Fatal("expected error for zero trays")
	}
	p.Count = 1
	pt, err := accessory.TileTray(p)
	if err != nil {
		t.Fatal(err)
	}
	empty(t, pt.Body, 0, 3.420, 11.801)
	solid(t, pt.Body, 35, 3.420, 11.801)
}

func TestPogoAdapter(t *testing.T) {
	pt, err := accessory.PogoAdapter()
	if err != nil {
		t.Fatal(err)
	}
	if pt.Name != "Pogo_Adapter" {
		t.Fatalf("part named %q", pt.Name)
	}
	if pt.Color != accessory.YellowColor {
		t.Fatalf("part color %v", pt.Color)
	}
	s := pt.Body

	// Plate with countersunk screw holes at two opposite corners.
	solid(t, s, -8.5, 0, 0.4)
	empty(t, s, -6, -7.5, 0.4)
	empty(t, s, 5, 7.5, 0.4)
	solid(t, s, -8.6, -7.5, 0.4)

	// Pin block above the plate, pin bores through both.
	solid(t, s, 1.5, 2.54, 3.0)
	solid(t, s, 0, 0, 3.0)
	empty(t, s, 4.5, 0, 3.0)
	empty(t, s, 0, 1.27, 3.0)
	empty(t, s, 0, -6.35, 0.4)
}

func TestBoardSpacer(t *testing.T) {
	pt, err := accessory.BoardSpacer()
	if err != nil {
		t.Fatal(err)
	}
	if pt.Name != "Board_Spacer" {
		t.Fatalf("part named %q", pt.Name)
	}
	s := pt.Body

	solid(t, s, 2.54, 1.5, 1.5)
	solid(t, s, 8.5, 0, 1.5)
	empty(t, s, 6.35, 0, 1.5)
	empty(t, s, -6.35, 0, 1.5)
	empty(t, s, 0, 0, 3.5)
}
