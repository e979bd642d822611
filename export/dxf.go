package export

import (
	"fmt"

	"github.com/yofu/dxf"

	"hexhub/hex"
)

// Drilling template measures (mm).
const (
	dxfDrillRadius = 1.6
	dxfLabelHeight = 8.0
	dxfLabelOffset = 4.0
)

// LayoutDXF writes a mounting template for a honeycomb layout: each slot's
// hexagon outline, a pilot drill mark at its center and the slot ID as a
// label, on separate layers.
func LayoutDXF(path string, l hex.Layout, slots []hex.Slot, flatToFlat float64) error {
	d := dxf.NewDrawing()

	if _, err := d.AddLayer("OUTLINE", dxf.DefaultColor, dxf.DefaultLineType, true); err != nil {
		return err
	}
	for _, s := range slots {
		at := l.Position(s)
		for i := 0; i < 6; i++ {
			a := hex.Vertex(flatToFlat, i)
			b := hex.Vertex(flatToFlat, (i+1)%6)
			_, err := d.Line(at.X+a.X, at.Y+a.Y, 0, at.X+b.X, at.Y+b.Y, 0)
			if err != nil {
				return fmt.Errorf("outline %s: %w", s.ID, err)
			}
		}
	}

	if _, err := d.AddLayer("DRILL", dxf.DefaultColor, dxf.DefaultLineType, true); err != nil {
		return err
	}
	for _, s := range slots {
		at := l.Position(s)
		if _, err := d.Circle(at.X, at.Y, 0, dxfDrillRadius); err != nil {
			return fmt.Errorf("drill %s: %w", s.ID, err)
		}
	}

	if _, err := d.AddLayer("LABELS", dxf.DefaultColor, dxf.DefaultLineType, true); err != nil {
		return err
	}
	for _, s := range slots {
		at := l.Position(s)
		if _, err := d.Text(s.ID, at.X+dxfLabelOffset, at.Y+dxfLabelOffset, 0, dxfLabelHeight); err != nil {
			return fmt.Errorf("label %s: %w", s.ID, err)
		}
	}
	return d.SaveAs(path)
}
