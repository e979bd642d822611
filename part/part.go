// Package part defines the printable part record shared by the builders and
// the exporters.
package part

import (
	"github.com/soypat/sdf"
	"github.com/soypat/sdf/render"
	"gonum.org/v1/gonum/spatial/r3"
)

// Part is one printable solid with a stable name and display color. Builders
// return parts in a deterministic order so exports are reproducible.
type Part struct {
	Name  string
	Body  sdf.SDF3
	Color [3]float64
}

// Mesh triangulates the part body at the given octree resolution.
func Mesh(p Part, cells int) ([]r3.Triangle, error) {
	return render.RenderAll(render.NewOctreeRenderer(p.Body, cells))
}
