// Package export triangulates built parts and writes them to the supported
// output formats: one STL per part, a colored multi-object 3MF bundle, or a
// print project archive with a manifest.
package export

import (
	"archive/zip"
	"bufio"
	"encoding/json"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/hpinc/go3mf"
	"github.com/soypat/sdf/render"
	"gonum.org/v1/gonum/spatial/r3"

	"hexhub/config"
	"hexhub/dims"
	"hexhub/part"
)

// Bundle file names inside the output directory.
const (
	bundle3MFName   = "hexhub.3mf"
	projectZipName  = "hexhub_project.zip"
	manifestName    = "manifest.json"
	projectPartsDir = "parts"
)

// Meshed pairs a part with its triangulation so the expensive surface walk
// runs once per part no matter how many formats are written.
type Meshed struct {
	part.Part
	Triangles []r3.Triangle
}

// Mesh triangulates every part with an octree of the given cell resolution.
func Mesh(parts []part.Part, cells int) ([]Meshed, error) {
	out := make([]Meshed, 0, len(parts))
	for _, p := range parts {
		tris, err := part.Mesh(p, cells)
		if err != nil {
			return nil, fmt.Errorf("mesh %s: %w", p.Name, err)
		}
		out = append(out, Meshed{Part: p, Triangles: tris})
	}
	return out, nil
}

// Write produces one output format in dir and returns the files written.
func Write(dir, format string, d dims.Set, parts []Meshed) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	switch format {
	case config.FormatSTL:
		return STL(dir, parts)
	case config.Format3MF:
		path := filepath.Join(dir, bundle3MFName)
		if err := ThreeMF(path, parts); err != nil {
			return nil, err
		}
		return []string{path}, nil
	case config.FormatProject:
		path := filepath.Join(dir, projectZipName)
		if err := Project(path, d, parts); err != nil {
			return nil, err
		}
		return []string{path}, nil
	}
	return nil, fmt.Errorf("unknown export format %q", format)
}

// STL writes one binary STL per part into dir, named after the part.
func STL(dir string, parts []Meshed) ([]string, error) {
	paths := make([]string, 0, len(parts))
	for _, p := range parts {
		path := filepath.Join(dir, p.Name+".stl")
		if err := writeSTLFile(path, p.Triangles); err != nil {
			return nil, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func writeSTLFile(path string, tris []r3.Triangle) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	err = render.WriteSTL(w, tris)
	if err == nil {
		err = w.Flush()
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err
}

// ThreeMF writes every part into a single 3MF bundle, each as its own build
// item with a one-entry base material group carrying the part color.
func ThreeMF(path string, parts []Meshed) error {
	var model go3mf.Model
	model.Units = go3mf.UnitMillimeter
	for i, p := range parts {
		matID := uint32(2*i + 1)
		objID := uint32(2*i + 2)
		model.Resources.Assets = append(model.Resources.Assets, &go3mf.BaseMaterials{
			ID:        matID,
			Materials: []go3mf.Base{{Name: p.Name, Color: rgba(p.Color)}},
		})
		model.Resources.Objects = append(model.Resources.Objects, &go3mf.Object{
			ID:   objID,
			Name: p.Name,
			PID:  matID,
			Mesh: trianglesToMesh(p.Triangles),
		})
		model.Build.Items = append(model.Build.Items, &go3mf.Item{
			ObjectID:  objID,
			Transform: go3mf.Identity(),
		})
	}
	w, err := go3mf.CreateWriter(path)
	if err != nil {
		return err
	}
	if err := w.Encode(&model); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

// trianglesToMesh converts a triangle soup to an indexed mesh. Vertices are
// welded exactly: the octree emits bit-identical coordinates for shared
// corners, so float32 equality is a sound weld key.
func trianglesToMesh(tris []r3.Triangle) *go3mf.Mesh {
	m := new(go3mf.Mesh)
	seen := make(map[go3mf.Point3D]uint32, 3*len(tris)/2)
	index := func(v r3.Vec) uint32 {
		p := go3mf.Point3D{float32(v.X), float32(v.Y), float32(v.Z)}
		if i, ok := seen[p]; ok {
			return i
		}
		i := uint32(len(m.Vertices.Vertex))
		m.Vertices.Vertex = append(m.Vertices.Vertex, p)
		seen[p] = i
		return i
	}
	for _, t := range tris {
		m.Triangles.Triangle = append(m.Triangles.Triangle, go3mf.Triangle{
			V1: index(t[0]),
			V2: index(t[1]),
			V3: index(t[2]),
		})
	}
	return m
}

func rgba(c [3]float64) color.RGBA {
	return color.RGBA{
		R: uint8(c[0]*255 + 0.5),
		G: uint8(c[1]*255 + 0.5),
		B: uint8(c[2]*255 + 0.5),
		A: 255,
	}
}

// Manifest describes a project archive: the run identity, the dimension set
// the parts were derived from and one entry per STL in the archive.
type Manifest struct {
	ID         string         `json:"id"`
	Generator  string         `json:"generator"`
	Created    time.Time      `json:"created"`
	Dimensions dims.Set       `json:"dimensions"`
	Parts      []ManifestPart `json:"parts"`
}

// ManifestPart is one archive member.
type ManifestPart struct {
	Name  string     `json:"name"`
	File  string     `json:"file"`
	Color [3]float64 `json:"color"`
}

// Project writes a zip archive holding manifest.json and one STL per part
// under parts/. The manifest records the dimension set so a print profile
// can be matched to the geometry later.
func Project(path string, d dims.Set, parts []Meshed) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	zw := zip.NewWriter(f)

	man := Manifest{
		ID:         uuid.NewString(),
		Generator:  "hexhub",
		Created:    time.Now().UTC(),
		Dimensions: d,
	}
	for _, p := range parts {
		name := projectPartsDir + "/" + p.Name + ".stl"
		w, err := zw.Create(name)
		if err == nil {
			err = render.WriteSTL(w, p.Triangles)
		}
		if err != nil {
			zw.Close()
			f.Close()
			return fmt.Errorf("archive %s: %w", name, err)
		}
		man.Parts = append(man.Parts, ManifestPart{Name: p.Name, File: name, Color: p.Color})
	}

	w, err := zw.Create(manifestName)
	if err == nil {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		err = enc.Encode(man)
	}
	if err == nil {
		err = zw.Close()
	} else {
		zw.Close()
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err
}
