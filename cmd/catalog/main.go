// Command catalog renders preview images for every STL in an output
// directory and writes a markdown part catalog next to them. Run hexhub
// build first to produce the STL files.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	"github.com/fogleman/fauxgl"
	"github.com/nfnt/resize"
	"gonum.org/v1/gonum/spatial/r3"
)

const (
	// Scale down images relative to Full HD resolution.
	FHDscaler     = 0.4
	width, height = int(1920. * FHDscaler), int(1080. * FHDscaler) // output width and height in pixels
	figFolder     = "fig"
	catalogName   = "CATALOG.md"
)

var dirFlag = flag.String("dir", "output", "directory holding the built STL files")

type entry struct {
	Name string
	PNG  string
	Size string
}

type catalogData struct {
	Dir   string
	Date  string
	Parts []entry
}

const catalogTmpl = `# Part catalog

Previews of the parts in ` + "`{{.Dir}}`" + `, generated {{.Date}}.

| Part | Preview | STL size |
| --- | --- | --- |
{{range .Parts}}| {{.Name}} | ![{{.Name}}]({{.PNG}}) | {{.Size}} |
{{end}}`

func main() {
	flag.Parse()
	dir := *dirFlag

	stls, err := filepath.Glob(filepath.Join(dir, "*.stl"))
	if err != nil {
		log.Fatal(err)
	}
	if len(stls) == 0 {
		log.Fatalf("no STL files in %s; run `hexhub build` first", dir)
	}

	os.Mkdir(filepath.Join(dir, figFolder), 0777)
	entries := make([]entry, 0, len(stls))
	for _, stl := range stls {
		name := strings.TrimSuffix(filepath.Base(stl), ".stl")
		pngName := name + ".png"
		pngPath := filepath.Join(dir, figFolder, pngName)
		_, err := os.Stat(pngPath)
		if os.IsNotExist(err) {
			// if image has not yet been generated, generate it.
			if err := stlToPNG(stl, pngPath, defaultView); err != nil {
				log.Fatal(err)
			}
		} else if err != nil {
			log.Fatal(err)
		}
		entries = append(entries, entry{
			Name: name,
			PNG:  figFolder + "/" + pngName,
			Size: getHumanSize(stl),
		})
	}

	out, err := os.Create(filepath.Join(dir, catalogName))
	if err != nil {
		log.Fatal(err)
	}
	data := catalogData{Dir: dir, Date: time.Now().Format("2006-01-02"), Parts: entries}
	if err := template.Must(template.New("catalog").Parse(catalogTmpl)).Execute(out, data); err != nil {
		log.Fatal(err)
	}
	if err := out.Close(); err != nil {
		log.Fatal(err)
	}
	log.Printf("catalog written: %d parts", len(entries))
}

var defaultView = viewConfig{
	up:     r3.Vec{Z: 1},
	eyepos: r3.Vec{X: 2.4, Y: 2.4, Z: 2.4}, // iso view.
	near:   1,
	far:    10,
}

func stlToPNG(stlName, outputname string, view viewConfig) error {
	mesh, err := fauxgl.LoadSTL(stlName)
	if err != nil {
		return err
	}
	const (
		scale = 1  // optional supersampling
		fovy  = 30 // vertical field of view in degrees
	)

	var (
		far    = view.far
		near   = view.near
		eye    = fauxgl.V(view.eyepos.X, view.eyepos.Y, view.eyepos.Z) // camera position
		center = fauxgl.V(view.lookat.X, view.lookat.Y, view.lookat.Z) // view center position
		up     = fauxgl.V(view.up.X, view.up.Y, view.up.Z)             // up vector
		light  = fauxgl.V(-0.75, 1, 0.25).Normalize()                  // light direction
		color  = fauxgl.HexColor("#468966")                            // object color
	)

	// fit mesh in a bi-unit cube centered at the origin
	mesh.BiUnitCube()
	// create a rendering context
	context := fauxgl.NewContext(width*scale, height*scale)
	context.ClearColorBufferWith(fauxgl.HexColor("#FFF8E3"))
	// create transformation matrix and light direction
	aspect := float64(width) / float64(height)
	matrix := fauxgl.LookAt(eye, center, up).Perspective(fovy, aspect, near, far)
	// use builtin phong shader
	shader := fauxgl.NewPhongShader(matrix, light, eye)
	shader.ObjectColor = color
	context.Shader = shader
	// render
	context.DrawMesh(mesh)
	// downsample image for antialiasing
	image := context.Image()
	image = resize.Resize(uint(width), uint(height), image, resize.Bilinear)
	return fauxgl.SavePNG(outputname, image)
}

type viewConfig struct {
	// what position (point) to look at
	lookat r3.Vec
	// which way is up (direction)
	up r3.Vec
	// where the camera/eye located at (point)
	eyepos r3.Vec
	far    float64
	near   float64
}

func getHumanSize(fileName string) (size string) {
	const (
		kB = 1000
		MB = 1000 * kB
		GB = 1000 * MB
	)
	info, err := os.Stat(fileName)
	if err != nil {
		log.Fatal(err)
	}
	bytes := info.Size()
	switch {
	case bytes < 10*kB:
		size = fmt.Sprintf("%dB", bytes)
	case bytes < 10*MB:
		size = fmt.Sprintf("%dkB", bytes/kB)
	case bytes < 10*GB:
		size = fmt.Sprintf("%dMB", bytes/MB)
	default:
		size = fmt.Sprintf("%dGB", bytes/GB)
	}
	return size
}
