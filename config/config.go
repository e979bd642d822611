// Package config provides run configuration for the hexhub suite: the shared
// dimension set, the list of build variants and the output settings.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"hexhub/dims"
	"hexhub/hex"
)

// Variant kinds.
const (
	KindHub         = "hub"
	KindHoneycomb   = "honeycomb"
	KindLids        = "lids"
	KindAccessories = "accessories"
)

// Export formats.
const (
	FormatSTL     = "stl"
	Format3MF     = "3mf"
	FormatProject = "project"
)

// Config is the complete run configuration.
type Config struct {
	// Dimensions is the base dimension set shared by every variant.
	Dimensions dims.Set `json:"dimensions" yaml:"dimensions"`
	// Variants are built in order; each contributes its parts to the run.
	Variants []Variant `json:"variants" yaml:"variants"`
	Output   Output    `json:"output" yaml:"output"`
}

// Variant is one configured build.
type Variant struct {
	// Name prefixes every part the variant produces.
	Name string `json:"name" yaml:"name"`
	// Kind selects the pipeline: hub, honeycomb, lids or accessories.
	Kind string `json:"kind" yaml:"kind"`
	// HubType selects the built-in per-slot feature table of a honeycomb:
	// "A" or "B". Empty means no table; slots carry their own features.
	HubType string `json:"hub_type,omitempty" yaml:"hub_type,omitempty"`
	// ShiftDir overrides the honeycomb topology: +1 raises the middle
	// column half a pitch, -1 lowers it. 0 derives it from HubType.
	ShiftDir int `json:"shift_dir,omitempty" yaml:"shift_dir,omitempty"`
	// Slots is the honeycomb grid.
	Slots []Slot `json:"slots,omitempty" yaml:"slots,omitempty"`
	// Features configures a single-hub variant.
	Features *Features `json:"features,omitempty" yaml:"features,omitempty"`
}

// Shift resolves the honeycomb topology: an explicit shift_dir wins,
// otherwise hub type B lowers the middle column and everything else raises
// it.
func (v Variant) Shift() int {
	if v.ShiftDir != 0 {
		return v.ShiftDir
	}
	if v.HubType == "B" {
		return hex.ShiftDown
	}
	return hex.ShiftUp
}

// Slot is one grid position of a honeycomb variant.
type Slot struct {
	ID  string `json:"id" yaml:"id"`
	Col int    `json:"col" yaml:"col"`
	Row int    `json:"row" yaml:"row"`
	// Features replaces the hub-type table entry for this slot.
	Features *Features `json:"features,omitempty" yaml:"features,omitempty"`
}

// Features is the sparse per-hub feature configuration. Absent keys mean
// "feature disabled"; sides are compass names ("N" through "NW").
type Features struct {
	ControllerMounts bool `json:"controller_mounts,omitempty" yaml:"controller_mounts,omitempty"`
	// USB places the USB standoffs and wall opening.
	USB *USB `json:"usb_config,omitempty" yaml:"usb_config,omitempty"`
	// OpenSides cut cable channels into the named walls. Honeycomb
	// variants ignore it and derive open sides from grid adjacency.
	OpenSides  []string    `json:"open_sides,omitempty" yaml:"open_sides,omitempty"`
	Connectors []Connector `json:"connectors,omitempty" yaml:"connectors,omitempty"`
	Magnets    []Magnet    `json:"magnets,omitempty" yaml:"magnets,omitempty"`
}

// USB rotates the USB cutout onto a wall: angle 0 keeps south, +60 claims
// south-east, -60 south-west.
type USB struct {
	Enabled bool    `json:"enabled" yaml:"enabled"`
	Angle   float64 `json:"angle" yaml:"angle"`
}

// Connector requests a mating rail on a wall.
type Connector struct {
	Side string `json:"side" yaml:"side"`
	// Kind is "male" or "female".
	Kind string `json:"kind" yaml:"kind"`
}

// Magnet requests wall magnet pockets on a side.
type Magnet struct {
	Side string `json:"side" yaml:"side"`
	// Positions is any of "left", "right".
	Positions []string `json:"positions" yaml:"positions"`
}

// Output configures where and how parts are written.
type Output struct {
	// Dir receives every exported file.
	Dir string `json:"dir" yaml:"dir"`
	// Formats lists the exports to produce: stl, 3mf, project.
	Formats []string `json:"formats" yaml:"formats"`
	// MeshCells is the octree resolution used to triangulate each part.
	MeshCells int `json:"mesh_cells" yaml:"mesh_cells"`
}

// Default returns the production run: both honeycomb hub types, a single
// hub, the two lids and the accessory kit.
func Default() *Config {
	return &Config{
		Dimensions: dims.Default(),
		Variants: []Variant{
			{Name: "TypeA", Kind: KindHoneycomb, HubType: "A", Slots: DefaultGrid()},
			{Name: "TypeB", Kind: KindHoneycomb, HubType: "B", Slots: DefaultGrid()},
			{Name: "Single", Kind: KindHub},
			{Name: "Lids", Kind: KindLids},
			{Name: "Kit", Kind: KindAccessories},
		},
		Output: Output{
			Dir:       "output",
			Formats:   []string{FormatSTL, Format3MF},
			MeshCells: 200,
		},
	}
}

// DefaultGrid returns the production 2x3 honeycomb: slots 1-3 across the top
// row, 4-6 below.
func DefaultGrid() []Slot {
	return []Slot{
		{ID: "slot1", Col: 0, Row: 0},
		{ID: "slot2", Col: 1, Row: 0},
		{ID: "slot3", Col: 2, Row: 0},
		{ID: "slot4", Col: 0, Row: 1},
		{ID: "slot5", Col: 1, Row: 1},
		{ID: "slot6", Col: 2, Row: 1},
	}
}

// Validate checks that the configuration can drive a run.
func (c *Config) Validate() error {
	if err := c.Dimensions.Validate(); err != nil {
		return err
	}
	if len(c.Variants) == 0 {
		return fmt.Errorf("config: no variants configured")
	}
	seen := make(map[string]bool, len(c.Variants))
	for i := range c.Variants {
		v := &c.Variants[i]
		if v.Name == "" {
			return fmt.Errorf("config: variant %d has no name", i)
		}
		if seen[v.Name] {
			return fmt.Errorf("config: duplicate variant name %q", v.Name)
		}
		seen[v.Name] = true
		if err := v.validate(); err != nil {
			return err
		}
	}
	if c.Output.Dir == "" {
		return fmt.Errorf("config: output.dir is required")
	}
	if c.Output.MeshCells <= 0 {
		return fmt.Errorf("config: output.mesh_cells must be positive, got %d", c.Output.MeshCells)
	}
	for _, f := range c.Output.Formats {
		switch strings.ToLower(f) {
		case FormatSTL, Format3MF, FormatProject:
		default:
			return fmt.Errorf("config: unknown output format %q", f)
		}
	}
	return nil
}

func (v *Variant) validate() error {
	switch v.Kind {
	case KindHub:
		return v.Features.validate(v.Name)
	case KindHoneycomb:
		if len(v.Slots) == 0 {
			return fmt.Errorf("config: variant %q: honeycomb without slots", v.Name)
		}
		switch v.HubType {
		case "", "A", "B":
		default:
			return fmt.Errorf("config: variant %q: unknown hub_type %q", v.Name, v.HubType)
		}
		if v.ShiftDir < -1 || v.ShiftDir > 1 {
			return fmt.Errorf("config: variant %q: shift_dir must be -1, 0 or 1", v.Name)
		}
		for _, s := range v.Slots {
			if s.ID == "" {
				return fmt.Errorf("config: variant %q: slot at col %d row %d has no id", v.Name, s.Col, s.Row)
			}
			if err := s.Features.validate(v.Name + "/" + s.ID); err != nil {
				return err
			}
		}
		return nil
	case KindLids, KindAccessories:
		return nil
	}
	return fmt.Errorf("config: variant %q: unknown kind %q", v.Name, v.Kind)
}

func (f *Features) validate(scope string) error {
	if f == nil {
		return nil
	}
	for _, name := range f.OpenSides {
		if _, ok := hex.ParseSide(name); !ok {
			return fmt.Errorf("config: %s: unknown side %q", scope, name)
		}
	}
	for _, c := range f.Connectors {
		if _, ok := hex.ParseSide(c.Side); !ok {
			return fmt.Errorf("config: %s: unknown connector side %q", scope, c.Side)
		}
		switch strings.ToLower(c.Kind) {
		case "male", "female":
		default:
			return fmt.Errorf("config: %s: connector kind must be male or female, got %q", scope, c.Kind)
		}
	}
	for _, m := range f.Magnets {
		if _, ok := hex.ParseSide(m.Side); !ok {
			return fmt.Errorf("config: %s: unknown magnet side %q", scope, m.Side)
		}
		if len(m.Positions) == 0 {
			return fmt.Errorf("config: %s: magnet on side %s has no positions", scope, m.Side)
		}
		for _, p := range m.Positions {
			switch strings.ToLower(p) {
			case "left", "right":
			default:
				return fmt.Errorf("config: %s: magnet position must be left or right, got %q", scope, p)
			}
		}
	}
	if f.USB != nil && f.USB.Enabled {
		switch f.USB.Angle {
		case 0, 60, -60:
		default:
			return fmt.Errorf("config: %s: usb angle must be 0, 60 or -60, got %g", scope, f.USB.Angle)
		}
	}
	return nil
}

// LoadFromFile reads a configuration document over the defaults, JSON or
// YAML by extension. A missing file is a hard stop for the whole run; the
// returned error wraps os.ErrNotExist.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg := Default()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("config %s: unsupported extension (want .json, .yaml or .yml)", path)
	}
	return cfg, nil
}
