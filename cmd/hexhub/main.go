// Package main provides the hexhub binary entry point.
// Hexhub generates the printable parts of a hexagonal hub enclosure system:
// honeycomb assemblies, single hubs, lids and the accessory kit.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/spatial/r3"

	"hexhub/assembly"
	"hexhub/config"
	"hexhub/export"
	"hexhub/hex"
	"hexhub/part"
)

const (
	Version = "0.1.0"
	appName = "hexhub"
)

func main() {
	// Add panic recovery
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		configPath string
		logLevel   string
	)

	cmd := &cobra.Command{
		Use:   "hexhub",
		Short: "Hexagonal hub enclosure generator",
		Long: `Hexhub builds the printable parts of a hexagonal hub enclosure system
from one shared dimension set: honeycomb assemblies with mating rails and
cable channels, standalone hubs, the two lid styles and the accessory kit.

Parts are modeled as signed distance fields, triangulated and written as
per-part STL files, a colored 3MF bundle or a print project archive.`,
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file path (JSON or YAML)")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	var (
		only  string
		watch bool
	)
	build := &cobra.Command{
		Use:   "build",
		Short: "Build every configured variant and write the outputs",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newLogger(logLevel)
			if watch {
				return watchLoop(configPath, only, log)
			}
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			return buildOnce(cfg, only, log)
		},
	}
	build.Flags().StringVar(&only, "only", "", "Only export parts whose name matches this glob")
	build.Flags().BoolVar(&watch, "watch", false, "Rebuild whenever the config file changes")
	cmd.AddCommand(build)

	cmd.AddCommand(&cobra.Command{
		Use:   "parts",
		Short: "List the parts the configuration produces, without meshing",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newLogger(logLevel)
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			return listParts(cfg, log)
		},
	})

	var dxfPath string
	layout := &cobra.Command{
		Use:   "layout",
		Short: "Print honeycomb slot positions and adjacency",
		RunE: func(cmd *cobra.Command, args []string) error {
			newLogger(logLevel)
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			return printLayouts(cfg, dxfPath)
		},
	}
	layout.Flags().StringVar(&dxfPath, "dxf", "", "Also write a mounting template DXF to this path")
	cmd.AddCommand(layout)

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s version %s\n", appName, Version)
		},
	})

	return cmd
}

// newLogger configures the process logger and installs it as the slog
// default.
func newLogger(logLevel string) *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(logLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger
}

func loadConfig(configPath string) (*config.Config, error) {
	cfg := config.Default()
	if configPath != "" {
		var err error
		cfg, err = config.LoadFromFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// buildOnce runs the full pipeline: build variants, mesh the surviving
// parts, write every configured format. Variant failures do not stop the
// exports but surface in the exit status.
func buildOnce(cfg *config.Config, only string, log *slog.Logger) error {
	res, err := assembly.Run(cfg, log)
	if err != nil {
		return err
	}

	parts, err := filterParts(res.Parts, only)
	if err != nil {
		return err
	}
	if len(parts) == 0 {
		return fmt.Errorf("no parts to export (of %d built)", len(res.Parts))
	}
	if len(parts) < len(res.Parts) {
		log.Info("part filter applied", "pattern", only, "selected", len(parts), "built", len(res.Parts))
	}

	log.Info("meshing parts", "parts", len(parts), "cells", cfg.Output.MeshCells)
	start := time.Now()
	meshed, err := export.Mesh(parts, cfg.Output.MeshCells)
	if err != nil {
		return err
	}
	log.Info("meshing done", "elapsed", time.Since(start).Round(time.Millisecond))

	for _, format := range cfg.Output.Formats {
		files, err := export.Write(cfg.Output.Dir, format, cfg.Dimensions, meshed)
		if err != nil {
			return fmt.Errorf("export %s: %w", format, err)
		}
		for _, f := range files {
			log.Info("wrote", "format", format, "file", f)
		}
	}

	if len(res.Failed) > 0 {
		return fmt.Errorf("%d variant(s) failed: %s", len(res.Failed), strings.Join(res.Failed, ", "))
	}
	return nil
}

func filterParts(parts []part.Part, only string) ([]part.Part, error) {
	if only == "" {
		return parts, nil
	}
	var out []part.Part
	for _, p := range parts {
		ok, err := doublestar.Match(only, p.Name)
		if err != nil {
			return nil, fmt.Errorf("bad --only pattern %q: %w", only, err)
		}
		if ok {
			out = append(out, p)
		}
	}
	return out, nil
}

// watchLoop rebuilds on every config file change until interrupted. The
// directory is watched rather than the file so editors that replace the
// file on save keep triggering rebuilds.
func watchLoop(configPath, only string, log *slog.Logger) error {
	if configPath == "" {
		return fmt.Errorf("--watch requires --config")
	}
	abs, err := filepath.Abs(configPath)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	rebuild := func() {
		cfg, err := loadConfig(configPath)
		if err != nil {
			log.Error("config reload failed", "err", err)
			return
		}
		if err := buildOnce(cfg, only, log); err != nil {
			log.Error("build failed", "err", err)
		}
	}
	rebuild()
	log.Info("watching for config changes", "file", abs)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			log.Info("shutting down")
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			// Editors fire several events per save; let them settle.
			pending = time.After(200 * time.Millisecond)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Error("watch error", "err", err)
		case <-pending:
			pending = nil
			log.Info("config changed, rebuilding", "file", abs)
			rebuild()
		}
	}
}

func listParts(cfg *config.Config, log *slog.Logger) error {
	res, err := assembly.Run(cfg, log)
	if err != nil {
		return err
	}
	for _, p := range res.Parts {
		b := p.Body.Bounds()
		size := r3.Sub(b.Max, b.Min)
		fmt.Printf("%-28s %7.1f x %7.1f x %6.1f mm\n", p.Name, size.X, size.Y, size.Z)
	}
	if len(res.Failed) > 0 {
		return fmt.Errorf("%d variant(s) failed: %s", len(res.Failed), strings.Join(res.Failed, ", "))
	}
	return nil
}

func printLayouts(cfg *config.Config, dxfPath string) error {
	var honeycombs []config.Variant
	for _, v := range cfg.Variants {
		if v.Kind == config.KindHoneycomb {
			honeycombs = append(honeycombs, v)
		}
	}
	if len(honeycombs) == 0 {
		return fmt.Errorf("no honeycomb variants configured")
	}

	for _, v := range honeycombs {
		layout := hex.NewLayout(cfg.Dimensions.OuterFlatToFlat, cfg.Dimensions.RimGap, v.Shift())
		slots := make([]hex.Slot, len(v.Slots))
		for i, s := range v.Slots {
			slots[i] = hex.Slot{ID: s.ID, Col: s.Col, Row: s.Row}
		}
		neighbors, err := layout.Neighbors(slots)
		if err != nil {
			return fmt.Errorf("variant %s: %w", v.Name, err)
		}

		fmt.Printf("%s (%d slots)\n", v.Name, len(slots))
		for _, s := range slots {
			at := layout.Position(s)
			fmt.Printf("  %-8s col %d row %d  at (%7.1f, %7.1f)  neighbors: %s\n",
				s.ID, s.Col, s.Row, at.X, at.Y, sideList(neighbors[s.ID]))
		}

		if dxfPath != "" {
			path := dxfPathFor(dxfPath, v.Name, len(honeycombs) > 1)
			if err := export.LayoutDXF(path, layout, slots, cfg.Dimensions.OuterFlatToFlat); err != nil {
				return fmt.Errorf("variant %s: %w", v.Name, err)
			}
			fmt.Printf("  template: %s\n", path)
		}
	}
	return nil
}

func sideList(sides []hex.Side) string {
	if len(sides) == 0 {
		return "none"
	}
	names := make([]string, len(sides))
	for i, s := range sides {
		names[i] = s.String()
	}
	sort.Strings(names)
	return strings.Join(names, ",")
}

// dxfPathFor suffixes the template path with the variant name when several
// honeycombs share one --dxf flag.
func dxfPathFor(base, variant string, many bool) string {
	if !many {
		return base
	}
	ext := filepath.Ext(base)
	return strings.TrimSuffix(base, ext) + "_" + variant + ext
}
