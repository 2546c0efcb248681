package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/philipparndt/mapmeasure/internal/log"
	"github.com/philipparndt/mapmeasure/internal/measurement"
	"github.com/philipparndt/mapmeasure/pkg/analysis"
	"github.com/philipparndt/mapmeasure/pkg/geometry"
)

func TestEnvOverridesUnits(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv(EnvUnit, "Imperial")
	t.Setenv(EnvAngleUnit, "radians")
	t.Setenv(EnvMeasureMode, "planar")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Measure.Unit != "imperial" || cfg.Measure.AngleUnit != "radians" || cfg.Measure.Mode != "planar" {
		t.Fatalf("measure overrides not applied: %#v", cfg.Measure)
	}
}

func TestEnvOverridesFeedAddr(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv(EnvFeedAddr, "0.0.0.0:9000")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if got, want := cfg.Feed.Addr, "0.0.0.0:9000"; got != want {
		t.Fatalf("Feed.Addr = %q, want %q", got, want)
	}
}

func TestLoadWithoutFileUsesDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	for _, k := range []string{EnvUnit, EnvAngleUnit, EnvMeasureMode} {
		t.Setenv(k, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Measure != Defaults().Measure {
		t.Fatalf("Measure = %#v, want defaults", cfg.Measure)
	}
}

func TestMergeIncludesMeasure(t *testing.T) {
	dst := Defaults()
	src := AppConfig{Measure: MeasureConfig{
		Unit:          " Imperial ",
		Kind:          "polygon",
		ShowSegments:  true,
		ClearPrevious: true,
	}}
	mergeInto(&dst, &src)
	if dst.Measure.Unit != "imperial" || dst.Measure.Kind != "polygon" {
		t.Fatalf("measure strings not merged: %#v", dst.Measure)
	}
	if !dst.Measure.ShowSegments || !dst.Measure.ClearPrevious {
		t.Fatalf("measure booleans not merged: %#v", dst.Measure)
	}
	if dst.Measure.AngleUnit != "degrees" || dst.Measure.Mode != "geodesic" {
		t.Fatalf("empty fields must keep defaults: %#v", dst.Measure)
	}
}

func TestMergeIncludesLogging(t *testing.T) {
	dst := Defaults()
	src := Defaults()
	src.Logging.Level = "debug"
	src.Logging.Format = "json"
	src.Logging.Source = true
	src.Logging.File = "/tmp/mapmeasure.log"
	mergeInto(&dst, &src)
	if dst.Logging.Level != "debug" || dst.Logging.Format != "json" || !dst.Logging.Source || dst.Logging.File != "/tmp/mapmeasure.log" {
		t.Fatalf("logging fields not merged correctly: %#v", dst.Logging)
	}
}

func TestEnvOverridesLogging(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv(log.EnvLevel, "error")
	t.Setenv(log.EnvFormat, "json")
	t.Setenv(log.EnvSource, "1")
	t.Setenv(log.EnvFile, "/tmp/x.log")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Logging.Level != "error" || cfg.Logging.Format != "json" || !cfg.Logging.Source || cfg.Logging.File != "/tmp/x.log" {
		t.Fatalf("env overrides not applied: %#v", cfg.Logging)
	}

	opts := cfg.Logging.LogOptions()
	if opts.Level != "error" || !opts.AddSource || opts.File != "/tmp/x.log" {
		t.Fatalf("LogOptions() = %#v", opts)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
measure:
  mode: planar
  kind: polygon
  unit: imperial
  show_segments: true
  annotation_scope: geometry
feed:
  addr: ":7000"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error: %v", err)
	}
	if cfg.Feed.Addr != ":7000" {
		t.Fatalf("Feed.Addr = %q", cfg.Feed.Addr)
	}

	opts, err := cfg.Measure.SessionOptions()
	if err != nil {
		t.Fatalf("SessionOptions() error: %v", err)
	}
	if opts.Mode != analysis.Planar || opts.Scope != measurement.ScopeGeometry {
		t.Fatalf("options = %#v", opts)
	}
	if opts.Modifiers.Kind != geometry.Polygon || opts.Modifiers.Unit != analysis.Imperial || !opts.Modifiers.ShowSegments {
		t.Fatalf("modifiers = %#v", opts.Modifiers)
	}
	if opts.Modifiers.AngleUnit != analysis.Degrees {
		t.Fatalf("angle unit should keep its default, got %v", opts.Modifiers.AngleUnit)
	}
}

func TestLoadFileErrors(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "broken.yaml")
	if err := os.WriteFile(path, []byte("measure: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(path); err == nil {
		t.Fatal("expected error for malformed file")
	}
}

func TestSessionOptionsRejectsUnknownNames(t *testing.T) {
	cases := []MeasureConfig{
		{Mode: "flat"},
		{AnnotationScope: "everywhere"},
		{Unit: "furlongs"},
		{Kind: "circle"},
	}
	for _, c := range cases {
		if _, err := c.SessionOptions(); err == nil {
			t.Errorf("SessionOptions(%#v) expected error", c)
		}
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := Defaults()
	cfg.Measure.Unit = "imperial"
	if err := Save(cfg, path); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	got, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error: %v", err)
	}
	if got.Measure.Unit != "imperial" {
		t.Fatalf("Measure.Unit = %q", got.Measure.Unit)
	}
}
