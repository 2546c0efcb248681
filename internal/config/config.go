// Package config loads the user configuration of mapmeasure.
//
// The configuration lives in a YAML file in the user scope. Environment
// variables are read-only overrides applied after the file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/philipparndt/mapmeasure/internal/log"
	"github.com/philipparndt/mapmeasure/internal/measurement"
	"github.com/philipparndt/mapmeasure/internal/session"
	"github.com/philipparndt/mapmeasure/pkg/analysis"
	"gopkg.in/yaml.v3"
)

// MeasureConfig holds the measurement defaults of a new session
type MeasureConfig struct {
	Mode            string `yaml:"mode"`       // "geodesic" | "planar"
	Kind            string `yaml:"kind"`       // "line" | "polygon"
	Unit            string `yaml:"unit"`       // "metric" | "imperial"
	AngleUnit       string `yaml:"angle_unit"` // "degrees" | "radians"
	ShowSegments    bool   `yaml:"show_segments"`
	ClearPrevious   bool   `yaml:"clear_previous"`
	AnnotationScope string `yaml:"annotation_scope"` // "global" | "geometry"
}

// FeedConfig configures the websocket feed of the serve command
type FeedConfig struct {
	Addr string `yaml:"addr"`
}

// LoggingConfig mirrors log.Options
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Source bool   `yaml:"source"`
	File   string `yaml:"file"`
}

// AppConfig is the content of config.yaml
type AppConfig struct {
	ConfigVersion int           `yaml:"config_version"`
	Measure       MeasureConfig `yaml:"measure"`
	Feed          FeedConfig    `yaml:"feed"`
	Logging       LoggingConfig `yaml:"logging"`
}

// Defaults returns the application defaults
func Defaults() AppConfig {
	return AppConfig{
		ConfigVersion: 1,
		Measure: MeasureConfig{
			Mode:            "geodesic",
			Kind:            "line",
			Unit:            "metric",
			AngleUnit:       "degrees",
			AnnotationScope: "global",
		},
		Feed:    FeedConfig{Addr: "localhost:8089"},
		Logging: LoggingConfig{Level: "info", Format: "console"},
	}
}

// Env var names used as overrides
const (
	EnvUnit        = "MAPMEASURE_UNIT"
	EnvAngleUnit   = "MAPMEASURE_ANGLE_UNIT"
	EnvMeasureMode = "MAPMEASURE_MEASURE_MODE"
	EnvFeedAddr    = "MAPMEASURE_FEED_ADDR"
)

// ConfigPath returns the per-user config file path
func ConfigPath() (string, error) {
	var base string
	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("AppData")
		if base == "" {
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		base = filepath.Join(base, "mapmeasure")
	case "darwin":
		base = filepath.Join(os.Getenv("HOME"), "Library", "Application Support", "mapmeasure")
	default:
		base = filepath.Join(os.Getenv("HOME"), ".config", "mapmeasure")
	}
	if base == "" {
		return "", errors.New("cannot resolve config directory")
	}
	return filepath.Join(base, "config.yaml"), nil
}

// Load reads the user config file if present, applies defaults and merges
// environment overrides. A missing or unreadable user file is not an error.
func Load() (AppConfig, error) {
	cfg := Defaults()
	path, err := ConfigPath()
	if err != nil {
		return cfg, err
	}
	if data, err := os.ReadFile(path); err == nil {
		var fileCfg AppConfig
		if err := yaml.Unmarshal(data, &fileCfg); err == nil {
			mergeInto(&cfg, &fileCfg)
		}
	}
	applyEnvOverrides(&cfg)
	return cfg, nil
}

// LoadFile reads an explicitly named config file. Unlike Load, a missing or
// malformed file is an error.
func LoadFile(path string) (AppConfig, error) {
	cfg := Defaults()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	var fileCfg AppConfig
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	mergeInto(&cfg, &fileCfg)
	applyEnvOverrides(&cfg)
	return cfg, nil
}

// Save writes the config as YAML to the given path
func Save(cfg AppConfig, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func mergeInto(dst *AppConfig, src *AppConfig) {
	if src.ConfigVersion != 0 {
		dst.ConfigVersion = src.ConfigVersion
	}
	setLower(&dst.Measure.Mode, src.Measure.Mode)
	setLower(&dst.Measure.Kind, src.Measure.Kind)
	setLower(&dst.Measure.Unit, src.Measure.Unit)
	setLower(&dst.Measure.AngleUnit, src.Measure.AngleUnit)
	setLower(&dst.Measure.AnnotationScope, src.Measure.AnnotationScope)
	// booleans: copy directly from src (file) so user preferences persist
	dst.Measure.ShowSegments = src.Measure.ShowSegments
	dst.Measure.ClearPrevious = src.Measure.ClearPrevious

	if v := strings.TrimSpace(src.Feed.Addr); v != "" {
		dst.Feed.Addr = v
	}

	setLower(&dst.Logging.Level, src.Logging.Level)
	setLower(&dst.Logging.Format, src.Logging.Format)
	dst.Logging.Source = src.Logging.Source
	if v := strings.TrimSpace(src.Logging.File); v != "" {
		dst.Logging.File = v
	}
}

func setLower(dst *string, v string) {
	if v = strings.TrimSpace(v); v != "" {
		*dst = strings.ToLower(v)
	}
}

func applyEnvOverrides(cfg *AppConfig) {
	if v := strings.TrimSpace(os.Getenv(EnvUnit)); v != "" {
		cfg.Measure.Unit = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvAngleUnit)); v != "" {
		cfg.Measure.AngleUnit = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvMeasureMode)); v != "" {
		cfg.Measure.Mode = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvFeedAddr)); v != "" {
		cfg.Feed.Addr = v
	}
	// logging overrides
	if v := strings.TrimSpace(os.Getenv(log.EnvLevel)); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(log.EnvFormat)); v != "" {
		cfg.Logging.Format = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(log.EnvSource)); v != "" {
		lv := strings.ToLower(v)
		cfg.Logging.Source = lv == "1" || lv == "true" || lv == "on" || lv == "yes"
	}
	if v := strings.TrimSpace(os.Getenv(log.EnvFile)); v != "" {
		cfg.Logging.File = v
	}
}

// LogOptions converts the logging section into logger options
func (l LoggingConfig) LogOptions() log.Options {
	return log.Options{
		Level:     l.Level,
		Format:    l.Format,
		AddSource: l.Source,
		File:      l.File,
	}
}

// SessionOptions converts the measure section into session options
func (m MeasureConfig) SessionOptions() (session.Options, error) {
	opts := session.DefaultOptions()

	mode, err := analysis.ParseMode(m.Mode)
	if err != nil {
		return opts, fmt.Errorf("measure.mode: %w", err)
	}
	scope, err := measurement.ParseScope(m.AnnotationScope)
	if err != nil {
		return opts, fmt.Errorf("measure.annotation_scope: %w", err)
	}
	mods, err := session.ParseModifiers(m.Kind, m.Unit, m.AngleUnit, m.ShowSegments, m.ClearPrevious)
	if err != nil {
		return opts, fmt.Errorf("measure: %w", err)
	}

	opts.Mode = mode
	opts.Scope = scope
	opts.Modifiers = mods
	return opts, nil
}
