// Package script replays recorded interaction sessions.
//
// A script is a YAML document with optional measure settings and a list of
// steps. Each step names a session event and its arguments:
//
//	name: right angle
//	mode: planar
//	steps:
//	  - action: add_vertex
//	    point: [0, 0]
//	  - action: add_vertex
//	    point: [0, 10]
//	  - action: add_coordinate
//	    lonlat: [14.4378, 50.0755]
//	  - action: draw_end
//
// The same Step type is accepted as a JSON message by the live feed.
package script

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/paulmach/orb"
	"github.com/philipparndt/mapmeasure/internal/config"
	"github.com/philipparndt/mapmeasure/internal/log"
	"github.com/philipparndt/mapmeasure/internal/session"
	"github.com/philipparndt/mapmeasure/pkg/analysis"
	"github.com/philipparndt/mapmeasure/pkg/geometry"
	"gopkg.in/yaml.v3"
)

// ActionAddCoordinate adds a vertex given as WGS84 longitude and latitude
const ActionAddCoordinate = "add_coordinate"

// Settings changes the session modifiers. Empty fields keep the current value.
type Settings struct {
	Kind          string `yaml:"kind,omitempty" json:"kind,omitempty"`
	Unit          string `yaml:"unit,omitempty" json:"unit,omitempty"`
	AngleUnit     string `yaml:"angle_unit,omitempty" json:"angle_unit,omitempty"`
	ShowSegments  *bool  `yaml:"show_segments,omitempty" json:"show_segments,omitempty"`
	ClearPrevious *bool  `yaml:"clear_previous,omitempty" json:"clear_previous,omitempty"`
}

// Apply returns m with the settings applied
func (s Settings) Apply(m session.Modifiers) (session.Modifiers, error) {
	var err error
	if s.Kind != "" {
		if m.Kind, err = geometry.ParseKind(s.Kind); err != nil {
			return m, err
		}
	}
	if s.Unit != "" {
		if m.Unit, err = analysis.ParseUnit(s.Unit); err != nil {
			return m, err
		}
	}
	if s.AngleUnit != "" {
		if m.AngleUnit, err = analysis.ParseAngleUnit(s.AngleUnit); err != nil {
			return m, err
		}
	}
	if s.ShowSegments != nil {
		m.ShowSegments = *s.ShowSegments
	}
	if s.ClearPrevious != nil {
		m.ClearPrevious = *s.ClearPrevious
	}
	return m, nil
}

// Step is one recorded interaction
type Step struct {
	Action string `yaml:"action" json:"action"`
	// Point is a vertex in map coordinates
	Point []float64 `yaml:"point,omitempty" json:"point,omitempty"`
	// LonLat is a vertex in WGS84 degrees
	LonLat []float64 `yaml:"lonlat,omitempty" json:"lonlat,omitempty"`
	Shift  bool      `yaml:"shift,omitempty" json:"shift,omitempty"`
	Index  int       `yaml:"index,omitempty" json:"index,omitempty"`
	// ID selects the geometry to modify; empty means the focused one
	ID        string    `yaml:"id,omitempty" json:"id,omitempty"`
	Modifiers *Settings `yaml:"modifiers,omitempty" json:"modifiers,omitempty"`
}

// Event converts the step into a session event. The session is used to
// resolve defaults such as the current modifiers and the focused geometry.
func (st Step) Event(s *session.Session) (session.Event, error) {
	switch st.Action {
	case "draw_start":
		return session.DrawStart{Shift: st.Shift}, nil
	case "add_vertex":
		p, err := st.point()
		if err != nil {
			return nil, err
		}
		return session.AddVertex{Point: p}, nil
	case ActionAddCoordinate:
		if len(st.LonLat) != 2 {
			return nil, fmt.Errorf("%s needs lonlat with 2 values, got %d", st.Action, len(st.LonLat))
		}
		p, ok := session.ParseLonLat(formatDegrees(st.LonLat[0]), formatDegrees(st.LonLat[1]))
		if !ok {
			return nil, fmt.Errorf("invalid coordinate %v", st.LonLat)
		}
		return session.AddVertex{Point: p}, nil
	case "draw_end":
		return session.DrawEnd{}, nil
	case "draw_abort":
		return session.DrawAbort{}, nil
	case "modify_start":
		id := st.ID
		if id == "" {
			id = s.Focus()
		}
		return session.ModifyStart{ID: id}, nil
	case "move_vertex":
		p, err := st.point()
		if err != nil {
			return nil, err
		}
		return session.MoveVertex{Index: st.Index, Point: p}, nil
	case "insert_vertex":
		p, err := st.point()
		if err != nil {
			return nil, err
		}
		return session.InsertVertex{Index: st.Index, Point: p}, nil
	case "remove_vertex":
		return session.RemoveVertex{Index: st.Index}, nil
	case "modify_end":
		return session.ModifyEnd{}, nil
	case "modify_abort":
		return session.ModifyAbort{}, nil
	case "set_modifiers":
		if st.Modifiers == nil {
			return nil, fmt.Errorf("%s needs modifiers", st.Action)
		}
		m, err := st.Modifiers.Apply(s.Modifiers())
		if err != nil {
			return nil, err
		}
		return session.SetModifiers{Modifiers: m}, nil
	case "clear_log":
		return session.ClearLog{}, nil
	case "clear_map":
		return session.ClearMap{}, nil
	}
	return nil, fmt.Errorf("unknown action: %q", st.Action)
}

func (st Step) point() (orb.Point, error) {
	if len(st.Point) != 2 {
		return orb.Point{}, fmt.Errorf("%s needs point with 2 values, got %d", st.Action, len(st.Point))
	}
	return orb.Point{st.Point[0], st.Point[1]}, nil
}

func formatDegrees(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Script is a named list of steps with optional measure settings
type Script struct {
	Name     string   `yaml:"name"`
	Mode     string   `yaml:"mode,omitempty"`
	Scope    string   `yaml:"annotation_scope,omitempty"`
	Settings Settings `yaml:"modifiers,omitempty"`
	Steps    []Step   `yaml:"steps"`
}

// Parse decodes a script from YAML
func Parse(data []byte) (*Script, error) {
	var sc Script
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("failed to parse script: %w", err)
	}
	if len(sc.Steps) == 0 {
		return nil, fmt.Errorf("script %q has no steps", sc.Name)
	}
	return &sc, nil
}

// LoadFile reads and parses a script file
func LoadFile(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read script: %w", err)
	}
	sc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if sc.Name == "" {
		sc.Name = path
	}
	return sc, nil
}

// Options returns the session options of the script on top of the
// configured measure settings
func (sc *Script) Options(base config.MeasureConfig) (session.Options, error) {
	if sc.Mode != "" {
		base.Mode = sc.Mode
	}
	if sc.Scope != "" {
		base.AnnotationScope = sc.Scope
	}
	opts, err := base.SessionOptions()
	if err != nil {
		return opts, err
	}
	opts.Modifiers, err = sc.Settings.Apply(opts.Modifiers)
	return opts, err
}

// Run dispatches every step in order and stops at the first error
func (sc *Script) Run(ctx context.Context, s *session.Session) error {
	logger := log.WithComponent("script")
	for i, st := range sc.Steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		e, err := st.Event(s)
		if err != nil {
			return fmt.Errorf("step %d: %w", i+1, err)
		}
		if err := s.Dispatch(e); err != nil {
			return fmt.Errorf("step %d (%s): %w", i+1, e.Name(), err)
		}
		logger.Debug("step replayed", slog.Int("step", i+1), slog.String("event", e.Name()), slog.String("state", s.State().String()))
	}
	logger.Info("script replayed", slog.String("name", sc.Name), slog.Int("steps", len(sc.Steps)))
	return nil
}
