package session

import (
	"github.com/philipparndt/mapmeasure/internal/measurement"
	"github.com/philipparndt/mapmeasure/pkg/analysis"
	"github.com/philipparndt/mapmeasure/pkg/geometry"
)

// Modifiers are the user settings of a session
type Modifiers struct {
	// Kind is used for the next drawing
	Kind          geometry.Kind
	Unit          analysis.Unit
	AngleUnit     analysis.AngleUnit
	ShowSegments  bool
	ClearPrevious bool
}

// DefaultModifiers returns line drawing with metric units and degrees
func DefaultModifiers() Modifiers {
	return Modifiers{
		Kind:      geometry.Line,
		Unit:      analysis.Metric,
		AngleUnit: analysis.Degrees,
	}
}

// Display returns the modifiers that affect annotations
func (m Modifiers) Display() measurement.Display {
	return measurement.Display{
		Unit:         m.Unit,
		AngleUnit:    m.AngleUnit,
		ShowSegments: m.ShowSegments,
	}
}

// ParseModifiers builds modifiers from their config names
func ParseModifiers(kind, unit, angleUnit string, showSegments, clearPrevious bool) (Modifiers, error) {
	m := Modifiers{ShowSegments: showSegments, ClearPrevious: clearPrevious}

	var err error
	if m.Kind, err = geometry.ParseKind(kind); err != nil {
		return m, err
	}
	if m.Unit, err = analysis.ParseUnit(unit); err != nil {
		return m, err
	}
	if m.AngleUnit, err = analysis.ParseAngleUnit(angleUnit); err != nil {
		return m, err
	}
	return m, nil
}
