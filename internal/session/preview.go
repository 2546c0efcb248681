package session

import (
	"strings"

	"github.com/paulmach/orb"
	"github.com/philipparndt/mapmeasure/pkg/analysis"
	"github.com/philipparndt/mapmeasure/pkg/geometry"
)

// Preview is the live state of the sketch shown while drawing
type Preview struct {
	Tip      string
	Kind     geometry.Kind
	Vertices int
	Result   analysis.Result
	// Text is the summary of a sketch that could already be finished
	Text string
}

// Preview returns the tip and live metrics of the active sketch. It never
// touches the overlay or the log.
func (s *Session) Preview() Preview {
	if s.state != Drawing {
		return Preview{Tip: TipStart, Kind: s.modifiers.Kind}
	}
	return s.preview(s.sketch.geometry)
}

// PreviewAt is Preview with the cursor position as a tentative last vertex
func (s *Session) PreviewAt(cursor orb.Point) Preview {
	if s.state != Drawing {
		return Preview{Tip: TipStart, Kind: s.modifiers.Kind}
	}
	g := s.sketch.geometry.Clone()
	g.Append(cursor)
	return s.preview(g)
}

// HoverPreview is PreviewAt for a pointer that may rest on a vertex of a
// committed geometry. Over a vertex that can be dragged the tip asks to drag.
func (s *Session) HoverPreview(cursor orb.Point, overVertex bool) Preview {
	if overVertex && s.state == Drawn && s.modifyEnabled {
		return Preview{Tip: TipModify, Kind: s.modifiers.Kind}
	}
	return s.PreviewAt(cursor)
}

func (s *Session) preview(g *geometry.Geometry) Preview {
	p := Preview{
		Tip:      TipContinuePrefix + strings.ToLower(g.Kind.String()),
		Kind:     g.Kind,
		Vertices: g.Len(),
		Result:   s.measurer.Measure(g, s.sketch.suppressAngles),
	}
	if p.Result.Valid {
		p.Text = analysis.Summary(p.Result, s.modifiers.Unit)
	}
	return p
}
