package analysis

import (
	"fmt"
	"math"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
	"github.com/paulmach/orb/planar"
	"github.com/paulmach/orb/project"
	"github.com/philipparndt/mapmeasure/pkg/geometry"
)

// Mode selects how raw distances and areas are computed
type Mode int

const (
	// Geodesic measures on the sphere after unprojecting from Web Mercator
	Geodesic Mode = iota
	// Planar measures directly in projected units
	Planar
)

// String returns the config name of the mode
func (m Mode) String() string {
	if m == Planar {
		return "planar"
	}
	return "geodesic"
}

// ParseMode converts a mode name into a Mode
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "geodesic", "sphere", "":
		return Geodesic, nil
	case "planar", "projected":
		return Planar, nil
	}
	return Geodesic, fmt.Errorf("unknown measure mode: %q (expected geodesic or planar)", s)
}

// AngleSample is the interior angle at one vertex of a geometry
type AngleSample struct {
	VertexIndex int
	Radians     float64
	Position    orb.Point
}

// SegmentInfo contains information about one edge of a geometry
type SegmentInfo struct {
	Segment geometry.Segment
	Length  float64
}

// Result contains the derived metrics of a line or polygon
type Result struct {
	Kind        geometry.Kind
	Valid       bool
	TotalLength float64
	TotalArea   float64
	Perimeter   float64
	Segments    []SegmentInfo
	Angles      []AngleSample
	// LabelPosition is where the summary label is placed
	LabelPosition orb.Point
}

// SegmentCount returns the number of measured segments
func (r Result) SegmentCount() int {
	return len(r.Segments)
}

// AngleRadians returns the raw angle values in vertex order
func (r Result) AngleRadians() []float64 {
	values := make([]float64, len(r.Angles))
	for i, a := range r.Angles {
		values[i] = a.Radians
	}
	return values
}

// SegmentLengths returns the length of every segment in order
func (r Result) SegmentLengths() []float64 {
	values := make([]float64, len(r.Segments))
	for i, s := range r.Segments {
		values[i] = s.Length
	}
	return values
}

// Measurer computes metrics of geometries in projected coordinates
type Measurer struct {
	Mode Mode
}

// NewMeasurer creates a new measurer
func NewMeasurer(mode Mode) *Measurer {
	return &Measurer{Mode: mode}
}

// Measure computes length or area, segment lengths and interior angles.
// Angles are left empty when suppressAngles is set.
func (m *Measurer) Measure(g *geometry.Geometry, suppressAngles bool) Result {
	if !g.Valid() {
		kind := geometry.Line
		if g != nil {
			kind = g.Kind
		}
		return Result{Kind: kind}
	}

	result := Result{
		Kind:     g.Kind,
		Valid:    true,
		Segments: make([]SegmentInfo, 0, g.SegmentCount()),
	}

	for _, s := range g.Segments() {
		result.Segments = append(result.Segments, SegmentInfo{
			Segment: s,
			Length:  m.Distance(s.Start, s.End),
		})
	}

	if g.Kind == geometry.Polygon {
		ring := g.Ring()
		result.TotalArea = m.Area(orb.Polygon{ring})
		result.Perimeter = m.Length(orb.LineString(ring))
		result.LabelPosition = interiorPoint(g)
	} else {
		result.TotalLength = m.Length(g.LineString())
		result.LabelPosition = g.Vertices[len(g.Vertices)-1]
	}

	if !suppressAngles {
		result.Angles = Angles(g)
	}

	return result
}

// Angles returns one sample per angle-carrying vertex of the geometry
func Angles(g *geometry.Geometry) []AngleSample {
	triples := g.AngleVertices()
	samples := make([]AngleSample, 0, len(triples))
	for _, t := range triples {
		samples = append(samples, AngleSample{
			VertexIndex: t[1],
			Radians:     geometry.InteriorAngle(g.Vertices[t[0]], g.Vertices[t[1]], g.Vertices[t[2]]),
			Position:    g.Vertices[t[1]],
		})
	}
	return samples
}

// Length returns the length of a projected line in meters
func (m *Measurer) Length(ls orb.LineString) float64 {
	if m.Mode == Planar {
		return planar.Length(ls)
	}
	return geo.Length(toWGS84(ls))
}

// Area returns the area of a projected polygon in square meters
func (m *Measurer) Area(p orb.Polygon) float64 {
	if m.Mode == Planar {
		return math.Abs(planar.Area(p))
	}
	return math.Abs(geo.Area(toWGS84(p)))
}

// Distance returns the distance between two projected points in meters
func (m *Measurer) Distance(a, b orb.Point) float64 {
	if m.Mode == Planar {
		return planar.Distance(a, b)
	}
	return geo.Distance(project.Mercator.ToWGS84(a), project.Mercator.ToWGS84(b))
}

// toWGS84 unprojects a copy of g; project.Geometry works in place
func toWGS84(g orb.Geometry) orb.Geometry {
	return project.Geometry(orb.Clone(g), project.Mercator.ToWGS84)
}

// interiorPoint returns the area centroid of a polygon, or the centre of
// its bound when the ring is degenerate
func interiorPoint(g *geometry.Geometry) orb.Point {
	centroid, area := planar.CentroidArea(orb.Polygon{g.Ring()})
	if area == 0 || math.IsNaN(centroid[0]) || math.IsNaN(centroid[1]) {
		return g.Bound().Center()
	}
	return centroid
}

// Summary returns "Length: …" for lines and "Area: …, Perimeter: …" for polygons
func Summary(r Result, unit Unit) string {
	if r.Kind == geometry.Polygon {
		return fmt.Sprintf("Area: %s, Perimeter: %s", FormatArea(r.TotalArea, unit), FormatLength(r.Perimeter, unit))
	}
	return fmt.Sprintf("Length: %s", FormatLength(r.TotalLength, unit))
}

// LabelText returns the text shown on the summary label of a geometry
func LabelText(r Result, unit Unit) string {
	if r.Kind == geometry.Polygon {
		return FormatArea(r.TotalArea, unit)
	}
	return FormatLength(r.TotalLength, unit)
}
