package analysis

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/project"
	"github.com/philipparndt/mapmeasure/pkg/geometry"
)

func line(points ...orb.Point) *geometry.Geometry {
	return &geometry.Geometry{Kind: geometry.Line, Vertices: points}
}

func polygon(points ...orb.Point) *geometry.Geometry {
	return &geometry.Geometry{Kind: geometry.Polygon, Vertices: points}
}

func TestMeasureRightAngleLine(t *testing.T) {
	m := NewMeasurer(Planar)
	result := m.Measure(line(orb.Point{0, 0}, orb.Point{0, 10}, orb.Point{10, 10}), false)

	if !result.Valid {
		t.Fatalf("expected valid result")
	}
	if math.Abs(result.TotalLength-20) > 1e-10 {
		t.Errorf("TotalLength failed: expected 20, got %v", result.TotalLength)
	}
	if result.SegmentCount() != 2 {
		t.Errorf("SegmentCount failed: expected 2, got %d", result.SegmentCount())
	}
	if len(result.Angles) != 1 {
		t.Fatalf("expected 1 angle, got %d", len(result.Angles))
	}
	if math.Abs(result.Angles[0].Radians-math.Pi/2) > 1e-10 {
		t.Errorf("angle failed: expected %v, got %v", math.Pi/2, result.Angles[0].Radians)
	}
	if result.Angles[0].VertexIndex != 1 || !result.Angles[0].Position.Equal(orb.Point{0, 10}) {
		t.Errorf("angle placed at wrong vertex: %+v", result.Angles[0])
	}
	if !result.LabelPosition.Equal(orb.Point{10, 10}) {
		t.Errorf("line label should sit at the last vertex, got %v", result.LabelPosition)
	}
}

func TestMeasureSquarePolygon(t *testing.T) {
	m := NewMeasurer(Planar)
	result := m.Measure(polygon(orb.Point{0, 0}, orb.Point{10, 0}, orb.Point{10, 10}, orb.Point{0, 10}), false)

	if math.Abs(result.TotalArea-100) > 1e-10 {
		t.Errorf("TotalArea failed: expected 100, got %v", result.TotalArea)
	}
	if math.Abs(result.Perimeter-40) > 1e-10 {
		t.Errorf("Perimeter failed: expected 40, got %v", result.Perimeter)
	}
	if result.SegmentCount() != 4 {
		t.Errorf("SegmentCount failed: expected 4, got %d", result.SegmentCount())
	}
	if len(result.Angles) != 4 {
		t.Fatalf("expected 4 angles, got %d", len(result.Angles))
	}
	for _, a := range result.Angles {
		if math.Abs(a.Radians-math.Pi/2) > 1e-10 {
			t.Errorf("angle at vertex %d failed: expected %v, got %v", a.VertexIndex, math.Pi/2, a.Radians)
		}
	}
	if math.Abs(result.LabelPosition[0]-5) > 1e-10 || math.Abs(result.LabelPosition[1]-5) > 1e-10 {
		t.Errorf("polygon label should sit at the centroid, got %v", result.LabelPosition)
	}
}

func TestMeasurePolygonAngleCount(t *testing.T) {
	m := NewMeasurer(Planar)
	for n := 3; n <= 12; n++ {
		g := geometry.New(geometry.Polygon)
		for i := 0; i < n; i++ {
			a := 2 * math.Pi * float64(i) / float64(n)
			g.Append(orb.Point{100 * math.Cos(a), 100 * math.Sin(a)})
		}

		result := m.Measure(g, false)
		if len(result.Angles) != n {
			t.Errorf("polygon with %d vertices: expected %d angles, got %d", n, n, len(result.Angles))
		}
	}
}

func TestMeasurePolygonDirectionInvariant(t *testing.T) {
	m := NewMeasurer(Planar)
	pts := []orb.Point{{0, 0}, {7, 1}, {9, 6}, {3, 9}, {-2, 4}}

	reversed := make([]orb.Point, len(pts))
	for i, p := range pts {
		reversed[len(pts)-1-i] = p
	}

	forward := m.Measure(polygon(pts...), false)
	backward := m.Measure(polygon(reversed...), false)

	for _, a := range forward.Angles {
		b := backward.Angles[len(pts)-1-a.VertexIndex]
		if math.Abs(a.Radians-b.Radians) > 1e-10 {
			t.Errorf("angle at %v depends on direction: %v vs %v", a.Position, a.Radians, b.Radians)
		}
	}
	if math.Abs(forward.TotalArea-backward.TotalArea) > 1e-10 {
		t.Errorf("area depends on direction: %v vs %v", forward.TotalArea, backward.TotalArea)
	}
}

func TestMeasureSuppressAngles(t *testing.T) {
	m := NewMeasurer(Planar)
	result := m.Measure(line(orb.Point{0, 0}, orb.Point{0, 10}, orb.Point{10, 10}, orb.Point{10, 20}), true)

	if len(result.Angles) != 0 {
		t.Errorf("expected no angles when suppressed, got %d", len(result.Angles))
	}
	if result.SegmentCount() != 3 {
		t.Errorf("segments should still be measured, got %d", result.SegmentCount())
	}
}

func TestMeasureInvalidGeometry(t *testing.T) {
	m := NewMeasurer(Planar)

	if result := m.Measure(line(orb.Point{0, 0}), false); result.Valid {
		t.Errorf("single vertex line should be invalid")
	}
	if result := m.Measure(polygon(orb.Point{0, 0}, orb.Point{1, 1}), false); result.Valid || result.Kind != geometry.Polygon {
		t.Errorf("two vertex polygon should be invalid, got %+v", result)
	}
	if result := m.Measure(nil, false); result.Valid {
		t.Errorf("nil geometry should be invalid")
	}
}

func TestMeasureGeodesicAlongEquator(t *testing.T) {
	m := NewMeasurer(Geodesic)
	result := m.Measure(line(orb.Point{0, 0}, orb.Point{1000, 0}), false)

	if math.Abs(result.TotalLength-1000) > 0.5 {
		t.Errorf("geodesic length along the equator failed: expected ~1000, got %v", result.TotalLength)
	}
	if math.Abs(result.Segments[0].Length-result.TotalLength) > 1e-6 {
		t.Errorf("segment and total length disagree: %v vs %v", result.Segments[0].Length, result.TotalLength)
	}
}

func TestMeasureGeodesicShrinksAtHighLatitude(t *testing.T) {
	m := NewMeasurer(Geodesic)
	north := project.WGS84.ToMercator(orb.Point{0, 60})
	result := m.Measure(line(north, orb.Point{north[0] + 1000, north[1]}), false)

	// Mercator stretches by 1/cos(lat), so 1000 projected units are ~500 m at 60°N
	if math.Abs(result.TotalLength-500) > 1 {
		t.Errorf("geodesic length at 60°N failed: expected ~500, got %v", result.TotalLength)
	}
}

func TestMeasureDoesNotMutateGeometry(t *testing.T) {
	m := NewMeasurer(Geodesic)
	g := polygon(orb.Point{0, 0}, orb.Point{1000, 0}, orb.Point{1000, 1000})
	before := g.Clone()

	m.Measure(g, false)

	for i := range g.Vertices {
		if !g.Vertices[i].Equal(before.Vertices[i]) {
			t.Errorf("vertex %d changed from %v to %v", i, before.Vertices[i], g.Vertices[i])
		}
	}
}

func TestSummary(t *testing.T) {
	m := NewMeasurer(Planar)

	lineResult := m.Measure(line(orb.Point{0, 0}, orb.Point{0, 10}, orb.Point{10, 10}), false)
	if got := Summary(lineResult, Metric); got != "Length: 20 m" {
		t.Errorf("line summary failed: got %q", got)
	}

	polyResult := m.Measure(polygon(orb.Point{0, 0}, orb.Point{10, 0}, orb.Point{10, 10}, orb.Point{0, 10}), false)
	if got := Summary(polyResult, Metric); got != "Area: 100 m², Perimeter: 40 m" {
		t.Errorf("polygon summary failed: got %q", got)
	}
	if got := LabelText(polyResult, Metric); got != "100 m²" {
		t.Errorf("polygon label failed: got %q", got)
	}
}

func TestParseMode(t *testing.T) {
	if mode, err := ParseMode("planar"); err != nil || mode != Planar {
		t.Errorf("ParseMode(planar) failed: %v, %v", mode, err)
	}
	if _, err := ParseMode("flat-earth"); err == nil {
		t.Errorf("ParseMode should reject unknown modes")
	}
}
