package geometry

import (
	"fmt"
	"strings"

	"github.com/paulmach/orb"
)

// Kind identifies whether a geometry is an open line or a closed polygon
type Kind int

const (
	Line Kind = iota
	Polygon
)

// String returns the display name of the kind
func (k Kind) String() string {
	switch k {
	case Polygon:
		return "Polygon"
	default:
		return "Line"
	}
}

// ParseKind converts a user supplied kind name into a Kind
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "line", "linestring", "":
		return Line, nil
	case "polygon":
		return Polygon, nil
	}
	return Line, fmt.Errorf("unknown geometry type: %q (expected line or polygon)", s)
}

// MinVertices returns the number of vertices needed before the kind can be finished
func (k Kind) MinVertices() int {
	if k == Polygon {
		return 3
	}
	return 2
}

// Segment is a single edge between two consecutive vertices
type Segment struct {
	Start orb.Point
	End   orb.Point
}

// Midpoint returns the point halfway along the segment
func (s Segment) Midpoint() orb.Point {
	return orb.Point{(s.Start[0] + s.End[0]) / 2, (s.Start[1] + s.End[1]) / 2}
}

// Geometry is a measured line or polygon in projected map coordinates.
// Polygon vertices are stored open: the closing vertex is implied.
type Geometry struct {
	Kind     Kind
	Vertices []orb.Point
}

// New creates an empty geometry of the given kind
func New(kind Kind) *Geometry {
	return &Geometry{
		Kind:     kind,
		Vertices: make([]orb.Point, 0),
	}
}

// FromOrb builds a geometry from an orb LineString or Polygon.
// Only the outer ring of a polygon is used.
func FromOrb(g orb.Geometry) (*Geometry, error) {
	switch v := g.(type) {
	case orb.LineString:
		return &Geometry{Kind: Line, Vertices: append([]orb.Point(nil), v...)}, nil
	case orb.Polygon:
		if len(v) == 0 {
			return nil, fmt.Errorf("polygon has no rings")
		}
		return fromRing(v[0]), nil
	case orb.Ring:
		return fromRing(v), nil
	}
	return nil, fmt.Errorf("unsupported geometry type: %s", g.GeoJSONType())
}

func fromRing(r orb.Ring) *Geometry {
	pts := append([]orb.Point(nil), r...)
	if len(pts) > 1 && pts[0].Equal(pts[len(pts)-1]) {
		pts = pts[:len(pts)-1]
	}
	return &Geometry{Kind: Polygon, Vertices: pts}
}

// Append adds a vertex. A vertex equal to the current last one is ignored
// and false is returned. Polygons are stored open, so a vertex that closes
// the ring onto the first one is ignored as well.
func (g *Geometry) Append(p orb.Point) bool {
	n := len(g.Vertices)
	if n > 0 && g.Vertices[n-1].Equal(p) {
		return false
	}
	if g.Kind == Polygon && n >= Polygon.MinVertices() && g.Vertices[0].Equal(p) {
		return false
	}
	g.Vertices = append(g.Vertices, p)
	return true
}

// Len returns the number of stored vertices
func (g *Geometry) Len() int {
	return len(g.Vertices)
}

// Valid reports whether the geometry has enough vertices to be measured
func (g *Geometry) Valid() bool {
	return g != nil && len(g.Vertices) >= g.Kind.MinVertices()
}

// Clone returns a deep copy of the geometry
func (g *Geometry) Clone() *Geometry {
	return &Geometry{
		Kind:     g.Kind,
		Vertices: append([]orb.Point(nil), g.Vertices...),
	}
}

// LineString returns the vertices as an orb LineString
func (g *Geometry) LineString() orb.LineString {
	return orb.LineString(append([]orb.Point(nil), g.Vertices...))
}

// Ring returns the closed ring of a polygon (first vertex repeated at the end)
func (g *Geometry) Ring() orb.Ring {
	ring := make(orb.Ring, 0, len(g.Vertices)+1)
	ring = append(ring, g.Vertices...)
	if len(g.Vertices) > 0 {
		ring = append(ring, g.Vertices[0])
	}
	return ring
}

// Orb returns the geometry as the matching orb type
func (g *Geometry) Orb() orb.Geometry {
	if g.Kind == Polygon {
		return orb.Polygon{g.Ring()}
	}
	return g.LineString()
}

// Segments returns the edges of the geometry. Polygons include the closing edge once.
func (g *Geometry) Segments() []Segment {
	n := len(g.Vertices)
	if n < 2 {
		return nil
	}
	count := n - 1
	if g.Kind == Polygon {
		count = n
	}
	segments := make([]Segment, 0, count)
	for i := 0; i < count; i++ {
		segments = append(segments, Segment{
			Start: g.Vertices[i],
			End:   g.Vertices[(i+1)%n],
		})
	}
	return segments
}

// SegmentCount returns the number of edges of the geometry
func (g *Geometry) SegmentCount() int {
	return len(g.Segments())
}

// Bound returns the bounding box of the vertices
func (g *Geometry) Bound() orb.Bound {
	return orb.MultiPoint(g.Vertices).Bound()
}
