package geometry

import (
	"math"

	"github.com/paulmach/orb"
)

// InteriorAngle returns the unsigned turn angle at b for the path a -> b -> c,
// in radians within [0, π]. The result does not depend on traversal direction.
// Coincident consecutive points have no bearing and yield 0.
func InteriorAngle(a, b, c orb.Point) float64 {
	if a.Equal(b) || b.Equal(c) {
		return 0
	}

	bearing1 := math.Atan2(b[1]-a[1], b[0]-a[0])
	bearing2 := math.Atan2(c[1]-b[1], c[0]-b[0])

	angle := math.Abs(bearing2 - bearing1)
	if angle > math.Pi {
		angle = 2*math.Pi - angle
	}
	return angle
}

// AngleVertices returns the indices of the vertices that carry an angle, with
// the neighbours used for each. Open lines skip both endpoints; polygons wrap
// around so every vertex, including the seam, gets exactly one angle.
func (g *Geometry) AngleVertices() [][3]int {
	n := len(g.Vertices)
	var triples [][3]int

	if g.Kind == Polygon {
		if n < 3 {
			return nil
		}
		for i := 0; i < n; i++ {
			triples = append(triples, [3]int{(i - 1 + n) % n, i, (i + 1) % n})
		}
		return triples
	}

	for i := 1; i < n-1; i++ {
		triples = append(triples, [3]int{i - 1, i, i + 1})
	}
	return triples
}
