package viewer

import (
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"github.com/paulmach/orb"
	"github.com/philipparndt/mapmeasure/internal/measurement"
	"github.com/philipparndt/mapmeasure/internal/overlay"
	"github.com/philipparndt/mapmeasure/pkg/geometry"
)

func hoverAt(r *MapRenderer, x, y float64) bool {
	var over bool
	r.SetOnHover(func(_ orb.Point, overVertex bool) {
		over = overVertex
	})
	r.MouseMoved(&desktop.MouseEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(float32(x), float32(y))}})
	return over
}

func TestHoverReportsVertex(t *testing.T) {
	store := overlay.NewMemory()
	line := &geometry.Geometry{Kind: geometry.Line, Vertices: []orb.Point{{0, 0}, {0, 100}, {100, 100}}}
	store.AddFeature(measurement.GeometryFeature("line-1", line, false))

	r := NewMapRenderer(store, orb.Bound{Min: orb.Point{-50, -50}, Max: orb.Point{150, 150}})

	x, y := r.Camera().Project(orb.Point{0, 100})
	if !hoverAt(r, x+2, y-2) {
		t.Errorf("pointer next to a vertex should report the vertex")
	}

	mx, my := r.Camera().Project(orb.Point{50, 50})
	if hoverAt(r, mx, my) {
		t.Errorf("pointer away from the vertices should not report a vertex")
	}
}

func TestVertexAtPicksNearest(t *testing.T) {
	store := overlay.NewMemory()
	poly := &geometry.Geometry{Kind: geometry.Polygon, Vertices: []orb.Point{{0, 0}, {100, 0}, {100, 100}}}
	store.AddFeature(measurement.GeometryFeature("poly-1", poly, false))

	r := NewMapRenderer(store, orb.Bound{Min: orb.Point{-50, -50}, Max: orb.Point{150, 150}})

	x, y := r.Camera().Project(orb.Point{100, 100})
	id, index, ok := r.vertexAt(x, y)
	if !ok || id != "poly-1" || index != 2 {
		t.Errorf("vertexAt() = %q, %d, %v; want poly-1, 2, true", id, index, ok)
	}
}
