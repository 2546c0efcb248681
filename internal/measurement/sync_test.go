package measurement

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/philipparndt/mapmeasure/internal/overlay"
	"github.com/philipparndt/mapmeasure/pkg/analysis"
	"github.com/philipparndt/mapmeasure/pkg/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var measurer = analysis.NewMeasurer(analysis.Planar)

func target(owner string, kind geometry.Kind, display Display, points ...orb.Point) Target {
	g := &geometry.Geometry{Kind: kind, Vertices: points}
	return Target{
		OwnerID:  owner,
		Geometry: g,
		Result:   measurer.Measure(g, false),
		Display:  display,
	}
}

func rightAngle(owner string) Target {
	return target(owner, geometry.Line, Display{}, orb.Point{0, 0}, orb.Point{0, 10}, orb.Point{10, 10})
}

func square(owner string) Target {
	return target(owner, geometry.Polygon, Display{}, orb.Point{0, 0}, orb.Point{10, 0}, orb.Point{10, 10}, orb.Point{0, 10})
}

func countKind(store overlay.Store, kind Kind) int {
	n := 0
	for _, f := range store.Features() {
		if KindOf(f) == kind {
			n++
		}
	}
	return n
}

func TestSyncCreatesAnnotationSet(t *testing.T) {
	store := overlay.NewMemory()
	sync := NewSynchronizer(ScopeGlobal)

	sync.Sync(store, rightAngle("a"))

	assert.Equal(t, 1, countKind(store, KindAngle))
	assert.Equal(t, 1, countKind(store, KindLabel))
	assert.Equal(t, 0, countKind(store, KindSegment))

	angle, ok := store.Feature(angleID("a", 1))
	require.True(t, ok)
	assert.Equal(t, "90°", angle.Properties.MustString(PropText))
	assert.Equal(t, orb.Point{0, 10}, angle.Geometry)

	label, ok := store.Feature(labelID("a"))
	require.True(t, ok)
	assert.Equal(t, "20 m", label.Properties.MustString(PropText))
	assert.Equal(t, orb.Point{10, 10}, label.Geometry)
}

func TestSyncIsIdempotent(t *testing.T) {
	store := overlay.NewMemory()
	sync := NewSynchronizer(ScopeGlobal)
	tgt := square("a")
	tgt.Display.ShowSegments = true

	sync.Sync(store, tgt)
	first := store.Features()

	change := sync.Sync(store, tgt)
	second := store.Features()

	assert.Empty(t, change.Added)
	assert.Empty(t, change.Removed)
	assert.ElementsMatch(t, first, second)
	assert.Equal(t, 4, countKind(store, KindAngle))
	assert.Equal(t, 1, countKind(store, KindLabel))
	assert.Equal(t, 4, countKind(store, KindSegment))
}

func TestSyncReplacesAfterMutation(t *testing.T) {
	store := overlay.NewMemory()
	sync := NewSynchronizer(ScopeGlobal)

	sync.Sync(store, square("a"))
	require.Equal(t, 4, countKind(store, KindAngle))

	triangle := target("a", geometry.Polygon, Display{}, orb.Point{0, 0}, orb.Point{10, 0}, orb.Point{10, 10})
	sync.Sync(store, triangle)

	assert.Equal(t, 3, countKind(store, KindAngle), "no stale angle may survive a recompute")
	assert.Equal(t, 1, countKind(store, KindLabel))

	label, _ := store.Feature(labelID("a"))
	assert.Equal(t, "50 m²", label.Properties.MustString(PropText))
}

func TestSyncIsAtomicForListeners(t *testing.T) {
	store := overlay.NewMemory()
	sync := NewSynchronizer(ScopeGlobal)
	sync.Sync(store, square("a"))

	var observed []int
	store.Subscribe(func(overlay.Change) {
		observed = append(observed, countKind(store, KindAngle))
	})

	sync.Sync(store, rightAngle("a"))

	assert.Equal(t, []int{1}, observed)
}

func TestSyncGlobalScopeRemovesOtherAngles(t *testing.T) {
	store := overlay.NewMemory()
	sync := NewSynchronizer(ScopeGlobal)

	sync.Sync(store, square("a"))
	sync.Sync(store, rightAngle("b"))

	owned := Owned(store, "a")
	assert.Empty(t, owned[KindAngle], "global scope keeps only the latest angles")
	assert.Len(t, owned[KindLabel], 1, "labels of other geometries stay")
	assert.Len(t, Owned(store, "b")[KindAngle], 1)
}

func TestSyncGeometryScopeKeepsOtherAngles(t *testing.T) {
	store := overlay.NewMemory()
	sync := NewSynchronizer(ScopeGeometry)

	sync.Sync(store, square("a"))
	sync.Sync(store, rightAngle("b"))

	assert.Len(t, Owned(store, "a")[KindAngle], 4)
	assert.Len(t, Owned(store, "b")[KindAngle], 1)
	assert.Equal(t, 5, countKind(store, KindAngle))
}

func TestSyncSuppressedAngles(t *testing.T) {
	store := overlay.NewMemory()
	sync := NewSynchronizer(ScopeGlobal)

	tgt := rightAngle("a")
	tgt.Result = measurer.Measure(tgt.Geometry, true)
	sync.Sync(store, tgt)

	assert.Equal(t, 0, countKind(store, KindAngle))
	assert.Equal(t, 1, countKind(store, KindLabel))
}

func TestSyncInvalidResultRemovesSet(t *testing.T) {
	store := overlay.NewMemory()
	sync := NewSynchronizer(ScopeGlobal)
	sync.Sync(store, rightAngle("a"))

	invalid := target("a", geometry.Line, Display{}, orb.Point{0, 0})
	sync.Sync(store, invalid)

	assert.Equal(t, 0, store.Len())
}

func TestSyncSegmentsToggle(t *testing.T) {
	store := overlay.NewMemory()
	sync := NewSynchronizer(ScopeGlobal)

	tgt := rightAngle("a")
	tgt.Display.ShowSegments = true
	sync.Sync(store, tgt)

	require.Equal(t, 2, countKind(store, KindSegment))
	seg, ok := store.Feature(segmentID("a", 0))
	require.True(t, ok)
	assert.Equal(t, orb.Point{0, 5}, seg.Geometry)
	assert.Equal(t, "10 m", seg.Properties.MustString(PropText))

	tgt.Display.ShowSegments = false
	sync.Sync(store, tgt)
	assert.Equal(t, 0, countKind(store, KindSegment))
}

func TestRelabelKeepsRemovedAnglesRemoved(t *testing.T) {
	store := overlay.NewMemory()
	sync := NewSynchronizer(ScopeGlobal)

	a := square("a")
	b := rightAngle("b")
	sync.Sync(store, a)
	sync.Sync(store, b)

	a.Display = Display{Unit: analysis.Imperial, AngleUnit: analysis.Radians}
	b.Display = a.Display
	sync.Relabel(store, a)
	sync.Relabel(store, b)

	assert.Empty(t, Owned(store, "a")[KindAngle])

	angle, ok := store.Feature(angleID("b", 1))
	require.True(t, ok)
	assert.Equal(t, "1.57 rad", angle.Properties.MustString(PropText))

	label, _ := store.Feature(labelID("a"))
	assert.Equal(t, "0 mi²", label.Properties.MustString(PropText))
}

func TestRemove(t *testing.T) {
	store := overlay.NewMemory()
	sync := NewSynchronizer(ScopeGeometry)
	sync.Sync(store, square("a"))
	sync.Sync(store, rightAngle("b"))

	sync.Remove(store, "a")

	assert.Empty(t, Owned(store, "a"))
	assert.NotEmpty(t, Owned(store, "b"))
}

func TestMarkersHaveOwnStyleValues(t *testing.T) {
	store := overlay.NewMemory()
	sync := NewSynchronizer(ScopeGlobal)
	sync.Sync(store, square("a"))

	var styles []Style
	for _, f := range store.Features() {
		if KindOf(f) == KindAngle {
			styles = append(styles, StyleOf(f))
		}
	}
	require.Len(t, styles, 4)

	styles[0].Radius = 99
	assert.Equal(t, float32(5), styles[1].Radius)
	assert.Equal(t, AngleStyle(), styles[1])
}

func TestGeometryFeatureRoundTrip(t *testing.T) {
	g := &geometry.Geometry{Kind: geometry.Polygon, Vertices: []orb.Point{{0, 0}, {4, 0}, {4, 3}}}
	f := GeometryFeature("poly", g, true)

	assert.Equal(t, KindGeometry, KindOf(f))
	assert.Equal(t, "poly", OwnerOf(f))

	back, suppress, err := GeometryFromFeature(f)
	require.NoError(t, err)
	assert.True(t, suppress)
	assert.Equal(t, g.Vertices, back.Vertices)
	assert.Equal(t, geometry.Polygon, back.Kind)

	_, _, err = GeometryFromFeature(geojson.NewFeature(orb.Point{1, 1}))
	assert.Error(t, err)
}

func TestLabelFromFeature(t *testing.T) {
	l := angleLabel("a", 2, "45°", orb.Point{3, 4})
	back, ok := LabelFromFeature(l.Feature())

	require.True(t, ok)
	assert.Equal(t, l, back)
}

func TestParseScope(t *testing.T) {
	scope, err := ParseScope("geometry")
	require.NoError(t, err)
	assert.Equal(t, ScopeGeometry, scope)

	_, err = ParseScope("everything")
	assert.Error(t, err)
}
