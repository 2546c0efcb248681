package measurement

import (
	"fmt"
	"strings"

	"github.com/paulmach/orb/geojson"
	"github.com/philipparndt/mapmeasure/internal/overlay"
	"github.com/philipparndt/mapmeasure/pkg/analysis"
	"github.com/philipparndt/mapmeasure/pkg/geometry"
)

// Kind tells the overlay features of a measurement apart
type Kind string

const (
	KindGeometry Kind = "geometry"
	KindAngle    Kind = "angle"
	KindLabel    Kind = "label"
	KindSegment  Kind = "segment"
)

// Feature property keys
const (
	PropKind           = "kind"
	PropOwner          = "owner"
	PropText           = "text"
	PropVertex         = "vertex"
	PropSegment        = "segment"
	PropGeometryType   = "geometry_type"
	PropSuppressAngles = "suppress_angles"
)

// Scope decides which angle markers a synchronization replaces
type Scope int

const (
	// ScopeGlobal replaces every angle marker in the overlay, so only the
	// geometry synchronized last shows its angles
	ScopeGlobal Scope = iota
	// ScopeGeometry only replaces the angle markers of the synchronized geometry
	ScopeGeometry
)

// String returns the config name of the scope
func (s Scope) String() string {
	if s == ScopeGeometry {
		return "geometry"
	}
	return "global"
}

// ParseScope converts a scope name into a Scope
func ParseScope(s string) (Scope, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "global", "":
		return ScopeGlobal, nil
	case "geometry", "per-geometry":
		return ScopeGeometry, nil
	}
	return ScopeGlobal, fmt.Errorf("unknown annotation scope: %q (expected global or geometry)", s)
}

// Display holds the modifiers that change how a measurement is annotated
type Display struct {
	Unit         analysis.Unit
	AngleUnit    analysis.AngleUnit
	ShowSegments bool
}

// Target is one measured geometry and everything needed to annotate it
type Target struct {
	OwnerID  string
	Geometry *geometry.Geometry
	Result   analysis.Result
	Display  Display
}

// KindOf returns the measurement kind of an overlay feature
func KindOf(f *geojson.Feature) Kind {
	if f == nil {
		return ""
	}
	return Kind(f.Properties.MustString(PropKind, ""))
}

// OwnerOf returns the id of the geometry an overlay feature belongs to
func OwnerOf(f *geojson.Feature) string {
	if f == nil {
		return ""
	}
	return f.Properties.MustString(PropOwner, "")
}

// GeometryFeature builds the overlay feature of a measured geometry
func GeometryFeature(id string, g *geometry.Geometry, suppressAngles bool) *geojson.Feature {
	f := geojson.NewFeature(g.Orb())
	f.ID = id
	f.Properties[PropKind] = string(KindGeometry)
	f.Properties[PropOwner] = id
	f.Properties[PropGeometryType] = g.Kind.String()
	f.Properties[PropSuppressAngles] = suppressAngles
	GeometryStyle().apply(f.Properties)
	return f
}

// GeometryFromFeature reads a measured geometry back from its overlay feature
func GeometryFromFeature(f *geojson.Feature) (*geometry.Geometry, bool, error) {
	if KindOf(f) != KindGeometry {
		return nil, false, fmt.Errorf("feature %v is not a measured geometry", f.ID)
	}
	g, err := geometry.FromOrb(f.Geometry)
	if err != nil {
		return nil, false, fmt.Errorf("feature %v: %w", f.ID, err)
	}
	return g, f.Properties.MustBool(PropSuppressAngles, false), nil
}

// Owned returns the annotation features owned by a geometry, grouped by kind.
// The geometry feature itself is not included.
func Owned(store overlay.Store, owner string) map[Kind][]*geojson.Feature {
	result := make(map[Kind][]*geojson.Feature)
	for _, f := range store.Features() {
		kind := KindOf(f)
		if kind == KindGeometry || OwnerOf(f) != owner {
			continue
		}
		result[kind] = append(result[kind], f)
	}
	return result
}

func labelID(owner string) string {
	return owner + "/label"
}

func angleID(owner string, vertex int) string {
	return fmt.Sprintf("%s/angle/%d", owner, vertex)
}

func segmentID(owner string, index int) string {
	return fmt.Sprintf("%s/segment/%d", owner, index)
}
