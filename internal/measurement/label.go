package measurement

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/philipparndt/mapmeasure/internal/overlay"
)

// Label is a text marker placed on the map for a measurement
type Label struct {
	ID       string
	Kind     Kind
	Owner    string
	Text     string
	Position orb.Point
	// Index is the vertex of an angle or the segment of a segment label
	Index int
	Style Style
}

// Feature converts the label into an overlay point feature
func (l Label) Feature() *geojson.Feature {
	f := geojson.NewFeature(l.Position)
	f.ID = l.ID
	f.Properties[PropKind] = string(l.Kind)
	f.Properties[PropOwner] = l.Owner
	f.Properties[PropText] = l.Text
	switch l.Kind {
	case KindAngle:
		f.Properties[PropVertex] = l.Index
	case KindSegment:
		f.Properties[PropSegment] = l.Index
	}
	l.Style.apply(f.Properties)
	return f
}

// LabelFromFeature reads a label back from an overlay point feature
func LabelFromFeature(f *geojson.Feature) (Label, bool) {
	p, ok := f.Geometry.(orb.Point)
	if !ok {
		return Label{}, false
	}
	l := Label{
		ID:       overlay.FeatureID(f),
		Kind:     KindOf(f),
		Owner:    OwnerOf(f),
		Text:     f.Properties.MustString(PropText, ""),
		Position: p,
		Style:    StyleOf(f),
	}
	switch l.Kind {
	case KindAngle:
		l.Index = f.Properties.MustInt(PropVertex, 0)
	case KindSegment:
		l.Index = f.Properties.MustInt(PropSegment, 0)
	case KindLabel:
	default:
		return Label{}, false
	}
	return l, true
}

func angleLabel(owner string, vertex int, text string, pos orb.Point) Label {
	return Label{
		ID:       angleID(owner, vertex),
		Kind:     KindAngle,
		Owner:    owner,
		Text:     text,
		Position: pos,
		Index:    vertex,
		Style:    AngleStyle(),
	}
}

func summaryLabel(owner, text string, pos orb.Point) Label {
	return Label{
		ID:       labelID(owner),
		Kind:     KindLabel,
		Owner:    owner,
		Text:     text,
		Position: pos,
		Style:    LabelStyle(),
	}
}

func segmentLabel(owner string, index int, text string, pos orb.Point) Label {
	return Label{
		ID:       segmentID(owner, index),
		Kind:     KindSegment,
		Owner:    owner,
		Text:     text,
		Position: pos,
		Index:    index,
		Style:    SegmentStyle(),
	}
}
