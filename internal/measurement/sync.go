package measurement

import (
	"log/slog"

	"github.com/paulmach/orb/geojson"
	"github.com/philipparndt/mapmeasure/internal/log"
	"github.com/philipparndt/mapmeasure/internal/overlay"
	"github.com/philipparndt/mapmeasure/pkg/analysis"
)

// Synchronizer keeps the annotation markers in an overlay consistent with
// the measured geometries
type Synchronizer struct {
	Scope  Scope
	logger *slog.Logger
}

// NewSynchronizer creates a synchronizer with the given angle marker scope
func NewSynchronizer(scope Scope) *Synchronizer {
	return &Synchronizer{
		Scope:  scope,
		logger: log.WithComponent("sync"),
	}
}

// Labels returns the complete annotation set of a target: one marker per
// angle sample, the summary label and, if enabled, one label per segment.
// An invalid result has no annotations.
func Labels(t Target) []Label {
	r := t.Result
	if !r.Valid {
		return nil
	}

	labels := make([]Label, 0, len(r.Angles)+1+len(r.Segments))
	for _, a := range r.Angles {
		labels = append(labels, angleLabel(t.OwnerID, a.VertexIndex, analysis.FormatAngle(a.Radians, t.Display.AngleUnit), a.Position))
	}

	labels = append(labels, summaryLabel(t.OwnerID, analysis.LabelText(r, t.Display.Unit), r.LabelPosition))

	if t.Display.ShowSegments {
		for i, s := range r.Segments {
			labels = append(labels, segmentLabel(t.OwnerID, i, analysis.FormatLength(s.Length, t.Display.Unit), s.Segment.Midpoint()))
		}
	}
	return labels
}

// Sync replaces the annotation set of the target in one transaction.
// Old angle markers are removed according to the scope, the target's
// segment labels are replaced and its summary label is updated in place.
// Extra features, such as the geometry itself, are committed in the same
// transaction.
func (s *Synchronizer) Sync(store overlay.Store, t Target, extra ...*geojson.Feature) overlay.Change {
	tx := overlay.NewTx().Put(extra...)

	for _, f := range store.Features() {
		owner := OwnerOf(f)
		switch KindOf(f) {
		case KindAngle:
			if s.Scope == ScopeGlobal || owner == t.OwnerID {
				tx.Remove(overlay.FeatureID(f))
			}
		case KindLabel, KindSegment:
			if owner == t.OwnerID {
				tx.Remove(overlay.FeatureID(f))
			}
		}
	}

	labels := Labels(t)
	for _, l := range labels {
		tx.Put(l.Feature())
	}

	change := store.Apply(tx)
	s.logger.Debug("annotations synchronized",
		slog.String("owner", t.OwnerID),
		slog.Int("markers", len(labels)),
		slog.Int("removed", len(change.Removed)),
		slog.Int("added", len(change.Added)),
		slog.Int("updated", len(change.Updated)))
	return change
}

// Relabel refreshes the texts of a target's annotations after a display
// change. Angle markers are only rewritten if they are still present, so
// markers removed by a global sync do not come back.
func (s *Synchronizer) Relabel(store overlay.Store, t Target) overlay.Change {
	owned := Owned(store, t.OwnerID)
	tx := overlay.NewTx()

	present := make(map[string]bool)
	for _, f := range owned[KindAngle] {
		present[overlay.FeatureID(f)] = true
	}
	for _, f := range owned[KindLabel] {
		tx.Remove(overlay.FeatureID(f))
	}
	for _, f := range owned[KindSegment] {
		tx.Remove(overlay.FeatureID(f))
	}

	for _, l := range Labels(t) {
		if l.Kind == KindAngle {
			if !present[l.ID] {
				continue
			}
			delete(present, l.ID)
		}
		tx.Put(l.Feature())
	}
	for id := range present {
		tx.Remove(id)
	}

	return store.Apply(tx)
}

// Remove drops every annotation owned by a geometry
func (s *Synchronizer) Remove(store overlay.Store, owner string) overlay.Change {
	tx := overlay.NewTx()
	for _, features := range Owned(store, owner) {
		for _, f := range features {
			tx.Remove(overlay.FeatureID(f))
		}
	}
	return store.Apply(tx)
}
