// Package overlay holds the vector features drawn on top of the map: the
// measured geometries and the annotation markers that describe them.
package overlay

import (
	"github.com/paulmach/orb/geojson"
)

// Store is the feature layer the measurement engine writes to
type Store interface {
	// AddFeature adds a feature and returns its id. A feature without an id
	// gets a new one; a feature with an existing id replaces it.
	AddFeature(f *geojson.Feature) string
	// RemoveFeature removes the feature with the given id
	RemoveFeature(id string) bool
	// Features returns copies of all features in insertion order
	Features() []*geojson.Feature
	// Feature returns a copy of the feature with the given id
	Feature(id string) (*geojson.Feature, bool)
	// Clear removes all features
	Clear()
	// Apply commits a batch of removals and additions as one change
	Apply(tx *Tx) Change
	// Subscribe registers a listener that is called after every change
	Subscribe(fn func(Change))
	// Snapshot returns a deep copy of the layer as a feature collection
	Snapshot() *geojson.FeatureCollection
}

// Tx collects removals and additions that must become visible together.
// Removals are applied before additions.
type Tx struct {
	removes []string
	puts    []*geojson.Feature
}

// NewTx creates an empty transaction
func NewTx() *Tx {
	return &Tx{}
}

// Remove schedules removal of a feature by id
func (tx *Tx) Remove(ids ...string) *Tx {
	tx.removes = append(tx.removes, ids...)
	return tx
}

// Put schedules adding a feature, replacing any feature with the same id
func (tx *Tx) Put(features ...*geojson.Feature) *Tx {
	tx.puts = append(tx.puts, features...)
	return tx
}

// Empty reports whether the transaction does nothing
func (tx *Tx) Empty() bool {
	return len(tx.removes) == 0 && len(tx.puts) == 0
}

// Change describes the effect of a committed transaction
type Change struct {
	Revision uint64
	Added    []string
	Updated  []string
	Removed  []string
	Cleared  bool
}

// Empty reports whether the change did not touch any feature
func (c Change) Empty() bool {
	return !c.Cleared && len(c.Added) == 0 && len(c.Updated) == 0 && len(c.Removed) == 0
}

// FeatureID returns the string id of a feature, or "" when it has none
func FeatureID(f *geojson.Feature) string {
	if f == nil {
		return ""
	}
	if id, ok := f.ID.(string); ok {
		return id
	}
	return ""
}
