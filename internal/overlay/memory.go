package overlay

import (
	"sync"

	"github.com/google/uuid"
	"github.com/mohae/deepcopy"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Memory is an in-process Store
type Memory struct {
	mu        sync.RWMutex
	order     []string
	features  map[string]*geojson.Feature
	revision  uint64
	listeners []func(Change)
}

// NewMemory creates an empty in-memory store
func NewMemory() *Memory {
	return &Memory{
		features: make(map[string]*geojson.Feature),
	}
}

// AddFeature adds a feature and returns its id
func (m *Memory) AddFeature(f *geojson.Feature) string {
	change := m.Apply(NewTx().Put(f))
	if len(change.Added) > 0 {
		return change.Added[0]
	}
	if len(change.Updated) > 0 {
		return change.Updated[0]
	}
	return ""
}

// RemoveFeature removes the feature with the given id
func (m *Memory) RemoveFeature(id string) bool {
	change := m.Apply(NewTx().Remove(id))
	return len(change.Removed) > 0
}

// Features returns copies of all features in insertion order
func (m *Memory) Features() []*geojson.Feature {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*geojson.Feature, 0, len(m.order))
	for _, id := range m.order {
		result = append(result, cloneFeature(m.features[id]))
	}
	return result
}

// Feature returns a copy of the feature with the given id
func (m *Memory) Feature(id string) (*geojson.Feature, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	f, ok := m.features[id]
	if !ok {
		return nil, false
	}
	return cloneFeature(f), true
}

// Len returns the number of features
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.order)
}

// Revision returns the number of committed changes
func (m *Memory) Revision() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.revision
}

// Clear removes all features
func (m *Memory) Clear() {
	m.mu.Lock()
	if len(m.order) == 0 {
		m.mu.Unlock()
		return
	}
	change := Change{Cleared: true, Removed: m.order}
	m.order = nil
	m.features = make(map[string]*geojson.Feature)
	m.revision++
	change.Revision = m.revision
	listeners := m.listeners
	m.mu.Unlock()

	notify(listeners, change)
}

// Apply commits a batch of removals and additions. Listeners are notified
// once, after the whole batch is visible.
func (m *Memory) Apply(tx *Tx) Change {
	if tx == nil || tx.Empty() {
		return Change{}
	}

	m.mu.Lock()
	var change Change

	for _, id := range tx.removes {
		if _, ok := m.features[id]; !ok {
			continue
		}
		delete(m.features, id)
		m.order = removeID(m.order, id)
		change.Removed = append(change.Removed, id)
	}

	for _, f := range tx.puts {
		if f == nil {
			continue
		}
		stored := cloneFeature(f)
		id := FeatureID(stored)
		if id == "" {
			id = uuid.NewString()
			stored.ID = id
		}
		if _, exists := m.features[id]; exists {
			change.Updated = append(change.Updated, id)
		} else {
			m.order = append(m.order, id)
			change.Added = append(change.Added, id)
		}
		m.features[id] = stored
	}

	// A feature removed and re-added in the same batch counts as updated
	change.Removed, change.Added, change.Updated = collapse(change.Removed, change.Added, change.Updated)

	if change.Empty() {
		m.mu.Unlock()
		return change
	}

	m.revision++
	change.Revision = m.revision
	listeners := m.listeners
	m.mu.Unlock()

	notify(listeners, change)
	return change
}

// Subscribe registers a listener that is called after every change
func (m *Memory) Subscribe(fn func(Change)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, fn)
}

// Snapshot returns a deep copy of the layer as a feature collection
func (m *Memory) Snapshot() *geojson.FeatureCollection {
	m.mu.RLock()
	fc := geojson.NewFeatureCollection()
	for _, id := range m.order {
		fc.Append(m.features[id])
	}
	copied := deepcopy.Copy(fc).(*geojson.FeatureCollection)
	m.mu.RUnlock()
	return copied
}

func notify(listeners []func(Change), change Change) {
	for _, fn := range listeners {
		fn(change)
	}
}

func cloneFeature(f *geojson.Feature) *geojson.Feature {
	c := &geojson.Feature{
		ID:         f.ID,
		Type:       f.Type,
		Properties: f.Properties.Clone(),
	}
	if f.Geometry != nil {
		c.Geometry = orb.Clone(f.Geometry)
	}
	if c.Type == "" {
		c.Type = "Feature"
	}
	if c.Properties == nil {
		c.Properties = make(geojson.Properties)
	}
	return c
}

func removeID(ids []string, id string) []string {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}

func collapse(removed, added, updated []string) ([]string, []string, []string) {
	readded := make(map[string]bool)
	for _, id := range added {
		readded[id] = true
	}

	var keptRemoved []string
	for _, id := range removed {
		if readded[id] {
			updated = append(updated, id)
			delete(readded, id)
			continue
		}
		keptRemoved = append(keptRemoved, id)
	}

	var keptAdded []string
	for _, id := range added {
		if readded[id] {
			keptAdded = append(keptAdded, id)
		}
	}
	return keptRemoved, keptAdded, updated
}
