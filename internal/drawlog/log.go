// Package drawlog keeps the ordered record of finished and edited drawings.
package drawlog

import (
	"fmt"
	"strings"
	"sync"

	"github.com/philipparndt/mapmeasure/pkg/analysis"
	"github.com/philipparndt/mapmeasure/pkg/geometry"
)

// Action tells whether an entry was written for a new or an edited drawing
type Action string

const (
	Drawn    Action = "drawn"
	Modified Action = "modified"
)

// Entry is an immutable summary of one drawing
type Entry struct {
	Index        int           `json:"index"`
	Action       Action        `json:"action"`
	OwnerID      string        `json:"owner"`
	Kind         geometry.Kind `json:"-"`
	KindName     string        `json:"kind"`
	TotalLength  float64       `json:"total_length,omitempty"`
	TotalArea    float64       `json:"total_area,omitempty"`
	Perimeter    float64       `json:"perimeter,omitempty"`
	SegmentCount int           `json:"segments"`
	AngleCount   int           `json:"angle_count"`
	Angles       []float64     `json:"angles,omitempty"`
	Text         string        `json:"text"`

	unit      analysis.Unit
	angleUnit analysis.AngleUnit
}

// NewEntry builds an entry from a measurement. The index and text are set by Log.Append.
func NewEntry(action Action, owner string, r analysis.Result, unit analysis.Unit, angleUnit analysis.AngleUnit) Entry {
	return Entry{
		Action:       action,
		OwnerID:      owner,
		Kind:         r.Kind,
		KindName:     r.Kind.String(),
		TotalLength:  r.TotalLength,
		TotalArea:    r.TotalArea,
		Perimeter:    r.Perimeter,
		SegmentCount: r.SegmentCount(),
		AngleCount:   len(r.Angles),
		Angles:       r.AngleRadians(),
		unit:         unit,
		angleUnit:    angleUnit,
	}
}

// Render returns the display text of the entry
func (e Entry) Render() string {
	var measure string
	if e.Kind == geometry.Polygon {
		measure = fmt.Sprintf("Area: %s, Perimeter: %s",
			analysis.FormatArea(e.TotalArea, e.unit), analysis.FormatLength(e.Perimeter, e.unit))
	} else {
		measure = "Length: " + analysis.FormatLength(e.TotalLength, e.unit)
	}
	angles := analysis.FormatAngles(e.Angles, e.angleUnit)

	if e.Action == Modified {
		return fmt.Sprintf("Modified %s: %s, Angles: %s", e.Kind, measure, angles)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Drawing %d. Type: %s\n", e.Index, e.Kind)
	fmt.Fprintf(&b, "Total lines: %d, %s, Total angles: %d, Angles: %s", e.SegmentCount, measure, e.AngleCount, angles)
	return b.String()
}

// Log is an append-only list of entries that can only be cleared as a whole
type Log struct {
	mu        sync.RWMutex
	entries   []Entry
	listeners []func([]Entry)
}

// New creates an empty log
func New() *Log {
	return &Log{}
}

// Append numbers the entry with its 1-based position, renders its text and stores it
func (l *Log) Append(e Entry) Entry {
	l.mu.Lock()
	e.Index = len(l.entries) + 1
	e.Angles = append([]float64(nil), e.Angles...)
	e.Text = e.Render()
	l.entries = append(l.entries, e)
	snapshot := l.copyLocked()
	listeners := l.listeners
	l.mu.Unlock()

	notify(listeners, snapshot)
	return e
}

// Clear removes all entries; numbering restarts at 1
func (l *Log) Clear() {
	l.mu.Lock()
	l.entries = nil
	listeners := l.listeners
	l.mu.Unlock()

	notify(listeners, nil)
}

// All returns a copy of the entries in append order
func (l *Log) All() []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.copyLocked()
}

// Len returns the number of entries
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// Subscribe registers a listener that receives the entries after every change
func (l *Log) Subscribe(fn func([]Entry)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.listeners = append(l.listeners, fn)
}

// Texts returns the rendered text of all entries
func (l *Log) Texts() []string {
	entries := l.All()
	texts := make([]string, len(entries))
	for i, e := range entries {
		texts[i] = e.Text
	}
	return texts
}

func (l *Log) copyLocked() []Entry {
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

func notify(listeners []func([]Entry), entries []Entry) {
	for _, fn := range listeners {
		fn(entries)
	}
}
