package session

import (
	"github.com/paulmach/orb"
)

// Event is an input to the session state machine
type Event interface {
	// Name identifies the event in logs, scripts and feed messages
	Name() string
}

// DrawStart begins a new drawing. Shift is the modifier key state at the
// first click and suppresses angles for the whole drawing.
type DrawStart struct {
	Shift bool
}

// AddVertex appends a vertex to the active drawing, starting one if needed
type AddVertex struct {
	Point orb.Point
}

// DrawEnd finishes the active drawing
type DrawEnd struct{}

// DrawAbort discards the active drawing
type DrawAbort struct{}

// ModifyStart begins reshaping a committed geometry
type ModifyStart struct {
	ID string
}

// MoveVertex moves one vertex of the geometry being modified
type MoveVertex struct {
	Index int
	Point orb.Point
}

// InsertVertex inserts a vertex before Index; Index equal to the vertex count appends
type InsertVertex struct {
	Index int
	Point orb.Point
}

// RemoveVertex removes one vertex of the geometry being modified
type RemoveVertex struct {
	Index int
}

// ModifyEnd finishes the modify session
type ModifyEnd struct{}

// ModifyAbort restores the geometry as it was at ModifyStart
type ModifyAbort struct{}

// SetModifiers replaces the session modifiers
type SetModifiers struct {
	Modifiers Modifiers
}

// ClearLog empties the drawing log
type ClearLog struct{}

// ClearMap removes all committed geometries and their annotations
type ClearMap struct{}

func (DrawStart) Name() string    { return "draw_start" }
func (AddVertex) Name() string    { return "add_vertex" }
func (DrawEnd) Name() string      { return "draw_end" }
func (DrawAbort) Name() string    { return "draw_abort" }
func (ModifyStart) Name() string  { return "modify_start" }
func (MoveVertex) Name() string   { return "move_vertex" }
func (InsertVertex) Name() string { return "insert_vertex" }
func (RemoveVertex) Name() string { return "remove_vertex" }
func (ModifyEnd) Name() string    { return "modify_end" }
func (ModifyAbort) Name() string  { return "modify_abort" }
func (SetModifiers) Name() string { return "set_modifiers" }
func (ClearLog) Name() string     { return "clear_log" }
func (ClearMap) Name() string     { return "clear_map" }
