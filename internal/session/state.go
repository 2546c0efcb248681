package session

import (
	"github.com/philipparndt/mapmeasure/pkg/geometry"
)

// State is the interaction state of a session
type State int

const (
	// Idle has no active or committed geometry
	Idle State = iota
	// Drawing accumulates vertices of the active sketch
	Drawing
	// Drawn rests with at least one committed geometry
	Drawn
	// Modifying reshapes one committed geometry
	Modifying
)

// String returns the name of the state
func (s State) String() string {
	switch s {
	case Drawing:
		return "drawing"
	case Drawn:
		return "drawn"
	case Modifying:
		return "modifying"
	default:
		return "idle"
	}
}

// sketchState holds the geometry of the running draw session
type sketchState struct {
	geometry       *geometry.Geometry
	suppressAngles bool
	// resting is the state to return to when the sketch is discarded
	resting State
}

// modifyState holds the geometry of the running modify session
type modifyState struct {
	id             string
	geometry       *geometry.Geometry
	original       *geometry.Geometry
	suppressAngles bool
}

// interactionState mirrors which pointer interactions the host should enable.
// Drawing and modifying are never enabled together.
type interactionState struct {
	drawEnabled   bool
	modifyEnabled bool
}
