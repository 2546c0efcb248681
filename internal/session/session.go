// Package session implements the draw and modify lifecycle of measurements.
//
// A Session owns the committed geometries in an overlay store and the
// drawing log. Hosts feed it typed events; every event is processed to
// completion (metrics, annotations, log entry) before Dispatch returns.
// A Session is not safe for concurrent use: hosts serialize events.
package session

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/mohae/deepcopy"
	"github.com/paulmach/orb"
	"github.com/philipparndt/mapmeasure/internal/drawlog"
	"github.com/philipparndt/mapmeasure/internal/log"
	"github.com/philipparndt/mapmeasure/internal/measurement"
	"github.com/philipparndt/mapmeasure/internal/overlay"
	"github.com/philipparndt/mapmeasure/pkg/analysis"
	"github.com/philipparndt/mapmeasure/pkg/geometry"
)

var (
	// ErrInvalidTransition is returned for events that are not valid in the current state
	ErrInvalidTransition = errors.New("invalid transition")
	// ErrUnknownFeature is returned when a modify session names a missing geometry
	ErrUnknownFeature = errors.New("unknown feature")
	// ErrVertexIndex is returned for vertex edits outside the geometry
	ErrVertexIndex = errors.New("invalid vertex index")
)

// Tips shown next to the cursor
const (
	TipStart          = "Click to start measuring"
	TipContinuePrefix = "Click to continue drawing the "
	TipModify         = "Drag to modify"
)

// Options configures a session
type Options struct {
	Mode      analysis.Mode
	Scope     measurement.Scope
	Modifiers Modifiers
}

// DefaultOptions returns geodesic measuring with global angle markers
func DefaultOptions() Options {
	return Options{
		Mode:      analysis.Geodesic,
		Scope:     measurement.ScopeGlobal,
		Modifiers: DefaultModifiers(),
	}
}

// Session is the interaction state machine of the measurement engine
type Session struct {
	store    overlay.Store
	drawings *drawlog.Log
	measurer *analysis.Measurer
	sync     *measurement.Synchronizer
	logger   *slog.Logger

	state     State
	modifiers Modifiers
	committed []string
	// focus is the geometry that was finished or modified last
	focus  string
	sketch *sketchState
	modify *modifyState
	interactionState
}

// New creates a session writing to the given store and log
func New(store overlay.Store, drawings *drawlog.Log, opts Options) *Session {
	return &Session{
		store:            store,
		drawings:         drawings,
		measurer:         analysis.NewMeasurer(opts.Mode),
		sync:             measurement.NewSynchronizer(opts.Scope),
		logger:           log.WithComponent("session"),
		state:            Idle,
		modifiers:        opts.Modifiers,
		interactionState: interactionState{drawEnabled: true},
	}
}

// Dispatch processes one event
func (s *Session) Dispatch(e Event) error {
	var err error
	switch ev := e.(type) {
	case DrawStart:
		err = s.drawStart(ev)
	case AddVertex:
		err = s.addVertex(ev)
	case DrawEnd:
		err = s.drawEnd(ev)
	case DrawAbort:
		err = s.drawAbort(ev)
	case ModifyStart:
		err = s.modifyStart(ev)
	case MoveVertex:
		err = s.moveVertex(ev)
	case InsertVertex:
		err = s.insertVertex(ev)
	case RemoveVertex:
		err = s.removeVertex(ev)
	case ModifyEnd:
		err = s.modifyEnd(ev)
	case ModifyAbort:
		err = s.modifyAbort(ev)
	case SetModifiers:
		s.setModifiers(ev.Modifiers)
	case ClearLog:
		s.drawings.Clear()
	case ClearMap:
		err = s.clearMap(ev)
	case nil:
		err = fmt.Errorf("nil event: %w", ErrInvalidTransition)
	default:
		err = fmt.Errorf("unsupported event %T: %w", e, ErrInvalidTransition)
	}

	if err != nil {
		s.logger.Debug("event rejected", slog.String("state", s.state.String()), slog.Any("err", err))
	}
	return err
}

func (s *Session) invalid(e Event) error {
	return fmt.Errorf("%s in state %s: %w", e.Name(), s.state, ErrInvalidTransition)
}

func (s *Session) drawStart(e DrawStart) error {
	if s.state != Idle && s.state != Drawn {
		return s.invalid(e)
	}

	resting := s.state
	if s.modifiers.ClearPrevious {
		s.store.Clear()
		s.drawings.Clear()
		s.committed = nil
		s.focus = ""
		resting = Idle
	}

	s.sketch = &sketchState{
		geometry:       geometry.New(s.modifiers.Kind),
		suppressAngles: e.Shift,
		resting:        resting,
	}
	s.state = Drawing
	s.modifyEnabled = false

	s.logger.Debug("drawing started",
		slog.String("kind", s.modifiers.Kind.String()),
		slog.Bool("suppress_angles", e.Shift))
	return nil
}

func (s *Session) addVertex(e AddVertex) error {
	switch s.state {
	case Idle, Drawn:
		if err := s.drawStart(DrawStart{}); err != nil {
			return err
		}
	case Drawing:
	default:
		return s.invalid(e)
	}

	if !s.sketch.geometry.Append(e.Point) {
		s.logger.Debug("repeated vertex ignored", slog.Any("point", e.Point))
	}
	return nil
}

func (s *Session) drawEnd(e DrawEnd) error {
	if s.state != Drawing {
		return s.invalid(e)
	}

	sk := s.sketch
	if !sk.geometry.Valid() {
		s.logger.Info("drawing discarded",
			slog.String("kind", sk.geometry.Kind.String()),
			slog.Int("vertices", sk.geometry.Len()))
		s.discardSketch()
		return nil
	}

	id := uuid.NewString()
	g := sk.geometry
	result := s.measurer.Measure(g, sk.suppressAngles)

	s.sync.Sync(s.store, s.target(id, g, result), measurement.GeometryFeature(id, g, sk.suppressAngles))
	entry := s.drawings.Append(drawlog.NewEntry(drawlog.Drawn, id, result, s.modifiers.Unit, s.modifiers.AngleUnit))

	s.committed = append(s.committed, id)
	s.focus = id
	s.sketch = nil
	s.state = Drawn
	s.modifyEnabled = true

	s.logger.Info("drawing finished",
		slog.String("id", id),
		slog.String("kind", g.Kind.String()),
		slog.Int("entry", entry.Index))
	return nil
}

func (s *Session) drawAbort(e DrawAbort) error {
	if s.state != Drawing {
		return s.invalid(e)
	}
	s.logger.Debug("drawing aborted", slog.Int("vertices", s.sketch.geometry.Len()))
	s.discardSketch()
	return nil
}

func (s *Session) discardSketch() {
	s.state = s.sketch.resting
	s.sketch = nil
	s.modifyEnabled = s.state == Drawn
}

func (s *Session) modifyStart(e ModifyStart) error {
	if s.state != Drawn {
		return s.invalid(e)
	}
	if !s.isCommitted(e.ID) {
		return fmt.Errorf("modify %q: %w", e.ID, ErrUnknownFeature)
	}

	f, ok := s.store.Feature(e.ID)
	if !ok {
		return fmt.Errorf("modify %q: %w", e.ID, ErrUnknownFeature)
	}
	g, suppress, err := measurement.GeometryFromFeature(f)
	if err != nil {
		return fmt.Errorf("modify %q: %w", e.ID, err)
	}

	s.modify = &modifyState{
		id:             e.ID,
		geometry:       g,
		original:       deepcopy.Copy(g).(*geometry.Geometry),
		suppressAngles: suppress,
	}
	s.state = Modifying
	s.drawEnabled = false

	s.logger.Debug("modify started", slog.String("id", e.ID))
	return nil
}

func (s *Session) moveVertex(e MoveVertex) error {
	if s.state != Modifying {
		return s.invalid(e)
	}
	g := s.modify.geometry
	if e.Index < 0 || e.Index >= g.Len() {
		return fmt.Errorf("move vertex %d of %d: %w", e.Index, g.Len(), ErrVertexIndex)
	}

	g.Vertices[e.Index] = e.Point
	s.updateGeometryFeature()
	return nil
}

func (s *Session) insertVertex(e InsertVertex) error {
	if s.state != Modifying {
		return s.invalid(e)
	}
	g := s.modify.geometry
	if e.Index < 0 || e.Index > g.Len() {
		return fmt.Errorf("insert vertex at %d of %d: %w", e.Index, g.Len(), ErrVertexIndex)
	}

	g.Vertices = append(g.Vertices, orb.Point{})
	copy(g.Vertices[e.Index+1:], g.Vertices[e.Index:])
	g.Vertices[e.Index] = e.Point
	s.updateGeometryFeature()
	return nil
}

func (s *Session) removeVertex(e RemoveVertex) error {
	if s.state != Modifying {
		return s.invalid(e)
	}
	g := s.modify.geometry
	if e.Index < 0 || e.Index >= g.Len() {
		return fmt.Errorf("remove vertex %d of %d: %w", e.Index, g.Len(), ErrVertexIndex)
	}
	if g.Len()-1 < g.Kind.MinVertices() {
		return fmt.Errorf("remove vertex: %s needs at least %d vertices: %w", g.Kind, g.Kind.MinVertices(), ErrVertexIndex)
	}

	g.Vertices = append(g.Vertices[:e.Index], g.Vertices[e.Index+1:]...)
	s.updateGeometryFeature()
	return nil
}

// updateGeometryFeature shows the live shape while modifying.
// Annotations are only recomputed at ModifyEnd.
func (s *Session) updateGeometryFeature() {
	m := s.modify
	s.store.AddFeature(measurement.GeometryFeature(m.id, m.geometry, m.suppressAngles))
}

func (s *Session) modifyEnd(e ModifyEnd) error {
	if s.state != Modifying {
		return s.invalid(e)
	}

	m := s.modify
	result := s.measurer.Measure(m.geometry, m.suppressAngles)
	s.sync.Sync(s.store, s.target(m.id, m.geometry, result), measurement.GeometryFeature(m.id, m.geometry, m.suppressAngles))
	entry := s.drawings.Append(drawlog.NewEntry(drawlog.Modified, m.id, result, s.modifiers.Unit, s.modifiers.AngleUnit))

	s.focus = m.id
	s.modify = nil
	s.state = Drawn
	s.drawEnabled = true

	s.logger.Info("modify finished", slog.String("id", m.id), slog.Int("entry", entry.Index))
	return nil
}

func (s *Session) modifyAbort(e ModifyAbort) error {
	if s.state != Modifying {
		return s.invalid(e)
	}

	m := s.modify
	s.store.AddFeature(measurement.GeometryFeature(m.id, m.original, m.suppressAngles))
	s.modify = nil
	s.state = Drawn
	s.drawEnabled = true

	s.logger.Debug("modify aborted", slog.String("id", m.id))
	return nil
}

// setModifiers stores the modifiers and refreshes the annotations of every
// committed geometry. The focus geometry is fully synchronized last; the
// others only get new texts. A geometry being modified keeps its
// annotations until ModifyEnd.
func (s *Session) setModifiers(m Modifiers) {
	s.modifiers = m

	var focus *measurement.Target
	for _, id := range s.committed {
		if s.modify != nil && id == s.modify.id {
			continue
		}
		t, err := s.storedTarget(id)
		if err != nil {
			s.logger.Warn("skipping geometry on resync", slog.String("id", id), slog.Any("err", err))
			continue
		}
		if id == s.focus {
			focus = &t
			continue
		}
		if s.sync.Scope == measurement.ScopeGeometry {
			s.sync.Sync(s.store, t)
		} else {
			s.sync.Relabel(s.store, t)
		}
	}
	if focus != nil {
		s.sync.Sync(s.store, *focus)
	}
}

func (s *Session) clearMap(e ClearMap) error {
	if s.state != Idle && s.state != Drawn {
		return s.invalid(e)
	}
	s.store.Clear()
	s.committed = nil
	s.focus = ""
	s.state = Idle
	s.modifyEnabled = false
	return nil
}

func (s *Session) target(id string, g *geometry.Geometry, result analysis.Result) measurement.Target {
	return measurement.Target{
		OwnerID:  id,
		Geometry: g,
		Result:   result,
		Display:  s.modifiers.Display(),
	}
}

func (s *Session) storedTarget(id string) (measurement.Target, error) {
	f, ok := s.store.Feature(id)
	if !ok {
		return measurement.Target{}, fmt.Errorf("geometry %q: %w", id, ErrUnknownFeature)
	}
	g, suppress, err := measurement.GeometryFromFeature(f)
	if err != nil {
		return measurement.Target{}, err
	}
	return s.target(id, g, s.measurer.Measure(g, suppress)), nil
}

func (s *Session) isCommitted(id string) bool {
	for _, c := range s.committed {
		if c == id {
			return true
		}
	}
	return false
}

// State returns the current interaction state
func (s *Session) State() State {
	return s.state
}

// Modifiers returns the current modifiers
func (s *Session) Modifiers() Modifiers {
	return s.modifiers
}

// Committed returns the ids of the committed geometries in drawing order
func (s *Session) Committed() []string {
	return append([]string(nil), s.committed...)
}

// Focus returns the id of the geometry finished or modified last
func (s *Session) Focus() string {
	return s.focus
}

// Sketch returns a copy of the geometry being drawn, or nil
func (s *Session) Sketch() *geometry.Geometry {
	if s.sketch == nil {
		return nil
	}
	return s.sketch.geometry.Clone()
}

// Editing returns the id and a copy of the geometry being modified
func (s *Session) Editing() (string, *geometry.Geometry, bool) {
	if s.modify == nil {
		return "", nil, false
	}
	return s.modify.id, s.modify.geometry.Clone(), true
}

// DrawEnabled reports whether the host should accept drawing input
func (s *Session) DrawEnabled() bool {
	return s.drawEnabled
}

// ModifyEnabled reports whether the host should accept reshaping input
func (s *Session) ModifyEnabled() bool {
	return s.modifyEnabled
}

// Store returns the overlay the session writes to
func (s *Session) Store() overlay.Store {
	return s.store
}

// Log returns the drawing log
func (s *Session) Log() *drawlog.Log {
	return s.drawings
}

// Measure measures a geometry with the session's measurer
func (s *Session) Measure(g *geometry.Geometry, suppressAngles bool) analysis.Result {
	return s.measurer.Measure(g, suppressAngles)
}
