package viewer

import (
	"image/color"
	"math"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/philipparndt/mapmeasure/internal/measurement"
	"github.com/philipparndt/mapmeasure/internal/overlay"
	"github.com/philipparndt/mapmeasure/pkg/geometry"
)

// hitRadius is the pointer distance in pixels at which a vertex is grabbed
const hitRadius = 8

var background = color.NRGBA{R: 0xe8, G: 0xec, B: 0xef, A: 0xff}

// MapRenderer draws the overlay features on a pannable, zoomable 2D map and
// turns pointer input into map coordinates
type MapRenderer struct {
	widget.BaseWidget
	store  overlay.Store
	camera *Camera

	objects []fyne.CanvasObject
	width   float64
	height  float64

	sketch   func() *geometry.Geometry
	cursor   *orb.Point
	modifier fyne.KeyModifier

	dragVertex  int
	isDragging  bool
	onTap       func(p orb.Point, shift bool)
	onDoubleTap func(p orb.Point)
	onHover     func(p orb.Point, overVertex bool)
	onGrab      func(id string, index int) bool
	onMove      func(index int, p orb.Point)
	onRelease   func()
}

// NewMapRenderer creates a map view of the store centered on bound
func NewMapRenderer(store overlay.Store, bound orb.Bound) *MapRenderer {
	r := &MapRenderer{
		store:      store,
		camera:     NewCamera(bound, 800, 600),
		dragVertex: -1,
	}
	r.ExtendBaseWidget(r)
	return r
}

// SetOnTap sets the callback for a single click with the shift key state
func (r *MapRenderer) SetOnTap(callback func(p orb.Point, shift bool)) {
	r.onTap = callback
}

// SetOnDoubleTap sets the callback for a double click
func (r *MapRenderer) SetOnDoubleTap(callback func(p orb.Point)) {
	r.onDoubleTap = callback
}

// SetOnHover sets the callback for pointer movement. overVertex reports
// whether the pointer rests on a vertex of a measured geometry.
func (r *MapRenderer) SetOnHover(callback func(p orb.Point, overVertex bool)) {
	r.onHover = callback
}

// SetOnVertexDrag sets the callbacks for reshaping. grab is called when a
// drag starts on a vertex of a measured geometry and reports whether the
// drag moves that vertex; otherwise the drag pans the map.
func (r *MapRenderer) SetOnVertexDrag(grab func(id string, index int) bool, move func(index int, p orb.Point), release func()) {
	r.onGrab = grab
	r.onMove = move
	r.onRelease = release
}

// SetSketch sets the source of the geometry being drawn
func (r *MapRenderer) SetSketch(source func() *geometry.Geometry) {
	r.sketch = source
}

// Camera returns the view camera
func (r *MapRenderer) Camera() *Camera {
	return r.camera
}

// CreateRenderer creates the renderer for the widget
func (r *MapRenderer) CreateRenderer() fyne.WidgetRenderer {
	return &mapWidgetRenderer{renderer: r}
}

// Update redraws the view after the overlay or the sketch changed
func (r *MapRenderer) Update() {
	if r.width == 0 || r.height == 0 {
		return
	}
	r.Render(r.width, r.height)
}

// Render rebuilds the canvas objects for the given size
func (r *MapRenderer) Render(width, height float64) {
	r.width = width
	r.height = height
	r.camera.Resize(width, height)

	bg := canvas.NewRectangle(background)
	bg.Resize(fyne.NewSize(float32(width), float32(height)))
	objects := []fyne.CanvasObject{bg}

	var markers []fyne.CanvasObject
	for _, f := range r.store.Features() {
		if measurement.KindOf(f) == measurement.KindGeometry {
			objects = append(objects, r.geometryObjects(f.Geometry, measurement.StyleOf(f))...)
			continue
		}
		if l, ok := measurement.LabelFromFeature(f); ok {
			markers = append(markers, r.markerObjects(l)...)
		}
	}

	if r.sketch != nil {
		if g := r.sketch(); g != nil && g.Len() > 0 {
			sk := g.Clone()
			if r.cursor != nil {
				sk.Append(*r.cursor)
			}
			objects = append(objects, r.geometryObjects(sk.Orb(), measurement.SketchStyle())...)
		}
	}

	// annotations stay on top of the shapes
	r.objects = append(objects, markers...)
	r.Refresh()
}

func (r *MapRenderer) geometryObjects(g orb.Geometry, style measurement.Style) []fyne.CanvasObject {
	var points []orb.Point
	switch v := g.(type) {
	case orb.LineString:
		points = v
	case orb.Polygon:
		if len(v) > 0 {
			points = v[0]
		}
	case orb.Ring:
		points = v
	}

	objects := make([]fyne.CanvasObject, 0, 2*len(points))
	for i := 1; i < len(points); i++ {
		x1, y1 := r.camera.Project(points[i-1])
		x2, y2 := r.camera.Project(points[i])

		line := canvas.NewLine(style.Stroke)
		line.StrokeWidth = style.StrokeWidth
		line.Position1 = fyne.NewPos(float32(x1), float32(y1))
		line.Position2 = fyne.NewPos(float32(x2), float32(y2))
		objects = append(objects, line)
	}
	for _, p := range points {
		objects = append(objects, r.circle(p, style.Radius, style.Fill, style.Stroke))
	}
	return objects
}

func (r *MapRenderer) markerObjects(l measurement.Label) []fyne.CanvasObject {
	var objects []fyne.CanvasObject
	if l.Kind == measurement.KindAngle {
		objects = append(objects, r.circle(l.Position, l.Style.Radius, l.Style.Fill, l.Style.Stroke))
	}

	text := canvas.NewText(l.Text, l.Style.TextColor)
	text.TextSize = l.Style.FontSize
	text.TextStyle = fyne.TextStyle{Bold: l.Kind == measurement.KindLabel}
	size := text.MinSize()

	x, y := r.camera.Project(l.Position)
	pos := fyne.NewPos(float32(x)-size.Width/2, float32(y)+l.Style.OffsetY-size.Height/2)

	pad := float32(4)
	box := canvas.NewRectangle(l.Style.TextBackground)
	box.CornerRadius = l.Style.Radius
	box.Resize(fyne.NewSize(size.Width+2*pad, size.Height+pad))
	box.Move(pos.Subtract(fyne.NewPos(pad, pad/2)))

	text.Resize(size)
	text.Move(pos)
	return append(objects, box, text)
}

func (r *MapRenderer) circle(p orb.Point, radius float32, fill, stroke color.NRGBA) *canvas.Circle {
	x, y := r.camera.Project(p)
	c := canvas.NewCircle(fill)
	c.StrokeColor = stroke
	c.StrokeWidth = 1
	c.Resize(fyne.NewSize(2*radius, 2*radius))
	c.Move(fyne.NewPos(float32(x)-radius, float32(y)-radius))
	return c
}

// vertexAt finds the measured geometry vertex under a screen position
func (r *MapRenderer) vertexAt(screenX, screenY float64) (string, int, bool) {
	best := math.MaxFloat64
	var id string
	index := -1
	for _, f := range r.store.Features() {
		if measurement.KindOf(f) != measurement.KindGeometry {
			continue
		}
		g, _, err := measurement.GeometryFromFeature(f)
		if err != nil {
			continue
		}
		for i, v := range g.Vertices {
			x, y := r.camera.Project(v)
			if d := math.Hypot(x-screenX, y-screenY); d < best {
				best, id, index = d, overlay.FeatureID(f), i
			}
		}
	}
	return id, index, index >= 0 && best <= hitRadius
}

func (r *MapRenderer) toMap(pos fyne.Position) orb.Point {
	return r.camera.Unproject(float64(pos.X), float64(pos.Y))
}

// MouseDown records the modifier keys for the following tap
func (r *MapRenderer) MouseDown(event *desktop.MouseEvent) {
	r.modifier = event.Modifier
}

// MouseUp is required by desktop.Mouseable
func (r *MapRenderer) MouseUp(*desktop.MouseEvent) {}

// MouseIn is required by desktop.Hoverable
func (r *MapRenderer) MouseIn(*desktop.MouseEvent) {}

// MouseMoved updates the rubber band of the sketch
func (r *MapRenderer) MouseMoved(event *desktop.MouseEvent) {
	p := r.toMap(event.Position)
	r.cursor = &p
	if r.onHover != nil {
		_, _, over := r.vertexAt(float64(event.Position.X), float64(event.Position.Y))
		r.onHover(p, over)
	}
	if r.sketch != nil && r.sketch() != nil {
		r.Render(r.width, r.height)
	}
}

// MouseOut removes the rubber band
func (r *MapRenderer) MouseOut() {
	r.cursor = nil
	r.Render(r.width, r.height)
}

// Tapped handles a single click
func (r *MapRenderer) Tapped(event *fyne.PointEvent) {
	if r.isDragging || r.onTap == nil {
		return
	}
	r.onTap(r.toMap(event.Position), r.modifier&fyne.KeyModifierShift != 0)
}

// DoubleTapped handles a double click
func (r *MapRenderer) DoubleTapped(event *fyne.PointEvent) {
	if r.onDoubleTap != nil {
		r.onDoubleTap(r.toMap(event.Position))
	}
}

// Dragged moves a grabbed vertex or pans the map
func (r *MapRenderer) Dragged(event *fyne.DragEvent) {
	if !r.isDragging {
		r.isDragging = true
		start := event.Position.Subtract(event.Dragged)
		if id, index, ok := r.vertexAt(float64(start.X), float64(start.Y)); ok && r.onGrab != nil && r.onGrab(id, index) {
			r.dragVertex = index
		}
	}

	if r.dragVertex >= 0 {
		if r.onMove != nil {
			r.onMove(r.dragVertex, r.toMap(event.Position))
		}
	} else {
		r.camera.Pan(float64(event.Dragged.DX), float64(event.Dragged.DY))
	}
	r.Render(r.width, r.height)
}

// DragEnd finishes a vertex move or a pan
func (r *MapRenderer) DragEnd() {
	if r.dragVertex >= 0 && r.onRelease != nil {
		r.onRelease()
	}
	r.dragVertex = -1
	r.isDragging = false
	r.Render(r.width, r.height)
}

// Scrolled zooms around the pointer
func (r *MapRenderer) Scrolled(event *fyne.ScrollEvent) {
	delta := -float64(event.Scrolled.DY) * 0.002
	r.camera.Zoom(delta, float64(event.Position.X), float64(event.Position.Y))
	r.Render(r.width, r.height)
}

// FitTo centers the view on the features of a collection
func (r *MapRenderer) FitTo(fc *geojson.FeatureCollection) {
	if fc == nil || len(fc.Features) == 0 {
		return
	}
	bound := fc.Features[0].Geometry.Bound()
	for _, f := range fc.Features[1:] {
		bound = bound.Union(f.Geometry.Bound())
	}
	r.camera.Fit(bound)
	r.Render(r.width, r.height)
}

// mapWidgetRenderer implements fyne.WidgetRenderer
type mapWidgetRenderer struct {
	renderer *MapRenderer
	objects  []fyne.CanvasObject
}

func (m *mapWidgetRenderer) Layout(size fyne.Size) {
	m.renderer.Render(float64(size.Width), float64(size.Height))
}

func (m *mapWidgetRenderer) MinSize() fyne.Size {
	return fyne.NewSize(400, 400)
}

func (m *mapWidgetRenderer) Refresh() {
	m.objects = m.renderer.objects
	canvas.Refresh(m.renderer)
}

func (m *mapWidgetRenderer) Objects() []fyne.CanvasObject {
	return m.objects
}

func (m *mapWidgetRenderer) Destroy() {}
