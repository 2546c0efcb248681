package main

import (
	"fmt"
	"image/color"
	"log/slog"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/project"
	"github.com/philipparndt/mapmeasure/internal/config"
	"github.com/philipparndt/mapmeasure/internal/drawlog"
	"github.com/philipparndt/mapmeasure/internal/log"
	"github.com/philipparndt/mapmeasure/internal/overlay"
	"github.com/philipparndt/mapmeasure/internal/session"
	"github.com/philipparndt/mapmeasure/pkg/analysis"
	"github.com/philipparndt/mapmeasure/pkg/geometry"
	"github.com/philipparndt/mapmeasure/pkg/viewer"
	"github.com/philipparndt/mapmeasure/version"
)

const helpText = `Click on the map to start measuring.
Click again to add vertices.
Double-click or press Enter to finish the drawing.
Press Escape to abort the drawing or an edit.

Hold Shift on the first click to measure without angles.
Drag a vertex of a finished drawing to reshape it.
Drag the map to pan, scroll to zoom.

Longitude and latitude can be entered in degrees (EPSG:4326)
and added with Add Point.`

var (
	kindOptions  = []string{"Line", "Polygon"}
	unitOptions  = []string{"Metric (km)", "Imperial (miles)"}
	angleOptions = []string{"Degrees", "Radians"}

	// initial view, lon/lat degrees
	defaultView = orb.Bound{Min: orb.Point{14.40, 50.07}, Max: orb.Point{14.45, 50.10}}
)

type App struct {
	window  fyne.Window
	session *session.Session
	mapView *viewer.MapRenderer
	logList *widget.List
	entries []drawlog.Entry
	tip     *widget.Label
	logger  *slog.Logger
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Config error: %v\n", err)
	}
	log.Init(cfg.Logging.LogOptions())

	opts, err := cfg.Measure.SessionOptions()
	if err != nil {
		log.L().Warn("invalid measure settings, using defaults", slog.Any("err", err))
		opts = session.DefaultOptions()
	}

	a := app.New()
	w := a.NewWindow("Map Measure " + version.GetVersion())

	appInstance := &App{
		window:  w,
		session: session.New(overlay.NewMemory(), drawlog.New(), opts),
		logger:  log.WithComponent("gui"),
	}
	appInstance.setupMainUI()

	w.Resize(fyne.NewSize(1200, 800))
	w.ShowAndRun()
}

func (a *App) setupMainUI() {
	store := a.session.Store()
	bound := project.Bound(defaultView, project.WGS84.ToMercator)

	a.mapView = viewer.NewMapRenderer(store, bound)
	a.mapView.SetSketch(a.session.Sketch)
	a.mapView.SetOnTap(a.onTap)
	a.mapView.SetOnDoubleTap(a.onDoubleTap)
	a.mapView.SetOnHover(a.onHover)
	a.mapView.SetOnVertexDrag(a.onGrab, a.onMove, a.onRelease)

	store.Subscribe(func(overlay.Change) {
		a.mapView.Update()
	})
	a.session.Log().Subscribe(func(entries []drawlog.Entry) {
		a.entries = entries
		a.logList.Refresh()
	})

	a.tip = widget.NewLabel(session.TipStart)
	a.window.Canvas().SetOnTypedKey(a.onKey)

	content := container.NewBorder(
		nil,              // top
		a.tip,            // bottom
		nil,              // left
		a.controlPanel(), // right
		a.mapView,        // center
	)
	a.window.SetContent(content)
}

func (a *App) controlPanel() fyne.CanvasObject {
	m := a.session.Modifiers()

	kindSelect := widget.NewSelect(kindOptions, nil)
	kindSelect.SetSelectedIndex(int(m.Kind))
	unitSelect := widget.NewSelect(unitOptions, nil)
	unitSelect.SetSelectedIndex(int(m.Unit))
	angleSelect := widget.NewSelect(angleOptions, nil)
	angleSelect.SetSelectedIndex(int(m.AngleUnit))
	segmentsCheck := widget.NewCheck("Show Segments", nil)
	segmentsCheck.SetChecked(m.ShowSegments)
	clearCheck := widget.NewCheck("Clear Previous", nil)
	clearCheck.SetChecked(m.ClearPrevious)

	apply := func() {
		a.dispatch(session.SetModifiers{Modifiers: session.Modifiers{
			Kind:          geometry.Kind(kindSelect.SelectedIndex()),
			Unit:          analysis.Unit(unitSelect.SelectedIndex()),
			AngleUnit:     analysis.AngleUnit(angleSelect.SelectedIndex()),
			ShowSegments:  segmentsCheck.Checked,
			ClearPrevious: clearCheck.Checked,
		}})
	}
	kindSelect.OnChanged = func(string) { apply() }
	unitSelect.OnChanged = func(string) { apply() }
	angleSelect.OnChanged = func(string) { apply() }
	segmentsCheck.OnChanged = func(bool) { apply() }
	clearCheck.OnChanged = func(bool) { apply() }

	lonEntry := widget.NewEntry()
	lonEntry.SetPlaceHolder("Longitude")
	latEntry := widget.NewEntry()
	latEntry.SetPlaceHolder("Latitude")
	addButton := widget.NewButton("Add Point", func() {
		if a.session.AddCoordinate(lonEntry.Text, latEntry.Text) {
			lonEntry.SetText("")
			latEntry.SetText("")
			a.updateTip()
			a.mapView.Update()
		}
	})
	clearMapButton := widget.NewButton("Clear Map", func() {
		a.dispatch(session.ClearMap{})
	})

	a.logList = widget.NewList(
		func() int { return len(a.entries) },
		func() fyne.CanvasObject {
			l := widget.NewLabel("")
			l.Wrapping = fyne.TextWrapWord
			return l
		},
		func(id widget.ListItemID, o fyne.CanvasObject) {
			o.(*widget.Label).SetText(a.entries[id].Text)
		},
	)
	clearLogButton := widget.NewButton("Clear All Drawings", func() {
		a.dispatch(session.ClearLog{})
	})
	helpButton := widget.NewButton("Help", func() {
		dialog.ShowInformation("Help", helpText, a.window)
	})

	controls := container.NewVBox(
		widget.NewLabel("Measurement:"),
		widget.NewSeparator(),
		widget.NewForm(
			widget.NewFormItem("Type", kindSelect),
			widget.NewFormItem("Units", unitSelect),
			widget.NewFormItem("Angle", angleSelect),
		),
		segmentsCheck,
		clearCheck,
		widget.NewSeparator(),
		widget.NewLabel("Coordinates:"),
		container.NewGridWithColumns(2, lonEntry, latEntry),
		container.NewGridWithColumns(2, addButton, clearMapButton),
		widget.NewSeparator(),
		widget.NewLabel("Drawings:"),
	)

	panel := container.NewBorder(
		controls,
		container.NewVBox(clearLogButton, helpButton),
		nil,
		nil,
		a.logList,
	)
	sizer := canvas.NewRectangle(color.Transparent)
	sizer.SetMinSize(fyne.NewSize(320, 0))
	return container.NewStack(sizer, container.NewPadded(panel))
}

// dispatch sends an event to the session; rejected events are only logged
func (a *App) dispatch(e session.Event) bool {
	if err := a.session.Dispatch(e); err != nil {
		a.logger.Debug("event ignored", slog.String("event", e.Name()), slog.Any("err", err))
		return false
	}
	a.updateTip()
	a.mapView.Update()
	return true
}

func (a *App) onTap(p orb.Point, shift bool) {
	switch a.session.State() {
	case session.Idle, session.Drawn:
		if !a.dispatch(session.DrawStart{Shift: shift}) {
			return
		}
	case session.Modifying:
		return
	}
	a.dispatch(session.AddVertex{Point: p})
}

func (a *App) onDoubleTap(p orb.Point) {
	if a.session.State() == session.Modifying {
		return
	}
	a.dispatch(session.AddVertex{Point: p})
	a.dispatch(session.DrawEnd{})
}

func (a *App) onHover(p orb.Point, overVertex bool) {
	a.showTip(a.session.HoverPreview(p, overVertex))
}

func (a *App) onGrab(id string, index int) bool {
	if !a.session.ModifyEnabled() {
		return false
	}
	return a.dispatch(session.ModifyStart{ID: id})
}

func (a *App) onMove(index int, p orb.Point) {
	a.dispatch(session.MoveVertex{Index: index, Point: p})
}

func (a *App) onRelease() {
	a.dispatch(session.ModifyEnd{})
}

func (a *App) onKey(ev *fyne.KeyEvent) {
	switch ev.Name {
	case fyne.KeyEscape:
		switch a.session.State() {
		case session.Drawing:
			a.dispatch(session.DrawAbort{})
		case session.Modifying:
			a.dispatch(session.ModifyAbort{})
		}
	case fyne.KeyReturn, fyne.KeyEnter:
		if a.session.State() == session.Drawing {
			a.dispatch(session.DrawEnd{})
		}
	}
}

// updateTip shows the tip with the live measurement of the sketch
func (a *App) updateTip() {
	a.showTip(a.session.Preview())
}

func (a *App) showTip(p session.Preview) {
	if a.tip == nil {
		return
	}
	text := p.Tip
	if p.Text != "" {
		text = strings.Join([]string{p.Tip, p.Text}, " | ")
	}
	a.tip.SetText(text)
}
