package viewer

import (
	"math"

	"github.com/paulmach/orb"
)

const (
	minResolution = 0.01
	maxResolution = 156543.03392804097 // zoom level 0 of the web mercator tile grid
	// fitMargin leaves room around a fitted bound
	fitMargin = 1.2
)

// Camera maps between map coordinates (web mercator metres) and screen
// pixels. Screen y grows downwards, map y grows northwards.
type Camera struct {
	Center orb.Point
	// Resolution is the number of map metres per screen pixel
	Resolution float64
	Width      float64
	Height     float64
}

// NewCamera creates a camera of the given screen size showing the bound
func NewCamera(bound orb.Bound, width, height float64) *Camera {
	c := &Camera{Width: width, Height: height, Resolution: 1}
	c.Fit(bound)
	return c
}

// Fit centers the bound and zooms so it fills the screen
func (c *Camera) Fit(bound orb.Bound) {
	c.Center = bound.Center()
	size := math.Max(bound.Right()-bound.Left(), bound.Top()-bound.Bottom())
	screen := math.Min(c.Width, c.Height)
	if size <= 0 || screen <= 0 {
		return
	}
	c.Resolution = clampResolution(size * fitMargin / screen)
}

// Resize updates the screen size, keeping the center
func (c *Camera) Resize(width, height float64) {
	c.Width = width
	c.Height = height
}

// Pan moves the view by a screen offset
func (c *Camera) Pan(dx, dy float64) {
	c.Center[0] -= dx * c.Resolution
	c.Center[1] += dy * c.Resolution
}

// Zoom scales the view by 1+delta around a screen position, which stays
// on the same map point
func (c *Camera) Zoom(delta, anchorX, anchorY float64) {
	anchor := c.Unproject(anchorX, anchorY)
	c.Resolution = clampResolution(c.Resolution * (1.0 + delta))

	// move the center so the anchor is back under the cursor
	x, y := c.Project(anchor)
	c.Pan(anchorX-x, anchorY-y)
}

// Project converts a map point to screen coordinates
func (c *Camera) Project(p orb.Point) (float64, float64) {
	x := (p[0]-c.Center[0])/c.Resolution + c.Width/2
	y := (c.Center[1]-p[1])/c.Resolution + c.Height/2
	return x, y
}

// Unproject converts screen coordinates to a map point
func (c *Camera) Unproject(screenX, screenY float64) orb.Point {
	return orb.Point{
		c.Center[0] + (screenX-c.Width/2)*c.Resolution,
		c.Center[1] - (screenY-c.Height/2)*c.Resolution,
	}
}

// Bound returns the visible map area
func (c *Camera) Bound() orb.Bound {
	return orb.MultiPoint{c.Unproject(0, c.Height), c.Unproject(c.Width, 0)}.Bound()
}

func clampResolution(r float64) float64 {
	return math.Max(minResolution, math.Min(maxResolution, r))
}
