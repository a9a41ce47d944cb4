// Package camera maps the toroidal world onto the screen.
package camera

import "math"

// Point is a screen position in pixels.
type Point struct {
	X, Y float32
}

// Camera is a pan/zoom view of a wrapping world. At zoom 1 the world's
// shorter fitting axis fills the viewport.
type Camera struct {
	X, Y float32 // view centre in world units
	Zoom float32

	ViewportW, ViewportH float32
	WorldW, WorldH       float32
	MaxZoom              float32

	base float32 // pixels per world unit at zoom 1
}

// New creates a camera centred on the world at zoom 1.
func New(viewportW, viewportH, worldW, worldH float32) *Camera {
	c := &Camera{
		X:       worldW / 2,
		Y:       worldH / 2,
		Zoom:    1,
		WorldW:  worldW,
		WorldH:  worldH,
		MaxZoom: 16,
	}
	c.Resize(viewportW, viewportH)
	return c
}

// Scale returns the current pixels per world unit.
func (c *Camera) Scale() float32 {
	return c.base * c.Zoom
}

// WorldToScreen converts a world position to screen pixels using the
// shortest toroidal offset from the view centre.
func (c *Camera) WorldToScreen(wx, wy float32) (sx, sy float32) {
	s := c.Scale()
	sx = c.ViewportW/2 + Delta(wx, c.X, c.WorldW)*s
	sy = c.ViewportH/2 + Delta(wy, c.Y, c.WorldH)*s
	return sx, sy
}

// ScreenToWorld converts screen pixels to a wrapped world position.
func (c *Camera) ScreenToWorld(sx, sy float32) (wx, wy float32) {
	s := c.Scale()
	wx = Wrap(c.X+(sx-c.ViewportW/2)/s, c.WorldW)
	wy = Wrap(c.Y+(sy-c.ViewportH/2)/s, c.WorldH)
	return wx, wy
}

// IsVisible reports whether a circle of the given world radius may overlap
// the viewport.
func (c *Camera) IsVisible(wx, wy, radius float32) bool {
	s := c.Scale()
	halfW := c.ViewportW/(2*s) + radius
	halfH := c.ViewportH/(2*s) + radius
	return abs(Delta(wx, c.X, c.WorldW)) <= halfW && abs(Delta(wy, c.Y, c.WorldH)) <= halfH
}

// Ghosts returns extra screen positions for a circle straddling the seam of
// a view that is wider than the world. The primary position is not included.
func (c *Camera) Ghosts(wx, wy, radius float32) []Point {
	sx, sy := c.WorldToScreen(wx, wy)
	s := c.Scale()
	spanX, spanY := c.WorldW*s, c.WorldH*s
	r := radius * s

	var xs, ys []float32
	if sx-spanX+r >= 0 {
		xs = append(xs, sx-spanX)
	}
	if sx+spanX-r <= c.ViewportW {
		xs = append(xs, sx+spanX)
	}
	if sy-spanY+r >= 0 {
		ys = append(ys, sy-spanY)
	}
	if sy+spanY-r <= c.ViewportH {
		ys = append(ys, sy+spanY)
	}

	var out []Point
	for _, x := range xs {
		out = append(out, Point{x, sy})
	}
	for _, y := range ys {
		out = append(out, Point{sx, y})
		for _, x := range xs {
			out = append(out, Point{x, y})
		}
	}
	return out
}

// Resize updates the viewport and refits the base scale.
func (c *Camera) Resize(viewportW, viewportH float32) {
	c.ViewportW = viewportW
	c.ViewportH = viewportH
	c.base = viewportW / c.WorldW
	if h := viewportH / c.WorldH; h > c.base {
		c.base = h
	}
}

// Pan moves the view by a screen-space delta.
func (c *Camera) Pan(dx, dy float32) {
	s := c.Scale()
	c.X = Wrap(c.X+dx/s, c.WorldW)
	c.Y = Wrap(c.Y+dy/s, c.WorldH)
}

// SetZoom sets the zoom, clamped to [1, MaxZoom].
func (c *Camera) SetZoom(zoom float32) {
	c.Zoom = clamp(zoom, 1, c.MaxZoom)
}

// ZoomAt multiplies the zoom while keeping the world point under (sx, sy)
// fixed on screen.
func (c *Camera) ZoomAt(factor, sx, sy float32) {
	wx, wy := c.ScreenToWorld(sx, sy)
	c.SetZoom(c.Zoom * factor)
	nx, ny := c.ScreenToWorld(sx, sy)
	c.X = Wrap(c.X+Delta(wx, nx, c.WorldW), c.WorldW)
	c.Y = Wrap(c.Y+Delta(wy, ny, c.WorldH), c.WorldH)
}

// Reset centres the view at zoom 1.
func (c *Camera) Reset() {
	c.X = c.WorldW / 2
	c.Y = c.WorldH / 2
	c.Zoom = 1
}

// Delta returns the shortest signed offset from 'from' to 'to' on a ring
// of the given size.
func Delta(to, from, size float32) float32 {
	d := to - from
	if d > size/2 {
		d -= size
	} else if d < -size/2 {
		d += size
	}
	return d
}

// Wrap maps x into [0, m).
func Wrap(x, m float32) float32 {
	r := float32(math.Mod(float64(x), float64(m)))
	if r < 0 {
		r += m
	}
	if r >= m {
		r = 0
	}
	return r
}

func abs(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

func clamp(x, lo, hi float32) float32 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
