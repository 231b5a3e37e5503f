// Package viewport supplies the coordinate transforms a map hands to its geometries:
// native coordinates to screen pixels at the current center and zoom.
package viewport

import (
	"math"

	"geoshape/internal/geom"
)

// Viewport is a screen-sized window onto a projection. Resolution is projected units per
// pixel; screen y grows downward. It implements geom.Transform.
type Viewport struct {
	proj       Projection
	center     geom.Coord // native
	resolution float64
	width      float64
	height     float64
}

// New returns a viewport of w×h pixels centered on center. A nil projection is Identity,
// a non-positive resolution is 1.
func New(p Projection, center geom.Coord, resolution, w, h float64) *Viewport {
	if p == nil {
		p = Identity{}
	}
	if resolution <= 0 {
		resolution = 1
	}
	return &Viewport{proj: p, center: center, resolution: resolution, width: w, height: h}
}

func (v *Viewport) Projection() Projection { return v.proj }
func (v *Viewport) Center() geom.Coord     { return v.center }
func (v *Viewport) Resolution() float64    { return v.resolution }

// ScreenSize is the viewport size in pixels.
func (v *Viewport) ScreenSize() (w, h float64) { return v.width, v.height }

func (v *Viewport) Resize(w, h float64) { v.width, v.height = w, h }

func (v *Viewport) SetCenter(c geom.Coord) { v.center = c }

func (v *Viewport) SetResolution(r float64) {
	if r > 0 {
		v.resolution = r
	}
}

// Zoom multiplies magnification by f around the screen center (f > 1 zooms in).
func (v *Viewport) Zoom(f float64) {
	if f > 0 {
		v.resolution /= f
	}
}

// Pan shifts the view by dx, dy screen pixels.
func (v *Viewport) Pan(dx, dy float64) {
	v.center = v.ToNative(geom.Point{X: v.width/2 + dx, Y: v.height/2 + dy})
}

// WebZoom returns the resolution of Web Mercator zoom level z for 256-pixel tiles.
func WebZoom(z float64) float64 {
	return 2 * math.Pi * mercatorRadius / 256 / math.Pow(2, z)
}

func (v *Viewport) ToScreen(c geom.Coord) geom.Point {
	p := v.proj.Project(c)
	o := v.proj.Project(v.center)
	return geom.Point{
		X: v.width/2 + (p.X-o.X)/v.resolution,
		Y: v.height/2 - (p.Y-o.Y)/v.resolution,
	}
}

func (v *Viewport) ToNative(s geom.Point) geom.Coord {
	o := v.proj.Project(v.center)
	return v.proj.Unproject(geom.Coord{
		X: o.X + (s.X-v.width/2)*v.resolution,
		Y: o.Y - (s.Y-v.height/2)*v.resolution,
	})
}

// Fit centers on bb and picks the resolution that shows all of it with pad pixels spare on
// each side. Empty boxes only recenter.
func (v *Viewport) Fit(bb geom.BBox, pad float64) {
	lo := v.proj.Project(geom.Coord{X: bb.MinX, Y: bb.MinY})
	hi := v.proj.Project(geom.Coord{X: bb.MaxX, Y: bb.MaxY})
	v.center = v.proj.Unproject(geom.Coord{X: (lo.X + hi.X) / 2, Y: (lo.Y + hi.Y) / 2})
	w, h := v.width-2*pad, v.height-2*pad
	if w <= 0 || h <= 0 {
		return
	}
	res := math.Max((hi.X-lo.X)/w, (hi.Y-lo.Y)/h)
	if res > 0 {
		v.resolution = res
	}
}

var _ geom.Transform = (*Viewport)(nil)
