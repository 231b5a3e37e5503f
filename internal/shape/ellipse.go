// Package shape holds the pure shape math: shell generation and analytic extents.
// Nothing here keeps state; every function is safe to call concurrently.
package shape

import (
	"math"

	"geoshape/internal/geom"
)

// MinResolution is the smallest vertex count that still forms a polygon.
const MinResolution = 3

// EllipseShell returns n vertices approximating the ellipse of the given full width and
// height around center. Vertex i sits at parameter angle 2πi/n, so vertex 0 is due east of
// the center. The ring is open: the first vertex is not repeated. Zero sizes collapse the
// ring onto the center or a line. n below MinResolution is clamped up.
func EllipseShell(center geom.Coord, width, height float64, n int, m Measurer) []geom.Coord {
	if n < MinResolution {
		n = MinResolution
	}
	if m == nil {
		m = Planar{}
	}
	rx, ry := width/2, height/2
	shell := make([]geom.Coord, n)
	step := 2 * math.Pi / float64(n)
	for i := range shell {
		a := step * float64(i)
		shell[i] = m.Offset(center, rx*math.Cos(a), ry*math.Sin(a))
	}
	return shell
}

// EllipseExtent computes the axis-aligned box of the ellipse from its parameters alone.
// Both supported measurers are affine in (dx, dy) for a fixed origin, so the box spanned by
// the four axis offsets holds every shell vertex.
func EllipseExtent(center geom.Coord, width, height float64, m Measurer) geom.BBox {
	if m == nil {
		m = Planar{}
	}
	rx, ry := width/2, height/2
	bb := geom.BBox{MinX: center.X, MinY: center.Y, MaxX: center.X, MaxY: center.Y}
	for _, c := range [4]geom.Coord{
		m.Offset(center, rx, 0),
		m.Offset(center, -rx, 0),
		m.Offset(center, 0, ry),
		m.Offset(center, 0, -ry),
	} {
		bb = bb.Extend(c)
	}
	return bb
}

// SizeIn projects an extent through t and returns its footprint in screen pixels.
func SizeIn(extent geom.BBox, t geom.Transform) (w, h float64) {
	corners := extent.Corners()
	p0 := t.ToScreen(corners[0])
	minX, maxX, minY, maxY := p0.X, p0.X, p0.Y, p0.Y
	for _, c := range corners[1:] {
		p := t.ToScreen(c)
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}
	return maxX - minX, maxY - minY
}
