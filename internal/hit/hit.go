// Package hit answers whether a screen point lands on a rendered shape: inside its
// projected shell, or within half the stroke width of the outline.
package hit

import (
	"fmt"
	"math"

	"geoshape/internal/geom"
	"geoshape/internal/geometry"
)

// Shelled is the part of a geometry hit testing reads.
type Shelled interface {
	Shell() []geom.Coord
}

// onEdge is the slack below which a point counts as lying on an edge. It absorbs
// projection round-off only; stroke inflation is handled separately.
const onEdge = 1e-9

// ContainsScreenPoint projects g's shell through t and reports whether p is inside the
// polygon (even-odd rule) or no farther than strokeWidth/2 pixels from its outline. Points
// exactly on the outline count as inside. A nil transform means the geometry has no
// rendering context and yields ErrUnattached.
func ContainsScreenPoint(g Shelled, p geom.Point, t geom.Transform, strokeWidth float64) (bool, error) {
	if t == nil {
		return false, fmt.Errorf("hit test: %w", geometry.ErrUnattached)
	}
	shell := g.Shell()
	ring := make([]geom.Point, len(shell))
	for i, c := range shell {
		ring[i] = t.ToScreen(c)
	}
	return PolygonContains(ring, p, strokeWidth/2), nil
}

// Geometry hit-tests s using its own attached transform and stroke width.
func Geometry(s geometry.Shape, p geom.Point) (bool, error) {
	t, _ := s.Transform()
	return ContainsScreenPoint(s, p, t, s.StrokeWidth())
}

// Topmost returns the last shape in painter's order that p hits, or nil. Shapes without a
// transform are skipped, and shapes whose extent is nowhere near p are rejected before
// their shell is projected.
func Topmost(shapes []geometry.Shape, p geom.Point) geometry.Shape {
	for i := len(shapes) - 1; i >= 0; i-- {
		s := shapes[i]
		t, ok := s.Transform()
		if !ok || !s.Extent().Intersects(nearBox(p, t, s.StrokeWidth()/2+1)) {
			continue
		}
		if in, err := Geometry(s, p); err == nil && in {
			return s
		}
	}
	return nil
}

// nearBox is the native box covering the screen square of half-size r around p. The
// projections in use are monotonic on both axes, so two opposite corners suffice.
func nearBox(p geom.Point, t geom.Transform, r float64) geom.BBox {
	return geom.BBoxOf([]geom.Coord{
		t.ToNative(geom.Point{X: p.X - r, Y: p.Y - r}),
		t.ToNative(geom.Point{X: p.X + r, Y: p.Y + r}),
	})
}

// PolygonContains tests p against the closed ring, inflated by tolerance on both sides of
// every edge. The ring is open: the closing edge from last to first vertex is implied.
func PolygonContains(ring []geom.Point, p geom.Point, tolerance float64) bool {
	if len(ring) == 0 {
		return false
	}
	limit := math.Max(tolerance, onEdge)
	for i := range ring {
		a, b := ring[i], ring[(i+1)%len(ring)]
		if segmentDistance(p, a, b) <= limit {
			return true
		}
	}
	return insideEvenOdd(ring, p)
}

// insideEvenOdd is the crossing-number test against a horizontal ray toward +x.
func insideEvenOdd(ring []geom.Point, p geom.Point) bool {
	in := false
	j := len(ring) - 1
	for i := range ring {
		a, b := ring[i], ring[j]
		if (a.Y > p.Y) != (b.Y > p.Y) {
			x := a.X + (p.Y-a.Y)*(b.X-a.X)/(b.Y-a.Y)
			if p.X < x {
				in = !in
			}
		}
		j = i
	}
	return in
}

func segmentDistance(p, a, b geom.Point) float64 {
	dx, dy := b.X-a.X, b.Y-a.Y
	l2 := dx*dx + dy*dy
	if l2 == 0 {
		return math.Hypot(p.X-a.X, p.Y-a.Y)
	}
	u := ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / l2
	u = math.Max(0, math.Min(1, u))
	return math.Hypot(p.X-(a.X+u*dx), p.Y-(a.Y+u*dy))
}
