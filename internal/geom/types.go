package geom

import "math"

// Coord is a position in a geometry's native space: lon/lat degrees or planar units.
type Coord struct {
	X float64
	Y float64
}

// Point is a screen position in pixels, y growing downward.
type Point struct {
	X float64
	Y float64
}

// Transform converts between native space and screen pixels at the current zoom.
// It is supplied by the map viewport; nothing in this module owns projection state.
type Transform interface {
	ToScreen(c Coord) Point
	ToNative(p Point) Coord
}

func (c Coord) Finite() bool {
	return !math.IsNaN(c.X) && !math.IsNaN(c.Y) && !math.IsInf(c.X, 0) && !math.IsInf(c.Y, 0)
}

// Array returns the coordinate in exchange order (x, y) / (lon, lat).
func (c Coord) Array() []float64 { return []float64{c.X, c.Y} }

type BBox struct {
	MinX float64
	MinY float64
	MaxX float64
	MaxY float64
}

// BBoxOf returns the smallest box holding every coordinate; zero box for an empty slice.
func BBoxOf(cs []Coord) BBox {
	if len(cs) == 0 {
		return BBox{}
	}
	bb := BBox{MinX: cs[0].X, MinY: cs[0].Y, MaxX: cs[0].X, MaxY: cs[0].Y}
	for _, c := range cs[1:] {
		bb = bb.Extend(c)
	}
	return bb
}

func (b BBox) Width() float64  { return b.MaxX - b.MinX }
func (b BBox) Height() float64 { return b.MaxY - b.MinY }

func (b BBox) Center() Coord {
	return Coord{X: (b.MinX + b.MaxX) / 2, Y: (b.MinY + b.MaxY) / 2}
}

// Contains is boundary-inclusive.
func (b BBox) Contains(c Coord) bool {
	return c.X >= b.MinX && c.X <= b.MaxX && c.Y >= b.MinY && c.Y <= b.MaxY
}

func (b BBox) Extend(c Coord) BBox {
	if c.X < b.MinX {
		b.MinX = c.X
	}
	if c.Y < b.MinY {
		b.MinY = c.Y
	}
	if c.X > b.MaxX {
		b.MaxX = c.X
	}
	if c.Y > b.MaxY {
		b.MaxY = c.Y
	}
	return b
}

func (b BBox) Union(o BBox) BBox {
	return BBox{
		MinX: math.Min(b.MinX, o.MinX),
		MinY: math.Min(b.MinY, o.MinY),
		MaxX: math.Max(b.MaxX, o.MaxX),
		MaxY: math.Max(b.MaxY, o.MaxY),
	}
}

func (b BBox) Intersects(o BBox) bool {
	return b.MinX <= o.MaxX && o.MinX <= b.MaxX && b.MinY <= o.MaxY && o.MinY <= b.MaxY
}

// Corners lists the four corners counter-clockwise from (MinX, MinY).
func (b BBox) Corners() [4]Coord {
	return [4]Coord{{b.MinX, b.MinY}, {b.MaxX, b.MinY}, {b.MaxX, b.MaxY}, {b.MinX, b.MaxY}}
}
