// Package render drives a geometry's on-screen artifact through one of two backends:
// a raster layer that repaints pixels in a damaged rectangle, or a retained document whose
// nodes are updated in place. Both read the same geometry state and answer nothing about
// it; extent, shell and hit testing stay with the geometry.
package render

import (
	"errors"

	"geoshape/internal/geom"
	"geoshape/internal/geometry"
)

// ErrBackendMismatch means a strategy was handed a context of another backend family.
// It is a caller bug and retrying cannot fix it.
var ErrBackendMismatch = errors.New("render context does not match strategy")

// Context is a backend surface supplied by the owning container: *Layer for raster,
// *Document for retained.
type Context interface {
	Backend() string
	Transform() geom.Transform
}

// Drawable is what a strategy reads from a geometry.
type Drawable interface {
	ID() string
	Shell() []geom.Coord
	StrokeWidth() float64
	Options() geometry.Options
}

// Strategy pushes a geometry into a backend context. Sync creates the artifact on first
// call and updates it afterwards; Release frees it. Both are idempotent.
type Strategy interface {
	Name() string
	Accepts(ctx Context) bool
	Sync(g Drawable, ctx Context) error
	Release(g Drawable, ctx Context) error
}

// project maps a shell into screen space.
func project(shell []geom.Coord, t geom.Transform) []geom.Point {
	ring := make([]geom.Point, len(shell))
	for i, c := range shell {
		ring[i] = t.ToScreen(c)
	}
	return ring
}

// StrategyByName resolves "raster" and "retained".
func StrategyByName(name string) (Strategy, bool) {
	switch name {
	case "raster":
		return RasterStrategy{}, true
	case "retained":
		return RetainedStrategy{}, true
	}
	return nil, false
}
