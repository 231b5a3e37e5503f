// Package geometry holds the mutable parametric shapes: their position and size,
// the lazily derived shell and extent, and their change notifications.
//
// A geometry is either clean (shell and extent caches valid) or dirty. Every setter moves it
// to dirty and fires its event before returning; Shell and Extent recompute and move it back
// to clean. Geometries are not safe for concurrent use; drive them from one goroutine.
package geometry

import (
	"fmt"
	"log/slog"
	"maps"
	"slices"

	geojson "github.com/paulmach/go.geojson"
	"go.jetify.com/typeid/v2"

	"geoshape/internal/event"
	"geoshape/internal/geom"
	applog "geoshape/internal/log"
	"geoshape/internal/shape"
)

type State uint8

const (
	Clean State = iota
	Dirty
)

func (s State) String() string {
	if s == Clean {
		return "clean"
	}
	return "dirty"
}

// Size is a footprint in screen pixels.
type Size struct {
	Width  float64
	Height float64
}

// Shape is what renderers, hit testing and containers see of any geometry in the family.
type Shape interface {
	ID() string
	Kind() string
	Coordinates() geom.Coord
	SetCoordinates(c geom.Coord) error
	Shell() []geom.Coord
	Extent() geom.BBox
	Holes() ([][]geom.Coord, bool)
	StrokeWidth() float64
	SetStrokeWidth(px float64) error
	Options() Options
	Transform() (geom.Transform, bool)
	Attach(t geom.Transform)
	Detach()
	Remove()
	OnRemove(fn func())
	On(kind event.Kind, fn event.Listener) event.Subscription
	Off(s event.Subscription)
	Size() (Size, error)
	ToStructuredPolygon() *geojson.Geometry
	ToGeoJSON() *geojson.Feature
	WKT() string
}

// core is the state shared by every shape in the family: an ellipse-like boundary of a
// full width and height around a center. Circle keeps width == height.
type core struct {
	id       string
	kind     string
	position geom.Coord
	width    float64
	height   float64
	opts     Options

	state  State
	shell  []geom.Coord
	extent geom.BBox

	events    event.Registry
	transform geom.Transform
	onRemove  []func()
	log       *slog.Logger
}

func newCore(kind, prefix string, position geom.Coord, width, height float64, opts Options) (*core, error) {
	if !position.Finite() {
		return nil, fmt.Errorf("%w: position %v is not finite", ErrInvalidParameter, position)
	}
	if err := checkSize("width", width); err != nil {
		return nil, err
	}
	if err := checkSize("height", height); err != nil {
		return nil, err
	}
	opts, err := opts.normalize()
	if err != nil {
		return nil, err
	}
	id := typeid.MustGenerate(prefix).String()
	return &core{
		id:       id,
		kind:     kind,
		position: position,
		width:    width,
		height:   height,
		opts:     opts,
		state:    Dirty,
		log:      applog.WithComponent("geometry").With(slog.String("id", id)),
	}, nil
}

func (c *core) ID() string   { return c.id }
func (c *core) Kind() string { return c.kind }
func (c *core) State() State { return c.state }

func (c *core) Coordinates() geom.Coord { return c.position }

// Center is the same as Coordinates for centered shapes.
func (c *core) Center() geom.Coord { return c.position }

// SetCoordinates moves the shape. Any finite coordinate is accepted, including ones outside
// a projection's nominal range.
func (c *core) SetCoordinates(p geom.Coord) error {
	if !p.Finite() {
		return fmt.Errorf("%w: position %v is not finite", ErrInvalidParameter, p)
	}
	c.position = p
	c.invalidate()
	c.emit(event.PositionChange)
	return nil
}

func (c *core) setWidth(v float64) error {
	if err := checkSize("width", v); err != nil {
		return err
	}
	c.width = v
	c.invalidate()
	c.emit(event.ShapeChange)
	return nil
}

func (c *core) setHeight(v float64) error {
	if err := checkSize("height", v); err != nil {
		return err
	}
	c.height = v
	c.invalidate()
	c.emit(event.ShapeChange)
	return nil
}

func (c *core) invalidate() {
	c.state = Dirty
	c.shell = nil
}

func (c *core) emit(k event.Kind) {
	c.events.Emit(event.Event{Kind: k, Source: c.id})
}

func (c *core) recompute() {
	if c.state == Clean {
		return
	}
	c.shell = shape.EllipseShell(c.position, c.width, c.height, c.opts.ShellResolution, c.opts.Measurer)
	c.extent = shape.EllipseExtent(c.position, c.width, c.height, c.opts.Measurer)
	c.state = Clean
	c.log.Debug("caches recomputed", slog.Int("vertices", len(c.shell)))
}

// Shell returns the boundary vertices, ShellResolution of them, as an open ring.
// The returned slice is a copy.
func (c *core) Shell() []geom.Coord {
	c.recompute()
	return slices.Clone(c.shell)
}

// Extent returns the analytic bounding box, which holds every shell vertex.
func (c *core) Extent() geom.BBox {
	c.recompute()
	return c.extent
}

// Holes always reports that shapes of this family have no interior rings.
func (c *core) Holes() ([][]geom.Coord, bool) { return nil, false }

func (c *core) Options() Options {
	o := c.opts
	o.Symbol = maps.Clone(o.Symbol)
	return o
}

func (c *core) StrokeWidth() float64 { return c.opts.StrokeWidth }

// SetStrokeWidth changes the symbol's stroke width. It is not a shape change and fires no
// event; renderers read it on their next sync.
func (c *core) SetStrokeWidth(px float64) error {
	if err := checkSize("stroke width", px); err != nil {
		return err
	}
	c.opts.StrokeWidth = px
	return nil
}

func (c *core) On(kind event.Kind, fn event.Listener) event.Subscription {
	return c.events.On(kind, fn)
}

func (c *core) Off(s event.Subscription) { c.events.Off(s) }

// Attach gives the geometry the transform of the map it is rendered on.
func (c *core) Attach(t geom.Transform) { c.transform = t }

// Detach drops the transform; display-unit queries fail with ErrUnattached afterwards.
func (c *core) Detach() { c.transform = nil }

func (c *core) Transform() (geom.Transform, bool) { return c.transform, c.transform != nil }

// OnRemove registers a hook run once by Remove, in registration order. Containers use it to
// release render artifacts.
func (c *core) OnRemove(fn func()) { c.onRemove = append(c.onRemove, fn) }

// Remove releases everything the geometry is bound to: remove hooks run, listeners are
// dropped and the transform is detached.
func (c *core) Remove() {
	hooks := c.onRemove
	c.onRemove = nil
	for _, fn := range hooks {
		fn()
	}
	c.events.Clear()
	c.Detach()
	c.log.Debug("removed")
}

// Size is the extent's footprint in screen pixels at the attached transform.
func (c *core) Size() (Size, error) {
	if c.transform == nil {
		return Size{}, fmt.Errorf("size of %s: %w", c.id, ErrUnattached)
	}
	w, h := shape.SizeIn(c.Extent(), c.transform)
	return Size{Width: w, Height: h}, nil
}
