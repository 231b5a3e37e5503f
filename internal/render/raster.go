package render

import (
	"fmt"
	"image"
	"log/slog"

	"geoshape/internal/geom"
	applog "geoshape/internal/log"
)

type rasterItem struct {
	g      Drawable
	ring   []geom.Point
	style  style
	bounds image.Rectangle
}

// Layer is the raster backend context: one canvas shared by every geometry synced into it.
// Items paint in the order they were first synced.
type Layer struct {
	canvas Canvas
	t      geom.Transform
	items  map[string]*rasterItem
	order  []string

	damage   image.Rectangle
	repaints int
	log      *slog.Logger
}

func NewLayer(c Canvas, t geom.Transform) *Layer {
	return &Layer{
		canvas: c,
		t:      t,
		items:  map[string]*rasterItem{},
		log:    applog.WithComponent("render").With(slog.String("backend", "raster")),
	}
}

func (l *Layer) Backend() string           { return "raster" }
func (l *Layer) Transform() geom.Transform { return l.t }
func (l *Layer) Canvas() Canvas            { return l.canvas }

// Len is the number of painted items.
func (l *Layer) Len() int { return len(l.items) }

func (l *Layer) Has(id string) bool {
	_, ok := l.items[id]
	return ok
}

// Bounds returns the screen rectangle last painted for a geometry.
func (l *Layer) Bounds(id string) (image.Rectangle, bool) {
	it, ok := l.items[id]
	if !ok {
		return image.Rectangle{}, false
	}
	return it.bounds, true
}

// LastDamage is the rectangle cleared and repainted by the most recent repaint.
func (l *Layer) LastDamage() image.Rectangle { return l.damage }

// Repaints counts repaint passes that touched at least one pixel.
func (l *Layer) Repaints() int { return l.repaints }

// SetTransform swaps the transform, reprojects every item and repaints the whole canvas.
func (l *Layer) SetTransform(t geom.Transform) {
	l.t = t
	for _, it := range l.items {
		l.project(it)
	}
	l.Redraw()
}

// Redraw repaints the full canvas.
func (l *Layer) Redraw() { l.repaint(l.canvas.Bounds()) }

func (l *Layer) project(it *rasterItem) {
	it.ring = project(it.g.Shell(), l.t)
	it.style = styleOf(it.g)
	it.bounds = pixelBounds(it.ring, it.style.lineWidth/2+1)
}

func (l *Layer) put(g Drawable) {
	id := g.ID()
	it, ok := l.items[id]
	var old image.Rectangle
	if ok {
		old = it.bounds
	} else {
		it = &rasterItem{}
		l.items[id] = it
		l.order = append(l.order, id)
	}
	it.g = g
	l.project(it)
	l.repaint(old.Union(it.bounds))
}

func (l *Layer) drop(id string) bool {
	it, ok := l.items[id]
	if !ok {
		return false
	}
	delete(l.items, id)
	for i, o := range l.order {
		if o == id {
			l.order = append(l.order[:i], l.order[i+1:]...)
			break
		}
	}
	l.repaint(it.bounds)
	return true
}

// repaint clears damage and repaints every item overlapping it, clipped to it.
func (l *Layer) repaint(damage image.Rectangle) {
	damage = damage.Intersect(l.canvas.Bounds())
	if damage.Empty() {
		return
	}
	l.canvas.Clear(damage)
	painted := 0
	for _, id := range l.order {
		it := l.items[id]
		if !it.bounds.Overlaps(damage) {
			continue
		}
		if it.style.fill != nil {
			l.canvas.FillPolygon(it.ring, it.style.fill, damage)
		}
		l.canvas.StrokePolygon(it.ring, it.style.lineWidth, it.style.line, damage)
		painted++
	}
	l.damage = damage
	l.repaints++
	l.log.Debug("damage repainted", slog.String("rect", damage.String()), slog.Int("items", painted))
}

// RasterStrategy paints geometries into a *Layer.
type RasterStrategy struct{}

func (RasterStrategy) Name() string { return "raster" }

func (RasterStrategy) Accepts(ctx Context) bool {
	l, ok := ctx.(*Layer)
	return ok && l != nil
}

func (s RasterStrategy) layer(ctx Context) (*Layer, error) {
	l, ok := ctx.(*Layer)
	if !ok || l == nil {
		return nil, fmt.Errorf("%w: %s strategy given %T", ErrBackendMismatch, s.Name(), ctx)
	}
	return l, nil
}

// Sync paints g, creating its item on first call. Only the union of its old and new
// bounds is repainted.
func (s RasterStrategy) Sync(g Drawable, ctx Context) error {
	l, err := s.layer(ctx)
	if err != nil {
		return err
	}
	l.put(g)
	return nil
}

// Release erases g from the layer. Releasing an unknown geometry is a no-op.
func (s RasterStrategy) Release(g Drawable, ctx Context) error {
	l, err := s.layer(ctx)
	if err != nil {
		return err
	}
	if l.drop(g.ID()) {
		l.log.Debug("released", slog.String("id", g.ID()))
	}
	return nil
}
