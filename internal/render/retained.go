package render

import (
	"fmt"
	"image/color"
	"log/slog"
	"slices"
	"strconv"

	"github.com/lucasb-eyer/go-colorful"
	"go.jetify.com/typeid/v2"

	"geoshape/internal/geom"
	applog "geoshape/internal/log"
)

// Node is an element of a retained document. Geometry nodes are "path" elements whose
// Points are screen coordinates.
type Node struct {
	ID          string
	Tag         string
	Points      []geom.Point
	StrokeWidth float64
	Attrs       map[string]string
	Parent      *Node
	Children    []*Node

	// Revision counts in-place updates.
	Revision int
}

func newNode(tag string) *Node {
	return &Node{ID: typeid.MustGenerate("node").String(), Tag: tag, Attrs: map[string]string{}}
}

func (n *Node) append(c *Node) {
	c.Parent = n
	n.Children = append(n.Children, c)
}

func (n *Node) remove(c *Node) {
	if i := slices.Index(n.Children, c); i >= 0 {
		n.Children = slices.Delete(n.Children, i, i+1)
	}
	c.Parent = nil
}

// Document is the retained backend context: a root element holding one group, and one
// node per synced geometry inside it.
type Document struct {
	root       *Node
	group      *Node
	t          geom.Transform
	width      int
	height     int
	byGeometry map[string]*Node
	sources    map[string]Drawable
	log        *slog.Logger
}

// NewDocument returns an empty document of w×h screen pixels.
func NewDocument(t geom.Transform, w, h int) *Document {
	root := newNode("svg")
	group := newNode("g")
	group.Attrs["class"] = "vectors"
	root.append(group)
	return &Document{
		root:       root,
		group:      group,
		t:          t,
		width:      w,
		height:     h,
		byGeometry: map[string]*Node{},
		sources:    map[string]Drawable{},
		log:        applog.WithComponent("render").With(slog.String("backend", "retained")),
	}
}

func (d *Document) Backend() string           { return "retained" }
func (d *Document) Transform() geom.Transform { return d.t }
func (d *Document) Size() (w, h int)          { return d.width, d.height }

// Resize changes the document viewport; nodes are untouched.
func (d *Document) Resize(w, h int) { d.width, d.height = w, h }

// NodeFor returns the node bound to a geometry ID.
func (d *Document) NodeFor(id string) (*Node, bool) {
	n, ok := d.byGeometry[id]
	return n, ok
}

// Nodes returns the geometry nodes in paint order.
func (d *Document) Nodes() []*Node { return slices.Clone(d.group.Children) }

// SetTransform swaps the transform and updates every node in place.
func (d *Document) SetTransform(t geom.Transform) {
	d.t = t
	for id, g := range d.sources {
		d.update(d.byGeometry[id], g)
	}
}

func (d *Document) upsert(g Drawable) *Node {
	id := g.ID()
	n, ok := d.byGeometry[id]
	if !ok {
		n = newNode("path")
		n.Attrs["data-geometry"] = id
		d.group.append(n)
		d.byGeometry[id] = n
		d.log.Debug("node created", slog.String("id", id), slog.String("node", n.ID))
	}
	d.sources[id] = g
	d.update(n, g)
	return n
}

func (d *Document) update(n *Node, g Drawable) {
	st := styleOf(g)
	n.Points = project(g.Shell(), d.t)
	n.StrokeWidth = st.lineWidth
	n.Attrs["stroke"] = st.lineHex
	n.Attrs["stroke-width"] = strconv.FormatFloat(st.lineWidth, 'g', -1, 64)
	if st.fill != nil {
		n.Attrs["fill"] = st.fillHex
		n.Attrs["fill-opacity"] = strconv.FormatFloat(st.opacity, 'g', -1, 64)
	} else {
		n.Attrs["fill"] = "none"
		delete(n.Attrs, "fill-opacity")
	}
	n.Revision++
}

func (d *Document) drop(id string) bool {
	n, ok := d.byGeometry[id]
	if !ok {
		return false
	}
	d.group.remove(n)
	delete(d.byGeometry, id)
	delete(d.sources, id)
	return true
}

// Paint clears c and rasterises every geometry node onto it.
func (d *Document) Paint(c Canvas) {
	b := c.Bounds()
	c.Clear(b)
	for _, n := range d.group.Children {
		if f, ok := hexColor(n.Attrs["fill"], n.Attrs["fill-opacity"]); ok {
			c.FillPolygon(n.Points, f, b)
		}
		line, ok := hexColor(n.Attrs["stroke"], "")
		if !ok {
			line = defaultLine
		}
		c.StrokePolygon(n.Points, n.StrokeWidth, line, b)
	}
}

func hexColor(hex, opacity string) (color.NRGBA, bool) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return color.NRGBA{}, false
	}
	a := 1.0
	if opacity != "" {
		if v, err := strconv.ParseFloat(opacity, 64); err == nil {
			a = v
		}
	}
	return nrgba(c, a), true
}

// RetainedStrategy keeps one node per geometry in a *Document and mutates it in place.
type RetainedStrategy struct{}

func (RetainedStrategy) Name() string { return "retained" }

func (RetainedStrategy) Accepts(ctx Context) bool {
	d, ok := ctx.(*Document)
	return ok && d != nil
}

func (s RetainedStrategy) document(ctx Context) (*Document, error) {
	d, ok := ctx.(*Document)
	if !ok || d == nil {
		return nil, fmt.Errorf("%w: %s strategy given %T", ErrBackendMismatch, s.Name(), ctx)
	}
	return d, nil
}

// Sync creates g's node on first call and updates it in place afterwards; the node pointer
// and ID stay the same for the life of the binding.
func (s RetainedStrategy) Sync(g Drawable, ctx Context) error {
	d, err := s.document(ctx)
	if err != nil {
		return err
	}
	d.upsert(g)
	return nil
}

// Release detaches g's node. Releasing an unknown geometry is a no-op.
func (s RetainedStrategy) Release(g Drawable, ctx Context) error {
	d, err := s.document(ctx)
	if err != nil {
		return err
	}
	if d.drop(g.ID()) {
		d.log.Debug("released", slog.String("id", g.ID()))
	}
	return nil
}
