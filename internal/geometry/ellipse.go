package geometry

import (
	"fmt"

	"geoshape/internal/event"
	"geoshape/internal/geom"
)

// Ellipse is an axis-aligned ellipse given by its center and full width and height. Sizes
// are in the unit of the configured measurer: native units for Planar, metres for Sphere.
type Ellipse struct {
	*core
}

// NewEllipse builds an ellipse. Width and height are mandatory and must be non-negative;
// zero is a legal degenerate size.
func NewEllipse(center geom.Coord, width, height float64, opts Options) (*Ellipse, error) {
	c, err := newCore("ellipse", "ell", center, width, height, opts)
	if err != nil {
		return nil, fmt.Errorf("new ellipse: %w", err)
	}
	return &Ellipse{core: c}, nil
}

func (e *Ellipse) Width() float64  { return e.width }
func (e *Ellipse) Height() float64 { return e.height }

// SetWidth fires exactly one ShapeChange, even when the value is unchanged.
func (e *Ellipse) SetWidth(v float64) error { return e.setWidth(v) }

// SetHeight fires exactly one ShapeChange, even when the value is unchanged.
func (e *Ellipse) SetHeight(v float64) error { return e.setHeight(v) }

// Circle is an ellipse constrained to equal axes, sized by its radius.
type Circle struct {
	*core
}

func NewCircle(center geom.Coord, radius float64, opts Options) (*Circle, error) {
	if err := checkSize("radius", radius); err != nil {
		return nil, fmt.Errorf("new circle: %w", err)
	}
	c, err := newCore("circle", "circ", center, 2*radius, 2*radius, opts)
	if err != nil {
		return nil, fmt.Errorf("new circle: %w", err)
	}
	return &Circle{core: c}, nil
}

func (c *Circle) Radius() float64 { return c.width / 2 }

// SetRadius fires exactly one ShapeChange.
func (c *Circle) SetRadius(r float64) error {
	if err := checkSize("radius", r); err != nil {
		return err
	}
	c.width, c.height = 2*r, 2*r
	c.invalidate()
	c.emit(event.ShapeChange)
	return nil
}

var (
	_ Shape = (*Ellipse)(nil)
	_ Shape = (*Circle)(nil)
)
