package geometry

import (
	"fmt"
	"maps"
	"math"

	"geoshape/internal/shape"
)

// DefaultShellResolution is the vertex count of a shell when none is configured.
const DefaultShellResolution = 60

// Options are the fields this package reads. Symbol is carried for renderers and
// exporters and never interpreted here. A zero StrokeWidth is a valid unstroked symbol and
// is kept as is, so hits then need the point on or inside the shell; DefaultOptions uses 1.
type Options struct {
	ShellResolution int
	StrokeWidth     float64
	Measurer        shape.Measurer
	Symbol          map[string]any
}

func DefaultOptions() Options {
	return Options{
		ShellResolution: DefaultShellResolution,
		StrokeWidth:     1,
		Measurer:        shape.Planar{},
	}
}

// normalize defaults a zero ShellResolution and nil Measurer, keeps StrokeWidth as given
// and validates the rest.
func (o Options) normalize() (Options, error) {
	if o.ShellResolution == 0 {
		o.ShellResolution = DefaultShellResolution
	}
	if o.ShellResolution < shape.MinResolution {
		return o, fmt.Errorf("%w: shell resolution %d < %d", ErrInvalidParameter, o.ShellResolution, shape.MinResolution)
	}
	if err := checkSize("stroke width", o.StrokeWidth); err != nil {
		return o, err
	}
	if o.Measurer == nil {
		o.Measurer = shape.Planar{}
	}
	o.Symbol = maps.Clone(o.Symbol)
	return o, nil
}

func checkSize(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return fmt.Errorf("%w: %s must be a non-negative finite number, got %v", ErrInvalidParameter, name, v)
	}
	return nil
}
