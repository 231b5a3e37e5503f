package geometry

import (
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"geoshape/internal/event"
	"geoshape/internal/geom"
	"geoshape/internal/shape"
	"geoshape/internal/viewport"
)

var center = geom.Coord{X: 118.846825, Y: 32.046534}

func newEllipse(t *testing.T, c geom.Coord, w, h float64) *Ellipse {
	t.Helper()
	e, err := NewEllipse(c, w, h, DefaultOptions())
	require.NoError(t, err)
	return e
}

// counter records events by kind.
type counter map[event.Kind]int

func watch(s Shape) counter {
	c := counter{}
	s.On(event.PositionChange, func(ev event.Event) { c[ev.Kind]++ })
	s.On(event.ShapeChange, func(ev event.Event) { c[ev.Kind]++ })
	return c
}

func TestSetCoordinates(t *testing.T) {
	e := newEllipse(t, geom.Coord{}, 1, 1)
	require.NoError(t, e.SetCoordinates(geom.Coord{X: -180, Y: -75}))
	assert.Equal(t, geom.Coord{X: -180, Y: -75}, e.Coordinates())
	assert.Equal(t, e.Coordinates(), e.Center())
}

func TestGetWidthHeight(t *testing.T) {
	e := newEllipse(t, geom.Coord{}, 1, 1)
	assert.Equal(t, 1.0, e.Width())
	assert.Equal(t, 1.0, e.Height())
	require.NoError(t, e.SetWidth(100))
	require.NoError(t, e.SetHeight(200))
	assert.Equal(t, 100.0, e.Width())
	assert.Equal(t, 200.0, e.Height())
}

func TestExtentPositive(t *testing.T) {
	e := newEllipse(t, geom.Coord{}, 1, 1)
	ext := e.Extent()
	assert.Greater(t, ext.Width(), 0.0)
	assert.Greater(t, ext.Height(), 0.0)
}

func TestShellLengthMatchesResolution(t *testing.T) {
	for _, n := range []int{3, 4, 60, 128} {
		opts := DefaultOptions()
		opts.ShellResolution = n
		e, err := NewEllipse(center, 100, 50, opts)
		require.NoError(t, err)
		assert.Len(t, e.Shell(), n)
		require.NoError(t, e.SetWidth(7))
		assert.Len(t, e.Shell(), n)
	}
	e := newEllipse(t, center, 1, 1)
	assert.Len(t, e.Shell(), DefaultShellResolution)
}

func TestExtentContainsShellAfterMutations(t *testing.T) {
	for _, m := range []shape.Measurer{shape.Planar{}, shape.Sphere{}} {
		opts := DefaultOptions()
		opts.Measurer = m
		e, err := NewEllipse(center, 100, 50, opts)
		require.NoError(t, err)
		for i := 0; i < 20; i++ {
			require.NoError(t, e.SetCoordinates(geom.Coord{X: center.X + float64(i)*0.01, Y: center.Y - float64(i)*0.02}))
			require.NoError(t, e.SetWidth(float64(i)*13.7))
			require.NoError(t, e.SetHeight(float64(20-i)*3.1))
			ext := e.Extent()
			for _, v := range e.Shell() {
				require.True(t, ext.Contains(v), "%v outside %+v", v, ext)
			}
		}
	}
}

func TestEventsPerSetter(t *testing.T) {
	e := newEllipse(t, center, 1, 1)
	got := watch(e)

	require.NoError(t, e.SetCoordinates(geom.Coord{X: center.X + 0.0005, Y: center.Y + 0.0005}))
	assert.Equal(t, counter{event.PositionChange: 1}, got)

	clear(got)
	require.NoError(t, e.SetWidth(0.5))
	require.NoError(t, e.SetHeight(0.25))
	assert.Equal(t, counter{event.ShapeChange: 2}, got)
	assert.Equal(t, 0.5, e.Width())
	assert.Equal(t, 0.25, e.Height())
}

func TestSameValueStillNotifies(t *testing.T) {
	e := newEllipse(t, center, 3, 4)
	got := watch(e)
	require.NoError(t, e.SetWidth(3))
	require.NoError(t, e.SetCoordinates(center))
	assert.Equal(t, counter{event.ShapeChange: 1, event.PositionChange: 1}, got)
}

func TestEventSourceIsGeometryID(t *testing.T) {
	e := newEllipse(t, center, 3, 4)
	var src string
	e.On(event.ShapeChange, func(ev event.Event) { src = ev.Source })
	require.NoError(t, e.SetHeight(9))
	assert.Equal(t, e.ID(), src)
	assert.True(t, strings.HasPrefix(e.ID(), "ell_"))
}

func TestRejectsInvalidParameters(t *testing.T) {
	e := newEllipse(t, center, 3, 4)
	got := watch(e)
	for _, v := range []float64{-1, math.NaN(), math.Inf(1)} {
		assert.ErrorIs(t, e.SetWidth(v), ErrInvalidParameter)
		assert.ErrorIs(t, e.SetHeight(v), ErrInvalidParameter)
	}
	assert.ErrorIs(t, e.SetCoordinates(geom.Coord{X: math.NaN()}), ErrInvalidParameter)
	assert.ErrorIs(t, e.SetStrokeWidth(-2), ErrInvalidParameter)
	assert.Empty(t, got)
	assert.Equal(t, 3.0, e.Width())
	assert.Equal(t, 4.0, e.Height())
	assert.Equal(t, center, e.Coordinates())

	_, err := NewEllipse(center, -1, 1, DefaultOptions())
	assert.ErrorIs(t, err, ErrInvalidParameter)
	opts := DefaultOptions()
	opts.ShellResolution = 2
	_, err = NewEllipse(center, 1, 1, opts)
	assert.ErrorIs(t, err, ErrInvalidParameter)
	_, err = NewCircle(center, math.Inf(-1), DefaultOptions())
	assert.ErrorIs(t, err, ErrInvalidParameter)
}

func TestStateMachine(t *testing.T) {
	e := newEllipse(t, center, 3, 4)
	assert.Equal(t, Dirty, e.State())
	_ = e.Extent()
	assert.Equal(t, Clean, e.State())
	require.NoError(t, e.SetWidth(5))
	assert.Equal(t, Dirty, e.State())
	require.NoError(t, e.SetHeight(6))
	assert.Equal(t, Dirty, e.State())
	_ = e.Shell()
	assert.Equal(t, Clean, e.State())
	assert.Equal(t, "clean", e.State().String())
}

func TestShellDeterministicAndCopied(t *testing.T) {
	e := newEllipse(t, center, 100, 50)
	a := e.Shell()
	a[0] = geom.Coord{}
	assert.NotEqual(t, a[0], e.Shell()[0])

	f := newEllipse(t, center, 100, 50)
	assert.Equal(t, e.Shell(), f.Shell())
}

func TestDegenerateWidth(t *testing.T) {
	e := newEllipse(t, center, 0, 0)
	shell := e.Shell()
	require.Len(t, shell, DefaultShellResolution)
	for _, v := range shell {
		assert.Equal(t, center, v)
	}
	assert.Zero(t, e.Extent().Width())

	e2 := newEllipse(t, center, 0, 10)
	assert.Zero(t, e2.Extent().Width())
	assert.Greater(t, e2.Extent().Height(), 0.0)
}

func TestNoHoles(t *testing.T) {
	e := newEllipse(t, center, 100, 50)
	holes, ok := e.Holes()
	assert.False(t, ok)
	assert.Nil(t, holes)
}

func TestToStructuredPolygon(t *testing.T) {
	e := newEllipse(t, center, 100, 50)
	g := e.ToStructuredPolygon()
	assert.True(t, g.IsPolygon())
	require.Len(t, g.Polygon, 1)
	assert.Len(t, g.Polygon[0], DefaultShellResolution)
	shell := e.Shell()
	assert.Equal(t, []float64{shell[0].X, shell[0].Y}, g.Polygon[0][0])

	b, err := json.Marshal(g)
	require.NoError(t, err)
	var raw struct {
		Type        string        `json:"type"`
		Coordinates [][][]float64 `json:"coordinates"`
	}
	require.NoError(t, json.Unmarshal(b, &raw))
	assert.Equal(t, "Polygon", raw.Type)
	assert.Len(t, raw.Coordinates[0], DefaultShellResolution)
}

func TestToGeoJSONFeature(t *testing.T) {
	c, err := NewCircle(center, 40, DefaultOptions())
	require.NoError(t, err)
	f := c.ToGeoJSON()
	assert.Equal(t, c.ID(), f.ID)
	assert.Equal(t, "circle", f.PropertyMustString("kind"))
	assert.Equal(t, 40.0, f.PropertyMustFloat64("radius"))
	assert.Equal(t, 80.0, f.PropertyMustFloat64("width"))
	assert.Equal(t, "Polygon", string(f.Geometry.Type))
}

func TestWKTIsClosed(t *testing.T) {
	opts := DefaultOptions()
	opts.ShellResolution = 4
	e, err := NewEllipse(geom.Coord{}, 2, 2, opts)
	require.NoError(t, err)
	rings, err := geom.ParseWKTPolygon(e.WKT())
	require.NoError(t, err)
	require.Len(t, rings, 1)
	assert.Len(t, rings[0], 5)
	assert.Equal(t, rings[0][0], rings[0][4])
}

func TestCircleRadius(t *testing.T) {
	c, err := NewCircle(geom.Coord{}, 5, DefaultOptions())
	require.NoError(t, err)
	got := watch(c)
	require.NoError(t, c.SetRadius(8))
	assert.Equal(t, 8.0, c.Radius())
	assert.Equal(t, counter{event.ShapeChange: 1}, got)
	ext := c.Extent()
	assert.InDelta(t, 16, ext.Width(), 1e-12)
	assert.InDelta(t, 16, ext.Height(), 1e-12)
	assert.True(t, strings.HasPrefix(c.ID(), "circ_"))
}

func TestSizeRequiresAttachment(t *testing.T) {
	e := newEllipse(t, geom.Coord{}, 100, 100)
	_, err := e.Size()
	require.ErrorIs(t, err, ErrUnattached)

	e.Attach(viewport.New(viewport.Identity{}, geom.Coord{}, 0.5, 800, 600))
	sz, err := e.Size()
	require.NoError(t, err)
	assert.InDelta(t, 200, sz.Width, 1e-9)
	assert.InDelta(t, 200, sz.Height, 1e-9)

	e.Detach()
	_, err = e.Size()
	assert.ErrorIs(t, err, ErrUnattached)
}

func TestSizeOnGeographicMap(t *testing.T) {
	opts := DefaultOptions()
	opts.Measurer = shape.Sphere{}
	e, err := NewEllipse(center, 100, 100, opts)
	require.NoError(t, err)
	e.Attach(viewport.New(viewport.Mercator{}, center, viewport.WebZoom(17), 800, 600))
	sz, err := e.Size()
	require.NoError(t, err)
	assert.Greater(t, sz.Width, 0.0)
	assert.Greater(t, sz.Height, 0.0)
}

func TestRemoveRunsHooksAndDropsListeners(t *testing.T) {
	e := newEllipse(t, center, 1, 1)
	got := watch(e)
	e.Attach(viewport.New(nil, center, 1, 10, 10))
	released := 0
	e.OnRemove(func() { released++ })

	e.Remove()
	e.Remove()
	assert.Equal(t, 1, released)
	_, attached := e.Transform()
	assert.False(t, attached)
	require.NoError(t, e.SetWidth(2))
	assert.Empty(t, got)
}

func TestListenerMutatingSameGeometryDoesNotCascade(t *testing.T) {
	e := newEllipse(t, center, 1, 1)
	shapes := 0
	e.On(event.ShapeChange, func(event.Event) {
		shapes++
		_ = e.SetHeight(e.Width() * 2)
	})
	require.NoError(t, e.SetWidth(3))
	assert.Equal(t, 1, shapes)
	assert.Equal(t, 6.0, e.Height())
}

func TestOptionsSymbolIsCopied(t *testing.T) {
	opts := DefaultOptions()
	opts.Symbol = map[string]any{"lineColor": "#f00"}
	e, err := NewEllipse(center, 1, 1, opts)
	require.NoError(t, err)
	opts.Symbol["lineColor"] = "#0f0"
	assert.Equal(t, "#f00", e.Options().Symbol["lineColor"])
}

func TestZeroOptionsKeepZeroStroke(t *testing.T) {
	e, err := NewEllipse(center, 4, 2, Options{})
	require.NoError(t, err)
	assert.Zero(t, e.StrokeWidth())
	assert.Equal(t, DefaultShellResolution, e.Options().ShellResolution)
	assert.Equal(t, "planar", e.Options().Measurer.Name())
	assert.Equal(t, 1.0, DefaultOptions().StrokeWidth)

	require.NoError(t, e.SetStrokeWidth(0))
	require.NoError(t, e.SetStrokeWidth(3))
	assert.Equal(t, 3.0, e.StrokeWidth())
}

func TestFromSpec(t *testing.T) {
	s, err := FromSpec(geom.ShapeSpec{Kind: "circle", Center: center, Width: 10}, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 5.0, s.(*Circle).Radius())
	s, err = FromSpec(geom.ShapeSpec{Kind: "ellipse", Center: center, Width: 10, Height: 4}, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 4.0, s.(*Ellipse).Height())
}
