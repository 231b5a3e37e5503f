package viewport

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"geoshape/internal/geom"
)

func TestIdentityViewportCentersOnScreen(t *testing.T) {
	v := New(nil, geom.Coord{X: 100, Y: 50}, 1, 800, 600)
	p := v.ToScreen(geom.Coord{X: 100, Y: 50})
	assert.Equal(t, geom.Point{X: 400, Y: 300}, p)

	// y is flipped: north is up
	p = v.ToScreen(geom.Coord{X: 110, Y: 60})
	assert.Equal(t, geom.Point{X: 410, Y: 290}, p)
}

func TestRoundTrip(t *testing.T) {
	for _, proj := range []Projection{Identity{}, Mercator{}} {
		v := New(proj, geom.Coord{X: 118.846825, Y: 32.046534}, WebZoom(17), 800, 600)
		for _, c := range []geom.Coord{{X: 118.846825, Y: 32.046534}, {X: 118.85, Y: 32.05}, {X: -180, Y: -75}} {
			back := v.ToNative(v.ToScreen(c))
			assert.InDelta(t, c.X, back.X, 1e-7, proj.Name())
			assert.InDelta(t, c.Y, back.Y, 1e-7, proj.Name())
		}
	}
}

func TestMercatorClampsPoles(t *testing.T) {
	n := Mercator{}.Project(geom.Coord{X: 0, Y: 90})
	m := Mercator{}.Project(geom.Coord{X: 0, Y: maxLatitude})
	assert.Equal(t, m, n)
}

func TestZoomAndPan(t *testing.T) {
	v := New(Identity{}, geom.Coord{}, 2, 100, 100)
	v.Zoom(2)
	assert.Equal(t, 1.0, v.Resolution())
	v.Pan(10, 0)
	assert.InDelta(t, 10, v.Center().X, 1e-12)
	v.Pan(0, 10)
	assert.InDelta(t, -10, v.Center().Y, 1e-12)
	v.Zoom(0)
	assert.Equal(t, 1.0, v.Resolution())
}

func TestFit(t *testing.T) {
	v := New(Identity{}, geom.Coord{}, 1, 120, 120)
	v.Fit(geom.BBox{MinX: 0, MinY: 0, MaxX: 200, MaxY: 100}, 10)
	assert.Equal(t, geom.Coord{X: 100, Y: 50}, v.Center())
	assert.InDelta(t, 2, v.Resolution(), 1e-12)
	tl := v.ToScreen(geom.Coord{X: 0, Y: 100})
	assert.InDelta(t, 10, tl.X, 1e-9)
}

func TestProjectionByName(t *testing.T) {
	assert.Equal(t, "mercator", ProjectionByName("mercator").Name())
	assert.Equal(t, "identity", ProjectionByName("planar").Name())
}
