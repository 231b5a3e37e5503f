package viewport

import (
	"math"

	"geoshape/internal/geom"
)

// Projection maps native coordinates into a planar projected space and back.
type Projection interface {
	Project(c geom.Coord) geom.Coord
	Unproject(p geom.Coord) geom.Coord
	Name() string
}

// Identity treats native coordinates as already planar.
type Identity struct{}

func (Identity) Name() string                      { return "identity" }
func (Identity) Project(c geom.Coord) geom.Coord   { return c }
func (Identity) Unproject(p geom.Coord) geom.Coord { return p }

// Mercator is spherical Web Mercator (EPSG:3857) over lon/lat degrees.
type Mercator struct{}

const (
	mercatorRadius = 6378137.0
	maxLatitude    = 85.0511287798
)

func (Mercator) Name() string { return "mercator" }

func (Mercator) Project(c geom.Coord) geom.Coord {
	lat := math.Max(math.Min(c.Y, maxLatitude), -maxLatitude)
	x := mercatorRadius * c.X * math.Pi / 180
	y := mercatorRadius * math.Log(math.Tan(math.Pi/4+lat*math.Pi/360))
	return geom.Coord{X: x, Y: y}
}

func (Mercator) Unproject(p geom.Coord) geom.Coord {
	lon := p.X / mercatorRadius * 180 / math.Pi
	lat := (2*math.Atan(math.Exp(p.Y/mercatorRadius)) - math.Pi/2) * 180 / math.Pi
	return geom.Coord{X: lon, Y: lat}
}

// ProjectionByName resolves "mercator" and "identity"/"planar"; anything else is identity.
func ProjectionByName(name string) Projection {
	if name == "mercator" {
		return Mercator{}
	}
	return Identity{}
}
