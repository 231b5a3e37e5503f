package shape

import (
	"math"

	"geoshape/internal/geom"
)

// Measurer converts distance offsets (in the unit size parameters are given in) into
// native-space offsets around an origin.
type Measurer interface {
	// Offset returns the native coordinate reached from origin by moving dx along x and dy along y.
	Offset(origin geom.Coord, dx, dy float64) geom.Coord
	Name() string
}

// Planar measures in native units: offsets are added directly.
type Planar struct{}

func (Planar) Name() string { return "planar" }

func (Planar) Offset(o geom.Coord, dx, dy float64) geom.Coord {
	return geom.Coord{X: o.X + dx, Y: o.Y + dy}
}

// EarthRadius is the mean radius of the WGS84 ellipsoid in metres.
const EarthRadius = 6371008.8

// Sphere measures in metres on a sphere and returns lon/lat degrees. The longitude scale is
// taken at the origin's latitude, so a ring generated around one center is an exact ellipse
// in degree space.
type Sphere struct {
	Radius float64
}

func (Sphere) Name() string { return "sphere" }

func (s Sphere) radius() float64 {
	if s.Radius > 0 {
		return s.Radius
	}
	return EarthRadius
}

func (s Sphere) Offset(o geom.Coord, dx, dy float64) geom.Coord {
	r := s.radius()
	degPerMetre := 180 / (math.Pi * r)
	lat := o.Y + dy*degPerMetre
	cos := math.Abs(math.Cos(o.Y * math.Pi / 180))
	lon := o.X
	// at the poles the longitude scale is undefined; keep x fixed
	if cos > 1e-12 {
		lon = o.X + dx*degPerMetre/cos
	}
	return geom.Coord{X: lon, Y: lat}
}

// MeasurerByName resolves "planar" and "sphere"; anything else is planar.
func MeasurerByName(name string) Measurer {
	if name == "sphere" {
		return Sphere{}
	}
	return Planar{}
}
