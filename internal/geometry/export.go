package geometry

import (
	geojson "github.com/paulmach/go.geojson"

	"geoshape/internal/geom"
)

// ToStructuredPolygon exports the shell as a GeoJSON Polygon with one ring of exactly
// ShellResolution [x, y] positions. The ring is left open; callers targeting a format that
// needs closed rings add the closing vertex themselves.
func (c *core) ToStructuredPolygon() *geojson.Geometry {
	shell := c.Shell()
	ring := make([][]float64, len(shell))
	for i, v := range shell {
		ring[i] = v.Array()
	}
	return geojson.NewPolygonGeometry([][][]float64{ring})
}

// ToGeoJSON wraps the polygon in a feature carrying the defining parameters.
func (c *core) ToGeoJSON() *geojson.Feature {
	f := geojson.NewFeature(c.ToStructuredPolygon())
	f.ID = c.id
	f.SetProperty("kind", c.kind)
	f.SetProperty("center", c.position.Array())
	f.SetProperty("width", c.width)
	f.SetProperty("height", c.height)
	f.SetProperty("strokeWidth", c.opts.StrokeWidth)
	f.SetProperty("measurer", c.opts.Measurer.Name())
	return f
}

// ToGeoJSON adds the radius to the generic feature.
func (c *Circle) ToGeoJSON() *geojson.Feature {
	f := c.core.ToGeoJSON()
	f.SetProperty("radius", c.Radius())
	return f
}

// WKT writes the shell as a closed WKT polygon.
func (c *core) WKT() string { return geom.FormatWKTPolygon(c.Shell()) }

// FromSpec builds the shape a loaded spec describes.
func FromSpec(s geom.ShapeSpec, opts Options) (Shape, error) {
	if s.Kind == "circle" {
		r := s.Radius
		if r == 0 {
			r = s.Width / 2
		}
		return NewCircle(s.Center, r, opts)
	}
	return NewEllipse(s.Center, s.Width, s.Height, opts)
}
