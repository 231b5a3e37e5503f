package geom

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	geojson "github.com/paulmach/go.geojson"
)

// ShapeSpec describes one parametric shape to construct: a center plus its size
// parameters. Kind is "ellipse" or "circle".
type ShapeSpec struct {
	Kind   string
	Center Coord
	Width  float64
	Height float64
	Radius float64
}

// LoadShapes reads a GeoJSON file (FeatureCollection, Feature, or bare Point geometry)
// and returns a spec per Point feature carrying size properties. Polygon features with a
// center property, as written by WriteFeatures, load too.
// Recognised properties: kind, width, height, radius.
func LoadShapes(path string) ([]ShapeSpec, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	return ParseShapes(data)
}

// ParseShapes is LoadShapes over raw bytes.
func ParseShapes(data []byte) ([]ShapeSpec, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, err
	}
	var features []*geojson.Feature
	switch head.Type {
	case "FeatureCollection":
		fc, err := geojson.UnmarshalFeatureCollection(data)
		if err != nil {
			return nil, err
		}
		features = fc.Features
	case "Feature":
		feat, err := geojson.UnmarshalFeature(data)
		if err != nil {
			return nil, err
		}
		features = []*geojson.Feature{feat}
	case "":
		return nil, errors.New("invalid geojson: missing type")
	default:
		g, err := geojson.UnmarshalGeometry(data)
		if err != nil {
			return nil, err
		}
		features = []*geojson.Feature{geojson.NewFeature(g)}
	}
	var specs []ShapeSpec
	for _, feat := range features {
		if spec, ok := specFromFeature(feat); ok {
			specs = append(specs, spec)
		}
	}
	if len(specs) == 0 {
		return nil, errors.New("no shapes found in geojson")
	}
	return specs, nil
}

func specFromFeature(f *geojson.Feature) (ShapeSpec, bool) {
	if f == nil || f.Geometry == nil {
		return ShapeSpec{}, false
	}
	var spec ShapeSpec
	switch {
	case f.Geometry.IsPoint() && len(f.Geometry.Point) >= 2:
		spec.Center = Coord{X: f.Geometry.Point[0], Y: f.Geometry.Point[1]}
	case f.Geometry.IsPolygon():
		// exported shapes: the polygon is the shell, the center is a property
		c, ok := centerProperty(f.Properties["center"])
		if !ok {
			return ShapeSpec{}, false
		}
		spec.Center = c
	default:
		return ShapeSpec{}, false
	}
	spec.Kind = strings.ToLower(f.PropertyMustString("kind", ""))
	spec.Width = f.PropertyMustFloat64("width", 0)
	spec.Height = f.PropertyMustFloat64("height", 0)
	spec.Radius = f.PropertyMustFloat64("radius", 0)
	if spec.Kind == "" {
		if spec.Radius > 0 && spec.Width == 0 && spec.Height == 0 {
			spec.Kind = "circle"
		} else {
			spec.Kind = "ellipse"
		}
	}
	return spec, spec.Kind == "ellipse" || spec.Kind == "circle"
}

func centerProperty(v any) (Coord, bool) {
	switch c := v.(type) {
	case []float64:
		if len(c) >= 2 {
			return Coord{X: c[0], Y: c[1]}, true
		}
	case []any:
		if len(c) >= 2 {
			x, okx := c[0].(float64)
			y, oky := c[1].(float64)
			return Coord{X: x, Y: y}, okx && oky
		}
	}
	return Coord{}, false
}

// WriteFeatures encodes features as a FeatureCollection.
func WriteFeatures(w io.Writer, features []*geojson.Feature) error {
	fc := geojson.NewFeatureCollection()
	for _, f := range features {
		fc.AddFeature(f)
	}
	data, err := fc.MarshalJSON()
	if err != nil {
		return fmt.Errorf("encode feature collection: %w", err)
	}
	_, err = w.Write(data)
	return err
}
