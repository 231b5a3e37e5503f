package geom

import (
	"encoding/csv"
	"errors"
	"io"
	"os"
	"strconv"
	"strings"
)

// LoadCSV reads shape rows from a CSV with latitude/longitude columns plus size columns.
// Column detection (case-insensitive): lat|latitude|y, lon|lng|long|longitude|x,
// width|w, height|h, radius|r, kind|type.
func LoadCSV(path string) ([]ShapeSpec, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadCSV(f)
}

// ReadCSV is LoadCSV over a reader.
func ReadCSV(rd io.Reader) ([]ShapeSpec, error) {
	r := csv.NewReader(rd)
	r.TrimLeadingSpace = true
	recs, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, errors.New("empty csv")
	}
	header := recs[0]
	idxLat, idxLon, idxW, idxH, idxR, idxKind := -1, -1, -1, -1, -1, -1
	first := func(idx *int, i int) {
		if *idx == -1 {
			*idx = i
		}
	}
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "lat", "latitude", "y":
			first(&idxLat, i)
		case "lon", "lng", "long", "longitude", "x":
			first(&idxLon, i)
		case "width", "w":
			first(&idxW, i)
		case "height", "h":
			first(&idxH, i)
		case "radius", "r":
			first(&idxR, i)
		case "kind", "type":
			first(&idxKind, i)
		}
	}
	if idxLat == -1 || idxLon == -1 {
		return nil, errors.New("csv: latitude/longitude columns not found")
	}
	if idxR == -1 && (idxW == -1 || idxH == -1) {
		return nil, errors.New("csv: need width/height or radius columns")
	}
	field := func(row []string, idx int) (float64, bool) {
		if idx < 0 || idx >= len(row) {
			return 0, false
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(row[idx]), 64)
		return v, err == nil
	}
	var specs []ShapeSpec
	for _, row := range recs[1:] {
		lon, ok1 := field(row, idxLon)
		lat, ok2 := field(row, idxLat)
		if !ok1 || !ok2 {
			continue
		}
		spec := ShapeSpec{Center: Coord{X: lon, Y: lat}}
		if idxKind >= 0 && idxKind < len(row) {
			spec.Kind = strings.ToLower(strings.TrimSpace(row[idxKind]))
		}
		spec.Width, _ = field(row, idxW)
		spec.Height, _ = field(row, idxH)
		spec.Radius, _ = field(row, idxR)
		if spec.Kind == "" {
			spec.Kind = "ellipse"
			_, hasW := field(row, idxW)
			if _, ok := field(row, idxR); ok && !hasW {
				spec.Kind = "circle"
			}
		}
		if spec.Kind != "ellipse" && spec.Kind != "circle" {
			continue
		}
		specs = append(specs, spec)
	}
	if len(specs) == 0 {
		return nil, errors.New("csv: no valid shapes parsed")
	}
	return specs, nil
}
