package geom

import (
	"errors"
	"strconv"
	"strings"
)

// parseTuples reads "x y, x y, ..." and skips tuples that do not parse.
func parseTuples(block string) []Coord {
	var out []Coord
	for _, tup := range strings.Split(block, ",") {
		parts := strings.Fields(strings.TrimSpace(tup))
		if len(parts) < 2 {
			continue
		}
		x, e1 := strconv.ParseFloat(parts[0], 64)
		y, e2 := strconv.ParseFloat(parts[1], 64)
		if e1 != nil || e2 != nil {
			continue
		}
		out = append(out, Coord{X: x, Y: y})
	}
	return out
}

// ParseWKTPoints parses POINT(x y) and MULTIPOINT(x y, ...) and returns the vertices.
func ParseWKTPoints(wkt string) ([]Coord, error) {
	s := strings.TrimSpace(wkt)
	if s == "" {
		return nil, errors.New("empty wkt")
	}
	up := strings.ToUpper(s)
	if !strings.HasPrefix(up, "POINT") && !strings.HasPrefix(up, "MULTIPOINT") {
		return nil, errors.New("unsupported wkt type")
	}
	i := strings.Index(s, "(")
	j := strings.LastIndex(s, ")")
	if i < 0 || j <= i {
		return nil, errors.New("wkt point: invalid")
	}
	// MULTIPOINT((1 2), (3 4)) is also legal
	block := strings.NewReplacer("(", "", ")", "").Replace(s[i+1 : j])
	pts := parseTuples(block)
	if len(pts) == 0 {
		return nil, errors.New("wkt: no coordinates parsed")
	}
	return pts, nil
}

// ParseWKTPolygon returns the rings of POLYGON((x y, ...), (...)), outer ring first.
func ParseWKTPolygon(wkt string) ([][]Coord, error) {
	s := strings.TrimSpace(wkt)
	if !strings.HasPrefix(strings.ToUpper(s), "POLYGON") {
		return nil, errors.New("unsupported wkt type")
	}
	i := strings.Index(s, "((")
	j := strings.LastIndex(s, "))")
	if i < 0 || j <= i {
		return nil, errors.New("wkt polygon: invalid")
	}
	// normalize spaces around ring separators
	ringsNorm := strings.ReplaceAll(s[i+2:j], "), (", "),(")
	ringsNorm = strings.ReplaceAll(ringsNorm, ") , (", "),(")
	var rings [][]Coord
	for _, rp := range strings.Split(ringsNorm, "),(") {
		if pts := parseTuples(rp); len(pts) > 0 {
			rings = append(rings, pts)
		}
	}
	if len(rings) == 0 {
		return nil, errors.New("wkt: no coordinates parsed")
	}
	return rings, nil
}

// FormatWKTPolygon writes rings as POLYGON text. WKT requires closed rings, so the first
// vertex is repeated when a ring is open.
func FormatWKTPolygon(rings ...[]Coord) string {
	var b strings.Builder
	b.WriteString("POLYGON (")
	for ri, ring := range rings {
		if ri > 0 {
			b.WriteString(", ")
		}
		b.WriteByte('(')
		closed := ring
		if len(ring) > 0 && ring[0] != ring[len(ring)-1] {
			closed = append(append(make([]Coord, 0, len(ring)+1), ring...), ring[0])
		}
		for i, c := range closed {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(strconv.FormatFloat(c.X, 'f', -1, 64))
			b.WriteByte(' ')
			b.WriteString(strconv.FormatFloat(c.Y, 'f', -1, 64))
		}
		b.WriteByte(')')
	}
	b.WriteByte(')')
	return b.String()
}
