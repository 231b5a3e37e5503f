package render

import (
	"encoding/xml"
	"io"
	"maps"
	"slices"
	"strconv"
	"strings"

	"geoshape/internal/geom"
)

const svgNS = "http://www.w3.org/2000/svg"

// WriteSVG serialises the document tree. Geometry nodes become closed path elements; the
// ring is written as-is, the Z command closes it.
func (d *Document) WriteSVG(w io.Writer) error {
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := d.encode(enc, d.root); err != nil {
		return err
	}
	return enc.Flush()
}

func (d *Document) encode(enc *xml.Encoder, n *Node) error {
	start := xml.StartElement{Name: xml.Name{Local: n.Tag}}
	if n == d.root {
		start.Attr = append(start.Attr,
			xml.Attr{Name: xml.Name{Local: "xmlns"}, Value: svgNS},
			xml.Attr{Name: xml.Name{Local: "width"}, Value: strconv.Itoa(d.width)},
			xml.Attr{Name: xml.Name{Local: "height"}, Value: strconv.Itoa(d.height)},
		)
	}
	start.Attr = append(start.Attr, xml.Attr{Name: xml.Name{Local: "id"}, Value: n.ID})
	if n.Tag == "path" {
		start.Attr = append(start.Attr, xml.Attr{Name: xml.Name{Local: "d"}, Value: pathData(n.Points)})
	}
	for _, k := range slices.Sorted(maps.Keys(n.Attrs)) {
		start.Attr = append(start.Attr, xml.Attr{Name: xml.Name{Local: k}, Value: n.Attrs[k]})
	}
	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	for _, c := range n.Children {
		if err := d.encode(enc, c); err != nil {
			return err
		}
	}
	return enc.EncodeToken(start.End())
}

func pathData(pts []geom.Point) string {
	if len(pts) == 0 {
		return ""
	}
	var b strings.Builder
	for i, p := range pts {
		if i == 0 {
			b.WriteString("M")
		} else {
			b.WriteString(" L")
		}
		b.WriteString(strconv.FormatFloat(p.X, 'f', 2, 64))
		b.WriteString(" ")
		b.WriteString(strconv.FormatFloat(p.Y, 'f', 2, 64))
	}
	b.WriteString(" Z")
	return b.String()
}
