package tui

import (
	"fmt"

	table "github.com/charmbracelet/bubbles/table"

	"geoshape/internal/geometry"
)

var attrColumns = []string{"id", "kind", "center", "size", "extent", "verts", "px"}

// refreshAttrs rebuilds the attributes table from the current shapes.
func (m *Model) refreshAttrs() {
	if len(m.shapes) == 0 {
		m.showAttrs = false
		m.status = "no shapes"
		return
	}
	rows := make([]table.Row, 0, len(m.shapes))
	widths := make([]int, len(attrColumns))
	for i, c := range attrColumns {
		widths[i] = len(c) + 2
	}
	for i, s := range m.shapes {
		cells := shapeAttrs(s)
		for j, c := range cells {
			widths[j] = min(30, max(widths[j], len(c)+2))
		}
		mark := fmt.Sprintf("%d", i+1)
		if i == m.selected {
			mark += "*"
		}
		rows = append(rows, table.Row(append([]string{mark}, cells...)))
	}
	cols := []table.Column{{Title: "#", Width: 4}}
	for i, c := range attrColumns {
		cols = append(cols, table.Column{Title: c, Width: widths[i]})
	}
	// Avoid transient mismatch: clear rows, set columns, then set rows
	m.tbl.SetRows(nil)
	m.tbl.SetColumns(cols)
	m.tbl.SetRows(rows)
}

// shapeAttrs returns the table cells for one shape, in attrColumns order.
func shapeAttrs(s geometry.Shape) []string {
	c := s.Coordinates()
	var size string
	switch s := s.(type) {
	case *geometry.Ellipse:
		size = fmt.Sprintf("%.4gx%.4g", s.Width(), s.Height())
	case *geometry.Circle:
		size = fmt.Sprintf("r=%.4g", s.Radius())
	}
	e := s.Extent()
	px := "-"
	if sz, err := s.Size(); err == nil {
		px = fmt.Sprintf("%.0fx%.0f", sz.Width, sz.Height)
	}
	return []string{
		s.ID(),
		s.Kind(),
		fmt.Sprintf("%.5f,%.5f", c.X, c.Y),
		size,
		fmt.Sprintf("[%.4f,%.4f,%.4f,%.4f]", e.MinX, e.MinY, e.MaxX, e.MaxY),
		fmt.Sprintf("%d", len(s.Shell())),
		px,
	}
}
