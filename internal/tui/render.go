package tui

import (
	"math"
	"strings"

	"geoshape/internal/render"
)

// renderMap draws the active backend's surface as braille rows, with a marker on the
// center cell of the selected and hovered shapes.
func (m Model) renderMap() string {
	var lines []string
	if m.strategy.Name() == "retained" {
		c := render.NewBrailleCanvas(m.mapW, m.mapH)
		m.doc.Paint(c)
		lines = c.Lines()
	} else {
		lines = m.canvas.Lines()
	}

	marks := map[[2]int]string{}
	for i, s := range m.shapes {
		p := m.vp.ToScreen(s.Coordinates())
		cell := [2]int{int(math.Floor(p.X / 2)), int(math.Floor(p.Y / 4))}
		switch {
		case i == m.selected:
			marks[cell] = selectedStyle.Render("◉")
		case s.ID() == m.hoverID:
			marks[cell] = hoverStyle.Render("◯")
		}
	}

	out := make([]string, len(lines))
	for y, line := range lines {
		var b strings.Builder
		var run []rune
		flush := func() {
			if len(run) > 0 {
				b.WriteString(shapeStyle.Render(string(run)))
				run = run[:0]
			}
		}
		for x, r := range []rune(line) {
			if mk, ok := marks[[2]int{x, y}]; ok {
				flush()
				b.WriteString(mk)
				continue
			}
			run = append(run, r)
		}
		flush()
		out[y] = b.String()
	}
	return strings.Join(out, "\n")
}
