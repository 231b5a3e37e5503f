package tui

import (
	"fmt"
	"log/slog"
	"strings"

	list "github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"geoshape/internal/geom"
	"geoshape/internal/geometry"
	"geoshape/internal/hit"
)

const resizeStep = 1.1

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		_, _, w, h := m.layout()
		m.resizeMap(w, h)
		if m.showSidebar {
			m.l.SetSize(sidebarWidth-2, h-2)
		}
	case tea.KeyMsg:
		// If list is visible and filtering, send keys to list and ignore global commands
		if m.showSidebar && m.l.FilterState() == list.Filtering {
			m.l, cmd = m.l.Update(msg)
			return m, cmd
		}
		if m.pasteMode {
			return m.updatePaste(msg)
		}
		if quit := m.handleKey(msg.String()); quit {
			return m, tea.Quit
		}
	case tea.MouseMsg:
		m.handleMouse(msg)
	}
	m.syncPending()
	if m.showAttrs {
		m.refreshAttrs()
	}
	// Pass messages to list when visible
	if m.showSidebar {
		m.l, cmd = m.l.Update(msg)
	}
	return m, cmd
}

func (m *Model) updatePaste(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.pasteMode = false
		m.ta.Blur()
		return *m, nil
	case "enter":
		w := strings.TrimSpace(m.ta.Value())
		if w == "" {
			m.status = "paste: empty"
			return *m, nil
		}
		pts, sizes, err := m.parsePaste(w)
		if err != nil {
			m.status = "wkt error: " + err.Error()
			return *m, nil
		}
		added := 0
		for i, c := range pts {
			e, err := geometry.NewEllipse(c, sizes[i][0], sizes[i][1], m.cfg.GeometryOptions())
			if err == nil {
				err = m.addShape(e)
			}
			if err != nil {
				m.status = "add error: " + err.Error()
				break
			}
			added++
		}
		if added > 0 {
			m.selected = len(m.shapes) - 1
			m.status = fmt.Sprintf("added %d ellipse(s)", added)
		}
		m.pasteMode = false
		m.ta.Blur()
		m.syncPending()
		return *m, nil
	}
	var cmd tea.Cmd
	m.ta, cmd = m.ta.Update(msg)
	return *m, cmd
}

// parsePaste turns pasted WKT into ellipse centers and sizes. Points get the default size;
// a POLYGON gets one ellipse inscribed in the extent of its outer ring.
func (m *Model) parsePaste(wkt string) ([]geom.Coord, [][2]float64, error) {
	if strings.HasPrefix(strings.ToUpper(wkt), "POLYGON") {
		rings, err := geom.ParseWKTPolygon(wkt)
		if err != nil {
			return nil, nil, err
		}
		bb := geom.BBoxOf(rings[0])
		c := bb.Center()
		// invert the measurer: it is linear in each axis around a fixed center
		unit := m.cfg.GeometryOptions().Measurer.Offset(c, 1, 1)
		kx, ky := unit.X-c.X, unit.Y-c.Y
		if kx == 0 || ky == 0 {
			return nil, nil, fmt.Errorf("polygon at %v cannot be measured", c)
		}
		return []geom.Coord{c}, [][2]float64{{bb.Width() / kx, bb.Height() / ky}}, nil
	}
	pts, err := geom.ParseWKTPoints(wkt)
	if err != nil {
		return nil, nil, err
	}
	width, height := m.defaultSize()
	sizes := make([][2]float64, len(pts))
	for i := range sizes {
		sizes[i] = [2]float64{width, height}
	}
	return pts, sizes, nil
}

// handleKey applies a key outside paste mode and reports whether to quit.
func (m *Model) handleKey(key string) bool {
	switch key {
	case "ctrl+c", "q":
		return true
	case "+", "=":
		m.vp.Zoom(1.2)
		m.viewChanged()
		m.status = fmt.Sprintf("resolution: %.4g", m.vp.Resolution())
	case "-", "_":
		m.vp.Zoom(1 / 1.2)
		m.viewChanged()
		m.status = fmt.Sprintf("resolution: %.4g", m.vp.Resolution())
	case "tab":
		m.showSidebar = !m.showSidebar
		_, _, w, h := m.layout()
		m.resizeMap(w, h)
		if m.showSidebar {
			m.refreshDir()
			m.l.SetSize(sidebarWidth-2, h-2)
		}
	case "p":
		m.pasteMode = true
		m.ta.SetValue("")
		m.ta.Focus()
		m.status = "paste mode"
	case "h":
		m.helpVisible = !m.helpVisible
	case "a":
		m.showAttrs = !m.showAttrs
		if m.showAttrs && len(m.shapes) == 0 {
			m.showAttrs = false
			m.status = "no shapes"
		}
	case "b":
		m.switchBackend()
	case "f":
		m.fit()
	case "n":
		if len(m.shapes) > 0 {
			m.selected = (m.selected + 1) % len(m.shapes)
			m.status = "selected " + m.shapes[m.selected].ID()
		}
	case "esc":
		m.selected = -1
	case "c":
		w, _ := m.defaultSize()
		c, err := geometry.NewCircle(m.vp.Center(), w/2, m.cfg.GeometryOptions())
		if err == nil {
			err = m.addShape(c)
		}
		if err != nil {
			m.status = "add error: " + err.Error()
			break
		}
		m.selected = len(m.shapes) - 1
		m.status = "added " + c.ID()
	case "d", "delete":
		if s := m.selectedShape(); s != nil {
			m.removeShape(m.selected)
			m.status = "removed " + s.ID()
		}
	case "s":
		m.save()
	case "w", "W", "e", "E":
		m.resizeSelected(key)
	case "[", "]":
		m.strokeSelected(key == "]")
	case "enter":
		if m.showSidebar {
			if it, ok := m.l.SelectedItem().(fileItem); ok {
				m.loadPath(it.path)
			}
		}
	case "up", "down", "left", "right":
		dx, dy := arrowDelta(key)
		if s := m.selectedShape(); s != nil {
			m.moveBy(s, dx*2, dy*4)
		} else {
			m.vp.Pan(dx*2, dy*4)
			m.viewChanged()
		}
	case "shift+up", "shift+down", "shift+left", "shift+right":
		dx, dy := arrowDelta(strings.TrimPrefix(key, "shift+"))
		m.vp.Pan(dx*8, dy*16)
		m.viewChanged()
	}
	return false
}

func arrowDelta(key string) (dx, dy float64) {
	switch key {
	case "up":
		return 0, -1
	case "down":
		return 0, 1
	case "left":
		return -1, 0
	case "right":
		return 1, 0
	}
	return 0, 0
}

// moveBy shifts a shape by dx, dy micro-pixels on screen.
func (m *Model) moveBy(s geometry.Shape, dx, dy float64) {
	p := m.vp.ToScreen(s.Coordinates())
	if err := s.SetCoordinates(m.vp.ToNative(geom.Point{X: p.X + dx, Y: p.Y + dy})); err != nil {
		m.status = "move error: " + err.Error()
		m.log.Warn("move rejected", slog.String("id", s.ID()), slog.Any("err", err))
	}
}

// strokeWidths are the widths "[" and "]" step through, in micro-pixels.
var strokeWidths = []float64{0, 1, 2, 3, 4, 6}

// strokeSelected steps the selected shape's stroke width. It is a symbol change with no
// geometry event, so the binding is synced directly.
func (m *Model) strokeSelected(up bool) {
	s := m.selectedShape()
	if s == nil {
		return
	}
	cur := s.StrokeWidth()
	var next float64
	if up {
		next = strokeWidths[len(strokeWidths)-1]
		for _, w := range strokeWidths {
			if w > cur {
				next = w
				break
			}
		}
	} else {
		next = strokeWidths[0]
		for _, w := range strokeWidths {
			if w < cur {
				next = w
			}
		}
	}
	if err := s.SetStrokeWidth(next); err != nil {
		m.status = "stroke error: " + err.Error()
		return
	}
	if b := m.bindings[s.ID()]; b != nil {
		if err := b.Sync(); err != nil {
			m.status = "render error: " + err.Error()
			return
		}
	}
	m.status = fmt.Sprintf("%s stroke %g", s.ID(), s.StrokeWidth())
}

// resizeSelected grows (upper case) or shrinks (lower case) the width (w) or height (e).
func (m *Model) resizeSelected(key string) {
	s := m.selectedShape()
	if s == nil {
		m.status = "nothing selected"
		return
	}
	f := 1 / resizeStep
	if strings.ToUpper(key) == key {
		f = resizeStep
	}
	var err error
	switch s := s.(type) {
	case *geometry.Ellipse:
		if strings.EqualFold(key, "w") {
			err = s.SetWidth(s.Width() * f)
		} else {
			err = s.SetHeight(s.Height() * f)
		}
	case *geometry.Circle:
		err = s.SetRadius(s.Radius() * f)
	}
	if err != nil {
		m.status = "resize error: " + err.Error()
		m.log.Warn("resize rejected", slog.String("id", s.ID()), slog.Any("err", err))
		return
	}
	if sz, err := s.Size(); err == nil {
		m.status = fmt.Sprintf("%s %.0fx%.0f px", s.ID(), sz.Width, sz.Height)
	}
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	ox, oy, w, h := m.layout()
	cx, cy := msg.X-ox, msg.Y-oy
	inside := cx >= 0 && cx < w && cy >= 0 && cy < h
	// cell center in micro-pixels
	p := geom.Point{X: float64(cx*2) + 1, Y: float64(cy*4) + 2}

	switch msg.Action {
	case tea.MouseActionPress:
		if !inside || msg.Button != tea.MouseButtonLeft {
			return
		}
		if s := hit.Topmost(m.shapes, p); s != nil {
			m.selected = m.indexOf(s)
			m.dragging = true
			m.dragFrom = p
			m.status = "selected " + s.ID()
		} else {
			m.selected = -1
		}
	case tea.MouseActionRelease:
		m.dragging = false
	case tea.MouseActionMotion:
		if m.dragging {
			if s := m.selectedShape(); s != nil {
				m.moveBy(s, p.X-m.dragFrom.X, p.Y-m.dragFrom.Y)
				m.dragFrom = p
			}
		}
	}

	m.hovering = inside
	m.hoverHasGeo = false
	m.hoverID = ""
	if !inside {
		return
	}
	c := m.vp.ToNative(p)
	m.hoverHasGeo = c.Finite()
	m.hoverLon, m.hoverLat = c.X, c.Y
	if s := hit.Topmost(m.shapes, p); s != nil {
		m.hoverID = s.ID()
	}
}

// layout returns the map origin and size in cells; it must match View.
func (m Model) layout() (x, y, w, h int) {
	contentHeight := max(4, m.height-headerHeight-footerHeight)
	contentWidth := max(10, m.width)
	w = max(10, contentWidth-1)
	if m.showSidebar {
		w = max(10, contentWidth-sidebarWidth-1)
		x = sidebarWidth + 1
	}
	return x, headerHeight, w, contentHeight
}
