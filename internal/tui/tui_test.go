package tui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"geoshape/internal/config"
	"geoshape/internal/geom"
	"geoshape/internal/geometry"
)

func planarConfig() config.Config {
	cfg := config.Defaults()
	cfg.Projection = "planar"
	cfg.Measurer = "planar"
	cfg.Zoom = 1
	return cfg
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func send(m Model, msgs ...tea.Msg) Model {
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

// sized is a 100x30 terminal: the map is 99x27 cells (198x108 micro-pixels) with the
// native origin at micro-pixel (99, 54), i.e. cell (49, 13).
func sized(t *testing.T) Model {
	t.Helper()
	return send(New(planarConfig()), tea.WindowSizeMsg{Width: 100, Height: 30})
}

func withPastedPoint(t *testing.T) Model {
	t.Helper()
	m := sized(t)
	m = send(m, keyMsg("p"), keyMsg("POINT (0 0)"), keyMsg("enter"))
	require.Len(t, m.shapes, 1)
	return m
}

func TestPasteAddsBoundEllipse(t *testing.T) {
	m := withPastedPoint(t)
	assert.False(t, m.pasteMode)
	assert.Equal(t, 0, m.selected)
	e, ok := m.shapes[0].(*geometry.Ellipse)
	require.True(t, ok)
	assert.Equal(t, 16.5, e.Width())
	assert.True(t, m.layer.Has(e.ID()))
	assert.Contains(t, m.status, "added 1")
}

func TestPasteRejectsBadWKT(t *testing.T) {
	m := sized(t)
	m = send(m, keyMsg("p"), keyMsg("LINESTRING (0 0, 1 1)"), keyMsg("enter"))
	assert.True(t, m.pasteMode)
	assert.Contains(t, m.status, "wkt error")
	m = send(m, keyMsg("esc"))
	assert.False(t, m.pasteMode)
	assert.Empty(t, m.shapes)
}

func TestBackendToggleMovesArtifacts(t *testing.T) {
	m := withPastedPoint(t)
	id := m.shapes[0].ID()

	m = send(m, keyMsg("b"))
	assert.Equal(t, "retained", m.strategy.Name())
	assert.False(t, m.layer.Has(id))
	_, ok := m.doc.NodeFor(id)
	assert.True(t, ok)

	m = send(m, keyMsg("b"))
	assert.Equal(t, "raster", m.strategy.Name())
	assert.True(t, m.layer.Has(id))
	_, ok = m.doc.NodeFor(id)
	assert.False(t, ok)
}

func TestKeysMoveAndResizeSelection(t *testing.T) {
	m := withPastedPoint(t)
	e := m.shapes[0].(*geometry.Ellipse)

	m = send(m, keyMsg("right"), keyMsg("up"))
	assert.Equal(t, geom.Coord{X: 2, Y: 4}, e.Coordinates())

	before, _ := m.layer.Bounds(e.ID())
	m = send(m, keyMsg("W"), keyMsg("e"))
	assert.InDelta(t, 16.5*1.1, e.Width(), 1e-9)
	assert.InDelta(t, 8.25/1.1, e.Height(), 1e-9)
	after, _ := m.layer.Bounds(e.ID())
	assert.NotEqual(t, before, after, "raster item repainted after resize")
}

func TestHoverWithoutButton(t *testing.T) {
	m := withPastedPoint(t)
	m = send(m, keyMsg("esc"))

	m = send(m, tea.MouseMsg{X: 49, Y: 14, Action: tea.MouseActionMotion, Button: tea.MouseButtonNone})
	assert.Equal(t, m.shapes[0].ID(), m.hoverID)
	assert.True(t, m.hoverHasGeo)
	assert.Equal(t, -1, m.selected, "hover does not select")
	assert.Equal(t, geom.Coord{}, m.shapes[0].Coordinates(), "hover does not drag")

	m = send(m, tea.MouseMsg{X: 5, Y: 2, Action: tea.MouseActionMotion, Button: tea.MouseButtonNone})
	assert.Empty(t, m.hoverID)
}

func TestArrowsPanWithoutSelection(t *testing.T) {
	m := withPastedPoint(t)
	m = send(m, keyMsg("esc"), keyMsg("right"))
	assert.Equal(t, geom.Coord{}, m.shapes[0].Coordinates())
	assert.Equal(t, geom.Coord{X: 2}, m.vp.Center())
}

func TestMouseClickHitTests(t *testing.T) {
	m := withPastedPoint(t)
	m = send(m, keyMsg("esc"))
	require.Equal(t, -1, m.selected)

	click := tea.MouseMsg{X: 49, Y: 1 + 13, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
	m = send(m, click)
	assert.Equal(t, 0, m.selected)
	assert.Equal(t, m.shapes[0].ID(), m.hoverID)

	// drag one cell right
	m = send(m,
		tea.MouseMsg{X: 50, Y: 14, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft},
		tea.MouseMsg{X: 50, Y: 14, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft},
	)
	assert.Equal(t, geom.Coord{X: 2}, m.shapes[0].Coordinates())
	assert.False(t, m.dragging)

	miss := tea.MouseMsg{X: 5, Y: 2, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
	m = send(m, miss)
	assert.Equal(t, -1, m.selected)
	assert.Empty(t, m.hoverID)
}

func TestDeleteReleasesArtifact(t *testing.T) {
	m := withPastedPoint(t)
	id := m.shapes[0].ID()
	m = send(m, keyMsg("d"))
	assert.Empty(t, m.shapes)
	assert.False(t, m.layer.Has(id))
	assert.Equal(t, -1, m.selected)
}

func TestLoadAndSave(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "shapes.csv")
	require.NoError(t, os.WriteFile(path, []byte("x,y,width,height,radius\n0,0,10,5,\n40,20,,,8\n"), 0o600))

	cfg := planarConfig()
	cfg.Zoom = 0
	m := send(NewWithPath(cfg, path), tea.WindowSizeMsg{Width: 100, Height: 30})
	require.Len(t, m.shapes, 2)
	assert.Equal(t, "ellipse", m.shapes[0].Kind())
	assert.Equal(t, "circle", m.shapes[1].Kind())
	for _, s := range m.shapes {
		assert.True(t, m.layer.Has(s.ID()))
	}

	m = send(m, keyMsg("s"))
	out := filepath.Join(dir, "shapes.out.geojson")
	assert.Equal(t, "saved: shapes.out.geojson", m.status)

	again := NewWithPath(cfg, out)
	require.Len(t, again.shapes, 2)
	assert.Equal(t, m.shapes[1].Coordinates(), again.shapes[1].Coordinates())
	c, ok := again.shapes[1].(*geometry.Circle)
	require.True(t, ok)
	assert.Equal(t, 8.0, c.Radius())
}

func TestSaveWritesSVGOnRetainedBackend(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "shapes.csv")
	require.NoError(t, os.WriteFile(path, []byte("x,y,width,height,radius\n0,0,10,5,\n40,20,,,8\n"), 0o600))
	m := send(NewWithPath(planarConfig(), path), tea.WindowSizeMsg{Width: 100, Height: 30})
	require.Len(t, m.shapes, 2)

	m = send(m, keyMsg("b"), keyMsg("s"))
	assert.Equal(t, "saved: shapes.out.geojson, shapes.out.svg", m.status)
	b, err := os.ReadFile(filepath.Join(dir, "shapes.out.svg"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(b), "<svg"))
	assert.Equal(t, 2, strings.Count(string(b), "<path"))
	for _, s := range m.shapes {
		assert.Contains(t, string(b), s.ID())
	}
}

func TestPastePolygonFitsExtent(t *testing.T) {
	m := sized(t)
	m = send(m, keyMsg("p"), keyMsg("POLYGON ((0 0, 20 0, 20 10, 0 10, 0 0))"), keyMsg("enter"))
	require.Len(t, m.shapes, 1)
	e, ok := m.shapes[0].(*geometry.Ellipse)
	require.True(t, ok)
	assert.Equal(t, geom.Coord{X: 10, Y: 5}, e.Coordinates())
	assert.InDelta(t, 20, e.Width(), 1e-12)
	assert.InDelta(t, 10, e.Height(), 1e-12)
}

func TestStrokeKeysResync(t *testing.T) {
	m := withPastedPoint(t)
	s := m.shapes[0]
	require.Equal(t, 1.0, s.StrokeWidth())
	before, _ := m.layer.Bounds(s.ID())

	m = send(m, keyMsg("]"), keyMsg("]"))
	assert.Equal(t, 3.0, s.StrokeWidth())
	after, _ := m.layer.Bounds(s.ID())
	assert.True(t, before.In(after) && before != after, "raster item repainted with wider stroke")

	m = send(m, keyMsg("["), keyMsg("["), keyMsg("["), keyMsg("["))
	assert.Equal(t, 0.0, s.StrokeWidth())
	assert.Contains(t, m.status, "stroke 0")
}

func TestAttrsTable(t *testing.T) {
	m := withPastedPoint(t)
	m = send(m, keyMsg("a"))
	require.True(t, m.showAttrs)
	rows := m.tbl.Rows()
	require.Len(t, rows, 1)
	assert.Equal(t, "1*", rows[0][0])
	assert.Equal(t, m.shapes[0].ID(), rows[0][1])
	assert.Equal(t, "60", rows[0][6])
}

func TestViewAndQuit(t *testing.T) {
	m := withPastedPoint(t)
	v := m.View()
	assert.Contains(t, v, "geoshape")
	assert.True(t, strings.ContainsFunc(v, func(r rune) bool { return r >= 0x2801 && r <= 0x28FF }))

	_, cmd := m.Update(keyMsg("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}
