package tui

import (
	"log/slog"
	"os"

	list "github.com/charmbracelet/bubbles/list"
	table "github.com/charmbracelet/bubbles/table"
	textarea "github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"geoshape/internal/config"
	"geoshape/internal/geom"
	"geoshape/internal/geometry"
	applog "geoshape/internal/log"
	"geoshape/internal/render"
	"geoshape/internal/viewport"
)

const (
	sidebarWidth = 28
	headerHeight = 1
	footerHeight = 2
)

type Model struct {
	width  int
	height int

	showSidebar bool
	helpVisible bool

	status string
	cfg    config.Config
	log    *slog.Logger

	// File explorer
	cwd     string
	l       list.Model
	selPath string

	// Map: the viewport works in braille micro-pixels, 2x4 per cell
	vp       *viewport.Viewport
	mapW     int
	mapH     int
	canvas   *render.BrailleCanvas
	layer    *render.Layer
	doc      *render.Document
	strategy render.Strategy

	// Shapes in paint order and their render bindings
	shapes   []geometry.Shape
	bindings map[string]*render.Binding
	selected int // index into shapes, -1 for none

	// drag state
	dragging bool
	dragFrom geom.Point

	// paste mode
	pasteMode bool
	ta        textarea.Model

	// hover state
	hovering    bool
	hoverID     string
	hoverHasGeo bool
	hoverLon    float64
	hoverLat    float64

	// attributes table
	showAttrs bool
	tbl       table.Model
}

func New(cfg config.Config) Model {
	m := Model{
		helpVisible: true,
		status:      "geoshape ready",
		cfg:         cfg,
		log:         applog.WithComponent("tui"),
		bindings:    map[string]*render.Binding{},
		selected:    -1,
	}
	m.cwd, _ = os.Getwd()
	// list setup
	d := list.NewDefaultDelegate()
	d.ShowDescription = false
	m.l = list.New(nil, d, 0, 0)
	m.l.Title = "Files"
	m.l.SetShowHelp(false)
	m.l.SetShowStatusBar(false)
	m.l.SetFilteringEnabled(true)
	// textarea setup
	m.ta = textarea.New()
	m.ta.Placeholder = "Paste WKT here (POINT or MULTIPOINT). Each point becomes an ellipse. Enter to add; Esc to cancel."
	m.ta.CharLimit = 0
	m.ta.SetWidth(50)
	m.ta.SetHeight(6)
	m.tbl = table.New(table.WithFocused(true))
	m.tbl.SetHeight(12)

	m.strategy, _ = render.StrategyByName(cfg.Backend)
	if m.strategy == nil {
		m.strategy = render.RasterStrategy{}
	}
	m.vp = viewport.New(viewport.ProjectionByName(cfg.Projection), geom.Coord{}, 1, 0, 0)
	if cfg.Zoom > 0 {
		m.applyZoomLevel(cfg.Zoom)
	}
	// provisional surfaces until the first WindowSizeMsg
	m.resizeMap(80, 24)
	m.refreshDir()
	return m
}

// NewWithPath preloads a shapes file at launch.
func NewWithPath(cfg config.Config, path string) Model {
	m := New(cfg)
	m.loadPath(path)
	return m
}

func (m Model) Init() tea.Cmd { return nil }

// applyZoomLevel sets the resolution from the configured zoom: a web zoom level on
// mercator maps, native units per micro-pixel otherwise.
func (m *Model) applyZoomLevel(z float64) {
	if m.vp.Projection().Name() == "mercator" {
		m.vp.SetResolution(viewport.WebZoom(z))
		return
	}
	m.vp.SetResolution(z)
}

// context is the render context of the active backend.
func (m *Model) context() render.Context {
	if m.strategy.Name() == "retained" {
		return m.doc
	}
	return m.layer
}

// resizeMap recreates the map surfaces for a map area of w×h cells and moves every
// binding onto them.
func (m *Model) resizeMap(w, h int) {
	w, h = max(8, w), max(4, h)
	if w == m.mapW && h == m.mapH && m.layer != nil {
		return
	}
	m.mapW, m.mapH = w, h
	m.vp.Resize(float64(w*2), float64(h*4))
	m.canvas = render.NewBrailleCanvas(w, h)
	m.layer = render.NewLayer(m.canvas, m.vp)
	m.doc = render.NewDocument(m.vp, w*2, h*4)
	for _, s := range m.shapes {
		if b := m.bindings[s.ID()]; b != nil {
			if err := b.Bind(m.strategy, m.context()); err != nil {
				m.status = "render error: " + err.Error()
			}
		}
	}
}

// viewChanged reprojects every artifact after a pan or zoom.
func (m *Model) viewChanged() {
	m.layer.SetTransform(m.vp)
	m.doc.SetTransform(m.vp)
}

// addShape attaches s to the map and binds it to the active backend.
func (m *Model) addShape(s geometry.Shape) error {
	s.Attach(m.vp)
	b, err := render.NewBinding(s, m.strategy, m.context())
	if err != nil {
		s.Detach()
		return err
	}
	m.shapes = append(m.shapes, s)
	m.bindings[s.ID()] = b
	return nil
}

// removeShape removes the shape at index i; its binding closes through the remove hook.
func (m *Model) removeShape(i int) {
	s := m.shapes[i]
	s.Remove()
	delete(m.bindings, s.ID())
	m.shapes = append(m.shapes[:i], m.shapes[i+1:]...)
	switch {
	case len(m.shapes) == 0:
		m.selected = -1
	case m.selected >= len(m.shapes):
		m.selected = len(m.shapes) - 1
	}
}

func (m *Model) clearShapes() {
	for len(m.shapes) > 0 {
		m.removeShape(len(m.shapes) - 1)
	}
	m.selected = -1
}

// syncPending pushes every changed geometry to its backend. Update calls it once per
// message so several edits coalesce into one repaint.
func (m *Model) syncPending() {
	for _, s := range m.shapes {
		b := m.bindings[s.ID()]
		if b == nil {
			continue
		}
		if _, err := b.SyncIfPending(); err != nil {
			m.status = "render error: " + err.Error()
			m.log.Warn("sync failed", slog.String("id", s.ID()), slog.Any("err", err))
		}
	}
}

// switchBackend moves every binding to the other backend: release, then create.
func (m *Model) switchBackend() {
	next := render.Strategy(render.RetainedStrategy{})
	if m.strategy.Name() == "retained" {
		next = render.RasterStrategy{}
	}
	m.strategy = next
	for _, s := range m.shapes {
		if err := m.bindings[s.ID()].Bind(next, m.context()); err != nil {
			m.status = "render error: " + err.Error()
			return
		}
	}
	m.status = "backend: " + next.Name()
}

func (m *Model) selectedShape() geometry.Shape {
	if m.selected < 0 || m.selected >= len(m.shapes) {
		return nil
	}
	return m.shapes[m.selected]
}

func (m *Model) indexOf(s geometry.Shape) int {
	for i, o := range m.shapes {
		if o == s {
			return i
		}
	}
	return -1
}

// fit centers the view on every shape.
func (m *Model) fit() {
	if len(m.shapes) == 0 {
		return
	}
	bb := m.shapes[0].Extent()
	for _, s := range m.shapes[1:] {
		bb = bb.Union(s.Extent())
	}
	m.vp.Fit(bb, 4)
	m.viewChanged()
}

// defaultSize is a new shape's size in measurer units: about a twelfth of the map width.
func (m *Model) defaultSize() (w, h float64) {
	w = float64(m.mapW*2) / 12 * m.vp.Resolution()
	return w, w / 2
}
