package tui

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	list "github.com/charmbracelet/bubbles/list"
	geojson "github.com/paulmach/go.geojson"

	"geoshape/internal/geom"
	"geoshape/internal/geometry"
)

type fileItem struct {
	title, desc string
	path        string
}

func (f fileItem) Title() string       { return f.title }
func (f fileItem) Description() string { return f.desc }
func (f fileItem) FilterValue() string { return f.title }

func supported(ext string) bool {
	return ext == ".geojson" || ext == ".json" || ext == ".csv"
}

func (m *Model) refreshDir() {
	entries, err := os.ReadDir(m.cwd)
	if err != nil {
		m.status = "read dir error: " + err.Error()
		return
	}
	var items []list.Item
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		ext := strings.ToLower(filepath.Ext(name))
		if supported(ext) {
			items = append(items, fileItem{title: name, desc: ext, path: filepath.Join(m.cwd, name)})
		}
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].(fileItem).Title() < items[j].(fileItem).Title() })
	m.l.SetItems(items)
	if len(items) == 0 {
		m.status = "no supported files in current directory"
	}
}

// loadPath replaces the current shapes with the ones described in a GeoJSON or CSV file.
func (m *Model) loadPath(p string) {
	var (
		specs []geom.ShapeSpec
		err   error
	)
	ext := strings.ToLower(filepath.Ext(p))
	switch ext {
	case ".geojson", ".json":
		specs, err = geom.LoadShapes(p)
	case ".csv":
		specs, err = geom.LoadCSV(p)
	default:
		m.status = "unsupported file: " + ext
		return
	}
	if err != nil {
		m.status = "load error: " + err.Error()
		return
	}
	m.clearShapes()
	m.selPath = p
	skipped := 0
	for _, sp := range specs {
		s, err := geometry.FromSpec(sp, m.cfg.GeometryOptions())
		if err == nil {
			err = m.addShape(s)
		}
		if err != nil {
			skipped++
			m.log.Warn("shape skipped", slog.String("path", p), slog.Any("err", err))
		}
	}
	if m.cfg.Zoom == 0 {
		m.fit()
	}
	m.syncPending()
	m.status = fmt.Sprintf("loaded: %s  shapes=%d", filepath.Base(p), len(m.shapes))
	if skipped > 0 {
		m.status += fmt.Sprintf(" skipped=%d", skipped)
	}
}

// savePath is where shapes are written: next to the loaded file, or in the working directory.
func (m *Model) savePath() string {
	if m.selPath == "" {
		return filepath.Join(m.cwd, "shapes.geojson")
	}
	return strings.TrimSuffix(m.selPath, filepath.Ext(m.selPath)) + ".out.geojson"
}

func (m *Model) save() {
	if len(m.shapes) == 0 {
		m.status = "no shapes"
		return
	}
	p := m.savePath()
	f, err := os.Create(p)
	if err != nil {
		m.status = "save error: " + err.Error()
		return
	}
	defer f.Close()
	features := make([]*geojson.Feature, len(m.shapes))
	for i, s := range m.shapes {
		features[i] = s.ToGeoJSON()
	}
	if err := geom.WriteFeatures(f, features); err != nil {
		m.status = "save error: " + err.Error()
		return
	}
	m.status = "saved: " + filepath.Base(p)
	if m.strategy.Name() != "retained" {
		return
	}
	svg := strings.TrimSuffix(p, ".geojson") + ".svg"
	if err := m.saveSVG(svg); err != nil {
		m.status = "save error: " + err.Error()
		return
	}
	m.status += ", " + filepath.Base(svg)
}

// saveSVG writes the retained document as it is currently projected.
func (m *Model) saveSVG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := m.doc.WriteSVG(f); err != nil {
		f.Close()
		return err
	}
	m.log.Info("svg written", slog.String("path", path), slog.Int("nodes", len(m.doc.Nodes())))
	return f.Close()
}
