package render

import (
	"image"
	"image/color"
	"math"
	"sort"

	"geoshape/internal/geom"
)

// BrailleCanvas is a terminal raster: each cell holds a 2x4 grid of micro-pixels rendered
// as one Unicode braille glyph. Pixel coordinates are micro-pixels. Colors are ignored.
type BrailleCanvas struct {
	w, h int       // in cells
	m    [][]uint8 // per-cell 8-bit mask
}

func NewBrailleCanvas(w, h int) *BrailleCanvas {
	m := make([][]uint8, h)
	for i := range m {
		m[i] = make([]uint8, w)
	}
	return &BrailleCanvas{w: w, h: h, m: m}
}

// CellSize is the canvas size in terminal cells.
func (b *BrailleCanvas) CellSize() (w, h int) { return b.w, b.h }

func (b *BrailleCanvas) Bounds() image.Rectangle { return image.Rect(0, 0, b.w*2, b.h*4) }

// bit returns the braille dot for micro offset (rx, ry) inside a cell.
func bit(rx, ry int) uint8 {
	if rx == 0 {
		return [4]uint8{0x01, 0x02, 0x04, 0x40}[ry]
	}
	return [4]uint8{0x08, 0x10, 0x20, 0x80}[ry]
}

func (b *BrailleCanvas) setPixel(mx, my int, clip image.Rectangle) {
	if !(image.Point{X: mx, Y: my}).In(clip) || mx < 0 || my < 0 {
		return
	}
	cx, cy := mx/2, my/4
	if cy >= b.h || cx >= b.w {
		return
	}
	b.m[cy][cx] |= bit(mx%2, my%4)
}

// Pixel reports whether micro-pixel (mx, my) is set.
func (b *BrailleCanvas) Pixel(mx, my int) bool {
	if !(image.Point{X: mx, Y: my}).In(b.Bounds()) {
		return false
	}
	return b.m[my/4][mx/2]&bit(mx%2, my%4) != 0
}

func (b *BrailleCanvas) Clear(r image.Rectangle) {
	r = r.Intersect(b.Bounds())
	for my := r.Min.Y; my < r.Max.Y; my++ {
		for mx := r.Min.X; mx < r.Max.X; mx++ {
			b.m[my/4][mx/2] &^= bit(mx%2, my%4)
		}
	}
}

// FillPolygon fills with the even-odd rule, one scanline per micro row.
func (b *BrailleCanvas) FillPolygon(ring []geom.Point, _ color.Color, clip image.Rectangle) {
	if len(ring) < 3 {
		return
	}
	clip = clip.Intersect(b.Bounds())
	for yMic := clip.Min.Y; yMic < clip.Max.Y; yMic++ {
		y := float64(yMic) + 0.5
		var xs []float64
		for i := range ring {
			a, c := ring[i], ring[(i+1)%len(ring)]
			if (a.Y > y) == (c.Y > y) { // no crossing, horizontal edges included
				continue
			}
			xs = append(xs, a.X+(y-a.Y)*(c.X-a.X)/(c.Y-a.Y))
		}
		sort.Float64s(xs)
		for i := 0; i+1 < len(xs); i += 2 {
			// clamp before converting so far off-canvas crossings stay in int range
			lo, hi := float64(clip.Min.X-1), float64(clip.Max.X+1)
			x0 := int(math.Ceil(math.Max(lo, math.Min(hi, xs[i])) - 0.5))
			x1 := int(math.Floor(math.Max(lo, math.Min(hi, xs[i+1])) - 0.5))
			for xMic := max(x0, clip.Min.X); xMic <= x1 && xMic < clip.Max.X; xMic++ {
				b.setPixel(xMic, yMic, clip)
			}
		}
	}
}

// StrokePolygon draws every edge with Bresenham; widths above one micro-pixel stamp a
// square brush. Edges are clipped first so the walk never leaves the visible area.
func (b *BrailleCanvas) StrokePolygon(ring []geom.Point, width float64, _ color.Color, clip image.Rectangle) {
	if len(ring) == 0 || width <= 0 {
		return
	}
	clip = clip.Intersect(b.Bounds())
	if clip.Empty() {
		return
	}
	r := int(math.Max(0, math.Floor(width/2)))
	pad := float64(r + 1)
	box := [4]float64{float64(clip.Min.X) - pad, float64(clip.Min.Y) - pad, float64(clip.Max.X) + pad, float64(clip.Max.Y) + pad}
	for i := range ring {
		a, c, ok := clipSegment(ring[i], ring[(i+1)%len(ring)], box)
		if !ok {
			continue
		}
		b.drawLine(int(math.Floor(a.X)), int(math.Floor(a.Y)), int(math.Floor(c.X)), int(math.Floor(c.Y)), r, clip)
	}
}

// clipSegment clips a-c to box (minX, minY, maxX, maxY) with Liang-Barsky. ok is false
// when nothing of the segment lies inside.
func clipSegment(a, c geom.Point, box [4]float64) (geom.Point, geom.Point, bool) {
	for _, v := range [4]float64{a.X, a.Y, c.X, c.Y} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return a, c, false
		}
	}
	dx, dy := c.X-a.X, c.Y-a.Y
	t0, t1 := 0.0, 1.0
	for _, pq := range [4][2]float64{
		{-dx, a.X - box[0]},
		{dx, box[2] - a.X},
		{-dy, a.Y - box[1]},
		{dy, box[3] - a.Y},
	} {
		p, q := pq[0], pq[1]
		if p == 0 {
			if q < 0 {
				return a, c, false
			}
			continue
		}
		t := q / p
		if p < 0 {
			if t > t1 {
				return a, c, false
			}
			t0 = math.Max(t0, t)
		} else {
			if t < t0 {
				return a, c, false
			}
			t1 = math.Min(t1, t)
		}
	}
	return geom.Point{X: a.X + t0*dx, Y: a.Y + t0*dy}, geom.Point{X: a.X + t1*dx, Y: a.Y + t1*dy}, true
}

// drawLine draws a line on the microgrid using Bresenham
func (b *BrailleCanvas) drawLine(x0, y0, x1, y1, brush int, clip image.Rectangle) {
	dx := abs(x1 - x0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := -abs(y1 - y0)
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy
	for {
		for oy := -brush; oy <= brush; oy++ {
			for ox := -brush; ox <= brush; ox++ {
				b.setPixel(x0+ox, y0+oy, clip)
			}
		}
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// Lines renders the canvas as one string per cell row.
func (b *BrailleCanvas) Lines() []string {
	out := make([]string, b.h)
	for y := 0; y < b.h; y++ {
		row := make([]rune, b.w)
		for x := 0; x < b.w; x++ {
			mask := b.m[y][x]
			if mask == 0 {
				row[x] = ' '
			} else {
				row[x] = rune(0x2800 + int(mask))
			}
		}
		out[y] = string(row)
	}
	return out
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
