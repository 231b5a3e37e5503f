package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/vector"

	"geoshape/internal/geom"
)

// Canvas is a raster surface. Every drawing call is clipped to clip; pixels outside it are
// never touched.
type Canvas interface {
	Bounds() image.Rectangle
	Clear(r image.Rectangle)
	FillPolygon(ring []geom.Point, c color.Color, clip image.Rectangle)
	StrokePolygon(ring []geom.Point, width float64, c color.Color, clip image.Rectangle)
}

// ImageCanvas rasterises into an RGBA image with anti-aliasing.
type ImageCanvas struct {
	img *image.RGBA
	bg  *image.Uniform
	z   vector.Rasterizer
}

func NewImageCanvas(w, h int, bg color.Color) *ImageCanvas {
	c := &ImageCanvas{img: image.NewRGBA(image.Rect(0, 0, w, h)), bg: image.NewUniform(bg)}
	c.Clear(c.img.Bounds())
	return c
}

func (c *ImageCanvas) Image() *image.RGBA      { return c.img }
func (c *ImageCanvas) Bounds() image.Rectangle { return c.img.Bounds() }

func (c *ImageCanvas) Clear(r image.Rectangle) {
	draw.Draw(c.img, r.Intersect(c.img.Bounds()), c.bg, image.Point{}, draw.Src)
}

// begin resets the rasterizer to the clip rectangle; drawing coordinates are shifted so
// that clip.Min is the rasterizer origin.
func (c *ImageCanvas) begin(clip image.Rectangle) (image.Rectangle, bool) {
	r := clip.Intersect(c.img.Bounds())
	if r.Empty() {
		return r, false
	}
	c.z.Reset(r.Dx(), r.Dy())
	c.z.DrawOp = draw.Over
	return r, true
}

func (c *ImageCanvas) subpath(pts []geom.Point, origin image.Point) {
	ox, oy := float64(origin.X), float64(origin.Y)
	c.z.MoveTo(float32(pts[0].X-ox), float32(pts[0].Y-oy))
	for _, p := range pts[1:] {
		c.z.LineTo(float32(p.X-ox), float32(p.Y-oy))
	}
	c.z.ClosePath()
}

func (c *ImageCanvas) FillPolygon(ring []geom.Point, col color.Color, clip image.Rectangle) {
	if len(ring) < 3 {
		return
	}
	r, ok := c.begin(clip)
	if !ok {
		return
	}
	c.subpath(ring, r.Min)
	c.z.Draw(c.img, r, image.NewUniform(col), image.Point{})
}

// StrokePolygon draws each edge as a quad plus a round-ish join at every vertex. All
// subpaths share one winding direction so overlaps accumulate instead of cancelling.
func (c *ImageCanvas) StrokePolygon(ring []geom.Point, width float64, col color.Color, clip image.Rectangle) {
	if len(ring) == 0 || width <= 0 {
		return
	}
	r, ok := c.begin(clip)
	if !ok {
		return
	}
	for _, sp := range strokeOutline(ring, width/2) {
		c.subpath(sp, r.Min)
	}
	c.z.Draw(c.img, r, image.NewUniform(col), image.Point{})
}

// strokeOutline returns the closed subpaths covering a stroke of half-width hw around
// the ring, all wound clockwise on screen.
func strokeOutline(ring []geom.Point, hw float64) [][]geom.Point {
	var out [][]geom.Point
	n := len(ring)
	for i := range ring {
		a, b := ring[i], ring[(i+1)%n]
		dx, dy := b.X-a.X, b.Y-a.Y
		l := math.Hypot(dx, dy)
		if l == 0 {
			continue
		}
		nx, ny := -dy/l*hw, dx/l*hw
		out = append(out, []geom.Point{
			{X: a.X + nx, Y: a.Y + ny},
			{X: b.X + nx, Y: b.Y + ny},
			{X: b.X - nx, Y: b.Y - ny},
			{X: a.X - nx, Y: a.Y - ny},
		})
	}
	for _, p := range ring {
		out = append(out, joinDisc(p, hw))
	}
	return out
}

const joinSides = 8

// joinDisc approximates a disc by an octagon, walked by decreasing angle to match the
// winding of the edge quads.
func joinDisc(p geom.Point, hw float64) []geom.Point {
	pts := make([]geom.Point, joinSides)
	for i := range pts {
		a := -2 * math.Pi * float64(i) / joinSides
		pts[i] = geom.Point{X: p.X + hw*math.Cos(a), Y: p.Y + hw*math.Sin(a)}
	}
	return pts
}

// pixelBounds is the integer rectangle covering ring inflated by pad.
func pixelBounds(ring []geom.Point, pad float64) image.Rectangle {
	if len(ring) == 0 {
		return image.Rectangle{}
	}
	minX, minY, maxX, maxY := ring[0].X, ring[0].Y, ring[0].X, ring[0].Y
	for _, p := range ring[1:] {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}
	return image.Rect(
		pixelCoord(math.Floor(minX-pad)), pixelCoord(math.Floor(minY-pad)),
		pixelCoord(math.Ceil(maxX+pad))+1, pixelCoord(math.Ceil(maxY+pad))+1,
	)
}

// maxPixel bounds projected coordinates; anything past it is off every canvas.
const maxPixel = 1 << 30

func pixelCoord(v float64) int {
	return int(math.Max(-maxPixel, math.Min(maxPixel, v)))
}
