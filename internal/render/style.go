package render

import (
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
)

// Symbol keys the renderers read. Anything else in a symbol is ignored.
const (
	SymbolLineColor      = "lineColor"
	SymbolPolygonFill    = "polygonFill"
	SymbolPolygonOpacity = "polygonOpacity"
)

var defaultLine = color.NRGBA{R: 0x7C, G: 0x3A, B: 0xED, A: 0xFF}

type style struct {
	line      color.Color
	lineHex   string
	fill      color.Color // nil: no fill
	fillHex   string
	opacity   float64
	lineWidth float64
}

func styleOf(g Drawable) style {
	s := style{line: defaultLine, lineHex: "#7c3aed", lineWidth: g.StrokeWidth()}
	sym := g.Options().Symbol
	if v, ok := sym[SymbolLineColor].(string); ok {
		if c, err := colorful.Hex(v); err == nil {
			s.line, s.lineHex = nrgba(c, 1), c.Hex()
		}
	}
	if v, ok := sym[SymbolPolygonFill].(string); ok {
		if c, err := colorful.Hex(v); err == nil {
			alpha := 1.0
			if a, ok := sym[SymbolPolygonOpacity].(float64); ok && a >= 0 && a <= 1 {
				alpha = a
			}
			s.fill, s.fillHex, s.opacity = nrgba(c, alpha), c.Hex(), alpha
		}
	}
	return s
}

func nrgba(c colorful.Color, alpha float64) color.NRGBA {
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: uint8(alpha*255 + 0.5)}
}
