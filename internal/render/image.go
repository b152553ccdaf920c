// Package render turns forest-fire grids into pixels and text.
package render

import (
	"image"
	"image/png"
	"io"
	"strings"

	"forest-fire/pkg/sims/forestfire"
)

// Cells returns the grid as one palette index per cell, row-major.
func Cells(g *forestfire.Grid) []uint8 {
	states := g.States()
	cells := make([]uint8, len(states))
	for i, s := range states {
		cells[i] = uint8(s)
	}
	return cells
}

// Image renders g with each cell drawn as a scale x scale block.
func Image(g *forestfire.Grid, scale int) *image.RGBA {
	if scale < 1 {
		scale = 1
	}
	w, h := g.Cols(), g.Rows()
	src := make([]byte, 4*w*h)
	fillPaletteRGBA(src, Cells(g), forestfire.Palette())

	img := image.NewRGBA(image.Rect(0, 0, w*scale, h*scale))
	for y := 0; y < h*scale; y++ {
		row := img.Pix[y*img.Stride:]
		sy := y / scale
		for x := 0; x < w*scale; x++ {
			copy(row[x*4:x*4+4], src[(sy*w+x/scale)*4:])
		}
	}
	return img
}

// WritePNG encodes Image(g, scale) as PNG.
func WritePNG(w io.Writer, g *forestfire.Grid, scale int) error {
	return png.Encode(w, Image(g, scale))
}

var glyphs = map[forestfire.State]byte{
	forestfire.Forest: 'T',
	forestfire.Fire:   '*',
	forestfire.Ash:    '.',
}

// Text renders g as lines of T (forest), * (fire) and . (ash).
func Text(g *forestfire.Grid) string {
	var b strings.Builder
	b.Grow((g.Cols() + 1) * g.Rows())
	for r := 0; r < g.Rows(); r++ {
		for c := 0; c < g.Cols(); c++ {
			s, _ := g.At(r, c)
			glyph, ok := glyphs[s]
			if !ok {
				glyph = '?'
			}
			b.WriteByte(glyph)
		}
		b.WriteByte('\n')
	}
	return b.String()
}
