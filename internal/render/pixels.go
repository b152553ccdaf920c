package render

import "image/color"

// fillPaletteRGBA converts cell values into RGBA pixels using a palette. Values
// without a palette entry render as transparent black.
func fillPaletteRGBA(buf []byte, cells []uint8, palette []color.RGBA) {
	for i, c := range cells {
		base := i * 4
		if int(c) >= len(palette) {
			buf[base+0] = 0
			buf[base+1] = 0
			buf[base+2] = 0
			buf[base+3] = 0
			continue
		}
		col := palette[c]
		buf[base+0] = col.R
		buf[base+1] = col.G
		buf[base+2] = col.B
		buf[base+3] = col.A
	}
}
