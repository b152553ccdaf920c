package forestfire

import "image/color"

var palette = []color.RGBA{
	Forest: {R: 40, G: 110, B: 55, A: 255},
	Fire:   {R: 255, G: 130, B: 40, A: 255},
	Ash:    {R: 120, G: 120, B: 120, A: 255},
}

// Palette returns the render colour for each state, indexed by State.
func Palette() []color.RGBA {
	return append([]color.RGBA(nil), palette...)
}

// Palette exposes the colour palette used for rendering the display buffer.
func (s *Sim) Palette() []color.RGBA {
	return palette
}

func (s *Sim) rebuildDisplay() {
	g := s.engine.Grid()
	if g == nil {
		clear(s.display)
		return
	}
	for i, c := range g.cells {
		s.display[i] = uint8(c)
	}
}
