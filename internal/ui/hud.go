//go:build ebiten

package ui

import (
	"image/color"

	"forest-fire/pkg/core"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"
)

const lineHeight = 16

type terminationReporter interface {
	Terminated() bool
}

// HUD renders the parameter panel to the right of the simulation view.
type HUD struct {
	sim      core.Sim
	width    int
	title    string
	panel    *ebiten.Image
	snapshot core.ParameterSnapshot
	status   Status
}

// NewHUD constructs a HUD for the provided simulation and panel width.
func NewHUD(sim core.Sim, width int) *HUD {
	if width < 0 {
		width = 0
	}
	return &HUD{sim: sim, width: width, title: buildTitle(sim)}
}

// Width returns the panel width in pixels.
func (h *HUD) Width() int {
	if h == nil {
		return 0
	}
	return h.width
}

// MinHeight returns the height needed to show every line.
func (h *HUD) MinHeight() int {
	if h == nil {
		return 0
	}
	return (len(Lines(h.title, h.status, h.snapshot)) + 1) * lineHeight
}

// Update refreshes the cached parameter snapshot from the simulation.
func (h *HUD) Update(paused bool) {
	if h == nil {
		return
	}
	if provider, ok := h.sim.(core.ParametersProvider); ok {
		h.snapshot = provider.Parameters()
	}
	h.status = StatusRunning
	if paused {
		h.status = StatusPaused
	}
	if r, ok := h.sim.(terminationReporter); ok && r.Terminated() {
		h.status = StatusBurnedOut
	}
}

// Draw paints the HUD panel at offsetX.
func (h *HUD) Draw(screen *ebiten.Image, offsetX, height int) {
	if h == nil || h.width <= 0 || height <= 0 {
		return
	}
	if h.panel == nil || h.panel.Bounds().Dx() != h.width || h.panel.Bounds().Dy() != height {
		h.panel = ebiten.NewImage(h.width, height)
	}
	h.panel.Fill(color.RGBA{R: 16, G: 16, B: 20, A: 255})
	for i, line := range Lines(h.title, h.status, h.snapshot) {
		text.Draw(h.panel, line, basicfont.Face7x13, 8, (i+1)*lineHeight, color.White)
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(offsetX), 0)
	screen.DrawImage(h.panel, op)
}
