//go:build ebiten

package app

import (
	"image/color"
	"time"

	"forest-fire/internal/core"
	"forest-fire/internal/render"
	"forest-fire/internal/ui"
	simcore "forest-fire/pkg/core"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

const probabilityStep = 0.05

type paletteProvider interface {
	Palette() []color.RGBA
}

type probabilityReader interface {
	Probability() float64
}

// Game adapts a core simulation to the ebiten.Game interface.
type Game struct {
	sim     simcore.Sim
	painter *render.GridPainter
	hud     *ui.HUD
	pacer   *core.FixedStep
	palette []color.RGBA

	scale    int
	paused   bool
	tickOnce bool
	seed     int64
}

// New constructs a Game for the provided simulation.
func New(sim simcore.Sim, cfg *Config) *Game {
	size := sim.Size()
	g := &Game{
		sim:     sim,
		painter: render.NewGridPainter(size.W, size.H),
		hud:     ui.NewHUD(sim, cfg.HUDWidth),
		pacer:   core.NewFixedStep(cfg.Interval),
		palette: []color.RGBA{{A: 255}, {R: 255, G: 255, B: 255, A: 255}},
		scale:   cfg.Scale,
		seed:    cfg.Seed,
	}
	if pp, ok := sim.(paletteProvider); ok {
		g.palette = pp.Palette()
	}
	return g
}

// Reset reinitializes the simulation state with the provided seed.
func (g *Game) Reset(seed int64) {
	g.seed = seed
	g.sim.Reset(seed)
	g.pacer.Reset()
	g.tickOnce = false
}

// Update handles per-frame logic and advances the simulation.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		g.tickOnce = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.Reset(g.seed)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		g.Reset(time.Now().UnixNano())
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyUp) {
		g.adjustProbability(probabilityStep)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDown) {
		g.adjustProbability(-probabilityStep)
	}

	due := (!g.paused && g.pacer.ShouldStep()) || g.tickOnce
	g.tickOnce = false
	if shouldStep(g.sim, due) {
		g.sim.Step()
	}
	g.hud.Update(g.paused)
	return nil
}

// adjustProbability nudges the probability used by the next reset.
func (g *Game) adjustProbability(delta float64) {
	setter, ok := g.sim.(simcore.FloatParameterSetter)
	if !ok {
		return
	}
	p := currentProbability(g.sim) + delta
	setter.SetFloatParameter("p", min(max(p, 0), 1))
}

// Draw renders the current simulation state.
func (g *Game) Draw(screen *ebiten.Image) {
	g.painter.Blit(screen, g.sim.Cells(), g.palette, g.scale)
	_, h := g.Layout(0, 0)
	g.hud.Draw(screen, g.sim.Size().W*g.scale, h)
}

// Layout returns the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	s := g.sim.Size()
	return s.W*g.scale + g.hud.Width(), max(s.H*g.scale, g.hud.MinHeight())
}

func currentProbability(sim simcore.Sim) float64 {
	if reader, ok := sim.(probabilityReader); ok {
		return reader.Probability()
	}
	return 0
}
