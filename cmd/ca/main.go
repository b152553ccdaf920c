//go:build ebiten

package main

import (
	"context"
	"errors"
	"flag"

	"forest-fire/internal/app"
	"forest-fire/internal/loader"
	"forest-fire/pkg/core"
	"forest-fire/pkg/sims/forestfire"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	cfg := app.NewConfig()
	cfg.Bind(flag.CommandLine)
	flag.Parse()

	var sim core.Sim
	if cfg.Source != "" {
		simCfg, err := loader.Load(context.Background(), cfg.Source)
		if err != nil {
			log.Fatal("failed to load configuration", "err", err)
		}
		if simCfg.Seed != 0 {
			cfg.Seed = simCfg.Seed
		}
		sim, err = forestfire.NewSim(simCfg)
		if err != nil {
			log.Fatal("invalid configuration", "err", err)
		}
	} else {
		factory, ok := core.Sims()[cfg.Sim]
		if !ok {
			log.Fatalf("unknown sim %q", cfg.Sim)
		}
		var err error
		sim, err = factory(cfg.Params)
		if err != nil {
			log.Fatal("invalid configuration", "sim", cfg.Sim, "err", err)
		}
	}
	sim.Reset(cfg.Seed)
	if r, ok := sim.(interface{ Err() error }); ok && r.Err() != nil {
		log.Fatal("simulation not started", "err", r.Err())
	}

	game := app.New(sim, cfg)
	w, h := game.Layout(0, 0)

	ebiten.SetWindowTitle("forest-fire: " + sim.Name())
	ebiten.SetWindowSize(w, h)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatal("game exited", "err", err)
	}
}
