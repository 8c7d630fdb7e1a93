package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/flock"
	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/simulation"
	"github.com/tochemey/goakt/v3/actor"
	golog "github.com/tochemey/goakt/v3/log"
)

func main() {
	configPath := flag.String("config", "", "scenario file (.json or .toml), built-in defaults when empty")
	seed := flag.Uint64("seed", 0, "random seed overriding the scenario one, 0 keeps it")
	debug := flag.Bool("debug", false, "log predator and wind events")
	flag.Parse()

	cfg := flock.DefaultConfig()
	if *configPath != "" {
		loaded, err := flock.LoadConfig(*configPath)
		if err != nil {
			log.Fatal(err)
		}
		cfg = loaded
	}
	if *seed != 0 {
		cfg.Seed = *seed
	}

	level := golog.InfoLevel
	if *debug {
		level = golog.DebugLevel
	}

	ctx := context.Background()
	system, err := actor.NewActorSystem("FlockWorld",
		actor.WithLogger(golog.New(level, os.Stdout)),
		actor.WithActorInitMaxRetries(1))
	if err != nil {
		log.Fatal(err)
	}
	if err := system.Start(ctx); err != nil {
		log.Fatal(err)
	}
	defer func() { _ = system.Stop(ctx) }()

	game, err := simulation.GetNewGame(ctx, cfg, system)
	if err != nil {
		log.Fatal(err)
	}

	ebiten.SetWindowSize(int(cfg.WorldWidth), int(cfg.WorldHeight))
	ebiten.SetWindowTitle("Boids: flocks, predator and wind")
	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
