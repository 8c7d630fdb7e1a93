package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/flock"
	golog "github.com/tochemey/goakt/v3/log"
)

func main() {
	var ticks int
	var every int
	var seed uint64
	var configPath string
	var copyReport bool
	var debug bool

	flag.IntVar(&ticks, "ticks", 3600, "ticks to simulate")
	flag.IntVar(&every, "every", 600, "ticks between two progress reports, 0 for the final report only")
	flag.Uint64Var(&seed, "seed", 42, "random seed, 0 seeds from the clock")
	flag.StringVar(&configPath, "config", "", "scenario file (.json or .toml), built-in defaults when empty")
	flag.BoolVar(&copyReport, "copy", false, "copy the final report to the clipboard")
	flag.BoolVar(&debug, "debug", false, "log predator and wind events on stderr")
	flag.Parse()

	if ticks <= 0 {
		fmt.Println("error: -ticks must be > 0")
		os.Exit(2)
	}
	if every < 0 {
		fmt.Println("error: -every must be >= 0")
		os.Exit(2)
	}

	cfg := flock.DefaultConfig()
	if configPath != "" {
		loaded, err := flock.LoadConfig(configPath)
		if err != nil {
			fmt.Printf("error: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	cfg.Seed = seed

	var logger golog.Logger = golog.DiscardLogger
	if debug {
		logger = golog.New(golog.DebugLevel, os.Stderr)
	}
	sim, err := flock.New(cfg, flock.WithLogger(logger))
	if err != nil {
		fmt.Printf("error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("=== Headless Flock Report ===\n")
	fmt.Printf("world=%.0fx%.0f flocks=%d size=%d workers=%d seed=%d ticks=%d predator=%t wind=%t\n\n",
		cfg.WorldWidth, cfg.WorldHeight, cfg.FlockCount, cfg.FlockSize, cfg.Workers, cfg.Seed, ticks,
		cfg.PredatorEnabled, cfg.WindEnabled)

	var frame *flock.Frame
	grid := flock.NewGrid(cfg.WorldWidth, cfg.WorldHeight, cfg.CellSize)
	start := time.Now()
	attacks := 0
	for t := 1; t <= ticks; t++ {
		before := sim.Predator() != nil && sim.Predator().State() == flock.Attacking
		sim.Update()
		if p := sim.Predator(); p != nil && !before && p.State() == flock.Attacking {
			attacks++
		}
		if every > 0 && t%every == 0 && t != ticks {
			frame = sim.Frame(frame)
			fmt.Print(flock.ComputeStats(frame, grid))
		}
	}
	elapsed := time.Since(start)

	frame = sim.Frame(frame)
	var report strings.Builder
	fmt.Fprintf(&report, "--- final ---\n")
	report.WriteString(flock.ComputeStats(frame, grid).String())
	fmt.Fprintf(&report, "attacks=%d elapsed=%s (%.0f ticks/sec)\n",
		attacks, elapsed.Round(time.Millisecond), float64(ticks)/elapsed.Seconds())
	fmt.Print(report.String())

	if copyReport {
		if err := clipboard.WriteAll(report.String()); err != nil {
			fmt.Printf("error: cannot copy the report: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("report copied to the clipboard")
	}
}
