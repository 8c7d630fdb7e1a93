package flock

import (
	"fmt"

	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/geometry"
	golog "github.com/tochemey/goakt/v3/log"
	"golang.org/x/sync/errgroup"
)

// Flock is a homogeneous group of boids stored in an indexed arena.
// Boids only see boids of their own flock.
type Flock struct {
	Color  int // palette index for renderers
	params BoidParams
	boids  []Boid
	front  []Boid // positions and velocities at the start of the pass
	grid   *Grid
	bufs   [][]int // one candidate buffer per worker
}

// Boids returns the arena. Callers must not modify it while Update runs.
func (f *Flock) Boids() []Boid { return f.boids }

// Grid returns the spatial grid as rebuilt on the last tick.
func (f *Flock) Grid() *Grid { return f.grid }

// Params returns the tuning constants of the flock.
func (f *Flock) Params() BoidParams { return f.params }

// Simulation owns every flock, the optional predator, the wind and the grids.
// It is single threaded from the caller's point of view: one Update call is one tick.
type Simulation struct {
	cfg      Config
	rng      Random
	logger   golog.Logger
	flocks   []*Flock
	predator *Predator
	wind     *Wind
	tick     uint64
}

// Option configures a Simulation.
type Option func(*Simulation)

// WithRandom injects the random source, tests use it for deterministic runs.
func WithRandom(r Random) Option {
	return func(s *Simulation) { s.rng = r }
}

// WithLogger sets the logger receiving debug events.
func WithLogger(l golog.Logger) Option {
	return func(s *Simulation) { s.logger = l }
}

// New validates cfg and builds a simulation with randomly placed boids.
func New(cfg *Config, opts ...Option) (*Simulation, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("cannot create simulation: %w", err)
	}

	s := &Simulation{cfg: *cfg, logger: golog.DiscardLogger}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = NewRandom(cfg.Seed)
	}

	workers := max(cfg.Workers, 1)
	for c := 0; c < cfg.FlockCount; c++ {
		f := &Flock{
			Color:  c,
			params: cfg.Boid,
			boids:  make([]Boid, cfg.FlockSize),
			front:  make([]Boid, cfg.FlockSize),
			grid:   NewGrid(cfg.WorldWidth, cfg.WorldHeight, cfg.CellSize),
			bufs:   make([][]int, workers),
		}
		for i := range f.boids {
			f.boids[i] = Boid{
				Pos: geometry.Vector2D{X: uniform(s.rng, 0, cfg.WorldWidth), Y: uniform(s.rng, 0, cfg.WorldHeight)},
				Vel: geometry.Vector2D{X: 1, Y: 1},
			}
			f.boids[i].Heading = geometry.HeadingDegrees(f.boids[i].Vel)
		}
		s.flocks = append(s.flocks, f)
	}

	s.wind = NewWind(cfg.WindEnabled, cfg.Wind, s.rng)
	if cfg.PredatorEnabled {
		s.predator = NewPredator(cfg.Predator, cfg.WorldWidth, cfg.WorldHeight, s.rng)
	}

	s.logger.Debugf("simulation created: %d flocks of %d boids, grid %dx%d, predator=%t wind=%t",
		cfg.FlockCount, cfg.FlockSize, s.flocks[0].grid.Cols(), s.flocks[0].grid.Rows(),
		cfg.PredatorEnabled, cfg.WindEnabled)
	return s, nil
}

// Config returns a copy of the construction-time configuration.
func (s *Simulation) Config() Config { return s.cfg }

// Tick returns the number of completed updates.
func (s *Simulation) Tick() uint64 { return s.tick }

// Flocks returns every flock.
func (s *Simulation) Flocks() []*Flock { return s.flocks }

// Predator returns the predator, nil when disabled.
func (s *Simulation) Predator() *Predator { return s.predator }

// Wind returns the wind generator.
func (s *Simulation) Wind() *Wind { return s.wind }

// Update advances the wind, every flock and then the predator by one tick.
func (s *Simulation) Update() {
	if s.wind.Advance() {
		s.logger.Debugf("tick %d: wind retarget -> %s in %d ticks", s.tick, s.wind.Next(), s.wind.TicksUntilRetarget())
	}

	env := Environment{
		Width:  s.cfg.WorldWidth,
		Height: s.cfg.WorldHeight,
		Wind:   s.wind.Current(),
	}
	if s.predator != nil {
		env.HasPredator = true
		env.Predator = s.predator.Pos
	}

	for _, f := range s.flocks {
		f.step(env)
	}

	// the predator reads every boid, so it runs after the whole pass
	if s.predator != nil {
		centroid, ok := s.centroid()
		changed, completed := s.predator.Update(centroid, ok, env.Wind)
		if completed {
			s.logger.Debugf("tick %d: attack cycle %d complete, new anchor %s", s.tick, s.predator.Cycles(), s.predator.Anchor)
		} else if changed {
			s.logger.Debugf("tick %d: predator %s toward %s", s.tick, s.predator.State(), centroid)
		}
	}

	s.tick++
}

// centroid is the mean position of every boid of every flock.
func (s *Simulation) centroid() (geometry.Vector2D, bool) {
	var sum geometry.Vector2D
	n := 0
	for _, f := range s.flocks {
		for i := range f.boids {
			sum = sum.Add(f.boids[i].Pos)
		}
		n += len(f.boids)
	}
	if n == 0 {
		return geometry.Vector2D{}, false
	}
	return sum.Mul(1 / float64(n)), true
}

// step rebuilds the grid and steers every boid from the snapshot of the tick start.
func (f *Flock) step(env Environment) {
	if len(f.boids) == 0 {
		return
	}
	f.grid.Rebuild(f.boids)
	copy(f.front, f.boids)

	workers := len(f.bufs)
	cells := f.grid.numCells()
	if workers <= 1 {
		f.bufs[0] = f.steerCells(0, cells, f.bufs[0], env)
		return
	}

	// each boid lives in exactly one cell, so workers owning disjoint cell
	// ranges write disjoint arena slots
	var g errgroup.Group
	g.SetLimit(workers)
	chunk := (cells + workers - 1) / workers
	for w := 0; w < workers; w++ {
		from, to := w*chunk, min((w+1)*chunk, cells)
		if from >= to {
			break
		}
		g.Go(func() error {
			f.bufs[w] = f.steerCells(from, to, f.bufs[w], env)
			return nil
		})
	}
	_ = g.Wait()
}

func (f *Flock) steerCells(from, to int, buf []int, env Environment) []int {
	f.grid.forEachOccupied(from, to, func(cx, cy int, members []int) {
		buf = f.grid.NeighborsOf(cx, cy, buf[:0])
		for _, i := range members {
			f.boids[i] = f.params.Steer(i, f.front, buf, env)
		}
	})
	return buf
}
