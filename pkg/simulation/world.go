package simulation

import (
	"fmt"
	"time"

	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/flock"
	"github.com/tochemey/goakt/v3/actor"
	"github.com/tochemey/goakt/v3/goaktpb"
	golog "github.com/tochemey/goakt/v3/log"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// WorldActor owns the authoritative simulation. The game loop drives it with
// messages and receives a Frame after every step on snapshotCh:
//
//   - *wrapperspb.UInt64Value advances the simulation by Value ticks (at least one)
//   - *emptypb.Empty rebuilds the simulation from its configuration
type WorldActor struct {
	cfg    *flock.Config
	sim    *flock.Simulation
	logger golog.Logger
	// Communication with UI
	snapshotCh chan<- *flock.Frame
	// --- Benchmark Stats ---
	tickCount    int
	droppedCount int
	lastLogTime  time.Time
}

// NewTick returns the message asking the world to advance n ticks.
func NewTick(n uint64) *wrapperspb.UInt64Value { return wrapperspb.UInt64(n) }

// NewReset returns the message asking the world to start over.
func NewReset() *emptypb.Empty { return &emptypb.Empty{} }

// NewWorldActor creates the world logic unit
func NewWorldActor(snapshotCh chan<- *flock.Frame, cfg *flock.Config) *WorldActor {
	return &WorldActor{
		cfg:         cfg,
		logger:      golog.DiscardLogger,
		snapshotCh:  snapshotCh,
		lastLogTime: time.Now(),
	}
}

func (w *WorldActor) PreStart(ctx *actor.Context) error {
	w.logger = ctx.ActorSystem().Logger()
	w.logger.Info("World is building the flocks...")
	return w.reset()
}

func (w *WorldActor) Receive(ctx *actor.ReceiveContext) {
	switch msg := ctx.Message().(type) {

	case *goaktpb.PostStart:
		cfg := w.sim.Config()
		ctx.Logger().Infof("World Started: %d flocks of %d boids on %.0fx%.0f, predator=%t wind=%t",
			cfg.FlockCount, cfg.FlockSize, cfg.WorldWidth, cfg.WorldHeight, cfg.PredatorEnabled, cfg.WindEnabled)
		w.pushSnapshot()

	// The Main Simulation Step (Driven by Game Loop)
	case *wrapperspb.UInt64Value:
		w.logBenchmarks(ctx.Logger())
		w.step(msg.GetValue())
		w.pushSnapshot()

	case *emptypb.Empty:
		if err := w.reset(); err != nil {
			ctx.Logger().Errorf("World reset failed: %v", err)
			return
		}
		ctx.Logger().Info("World reset")
		w.pushSnapshot()
	}
}

func (w *WorldActor) PostStop(ctx *actor.Context) error {
	ctx.ActorSystem().Logger().Infof("World is shutdown after %d ticks...", w.sim.Tick())
	return nil
}

func (w *WorldActor) reset() error {
	sim, err := flock.New(w.cfg, flock.WithLogger(w.logger))
	if err != nil {
		return fmt.Errorf("world cannot build the simulation: %w", err)
	}
	w.sim = sim
	return nil
}

func (w *WorldActor) step(n uint64) {
	for range max(n, 1) {
		w.sim.Update()
		w.tickCount++
	}
}

func (w *WorldActor) logBenchmarks(logger golog.Logger) {
	if time.Since(w.lastLogTime) >= time.Second {
		logger.Infof("📊 TICK RATE: %d/sec (frames dropped: %d) | tick %d",
			w.tickCount, w.droppedCount, w.sim.Tick())
		w.tickCount = 0
		w.droppedCount = 0
		w.lastLogTime = time.Now()
	}
}

func (w *WorldActor) pushSnapshot() {
	select {
	case w.snapshotCh <- w.sim.Frame(nil):
	default:
		// UI busy, skip frame
		w.droppedCount++
	}
}
