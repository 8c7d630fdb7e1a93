package simulation

import (
	"context"
	"fmt"
	"image/color"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/flock"
	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/geometry"
	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/ui"
	"github.com/tochemey/goakt/v3/actor"
	"golang.org/x/image/font/basicfont"
)

const (
	boidAhead, boidSide         = 6.0, 2.0
	predatorAhead, predatorSide = 14.0, 6.0
	statsEvery                  = 30 // frames between two HUD statistics refreshes
)

var (
	background = color.RGBA{R: 10, G: 10, B: 30, A: 255}
	// one colour per flock, reused when there are more flocks
	flockPalette = []color.RGBA{
		{R: 100, G: 200, B: 255, A: 255},
		{R: 255, G: 220, B: 90, A: 255},
		{R: 140, G: 255, B: 140, A: 255},
		{R: 230, G: 130, B: 255, A: 255},
	}
	predatorCircling  = color.RGBA{R: 255, G: 150, B: 50, A: 255}
	predatorAttacking = color.RGBA{R: 255, G: 50, B: 50, A: 255}
	gridColor         = color.RGBA{R: 60, G: 60, B: 90, A: 255}
	windColor         = color.RGBA{R: 200, G: 200, B: 255, A: 255}
	hudColor          = color.RGBA{R: 220, G: 220, B: 220, A: 255}
)

// Game is the ebiten host: Update asks the world actor for one tick and Draw
// renders the last frame it sent back.
type Game struct {
	ctx        context.Context
	System     actor.ActorSystem
	worldPID   *actor.PID
	snapshotCh chan *flock.Frame
	lastFrame  *flock.Frame
	cfg        *flock.Config

	// UI Controls
	panel         *ui.Panel
	widgetPause   *ui.Checkbox
	widgetGrid    *ui.Checkbox
	widgetAnchor  *ui.Checkbox
	widgetWind    *ui.Checkbox
	widgetStats   *ui.Checkbox
	widgetReset   *ui.Button
	ticksPerFrame uint64

	// drawing buffers reused every frame
	whiteImage *ebiten.Image
	vertices   []ebiten.Vertex
	indices    []uint16
	stats      flock.Stats
	statsGrid  *flock.Grid
	frames     int

	// Timing instrumentation
	updateAvg float64 // Rolling average in ms
	drawAvg   float64 // Rolling average in ms
}

// GetNewGame spawns the world actor in system and builds the game around it.
func GetNewGame(ctx context.Context, cfg *flock.Config, system actor.ActorSystem) (*Game, error) {
	// Buffer to avoid blocking the world
	snapshotCh := make(chan *flock.Frame, 10)

	worldPID, err := system.Spawn(ctx, "world", NewWorldActor(snapshotCh, cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to spawn world: %w", err)
	}

	g := &Game{
		ctx:           ctx,
		System:        system,
		worldPID:      worldPID,
		snapshotCh:    snapshotCh,
		lastFrame:     &flock.Frame{Width: cfg.WorldWidth, Height: cfg.WorldHeight, CellSize: cfg.CellSize},
		cfg:           cfg,
		ticksPerFrame: 1,
	}

	panel := ui.NewPanel("Flock [H]ide", 10, 10, 190)
	panel.AddSection("Simulation")
	g.widgetPause = panel.AddCheckbox("Pause [Space]", false)
	g.widgetReset = panel.AddButton("Reset [R]", g.reset)
	panel.AddSection("Overlays")
	g.widgetGrid = panel.AddCheckbox("Grid [G]", false)
	g.widgetAnchor = panel.AddCheckbox("Predator anchor [A]", false)
	g.widgetWind = panel.AddCheckbox("Wind [W]", true)
	g.widgetStats = panel.AddCheckbox("Statistics [S]", true)
	g.panel = panel

	return g, nil
}

func (g *Game) reset() {
	g.frames = 0
	_ = actor.Tell(g.ctx, g.worldPID, NewReset())
}

func (g *Game) handleKeys() {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeySpace):
		g.widgetPause.Toggle()
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		g.widgetReset.Press()
	case inpututil.IsKeyJustPressed(ebiten.KeyG):
		g.widgetGrid.Toggle()
	case inpututil.IsKeyJustPressed(ebiten.KeyA):
		g.widgetAnchor.Toggle()
	case inpututil.IsKeyJustPressed(ebiten.KeyW):
		g.widgetWind.Toggle()
	case inpututil.IsKeyJustPressed(ebiten.KeyS):
		g.widgetStats.Toggle()
	case inpututil.IsKeyJustPressed(ebiten.KeyH):
		g.panel.Visible = !g.panel.Visible
	case inpututil.IsKeyJustPressed(ebiten.KeyUp):
		g.ticksPerFrame = min(g.ticksPerFrame*2, 16)
	case inpututil.IsKeyJustPressed(ebiten.KeyDown):
		g.ticksPerFrame = max(g.ticksPerFrame/2, 1)
	}
}

func (g *Game) Update() error {
	start := time.Now()
	defer func() {
		// Rolling average (exponential moving average)
		g.updateAvg = g.updateAvg*0.95 + float64(time.Since(start).Microseconds())/1000.0*0.05
	}()

	// 1. Update UI
	g.handleKeys()
	g.panel.Update()

	// 2. Retrieve the latest frame (non-blocking), older ones are skipped
	for drained := false; !drained; {
		select {
		case f := <-g.snapshotCh:
			g.lastFrame = f
		default:
			drained = true
		}
	}

	// 3. Trigger Simulation Step
	if !g.widgetPause.Value {
		_ = actor.Tell(g.ctx, g.worldPID, NewTick(g.ticksPerFrame))
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	start := time.Now()
	defer func() {
		g.drawAvg = g.drawAvg*0.95 + float64(time.Since(start).Microseconds())/1000.0*0.05
	}()
	if g.whiteImage == nil {
		g.whiteImage = ebiten.NewImage(3, 3)
		g.whiteImage.Fill(color.White)
	}

	screen.Fill(background)
	f := g.lastFrame

	if g.widgetGrid.Value {
		g.drawGrid(screen, f)
	}

	// 1. All boids in one batch
	g.vertices, g.indices = g.vertices[:0], g.indices[:0]
	for _, ff := range f.Flocks {
		clr := flockPalette[ff.Color%len(flockPalette)]
		for _, b := range ff.Boids {
			g.appendBody(b.Pos, b.Heading, boidAhead, boidSide, clr)
		}
	}

	// 2. The predator is drawn larger, on top of the boids
	if f.HasPredator {
		p := f.Predator
		clr := predatorCircling
		if p.State == flock.Attacking {
			clr = predatorAttacking
		}
		g.appendBody(p.Pos, p.Heading, predatorAhead, predatorSide, clr)
		if g.widgetAnchor.Value {
			vector.StrokeCircle(screen, float32(p.Anchor.X), float32(p.Anchor.Y), 8, 1, predatorCircling, true)
			if p.State == flock.Circling {
				vector.StrokeLine(screen, float32(p.Pos.X), float32(p.Pos.Y),
					float32(p.Anchor.X), float32(p.Anchor.Y), 1, color.RGBA{R: 255, G: 150, B: 50, A: 80}, true)
			}
		}
	}
	if len(g.vertices) > 0 {
		screen.DrawTriangles(g.vertices, g.indices, g.whiteImage, &ebiten.DrawTrianglesOptions{})
	}

	// 3. Overlays
	if g.widgetWind.Value {
		g.drawWind(screen, f)
	}
	if g.widgetStats.Value {
		g.drawStats(screen, f)
	}
	g.panel.Draw(screen)

	msg := fmt.Sprintf("FPS: %.2f\nTPS: %.2f\nx%d ticks\n\nUpdate: %.2fms\nDraw:   %.2fms",
		ebiten.ActualFPS(),
		ebiten.ActualTPS(),
		g.ticksPerFrame,
		g.updateAvg,
		g.drawAvg)
	ebitenutil.DebugPrintAt(screen, msg, int(f.Width)-130, 10)
}

// appendBody adds the triangle of one body to the batch
func (g *Game) appendBody(pos geometry.Vector2D, heading, ahead, side float64, clr color.RGBA) {
	if len(g.vertices)+3 > math.MaxUint16 {
		return
	}
	base := uint16(len(g.vertices))
	r, gg, b, a := float32(clr.R)/255, float32(clr.G)/255, float32(clr.B)/255, float32(clr.A)/255
	for _, v := range flock.BodyOutline(pos, heading, ahead, side) {
		g.vertices = append(g.vertices, ebiten.Vertex{
			DstX: float32(v.X), DstY: float32(v.Y),
			SrcX: 1, SrcY: 1,
			ColorR: r, ColorG: gg, ColorB: b, ColorA: a,
		})
	}
	g.indices = append(g.indices, base, base+1, base+2)
}

func (g *Game) drawGrid(screen *ebiten.Image, f *flock.Frame) {
	if f.CellSize <= 0 {
		return
	}
	for x := f.CellSize; x < f.Width; x += f.CellSize {
		vector.StrokeLine(screen, float32(x), 0, float32(x), float32(f.Height), 1, gridColor, false)
	}
	for y := f.CellSize; y < f.Height; y += f.CellSize {
		vector.StrokeLine(screen, 0, float32(y), float32(f.Width), float32(y), 1, gridColor, false)
	}
}

// drawWind shows the current wind and its pending target as arrows from the
// bottom right corner, scaled so that a full-strength wind spans 60 px
func (g *Game) drawWind(screen *ebiten.Image, f *flock.Frame) {
	scale := 60.0
	if g.cfg.Wind.MaxWind > 0 {
		scale /= g.cfg.Wind.MaxWind
	}
	ox, oy := f.Width-80, f.Height-80
	vector.StrokeCircle(screen, float32(ox), float32(oy), 60, 1, gridColor, true)
	next := f.WindNext.Mul(scale)
	vector.StrokeLine(screen, float32(ox), float32(oy), float32(ox+next.X), float32(oy+next.Y), 1, gridColor, true)
	cur := f.Wind.Mul(scale)
	vector.StrokeLine(screen, float32(ox), float32(oy), float32(ox+cur.X), float32(oy+cur.Y), 2, windColor, true)
	text.Draw(screen, "wind "+f.Wind.String(), basicfont.Face7x13, int(ox)-60, int(oy)+75, hudColor)
}

func (g *Game) drawStats(screen *ebiten.Image, f *flock.Frame) {
	if g.frames%statsEvery == 0 {
		if g.statsGrid == nil {
			g.statsGrid = flock.NewGrid(f.Width, f.Height, f.CellSize)
		}
		g.stats = flock.ComputeStats(f, g.statsGrid)
	}
	g.frames++

	x, y := 10, int(f.Height)-20*(len(g.stats.Flocks)+1)-10
	header := fmt.Sprintf("tick %d  predator %s", g.stats.Tick, g.stats.Predator)
	if f.HasPredator {
		header += fmt.Sprintf(" (timer %d)", f.Predator.Timer)
	}
	text.Draw(screen, header, basicfont.Face7x13, x, y, hudColor)
	for _, fs := range g.stats.Flocks {
		y += 20
		line := fmt.Sprintf("flock %d: %d boids  speed %.2f  nearest %.1f  alone %d",
			fs.Color, fs.Size, fs.MeanSpeed, fs.MeanNearest, fs.Isolated)
		text.Draw(screen, line, basicfont.Face7x13, x, y, flockPalette[fs.Color%len(flockPalette)])
	}
}

func (g *Game) Layout(w, h int) (int, int) { return int(g.cfg.WorldWidth), int(g.cfg.WorldHeight) }
