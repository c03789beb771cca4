package main

import (
	"errors"
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/olivierh59500/particle-life/internal/life"
	"github.com/olivierh59500/particle-life/internal/logging"
	"github.com/olivierh59500/particle-life/internal/palette"
	"github.com/olivierh59500/particle-life/internal/trail"
)

// Control surface limits.
const (
	MinZoom        = 0.1
	ZoomStep       = 0.1
	PanStep        = 10.0
	PopulationStep = 100
	FrictionStep   = 0.01
	MinFriction    = 0.01
	MaxFriction    = 0.75
	DistanceStep   = 5.0
	MinMaxDistance = 5.0
	MaxMaxDistance = 200.0
	MinDistStep    = 0.01
	MinMinDistance = 0.01
	MaxMinDistance = 0.9
	SizeStep       = 0.5
	MinSize        = 1.0
	MaxSize        = 10.0
	RelationStep   = 0.02
	CellSize       = 14

	// Evolution mode perturbs the matrix every MutationInterval ticks.
	MutationInterval = 1000
	TrailLength      = 10
)

type viewMode int

const (
	viewParticles viewMode = iota
	viewTrails
	viewModes
)

var (
	background  = color.RGBA{47, 79, 79, 255} // dark slate grey
	borderColor = color.RGBA{0, 0, 0, 255}
)

// Game adapts the engine to ebiten: input becomes configuration edits,
// every Update advances one tick and Draw renders the latest frame.
type Game struct {
	engine        *life.Engine
	log           *logging.Logger
	relationsFile string

	screenW, screenH int
	prevMX, prevMY   int
	dragging         bool

	view         viewMode
	trails       *trail.Recorder
	evolve       bool
	lastMutation uint64

	colors []color.RGBA
}

// NewGame wraps e.
func NewGame(e *life.Engine, log *logging.Logger, relationsFile string) *Game {
	return &Game{engine: e, log: log, relationsFile: relationsFile, trails: trail.NewRecorder(TrailLength)}
}

// Update is called each tick by ebiten.
func (g *Game) Update() error {
	if err := g.handleInput(); err != nil {
		return err
	}
	g.engine.Tick()
	g.evolveRelations()
	if g.view == viewTrails {
		g.trails.Record(g.engine.Snapshot())
	}
	return nil
}

// evolveRelations mutates the matrix once per MutationInterval ticks while
// evolution mode is on.
func (g *Game) evolveRelations() {
	if !g.evolve {
		return
	}
	ticks := g.engine.Ticks()
	if ticks-g.lastMutation < MutationInterval {
		return
	}
	if err := g.engine.MutateRelations(life.DefaultMutationSigma); err != nil {
		g.log.Errorf("mutate relations: %v", err)
	}
	g.lastMutation = ticks
}

// handleInput turns key and mouse events into engine edits.
func (g *Game) handleInput() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.engine.TogglePause()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.engine.RandomizeRelations()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		g.saveRelations()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyL) {
		g.loadRelations()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyE) {
		g.evolve = !g.evolve
		g.lastMutation = g.engine.Ticks()
		g.log.Infof("evolution mode: %t", g.evolve)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyH) {
		g.view = (g.view + 1) % viewModes
		g.trails.Reset()
	}

	g.edit(func(c *life.Config) {
		if inpututil.IsKeyJustPressed(ebiten.KeyArrowLeft) {
			c.ViewOffset.X += PanStep
		}
		if inpututil.IsKeyJustPressed(ebiten.KeyArrowRight) {
			c.ViewOffset.X -= PanStep
		}
		if inpututil.IsKeyJustPressed(ebiten.KeyArrowUp) {
			c.ViewOffset.Y += PanStep
		}
		if inpututil.IsKeyJustPressed(ebiten.KeyArrowDown) {
			c.ViewOffset.Y -= PanStep
		}
		if inpututil.IsKeyJustPressed(ebiten.KeyEqual) {
			c.Zoom += ZoomStep
		}
		if inpututil.IsKeyJustPressed(ebiten.KeyMinus) {
			c.Zoom -= ZoomStep
		}
		_, wheelY := ebiten.Wheel()
		c.Zoom = max(MinZoom, c.Zoom+wheelY*ZoomStep)

		if inpututil.IsKeyJustPressed(ebiten.KeyBracketRight) {
			c.Species = min(life.MaxSpecies, c.Species+1)
		}
		if inpututil.IsKeyJustPressed(ebiten.KeyBracketLeft) {
			c.Species = max(1, c.Species-1)
		}
		if inpututil.IsKeyJustPressed(ebiten.KeyPeriod) {
			c.Population = min(life.MaxPopulation, c.Population+PopulationStep)
		}
		if inpututil.IsKeyJustPressed(ebiten.KeyComma) {
			c.Population = max(PopulationStep, c.Population-PopulationStep)
		}
		if inpututil.IsKeyJustPressed(ebiten.KeyG) {
			c.Friction = min(MaxFriction, c.Friction+FrictionStep)
		}
		if inpututil.IsKeyJustPressed(ebiten.KeyF) {
			c.Friction = max(MinFriction, c.Friction-FrictionStep)
		}
		if inpututil.IsKeyJustPressed(ebiten.KeyB) {
			c.MaxDistance = min(MaxMaxDistance, c.MaxDistance+DistanceStep)
		}
		if inpututil.IsKeyJustPressed(ebiten.KeyV) {
			c.MaxDistance = max(MinMaxDistance, c.MaxDistance-DistanceStep)
		}
		if inpututil.IsKeyJustPressed(ebiten.KeyM) {
			c.MinDistance = min(MaxMinDistance, c.MinDistance+MinDistStep)
		}
		if inpututil.IsKeyJustPressed(ebiten.KeyN) {
			c.MinDistance = max(MinMinDistance, c.MinDistance-MinDistStep)
		}
		if inpututil.IsKeyJustPressed(ebiten.KeyK) {
			c.ParticleSize = min(MaxSize, c.ParticleSize+SizeStep)
		}
		if inpututil.IsKeyJustPressed(ebiten.KeyJ) {
			c.ParticleSize = max(MinSize, c.ParticleSize-SizeStep)
		}
	})

	mx, my := ebiten.CursorPosition()
	switch {
	case inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft):
		if !g.nudgeRelation(mx, my, RelationStep) {
			g.dragging = true
		}
	case inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight):
		g.nudgeRelation(mx, my, -RelationStep)
	}
	if !ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		g.dragging = false
	}
	if g.dragging && (mx != g.prevMX || my != g.prevMY) {
		dx, dy := float64(mx-g.prevMX), float64(my-g.prevMY)
		g.edit(func(c *life.Config) {
			c.ViewOffset.X += dx
			c.ViewOffset.Y += dy
		})
	}
	g.prevMX, g.prevMY = mx, my
	return nil
}

func (g *Game) edit(fn func(*life.Config)) {
	if err := g.engine.Update(fn); err != nil {
		g.log.Warnf("ignored edit: %v", err)
	}
}

// matrixOrigin is the top-left corner of the relation grid, anchored to
// the top-right of the screen with one header row and column.
func (g *Game) matrixOrigin(species int) (int, int) {
	return g.screenW - (species+1)*CellSize - 8, 8
}

// nudgeRelation adjusts the relation cell under (x, y), clamped to the
// configured range. It reports whether (x, y) hit a cell.
func (g *Game) nudgeRelation(x, y int, step float64) bool {
	_, species := g.engine.Current()
	ox, oy := g.matrixOrigin(species)
	col := (x-ox)/CellSize - 1
	row := (y-oy)/CellSize - 1
	if x < ox || y < oy || row < 0 || col < 0 || row >= species || col >= species {
		return false
	}
	limit := g.engine.Config().RelationRange
	if limit == 0 {
		limit = 0.2
	}
	v, err := g.engine.Relation(row, col)
	if err != nil {
		return false
	}
	v = max(-limit, min(limit, v+step))
	if err := g.engine.SetRelation(row, col, v); err != nil {
		g.log.Warnf("relation edit: %v", err)
	}
	return true
}

func (g *Game) saveRelations() {
	if err := life.SaveRelations(g.relationsFile, g.engine.Relations()); err != nil {
		g.log.Errorf("save relations: %v", err)
		return
	}
	g.log.Infof("relations saved to %s", g.relationsFile)
}

func (g *Game) loadRelations() {
	m, err := life.LoadRelations(g.relationsFile)
	if err != nil {
		g.log.Errorf("load relations: %v", err)
		return
	}
	if err := g.engine.AdoptRelations(m); err != nil {
		g.log.Errorf("load relations: %v", err)
		return
	}
	g.log.Infof("relations loaded from %s", g.relationsFile)
}

func (g *Game) speciesColors(n int) []color.RGBA {
	if len(g.colors) != n {
		g.colors = make([]color.RGBA, n)
		for i := range g.colors {
			g.colors[i] = palette.Species(i, n)
		}
	}
	return g.colors
}

// Draw is called each frame by ebiten.
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(background)
	f := g.engine.Snapshot()
	w, h := float64(screen.Bounds().Dx()), float64(screen.Bounds().Dy())
	colors := g.speciesColors(f.Species)

	x0, y0 := f.Project(-f.World.X/2, -f.World.Y/2, w, h)
	vector.StrokeRect(screen, float32(x0), float32(y0),
		float32(f.World.X*f.Zoom), float32(f.World.Y*f.Zoom), float32(5*f.Zoom), borderColor, false)

	if g.view == viewTrails {
		g.drawTrails(screen, &f, colors, w, h)
	}

	r := f.ParticleSize * f.Zoom / 2
	for _, b := range f.Bodies {
		sx, sy := f.Project(b.X, b.Y, w, h)
		if sx < -r || sx > w+r || sy < -r || sy > h+r {
			continue
		}
		vector.DrawFilledCircle(screen, float32(sx), float32(sy), float32(r), colors[b.Species], true)
	}

	g.drawRelations(screen, colors)

	cfg := g.engine.Config()
	status := "running"
	if f.Paused {
		status = "paused"
	}
	if g.evolve {
		status += ", evolving"
	}
	ebitenutil.DebugPrint(screen, fmt.Sprintf(
		"FPS %.0f  TPS %.0f  tick %d  %s\n"+
			"particles %d  species %d  friction %.2f  min %.2f  max %.0f  zoom %.1f\n"+
			"space pause  r randomize  s/l save/load  [ ] species  , . population\n"+
			"f/g friction  v/b max distance  n/m min distance  j/k size  e evolve  h trails\n"+
			"arrows/drag pan  -/= wheel zoom  click grid edit",
		ebiten.ActualFPS(), ebiten.ActualTPS(), f.Tick, status,
		len(f.Bodies), f.Species, cfg.Friction, cfg.MinDistance, cfg.MaxDistance, f.Zoom))
}

// drawTrails draws each body's recent path. Segments longer than half the
// world are jumps across a wrapped edge and are skipped.
func (g *Game) drawTrails(screen *ebiten.Image, f *life.Frame, colors []color.RGBA, w, h float64) {
	for i, b := range f.Bodies {
		col := colors[b.Species]
		g.trails.Segments(i, func(from, to r2.Vec) {
			if math.Abs(to.X-from.X) > f.World.X/2 || math.Abs(to.Y-from.Y) > f.World.Y/2 {
				return
			}
			x0, y0 := f.Project(from.X, from.Y, w, h)
			x1, y1 := f.Project(to.X, to.Y, w, h)
			vector.StrokeLine(screen, float32(x0), float32(y0), float32(x1), float32(y1), 1, col, true)
		})
	}
}

// drawRelations renders the relation matrix as a heat grid: green
// attracts, red repels. Row and column headers show species colours.
func (g *Game) drawRelations(screen *ebiten.Image, colors []color.RGBA) {
	rel := g.engine.Relations()
	n := rel.Size()
	ox, oy := g.matrixOrigin(n)
	limit := g.engine.Config().RelationRange
	if limit == 0 {
		limit = 0.2
	}

	for i := 0; i < n; i++ {
		header := colors[i]
		vector.DrawFilledRect(screen, float32(ox+(i+1)*CellSize+3), float32(oy+3), CellSize-6, CellSize-6, header, false)
		vector.DrawFilledRect(screen, float32(ox+3), float32(oy+(i+1)*CellSize+3), CellSize-6, CellSize-6, header, false)
		for j := 0; j < n; j++ {
			v := max(-1, min(1, rel.At(i, j)/limit))
			c := color.RGBA{0, 0, 0, 255}
			if v > 0 {
				c.G = uint8(v * 255)
			} else {
				c.R = uint8(-v * 255)
			}
			vector.DrawFilledRect(screen, float32(ox+(j+1)*CellSize), float32(oy+(i+1)*CellSize), CellSize-1, CellSize-1, c, false)
		}
	}
}

// Layout tracks the window size so the view stays centred on resize.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.screenW, g.screenH = outsideWidth, outsideHeight
	return outsideWidth, outsideHeight
}

func isTermination(err error) bool {
	return errors.Is(err, ebiten.Termination)
}
