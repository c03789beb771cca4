package main

import (
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/olivierh59500/particle-life/internal/life"
	"github.com/olivierh59500/particle-life/internal/logging"
	"github.com/olivierh59500/particle-life/internal/palette"
)

const (
	particleRune = '•'
	panStep      = 10.0
	zoomStep     = 0.1
	minZoom      = 0.1
)

// Viewer renders engine frames onto a terminal screen. The world is drawn
// as if it were a window of World.X by World.Y pixels, then sampled down
// to the character grid.
type Viewer struct {
	screen tcell.Screen
	engine *life.Engine
	log    *logging.Logger

	styles []tcell.Style
}

// NewViewer binds an initialised screen to e.
func NewViewer(screen tcell.Screen, e *life.Engine, log *logging.Logger) *Viewer {
	return &Viewer{screen: screen, engine: e, log: log}
}

func (v *Viewer) speciesStyles(n int) []tcell.Style {
	if len(v.styles) != n {
		v.styles = make([]tcell.Style, n)
		for i := range v.styles {
			c := palette.Species(i, n)
			v.styles[i] = tcell.StyleDefault.Foreground(tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B)))
		}
	}
	return v.styles
}

// cell maps a world position to a screen cell. ok is false when the
// position falls outside the visible grid.
func cell(f *life.Frame, x, y float64, cols, rows int) (col, row int, ok bool) {
	px, py := f.Project(x, y, f.World.X, f.World.Y)
	col = int(px / f.World.X * float64(cols))
	row = int(py / f.World.Y * float64(rows))
	if px < 0 || py < 0 || col >= cols || row >= rows {
		return 0, 0, false
	}
	return col, row, true
}

// Draw renders the current frame with a one-line status bar at the bottom.
func (v *Viewer) Draw() {
	v.screen.Clear()
	cols, rows := v.screen.Size()
	if rows < 2 || cols < 1 {
		v.screen.Show()
		return
	}

	f := v.engine.Snapshot()
	styles := v.speciesStyles(f.Species)
	for _, b := range f.Bodies {
		col, row, ok := cell(&f, b.X, b.Y, cols, rows-1)
		if !ok {
			continue
		}
		v.screen.SetContent(col, row, particleRune, nil, styles[b.Species])
	}

	status := "running"
	if f.Paused {
		status = "paused"
	}
	line := fmt.Sprintf(" tick %d  %s  particles %d  species %d  zoom %.1f  |  q quit  space pause  r randomize  [ ] species  +/- zoom",
		f.Tick, status, len(f.Bodies), f.Species, f.Zoom)
	bar := tcell.StyleDefault.Reverse(true)
	for x := 0; x < cols; x++ {
		r := ' '
		if x < len(line) {
			r = rune(line[x])
		}
		v.screen.SetContent(x, rows-1, r, nil, bar)
	}
	v.screen.Show()
}

// HandleKey applies one key press. It returns false when the viewer should
// exit.
func (v *Viewer) HandleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyLeft:
		v.edit(func(c *life.Config) { c.ViewOffset.X += panStep })
	case tcell.KeyRight:
		v.edit(func(c *life.Config) { c.ViewOffset.X -= panStep })
	case tcell.KeyUp:
		v.edit(func(c *life.Config) { c.ViewOffset.Y += panStep })
	case tcell.KeyDown:
		v.edit(func(c *life.Config) { c.ViewOffset.Y -= panStep })
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return false
		case ' ':
			v.engine.TogglePause()
		case 'r':
			v.engine.RandomizeRelations()
		case '+', '=':
			v.edit(func(c *life.Config) { c.Zoom += zoomStep })
		case '-':
			v.edit(func(c *life.Config) { c.Zoom = max(minZoom, c.Zoom-zoomStep) })
		case ']':
			v.edit(func(c *life.Config) { c.Species = min(life.MaxSpecies, c.Species+1) })
		case '[':
			v.edit(func(c *life.Config) { c.Species = max(1, c.Species-1) })
		}
	}
	return true
}

func (v *Viewer) edit(fn func(*life.Config)) {
	if err := v.engine.Update(fn); err != nil {
		v.log.Warnf("ignored edit: %v", err)
	}
}

// Run ticks the engine and redraws every interval until the user quits.
func (v *Viewer) Run(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := v.screen.PollEvent()
			if ev == nil {
				close(events)
				return
			}
			events <- ev
		}
	}()

	v.Draw()
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return
			}
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if !v.HandleKey(ev) {
					return
				}
			case *tcell.EventResize:
				v.screen.Sync()
			}
		case <-ticker.C:
			v.engine.Tick()
			v.Draw()
		}
	}
}
