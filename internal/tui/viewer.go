package tui

import (
	"context"
	"fmt"
	"math"

	"github.com/gdamore/tcell/v2"

	logic "github.com/skovsen/D2D_InterceptLogic"
)

var (
	styleZone      = tcell.StyleDefault.Foreground(tcell.ColorDarkCyan)
	styleSensor    = tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
	styleIdle      = tcell.StyleDefault.Foreground(tcell.ColorBlue)
	stylePursuing  = tcell.StyleDefault.Foreground(tcell.ColorGreen).Bold(true)
	styleComplete  = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleTarget    = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	styleStatus    = tcell.StyleDefault.Reverse(true)
	styleLastEvent = tcell.StyleDefault.Foreground(tcell.ColorYellow)
)

// Glyphs drawn for each agent
const (
	GlyphZone        = '.'
	GlyphSensor      = 'M'
	GlyphIdle        = 'o'
	GlyphPursuing    = '>'
	GlyphComplete    = 'x'
	GlyphTarget      = 'T'
	zoneRingSegments = 48
)

// Viewer draws the world on a terminal after every tick. Pressing q, Esc
// or Ctrl-C cancels the episode context.
type Viewer struct {
	logic.BaseObserver

	screen tcell.Screen
	cancel context.CancelFunc

	hits, breaches int
	lastEvent      string
}

// New wraps an uninitialised screen. cancel is called when the user quits.
func New(screen tcell.Screen, cancel context.CancelFunc) *Viewer {
	return &Viewer{screen: screen, cancel: cancel}
}

// Start initialises the screen and begins polling for keys
func (v *Viewer) Start() error {
	if err := v.screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	v.screen.HideCursor()
	v.screen.Clear()
	go v.poll()
	return nil
}

// Stop restores the terminal; the key poller exits with it
func (v *Viewer) Stop() {
	v.screen.Fini()
}

func (v *Viewer) poll() {
	for {
		ev := v.screen.PollEvent()
		if ev == nil {
			return
		}
		if key, ok := ev.(*tcell.EventKey); ok && isQuit(key) && v.cancel != nil {
			v.cancel()
		}
	}
}

func isQuit(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyRune:
		return ev.Rune() == 'q' || ev.Rune() == 'Q'
	}
	return false
}

func (v *Viewer) OnEvent(_ *logic.World, e logic.Event) {
	switch e.Kind {
	case logic.EventIntercept:
		v.hits++
	case logic.EventBreach:
		v.breaches++
	}
	v.lastEvent = e.String()
}

func (v *Viewer) OnTick(w *logic.World) {
	v.Draw(w)
}

// Draw renders one frame: breach ring, sensor, interceptors, targets, and a
// status line on the bottom row
func (v *Viewer) Draw(w *logic.World) {
	v.screen.Clear()
	cols, rows := v.screen.Size()
	if cols < 1 || rows < 3 {
		v.screen.Show()
		return
	}
	p := projection{w: w.Params.Width, h: w.Params.Height, cols: cols, rows: rows - 2}

	for i := 0; i < zoneRingSegments; i++ {
		a := 2 * math.Pi * float64(i) / zoneRingSegments
		pt := logic.Vector{
			X: w.Params.Asset.X + w.Params.BreachRadius*math.Cos(a),
			Y: w.Params.Asset.Y + w.Params.BreachRadius*math.Sin(a),
		}
		v.put(p, pt, GlyphZone, styleZone)
	}

	if w.Sensor != nil {
		v.put(p, w.Sensor.Position, GlyphSensor, styleSensor)
	}
	for _, ic := range w.Interceptors {
		switch ic.State {
		case logic.Idle:
			v.put(p, ic.Position, GlyphIdle, styleIdle)
		case logic.Pursuing:
			v.put(p, ic.Position, GlyphPursuing, stylePursuing)
		default:
			v.put(p, ic.Position, GlyphComplete, styleComplete)
		}
	}
	for _, t := range w.ActiveTargets() {
		v.put(p, t.Position, GlyphTarget, styleTarget)
	}

	status := fmt.Sprintf(" t=%6.1fs  active=%d  hits=%d  breaches=%d  committed=%d  [q] quit ",
		w.Time, len(w.ActiveTargets()), v.hits, v.breaches, w.EngagementCount())
	v.text(0, rows-1, status, styleStatus)
	if v.lastEvent != "" {
		v.text(0, rows-2, v.lastEvent, styleLastEvent)
	}
	v.screen.Show()
}

func (v *Viewer) put(p projection, pos logic.Vector, r rune, style tcell.Style) {
	if x, y, ok := p.cell(pos); ok {
		v.screen.SetContent(x, y, r, nil, style)
	}
}

func (v *Viewer) text(x, y int, s string, style tcell.Style) {
	for i, r := range []rune(s) {
		v.screen.SetContent(x+i, y, r, nil, style)
	}
}

// projection maps world metres (origin centred, y up) to terminal cells
type projection struct {
	w, h       float64
	cols, rows int
}

func (p projection) cell(pos logic.Vector) (x, y int, ok bool) {
	if p.w <= 0 || p.h <= 0 {
		return 0, 0, false
	}
	fx := (pos.X + p.w/2) / p.w
	fy := (p.h/2 - pos.Y) / p.h
	x = int(math.Floor(fx * float64(p.cols)))
	y = int(math.Floor(fy * float64(p.rows)))
	if x < 0 || x >= p.cols || y < 0 || y >= p.rows {
		return 0, 0, false
	}
	return x, y, true
}
