package tty

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gdamore/tcell/v2"

	"github.com/phanxgames/slicer"
)

const (
	frameInterval = 16 * time.Millisecond
	// maxFrameDelta caps dt after a stall so bodies do not tunnel.
	maxFrameDelta = 0.1
)

const gameOverBanner = "GAME OVER  (r) restart  (q) quit"

// Factory builds a fresh game drawing into scene.
type Factory func(scene *Scene) *slicer.Game

// App runs a game in a terminal. Mouse drags with the primary button are
// slice gestures; q, Esc or Ctrl-C quits and r restarts a finished game.
type App struct {
	screen  tcell.Screen
	factory Factory
	log     *log.Logger
	radius  float64

	scene    *Scene
	game     *slicer.Game
	dragging bool
}

// NewApp starts the first game. screen must already be initialized.
func NewApp(screen tcell.Screen, radius float64, factory Factory, logger *log.Logger) *App {
	if logger == nil {
		logger = log.Default()
	}
	a := &App{screen: screen, factory: factory, log: logger, radius: radius}
	a.Restart()
	return a
}

// Restart throws away the current game and scene and starts over.
func (a *App) Restart() {
	a.dragging = false
	a.scene = NewScene(a.radius)
	a.game = a.factory(a.scene)
	scene := a.scene
	a.game.Subscribe(func(ev slicer.GameEvent) {
		if ev.Kind == slicer.EventGameOver {
			scene.ShowBanner(gameOverBanner)
		}
	})
	a.log.Debug("game started")
}

// Game returns the running game.
func (a *App) Game() *slicer.Game { return a.game }

// Scene returns the current scene.
func (a *App) Scene() *Scene { return a.scene }

// HandleEvent applies one terminal event. It returns false when the user
// asked to quit.
func (a *App) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'q', 'Q':
				return false
			case 'r', 'R':
				if a.game.Ended() {
					a.Restart()
				}
			}
		}
	case *tcell.EventMouse:
		a.handleMouse(ev)
	case *tcell.EventResize:
		a.screen.Sync()
	}
	return true
}

func (a *App) handleMouse(ev *tcell.EventMouse) {
	x, y := ev.Position()
	w, h := a.screen.Size()
	if w <= 0 || h <= 0 {
		return
	}
	p := FieldPoint(x, y, w, h)
	held := ev.Buttons()&tcell.Button1 != 0
	switch {
	case held && !a.dragging:
		a.dragging = true
		a.game.OnGestureBegin(p)
	case held:
		a.game.OnGestureExtend(p)
	case a.dragging:
		a.dragging = false
		a.game.OnGestureEnd()
	}
}

// cancelDrag abandons a drag still in progress.
func (a *App) cancelDrag() {
	if a.dragging {
		a.dragging = false
		a.game.OnGestureCancel()
	}
}

// Step advances the game and the scene by dt.
func (a *App) Step(dt float64) {
	a.game.Update(dt)
	a.scene.Update(dt)
}

// Draw renders the scene and shows the screen.
func (a *App) Draw() {
	a.scene.Draw(a.screen)
	a.screen.Show()
}

// Run polls terminal events and drives frames until the user quits or ctx
// is done. A drag still held on the way out is cancelled.
func (a *App) Run(ctx context.Context) error {
	events := make(chan tcell.Event, 64)
	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			ev := a.screen.PollEvent()
			if ev == nil {
				close(events)
				return
			}
			select {
			case events <- ev:
			case <-done:
				return
			}
		}
	}()

	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()
	last := time.Now()

	for {
		select {
		case <-ctx.Done():
			a.cancelDrag()
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				a.cancelDrag()
				return nil
			}
			if !a.HandleEvent(ev) {
				a.cancelDrag()
				return nil
			}
		case now := <-ticker.C:
			dt := min(now.Sub(last).Seconds(), maxFrameDelta)
			last = now
			a.Step(dt)
			a.Draw()
		}
	}
}
