// Command slicer runs the game in an ebiten window. Drag with the mouse or
// a finger to slice; R restarts after game over and Escape quits.
//
// Settings come from SLICER_* environment variables and can be overridden
// with flags, see -help.
package main

import (
	"errors"
	"flag"
	"os"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/phanxgames/slicer"
	"github.com/phanxgames/slicer/audio"
	"github.com/phanxgames/slicer/input"
	"github.com/phanxgames/slicer/physics"
	"github.com/phanxgames/slicer/render"
)

const (
	windowTitle    = "Slicer"
	gameOverBanner = "GAME OVER - press R to restart"
)

type app struct {
	cfg    slicer.Config
	log    *log.Logger
	audio  slicer.Audio
	router *input.Router
	script *input.Runner

	scene *render.Scene
	game  *slicer.Game
}

func (a *app) restart() {
	a.scene = render.NewScene(render.Options{
		TargetRadius:  a.cfg.Tuning.TargetRadius,
		Debug:         a.cfg.Debug,
		ScreenshotDir: a.cfg.ScreenshotDir,
		Seed:          a.cfg.Seed,
	})
	a.game = slicer.NewGame(a.cfg, slicer.Deps{
		Scene:   a.scene,
		Physics: physics.NewWorld(physics.Options{}),
		Audio:   a.audio,
		Logger:  a.log,
	})

	scene, logger := a.scene, a.log
	a.game.Subscribe(func(ev slicer.GameEvent) {
		switch ev.Kind {
		case slicer.EventGameOver:
			scene.ShowBanner(gameOverBanner)
		case slicer.EventLifeLost:
			logger.Debug("event", "kind", ev.Kind, "lives", ev.Lives)
		}
	})

	if a.router == nil {
		a.router = input.NewRouter(a.game, nil)
	} else {
		a.router.SetTarget(a.game)
	}
	if a.script != nil {
		a.script.SetScreenshotter(a.scene)
		a.router.SetRunner(a.script)
	}
}

func (a *app) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	// Scripted runs restart on their own so attract mode keeps going.
	if a.game.Ended() && (inpututil.IsKeyJustPressed(ebiten.KeyR) || a.script != nil) {
		a.log.Info("restart", "score", a.game.State().Score)
		a.restart()
	}

	dt := 1 / float64(ebiten.TPS())
	a.router.Update()
	a.game.Update(dt)
	a.scene.Update(dt)
	return nil
}

func (a *app) Draw(screen *ebiten.Image) {
	a.scene.Draw(screen)
}

func (a *app) Layout(_, _ int) (int, int) {
	return slicer.FieldWidth, slicer.FieldHeight
}

func main() {
	cfg := slicer.LoadConfig()
	cfg.BindFlags(flag.CommandLine)
	flag.Parse()

	logger := slicer.NewLogger(cfg)

	bank, err := audio.Open(cfg, logger)
	if err != nil {
		logger.Warn("audio unavailable, playing silently", "err", err)
	}

	a := &app{cfg: cfg, log: logger, audio: bank}
	if cfg.Script != "" {
		runner, err := input.LoadScript(cfg.Script)
		if err != nil {
			logger.Fatal("load script", "path", cfg.Script, "err", err)
		}
		a.script = runner
		logger.Info("playing gesture script", "path", cfg.Script)
	}
	a.restart()

	ebiten.SetWindowTitle(windowTitle)
	ebiten.SetWindowSize(slicer.FieldWidth, slicer.FieldHeight)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(a); err != nil && !errors.Is(err, ebiten.Termination) {
		logger.Error("run", "err", err)
		os.Exit(1)
	}
}
