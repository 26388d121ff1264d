// Command slicer-tty runs the game in a terminal. Drag with the left mouse
// button to slice; r restarts after game over, q or Esc quits.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/gdamore/tcell/v2"

	"github.com/phanxgames/slicer"
	"github.com/phanxgames/slicer/audio"
	"github.com/phanxgames/slicer/physics"
	"github.com/phanxgames/slicer/tty"
)

func main() {
	cfg := slicer.LoadConfig()
	cfg.BindFlags(flag.CommandLine)
	flag.Parse()

	if err := run(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "slicer-tty: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg slicer.Config) error {
	logger := slicer.NewLogger(cfg)

	bank, err := audio.Open(cfg, logger)
	if err != nil {
		logger.Warn("audio unavailable, playing silently", "err", err)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer screen.Fini()
	screen.EnableMouse(tcell.MouseButtonEvents | tcell.MouseDragEvents)
	screen.HideCursor()

	// Logging to stderr would tear the screen.
	logger.SetOutput(io.Discard)

	app := tty.NewApp(screen, cfg.Tuning.TargetRadius, func(scene *tty.Scene) *slicer.Game {
		return slicer.NewGame(cfg, slicer.Deps{
			Scene:   scene,
			Physics: physics.NewWorld(physics.Options{}),
			Audio:   bank,
			Logger:  logger,
		})
	}, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := app.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
