// Package slicer is the gameplay core of a reflex slicing arcade game.
//
// Targets are launched from below the play field and fall back under
// gravity. The player slices them with pointer gestures: a sliced safe
// target scores a point, a sliced bomb ends the game, and a safe target
// that falls off the field costs one of three lives.
//
// The core has no rendering, physics or audio code of its own. It drives
// small collaborators. [Scene], [Physics] and [Audio] are implemented by the
// render, tty, physics and audio packages; [Timer] is the core's own [Clock].
//
// # Quick start
//
//	cfg := slicer.LoadConfig()
//	game := slicer.NewGame(cfg, slicer.Deps{
//		Scene:   scene,
//		Physics: physics.NewWorld(physics.Options{}),
//		Audio:   bank,
//		Logger:  slicer.NewLogger(cfg),
//	})
//
//	// every frame
//	game.Update(dt)
//
//	// from input plumbing
//	game.OnGestureBegin(p)
//	game.OnGestureExtend(p)
//	game.OnGestureEnd()
//
// # Components
//
// [Game] wires a [Session] (score, lives, ended flag, difficulty ramp and
// the fuse sound handle) to a [GestureTracker], a [Spawner], a [Scheduler]
// walking the batch timeline, and a [HitResolver]. All of them run on one
// goroutine; the [Clock] fires delayed callbacks from [Game.Update].
//
// Active targets live in a [Registry] backed by a [donburi] world. The same
// world carries the [GameEvent] stream delivered through [Game.Subscribe].
//
// [donburi]: https://github.com/yohamta/donburi
package slicer
