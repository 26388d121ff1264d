package slicer

import "math/rand/v2"

// GestureTracker keeps the bounded polyline of the current slice gesture and
// drives the trail visuals and the swoosh sound slot.
type GestureTracker struct {
	scene Scene
	audio Audio
	timer Timer
	rng   *rand.Rand

	max    int
	fade   float64
	points []Vec2

	// swooshing is set while the single swoosh slot is occupied.
	swooshing bool
}

// NewGestureTracker returns a tracker keeping at most maxPoints samples and
// fading the trail over fade time units when a gesture ends.
func NewGestureTracker(scene Scene, audio Audio, timer Timer, rng *rand.Rand, maxPoints int, fade float64) *GestureTracker {
	if maxPoints < 2 {
		maxPoints = 2
	}
	return &GestureTracker{
		scene:  scene,
		audio:  audio,
		timer:  timer,
		rng:    rng,
		max:    maxPoints,
		fade:   fade,
		points: make([]Vec2, 0, maxPoints+1),
	}
}

// Begin starts a new gesture at p. The previous samples are dropped and the
// trail is made fully opaque again.
func (g *GestureTracker) Begin(p Vec2) {
	g.points = append(g.points[:0], p)
	g.scene.ShowSlice()
	g.scene.DrawSlice(g.points)
}

// Extend appends p, evicting the oldest samples beyond the bound, redraws the
// trail and starts a swoosh when the slot is free.
func (g *GestureTracker) Extend(p Vec2) {
	g.points = append(g.points, p)
	if over := len(g.points) - g.max; over > 0 {
		n := copy(g.points, g.points[over:])
		g.points = g.points[:n]
	}
	g.scene.DrawSlice(g.points)

	if g.swooshing {
		return
	}
	g.swooshing = true
	s := SwooshSounds[g.rng.IntN(len(SwooshSounds))]
	g.audio.PlayUntilDone(s, func() {
		g.timer.After(0, g.releaseSwoosh)
	})
}

// End fades the trail out. The samples stay until the next Begin.
func (g *GestureTracker) End() {
	g.scene.FadeSlice(g.fade)
}

// Cancel ends the gesture gracefully.
func (g *GestureTracker) Cancel() {
	g.End()
}

// Points returns a copy of the current samples, oldest first.
func (g *GestureTracker) Points() []Vec2 {
	out := make([]Vec2, len(g.points))
	copy(out, g.points)
	return out
}

// Swooshing reports whether the swoosh slot is occupied.
func (g *GestureTracker) Swooshing() bool {
	return g.swooshing
}

func (g *GestureTracker) releaseSwoosh() {
	g.swooshing = false
}
