// Package render draws a slicer game with ebiten. Scene implements
// slicer.Scene on a small retained node tree: targets, effects, the slice
// trail and the HUD are nodes, and every frame the tree is flattened into
// draw commands in screen space.
package render

import (
	"fmt"
	"math/rand/v2"

	"github.com/tanema/gween/ease"

	"github.com/phanxgames/slicer"
)

// Layer Z order, back to front.
const (
	zTargets = iota
	zBombs
	zEffects
	zTrail
	zHUD
	zBanner
)

// Look of the scene.
var (
	backgroundColor = Color{0.09, 0.11, 0.16, 1}
	safeColor       = Color{0.2, 0.75, 0.35, 1}
	safeEyeColor    = Color{1, 1, 1, 1}
	bombColor       = Color{0.14, 0.14, 0.17, 1}
	bombShineColor  = Color{0.45, 0.45, 0.5, 1}
	bombCapColor    = Color{0.6, 0.5, 0.3, 1}
	lifeColor       = Color{0.9, 0.2, 0.2, 1}
	lifeGoneColor   = Color{0.35, 0.35, 0.35, 0.6}
)

const (
	lifeRadius = 24
	// lifePulse is the scale a spent indicator starts from.
	lifePulse         = 1.3
	lifePulseDuration = 0.1
	// dissolveScale is the scale a dissolving target shrinks to.
	dissolveScale = 0.001

	sliceHitParticles  = 24
	explosionParticles = 120
)

// Options configures a Scene. Zero fields take defaults.
type Options struct {
	// TargetRadius is the drawn radius of targets. Default 64.
	TargetRadius float64
	// Debug shows the FPS overlay and logs frame stats to stderr.
	Debug bool
	// ScreenshotDir receives captured PNGs. Default "screenshots".
	ScreenshotDir string
	// Seed feeds the particle random source.
	Seed uint64
}

type targetVisual struct {
	node *Node
	kind slicer.Kind
	fuse *Emitter
}

// Scene is the ebiten-backed slicer.Scene.
type Scene struct {
	opts Options
	rng  *rand.Rand

	root    *Node
	targets *Node
	bombs   *Node
	effects *Node
	hud     *Node

	visuals map[slicer.TargetID]*targetVisual
	bursts  []*Node

	trail     *Trail
	trailFade *TweenGroup

	score      int
	scoreLabel *Node
	lives      [slicer.MaxLives]*Node
	spent      [slicer.MaxLives]bool
	banner     *Node

	anim animator

	// ScreenshotDir receives PNGs queued with Screenshot.
	ScreenshotDir   string
	screenshotQueue []string

	cmds  []Command
	fps   fpsOverlay
	stats debugStats
}

// NewScene builds an empty scene with the HUD in place.
func NewScene(opts Options) *Scene {
	if opts.TargetRadius <= 0 {
		opts.TargetRadius = 64
	}
	if opts.ScreenshotDir == "" {
		opts.ScreenshotDir = "screenshots"
	}
	s := &Scene{
		opts:          opts,
		rng:           rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x5eed)),
		root:          NewContainer("root"),
		visuals:       make(map[slicer.TargetID]*targetVisual),
		ScreenshotDir: opts.ScreenshotDir,
	}

	s.targets = s.layer("targets", zTargets)
	s.bombs = s.layer("bombs", zBombs)
	s.effects = s.layer("effects", zEffects)

	s.trail = newTrail()
	s.trail.node.ZIndex = zTrail
	s.root.AddChild(s.trail.node)

	s.hud = s.layer("hud", zHUD)
	s.scoreLabel = NewLabel("score", "")
	s.scoreLabel.X, s.scoreLabel.Y = slicer.ScorePosition.X, slicer.ScorePosition.Y
	s.hud.AddChild(s.scoreLabel)
	s.SetScore(0)
	for i := range s.lives {
		p := slicer.LifeIndicatorPosition(i)
		n := NewCircle(fmt.Sprintf("life-%d", i), lifeRadius, lifeColor)
		n.X, n.Y = p.X, p.Y
		s.lives[i] = n
		s.hud.AddChild(n)
	}
	return s
}

func (s *Scene) layer(name string, z int) *Node {
	n := NewContainer(name)
	n.ZIndex = z
	s.root.AddChild(n)
	return n
}

// Root returns the root node.
func (s *Scene) Root() *Node {
	return s.root
}

// --- slicer.Scene ---

// AddTarget builds the visuals for a target. Bombs go to a layer above safe
// targets and carry a burning fuse.
func (s *Scene) AddTarget(id slicer.TargetID, kind slicer.Kind, pos slicer.Vec2) {
	if _, ok := s.visuals[id]; ok {
		s.RemoveTarget(id)
	}
	r := s.opts.TargetRadius
	node := NewContainer(fmt.Sprintf("target-%d", id))
	node.X, node.Y = pos.X, pos.Y
	v := &targetVisual{node: node, kind: kind}

	switch kind {
	case slicer.KindBomb:
		node.AddChild(NewCircle("body", r, bombColor))
		shine := NewCircle("shine", r*0.22, bombShineColor)
		shine.X, shine.Y = -r*0.35, r*0.35
		node.AddChild(shine)
		fuseCap := NewCircle("cap", r*0.2, bombCapColor)
		fuseCap.X, fuseCap.Y = slicer.FuseOffset.X*0.75, slicer.FuseOffset.Y*0.75
		node.AddChild(fuseCap)
		v.fuse = NewEmitter(fuseConfig(), s.rng)
		v.fuse.Start()
		spark := NewEmitterNode("fuse", v.fuse)
		spark.X, spark.Y = slicer.FuseOffset.X, slicer.FuseOffset.Y
		node.AddChild(spark)
		s.bombs.AddChild(node)
	default:
		node.AddChild(NewCircle("body", r, safeColor))
		eye := NewCircle("eye", r*0.25, safeEyeColor)
		eye.X, eye.Y = r*0.4, r*0.3
		node.AddChild(eye)
		s.targets.AddChild(node)
	}
	s.visuals[id] = v
}

// MoveTarget places a target's visuals.
func (s *Scene) MoveTarget(id slicer.TargetID, pos slicer.Vec2, rotation float64) {
	v, ok := s.visuals[id]
	if !ok {
		return
	}
	v.node.X, v.node.Y = pos.X, pos.Y
	v.node.Rotation = rotation
}

// RemoveTarget cancels the target's animations and drops it.
func (s *Scene) RemoveTarget(id slicer.TargetID) {
	v, ok := s.visuals[id]
	if !ok {
		return
	}
	s.anim.cancel(v.node)
	v.node.Dispose()
	delete(s.visuals, id)
}

// DissolveTarget shrinks and fades a target over duration, then drops it.
func (s *Scene) DissolveTarget(id slicer.TargetID, duration float64) {
	v, ok := s.visuals[id]
	if !ok {
		return
	}
	if v.fuse != nil {
		v.fuse.Stop()
	}
	s.anim.cancel(v.node)
	g := TweenDissolve(v.node, dissolveScale, float32(duration))
	g.OnDone = func() {
		if cur, ok := s.visuals[id]; ok && cur == v {
			s.RemoveTarget(id)
		}
	}
	s.anim.add(g)
}

// PlayEffect bursts particles at pos.
func (s *Scene) PlayEffect(effect slicer.Effect, pos slicer.Vec2) {
	var e *Emitter
	switch effect {
	case slicer.EffectExplosion:
		e = NewEmitter(explosionConfig(), s.rng)
		e.Burst(explosionParticles)
	default:
		e = NewEmitter(sliceHitConfig(), s.rng)
		e.Burst(sliceHitParticles)
	}
	n := NewEmitterNode("burst", e)
	n.X, n.Y = pos.X, pos.Y
	s.effects.AddChild(n)
	s.bursts = append(s.bursts, n)
}

// DrawSlice replaces the trail polyline.
func (s *Scene) DrawSlice(points []slicer.Vec2) {
	s.trail.SetPoints(points)
}

// ShowSlice cancels a running fade and shows the trail.
func (s *Scene) ShowSlice() {
	if s.trailFade != nil {
		s.trailFade.Cancel()
		s.trailFade = nil
	}
	s.trail.node.Alpha = 1
}

// FadeSlice fades the trail out over duration.
func (s *Scene) FadeSlice(duration float64) {
	if s.trailFade != nil {
		s.trailFade.Cancel()
	}
	s.trailFade = s.anim.add(TweenAlpha(s.trail.node, 0, float32(duration), ease.Linear))
}

// SetScore updates the score label.
func (s *Scene) SetScore(score int) {
	s.score = score
	s.scoreLabel.Text = fmt.Sprintf("Score: %d", score)
}

// SpendLife switches indicator i to the spent look and pulses it.
func (s *Scene) SpendLife(i int) {
	if i < 0 || i >= len(s.lives) {
		return
	}
	n := s.lives[i]
	s.spent[i] = true
	n.Color = lifeGoneColor
	s.anim.cancel(n)
	n.ScaleX, n.ScaleY = lifePulse, lifePulse
	s.anim.add(TweenScale(n, 1, 1, lifePulseDuration, ease.Linear))
}

// --- frontend surface ---

// ShowBanner centers a message over the field until ClearBanner.
func (s *Scene) ShowBanner(text string) {
	if s.banner == nil {
		s.banner = NewLabel("banner", "")
		s.banner.ZIndex = zBanner
		s.root.AddChild(s.banner)
	}
	s.banner.Text = text
	s.banner.X = slicer.FieldWidth/2 - float64(len(text))*debugGlyphWidth/2
	s.banner.Y = slicer.FieldHeight / 2
}

// ClearBanner removes the banner.
func (s *Scene) ClearBanner() {
	if s.banner != nil {
		s.banner.Dispose()
		s.banner = nil
	}
}

// Banner returns the banner text, empty when none is shown.
func (s *Scene) Banner() string {
	if s.banner == nil {
		return ""
	}
	return s.banner.Text
}

// Score returns the displayed score.
func (s *Scene) Score() int { return s.score }

// ScoreText returns the score label.
func (s *Scene) ScoreText() string { return s.scoreLabel.Text }

// LifeSpent reports whether indicator i shows as spent.
func (s *Scene) LifeSpent(i int) bool {
	return i >= 0 && i < len(s.spent) && s.spent[i]
}

// LifeIndicator returns the node of indicator i.
func (s *Scene) LifeIndicator(i int) *Node { return s.lives[i] }

// Target returns the visual root of a target.
func (s *Scene) Target(id slicer.TargetID) (*Node, bool) {
	v, ok := s.visuals[id]
	if !ok {
		return nil, false
	}
	return v.node, true
}

// TargetKind returns the kind a target was added with.
func (s *Scene) TargetKind(id slicer.TargetID) (slicer.Kind, bool) {
	v, ok := s.visuals[id]
	if !ok {
		return 0, false
	}
	return v.kind, true
}

// TargetCount returns the number of targets on screen.
func (s *Scene) TargetCount() int { return len(s.visuals) }

// Trail returns the slice trail.
func (s *Scene) Trail() *Trail { return s.trail }

// TrailAlpha returns the trail opacity.
func (s *Scene) TrailAlpha() float64 { return s.trail.node.Alpha }

// Bursts returns the number of effect emitters still playing.
func (s *Scene) Bursts() int { return len(s.bursts) }

// Animating returns the number of running tweens.
func (s *Scene) Animating() int { return s.anim.len() }

// Update advances tweens and particles by dt seconds.
func (s *Scene) Update(dt float64) {
	s.anim.update(dt)
	updateEmitters(s.root, dt)

	live := s.bursts[:0]
	for _, n := range s.bursts {
		if n.Emitter == nil || n.Emitter.Finished() {
			n.Dispose()
			continue
		}
		live = append(live, n)
	}
	for i := len(live); i < len(s.bursts); i++ {
		s.bursts[i] = nil
	}
	s.bursts = live

	if s.opts.Debug {
		s.fps.update(dt)
	}
}

func updateEmitters(n *Node, dt float64) {
	if n.Emitter != nil {
		n.Emitter.update(dt)
	}
	for _, c := range n.children {
		updateEmitters(c, dt)
	}
}

var _ slicer.Scene = (*Scene)(nil)
