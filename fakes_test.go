package slicer

import (
	"io"
	"math/rand/v2"
	"testing"

	"github.com/charmbracelet/log"
)

// --- Scene ---

type sceneCall struct {
	op   string
	id   TargetID
	kind Kind
	pos  Vec2
	n    int
	dur  float64
	fx   Effect
}

type fakeScene struct {
	calls    []sceneCall
	targets  map[TargetID]Kind
	slice    []Vec2
	shown    int
	fades    []float64
	score    int
	spent    []int
	dissolve []TargetID
	removed  []TargetID
	effects  []sceneCall
}

func newFakeScene() *fakeScene {
	return &fakeScene{targets: make(map[TargetID]Kind)}
}

func (f *fakeScene) AddTarget(id TargetID, kind Kind, pos Vec2) {
	f.targets[id] = kind
	f.calls = append(f.calls, sceneCall{op: "add", id: id, kind: kind, pos: pos})
}

func (f *fakeScene) MoveTarget(id TargetID, pos Vec2, rotation float64) {
	f.calls = append(f.calls, sceneCall{op: "move", id: id, pos: pos})
}

func (f *fakeScene) RemoveTarget(id TargetID) {
	delete(f.targets, id)
	f.removed = append(f.removed, id)
	f.calls = append(f.calls, sceneCall{op: "remove", id: id})
}

func (f *fakeScene) DissolveTarget(id TargetID, duration float64) {
	delete(f.targets, id)
	f.dissolve = append(f.dissolve, id)
	f.calls = append(f.calls, sceneCall{op: "dissolve", id: id, dur: duration})
}

func (f *fakeScene) PlayEffect(effect Effect, pos Vec2) {
	c := sceneCall{op: "effect", fx: effect, pos: pos}
	f.effects = append(f.effects, c)
	f.calls = append(f.calls, c)
}

func (f *fakeScene) DrawSlice(points []Vec2) {
	f.slice = append(f.slice[:0], points...)
}

func (f *fakeScene) ShowSlice() { f.shown++ }

func (f *fakeScene) FadeSlice(duration float64) { f.fades = append(f.fades, duration) }

func (f *fakeScene) SetScore(score int) { f.score = score }

func (f *fakeScene) SpendLife(i int) { f.spent = append(f.spent, i) }

// --- Physics ---

type fakeBody struct {
	pos    Vec2
	vel    Vec2
	rot    float64
	spin   float64
	radius float64
	frozen bool
}

type fakePhysics struct {
	bodies    map[TargetID]*fakeBody
	order     []TargetID
	timeScale float64
	scales    []float64
	removed   []TargetID
	steps     int
}

func newFakePhysics() *fakePhysics {
	return &fakePhysics{bodies: make(map[TargetID]*fakeBody)}
}

func (f *fakePhysics) AddBody(id TargetID, spec BodySpec) {
	f.bodies[id] = &fakeBody{pos: spec.Position, vel: spec.Velocity, spin: spec.AngularVelocity, radius: spec.Radius}
	f.order = append(f.order, id)
}

func (f *fakePhysics) Body(id TargetID) (Vec2, float64, bool) {
	b, ok := f.bodies[id]
	if !ok {
		return Vec2{}, 0, false
	}
	return b.pos, b.rot, true
}

func (f *fakePhysics) Velocity(id TargetID) (Vec2, float64, bool) {
	b, ok := f.bodies[id]
	if !ok {
		return Vec2{}, 0, false
	}
	if b.frozen {
		return Vec2{}, 0, true
	}
	return b.vel, b.spin, true
}

func (f *fakePhysics) Freeze(id TargetID) {
	if b, ok := f.bodies[id]; ok {
		b.frozen = true
	}
}

func (f *fakePhysics) RemoveBody(id TargetID) {
	if _, ok := f.bodies[id]; !ok {
		return
	}
	delete(f.bodies, id)
	f.removed = append(f.removed, id)
	for i, o := range f.order {
		if o == id {
			f.order = append(f.order[:i], f.order[i+1:]...)
			break
		}
	}
}

func (f *fakePhysics) QueryPoint(p Vec2) []TargetID {
	var out []TargetID
	for _, id := range f.order {
		b := f.bodies[id]
		if b.frozen {
			continue
		}
		if p.Sub(b.pos).Len() <= b.radius {
			out = append(out, id)
		}
	}
	return out
}

func (f *fakePhysics) SetTimeScale(scale float64) {
	f.timeScale = scale
	f.scales = append(f.scales, scale)
}

// Step moves bodies in a straight line; the tests place bodies explicitly
// when they need a position.
func (f *fakePhysics) Step(dt float64) {
	f.steps++
	d := dt * f.timeScale
	for _, b := range f.bodies {
		if b.frozen {
			continue
		}
		b.pos = b.pos.Add(Vec2{b.vel.X * d, b.vel.Y * d})
		b.rot += b.spin * d
	}
}

func (f *fakePhysics) place(id TargetID, pos Vec2) {
	if b, ok := f.bodies[id]; ok {
		b.pos = pos
	}
}

// --- Audio ---

type fakeHandle struct {
	sound   Sound
	stopped int
}

func (h *fakeHandle) Stop() { h.stopped++ }

type fakeAudio struct {
	played  []Sound
	loops   []*fakeHandle
	pending []func()
	untils  []Sound
}

func (f *fakeAudio) Play(s Sound) { f.played = append(f.played, s) }

func (f *fakeAudio) Loop(s Sound) Handle {
	h := &fakeHandle{sound: s}
	f.loops = append(f.loops, h)
	return h
}

func (f *fakeAudio) PlayUntilDone(s Sound, done func()) {
	f.untils = append(f.untils, s)
	f.pending = append(f.pending, done)
}

// finish completes every sound started with PlayUntilDone.
func (f *fakeAudio) finish() {
	p := f.pending
	f.pending = nil
	for _, done := range p {
		done()
	}
}

func (f *fakeAudio) count(s Sound) int {
	n := 0
	for _, p := range f.played {
		if p == s {
			n++
		}
	}
	return n
}

// liveFuses returns the fuse handles that were never stopped.
func (f *fakeAudio) liveFuses() int {
	n := 0
	for _, h := range f.loops {
		if h.sound == SoundFuse && h.stopped == 0 {
			n++
		}
	}
	return n
}

// --- Harness ---

type harness struct {
	scene   *fakeScene
	physics *fakePhysics
	audio   *fakeAudio
	clock   *Clock
	session *Session
	spawner *Spawner
	hits    *HitResolver
}

func discardLogger() *log.Logger {
	return log.New(io.Discard)
}

func testRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed+1))
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		scene:   newFakeScene(),
		physics: newFakePhysics(),
		audio:   &fakeAudio{},
		clock:   NewClock(),
	}
	h.session = NewSession(DefaultTuning(), h.scene, h.physics, h.audio, h.clock, discardLogger())
	h.spawner = NewSpawner(h.session, testRand(1))
	h.hits = NewHitResolver(h.session)
	return h
}

func (h *harness) spawn(t *testing.T, force Force) Target {
	t.Helper()
	tg, ok := h.spawner.Spawn(force)
	if !ok {
		t.Fatal("Spawn returned false")
	}
	return tg
}

func newTestGame(t *testing.T) (*Game, *fakeScene, *fakePhysics, *fakeAudio) {
	t.Helper()
	scene := newFakeScene()
	phys := newFakePhysics()
	aud := &fakeAudio{}
	cfg := DefaultConfig()
	cfg.Seed = 42
	g := NewGame(cfg, Deps{Scene: scene, Physics: phys, Audio: aud})
	return g, scene, phys, aud
}
