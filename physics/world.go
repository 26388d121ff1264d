// Package physics adapts a Chipmunk2D space ([cp]) to the slicer Physics
// collaborator. Positions are in field pixels; gravity is given in world
// units and scaled by Options.PixelsPerUnit.
package physics

import (
	"sort"

	"github.com/jakecoffman/cp"

	"github.com/phanxgames/slicer"
)

// targetGroup puts every target shape in one collision group so targets
// pass through each other.
const targetGroup uint = 1

const categoryTarget uint = 1 << 0

// maxSubstep bounds a single space step, in seconds of scaled time.
const maxSubstep = 1.0 / 120

// Options configures a World. Zero fields take defaults.
type Options struct {
	// Gravity in world units per second squared. Default (0, -6).
	Gravity slicer.Vec2
	// PixelsPerUnit converts world units to field pixels. Default 150.
	PixelsPerUnit float64
}

type body struct {
	body   *cp.Body
	shape  *cp.Shape
	frozen bool
	pos    slicer.Vec2
	angle  float64
}

// World is a cp space holding one circular body per target.
type World struct {
	space     *cp.Space
	bodies    map[slicer.TargetID]*body
	timeScale float64
	queryBuf  []slicer.TargetID
}

// NewWorld returns an empty world running at time scale 1.
func NewWorld(opts Options) *World {
	if opts.Gravity == (slicer.Vec2{}) {
		opts.Gravity = slicer.Vec2{X: 0, Y: -6}
	}
	if opts.PixelsPerUnit <= 0 {
		opts.PixelsPerUnit = 150
	}
	space := cp.NewSpace()
	space.SetGravity(cp.Vector{
		X: opts.Gravity.X * opts.PixelsPerUnit,
		Y: opts.Gravity.Y * opts.PixelsPerUnit,
	})
	return &World{
		space:     space,
		bodies:    make(map[slicer.TargetID]*body),
		timeScale: 1,
	}
}

// AddBody creates a dynamic circular body for id. A body already registered
// under id is replaced.
func (w *World) AddBody(id slicer.TargetID, spec slicer.BodySpec) {
	if _, ok := w.bodies[id]; ok {
		w.RemoveBody(id)
	}
	r := spec.Radius
	if r <= 0 {
		r = 1
	}
	const mass = 1.0
	b := w.space.AddBody(cp.NewBody(mass, cp.MomentForCircle(mass, 0, r, cp.Vector{})))
	b.SetPosition(cp.Vector{X: spec.Position.X, Y: spec.Position.Y})
	b.SetVelocity(spec.Velocity.X, spec.Velocity.Y)
	b.SetAngularVelocity(spec.AngularVelocity)
	b.UserData = id

	shape := cp.NewCircle(b, r, cp.Vector{})
	shape.SetFilter(cp.NewShapeFilter(targetGroup, categoryTarget, cp.ALL_CATEGORIES))
	shape.UserData = id
	w.space.AddShape(shape)

	w.bodies[id] = &body{body: b, shape: shape, pos: spec.Position}
}

// Body returns the position and rotation of id.
func (w *World) Body(id slicer.TargetID) (slicer.Vec2, float64, bool) {
	b, ok := w.bodies[id]
	if !ok {
		return slicer.Vec2{}, 0, false
	}
	if b.frozen {
		return b.pos, b.angle, true
	}
	p := b.body.Position()
	return slicer.Vec2{X: p.X, Y: p.Y}, b.body.Angle(), true
}

// Velocity returns the linear and angular velocity of id. A frozen body is
// at rest.
func (w *World) Velocity(id slicer.TargetID) (slicer.Vec2, float64, bool) {
	b, ok := w.bodies[id]
	if !ok {
		return slicer.Vec2{}, 0, false
	}
	if b.frozen {
		return slicer.Vec2{}, 0, true
	}
	v := b.body.Velocity()
	return slicer.Vec2{X: v.X, Y: v.Y}, b.body.AngularVelocity(), true
}

// Freeze takes id out of the simulation. Its last pose is kept for Body.
func (w *World) Freeze(id slicer.TargetID) {
	b, ok := w.bodies[id]
	if !ok || b.frozen {
		return
	}
	p := b.body.Position()
	b.pos = slicer.Vec2{X: p.X, Y: p.Y}
	b.angle = b.body.Angle()
	w.detach(b)
	b.frozen = true
}

// RemoveBody forgets id.
func (w *World) RemoveBody(id slicer.TargetID) {
	b, ok := w.bodies[id]
	if !ok {
		return
	}
	if !b.frozen {
		w.detach(b)
	}
	delete(w.bodies, id)
}

func (w *World) detach(b *body) {
	w.space.RemoveShape(b.shape)
	w.space.RemoveBody(b.body)
}

// QueryPoint returns the simulated bodies containing p, oldest first.
func (w *World) QueryPoint(p slicer.Vec2) []slicer.TargetID {
	v := cp.Vector{X: p.X, Y: p.Y}
	w.queryBuf = w.queryBuf[:0]
	w.space.BBQuery(cp.NewBBForCircle(v, 0), cp.SHAPE_FILTER_ALL, func(shape *cp.Shape, _ interface{}) {
		id, ok := shape.UserData.(slicer.TargetID)
		if !ok {
			return
		}
		if shape.PointQuery(v).Distance <= 0 {
			w.queryBuf = append(w.queryBuf, id)
		}
	}, nil)
	if len(w.queryBuf) == 0 {
		return nil
	}
	out := make([]slicer.TargetID, len(w.queryBuf))
	copy(out, w.queryBuf)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// SetTimeScale scales simulated time. Zero or less freezes the world.
func (w *World) SetTimeScale(scale float64) {
	w.timeScale = scale
}

// TimeScale returns the current time scale.
func (w *World) TimeScale() float64 {
	return w.timeScale
}

// Step advances the simulation by dt seconds of real time.
func (w *World) Step(dt float64) {
	if dt <= 0 || w.timeScale <= 0 {
		return
	}
	remaining := dt * w.timeScale
	for remaining > 0 {
		h := min(remaining, maxSubstep)
		w.space.Step(h)
		remaining -= h
	}
}

// Len returns the number of bodies, frozen ones included.
func (w *World) Len() int {
	return len(w.bodies)
}
